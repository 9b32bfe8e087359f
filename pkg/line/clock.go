package line

import (
	"runtime"
	"time"
)

// SpinThreshold is the longest hold SystemClock busy-waits for.
// Longer holds use time.Sleep.
const SpinThreshold = 2 * time.Millisecond

// SystemClock is the monotonic wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep implements Clock. Short holds spin since the scheduler cannot
// wake a goroutine with microsecond precision.
func (SystemClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if d > SpinThreshold {
		time.Sleep(d)
		return
	}
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		runtime.Gosched()
	}
}
