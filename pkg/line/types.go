// Package line defines the digital line and clock capabilities the link
// drives and samples.
package line

import (
	"io"
	"time"
)

// Output is a digital output line driving the light source.
type Output interface {
	Set(high bool) error
}

// Input is a digital input line sampling the photo-sensor.
type Input interface {
	Read() (bool, error)
}

// Clock is a monotonic clock with microsecond holds.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// OutputLine is an Output with its own clock.
type OutputLine interface {
	io.Closer
	Output
	Clock
}

// InputLine is an Input with its own clock.
type InputLine interface {
	io.Closer
	Input
	Clock
}
