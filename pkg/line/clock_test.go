package line

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSystemClockSleep(t *testing.T) {
	var c Clock = SystemClock{}
	for _, d := range []time.Duration{0, 200 * time.Microsecond, 3 * time.Millisecond} {
		start := c.Now()
		c.Sleep(d)
		require.True(t, c.Now().Sub(start) >= d, "sleep %v", d)
	}
}
