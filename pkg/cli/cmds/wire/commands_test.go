package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/optolink/pkg/pulse"
)

func TestParseMicros(t *testing.T) {
	ds, err := ParseMicros([]string{"500", "10.5", "1ms"})
	require.NoError(t, err)
	require.Equal(t, []time.Duration{500 * time.Microsecond, 10500 * time.Nanosecond, time.Millisecond}, ds)
	_, err = ParseMicros([]string{"abc"})
	require.Error(t, err)
}

func TestClassifyAll(t *testing.T) {
	p := pulse.DefaultProtocol()
	ds, err := ParseMicros([]string{"500", "10", "150", "1000", "300"})
	require.NoError(t, err)
	var classes []string
	for _, c := range ClassifyAll(&p, ds) {
		classes = append(classes, c.Class)
	}
	require.Equal(t, []string{"INIT", "0", "1", "TERM", "NOISE"}, classes)
}

func TestDescribeProtocol(t *testing.T) {
	p := pulse.DefaultProtocol()
	desc := DescribeProtocol(&p)
	require.Contains(t, desc, "INIT hold 500µs")
	require.Contains(t, desc, "acceptance 0.995")
}

func TestParseSimulateArgs(t *testing.T) {
	opts, err := ParseSimulateArgs(nil)
	require.NoError(t, err)
	require.Equal(t, 1, opts.Frames)
	require.Equal(t, time.Microsecond, opts.Channel.PollInterval)

	opts, err = ParseSimulateArgs([]string{"-n", "3", "-jitter", "5us", "-latency", "2us"})
	require.NoError(t, err)
	require.Equal(t, 3, opts.Frames)
	require.Equal(t, 5*time.Microsecond, opts.Channel.Jitter)
	require.Equal(t, 2*time.Microsecond, opts.Channel.Latency)

	_, err = ParseSimulateArgs([]string{"-n", "0"})
	require.Error(t, err)
	_, err = ParseSimulateArgs([]string{"-bogus"})
	require.Error(t, err)
}
