package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/optolink/pkg/line"
)

const usec = time.Microsecond

// drive sends high pulses separated by 50us lows, then closes out.
func drive(out line.OutputLine, lead time.Duration, holds ...time.Duration) error {
	defer out.Close()
	out.Sleep(lead)
	for _, d := range holds {
		if err := out.Set(true); err != nil {
			return err
		}
		out.Sleep(d)
		if err := out.Set(false); err != nil {
			return err
		}
		out.Sleep(50 * usec)
	}
	return nil
}

// measure reads n high pulse widths.
func measure(in line.InputLine, n int) ([]time.Duration, error) {
	var widths []time.Duration
	for len(widths) < n {
		high, err := in.Read()
		if err != nil {
			return widths, err
		}
		if !high {
			continue
		}
		start := in.Now()
		for high {
			if high, err = in.Read(); err != nil {
				return widths, err
			}
		}
		widths = append(widths, in.Now().Sub(start))
	}
	return widths, nil
}

func TestChannelExactHolds(t *testing.T) {
	ch := NewChannel(DefaultOptions())
	holds := []time.Duration{500 * usec, 10 * usec, 150 * usec, 1200 * usec}
	errCh := make(chan error, 1)
	go func() {
		errCh <- drive(ch.Output(), 50*usec, holds...)
	}()
	widths, err := measure(ch.Input(), len(holds))
	require.NoError(t, err)
	require.NoError(t, <-errCh)
	require.Equal(t, holds, widths)
}

func TestChannelClosed(t *testing.T) {
	ch := NewChannel(DefaultOptions())
	out := ch.Output()
	require.NoError(t, out.Set(true))
	out.Sleep(10 * usec)
	ch.Close()
	require.Equal(t, ErrClosed, out.Set(false))

	in := ch.Input()
	var err error
	for i := 0; i < 20 && err == nil; i++ {
		_, err = in.Read()
	}
	require.Equal(t, ErrClosed, err)
}

func TestChannelLatency(t *testing.T) {
	opts := DefaultOptions()
	opts.Latency = 15 * usec
	ch := NewChannel(opts)
	errCh := make(chan error, 1)
	go func() {
		errCh <- drive(ch.Output(), 50*usec, 10*usec, 100*usec)
	}()
	widths, err := measure(ch.Input(), 2)
	require.NoError(t, err)
	require.NoError(t, <-errCh)
	require.Equal(t, []time.Duration{25 * usec, 115 * usec}, widths)
}

func TestChannelJitter(t *testing.T) {
	opts := DefaultOptions()
	opts.Jitter = 3 * usec
	opts.Seed = 42
	ch := NewChannel(opts)
	holds := []time.Duration{100 * usec, 100 * usec, 100 * usec, 100 * usec}
	errCh := make(chan error, 1)
	go func() {
		errCh <- drive(ch.Output(), 50*usec, holds...)
	}()
	widths, err := measure(ch.Input(), len(holds))
	require.NoError(t, err)
	require.NoError(t, <-errCh)
	for _, w := range widths {
		// edge shifts plus one poll of sampling error on each edge
		require.True(t, w >= 92*usec && w <= 108*usec, "width %v", w)
	}
}

func TestChannelStray(t *testing.T) {
	ch := NewChannel(DefaultOptions())
	ch.AddStray(20*usec, 300*usec)
	errCh := make(chan error, 1)
	go func() {
		errCh <- drive(ch.Output(), 400*usec, 10*usec)
	}()
	widths, err := measure(ch.Input(), 2)
	require.NoError(t, err)
	require.NoError(t, <-errCh)
	require.Equal(t, []time.Duration{300 * usec, 10 * usec}, widths)
	require.Equal(t, 2, ch.Edges())
}

func TestChannelMaxLead(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxLead = 100 * usec
	ch := NewChannel(opts)
	done := make(chan struct{})
	go func() {
		out := ch.Output()
		for i := 0; i < 10; i++ {
			out.Sleep(100 * usec)
		}
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("output ran ahead without a reader")
	case <-time.After(50 * time.Millisecond):
	}
	ch.Input().Sleep(time.Millisecond)
	<-done
}
