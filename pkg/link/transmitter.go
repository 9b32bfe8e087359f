package link

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/optolink/pkg/bits"
	"github.com/robotalks/optolink/pkg/frame"
	"github.com/robotalks/optolink/pkg/line"
	"github.com/robotalks/optolink/pkg/pulse"
)

// DefaultInterval is the delay between repeated messages.
const DefaultInterval = 500 * time.Millisecond

// Transmitter drives the output line through the pulse sequence of a frame.
type Transmitter struct {
	Line     line.Output
	Clock    line.Clock
	Protocol *pulse.Protocol
	// Frame is the frame Run repeats.
	Frame *frame.Frame
	// Interval is the delay between frames in Run.
	Interval time.Duration

	state  stateVar
	bit    int64
	frames uint64
}

// NewTransmitter creates a transmitter on a line with its own clock.
func NewTransmitter(out line.OutputLine, protocol *pulse.Protocol) *Transmitter {
	return &Transmitter{
		Line:     out,
		Clock:    out,
		Protocol: protocol,
		Interval: DefaultInterval,
	}
}

// Name implements framework.Named.
func (t *Transmitter) Name() string {
	return "transmitter"
}

// State returns the current state.
func (t *Transmitter) State() TxState {
	return TxState(t.state.load())
}

// BitIndex returns the index of the bit being sent in SendingBit.
func (t *Transmitter) BitIndex() int {
	return int(atomic.LoadInt64(&t.bit))
}

// Frames returns the number of frames completely sent.
func (t *Transmitter) Frames() uint64 {
	return atomic.LoadUint64(&t.frames)
}

func (t *Transmitter) setState(s TxState) {
	t.state.store(int32(s))
}

func (t *Transmitter) set(high bool) error {
	if err := t.Line.Set(high); err != nil {
		return fmt.Errorf("transmitter line: %w", err)
	}
	return nil
}

// pulse drives the line high for hold followed by a low gap.
func (t *Transmitter) pulse(hold, gap time.Duration) error {
	if err := t.set(true); err != nil {
		return err
	}
	t.Clock.Sleep(hold)
	if err := t.set(false); err != nil {
		return err
	}
	t.Clock.Sleep(gap)
	return nil
}

// Send sends one frame worth of bits: initiation marker, one pulse per
// bit, termination marker. The line is left low.
func (t *Transmitter) Send(ctx context.Context, seq bits.Seq) error {
	defer t.setState(TxIdle)
	timing := &t.Protocol.Timing

	t.setState(TxInitiating)
	if err := t.set(false); err != nil {
		return err
	}
	t.Clock.Sleep(timing.Lead)
	if err := t.pulse(timing.Initiation, timing.Gap); err != nil {
		return err
	}

	t.setState(TxSendingBit)
	for n, bit := range seq {
		if err := ctx.Err(); err != nil {
			return err
		}
		atomic.StoreInt64(&t.bit, int64(n))
		if err := t.pulse(timing.Hold(bit), timing.Gap); err != nil {
			return err
		}
	}

	t.setState(TxTerminating)
	if err := t.pulse(timing.Termination, timing.Gap); err != nil {
		return err
	}
	atomic.AddUint64(&t.frames, 1)
	return nil
}

// Run repeats Frame with Interval in between until ctx is done.
func (t *Transmitter) Run(ctx context.Context) error {
	if t.Frame == nil {
		return fmt.Errorf("transmitter: no frame")
	}
	glog.Infof("transmitting %d bits (pad %d) every %v", t.Frame.Len(), t.Frame.Pad, t.Interval)
	for {
		if err := t.Send(ctx, t.Frame.Bits); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		glog.V(2).Infof("frame %d sent", t.Frames())
		if err := waitInterval(ctx, t.Clock, t.Interval); err != nil {
			return err
		}
	}
}

// waitInterval sleeps on clock for d in slices, stopping early on ctx.
func waitInterval(ctx context.Context, clock line.Clock, d time.Duration) error {
	const slice = 10 * time.Millisecond
	for left := d; left > 0; left -= slice {
		if err := ctx.Err(); err != nil {
			return err
		}
		step := slice
		if left < step {
			step = left
		}
		clock.Sleep(step)
	}
	return ctx.Err()
}
