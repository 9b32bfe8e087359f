package link

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/optolink/pkg/bits"
	"github.com/robotalks/optolink/pkg/frame"
	"github.com/robotalks/optolink/pkg/huffman"
	"github.com/robotalks/optolink/pkg/line"
	"github.com/robotalks/optolink/pkg/pulse"
)

// pollCheckEvery is the number of line samples between context checks
// while busy-polling for an edge.
const pollCheckEvery = 4096

// Receiver samples the input line, classifies pulses and decodes frames.
type Receiver struct {
	Line     line.Input
	Clock    line.Clock
	Protocol *pulse.Protocol
	Codebook *huffman.Codebook
	// Pad is the number of zero bits between payload and checksum.
	Pad     int
	Handler ResultHandler
	// Interval is the delay before re-arming after a frame in Run.
	Interval time.Duration

	state stateVar
}

// NewReceiver creates a receiver on a line with its own clock.
func NewReceiver(in line.InputLine, protocol *pulse.Protocol, codebook *huffman.Codebook, pad int) *Receiver {
	return &Receiver{
		Line:     in,
		Clock:    in,
		Protocol: protocol,
		Codebook: codebook,
		Pad:      pad,
	}
}

// Name implements framework.Named.
func (r *Receiver) Name() string {
	return "receiver"
}

// State returns the current state.
func (r *Receiver) State() RxState {
	return RxState(r.state.load())
}

func (r *Receiver) setState(s RxState) {
	r.state.store(int32(s))
}

// waitLevel polls until the line reads level.
func (r *Receiver) waitLevel(ctx context.Context, level bool) error {
	for n := 1; ; n++ {
		val, err := r.Line.Read()
		if err != nil {
			return fmt.Errorf("receiver line: %w", err)
		}
		if val == level {
			return nil
		}
		if n%pollCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}

// measure waits for the next high pulse and returns its duration.
func (r *Receiver) measure(ctx context.Context) (time.Duration, error) {
	if err := r.waitLevel(ctx, true); err != nil {
		return 0, err
	}
	start := r.Clock.Now()
	if err := r.waitLevel(ctx, false); err != nil {
		return 0, err
	}
	return r.Clock.Now().Sub(start), nil
}

func (r *Receiver) awaitInitiation(ctx context.Context) error {
	r.setState(RxAwaitingInitiation)
	for {
		d, err := r.measure(ctx)
		if err != nil {
			return err
		}
		c := r.Protocol.Classify(d)
		if c == pulse.Initiation {
			return nil
		}
		glog.V(3).Infof("awaiting initiation: ignored %v pulse of %v", c, d)
	}
}

func (r *Receiver) receiveBits(ctx context.Context) (bits.Seq, int, error) {
	r.setState(RxReceivingBits)
	var seq bits.Seq
	var noise int
	for {
		d, err := r.measure(ctx)
		if err != nil {
			return seq, noise, err
		}
		switch c := r.Protocol.Classify(d); c {
		case pulse.Zero, pulse.One:
			seq = append(seq, c.Bit())
		case pulse.Termination:
			return seq, noise, nil
		default:
			noise++
			glog.V(3).Infof("bit %d: ignored %v pulse of %v", len(seq), c, d)
		}
	}
}

// Receive runs one reception cycle: await the initiation marker, collect
// bits until the termination marker, then validate and decode.
func (r *Receiver) Receive(ctx context.Context) (*Result, error) {
	defer r.setState(RxAwaitingInitiation)
	if err := r.awaitInitiation(ctx); err != nil {
		return nil, err
	}
	res := &Result{Started: r.Clock.Now()}
	seq, noise, err := r.receiveBits(ctx)
	if err != nil {
		return nil, err
	}
	r.setState(RxDone)
	res.Bits, res.Noise = seq, noise
	res.Verdict = frame.Validate(seq, r.Protocol.Acceptance)
	if res.Corrupted = !res.Verdict.Valid; !res.Corrupted {
		payload, err := frame.Strip(seq, r.Pad)
		if err != nil {
			res.Corrupted = true
		} else if res.Message, err = r.Codebook.Decode(payload); err != nil {
			return nil, err
		}
	}
	res.Finished = r.Clock.Now()
	return res, nil
}

// Run receives frames until ctx is done or the line fails.
func (r *Receiver) Run(ctx context.Context) error {
	glog.Info("awaiting transmission")
	for {
		res, err := r.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if res.Corrupted {
			glog.Warningf("corrupted frame: %d bits, fidelity %.5f", len(res.Bits), res.Verdict.Fidelity)
		} else {
			glog.V(2).Infof("frame: %d bits, fidelity %.5f, %v", len(res.Bits), res.Verdict.Fidelity, res.Elapsed())
		}
		if r.Handler != nil {
			r.Handler.HandleResult(ctx, res)
		}
		if err := waitInterval(ctx, r.Clock, r.Interval); err != nil {
			return err
		}
	}
}
