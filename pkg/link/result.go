package link

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robotalks/optolink/pkg/bits"
	"github.com/robotalks/optolink/pkg/frame"
)

// Result is the outcome of receiving one frame.
type Result struct {
	// Message is the decoded text, empty when Corrupted.
	Message   string
	Corrupted bool
	Verdict   frame.Verdict
	// Bits are the received bits including pad and checksum.
	Bits bits.Seq
	// Noise counts pulses ignored while receiving bits.
	Noise int
	// Started is when the initiation marker ended.
	Started time.Time
	// Finished is when the frame was validated.
	Finished time.Time
}

// Elapsed is the reception time from initiation to validation.
func (r *Result) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// KBPerSecond is the decoded throughput, 0 for corrupted frames.
func (r *Result) KBPerSecond() float64 {
	secs := r.Elapsed().Seconds()
	if r.Corrupted || secs <= 0 {
		return 0
	}
	return float64(len(r.Message)) / 1000 / secs
}

// ErrorRate is 1 - fidelity.
func (r *Result) ErrorRate() float64 {
	return 1 - r.Verdict.Fidelity
}

func (r *Result) String() string {
	var sb strings.Builder
	if r.Corrupted {
		sb.WriteString("ERROR: Invalid data detected.\n")
	} else {
		fmt.Fprintf(&sb, "Validated message:\n\n%s\n", r.Message)
	}
	fmt.Fprintf(&sb, "Message in %.3f sec\nKB/s %.3f\n'Error' %.5f\n",
		r.Elapsed().Seconds(), r.KBPerSecond(), r.ErrorRate())
	return sb.String()
}

// ResultHandler consumes received frames.
type ResultHandler interface {
	HandleResult(context.Context, *Result)
}

// HandleResultFunc is the func form of ResultHandler.
type HandleResultFunc func(context.Context, *Result)

// HandleResult implements ResultHandler.
func (f HandleResultFunc) HandleResult(ctx context.Context, r *Result) {
	f(ctx, r)
}
