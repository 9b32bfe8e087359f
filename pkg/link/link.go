// Package link runs the pulse transmitter and receiver state machines over
// digital lines.
package link

import (
	"context"
	"io"

	fx "github.com/robotalks/optolink/pkg/framework"
)

// Link runs a transmitter and a receiver concurrently. Either may be nil.
type Link struct {
	Transmitter *Transmitter
	Receiver    *Receiver
	// Closer is closed when the link stops, unblocking line reads.
	Closer io.Closer
}

// Run runs both loops until ctx is done. The first loop failure stops
// the other and is returned.
func (l *Link) Run(ctx context.Context) error {
	runner := fx.NewRunnerWith(ctx)
	if l.Transmitter != nil {
		runner.Go(l.Transmitter)
	}
	if l.Receiver != nil {
		runner.Go(l.Receiver)
	}
	if l.Closer != nil {
		go func() {
			<-runner.Context.Done()
			l.Closer.Close()
		}()
	}
	return runner.Wait()
}
