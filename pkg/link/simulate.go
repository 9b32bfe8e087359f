package link

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	fx "github.com/robotalks/optolink/pkg/framework"
	"github.com/robotalks/optolink/pkg/line/sim"
)

// Simulate sends the session frame the given number of times over ch and
// returns what the receiving end got. The channel is closed on return.
func Simulate(ctx context.Context, s *Session, ch *sim.Channel, frames int, interval time.Duration) ([]*Result, error) {
	tx := s.NewTransmitter(ch.Output())
	rx := s.NewReceiver(ch.Input(), nil)
	results := make([]*Result, 0, frames)

	group, child := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer ch.Close()
		for n := 0; n < frames; n++ {
			if err := tx.Send(child, s.Frame.Bits); err != nil {
				return err
			}
			tx.Clock.Sleep(interval)
		}
		return nil
	})
	group.Go(func() error {
		return fx.RunWithContextCloser(child, ch, func() error {
			for len(results) < frames {
				res, err := rx.Receive(child)
				if err != nil {
					return err
				}
				results = append(results, res)
			}
			return nil
		})
	})
	err := group.Wait()
	return results, err
}
