package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunnerFirstFailureCancelsOthers(t *testing.T) {
	errFail := errors.New("line fault")
	r := NewRunner()
	err := r.Run(
		NamedRun("rx", RunFunc(blockUntilDone)),
		NamedRun("tx", RunFunc(func(context.Context) error {
			return errFail
		})),
	)
	require.Error(t, err)
	require.True(t, errors.Is(err, errFail))
	require.Equal(t, errFail.Error(), err.Error())
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx).Go(RunFunc(blockUntilDone), RunFunc(blockUntilDone))
	cancel()
	require.NoError(t, r.Wait())
}

func TestRunnerAllSucceed(t *testing.T) {
	require.NoError(t, NewRunner().Run(
		RunFunc(func(context.Context) error { return nil }),
	))
}

type closer struct {
	closed chan struct{}
}

func (c *closer) Close() error {
	close(c.closed)
	return nil
}

func TestRunWithContextCloser(t *testing.T) {
	c := &closer{closed: make(chan struct{})}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := RunWithContextCloser(ctx, c, func() error {
		<-c.closed
		return errors.New("closed")
	})
	require.Equal(t, context.DeadlineExceeded, err)

	c = &closer{closed: make(chan struct{})}
	err = RunWithContextCloser(context.Background(), c, func() error { return nil })
	require.NoError(t, err)
	<-c.closed
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errs.Add(nil, errors.New("a"), errors.New("b"))
	require.Len(t, errs.Errors, 2)
	require.Equal(t, "Multiple errors:\na\nb", errs.Aggregate().Error())
}
