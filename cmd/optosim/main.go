package main

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/optolink/pkg/env"
	fx "github.com/robotalks/optolink/pkg/framework"
	"github.com/robotalks/optolink/pkg/line/sim"
	"github.com/robotalks/optolink/pkg/link"
)

var (
	channelOpts = sim.DefaultOptions()
	frames      = 0
)

func init() {
	link.SetupFlags()
	env.SetupFlags()
	flag.DurationVar(&channelOpts.PollInterval, "poll", channelOpts.PollInterval, "Virtual time of a single receiver poll.")
	flag.DurationVar(&channelOpts.Jitter, "jitter", channelOpts.Jitter, "Maximum edge jitter.")
	flag.DurationVar(&channelOpts.Latency, "latency", channelOpts.Latency, "Falling edge latency.")
	flag.Int64Var(&channelOpts.Seed, "seed", channelOpts.Seed, "Jitter seed.")
	flag.IntVar(&frames, "frames", frames, "Number of frames to send, 0 to run until stopped.")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := link.NewConfig()
	sess, err := conf.NewSession()
	if err != nil {
		glog.Exitf("session error: %v", err)
	}
	e := env.NewConfig().MustNewEnv()
	defer e.Close()

	ch := sim.NewChannel(channelOpts)
	runner := fx.NewRunner().HandleSignals()
	if frames > 0 {
		results, err := link.Simulate(runner.Context, sess, ch, frames, conf.Interval)
		handler := e.Handler()
		for _, res := range results {
			handler.HandleResult(runner.Context, res)
		}
		if err != nil {
			glog.Errorf("simulation stopped: %v", err)
		}
		return
	}

	tx := sess.NewTransmitter(ch.Output())
	tx.Interval = conf.Interval
	rx := sess.NewReceiver(ch.Input(), e.Handler())
	rx.Interval = conf.RxInterval
	l := &link.Link{
		Transmitter: tx,
		Receiver:    rx,
		Closer:      ch,
	}
	runner.Go(fx.NamedRun("link", fx.RunFunc(l.Run)))
	runner.Go(e.Runners(l)...)
	if err := runner.Wait(); err != nil {
		glog.Errorf("stopped: %v", err)
	}
}
