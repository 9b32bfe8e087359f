package main

import (
	"flag"
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/optolink/pkg/env"
	fx "github.com/robotalks/optolink/pkg/framework"
	"github.com/robotalks/optolink/pkg/line/gpio"
	"github.com/robotalks/optolink/pkg/link"
)

func init() {
	link.SetupFlags()
	gpio.SetupFlags()
	env.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := link.NewConfig()
	sess, err := conf.NewSession()
	if err != nil {
		glog.Exitf("session error: %v", err)
	}
	pins := gpio.NewConfig()
	if pins.LaserPin < 0 && pins.ReceiverPin < 0 {
		glog.Exit("both transmitting and receiving are disabled")
	}

	e := env.NewConfig().MustNewEnv()
	defer e.Close()

	var lines []io.Closer
	defer func() {
		for _, l := range lines {
			l.Close()
		}
	}()

	l := &link.Link{}
	if pins.LaserPin >= 0 {
		out, err := gpio.OpenOutput(pins.LaserPin)
		if err != nil {
			glog.Exitf("laser: %v", err)
		}
		lines = append(lines, out)
		l.Transmitter = sess.NewTransmitter(out)
		l.Transmitter.Interval = conf.Interval
	}
	if pins.ReceiverPin >= 0 {
		in, err := gpio.OpenInput(pins.ReceiverPin)
		if err != nil {
			glog.Exitf("receiver: %v", err)
		}
		lines = append(lines, in)
		l.Receiver = sess.NewReceiver(in, e.Handler())
		l.Receiver.Interval = conf.RxInterval
	}

	glog.Infof("message of %d symbols, %d bits per frame", len(sess.Codebook.Table), sess.Frame.Len())
	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("link", fx.RunFunc(l.Run)))
	runner.Go(e.Runners(l)...)
	if err := runner.Wait(); err != nil {
		glog.Errorf("stopped: %v", err)
	}
}
