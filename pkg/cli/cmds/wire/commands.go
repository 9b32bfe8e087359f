package wire

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/optolink/pkg/cli/sh"
	"github.com/robotalks/optolink/pkg/line/sim"
	"github.com/robotalks/optolink/pkg/link"
	"github.com/robotalks/optolink/pkg/pulse"
)

// ParseMicros parses durations in microseconds, or with a unit suffix.
func ParseMicros(args []string) ([]time.Duration, error) {
	out := make([]time.Duration, 0, len(args))
	for _, arg := range args {
		if v, err := strconv.ParseFloat(arg, 64); err == nil {
			out = append(out, time.Duration(v*float64(time.Microsecond)))
			continue
		}
		d, err := time.ParseDuration(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q", arg)
		}
		out = append(out, d)
	}
	return out, nil
}

// Classification is the class of a measured duration.
type Classification struct {
	Duration time.Duration `json:"duration"`
	Class    string        `json:"class"`
}

// ClassifyAll classifies every duration.
func ClassifyAll(p *pulse.Protocol, durations []time.Duration) []Classification {
	out := make([]Classification, len(durations))
	for n, d := range durations {
		out[n] = Classification{Duration: d, Class: p.Classify(d).String()}
	}
	return out
}

// DescribeProtocol renders the holds and bands of p.
func DescribeProtocol(p *pulse.Protocol) string {
	t := &p.Timing
	return strings.Join([]string{
		fmt.Sprintf("lead %v gap %v", t.Lead, t.Gap),
		fmt.Sprintf("INIT hold %v band %v", t.Initiation, p.Bands.Initiation),
		fmt.Sprintf("0    hold %v band %v", t.Zero, p.Bands.Zero),
		fmt.Sprintf("1    hold %v band %v", t.One, p.Bands.One),
		fmt.Sprintf("TERM hold %v band >= %v", t.Termination, p.Bands.Termination),
		fmt.Sprintf("acceptance %v", p.Acceptance),
	}, "\n")
}

// SimulateOptions are the arguments of the simulate command.
type SimulateOptions struct {
	Frames   int
	Interval time.Duration
	Channel  sim.Options
}

// ParseSimulateArgs parses the simulate command line.
func ParseSimulateArgs(args []string) (*SimulateOptions, error) {
	opts := &SimulateOptions{Channel: sim.DefaultOptions()}
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(ioutil.Discard)
	fs.IntVar(&opts.Frames, "n", 1, "Number of frames.")
	fs.DurationVar(&opts.Interval, "interval", time.Millisecond, "Delay between frames.")
	fs.DurationVar(&opts.Channel.Jitter, "jitter", 0, "Edge jitter.")
	fs.DurationVar(&opts.Channel.Latency, "latency", 0, "Falling edge latency.")
	fs.Int64Var(&opts.Channel.Seed, "seed", 1, "Jitter seed.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.Frames <= 0 {
		return nil, fmt.Errorf("invalid number of frames %d", opts.Frames)
	}
	return opts, nil
}

var (
	classifyCmd = &ishell.Cmd{
		Name: "classify",
		Help: "classify DURATION...: classify high durations, in microseconds by default",
		Func: sh.MustHaveSession(func(c *ishell.Context, s *link.Session) {
			durations, err := ParseMicros(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			classes := ClassifyAll(s.Protocol, durations)
			lines := make([]string, len(classes))
			for n, cl := range classes {
				lines[n] = fmt.Sprintf("%v\t%s", cl.Duration, cl.Class)
			}
			sh.Print(c, classes, strings.Join(lines, "\n"))
		}),
	}

	protocolCmd = &ishell.Cmd{
		Name: "protocol",
		Help: "protocol: print the pulse holds and bands",
		Func: sh.MustHaveSession(func(c *ishell.Context, s *link.Session) {
			sh.Print(c, s.Protocol, DescribeProtocol(s.Protocol))
		}),
	}

	simulateCmd = &ishell.Cmd{
		Name:    "simulate",
		Aliases: []string{"sim"},
		Help:    "simulate [-n FRAMES] [-jitter D] [-latency D] [-seed N]: send the message over a simulated channel",
		Func: sh.MustHaveSession(func(c *ishell.Context, s *link.Session) {
			opts, err := ParseSimulateArgs(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			results, err := link.Simulate(context.Background(), s, sim.NewChannel(opts.Channel), opts.Frames, opts.Interval)
			for _, res := range results {
				sh.Print(c, res, res.String())
			}
			if err != nil {
				c.Err(err)
			}
		}),
	}
)

func init() {
	sh.AddCmds(classifyCmd, protocolCmd, simulateCmd)
}
