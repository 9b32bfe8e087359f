// Package sim simulates the optical channel between a light source and a
// photo-sensor on a virtual timeline.
//
// The output end records level edges at its own virtual time, advanced by
// Sleep. The input end advances its virtual time by the poll interval on
// every Read and blocks until the output's timeline has passed the sample
// instant, so the receiver measures exactly the holds the transmitter drove
// regardless of scheduling.
package sim

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/robotalks/optolink/pkg/line"
)

// ErrClosed indicates the channel is closed and the timeline is exhausted.
var ErrClosed = errors.New("channel closed")

// Defaults
const (
	DefaultPollInterval = time.Microsecond
	DefaultMaxLead      = 20 * time.Millisecond
	compactThreshold    = 1024
)

// Options configures a Channel.
type Options struct {
	// PollInterval is the virtual time a single Read takes.
	PollInterval time.Duration
	// Jitter shifts every edge by a uniform offset within +/- Jitter.
	Jitter time.Duration
	// Latency delays every falling edge, stretching pulses.
	Latency time.Duration
	// Seed seeds the jitter source.
	Seed int64
	// MaxLead bounds how far the output's timeline may run ahead of the
	// input's. Zero disables the bound.
	MaxLead time.Duration
}

// DefaultOptions returns the options of an ideal channel.
func DefaultOptions() Options {
	return Options{
		PollInterval: DefaultPollInterval,
		MaxLead:      DefaultMaxLead,
	}
}

type edge struct {
	at    time.Duration
	level bool
}

type interval struct {
	from, to time.Duration
}

// Channel is a simulated optical channel.
type Channel struct {
	opts  Options
	epoch time.Time
	rng   *rand.Rand

	lock      sync.Mutex
	cond      *sync.Cond
	edges     []edge
	cursor    int
	strays    []interval
	level     bool
	txNow     time.Duration
	rxNow     time.Duration
	txWaiting bool
	closed    bool
	edgeCount int
}

// NewChannel creates a channel.
func NewChannel(opts Options) *Channel {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.MaxLead > 0 && opts.MaxLead <= opts.Jitter {
		opts.MaxLead = opts.Jitter + DefaultMaxLead
	}
	c := &Channel{
		opts:  opts,
		epoch: time.Now(),
		rng:   rand.New(rand.NewSource(opts.Seed)),
	}
	c.cond = sync.NewCond(&c.lock)
	return c
}

// Output returns the light source end.
func (c *Channel) Output() line.OutputLine {
	return &outputEnd{c: c}
}

// Input returns the photo-sensor end.
func (c *Channel) Input() line.InputLine {
	return &inputEnd{c: c}
}

// AddStray adds a stray high pulse seen only by the input end, starting
// at virtual offset at.
func (c *Channel) AddStray(at, width time.Duration) {
	c.lock.Lock()
	c.strays = append(c.strays, interval{from: at, to: at + width})
	sort.Slice(c.strays, func(i, j int) bool { return c.strays[i].from < c.strays[j].from })
	c.lock.Unlock()
	c.cond.Broadcast()
}

// Edges returns the number of edges recorded by the output end.
func (c *Channel) Edges() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.edgeCount
}

// Close ends the timeline. Pending and future reads beyond it fail with
// ErrClosed.
func (c *Channel) Close() error {
	c.lock.Lock()
	c.closed = true
	c.lock.Unlock()
	c.cond.Broadcast()
	return nil
}

func (c *Channel) shift() time.Duration {
	if c.opts.Jitter <= 0 {
		return 0
	}
	return time.Duration(c.rng.Int63n(int64(2*c.opts.Jitter)+1)) - c.opts.Jitter
}

func (c *Channel) set(high bool) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		return ErrClosed
	}
	if high == c.level {
		return nil
	}
	c.level = high
	at := c.txNow + c.shift()
	if !high {
		at += c.opts.Latency
	}
	if n := len(c.edges); n > 0 && at < c.edges[n-1].at {
		at = c.edges[n-1].at
	}
	if at < 0 {
		at = 0
	}
	c.edges = append(c.edges, edge{at: at, level: high})
	c.edgeCount++
	return nil
}

func (c *Channel) txSleep(d time.Duration) {
	if d <= 0 {
		return
	}
	c.lock.Lock()
	for c.opts.MaxLead > 0 && !c.closed && c.txNow-c.rxNow > c.opts.MaxLead {
		c.txWaiting = true
		c.cond.Wait()
	}
	c.txWaiting = false
	c.txNow += d
	c.lock.Unlock()
	c.cond.Broadcast()
}

// settled reports whether no future edge can land at or before t.
func (c *Channel) settled(t time.Duration) bool {
	return t < c.txNow-c.opts.Jitter
}

func (c *Channel) read() (bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.rxNow += c.opts.PollInterval
	if c.txWaiting {
		c.cond.Broadcast()
	}
	for !c.closed && !c.settled(c.rxNow) {
		c.cond.Wait()
	}
	if c.closed && !c.settled(c.rxNow) {
		return false, ErrClosed
	}
	return c.levelAt(c.rxNow), nil
}

// levelAt must be called with monotonic t.
func (c *Channel) levelAt(t time.Duration) bool {
	for c.cursor < len(c.edges) && c.edges[c.cursor].at <= t {
		c.cursor++
	}
	level := false
	if c.cursor > 0 {
		level = c.edges[c.cursor-1].level
	}
	if c.cursor > compactThreshold {
		c.edges = append(c.edges[:0], c.edges[c.cursor-1:]...)
		c.cursor = 1
	}
	for len(c.strays) > 0 && c.strays[0].to <= t {
		c.strays = c.strays[1:]
	}
	if len(c.strays) > 0 && c.strays[0].from <= t {
		level = true
	}
	return level
}

func (c *Channel) rxSleep(d time.Duration) {
	if d <= 0 {
		return
	}
	c.lock.Lock()
	c.rxNow += d
	if c.txWaiting {
		c.cond.Broadcast()
	}
	c.lock.Unlock()
}

func (c *Channel) now(t *time.Duration) time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.epoch.Add(*t)
}

type outputEnd struct {
	c *Channel
}

func (o *outputEnd) Set(high bool) error   { return o.c.set(high) }
func (o *outputEnd) Sleep(d time.Duration) { o.c.txSleep(d) }
func (o *outputEnd) Now() time.Time        { return o.c.now(&o.c.txNow) }
func (o *outputEnd) Close() error          { return o.c.Close() }

type inputEnd struct {
	c *Channel
}

func (i *inputEnd) Read() (bool, error)   { return i.c.read() }
func (i *inputEnd) Sleep(d time.Duration) { i.c.rxSleep(d) }
func (i *inputEnd) Now() time.Time        { return i.c.now(&i.c.rxNow) }
func (i *inputEnd) Close() error          { return i.c.Close() }
