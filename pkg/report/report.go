package report

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/optolink/pkg/link"
	"github.com/robotalks/optolink/pkg/msgs"
)

// Mux hands a result to every handler in order.
type Mux []link.ResultHandler

// HandleResult implements link.ResultHandler.
func (m Mux) HandleResult(ctx context.Context, r *link.Result) {
	for _, h := range m {
		h.HandleResult(ctx, r)
	}
}

// Printer prints results in the human readable form.
type Printer struct {
	Out io.Writer
}

// HandleResult implements link.ResultHandler.
func (p *Printer) HandleResult(ctx context.Context, r *link.Result) {
	if p.Out == nil {
		glog.Info(r.String())
		return
	}
	fmt.Fprintln(p.Out, r.String())
}

// Stats counts received frames.
type Stats struct {
	valid uint64
	bad   uint64
}

// HandleResult implements link.ResultHandler.
func (s *Stats) HandleResult(ctx context.Context, r *link.Result) {
	if r.Corrupted {
		atomic.AddUint64(&s.bad, 1)
	} else {
		atomic.AddUint64(&s.valid, 1)
	}
}

// Valid returns the number of valid frames.
func (s *Stats) Valid() uint64 {
	return atomic.LoadUint64(&s.valid)
}

// Bad returns the number of corrupted frames.
func (s *Stats) Bad() uint64 {
	return atomic.LoadUint64(&s.bad)
}

// Status builds the status event of a link node.
func (s *Stats) Status(node string, l *link.Link) *msgs.LinkStatus {
	status := &msgs.LinkStatus{
		Node:        node,
		FramesValid: s.Valid(),
		FramesBad:   s.Bad(),
	}
	if tx := l.Transmitter; tx != nil {
		status.TxState = tx.State().String()
		status.FramesSent = tx.Frames()
	}
	if rx := l.Receiver; rx != nil {
		status.RxState = rx.State().String()
	}
	return status
}

// Publisher publishes events to packet writers.
type Publisher struct {
	Node    string
	Writers []PacketWriter

	lock sync.Mutex
	seq  uint64
}

// NewPublisher creates a publisher for node.
func NewPublisher(node string, writers ...PacketWriter) *Publisher {
	return &Publisher{Node: node, Writers: writers}
}

// Add adds writers.
func (p *Publisher) Add(writers ...PacketWriter) *Publisher {
	p.lock.Lock()
	p.Writers = append(p.Writers, writers...)
	p.lock.Unlock()
	return p
}

// HandleResult implements link.ResultHandler.
func (p *Publisher) HandleResult(ctx context.Context, r *link.Result) {
	p.lock.Lock()
	p.seq++
	seq := p.seq
	p.lock.Unlock()
	if err := p.Publish(msgs.NewLinkResult(p.Node, seq, r)); err != nil {
		glog.Errorf("publish result %d error: %v", seq, err)
	}
}

// Publish encodes msg and writes it to all writers.
func (p *Publisher) Publish(msg msgs.Message) error {
	pkt, err := msgs.Encode(msg)
	if err != nil {
		return err
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	var errs []error
	for _, w := range p.Writers {
		if err := w.WritePacket(pkt); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d writers failed, first: %w", len(errs), len(p.Writers), errs[0])
	}
	return nil
}

// MessageHandler consumes decoded messages.
type MessageHandler func(msgs.Message)

// Drain reads and decodes packets from r until it fails. io.EOF ends
// draining without error. Undecodable packets are logged and skipped.
func Drain(r PacketReader, handler MessageHandler) error {
	for {
		pkt, err := r.ReadPacket()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		msg, err := msgs.Decode(pkt)
		if err != nil {
			glog.Warningf("drop packet: %v", err)
			continue
		}
		handler(msg)
	}
}
