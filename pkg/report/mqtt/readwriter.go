package mqtt

import (
	"context"
	"io"
)

// Topic names under the queue prefix.
const (
	ResultsTopic = "results"
	StatusTopic  = "status"
)

// NodeTopic is the topic of a node's channel.
func NodeTopic(node, channel string) string {
	return node + "/" + channel
}

// AnyNodeTopic matches a channel of every node.
func AnyNodeTopic(channel string) string {
	return NodeTopic("+", channel)
}

// Writer implements report.PacketWriter, publishing to a topic.
type Writer struct {
	Queue *Queue
	Topic string
}

// NewWriter creates a Writer.
func NewWriter(q *Queue, topic string) *Writer {
	return &Writer{Queue: q, Topic: topic}
}

// WritePacket implements report.PacketWriter.
func (w *Writer) WritePacket(pkt []byte) error {
	token := w.Queue.Pub(w.Topic, pkt)
	token.Wait()
	return token.Error()
}

// Reader implements report.PacketReader over a topic filter.
// Run must be running for packets to arrive.
type Reader struct {
	Queue  *Queue
	Filter string

	packetCh chan []byte
	doneCh   chan struct{}
}

// NewReader creates a Reader.
func NewReader(q *Queue, filter string) *Reader {
	return &Reader{Queue: q, Filter: filter, packetCh: make(chan []byte, 16), doneCh: make(chan struct{})}
}

// ReadPacket implements report.PacketReader. io.EOF is returned once Run
// stops.
func (r *Reader) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-r.packetCh:
		return pkt, nil
	case <-r.doneCh:
		return nil, io.EOF
	}
}

// Run implements framework.Runnable.
func (r *Reader) Run(ctx context.Context) error {
	done := ctx.Done()
	sub := r.Queue.Sub(r.Filter, func(_ string, payload []byte) {
		select {
		case r.packetCh <- payload:
		case <-done:
		}
	})
	<-done
	sub.Close()
	close(r.doneCh)
	return ctx.Err()
}
