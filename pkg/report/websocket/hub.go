// Package websocket feeds published events to websocket observers.
package websocket

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
	"golang.org/x/sync/errgroup"
)

// ReadWriter implements report.PacketReadWriter on a websocket connection,
// one binary message per packet.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// ReadPacket implements report.PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &pkt)
	return
}

// WritePacket implements report.PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), pkt)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return (*websocket.Conn)(p).Close()
}

// Dial connects to a hub.
func Dial(url string) (*ReadWriter, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

type observer struct {
	rw   *ReadWriter
	done chan struct{}
}

// Hub accepts websocket observers and broadcasts packets to all of them.
type Hub struct {
	Addr string

	lock      sync.Mutex
	observers map[*observer]struct{}
	listener  net.Listener
}

// NewHub creates a hub listening on addr once Run.
func NewHub(addr string) *Hub {
	return &Hub{Addr: addr, observers: make(map[*observer]struct{})}
}

// Handler returns the http handler accepting observers.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serve)
}

func (h *Hub) serve(conn *websocket.Conn) {
	o := &observer{rw: New(conn), done: make(chan struct{})}
	h.lock.Lock()
	h.observers[o] = struct{}{}
	h.lock.Unlock()
	glog.V(2).Infof("observer %s connected", conn.Request().RemoteAddr)
	// Observers never send, a read returns when the peer goes away.
	go func() {
		var discard []byte
		for websocket.Message.Receive(conn, &discard) == nil {
			continue
		}
		h.drop(o)
	}()
	<-o.done
	glog.V(2).Infof("observer %s disconnected", conn.Request().RemoteAddr)
}

func (h *Hub) drop(o *observer) {
	h.lock.Lock()
	if _, ok := h.observers[o]; ok {
		delete(h.observers, o)
		close(o.done)
	}
	h.lock.Unlock()
}

// Observers returns the number of connected observers.
func (h *Hub) Observers() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.observers)
}

// WritePacket implements report.PacketWriter. Observers failing to
// receive are dropped, the hub itself never fails.
func (h *Hub) WritePacket(pkt []byte) error {
	h.lock.Lock()
	observers := make([]*observer, 0, len(h.observers))
	for o := range h.observers {
		observers = append(observers, o)
	}
	h.lock.Unlock()

	var group errgroup.Group
	for _, o := range observers {
		o := o
		group.Go(func() error {
			if err := o.rw.WritePacket(pkt); err != nil {
				glog.V(2).Infof("drop observer: %v", err)
				h.drop(o)
			}
			return nil
		})
	}
	return group.Wait()
}

// Listen starts listening on Addr and returns the bound address.
func (h *Hub) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", h.Addr)
	if err != nil {
		return nil, err
	}
	h.lock.Lock()
	h.listener = ln
	h.lock.Unlock()
	return ln.Addr(), nil
}

// Run implements framework.Runnable, serving observers until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	h.lock.Lock()
	ln := h.listener
	h.lock.Unlock()
	if ln == nil {
		if _, err := h.Listen(); err != nil {
			return err
		}
		ln = h.listener
	}
	mux := http.NewServeMux()
	mux.Handle("/", h.Handler())
	server := &http.Server{Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
		h.lock.Lock()
		for o := range h.observers {
			o.rw.Close()
		}
		h.lock.Unlock()
	}()
	glog.Infof("websocket feed on %s", ln.Addr())
	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}

// Name implements framework.Named.
func (h *Hub) Name() string {
	return "websocket"
}
