package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub("127.0.0.1:0")
	addr, err := hub.Listen()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.Run(ctx) }()

	url := "ws://" + addr.String() + "/"
	c1, err := Dial(url)
	require.NoError(t, err)
	c2, err := Dial(url)
	require.NoError(t, err)
	waitFor(t, func() bool { return hub.Observers() == 2 })

	require.NoError(t, hub.WritePacket([]byte("result")))
	for _, c := range []*ReadWriter{c1, c2} {
		pkt, err := c.ReadPacket()
		require.NoError(t, err)
		require.Equal(t, []byte("result"), pkt)
	}

	require.NoError(t, c1.Close())
	waitFor(t, func() bool { return hub.Observers() == 1 })

	cancel()
	require.Equal(t, context.Canceled, <-errCh)
	waitFor(t, func() bool { return hub.Observers() == 0 })
}
