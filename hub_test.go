package main

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnLimiter(t *testing.T) {
	l := newConnLimiter(2, 3)

	assert.True(t, l.Acquire("a"))
	assert.True(t, l.Acquire("a"))
	assert.False(t, l.Acquire("a"), "per-address cap")
	assert.True(t, l.Acquire("b"))
	assert.False(t, l.Acquire("c"), "total cap")
	assert.Equal(t, 3, l.Total())

	l.Release("a")
	assert.True(t, l.Acquire("c"))

	l.Release("a")
	l.Release("b")
	l.Release("c")
	assert.Zero(t, l.Total())
	assert.Empty(t, l.perIP)

	l.Release("ghost")
	assert.Zero(t, l.Total())
}

func TestRateWindow(t *testing.T) {
	r := rateWindow{limit: 3}
	now := time.Unix(1000, 0)

	for i := 0; i < 3; i++ {
		assert.True(t, r.allow(now))
	}
	assert.False(t, r.allow(now.Add(500*time.Millisecond)))
	assert.True(t, r.allow(now.Add(1500*time.Millisecond)), "new window")
}

func TestClientOutboxDropsWhenFull(t *testing.T) {
	game := NewGame(newTestWorld(t, nil), 20, zerolog.Nop(), nil, nil)
	hub := NewHub(game, nil, zerolog.Nop())
	c := NewClient(hub, nil, "127.0.0.1")

	for i := 0; i < outboxSize+10; i++ {
		c.SendBinary([]byte{byte(i)})
	}
	assert.Len(t, c.outbox, outboxSize)
	assert.Equal(t, int64(10), c.Dropped())

	c.Close()
	c.Close()
	c.SendJSON(Envelope{T: MsgEvent})
	assert.Equal(t, int64(10), c.Dropped(), "closed clients do not count drops")

	f := <-c.outbox
	require.True(t, f.binary)
	assert.Equal(t, []byte{0}, f.data)
}

func TestStoppedHubDoesNotBlockClients(t *testing.T) {
	game := NewGame(newTestWorld(t, nil), 20, zerolog.Nop(), nil, nil)
	hub := NewHub(game, nil, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	viewer := NewClient(hub, nil, "127.0.0.1")
	game.AddViewer(viewer)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < cap(hub.unregister)*2; i++ {
			hub.leave(NewClient(hub, nil, "127.0.0.1"))
		}
		hub.leave(viewer)
		assert.False(t, hub.join(NewClient(hub, nil, "127.0.0.1")))
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("client blocked on a stopped hub")
	}
	assert.Zero(t, game.ViewerCount())
	select {
	case <-viewer.done:
	default:
		t.Fatal("departed client was not closed")
	}
}
