package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast([]byte("hello"))

	select {
	case msg := <-client.Send():
		assert.Equal(t, []byte("hello"), msg)
	case <-time.After(time.Second):
		t.Fatal("broadcast message not delivered")
	}

	hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastEvictsStalledClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	stalled := NewClient(hub)
	hub.Register(stalled)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	for i := 0; i < cap(stalled.send); i++ {
		stalled.send <- []byte("fill")
	}

	// Counting concurrently with the eviction must be safe.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for hub.ClientCount() > 0 {
		}
	}()

	hub.Broadcast([]byte("overflow"))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stalled client was not evicted")
	}

	// The hub closed the channel after draining its backlog.
	for range stalled.send {
	}
}
