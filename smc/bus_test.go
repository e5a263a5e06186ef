package smc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBusPrivateDelivery(t *testing.T) {
	hub := NewMemoryBus()
	alice := hub.Endpoint("alice")
	bob := hub.Endpoint("bob")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan []byte, 1)
	go func() {
		payload, err := bob.Recv(ctx, "share/1")
		require.NoError(t, err)
		done <- payload
	}()

	require.NoError(t, alice.Send(ctx, "bob", "share/1", []byte{0x2a}))
	require.Equal(t, []byte{0x2a}, <-done)
}

func TestBusPublicIdempotentFetch(t *testing.T) {
	hub := NewMemoryBus()
	alice := hub.Endpoint("alice")
	bob := hub.Endpoint("bob")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, alice.Publish(ctx, "d/3", []byte{0x01}))

	// A broadcast may be read repeatedly, by anyone including the sender.
	for i := 0; i < 3; i++ {
		payload, err := bob.Fetch(ctx, "alice", "d/3")
		require.NoError(t, err)
		require.Equal(t, []byte{0x01}, payload)
	}
	payload, err := alice.Fetch(ctx, "alice", "d/3")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, payload)
}

func TestBusSlotsAreWriteOnce(t *testing.T) {
	hub := NewMemoryBus()
	alice := hub.Endpoint("alice")

	ctx := context.Background()
	require.NoError(t, alice.Publish(ctx, "d/1", []byte{1}))
	require.ErrorIs(t, alice.Publish(ctx, "d/1", []byte{2}), ErrSlotTaken)
}

func TestBusFetchTimeout(t *testing.T) {
	hub := NewMemoryBus()
	bob := hub.Endpoint("bob")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := bob.Fetch(ctx, "alice", "never")
	require.ErrorIs(t, err, ErrAborted)

	// A private read of a slot nobody wrote aborts the same way.
	_, err = bob.Recv(ctx, "share/9")
	require.ErrorIs(t, err, ErrAborted)
}
