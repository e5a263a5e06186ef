package smc

import (
	"context"
	"fmt"
	"sync"
)

// Bus is one party's endpoint to the message relay. Private slots are
// keyed by (recipient, label), public slots by (sender, label). Slots are
// write-once; reads block until the slot is written and are idempotent
// for public slots. Every blocking read honors context cancellation,
// which surfaces as ErrAborted to the evaluator.
type Bus interface {
	// Send delivers a private message to one recipient.
	Send(ctx context.Context, to PartyID, label string, payload []byte) error
	// Recv blocks for the private message addressed to this party.
	Recv(ctx context.Context, label string) ([]byte, error)
	// Publish broadcasts a message under this party's identity.
	Publish(ctx context.Context, label string, payload []byte) error
	// Fetch blocks for the broadcast published by from under label.
	Fetch(ctx context.Context, from PartyID, label string) ([]byte, error)
}

// MemoryBus is an in-process relay connecting the endpoints of all
// parties in one protocol run. It does not preserve cross-label ordering;
// within a slot it is write-once.
type MemoryBus struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ready   chan struct{}
	payload []byte
}

// NewMemoryBus creates an empty relay.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{slots: make(map[string]*slot)}
}

// Endpoint returns the Bus view of a single party.
func (m *MemoryBus) Endpoint(id PartyID) Bus {
	return &endpoint{hub: m, id: id}
}

func (m *MemoryBus) slotFor(key string) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[key]
	if !ok {
		s = &slot{ready: make(chan struct{})}
		m.slots[key] = s
	}
	return s
}

func (m *MemoryBus) write(key string, payload []byte) error {
	s := m.slotFor(key)
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case <-s.ready:
		return fmt.Errorf("%w: %s", ErrSlotTaken, key)
	default:
	}
	s.payload = payload
	close(s.ready)
	return nil
}

func (m *MemoryBus) read(ctx context.Context, key string) ([]byte, error) {
	s := m.slotFor(key)
	select {
	case <-s.ready:
		return s.payload, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: waiting on %s: %v", ErrAborted, key, ctx.Err())
	}
}

type endpoint struct {
	hub *MemoryBus
	id  PartyID
}

func privateKey(to PartyID, label string) string {
	return "p/" + string(to) + "/" + label
}

func publicKey(from PartyID, label string) string {
	return "b/" + string(from) + "/" + label
}

func (e *endpoint) Send(_ context.Context, to PartyID, label string, payload []byte) error {
	return e.hub.write(privateKey(to, label), payload)
}

func (e *endpoint) Recv(ctx context.Context, label string) ([]byte, error) {
	return e.hub.read(ctx, privateKey(e.id, label))
}

func (e *endpoint) Publish(_ context.Context, label string, payload []byte) error {
	return e.hub.write(publicKey(e.id, label), payload)
}

func (e *endpoint) Fetch(ctx context.Context, from PartyID, label string) ([]byte, error) {
	return e.hub.read(ctx, publicKey(from, label))
}
