package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/rs/zerolog/log"
)

// Observer metrics the hub reports. Implemented by internal/metrics.
type Recorder interface {
	ObserversActive(n int)
	EventDelivered(ok bool)
}

// Hub is the event bus behind /ws. Writers (Register, Unregister) copy the
// client set and swap it in; Publish iterates whatever snapshot it loaded,
// so a client leaving mid-broadcast never blocks or breaks the others.
//
// implements port.EventPublisher
type Hub struct {
	mu       sync.Mutex
	clients  map[string]Client
	snapshot atomic.Pointer[[]Client]
	recorder Recorder
	closed   bool
}

func NewHub(recorder Recorder) *Hub {
	h := &Hub{
		clients:  make(map[string]Client),
		recorder: recorder,
	}
	h.snapshot.Store(&[]Client{})
	return h
}

func (h *Hub) Register(c Client) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		c.Close()
		return
	}
	h.clients[c.ID()] = c
	n := h.swapLocked()
	h.mu.Unlock()

	log.Info().Int("count", n).Str("client_id", c.ID()).Msg("Client registered")
}

func (h *Hub) Unregister(c Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID()]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID())
	n := h.swapLocked()
	h.mu.Unlock()

	c.Close()
	log.Info().Int("count", n).Str("client_id", c.ID()).Msg("Client unregistered")
}

// Publish serializes evt once and writes it to every client in the current
// snapshot. Failing clients are dropped; the error is never returned to the
// caller. Each write is bounded by the client's own deadline, so ctx does not
// cut a broadcast short.
func (h *Hub) Publish(_ context.Context, evt domain.CallStatusEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	clients := *h.snapshot.Load()
	for _, client := range clients {
		if err := client.Send(payload); err != nil {
			log.Error().Err(err).Str("client_id", client.ID()).Msg("Error sending event")
			h.record(false)
			h.Unregister(client)
			continue
		}
		h.record(true)
	}
	log.Debug().Int("observers", len(clients)).Str("call_sid", evt.CallSID.String()).Msg("Event broadcast")
	return nil
}

func (h *Hub) Len() int {
	return len(*h.snapshot.Load())
}

// Stop disconnects every client and refuses new ones.
func (h *Hub) Stop() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[string]Client)
	h.swapLocked()
	h.mu.Unlock()

	for _, client := range clients {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Str("client_id", client.ID()).Msg("Error closing client connection")
		}
	}
}

func (h *Hub) swapLocked() int {
	next := make([]Client, 0, len(h.clients))
	for _, c := range h.clients {
		next = append(next, c)
	}
	h.snapshot.Store(&next)
	if h.recorder != nil {
		h.recorder.ObserversActive(len(next))
	}
	return len(next)
}

func (h *Hub) record(ok bool) {
	if h.recorder != nil {
		h.recorder.EventDelivered(ok)
	}
}
