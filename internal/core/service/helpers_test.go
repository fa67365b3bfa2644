package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Wyydra/confbridge/internal/core/domain"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.CallStatusEvent
	err    error
	panic  bool
}

func (p *recordingPublisher) Publish(_ context.Context, evt domain.CallStatusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.panic {
		panic("publisher exploded")
	}
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Events() []domain.CallStatusEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.CallStatusEvent(nil), p.events...)
}

var errBadNumber = errors.New("invalid 'To' phone number")

func drain(t *testing.T, o *Orchestrator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
}
