package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/google/uuid"
)

// Origination is one accepted originate request.
type Origination struct {
	SID     domain.CallSID
	Request domain.OriginateRequest
}

type Removal struct {
	Conference domain.ConferenceSID
	Call       domain.CallSID
}

// Provider is an in-process stand-in for the telephony provider. It accepts
// every request, never places a real call, and lets callers script failures
// and when conferences appear. Used for dry runs and tests.
//
// implements port.Telephony
type Provider struct {
	mu          sync.Mutex
	originated  []Origination
	failures    map[string]error
	conferences map[domain.ConferenceName][]domain.Conference
	pending     map[domain.ConferenceName]pendingConference
	queries     map[domain.ConferenceName]int
	endedCalls  map[domain.CallSID]bool
	removed     []Removal
}

type pendingConference struct {
	sid   domain.ConferenceSID
	after int
}

func NewProvider() *Provider {
	return &Provider{
		failures:    make(map[string]error),
		conferences: make(map[domain.ConferenceName][]domain.Conference),
		pending:     make(map[domain.ConferenceName]pendingConference),
		queries:     make(map[domain.ConferenceName]int),
		endedCalls:  make(map[domain.CallSID]bool),
	}
}

func newSID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// FailNumber makes every origination towards to fail with err.
func (p *Provider) FailNumber(to string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[to] = err
}

// AddConference materializes a live conference right away.
func (p *Provider) AddConference(name domain.ConferenceName) domain.ConferenceSID {
	p.mu.Lock()
	defer p.mu.Unlock()
	sid := domain.ConferenceSID(newSID("CF"))
	p.conferences[name] = append(p.conferences[name], domain.Conference{
		Name:   name,
		SID:    sid,
		Status: domain.ConferenceInProgress,
	})
	return sid
}

// MaterializeAfter makes the conference visible from the given query on
// (1-based), mimicking a provider that creates rooms asynchronously.
func (p *Provider) MaterializeAfter(name domain.ConferenceName, query int) domain.ConferenceSID {
	p.mu.Lock()
	defer p.mu.Unlock()
	sid := domain.ConferenceSID(newSID("CF"))
	p.pending[name] = pendingConference{sid: sid, after: query}
	return sid
}

func (p *Provider) Originate(_ context.Context, req domain.OriginateRequest) (domain.CallSID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err, ok := p.failures[req.To]; ok {
		return "", err
	}
	sid := domain.CallSID(newSID("CA"))
	p.originated = append(p.originated, Origination{SID: sid, Request: req})
	return sid, nil
}

func (p *Provider) ListConferences(_ context.Context, name domain.ConferenceName) ([]domain.Conference, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queries[name]++
	if pc, ok := p.pending[name]; ok && p.queries[name] >= pc.after {
		delete(p.pending, name)
		p.conferences[name] = append(p.conferences[name], domain.Conference{
			Name:   name,
			SID:    pc.sid,
			Status: domain.ConferenceInProgress,
		})
	}
	return append([]domain.Conference(nil), p.conferences[name]...), nil
}

func (p *Provider) EndConference(_ context.Context, sid domain.ConferenceSID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for name, confs := range p.conferences {
		for i := range confs {
			if confs[i].SID == sid {
				p.conferences[name][i].Status = domain.ConferenceCompleted
				return nil
			}
		}
	}
	return fmt.Errorf("conference %s: %w", sid, domain.ErrConferenceNotFound)
}

func (p *Provider) EndCall(_ context.Context, sid domain.CallSID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, o := range p.originated {
		if o.SID == sid {
			p.endedCalls[sid] = true
			return nil
		}
	}
	return fmt.Errorf("call %s not found", sid)
}

func (p *Provider) RemoveParticipant(_ context.Context, conference domain.ConferenceSID, call domain.CallSID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, Removal{Conference: conference, Call: call})
	return nil
}

// Originated returns a copy of every accepted origination.
func (p *Provider) Originated() []Origination {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Origination(nil), p.originated...)
}

// Queries returns how many times name was listed.
func (p *Provider) Queries(name domain.ConferenceName) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queries[name]
}

func (p *Provider) CallEnded(sid domain.CallSID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.endedCalls[sid]
}

func (p *Provider) Removed() []Removal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Removal(nil), p.removed...)
}
