package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/Wyydra/confbridge/internal/core/port"
	"github.com/rs/zerolog/log"
)

const (
	DefaultResolveInterval = time.Second
	DefaultResolveAttempts = 10
)

// Directory maps friendly conference names to provider conferences. The
// provider creates a conference when the first leg joins and does not tell us
// its SID, so every lookup is a query against the provider.
type Directory struct {
	telephony port.Telephony
	interval  time.Duration
	attempts  int
}

func NewDirectory(telephony port.Telephony, interval time.Duration, attempts int) *Directory {
	if interval <= 0 {
		interval = DefaultResolveInterval
	}
	if attempts <= 0 {
		attempts = DefaultResolveAttempts
	}
	return &Directory{
		telephony: telephony,
		interval:  interval,
		attempts:  attempts,
	}
}

// Lookup issues a single query. A conference the provider has not
// materialized yet yields domain.ErrConferenceNotFound.
func (d *Directory) Lookup(ctx context.Context, name domain.ConferenceName) (domain.Conference, error) {
	conferences, err := d.telephony.ListConferences(ctx, name)
	if err != nil {
		return domain.Conference{}, fmt.Errorf("listing conferences %q: %w", name, err)
	}

	var live []domain.Conference
	for _, c := range conferences {
		if c.Live() {
			live = append(live, c)
		}
	}

	switch len(live) {
	case 0:
		return domain.Conference{}, domain.ErrConferenceNotFound
	case 1:
		return domain.RequestConference(name).Resolve(live[0].SID), nil
	default:
		return domain.Conference{}, domain.ErrConferenceAmbiguous
	}
}

// Resolve polls Lookup every interval until the conference shows up, the
// attempts run out or ctx is done. Each attempt waits one interval first,
// giving the provider time to act on the instruction that created the room.
// Query errors are treated like "not yet" and retried; ambiguity is not.
func (d *Directory) Resolve(ctx context.Context, name domain.ConferenceName) (domain.Conference, error) {
	l := log.With().Str("conference", name.String()).Logger()

	timer := time.NewTimer(d.interval)
	defer timer.Stop()

	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		select {
		case <-ctx.Done():
			return domain.Conference{}, ctx.Err()
		case <-timer.C:
		}

		conf, err := d.Lookup(ctx, name)
		if err == nil {
			l.Debug().Int("attempt", attempt).Str("conference_sid", conf.SID.String()).Msg("Conference resolved")
			return conf, nil
		}
		if errors.Is(err, domain.ErrConferenceAmbiguous) {
			return domain.Conference{}, err
		}
		if !errors.Is(err, domain.ErrConferenceNotFound) {
			l.Warn().Err(err).Int("attempt", attempt).Msg("Conference lookup failed")
		}
		lastErr = err
		timer.Reset(d.interval)
	}

	l.Warn().Int("attempts", d.attempts).Msg("Conference did not materialize")
	if lastErr != nil && !errors.Is(lastErr, domain.ErrConferenceNotFound) {
		return domain.Conference{}, fmt.Errorf("%w: %w", domain.ErrConferenceNotFound, lastErr)
	}
	return domain.Conference{}, domain.ErrConferenceNotFound
}
