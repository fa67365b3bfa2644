package service

import (
	"context"
	"net/url"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/Wyydra/confbridge/internal/core/port"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	ConferenceParam      = "conference"
	defaultDispatchLimit = 16
	statusEventCompleted = "completed"
)

type DispatcherConfig struct {
	From      string
	VoiceURL  string
	StatusURL string
	// Limit caps the number of origination requests in flight.
	Limit int
}

// Dispatcher originates one leg per destination. It waits for the provider
// to acknowledge every request, never for the calls themselves.
type Dispatcher struct {
	cfg       DispatcherConfig
	telephony port.Telephony
	campaigns port.CampaignRepository
	recorder  OriginationRecorder
}

type OriginationRecorder interface {
	RecordOriginations(requested, failed int)
}

func NewDispatcher(cfg DispatcherConfig, telephony port.Telephony, campaigns port.CampaignRepository) *Dispatcher {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultDispatchLimit
	}
	return &Dispatcher{
		cfg:       cfg,
		telephony: telephony,
		campaigns: campaigns,
	}
}

// WithRecorder reports origination outcomes to r.
func (d *Dispatcher) WithRecorder(r OriginationRecorder) *Dispatcher {
	d.recorder = r
	return d
}

// Dispatch calls every number concurrently. A failing number is recorded in
// its outcome and does not stop the others; nothing already originated is
// rolled back.
func (d *Dispatcher) Dispatch(ctx context.Context, conference domain.ConferenceName, numbers []string) (domain.Campaign, error) {
	if len(numbers) == 0 {
		return domain.Campaign{}, domain.ErrNoDestinations
	}

	campaign := domain.NewCampaign(conference, len(numbers))
	l := log.With().
		Str("campaign_id", campaign.ID.String()).
		Str("conference", conference.String()).
		Logger()

	voiceURL := d.voiceURL(conference)

	var g errgroup.Group
	g.SetLimit(d.cfg.Limit)
	for i, number := range numbers {
		g.Go(func() error {
			outcome := domain.DialOutcome{To: number}
			sid, err := d.telephony.Originate(ctx, domain.OriginateRequest{
				To:               number,
				From:             d.cfg.From,
				VoiceURL:         voiceURL,
				StatusURL:        d.cfg.StatusURL,
				StatusEvents:     []string{statusEventCompleted},
				MachineDetection: true,
			})
			if err != nil {
				l.Error().Err(err).Str("to", number).Msg("Origination failed")
				outcome.State = domain.OutcomeFailed
				outcome.Error = err.Error()
			} else {
				l.Info().Str("to", number).Str("call_sid", sid.String()).Msg("Call originated")
				outcome.State = domain.OutcomeRequested
				outcome.CallSID = sid
			}
			// each goroutine owns its own slot
			campaign.Outcomes[i] = outcome
			return nil
		})
	}
	_ = g.Wait()

	l.Info().
		Int("requested", campaign.Requested()).
		Int("failed", campaign.Failed()).
		Msg("Campaign dispatched")

	if d.recorder != nil {
		d.recorder.RecordOriginations(campaign.Requested(), campaign.Failed())
	}
	if d.campaigns != nil {
		if err := d.campaigns.Save(ctx, campaign); err != nil {
			l.Warn().Err(err).Msg("Failed to record campaign")
		}
	}
	return campaign, nil
}

// voiceURL tags the voice callback with the conference name so participant
// legs can find their room from their own payload.
func (d *Dispatcher) voiceURL(conference domain.ConferenceName) string {
	if conference == "" {
		return d.cfg.VoiceURL
	}
	u, err := url.Parse(d.cfg.VoiceURL)
	if err != nil {
		return d.cfg.VoiceURL
	}
	q := u.Query()
	q.Set(ConferenceParam, conference.String())
	u.RawQuery = q.Encode()
	return u.String()
}
