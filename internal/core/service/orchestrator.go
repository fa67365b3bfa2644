package service

import (
	"context"
	"sync"
	"time"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/Wyydra/confbridge/internal/core/port"
	"github.com/rs/zerolog/log"
)

const (
	DefaultGreeting       = "Hi, please stay on the line while we connect you with one of our agents."
	DefaultPauseSeconds   = 5
	DefaultPublishTimeout = 15 * time.Second
)

const (
	msgJoined    = "Call answered by human and joined to conference"
	msgMachine   = "Call answered by machine"
	msgCompleted = "Call completed"
)

type OrchestratorConfig struct {
	HostIdentity string
	// Room pins every campaign to one conference. When empty each host call
	// gets a fresh name from the Namer.
	Room           domain.ConferenceName
	Participants   []string
	Greeting       string
	PauseSeconds   int
	PublishTimeout time.Duration
}

type campaignDispatcher interface {
	Dispatch(ctx context.Context, conference domain.ConferenceName, numbers []string) (domain.Campaign, error)
}

type conferenceResolver interface {
	Resolve(ctx context.Context, name domain.ConferenceName) (domain.Conference, error)
}

// Orchestrator turns provider callbacks into voice instructions and
// call-status events. Every callback is decided from its own payload; the
// only state kept here is the bookkeeping for background work.
type Orchestrator struct {
	cfg        OrchestratorConfig
	namer      *Namer
	dispatcher campaignDispatcher
	directory  conferenceResolver
	publisher  port.EventPublisher

	fallbackRoom domain.ConferenceName
	wg           sync.WaitGroup
}

func NewOrchestrator(
	cfg OrchestratorConfig,
	namer *Namer,
	dispatcher campaignDispatcher,
	directory conferenceResolver,
	publisher port.EventPublisher,
) *Orchestrator {
	if cfg.Greeting == "" {
		cfg.Greeting = DefaultGreeting
	}
	if cfg.PauseSeconds <= 0 {
		cfg.PauseSeconds = DefaultPauseSeconds
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultPublishTimeout
	}

	fallback := cfg.Room
	if fallback == "" {
		fallback = namer.Next()
	}

	return &Orchestrator{
		cfg:          cfg,
		namer:        namer,
		dispatcher:   dispatcher,
		directory:    directory,
		publisher:    publisher,
		fallbackRoom: fallback,
	}
}

// VoiceDecision answers "what should this leg do now". The first matching
// rule wins.
func (o *Orchestrator) VoiceDecision(ctx context.Context, leg domain.CallLeg) domain.Decision {
	l := log.With().
		Str("call_sid", leg.SID.String()).
		Str("status", string(leg.Status)).
		Str("answered_by", string(leg.AnsweredBy)).
		Logger()

	detection := leg.EffectiveDetection()

	switch {
	case leg.CallerIs(o.cfg.HostIdentity):
		room := o.hostRoom()
		l.Info().Str("conference", room.String()).Msg("Host call, opening conference")
		o.startCampaign(ctx, room)
		return domain.Decision{
			Kind: domain.DecisionHost,
			Instruction: domain.Instruct(domain.JoinConference(domain.ConferenceJoin{
				Name:         room,
				StartOnEnter: true,
				EndOnExit:    true,
				Label:        o.cfg.HostIdentity,
			})),
		}

	case leg.Status == domain.StatusInProgress && detection == domain.DetectionHuman:
		room := o.participantRoom(leg)
		l.Info().Str("conference", room.String()).Str("to", leg.To).Msg("Human answered, joining conference")
		o.publish(ctx, domain.NewCallStatusEvent(leg, msgJoined), room)
		return domain.Decision{
			Kind: domain.DecisionJoin,
			Instruction: domain.Instruct(
				domain.Say(o.cfg.Greeting),
				domain.JoinConference(domain.ConferenceJoin{
					Name:         room,
					StartOnEnter: false,
					EndOnExit:    false,
					Label:        leg.To,
				}),
			),
		}

	case detection.Machine():
		l.Info().Str("to", leg.To).Msg("Machine answered, hanging up")
		o.publish(ctx, domain.NewCallStatusEvent(leg, msgMachine), "")
		return domain.Decision{
			Kind:        domain.DecisionReject,
			Instruction: domain.HangupInstruction(),
		}

	default:
		l.Debug().Msg("Detection pending, pausing")
		return domain.Decision{
			Kind:        domain.DecisionWait,
			Instruction: domain.Instruct(domain.Pause(o.cfg.PauseSeconds)),
		}
	}
}

// StatusNotification is a sink for status callbacks; only completed legs are
// reported to observers.
func (o *Orchestrator) StatusNotification(ctx context.Context, leg domain.CallLeg) bool {
	if leg.Status != domain.StatusCompleted {
		if leg.Status.Terminal() {
			log.Info().
				Str("call_sid", leg.SID.String()).
				Str("to", leg.To).
				Str("status", string(leg.Status)).
				Msg("Call ended without being answered")
		}
		return false
	}
	log.Info().
		Str("call_sid", leg.SID.String()).
		Str("to", leg.To).
		Str("answered_by", string(leg.AnsweredBy)).
		Msg("Call completed")
	o.publish(ctx, domain.NewCallStatusEvent(leg, msgCompleted), "")
	return true
}

// Drain blocks until background publishes and campaigns have finished or
// ctx is done.
func (o *Orchestrator) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) hostRoom() domain.ConferenceName {
	if o.cfg.Room != "" {
		return o.cfg.Room
	}
	return o.namer.Next()
}

func (o *Orchestrator) participantRoom(leg domain.CallLeg) domain.ConferenceName {
	if leg.Conference != "" {
		return leg.Conference
	}
	return o.fallbackRoom
}

func (o *Orchestrator) startCampaign(ctx context.Context, room domain.ConferenceName) {
	if len(o.cfg.Participants) == 0 {
		log.Warn().Str("conference", room.String()).Msg("No participants configured, nobody to call")
		return
	}
	numbers := append([]string(nil), o.cfg.Participants...)
	ctx = context.WithoutCancel(ctx)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if _, err := o.dispatcher.Dispatch(ctx, room, numbers); err != nil {
			log.Error().Err(err).Str("conference", room.String()).Msg("Failed to start campaign")
		}
	}()
}

// publish runs off the callback path. When room is set the event waits for
// the conference to materialize so it can carry the SID, and goes out
// without it if the room never shows up. Resolving and publishing each get
// their own PublishTimeout budget.
func (o *Orchestrator) publish(ctx context.Context, evt domain.CallStatusEvent, room domain.ConferenceName) {
	ctx = context.WithoutCancel(ctx)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("call_sid", evt.CallSID.String()).Msg("Publisher panicked")
			}
		}()

		if room != "" && o.directory != nil {
			evt = o.withConference(ctx, evt, room)
		}

		pubCtx, cancel := context.WithTimeout(ctx, o.cfg.PublishTimeout)
		defer cancel()

		if err := o.publisher.Publish(pubCtx, evt); err != nil {
			log.Error().Err(err).Str("call_sid", evt.CallSID.String()).Msg("Failed to publish call status")
		}
	}()
}

func (o *Orchestrator) withConference(ctx context.Context, evt domain.CallStatusEvent, room domain.ConferenceName) domain.CallStatusEvent {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.PublishTimeout)
	defer cancel()

	conf, err := o.directory.Resolve(ctx, room)
	if err != nil {
		log.Warn().Err(err).Str("conference", room.String()).Msg("Publishing without conference")
		return evt
	}
	return evt.WithConference(conf.SID)
}
