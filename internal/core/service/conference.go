package service

import (
	"context"
	"fmt"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/Wyydra/confbridge/internal/core/port"
	"github.com/rs/zerolog/log"
)

type ConferenceConfig struct {
	HostIdentity string
	Room         domain.ConferenceName
	Participants []string
}

// ConferenceService backs the operator endpoints.
type ConferenceService struct {
	cfg        ConferenceConfig
	telephony  port.Telephony
	directory  *Directory
	dispatcher *Dispatcher
	namer      *Namer
	campaigns  port.CampaignRepository
	tokens     port.TokenIssuer
}

func NewConferenceService(
	cfg ConferenceConfig,
	telephony port.Telephony,
	directory *Directory,
	dispatcher *Dispatcher,
	namer *Namer,
	campaigns port.CampaignRepository,
	tokens port.TokenIssuer,
) *ConferenceService {
	return &ConferenceService{
		cfg:        cfg,
		telephony:  telephony,
		directory:  directory,
		dispatcher: dispatcher,
		namer:      namer,
		campaigns:  campaigns,
		tokens:     tokens,
	}
}

// Numbers returns a copy of the configured participant list.
func (s *ConferenceService) Numbers() []string {
	return append([]string{}, s.cfg.Participants...)
}

// StartCampaign calls numbers, or the configured participants when numbers
// is empty, into a conference.
func (s *ConferenceService) StartCampaign(ctx context.Context, numbers []string) (domain.Campaign, error) {
	if len(numbers) == 0 {
		numbers = s.Numbers()
	}
	room := s.cfg.Room
	if room == "" {
		room = s.namer.Next()
	}
	return s.dispatcher.Dispatch(ctx, room, numbers)
}

func (s *ConferenceService) EndConference(ctx context.Context, sid domain.ConferenceSID) error {
	if err := s.telephony.EndConference(ctx, sid); err != nil {
		return fmt.Errorf("ending conference %s: %w", sid, err)
	}
	log.Info().Str("conference_sid", sid.String()).Msg("Conference ended")
	return nil
}

func (s *ConferenceService) EndCall(ctx context.Context, sid domain.CallSID) error {
	if err := s.telephony.EndCall(ctx, sid); err != nil {
		return fmt.Errorf("ending call %s: %w", sid, err)
	}
	log.Info().Str("call_sid", sid.String()).Msg("Call ended")
	return nil
}

// RemoveParticipant drops a leg from the named conference. The name is
// resolved with a single lookup; an operator acts on a room that is already
// running.
func (s *ConferenceService) RemoveParticipant(ctx context.Context, name domain.ConferenceName, call domain.CallSID) error {
	if name == "" {
		name = s.cfg.Room
	}
	if name == "" {
		return domain.ErrConferenceNotFound
	}
	conf, err := s.directory.Lookup(ctx, name)
	if err != nil {
		return err
	}
	if err := s.telephony.RemoveParticipant(ctx, conf.SID, call); err != nil {
		return fmt.Errorf("removing %s from %s: %w", call, name, err)
	}
	log.Info().
		Str("conference", name.String()).
		Str("call_sid", call.String()).
		Msg("Participant removed")
	return nil
}

func (s *ConferenceService) Campaign(ctx context.Context, id domain.CampaignID) (domain.Campaign, error) {
	return s.campaigns.Get(ctx, id)
}

func (s *ConferenceService) Campaigns(ctx context.Context) ([]domain.Campaign, error) {
	return s.campaigns.List(ctx)
}

// IssueToken signs a softphone credential for the host identity.
func (s *ConferenceService) IssueToken() (domain.AccessToken, error) {
	return s.tokens.Issue(s.cfg.HostIdentity)
}
