package service

import (
	"context"
	"errors"
	"testing"
	"time"

	repo "github.com/Wyydra/confbridge/internal/adapter/driven/persistence/memory"
	"github.com/Wyydra/confbridge/internal/adapter/driven/telephony/memory"
	"github.com/Wyydra/confbridge/internal/core/domain"
)

type stubIssuer struct {
	identity string
}

func (s *stubIssuer) Issue(identity string) (domain.AccessToken, error) {
	s.identity = identity
	if identity == "" {
		return domain.AccessToken{}, domain.ErrEmptyIdentity
	}
	return domain.AccessToken{Identity: identity, Token: "signed"}, nil
}

func newTestConferenceService(cfg ConferenceConfig) (*ConferenceService, *memory.Provider, *stubIssuer) {
	provider := memory.NewProvider()
	campaigns := repo.NewCampaignRepository(0)
	directory := NewDirectory(provider, time.Millisecond, 2)
	dispatcher := NewDispatcher(DispatcherConfig{
		From:      testCallerID,
		VoiceURL:  testVoiceURL,
		StatusURL: testStatusURL,
	}, provider, campaigns)
	issuer := &stubIssuer{}

	svc := NewConferenceService(cfg, provider, directory, dispatcher, NewSeededNamer(7, 7), campaigns, issuer)
	return svc, provider, issuer
}

func TestNumbersReturnsCopy(t *testing.T) {
	svc, _, _ := newTestConferenceService(ConferenceConfig{Participants: []string{participantA}})

	numbers := svc.Numbers()
	numbers[0] = "tampered"

	if got := svc.Numbers()[0]; got != participantA {
		t.Errorf("expected configured list to be untouched, got %s", got)
	}
}

func TestStartCampaignDefaultsToConfiguredNumbers(t *testing.T) {
	svc, provider, _ := newTestConferenceService(ConferenceConfig{
		Room:         "Lobby",
		Participants: []string{participantA, participantB},
	})

	campaign, err := svc.StartCampaign(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if campaign.Conference != "Lobby" {
		t.Errorf("expected pinned room, got %s", campaign.Conference)
	}
	if campaign.Requested() != 2 || len(provider.Originated()) != 2 {
		t.Errorf("expected 2 requested legs, got %d", campaign.Requested())
	}

	stored, err := svc.Campaign(context.Background(), campaign.ID)
	if err != nil {
		t.Fatalf("campaign not stored: %v", err)
	}
	if stored.ID != campaign.ID {
		t.Errorf("stored campaign mismatch")
	}
}

func TestStartCampaignGeneratesRoom(t *testing.T) {
	svc, _, _ := newTestConferenceService(ConferenceConfig{})

	campaign, err := svc.StartCampaign(context.Background(), []string{participantA})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conferenceNamePattern.MatchString(campaign.Conference.String()) {
		t.Errorf("expected generated name, got %q", campaign.Conference)
	}
}

func TestStartCampaignWithoutNumbers(t *testing.T) {
	svc, _, _ := newTestConferenceService(ConferenceConfig{})

	if _, err := svc.StartCampaign(context.Background(), nil); !errors.Is(err, domain.ErrNoDestinations) {
		t.Errorf("expected ErrNoDestinations, got %v", err)
	}
}

func TestEndConference(t *testing.T) {
	svc, provider, _ := newTestConferenceService(ConferenceConfig{})
	sid := provider.AddConference("Lobby")

	if err := svc.EndConference(context.Background(), sid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	confs, _ := provider.ListConferences(context.Background(), "Lobby")
	if len(confs) != 1 || confs[0].Live() {
		t.Errorf("expected conference to be completed, got %+v", confs)
	}

	if err := svc.EndConference(context.Background(), "CFmissing"); err == nil {
		t.Error("expected error for unknown conference")
	}
}

func TestEndCall(t *testing.T) {
	svc, provider, _ := newTestConferenceService(ConferenceConfig{})
	campaign, err := svc.StartCampaign(context.Background(), []string{participantA})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sid := campaign.Outcomes[0].CallSID

	if err := svc.EndCall(context.Background(), sid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !provider.CallEnded(sid) {
		t.Error("expected call to be ended")
	}
	if err := svc.EndCall(context.Background(), "CAmissing"); err == nil {
		t.Error("expected error for unknown call")
	}
}

func TestRemoveParticipant(t *testing.T) {
	svc, provider, _ := newTestConferenceService(ConferenceConfig{Room: "Lobby"})
	sid := provider.AddConference("Lobby")

	if err := svc.RemoveParticipant(context.Background(), "", "CA1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	removed := provider.Removed()
	if len(removed) != 1 || removed[0].Conference != sid || removed[0].Call != "CA1" {
		t.Errorf("unexpected removals: %+v", removed)
	}
}

func TestRemoveParticipantUnknownConference(t *testing.T) {
	svc, provider, _ := newTestConferenceService(ConferenceConfig{})

	if err := svc.RemoveParticipant(context.Background(), "", "CA1"); !errors.Is(err, domain.ErrConferenceNotFound) {
		t.Errorf("expected not found without a room, got %v", err)
	}
	if err := svc.RemoveParticipant(context.Background(), "Nowhere", "CA1"); !errors.Is(err, domain.ErrConferenceNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if n := provider.Queries("Nowhere"); n != 1 {
		t.Errorf("expected a single lookup, got %d", n)
	}
}

func TestRemoveParticipantAmbiguous(t *testing.T) {
	svc, provider, _ := newTestConferenceService(ConferenceConfig{})
	provider.AddConference("Twin")
	provider.AddConference("Twin")

	if err := svc.RemoveParticipant(context.Background(), "Twin", "CA1"); !errors.Is(err, domain.ErrConferenceAmbiguous) {
		t.Errorf("expected ambiguous, got %v", err)
	}
	if len(provider.Removed()) != 0 {
		t.Error("nothing should have been removed")
	}
}

func TestCampaignsNewestFirst(t *testing.T) {
	svc, _, _ := newTestConferenceService(ConferenceConfig{})
	first, _ := svc.StartCampaign(context.Background(), []string{participantA})
	second, _ := svc.StartCampaign(context.Background(), []string{participantB})

	list, err := svc.Campaigns(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("unexpected order: %+v", list)
	}
}

func TestIssueTokenUsesHostIdentity(t *testing.T) {
	svc, _, issuer := newTestConferenceService(ConferenceConfig{HostIdentity: "operator"})

	tok, err := svc.IssueToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issuer.identity != "operator" || tok.Identity != "operator" {
		t.Errorf("expected operator identity, got %q", issuer.identity)
	}
}
