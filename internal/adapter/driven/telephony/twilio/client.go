package twilio

import (
	"context"
	"fmt"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/rs/zerolog/log"
	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	statusCompleted  = "completed"
	machineDetection = "Enable"
)

type Credentials struct {
	AccountSID string
	APIKey     string
	APISecret  string
}

// Client drives the Twilio REST API. The SDK has no context support; ctx is
// only checked before each request.
//
// implements port.Telephony
type Client struct {
	rest *twilio.RestClient
}

func NewClient(creds Credentials) *Client {
	return newClient(twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   creds.APIKey,
		Password:   creds.APISecret,
		AccountSid: creds.AccountSID,
	}))
}

func newClient(rest *twilio.RestClient) *Client {
	return &Client{rest: rest}
}

func (c *Client) Originate(ctx context.Context, req domain.OriginateRequest) (domain.CallSID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(req.To)
	params.SetFrom(req.From)
	params.SetUrl(req.VoiceURL)
	if req.StatusURL != "" {
		params.SetStatusCallback(req.StatusURL)
		params.SetStatusCallbackEvent(req.StatusEvents)
	}
	if req.MachineDetection {
		params.SetMachineDetection(machineDetection)
	}

	call, err := c.rest.Api.CreateCall(params)
	if err != nil {
		return "", fmt.Errorf("creating call to %s: %w", req.To, err)
	}
	if call.Sid == nil {
		return "", fmt.Errorf("creating call to %s: provider returned no sid", req.To)
	}
	return domain.CallSID(*call.Sid), nil
}

func (c *Client) ListConferences(ctx context.Context, name domain.ConferenceName) ([]domain.Conference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &openapi.ListConferenceParams{}
	params.SetFriendlyName(name.String())
	params.SetLimit(20)

	records, err := c.rest.Api.ListConference(params)
	if err != nil {
		return nil, fmt.Errorf("listing conferences: %w", err)
	}

	out := make([]domain.Conference, 0, len(records))
	for _, r := range records {
		if r.Sid == nil {
			continue
		}
		conf := domain.RequestConference(name).Resolve(domain.ConferenceSID(*r.Sid))
		if r.Status != nil {
			conf.Status = domain.ConferenceStatus(*r.Status)
		}
		out = append(out, conf)
	}
	log.Debug().Str("conference", name.String()).Int("found", len(out)).Msg("Conferences listed")
	return out, nil
}

func (c *Client) EndConference(ctx context.Context, sid domain.ConferenceSID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &openapi.UpdateConferenceParams{}
	params.SetStatus(statusCompleted)
	if _, err := c.rest.Api.UpdateConference(sid.String(), params); err != nil {
		return fmt.Errorf("updating conference %s: %w", sid, err)
	}
	return nil
}

func (c *Client) EndCall(ctx context.Context, sid domain.CallSID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &openapi.UpdateCallParams{}
	params.SetStatus(statusCompleted)
	if _, err := c.rest.Api.UpdateCall(sid.String(), params); err != nil {
		return fmt.Errorf("updating call %s: %w", sid, err)
	}
	return nil
}

func (c *Client) RemoveParticipant(ctx context.Context, conference domain.ConferenceSID, call domain.CallSID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.rest.Api.DeleteParticipant(conference.String(), call.String(), &openapi.DeleteParticipantParams{}); err != nil {
		return fmt.Errorf("deleting participant %s: %w", call, err)
	}
	return nil
}
