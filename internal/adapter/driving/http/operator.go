package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func (h *Handler) GetNumbers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Conferences.Numbers())
}

type startConferenceRequest struct {
	PhoneNumbers []string `json:"phoneNumbers"`
}

type startConferenceResponse struct {
	Message  string          `json:"message"`
	Campaign domain.Campaign `json:"campaign"`
}

func (h *Handler) StartConference(w http.ResponseWriter, r *http.Request) {
	var req startConferenceRequest
	// an empty body calls the configured participants
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	campaign, err := h.Conferences.StartCampaign(r.Context(), req.PhoneNumbers)
	if err != nil {
		if errors.Is(err, domain.ErrNoDestinations) {
			writeError(w, http.StatusBadRequest, "Failed to make calls", err)
			return
		}
		writeError(w, http.StatusBadGateway, "Failed to make calls", err)
		return
	}

	if campaign.Requested() == 0 {
		writeJSON(w, http.StatusBadGateway, startConferenceResponse{
			Message:  "Failed to make calls",
			Campaign: campaign,
		})
		return
	}
	writeJSON(w, http.StatusOK, startConferenceResponse{
		Message:  "Calls initiated",
		Campaign: campaign,
	})
}

type endConferenceRequest struct {
	ConferenceSID string `json:"conferenceSid"`
}

func (h *Handler) EndConference(w http.ResponseWriter, r *http.Request) {
	var req endConferenceRequest
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.ConferenceSID) == "" {
		writeError(w, http.StatusBadRequest, "conferenceSid is required", err)
		return
	}

	if err := h.Conferences.EndConference(r.Context(), domain.ConferenceSID(req.ConferenceSID)); err != nil {
		writeError(w, http.StatusBadGateway, "Failed to end conference", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Conference ended"})
}

type callRequest struct {
	CallSID    string `json:"callSid"`
	Conference string `json:"conference,omitempty"`
}

func (h *Handler) EndCall(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.CallSID) == "" {
		writeError(w, http.StatusBadRequest, "callSid is required", err)
		return
	}

	if err := h.Conferences.EndCall(r.Context(), domain.CallSID(req.CallSID)); err != nil {
		writeError(w, http.StatusBadGateway, "Failed to end call", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Call ended"})
}

func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.CallSID) == "" {
		writeError(w, http.StatusBadRequest, "callSid is required", err)
		return
	}

	err := h.Conferences.RemoveParticipant(r.Context(), domain.ConferenceName(req.Conference), domain.CallSID(req.CallSID))
	switch {
	case errors.Is(err, domain.ErrConferenceNotFound), errors.Is(err, domain.ErrConferenceAmbiguous):
		writeError(w, http.StatusNotFound, "Failed to remove participant", err)
	case err != nil:
		writeError(w, http.StatusBadGateway, "Failed to remove participant", err)
	default:
		writeJSON(w, http.StatusOK, messageResponse{Message: "Participant removed"})
	}
}

func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	token, err := h.Conferences.IssueToken()
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue access token")
		writeError(w, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.Conferences.Campaigns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list campaigns", err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCampaignID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid campaign id", err)
		return
	}

	campaign, err := h.Conferences.Campaign(r.Context(), id)
	if errors.Is(err, domain.ErrCampaignNotFound) {
		writeError(w, http.StatusNotFound, "Campaign not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}
