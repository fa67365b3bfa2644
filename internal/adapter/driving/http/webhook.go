package http

import (
	"net/http"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/Wyydra/confbridge/internal/core/service"
	"github.com/rs/zerolog/log"
)

// parseLeg reads the provider's form payload. Missing fields stay empty and
// fall through to the safe branches of the decision table.
func parseLeg(w http.ResponseWriter, r *http.Request) (domain.CallLeg, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return domain.CallLeg{}, err
	}
	return domain.CallLeg{
		SID:        domain.CallSID(r.FormValue("CallSid")),
		From:       r.FormValue("From"),
		To:         r.FormValue("To"),
		Status:     domain.CallStatus(r.FormValue("CallStatus")),
		AnsweredBy: domain.ParseDetection(r.FormValue("AnsweredBy")),
		Conference: domain.ConferenceName(r.URL.Query().Get(service.ConferenceParam)),
	}, nil
}

// Voice is the voice-decision webhook. It always answers 200 with TwiML;
// anything that goes wrong turns into a hangup so the leg is never left
// without an instruction.
func (h *Handler) Voice(w http.ResponseWriter, r *http.Request) {
	decision := string(domain.DecisionReject)
	body := hangupTwiML

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Voice decision panicked, hanging up")
			body = hangupTwiML
			decision = "error"
		}
		h.Metrics.RecordWebhook("voice", decision)
		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(body)); err != nil {
			log.Error().Err(err).Msg("Failed to write TwiML")
		}
	}()

	leg, err := parseLeg(w, r)
	if err != nil {
		log.Warn().Err(err).Msg("Malformed voice callback, hanging up")
		decision = "error"
		return
	}

	d := h.Orchestrator.VoiceDecision(r.Context(), leg)
	decision = string(d.Kind)

	rendered, err := renderTwiML(d.Instruction)
	if err != nil {
		log.Error().Err(err).Str("call_sid", leg.SID.String()).Msg("Failed to render TwiML, hanging up")
		decision = "error"
		return
	}
	body = rendered
}

// CallStatus is the status-notification webhook. It never returns an
// instruction and always acknowledges.
func (h *Handler) CallStatus(w http.ResponseWriter, r *http.Request) {
	outcome := "ignored"
	leg, err := parseLeg(w, r)
	if err != nil {
		log.Warn().Err(err).Msg("Malformed status callback")
		outcome = "error"
	} else if h.Orchestrator.StatusNotification(r.Context(), leg) {
		outcome = "published"
	} else if leg.Status.Terminal() {
		outcome = "unanswered"
	}
	h.Metrics.RecordWebhook("call-status", outcome)

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
