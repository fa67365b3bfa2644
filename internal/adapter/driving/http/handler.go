package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Wyydra/confbridge/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/confbridge/internal/core/service"
	"github.com/Wyydra/confbridge/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	Orchestrator   *service.Orchestrator
	Conferences    *service.ConferenceService
	Hub            *ws.Hub
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

func NewHandler(
	orchestrator *service.Orchestrator,
	conferences *service.ConferenceService,
	hub *ws.Hub,
	m *metrics.Metrics,
	allowedOrigins []string,
) *Handler {
	return &Handler{
		Orchestrator:   orchestrator,
		Conferences:    conferences,
		Hub:            hub,
		Metrics:        m,
		AllowedOrigins: allowedOrigins,
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// provider webhooks
		r.Post("/voice", h.Voice)
		r.Post("/call-status", h.CallStatus)

		// operator
		r.Get("/get-numbers", h.GetNumbers)
		r.Post("/start-conference", h.StartConference)
		r.Post("/end-conference", h.EndConference)
		r.Post("/end-call", h.EndCall)
		r.Delete("/remove-participant", h.RemoveParticipant)
		r.Post("/token", h.Token)
		r.Get("/campaigns", h.ListCampaigns)
		r.Get("/campaigns/{id}", h.GetCampaign)
	})

	r.Get("/ws", h.ServeWS)
	r.Get("/healthz", h.Health)
	r.Handle("/metrics", h.Metrics.Handler())

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"observers": h.Hub.Len(),
	})
}

func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		h.Metrics.RecordRequest(route, strconv.Itoa(ww.Status()), time.Since(start))
	})
}
