package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultNamespace = "confbridge"

// Metrics holds the service's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	WebhookRequests   *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	ObserversGauge    prometheus.Gauge
	EventsDelivered   *prometheus.CounterVec
	OriginationsTotal *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	registry := prometheus.NewRegistry()

	webhookRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_requests_total",
			Help:      "Provider callbacks by endpoint and decision",
		},
		[]string{"endpoint", "decision"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"route", "status"},
	)

	observers := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "observers_active",
			Help:      "Number of connected event observers",
		},
	)

	eventsDelivered := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_delivered_total",
			Help:      "Call-status event deliveries to observers",
		},
		[]string{"result"},
	)

	originations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "originations_total",
			Help:      "Outbound origination requests",
		},
		[]string{"result"},
	)

	registry.MustRegister(
		webhookRequests,
		requestDuration,
		observers,
		eventsDelivered,
		originations,
		collectors.NewGoCollector(),
	)

	return &Metrics{
		registry:          registry,
		WebhookRequests:   webhookRequests,
		RequestDuration:   requestDuration,
		ObserversGauge:    observers,
		EventsDelivered:   eventsDelivered,
		OriginationsTotal: originations,
	}
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordWebhook(endpoint, decision string) {
	if m == nil {
		return
	}
	m.WebhookRequests.WithLabelValues(endpoint, decision).Inc()
}

func (m *Metrics) RecordRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, status).Observe(d.Seconds())
}

func (m *Metrics) ObserversActive(n int) {
	if m == nil {
		return
	}
	m.ObserversGauge.Set(float64(n))
}

func (m *Metrics) EventDelivered(ok bool) {
	if m == nil {
		return
	}
	m.EventsDelivered.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) RecordOriginations(requested, failed int) {
	if m == nil {
		return
	}
	if requested > 0 {
		m.OriginationsTotal.WithLabelValues("requested").Add(float64(requested))
	}
	if failed > 0 {
		m.OriginationsTotal.WithLabelValues("failed").Add(float64(failed))
	}
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
