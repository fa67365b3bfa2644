package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorders(t *testing.T) {
	m := New("test")

	m.RecordWebhook("voice", "join")
	m.RecordWebhook("voice", "join")
	m.ObserversActive(3)
	m.EventDelivered(true)
	m.EventDelivered(false)
	m.RecordOriginations(4, 1)
	m.RecordRequest("/api/v1/voice", "200", 10*time.Millisecond)

	if got := testutil.ToFloat64(m.WebhookRequests.WithLabelValues("voice", "join")); got != 2 {
		t.Errorf("expected 2 webhook requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.ObserversGauge); got != 3 {
		t.Errorf("expected 3 observers, got %v", got)
	}
	if got := testutil.ToFloat64(m.EventsDelivered.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed delivery, got %v", got)
	}
	if got := testutil.ToFloat64(m.OriginationsTotal.WithLabelValues("requested")); got != 4 {
		t.Errorf("expected 4 requested originations, got %v", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New("")
	m.RecordWebhook("call-status", "ignored")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), DefaultNamespace+"_webhook_requests_total") {
		t.Error("expected namespaced webhook counter")
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordWebhook("voice", "join")
	m.ObserversActive(1)
	m.EventDelivered(true)
	m.RecordOriginations(1, 1)
	m.RecordRequest("/", "200", time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without metrics, got %d", rec.Code)
	}
}
