package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/gorilla/websocket"
)

func dialObserver(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForObservers(t *testing.T, env *testEnv, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for env.hub.Len() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d observers, have %d", n, env.hub.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestObserverReceivesParticipantJoin(t *testing.T) {
	env := newTestEnv(t, nil)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn := dialObserver(t, srv)
	waitForObservers(t, env, 1)

	sid := env.provider.AddConference("Room")
	form := url.Values{
		"CallSid":    {"CA42"},
		"To":         {testNumber},
		"CallStatus": {"in-progress"},
		"AnsweredBy": {"human"},
	}
	resp, err := http.PostForm(srv.URL+"/api/v1/voice?conference=Room", form)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt domain.CallStatusEvent
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read: %v", err)
	}

	if evt.Event != domain.EventCallStatus {
		t.Errorf("expected %s, got %s", domain.EventCallStatus, evt.Event)
	}
	if evt.CallSID != "CA42" || evt.Number != testNumber {
		t.Errorf("unexpected event %+v", evt)
	}
	if evt.Status != domain.StatusInProgress || evt.AnsweredBy != domain.DetectionHuman {
		t.Errorf("unexpected status/detection %s/%s", evt.Status, evt.AnsweredBy)
	}
	if evt.ConferenceSID != sid {
		t.Errorf("expected conference %s, got %q", sid, evt.ConferenceSID)
	}
}

func TestObserverReceivesCompletion(t *testing.T) {
	env := newTestEnv(t, nil)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	first := dialObserver(t, srv)
	second := dialObserver(t, srv)
	waitForObservers(t, env, 2)

	resp, err := http.PostForm(srv.URL+"/api/v1/call-status", url.Values{
		"CallSid":    {"CA7"},
		"To":         {testNumber},
		"CallStatus": {"completed"},
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var evt domain.CallStatusEvent
		if err := conn.ReadJSON(&evt); err != nil {
			t.Fatalf("read: %v", err)
		}
		if evt.Status != domain.StatusCompleted || evt.CallSID != "CA7" {
			t.Errorf("unexpected event %+v", evt)
		}
		if evt.ConferenceSID != "" {
			t.Errorf("completion must not carry a conference, got %s", evt.ConferenceSID)
		}
	}
}

func TestObserverDisconnectUnregisters(t *testing.T) {
	env := newTestEnv(t, nil)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn := dialObserver(t, srv)
	waitForObservers(t, env, 1)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	waitForObservers(t, env, 0)
}

func TestCheckOrigin(t *testing.T) {
	h := &Handler{AllowedOrigins: []string{"https://ops.example.com"}}

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"https://ops.example.com", true},
		{"https://evil.example.com", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := h.checkOrigin(req); got != tt.want {
			t.Errorf("origin %q: got %v, want %v", tt.origin, got, tt.want)
		}
	}
}
