package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/Wyydra/confbridge/internal/core/domain"
	twilio "github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
)

const (
	testAccount = "ACtest"
	accountPath = "/2010-04-01/Accounts/" + testAccount
)

// redirect sends every SDK request to the test server.
type redirect struct {
	target *url.URL
}

func (rt redirect) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	r.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeAPI) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Form:   r.PostForm,
	})
	f.mu.Unlock()

	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == accountPath+"/Calls.json":
		if r.PostForm.Get("To") == "+1bad" {
			reply(http.StatusBadRequest, map[string]any{"code": 21211, "message": "Invalid 'To' Phone Number", "status": 400})
			return
		}
		reply(http.StatusCreated, map[string]any{"sid": "CA123", "status": "queued"})
	case r.Method == http.MethodGet && r.URL.Path == accountPath+"/Conferences.json":
		reply(http.StatusOK, map[string]any{
			"conferences": []map[string]any{
				{"sid": "CF1", "friendly_name": "Room", "status": "in-progress"},
				{"sid": "CF0", "friendly_name": "Room", "status": "completed"},
			},
			"next_page_uri": nil,
			"page_size":     20,
		})
	case r.Method == http.MethodPost && r.URL.Path == accountPath+"/Conferences/CF1.json":
		reply(http.StatusOK, map[string]any{"sid": "CF1", "status": "completed"})
	case r.Method == http.MethodPost && r.URL.Path == accountPath+"/Calls/CA123.json":
		reply(http.StatusOK, map[string]any{"sid": "CA123", "status": "completed"})
	case r.Method == http.MethodDelete && r.URL.Path == accountPath+"/Conferences/CF1/Participants/CA123.json":
		w.WriteHeader(http.StatusNoContent)
	default:
		reply(http.StatusNotFound, map[string]any{"code": 20404, "message": "not found", "status": 404})
	}
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	base := &client.Client{
		Credentials: client.NewCredentials("SKtest", "secret"),
		HTTPClient:  &http.Client{Transport: redirect{target: target}},
	}
	base.SetAccountSid(testAccount)

	return newClient(twilio.NewRestClientWithParams(twilio.ClientParams{Client: base})), api
}

func TestOriginate(t *testing.T) {
	c, api := newTestClient(t)

	sid, err := c.Originate(context.Background(), domain.OriginateRequest{
		To:               "+15550000001",
		From:             "+15550000000",
		VoiceURL:         "https://bridge.example.com/api/v1/voice?conference=Room",
		StatusURL:        "https://bridge.example.com/api/v1/call-status",
		StatusEvents:     []string{"completed"},
		MachineDetection: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sid != "CA123" {
		t.Errorf("expected CA123, got %s", sid)
	}

	form := api.last().Form
	if form.Get("To") != "+15550000001" || form.Get("From") != "+15550000000" {
		t.Errorf("unexpected endpoints: %v", form)
	}
	if form.Get("Url") != "https://bridge.example.com/api/v1/voice?conference=Room" {
		t.Errorf("unexpected voice url %s", form.Get("Url"))
	}
	if form.Get("MachineDetection") != "Enable" {
		t.Errorf("expected machine detection Enable, got %q", form.Get("MachineDetection"))
	}
	if events := form["StatusCallbackEvent"]; len(events) != 1 || events[0] != "completed" {
		t.Errorf("expected [completed] status events, got %v", events)
	}
	if form.Get("StatusCallback") != "https://bridge.example.com/api/v1/call-status" {
		t.Errorf("unexpected status callback %s", form.Get("StatusCallback"))
	}
}

func TestOriginateProviderError(t *testing.T) {
	c, _ := newTestClient(t)

	if _, err := c.Originate(context.Background(), domain.OriginateRequest{To: "+1bad", From: "+15550000000"}); err == nil {
		t.Fatal("expected provider error")
	}
}

func TestOriginateCanceledContext(t *testing.T) {
	c, api := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Originate(ctx, domain.OriginateRequest{To: "+15550000001"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if api.count() != 0 {
		t.Error("no request should reach the provider")
	}
}

func TestListConferences(t *testing.T) {
	c, api := newTestClient(t)

	confs, err := c.ListConferences(context.Background(), "Room")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := api.last().Query.Get("FriendlyName"); got != "Room" {
		t.Errorf("expected FriendlyName=Room, got %q", got)
	}
	if len(confs) != 2 {
		t.Fatalf("expected 2 conferences, got %d", len(confs))
	}
	if confs[0].SID != "CF1" || confs[0].Name != "Room" || !confs[0].Live() {
		t.Errorf("unexpected first conference %+v", confs[0])
	}
	if confs[1].SID != "CF0" || confs[1].Live() {
		t.Errorf("completed conference must not be live: %+v", confs[1])
	}
}

func TestEndConferenceAndCall(t *testing.T) {
	c, api := newTestClient(t)

	if err := c.EndConference(context.Background(), "CF1"); err != nil {
		t.Fatalf("end conference: %v", err)
	}
	if got := api.last().Form.Get("Status"); got != "completed" {
		t.Errorf("expected Status=completed, got %q", got)
	}

	if err := c.EndCall(context.Background(), "CA123"); err != nil {
		t.Fatalf("end call: %v", err)
	}
	if got := api.last().Form.Get("Status"); got != "completed" {
		t.Errorf("expected Status=completed, got %q", got)
	}

	if err := c.EndCall(context.Background(), "CAmissing"); err == nil {
		t.Error("expected error for unknown call")
	}
}

func TestRemoveParticipant(t *testing.T) {
	c, api := newTestClient(t)

	if err := c.RemoveParticipant(context.Background(), "CF1", "CA123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last := api.last(); last.Method != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", last.Method)
	}
}
