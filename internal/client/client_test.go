package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dm/aadash/internal/model"
)

// newTestClient creates a DefaultClient pointed at the given test server URL.
func newTestClient(t *testing.T, baseURL string) *DefaultClient {
	t.Helper()
	c, err := NewDefaultClient(ClientConfig{
		BaseURL:        baseURL,
		RequestTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	return c
}

func testSnapshot() model.FilterSnapshot {
	return model.FilterSnapshot{
		StartDate:  time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC),
		ClusterID:  model.AllClusters,
		OrgID:      model.NoOrg,
		JobType:    model.AllJobTypes,
		TemplateID: model.AllTemplates,
	}
}

func TestNewDefaultClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewDefaultClient(ClientConfig{}); err == nil {
		t.Fatal("expected error for empty BaseURL, got nil")
	}
}

func TestNewDefaultClient_RejectsMalformedBaseURL(t *testing.T) {
	if _, err := NewDefaultClient(ClientConfig{BaseURL: "http://exa mple.com%zz"}); err == nil {
		t.Fatal("expected error for malformed BaseURL, got nil")
	}
}

func TestPreflight_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tower-analytics/preflight/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if err := c.Preflight(context.Background()); err != nil {
		t.Fatalf("Preflight: %v", err)
	}
}

func TestPreflight_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"database unavailable"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Preflight(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError in chain, got %T", err)
	}
	if se.Code != http.StatusServiceUnavailable {
		t.Errorf("Code = %d, want %d", se.Code, http.StatusServiceUnavailable)
	}
}

func TestPreflight_NoJSONBody(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"no content": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
		"empty 200": func(w http.ResponseWriter, r *http.Request) {},
		"plain text": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("OK"))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			if err := c.Preflight(context.Background()); err != nil {
				t.Fatalf("Preflight: %v", err)
			}
		})
	}
}

func TestPreflight_BadStatusField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"degraded"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if err := c.Preflight(context.Background()); err == nil {
		t.Fatal("expected error for degraded status, got nil")
	}
}

func TestReadAggregateMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tower-analytics/chart30/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("start_date") != "2024-05-01" || q.Get("end_date") != "2024-05-31" {
			t.Errorf("unexpected dates in query %q", r.URL.RawQuery)
		}
		if q.Has("cluster_id") {
			t.Errorf("aggregate request must not carry cluster_id: %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"date":"2024-05-01","total":10,"successful":8,"failed":2},{"date":"2024-05-02","total":4,"successful":4,"failed":0}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	points, err := c.ReadAggregateMetrics(context.Background(), testSnapshot())
	if err != nil {
		t.Fatalf("ReadAggregateMetrics: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
	if points[0].Date != "2024-05-01" || points[0].Total != 10 || points[0].Failed != 2 {
		t.Errorf("points[0] = %+v", points[0])
	}
}

func TestReadPerClusterMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tower-analytics/clusters/42/chart30/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[{"date":"2024-05-01","total":3,"successful":1,"failed":2}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	snap := testSnapshot()
	snap.ClusterID = "42"
	points, err := c.ReadPerClusterMetrics(context.Background(), snap)
	if err != nil {
		t.Fatalf("ReadPerClusterMetrics: %v", err)
	}
	if len(points) != 1 || points[0].Total != 3 {
		t.Errorf("points = %+v", points)
	}
}

func TestReadPerClusterMetrics_RequiresCluster(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	if _, err := c.ReadPerClusterMetrics(context.Background(), testSnapshot()); err == nil {
		t.Fatal("expected error when no cluster is selected, got nil")
	}
}

func TestReadClusters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tower-analytics/clusters/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"templates":[{"cluster_id":1,"label":"prod","install_uuid":"a1"},{"cluster_id":2,"label":"","install_uuid":"b2"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	clusters, err := c.ReadClusters(context.Background())
	if err != nil {
		t.Fatalf("ReadClusters: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("len(clusters) = %d, want 2", len(clusters))
	}
	if clusters[1].ID != 2 || clusters[1].InstallUUID != "b2" {
		t.Errorf("clusters[1] = %+v", clusters[1])
	}
}

func TestReadModulesAndTemplates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tower-analytics/modules/":
			_, _ = w.Write([]byte(`{"modules":[{"module":"shell","count":12}]}`))
		case "/api/tower-analytics/templates/":
			if r.URL.Query().Get("template_id") != "17" {
				t.Errorf("template_id missing from query %q", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"templates":[{"id":17,"name":"deploy","type":"job_template","count":5}]}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	snap := testSnapshot()
	snap.TemplateID = "17"

	mods, err := c.ReadModules(context.Background(), snap)
	if err != nil {
		t.Fatalf("ReadModules: %v", err)
	}
	if len(mods) != 1 || mods[0].Name != "shell" || mods[0].Count != 12 {
		t.Errorf("modules = %+v", mods)
	}

	tmpls, err := c.ReadTemplates(context.Background(), snap)
	if err != nil {
		t.Fatalf("ReadTemplates: %v", err)
	}
	if len(tmpls) != 1 || tmpls[0].Name != "deploy" || tmpls[0].ID != 17 {
		t.Errorf("templates = %+v", tmpls)
	}
}

func TestBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c, err := NewDefaultClient(ClientConfig{
		BaseURL:  srv.URL,
		Username: "admin",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}

	if err := c.Preflight(context.Background()); err != nil {
		t.Fatalf("Preflight: %v", err)
	}
	if gotUser != "admin" {
		t.Errorf("user = %q, want %q", gotUser, "admin")
	}
	if gotPass != "secret" {
		t.Errorf("pass = %q, want %q", gotPass, "secret")
	}
}

func TestBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c, err := NewDefaultClient(ClientConfig{BaseURL: srv.URL, Token: "t0ken", Username: "ignored"})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	if err := c.Preflight(context.Background()); err != nil {
		t.Fatalf("Preflight: %v", err)
	}
	if gotAuth != "Bearer t0ken" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer t0ken")
	}
}

func TestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"missing auth"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ReadModules(context.Background(), testSnapshot())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q does not contain %q", err.Error(), "401")
	}
}

func TestContextCancellation(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		// Block until the client disconnects
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.ReadAggregateMetrics(ctx, testSnapshot())
		done <- err
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected error after context cancellation, got nil")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for cancelled request to return")
	}
}

func TestTLSSkipVerify(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	// Without InsecureSkipVerify, TLS handshake should fail (self-signed cert).
	c, err := NewDefaultClient(ClientConfig{
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	if err := c.Preflight(context.Background()); err == nil {
		t.Error("expected TLS certificate error without InsecureSkipVerify, got nil")
	}

	c2, err := NewDefaultClient(ClientConfig{
		BaseURL:            srv.URL,
		RequestTimeout:     5 * time.Second,
		InsecureSkipVerify: true,
	})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	if err := c2.Preflight(context.Background()); err != nil {
		t.Errorf("Preflight with InsecureSkipVerify=true: %v", err)
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"broken":`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.ReadTemplates(context.Background(), testSnapshot()); err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}

func TestEventsURL(t *testing.T) {
	cases := map[string]string{
		"http://localhost:8080":   "ws://localhost:8080/api/tower-analytics/events/",
		"https://aa.example.com/": "wss://aa.example.com/api/tower-analytics/events/",
	}
	for in, want := range cases {
		got, err := eventsURL(in)
		if err != nil {
			t.Fatalf("eventsURL(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("eventsURL(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := eventsURL("ftp://x"); err == nil {
		t.Error("expected error for ftp scheme, got nil")
	}
}

func TestWatch_ForwardsEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tower-analytics/events/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"data-updated","at":"2024-05-01T10:00:00Z"}`))
		// Hold the connection open until the client leaves.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event, 1)
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, events) }()

	select {
	case ev := <-events:
		if ev.Type != EventTypeDataUpdated {
			t.Errorf("Type = %q, want %q", ev.Type, EventTypeDataUpdated)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v after cancel, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_MalformedBaseURL(t *testing.T) {
	// Bypasses NewDefaultClient validation to reach the request build in Watch.
	c := &DefaultClient{config: ClientConfig{BaseURL: "http://exa mple.com%zz", RequestTimeout: time.Second}}

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Watch panicked: %v", r)
			}
		}()
		err = c.Watch(context.Background(), make(chan Event, 1))
	}()
	if err == nil {
		t.Fatal("expected error for malformed base URL, got nil")
	}
	if !strings.HasPrefix(err.Error(), "Watch") {
		t.Errorf("error = %q, want Watch prefix", err)
	}
}
