package searxng

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestNewSearcher_Validation(t *testing.T) {
	for _, base := range []string{"", "localhost:8888", "ftp://x", "http://"} {
		if _, err := NewSearcher(Config{BaseURL: base}); err == nil {
			t.Errorf("NewSearcher(%q): expected error", base)
		}
	}
}

func TestSearch_ParsesResults(t *testing.T) {
	var gotPath, gotFormat, gotQ, gotEngines string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFormat = r.URL.Query().Get("format")
		gotQ = r.URL.Query().Get("q")
		gotEngines = r.URL.Query().Get("engines")
		_, _ = w.Write([]byte(`{"query":"x","results":[
			{"url":"https://a.example/1","title":"a"},
			{"url":"https://a.example/1","title":"dup"},
			{"url":"","title":"empty"},
			{"url":"https://b.example/2"},
			{"url":"https://c.example/3"}
		]}`))
	}))
	defer srv.Close()

	s, err := NewSearcher(Config{BaseURL: srv.URL + "/searx/", Engines: []string{"google", "bing"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	urls, err := s.Search(context.Background(), "rivers carve valleys", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://a.example/1" || urls[1] != "https://b.example/2" {
		t.Errorf("unexpected urls: %v", urls)
	}
	if gotPath != "/searx/search" || gotFormat != "json" || gotQ != "rivers carve valleys" || gotEngines != "google,bing" {
		t.Errorf("unexpected request path=%q format=%q q=%q engines=%q", gotPath, gotFormat, gotQ, gotEngines)
	}
}

func TestSearch_RetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"url":"https://a.example"}]}`))
	}))
	defer srv.Close()

	s, err := NewSearcher(Config{BaseURL: srv.URL, Retries: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	urls, err := s.Search(context.Background(), "q", 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 1 || calls.Load() != 2 {
		t.Errorf("expected 1 url after 2 calls, got %v after %d", urls, calls.Load())
	}
}

func TestSearch_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s, err := NewSearcher(Config{BaseURL: srv.URL, Retries: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Search(context.Background(), "q", 6); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single call, got %d", calls.Load())
	}
}

func TestSearch_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>format not allowed</html>`))
	}))
	defer srv.Close()

	s, err := NewSearcher(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Search(context.Background(), "q", 6); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestHealthCheck(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	s, err := NewSearcher(Config{BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.HealthCheck(context.Background()); err != nil {
		t.Errorf("expected healthy, got %v", err)
	}

	healthy = false
	if err := s.HealthCheck(context.Background()); err == nil {
		t.Error("expected error for unhealthy instance")
	}
}
