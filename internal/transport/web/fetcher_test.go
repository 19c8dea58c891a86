package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/overlap/internal/domain"
)

func TestFetch_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(Config{Client: srv.Client()})
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(body), "hello") {
		t.Errorf("unexpected body: %s", body)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("expected browser user agent, got %q", gotUA)
	}
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	f := NewFetcher(Config{Client: srv.Client()})
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, domain.ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
	var se *domain.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %v", err)
	}
}

func TestFetch_BodyCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 1000)))
	}))
	defer srv.Close()

	f := NewFetcher(Config{Client: srv.Client(), MaxBodyBytes: 100})
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body) != 100 {
		t.Errorf("expected 100 bytes, got %d", len(body))
	}
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	f := NewFetcher(Config{})
	for _, u := range []string{"ftp://example.com/file", "file:///etc/passwd", "mailto:a@b.c", "http://"} {
		if _, err := f.Fetch(context.Background(), u); !errors.Is(err, domain.ErrUnsupportedURL) {
			t.Errorf("Fetch(%q): expected ErrUnsupportedURL, got %v", u, err)
		}
	}
}

func TestFetch_TooManyRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/loop", http.StatusFound)
	}))
	defer srv.Close()

	f := NewFetcher(Config{Client: srv.Client(), MaxRedirects: 2})
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestNewFetcher_LeavesCallerClientAlone(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/loop", http.StatusFound)
	}))
	defer srv.Close()

	client := srv.Client()
	if client.CheckRedirect != nil {
		t.Fatal("test server client should start without a redirect policy")
	}

	f := NewFetcher(Config{Client: client, MaxRedirects: 1})
	if client.CheckRedirect != nil {
		t.Error("NewFetcher must not change the caller's client")
	}
	if _, err := f.Fetch(context.Background(), srv.URL); !errors.Is(err, domain.ErrFetchFailed) {
		t.Errorf("fetcher should still enforce its own redirect cap, got %v", err)
	}
}

func TestFetch_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f := NewFetcher(Config{Client: srv.Client()})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, srv.URL)
	if !errors.Is(err, domain.ErrFetchFailed) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected fetch failure wrapping DeadlineExceeded, got %v", err)
	}
}
