package searxng

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds SearxNG client settings.
type Config struct {
	BaseURL string
	// Engines restricts the upstream engines (comma separated in the request).
	Engines  []string
	Language string
	Retries  int
	Client   *http.Client
}

// Searcher queries a SearxNG instance through its JSON API.
type Searcher struct {
	client   *http.Client
	base     *url.URL
	endpoint *url.URL
	engines  string
	language string
	retries  int
}

type response struct {
	Results []struct {
		URL string `json:"url"`
	} `json:"results"`
}

// NewSearcher creates a SearxNG client. The instance must have the json format enabled.
func NewSearcher(cfg Config) (*Searcher, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, errors.New("searxng: base url must be an absolute http/https URL")
	}
	endpoint := *base
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/search"

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Searcher{
		client:   client,
		base:     base,
		endpoint: &endpoint,
		engines:  strings.Join(cfg.Engines, ","),
		language: cfg.Language,
		retries:  max(cfg.Retries, 0),
	}, nil
}

// Search returns up to count result URLs for query.
func (s *Searcher) Search(ctx context.Context, query string, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}

	reqURL := *s.endpoint
	q := reqURL.Query()
	q.Set("format", "json")
	q.Set("q", query)
	if s.engines != "" {
		q.Set("engines", s.engines)
	}
	if s.language != "" {
		q.Set("language", s.language)
	}
	reqURL.RawQuery = q.Encode()

	var (
		resp response
		err  error
	)
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("searxng: %w", ctx.Err())
			case <-time.After(time.Duration(100*attempt) * time.Millisecond):
			}
		}
		var retry bool
		resp, retry, err = s.do(ctx, reqURL.String())
		if err == nil || !retry {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(resp.Results))
	urls := make([]string, 0, min(count, len(resp.Results)))
	for _, r := range resp.Results {
		if r.URL == "" {
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		urls = append(urls, r.URL)
		if len(urls) == count {
			break
		}
	}
	return urls, nil
}

// do performs one request. retry reports whether the failure is transient.
func (s *Searcher) do(ctx context.Context, rawURL string) (response, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return response{}, false, fmt.Errorf("searxng: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpResp, err := s.client.Do(req)
	if err != nil {
		return response{}, ctx.Err() == nil, fmt.Errorf("searxng: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, httpResp.Body)
		return response{}, true, fmt.Errorf("searxng: status %d", httpResp.StatusCode)
	}
	if httpResp.StatusCode != http.StatusOK {
		return response{}, false, fmt.Errorf("searxng: status %d", httpResp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return response{}, false, fmt.Errorf("searxng: decode json: %w", err)
	}
	return out, false, nil
}

// HealthCheck probes the instance's /healthz endpoint.
func (s *Searcher) HealthCheck(ctx context.Context) error {
	u := *s.base
	u.Path = strings.TrimRight(u.Path, "/") + "/healthz"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("searxng: new request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("searxng: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("searxng: healthz status %d", resp.StatusCode)
	}
	return nil
}
