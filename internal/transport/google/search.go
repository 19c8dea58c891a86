package google

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// maxNum is the Custom Search JSON API page size limit.
const maxNum = 10

// Config holds Custom Search settings.
type Config struct {
	APIKey   string
	EngineID string
	// Endpoint overrides the API base URL (tests, proxies).
	Endpoint string
}

// Searcher queries the Google Custom Search JSON API.
type Searcher struct {
	svc      *customsearch.Service
	engineID string
}

// NewSearcher creates a Custom Search client.
func NewSearcher(ctx context.Context, cfg Config) (*Searcher, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("google search: api key is required")
	}
	if cfg.EngineID == "" {
		return nil, errors.New("google search: engine id is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google search: new service: %w", err)
	}
	return &Searcher{svc: svc, engineID: cfg.EngineID}, nil
}

// Search returns up to count result links for query.
func (s *Searcher) Search(ctx context.Context, query string, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}
	if count > maxNum {
		count = maxNum
	}

	resp, err := s.svc.Cse.List().
		Cx(s.engineID).
		Q(query).
		Num(int64(count)).
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, fmt.Errorf("google search: status %d: %s", gerr.Code, gerr.Message)
		}
		return nil, fmt.Errorf("google search: %w", err)
	}

	urls := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}
	return urls, nil
}
