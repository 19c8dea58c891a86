package harvest

import (
	"context"
	"fmt"
)

// Loader combines a Fetcher and an Extractor into a PageLoader.
type Loader struct {
	fetcher   Fetcher
	extractor Extractor
}

// NewLoader creates a page loader.
func NewLoader(f Fetcher, e Extractor) *Loader {
	return &Loader{fetcher: f, extractor: e}
}

// Load fetches url and extracts its text.
func (l *Loader) Load(ctx context.Context, url string) (string, error) {
	body, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	text, err := l.extractor.Extract(body, url)
	if err != nil {
		return "", fmt.Errorf("extract: %w", err)
	}
	return text, nil
}
