package extract

import (
	"bytes"
	"fmt"
	"net/url"

	readability "github.com/go-shiori/go-readability"

	"github.com/kailas-cloud/overlap/internal/domain"
)

// Readability keeps only the main article body.
// Pages without a detectable article fall back to Visible.
type Readability struct{}

// Extract implements Extractor.
func (Readability) Extract(body []byte, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: page url: %w", domain.ErrExtractionFailed, err)
	}

	art, err := readability.FromReader(bytes.NewReader(body), base)
	if err != nil {
		return "", fmt.Errorf("%w: readability: %w", domain.ErrExtractionFailed, err)
	}

	if text := collapseSpace(art.TextContent); text != "" {
		return text, nil
	}
	return Visible{}.Extract(body, pageURL)
}
