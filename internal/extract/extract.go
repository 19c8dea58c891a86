// Package extract turns fetched HTML into the plain text that gets scored.
package extract

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/overlap/internal/domain"
)

// Mode selects an extraction strategy.
type Mode string

// Extraction modes.
const (
	ModeVisible     Mode = "visible"
	ModeReadability Mode = "readability"
)

// Extractor converts an HTML body into text.
type Extractor interface {
	Extract(body []byte, pageURL string) (string, error)
}

// New returns the extractor for mode. An empty mode means ModeVisible.
func New(mode Mode) (Extractor, error) {
	switch mode {
	case "", ModeVisible:
		return Visible{}, nil
	case ModeReadability:
		return Readability{}, nil
	default:
		return nil, fmt.Errorf("unknown extract mode %q", mode)
	}
}

// collapseSpace joins whitespace runs into single spaces, keeping line breaks
// between blocks so sentence splitting sees paragraph boundaries.
func collapseSpace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func emptyErr() error {
	return fmt.Errorf("%w: no text", domain.ErrExtractionFailed)
}
