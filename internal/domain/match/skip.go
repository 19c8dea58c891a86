package match

import (
	"context"
	"errors"

	"github.com/kailas-cloud/overlap/internal/domain"
)

// SkipKind classifies why a candidate URL produced no result.
type SkipKind string

// Skip kinds.
const (
	SkipFetch    SkipKind = "fetch"
	SkipStatus   SkipKind = "status"
	SkipExtract  SkipKind = "extract"
	SkipEmpty    SkipKind = "empty"
	SkipCanceled SkipKind = "canceled"
)

// Skip is a per-URL failure that is recovered locally.
type Skip struct {
	URL  string
	Kind SkipKind
	Err  error
}

func (s *Skip) Error() string {
	return string(s.Kind) + " " + s.URL + ": " + s.Err.Error()
}

func (s *Skip) Unwrap() error { return s.Err }

// NewSkip classifies err into a skip for url.
func NewSkip(url string, err error) *Skip {
	return &Skip{URL: url, Kind: Classify(err), Err: err}
}

// Classify maps a pipeline error onto a skip kind. A per-URL timeout is a
// fetch failure; only cancellation of the whole request is SkipCanceled.
func Classify(err error) SkipKind {
	switch {
	case errors.Is(err, context.Canceled):
		return SkipCanceled
	case errors.Is(err, domain.ErrUnexpectedStatus):
		return SkipStatus
	case errors.Is(err, domain.ErrEmptyDocument):
		return SkipEmpty
	case errors.Is(err, domain.ErrExtractionFailed):
		return SkipExtract
	default:
		return SkipFetch
	}
}
