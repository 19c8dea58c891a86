package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput signals a missing or blank text to analyse.
	ErrEmptyInput = errors.New("empty input text")
	// ErrSearchFailed signals a search provider failure for one query.
	ErrSearchFailed = errors.New("search failed")
	// ErrQuotaExceeded signals an exhausted search query budget.
	ErrQuotaExceeded = errors.New("search quota exceeded")
	// ErrFetchFailed signals a transport-level failure while fetching a page.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrUnexpectedStatus signals a non-success HTTP status from a candidate page.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrExtractionFailed signals unparsable or unusable page content.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrEmptyDocument signals a page whose extracted text has no tokens.
	ErrEmptyDocument = errors.New("empty document")
	// ErrUnsupportedURL signals a candidate URL that cannot be fetched (scheme, host).
	ErrUnsupportedURL = errors.New("unsupported url")
)

// StatusError wraps ErrUnexpectedStatus with the HTTP status code returned by a page.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus.Error(), e.Code)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// NewStatusError creates a status error.
func NewStatusError(code int) error {
	return &StatusError{Code: code}
}
