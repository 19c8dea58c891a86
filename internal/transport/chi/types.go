package chi

import "time"

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeQuotaExceeded    ErrorCode = "search_quota_exceeded"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// CheckRequest is the POST /check body.
type CheckRequest struct {
	Text string `json:"text"`
}

// SentenceMatch is the best near-duplicate sentence pair of a result.
type SentenceMatch struct {
	Source    string  `json:"source"`
	Candidate string  `json:"candidate"`
	Ratio     float64 `json:"ratio"`
	Fallback  bool    `json:"fallback"`
}

// CheckResult is one ranked candidate page.
type CheckResult struct {
	URL          string         `json:"url"`
	Score        float64        `json:"score"`
	LexicalScore float64        `json:"lexical_score"`
	MissingTerms string         `json:"missing_terms"`
	Sentence     *SentenceMatch `json:"sentence,omitempty"`
}

// CheckStats describes how the request went.
type CheckStats struct {
	Queries        int            `json:"queries"`
	SearchFailures int            `json:"search_failures"`
	Candidates     int            `json:"candidates"`
	Scored         int            `json:"scored"`
	Skipped        map[string]int `json:"skipped"`
	DurationMs     int64          `json:"duration_ms"`
}

// CheckResponse is the body of a successful check.
type CheckResponse struct {
	ID      string        `json:"id"`
	Outcome string        `json:"outcome"`
	Message string        `json:"message,omitempty"`
	Results []CheckResult `json:"results"`
	Stats   CheckStats    `json:"stats"`
}

// QuotaStatus is the search budget part of a usage report.
type QuotaStatus struct {
	Limit       int64 `json:"limit"`
	Used        int64 `json:"used"`
	Remaining   int64 `json:"remaining"`
	IsExhausted bool  `json:"is_exhausted"`
}

// UsageResponse is the body of GET /usage.
type UsageResponse struct {
	Period        string      `json:"period"`
	Provider      string      `json:"provider"`
	PeriodStartAt time.Time   `json:"period_start_at"`
	PeriodEndAt   time.Time   `json:"period_end_at"`
	Quota         QuotaStatus `json:"quota"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
