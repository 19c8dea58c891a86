package report

import (
	"time"

	"github.com/kailas-cloud/overlap/internal/domain/match"
)

// Outcome distinguishes the ways an analysis can end.
type Outcome string

const (
	// OutcomeMatches means at least one result passed the threshold.
	OutcomeMatches Outcome = "matches"
	// OutcomeNoMatch means candidates were scored but none passed the threshold.
	OutcomeNoMatch Outcome = "no_match_above_threshold"
	// OutcomeNoCandidates means no candidate page could be scored at all.
	OutcomeNoCandidates Outcome = "no_candidates"
)

// Message returns a human-readable explanation of empty outcomes.
func (o Outcome) Message() string {
	switch o {
	case OutcomeNoMatch:
		return "no similar content found above threshold"
	case OutcomeNoCandidates:
		return "no candidate pages could be fetched"
	default:
		return ""
	}
}

// Stats describes how a request went, including recovered failures.
type Stats struct {
	Queries        int
	SearchFailures int
	Candidates     int
	Scored         int
	Skipped        map[match.SkipKind]int
	Duration       time.Duration
}

// SkippedTotal returns the number of skipped candidate URLs.
func (s *Stats) SkippedTotal() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// Report is the final ranked answer for one request.
type Report struct {
	id      string
	outcome Outcome
	results []match.Result
	stats   Stats
}

// New creates a report.
func New(id string, outcome Outcome, results []match.Result, stats Stats) Report {
	return Report{id: id, outcome: outcome, results: results, stats: stats}
}

// ID returns the request-scoped report identifier.
func (r *Report) ID() string { return r.id }

// Outcome returns how the analysis ended.
func (r *Report) Outcome() Outcome { return r.outcome }

// Results returns the ranked results.
func (r *Report) Results() []match.Result { return r.results }

// Stats returns request statistics.
func (r *Report) Stats() Stats { return r.stats }

// Empty reports whether no result passed the threshold.
func (r *Report) Empty() bool { return len(r.results) == 0 }
