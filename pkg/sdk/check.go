package overlap

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/overlap/internal/domain"
	"github.com/kailas-cloud/overlap/internal/domain/report"
)

// Outcome tells how a check ended.
type Outcome string

// Outcome constants.
const (
	OutcomeMatches      Outcome = "matches"
	OutcomeNoMatch      Outcome = "no_match_above_threshold"
	OutcomeNoCandidates Outcome = "no_candidates"
)

// SentenceMatch is the closest sentence pair between the text and a page.
// Fallback marks a longest common substring used when no sentence pair was close enough.
type SentenceMatch struct {
	Source    string
	Candidate string
	Ratio     float64
	Fallback  bool
}

// Result is one page that shares content with the checked text.
type Result struct {
	URL          string
	Score        float64
	LexicalScore float64
	MissingTerms []string // source terms absent from the page
	Sentence     *SentenceMatch
}

// Stats describes how a check went.
type Stats struct {
	Queries        int
	SearchFailures int
	Candidates     int
	Scored         int
	Skipped        map[string]int // by reason: fetch, status, extract, empty, canceled
	Duration       time.Duration
}

// Report is the outcome of a check.
type Report struct {
	ID      string
	Outcome Outcome
	Message string
	Results []Result
	Stats   Stats
}

// Check searches the web for text and returns the pages that overlap with it.
// It fails with ErrQuotaExceeded when the query limits were set with reject
// and every search of the check was refused.
func (c *Client) Check(ctx context.Context, text string) (rep Report, err error) {
	start := time.Now()
	defer func() { c.obs.observe("check", start, err) }()

	ctx, usage := domain.NewContextWithSearchUsage(ctx)
	r, err := c.checkSvc.Check(ctx, text)
	if err != nil {
		return Report{}, fmt.Errorf("check: %w", err)
	}
	if r.Outcome() == report.OutcomeNoCandidates && usage.Queries() == 0 && usage.Refused() > 0 {
		return Report{}, fmt.Errorf("check: %w", ErrQuotaExceeded)
	}
	return fromReport(&r), nil
}

func fromReport(r *report.Report) Report {
	results := make([]Result, 0, len(r.Results()))
	for _, res := range r.Results() {
		item := Result{
			URL:          res.URL(),
			Score:        res.Combined(),
			LexicalScore: res.Lexical(),
			MissingTerms: res.MissingTerms(),
		}
		if sm := res.Sentence(); sm != nil {
			item.Sentence = &SentenceMatch{
				Source:    sm.Source,
				Candidate: sm.Candidate,
				Ratio:     sm.Ratio,
				Fallback:  sm.Fallback,
			}
		}
		results = append(results, item)
	}

	st := r.Stats()
	skipped := make(map[string]int, len(st.Skipped))
	for k, v := range st.Skipped {
		skipped[string(k)] = v
	}

	return Report{
		ID:      r.ID(),
		Outcome: Outcome(r.Outcome()),
		Message: r.Outcome().Message(),
		Results: results,
		Stats: Stats{
			Queries:        st.Queries,
			SearchFailures: st.SearchFailures,
			Candidates:     st.Candidates,
			Scored:         st.Scored,
			Skipped:        skipped,
			Duration:       st.Duration,
		},
	}
}
