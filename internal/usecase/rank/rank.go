// Package rank combines per-candidate signals into the final ordered result set.
package rank

import (
	"sort"

	"github.com/kailas-cloud/overlap/internal/domain/match"
	"github.com/kailas-cloud/overlap/internal/domain/report"
)

// Policy controls filtering and ordering.
type Policy struct {
	Threshold      float64 // minimum combined score
	K              int     // maximum number of results
	LexicalWeight  float64
	SentenceWeight float64
}

// DefaultPolicy returns threshold 0.5, K 4 and weights 0.4/0.6.
func DefaultPolicy() Policy {
	return Policy{Threshold: 0.5, K: 4, LexicalWeight: 0.4, SentenceWeight: 0.6}
}

// Ranked is the outcome of Rank.
type Ranked struct {
	Outcome report.Outcome
	Results []match.Result
}

// Combine returns the combined score of r under p. Without a sentence signal
// the lexical score stands alone.
func (p Policy) Combine(r match.Result) float64 {
	s := r.Sentence()
	if s == nil {
		return r.Lexical()
	}
	return p.LexicalWeight*r.Lexical() + p.SentenceWeight*s.Ratio
}

// Rank scores, filters, orders and truncates results. The output depends only
// on the set of results, not on their order.
func Rank(results []match.Result, p Policy) Ranked {
	if len(results) == 0 {
		return Ranked{Outcome: report.OutcomeNoCandidates}
	}

	kept := make([]match.Result, 0, len(results))
	for _, r := range results {
		r = r.WithCombined(p.Combine(r))
		if r.Combined() >= p.Threshold {
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Combined() != b.Combined() {
			return a.Combined() > b.Combined()
		}
		if a.Order() != b.Order() {
			return a.Order() < b.Order()
		}
		return a.URL() < b.URL()
	})

	if p.K > 0 && len(kept) > p.K {
		kept = kept[:p.K]
	}
	if len(kept) == 0 {
		return Ranked{Outcome: report.OutcomeNoMatch}
	}
	return Ranked{Outcome: report.OutcomeMatches, Results: kept}
}
