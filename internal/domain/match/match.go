package match

import "strings"

// Sentence is the strongest phrase-level overlap found in a candidate.
type Sentence struct {
	Source    string
	Candidate string
	Ratio     float64
	Fallback  bool // longest common substring instead of a sentence pair
}

// Result is the scored outcome for one candidate URL.
type Result struct {
	url          string
	order        int
	lexical      float64
	missingTerms []string
	sentence     *Sentence
	combined     float64
}

// New creates a result. The combined score starts equal to the lexical score
// and is set by the ranker.
func New(url string, order int, lexical float64, missingTerms []string, sentence *Sentence) Result {
	return Result{
		url:          url,
		order:        order,
		lexical:      lexical,
		missingTerms: missingTerms,
		sentence:     sentence,
		combined:     lexical,
	}
}

// URL returns the candidate URL.
func (r *Result) URL() string { return r.url }

// Order returns the discovery order of the URL within its request.
func (r *Result) Order() int { return r.order }

// Lexical returns the term-vector similarity in [0,1].
func (r *Result) Lexical() float64 { return r.lexical }

// MissingTerms returns source terms absent from the candidate.
func (r *Result) MissingTerms() []string { return r.missingTerms }

// MissingTermsString returns the missing terms separated by spaces.
func (r *Result) MissingTermsString() string { return strings.Join(r.missingTerms, " ") }

// Sentence returns the sentence match, or nil when sentence matching was off
// or found nothing.
func (r *Result) Sentence() *Sentence { return r.sentence }

// Combined returns the ranking score.
func (r *Result) Combined() float64 { return r.combined }

// WithLexical returns a copy with a replaced lexical score (TF-IDF re-scoring).
func (r Result) WithLexical(score float64) Result {
	r.lexical = score
	r.combined = score
	return r
}

// WithCombined returns a copy with the given ranking score.
func (r Result) WithCombined(score float64) Result {
	r.combined = score
	return r
}
