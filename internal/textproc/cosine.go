package textproc

import (
	"math"
	"sort"
)

// TermFrequency counts token occurrences.
func TermFrequency(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// Cosine returns the cosine similarity of the term-frequency vectors of a and b.
// Empty input or a zero norm yields 0.
func Cosine(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return cosineOf(TermFrequency(a), TermFrequency(b))
}

// cosineOf computes dot(a,b) / (|a|*|b|) over sparse vectors, clamped to [0,1].
// Sums run in sorted term order so float weights give the same result on every
// call and in both argument orders.
func cosineOf(a, b map[string]float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for _, term := range sortedTerms(a) {
		if wb, ok := b[term]; ok {
			dot += a[term] * wb
		}
	}
	sqA := sumSquares(a)
	sqB := sumSquares(b)
	if sqA == 0 || sqB == 0 {
		return 0
	}
	// sqrt(|a|^2 * |b|^2) keeps cosine(a, a) exact for integer counts.
	return clamp01(dot / math.Sqrt(sqA*sqB))
}

func sumSquares(v map[string]float64) float64 {
	var sum float64
	for _, term := range sortedTerms(v) {
		sum += v[term] * v[term]
	}
	return sum
}

func sortedTerms(v map[string]float64) []string {
	terms := make([]string, 0, len(v))
	for term := range v {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
