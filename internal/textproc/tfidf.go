package textproc

import "math"

// Corpus holds document frequencies for the documents of one request.
type Corpus struct {
	docs int
	df   map[string]int
}

// NewCorpus builds document frequencies over the given token sequences.
func NewCorpus(documents ...[]string) *Corpus {
	c := &Corpus{df: make(map[string]int)}
	for _, d := range documents {
		c.Add(d)
	}
	return c
}

// Add registers one more document.
func (c *Corpus) Add(tokens []string) {
	c.docs++
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		c.df[t]++
	}
}

// Len returns the number of documents in the corpus.
func (c *Corpus) Len() int { return c.docs }

// IDF returns the smoothed inverse document frequency of a term.
// Always positive, so a document compared with itself still scores 1.
func (c *Corpus) IDF(term string) float64 {
	return 1 + math.Log(float64(1+c.docs)/float64(1+c.df[term]))
}

// Weigh turns a token sequence into a TF-IDF vector.
func (c *Corpus) Weigh(tokens []string) map[string]float64 {
	v := TermFrequency(tokens)
	for term, tf := range v {
		v[term] = tf * c.IDF(term)
	}
	return v
}

// TFIDF returns the cosine similarity of the TF-IDF vectors of a and b.
func (c *Corpus) TFIDF(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return cosineOf(c.Weigh(a), c.Weigh(b))
}
