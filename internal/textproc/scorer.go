package textproc

import "fmt"

// Scorer rates the lexical similarity of two token sequences in [0,1].
type Scorer interface {
	Score(source, candidate []string) float64
}

// CorpusScorer is a Scorer whose term weights depend on every document of a request.
// Until bound to a corpus it scores like plain cosine.
type CorpusScorer interface {
	Scorer
	WithCorpus(c *Corpus) Scorer
}

// CosineScorer scores with raw term-frequency cosine similarity.
type CosineScorer struct{}

// Score implements Scorer.
func (CosineScorer) Score(source, candidate []string) float64 {
	return Cosine(source, candidate)
}

// TFIDFScorer scores with TF-IDF weighted cosine similarity over a request corpus.
type TFIDFScorer struct {
	Corpus *Corpus
}

// Score implements Scorer. A nil corpus degrades to plain cosine.
func (s TFIDFScorer) Score(source, candidate []string) float64 {
	if s.Corpus == nil {
		return Cosine(source, candidate)
	}
	return s.Corpus.TFIDF(source, candidate)
}

// WithCorpus implements CorpusScorer.
func (TFIDFScorer) WithCorpus(c *Corpus) Scorer {
	return TFIDFScorer{Corpus: c}
}

// NewScorer returns the scorer for a scoring mode: "cosine" (or empty) or "tfidf".
func NewScorer(mode string) (Scorer, error) {
	switch mode {
	case "", "cosine":
		return CosineScorer{}, nil
	case "tfidf":
		return TFIDFScorer{}, nil
	default:
		return nil, fmt.Errorf("unknown scoring mode %q", mode)
	}
}

var (
	_ Scorer       = CosineScorer{}
	_ CorpusScorer = TFIDFScorer{}
)
