package textproc

import (
	"strings"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
)

// Splitter breaks text into sentences.
type Splitter interface {
	Split(text string) []string
}

// ProseSplitter segments sentences with the prose punkt tokenizer.
type ProseSplitter struct{}

// Split implements Splitter. Segmentation failures fall back to the whole text.
func (ProseSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return []string{text}
	}
	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SentenceMatch is the strongest phrase-level overlap between two texts.
type SentenceMatch struct {
	Source    string
	Candidate string
	Ratio     float64
	// Fallback is set when the match comes from the longest common substring
	// of the full texts rather than from a sentence pair.
	Fallback bool
}

// Found reports whether any overlap was detected.
func (m SentenceMatch) Found() bool { return m.Ratio > 0 }

// SentenceMatcherConfig tunes SentenceMatcher.
type SentenceMatcherConfig struct {
	Threshold         float64 // minimum sentence ratio before falling back
	MinSentenceChars  int     // normalized length a source sentence needs to qualify
	MinSubstringChars int     // shortest substring the fallback reports
	MaxChars          int     // cap applied to both texts before splitting
}

// DefaultSentenceMatcherConfig returns the stock tuning.
func DefaultSentenceMatcherConfig() SentenceMatcherConfig {
	return SentenceMatcherConfig{
		Threshold:         0.8,
		MinSentenceChars:  20,
		MinSubstringChars: 6,
		MaxChars:          5000,
	}
}

// SentenceMatcher finds the best near-duplicate sentence pair of two texts.
type SentenceMatcher struct {
	splitter Splitter
	cfg      SentenceMatcherConfig
}

// NewSentenceMatcher creates a matcher. A nil splitter uses ProseSplitter.
func NewSentenceMatcher(splitter Splitter, cfg SentenceMatcherConfig) *SentenceMatcher {
	if splitter == nil {
		splitter = ProseSplitter{}
	}
	return &SentenceMatcher{splitter: splitter, cfg: cfg}
}

type sentence struct {
	raw  string
	norm string
}

func (m *SentenceMatcher) sentences(text string) []sentence {
	parts := m.splitter.Split(text)
	out := make([]sentence, 0, len(parts))
	for _, p := range parts {
		n := NormalizeString(p)
		if n == "" {
			continue
		}
		out = append(out, sentence{raw: p, norm: n})
	}
	return out
}

// BestMatch compares every qualifying source sentence with every candidate
// sentence and keeps the highest ratio. Below the threshold it falls back to
// the longest common substring of the normalized texts.
func (m *SentenceMatcher) BestMatch(source, candidate string) SentenceMatch {
	source = Truncate(source, m.cfg.MaxChars)
	candidate = Truncate(candidate, m.cfg.MaxChars)

	var best SentenceMatch
	srcSents := m.sentences(source)
	candSents := m.sentences(candidate)
	for _, s := range srcSents {
		if utf8.RuneCountInString(s.norm) < m.cfg.MinSentenceChars {
			continue
		}
		for _, c := range candSents {
			r := Ratio(s.norm, c.norm)
			if r > best.Ratio {
				best = SentenceMatch{Source: s.raw, Candidate: c.raw, Ratio: r}
			}
		}
	}
	if best.Ratio >= m.cfg.Threshold && best.Ratio > 0 {
		return best
	}
	return m.substringFallback(source, candidate)
}

func (m *SentenceMatcher) substringFallback(source, candidate string) SentenceMatch {
	src := NormalizeString(source)
	cand := NormalizeString(candidate)
	srcLen := utf8.RuneCountInString(src)
	if srcLen == 0 {
		return SentenceMatch{}
	}
	sub := strings.TrimSpace(LongestCommonSubstring(src, cand))
	n := utf8.RuneCountInString(sub)
	if n == 0 || n < m.cfg.MinSubstringChars {
		return SentenceMatch{}
	}
	return SentenceMatch{
		Source:    sub,
		Candidate: sub,
		Ratio:     clamp01(float64(n) / float64(srcLen)),
		Fallback:  true,
	}
}
