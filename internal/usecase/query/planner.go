package query

import (
	"strings"

	domquery "github.com/kailas-cloud/overlap/internal/domain/query"
)

// Config bounds the queries derived from a text.
type Config struct {
	MaxWords      int  // word budget per query
	MaxChars      int  // character budget per query (search provider limit)
	ChunkQueries  bool // also search the head and tail of long texts
	WordsPerChunk int  // words in the head/tail chunks
}

// DefaultConfig returns the stock planner tuning.
func DefaultConfig() Config {
	return Config{
		MaxWords:      32,
		MaxChars:      256,
		ChunkQueries:  true,
		WordsPerChunk: 40,
	}
}

// Planner derives search queries from a source text.
type Planner struct {
	cfg Config
}

// New creates a planner.
func New(cfg Config) *Planner {
	return &Planner{cfg: cfg}
}

// Plan returns the full-text query and, for long texts, head and tail chunks.
// Duplicate query strings are emitted once.
func (p *Planner) Plan(text string) []domquery.Query {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var out []domquery.Query
	seen := make(map[string]struct{})
	add := func(q string, s domquery.Strategy) {
		if q == "" {
			return
		}
		if _, ok := seen[q]; ok {
			return
		}
		seen[q] = struct{}{}
		out = append(out, domquery.New(q, s))
	}

	add(p.bound(words), domquery.Full)

	n := p.cfg.WordsPerChunk
	if p.cfg.ChunkQueries && n > 0 && len(words) > n {
		add(p.bound(words[:n]), domquery.Head)
		add(p.boundTail(words[len(words)-n:]), domquery.Tail)
	}
	return out
}

// bound applies the word and character budgets, cutting at word boundaries.
func (p *Planner) bound(words []string) string {
	if p.cfg.MaxWords > 0 && len(words) > p.cfg.MaxWords {
		words = words[:p.cfg.MaxWords]
	}
	var b strings.Builder
	for _, w := range words {
		extra := len(w)
		if b.Len() > 0 {
			extra++
		}
		if p.cfg.MaxChars > 0 && b.Len()+extra > p.cfg.MaxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	if b.Len() == 0 && len(words) > 0 && p.cfg.MaxChars > 0 {
		// A single word longer than the budget is cut rather than dropped.
		return truncateBytes(words[0], p.cfg.MaxChars)
	}
	return b.String()
}

// boundTail is bound for tail chunks: budgets are spent from the last word backwards.
func (p *Planner) boundTail(words []string) string {
	if p.cfg.MaxWords > 0 && len(words) > p.cfg.MaxWords {
		words = words[len(words)-p.cfg.MaxWords:]
	}
	start, size := len(words), 0
	for i := len(words) - 1; i >= 0; i-- {
		extra := len(words[i])
		if size > 0 {
			extra++
		}
		if p.cfg.MaxChars > 0 && size+extra > p.cfg.MaxChars {
			break
		}
		size += extra
		start = i
	}
	if start == len(words) && len(words) > 0 && p.cfg.MaxChars > 0 {
		return truncateBytes(words[len(words)-1], p.cfg.MaxChars)
	}
	return strings.Join(words[start:], " ")
}

func truncateBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := 0
	for i := range s {
		if i > limit {
			break
		}
		cut = i
	}
	return s[:cut]
}
