package harvest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/domain"
	"github.com/kailas-cloud/overlap/internal/domain/match"
	domquery "github.com/kailas-cloud/overlap/internal/domain/query"
	"github.com/kailas-cloud/overlap/internal/domain/source"
)

// Config tunes a harvest.
type Config struct {
	Workers         int           // pool size
	ResultsPerQuery int           // URLs requested per search
	RequestTimeout  time.Duration // deadline for the whole harvest; zero disables it
}

// DefaultConfig returns the default harvest settings.
func DefaultConfig() Config {
	return Config{Workers: 5, ResultsPerQuery: 6, RequestTimeout: 30 * time.Second}
}

// Planner turns source text into search queries.
type Planner interface {
	Plan(text string) []domquery.Query
}

// Result is everything a harvest produced. Candidates are sorted by discovery order.
type Result struct {
	Candidates     []Candidate
	Skips          []*match.Skip
	Queries        int
	SearchFailures int
	URLs           int
}

// Harvester searches for candidate pages and processes them concurrently.
type Harvester struct {
	planner  Planner
	searcher Searcher
	worker   *Worker
	cfg      Config
	logger   *zap.Logger
}

// New creates a harvester.
func New(planner Planner, searcher Searcher, worker *Worker, cfg Config, logger *zap.Logger) *Harvester {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.ResultsPerQuery <= 0 {
		cfg.ResultsPerQuery = DefaultConfig().ResultsPerQuery
	}
	return &Harvester{planner: planner, searcher: searcher, worker: worker, cfg: cfg, logger: logger}
}

// Harvest runs every planned query, deduplicates the URLs and scores each page.
// Per-query and per-URL failures are recorded, never returned.
func (h *Harvester) Harvest(ctx context.Context, src *source.Text) (Result, error) {
	if h.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.RequestTimeout)
		defer cancel()
	}

	var res Result
	urls := h.collectURLs(ctx, src, &res)
	res.URLs = len(urls)
	if len(urls) == 0 {
		return res, nil
	}

	pool, err := ants.NewPool(min(h.cfg.Workers, len(urls)))
	if err != nil {
		return res, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	collect := func(c Candidate, skip *match.Skip) {
		mu.Lock()
		defer mu.Unlock()
		if skip != nil {
			res.Skips = append(res.Skips, skip)
			return
		}
		res.Candidates = append(res.Candidates, c)
	}

	for order, u := range urls {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			collect(h.worker.Process(ctx, src, u, order))
		})
		if submitErr != nil {
			wg.Done()
			collect(Candidate{}, &match.Skip{URL: u, Kind: match.SkipFetch, Err: submitErr})
		}
	}
	wg.Wait()

	sort.Slice(res.Candidates, func(i, j int) bool { return res.Candidates[i].Order < res.Candidates[j].Order })
	sort.SliceStable(res.Skips, func(i, j int) bool { return res.Skips[i].URL < res.Skips[j].URL })

	h.logger.Debug("Harvest finished",
		zap.Int("queries", res.Queries),
		zap.Int("search_failures", res.SearchFailures),
		zap.Int("urls", res.URLs),
		zap.Int("scored", len(res.Candidates)),
		zap.Int("skipped", len(res.Skips)),
	)
	return res, nil
}

// collectURLs runs the queries in order and returns unique URLs in discovery order.
func (h *Harvester) collectURLs(ctx context.Context, src *source.Text, res *Result) []string {
	queries := h.planner.Plan(src.Raw())
	seen := make(map[string]struct{})
	var urls []string

	for _, q := range queries {
		if ctx.Err() != nil {
			break
		}
		res.Queries++
		found, err := h.searcher.Search(ctx, q.Text(), h.cfg.ResultsPerQuery)
		if err != nil {
			res.SearchFailures++
			level := h.logger.Warn
			if errors.Is(err, domain.ErrQuotaExceeded) {
				level = h.logger.Info
			}
			level("Search failed", zap.Stringer("query", &q), zap.Error(err))
			continue
		}
		for _, raw := range found {
			key := canonicalURL(raw)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			urls = append(urls, key)
		}
	}
	return urls
}

// canonicalURL lowercases scheme and host and drops the fragment.
// Unparsable input is returned trimmed so the fetcher can reject it.
func canonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
