package overlap

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Searcher is a web search provider returning result URLs for a query.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]string, error)
}

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	provider       string // "searxng", "google" or "custom"
	searxngURL     string
	googleKey      string
	googleEngineID string
	searcher       Searcher

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	dailyLimit   int64
	monthlyLimit int64
	rejectOver   bool

	fetchTimeout     time.Duration
	requestTimeout   time.Duration
	workers          int
	resultsPerQuery  int
	extractMode      string
	scoring          string
	threshold        float64
	topK             int
	sentenceMatching bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		cacheTTL:         24 * time.Hour,
		fetchTimeout:     5 * time.Second,
		requestTimeout:   30 * time.Second,
		workers:          5,
		resultsPerQuery:  6,
		extractMode:      "visible",
		scoring:          "cosine",
		threshold:        0.5,
		topK:             4,
		sentenceMatching: true,
	}
}

// WithSearxNG searches through a SearxNG instance with the JSON format enabled.
func WithSearxNG(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "searxng"
		c.searxngURL = baseURL
	})
}

// WithGoogle searches through the Google Custom Search JSON API.
func WithGoogle(apiKey, engineID string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "google"
		c.googleKey = apiKey
		c.googleEngineID = engineID
	})
}

// WithSearcher plugs in a custom search provider.
func WithSearcher(s Searcher) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "custom"
		c.searcher = s
	})
}

// WithCache keeps extracted pages and quota counters in Valkey or Redis.
func WithCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithCacheTTL sets how long extracted pages stay cached. Default: 24h.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithQueryLimits caps search provider calls per UTC day and month (0 = unlimited).
// With reject set, queries over the limit are refused instead of logged.
func WithQueryLimits(daily, monthly int64, reject bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyLimit = daily
		c.monthlyLimit = monthly
		c.rejectOver = reject
	})
}

// WithWorkers sets the number of pages fetched concurrently. Default: 5.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithResultsPerQuery sets how many URLs each search asks for. Default: 6.
func WithResultsPerQuery(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.resultsPerQuery = n
	})
}

// WithTimeouts sets the per-page fetch timeout and the deadline of a whole check.
func WithTimeouts(fetch, request time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.fetchTimeout = fetch
		c.requestTimeout = request
	})
}

// WithReadability extracts the main article instead of all visible text.
func WithReadability() Option {
	return optionFunc(func(c *clientConfig) {
		c.extractMode = "readability"
	})
}

// WithTFIDF weights terms by rarity across the fetched pages.
func WithTFIDF() Option {
	return optionFunc(func(c *clientConfig) {
		c.scoring = "tfidf"
	})
}

// WithRanking sets the minimum score and the maximum number of results.
// Defaults: 0.5 and 4. A zero k keeps every result above the threshold.
func WithRanking(threshold float64, k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.threshold = threshold
		c.topK = k
	})
}

// WithoutSentenceMatching scores pages by term overlap only.
func WithoutSentenceMatching() Option {
	return optionFunc(func(c *clientConfig) {
		c.sentenceMatching = false
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
