package overlap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/db"
	dbRedis "github.com/kailas-cloud/overlap/internal/db/redis"
	"github.com/kailas-cloud/overlap/internal/domain/report"
	"github.com/kailas-cloud/overlap/internal/extract"
	"github.com/kailas-cloud/overlap/internal/repository/pagecache"
	quotarepo "github.com/kailas-cloud/overlap/internal/repository/quota"
	"github.com/kailas-cloud/overlap/internal/textproc"
	"github.com/kailas-cloud/overlap/internal/transport/google"
	"github.com/kailas-cloud/overlap/internal/transport/searxng"
	"github.com/kailas-cloud/overlap/internal/transport/web"
	"github.com/kailas-cloud/overlap/internal/usecase/analysis"
	"github.com/kailas-cloud/overlap/internal/usecase/harvest"
	healthuc "github.com/kailas-cloud/overlap/internal/usecase/health"
	"github.com/kailas-cloud/overlap/internal/usecase/query"
	"github.com/kailas-cloud/overlap/internal/usecase/rank"
	searchuc "github.com/kailas-cloud/overlap/internal/usecase/search"
	usageuc "github.com/kailas-cloud/overlap/internal/usecase/usage"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced by mocks in tests.
type checkUseCase interface {
	Check(ctx context.Context, text string) (report.Report, error)
}

// Client is the overlap SDK entry point.
type Client struct {
	store     db.Store
	checkSvc  checkUseCase
	healthSvc healthUseCase
	usageSvc  usageUseCase
	obs       *observer
}

// New creates a Client. When a cache is configured, ctx bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.provider == "" {
		return nil, errors.New("overlap: search provider required (use WithSearxNG, WithGoogle or WithSearcher)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if len(cfg.cacheAddrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.cacheAddrs, Password: cfg.cachePassword})
		if err != nil {
			return nil, fmt.Errorf("overlap: create cache store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("overlap: cache not ready: %w", err)
		}
		store = s
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return c, nil
}

func createSearcher(ctx context.Context, cfg *clientConfig) (Searcher, healthuc.SearchChecker, error) {
	switch cfg.provider {
	case "searxng":
		s, err := searxng.NewSearcher(searxng.Config{BaseURL: cfg.searxngURL, Retries: 2})
		if err != nil {
			return nil, nil, fmt.Errorf("overlap: create searxng searcher: %w", err)
		}
		return s, s, nil
	case "google":
		s, err := google.NewSearcher(ctx, google.Config{APIKey: cfg.googleKey, EngineID: cfg.googleEngineID})
		if err != nil {
			return nil, nil, fmt.Errorf("overlap: create google searcher: %w", err)
		}
		return s, nil, nil
	case "custom":
		if cfg.searcher == nil {
			return nil, nil, errors.New("overlap: nil searcher")
		}
		return cfg.searcher, nil, nil
	default:
		return nil, nil, fmt.Errorf("overlap: unknown provider %q", cfg.provider)
	}
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	// The SDK reports through slog; internal services stay silent.
	logger := zap.NewNop()

	base, searchHealth, err := createSearcher(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var quota *searchuc.QuotaTracker
	var quotaChecker searchuc.QuotaChecker
	var quotaReader usageuc.QuotaReader
	var healthQuota healthuc.QuotaReader
	if cfg.dailyLimit > 0 || cfg.monthlyLimit > 0 {
		action := searchuc.QuotaActionWarn
		if cfg.rejectOver {
			action = searchuc.QuotaActionReject
		}
		quota = searchuc.NewQuotaTracker(cfg.provider, cfg.dailyLimit, cfg.monthlyLimit, action, logger)
		if store != nil {
			quota.WithStore(ctx, quotarepo.New(store, 48*time.Hour, 62*24*time.Hour))
		}
		quotaChecker, quotaReader, healthQuota = quota, quota, quota
	}
	searcher := searchuc.NewInstrumentedSearcher(base, cfg.provider, quotaChecker, logger)

	extractor, err := extract.New(extract.Mode(cfg.extractMode))
	if err != nil {
		return nil, fmt.Errorf("overlap: %w", err)
	}
	fetcher := web.NewFetcher(web.Config{Timeout: cfg.fetchTimeout})

	var loader harvest.PageLoader = harvest.NewLoader(fetcher, extractor)
	if store != nil {
		loader = pagecache.New(loader, store, cfg.cacheTTL, nil, logger)
	}

	scorer, err := textproc.NewScorer(cfg.scoring)
	if err != nil {
		return nil, fmt.Errorf("overlap: %w", err)
	}

	worker := harvest.NewWorker(loader, textproc.NewSentenceMatcher(nil, textproc.DefaultSentenceMatcherConfig()),
		harvest.WorkerConfig{
			Timeout:          cfg.fetchTimeout,
			MaxChars:         5000,
			SentenceMatching: cfg.sentenceMatching,
			Scorer:           scorer,
		}, logger)

	harvester := harvest.New(query.New(query.DefaultConfig()), searcher, worker, harvest.Config{
		Workers:         cfg.workers,
		ResultsPerQuery: cfg.resultsPerQuery,
		RequestTimeout:  cfg.requestTimeout,
	}, logger)

	policy := rank.DefaultPolicy()
	policy.Threshold = cfg.threshold
	policy.K = cfg.topK

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}

	return &Client{
		store:     store,
		checkSvc:  analysis.New(harvester, analysis.Config{Scorer: scorer, Policy: policy}),
		healthSvc: healthuc.New(cachePinger, searchHealth, healthQuota),
		usageSvc:  usageuc.New(quotaReader, cfg.provider),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
