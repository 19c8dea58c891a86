package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/config"
	"github.com/kailas-cloud/overlap/internal/db"
	dbRedis "github.com/kailas-cloud/overlap/internal/db/redis"
	"github.com/kailas-cloud/overlap/internal/extract"
	logpkg "github.com/kailas-cloud/overlap/internal/logger"
	"github.com/kailas-cloud/overlap/internal/metrics"
	"github.com/kailas-cloud/overlap/internal/repository/pagecache"
	quotarepo "github.com/kailas-cloud/overlap/internal/repository/quota"
	"github.com/kailas-cloud/overlap/internal/textproc"
	chiTransport "github.com/kailas-cloud/overlap/internal/transport/chi"
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
	"github.com/kailas-cloud/overlap/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting overlap API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("search_provider", cfg.Search.Provider),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()
	metrics.RegisterHTTPMetrics()

	ctx := context.Background()

	// Optional store: page cache and persistent quota counters.
	var store db.Store
	if cfg.Cache.Enabled {
		store = connectStore(ctx, cfg.Cache, logger)
		defer store.Close()
	}

	quota := buildQuota(ctx, cfg.Search, store, logger)

	searcher, searchHealth := buildSearcher(ctx, cfg.Search, logger)

	// Pass nil interface (not typed nil pointer!) if the quota is not configured.
	var quotaChecker searchuc.QuotaChecker
	if quota != nil {
		quotaChecker = quota
	}
	instrumented := searchuc.NewInstrumentedSearcher(searcher, cfg.Search.Provider, quotaChecker, logger)

	pipeline := buildPipeline(cfg, instrumented, store, logger)

	var quotaReader usageuc.QuotaReader
	var healthQuota healthuc.QuotaReader
	if quota != nil {
		quotaReader = quota
		healthQuota = quota
	}
	usageSvc := usageuc.New(quotaReader, cfg.Search.Provider)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, searchHealth, healthQuota)

	server := chiTransport.NewServer(pipeline, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// connectStore opens the cache store and waits until it answers.
func connectStore(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) db.Store {
	// Valkey and Redis share the wire protocol; one client serves both drivers.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.String("driver", cfg.Driver), zap.Error(err))
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache not ready", zap.Error(err))
	}
	logger.Info("Connected to cache", zap.String("driver", cfg.Driver), zap.Strings("addrs", cfg.Addrs))
	return store
}

// buildQuota returns nil when no query limit is configured.
func buildQuota(
	ctx context.Context, cfg config.SearchConfig, store db.Store, logger *zap.Logger,
) *searchuc.QuotaTracker {
	if cfg.DailyQueryLimit <= 0 && cfg.MonthlyQueryLimit <= 0 {
		return nil
	}
	action := searchuc.QuotaActionWarn
	if cfg.QuotaAction == "reject" {
		action = searchuc.QuotaActionReject
	}
	quota := searchuc.NewQuotaTracker(cfg.Provider, cfg.DailyQueryLimit, cfg.MonthlyQueryLimit, action, logger)
	if store != nil {
		quota.WithStore(ctx, quotarepo.New(store, 48*time.Hour, 62*24*time.Hour))
	}
	return quota
}

// buildSearcher returns the provider client and, when it supports it, its health checker.
func buildSearcher(
	ctx context.Context, cfg config.SearchConfig, logger *zap.Logger,
) (searchuc.Searcher, healthuc.SearchChecker) {
	switch cfg.Provider {
	case "google":
		s, err := google.NewSearcher(ctx, google.Config{
			APIKey:   cfg.APIKey,
			EngineID: cfg.EngineID,
		})
		if err != nil {
			logger.Fatal("Failed to create Google searcher", zap.Error(err))
		}
		return s, nil
	default:
		s, err := searxng.NewSearcher(searxng.Config{
			BaseURL:  cfg.BaseURL,
			Engines:  cfg.Engines,
			Language: cfg.Language,
			Retries:  cfg.Retries,
		})
		if err != nil {
			logger.Fatal("Failed to create SearxNG searcher", zap.Error(err))
		}
		return s, s
	}
}

// buildPipeline assembles the chain: fetcher -> extractor -> (cache) -> worker -> harvester -> analysis.
func buildPipeline(
	cfg config.Config, searcher harvest.Searcher, store db.Store, logger *zap.Logger,
) *analysis.Service {
	fetcher := web.NewFetcher(web.Config{
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		MaxRedirects: cfg.Fetch.MaxRedirects,
		Timeout:      time.Duration(cfg.Fetch.TimeoutSec) * time.Second,
	})

	extractor, err := extract.New(extract.Mode(cfg.Extract.Mode))
	if err != nil {
		logger.Fatal("Failed to create extractor", zap.Error(err))
	}

	var loader harvest.PageLoader = harvest.NewLoader(fetcher, extractor)
	if store != nil {
		loader = pagecache.New(loader, store, time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.PageCacheTotal, logger)
	}

	a := cfg.Analysis
	scorer, err := textproc.NewScorer(a.Scoring)
	if err != nil {
		logger.Fatal("Failed to create scorer", zap.Error(err))
	}

	matcher := textproc.NewSentenceMatcher(nil, textproc.SentenceMatcherConfig{
		Threshold:         a.SentenceThreshold,
		MinSentenceChars:  a.MinSentenceChars,
		MinSubstringChars: a.MinSubstringChars,
		MaxChars:          a.MaxSentenceChars,
	})

	worker := harvest.NewWorker(loader, matcher, harvest.WorkerConfig{
		Timeout:          time.Duration(cfg.Fetch.TimeoutSec) * time.Second,
		MaxChars:         cfg.Extract.MaxChars,
		SentenceMatching: *a.SentenceMatching,
		Scorer:           scorer,
	}, logger)

	planner := query.New(query.Config{
		MaxWords:      a.MaxQueryWords,
		MaxChars:      a.MaxQueryChars,
		ChunkQueries:  *a.ChunkQueries,
		WordsPerChunk: a.WordsPerChunk,
	})

	harvester := harvest.New(planner, searcher, worker, harvest.Config{
		Workers:         a.Workers,
		ResultsPerQuery: cfg.Search.ResultsPerQuery,
		RequestTimeout:  time.Duration(a.RequestTimeoutSec) * time.Second,
	}, logger)

	return analysis.New(harvester, analysis.Config{
		Scorer: scorer,
		Policy: rank.Policy{
			Threshold:      *a.Threshold,
			K:              a.TopK,
			LexicalWeight:  a.Weights.Lexical,
			SentenceWeight: a.Weights.Sentence,
		},
	})
}
