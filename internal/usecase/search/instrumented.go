package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/domain"
	"github.com/kailas-cloud/overlap/internal/metrics"
)

// InstrumentedSearcher wraps a Searcher with quota enforcement, metrics and logging.
type InstrumentedSearcher struct {
	inner    Searcher
	provider string
	quota    QuotaChecker
	logger   *zap.Logger
}

// NewInstrumentedSearcher wraps a searcher. quota may be nil (unlimited).
func NewInstrumentedSearcher(
	inner Searcher, provider string, quota QuotaChecker, logger *zap.Logger,
) *InstrumentedSearcher {
	return &InstrumentedSearcher{inner: inner, provider: provider, quota: quota, logger: logger}
}

// Search checks the quota, delegates to the provider and records usage.
func (s *InstrumentedSearcher) Search(ctx context.Context, query string, count int) ([]string, error) {
	usage := domain.SearchUsageFromContext(ctx)

	if s.quota != nil {
		if err := s.quota.Check(ctx); err != nil {
			usage.AddRefused()
			metrics.SearchRequestsTotal.WithLabelValues(s.provider, "refused").Inc()
			s.logger.Warn("Search refused by quota",
				zap.String("provider", s.provider),
				zap.Error(err),
			)
			return nil, fmt.Errorf("quota check: %w", err)
		}
	}

	start := time.Now()
	urls, err := s.inner.Search(ctx, query, count)
	duration := time.Since(start)

	usage.AddQuery()
	metrics.SearchRequestDuration.WithLabelValues(s.provider).Observe(duration.Seconds())

	if s.quota != nil {
		s.quota.Record(1)
		metrics.SearchQuotaRemaining.WithLabelValues(s.provider, "daily").Set(float64(s.quota.RemainingDaily()))
		metrics.SearchQuotaRemaining.WithLabelValues(s.provider, "monthly").Set(float64(s.quota.RemainingMonthly()))
	}

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(s.provider, "error").Inc()
		s.logger.Warn("Search request failed",
			zap.String("provider", s.provider),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(s.provider, "ok").Inc()
	s.logger.Debug("Search request completed",
		zap.String("provider", s.provider),
		zap.Duration("duration", duration),
		zap.Int("urls", len(urls)),
	)
	return urls, nil
}
