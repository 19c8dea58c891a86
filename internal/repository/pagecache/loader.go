package pagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/db"
)

const cacheKeyPrefix = "overlap:page:"

// loader fetches a page and returns its extracted text.
type loader interface {
	Load(ctx context.Context, url string) (string, error)
}

// store is the consumer interface for the page cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedLoader keeps extracted page text in a key-value store.
// Only successful loads are cached; failures always reach the inner loader.
type CachedLoader struct {
	inner      loader
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner loader,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedLoader {
	return &CachedLoader{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Load returns cached text for url or delegates to the inner loader.
func (c *CachedLoader) Load(ctx context.Context, url string) (string, error) {
	key := cacheKey(url)

	if text, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return text, nil
	}
	c.incCache("miss")

	text, err := c.inner.Load(ctx, url)
	if err != nil {
		return "", fmt.Errorf("load page: %w", err)
	}

	c.putToCache(ctx, key, text)
	return text, nil
}

func (c *CachedLoader) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(url string) string {
	h := sha256.Sum256([]byte(url))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedLoader) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached page", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedLoader) putToCache(ctx context.Context, key, text string) {
	if text == "" {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, []byte(text), c.ttl); err != nil {
		c.logger.Warn("Failed to cache page", zap.String("key", key), zap.Error(err))
	}
}
