package search

import "context"

// Searcher returns candidate URLs for a query.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]string, error)
}

// QuotaChecker is the local interface for search quota enforcement.
type QuotaChecker interface {
	Check(ctx context.Context) error
	Record(queries int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// QuotaStore is the persistence interface for quota counters.
// Implementations must be idempotent (IncrBy can be called repeatedly).
type QuotaStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}
