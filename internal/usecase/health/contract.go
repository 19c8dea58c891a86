package health

import "context"

// CachePinger checks page cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// SearchChecker checks search provider availability.
type SearchChecker interface {
	HealthCheck(ctx context.Context) error
}

// QuotaReader exposes the remaining search budget (-1 means unlimited).
type QuotaReader interface {
	RemainingDaily() int64
	RemainingMonthly() int64
}
