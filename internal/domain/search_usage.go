package domain

import (
	"context"
	"sync/atomic"
)

type searchUsageKey struct{}

// SearchUsage counts search provider calls made for a single HTTP request.
// The handler puts a pointer into the context before calling the service;
// the harvester increments it; the handler reads it for response headers.
type SearchUsage struct {
	queries atomic.Int64
	refused atomic.Int64
}

// NewContextWithSearchUsage returns a context with a search usage collector.
func NewContextWithSearchUsage(ctx context.Context) (context.Context, *SearchUsage) {
	u := &SearchUsage{}
	return context.WithValue(ctx, searchUsageKey{}, u), u
}

// SearchUsageFromContext extracts the usage collector from context. Returns nil if not set.
func SearchUsageFromContext(ctx context.Context) *SearchUsage {
	u, _ := ctx.Value(searchUsageKey{}).(*SearchUsage)
	return u
}

// AddQuery records one provider call.
func (u *SearchUsage) AddQuery() {
	if u != nil {
		u.queries.Add(1)
	}
}

// AddRefused records one query refused by the quota.
func (u *SearchUsage) AddRefused() {
	if u != nil {
		u.refused.Add(1)
	}
}

// Queries returns the number of provider calls.
func (u *SearchUsage) Queries() int64 {
	if u == nil {
		return 0
	}
	return u.queries.Load()
}

// Refused returns the number of refused queries.
func (u *SearchUsage) Refused() int64 {
	if u == nil {
		return 0
	}
	return u.refused.Load()
}
