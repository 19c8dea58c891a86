package search

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/domain"
	"github.com/kailas-cloud/overlap/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

type mockSearcher struct {
	urls  []string
	err   error
	calls int
	query string
	count int
}

func (m *mockSearcher) Search(_ context.Context, query string, count int) ([]string, error) {
	m.calls++
	m.query = query
	m.count = count
	return m.urls, m.err
}

func TestInstrumentedSearcher_Success(t *testing.T) {
	inner := &mockSearcher{urls: []string{"https://a.example", "https://b.example"}}
	s := NewInstrumentedSearcher(inner, "test-ok", nil, zap.NewNop())

	ctx, usage := domain.NewContextWithSearchUsage(context.Background())
	urls, err := s.Search(ctx, "rivers flow", 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(urls))
	}
	if inner.query != "rivers flow" || inner.count != 6 {
		t.Errorf("inner got (%q, %d)", inner.query, inner.count)
	}
	if usage.Queries() != 1 {
		t.Errorf("expected 1 query counted, got %d", usage.Queries())
	}
	if v := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues("test-ok", "ok")); v != 1 {
		t.Errorf("expected ok counter 1, got %f", v)
	}
}

func TestInstrumentedSearcher_ErrorWrapsSearchFailed(t *testing.T) {
	inner := &mockSearcher{err: errors.New("503 from upstream")}
	s := NewInstrumentedSearcher(inner, "test-err", nil, zap.NewNop())

	_, err := s.Search(context.Background(), "q", 6)
	if !errors.Is(err, domain.ErrSearchFailed) {
		t.Fatalf("expected domain.ErrSearchFailed, got %v", err)
	}
	if v := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues("test-err", "error")); v != 1 {
		t.Errorf("expected error counter 1, got %f", v)
	}
}

func TestInstrumentedSearcher_QuotaRejection(t *testing.T) {
	quota := NewQuotaTracker("test-quota", 1, 0, QuotaActionReject, zap.NewNop())
	quota.Record(1)

	inner := &mockSearcher{urls: []string{"https://a.example"}}
	s := NewInstrumentedSearcher(inner, "test-quota", quota, zap.NewNop())

	ctx, usage := domain.NewContextWithSearchUsage(context.Background())
	_, err := s.Search(ctx, "q", 6)
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected domain.ErrQuotaExceeded, got %v", err)
	}
	if inner.calls != 0 {
		t.Errorf("provider must not be called when quota is exhausted, got %d calls", inner.calls)
	}
	if usage.Refused() != 1 || usage.Queries() != 0 {
		t.Errorf("expected refused=1 queries=0, got %d/%d", usage.Refused(), usage.Queries())
	}
}

func TestInstrumentedSearcher_RecordsQuota(t *testing.T) {
	quota := NewQuotaTracker("test-record", 10, 100, QuotaActionReject, zap.NewNop())
	inner := &mockSearcher{urls: []string{"https://a.example"}}
	s := NewInstrumentedSearcher(inner, "test-record", quota, zap.NewNop())

	for range 3 {
		if _, err := s.Search(context.Background(), "q", 6); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if quota.DailyUsed() != 3 {
		t.Errorf("expected daily used 3, got %d", quota.DailyUsed())
	}
	if v := testutil.ToFloat64(metrics.SearchQuotaRemaining.WithLabelValues("test-record", "daily")); v != 7 {
		t.Errorf("expected remaining gauge 7, got %f", v)
	}
}

func TestInstrumentedSearcher_FailedCallStillCountsAgainstQuota(t *testing.T) {
	quota := NewQuotaTracker("test-fail-quota", 10, 0, QuotaActionReject, zap.NewNop())
	inner := &mockSearcher{err: errors.New("timeout")}
	s := NewInstrumentedSearcher(inner, "test-fail-quota", quota, zap.NewNop())

	_, _ = s.Search(context.Background(), "q", 6)

	if quota.DailyUsed() != 1 {
		t.Errorf("expected failed call to be recorded, got %d", quota.DailyUsed())
	}
}
