package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockSearchChecker struct {
	err error
}

func (m *mockSearchChecker) HealthCheck(_ context.Context) error { return m.err }

type mockQuota struct {
	daily, monthly int64
}

func (m mockQuota) RemainingDaily() int64   { return m.daily }
func (m mockQuota) RemainingMonthly() int64 { return m.monthly }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockSearchChecker{}, mockQuota{daily: 10, monthly: 100})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"cache", "search", "quota"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("conn refused")}, &mockSearchChecker{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
	if r.Checks["search"] != CheckOK {
		t.Errorf("expected search %q, got %q", CheckOK, r.Checks["search"])
	}
}

func TestCheck_SearchError(t *testing.T) {
	svc := New(nil, &mockSearchChecker{err: errors.New("timeout")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["search"] != CheckError {
		t.Errorf("expected search %q, got %q", CheckError, r.Checks["search"])
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
}

func TestCheck_QuotaExhausted(t *testing.T) {
	svc := New(nil, nil, mockQuota{daily: 0, monthly: 50})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["quota"] != CheckExhausted {
		t.Errorf("expected quota %q, got %q", CheckExhausted, r.Checks["quota"])
	}
}

func TestCheck_UnlimitedQuota(t *testing.T) {
	svc := New(nil, nil, mockQuota{daily: -1, monthly: -1})
	if r := svc.Check(context.Background()); r.Status != Healthy {
		t.Errorf("unlimited quota must be healthy, got %q", r.Status)
	}
}

func TestCheck_NothingConfigured(t *testing.T) {
	r := New(nil, nil, nil).Check(context.Background())
	if r.Status != Healthy || len(r.Checks) != 0 {
		t.Errorf("expected healthy with no checks, got %+v", r)
	}
}
