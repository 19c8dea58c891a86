package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/overlap/internal/db"
)

type expireCall struct {
	key string
	ttl time.Duration
	nx  bool
}

type mockStore struct {
	data      map[string][]byte
	incrs     map[string]int64
	expires   []expireCall
	getErr    error
	incrErr   error
	expireErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}, incrs: map[string]int64{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) IncrBy(_ context.Context, key string, val int64) error {
	if m.incrErr != nil {
		return m.incrErr
	}
	m.incrs[key] += val
	return nil
}

func (m *mockStore) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	if m.expireErr != nil {
		return m.expireErr
	}
	m.expires = append(m.expires, expireCall{key: key, ttl: ttl, nx: nx})
	return nil
}

func TestStore_IncrBy_DailyTTL(t *testing.T) {
	ms := newMockStore()
	s := New(ms, 48*time.Hour, 62*24*time.Hour)

	key := "overlap:quota:google:daily:2026-10-18"
	if err := s.IncrBy(context.Background(), key, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.incrs[key] != 2 {
		t.Errorf("expected increment 2, got %d", ms.incrs[key])
	}
	if len(ms.expires) != 1 || ms.expires[0].ttl != 48*time.Hour || !ms.expires[0].nx {
		t.Errorf("unexpected expire calls: %+v", ms.expires)
	}
}

func TestStore_IncrBy_MonthlyTTL(t *testing.T) {
	ms := newMockStore()
	s := New(ms, 48*time.Hour, 62*24*time.Hour)

	if err := s.IncrBy(context.Background(), "overlap:quota:google:monthly:2026-10", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.expires[0].ttl != 62*24*time.Hour {
		t.Errorf("expected monthly ttl, got %v", ms.expires[0].ttl)
	}
}

func TestStore_IncrBy_Errors(t *testing.T) {
	boom := errors.New("boom")

	ms := newMockStore()
	ms.incrErr = boom
	if err := New(ms, time.Hour, time.Hour).IncrBy(context.Background(), "k", 1); !errors.Is(err, boom) {
		t.Errorf("expected wrapped incr error, got %v", err)
	}

	ms = newMockStore()
	ms.expireErr = boom
	if err := New(ms, time.Hour, time.Hour).IncrBy(context.Background(), "k", 1); !errors.Is(err, boom) {
		t.Errorf("expected wrapped expire error, got %v", err)
	}
}

func TestStore_Get(t *testing.T) {
	ms := newMockStore()
	ms.data["present"] = []byte("17")
	ms.data["garbage"] = []byte("seventeen")
	s := New(ms, time.Hour, time.Hour)
	ctx := context.Background()

	if v, err := s.Get(ctx, "present"); err != nil || v != 17 {
		t.Errorf("Get(present) = %d, %v", v, err)
	}
	if v, err := s.Get(ctx, "missing"); err != nil || v != 0 {
		t.Errorf("Get(missing) = %d, %v; want 0, nil", v, err)
	}
	if _, err := s.Get(ctx, "garbage"); err == nil {
		t.Error("expected parse error")
	}

	ms.getErr = errors.New("timeout")
	if _, err := s.Get(ctx, "present"); err == nil {
		t.Error("expected store error")
	}
}
