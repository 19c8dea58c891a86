package harvest

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	domquery "github.com/kailas-cloud/overlap/internal/domain/query"
	"github.com/kailas-cloud/overlap/internal/domain/source"
	"github.com/kailas-cloud/overlap/internal/textproc"
	"github.com/kailas-cloud/overlap/internal/usecase/query"
)

type mockSearcher struct {
	mu      sync.Mutex
	results map[string][]string
	errs    map[string]error
	calls   []string
}

func (m *mockSearcher) Search(_ context.Context, q string, _ int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, q)
	if err := m.errs[q]; err != nil {
		return nil, err
	}
	return m.results[q], nil
}

// staticSearcher returns the same URLs for every query.
type staticSearcher []string

func (s staticSearcher) Search(_ context.Context, _ string, _ int) ([]string, error) {
	return s, nil
}

type mockFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	delay  time.Duration
	calls  map[string]int
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[url]++
	body, ok := m.bodies[url]
	err := m.errs[url]
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, context.DeadlineExceeded
	}
	return []byte(body), nil
}

// textExtractor treats the body as already-extracted text.
type textExtractor struct{}

func (textExtractor) Extract(body []byte, _ string) (string, error) { return string(body), nil }

type funcLoader func(ctx context.Context, url string) (string, error)

func (f funcLoader) Load(ctx context.Context, url string) (string, error) { return f(ctx, url) }

func mustSource(t *testing.T, raw string) *source.Text {
	t.Helper()
	src, err := source.New(raw)
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	return &src
}

func newTestWorker(loader PageLoader, cfg WorkerConfig) *Worker {
	return NewWorker(loader, textproc.NewSentenceMatcher(nil, textproc.DefaultSentenceMatcherConfig()), cfg, zap.NewNop())
}

func newTestHarvester(s Searcher, f Fetcher, cfg Config) *Harvester {
	w := newTestWorker(NewLoader(f, textExtractor{}), WorkerConfig{Timeout: time.Second, MaxChars: 5000})
	return New(query.New(query.DefaultConfig()), s, w, cfg, zap.NewNop())
}

// staticPlanner issues the raw text as a single query.
type staticPlanner struct{}

func (staticPlanner) Plan(text string) []domquery.Query {
	return []domquery.Query{domquery.New(text, domquery.Full)}
}
