package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/domain"
)

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "overlap:"

// QuotaAction defines behavior when the query budget is exceeded.
type QuotaAction string

const (
	// QuotaActionWarn logs a warning but allows the query.
	QuotaActionWarn QuotaAction = "warn"
	// QuotaActionReject refuses the query.
	QuotaActionReject QuotaAction = "reject"
)

// QuotaTracker is an in-memory search query budget with optional persistence.
// Check is in-memory only; Record updates memory first, then writes behind to the store.
type QuotaTracker struct {
	mu             sync.Mutex
	dailyUsed      int64
	monthlyUsed    int64
	dailyLimit     int64
	monthlyLimit   int64
	action         QuotaAction
	provider       string
	lastDayReset   time.Time
	lastMonthReset time.Time
	store          QuotaStore
	logger         *zap.Logger
}

// NewQuotaTracker creates a tracker. A zero limit means unlimited.
func NewQuotaTracker(
	provider string, dailyLimit, monthlyLimit int64,
	action QuotaAction, logger *zap.Logger,
) *QuotaTracker {
	now := time.Now().UTC()
	return &QuotaTracker{
		dailyLimit:     dailyLimit,
		monthlyLimit:   monthlyLimit,
		action:         action,
		provider:       provider,
		lastDayReset:   truncateToDay(now),
		lastMonthReset: truncateToMonth(now),
		logger:         logger,
	}
}

// WithStore attaches a persistence store and loads current counters.
func (q *QuotaTracker) WithStore(ctx context.Context, store QuotaStore) *QuotaTracker {
	q.store = store
	q.loadFromStore(ctx)
	return q
}

func (q *QuotaTracker) loadFromStore(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now().UTC()
	if val, err := q.store.Get(ctx, q.dailyKey(now)); err == nil {
		q.dailyUsed = val
	} else {
		q.logger.Warn("Failed to load daily search quota from store", zap.Error(err))
	}
	if val, err := q.store.Get(ctx, q.monthlyKey(now)); err == nil {
		q.monthlyUsed = val
	} else {
		q.logger.Warn("Failed to load monthly search quota from store", zap.Error(err))
	}

	q.logger.Info("Search quota loaded from store",
		zap.String("provider", q.provider),
		zap.Int64("daily_used", q.dailyUsed),
		zap.Int64("monthly_used", q.monthlyUsed),
	)
}

func (q *QuotaTracker) dailyKey(t time.Time) string {
	return fmt.Sprintf("%squota:%s:daily:%s", KeyPrefix, q.provider, t.Format("2006-01-02"))
}

func (q *QuotaTracker) monthlyKey(t time.Time) string {
	return fmt.Sprintf("%squota:%s:monthly:%s", KeyPrefix, q.provider, t.Format("2006-01"))
}

// Check verifies the budget allows another query.
func (q *QuotaTracker) Check(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.resetIfNeeded()

	dailyExceeded := q.dailyLimit > 0 && q.dailyUsed >= q.dailyLimit
	monthlyExceeded := q.monthlyLimit > 0 && q.monthlyUsed >= q.monthlyLimit
	if !dailyExceeded && !monthlyExceeded {
		return nil
	}

	if q.action == QuotaActionReject {
		return domain.ErrQuotaExceeded
	}

	q.logger.Warn("Search quota exceeded",
		zap.String("provider", q.provider),
		zap.Int64("daily_used", q.dailyUsed),
		zap.Int64("daily_limit", q.dailyLimit),
		zap.Int64("monthly_used", q.monthlyUsed),
		zap.Int64("monthly_limit", q.monthlyLimit),
	)
	return nil
}

// Record registers issued queries.
func (q *QuotaTracker) Record(queries int64) {
	q.mu.Lock()
	q.resetIfNeeded()
	q.dailyUsed += queries
	q.monthlyUsed += queries
	store := q.store
	now := time.Now().UTC()
	dailyKey := q.dailyKey(now)
	monthlyKey := q.monthlyKey(now)
	q.mu.Unlock()

	if store == nil {
		return
	}

	// Background context: store writes must not be cut short by the request.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := store.IncrBy(ctx, dailyKey, queries); err != nil {
		q.logger.Warn("Failed to persist daily search quota", zap.String("key", dailyKey), zap.Error(err))
	}
	if err := store.IncrBy(ctx, monthlyKey, queries); err != nil {
		q.logger.Warn("Failed to persist monthly search quota", zap.String("key", monthlyKey), zap.Error(err))
	}
}

// RemainingDaily returns queries left today (-1 if unlimited).
func (q *QuotaTracker) RemainingDaily() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.resetIfNeeded()
	return remaining(q.dailyLimit, q.dailyUsed)
}

// RemainingMonthly returns queries left this month (-1 if unlimited).
func (q *QuotaTracker) RemainingMonthly() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.resetIfNeeded()
	return remaining(q.monthlyLimit, q.monthlyUsed)
}

// DailyLimit returns the daily query cap.
func (q *QuotaTracker) DailyLimit() int64 { return q.dailyLimit }

// MonthlyLimit returns the monthly query cap.
func (q *QuotaTracker) MonthlyLimit() int64 { return q.monthlyLimit }

// DailyUsed returns queries issued today.
func (q *QuotaTracker) DailyUsed() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.resetIfNeeded()
	return q.dailyUsed
}

// MonthlyUsed returns queries issued this month.
func (q *QuotaTracker) MonthlyUsed() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.resetIfNeeded()
	return q.monthlyUsed
}

func remaining(limit, used int64) int64 {
	if limit == 0 {
		return -1
	}
	if r := limit - used; r > 0 {
		return r
	}
	return 0
}

// resetIfNeeded zeroes counters when the day or month rolls over.
func (q *QuotaTracker) resetIfNeeded() {
	now := time.Now().UTC()
	today := truncateToDay(now)
	thisMonth := truncateToMonth(now)

	if today.After(q.lastDayReset) {
		q.dailyUsed = 0
		q.lastDayReset = today
	}
	if thisMonth.After(q.lastMonthReset) {
		q.monthlyUsed = 0
		q.lastMonthReset = thisMonth
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
