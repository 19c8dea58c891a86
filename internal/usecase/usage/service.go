package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/overlap/internal/domain/usage"
)

// Service handles search usage reporting.
type Service struct {
	qr       QuotaReader
	provider string
	now      func() time.Time
}

// New creates a Service. qr can be nil (unlimited mode).
func New(qr QuotaReader, provider string) *Service {
	return &Service{qr: qr, provider: provider, now: time.Now}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	now := s.now().UTC()
	var start, end time.Time
	q := domusage.Quota{Remaining: -1}

	switch period {
	case domusage.PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		if s.qr != nil {
			q = domusage.Quota{Limit: s.qr.MonthlyLimit(), Used: s.qr.MonthlyUsed(), Remaining: s.qr.RemainingMonthly()}
		}
	default:
		period = domusage.PeriodDay
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.Add(24 * time.Hour)
		if s.qr != nil {
			q = domusage.Quota{Limit: s.qr.DailyLimit(), Used: s.qr.DailyUsed(), Remaining: s.qr.RemainingDaily()}
		}
	}

	return domusage.NewReport(period, start.UnixMilli(), end.UnixMilli(), s.provider, q)
}
