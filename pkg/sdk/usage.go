package overlap

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/overlap/internal/domain/usage"
)

// UsagePeriod is the aggregation granularity for usage reports.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
)

// UsageReport contains search provider usage for a time period.
type UsageReport struct {
	Period      UsagePeriod
	Provider    string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Quota       QuotaStatus
}

// QuotaStatus tracks the search query budget. Limit 0 means unlimited.
type QuotaStatus struct {
	Limit       int64
	Used        int64
	Remaining   int64 // -1 when unlimited
	IsExhausted bool
}

// Usage returns a search usage report for the given period.
// Observer always records success: the underlying use-case is in-memory
// and does not produce errors.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) UsageReport {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, nil) }()

	report := c.usageSvc.GetReport(ctx, domusage.Period(period))
	q := report.Quota()

	return UsageReport{
		Period:      UsagePeriod(report.Period()),
		Provider:    report.Provider(),
		PeriodStart: time.UnixMilli(report.PeriodStart()).UTC(),
		PeriodEnd:   time.UnixMilli(report.PeriodEnd()).UTC(),
		Quota: QuotaStatus{
			Limit:       q.Limit,
			Used:        q.Used,
			Remaining:   q.Remaining,
			IsExhausted: q.Exhausted(),
		},
	}
}

// usageUseCase is the internal interface for usage reports.
type usageUseCase interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}
