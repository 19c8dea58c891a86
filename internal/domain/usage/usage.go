package usage

import "fmt"

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name. An empty string means PeriodDay.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Quota is a snapshot of a search query budget. A zero limit means unlimited.
type Quota struct {
	Limit     int64
	Used      int64
	Remaining int64 // -1 when unlimited
}

// Exhausted reports whether no queries are left.
func (q Quota) Exhausted() bool { return q.Limit > 0 && q.Remaining <= 0 }

// Report is a search usage report for a time period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	provider    string
	quota       Quota
}

// NewReport creates a usage report. start and end are unix millis.
func NewReport(period Period, start, end int64, provider string, q Quota) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		provider:    provider,
		quota:       q,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis). The quota resets then.
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Provider returns the search provider name.
func (r *Report) Provider() string { return r.provider }

// Quota returns the budget snapshot.
func (r *Report) Quota() Quota { return r.quota }
