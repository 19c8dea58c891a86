package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckExhausted indicates the search quota is used up.
	CheckExhausted CheckResult = "exhausted"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks. Every dependency is optional:
// the pipeline runs without a cache and with providers that cannot self-check.
type Service struct {
	cache  CachePinger
	search SearchChecker
	quota  QuotaReader
}

// New creates a Service. Any argument can be nil.
func New(cache CachePinger, search SearchChecker, quota QuotaReader) *Service {
	return &Service{cache: cache, search: search, quota: quota}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.cache != nil {
		checks["cache"] = result(s.cache.Ping(ctx))
	}
	if s.search != nil {
		checks["search"] = result(s.search.HealthCheck(ctx))
	}
	if s.quota != nil {
		checks["quota"] = CheckOK
		if s.quota.RemainingDaily() == 0 || s.quota.RemainingMonthly() == 0 {
			checks["quota"] = CheckExhausted
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
