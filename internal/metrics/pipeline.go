package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search provider metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "overlap",
			Name:      "search_requests_total",
			Help:      "Total number of search provider requests",
		},
		[]string{"provider", "status"}, // "ok" / "error" / "refused"
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "overlap",
			Name:      "search_request_duration_seconds",
			Help:      "Search provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	SearchQuotaRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "overlap",
			Name:      "search_quota_remaining",
			Help:      "Remaining search query budget (-1 means unlimited)",
		},
		[]string{"provider", "period"},
	)
)

// Candidate page metrics.
var (
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "overlap",
			Name:      "fetch_total",
			Help:      "Candidate pages processed, by outcome",
		},
		[]string{"outcome"}, // "ok" or a skip kind
	)

	FetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "overlap",
			Name:      "fetch_duration_seconds",
			Help:      "Time to fetch and extract one candidate page",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	PageCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "overlap",
			Name:      "page_cache_total",
			Help:      "Extracted page cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// Report metrics.
var (
	ReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "overlap",
			Name:      "reports_total",
			Help:      "Completed checks, by outcome",
		},
		[]string{"outcome"},
	)

	ReportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "overlap",
			Name:      "report_duration_seconds",
			Help:      "End-to-end check duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers search, fetch and report metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(SearchQuotaRemaining)
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(PageCacheTotal)
	prometheus.MustRegister(ReportsTotal)
	prometheus.MustRegister(ReportDuration)
	pipelineMetricsRegistered = true
}
