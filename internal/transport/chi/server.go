package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/domain"
	"github.com/kailas-cloud/overlap/internal/domain/report"
	domusage "github.com/kailas-cloud/overlap/internal/domain/usage"
	healthuc "github.com/kailas-cloud/overlap/internal/usecase/health"
)

// maxBodyBytes caps the POST /check body.
const maxBodyBytes = 1 << 20

// Checker runs the originality check.
type Checker interface {
	Check(ctx context.Context, text string) (report.Report, error)
}

// UsageReporter builds search usage reports.
type UsageReporter interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}

// HealthChecker reports dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the overlap HTTP API.
type Server struct {
	checker       Checker
	usage         UsageReporter
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(checker Checker, usage UsageReporter, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		checker: checker,
		usage:   usage,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyInput, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrQuotaExceeded, http.StatusTooManyRequests, ErrorCodeQuotaExceeded),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/check", s.CheckQuery)
	r.Post("/check", s.CheckBody)
	r.Get("/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Root handles GET /?data=. Without data it acts as a liveness probe.
func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("data") {
		writeJSON(w, http.StatusOK, map[string]string{"service": "overlap"})
		return
	}
	s.runCheck(w, r, r.URL.Query().Get("data"))
}

// CheckQuery handles GET /check?data=.
func (s *Server) CheckQuery(w http.ResponseWriter, r *http.Request) {
	s.runCheck(w, r, r.URL.Query().Get("data"))
}

// CheckBody handles POST /check.
func (s *Server) CheckBody(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.runCheck(w, r, req.Text)
}

func (s *Server) runCheck(w http.ResponseWriter, r *http.Request, text string) {
	ctx, usage := domain.NewContextWithSearchUsage(r.Context())
	rep, err := s.checker.Check(ctx, text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	setSearchHeaders(w, usage)
	// Every query refused by the quota: an empty report would read as "original".
	if rep.Outcome() == report.OutcomeNoCandidates && usage.Queries() == 0 && usage.Refused() > 0 {
		s.handleDomainError(w, domain.ErrQuotaExceeded)
		return
	}
	writeJSON(w, http.StatusOK, reportToResponse(&rep))
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, err := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "period must be day or month")
		return
	}

	rep := s.usage.GetReport(r.Context(), period)
	q := rep.Quota()

	writeJSON(w, http.StatusOK, UsageResponse{
		Period:        string(rep.Period()),
		Provider:      rep.Provider(),
		PeriodStartAt: time.UnixMilli(rep.PeriodStart()).UTC(),
		PeriodEndAt:   time.UnixMilli(rep.PeriodEnd()).UTC(),
		Quota: QuotaStatus{
			Limit:       q.Limit,
			Used:        q.Used,
			Remaining:   q.Remaining,
			IsExhausted: q.Exhausted(),
		},
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	rep := s.health.Check(r.Context())

	checks := make(map[string]string, len(rep.Checks))
	for k, v := range rep.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if rep.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(rep.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func reportToResponse(rep *report.Report) CheckResponse {
	results := make([]CheckResult, 0, len(rep.Results()))
	for _, res := range rep.Results() {
		item := CheckResult{
			URL:          res.URL(),
			Score:        res.Combined(),
			LexicalScore: res.Lexical(),
			MissingTerms: res.MissingTermsString(),
		}
		if sm := res.Sentence(); sm != nil {
			item.Sentence = &SentenceMatch{
				Source:    sm.Source,
				Candidate: sm.Candidate,
				Ratio:     sm.Ratio,
				Fallback:  sm.Fallback,
			}
		}
		results = append(results, item)
	}

	st := rep.Stats()
	skipped := make(map[string]int, len(st.Skipped))
	for k, v := range st.Skipped {
		skipped[string(k)] = v
	}

	return CheckResponse{
		ID:      rep.ID(),
		Outcome: string(rep.Outcome()),
		Message: rep.Outcome().Message(),
		Results: results,
		Stats: CheckStats{
			Queries:        st.Queries,
			SearchFailures: st.SearchFailures,
			Candidates:     st.Candidates,
			Scored:         st.Scored,
			Skipped:        skipped,
			DurationMs:     st.Duration.Milliseconds(),
		},
	}
}

func setSearchHeaders(w http.ResponseWriter, usage *domain.SearchUsage) {
	w.Header().Set("X-Search-Queries", strconv.FormatInt(usage.Queries(), 10))
	if n := usage.Refused(); n > 0 {
		w.Header().Set("X-Search-Refused", strconv.FormatInt(n, 10))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyInput,
		domain.ErrQuotaExceeded,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
