package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/domain/match"
	"github.com/kailas-cloud/overlap/internal/domain/report"
	"github.com/kailas-cloud/overlap/internal/domain/source"
	"github.com/kailas-cloud/overlap/internal/logger"
	"github.com/kailas-cloud/overlap/internal/metrics"
	"github.com/kailas-cloud/overlap/internal/textproc"
	"github.com/kailas-cloud/overlap/internal/usecase/harvest"
	"github.com/kailas-cloud/overlap/internal/usecase/rank"
)

// Config is everything the pipeline needs besides its collaborators.
type Config struct {
	// Scorer re-scores candidates once the harvest is complete when it is a
	// textproc.CorpusScorer. Other scorers keep the workers' scores.
	Scorer textproc.Scorer
	Policy rank.Policy
}

// Service runs the originality check pipeline.
type Service struct {
	harvester Harvester
	cfg       Config
}

// New creates a Service.
func New(h Harvester, cfg Config) *Service {
	return &Service{harvester: h, cfg: cfg}
}

// Check analyses text and returns the ranked report. Only blank input is an error;
// search and fetch failures end up in the report statistics.
func (s *Service) Check(ctx context.Context, text string) (report.Report, error) {
	start := time.Now()

	src, err := source.New(text)
	if err != nil {
		return report.Report{}, fmt.Errorf("check: %w", err)
	}

	res, err := s.harvester.Harvest(ctx, &src)
	if err != nil {
		return report.Report{}, fmt.Errorf("harvest: %w", err)
	}

	results := s.score(&src, res.Candidates)
	ranked := rank.Rank(results, s.cfg.Policy)

	stats := report.Stats{
		Queries:        res.Queries,
		SearchFailures: res.SearchFailures,
		Candidates:     res.URLs,
		Scored:         len(res.Candidates),
		Skipped:        make(map[match.SkipKind]int),
		Duration:       time.Since(start),
	}
	for _, sk := range res.Skips {
		stats.Skipped[sk.Kind]++
	}

	rep := report.New(uuid.NewString(), ranked.Outcome, ranked.Results, stats)

	metrics.ReportsTotal.WithLabelValues(string(rep.Outcome())).Inc()
	metrics.ReportDuration.Observe(stats.Duration.Seconds())

	logger.FromContext(ctx).Info("Check completed",
		zap.String("report_id", rep.ID()),
		zap.String("outcome", string(rep.Outcome())),
		zap.Int("results", len(ranked.Results)),
		zap.Int("queries", stats.Queries),
		zap.Int("search_failures", stats.SearchFailures),
		zap.Int("candidates", stats.Candidates),
		zap.Int("scored", stats.Scored),
		zap.Int("skipped", stats.SkippedTotal()),
		zap.Duration("duration", stats.Duration),
	)
	return rep, nil
}

// score returns one result per candidate, re-weighing the lexical score over
// the request corpus when the scorer needs one.
func (s *Service) score(src *source.Text, candidates []harvest.Candidate) []match.Result {
	results := make([]match.Result, 0, len(candidates))
	cs, ok := s.cfg.Scorer.(textproc.CorpusScorer)
	if !ok {
		for _, c := range candidates {
			results = append(results, c.Result)
		}
		return results
	}

	corpus := textproc.NewCorpus(src.Tokens())
	for _, c := range candidates {
		corpus.Add(c.Tokens)
	}
	scorer := cs.WithCorpus(corpus)
	for _, c := range candidates {
		results = append(results, c.Result.WithLexical(scorer.Score(src.Tokens(), c.Tokens)))
	}
	return results
}
