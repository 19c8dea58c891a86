package harvest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/domain"
	"github.com/kailas-cloud/overlap/internal/domain/match"
	"github.com/kailas-cloud/overlap/internal/domain/source"
	"github.com/kailas-cloud/overlap/internal/metrics"
	"github.com/kailas-cloud/overlap/internal/textproc"
)

// WorkerConfig tunes per-URL processing.
type WorkerConfig struct {
	Timeout          time.Duration // per URL; zero means only the request deadline applies
	MaxChars         int           // cap on extracted text, in runes
	SentenceMatching bool
	Scorer           textproc.Scorer // nil means term-frequency cosine
}

// Candidate is a fetched and scored page. Text and Tokens are kept until
// the request finishes so the corpus-wide scorer can re-weigh them.
type Candidate struct {
	URL    string
	Order  int
	Text   string
	Tokens []string
	Result match.Result
}

// Worker fetches, extracts and scores a single candidate URL.
type Worker struct {
	loader  PageLoader
	matcher *textproc.SentenceMatcher
	cfg     WorkerConfig
	logger  *zap.Logger
}

// NewWorker creates a worker. matcher may be nil when sentence matching is off.
func NewWorker(loader PageLoader, matcher *textproc.SentenceMatcher, cfg WorkerConfig, logger *zap.Logger) *Worker {
	if matcher == nil {
		cfg.SentenceMatching = false
	}
	if cfg.Scorer == nil {
		cfg.Scorer = textproc.CosineScorer{}
	}
	return &Worker{loader: loader, matcher: matcher, cfg: cfg, logger: logger}
}

// Process turns url into a scored candidate or a skip. It never panics.
func (w *Worker) Process(ctx context.Context, src *source.Text, url string, order int) (c Candidate, skip *match.Skip) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Worker panic recovered", zap.String("url", url), zap.Any("panic", r))
			skip = &match.Skip{URL: url, Kind: match.SkipExtract, Err: fmt.Errorf("%w: panic: %v", domain.ErrExtractionFailed, r)}
			c = Candidate{}
		}
		metrics.FetchDuration.Observe(time.Since(start).Seconds())
		if skip != nil {
			metrics.FetchTotal.WithLabelValues(string(skip.Kind)).Inc()
		} else {
			metrics.FetchTotal.WithLabelValues("ok").Inc()
		}
	}()

	urlCtx := ctx
	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		urlCtx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	text, err := w.loader.Load(urlCtx, url)
	if err != nil {
		return Candidate{}, w.skip(ctx, url, err)
	}

	text = textproc.Truncate(text, w.cfg.MaxChars)
	tokens := textproc.Normalize(text)
	if len(tokens) == 0 {
		return Candidate{}, w.skip(ctx, url, fmt.Errorf("%w: no tokens", domain.ErrEmptyDocument))
	}

	lexical := w.cfg.Scorer.Score(src.Tokens(), tokens)
	missing := textproc.MissingTerms(src.Tokens(), tokens)

	var sent *match.Sentence
	if w.cfg.SentenceMatching {
		if m := w.matcher.BestMatch(src.Raw(), text); m.Found() {
			sent = &match.Sentence{
				Source:    m.Source,
				Candidate: m.Candidate,
				Ratio:     m.Ratio,
				Fallback:  m.Fallback,
			}
		}
	}

	return Candidate{
		URL:    url,
		Order:  order,
		Text:   text,
		Tokens: tokens,
		Result: match.New(url, order, lexical, missing, sent),
	}, nil
}

// skip classifies err. When the request itself is over, every failure is a cancellation.
func (w *Worker) skip(ctx context.Context, url string, err error) *match.Skip {
	s := match.NewSkip(url, err)
	if ctx.Err() != nil {
		s.Kind = match.SkipCanceled
	}
	w.logger.Debug("Candidate skipped",
		zap.String("url", url),
		zap.String("kind", string(s.Kind)),
		zap.Error(err),
	)
	return s
}
