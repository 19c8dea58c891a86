package overlap

import (
	"context"

	"github.com/kailas-cloud/overlap/internal/domain/report"
	domusage "github.com/kailas-cloud/overlap/internal/domain/usage"
	healthuc "github.com/kailas-cloud/overlap/internal/usecase/health"
)

// --- checkUseCase mock ---

type mockCheckUC struct {
	checkFn func(ctx context.Context, text string) (report.Report, error)
}

func (m *mockCheckUC) Check(ctx context.Context, text string) (report.Report, error) {
	return m.checkFn(ctx, text)
}

// --- usageUseCase mock ---

type mockUsageUC struct {
	getReportFn func(ctx context.Context, period domusage.Period) domusage.Report
}

func (m *mockUsageUC) GetReport(ctx context.Context, period domusage.Period) domusage.Report {
	return m.getReportFn(ctx, period)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- Searcher mock ---

type mockSearcher struct {
	urls []string
}

func (m *mockSearcher) Search(_ context.Context, _ string, _ int) ([]string, error) {
	return m.urls, nil
}
