package analysis

import (
	"context"

	"github.com/kailas-cloud/overlap/internal/domain/source"
	"github.com/kailas-cloud/overlap/internal/usecase/harvest"
)

// Harvester finds and scores candidate pages for a source text.
type Harvester interface {
	Harvest(ctx context.Context, src *source.Text) (harvest.Result, error)
}
