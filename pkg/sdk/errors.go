package overlap

import "github.com/kailas-cloud/overlap/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyInput    = domain.ErrEmptyInput
	ErrQuotaExceeded = domain.ErrQuotaExceeded
)
