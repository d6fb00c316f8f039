package candidate

import (
	"context"

	"github.com/clonescan/clonescan/internal/model"
)

// Source generates candidate lookalike domains for a target.
//
// Design decision: We use an interface with two concrete variants rather
// than a mode flag so that callers select a strategy via configuration
// and never branch on implementation identity. This mirrors the strategy
// pattern used for detection pipelines elsewhere.
type Source interface {
	// Generate returns the ordered set of candidate domains for the
	// target. The result never contains the target itself and is
	// deduplicated. A failing external oracle returns an error; callers
	// treat it as an empty candidate set and continue the scan.
	Generate(ctx context.Context, target model.Domain) ([]model.Candidate, error)

	// Name returns the strategy name for logging and configuration.
	Name() string
}
