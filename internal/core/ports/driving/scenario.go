package driving

import (
	"context"

	"github.com/policypulse/policypulse/internal/core/domain"
)

// ScenarioRunner drives batch what-if comparisons over the retrieval cache.
type ScenarioRunner interface {
	// RunScenarios retrieves each scenario string sequentially and returns
	// one comparison row per scenario, in input order. Failures are
	// isolated per scenario: an errored scenario yields a failed row and
	// the remaining scenarios still run.
	RunScenarios(ctx context.Context, scenarios []string, topk int) ([]domain.ScenarioResult, error)
}
