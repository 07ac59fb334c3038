package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/policypulse/policypulse/internal/core/domain"
	"github.com/policypulse/policypulse/internal/core/ports/driving"
)

// ScenarioService implements driving.ScenarioRunner on top of a retrieval
// service. Scenarios share the retrieval cache, so repeated variations of
// the same query are served without extra store round trips.
type ScenarioService struct {
	retrieval driving.RetrievalService
	log       zerolog.Logger

	// now is swapped in tests.
	now func() time.Time
}

var _ driving.ScenarioRunner = (*ScenarioService)(nil)

// NewScenarioService creates a scenario runner.
func NewScenarioService(retrieval driving.RetrievalService, log zerolog.Logger) *ScenarioService {
	return &ScenarioService{
		retrieval: retrieval,
		log:       log,
		now:       time.Now,
	}
}

// RunScenarios retrieves each scenario sequentially, one comparison row per
// scenario in input order. Blank scenarios are dropped. A scenario that
// errors yields a failed row; the rest still run.
func (s *ScenarioService) RunScenarios(ctx context.Context, scenarios []string, topk int) ([]domain.ScenarioResult, error) {
	if topk <= 0 {
		return nil, fmt.Errorf("%w: topk must be positive, got %d", domain.ErrInvalidInput, topk)
	}

	var rows []domain.ScenarioResult
	for _, scenario := range scenarios {
		scenario = strings.TrimSpace(scenario)
		if scenario == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		rows = append(rows, s.runOne(ctx, scenario, topk))
	}
	return rows, nil
}

func (s *ScenarioService) runOne(ctx context.Context, scenario string, topk int) domain.ScenarioResult {
	start := s.now()
	results, keywords, err := s.retrieval.Retrieve(ctx, scenario, topk)
	latencyMS := time.Since(start).Milliseconds()

	row := domain.ScenarioResult{
		Scenario:     scenario,
		KeywordCount: len(keywords),
		Keywords:     strings.Join(keywords, ","),
		LatencyMS:    latencyMS,
	}
	if err != nil {
		s.log.Warn().Err(err).Str("scenario", scenario).Msg("scenario retrieval failed")
		row.Err = err.Error()
		return row
	}

	row.RowsReturned = len(results)
	row.AvgScore = domain.ScoreStatsOf(results).Avg
	return row
}
