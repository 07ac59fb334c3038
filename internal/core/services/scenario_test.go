package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policypulse/policypulse/internal/core/domain"
)

// flakyRetrieval fails retrieval for one configured scenario.
type flakyRetrieval struct {
	failOn string
}

func (f *flakyRetrieval) Retrieve(_ context.Context, query string, _ int) ([]domain.ScoredChunk, []string, error) {
	if query == f.failOn {
		return nil, nil, errors.New("store timeout")
	}
	return []domain.ScoredChunk{scored("a.pdf", 2), scored("b.pdf", 2)},
		domain.ExtractKeywords(query, domain.DefaultMaxKeywords), nil
}

func (f *flakyRetrieval) Search(context.Context, domain.SearchRequest) (*domain.SearchResponse, error) {
	return nil, errors.New("not used")
}

func TestRunScenarios_RowsInInputOrder(t *testing.T) {
	chunks := &mockChunkStore{results: []domain.ScoredChunk{scored("a.pdf", 3)}}
	retrieval := newTestRetrieval(chunks, &mockFeatureStore{}, &mockEvalStore{}, nil)
	runner := NewScenarioService(retrieval, zerolog.Nop())

	scenarios := []string{
		"parking permit cost",
		"housing application deadline",
		"tuition refund policy",
	}
	rows, err := runner.RunScenarios(context.Background(), scenarios, 8)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for i, row := range rows {
		assert.Equal(t, scenarios[i], row.Scenario)
		assert.False(t, row.Failed())
		assert.Equal(t, 1, row.RowsReturned)
		assert.InDelta(t, 3.0, row.AvgScore, 1e-9)
	}
}

func TestRunScenarios_BlankScenariosDropped(t *testing.T) {
	chunks := &mockChunkStore{}
	retrieval := newTestRetrieval(chunks, &mockFeatureStore{}, &mockEvalStore{}, nil)
	runner := NewScenarioService(retrieval, zerolog.Nop())

	rows, err := runner.RunScenarios(context.Background(),
		[]string{"  ", "parking permit", "", "\t"}, 8)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "parking permit", rows[0].Scenario)
}

func TestRunScenarios_FailureIsolatedPerScenario(t *testing.T) {
	runner := NewScenarioService(&flakyRetrieval{failOn: "housing deadline"}, zerolog.Nop())

	rows, err := runner.RunScenarios(context.Background(),
		[]string{"parking permit", "housing deadline", "tuition refund"}, 8)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.False(t, rows[0].Failed())
	assert.True(t, rows[1].Failed())
	assert.Contains(t, rows[1].Err, "store timeout")
	assert.False(t, rows[2].Failed())
}

func TestRunScenarios_SharesRetrievalCache(t *testing.T) {
	chunks := &mockChunkStore{results: []domain.ScoredChunk{scored("a.pdf", 1)}}
	retrieval := newTestRetrieval(chunks, &mockFeatureStore{}, &mockEvalStore{}, nil)
	runner := NewScenarioService(retrieval, zerolog.Nop())

	// The duplicate scenario is served from the retrieval cache.
	rows, err := runner.RunScenarios(context.Background(),
		[]string{"parking permit", "parking permit"}, 8)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, chunks.calls())
}

func TestRunScenarios_InvalidTopK(t *testing.T) {
	runner := NewScenarioService(&flakyRetrieval{}, zerolog.Nop())

	_, err := runner.RunScenarios(context.Background(), []string{"parking"}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBestByAvgScore_SkipsFailedRows(t *testing.T) {
	rows := []domain.ScenarioResult{
		{Scenario: "a", AvgScore: 5, Err: "boom"},
		{Scenario: "b", AvgScore: 2},
		{Scenario: "c", AvgScore: 3},
	}
	assert.Equal(t, 2, domain.BestByAvgScore(rows))
}
