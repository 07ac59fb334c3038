package cli

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/policypulse/policypulse/internal/core/domain"
)

// mockRetrieval serves canned results for command tests.
type mockRetrieval struct {
	resp *domain.SearchResponse
	err  error
}

func (m *mockRetrieval) Retrieve(_ context.Context, query string, _ int) ([]domain.ScoredChunk, []string, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.resp.Results, domain.ExtractKeywords(query, domain.DefaultMaxKeywords), nil
}

func (m *mockRetrieval) Search(context.Context, domain.SearchRequest) (*domain.SearchResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// setupTestServices swaps package services for mocks. The returned cleanup
// restores the previous wiring.
func setupTestServices() func() {
	oldWired := servicesWired
	oldRetrieval := retrievalService
	oldRunner := scenarioRunner
	oldLog := log

	servicesWired = true
	log = zerolog.Nop()
	mock := &mockRetrieval{resp: &domain.SearchResponse{
		RunID: "run-1",
		Results: []domain.ScoredChunk{
			{Chunk: domain.Chunk{DocName: "parking.pdf", PageNum: 3, ChunkID: "1",
				ChunkText: "Parking permits cost $150 per semester.", TextLength: 39}, Score: 2},
		},
		Keywords:    []string{"parking", "permit"},
		RetrievalMS: 4,
	}}
	retrievalService = mock

	return func() {
		servicesWired = oldWired
		retrievalService = oldRetrieval
		scenarioRunner = oldRunner
		log = oldLog
	}
}
