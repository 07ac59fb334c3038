package driving

import (
	"context"

	"github.com/policypulse/policypulse/internal/core/domain"
)

// RetrievalService answers queries against the chunk corpus.
type RetrievalService interface {
	// Retrieve extracts keywords from the query and returns ranked chunks,
	// at most topk, plus the extracted terms. Results are served from a
	// bounded-TTL cache when a fresh entry exists. An empty term list
	// returns empty results with no store access. A non-positive topk is
	// rejected with domain.ErrInvalidInput before any I/O.
	Retrieve(ctx context.Context, query string, topk int) ([]domain.ScoredChunk, []string, error)

	// Search runs the full operation: cached retrieval, optional answer
	// generation from the top chunks, and telemetry appends tagged with
	// the request's version.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)
}
