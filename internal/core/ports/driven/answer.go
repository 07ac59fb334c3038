package driven

import (
	"context"

	"github.com/policypulse/policypulse/internal/core/domain"
)

// AnswerService is the answer-generation collaborator.
// This is an optional service - when nil, retrieval still works and AI
// answers are disabled.
type AnswerService interface {
	// Generate produces a natural-language answer to the question from the
	// supplied context chunks, in order. It returns the answer text and the
	// call latency in milliseconds. An empty modelID selects the service's
	// configured default model.
	Generate(ctx context.Context, question string, contextChunks []domain.ScoredChunk, modelID string) (string, int64, error)

	// ModelName returns the default model identifier.
	ModelName() string

	// Close releases resources.
	Close() error
}
