package driven

import (
	"context"

	"github.com/policypulse/policypulse/internal/core/domain"
)

// ChunkStore is the corpus side of the row-store collaborator.
type ChunkStore interface {
	// SearchChunks returns at most topk chunks where any term appears as a
	// case-insensitive substring of the chunk text. The score of a row is
	// the count of terms that match it. Results are ordered by score
	// descending, then text length descending, with a stable insertion-order
	// tie-break. Terms must be non-empty; callers guarantee the list is
	// already normalized and capped.
	SearchChunks(ctx context.Context, terms []string, topk int) ([]domain.ScoredChunk, error)

	// InsertChunks appends a batch of chunks in a single transaction.
	// All-or-nothing at the call granularity: a partial failure inserts
	// no rows.
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error

	// CountChunks returns the corpus size.
	CountChunks(ctx context.Context) (int, error)
}
