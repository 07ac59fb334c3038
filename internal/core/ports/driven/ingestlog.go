package driven

import (
	"context"

	"github.com/policypulse/policypulse/internal/core/domain"
)

// IngestLogStore is the append-only ingestion log.
//
// The store enforces at most one success record per content hash. Append
// returns domain.ErrDuplicate when a success record for the same hash
// already exists, which closes the check-then-act race between concurrent
// ingesters: the loser translates the error into a skipped outcome.
type IngestLogStore interface {
	// Append writes one ingestion log record.
	Append(ctx context.Context, rec domain.IngestRecord) error

	// HasSuccess reports whether a success record exists for the hash.
	HasSuccess(ctx context.Context, fileHash string) (bool, error)

	// Recent returns the most recent records, newest first, limit clamped.
	Recent(ctx context.Context, limit int) ([]domain.IngestRecord, error)
}
