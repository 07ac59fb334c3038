package driven

import (
	"context"

	"github.com/policypulse/policypulse/internal/core/domain"
)

// FeatureStore is the append-only log of extracted query features.
// Append never reads or mutates prior records; concurrent appends are safe
// because every record carries a unique id.
type FeatureStore interface {
	// Append writes one feature record.
	Append(ctx context.Context, rec domain.FeatureRecord) error

	// AggregateByVersion groups all records by version tag with counts,
	// numeric means and first/last timestamps.
	AggregateByVersion(ctx context.Context) ([]domain.FeatureVersionSummary, error)

	// Recent returns the most recent records, newest first. The limit is
	// clamped to a safe positive bound before querying.
	Recent(ctx context.Context, limit int) ([]domain.FeatureRecord, error)
}

// EvalStore is the append-only log of retrieval evaluation metrics.
// Same append-only contract as FeatureStore.
type EvalStore interface {
	// Append writes one evaluation record.
	Append(ctx context.Context, rec domain.EvalRecord) error

	// AggregateByVersion groups all records by version tag.
	AggregateByVersion(ctx context.Context) ([]domain.EvalVersionSummary, error)

	// Recent returns the most recent records, newest first, limit clamped.
	Recent(ctx context.Context, limit int) ([]domain.EvalRecord, error)
}
