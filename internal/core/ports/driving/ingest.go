package driving

import (
	"context"

	"github.com/policypulse/policypulse/internal/core/domain"
)

// IngestService is the idempotent file-ingestion scheduler.
type IngestService interface {
	// EnsureDirs creates the inbox and done directories if absent.
	EnsureDirs() error

	// RunOnce scans the inbox and processes every candidate file,
	// returning one outcome per file in directory listing order.
	RunOnce(ctx context.Context) ([]domain.IngestOutcome, error)

	// Ingest processes one candidate file through the state machine:
	// hash, dedup check, validate, batch insert, durable log, move.
	Ingest(ctx context.Context, path string) domain.IngestOutcome

	// Run polls the inbox until the context is cancelled.
	Run(ctx context.Context) error
}

// ExtractService turns source documents into inbox CSVs for the scheduler.
type ExtractService interface {
	// ExtractToInbox reads the document through its page source, chunks
	// every page, and writes a schema-complete CSV into the inbox.
	// It returns the CSV path and the number of chunk rows written.
	ExtractToInbox(ctx context.Context, docPath string) (string, int, error)
}
