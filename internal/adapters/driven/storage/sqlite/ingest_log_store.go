package sqlite

import (
	"context"
	"fmt"

	"github.com/policypulse/policypulse/internal/core/domain"
	"github.com/policypulse/policypulse/internal/core/ports/driven"
)

// ingestLogStore implements driven.IngestLogStore.
type ingestLogStore struct {
	store *Store
}

var _ driven.IngestLogStore = (*ingestLogStore)(nil)

// Append writes one ingestion log record. A success record for an already
// successful hash trips the partial unique index and comes back as
// domain.ErrDuplicate, which callers treat as "someone else won the race".
func (s *ingestLogStore) Append(ctx context.Context, rec domain.IngestRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ingest_log (ingest_id, file_name, file_hash, rows_ingested, status, error_msg, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.IngestID, rec.FileName, rec.FileHash, rec.RowsIngested,
		string(rec.Status), rec.ErrorMsg, formatTime(rec.IngestedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: success record exists for hash %s", domain.ErrDuplicate, rec.FileHash)
		}
		return fmt.Errorf("appending ingest record: %w", err)
	}
	return nil
}

// HasSuccess reports whether a success record exists for the hash.
func (s *ingestLogStore) HasSuccess(ctx context.Context, fileHash string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ingest_log WHERE file_hash = ? AND status = 'success'
	`, fileHash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking ingest log: %w", err)
	}
	return count > 0, nil
}

// Recent returns the newest ingestion records, limit clamped.
func (s *ingestLogStore) Recent(ctx context.Context, limit int) ([]domain.IngestRecord, error) {
	limit = domain.ClampHistoryLimit(limit)

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT ingest_id, file_name, file_hash, rows_ingested, status, error_msg, ingested_at
		FROM ingest_log
		ORDER BY ingested_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ingest records: %w", err)
	}
	defer rows.Close()

	var records []domain.IngestRecord
	for rows.Next() {
		var rec domain.IngestRecord
		var status, ingested string
		if err := rows.Scan(&rec.IngestID, &rec.FileName, &rec.FileHash,
			&rec.RowsIngested, &status, &rec.ErrorMsg, &ingested); err != nil {
			return nil, fmt.Errorf("scanning ingest record: %w", err)
		}
		rec.Status = domain.IngestStatus(status)
		rec.IngestedAt = parseTime(ingested)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ingest records: %w", err)
	}
	return records, nil
}
