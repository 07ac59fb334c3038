package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/policypulse/policypulse/internal/core/domain"
	"github.com/policypulse/policypulse/internal/core/ports/driven"
)

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// SearchChunks returns ranked chunks matching any of the terms.
//
// The query is generated from the term list: one LIKE predicate per term in
// the WHERE clause and one CASE indicator per term summed into the score.
// Term values are always bound parameters, never interpolated; the keyword
// extractor caps the term count, so query size is bounded too. SQLite's LIKE
// is case-insensitive over ASCII, which covers the lowercase ASCII terms the
// extractor produces.
func (s *chunkStore) SearchChunks(ctx context.Context, terms []string, topk int) ([]domain.ScoredChunk, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if topk <= 0 {
		return nil, domain.ErrInvalidInput
	}

	scoreParts := make([]string, len(terms))
	whereParts := make([]string, len(terms))
	for i := range terms {
		scoreParts[i] = "(CASE WHEN chunk_text LIKE ? THEN 1 ELSE 0 END)"
		whereParts[i] = "chunk_text LIKE ?"
	}

	// Placeholder order follows the statement: score indicators first,
	// then the WHERE predicates, then the limit.
	args := make([]any, 0, len(terms)*2+1)
	for _, t := range terms {
		args = append(args, "%"+t+"%")
	}
	for _, t := range terms {
		args = append(args, "%"+t+"%")
	}
	args = append(args, topk)

	query := fmt.Sprintf(`
		SELECT doc_name, page_num, chunk_id, chunk_text, text_length,
		       (%s) AS score
		FROM doc_chunks
		WHERE %s
		ORDER BY score DESC, text_length DESC, rowid
		LIMIT ?
	`, strings.Join(scoreParts, " + "), strings.Join(whereParts, " OR "))

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.ScoredChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sc domain.ScoredChunk
		if err := rows.Scan(&sc.DocName, &sc.PageNum, &sc.ChunkID,
			&sc.ChunkText, &sc.TextLength, &sc.Score); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		results = append(results, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return results, nil
}

// InsertChunks appends a batch of chunks in one transaction.
func (s *chunkStore) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO doc_chunks (doc_name, page_num, chunk_id, chunk_text, text_length, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	now := formatTime(time.Now())
	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.DocName, c.PageNum, c.ChunkID,
			c.ChunkText, c.TextLength, now); err != nil {
			return fmt.Errorf("inserting chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CountChunks returns the corpus size.
func (s *chunkStore) CountChunks(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM doc_chunks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}
