package sqlite

import (
	"context"
	"fmt"

	"github.com/policypulse/policypulse/internal/core/domain"
	"github.com/policypulse/policypulse/internal/core/ports/driven"
)

// featureStore implements driven.FeatureStore.
type featureStore struct {
	store *Store
}

var _ driven.FeatureStore = (*featureStore)(nil)

// Append writes one feature record. Insert-only; no updates ever touch this
// table.
func (s *featureStore) Append(ctx context.Context, rec domain.FeatureRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO feature_store (feature_id, run_id, version, query_raw, keywords, num_keywords, topk, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.FeatureID, rec.RunID, rec.Version, rec.QueryRaw, rec.Keywords,
		rec.NumKeywords, rec.TopK, formatTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("appending feature record: %w", err)
	}
	return nil
}

// AggregateByVersion groups feature records by version tag.
func (s *featureStore) AggregateByVersion(ctx context.Context) ([]domain.FeatureVersionSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT version,
		       COUNT(*)          AS total_queries,
		       AVG(num_keywords) AS avg_keywords,
		       AVG(topk)         AS avg_topk,
		       MIN(created_at)   AS first_seen,
		       MAX(created_at)   AS last_seen
		FROM feature_store
		GROUP BY version
		ORDER BY version
	`)
	if err != nil {
		return nil, fmt.Errorf("aggregating feature records: %w", err)
	}
	defer rows.Close()

	var summaries []domain.FeatureVersionSummary
	for rows.Next() {
		var sum domain.FeatureVersionSummary
		var first, last string
		if err := rows.Scan(&sum.Version, &sum.TotalQueries, &sum.AvgKeywords,
			&sum.AvgTopK, &first, &last); err != nil {
			return nil, fmt.Errorf("scanning feature summary: %w", err)
		}
		sum.FirstSeen = parseTime(first)
		sum.LastSeen = parseTime(last)
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feature summaries: %w", err)
	}
	return summaries, nil
}

// Recent returns the newest feature records, limit clamped.
func (s *featureStore) Recent(ctx context.Context, limit int) ([]domain.FeatureRecord, error) {
	limit = domain.ClampHistoryLimit(limit)

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT feature_id, run_id, version, query_raw, keywords, num_keywords, topk, created_at
		FROM feature_store
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying feature records: %w", err)
	}
	defer rows.Close()

	var records []domain.FeatureRecord
	for rows.Next() {
		var rec domain.FeatureRecord
		var created string
		if err := rows.Scan(&rec.FeatureID, &rec.RunID, &rec.Version, &rec.QueryRaw,
			&rec.Keywords, &rec.NumKeywords, &rec.TopK, &created); err != nil {
			return nil, fmt.Errorf("scanning feature record: %w", err)
		}
		rec.CreatedAt = parseTime(created)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feature records: %w", err)
	}
	return records, nil
}

// evalStore implements driven.EvalStore.
type evalStore struct {
	store *Store
}

var _ driven.EvalStore = (*evalStore)(nil)

// Append writes one evaluation record.
func (s *evalStore) Append(ctx context.Context, rec domain.EvalRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO eval_metrics (eval_id, run_id, version, query_raw, topk, rows_returned,
		                          avg_score, max_score, min_score, latency_ms, keyword_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.EvalID, rec.RunID, rec.Version, rec.QueryRaw, rec.TopK, rec.RowsReturned,
		rec.AvgScore, rec.MaxScore, rec.MinScore, rec.LatencyMS, rec.KeywordCount,
		formatTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("appending eval record: %w", err)
	}
	return nil
}

// AggregateByVersion groups evaluation records by version tag.
func (s *evalStore) AggregateByVersion(ctx context.Context) ([]domain.EvalVersionSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT version,
		       COUNT(*)           AS total_runs,
		       AVG(avg_score)     AS mean_avg_score,
		       AVG(latency_ms)    AS mean_latency_ms,
		       AVG(rows_returned) AS mean_rows,
		       AVG(keyword_count) AS mean_keywords,
		       MIN(created_at)    AS first_run,
		       MAX(created_at)    AS last_run
		FROM eval_metrics
		GROUP BY version
		ORDER BY version
	`)
	if err != nil {
		return nil, fmt.Errorf("aggregating eval records: %w", err)
	}
	defer rows.Close()

	var summaries []domain.EvalVersionSummary
	for rows.Next() {
		var sum domain.EvalVersionSummary
		var first, last string
		if err := rows.Scan(&sum.Version, &sum.TotalRuns, &sum.MeanAvgScore,
			&sum.MeanLatencyMS, &sum.MeanRows, &sum.MeanKeywords, &first, &last); err != nil {
			return nil, fmt.Errorf("scanning eval summary: %w", err)
		}
		sum.FirstRun = parseTime(first)
		sum.LastRun = parseTime(last)
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating eval summaries: %w", err)
	}
	return summaries, nil
}

// Recent returns the newest evaluation records, limit clamped.
func (s *evalStore) Recent(ctx context.Context, limit int) ([]domain.EvalRecord, error) {
	limit = domain.ClampHistoryLimit(limit)

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT eval_id, run_id, version, query_raw, topk, rows_returned,
		       avg_score, max_score, min_score, latency_ms, keyword_count, created_at
		FROM eval_metrics
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying eval records: %w", err)
	}
	defer rows.Close()

	var records []domain.EvalRecord
	for rows.Next() {
		var rec domain.EvalRecord
		var created string
		if err := rows.Scan(&rec.EvalID, &rec.RunID, &rec.Version, &rec.QueryRaw,
			&rec.TopK, &rec.RowsReturned, &rec.AvgScore, &rec.MaxScore, &rec.MinScore,
			&rec.LatencyMS, &rec.KeywordCount, &created); err != nil {
			return nil, fmt.Errorf("scanning eval record: %w", err)
		}
		rec.CreatedAt = parseTime(created)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating eval records: %w", err)
	}
	return records, nil
}
