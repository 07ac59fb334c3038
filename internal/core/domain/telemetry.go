package domain

import (
	"strings"
	"time"
)

// DefaultVersion is the version tag applied when a caller supplies none.
const DefaultVersion = "v1"

// FeatureRecord captures the extracted keyword features of one retrieval
// call. Records are append-only: created once, never updated or deleted.
type FeatureRecord struct {
	// FeatureID is the unique record identifier.
	FeatureID string

	// RunID groups all telemetry written for one logical operation.
	RunID string

	// Version is the free-form tag partitioning records for comparison.
	Version string

	// QueryRaw is the unmodified user query.
	QueryRaw string

	// Keywords is the comma-joined extracted term list.
	Keywords string

	// NumKeywords is the extracted term count.
	NumKeywords int

	// TopK is the result-count bound requested by the caller.
	TopK int

	// CreatedAt is when the record was appended.
	CreatedAt time.Time
}

// NewFeatureRecord builds a feature record from one retrieval call.
func NewFeatureRecord(featureID, runID, version, query string, keywords []string, topk int) FeatureRecord {
	if version == "" {
		version = DefaultVersion
	}
	return FeatureRecord{
		FeatureID:   featureID,
		RunID:       runID,
		Version:     version,
		QueryRaw:    query,
		Keywords:    strings.Join(keywords, ","),
		NumKeywords: len(keywords),
		TopK:        topk,
	}
}

// EvalRecord captures the evaluation metrics of one retrieval call.
// Append-only, like FeatureRecord.
type EvalRecord struct {
	EvalID       string
	RunID        string
	Version      string
	QueryRaw     string
	TopK         int
	RowsReturned int

	// AvgScore, MaxScore and MinScore are all 0.0 when RowsReturned is 0.
	AvgScore float64
	MaxScore float64
	MinScore float64

	LatencyMS    int64
	KeywordCount int
	CreatedAt    time.Time
}

// NewEvalRecord builds an evaluation record from one retrieval call.
// The zero-rows invariant is enforced here: no rows means all score
// fields are 0.0, never NaN.
func NewEvalRecord(
	evalID, runID, version, query string,
	topk int, results []ScoredChunk, latencyMS int64, keywordCount int,
) EvalRecord {
	if version == "" {
		version = DefaultVersion
	}
	stats := ScoreStatsOf(results)
	return EvalRecord{
		EvalID:       evalID,
		RunID:        runID,
		Version:      version,
		QueryRaw:     query,
		TopK:         topk,
		RowsReturned: len(results),
		AvgScore:     stats.Avg,
		MaxScore:     stats.Max,
		MinScore:     stats.Min,
		LatencyMS:    latencyMS,
		KeywordCount: keywordCount,
	}
}

// FeatureVersionSummary aggregates feature records for one version tag.
type FeatureVersionSummary struct {
	Version      string
	TotalQueries int
	AvgKeywords  float64
	AvgTopK      float64
	FirstSeen    time.Time
	LastSeen     time.Time
}

// EvalVersionSummary aggregates evaluation records for one version tag.
type EvalVersionSummary struct {
	Version       string
	TotalRuns     int
	MeanAvgScore  float64
	MeanLatencyMS float64
	MeanRows      float64
	MeanKeywords  float64
	FirstRun      time.Time
	LastRun       time.Time
}

// Recent-history limits. Limits are clamped before reaching any query to
// avoid unbounded scans.
const (
	MinHistoryLimit = 1
	MaxHistoryLimit = 1000
)

// ClampHistoryLimit forces limit into [MinHistoryLimit, MaxHistoryLimit].
func ClampHistoryLimit(limit int) int {
	if limit < MinHistoryLimit {
		return MinHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
