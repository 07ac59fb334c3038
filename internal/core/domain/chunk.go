package domain

// Chunk represents a page-scoped fragment of a source document.
// Chunks are created by ingestion and never mutated.
type Chunk struct {
	// DocName is the source document name, e.g. a PDF file name.
	DocName string

	// PageNum is the 1-based page the chunk was extracted from.
	PageNum int

	// ChunkID identifies the chunk within its document and page.
	ChunkID string

	// ChunkText is the retrievable text content.
	ChunkText string

	// TextLength is the character count of ChunkText. It is derived at
	// write time, never trusted from input.
	TextLength int
}

// ScoredChunk is a chunk plus its retrieval score: the count of query terms
// that substring-match the chunk text, case-insensitively.
type ScoredChunk struct {
	Chunk

	// Score is a non-negative integer count of matched terms.
	Score int
}

// ScoreStats summarises the scores of one retrieval result set.
// All fields are 0.0 when no rows were returned.
type ScoreStats struct {
	Avg float64
	Max float64
	Min float64
}

// ScoreStatsOf computes average, maximum and minimum score over results.
// An empty result set yields all zeroes rather than NaN.
func ScoreStatsOf(results []ScoredChunk) ScoreStats {
	if len(results) == 0 {
		return ScoreStats{}
	}

	var stats ScoreStats
	sum := 0
	maxScore := results[0].Score
	minScore := results[0].Score
	for _, r := range results {
		sum += r.Score
		if r.Score > maxScore {
			maxScore = r.Score
		}
		if r.Score < minScore {
			minScore = r.Score
		}
	}
	stats.Avg = float64(sum) / float64(len(results))
	stats.Max = float64(maxScore)
	stats.Min = float64(minScore)
	return stats
}
