package domain

// Default retrieval bounds.
const (
	DefaultTopK = 8
	MaxTopK     = 50
)

// AnswerContextSize is the number of top-ranked chunks handed to the
// answer-generation collaborator. Fixed contract, not configurable per call.
const AnswerContextSize = 5

// SearchRequest describes one full retrieval operation.
// Version is threaded explicitly so concurrent sessions can never
// cross-contaminate each other's version tag.
type SearchRequest struct {
	// Query is the raw natural-language question.
	Query string

	// TopK bounds the result count. Must be positive.
	TopK int

	// Version tags the telemetry written for this call.
	Version string

	// ModelID selects the answer model; empty uses the service default.
	ModelID string

	// WithAnswer requests an AI-generated answer from the top chunks.
	WithAnswer bool
}

// SearchResponse is the result of one full retrieval operation.
type SearchResponse struct {
	// RunID groups the telemetry written for this call.
	RunID string

	// Results are the ranked chunks, at most TopK.
	Results []ScoredChunk

	// Keywords are the extracted terms the results were scored against.
	Keywords []string

	// Answer is the generated answer, empty when disabled or unavailable.
	Answer string

	// RetrievalMS is the retrieval latency in milliseconds.
	RetrievalMS int64

	// AnswerMS is the answer-generation latency in milliseconds.
	AnswerMS int64
}
