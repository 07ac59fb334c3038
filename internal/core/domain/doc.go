// Package domain defines the core business entities for PolicyPulse.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A page-scoped fragment of a source document stored as one retrievable row
//   - ScoredChunk: A chunk plus its keyword-match score
//   - FeatureRecord / EvalRecord: Append-only telemetry partitioned by version tag
//   - IngestRecord / IngestOutcome: The ingestion scheduler's durable log and per-file result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
