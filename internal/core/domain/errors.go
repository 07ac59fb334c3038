package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as a
	// non-positive top-k. Rejected before any I/O and never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidation indicates ingested data failed schema validation.
	// The offending file is left in place for manual correction.
	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable indicates a row-store round trip failed.
	// Retrieval surfaces it alongside empty results; ingestion records
	// a fail outcome and retries on the next poll cycle.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrDuplicate indicates an append hit a uniqueness constraint.
	// For ingestion this means another writer already logged success
	// for the same content hash.
	ErrDuplicate = errors.New("duplicate record")

	// ErrAnswerUnavailable indicates the answer-generation service is not
	// configured. Retrieval still works; AI answers are disabled.
	ErrAnswerUnavailable = errors.New("answer service unavailable")
)
