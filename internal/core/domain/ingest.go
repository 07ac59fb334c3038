package domain

import "time"

// IngestStatus is the terminal state of one ingestion attempt.
type IngestStatus string

const (
	// IngestSuccess means the file's rows were appended and the file moved
	// to the done directory.
	IngestSuccess IngestStatus = "success"

	// IngestFail means validation or the store insert failed; the file is
	// left in the inbox.
	IngestFail IngestStatus = "fail"

	// IngestSkipped means a file with the same content hash was already
	// ingested successfully. Not an error; the file is left untouched.
	IngestSkipped IngestStatus = "skipped"
)

// RequiredColumns are the CSV columns an ingestable file must carry.
// Header names are uppercased and trimmed before comparison.
var RequiredColumns = []string{"DOC_NAME", "PAGE_NUM", "CHUNK_ID", "CHUNK_TEXT", "TEXT_LENGTH"}

// IngestRecord is one append-only entry in the ingestion log.
// A content hash can have at most one success record; that uniqueness is
// the idempotency boundary that makes retries safe.
type IngestRecord struct {
	// IngestID is the unique record identifier.
	IngestID string

	// FileName is the base name of the ingested file. Informational only;
	// dedup keys on FileHash, so renames do not defeat it.
	FileName string

	// FileHash is the hex digest of the file content.
	FileHash string

	// RowsIngested is the number of chunk rows appended.
	RowsIngested int

	// Status is success or fail. Skips are reported to callers but not
	// logged, matching the at-most-one-success-per-hash invariant.
	Status IngestStatus

	// ErrorMsg carries the failure reason when Status is fail.
	ErrorMsg string

	// IngestedAt is when the record was appended.
	IngestedAt time.Time
}

// IngestOutcome is the per-file result of one scheduler pass.
type IngestOutcome struct {
	// File is the base name of the candidate file.
	File string

	// Status is the terminal state reached.
	Status IngestStatus

	// Rows is the number of rows appended (success only).
	Rows int

	// Err is the failure or skip reason, empty on success.
	Err string
}
