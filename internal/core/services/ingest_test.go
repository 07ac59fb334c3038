package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policypulse/policypulse/internal/core/domain"
)

const validCSV = `DOC_NAME,PAGE_NUM,CHUNK_ID,CHUNK_TEXT,TEXT_LENGTH
parking.pdf,1,1,"Parking permits cost $150 per semester.",39
parking.pdf,1,2,"Visitor parking is near the library.",36
parking.pdf,2,1,"Appeals go to the parking office.",33
`

func newTestIngest(t *testing.T, chunks *mockChunkStore, log *mockIngestLog) (*IngestService, string, string) {
	t.Helper()
	inbox := filepath.Join(t.TempDir(), "inbox")
	done := filepath.Join(t.TempDir(), "done")
	svc := NewIngestService(chunks, log, zerolog.Nop(), inbox, done, 0, false)
	require.NoError(t, svc.EnsureDirs())
	return svc, inbox, done
}

func dropFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestIngest_SuccessMovesFile(t *testing.T) {
	chunks := &mockChunkStore{}
	log := &mockIngestLog{}
	svc, inbox, done := newTestIngest(t, chunks, log)

	path := dropFile(t, inbox, "chunks.csv", validCSV)
	outcome := svc.Ingest(context.Background(), path)

	assert.Equal(t, domain.IngestSuccess, outcome.Status)
	assert.Equal(t, 3, outcome.Rows)
	assert.Len(t, chunks.inserted, 3)

	// File moved out of the inbox.
	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(done, "chunks.csv"))

	// Durable success record.
	require.Len(t, log.records, 1)
	assert.Equal(t, domain.IngestSuccess, log.records[0].Status)
	assert.Equal(t, 3, log.records[0].RowsIngested)
	assert.NotEmpty(t, log.records[0].FileHash)
}

func TestIngest_SameContentSkippedEvenWhenRenamed(t *testing.T) {
	chunks := &mockChunkStore{}
	log := &mockIngestLog{}
	svc, inbox, _ := newTestIngest(t, chunks, log)

	first := dropFile(t, inbox, "chunks.csv", validCSV)
	require.Equal(t, domain.IngestSuccess, svc.Ingest(context.Background(), first).Status)

	// Same bytes under a different name dedup on the content hash.
	second := dropFile(t, inbox, "renamed.csv", validCSV)
	outcome := svc.Ingest(context.Background(), second)

	assert.Equal(t, domain.IngestSkipped, outcome.Status)
	assert.Len(t, chunks.inserted, 3, "skip must not insert again")
	assert.FileExists(t, second, "skipped files stay where the operator put them")
}

func TestIngest_MissingColumnFailsValidation(t *testing.T) {
	chunks := &mockChunkStore{}
	log := &mockIngestLog{}
	svc, inbox, _ := newTestIngest(t, chunks, log)

	path := dropFile(t, inbox, "bad.csv",
		"DOC_NAME,PAGE_NUM,CHUNK_TEXT\nparking.pdf,1,some text\n")
	outcome := svc.Ingest(context.Background(), path)

	assert.Equal(t, domain.IngestFail, outcome.Status)
	assert.Contains(t, outcome.Err, "CHUNK_ID")
	assert.Empty(t, chunks.inserted)

	// File stays in the inbox for correction; fail is logged.
	assert.FileExists(t, path)
	require.Len(t, log.records, 1)
	assert.Equal(t, domain.IngestFail, log.records[0].Status)
}

func TestIngest_HeaderMatchingIsCaseInsensitive(t *testing.T) {
	chunks := &mockChunkStore{}
	svc, inbox, _ := newTestIngest(t, chunks, &mockIngestLog{})

	path := dropFile(t, inbox, "lower.csv",
		"doc_name, page_num ,chunk_id,chunk_text,text_length\nparking.pdf,1,1,some chunk text,15\n")
	outcome := svc.Ingest(context.Background(), path)

	assert.Equal(t, domain.IngestSuccess, outcome.Status)
	assert.Equal(t, 1, outcome.Rows)
}

func TestIngest_EmptyTextRowsDropped(t *testing.T) {
	chunks := &mockChunkStore{}
	svc, inbox, _ := newTestIngest(t, chunks, &mockIngestLog{})

	csv := "DOC_NAME,PAGE_NUM,CHUNK_ID,CHUNK_TEXT,TEXT_LENGTH\n" +
		"a.pdf,1,1,real text,9\n" +
		"a.pdf,1,2,   ,3\n" +
		"a.pdf,1,3,,0\n"
	path := dropFile(t, inbox, "sparse.csv", csv)
	outcome := svc.Ingest(context.Background(), path)

	assert.Equal(t, domain.IngestSuccess, outcome.Status)
	assert.Equal(t, 1, outcome.Rows)
}

func TestIngest_TextLengthRecomputed(t *testing.T) {
	chunks := &mockChunkStore{}
	svc, inbox, _ := newTestIngest(t, chunks, &mockIngestLog{})

	// The file claims a wrong length; the stored value comes from the text.
	path := dropFile(t, inbox, "len.csv",
		"DOC_NAME,PAGE_NUM,CHUNK_ID,CHUNK_TEXT,TEXT_LENGTH\na.pdf,1,1,ten chars!,999\n")
	outcome := svc.Ingest(context.Background(), path)

	require.Equal(t, domain.IngestSuccess, outcome.Status)
	require.Len(t, chunks.inserted, 1)
	assert.Equal(t, 10, chunks.inserted[0].TextLength)
}

func TestIngest_BadPageNumberFailsFile(t *testing.T) {
	chunks := &mockChunkStore{}
	svc, inbox, _ := newTestIngest(t, chunks, &mockIngestLog{})

	path := dropFile(t, inbox, "badpage.csv",
		"DOC_NAME,PAGE_NUM,CHUNK_ID,CHUNK_TEXT,TEXT_LENGTH\na.pdf,one,1,text here,9\n")
	outcome := svc.Ingest(context.Background(), path)

	assert.Equal(t, domain.IngestFail, outcome.Status)
	assert.Contains(t, outcome.Err, "page number")
	assert.Empty(t, chunks.inserted)
}

func TestIngest_InsertFailureLeavesFile(t *testing.T) {
	chunks := &mockChunkStore{insertErr: errors.New("database locked")}
	log := &mockIngestLog{}
	svc, inbox, _ := newTestIngest(t, chunks, log)

	path := dropFile(t, inbox, "chunks.csv", validCSV)
	outcome := svc.Ingest(context.Background(), path)

	assert.Equal(t, domain.IngestFail, outcome.Status)
	assert.FileExists(t, path, "failed files stay for the next poll cycle")
	require.Len(t, log.records, 1)
	assert.Equal(t, domain.IngestFail, log.records[0].Status)
}

func TestIngest_ConcurrentSuccessBecomesSkip(t *testing.T) {
	chunks := &mockChunkStore{}
	log := &mockIngestLog{}
	svc, inbox, _ := newTestIngest(t, chunks, log)

	// Simulate another writer logging success between the dedup check and
	// the append: pre-seed a success record with the file's hash.
	path := dropFile(t, inbox, "chunks.csv", validCSV)
	outcome := svc.Ingest(context.Background(), path)
	require.Equal(t, domain.IngestSuccess, outcome.Status)

	dupPath := dropFile(t, inbox, "dup.csv", validCSV)
	outcome = svc.Ingest(context.Background(), dupPath)
	assert.Equal(t, domain.IngestSkipped, outcome.Status)
}

func TestRunOnce_ProcessesAllCandidates(t *testing.T) {
	chunks := &mockChunkStore{}
	svc, inbox, _ := newTestIngest(t, chunks, &mockIngestLog{})

	dropFile(t, inbox, "a.csv", validCSV)
	dropFile(t, inbox, "b.csv",
		"DOC_NAME,PAGE_NUM,CHUNK_ID,CHUNK_TEXT,TEXT_LENGTH\nb.pdf,1,1,other text,10\n")
	dropFile(t, inbox, "notes.txt", "not a csv")

	outcomes, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, outcomes, 2, "non-CSV files are ignored")

	// One of the two CSVs shares no content with the other; both succeed.
	for _, outcome := range outcomes {
		assert.Equal(t, domain.IngestSuccess, outcome.Status)
	}
}

func TestRunOnce_FailureDoesNotStopPass(t *testing.T) {
	chunks := &mockChunkStore{}
	svc, inbox, _ := newTestIngest(t, chunks, &mockIngestLog{})

	dropFile(t, inbox, "a_bad.csv", "WRONG,HEADER\n1,2\n")
	dropFile(t, inbox, "b_good.csv", validCSV)

	outcomes, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, domain.IngestFail, outcomes[0].Status)
	assert.Equal(t, domain.IngestSuccess, outcomes[1].Status)
}
