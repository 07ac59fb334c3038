package services

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policypulse/policypulse/internal/core/domain"
	"github.com/policypulse/policypulse/internal/core/ports/driven"
)

func TestExtractToInbox_WritesSchemaCompleteCSV(t *testing.T) {
	inbox := t.TempDir()
	source := &mockPageSource{
		ext: ".txt",
		pages: []domain.Page{
			{Num: 1, Text: "Parking permits cost $150 per semester."},
			{Num: 2, Text: "Appeals go to the parking office."},
		},
	}
	svc := NewExtractService([]driven.PageSource{source}, zerolog.Nop(), inbox, 0, 0)

	csvPath, rows, err := svc.ExtractToInbox(context.Background(), "/docs/parking.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
	assert.Equal(t, filepath.Join(inbox, "parking_chunks.csv"), csvPath)

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 chunks

	assert.Equal(t, domain.RequiredColumns, records[0])
	assert.Equal(t, "parking.txt", records[1][0])
	assert.Equal(t, "1", records[1][1])
}

func TestExtractToInbox_LongPagesChunkWithOverlap(t *testing.T) {
	inbox := t.TempDir()
	source := &mockPageSource{
		ext:   ".txt",
		pages: []domain.Page{{Num: 1, Text: strings.Repeat("a", 250)}},
	}
	svc := NewExtractService([]driven.PageSource{source}, zerolog.Nop(), inbox, 100, 20)

	_, rows, err := svc.ExtractToInbox(context.Background(), "/docs/long.txt")
	require.NoError(t, err)
	// Windows [0,100) [80,180) [160,250).
	assert.Equal(t, 3, rows)
}

func TestExtractToInbox_UnsupportedFile(t *testing.T) {
	source := &mockPageSource{ext: ".txt"}
	svc := NewExtractService([]driven.PageSource{source}, zerolog.Nop(), t.TempDir(), 0, 0)

	_, _, err := svc.ExtractToInbox(context.Background(), "/docs/image.png")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractToInbox_EmptyDocument(t *testing.T) {
	source := &mockPageSource{ext: ".txt", pages: []domain.Page{{Num: 1, Text: "   "}}}
	svc := NewExtractService([]driven.PageSource{source}, zerolog.Nop(), t.TempDir(), 0, 0)

	_, _, err := svc.ExtractToInbox(context.Background(), "/docs/blank.txt")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExtractThenIngest_RoundTrip(t *testing.T) {
	inbox := t.TempDir()
	done := t.TempDir()

	source := &mockPageSource{
		ext:   ".txt",
		pages: []domain.Page{{Num: 1, Text: "Housing applications open in March every year."}},
	}
	extract := NewExtractService([]driven.PageSource{source}, zerolog.Nop(), inbox, 0, 0)

	csvPath, rows, err := extract.ExtractToInbox(context.Background(), "/docs/housing.txt")
	require.NoError(t, err)
	require.Equal(t, 1, rows)

	chunks := &mockChunkStore{}
	ingest := NewIngestService(chunks, &mockIngestLog{}, zerolog.Nop(), inbox, done, 0, false)
	require.NoError(t, ingest.EnsureDirs())

	outcome := ingest.Ingest(context.Background(), csvPath)
	assert.Equal(t, domain.IngestSuccess, outcome.Status)
	require.Len(t, chunks.inserted, 1)
	assert.Equal(t, "housing.txt", chunks.inserted[0].DocName)
}
