package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/policypulse/policypulse/internal/core/domain"
	"github.com/policypulse/policypulse/internal/core/ports/driven"
	"github.com/policypulse/policypulse/internal/core/ports/driving"
)

// ExtractService implements driving.ExtractService: it turns source
// documents into schema-complete inbox CSVs that the ingestion scheduler
// picks up on its next pass.
type ExtractService struct {
	sources  []driven.PageSource
	log      zerolog.Logger
	inboxDir string
	size     int
	overlap  int
}

var _ driving.ExtractService = (*ExtractService)(nil)

// NewExtractService creates an extract service over the given page sources.
// Non-positive size or out-of-range overlap fall back to the defaults.
func NewExtractService(sources []driven.PageSource, log zerolog.Logger, inboxDir string, size, overlap int) *ExtractService {
	if size <= 0 {
		size = domain.DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = domain.DefaultChunkOverlap
	}
	return &ExtractService{
		sources:  sources,
		log:      log,
		inboxDir: inboxDir,
		size:     size,
		overlap:  overlap,
	}
}

// ExtractToInbox reads the document, chunks every page and writes the rows
// as a CSV into the inbox. Returns the CSV path and the row count.
func (s *ExtractService) ExtractToInbox(ctx context.Context, docPath string) (string, int, error) {
	source := s.sourceFor(docPath)
	if source == nil {
		return "", 0, fmt.Errorf("%w: no page source supports %s", domain.ErrInvalidInput, filepath.Ext(docPath))
	}

	pages, err := source.Pages(ctx, docPath)
	if err != nil {
		return "", 0, fmt.Errorf("extracting pages: %w", err)
	}

	docName := filepath.Base(docPath)
	chunks := domain.ChunkPages(docName, pages, s.size, s.overlap)
	if len(chunks) == 0 {
		return "", 0, fmt.Errorf("%w: document has no extractable text", domain.ErrValidation)
	}

	if err := os.MkdirAll(s.inboxDir, 0755); err != nil {
		return "", 0, fmt.Errorf("creating inbox: %w", err)
	}

	base := strings.TrimSuffix(docName, filepath.Ext(docName))
	csvPath := filepath.Join(s.inboxDir, base+"_chunks.csv")
	if err := writeChunkCSV(csvPath, chunks); err != nil {
		return "", 0, err
	}

	s.log.Info().
		Str("doc", docName).
		Str("csv", csvPath).
		Int("pages", len(pages)).
		Int("chunks", len(chunks)).
		Msg("document extracted to inbox")

	return csvPath, len(chunks), nil
}

func (s *ExtractService) sourceFor(path string) driven.PageSource {
	for _, src := range s.sources {
		if src.Supports(path) {
			return src
		}
	}
	return nil
}

// writeChunkCSV writes chunk rows with the full required-column header.
func writeChunkCSV(path string, chunks []domain.Chunk) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(domain.RequiredColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, c := range chunks {
		row := []string{
			c.DocName,
			strconv.Itoa(c.PageNum),
			c.ChunkID,
			c.ChunkText,
			strconv.Itoa(c.TextLength),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return f.Close()
}
