package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/policypulse/policypulse/internal/core/domain"
	"github.com/policypulse/policypulse/internal/core/ports/driven"
	"github.com/policypulse/policypulse/internal/core/ports/driving"
)

// DefaultPollInterval is how often the scheduler scans the inbox.
const DefaultPollInterval = 60 * time.Second

// IngestService implements driving.IngestService: the idempotent
// file-ingestion scheduler. Files land in the inbox, get hashed, validated
// and appended to the corpus, then move to the done directory. The content
// hash keys dedup, so re-dropping or renaming an already ingested file is a
// skip, not a double insert.
type IngestService struct {
	chunks    driven.ChunkStore
	ingestLog driven.IngestLogStore
	log       zerolog.Logger

	inboxDir     string
	doneDir      string
	pollInterval time.Duration

	// watch wakes the poll loop early on inbox filesystem events.
	watch bool
}

var _ driving.IngestService = (*IngestService)(nil)

// NewIngestService creates the scheduler. A non-positive pollInterval falls
// back to the default. watch enables filesystem-event wakeups between polls.
func NewIngestService(
	chunks driven.ChunkStore,
	ingestLog driven.IngestLogStore,
	log zerolog.Logger,
	inboxDir, doneDir string,
	pollInterval time.Duration,
	watch bool,
) *IngestService {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &IngestService{
		chunks:       chunks,
		ingestLog:    ingestLog,
		log:          log,
		inboxDir:     inboxDir,
		doneDir:      doneDir,
		pollInterval: pollInterval,
		watch:        watch,
	}
}

// EnsureDirs creates the inbox and done directories if absent.
func (s *IngestService) EnsureDirs() error {
	for _, dir := range []string{s.inboxDir, s.doneDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// RunOnce scans the inbox and processes every CSV candidate in directory
// listing order. Per-file failures never stop the pass.
func (s *IngestService) RunOnce(ctx context.Context) ([]domain.IngestOutcome, error) {
	entries, err := os.ReadDir(s.inboxDir)
	if err != nil {
		return nil, fmt.Errorf("reading inbox: %w", err)
	}

	var outcomes []domain.IngestOutcome
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome := s.Ingest(ctx, filepath.Join(s.inboxDir, entry.Name()))
		outcomes = append(outcomes, outcome)

		event := s.log.Info()
		if outcome.Status == domain.IngestFail {
			event = s.log.Error()
		}
		event.
			Str("file", outcome.File).
			Str("status", string(outcome.Status)).
			Int("rows", outcome.Rows).
			Str("error", outcome.Err).
			Msg("ingest outcome")
	}
	return outcomes, nil
}

// Ingest processes one candidate file through the state machine:
// hash, dedup check, validate, batch insert, durable log, move.
//
// The ordering matters: the success record is written before the file moves,
// so a crash between the two leaves a file whose next attempt dedups to a
// skip instead of a double insert.
func (s *IngestService) Ingest(ctx context.Context, path string) domain.IngestOutcome {
	fileName := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.IngestOutcome{
			File:   fileName,
			Status: domain.IngestFail,
			Err:    fmt.Sprintf("reading file: %s", err),
		}
	}

	sum := sha256.Sum256(data)
	fileHash := hex.EncodeToString(sum[:])

	seen, err := s.ingestLog.HasSuccess(ctx, fileHash)
	if err != nil {
		return s.fail(ctx, fileName, fileHash, fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, err))
	}
	if seen {
		// Left in place, not moved or deleted: an operator re-dropping a
		// file should find it where they put it.
		return domain.IngestOutcome{
			File:   fileName,
			Status: domain.IngestSkipped,
			Err:    "content hash already ingested",
		}
	}

	chunks, err := parseChunkCSV(data)
	if err != nil {
		return s.fail(ctx, fileName, fileHash, err)
	}

	if err := s.chunks.InsertChunks(ctx, chunks); err != nil {
		return s.fail(ctx, fileName, fileHash, fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, err))
	}

	err = s.ingestLog.Append(ctx, domain.IngestRecord{
		IngestID:     uuid.NewString(),
		FileName:     fileName,
		FileHash:     fileHash,
		RowsIngested: len(chunks),
		Status:       domain.IngestSuccess,
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// Another writer logged success for this hash first.
		return domain.IngestOutcome{
			File:   fileName,
			Status: domain.IngestSkipped,
			Err:    "concurrent ingest already logged this hash",
		}
	}
	if err != nil {
		return s.fail(ctx, fileName, fileHash, fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, err))
	}

	s.moveToDone(path)
	return domain.IngestOutcome{
		File:   fileName,
		Status: domain.IngestSuccess,
		Rows:   len(chunks),
	}
}

// Run polls the inbox until the context is cancelled. With watch enabled,
// inbox filesystem events wake the loop between polls.
func (s *IngestService) Run(ctx context.Context) error {
	if err := s.EnsureDirs(); err != nil {
		return err
	}

	var wake <-chan struct{}
	if s.watch {
		ch, cleanup, err := s.watchInbox()
		if err != nil {
			s.log.Warn().Err(err).Msg("inbox watch unavailable, polling only")
		} else {
			wake = ch
			defer cleanup()
		}
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.log.Info().
		Str("inbox", s.inboxDir).
		Dur("poll_interval", s.pollInterval).
		Bool("watch", wake != nil).
		Msg("ingest scheduler started")

	for {
		if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Error().Err(err).Msg("inbox scan failed")
		}

		select {
		case <-ctx.Done():
			s.log.Info().Msg("ingest scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
		case <-wake:
		}
	}
}

// watchInbox starts a filesystem watcher on the inbox and returns a channel
// that receives a wakeup for create and write events.
func (s *IngestService) watchInbox() (<-chan struct{}, func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(s.inboxDir); err != nil {
		watcher.Close()
		return nil, nil, fmt.Errorf("watching inbox: %w", err)
	}

	wake := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				select {
				case wake <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn().Err(err).Msg("inbox watcher error")
			}
		}
	}()

	return wake, func() { watcher.Close() }, nil
}

// fail records a fail entry in the ingestion log and returns the outcome.
// The file stays in the inbox for the next attempt.
func (s *IngestService) fail(ctx context.Context, fileName, fileHash string, cause error) domain.IngestOutcome {
	err := s.ingestLog.Append(ctx, domain.IngestRecord{
		IngestID: uuid.NewString(),
		FileName: fileName,
		FileHash: fileHash,
		Status:   domain.IngestFail,
		ErrorMsg: cause.Error(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("file", fileName).Msg("recording fail outcome failed")
	}
	return domain.IngestOutcome{
		File:   fileName,
		Status: domain.IngestFail,
		Err:    cause.Error(),
	}
}

// moveToDone moves an ingested file out of the inbox. Best effort: the
// success record is already durable, so a stuck file only costs a skip on
// the next pass.
func (s *IngestService) moveToDone(path string) {
	target := filepath.Join(s.doneDir, filepath.Base(path))
	if err := os.Rename(path, target); err != nil {
		s.log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("moving file to done failed")
	}
}

// parseChunkCSV validates and converts an inbox CSV into chunk rows.
// Headers are matched after uppercasing and trimming; all required columns
// must be present. Rows with empty chunk text are dropped; text length is
// recomputed from the text rather than trusted from the file. A malformed
// page number fails the whole file.
func parseChunkCSV(data []byte) ([]domain.Chunk, error) {
	reader := csv.NewReader(bytes.NewReader(data))

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %s", domain.ErrValidation, err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	for _, required := range domain.RequiredColumns {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("%w: missing required column %s", domain.ErrValidation, required)
		}
	}

	var chunks []domain.Chunk
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", domain.ErrValidation, line, err)
		}

		text := strings.TrimSpace(record[colIndex["CHUNK_TEXT"]])
		if text == "" {
			continue
		}

		pageNum, err := strconv.Atoi(strings.TrimSpace(record[colIndex["PAGE_NUM"]]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid page number %q",
				domain.ErrValidation, line, record[colIndex["PAGE_NUM"]])
		}

		chunks = append(chunks, domain.Chunk{
			DocName:    strings.TrimSpace(record[colIndex["DOC_NAME"]]),
			PageNum:    pageNum,
			ChunkID:    strings.TrimSpace(record[colIndex["CHUNK_ID"]]),
			ChunkText:  text,
			TextLength: utf8.RuneCountInString(text),
		})
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no usable rows", domain.ErrValidation)
	}
	return chunks, nil
}
