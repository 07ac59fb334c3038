package services

import (
	"context"
	"strings"
	"sync"

	"github.com/policypulse/policypulse/internal/core/domain"
)

// mockChunkStore counts search calls so cache behaviour is observable.
type mockChunkStore struct {
	mu          sync.Mutex
	searchCalls int
	results     []domain.ScoredChunk
	searchErr   error
	inserted    []domain.Chunk
	insertErr   error
}

func (m *mockChunkStore) SearchChunks(_ context.Context, terms []string, topk int) ([]domain.ScoredChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if len(m.results) > topk {
		return m.results[:topk], nil
	}
	return m.results, nil
}

func (m *mockChunkStore) InsertChunks(_ context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, chunks...)
	return nil
}

func (m *mockChunkStore) CountChunks(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inserted), nil
}

func (m *mockChunkStore) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchCalls
}

type mockFeatureStore struct {
	mu        sync.Mutex
	records   []domain.FeatureRecord
	appendErr error
}

func (m *mockFeatureStore) Append(_ context.Context, rec domain.FeatureRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockFeatureStore) AggregateByVersion(context.Context) ([]domain.FeatureVersionSummary, error) {
	return nil, nil
}

func (m *mockFeatureStore) Recent(context.Context, int) ([]domain.FeatureRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records, nil
}

type mockEvalStore struct {
	mu        sync.Mutex
	records   []domain.EvalRecord
	appendErr error
}

func (m *mockEvalStore) Append(_ context.Context, rec domain.EvalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockEvalStore) AggregateByVersion(context.Context) ([]domain.EvalVersionSummary, error) {
	return nil, nil
}

func (m *mockEvalStore) Recent(context.Context, int) ([]domain.EvalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records, nil
}

// mockIngestLog enforces the one-success-per-hash invariant in memory.
type mockIngestLog struct {
	mu        sync.Mutex
	records   []domain.IngestRecord
	appendErr error
}

func (m *mockIngestLog) Append(_ context.Context, rec domain.IngestRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	if rec.Status == domain.IngestSuccess {
		for _, existing := range m.records {
			if existing.Status == domain.IngestSuccess && existing.FileHash == rec.FileHash {
				return domain.ErrDuplicate
			}
		}
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockIngestLog) HasSuccess(_ context.Context, fileHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.Status == domain.IngestSuccess && rec.FileHash == fileHash {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockIngestLog) Recent(context.Context, int) ([]domain.IngestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records, nil
}

type mockAnswerService struct {
	answer      string
	latencyMS   int64
	generateErr error
	lastModel   string
	lastContext []domain.ScoredChunk
}

func (m *mockAnswerService) Generate(_ context.Context, _ string, contextChunks []domain.ScoredChunk, modelID string) (string, int64, error) {
	m.lastModel = modelID
	m.lastContext = contextChunks
	if m.generateErr != nil {
		return "", 0, m.generateErr
	}
	return m.answer, m.latencyMS, nil
}

func (m *mockAnswerService) ModelName() string { return "mock-model" }

func (m *mockAnswerService) Close() error { return nil }

type mockPageSource struct {
	pages    []domain.Page
	pagesErr error
	ext      string
}

func (m *mockPageSource) Pages(context.Context, string) ([]domain.Page, error) {
	if m.pagesErr != nil {
		return nil, m.pagesErr
	}
	return m.pages, nil
}

func (m *mockPageSource) Supports(path string) bool {
	return strings.HasSuffix(path, m.ext)
}
