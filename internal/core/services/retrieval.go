package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/policypulse/policypulse/internal/core/domain"
	"github.com/policypulse/policypulse/internal/core/ports/driven"
	"github.com/policypulse/policypulse/internal/core/ports/driving"
)

// DefaultCacheTTL bounds how long a cached retrieval result is served.
const DefaultCacheTTL = 120 * time.Second

type cacheKey struct {
	query string
	topk  int
}

type cacheEntry struct {
	results  []domain.ScoredChunk
	keywords []string
	storedAt time.Time
}

// RetrievalService implements driving.RetrievalService: keyword extraction,
// scored corpus lookup behind a TTL cache, optional answer generation and
// versioned telemetry.
type RetrievalService struct {
	chunks   driven.ChunkStore
	features driven.FeatureStore
	evals    driven.EvalStore
	answers  driven.AnswerService // nil disables answer generation
	log      zerolog.Logger

	ttl         time.Duration
	maxKeywords int

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
	group singleflight.Group

	// now is swapped in tests to control cache expiry.
	now func() time.Time
}

var _ driving.RetrievalService = (*RetrievalService)(nil)

// NewRetrievalService creates a retrieval service. answers may be nil;
// retrieval then works without AI answers. Non-positive ttl or maxKeywords
// fall back to the defaults.
func NewRetrievalService(
	chunks driven.ChunkStore,
	features driven.FeatureStore,
	evals driven.EvalStore,
	answers driven.AnswerService,
	log zerolog.Logger,
	ttl time.Duration,
	maxKeywords int,
) *RetrievalService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxKeywords <= 0 {
		maxKeywords = domain.DefaultMaxKeywords
	}
	return &RetrievalService{
		chunks:      chunks,
		features:    features,
		evals:       evals,
		answers:     answers,
		log:         log,
		ttl:         ttl,
		maxKeywords: maxKeywords,
		cache:       make(map[cacheKey]cacheEntry),
		now:         time.Now,
	}
}

// Retrieve extracts keywords and returns ranked chunks, served from the
// cache when a fresh entry exists for the same (query, topk) pair.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, topk int) ([]domain.ScoredChunk, []string, error) {
	if topk <= 0 {
		return nil, nil, fmt.Errorf("%w: topk must be positive, got %d", domain.ErrInvalidInput, topk)
	}

	keywords := domain.ExtractKeywords(query, s.maxKeywords)
	if len(keywords) == 0 {
		// Nothing to match on; never touches the store.
		return nil, nil, nil
	}

	key := cacheKey{query: query, topk: topk}
	if entry, ok := s.cached(key); ok {
		s.log.Debug().Str("query", query).Int("topk", topk).Msg("cache hit")
		return entry.results, entry.keywords, nil
	}

	// Collapse concurrent misses for the same key into one store call.
	flightKey := fmt.Sprintf("%s\x00%d", query, topk)
	v, err, _ := s.group.Do(flightKey, func() (any, error) {
		if entry, ok := s.cached(key); ok {
			return entry, nil
		}
		results, err := s.chunks.SearchChunks(ctx, keywords, topk)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, err)
		}
		entry := cacheEntry{results: results, keywords: keywords, storedAt: s.now()}
		s.mu.Lock()
		s.cache[key] = entry
		s.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return nil, keywords, err
	}

	entry := v.(cacheEntry)
	return entry.results, entry.keywords, nil
}

// Search runs the full operation: retrieval, optional answer generation and
// telemetry appends tagged with the request's version. Telemetry failures
// are logged but never fail the search.
func (s *RetrievalService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	start := s.now()
	results, keywords, err := s.Retrieve(ctx, req.Query, req.TopK)
	if err != nil {
		return nil, err
	}
	retrievalMS := time.Since(start).Milliseconds()

	resp := &domain.SearchResponse{
		RunID:       uuid.NewString(),
		Results:     results,
		Keywords:    keywords,
		RetrievalMS: retrievalMS,
	}

	s.appendTelemetry(ctx, req, resp)

	if req.WithAnswer {
		s.generateAnswer(ctx, req, resp)
	}

	return resp, nil
}

func (s *RetrievalService) appendTelemetry(ctx context.Context, req domain.SearchRequest, resp *domain.SearchResponse) {
	feature := domain.NewFeatureRecord(
		uuid.NewString(), resp.RunID, req.Version, req.Query, resp.Keywords, req.TopK)
	if err := s.features.Append(ctx, feature); err != nil {
		s.log.Error().Err(err).Str("run_id", resp.RunID).Msg("feature telemetry append failed")
	}

	eval := domain.NewEvalRecord(
		uuid.NewString(), resp.RunID, req.Version, req.Query,
		req.TopK, resp.Results, resp.RetrievalMS, len(resp.Keywords))
	if err := s.evals.Append(ctx, eval); err != nil {
		s.log.Error().Err(err).Str("run_id", resp.RunID).Msg("eval telemetry append failed")
	}
}

func (s *RetrievalService) generateAnswer(ctx context.Context, req domain.SearchRequest, resp *domain.SearchResponse) {
	if s.answers == nil {
		s.log.Warn().Err(domain.ErrAnswerUnavailable).Msg("answer requested without a configured service")
		return
	}
	if len(resp.Results) == 0 {
		return
	}

	contextChunks := resp.Results
	if len(contextChunks) > domain.AnswerContextSize {
		contextChunks = contextChunks[:domain.AnswerContextSize]
	}

	answer, latencyMS, err := s.answers.Generate(ctx, req.Query, contextChunks, req.ModelID)
	if err != nil {
		// Answer failures never sink the retrieval results.
		s.log.Error().Err(err).Str("run_id", resp.RunID).Msg("answer generation failed")
		return
	}
	resp.Answer = answer
	resp.AnswerMS = latencyMS
}

// cached returns the cache entry for key if it is still fresh.
func (s *RetrievalService) cached(key cacheKey) (cacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[key]
	if !ok {
		return cacheEntry{}, false
	}
	if s.now().Sub(entry.storedAt) >= s.ttl {
		delete(s.cache, key)
		return cacheEntry{}, false
	}
	return entry, true
}
