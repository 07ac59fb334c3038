// Package groq provides an answer-generation adapter using the Groq API.
// Groq exposes an OpenAI-compatible /chat/completions endpoint.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/policypulse/policypulse/internal/core/domain"
	"github.com/policypulse/policypulse/internal/core/ports/driven"
)

// Ensure AnswerService implements the interface.
var _ driven.AnswerService = (*AnswerService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"
	DefaultTimeout = 60 * time.Second

	// DefaultRequestsPerMinute matches Groq's free-tier ceiling.
	DefaultRequestsPerMinute = 30

	defaultMaxTokens   = 512
	defaultTemperature = 0.2
)

// Config holds configuration for the Groq answer service.
type Config struct {
	// APIKey is the Groq API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.groq.com/openai/v1).
	BaseURL string

	// Model is the default model (default: llama-3.1-8b-instant).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerMinute throttles outgoing calls (default: 30).
	RequestsPerMinute int
}

// AnswerService generates grounded answers from retrieved chunks.
type AnswerService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *rate.Limiter
}

type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewAnswerService creates a new Groq answer service.
func NewAnswerService(cfg Config) (*AnswerService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq: %w: API key is required", domain.ErrAnswerUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	return &AnswerService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
	}, nil
}

// answerPrompt grounds the model on the retrieved document chunks only.
const answerPrompt = `You are a helpful assistant for university students and staff.
Answer the question based ONLY on the provided context from official campus documents.
If the context doesn't contain enough information, say so clearly.
Answer in the same language as the question.

Context:
%s

Question: %s

Answer:`

// Generate produces an answer to the question from the context chunks.
// It returns the answer text and the call latency in milliseconds.
func (s *AnswerService) Generate(ctx context.Context, question string, contextChunks []domain.ScoredChunk, modelID string) (string, int64, error) {
	if len(contextChunks) == 0 {
		return "", 0, fmt.Errorf("groq: no context chunks provided")
	}
	if modelID == "" {
		modelID = s.model
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", 0, fmt.Errorf("groq: rate limit wait: %w", err)
	}

	prompt := fmt.Sprintf(answerPrompt, formatContext(contextChunks), question)
	reqBody := chatCompletionRequest{
		Model:       modelID,
		Messages:    []chatCompletionMsg{{Role: "user", Content: prompt}},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	latencyMS := time.Since(start).Milliseconds()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", latencyMS, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", latencyMS, fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", latencyMS, fmt.Errorf("groq error: %s", chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", latencyMS, fmt.Errorf("groq error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return "", latencyMS, fmt.Errorf("groq: no response choices returned")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), latencyMS, nil
}

// formatContext joins chunks with source attributions for the prompt.
func formatContext(chunks []domain.ScoredChunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("[Source: %s Page %d]\n%s", c.DocName, c.PageNum, c.ChunkText)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// ModelName returns the default model identifier.
func (s *AnswerService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *AnswerService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
