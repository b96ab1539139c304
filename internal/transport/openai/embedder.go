package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/thecaralice/trieve/internal/domain"
	"github.com/thecaralice/trieve/internal/domain/dataset"
	"github.com/thecaralice/trieve/internal/metrics"
)

// Embedder vectorizes text against the OpenAI-compatible embedding
// server named by a dataset's configuration.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	logger     *zap.Logger
}

// NewEmbedder creates an embedder from a dataset's server configuration.
// The base URL, model and vector size all come from cfg; apiKey is the
// server-level credential for the embedding endpoint.
func NewEmbedder(cfg dataset.ServerConfiguration, apiKey string, logger *zap.Logger) *Embedder {
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = cfg.EmbeddingBaseURL

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.EmbeddingModelName),
		dimensions: cfg.EmbeddingSize,
		logger:     logger,
	}
}

// NewQueryEmbedder creates an embedder that additionally prepends the
// configuration's embedding query prefix, for search query vectors.
func NewQueryEmbedder(cfg dataset.ServerConfiguration, apiKey string, logger *zap.Logger) domain.Embedder {
	base := NewEmbedder(cfg, apiKey, logger)
	if cfg.EmbeddingQueryPrefix == "" {
		return base
	}
	return domain.NewQueryPrefixEmbedder(base, cfg.EmbeddingQueryPrefix)
}

// Embed implements domain.Embedder. Returns the vector and usage with
// transport-level metrics.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()

	resp, err := e.client.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(string(e.model), "error").Inc()
		return domain.EmbeddingResult{}, parseAPIError(err)
	}

	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(string(e.model), "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(string(e.model), "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(string(e.model)).Observe(duration.Seconds())

	totalTokens := resp.Usage.TotalTokens
	promptTokens := resp.Usage.PromptTokens
	if totalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(string(e.model), "prompt").Add(float64(promptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(string(e.model), "total").Add(float64(totalTokens))
	}

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrEmbeddingProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrEmbeddingProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("embedding API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("embedding API error %d: %w", reqErr.HTTPStatusCode, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("embedding request: %v: %w", err, wrap)
}

// extractDetail pulls a message out of a JSON error body, if any.
func extractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch {
	case payload.Detail != "":
		return payload.Detail
	case payload.Message != "":
		return payload.Message
	default:
		return payload.Error.Message
	}
}
