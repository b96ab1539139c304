package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// QueryPrefixEmbedder is a decorator that prepends a dataset's
// embedding query prefix before vectorizing a search query.
type QueryPrefixEmbedder struct {
	inner  Embedder
	prefix string
}

// NewQueryPrefixEmbedder creates a decorator that prepends prefix.
func NewQueryPrefixEmbedder(inner Embedder, prefix string) *QueryPrefixEmbedder {
	return &QueryPrefixEmbedder{inner: inner, prefix: prefix}
}

// Embed prepends the prefix and delegates to the inner embedder.
func (e *QueryPrefixEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.prefix+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("prefix embed: %w", err)
	}
	return result, nil
}
