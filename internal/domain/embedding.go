package domain

import (
	"context"
	"fmt"
	"math"
)

// DefaultDimensions is the query vector length used when none is configured.
const DefaultDimensions = 1536

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// ValidateEmbedding rejects a vector of the wrong length or with NaN/Inf components.
// A non-positive dims skips the length check.
func ValidateEmbedding(vec []float32, dims int) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty embedding: %w", ErrEmbeddingUnavailable)
	}
	if dims > 0 && len(vec) != dims {
		return fmt.Errorf("embedding has %d dimensions, want %d: %w", len(vec), dims, ErrEmbeddingUnavailable)
	}
	for i, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("embedding component %d is not finite: %w", i, ErrEmbeddingUnavailable)
		}
	}
	return nil
}

// QueryExpander rewrites a query before it is embedded.
type QueryExpander interface {
	Expand(query string) string
}

// ExpandingEmbedder is a domain decorator that enriches the text with domain synonyms before embedding.
type ExpandingEmbedder struct {
	inner    Embedder
	expander QueryExpander
}

// NewExpandingEmbedder creates a decorator that expands the query first.
func NewExpandingEmbedder(inner Embedder, expander QueryExpander) *ExpandingEmbedder {
	return &ExpandingEmbedder{inner: inner, expander: expander}
}

// Embed expands the text and delegates to the inner embedder.
func (e *ExpandingEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.expander.Expand(text))
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("expanded embed: %w", err)
	}
	return result, nil
}

// HealthCheck forwards to the inner embedder when it supports health checks.
func (e *ExpandingEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // pass-through
	}
	return nil
}
