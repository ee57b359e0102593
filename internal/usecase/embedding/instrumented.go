package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

// InstrumentedEmbedder wraps an Embedder with a per-call deadline, vector validation and logging.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
	model    string
	dims     int
	timeout  time.Duration
	logger   *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with observability.
// A positive timeout bounds every call; expiry counts as provider failure, not caller cancellation.
// Every returned vector must have dims components, all finite, whatever the inner embedder is.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string, dims int,
	timeout time.Duration, logger *zap.Logger,
) *InstrumentedEmbedder {
	return &InstrumentedEmbedder{
		inner:    inner,
		provider: provider,
		model:    model,
		dims:     dims,
		timeout:  timeout,
		logger:   logger,
	}
}

// Embed delegates to the inner embedder and logs the outcome.
func (p *InstrumentedEmbedder) Embed(
	ctx context.Context, text string,
) (domain.EmbeddingResult, error) {
	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()

	result, err := p.inner.Embed(callCtx, text)

	duration := time.Since(start)

	if err == nil {
		err = domain.ValidateEmbedding(result.Embedding, p.dims)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.EmbeddingResult{}, domain.Canceled(ctxErr)
		}
		if domain.IsCanceled(err) {
			err = fmt.Errorf("no response within %s: %w", p.timeout, domain.ErrEmbeddingUnavailable)
		}
		p.logger.Warn("Embedding request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	p.logger.Debug("Embedding request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// HealthCheck forwards to the inner embedder when it supports health checks.
func (p *InstrumentedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := p.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // pass-through
	}
	return nil
}
