package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/snippet"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/terms"
	"github.com/kailas-cloud/kbsearch/internal/logger"
	"github.com/kailas-cloud/kbsearch/internal/metrics"
)

// Options tune the fallback tiers.
type Options struct {
	// ScanLimit caps rows loaded by the in-memory vector fallback (default 2000).
	ScanLimit int
	// LexicalLimit caps candidate rows of the keyword tier (default 500).
	LexicalLimit int
}

// Service is the search orchestrator: semantic tiers first, keyword search as the last resort.
type Service struct {
	embed    Embedder
	semantic *SemanticEngine
	keyword  *KeywordEngine
}

// New creates a search service.
func New(repo Repository, embed Embedder, opts Options) *Service {
	return &Service{
		embed:    embed,
		semantic: NewSemanticEngine(repo, opts.ScanLimit),
		keyword:  NewKeywordEngine(repo, opts.LexicalLimit),
	}
}

// execution is the per-request state of one search.
type execution struct {
	req      *request.Request
	keyTerms []string
	vector   []float32
	hits     []hit.Hit
	semantic bool
	err      error
	log      *zap.Logger
}

// Search runs the degradation state machine and returns at most TopK hits sorted by score.
// Every tier is tried at most once. Only keyword failures and cancellation reach the caller.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]hit.Hit, error) {
	start := time.Now()
	ctx = logger.WithFields(ctx, zap.Int("top_k", req.TopK()), zap.Bool("hybrid", req.Hybrid()))

	run := &execution{
		req:      req,
		keyTerms: terms.Extract(req.Query()),
		log:      logger.FromContext(ctx),
	}

	for st := stateTryFastSemantic; !st.terminal(); {
		next := s.step(ctx, st, run)
		metrics.SearchTransitionsTotal.WithLabelValues(st.String(), next.String()).Inc()
		st = next
	}

	if run.err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("none", "error").Inc()
		return nil, run.err
	}

	hits := run.hits
	if run.semantic {
		if req.Hybrid() {
			hits = rerank(hits, run.keyTerms)
		}
		for i := range hits {
			hits[i] = hits[i].WithContent(snippet.Extract(hits[i].Content(), run.keyTerms))
		}
	}
	hits = hit.Truncate(hits, req.TopK())

	provenance := provenanceOf(hits)
	metrics.SearchRequestsTotal.WithLabelValues(provenance, "success").Inc()
	metrics.SearchDuration.WithLabelValues(provenance).Observe(time.Since(start).Seconds())
	metrics.SearchHits.WithLabelValues(provenance).Observe(float64(len(hits)))

	return hits, nil
}

func (s *Service) step(ctx context.Context, st state, run *execution) state {
	switch st {
	case stateTryFastSemantic:
		return s.tryFastSemantic(ctx, run)
	case stateTryFallbackSemantic:
		return s.tryFallbackSemantic(ctx, run)
	case stateTryKeyword:
		return s.tryKeyword(ctx, run)
	default:
		return st
	}
}

func (s *Service) tryFastSemantic(ctx context.Context, run *execution) state {
	emb, err := s.embed.Embed(ctx, run.req.Query())
	if err != nil {
		if ctx.Err() != nil || domain.IsCanceled(err) {
			return run.fail(domain.Canceled(err))
		}
		run.log.Warn("Query embedding unavailable, falling back to keyword search", zap.Error(err))
		return stateTryKeyword
	}
	run.vector = emb.Embedding

	hits, err := s.semantic.Fast(ctx, run.vector, run.req.MatchCount(), run.req.Scope())
	if err != nil {
		if domain.IsCanceled(err) {
			return run.fail(err)
		}
		run.log.Warn("Vector procedure unavailable, falling back to in-memory scan", zap.Error(err))
		return stateTryFallbackSemantic
	}
	if len(hits) == 0 {
		run.log.Debug("Vector procedure returned no rows, falling back to in-memory scan")
		return stateTryFallbackSemantic
	}

	return run.done(hits, true)
}

func (s *Service) tryFallbackSemantic(ctx context.Context, run *execution) state {
	hits, err := s.semantic.Scan(ctx, run.vector, run.req.MatchCount(), run.req.Scope())
	if err != nil {
		if domain.IsCanceled(err) {
			return run.fail(err)
		}
		run.log.Warn("In-memory vector scan failed, falling back to keyword search", zap.Error(err))
		return stateTryKeyword
	}
	if len(hits) == 0 {
		run.log.Debug("In-memory vector scan found no eligible chunks, falling back to keyword search")
		return stateTryKeyword
	}

	return run.done(hits, true)
}

func (s *Service) tryKeyword(ctx context.Context, run *execution) state {
	hits, err := s.keyword.Search(ctx, run.keyTerms, run.req.TopK(), run.req.Scope())
	if err != nil {
		run.log.Error("Keyword search failed", zap.Error(err))
		return run.fail(err)
	}
	return run.done(hits, false)
}

func (run *execution) done(hits []hit.Hit, semantic bool) state {
	run.hits = hits
	run.semantic = semantic
	return stateDone
}

func (run *execution) fail(err error) state {
	run.err = err
	return stateFailed
}

func provenanceOf(hits []hit.Hit) string {
	if len(hits) == 0 {
		return "none"
	}
	return string(hits[0].Provenance())
}
