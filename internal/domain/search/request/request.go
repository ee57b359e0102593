package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/knowledge"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 5
	MaxTopK        = 20
)

// Request is a validated search query.
type Request struct {
	query  string
	topK   int
	scope  knowledge.Scope
	hybrid bool
}

// New validates and normalizes search parameters.
// topK <= 0 falls back to DefaultTopK, larger values are clamped to MaxTopK.
func New(query string, topK int, scope knowledge.Scope, hybrid bool) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("query is required: %w", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars): %w", MaxQueryLength, domain.ErrInvalidRequest)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	return Request{
		query:  query,
		topK:   topK,
		scope:  scope,
		hybrid: hybrid,
	}, nil
}

// Query returns the raw search query text.
func (r *Request) Query() string { return r.query }

// TopK returns the maximum number of hits to return.
func (r *Request) TopK() int { return r.topK }

// Scope returns the organization/event visibility filter.
func (r *Request) Scope() knowledge.Scope { return r.scope }

// Hybrid reports whether semantic hits are reranked with lexical and title signals.
func (r *Request) Hybrid() bool { return r.hybrid }

// MatchCount returns how many vector candidates to fetch.
// Hybrid mode over-fetches so the reranker has room to reorder.
func (r *Request) MatchCount() int {
	if r.hybrid {
		return 2 * r.topK
	}
	return r.topK
}
