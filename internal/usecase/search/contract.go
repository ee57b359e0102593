package search

import (
	"context"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/knowledge"
)

// Repository defines the corpus read contract for search.
type Repository interface {
	// Match runs the indexed vector procedure. Nil scope fields mean "no restriction".
	Match(ctx context.Context, vector []float32, matchCount int, scope knowledge.Scope) ([]knowledge.Match, error)
	// Scan returns up to limit chunks with their vectors.
	Scan(ctx context.Context, limit int) ([]knowledge.Chunk, error)
	// SearchContent returns up to limit chunks containing every term, case-insensitively.
	SearchContent(ctx context.Context, terms []string, limit int) ([]knowledge.Chunk, error)
	// RetrievableDocuments returns the ingested/published documents among ids.
	RetrievableDocuments(ctx context.Context, ids []string) (map[string]knowledge.Document, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
