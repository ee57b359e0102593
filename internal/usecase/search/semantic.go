package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/knowledge"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/kbsearch/internal/domain/similarity"
)

// DefaultScanLimit caps the rows loaded by the in-memory vector fallback.
const DefaultScanLimit = 2000

// SemanticEngine ranks chunks by vector similarity.
// Fast uses the datastore's indexed procedure, Scan is the bounded linear fallback.
type SemanticEngine struct {
	repo      Repository
	scanLimit int
}

// NewSemanticEngine creates a semantic engine. A non-positive scanLimit means DefaultScanLimit.
func NewSemanticEngine(repo Repository, scanLimit int) *SemanticEngine {
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	return &SemanticEngine{repo: repo, scanLimit: scanLimit}
}

// Fast queries the indexed vector procedure and joins rows to their documents.
// Errors wrap domain.ErrFastPathUnavailable; zero rows is not an error.
func (e *SemanticEngine) Fast(
	ctx context.Context, vector []float32, matchCount int, scope knowledge.Scope,
) ([]hit.Hit, error) {
	matches, err := e.repo.Match(ctx, vector, matchCount, scope)
	if err != nil {
		return nil, tierError(ctx, domain.ErrFastPathUnavailable, err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(matches))
	for i := range matches {
		ids = append(ids, matches[i].Chunk.KnowledgeID)
	}
	docs, err := e.repo.RetrievableDocuments(ctx, ids)
	if err != nil {
		return nil, tierError(ctx, domain.ErrFastPathUnavailable, err)
	}

	hits := make([]hit.Hit, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		doc, ok := docs[m.Chunk.KnowledgeID]
		if !ok || !scope.Allows(&doc) {
			continue
		}
		hits = append(hits, newHit(&m.Chunk, &doc, m.Similarity, hit.KnowledgeBase))
	}

	hit.Sort(hits)
	return hit.Truncate(hits, matchCount), nil
}

// Scan loads up to the scan limit of chunks and ranks them by cosine similarity in memory.
// Chunks whose vector length differs from the query are skipped. Errors wrap domain.ErrScanUnavailable.
func (e *SemanticEngine) Scan(
	ctx context.Context, vector []float32, matchCount int, scope knowledge.Scope,
) ([]hit.Hit, error) {
	chunks, err := e.repo.Scan(ctx, e.scanLimit)
	if err != nil {
		return nil, tierError(ctx, domain.ErrScanUnavailable, err)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	docs, err := e.repo.RetrievableDocuments(ctx, knowledgeIDs(chunks))
	if err != nil {
		return nil, tierError(ctx, domain.ErrScanUnavailable, err)
	}

	hits := make([]hit.Hit, 0, len(chunks))
	for i := range chunks {
		c := &chunks[i]
		if len(c.Embedding) != len(vector) {
			continue
		}
		doc, ok := docs[c.KnowledgeID]
		if !ok || !scope.Allows(&doc) {
			continue
		}
		hits = append(hits, newHit(c, &doc, similarity.Cosine(vector, c.Embedding), hit.KnowledgeBaseScan))
	}

	hit.Sort(hits)
	return hit.Truncate(hits, matchCount), nil
}

// tierError classifies a datastore failure: cancellation stays distinct from tier unavailability.
func tierError(ctx context.Context, sentinel, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.Canceled(ctxErr)
	}
	if domain.IsCanceled(err) {
		return domain.Canceled(err)
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

func knowledgeIDs(chunks []knowledge.Chunk) []string {
	ids := make([]string, 0, len(chunks))
	for i := range chunks {
		ids = append(ids, chunks[i].KnowledgeID)
	}
	return ids
}

// newHit builds a hit carrying the chunk metadata plus chunk index and document scope.
func newHit(c *knowledge.Chunk, doc *knowledge.Document, score float64, p hit.Provenance) hit.Hit {
	meta := make(map[string]any, len(c.Metadata)+3)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	meta[hit.MetaChunkIndex] = c.ChunkIndex
	meta[hit.MetaOrganizationID] = optional(doc.OrganizationID())
	meta[hit.MetaEventID] = optional(doc.EventID())

	return hit.New(doc.ID(), doc.Title(), c.Content, score, meta, p)
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
