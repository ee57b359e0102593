package search

import (
	"context"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/knowledge"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/snippet"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/terms"
)

const (
	// DefaultLexicalLimit caps the candidate rows of the lexical query.
	DefaultLexicalLimit = 500
	// filterTerms is how many leading key terms the lexical query requires.
	filterTerms = 3
)

// KeywordEngine ranks chunks by literal key-term occurrences.
type KeywordEngine struct {
	repo         Repository
	lexicalLimit int
}

// NewKeywordEngine creates a keyword engine. A non-positive lexicalLimit means DefaultLexicalLimit.
func NewKeywordEngine(repo Repository, lexicalLimit int) *KeywordEngine {
	if lexicalLimit <= 0 {
		lexicalLimit = DefaultLexicalLimit
	}
	return &KeywordEngine{repo: repo, lexicalLimit: lexicalLimit}
}

// Search returns up to topK snippeted hits containing the first key terms.
// No key terms means no lexical signal: the result is empty and the datastore is not queried.
// Errors wrap domain.ErrKeywordQuery (or domain.ErrCanceled).
func (e *KeywordEngine) Search(
	ctx context.Context, keyTerms []string, topK int, scope knowledge.Scope,
) ([]hit.Hit, error) {
	if len(keyTerms) == 0 {
		return nil, nil
	}

	required := keyTerms[:min(filterTerms, len(keyTerms))]
	chunks, err := e.repo.SearchContent(ctx, required, e.lexicalLimit)
	if err != nil {
		return nil, tierError(ctx, domain.ErrKeywordQuery, err)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	docs, err := e.repo.RetrievableDocuments(ctx, knowledgeIDs(chunks))
	if err != nil {
		return nil, tierError(ctx, domain.ErrKeywordQuery, err)
	}

	hits := make([]hit.Hit, 0, len(chunks))
	for i := range chunks {
		c := &chunks[i]
		doc, ok := docs[c.KnowledgeID]
		if !ok || !scope.Allows(&doc) {
			continue
		}
		hits = append(hits, newHit(c, &doc, terms.Score(c.Content, keyTerms), hit.KeywordFallback))
	}

	hit.Sort(hits)
	hits = hit.Truncate(hits, topK)
	for i := range hits {
		hits[i] = hits[i].WithContent(snippet.Extract(hits[i].Content(), keyTerms))
	}
	return hits, nil
}
