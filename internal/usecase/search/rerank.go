package search

import (
	"github.com/kailas-cloud/kbsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/terms"
)

// Hybrid relevance weights.
const (
	semanticWeight = 0.6
	keywordWeight  = 0.3
	titleWeight    = 0.1
	// titleBonus is the raw title signal when any key term occurs in the title.
	titleBonus = 0.1
)

// rerank rescores semantic hits with lexical and title signals and re-sorts them.
// Hit content must still be the full chunk text.
func rerank(hits []hit.Hit, keyTerms []string) []hit.Hit {
	out := make([]hit.Hit, len(hits))
	for i := range hits {
		h := &hits[i]
		var bonus float64
		if terms.ContainsAny(h.Title(), keyTerms) {
			bonus = titleBonus
		}
		relevance := semanticWeight*h.Score() +
			keywordWeight*terms.Score(h.Content(), keyTerms) +
			titleWeight*bonus
		out[i] = h.WithScore(relevance)
	}
	hit.Sort(out)
	return out
}
