// Package hit defines a single ranked passage returned by search.
package hit

import (
	"sort"
	"strings"
)

// Provenance identifies the ranking strategy that produced a hit.
type Provenance string

// Provenance tags.
const (
	// KnowledgeBase marks hits from the indexed vector procedure.
	KnowledgeBase Provenance = "knowledge-base"
	// KnowledgeBaseScan marks hits from the in-memory vector fallback.
	KnowledgeBaseScan Provenance = "knowledge-base-scan"
	// KeywordFallback marks hits from lexical matching.
	KeywordFallback Provenance = "keyword-fallback"
)

// Metadata keys always present on a hit.
const (
	MetaChunkIndex     = "chunk_index"
	MetaOrganizationID = "organization_id"
	MetaEventID        = "event_id"
)

// Hit is a single search result.
type Hit struct {
	knowledgeID string
	title       string
	content     string
	score       float64
	metadata    map[string]any
	provenance  Provenance
}

// New creates a search hit.
func New(
	knowledgeID, title, content string, score float64,
	metadata map[string]any, provenance Provenance,
) Hit {
	return Hit{
		knowledgeID: knowledgeID, title: title, content: content,
		score: score, metadata: metadata, provenance: provenance,
	}
}

// KnowledgeID returns the source document identifier.
func (h *Hit) KnowledgeID() string { return h.knowledgeID }

// Title returns the source document title.
func (h *Hit) Title() string { return h.title }

// Content returns the passage text (a snippet once extraction ran).
func (h *Hit) Content() string { return h.content }

// Score returns the relevance score.
func (h *Hit) Score() float64 { return h.score }

// Metadata returns chunk index, scope and chunk metadata.
func (h *Hit) Metadata() map[string]any { return h.metadata }

// Provenance returns the strategy tag.
func (h *Hit) Provenance() Provenance { return h.provenance }

// ChunkIndex returns the chunk position recorded in metadata, or -1.
func (h *Hit) ChunkIndex() int {
	if v, ok := h.metadata[MetaChunkIndex].(int); ok {
		return v
	}
	return -1
}

// WithContent returns a copy with the content replaced.
func (h *Hit) WithContent(content string) Hit {
	c := *h
	c.content = content
	return c
}

// WithScore returns a copy with the score replaced.
func (h *Hit) WithScore(score float64) Hit {
	c := *h
	c.score = score
	return c
}

// Sort orders hits by descending score.
// Equal scores fall back to knowledge id, then chunk index, so the order is deterministic.
func Sort(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := &hits[i], &hits[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if c := strings.Compare(a.knowledgeID, b.knowledgeID); c != 0 {
			return c < 0
		}
		return a.ChunkIndex() < b.ChunkIndex()
	})
}

// Truncate returns at most n hits.
func Truncate(hits []Hit, n int) []Hit {
	if n >= 0 && len(hits) > n {
		return hits[:n]
	}
	return hits
}
