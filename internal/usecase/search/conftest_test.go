package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/knowledge"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
)

// mockRepo is an in-memory corpus implementing Repository.
type mockRepo struct {
	docs map[string]knowledge.Document

	matches        []knowledge.Match
	matchErr       error
	matchCalls     int
	lastMatchCount int
	lastScope      knowledge.Scope

	chunks        []knowledge.Chunk
	scanErr       error
	scanCalls     int
	lastScanLimit int

	content          []knowledge.Chunk
	contentErr       error
	contentCalls     int
	lastTerms        []string
	lastContentLimit int

	docsErr error
}

func (m *mockRepo) Match(
	_ context.Context, _ []float32, matchCount int, scope knowledge.Scope,
) ([]knowledge.Match, error) {
	m.matchCalls++
	m.lastMatchCount = matchCount
	m.lastScope = scope
	return m.matches, m.matchErr
}

func (m *mockRepo) Scan(_ context.Context, limit int) ([]knowledge.Chunk, error) {
	m.scanCalls++
	m.lastScanLimit = limit
	return m.chunks, m.scanErr
}

func (m *mockRepo) SearchContent(_ context.Context, terms []string, limit int) ([]knowledge.Chunk, error) {
	m.contentCalls++
	m.lastTerms = terms
	m.lastContentLimit = limit
	return m.content, m.contentErr
}

func (m *mockRepo) RetrievableDocuments(_ context.Context, ids []string) (map[string]knowledge.Document, error) {
	if m.docsErr != nil {
		return nil, m.docsErr
	}
	out := make(map[string]knowledge.Document)
	for _, id := range ids {
		if d, ok := m.docs[id]; ok && d.Status().Retrievable() {
			out[id] = d
		}
	}
	return out, nil
}

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
	texts []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.texts = append(m.texts, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func strPtr(s string) *string { return &s }

func doc(id, title string, org *string, status knowledge.Status) knowledge.Document {
	return knowledge.Reconstruct(id, title, org, nil, status)
}

func docsByID(docs ...knowledge.Document) map[string]knowledge.Document {
	out := make(map[string]knowledge.Document, len(docs))
	for _, d := range docs {
		out[d.ID()] = d
	}
	return out
}

func match(knowledgeID string, chunkIndex int, content string, similarity float64) knowledge.Match {
	return knowledge.Match{
		Chunk: knowledge.Chunk{
			KnowledgeID: knowledgeID,
			ChunkIndex:  chunkIndex,
			Content:     content,
			Metadata:    map[string]any{},
		},
		Similarity: similarity,
	}
}

func chunk(id, knowledgeID string, content string, vec ...float32) knowledge.Chunk {
	return knowledge.Chunk{
		ID:          id,
		KnowledgeID: knowledgeID,
		Content:     content,
		Embedding:   vec,
		Metadata:    map[string]any{},
	}
}

func newRequest(t *testing.T, query string, topK int, scope knowledge.Scope, hybrid bool) *request.Request {
	t.Helper()
	r, err := request.New(query, topK, scope, hybrid)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}
