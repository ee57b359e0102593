package knowledge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/kbsearch/internal/db"
	"github.com/kailas-cloud/kbsearch/internal/domain/knowledge"
)

// store is the consumer interface for corpus reads (ISP).
type store interface {
	MatchChunks(ctx context.Context, q *db.MatchQuery) ([]db.MatchRow, error)
	ScanChunks(ctx context.Context, limit int) ([]db.ChunkRow, error)
	FindDocuments(ctx context.Context, q *db.DocumentQuery) ([]db.DocumentRow, error)
	SearchContent(ctx context.Context, q *db.ContentQuery) ([]db.ChunkRow, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a knowledge repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Match runs the indexed vector procedure and returns chunks ordered by similarity.
func (r *Repo) Match(
	ctx context.Context, vector []float32, matchCount int, scope knowledge.Scope,
) ([]knowledge.Match, error) {
	rows, err := r.store.MatchChunks(ctx, &db.MatchQuery{
		Vector:         vector,
		MatchCount:     matchCount,
		OrganizationID: scope.OrganizationID,
		EventID:        scope.EventID,
	})
	if err != nil {
		return nil, fmt.Errorf("match chunks: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	matches := make([]knowledge.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, knowledge.Match{
			Chunk: knowledge.Chunk{
				KnowledgeID: row.KnowledgeID,
				ChunkIndex:  row.ChunkIndex,
				Content:     row.Content,
				Metadata:    parseMetadata(row.Metadata),
			},
			Similarity: row.Similarity,
		})
	}
	return matches, nil
}

// Scan returns up to limit chunks together with their vectors.
func (r *Repo) Scan(ctx context.Context, limit int) ([]knowledge.Chunk, error) {
	rows, err := r.store.ScanChunks(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	return toChunks(rows), nil
}

// SearchContent returns up to limit chunks whose content contains every term.
func (r *Repo) SearchContent(ctx context.Context, terms []string, limit int) ([]knowledge.Chunk, error) {
	rows, err := r.store.SearchContent(ctx, &db.ContentQuery{Terms: terms, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("search content: %w", err)
	}
	return toChunks(rows), nil
}

// RetrievableDocuments returns the retrievable documents among ids, keyed by id.
// Ids that are missing or not retrievable are absent from the map.
func (r *Repo) RetrievableDocuments(ctx context.Context, ids []string) (map[string]knowledge.Document, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return map[string]knowledge.Document{}, nil
	}

	statuses := make([]string, 0, len(knowledge.RetrievableStatuses))
	for _, s := range knowledge.RetrievableStatuses {
		statuses = append(statuses, string(s))
	}

	rows, err := r.store.FindDocuments(ctx, &db.DocumentQuery{IDs: ids, Statuses: statuses})
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}

	docs := make(map[string]knowledge.Document, len(rows))
	for _, row := range rows {
		doc := knowledge.Reconstruct(row.ID, row.Title, row.OrganizationID, row.EventID, knowledge.Status(row.Status))
		if !doc.Status().Retrievable() {
			continue
		}
		docs[row.ID] = doc
	}
	return docs, nil
}

func toChunks(rows []db.ChunkRow) []knowledge.Chunk {
	if len(rows) == 0 {
		return nil
	}
	chunks := make([]knowledge.Chunk, 0, len(rows))
	for _, row := range rows {
		chunks = append(chunks, knowledge.Chunk{
			ID:          row.ID,
			KnowledgeID: row.KnowledgeID,
			ChunkIndex:  row.ChunkIndex,
			Content:     row.Content,
			Embedding:   row.Embedding,
			Metadata:    parseMetadata(row.Metadata),
		})
	}
	return chunks
}

// parseMetadata decodes a JSON object. Malformed or non-object payloads yield an empty map.
func parseMetadata(raw []byte) map[string]any {
	meta := map[string]any{}
	if len(raw) == 0 {
		return meta
	}
	if err := json.Unmarshal(raw, &meta); err != nil || meta == nil {
		return map[string]any{}
	}
	return meta
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
