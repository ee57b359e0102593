package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/kbsearch/internal/db"
)

const (
	tableDocuments = "knowledge_documents"
	tableChunks    = "knowledge_chunks"
)

// MatchChunks calls the vector procedure:
// fn(query_embedding vector, match_count int, filter_org text, filter_event text).
func (s *Store) MatchChunks(ctx context.Context, q *db.MatchQuery) ([]db.MatchRow, error) {
	if len(q.Vector) == 0 {
		return nil, &db.Error{Op: db.OpMatchChunks, Err: fmt.Errorf("%w: vector is required", db.ErrInvalidQuery)}
	}
	if q.MatchCount <= 0 {
		return nil, &db.Error{Op: db.OpMatchChunks, Err: fmt.Errorf("%w: match count must be positive", db.ErrInvalidQuery)}
	}

	query := `
		SELECT knowledge_id, content, chunk_index, similarity, metadata
		FROM ` + s.matchFunc + `($1, $2, $3, $4)`

	rows, err := s.db.QueryContext(ctx, query,
		pgvector.NewVector(q.Vector),
		q.MatchCount,
		q.OrganizationID,
		q.EventID,
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpMatchChunks, Err: err}
	}
	defer rows.Close()

	list := []db.MatchRow{}
	for rows.Next() {
		var row db.MatchRow
		if err := rows.Scan(&row.KnowledgeID, &row.Content, &row.ChunkIndex, &row.Similarity, &row.Metadata); err != nil {
			return nil, &db.Error{Op: db.OpMatchChunks, Err: fmt.Errorf("scan: %w", err)}
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpMatchChunks, Err: err}
	}

	return list, nil
}

// ScanChunks returns up to limit chunks that carry an embedding, in a stable order.
func (s *Store) ScanChunks(ctx context.Context, limit int) ([]db.ChunkRow, error) {
	if limit <= 0 {
		return nil, &db.Error{Op: db.OpScanChunks, Err: fmt.Errorf("%w: limit must be positive", db.ErrInvalidQuery)}
	}

	query := `
		SELECT id, knowledge_id, chunk_index, content, embedding, metadata
		FROM ` + tableChunks + `
		WHERE embedding IS NOT NULL
		ORDER BY id
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, &db.Error{Op: db.OpScanChunks, Err: err}
	}
	defer rows.Close()

	list := []db.ChunkRow{}
	for rows.Next() {
		var row db.ChunkRow
		var vector pgvector.Vector
		if err := rows.Scan(&row.ID, &row.KnowledgeID, &row.ChunkIndex, &row.Content, &vector, &row.Metadata); err != nil {
			return nil, &db.Error{Op: db.OpScanChunks, Err: fmt.Errorf("scan: %w", err)}
		}
		row.Embedding = vector.Slice()
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpScanChunks, Err: err}
	}

	return list, nil
}

// FindDocuments returns document headers for the given ids, filtered by status when set.
func (s *Store) FindDocuments(ctx context.Context, q *db.DocumentQuery) ([]db.DocumentRow, error) {
	if len(q.IDs) == 0 {
		return []db.DocumentRow{}, nil
	}

	query, args := buildDocumentQuery(q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpFindDocuments, Err: err}
	}
	defer rows.Close()

	list := []db.DocumentRow{}
	for rows.Next() {
		var row db.DocumentRow
		var org, event sql.NullString
		if err := rows.Scan(&row.ID, &row.Title, &org, &event, &row.Status); err != nil {
			return nil, &db.Error{Op: db.OpFindDocuments, Err: fmt.Errorf("scan: %w", err)}
		}
		row.OrganizationID = nullableString(org)
		row.EventID = nullableString(event)
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFindDocuments, Err: err}
	}

	return list, nil
}

// SearchContent returns chunks whose content contains every term (ILIKE, conjunctive).
func (s *Store) SearchContent(ctx context.Context, q *db.ContentQuery) ([]db.ChunkRow, error) {
	query, args, err := buildContentQuery(q)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearchContent, Err: err}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearchContent, Err: err}
	}
	defer rows.Close()

	list := []db.ChunkRow{}
	for rows.Next() {
		var row db.ChunkRow
		if err := rows.Scan(&row.ID, &row.KnowledgeID, &row.ChunkIndex, &row.Content, &row.Metadata); err != nil {
			return nil, &db.Error{Op: db.OpSearchContent, Err: fmt.Errorf("scan: %w", err)}
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSearchContent, Err: err}
	}

	return list, nil
}

func buildDocumentQuery(q *db.DocumentQuery) (string, []any) {
	where, args := []string{"id = ANY($1)"}, []any{pq.Array(q.IDs)}
	if len(q.Statuses) > 0 {
		where, args = append(where, fmt.Sprintf("status = ANY($%d)", len(args)+1)), append(args, pq.Array(q.Statuses))
	}

	query := `
		SELECT id, title, organization_id, event_id, status
		FROM ` + tableDocuments + `
		WHERE ` + strings.Join(where, " AND ")

	return query, args
}

func buildContentQuery(q *db.ContentQuery) (string, []any, error) {
	if len(q.Terms) == 0 {
		return "", nil, fmt.Errorf("%w: at least one term is required", db.ErrInvalidQuery)
	}
	if q.Limit <= 0 {
		return "", nil, fmt.Errorf("%w: limit must be positive", db.ErrInvalidQuery)
	}

	where := make([]string, 0, len(q.Terms))
	args := make([]any, 0, len(q.Terms)+1)
	for _, term := range q.Terms {
		args = append(args, likePattern(term))
		where = append(where, fmt.Sprintf(`content ILIKE $%d ESCAPE '\'`, len(args)))
	}
	args = append(args, q.Limit)

	query := `
		SELECT id, knowledge_id, chunk_index, content, metadata
		FROM ` + tableChunks + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id
		LIMIT ` + fmt.Sprintf("$%d", len(args))

	return query, args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps term for a substring match, escaping LIKE wildcards.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
