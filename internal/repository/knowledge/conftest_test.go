package knowledge

import (
	"context"
	"testing"

	"github.com/kailas-cloud/kbsearch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	matchFn  func(ctx context.Context, q *db.MatchQuery) ([]db.MatchRow, error)
	scanFn   func(ctx context.Context, limit int) ([]db.ChunkRow, error)
	findFn   func(ctx context.Context, q *db.DocumentQuery) ([]db.DocumentRow, error)
	searchFn func(ctx context.Context, q *db.ContentQuery) ([]db.ChunkRow, error)
}

func (m *mockStore) MatchChunks(ctx context.Context, q *db.MatchQuery) ([]db.MatchRow, error) {
	if m.matchFn != nil {
		return m.matchFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) ScanChunks(ctx context.Context, limit int) ([]db.ChunkRow, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockStore) FindDocuments(ctx context.Context, q *db.DocumentQuery) ([]db.DocumentRow, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) SearchContent(ctx context.Context, q *db.ContentQuery) ([]db.ChunkRow, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func strPtr(s string) *string { return &s }
