package kbsearch

import (
	"context"

	"github.com/kailas-cloud/kbsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/kbsearch/internal/usecase/health"
)

type mockSearchUC struct {
	searchFn func(ctx context.Context, req *request.Request) ([]hit.Hit, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) ([]hit.Hit, error) {
	return m.searchFn(ctx, req)
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}
