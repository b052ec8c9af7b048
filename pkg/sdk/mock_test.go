package itemsearch

import (
	"context"

	"github.com/kailas-cloud/itemsearch/internal/domain/search/request"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/itemsearch/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn  func(ctx context.Context, req *request.Search) result.Page
	relatedFn func(ctx context.Context, req *request.Related) result.Page
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Search) result.Page {
	return m.searchFn(ctx, req)
}

func (m *mockSearchUC) Related(ctx context.Context, req *request.Related) result.Page {
	return m.relatedFn(ctx, req)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- Embedder mock ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}
