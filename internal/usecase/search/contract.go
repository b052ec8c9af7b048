package search

import (
	"context"

	"github.com/kailas-cloud/itemsearch/internal/domain"
	"github.com/kailas-cloud/itemsearch/internal/domain/item"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/query"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/result"
)

// Engine executes a query plan and returns hits in ranked order.
type Engine interface {
	Search(ctx context.Context, plan *query.Plan) ([]result.Hit, error)
}

// ItemLookup materializes an item by ID. Returns domain.ErrItemNotFound for unknown IDs.
type ItemLookup interface {
	Get(ctx context.Context, id string) (item.Item, error)
}

// Embedder vectorizes query text when vectors are computed client-side.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
