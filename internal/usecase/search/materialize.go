package search

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/itemsearch/internal/domain"
	"github.com/kailas-cloud/itemsearch/internal/domain/item"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/field"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/result"
	"github.com/kailas-cloud/itemsearch/internal/domain/viewer"
	"github.com/kailas-cloud/itemsearch/internal/metrics"
)

// Reasons a hit is omitted from a page.
const (
	dropNotFound = "not_found"
	dropHidden   = "hidden"
	dropError    = "error"
)

// materialize resolves hits into items with at most limit lookups in
// flight. Output order follows hit order; hits that cannot be shown are
// dropped. With overlay set, highlights are copied into the search fields.
// Only context cancellation fails the whole page.
func (s *Service) materialize(
	ctx context.Context, hits []result.Hit, limit int, v viewer.Viewer, overlay bool,
) ([]item.Item, error) {
	if len(hits) == 0 {
		return []item.Item{}, nil
	}
	if limit <= 0 || limit > len(hits) {
		limit = len(hits)
	}

	log := s.log(ctx)
	slots := make([]*item.Item, len(hits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, h := range hits {
		g.Go(func() error {
			it, err := s.items.Get(gctx, h.ID())
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr //nolint:wrapcheck // cancellation is reported as-is
				}
				reason := dropError
				if errors.Is(err, domain.ErrItemNotFound) {
					reason = dropNotFound
				}
				s.drop(log, h.ID(), reason, err)
				return nil
			}
			if !it.VisibleTo(v) {
				s.drop(log, h.ID(), dropHidden, nil)
				return nil
			}
			if overlay {
				h.Overlay(&it, field.Title, field.Text)
			}
			slots[i] = &it
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // cancellation is reported as-is
	}

	items := make([]item.Item, 0, len(hits))
	for _, it := range slots {
		if it != nil {
			items = append(items, *it)
		}
	}
	return items, nil
}

func (s *Service) drop(log *zap.Logger, id, reason string, err error) {
	metrics.MaterializeDroppedTotal.WithLabelValues(reason).Inc()
	fields := []zap.Field{zap.String("item_id", id), zap.String("reason", reason)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	log.Warn("drop search hit", fields...)
}
