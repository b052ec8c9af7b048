package item

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/itemsearch/internal/domain"
	domitem "github.com/kailas-cloud/itemsearch/internal/domain/item"
)

// store is the consumer interface for items (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo reads items stored as one hash per item.
type Repo struct {
	store  store
	prefix string
}

// New creates an item repository. Keys are prefix + "item:" + id.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Get returns an item by ID, or domain.ErrItemNotFound.
func (r *Repo) Get(ctx context.Context, id string) (domitem.Item, error) {
	key := r.itemKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domitem.Item{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domitem.Item{}, fmt.Errorf("item %s: %w", id, domain.ErrItemNotFound)
	}
	it, err := parseHashFields(id, m)
	if err != nil {
		return domitem.Item{}, fmt.Errorf("decode item %s: %w", id, err)
	}
	return it, nil
}

func (r *Repo) itemKey(id string) string {
	return r.prefix + "item:" + id
}
