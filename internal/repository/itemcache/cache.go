// Package itemcache keeps recently materialized items in process memory.
package itemcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"

	domitem "github.com/kailas-cloud/itemsearch/internal/domain/item"
)

// lookup is the consumer interface of the wrapped item source.
type lookup interface {
	Get(ctx context.Context, id string) (domitem.Item, error)
}

// Cache is a read-through item lookup with LRU eviction and a fixed TTL.
// Only successful lookups are cached.
type Cache struct {
	inner      lookup
	lru        *expirable.LRU[string, domitem.Item]
	cacheTotal *prometheus.CounterVec
}

// New wraps inner with a cache of up to size entries living for ttl.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(inner lookup, size int, ttl time.Duration, cacheTotal *prometheus.CounterVec) *Cache {
	return &Cache{
		inner:      inner,
		lru:        expirable.NewLRU[string, domitem.Item](size, nil, ttl),
		cacheTotal: cacheTotal,
	}
}

// Get returns the cached item or reads it from the wrapped source.
func (c *Cache) Get(ctx context.Context, id string) (domitem.Item, error) {
	if it, ok := c.lru.Get(id); ok {
		c.inc("hit")
		return it, nil
	}
	c.inc("miss")

	it, err := c.inner.Get(ctx, id)
	if err != nil {
		return domitem.Item{}, err //nolint:wrapcheck // decorator is transparent
	}
	c.lru.Add(id, it)
	return it, nil
}

// Len returns the number of cached items.
func (c *Cache) Len() int { return c.lru.Len() }

// Purge drops every cached item.
func (c *Cache) Purge() { c.lru.Purge() }

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
