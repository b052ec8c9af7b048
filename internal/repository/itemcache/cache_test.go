package itemcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/itemsearch/internal/domain"
	domitem "github.com/kailas-cloud/itemsearch/internal/domain/item"
)

type mockLookup struct {
	items map[string]domitem.Item
	calls int
}

func (m *mockLookup) Get(_ context.Context, id string) (domitem.Item, error) {
	m.calls++
	it, ok := m.items[id]
	if !ok {
		return domitem.Item{}, domain.ErrItemNotFound
	}
	return it, nil
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_item_cache_total"}, []string{"result"})
}

func TestGet_CachesHits(t *testing.T) {
	inner := &mockLookup{items: map[string]domitem.Item{"1": {ID: "1", Title: "zap"}}}
	counter := newCounter()
	c := New(inner, 16, time.Minute, counter)

	for range 3 {
		it, err := c.Get(context.Background(), "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if it.Title != "zap" {
			t.Errorf("unexpected item: %+v", it)
		}
	}

	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 2 {
		t.Errorf("expected 2 hits, got %f", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("expected 1 miss, got %f", got)
	}
}

func TestGet_DoesNotCacheErrors(t *testing.T) {
	inner := &mockLookup{items: map[string]domitem.Item{}}
	c := New(inner, 16, time.Minute, nil)

	for range 2 {
		if _, err := c.Get(context.Background(), "404"); !errors.Is(err, domain.ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("expected every miss to reach the source, got %d calls", inner.calls)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}

func TestGet_Expires(t *testing.T) {
	inner := &mockLookup{items: map[string]domitem.Item{"1": {ID: "1"}}}
	c := New(inner, 16, 20*time.Millisecond, nil)

	_, _ = c.Get(context.Background(), "1")
	time.Sleep(60 * time.Millisecond)
	_, _ = c.Get(context.Background(), "1")

	if inner.calls != 2 {
		t.Errorf("expected reload after expiry, got %d calls", inner.calls)
	}
}

func TestPurge(t *testing.T) {
	inner := &mockLookup{items: map[string]domitem.Item{"1": {ID: "1"}, "2": {ID: "2"}}}
	c := New(inner, 16, time.Minute, nil)

	_, _ = c.Get(context.Background(), "1")
	_, _ = c.Get(context.Background(), "2")
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after purge, got %d", c.Len())
	}
}
