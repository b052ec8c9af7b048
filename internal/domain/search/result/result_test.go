package result

import (
	"testing"

	"github.com/kailas-cloud/itemsearch/internal/domain/item"
)

func TestOverlay_WithHighlights(t *testing.T) {
	h := NewHit("1", 2.5, map[string][]string{
		"title": {"***bitcoin*** news"},
		"text":  {"about ***bitcoin***", "more ***bitcoin***"},
	})
	it := item.Item{ID: "1", Title: "bitcoin news", Text: "long body"}
	h.Overlay(&it, "title", "text")

	if it.SearchTitle != "***bitcoin*** news" {
		t.Errorf("SearchTitle = %q", it.SearchTitle)
	}
	if it.SearchText == nil || *it.SearchText != "about ***bitcoin*** ... more ***bitcoin***" {
		t.Errorf("SearchText = %v", it.SearchText)
	}
}

func TestOverlay_FallsBackWithoutHighlights(t *testing.T) {
	h := NewHit("1", 1, nil)
	it := item.Item{ID: "1", Title: "stored title", Text: "stored body"}
	h.Overlay(&it, "title", "text")

	if it.SearchTitle != "stored title" {
		t.Errorf("SearchTitle = %q, want stored title", it.SearchTitle)
	}
	if it.SearchText != nil {
		t.Errorf("SearchText = %q, want nil", *it.SearchText)
	}
}

func TestOverlay_ResetsPreviousOverlay(t *testing.T) {
	prev := "stale"
	it := item.Item{ID: "1", Title: "t", SearchTitle: "old", SearchText: &prev}
	h := NewHit("1", 1, map[string][]string{"title": {""}})
	h.Overlay(&it, "title", "text")

	if it.SearchTitle != "t" {
		t.Errorf("SearchTitle = %q, want t", it.SearchTitle)
	}
	if it.SearchText != nil {
		t.Error("SearchText should be cleared")
	}
}

func TestEmptyPage(t *testing.T) {
	p := Empty()
	if p.Items == nil || len(p.Items) != 0 {
		t.Errorf("Items = %v, want empty non-nil slice", p.Items)
	}
	if p.HasMore() {
		t.Error("HasMore() = true on empty page")
	}
}
