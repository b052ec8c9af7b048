package result

import (
	"strings"

	"github.com/kailas-cloud/itemsearch/internal/domain/item"
)

// FragmentSeparator joins multiple body highlight fragments.
const FragmentSeparator = " ... "

// Hit is a single raw engine hit.
type Hit struct {
	id         string
	score      float64
	highlights map[string][]string
}

// NewHit creates a search hit. id is the stored item identifier echoed back by the engine.
func NewHit(id string, score float64, highlights map[string][]string) Hit {
	return Hit{id: id, score: score, highlights: highlights}
}

// ID returns the item identifier.
func (h *Hit) ID() string { return h.id }

// Score returns the engine relevance score.
func (h *Hit) Score() float64 { return h.score }

// Highlights returns fragments by field name.
func (h *Hit) Highlights() map[string][]string { return h.highlights }

// Overlay fills the search overlays of it from the hit highlights,
// falling back to the stored title. SearchText stays nil without body fragments.
func (h *Hit) Overlay(it *item.Item, titleField, textField string) {
	it.SearchTitle = it.Title
	if frags := h.highlights[titleField]; len(frags) > 0 && frags[0] != "" {
		it.SearchTitle = frags[0]
	}
	it.SearchText = nil
	if frags := h.highlights[textField]; len(frags) > 0 {
		text := strings.Join(frags, FragmentSeparator)
		it.SearchText = &text
	}
}

// Page is one page of materialized results. Cursor is empty at the end of results.
type Page struct {
	Items  []item.Item
	Cursor string
}

// Empty returns a page without items or cursor.
func Empty() Page {
	return Page{Items: []item.Item{}}
}

// HasMore reports whether a next page may exist.
func (p *Page) HasMore() bool { return p.Cursor != "" }
