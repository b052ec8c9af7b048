package itemsearch

import (
	"fmt"

	"github.com/kailas-cloud/itemsearch/internal/domain"
	domitem "github.com/kailas-cloud/itemsearch/internal/domain/item"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/kind"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/request"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/result"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/window"
	"github.com/kailas-cloud/itemsearch/internal/domain/viewer"
)

func searchRequest(q SearchQuery) (request.Search, error) {
	m, err := mode.Parse(string(q.Sort))
	if err != nil {
		return request.Search{}, invalid(err)
	}
	k, err := kind.Parse(string(q.What))
	if err != nil {
		return request.Search{}, invalid(err)
	}

	when := string(q.When)
	if when == "" && (!q.From.IsZero() || !q.To.IsZero()) {
		when = string(window.Custom)
	}
	sel, err := window.ParseSelector(when)
	if err != nil {
		return request.Search{}, invalid(err)
	}
	w, err := window.New(sel, q.From, q.To)
	if err != nil {
		return request.Search{}, invalid(err)
	}

	req, err := request.NewSearch(q.Text, q.Sub, m, k, w, q.Cursor, viewer.New(q.ViewerID))
	if err != nil {
		return request.Search{}, invalid(err)
	}
	return req, nil
}

func relatedRequest(q RelatedQuery) (request.Related, error) {
	req, err := request.NewRelated(q.Title, q.ID, q.Cursor, q.Limit, q.MinMatch, viewer.New(q.ViewerID))
	if err != nil {
		return request.Related{}, invalid(err)
	}
	return req, nil
}

func invalid(err error) error {
	return fmt.Errorf("itemsearch: %w: %w", domain.ErrInvalidRequest, err)
}

func pageFromResult(p result.Page) Page {
	items := make([]Item, len(p.Items))
	for i := range p.Items {
		items[i] = itemFromDomain(&p.Items[i])
	}
	return Page{Items: items, Cursor: p.Cursor}
}

func itemFromDomain(it *domitem.Item) Item {
	return Item{
		ID:            it.ID,
		ParentID:      it.ParentID,
		Title:         it.Title,
		Text:          it.Text,
		URL:           it.URL,
		UserID:        it.UserID,
		UserName:      it.UserName,
		SubName:       it.SubName,
		Status:        string(it.Status),
		CreatedAt:     it.CreatedAt,
		WeightedVotes: it.WeightedVotes,
		Sats:          it.Sats,
		Comments:      it.Comments,
		SearchTitle:   it.SearchTitle,
		SearchText:    it.SearchText,
	}
}
