package chi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/itemsearch/internal/domain"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/kind"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/request"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/window"
	"github.com/kailas-cloud/itemsearch/internal/domain/viewer"
)

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Q      *string
	Sub    *string
	Cursor *string
	Sort   *string
	What   *string
	When   *string
	From   *time.Time
	To     *time.Time
}

// RelatedParams are the query parameters of GET /related.
type RelatedParams struct {
	Title    *string
	ID       *string
	Cursor   *string
	Limit    *int
	MinMatch *string
}

type queryBinding struct {
	name string
	dest any
}

func bindQuery(r *http.Request, bindings []queryBinding) error {
	q := r.URL.Query()
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return fmt.Errorf("%w: invalid format for parameter %s: %w", domain.ErrInvalidRequest, b.name, err)
		}
	}
	return nil
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	var p SearchParams
	err := bindQuery(r, []queryBinding{
		{"q", &p.Q},
		{"sub", &p.Sub},
		{"cursor", &p.Cursor},
		{"sort", &p.Sort},
		{"what", &p.What},
		{"when", &p.When},
		{"from", &p.From},
		{"to", &p.To},
	})
	return p, err
}

func bindRelatedParams(r *http.Request) (RelatedParams, error) {
	var p RelatedParams
	err := bindQuery(r, []queryBinding{
		{"title", &p.Title},
		{"id", &p.ID},
		{"cursor", &p.Cursor},
		{"limit", &p.Limit},
		{"min_match", &p.MinMatch},
	})
	return p, err
}

// toRequest validates the bound parameters. Explicit bounds without
// a window selector imply a custom window.
func (p SearchParams) toRequest(v viewer.Viewer) (request.Search, error) {
	m, err := mode.Parse(deref(p.Sort))
	if err != nil {
		return request.Search{}, invalid(err)
	}
	k, err := kind.Parse(deref(p.What))
	if err != nil {
		return request.Search{}, invalid(err)
	}

	when := deref(p.When)
	if when == "" && (p.From != nil || p.To != nil) {
		when = string(window.Custom)
	}
	sel, err := window.ParseSelector(when)
	if err != nil {
		return request.Search{}, invalid(err)
	}
	w, err := window.New(sel, derefTime(p.From), derefTime(p.To))
	if err != nil {
		return request.Search{}, invalid(err)
	}

	req, err := request.NewSearch(deref(p.Q), deref(p.Sub), m, k, w, deref(p.Cursor), v)
	if err != nil {
		return request.Search{}, invalid(err)
	}
	return req, nil
}

func (p RelatedParams) toRequest(v viewer.Viewer) (request.Related, error) {
	limit := 0
	if p.Limit != nil {
		limit = *p.Limit
	}
	req, err := request.NewRelated(deref(p.Title), deref(p.ID), deref(p.Cursor), limit, deref(p.MinMatch), v)
	if err != nil {
		return request.Related{}, invalid(err)
	}
	return req, nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefTime(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return *p
}
