package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/itemsearch/internal/domain/search/kind"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/window"
	"github.com/kailas-cloud/itemsearch/internal/domain/viewer"
)

// MaxQueryLength is the maximum allowed search query length.
const MaxQueryLength = 4096

// Search is a validated free-text search.
type Search struct {
	query  string
	sub    string
	sort   mode.Mode
	kind   kind.Kind
	window window.Window
	cursor string
	viewer viewer.Viewer
}

// NewSearch validates search parameters. An empty query is valid and
// yields an empty result without reaching the engine.
// Defaults: sort=hot, kind=all, window=forever.
func NewSearch(
	query, sub string,
	m mode.Mode, k kind.Kind, w window.Window,
	cursor string, v viewer.Viewer,
) (Search, error) {
	if len(query) > MaxQueryLength {
		return Search{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if m == "" {
		m = mode.Hot
	}
	if !m.IsValid() {
		return Search{}, fmt.Errorf("invalid sort mode: %q", m)
	}
	if k == "" {
		k = kind.All
	}
	if !k.IsValid() {
		return Search{}, fmt.Errorf("invalid content kind: %q", k)
	}

	return Search{
		query:  strings.TrimSpace(query),
		sub:    strings.TrimSpace(sub),
		sort:   m,
		kind:   k,
		window: w,
		cursor: cursor,
		viewer: v,
	}, nil
}

// Query returns the trimmed query text.
func (r *Search) Query() string { return r.query }

// IsEmpty reports whether there is nothing to search for.
func (r *Search) IsEmpty() bool { return r.query == "" }

// Sub returns the sub-community filter, empty for all.
func (r *Search) Sub() string { return r.sub }

// Sort returns the requested ordering.
func (r *Search) Sort() mode.Mode { return r.sort }

// Kind returns the content kind filter.
func (r *Search) Kind() kind.Kind { return r.kind }

// Window returns the creation-time window.
func (r *Search) Window() window.Window { return r.window }

// Cursor returns the raw pagination token.
func (r *Search) Cursor() string { return r.cursor }

// Viewer returns the requesting identity.
func (r *Search) Viewer() viewer.Viewer { return r.viewer }
