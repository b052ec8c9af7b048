package request

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/itemsearch/internal/domain/viewer"
)

// DefaultMinMatch is the more-like-this minimum_should_match used without an override.
const DefaultMinMatch = "10%"

// minMatchRegex accepts the minimum_should_match forms we pass through:
// an integer or a percentage, each optionally negative.
var minMatchRegex = regexp.MustCompile(`^-?\d{1,3}%$|^-?\d{1,4}$`)

// Related is a validated "related items" query.
type Related struct {
	title    string
	id       string
	cursor   string
	limit    int
	minMatch string
	viewer   viewer.Viewer
}

// NewRelated validates related parameters. A request without a usable
// anchor is valid and yields an empty result. limit <= 0 means the
// deployment default, applied by the service.
func NewRelated(title, id, cursor string, limit int, minMatch string, v viewer.Viewer) (Related, error) {
	if len(title) > MaxQueryLength {
		return Related{}, fmt.Errorf("title too long (max %d chars)", MaxQueryLength)
	}
	minMatch = strings.TrimSpace(minMatch)
	if minMatch != "" && !minMatchRegex.MatchString(minMatch) {
		return Related{}, fmt.Errorf("invalid min_match %q: want an integer or percentage", minMatch)
	}
	if limit < 0 {
		limit = 0
	}
	return Related{
		title:    strings.TrimSpace(title),
		id:       strings.TrimSpace(id),
		cursor:   cursor,
		limit:    limit,
		minMatch: minMatch,
		viewer:   v,
	}, nil
}

// Title returns the anchor title, possibly empty.
func (r *Related) Title() string { return r.title }

// ID returns the anchor item ID, possibly empty.
func (r *Related) ID() string { return r.id }

// HasAnchor reports whether the request names an anchor: an ID or a title with at least one token.
func (r *Related) HasAnchor() bool {
	return r.id != "" || len(strings.Fields(r.title)) > 0
}

// Cursor returns the raw pagination token.
func (r *Related) Cursor() string { return r.cursor }

// Limit returns the requested page size, 0 for the default.
func (r *Related) Limit() int { return r.limit }

// MinMatch returns the override, empty when none was supplied.
func (r *Related) MinMatch() string { return r.minMatch }

// HasMinMatch reports whether the caller overrode the minimum match.
func (r *Related) HasMinMatch() bool { return r.minMatch != "" }

// EffectiveMinMatch returns the override or DefaultMinMatch.
func (r *Related) EffectiveMinMatch() string {
	if r.minMatch != "" {
		return r.minMatch
	}
	return DefaultMinMatch
}

// Viewer returns the requesting identity.
func (r *Related) Viewer() viewer.Viewer { return r.viewer }
