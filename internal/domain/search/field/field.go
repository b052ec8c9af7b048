// Package field names the search index fields the planner targets.
package field

import "strconv"

// Index field names.
const (
	ID            = "id"
	ParentID      = "parentId"
	Title         = "title"
	Text          = "text"
	URL           = "url"
	Status        = "status"
	UserID        = "userId"
	UserName      = "user.name"
	SubName       = "sub.name"
	CreatedAt     = "createdAt"
	WeightedVotes = "wvotes"
	Sats          = "sats"
	Comments      = "ncomments"

	TitleEmbedding = "title_embedding"
	TextEmbedding  = "text_embedding"
)

// HeavyFields are stored in the index but never transferred back with hits.
var HeavyFields = []string{Text, TextEmbedding, TitleEmbedding}

// Boosted returns the field with a query-time boost suffix, e.g. "title^100".
func Boosted(name string, boost int) string {
	if boost <= 1 {
		return name
	}
	return name + "^" + strconv.Itoa(boost)
}
