package itemsearch

import "time"

// SortMode is the result ordering of a search.
type SortMode string

// Sort modes.
const (
	SortHot      SortMode = "hot"
	SortComments SortMode = "comments"
	SortSats     SortMode = "sats"
	SortRecent   SortMode = "recent"
)

// Kind restricts a search to posts, comments, or both.
type Kind string

// Kinds.
const (
	KindAll      Kind = "all"
	KindPosts    Kind = "posts"
	KindComments Kind = "comments"
)

// Window selects the creation-time range of a search.
type Window string

// Windows. WindowCustom uses SearchQuery.From and SearchQuery.To.
const (
	WindowDay     Window = "day"
	WindowWeek    Window = "week"
	WindowMonth   Window = "month"
	WindowYear    Window = "year"
	WindowForever Window = "forever"
	WindowCustom  Window = "custom"
)

// SearchQuery is a free-text search. Text may carry url: and nym: tokens.
// Zero values select the defaults: hot, all kinds, forever.
type SearchQuery struct {
	Text   string
	Sub    string
	Sort   SortMode
	What   Kind
	When   Window
	From   time.Time
	To     time.Time
	Cursor string
	// ViewerID identifies the requesting user; empty is anonymous.
	ViewerID string
}

// RelatedQuery finds items similar to an anchor item, given by ID, title, or both.
type RelatedQuery struct {
	ID       string
	Title    string
	Cursor   string
	Limit    int
	MinMatch string
	ViewerID string
}

// Item is a materialized post or comment.
type Item struct {
	ID            string
	ParentID      string
	Title         string
	Text          string
	URL           string
	UserID        string
	UserName      string
	SubName       string
	Status        string
	CreatedAt     time.Time
	WeightedVotes float64
	Sats          int64
	Comments      int

	// SearchTitle is the highlighted title, or Title without a match.
	SearchTitle string
	// SearchText holds highlighted body fragments, nil without a body match.
	SearchText *string
}

// Page is one page of results. Cursor is empty at the end of results.
type Page struct {
	Items  []Item
	Cursor string
}

// HasMore reports whether another page may exist.
func (p Page) HasMore() bool { return p.Cursor != "" }
