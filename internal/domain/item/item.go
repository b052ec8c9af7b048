// Package item defines the materialized item record returned by search.
package item

import (
	"time"

	"github.com/kailas-cloud/itemsearch/internal/domain/viewer"
)

// Status is the lifecycle state of an item.
type Status string

// Item statuses.
const (
	StatusActive  Status = "ACTIVE"
	StatusNoSats  Status = "NOSATS"
	StatusStopped Status = "STOPPED"
	StatusPending Status = "PENDING"
)

// Public reports whether items in this status are visible to everyone.
func (s Status) Public() bool {
	return s == StatusActive || s == StatusNoSats
}

// Item is a post or comment as served by the item store, plus the
// search overlays filled in from engine highlights.
type Item struct {
	ID            string    `json:"id"`
	ParentID      string    `json:"parentId,omitempty"`
	Title         string    `json:"title,omitempty"`
	Text          string    `json:"text,omitempty"`
	URL           string    `json:"url,omitempty"`
	UserID        string    `json:"userId"`
	UserName      string    `json:"userName,omitempty"`
	SubName       string    `json:"subName,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	WeightedVotes float64   `json:"wvotes"`
	Sats          int64     `json:"sats"`
	Comments      int       `json:"ncomments"`

	// Presentation overlays, never persisted.
	SearchTitle string  `json:"searchTitle,omitempty"`
	SearchText  *string `json:"searchText,omitempty"`
}

// IsComment reports whether the item has a parent.
func (it *Item) IsComment() bool { return it.ParentID != "" }

// VisibleTo reports whether v may see the item. Non-public items are
// visible only to their owner.
func (it *Item) VisibleTo(v viewer.Viewer) bool {
	if it.Status.Public() {
		return true
	}
	return v.Authenticated() && v.ID() == it.UserID
}

// SeedTexts returns the title and body used to seed similarity queries,
// each falling back to the other when empty.
func (it *Item) SeedTexts() (title, body string) {
	title, body = it.Title, it.Text
	if title == "" {
		title = it.Text
	}
	if body == "" {
		body = it.Title
	}
	return title, body
}
