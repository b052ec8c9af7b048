package item

import (
	"fmt"
	"strconv"
	"time"

	domitem "github.com/kailas-cloud/itemsearch/internal/domain/item"
)

// Hash field names of a stored item.
const (
	fID        = "id"
	fParentID  = "parentId"
	fTitle     = "title"
	fText      = "text"
	fURL       = "url"
	fUserID    = "userId"
	fUserName  = "userName"
	fSubName   = "subName"
	fStatus    = "status"
	fCreatedAt = "createdAt"
	fWVotes    = "wvotes"
	fSats      = "sats"
	fComments  = "ncomments"
)

// parseHashFields converts a flat hash map into a domain Item.
// Missing numeric fields read as zero.
func parseHashFields(id string, m map[string]string) (domitem.Item, error) {
	it := domitem.Item{
		ID:       id,
		ParentID: m[fParentID],
		Title:    m[fTitle],
		Text:     m[fText],
		URL:      m[fURL],
		UserID:   m[fUserID],
		UserName: m[fUserName],
		SubName:  m[fSubName],
		Status:   domitem.Status(m[fStatus]),
	}
	if stored := m[fID]; stored != "" {
		it.ID = stored
	}

	var err error
	if v := m[fCreatedAt]; v != "" {
		if it.CreatedAt, err = parseTime(v); err != nil {
			return domitem.Item{}, fmt.Errorf("field %s: %w", fCreatedAt, err)
		}
	}
	if v := m[fWVotes]; v != "" {
		if it.WeightedVotes, err = strconv.ParseFloat(v, 64); err != nil {
			return domitem.Item{}, fmt.Errorf("field %s: %w", fWVotes, err)
		}
	}
	if v := m[fSats]; v != "" {
		if it.Sats, err = strconv.ParseInt(v, 10, 64); err != nil {
			return domitem.Item{}, fmt.Errorf("field %s: %w", fSats, err)
		}
	}
	if v := m[fComments]; v != "" {
		if it.Comments, err = strconv.Atoi(v); err != nil {
			return domitem.Item{}, fmt.Errorf("field %s: %w", fComments, err)
		}
	}
	return it, nil
}

// parseTime accepts RFC 3339 timestamps and unix milliseconds.
func parseTime(v string) (time.Time, error) {
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", v, err)
	}
	return t, nil
}
