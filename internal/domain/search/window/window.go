// Package window resolves the creation-time window of a search.
package window

import (
	"fmt"
	"time"
)

// Selector names a preset window or a custom range.
type Selector string

// Window selectors.
const (
	Day     Selector = "day"
	Week    Selector = "week"
	Month   Selector = "month"
	Year    Selector = "year"
	Forever Selector = "forever"
	Custom  Selector = "custom"
)

var presetSpans = map[Selector]time.Duration{
	Day:   24 * time.Hour,
	Week:  7 * 24 * time.Hour,
	Month: 30 * 24 * time.Hour,
	Year:  365 * 24 * time.Hour,
}

// IsValid checks if the selector is one of the supported values.
func (s Selector) IsValid() bool {
	if _, ok := presetSpans[s]; ok {
		return true
	}
	return s == Forever || s == Custom
}

// ParseSelector converts a request value into a Selector. Empty input means Forever.
func ParseSelector(s string) (Selector, error) {
	if s == "" {
		return Forever, nil
	}
	sel := Selector(s)
	if !sel.IsValid() {
		return "", fmt.Errorf("invalid time window: %q", s)
	}
	return sel, nil
}

// Window is a validated time window request. From and To are only
// meaningful for Custom and may be zero (unbounded).
type Window struct {
	selector Selector
	from     time.Time
	to       time.Time
}

// New validates a window. Explicit bounds are accepted only for Custom.
func New(sel Selector, from, to time.Time) (Window, error) {
	if sel == "" {
		sel = Forever
	}
	if !sel.IsValid() {
		return Window{}, fmt.Errorf("invalid time window: %q", sel)
	}
	if sel != Custom {
		return Window{selector: sel}, nil
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return Window{}, fmt.Errorf("window from %s is after to %s",
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return Window{selector: sel, from: from, to: to}, nil
}

// Selector returns the window selector.
func (w Window) Selector() Selector {
	if w.selector == "" {
		return Forever
	}
	return w.selector
}

// Bounds is a resolved creation-time range. Zero values are unbounded.
type Bounds struct {
	From time.Time
	To   time.Time
}

// Resolve computes the range for a pagination session whose time
// boundary is upper. The upper bound never exceeds upper, so items
// created after the session began stay out of later pages.
func (w Window) Resolve(upper time.Time) Bounds {
	switch w.Selector() {
	case Custom:
		to := upper
		if !w.to.IsZero() && w.to.Before(upper) {
			to = w.to
		}
		return Bounds{From: w.from, To: to}
	case Forever:
		return Bounds{To: upper}
	default:
		return Bounds{From: upper.Add(-presetSpans[w.selector]), To: upper}
	}
}
