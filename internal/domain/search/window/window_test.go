package window

import (
	"testing"
	"time"
)

var upper = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func TestParseSelector(t *testing.T) {
	for _, s := range []string{"day", "week", "month", "year", "forever", "custom"} {
		if _, err := ParseSelector(s); err != nil {
			t.Errorf("ParseSelector(%q): unexpected error %v", s, err)
		}
	}
	if sel, _ := ParseSelector(""); sel != Forever {
		t.Errorf("ParseSelector(\"\") = %q, want forever", sel)
	}
	if _, err := ParseSelector("decade"); err == nil {
		t.Error("expected error for unknown selector")
	}
}

func TestResolve_Presets(t *testing.T) {
	tests := []struct {
		sel      Selector
		wantFrom time.Time
	}{
		{Day, upper.Add(-24 * time.Hour)},
		{Week, upper.Add(-7 * 24 * time.Hour)},
		{Month, upper.Add(-30 * 24 * time.Hour)},
		{Year, upper.Add(-365 * 24 * time.Hour)},
		{Forever, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sel), func(t *testing.T) {
			w, err := New(tt.sel, time.Time{}, time.Time{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			b := w.Resolve(upper)
			if !b.From.Equal(tt.wantFrom) {
				t.Errorf("From = %v, want %v", b.From, tt.wantFrom)
			}
			if !b.To.Equal(upper) {
				t.Errorf("To = %v, want %v", b.To, upper)
			}
		})
	}
}

func TestResolve_PresetIgnoresExplicitBounds(t *testing.T) {
	w, err := New(Week, upper.Add(-time.Hour), upper.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := w.Resolve(upper)
	if !b.To.Equal(upper) {
		t.Errorf("To = %v, want cursor time", b.To)
	}
}

func TestResolve_CustomClampsToCursorTime(t *testing.T) {
	from := upper.Add(-48 * time.Hour)

	later, _ := New(Custom, from, upper.Add(time.Hour))
	if b := later.Resolve(upper); !b.To.Equal(upper) || !b.From.Equal(from) {
		t.Errorf("later to: got %+v", b)
	}

	earlierTo := upper.Add(-time.Hour)
	earlier, _ := New(Custom, from, earlierTo)
	if b := earlier.Resolve(upper); !b.To.Equal(earlierTo) {
		t.Errorf("earlier to: To = %v, want %v", b.To, earlierTo)
	}

	open, _ := New(Custom, time.Time{}, time.Time{})
	if b := open.Resolve(upper); !b.From.IsZero() || !b.To.Equal(upper) {
		t.Errorf("open custom: got %+v", b)
	}
}

func TestNew_CustomFromAfterTo(t *testing.T) {
	if _, err := New(Custom, upper, upper.Add(-time.Hour)); err == nil {
		t.Fatal("expected error when from is after to")
	}
}

func TestZeroWindowIsForever(t *testing.T) {
	var w Window
	if w.Selector() != Forever {
		t.Errorf("Selector() = %q, want forever", w.Selector())
	}
	if b := w.Resolve(upper); !b.From.IsZero() {
		t.Errorf("From = %v, want zero", b.From)
	}
}
