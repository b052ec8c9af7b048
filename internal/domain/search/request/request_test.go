package request

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/itemsearch/internal/domain/search/kind"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/window"
	"github.com/kailas-cloud/itemsearch/internal/domain/viewer"
)

func TestNewSearch_Defaults(t *testing.T) {
	r, err := NewSearch("  bitcoin  ", "", "", "", window.Window{}, "", viewer.Anonymous())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "bitcoin" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.Sort() != mode.Hot {
		t.Errorf("Sort() = %q, want hot (default)", r.Sort())
	}
	if r.Kind() != kind.All {
		t.Errorf("Kind() = %q, want all (default)", r.Kind())
	}
	if r.Window().Selector() != window.Forever {
		t.Errorf("Window() = %q, want forever", r.Window().Selector())
	}
	if r.Viewer().Authenticated() {
		t.Error("Viewer() should be anonymous")
	}
}

func TestNewSearch_EmptyQueryIsValid(t *testing.T) {
	r, err := NewSearch("   ", "", mode.Hot, kind.All, window.Window{}, "", viewer.Anonymous())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.IsEmpty() {
		t.Error("IsEmpty() = false for whitespace query")
	}
}

func TestNewSearch_QueryTooLong(t *testing.T) {
	_, err := NewSearch(strings.Repeat("x", MaxQueryLength+1), "", mode.Hot, kind.All, window.Window{}, "", viewer.Anonymous())
	if err == nil || !strings.Contains(err.Error(), "too long") {
		t.Fatalf("expected too long error, got %v", err)
	}
}

func TestNewSearch_InvalidEnums(t *testing.T) {
	if _, err := NewSearch("q", "", "top", kind.All, window.Window{}, "", viewer.Anonymous()); err == nil {
		t.Error("expected error for invalid sort mode")
	}
	if _, err := NewSearch("q", "", mode.Hot, "links", window.Window{}, "", viewer.Anonymous()); err == nil {
		t.Error("expected error for invalid kind")
	}
}

func TestNewRelated_Anchor(t *testing.T) {
	tests := []struct {
		name  string
		title string
		id    string
		want  bool
	}{
		{"none", "", "", false},
		{"blank title", "   ", "", false},
		{"title", "lightning network", "", true},
		{"id", "", "123", true},
		{"both", "hello", "123", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRelated(tt.title, tt.id, "", 0, "", viewer.Anonymous())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.HasAnchor() != tt.want {
				t.Errorf("HasAnchor() = %v, want %v", r.HasAnchor(), tt.want)
			}
		})
	}
}

func TestNewRelated_MinMatch(t *testing.T) {
	r, err := NewRelated("t", "", "", 0, "", viewer.Anonymous())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.HasMinMatch() || r.EffectiveMinMatch() != DefaultMinMatch {
		t.Errorf("default min match: has=%v effective=%q", r.HasMinMatch(), r.EffectiveMinMatch())
	}

	for _, ok := range []string{"20%", "-25%", "3", "100%"} {
		r, err := NewRelated("t", "", "", 0, ok, viewer.Anonymous())
		if err != nil {
			t.Errorf("min_match %q: unexpected error %v", ok, err)
			continue
		}
		if !r.HasMinMatch() || r.EffectiveMinMatch() != ok {
			t.Errorf("min_match %q not kept", ok)
		}
	}

	for _, bad := range []string{"abc", "10 %", "1000%", "%"} {
		if _, err := NewRelated("t", "", "", 0, bad, viewer.Anonymous()); err == nil {
			t.Errorf("min_match %q: expected error", bad)
		}
	}
}

func TestNewRelated_NegativeLimitMeansDefault(t *testing.T) {
	r, err := NewRelated("t", "", "", -5, "", viewer.Anonymous())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != 0 {
		t.Errorf("Limit() = %d, want 0", r.Limit())
	}
}
