package identity_test

import (
	"testing"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/identity"
)

func TestAssignStyleDeterministic(t *testing.T) {
	first := identity.AssignStyle("user123")
	second := identity.AssignStyle("user123")

	if first != second {
		t.Errorf("Expected identical styles for the same ID, got %+v and %+v", first, second)
	}
}

func TestAssignStyleWithinPalette(t *testing.T) {
	for _, id := range []string{"", "a", "user123", "яйцо", "日本語ユーザー", "🙂"} {
		style := identity.AssignStyle(id)
		if style.ColorIndex < 0 || style.ColorIndex >= identity.PaletteSize() {
			t.Errorf("Color index out of palette for %q: %d", id, style.ColorIndex)
		}
		if style.IconIndex < 0 {
			t.Errorf("Negative icon index for %q: %d", id, style.IconIndex)
		}
		if style.Color == "" {
			t.Errorf("Empty color name for %q", id)
		}
	}
}

func TestAssignStyleEmptyID(t *testing.T) {
	style := identity.AssignStyle("")
	if style.ColorIndex != 0 || style.IconIndex != 0 {
		t.Errorf("Expected index 0 for empty ID, got %+v", style)
	}
}
