package sparktui

import (
	"testing"

	"github.com/RLabs-Inc/sparktui/internal/color"
)

func TestNewThemeSeedsDefaultPalette(t *testing.T) {
	th := NewTheme()
	want := color.DefaultPalette()
	for slot, c := range want {
		if got := th.Color(slot).Peek(); got != c {
			t.Errorf("slot %q = %#x, want %#x", slot, got, c)
		}
	}
}

func TestThemeSetPropagatesToColor(t *testing.T) {
	th := NewTheme()
	sig := th.Color(color.SlotPrimary)
	th.Set(color.SlotPrimary, color.Opaque(1, 2, 3))
	if got := sig.Peek(); got != color.Opaque(1, 2, 3) {
		t.Errorf("got %#x, want %#x", got, color.Opaque(1, 2, 3))
	}
}

func TestThemeColorCreatesMissingSlotAsTransparent(t *testing.T) {
	th := NewTheme()
	if got := th.Color(color.Slot("unseeded")).Peek(); got != color.Transparent {
		t.Errorf("got %#x, want Transparent", got)
	}
}
