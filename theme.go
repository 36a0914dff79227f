package sparktui

import (
	"github.com/RLabs-Inc/sparktui/internal/color"
	"github.com/RLabs-Inc/sparktui/reactive"
)

// Theme maps semantic slot names to colors as signals, so changing a
// slot's color propagates to every node bound to it the same way any
// other signal write does (§6.2 "Theme: a mapping from semantic slot
// names... implemented as signals so theme changes propagate"). Seeded
// from internal/color.DefaultPalette, itself adapted from the teacher's
// basement/style.go named-color table.
type Theme struct {
	slots map[color.Slot]*reactive.Signal[color.RGBA]
}

// NewTheme builds a Theme pre-populated with the default palette.
func NewTheme() *Theme {
	t := &Theme{slots: make(map[color.Slot]*reactive.Signal[color.RGBA])}
	for slot, c := range color.DefaultPalette() {
		t.slots[slot] = reactive.New(c)
	}
	return t
}

// Color returns the signal backing slot, creating it (initialized to
// Transparent) if the slot was never seeded — callers that only read
// standard slots never hit this path.
func (t *Theme) Color(slot color.Slot) *reactive.Signal[color.RGBA] {
	s, ok := t.slots[slot]
	if !ok {
		s = reactive.New(color.Transparent)
		t.slots[slot] = s
	}
	return s
}

// Set changes slot's color; every node bound to Theme.Color(slot) picks
// it up through the normal signal/effect path.
func (t *Theme) Set(slot color.Slot, c color.RGBA) {
	t.Color(slot).Set(c)
}
