package binder

import (
	"github.com/RLabs-Inc/sparktui/internal/color"
	"github.com/RLabs-Inc/sparktui/reactive"
)

// Theme holds one reactive color cell per palette slot, so swapping a
// theme at runtime (e.g. a user toggling dark/light mode) is an ordinary
// signal write that every bound BgColor/FgColor/BorderColor field picks
// up through its own effect — no explicit "repaint everything" pass.
type Theme struct {
	slots map[color.Slot]*reactive.Signal[color.RGBA]
}

// NewTheme builds a Theme seeded from palette, falling back to
// color.DefaultPalette for any slot palette omits.
func NewTheme(palette map[color.Slot]color.RGBA) *Theme {
	base := color.DefaultPalette()
	for slot, c := range palette {
		base[slot] = c
	}
	th := &Theme{slots: make(map[color.Slot]*reactive.Signal[color.RGBA], len(base))}
	for slot, c := range base {
		th.slots[slot] = reactive.New(c)
	}
	return th
}

// Slot returns the reactive cell for slot, creating it from the default
// palette on first access if the theme was built without it.
func (th *Theme) Slot(slot color.Slot) *reactive.Signal[color.RGBA] {
	if s, ok := th.slots[slot]; ok {
		return s
	}
	def := color.DefaultPalette()[slot]
	s := reactive.New(def)
	th.slots[slot] = s
	return s
}

// Set updates slot's color; every field bound via Theme.Slot(slot) picks
// the new value up through its own effect.
func (th *Theme) Set(slot color.Slot, c color.RGBA) {
	th.Slot(slot).Set(c)
}
