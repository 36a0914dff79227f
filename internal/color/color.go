// Package color packs/unpacks the RGBA colors SNS nodes carry and emits
// the 24-bit SGR sequences the Diff Renderer needs (spec §6.1, §6.2).
//
// The semantic palette table (primary/surface/text/...) is seeded from the
// teacher's basement/style.go named-color idea, generalized from fixed
// ANSI-16 escape strings to packed RGBA so theme changes can ride through
// signals per spec §6.2.
package color

import "fmt"

// RGBA is a packed color: bits 24-31 red, 16-23 green, 8-15 blue, 0-7 alpha.
// This is the canonical order spec §6.2 asks implementations to pick and
// document; LE/FC/DR consume only this packing.
type RGBA = uint32

// Pack combines 8-bit channels into a single RGBA word.
func Pack(r, g, b, a uint8) RGBA {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}

// Unpack splits an RGBA word back into its channels.
func Unpack(c RGBA) (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Transparent is alpha 0; FC skips filling cells with this color (§4.5).
const Transparent RGBA = 0

// Opaque packs an RGB triple with full alpha.
func Opaque(r, g, b uint8) RGBA {
	return Pack(r, g, b, 0xff)
}

// FGSequence returns the 24-bit SGR foreground sequence for c.
func FGSequence(c RGBA) string {
	r, g, b, _ := Unpack(c)
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

// BGSequence returns the 24-bit SGR background sequence for c.
func BGSequence(c RGBA) string {
	r, g, b, _ := Unpack(c)
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
}

// Slot names the semantic palette slots a theme maps to colors (§6.2).
type Slot string

const (
	SlotPrimary   Slot = "primary"
	SlotSecondary Slot = "secondary"
	SlotSurface   Slot = "surface"
	SlotBackground Slot = "background"
	SlotText      Slot = "text"
	SlotMuted     Slot = "muted"
	SlotSuccess   Slot = "success"
	SlotWarning   Slot = "warning"
	SlotDanger    Slot = "danger"
	SlotBorder    Slot = "border"
)

// DefaultPalette mirrors the spread of named colors basement/style.go's
// GetColorCode offered (black/red/green/blue/magenta/cyan/white/yellow/grey),
// repacked as RGBA instead of ANSI-16 escape strings.
func DefaultPalette() map[Slot]RGBA {
	return map[Slot]RGBA{
		SlotPrimary:    Opaque(0x4d, 0x9d, 0xff),
		SlotSecondary:  Opaque(0xa0, 0x6c, 0xff),
		SlotSurface:    Opaque(0x20, 0x22, 0x28),
		SlotBackground: Opaque(0x10, 0x11, 0x14),
		SlotText:       Opaque(0xe8, 0xe8, 0xe8),
		SlotMuted:      Opaque(0x80, 0x80, 0x80),
		SlotSuccess:    Opaque(0x4c, 0xd9, 0x64),
		SlotWarning:    Opaque(0xe0, 0xb0, 0x30),
		SlotDanger:     Opaque(0xe5, 0x54, 0x54),
		SlotBorder:     Opaque(0x44, 0x48, 0x50),
	}
}
