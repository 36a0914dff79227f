package terminal

// Modifier bits for sns.Event.Modifiers, matching the teacher's Mod type
// (tui/key.go) one-for-one.
const (
	ModCtrl  uint8 = 1 << 0
	ModAlt   uint8 = 1 << 1
	ModShift uint8 = 1 << 2
)

// Control-byte keycodes that already coincide with their ASCII value,
// kept alongside binder's KeyEnter/KeyBackspace/KeyDelete for the few
// keys TD decodes that binder's input() doesn't itself handle.
const (
	KeyTab int32 = 9
	KeyEsc int32 = 27
)

// Keys with no natural byte encoding get a private negative band, clear
// of binder's KeyLeft..KeyEnd (-1003..-1006) and of any Unicode code
// point or control byte (§4.7: "special keys as prefixed constants").
const (
	KeyUp int32 = -2000 - iota
	KeyDown
	KeyPgUp
	KeyPgDown
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)
