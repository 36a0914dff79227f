package sns

import (
	"math"

	"github.com/RLabs-Inc/sparktui/internal/color"
)

// ComponentType identifies what kind of primitive a node represents (§3.1).
type ComponentType uint8

const (
	ComponentNone ComponentType = iota
	ComponentBox
	ComponentText
	ComponentInput
)

// DirtyBit is a per-node bitset flag; producers set bits monotonically,
// EL clears them once the corresponding phase has run for that node (§3.3).
type DirtyBit uint8

const (
	DirtyLayout DirtyBit = 1 << iota
	DirtyVisual
	DirtyText
	DirtyHierarchy
)

// Direction, Wrap, Justify, Align, Position, Overflow, Display are the flex
// enums from §3.1's "Flex enums" field group.
type Direction uint8

const (
	DirectionRow Direction = iota
	DirectionRowReverse
	DirectionColumn
	DirectionColumnReverse
)

type Wrap uint8

const (
	WrapNoWrap Wrap = iota
	WrapWrap
	WrapWrapReverse
)

type Justify uint8

const (
	JustifyFlexStart Justify = iota
	JustifyFlexEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

type Align uint8

const (
	// AlignAuto is the zero value: "inherit the container's align_items"
	// for align_self, or "stretch" for a container's own align_items/
	// align_content (flexbox's own default). Giving auto its own value
	// instead of overloading AlignStretch as the zero value is what lets
	// align_self meaningfully default to "follow the parent" (§4.4 step 4).
	AlignAuto Align = iota
	AlignStretch
	AlignFlexStart
	AlignFlexEnd
	AlignCenter
	AlignBaseline
)

type Position uint8

const (
	PositionRelative Position = iota
	PositionAbsolute
)

type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
)

type Display uint8

const (
	DisplayFlex Display = iota
	DisplayNone
)

// BorderStyle selects the box-drawing glyph set (§3.1 Borders, §4.5).
type BorderStyle uint8

const (
	BorderNone BorderStyle = iota
	BorderSingle
	BorderDouble
	BorderRounded
	BorderBold
	BorderDashed
	BorderASCII
)

// Attrs is a text-attribute bitset (§3.1 Appearance).
type Attrs uint8

const (
	AttrBold Attrs = 1 << iota
	AttrItalic
	AttrUnderline
)

// TextAlign / TextWrap are the §3.1 Text group enums.
type TextAlign uint8

const (
	TextAlignStart TextAlign = iota
	TextAlignCenter
	TextAlignEnd
)

type TextWrap uint8

const (
	TextWrapNone TextWrap = iota
	TextWrapWord
	TextWrapChar
)

// Auto and percent sentinel per §3.1: "negative => percent-of-parent
// magnitude; NaN => auto". Float32 size fields use these helper predicates
// rather than exporting math.NaN at every call site.
var Auto = float32(math.NaN()) // canonical NaN, compared via IsAuto

// IsAuto reports whether v represents the "auto" sentinel (NaN).
func IsAuto(v float32) bool { return v != v }

// IsPercent reports whether v encodes a percentage-of-parent magnitude.
func IsPercent(v float32) bool { return !IsAuto(v) && v < 0 }

// PercentValue returns the magnitude of a percent-encoded v (0..100 typically).
func PercentValue(v float32) float32 { return -v }

// Node is one fixed-size record in the Shared Node Store (§3.1). Fields are
// grouped by access phase: layout reads the Box model/Flex/Identity groups,
// visual reads Borders/Appearance, text/output reads Text and Computed
// outputs — matching the teacher's screen.go Cell's simplicity but scaled
// up to the full set of fields a flexbox+text+input UI node needs. A real
// mmap/byte-for-byte export (§6.3) would pad this to a 1024-byte, 16-cache
// -line stride; within one process address space the Go struct itself is
// the AoS record spec §9 calls for ("array of structures... keeps dozens
// of fields in the same cache line set").
type Node struct {
	// Identity (cache lines 1)
	ParentIndex   int32
	ComponentType ComponentType
	Visible       uint8
	Focusable     uint8

	// dirtyWord backs the spec's one-byte Dirty bitset, widened to
	// uint32 because sync/atomic has no byte-wide primitive; Store's
	// MarkDirty/ClearDirty/IsDirty are the only accessors (§3.1, §3.3).
	dirtyWord uint32

	// Box model (cache lines 1-2)
	Width, Height      float32
	MinW, MinH         float32
	MaxW, MaxH         float32
	FlexBasis          float32
	FlexGrow           float32
	FlexShrink         float32
	PaddingT, PaddingR float32
	PaddingB, PaddingL float32
	MarginT, MarginR   float32
	MarginB, MarginL   float32
	Gap, RowGap        float32
	ColumnGap          float32
	InsetT, InsetR     float32
	InsetB, InsetL     float32

	// Flex enums (cache line 3)
	FlexDirection Direction
	FlexWrap      Wrap
	Justify       Justify
	AlignItems    Align
	AlignContent  Align
	AlignSelf     Align
	Position      Position
	Overflow      Overflow
	Display       Display

	// Borders (cache lines 3-4)
	BorderTWidth, BorderRWidth uint8
	BorderBWidth, BorderLWidth uint8
	BorderStyle                BorderStyle
	BorderColor                color.RGBA

	// Appearance (cache lines 4-5)
	BgColor, FgColor color.RGBA
	Attrs            Attrs
	Variant          uint8

	// Text (cache line 5)
	TextOffset uint32
	TextLen    uint16
	TextAlign  TextAlign
	TextWrap   TextWrap

	// Computed outputs, written only by LE (cache lines 6-7)
	ComputedX, ComputedY float32
	ComputedW, ComputedH float32
	ContentW, ContentH   float32
	ScrollX, ScrollY     float32
	ScrollMaxX, ScrollMaxY float32

	// Hit/focus (cache line 8)
	FocusOrder int32
	HitZ       uint16

	// CaretCol/SelectionLen back input()'s "signal-backed caret and
	// selection" (§4.3): column offset into the node's text content and
	// the length of an active selection (0 = none). Not in the spec's
	// literal field table but required to let FC/DR place the terminal
	// cursor (§4.5 point 5, §4.6 "Cursor") without a side channel.
	CaretCol     int32
	SelectionLen int32

	// SiblingOrder lets `each` reorder children without moving their
	// storage index (§4.3 "rewriting a sibling_order field"). Not in the
	// spec's field table verbatim but required by the each() contract in
	// §4.3; kept adjacent to the hit/focus group since LE/FC read it once
	// per gather-tree pass, same phase as parent/child adjacency.
	SiblingOrder int32
}

// DirtyBits returns the node's current dirty bitset (non-atomic snapshot;
// callers that need a synchronized read should go through Store.IsDirty).
func (n *Node) DirtyBits() uint8 { return uint8(n.dirtyWord) }

// Reset restores a freed node to its zero-value defaults before reuse,
// per §3.4 ("allocated by PB, reset to defaults").
func (n *Node) Reset() {
	*n = Node{
		ParentIndex: -1,
		Visible:     1,
		FocusOrder:  -1,
		Width:       Auto,
		Height:      Auto,
		MinW:        Auto, MinH: Auto, MaxW: Auto, MaxH: Auto,
		FlexBasis:  Auto,
		FlexShrink: 1,
	}
}
