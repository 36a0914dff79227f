package binder

import "github.com/RLabs-Inc/sparktui/sns"

// Size is a box-model length: auto, a fixed cell count, or a percentage of
// the parent's content box (§3.1's float32 encoding: NaN=auto,
// negative=percent magnitude, positive=fixed cells).
type Size struct {
	auto    bool
	percent bool
	value   float32
}

// AutoSize is the zero Size: content-driven sizing.
func AutoSize() Size { return Size{auto: true} }

// Fixed is a size pinned to an exact number of cells.
func Fixed(cells float32) Size { return Size{value: cells} }

// Percent is a size expressed as a percentage of the parent's content box.
func Percent(pct float32) Size { return Size{percent: true, value: pct} }

// encode converts a Size to the raw float32 stored on sns.Node.
func (s Size) encode() float32 {
	if s.auto {
		return sns.Auto
	}
	if s.percent {
		return -s.value
	}
	return s.value
}
