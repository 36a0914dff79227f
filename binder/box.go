package binder

import (
	"github.com/RLabs-Inc/sparktui/internal/color"
	"github.com/RLabs-Inc/sparktui/sns"
)

// BoxConfig describes a container node (§4.3 box(config)). Fields that are
// commonly animated or data-driven (Width, Height, colors, Visible) accept
// either a literal value or anything implementing reactive.Getter (a
// *reactive.Signal[T] or *reactive.Derived[T]); layout-structure fields
// are static for the node's lifetime, matching how the teacher's
// tui/layout_api.go builders (Row/Col/WithSize) only ever take literals —
// PB's generalization is letting content and appearance, not topology,
// be reactive.
type BoxConfig struct {
	Width, Height any // Size or reactive.Getter yielding Size
	MinWidth, MinHeight any
	MaxWidth, MaxHeight any

	FlexDirection sns.Direction
	FlexWrap      sns.Wrap
	Justify       sns.Justify
	AlignItems    sns.Align
	AlignContent  sns.Align
	AlignSelf     sns.Align
	Position      sns.Position
	Overflow      sns.Overflow
	Display       sns.Display

	FlexGrow, FlexShrink float32
	FlexBasis            any // Size or reactive.Getter yielding Size

	Padding, PaddingT, PaddingR, PaddingB, PaddingL float32
	Margin, MarginT, MarginR, MarginB, MarginL      float32
	Gap, RowGap, ColumnGap                          float32
	InsetT, InsetR, InsetB, InsetL                  float32

	BorderWidth                                 uint8
	BorderTWidth, BorderRWidth, BorderBWidth, BorderLWidth uint8
	BorderStyle                                 sns.BorderStyle
	BorderColor                                 any // color.RGBA or reactive.Getter

	BgColor, FgColor any // color.RGBA or reactive.Getter
	Visible          any // bool or reactive.Getter
	Focusable        bool

	// Children composes nested primitives under this box. It runs with
	// this node as the ambient parent (§4.3).
	Children func()
}

// Box allocates a container node, binds its fields, and runs Children
// under it. It returns the node's store index.
func Box(t *Tree, cfg BoxConfig) (int32, error) {
	idx, err := t.reserve(sns.ComponentBox)
	if err != nil {
		return -1, err
	}
	n := t.store.NodeAt(idx)

	sizeOrDefault(t, idx, cfg.Width, sns.Auto, func(v float32) { t.store.NodeAt(idx).Width = v })
	sizeOrDefault(t, idx, cfg.Height, sns.Auto, func(v float32) { t.store.NodeAt(idx).Height = v })
	sizeOrDefault(t, idx, cfg.MinWidth, sns.Auto, func(v float32) { t.store.NodeAt(idx).MinW = v })
	sizeOrDefault(t, idx, cfg.MinHeight, sns.Auto, func(v float32) { t.store.NodeAt(idx).MinH = v })
	sizeOrDefault(t, idx, cfg.MaxWidth, sns.Auto, func(v float32) { t.store.NodeAt(idx).MaxW = v })
	sizeOrDefault(t, idx, cfg.MaxHeight, sns.Auto, func(v float32) { t.store.NodeAt(idx).MaxH = v })
	sizeOrDefault(t, idx, cfg.FlexBasis, sns.Auto, func(v float32) { t.store.NodeAt(idx).FlexBasis = v })

	n.FlexDirection = cfg.FlexDirection
	n.FlexWrap = cfg.FlexWrap
	n.Justify = cfg.Justify
	n.AlignItems = cfg.AlignItems
	n.AlignContent = cfg.AlignContent
	n.AlignSelf = cfg.AlignSelf
	n.Position = cfg.Position
	n.Overflow = cfg.Overflow
	n.Display = cfg.Display
	n.FlexGrow = cfg.FlexGrow
	n.FlexShrink = cfg.FlexShrink
	if n.FlexShrink == 0 {
		// CSS/flexbox default: items shrink by default (flex-shrink: 1).
		// A zero Go literal can't distinguish "unset" from "explicitly
		// 0", so BoxConfig can't express "never shrink" — acceptable,
		// since that case is rare and the common unset case must default
		// to 1 per the flexbox semantics §4.4 generalizes to.
		n.FlexShrink = 1
	}

	n.PaddingT = orFallback(cfg.PaddingT, cfg.Padding)
	n.PaddingR = orFallback(cfg.PaddingR, cfg.Padding)
	n.PaddingB = orFallback(cfg.PaddingB, cfg.Padding)
	n.PaddingL = orFallback(cfg.PaddingL, cfg.Padding)
	n.MarginT = orFallback(cfg.MarginT, cfg.Margin)
	n.MarginR = orFallback(cfg.MarginR, cfg.Margin)
	n.MarginB = orFallback(cfg.MarginB, cfg.Margin)
	n.MarginL = orFallback(cfg.MarginL, cfg.Margin)
	n.Gap = cfg.Gap
	n.RowGap = orFallback(cfg.RowGap, cfg.Gap)
	n.ColumnGap = orFallback(cfg.ColumnGap, cfg.Gap)
	n.InsetT, n.InsetR, n.InsetB, n.InsetL = cfg.InsetT, cfg.InsetR, cfg.InsetB, cfg.InsetL

	n.BorderTWidth = orFallbackU8(cfg.BorderTWidth, cfg.BorderWidth)
	n.BorderRWidth = orFallbackU8(cfg.BorderRWidth, cfg.BorderWidth)
	n.BorderBWidth = orFallbackU8(cfg.BorderBWidth, cfg.BorderWidth)
	n.BorderLWidth = orFallbackU8(cfg.BorderLWidth, cfg.BorderWidth)
	n.BorderStyle = cfg.BorderStyle
	n.Focusable = boolToU8(cfg.Focusable)

	bindOrSet[color.RGBA](t, idx, cfg.BorderColor, sns.DirtyVisual, func(v color.RGBA) { t.store.NodeAt(idx).BorderColor = v })
	bindOrSet[color.RGBA](t, idx, cfg.BgColor, sns.DirtyVisual, func(v color.RGBA) { t.store.NodeAt(idx).BgColor = v })
	bindOrSet[color.RGBA](t, idx, cfg.FgColor, sns.DirtyVisual, func(v color.RGBA) { t.store.NodeAt(idx).FgColor = v })
	if cfg.Visible != nil {
		bindOrSet[bool](t, idx, cfg.Visible, sns.DirtyHierarchy, func(v bool) { t.store.NodeAt(idx).Visible = boolToU8(v) })
	}

	t.withParent(idx, cfg.Children)
	return idx, nil
}

// sizeOrDefault resolves a Width/Height/... field, which may be a literal
// Size, a reactive.Getter yielding Size, or nil (falls back to fallback).
func sizeOrDefault(t *Tree, idx int32, v any, fallback float32, apply func(float32)) {
	if v == nil {
		apply(fallback)
		t.store.MarkDirty(idx, sns.DirtyLayout)
		return
	}
	bindOrSet[Size](t, idx, v, sns.DirtyLayout, func(s Size) { apply(s.encode()) })
}

func orFallback(v, fallback float32) float32 {
	if v != 0 {
		return v
	}
	return fallback
}

func orFallbackU8(v, fallback uint8) uint8 {
	if v != 0 {
		return v
	}
	return fallback
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
