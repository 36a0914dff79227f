package binder

import (
	"github.com/RLabs-Inc/sparktui/internal/color"
	"github.com/RLabs-Inc/sparktui/sns"
)

// TextConfig describes a leaf text node (§4.3 text(config)). Content is
// almost always reactive (it's usually a derived string), so unlike
// BoxConfig it is the one field every caller is expected to bind.
type TextConfig struct {
	Content any // string or reactive.Getter yielding string

	Align sns.TextAlign
	Wrap  sns.TextWrap
	Attrs sns.Attrs

	FgColor, BgColor any // color.RGBA or reactive.Getter
	Visible          any // bool or reactive.Getter
}

// Text allocates a text node and binds its content.
func Text(t *Tree, cfg TextConfig) (int32, error) {
	idx, err := t.reserve(sns.ComponentText)
	if err != nil {
		return -1, err
	}
	n := t.store.NodeAt(idx)
	n.TextAlign = cfg.Align
	n.TextWrap = cfg.Wrap
	n.Attrs = cfg.Attrs

	bindOrSet[string](t, idx, cfg.Content, sns.DirtyText, func(v string) {
		if err := t.store.WriteText(idx, v); err != nil {
			// Text pool exhausted; leave the previous contents in place
			// rather than silently truncating — caller sees stale text,
			// which is a visible, debuggable symptom instead of data loss
			// mid-arena.
			return
		}
	})
	bindOrSet[color.RGBA](t, idx, cfg.FgColor, sns.DirtyVisual, func(v color.RGBA) { t.store.NodeAt(idx).FgColor = v })
	bindOrSet[color.RGBA](t, idx, cfg.BgColor, sns.DirtyVisual, func(v color.RGBA) { t.store.NodeAt(idx).BgColor = v })
	if cfg.Visible != nil {
		bindOrSet[bool](t, idx, cfg.Visible, sns.DirtyHierarchy, func(v bool) { t.store.NodeAt(idx).Visible = boolToU8(v) })
	}
	return idx, nil
}
