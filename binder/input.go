package binder

import (
	"github.com/RLabs-Inc/sparktui/internal/color"
	"github.com/RLabs-Inc/sparktui/reactive"
	"github.com/RLabs-Inc/sparktui/sns"
)

// InputConfig describes a single-line text input (§4.3 input(config)): a
// BOX with component_type=INPUT plus a signal-backed Value the caller
// owns, and a caret/selection the binder maintains from focused KeyEvents
// drained by EL and routed through Tree.DispatchKey.
type InputConfig struct {
	Value *reactive.Signal[string]

	Width, Height any
	FgColor, BgColor any
	Placeholder      string

	// OnSubmit, if set, is called when Enter is pressed while focused.
	OnSubmit func(value string)
}

// Input allocates an INPUT node bound to cfg.Value, wiring key handling
// for cursor movement, editing, and Enter-to-submit.
func Input(t *Tree, cfg InputConfig) (int32, error) {
	idx, err := t.reserve(sns.ComponentInput)
	if err != nil {
		return -1, err
	}
	n := t.store.NodeAt(idx)
	n.Focusable = 1
	n.FocusOrder = idx

	sizeOrDefault(t, idx, cfg.Width, sns.Auto, func(v float32) { t.store.NodeAt(idx).Width = v })
	sizeOrDefault(t, idx, cfg.Height, Fixed(1).encode(), func(v float32) { t.store.NodeAt(idx).Height = v })
	bindOrSet[color.RGBA](t, idx, cfg.FgColor, sns.DirtyVisual, func(v color.RGBA) { t.store.NodeAt(idx).FgColor = v })
	bindOrSet[color.RGBA](t, idx, cfg.BgColor, sns.DirtyVisual, func(v color.RGBA) { t.store.NodeAt(idx).BgColor = v })

	if cfg.Value != nil {
		reactive.CreateEffect(func() {
			text := cfg.Value.Get()
			display := text
			if text == "" && cfg.Placeholder != "" {
				display = cfg.Placeholder
			}
			_ = t.store.WriteText(idx, display)
			t.store.MarkDirty(idx, sns.DirtyText)
			t.store.Wake()
		})
	}

	t.RegisterKeyHandler(idx, func(ev sns.Event) {
		inputKeyEvent(t, idx, cfg, ev)
	})
	return idx, nil
}

// Keycodes matching the Terminal Driver's decoded CSI forms (§6.1 Input
// decoding). Defined here rather than imported from terminal to avoid an
// import cycle: binder only needs the numeric identity of these keys, not
// the decoder.
const (
	KeyBackspace int32 = 8
	KeyEnter     int32 = 13
	KeyDelete    int32 = 127
	KeyLeft      int32 = -1000 - iota
	KeyRight
	KeyHome
	KeyEnd
)

func inputKeyEvent(t *Tree, idx int32, cfg InputConfig, ev sns.Event) {
	if ev.Type != sns.EventKey || cfg.Value == nil {
		return
	}
	n := t.store.NodeAt(idx)
	text := cfg.Value.Peek()
	caret := int(n.CaretCol)
	if caret > len(text) {
		caret = len(text)
	}

	switch ev.Keycode {
	case KeyLeft:
		if caret > 0 {
			caret--
		}
	case KeyRight:
		if caret < len(text) {
			caret++
		}
	case KeyHome:
		caret = 0
	case KeyEnd:
		caret = len(text)
	case KeyBackspace:
		if caret > 0 {
			text = text[:caret-1] + text[caret:]
			caret--
			cfg.Value.Set(text)
		}
	case KeyDelete:
		if caret < len(text) {
			text = text[:caret] + text[caret+1:]
			cfg.Value.Set(text)
		}
	case KeyEnter:
		if cfg.OnSubmit != nil {
			cfg.OnSubmit(text)
		}
	default:
		if ev.Keycode >= 0x20 && ev.Keycode < 0x110000 {
			r := rune(ev.Keycode)
			text = text[:caret] + string(r) + text[caret:]
			caret++
			cfg.Value.Set(text)
		}
	}

	n.CaretCol = int32(caret)
	t.store.MarkDirty(idx, sns.DirtyVisual)
	t.store.Wake()
}
