package compositor

import (
	"testing"

	"github.com/RLabs-Inc/sparktui/internal/color"
	"github.com/RLabs-Inc/sparktui/layout"
	"github.com/RLabs-Inc/sparktui/sns"
)

func newStore(t *testing.T, cols, rows int) *sns.Store {
	t.Helper()
	st, err := sns.Allocate(64, 4096, 64)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	st.SetTerminalSize(cols, rows)
	return st
}

func reserveBox(t *testing.T, st *sns.Store, parent int32) int32 {
	t.Helper()
	idx, err := st.ReserveNode()
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	n := st.NodeAt(idx)
	n.ComponentType = sns.ComponentBox
	n.Visible = 1
	n.Width, n.Height = sns.Auto, sns.Auto
	n.FlexShrink = 1
	if idx != 0 {
		if err := st.SetParent(idx, parent); err != nil {
			t.Fatalf("set parent: %v", err)
		}
	}
	st.MarkDirty(idx, sns.DirtyLayout|sns.DirtyHierarchy)
	return idx
}

func TestComposeFillsBackgroundAndText(t *testing.T) {
	st := newStore(t, 10, 3)
	root := reserveBox(t, st, -1)
	r := st.NodeAt(root)
	r.Width, r.Height = 10, 3
	r.BgColor = color.Opaque(10, 20, 30)

	child, err := st.ReserveNode()
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	cn := st.NodeAt(child)
	cn.ComponentType = sns.ComponentText
	cn.Visible = 1
	cn.Width, cn.Height = 4, 1
	cn.FgColor = color.Opaque(255, 255, 255)
	if err := st.SetParent(child, root); err != nil {
		t.Fatalf("set parent: %v", err)
	}
	if err := st.WriteText(child, "hi"); err != nil {
		t.Fatalf("write text: %v", err)
	}

	if err := layout.New(st).Run(); err != nil {
		t.Fatalf("layout run: %v", err)
	}

	fb := NewBuffer(10, 3)
	New(st).Compose(fb, -1)

	if got := fb.Get(0, 0); got.Glyph != 'h' {
		t.Errorf("expected 'h' at origin, got %q", got.Glyph)
	}
	if got := fb.Get(1, 0); got.Glyph != 'i' {
		t.Errorf("expected 'i' at (1,0), got %q", got.Glyph)
	}
	if got := fb.Get(9, 2); got.Bg != r.BgColor {
		t.Errorf("expected root bg to fill corner cell, got %#x", got.Bg)
	}
}

func TestComposeClipsScrolledOverflowingChild(t *testing.T) {
	st := newStore(t, 10, 2)
	root := reserveBox(t, st, -1)
	r := st.NodeAt(root)
	r.Width, r.Height = 10, 2
	r.Overflow = sns.OverflowScroll

	child, err := st.ReserveNode()
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	cn := st.NodeAt(child)
	cn.ComponentType = sns.ComponentText
	cn.Visible = 1
	cn.Width, cn.Height = 20, 1
	if err := st.SetParent(child, root); err != nil {
		t.Fatalf("set parent: %v", err)
	}
	if err := st.WriteText(child, "this line is much longer than ten cells wide"); err != nil {
		t.Fatalf("write text: %v", err)
	}

	if err := layout.New(st).Run(); err != nil {
		t.Fatalf("layout run: %v", err)
	}

	fb := NewBuffer(10, 2)
	New(st).Compose(fb, -1)

	for x := 0; x < 10; x++ {
		if fb.Get(x, 0).Glyph == 0 {
			t.Errorf("expected cell (%d,0) to be painted within clip, got empty", x)
		}
	}
}

func TestComposeSkipsInvisibleSubtree(t *testing.T) {
	st := newStore(t, 5, 1)
	root := reserveBox(t, st, -1)
	r := st.NodeAt(root)
	r.Width, r.Height = 5, 1

	child, err := st.ReserveNode()
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	cn := st.NodeAt(child)
	cn.ComponentType = sns.ComponentText
	cn.Visible = 0
	cn.Width, cn.Height = 5, 1
	if err := st.SetParent(child, root); err != nil {
		t.Fatalf("set parent: %v", err)
	}
	if err := st.WriteText(child, "xxxxx"); err != nil {
		t.Fatalf("write text: %v", err)
	}

	if err := layout.New(st).Run(); err != nil {
		t.Fatalf("layout run: %v", err)
	}

	fb := NewBuffer(5, 1)
	New(st).Compose(fb, -1)

	for x := 0; x < 5; x++ {
		if fb.Get(x, 0).Glyph == 'x' {
			t.Fatalf("expected invisible node's text not to paint, found at x=%d", x)
		}
	}
}

func TestComposeDrawsPartialBorderCorners(t *testing.T) {
	st := newStore(t, 5, 3)
	root := reserveBox(t, st, -1)
	r := st.NodeAt(root)
	r.Width, r.Height = 5, 3
	r.BorderStyle = sns.BorderSingle
	r.BorderTWidth = 1
	r.BorderLWidth = 1
	// No right/bottom border: top-right and bottom-left corners should
	// degenerate to straight-line caps, not the full corner glyph.

	if err := layout.New(st).Run(); err != nil {
		t.Fatalf("layout run: %v", err)
	}

	fb := NewBuffer(5, 3)
	New(st).Compose(fb, -1)

	if got := fb.Get(0, 0).Glyph; got != '┌' {
		t.Errorf("expected top-left corner '┌', got %q", got)
	}
	if got := fb.Get(4, 0).Glyph; got != '─' {
		t.Errorf("expected top-right cap '─' (no right border), got %q", got)
	}
	if got := fb.Get(0, 1).Glyph; got != '│' {
		t.Errorf("expected left edge '│', got %q", got)
	}
}

func TestComposeCaretPlacementOnFocusedInput(t *testing.T) {
	st := newStore(t, 10, 1)
	root := reserveBox(t, st, -1)
	r := st.NodeAt(root)
	r.Width, r.Height = 10, 1

	input, err := st.ReserveNode()
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	in := st.NodeAt(input)
	in.ComponentType = sns.ComponentInput
	in.Visible = 1
	in.Width, in.Height = 10, 1
	in.CaretCol = 3
	if err := st.SetParent(input, root); err != nil {
		t.Fatalf("set parent: %v", err)
	}
	if err := st.WriteText(input, "abcdef"); err != nil {
		t.Fatalf("write text: %v", err)
	}

	if err := layout.New(st).Run(); err != nil {
		t.Fatalf("layout run: %v", err)
	}

	fb := NewBuffer(10, 1)
	caret := New(st).Compose(fb, input)

	if !caret.Visible {
		t.Fatalf("expected caret to be visible for focused input")
	}
	if caret.X != 3 || caret.Y != 0 {
		t.Errorf("expected caret at (3,0), got (%d,%d)", caret.X, caret.Y)
	}
}
