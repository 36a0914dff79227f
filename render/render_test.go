package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/RLabs-Inc/sparktui/compositor"
	"github.com/RLabs-Inc/sparktui/internal/color"
)

func frame(w, h int, fill func(x, y int) rune) *compositor.Buffer {
	b := compositor.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Cells[y*w+x] = compositor.Cell{Glyph: fill(x, y)}
		}
	}
	return b
}

func TestFirstFrameFullRepaint(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, ModeFullscreen, 3, 1)

	f := frame(3, 1, func(x, y int) rune { return rune('a' + x) })
	if err := r.Render(f, compositor.CaretInfo{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	s := out.String()
	if !strings.Contains(s, "\x1b[2J") {
		t.Errorf("expected full-screen clear on first frame, got %q", s)
	}
	for _, ch := range "abc" {
		if !strings.ContainsRune(s, ch) {
			t.Errorf("expected glyph %q in output %q", ch, s)
		}
	}
}

func TestSecondFrameSkipsUnchangedCells(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, ModeFullscreen, 3, 1)

	f := frame(3, 1, func(x, y int) rune { return 'x' })
	if err := r.Render(f, compositor.CaretInfo{}); err != nil {
		t.Fatalf("render 1: %v", err)
	}
	out.Reset()

	if err := r.Render(f, compositor.CaretInfo{}); err != nil {
		t.Fatalf("render 2: %v", err)
	}
	if strings.ContainsRune(out.String(), 'x') {
		t.Errorf("expected no glyph writes for an unchanged frame, got %q", out.String())
	}
}

func TestChangedCellTriggersCursorJump(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, ModeFullscreen, 3, 1)

	first := frame(3, 1, func(x, y int) rune { return 'x' })
	if err := r.Render(first, compositor.CaretInfo{}); err != nil {
		t.Fatalf("render 1: %v", err)
	}
	out.Reset()

	second := frame(3, 1, func(x, y int) rune { return 'x' })
	second.Cells[2] = compositor.Cell{Glyph: 'z'}
	if err := r.Render(second, compositor.CaretInfo{}); err != nil {
		t.Fatalf("render 2: %v", err)
	}

	s := out.String()
	if !strings.Contains(s, "\x1b[1;3H") {
		t.Errorf("expected cursor jump to row 1 col 3, got %q", s)
	}
	if !strings.ContainsRune(s, 'z') {
		t.Errorf("expected changed glyph 'z' in output, got %q", s)
	}
}

func TestResizeForcesFullRepaintNextFrame(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, ModeFullscreen, 3, 1)
	f := frame(3, 1, func(x, y int) rune { return 'x' })
	if err := r.Render(f, compositor.CaretInfo{}); err != nil {
		t.Fatalf("render 1: %v", err)
	}

	r.Resize(4, 1)
	out.Reset()

	bigger := frame(4, 1, func(x, y int) rune { return 'y' })
	if err := r.Render(bigger, compositor.CaretInfo{}); err != nil {
		t.Fatalf("render 2: %v", err)
	}
	if !strings.Contains(out.String(), "\x1b[2J") {
		t.Errorf("expected full clear after resize, got %q", out.String())
	}
}

func TestSetModeForcesFullRepaintAndSwitchesClearing(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, ModeInline, 3, 1)
	f := frame(3, 1, func(x, y int) rune { return 'x' })
	if err := r.Render(f, compositor.CaretInfo{}); err != nil {
		t.Fatalf("render 1: %v", err)
	}

	r.SetMode(ModeFullscreen)
	if r.Mode() != ModeFullscreen {
		t.Fatalf("Mode() = %v, want ModeFullscreen", r.Mode())
	}
	out.Reset()

	if err := r.Render(f, compositor.CaretInfo{}); err != nil {
		t.Fatalf("render 2: %v", err)
	}
	if !strings.Contains(out.String(), "\x1b[2J") {
		t.Errorf("expected full clear after switching to fullscreen, got %q", out.String())
	}
}

func TestCaretVisibilityTogglesCursor(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, ModeFullscreen, 2, 1)
	f := frame(2, 1, func(x, y int) rune { return 'a' })

	if err := r.Render(f, compositor.CaretInfo{Visible: true, X: 1, Y: 0}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.String(), "\x1b[?25h") {
		t.Errorf("expected cursor shown, got %q", out.String())
	}

	out.Reset()
	f2 := frame(2, 1, func(x, y int) rune { return 'b' })
	if err := r.Render(f2, compositor.CaretInfo{Visible: false}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.String(), "\x1b[?25l") {
		t.Errorf("expected cursor hidden, got %q", out.String())
	}
}

func TestWideGlyphContinuationCellNeverWritten(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, ModeFullscreen, 3, 1)

	f := compositor.NewBuffer(3, 1)
	f.Cells[0] = compositor.Cell{Glyph: 'あ'} // wide hiragana glyph
	f.Cells[1] = compositor.Cell{Glyph: 0, Continuation: true}
	f.Cells[2] = compositor.Cell{Glyph: 'x'}

	if err := r.Render(f, compositor.CaretInfo{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	s := out.String()
	if strings.Count(s, "あ") != 1 {
		t.Errorf("expected the wide glyph written exactly once, got %q", s)
	}
	if !strings.Contains(s, "あx") {
		t.Errorf("expected 'x' written right after the wide glyph with no cursor jump over the continuation cell, got %q", s)
	}
}

func TestSGRSequenceSkipsTransparentColors(t *testing.T) {
	s := sgrSequence(0, color.Transparent, color.Transparent)
	if s != "" {
		t.Errorf("expected empty SGR for no attrs/transparent colors, got %q", s)
	}
}
