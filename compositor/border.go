package compositor

import "github.com/RLabs-Inc/sparktui/sns"

// presence indexes a corner's 4-entry glyph table: bit 0 is "the
// horizontal side at this corner is present", bit 1 is "the vertical
// side at this corner is present". A corner with only one side present
// degenerates to that side's straight-line glyph (a cap); with neither
// present it draws nothing, which is what lets border_{t,r,b,l}_width
// express partial borders instead of always-four-sided boxes (§4.5 point
// 4, §10 "Partial-border corner lookup").
type presence uint8

const (
	presenceNone  presence = 0
	presenceHoriz presence = 1
	presenceVert  presence = 2
	presenceBoth  presence = 3
)

// cornerSet is one corner's 4-entry lookup table, built once per border
// style by newCornerSet.
type cornerSet [4]rune

func newCornerSet(trueCorner, h, v rune) cornerSet {
	return cornerSet{
		presenceNone:  0,
		presenceHoriz: h,
		presenceVert:  v,
		presenceBoth:  trueCorner,
	}
}

type styleGlyphs struct {
	H, V           rune
	TL, TR, BL, BR cornerSet
}

func buildStyle(h, v, tl, tr, bl, br rune) styleGlyphs {
	return styleGlyphs{
		H: h, V: v,
		TL: newCornerSet(tl, h, v),
		TR: newCornerSet(tr, h, v),
		BL: newCornerSet(bl, h, v),
		BR: newCornerSet(br, h, v),
	}
}

// borderStyles holds one 16-entry (4 corners x 4 presence combos) glyph
// table per border_style (§3.1 Borders, §10). BorderNone is never looked
// up (paintBorder skips it).
var borderStyles = map[sns.BorderStyle]styleGlyphs{
	sns.BorderSingle:  buildStyle('─', '│', '┌', '┐', '└', '┘'),
	sns.BorderDouble:  buildStyle('═', '║', '╔', '╗', '╚', '╝'),
	sns.BorderRounded: buildStyle('─', '│', '╭', '╮', '╰', '╯'),
	sns.BorderBold:    buildStyle('━', '┃', '┏', '┓', '┗', '┛'),
	// Unicode has no dashed corner glyphs; corners fall back to the
	// single-line set, matching how real terminal UI toolkits render
	// dashed borders.
	sns.BorderDashed: buildStyle('╌', '╎', '┌', '┐', '└', '┘'),
	sns.BorderASCII:  buildStyle('-', '|', '+', '+', '+', '+'),
}

func inClipCell(x, y int, clip rect) bool {
	return float32(x) >= clip.x0 && float32(x) < clip.x1 && float32(y) >= clip.y0 && float32(y) < clip.y1
}

// paintBorder draws box-drawing glyphs around box's edge, after content
// has already been painted, so borders never get overwritten (§4.5:
// "applies border drawing last per node"). Per-side widths beyond 1 cell
// just repeat the straight-line glyph inward; only the outermost row/
// column gets corner treatment.
func (p *painter) paintBorder(n *sns.Node, box rect, clip rect) {
	style, ok := borderStyles[n.BorderStyle]
	if !ok {
		return
	}
	x0, y0, x1, y1 := box.ints()
	if x1 <= x0 || y1 <= y0 {
		return
	}
	lastX, lastY := x1-1, y1-1

	top := n.BorderTWidth > 0
	right := n.BorderRWidth > 0
	bottom := n.BorderBWidth > 0
	left := n.BorderLWidth > 0

	set := func(x, y int, g rune) {
		if g == 0 || !inClipCell(x, y, clip) {
			return
		}
		p.fb.set(x, y, Cell{Glyph: g, Fg: n.BorderColor})
	}

	presenceOf := func(a, b bool) presence {
		pr := presenceNone
		if a {
			pr |= presenceHoriz
		}
		if b {
			pr |= presenceVert
		}
		return pr
	}

	if top {
		for x := x0; x <= lastX; x++ {
			g := style.H
			switch x {
			case x0:
				g = style.TL[presenceOf(top, left)]
			case lastX:
				g = style.TR[presenceOf(top, right)]
			}
			set(x, y0, g)
		}
		for row := 1; row < int(n.BorderTWidth); row++ {
			for x := x0; x <= lastX; x++ {
				set(x, y0+row, style.H)
			}
		}
	}
	if bottom {
		for x := x0; x <= lastX; x++ {
			g := style.H
			switch x {
			case x0:
				g = style.BL[presenceOf(bottom, left)]
			case lastX:
				g = style.BR[presenceOf(bottom, right)]
			}
			set(x, lastY, g)
		}
		for row := 1; row < int(n.BorderBWidth); row++ {
			for x := x0; x <= lastX; x++ {
				set(x, lastY-row, style.H)
			}
		}
	}
	// With no top/bottom side, the vertical sides run through the corner
	// row, where the corner's vertical-only glyph is the straight line.
	vy0, vy1 := y0+1, lastY
	if !top {
		vy0 = y0
	}
	if !bottom {
		vy1 = lastY + 1
	}
	if left {
		for y := vy0; y < vy1; y++ {
			set(x0, y, style.V)
		}
		for col := 1; col < int(n.BorderLWidth); col++ {
			for y := vy0; y < vy1; y++ {
				set(x0+col, y, style.V)
			}
		}
	}
	if right {
		for y := vy0; y < vy1; y++ {
			set(lastX, y, style.V)
		}
		for col := 1; col < int(n.BorderRWidth); col++ {
			for y := vy0; y < vy1; y++ {
				set(lastX-col, y, style.V)
			}
		}
	}
}
