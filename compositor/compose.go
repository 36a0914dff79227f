// Package compositor implements the Framebuffer Compositor (FC, spec
// §4.5): it walks the laid-out tree in pre-order and rasterizes borders,
// backgrounds, and text into a 2-D cell grid, clipped to every ancestor
// whose overflow isn't visible. Grounded on the teacher's
// tui/layout_engine.go Draw/drawBorder/drawContent (same pre-order
// parents-then-children paint, same "borders drawn after content so they
// never get overwritten" ordering) and tui/screen.go's Cell/Buffer shape,
// generalized from a single ANSI Style struct to packed fg/bg RGBA plus
// an attrs bitset, and from "no clipping at all" to ancestor-scroll-aware
// clip rectangles since the teacher has no scrolling.
package compositor

import (
	"sort"

	"github.com/RLabs-Inc/sparktui/internal/cellwidth"
	"github.com/RLabs-Inc/sparktui/internal/color"
	"github.com/RLabs-Inc/sparktui/layout"
	"github.com/RLabs-Inc/sparktui/sns"
)

// Cell is one framebuffer cell: a glyph plus its visual attributes.
// Continuation marks the trailing cell of a two-wide glyph so DR never
// emits a glyph for it (§4.5 point 3).
type Cell struct {
	Glyph        rune
	Fg, Bg       color.RGBA
	Attrs        sns.Attrs
	Continuation bool
}

// Buffer is a terminal-sized grid of Cells, owned by EL and reallocated
// on resize (§3.4 "Framebuffer" lifecycle).
type Buffer struct {
	Width, Height int
	Cells         []Cell
}

// NewBuffer allocates a blank width x height buffer.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{Width: width, Height: height, Cells: make([]Cell, width*height)}
}

// Resize grows or shrinks the buffer in place, discarding old content —
// FC repaints the whole tree every frame a resize occurred, so there is
// nothing worth preserving (unlike the teacher's Buffer.Resize, which
// copies the overlapping region since its Screen.Render only diffs, it
// never fully repaints).
func (b *Buffer) Resize(width, height int) {
	b.Width, b.Height = width, height
	b.Cells = make([]Cell, width*height)
}

// Clear resets every cell to blank.
func (b *Buffer) Clear() {
	for i := range b.Cells {
		b.Cells[i] = Cell{Glyph: ' '}
	}
}

// Get returns the cell at (x, y), or the zero Cell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Cell{}
	}
	return b.Cells[y*b.Width+x]
}

func (b *Buffer) set(x, y int, c Cell) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	b.Cells[y*b.Width+x] = c
}

// Engine composes one Store's laid-out tree into a Buffer.
type Engine struct {
	store *sns.Store
}

// New creates a compositor bound to store.
func New(store *sns.Store) *Engine {
	return &Engine{store: store}
}

// CaretInfo reports where DR should place the terminal cursor, if any
// node requested one (§4.5 point 5, §4.6 "Cursor").
type CaretInfo struct {
	X, Y    int
	Visible bool
}

// Compose rasterizes the tree rooted at node 0 into fb, which must
// already be sized to the store's terminal dimensions. focused is the
// currently focused node index (-1 for none); EL supplies it since focus
// state lives in the authoring layer's reactive graph, not in SNS.
func (e *Engine) Compose(fb *Buffer, focused int32) CaretInfo {
	fb.Clear()
	nodes := e.store.Nodes()
	if len(nodes) == 0 {
		return CaretInfo{}
	}
	children := gatherChildren(nodes)

	p := &painter{store: e.store, fb: fb, nodes: nodes, children: children, focused: focused}
	p.paint(0, 0, 0, rect{0, 0, float32(fb.Width), float32(fb.Height)})

	for i := range nodes {
		e.store.ClearDirty(int32(i), sns.DirtyVisual|sns.DirtyText)
	}
	return p.caret
}

func gatherChildren(nodes []sns.Node) map[int32][]int32 {
	out := make(map[int32][]int32)
	for i := range nodes {
		if int32(i) == 0 {
			continue
		}
		p := nodes[i].ParentIndex
		out[p] = append(out[p], int32(i))
	}
	for p, kids := range out {
		sort.SliceStable(kids, func(a, b int) bool {
			return nodes[kids[a]].SiblingOrder < nodes[kids[b]].SiblingOrder
		})
		out[p] = kids
	}
	return out
}

type painter struct {
	store    *sns.Store
	fb       *Buffer
	nodes    []sns.Node
	children map[int32][]int32
	focused  int32
	caret    CaretInfo
}

// paint draws node idx and its subtree. offX/offY accumulate negative
// ancestor scroll offsets; clip is the intersection of every ancestor's
// inner rect for ancestors whose overflow != visible (§4.5 "Clipping").
func (p *painter) paint(idx int32, offX, offY float32, clip rect) {
	n := &p.nodes[idx]
	if n.Visible == 0 || n.Display == sns.DisplayNone {
		return
	}

	x0 := n.ComputedX + offX
	y0 := n.ComputedY + offY
	nodeRect := rect{x0, y0, x0 + n.ComputedW, y0 + n.ComputedH}
	visible := nodeRect.intersect(clip)

	if n.BgColor != color.Transparent {
		p.fillBg(visible, n.BgColor)
	}

	borderT, borderR := float32(n.BorderTWidth), float32(n.BorderRWidth)
	borderB, borderL := float32(n.BorderBWidth), float32(n.BorderLWidth)
	innerRect := rect{x0 + borderL, y0 + borderT, x0 + n.ComputedW - borderR, y0 + n.ComputedH - borderB}

	switch n.ComponentType {
	case sns.ComponentText, sns.ComponentInput:
		p.paintText(idx, n, innerRect, clip)
	}

	if n.BorderStyle != sns.BorderNone {
		p.paintBorder(n, nodeRect, clip)
	}

	if n.ComponentType == sns.ComponentInput && idx == p.focused {
		p.placeCaret(n, innerRect, clip)
	}

	childClip := clip
	if n.Overflow != sns.OverflowVisible {
		childClip = innerRect.intersect(clip)
	}
	childOffX, childOffY := offX-n.ScrollX, offY-n.ScrollY
	for _, c := range p.children[idx] {
		p.paint(c, childOffX, childOffY, childClip)
	}
}

func (p *painter) fillBg(r rect, bg color.RGBA) {
	x0, y0, x1, y1 := r.ints()
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			cell := p.fb.Get(x, y)
			cell.Bg = bg
			if cell.Glyph == 0 {
				cell.Glyph = ' '
			}
			p.fb.set(x, y, cell)
		}
	}
}

// paintText draws a node's wrapped text (wrapped the same way LE measured
// it, via layout.WrapLines so FC paints exactly what LE measured) honoring
// text_align and clipping each glyph individually. Wide glyphs mark their
// trailing cell as a continuation (§4.5 point 3).
func (p *painter) paintText(idx int32, n *sns.Node, content, clip rect) {
	text := p.store.ReadText(idx)
	innerW := int(content.x1 - content.x0)
	if innerW <= 0 {
		return
	}
	lines := layout.WrapLines(text, innerW, n.TextWrap)
	vis := content.intersect(clip)
	x0, _, _, _ := vis.ints()

	for row, line := range lines {
		y := int(content.y0) + row
		if y < int(vis.y0) || y >= int(vis.y1) {
			continue
		}
		lineW := cellwidth.String(line)
		startX := int(content.x0)
		switch n.TextAlign {
		case sns.TextAlignCenter:
			startX += (innerW - lineW) / 2
		case sns.TextAlignEnd:
			startX += innerW - lineW
		}

		col := startX
		for _, r := range line {
			w := cellwidth.Rune(r)
			if col >= x0 && col < int(vis.x1) {
				p.fb.set(col, y, Cell{Glyph: r, Fg: n.FgColor, Bg: n.BgColor, Attrs: n.Attrs})
				for k := 1; k < w; k++ {
					if col+k >= x0 && col+k < int(vis.x1) {
						p.fb.set(col+k, y, Cell{Glyph: 0, Fg: n.FgColor, Bg: n.BgColor, Attrs: n.Attrs, Continuation: true})
					}
				}
			}
			col += w
		}
	}
}

func (p *painter) placeCaret(n *sns.Node, content, clip rect) {
	x := int(content.x0) + int(n.CaretCol)
	y := int(content.y0)
	vis := content.intersect(clip)
	if float32(x) < vis.x0 || float32(x) >= vis.x1 || float32(y) < vis.y0 || float32(y) >= vis.y1 {
		p.caret = CaretInfo{}
		return
	}
	p.caret = CaretInfo{X: x, Y: y, Visible: true}
}
