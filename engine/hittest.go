package engine

import "github.com/RLabs-Inc/sparktui/sns"

// hitTest walks the tree depth-first, same pre-order FC paints in, and
// returns the innermost visible node whose computed screen rect contains
// (x, y), accumulating ancestor scroll offsets the way compositor.paint
// does (§4.5's offset rule applies equally to hit-testing a point back
// into node space).
func hitTest(store *sns.Store, x, y int32) (int32, bool) {
	nodes := store.Nodes()
	if len(nodes) == 0 {
		return 0, false
	}
	children := make(map[int32][]int32, len(nodes))
	for i := range nodes {
		if int32(i) == 0 {
			continue
		}
		p := nodes[i].ParentIndex
		children[p] = append(children[p], int32(i))
	}

	best := int32(-1)
	var walk func(idx int32, offX, offY float32)
	walk = func(idx int32, offX, offY float32) {
		n := &nodes[idx]
		if n.Visible == 0 || n.Display == sns.DisplayNone {
			return
		}
		x0 := n.ComputedX + offX
		y0 := n.ComputedY + offY
		x1 := x0 + n.ComputedW
		y1 := y0 + n.ComputedH
		if float32(x) >= x0 && float32(x) < x1 && float32(y) >= y0 && float32(y) < y1 {
			best = idx
		}
		childOffX, childOffY := offX-n.ScrollX, offY-n.ScrollY
		for _, c := range children[idx] {
			walk(c, childOffX, childOffY)
		}
	}
	walk(0, 0, 0)

	if best < 0 {
		return 0, false
	}
	return best, true
}
