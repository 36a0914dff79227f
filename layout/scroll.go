package layout

import "github.com/RLabs-Inc/sparktui/sns"

// clampScroll computes scroll_max_{x,y} = max(0, content_size -
// viewport_size) for every node and clamps scroll_{x,y} into range
// (§4.4 step 6). Runs after position so content_w/content_h reflect the
// final layout.
func (e *Engine) clampScroll(nodes []sns.Node, children map[int32][]int32) {
	for i := range nodes {
		n := &nodes[i]
		n.ScrollMaxX = maxf(0, n.ContentW-n.ComputedW)
		n.ScrollMaxY = maxf(0, n.ContentH-n.ComputedH)
		n.ScrollX = clampf(n.ScrollX, 0, n.ScrollMaxX)
		n.ScrollY = clampf(n.ScrollY, 0, n.ScrollMaxY)
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// ApplyScroll adds (dx, dy) to node idx's scroll offset, clamping into
// [0, scroll_max], and returns the unconsumed residue — the amount that
// didn't fit because the node was already at its scroll boundary. Callers
// chain the residue to an ancestor scrollable (§4.4 step 6, §8 scenario
// 4: "a further scroll that exceeds inner's remaining range applies the
// residue to the outer container").
func ApplyScroll(store *sns.Store, idx int32, dx, dy float32) (residueX, residueY float32) {
	n := store.NodeAt(idx)
	if n == nil {
		return dx, dy
	}
	if n.Overflow != sns.OverflowScroll {
		return dx, dy
	}

	wantX := n.ScrollX + dx
	newX := clampf(wantX, 0, n.ScrollMaxX)
	residueX = wantX - newX

	wantY := n.ScrollY + dy
	newY := clampf(wantY, 0, n.ScrollMaxY)
	residueY = wantY - newY

	n.ScrollX, n.ScrollY = newX, newY
	store.MarkDirty(idx, sns.DirtyVisual)
	store.Wake()
	return residueX, residueY
}

// ScrollChain walks from idx up through ancestors (via parentOf), applying
// scroll deltas and handing any residue to the next ancestor whose
// overflow is scroll, stopping once both axes are fully consumed or the
// root is reached.
func ScrollChain(store *sns.Store, parentOf func(int32) int32, idx int32, dx, dy float32) {
	cur := idx
	for cur >= 0 && (dx != 0 || dy != 0) {
		dx, dy = ApplyScroll(store, cur, dx, dy)
		cur = parentOf(cur)
	}
}
