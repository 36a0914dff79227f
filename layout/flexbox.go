// Package layout implements the Layout Engine (LE, spec §4.4): a
// flexbox-semantics pass over SNS nodes that computes computed_{x,y,w,h},
// content_{w,h}, and scroll clamps. Grounded on the teacher's
// tui/layout_engine.go Measure/Draw two-phase walk (fixed/auto/flex
// sizing, availableSpace distribution), generalized from its 3-way
// Size{Fixed,Auto,Flex} enum to full CSS-flexbox-shaped sizing: flex_grow
// and flex_shrink are independent of width/height, percent is resolved
// against the containing block, and cross-axis alignment/wrap/gap are
// all new relative to the teacher.
package layout

import (
	"sort"

	"github.com/RLabs-Inc/sparktui/internal/sperr"
	"github.com/RLabs-Inc/sparktui/sns"
)

// Engine runs the layout pass over one Store.
type Engine struct {
	store *sns.Store
}

// New creates a layout engine bound to store.
func New(store *sns.Store) *Engine {
	return &Engine{store: store}
}

// Run executes the full LE pass (§4.4 algorithm steps 1-7), skipping
// entirely if no node has LAYOUT|HIERARCHY dirty (§4.4 state machine).
// Returns sperr.ErrInvalidTree if the parent_index invariant is violated.
func (e *Engine) Run() error {
	nodes := e.store.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	if !e.store.AnyDirty(sns.DirtyLayout | sns.DirtyHierarchy) {
		return nil
	}
	if err := checkAcyclic(nodes); err != nil {
		return err
	}

	children := gatherChildren(nodes)
	cols, rows := e.store.TerminalSize()

	e.measure(0, nodes, children, float32(cols), float32(rows))
	e.position(0, nodes, children, 0, 0)
	e.clampScroll(nodes, children)

	for i := range nodes {
		e.store.ClearDirty(int32(i), sns.DirtyLayout|sns.DirtyHierarchy)
	}
	return nil
}

// checkAcyclic verifies parent_index[i] < i for all i >= 1 (§4.1's
// topological-order invariant); a violation can only mean external
// corruption of the store, since Store.SetParent enforces it on write.
func checkAcyclic(nodes []sns.Node) error {
	for i := 1; i < len(nodes); i++ {
		if nodes[i].ParentIndex >= int32(i) {
			return sperr.ErrInvalidTree
		}
	}
	return nil
}

// gatherChildren builds parent -> children adjacency, ordered by
// sibling_order then index (stable), per §4.4 step 1 and the each()
// reordering contract in §4.3.
func gatherChildren(nodes []sns.Node) map[int32][]int32 {
	out := make(map[int32][]int32)
	for i := range nodes {
		p := nodes[i].ParentIndex
		if int32(i) == 0 {
			continue // root has no parent slot to attach under
		}
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

func clampf(v, lo, hi float32) float32 {
	if !sns.IsAuto(lo) && v < lo {
		v = lo
	}
	if !sns.IsAuto(hi) && v > hi {
		v = hi
	}
	return v
}

// resolveSize converts a Node box-model field (NaN=auto, negative=percent,
// positive=fixed cells) to a concrete cell count against containing base.
// fallback is returned for auto.
func resolveSize(v, base, fallback float32) float32 {
	if sns.IsAuto(v) {
		return fallback
	}
	if sns.IsPercent(v) {
		return base * sns.PercentValue(v) / 100
	}
	if v < 0 || v != v {
		return 0 // non-finite/garbage clamps to 0 per §4.4 failure semantics
	}
	return v
}

func isMainAxisRow(dir sns.Direction) bool {
	return dir == sns.DirectionRow || dir == sns.DirectionRowReverse
}

func isReverse(dir sns.Direction) bool {
	return dir == sns.DirectionRowReverse || dir == sns.DirectionColumnReverse
}
