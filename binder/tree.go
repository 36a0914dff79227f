// Package binder implements the Primitive Binder (PB, spec §4.3): the
// thin authoring facade (box, text, input, each, show, cycle, pulse) that
// allocates SNS node indices, binds their fields to signal/derived
// outputs via effects, sets dirty flags, and wakes the engine.
//
// Grounded on the teacher's tui/layout_api.go (Row/Col/Box builder idiom)
// and cmd/example10_layout's pattern of composing Computed trees; PB
// generalizes "one effect for the whole frame" (teacher's tui/render.go
// Render) into "one effect per reactive field", which is what makes
// dirty-flag coalescing (spec §3.3) meaningful instead of vacuous.
package binder

import (
	"sync"

	"github.com/RLabs-Inc/sparktui/reactive"
	"github.com/RLabs-Inc/sparktui/sns"
)

// Tree is the authoring handle bound to one Shared Node Store. All box/
// text/input/each/show calls go through a Tree so multiple independent
// UIs (e.g. in tests) can coexist without package-level global state.
type Tree struct {
	store *sns.Store

	mu     sync.Mutex
	parent int32 // current parent index; -1 means "no node yet" (root)

	// Focused is the currently focused node index (-1 = none). EL reads
	// it when routing drained KeyEvents (§6.1 point 3: "focused-node
	// routing for keys"); input() nodes subscribe a key handler here.
	Focused     *reactive.Signal[int32]
	keyHandlers map[int32]func(sns.Event)
}

// NewTree creates an authoring handle over store.
func NewTree(store *sns.Store) *Tree {
	return &Tree{
		store:       store,
		parent:      -1,
		Focused:     reactive.New[int32](-1),
		keyHandlers: make(map[int32]func(sns.Event)),
	}
}

// Store returns the underlying Shared Node Store.
func (t *Tree) Store() *sns.Store { return t.store }

// currentParent reads the parent index new nodes should attach to.
func (t *Tree) currentParent() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.parent
}

// withParent runs fn with idx as the current parent, restoring the
// previous parent afterward — this is how children() nest under the node
// that just reserved them (§4.3: "Runs children() within a child-scope so
// each child's parent_index is this node").
func (t *Tree) withParent(idx int32, fn func()) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	prev := t.parent
	t.parent = idx
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.parent = prev
		t.mu.Unlock()
	}()

	fn()
}

// reserve allocates a node, parents it under the current parent, and
// applies component-independent defaults.
func (t *Tree) reserve(kind sns.ComponentType) (int32, error) {
	idx, err := t.store.ReserveNode()
	if err != nil {
		return -1, err
	}
	n := t.store.NodeAt(idx)
	n.ComponentType = kind
	n.Visible = 1
	n.FocusOrder = -1
	n.FlexShrink = 1

	if idx != 0 {
		if err := t.store.SetParent(idx, t.currentParent()); err != nil {
			return -1, err
		}
	}
	t.store.MarkDirty(idx, sns.DirtyHierarchy)
	t.store.Wake()
	return idx, nil
}

// RegisterKeyHandler associates idx with a handler EL invokes whenever
// idx is the focused node and a KeyEvent is drained from the event ring.
func (t *Tree) RegisterKeyHandler(idx int32, fn func(sns.Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keyHandlers[idx] = fn
}

// UnregisterKeyHandler removes idx's handler (called on node release).
func (t *Tree) UnregisterKeyHandler(idx int32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.keyHandlers, idx)
}

// DispatchKey routes ev to the currently focused node's handler, if any.
// EL calls this once per drained KeyEvent.
func (t *Tree) DispatchKey(ev sns.Event) {
	focused := t.Focused.Peek()
	t.mu.Lock()
	fn := t.keyHandlers[focused]
	t.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// Focus moves focus to idx (no bounds/focusable check here — FocusNext/
// FocusPrev enforce that; Focus itself accepts any index so callers can
// focus a node they just allocated).
func (t *Tree) Focus(idx int32) { t.Focused.Set(idx) }

// Blur clears focus.
func (t *Tree) Blur() { t.Focused.Set(-1) }

// FocusNext moves focus to the next visible, focusable node in
// focus_order after the current one, wrapping around. A no-op if no node
// is focusable.
func (t *Tree) FocusNext() { t.stepFocus(1) }

// FocusPrev is FocusNext's mirror, moving backward in focus_order.
func (t *Tree) FocusPrev() { t.stepFocus(-1) }

func (t *Tree) stepFocus(dir int) {
	nodes := t.store.Nodes()
	type cand struct {
		idx   int32
		order int32
	}
	var cands []cand
	for i := range nodes {
		n := &nodes[i]
		if n.Focusable != 0 && n.Visible != 0 && n.FocusOrder >= 0 {
			cands = append(cands, cand{idx: int32(i), order: n.FocusOrder})
		}
	}
	if len(cands) == 0 {
		return
	}
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			if cands[j].order < cands[i].order {
				cands[i], cands[j] = cands[j], cands[i]
			}
		}
	}
	current := t.Focused.Peek()
	pos := -1
	for i, c := range cands {
		if c.idx == current {
			pos = i
			break
		}
	}
	next := 0
	if pos >= 0 {
		next = ((pos+dir)%len(cands) + len(cands)) % len(cands)
	} else if dir < 0 {
		next = len(cands) - 1
	}
	t.Focus(cands[next].idx)
}

// bindOrSet applies a static value once, or — if v is a reactive.Getter —
// creates an effect that re-applies it whenever the dependency changes
// (§4.3: "creates one effect per signal/derived field"). v == nil is a
// no-op (field left at its Reset default).
func bindOrSet[T any](t *Tree, idx int32, v any, dirty sns.DirtyBit, apply func(T)) {
	if v == nil {
		return
	}
	if g, ok := v.(reactive.Getter); ok {
		reactive.CreateEffect(func() {
			val, _ := g.GetValue().(T)
			apply(val)
			t.store.MarkDirty(idx, dirty)
			t.store.Wake()
		})
		return
	}
	val, _ := v.(T)
	apply(val)
	t.store.MarkDirty(idx, dirty)
}
