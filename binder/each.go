package binder

import (
	"github.com/RLabs-Inc/sparktui/reactive"
	"github.com/RLabs-Inc/sparktui/sns"
)

// eachEntry tracks one reconciled subtree: its value cell (re-Set on
// update so the subtree's own effects re-render in place instead of being
// torn down), the scope owning everything render created, and the root
// node index used for sibling_order bookkeeping.
type eachEntry[T any] struct {
	value *reactive.Signal[T]
	scope *reactive.Scope
	root  int32
}

// EachHandle lets the caller dispose the whole keyed list (all live
// entries and the reconciling effect) as a unit.
type EachHandle struct {
	effect *reactive.Effect
}

// Dispose tears down the reconciling effect and every live entry's scope.
func (h *EachHandle) Dispose() { h.effect.Dispose() }

// Each is the keyed list reconciler (§4.3 each(source, render, {key})).
// source is read inside a tracking effect (typically `func() []T { return
// list.Get() }`); on any dependency change it diffs previous/next keys:
// matched keys update in place (their value Signal is re-Set, no subtree
// rebuild), removed keys' subtrees are disposed, added keys get fresh
// subtrees built via render, and surviving nodes are given a fresh
// sibling_order reflecting the new list order. Marks HIERARCHY on the
// enclosing parent exactly once per reconcile, matching the coalesced-
// wake contract in §4.3.
func Each[T any, K comparable](t *Tree, source func() []T, keyFn func(T) K, render func(t *Tree, item *reactive.Signal[T], index int) int32) *EachHandle {
	entries := make(map[K]*eachEntry[T])
	parent := t.currentParent()

	eff := reactive.CreateEffect(func() {
		items := source()
		seen := make(map[K]bool, len(items))

		for i, item := range items {
			k := keyFn(item)
			seen[k] = true
			if e, ok := entries[k]; ok {
				e.value.Set(item)
				t.store.NodeAt(e.root).SiblingOrder = int32(i)
				continue
			}
			e := &eachEntry[T]{value: reactive.New(item)}
			e.scope = reactive.Scoped(func() {
				t.withParent(parent, func() {
					e.root = render(t, e.value, i)
				})
			})
			if n := t.store.NodeAt(e.root); n != nil {
				n.SiblingOrder = int32(i)
			}
			entries[k] = e
		}

		for k, e := range entries {
			if !seen[k] {
				e.scope.Dispose()
				t.releaseSubtree(e.root)
				delete(entries, k)
			}
		}

		if parent >= 0 {
			t.store.MarkDirty(parent, sns.DirtyHierarchy)
		}
		t.store.Wake()
	})

	return &EachHandle{effect: eff}
}

// releaseSubtree releases idx and every node transitively parented under
// it, deepest first, so ReleaseNode never sees a node with live children.
func (t *Tree) releaseSubtree(idx int32) {
	if idx < 0 {
		return
	}
	nodes := t.store.Nodes()
	var children []int32
	for i := range nodes {
		if nodes[i].ParentIndex == idx {
			children = append(children, int32(i))
		}
	}
	for _, c := range children {
		t.releaseSubtree(c)
	}
	t.UnregisterKeyHandler(idx)
	t.store.ReleaseNode(idx)
}
