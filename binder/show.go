package binder

import (
	"github.com/RLabs-Inc/sparktui/reactive"
	"github.com/RLabs-Inc/sparktui/sns"
)

// ShowHandle disposes whichever branch is currently mounted.
type ShowHandle struct {
	effect *reactive.Effect
}

// Dispose tears down the active branch and stops watching predicate.
func (h *ShowHandle) Dispose() { h.effect.Dispose() }

// Show is the conditional-mount primitive (§4.3 show(predicate, then,
// else?)). On toggle it disposes the inactive branch's scope and builds
// the active one fresh — unlike Each, branches are not diffed field by
// field, since swapping entire subtrees is the point (e.g. a loading
// spinner vs. the loaded content).
func Show(t *Tree, predicate func() bool, then func(t *Tree) int32, elseFn func(t *Tree) int32) *ShowHandle {
	parent := t.currentParent()
	var active *reactive.Scope
	var activeRoot int32 = -1

	eff := reactive.CreateEffect(func() {
		want := predicate()

		if active != nil {
			active.Dispose()
			t.releaseSubtree(activeRoot)
			active = nil
			activeRoot = -1
		}

		build := elseFn
		if want {
			build = then
		}
		if build != nil {
			active = reactive.Scoped(func() {
				t.withParent(parent, func() {
					activeRoot = build(t)
				})
			})
		}

		if parent >= 0 {
			t.store.MarkDirty(parent, sns.DirtyHierarchy)
		}
		t.store.Wake()
	})

	return &ShowHandle{effect: eff}
}

// When runs fn for as long as predicate is true, disposing its scope the
// moment predicate turns false and rebuilding it if it turns true again.
// It is Show without a node-producing branch — for gating side effects
// (e.g. "only poll while visible") rather than mounting/unmounting a
// subtree.
func When(predicate func() bool, fn func()) *ShowHandle {
	var active *reactive.Scope

	eff := reactive.CreateEffect(func() {
		want := predicate()
		if active != nil {
			active.Dispose()
			active = nil
		}
		if want && fn != nil {
			active = reactive.Scoped(fn)
		}
	})

	return &ShowHandle{effect: eff}
}
