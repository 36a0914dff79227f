package reactive

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/RLabs-Inc/sparktui/internal/sperr"
)

// derivedBase.evaluating marks a derived currently being evaluated on the
// call stack, so a derived that transitively reads itself is caught
// instead of recursing forever (§4.2 "cycles among deriveds are
// forbidden... MUST detect them on first evaluation", §8 scenario 6). RG
// is single-threaded per spec §5, so this per-derived flag (checked by
// any reader reached through the active call chain) is sufficient —
// matching the teacher's single global activeSubscriber rather than a
// goroutine-local stack.
type derivedBase struct {
	mu           sync.Mutex
	dirty        bool
	dependencies map[dependency]struct{}
	subscribers  map[subscriber]struct{}
	revision     uint64
	evaluating   bool
}

func newDerivedBase() *derivedBase {
	return &derivedBase{
		dirty:        true,
		dependencies: make(map[dependency]struct{}),
		subscribers:  make(map[subscriber]struct{}),
	}
}

func (d *derivedBase) subscribe(sub subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[sub] = struct{}{}
}

func (d *derivedBase) unsubscribe(sub subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.subscribers, sub)
}

func (d *derivedBase) addDependency(dep dependency) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dependencies[dep] = struct{}{}
}

func (d *derivedBase) onDependencyUpdated() {
	d.mu.Lock()
	if d.dirty {
		d.mu.Unlock()
		return
	}
	d.dirty = true
	subs := make([]subscriber, 0, len(d.subscribers))
	for sub := range d.subscribers {
		subs = append(subs, sub)
	}
	d.mu.Unlock()

	for _, sub := range subs {
		sub.onDependencyUpdated()
	}
}

// Derived is a lazily-evaluated, memoized computation over other cells
// (§4.2 derived(fn)).
type Derived[T any] struct {
	base  *derivedBase
	fn    func() T
	value T
}

// NewDerived creates a derived cell. fn runs lazily, on first Get.
func NewDerived[T any](fn func() T) *Derived[T] {
	return &Derived[T]{base: newDerivedBase(), fn: fn}
}

func (d *Derived[T]) subscribe(sub subscriber)   { d.base.subscribe(sub) }
func (d *Derived[T]) unsubscribe(sub subscriber) { d.base.unsubscribe(sub) }

// GetValue implements Getter.
func (d *Derived[T]) GetValue() interface{} { return d.Get() }

// Revision returns the derived's own monotonic revision, bumped only when
// a re-evaluation produces a structurally different value (§4.2).
func (d *Derived[T]) Revision() uint64 {
	d.base.mu.Lock()
	defer d.base.mu.Unlock()
	return d.base.revision
}

// Get returns the current value, re-evaluating fn if any dependency has
// changed since the last evaluation. Panics with TryGet's error, which
// wraps sperr.ErrReactiveCycle, if fn transitively reads this derived.
func (d *Derived[T]) Get() T {
	val, err := d.TryGet()
	if err != nil {
		panic(err)
	}
	return val
}

// TryGet is Get without the panic, for callers (and tests) that want to
// handle ReactiveCycle explicitly, per §8 scenario 6 ("First read of
// either MUST raise a ReactiveCycle").
func (d *Derived[T]) TryGet() (result T, err error) {
	trackRead(d)

	d.base.mu.Lock()
	if d.base.evaluating {
		d.base.mu.Unlock()
		return result, fmt.Errorf("derived cycle: %w", sperr.ErrReactiveCycle)
	}

	if !d.base.dirty {
		result = d.value
		d.base.mu.Unlock()
		return result, nil
	}

	// Cleanup old dependencies before re-running.
	for dep := range d.base.dependencies {
		dep.unsubscribe(d)
	}
	d.base.dependencies = make(map[dependency]struct{})
	d.base.evaluating = true
	d.base.mu.Unlock()

	activeMu.Lock()
	prev := activeSubscriber
	activeSubscriber = d
	activeMu.Unlock()

	newVal, panicked := runFn(d.fn)

	activeMu.Lock()
	activeSubscriber = prev
	activeMu.Unlock()

	d.base.mu.Lock()
	d.base.evaluating = false
	if panicked != nil {
		d.base.mu.Unlock()
		return result, panicked
	}

	if !reflect.DeepEqual(d.value, newVal) {
		d.base.revision++
	}
	d.value = newVal
	d.base.dirty = false
	result = d.value
	d.base.mu.Unlock()

	return result, nil
}

func (d *Derived[T]) addDependency(dep dependency) { d.base.addDependency(dep) }
func (d *Derived[T]) onDependencyUpdated()         { d.base.onDependencyUpdated() }

// runFn executes fn, converting a cycle panic raised deeper in the call
// graph into an error instead of letting it unwind past this derived
// (§7: "Surfaced at the offending write; the write is aborted").
func runFn[T any](fn func() T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	result = fn()
	return result, nil
}
