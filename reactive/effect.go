package reactive

import (
	"log"
	"sync"
)

// Effect is a side-effecting subscriber (§4.2 effect(fn)). Grounded
// directly on signals.Effect in the teacher, generalized to register with
// the currently open Scope (the teacher leaks every effect for the
// process lifetime) and to recover+log instead of propagating a panic
// from fn (§7: "effects that throw log and are NOT automatically
// retried").
type Effect struct {
	mu           sync.Mutex
	fn           func()
	dependencies map[dependency]struct{}
	disposed     bool
}

// CreateEffect runs fn immediately and re-runs it whenever a dependency
// read during the run changes. If a Scope is currently open (via Scoped),
// the effect is registered with it and disposed when the scope disposes.
func CreateEffect(fn func()) *Effect {
	e := &Effect{
		fn:           fn,
		dependencies: make(map[dependency]struct{}),
	}
	if s := currentScopeValue(); s != nil {
		s.addEffect(e)
	}
	e.Run()
	return e
}

func (e *Effect) addDependency(d dependency) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dependencies[d] = struct{}{}
}

func (e *Effect) onDependencyUpdated() {
	batchMu.Lock()
	if batchDepth > 0 {
		if batchQueue == nil {
			batchQueue = make(map[subscriber]struct{})
		}
		batchQueue[e] = struct{}{}
		batchMu.Unlock()
		return
	}
	batchMu.Unlock()

	e.Run()
}

// Run re-executes fn, re-subscribing to whatever dependencies this run
// reads (teacher's "unsubscribe all, then re-subscribe as we run"
// strategy — simple and correct, kept as-is).
func (e *Effect) Run() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	oldDeps := e.dependencies
	e.dependencies = make(map[dependency]struct{})
	e.mu.Unlock()

	for dep := range oldDeps {
		dep.unsubscribe(e)
	}

	activeMu.Lock()
	prev := activeSubscriber
	activeSubscriber = e
	activeMu.Unlock()

	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("sparktui: effect panicked, not retried: %v", r)
			}
		}()
		e.fn()
	}()

	activeMu.Lock()
	activeSubscriber = prev
	activeMu.Unlock()
}

// Dispose unsubscribes the effect from every dependency and marks it
// inert; re-running it after Dispose is a no-op (§8 property 8: "no
// leaked subscriptions").
func (e *Effect) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	e.disposed = true
	for dep := range e.dependencies {
		dep.unsubscribe(e)
	}
	e.dependencies = nil
}
