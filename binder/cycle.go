package binder

import (
	"sync"
	"time"

	"github.com/RLabs-Inc/sparktui/reactive"
)

// sharedTick is the single time source for every cycle()/pulse() cell
// requesting a given fps (§4.3: "cells that match on (fps, active) share
// the same tick signal"). Grounded in shape on the teacher's lack of any
// equivalent — animation is new territory this spec adds over the
// teacher — but kept in the reactive idiom: the ticker just Sets a
// Signal, and ordinary dependency tracking does the rest.
type sharedTick struct {
	tick *reactive.Signal[uint64]
}

var (
	ticksMu sync.Mutex
	ticks   = map[float64]*sharedTick{}
)

func tickerFor(fps float64) *sharedTick {
	if fps <= 0 {
		fps = 1
	}
	ticksMu.Lock()
	defer ticksMu.Unlock()

	if st, ok := ticks[fps]; ok {
		return st
	}
	st := &sharedTick{tick: reactive.New[uint64](0)}
	ticks[fps] = st

	go func() {
		period := time.Duration(float64(time.Second) / fps)
		if period <= 0 {
			period = time.Millisecond
		}
		t := time.NewTicker(period)
		for range t.C {
			st.tick.Update(func(n uint64) uint64 { return n + 1 })
		}
	}()

	return st
}

// CycleOptions configures cycle()/pulse() (§4.3). Active, if set, is
// checked on every evaluation so it can itself be reactive (e.g. a
// Signal[bool]); nil Active means "always active".
type CycleOptions struct {
	FPS    float64
	Active func() bool
}

// Cycle produces a reactive cell that advances through frames at
// fps ticks/second, frozen on frames[0] while Active() is false.
func Cycle[T any](frames []T, opts CycleOptions) *reactive.Derived[T] {
	st := tickerFor(opts.FPS)
	return reactive.NewDerived(func() T {
		if opts.Active != nil && !opts.Active() {
			return frames[0]
		}
		n := st.tick.Get()
		return frames[int(n%uint64(len(frames)))]
	})
}

// Pulse is Cycle over the two-frame sequence [true, false] — the common
// case of a blinking caret or a flashing highlight.
func Pulse(opts CycleOptions) *reactive.Derived[bool] {
	return Cycle([]bool{true, false}, opts)
}
