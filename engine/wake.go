package engine

import (
	"runtime"
	"time"
)

// Adaptive wake-wait tiers (§4.8 step 1): a tight spin observes a wake in
// O(10ns), a cooperative yield in O(1us), and a short sleep thereafter in
// O(1ms). Thresholds are implementation-tunable per spec; these land
// comfortably inside each tier's latency budget.
const (
	spinIterations  = 2000
	yieldIterations = 200
	sleepQuantum    = 200 * time.Microsecond
)

// waitForWake blocks until store.PeekWake() is true or Stop has been
// called, escalating through spin, yield, and sleep phases.
func (l *Loop) waitForWake() {
	for i := 0; i < spinIterations; i++ {
		if l.store.PeekWake() || l.stopping.Load() {
			return
		}
	}
	for i := 0; i < yieldIterations; i++ {
		runtime.Gosched()
		if l.store.PeekWake() || l.stopping.Load() {
			return
		}
	}
	for {
		time.Sleep(sleepQuantum)
		if l.store.PeekWake() || l.stopping.Load() {
			return
		}
	}
}

// timeCall runs fn and returns its wall-clock cost in microseconds, for
// the per-phase timings §4.8 step 9 records into the header.
func timeCall(fn func()) int64 {
	start := time.Now()
	fn()
	return time.Since(start).Microseconds()
}
