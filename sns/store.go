// Package sns implements the Shared Node Store: the single cache-aligned
// buffer the reactive graph and the engine loop communicate through, per
// spec §3/§4.1. It is the only object shared across the authoring and
// engine goroutines (§5).
package sns

import (
	"sync/atomic"

	"github.com/RLabs-Inc/sparktui/internal/sperr"
)

// Default capacities, documented per spec §9 ("implementations must
// document theirs" — no mandated defaults exist).
const (
	DefaultNodeCapacity  = 4096
	DefaultTextPoolBytes = 1 << 20 // 1 MiB
	DefaultRingCapacity  = 1024    // power of two, per §3.2
)

const (
	magic        uint32 = 0x53504b54 // "SPKT"
	formatVersion uint32 = 1
)

// Header is the fixed prefix described in §3.2. Fields touched from more
// than one goroutine are atomics; the rest (capacity-derived constants)
// are set once at Allocate and never mutated.
type Header struct {
	Magic   uint32
	Version uint32

	nodeCount atomic.Int32 // live prefix count, not max index ever used

	TerminalCols atomic.Int32
	TerminalRows atomic.Int32

	wakeFlag atomic.Bool

	eventHead atomic.Uint32
	eventTail atomic.Uint32

	textPoolWritePtr atomic.Uint32

	layoutUs       atomic.Int64
	framebufferUs  atomic.Int64
	renderUs       atomic.Int64
	totalFrameUs   atomic.Int64
	renderCount    atomic.Uint64
	inputSeq       atomic.Uint64
}

// TimingSnapshot is the result of Store.SnapshotTiming.
type TimingSnapshot struct {
	LayoutUs, FramebufferUs, RenderUs, TotalFrameUs int64
	RenderCount                                     uint64
}

// Store is the Shared Node Store: header + dense node array + text arena +
// event ring, allocated once up front at fixed capacity (§4.1 allocate).
type Store struct {
	Header Header

	nodes    []Node
	capacity int32

	// freeList holds indices released by scope disposal, reused by
	// ReserveNode before growing nodeCount (§3.4).
	freeMu   chanMutex
	freeList []int32

	text *textPool
	ring *eventRing
}

// chanMutex is a tiny mutex built from a buffered channel, matching the
// lock-by-channel idiom the pack's concurrent examples use for short
// critical sections; here it just guards the free list (a rare structural
// op, not a hot-path field write).
type chanMutex chan struct{}

func newChanMutex() chanMutex {
	m := make(chanMutex, 1)
	m <- struct{}{}
	return m
}

func (m chanMutex) Lock()   { <-m }
func (m chanMutex) Unlock() { m <- struct{}{} }

// Allocate builds a Store with the given capacities, per §4.1.
func Allocate(nodeCapacity int, textPoolSize int, ringSize int) (*Store, error) {
	if nodeCapacity <= 0 || textPoolSize <= 0 || ringSize <= 0 {
		return nil, sperr.ErrCapacity
	}
	if nodeCapacity > 1<<24 {
		return nil, sperr.ErrCapacity
	}

	st := &Store{
		nodes:    make([]Node, nodeCapacity),
		capacity: int32(nodeCapacity),
		freeMu:   newChanMutex(),
		text:     newTextPool(textPoolSize),
	}
	ring, err := newEventRing(ringSize)
	if err != nil {
		return nil, err
	}
	st.ring = ring

	st.Header.Magic = magic
	st.Header.Version = formatVersion
	st.Header.TerminalCols.Store(80)
	st.Header.TerminalRows.Store(24)

	for i := range st.nodes {
		st.nodes[i].Reset()
		st.nodes[i].ComponentType = ComponentNone
	}

	return st, nil
}

// Capacity returns the fixed node capacity.
func (s *Store) Capacity() int32 { return s.capacity }

// NodeCount returns the count of live prefix slots (§3.3).
func (s *Store) NodeCount() int32 { return s.Header.nodeCount.Load() }

// ReserveNode returns the next free index, reusing the free list before
// growing node_count, per §4.1.
func (s *Store) ReserveNode() (int32, error) {
	s.freeMu.Lock()
	if n := len(s.freeList); n > 0 {
		idx := s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
		s.freeMu.Unlock()
		s.nodes[idx].Reset()
		return idx, nil
	}
	s.freeMu.Unlock()

	idx := s.Header.nodeCount.Load()
	if idx >= s.capacity {
		return -1, sperr.ErrCapacity
	}
	s.Header.nodeCount.Add(1)
	s.nodes[idx].Reset()
	return idx, nil
}

// ReleaseNode dissolves a node's relations and returns its index to the
// free list, per §3.4 (scope disposal).
func (s *Store) ReleaseNode(i int32) {
	if i < 0 || i >= s.capacity {
		return
	}
	n := &s.nodes[i]
	n.ComponentType = ComponentNone
	n.Visible = 0
	n.ParentIndex = -1

	s.freeMu.Lock()
	s.freeList = append(s.freeList, i)
	s.freeMu.Unlock()
}

// NodeAt returns a pointer into the dense node array for direct field
// reads/writes — the "plain memory write" path spec §9 requires ("every
// property update should be a plain memory write"). Callers that mutate
// fields must call MarkDirty afterward so EL knows to re-run a phase.
func (s *Store) NodeAt(i int32) *Node {
	if i < 0 || i >= s.Header.nodeCount.Load() {
		return nil
	}
	return &s.nodes[i]
}

// Nodes returns the live prefix of the node array for bulk reads (LE/FC).
func (s *Store) Nodes() []Node {
	return s.nodes[:s.Header.nodeCount.Load()]
}

// SetParent sets a node's parent index, enforcing p < i (§4.1 precondition).
func (s *Store) SetParent(i, p int32) error {
	if p >= i {
		return sperr.ErrInvalidTree
	}
	if i <= 0 {
		return nil // root has no parent
	}
	n := s.NodeAt(i)
	if n == nil {
		return sperr.ErrCapacity
	}
	n.ParentIndex = p
	s.MarkDirty(i, DirtyHierarchy)
	return nil
}

// WriteText copies bytes into the text arena and updates the node's
// (text_offset, text_len), marking TEXT dirty (§4.1, §3.4).
func (s *Store) WriteText(i int32, text string) error {
	n := s.NodeAt(i)
	if n == nil {
		return sperr.ErrCapacity
	}
	off, l, err := s.text.write(text)
	if err != nil {
		return err
	}
	n.TextOffset = off
	n.TextLen = l
	s.MarkDirty(i, DirtyText)
	return nil
}

// ReadText returns the text currently referenced by node i.
func (s *Store) ReadText(i int32) string {
	n := s.NodeAt(i)
	if n == nil {
		return ""
	}
	return s.text.read(n.TextOffset, n.TextLen)
}

// MarkDirty atomically ORs mask into node i's dirty bitset (§3.3: "dirty
// bits are monotonically set by producers").
func (s *Store) MarkDirty(i int32, mask DirtyBit) {
	n := s.NodeAt(i)
	if n == nil {
		return
	}
	for {
		old := atomic.LoadUint32(dirtyPtr(n))
		next := old | uint32(mask)
		if old == next || atomic.CompareAndSwapUint32(dirtyPtr(n), old, next) {
			return
		}
	}
}

// ClearDirty atomically clears mask from node i's dirty bitset. Only EL
// calls this, after the corresponding phase has completed for that node
// (§3.3).
func (s *Store) ClearDirty(i int32, mask DirtyBit) {
	n := s.NodeAt(i)
	if n == nil {
		return
	}
	for {
		old := atomic.LoadUint32(dirtyPtr(n))
		next := old &^ uint32(mask)
		if old == next || atomic.CompareAndSwapUint32(dirtyPtr(n), old, next) {
			return
		}
	}
}

// IsDirty reports whether any bit in mask is set on node i.
func (s *Store) IsDirty(i int32, mask DirtyBit) bool {
	n := s.NodeAt(i)
	if n == nil {
		return false
	}
	return atomic.LoadUint32(dirtyPtr(n))&uint32(mask) != 0
}

// AnyDirty reports whether any live node has any bit in mask set. EL uses
// this for the phase-skip checks of §4.8 step 5/6.
func (s *Store) AnyDirty(mask DirtyBit) bool {
	for i := range s.Nodes() {
		if atomic.LoadUint32(dirtyPtr(&s.nodes[i]))&uint32(mask) != 0 {
			return true
		}
	}
	return false
}

// dirtyPtr exposes Node.Dirty (a uint8 in the spec's field table) as a
// *uint32 for atomic ops; Go's sync/atomic has no byte-wide primitive, so
// the in-memory field is widened to uint32 while keeping the same
// "single small bitset" semantics spec §3.1 describes.
func dirtyPtr(n *Node) *uint32 {
	return (*uint32)(&n.dirtyWord)
}

// Wake atomically transitions wake_flag 0→1 (§3.3, §4.1 wake()).
func (s *Store) Wake() {
	s.Header.wakeFlag.Store(true)
}

// WakeObserved reports and clears the wake flag; EL calls this once per
// iteration after waking (§4.8 step 2).
func (s *Store) WakeObserved() bool {
	return s.Header.wakeFlag.Swap(false)
}

// PeekWake reports the wake flag without clearing it, used by the
// adaptive spin-wait to decide when to stop spinning (§4.8 step 1).
func (s *Store) PeekWake() bool {
	return s.Header.wakeFlag.Load()
}

// DrainEvents moves events from the ring into out, returning the events
// appended (§4.1 drain_events). Single-reader.
func (s *Store) DrainEvents(out []Event) []Event {
	return s.ring.drain(out)
}

// PushEvent is TD's single-writer entry point into the event ring.
func (s *Store) PushEvent(ev Event) error {
	return s.ring.push(ev)
}

// SetTerminalSize updates header terminal dimensions (TD on resize, §4.7).
func (s *Store) SetTerminalSize(cols, rows int) {
	s.Header.TerminalCols.Store(int32(cols))
	s.Header.TerminalRows.Store(int32(rows))
}

// TerminalSize reads the current terminal dimensions.
func (s *Store) TerminalSize() (cols, rows int) {
	return int(s.Header.TerminalCols.Load()), int(s.Header.TerminalRows.Load())
}

// RecordTiming stores per-phase microsecond timings and bumps render_count
// (§4.8 step 9).
func (s *Store) RecordTiming(layoutUs, fbUs, renderUs, totalUs int64) {
	s.Header.layoutUs.Store(layoutUs)
	s.Header.framebufferUs.Store(fbUs)
	s.Header.renderUs.Store(renderUs)
	s.Header.totalFrameUs.Store(totalUs)
	s.Header.renderCount.Add(1)
}

// SnapshotTiming reads header timing fields monotonically (§4.1).
func (s *Store) SnapshotTiming() TimingSnapshot {
	return TimingSnapshot{
		LayoutUs:      s.Header.layoutUs.Load(),
		FramebufferUs: s.Header.framebufferUs.Load(),
		RenderUs:      s.Header.renderUs.Load(),
		TotalFrameUs:  s.Header.totalFrameUs.Load(),
		RenderCount:   s.Header.renderCount.Load(),
	}
}

// NextInputSeq increments and returns the input sequence counter, used to
// stamp events for ordering diagnostics.
func (s *Store) NextInputSeq() uint64 {
	return s.Header.inputSeq.Add(1)
}

// Describe reports the layout a byte-exact export of this store would use
// (§6.3): header size, node stride, and section offsets. SparkTUI doesn't
// need an actual mmap/file export (RG and EL share one process address
// space, §5), but documents the contract any such export would follow.
type Layout struct {
	HeaderBytes    int
	NodeStride     int
	NodeCount      int
	TextPoolOffset int
	TextPoolBytes  int
	RingOffset     int
	RingEntries    int
}

func (s *Store) Describe() Layout {
	const headerBytes = 256
	const nodeStride = 1024
	nodeCount := int(s.capacity)
	textOff := headerBytes + nodeCount*nodeStride
	textBytes := s.text.size()
	return Layout{
		HeaderBytes:    headerBytes,
		NodeStride:     nodeStride,
		NodeCount:      nodeCount,
		TextPoolOffset: textOff,
		TextPoolBytes:  textBytes,
		RingOffset:     textOff + textBytes,
		RingEntries:    s.ring.capacity(),
	}
}
