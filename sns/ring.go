package sns

import (
	"sync"

	"github.com/RLabs-Inc/sparktui/internal/sperr"
)

// EventType identifies what kind of input event a ring slot carries (§3.2,
// §4.7).
type EventType uint8

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventPaste
)

// Event is the fixed-size ring record of §3.2.
type Event struct {
	Type        EventType
	Keycode     int32
	Modifiers   uint8
	X, Y        int32
	DeltaX      int32
	DeltaY      int32
	TimestampMs int64
	// Paste carries the bytes between bracketed-paste markers; only set
	// when Type == EventPaste. Not in the spec's literal field list but
	// required to carry PasteEvent payload (§4.7) without a second channel.
	Paste []byte
}

// eventRing is a fixed-capacity single-writer/single-reader ring, grounded
// on teacher's tui/input.go channel-fed producer/consumer shape but
// translated into an index-addressed ring living inside the shared store,
// per §3.2's explicit event_head/event_tail fields.
type eventRing struct {
	mu   sync.Mutex
	buf  []Event
	head uint32 // consumer reads from head
	tail uint32 // producer writes at tail
}

func newEventRing(capacity int) (*eventRing, error) {
	if capacity <= 1 {
		return nil, sperr.ErrCapacity
	}
	// capacity rounded up to a power of two (§3.2).
	n := 1
	for n < capacity {
		n <<= 1
	}
	return &eventRing{buf: make([]Event, n)}, nil
}

func (r *eventRing) capacity() int { return len(r.buf) }

func (r *eventRing) mask(i uint32) uint32 { return i & uint32(len(r.buf)-1) }

// push is TD's single-writer entry point. Capacity is ring_size-1 to
// distinguish full from empty (§3.3).
func (r *eventRing) push(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.tail + 1
	if r.mask(next) == r.mask(r.head) {
		return sperr.ErrCapacity
	}
	r.buf[r.mask(r.tail)] = ev
	r.tail = next
	return nil
}

// drain moves all pending events into out, advancing head to tail.
func (r *eventRing) drain(out []Event) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.head != r.tail {
		out = append(out, r.buf[r.mask(r.head)])
		r.head++
	}
	return out
}

// empty reports head == tail (§3.3).
func (r *eventRing) empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.head == r.tail
}
