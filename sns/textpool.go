package sns

import (
	"sync"

	"github.com/RLabs-Inc/sparktui/internal/sperr"
)

// textPool is the append-only text arena of §3.2/§3.4. Single writer per
// batch (enforced by the binder calling through Store.WriteText on the
// authoring goroutine), guarded by a mutex the way teacher's screen.go
// guards its buffers with s.mu — the critical section here spans more
// than one word (bounds check + copy + pointer bump), so a mutex is used
// rather than a bare atomic.
type textPool struct {
	mu       sync.Mutex
	buf      []byte
	writePtr uint32
	// resetThreshold is the write-pointer position in bytes (90% of
	// len(buf) by default) at or past which NeedsTextPoolReset reports true.
	resetThreshold uint32
	generation     uint32
}

const defaultResetThresholdPercent = 90

func newTextPool(size int) *textPool {
	return &textPool{
		buf:            make([]byte, size),
		resetThreshold: uint32(size) * defaultResetThresholdPercent / 100,
	}
}

func (p *textPool) size() int { return len(p.buf) }

// write appends text, returning its (offset, length). If the arena is
// full it returns ErrCapacity — callers (Store.WriteText) propagate this
// to the authoring code per §3.2 ("PB MUST reset the write pointer at a
// safe boundary... or fail the write"). write itself never resets the
// arena; Store.ResetTextPool does, and the engine loop never calls it, so
// the arena only grows until writes fail.
func (p *textPool) write(s string) (offset uint32, length uint16, err error) {
	if len(s) > 1<<16-1 {
		return 0, 0, sperr.ErrCapacity
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if int(p.writePtr)+len(s) > len(p.buf) {
		return 0, 0, sperr.ErrCapacity
	}
	off := p.writePtr
	copy(p.buf[off:], s)
	p.writePtr += uint32(len(s))
	return off, uint16(len(s)), nil
}

func (p *textPool) read(offset uint32, length uint16) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	end := int(offset) + int(length)
	if offset >= uint32(len(p.buf)) || end > len(p.buf) {
		return ""
	}
	return string(p.buf[offset:end])
}

// NeedsTextPoolReset reports whether the pool has crossed its configured
// fill threshold (§3.4: "Resets happen at frame boundaries when pool
// fill crosses a configurable threshold").
func (s *Store) NeedsTextPoolReset() bool {
	s.text.mu.Lock()
	defer s.text.mu.Unlock()
	return s.text.writePtr >= s.text.resetThreshold
}

// ResetTextPool rewinds the write pointer to zero and bumps the
// generation counter. The caller must rewrite every node still
// referencing offsets from the prior generation in the same batch, since
// those bytes are now considered stale. Nothing in the engine calls it.
func (s *Store) ResetTextPool() {
	s.text.mu.Lock()
	s.text.writePtr = 0
	s.text.generation++
	s.text.mu.Unlock()
}

// TextPoolGeneration returns the current generation counter, so callers
// can tell whether a previously recorded (offset, len) is still valid.
func (s *Store) TextPoolGeneration() uint32 {
	s.text.mu.Lock()
	defer s.text.mu.Unlock()
	return s.text.generation
}
