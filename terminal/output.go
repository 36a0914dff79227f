package terminal

import (
	"fmt"
	"io"

	"github.com/RLabs-Inc/sparktui/internal/sperr"
)

// writeRaw writes an escape-sequence string directly to the terminal,
// bypassing the diff renderer's buffering since setup/teardown sequences
// are one-shot and not part of a frame (§4.7 "Output: owns stdout").
func (d *Driver) writeRaw(seq string) error {
	if seq == "" {
		return nil
	}
	if _, err := io.WriteString(d.out, seq); err != nil {
		return fmt.Errorf("%w: write terminal sequence: %v", sperr.ErrTerminalIO, err)
	}
	return nil
}

// SetAltScreen enters or leaves the alternate screen buffer, tracking
// the new state so Close tears down symmetrically (§6.2 "set_mode"
// switching between fullscreen and inline after mount).
func (d *Driver) SetAltScreen(on bool) error {
	d.mu.Lock()
	already := d.opts.AltScreen
	d.opts.AltScreen = on
	d.mu.Unlock()

	if on == already {
		return nil
	}
	if on {
		return d.writeRaw("\x1b[?1049h")
	}
	return d.writeRaw("\x1b[?1049l")
}

// Writer exposes stdout for render.New to wrap in its own buffered
// writer, so TD and DR share the same underlying fd without either
// duplicating the other's buffering (§4.6 "batches output into a single
// write to stdout per frame" / §4.7 "Output: owns stdout").
func (d *Driver) Writer() io.Writer {
	return d.out
}
