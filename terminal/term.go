// Package terminal implements the Terminal Driver (TD, spec §4.7): raw
// mode and alt-screen lifecycle, stdin byte decoding into SNS events, and
// resize signal capture. Grounded on the teacher's tui/term.go (raw mode
// via golang.org/x/term) and tui/input.go (ESC/CSI/SS3 channel-fed
// decoder), generalized to also decode mouse and bracketed-paste
// sequences and to write decoded events into the shared node store's
// event ring (sns.Store.PushEvent) instead of a bare Go channel, and to
// use golang.org/x/sys/unix for the winsize ioctl per
// other_examples/kungfusheep-glyph's screen.go grounding.
package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/RLabs-Inc/sparktui/internal/sperr"
	"github.com/RLabs-Inc/sparktui/sns"
)

// Options configures Driver.Open (§4.7 "enter()").
type Options struct {
	AltScreen bool
	Mouse     bool
	Paste     bool
}

// Driver owns stdin/stdout for the process's single engine loop thread.
// enter()/leave() are scoped acquisitions: Open installs a SIGINT handler
// that calls Close before the process exits, so raw mode is restored on
// every exit path including an unhandled interrupt (§4.7 lifecycle).
type Driver struct {
	in  *os.File
	out *os.File

	store *sns.Store
	opts  Options

	oldState *term.State

	mu       sync.Mutex
	closed   bool
	doneCh   chan struct{}
	resizeCh chan os.Signal
	sigCh    chan os.Signal
}

// Open enters raw mode and starts the resize and SIGINT watchers. store
// receives decoded input events (via StartDecoding, called separately by
// the caller once it's ready to consume them) and resize notifications.
func Open(store *sns.Store, in, out *os.File, opts Options) (*Driver, error) {
	oldState, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("%w: enable raw mode: %v", sperr.ErrTerminalIO, err)
	}

	d := &Driver{
		in: in, out: out,
		store: store, opts: opts,
		oldState: oldState,
		doneCh:   make(chan struct{}),
		resizeCh: make(chan os.Signal, 1),
		sigCh:    make(chan os.Signal, 1),
	}

	if err := d.writeSetup(); err != nil {
		_ = d.Close()
		return nil, err
	}

	signal.Notify(d.resizeCh, syscall.SIGWINCH)
	go d.watchResize()

	signal.Notify(d.sigCh, syscall.SIGINT, syscall.SIGTERM)
	go d.watchInterrupt()

	if cols, rows, err := windowSize(out); err == nil {
		store.SetTerminalSize(cols, rows)
	}

	return d, nil
}

func (d *Driver) writeSetup() error {
	var seq string
	if d.opts.AltScreen {
		seq += "\x1b[?1049h"
	}
	seq += "\x1b[?25l" // hide cursor
	seq += "\x1b[?7l"  // disable line wrap
	if d.opts.Mouse {
		seq += "\x1b[?1000h\x1b[?1006h" // SGR mouse reporting
	}
	if d.opts.Paste {
		seq += "\x1b[?2004h" // bracketed paste
	}
	return d.writeRaw(seq)
}

// Close leaves raw mode and restores the terminal (§4.7 "leave()").
// Idempotent: safe to call more than once, including from the SIGINT
// handler racing a normal shutdown.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	signal.Stop(d.resizeCh)
	signal.Stop(d.sigCh)
	close(d.doneCh)

	var seq string
	if d.opts.Paste {
		seq += "\x1b[?2004l"
	}
	if d.opts.Mouse {
		seq += "\x1b[?1000l\x1b[?1006l"
	}
	seq += "\x1b[?7h"  // re-enable line wrap
	seq += "\x1b[?25h" // show cursor
	if d.opts.AltScreen {
		seq += "\x1b[?1049l"
	}
	d.writeRaw(seq)

	if d.oldState != nil {
		if err := term.Restore(int(d.in.Fd()), d.oldState); err != nil {
			return fmt.Errorf("%w: restore terminal state: %v", sperr.ErrTerminalIO, err)
		}
	}
	return nil
}

func (d *Driver) watchInterrupt() {
	select {
	case <-d.sigCh:
		d.Close()
		os.Exit(130)
	case <-d.doneCh:
	}
}
