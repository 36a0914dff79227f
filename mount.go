// Package sparktui is the authoring surface (§6.2): mount wires a Shared
// Node Store, a Primitive Binder tree, the Terminal Driver, and the
// Engine Loop together into one running UI, the way the teacher's
// cmd/exampleN programs wire tui.NewScreen + tui.Root + a Frame loop by
// hand — mount does that wiring once, behind a single call.
package sparktui

import (
	"fmt"
	"io"
	"os"

	"github.com/RLabs-Inc/sparktui/binder"
	"github.com/RLabs-Inc/sparktui/compositor"
	"github.com/RLabs-Inc/sparktui/engine"
	"github.com/RLabs-Inc/sparktui/reactive"
	"github.com/RLabs-Inc/sparktui/render"
	"github.com/RLabs-Inc/sparktui/sns"
	"github.com/RLabs-Inc/sparktui/terminal"
)

// Mode selects fullscreen (alt-screen) or inline (anchored at the
// cursor's current row) rendering (§6.2).
type Mode = render.Mode

const (
	ModeFullscreen = render.ModeFullscreen
	ModeInline     = render.ModeInline
)

// Options configures Mount. Zero-valued fields take the documented
// defaults (§9 "implementations must document theirs").
type Options struct {
	Mode Mode

	NodeCapacity  int
	TextPoolBytes int
	RingCapacity  int

	Stdin, Stdout *os.File
	Mouse, Paste  bool

	// Log receives one line per recoverable engine failure; nil discards.
	Log io.Writer
}

func (o Options) withDefaults() Options {
	if o.NodeCapacity <= 0 {
		o.NodeCapacity = sns.DefaultNodeCapacity
	}
	if o.TextPoolBytes <= 0 {
		o.TextPoolBytes = sns.DefaultTextPoolBytes
	}
	if o.RingCapacity <= 0 {
		o.RingCapacity = sns.DefaultRingCapacity
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	return o
}

// Handle is the §6.2 mount() return value: {unmount, set_mode, get_mode,
// buffer_handle}.
type Handle struct {
	scope *reactive.Scope
	loop  *engine.Loop
	done  chan struct{}
}

// Unmount disposes every effect the build function created, then stops
// the engine loop after it finishes its current frame and leaves the
// terminal (§4.8 "an unmount signal stops EL... and calls
// TerminalDriver.leave()").
func (h *Handle) Unmount() {
	h.scope.Dispose()
	h.loop.Stop()
	<-h.done
}

// SetMode switches between fullscreen and inline rendering.
func (h *Handle) SetMode(mode Mode) error {
	return h.loop.SetMode(mode)
}

// GetMode reports the current rendering mode.
func (h *Handle) GetMode() Mode {
	return h.loop.Mode()
}

// Buffer returns the most recently composed framebuffer (§6.2
// "buffer_handle").
func (h *Handle) Buffer() *compositor.Buffer {
	return h.loop.Buffer()
}

// Mount allocates a Shared Node Store, runs build within a disposable
// reactive scope to construct the initial tree, opens the terminal, and
// starts the Engine Loop on its own goroutine. build receives the
// binder.Tree it should use for every box/text/input/each/show call.
func Mount(build func(tree *binder.Tree), opts Options) (*Handle, error) {
	opts = opts.withDefaults()

	store, err := sns.Allocate(opts.NodeCapacity, opts.TextPoolBytes, opts.RingCapacity)
	if err != nil {
		return nil, fmt.Errorf("mount: %w", err)
	}

	tree := binder.NewTree(store)
	scope := reactive.Scoped(func() {
		build(tree)
	})

	driver, err := terminal.Open(store, opts.Stdin, opts.Stdout, terminal.Options{
		AltScreen: opts.Mode == ModeFullscreen,
		Mouse:     opts.Mouse,
		Paste:     opts.Paste,
	})
	if err != nil {
		scope.Dispose()
		return nil, err
	}
	driver.StartDecoding()

	loop := engine.New(store, tree, driver, opts.Mode, opts.Log)

	h := &Handle{scope: scope, loop: loop, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		loop.Run()
	}()

	return h, nil
}
