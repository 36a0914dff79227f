// Package engine implements the Engine Loop (EL, spec §4.8): the single
// thread that owns LE/FC/DR/TD and drives one wait→drain→layout→
// compose→render iteration per wake.
//
// Grounded in shape on the teacher's tui/screen.go Frame (its
// lock/clear/draw/diff/unlock body becomes one iteration's drain/LE/FC/
// DR sequence here), extended with the adaptive wake-wait tiers §4.8
// step 1 calls for, which the teacher's Screen never needed since
// tui.Render runs synchronously inside the reactive effect that calls
// it rather than waiting on a separate wake signal.
package engine

import (
	"io"
	"log"
	"sync/atomic"

	"github.com/RLabs-Inc/sparktui/binder"
	"github.com/RLabs-Inc/sparktui/compositor"
	"github.com/RLabs-Inc/sparktui/layout"
	"github.com/RLabs-Inc/sparktui/render"
	"github.com/RLabs-Inc/sparktui/sns"
	"github.com/RLabs-Inc/sparktui/terminal"
)

// Loop is the engine's single-threaded runner. One Loop owns one store,
// one binder.Tree, one terminal.Driver and the LE/FC/DR stages wired to
// them.
type Loop struct {
	store *sns.Store
	tree  *binder.Tree
	td    *terminal.Driver

	le *layout.Engine
	fc *compositor.Engine
	dr *render.Renderer
	fb *compositor.Buffer

	stopping atomic.Bool
	stopped  chan struct{}

	eventBuf []sns.Event
	logger   *log.Logger
}

// New wires LE, FC, and DR to store, sized from the terminal's current
// dimensions (§4.8: "a single thread owns LE/FC/DR/TD"). logOut receives
// one terse line per recoverable failure (a layout error such as
// InvalidTree, or a render/TerminalIO error); pass nil to discard, since stdout is owned by DR while
// mounted and nothing in the teacher or pack logs to it either.
func New(store *sns.Store, tree *binder.Tree, td *terminal.Driver, mode render.Mode, logOut io.Writer) *Loop {
	cols, rows := store.TerminalSize()
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	if logOut == nil {
		logOut = io.Discard
	}
	return &Loop{
		store:    store,
		tree:     tree,
		td:       td,
		le:       layout.New(store),
		fc:       compositor.New(store),
		dr:       render.New(td.Writer(), mode, cols, rows),
		fb:       compositor.NewBuffer(cols, rows),
		stopped:  make(chan struct{}),
		eventBuf: make([]sns.Event, 0, 64),
		logger:   log.New(logOut, "sparktui: ", log.LstdFlags),
	}
}

// SetMode switches the renderer between fullscreen and inline and keeps
// the terminal's alt-screen state in sync (§6.2 "set_mode").
func (l *Loop) SetMode(mode render.Mode) error {
	if err := l.td.SetAltScreen(mode == render.ModeFullscreen); err != nil {
		return err
	}
	l.dr.SetMode(mode)
	l.store.Wake()
	return nil
}

// Mode reports the renderer's current mode (§6.2 "get_mode").
func (l *Loop) Mode() render.Mode {
	return l.dr.Mode()
}

// Buffer returns the framebuffer FC last composed into, the §6.2
// "buffer_handle" a host program can read for diagnostics/testing.
func (l *Loop) Buffer() *compositor.Buffer {
	return l.fb
}

// Stop requests that Run exit after finishing its current iteration, and
// tells TD to leave raw mode (§4.8 "an unmount signal stops EL after
// finishing the current frame and calls TerminalDriver.leave()").
func (l *Loop) Stop() {
	l.stopping.Store(true)
	l.store.Wake()
	<-l.stopped
}

// Run executes iterations until Stop is called. Intended to run on its
// own goroutine/thread for the lifetime of a mounted UI.
func (l *Loop) Run() {
	defer close(l.stopped)
	defer l.td.Close()

	for !l.stopping.Load() {
		l.waitForWake()
		if l.stopping.Load() {
			return
		}
		l.store.WakeObserved()
		l.tick()
	}
}

// tick runs one iteration's drain/LE/FC/DR body (§4.8 steps 3-9). The
// whole-iteration skip (step 5) fires on any dirty bit at all, since
// DirtyVisual/DirtyText changes (a color bind, a caret move, a text
// content update) still need FC+DR to reach the terminal even when
// nothing invalidated layout; LE itself only runs when LAYOUT or
// HIERARCHY is among the dirty bits (step 6), which is the narrower
// check just above its call.
func (l *Loop) tick() {
	var layoutUs, fbUs, renderUs int64

	l.eventBuf = l.store.DrainEvents(l.eventBuf[:0])
	for _, ev := range l.eventBuf {
		l.deliver(ev)
	}

	const anyDirty = sns.DirtyLayout | sns.DirtyHierarchy | sns.DirtyVisual | sns.DirtyText
	if !l.store.AnyDirty(anyDirty) {
		return
	}

	cols, rows := l.store.TerminalSize()
	if cols != l.fb.Width || rows != l.fb.Height {
		l.fb.Resize(cols, rows)
		l.dr.Resize(cols, rows)
	}

	if l.store.AnyDirty(sns.DirtyLayout | sns.DirtyHierarchy) {
		layoutUs = timeCall(func() {
			if err := l.le.Run(); err != nil {
				l.logger.Printf("layout: %v", err)
			}
		})
	}

	var caret compositor.CaretInfo
	fbUs = timeCall(func() { caret = l.fc.Compose(l.fb, l.tree.Focused.Peek()) })

	renderUs = timeCall(func() {
		if err := l.dr.Render(l.fb, caret); err != nil {
			l.logger.Printf("render: %v", err)
		}
	})

	total := layoutUs + fbUs + renderUs
	l.store.RecordTiming(layoutUs, fbUs, renderUs, total)
}

// deliver routes one drained event: keys go to the focused node (§4.8
// step 3 "focused-node routing for keys"), mouse events are hit-tested
// against the last computed layout and, on a press over a focusable
// node, move focus there — a click-to-focus generalization beyond the
// teacher, which has no mouse input at all.
func (l *Loop) deliver(ev sns.Event) {
	switch ev.Type {
	case sns.EventKey:
		l.tree.DispatchKey(ev)
	case sns.EventMouse:
		if ev.Keycode&0x1000 != 0 {
			return // release
		}
		if idx, ok := hitTest(l.store, ev.X, ev.Y); ok {
			if l.store.NodeAt(idx).Focusable != 0 {
				l.tree.Focus(idx)
			}
		}
	}
}
