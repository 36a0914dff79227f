package terminal

import (
	"os"
	"testing"
	"time"

	"github.com/RLabs-Inc/sparktui/binder"
	"github.com/RLabs-Inc/sparktui/sns"
)

// newTestDriver builds a Driver around a real store but no real tty,
// so the decode state machine (processChar/processEsc/parseCSI/...) can
// be exercised by feeding rawCh directly, without opening a terminal.
func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	store, err := sns.Allocate(sns.DefaultNodeCapacity, sns.DefaultTextPoolBytes, sns.DefaultRingCapacity)
	if err != nil {
		t.Fatalf("sns.Allocate: %v", err)
	}
	return &Driver{store: store, doneCh: make(chan struct{})}
}

func drainOne(t *testing.T, d *Driver) sns.Event {
	t.Helper()
	evs := d.store.DrainEvents(make([]sns.Event, 0, 4))
	if len(evs) != 1 {
		t.Fatalf("expected exactly 1 event, got %d", len(evs))
	}
	return evs[0]
}

func feed(rawCh chan byte, bs ...byte) {
	go func() {
		for _, b := range bs {
			rawCh <- b
		}
	}()
}

func TestProcessCharPlainASCII(t *testing.T) {
	d := newTestDriver(t)
	rawCh := make(chan byte)
	feed(rawCh)
	d.processChar('a', rawCh)
	ev := drainOne(t, d)
	if ev.Type != sns.EventKey || ev.Keycode != int32('a') {
		t.Fatalf("got %+v", ev)
	}
}

func TestProcessCharControlKeys(t *testing.T) {
	cases := []struct {
		b    byte
		want int32
	}{
		{0x0d, binder.KeyEnter},
		{0x09, KeyTab},
		{0x08, binder.KeyBackspace},
		{0x7f, binder.KeyDelete},
	}
	for _, c := range cases {
		d := newTestDriver(t)
		rawCh := make(chan byte)
		d.processChar(c.b, rawCh)
		ev := drainOne(t, d)
		if ev.Keycode != c.want {
			t.Fatalf("byte %#x: got keycode %d, want %d", c.b, ev.Keycode, c.want)
		}
	}
}

func TestProcessCharCtrlLetter(t *testing.T) {
	d := newTestDriver(t)
	rawCh := make(chan byte)
	d.processChar(0x01, rawCh) // Ctrl-A
	ev := drainOne(t, d)
	if ev.Keycode != int32('a') || ev.Modifiers&ModCtrl == 0 {
		t.Fatalf("got %+v", ev)
	}
}

func TestProcessCharMultiByteUTF8(t *testing.T) {
	d := newTestDriver(t)
	rawCh := make(chan byte, 4)
	// 'あ' = E3 81 82
	rawCh <- 0x81
	rawCh <- 0x82
	d.processChar(0xe3, rawCh)
	ev := drainOne(t, d)
	if ev.Keycode != int32('あ') {
		t.Fatalf("got rune %q", rune(ev.Keycode))
	}
}

func TestProcessEscBareEscTimesOut(t *testing.T) {
	d := newTestDriver(t)
	rawCh := make(chan byte)
	start := time.Now()
	d.processEsc(rawCh)
	if elapsed := time.Since(start); elapsed < escTimeout {
		t.Fatalf("returned before escTimeout elapsed: %v", elapsed)
	}
	ev := drainOne(t, d)
	if ev.Keycode != KeyEsc {
		t.Fatalf("got %+v", ev)
	}
}

func TestProcessEscAltKey(t *testing.T) {
	d := newTestDriver(t)
	rawCh := make(chan byte, 1)
	rawCh <- 'x'
	d.processEsc(rawCh)
	ev := drainOne(t, d)
	if ev.Keycode != int32('x') || ev.Modifiers&ModAlt == 0 {
		t.Fatalf("got %+v", ev)
	}
}

func TestDispatchCSIArrowKeys(t *testing.T) {
	cases := []struct {
		final byte
		want  int32
	}{
		{'A', KeyUp},
		{'B', KeyDown},
		{'C', binder.KeyRight},
		{'D', binder.KeyLeft},
		{'H', binder.KeyHome},
		{'F', binder.KeyEnd},
	}
	for _, c := range cases {
		d := newTestDriver(t)
		rawCh := make(chan byte)
		d.dispatchCSI(nil, c.final, rawCh)
		ev := drainOne(t, d)
		if ev.Keycode != c.want {
			t.Fatalf("final %q: got %d, want %d", c.final, ev.Keycode, c.want)
		}
	}
}

func TestDispatchCSITildeKeys(t *testing.T) {
	d := newTestDriver(t)
	rawCh := make(chan byte)
	d.dispatchCSI([]byte("3"), '~', rawCh)
	ev := drainOne(t, d)
	if ev.Keycode != binder.KeyDelete {
		t.Fatalf("got %+v", ev)
	}
}

func TestDispatchCSIPasteStart(t *testing.T) {
	d := newTestDriver(t)
	rawCh := make(chan byte, 32)
	payload := "pasted text"
	for _, b := range []byte(payload) {
		rawCh <- b
	}
	for _, b := range pasteTerminator {
		rawCh <- b
	}
	d.dispatchCSI([]byte("200"), '~', rawCh)
	ev := drainOne(t, d)
	if ev.Type != sns.EventPaste || string(ev.Paste) != payload {
		t.Fatalf("got %+v", ev)
	}
}

func TestParseSS3FunctionKeys(t *testing.T) {
	d := newTestDriver(t)
	rawCh := make(chan byte, 1)
	rawCh <- 'P'
	d.parseSS3(rawCh)
	ev := drainOne(t, d)
	if ev.Keycode != KeyF1 {
		t.Fatalf("got %+v", ev)
	}
}

func TestParseSGRMouseFullSequence(t *testing.T) {
	d := newTestDriver(t)
	rawCh := make(chan byte, 16)
	for _, b := range []byte("0;10;5M") {
		rawCh <- b
	}
	d.parseSGRMouse(rawCh)
	ev := drainOne(t, d)
	if ev.Type != sns.EventMouse || ev.X != 9 || ev.Y != 4 {
		t.Fatalf("got %+v", ev)
	}
}

func TestDispatchSGRMouseCoordinatesAreZeroBased(t *testing.T) {
	d := newTestDriver(t)
	d.dispatchSGRMouse("0;10;5", true)
	ev := drainOne(t, d)
	if ev.X != 9 || ev.Y != 4 || ev.Keycode != 0 {
		t.Fatalf("got %+v", ev)
	}
}

func TestDispatchSGRMouseReleaseSetsMarker(t *testing.T) {
	d := newTestDriver(t)
	d.dispatchSGRMouse("0;1;1", false)
	ev := drainOne(t, d)
	if ev.Keycode&0x1000 == 0 {
		t.Fatalf("release marker not set: %+v", ev)
	}
}

func TestWindowSizeReadsIoctl(t *testing.T) {
	cols, rows, err := windowSize(os.Stdin)
	if err != nil {
		t.Skipf("no controlling terminal in this environment: %v", err)
	}
	if cols <= 0 || rows <= 0 {
		t.Fatalf("got cols=%d rows=%d", cols, rows)
	}
}
