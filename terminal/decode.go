package terminal

import (
	"bufio"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/RLabs-Inc/sparktui/binder"
	"github.com/RLabs-Inc/sparktui/sns"
)

// csiTimeout bounds how long the decoder waits for the rest of an escape
// sequence before giving up and treating what it has as a bare key,
// matching the teacher's tui/input.go csiTimeout.
const csiTimeout = 50 * time.Millisecond

// escTimeout is how long a bare ESC byte waits for a following byte
// before being reported as the Esc key itself.
const escTimeout = 10 * time.Millisecond

// StartDecoding spawns the byte-reader and decode-loop goroutines that
// turn raw stdin bytes into sns.Event records pushed into the store's
// event ring. Grounded on tui/input.go's "one goroutine reads raw bytes,
// a second consumes them" split, which avoids data races on the
// bufio.Reader without needing a mutex around it.
func (d *Driver) StartDecoding() {
	reader := bufio.NewReader(d.in)
	rawCh := make(chan byte, 256)

	go func() {
		for {
			b, err := reader.ReadByte()
			if err != nil {
				close(rawCh)
				return
			}
			select {
			case rawCh <- b:
			case <-d.doneCh:
				return
			}
		}
	}()

	go d.decodeLoop(rawCh)
}

func (d *Driver) decodeLoop(rawCh <-chan byte) {
	for {
		select {
		case <-d.doneCh:
			return
		case b, ok := <-rawCh:
			if !ok {
				return
			}
			if b == 0x1b {
				d.processEsc(rawCh)
			} else {
				d.processChar(b, rawCh)
			}
		}
	}
}

func (d *Driver) push(ev sns.Event) {
	ev.TimestampMs = time.Now().UnixMilli()
	d.store.PushEvent(ev)
}

func (d *Driver) pushKey(keycode int32, mods uint8) {
	d.push(sns.Event{Type: sns.EventKey, Keycode: keycode, Modifiers: mods})
}

func readByteTimeout(rawCh <-chan byte, timeout time.Duration) (byte, bool) {
	select {
	case b, ok := <-rawCh:
		return b, ok
	case <-time.After(timeout):
		return 0, false
	}
}

func (d *Driver) processChar(b byte, rawCh <-chan byte) {
	switch {
	case b == 0x0d:
		d.pushKey(binder.KeyEnter, 0)
	case b == 0x09:
		d.pushKey(KeyTab, 0)
	case b == 0x08:
		d.pushKey(binder.KeyBackspace, 0)
	case b == 0x7f:
		d.pushKey(binder.KeyDelete, 0)
	case b <= 0x1f:
		// Ctrl+letter: teacher's tui/input.go convention of mapping the
		// control byte back to its letter (b+0x60) and flagging ModCtrl.
		d.pushKey(int32(b+0x60), ModCtrl)
	case b < 0x80:
		d.pushKey(int32(b), 0)
	default:
		d.pushKey(int32(decodeUTF8Rune(b, rawCh)), 0)
	}
}

// decodeUTF8Rune reassembles a multi-byte UTF-8 rune from its leading
// byte plus continuation bytes pulled from rawCh, since raw-mode stdin
// delivers one byte at a time and non-ASCII input otherwise only ever
// surfaces its first byte (a gap the teacher's one-byte-per-key model
// has, since tui/input.go never composes continuation bytes).
func decodeUTF8Rune(lead byte, rawCh <-chan byte) rune {
	n := utf8SeqLen(lead)
	if n <= 1 {
		return rune(lead)
	}
	buf := make([]byte, 1, n)
	buf[0] = lead
	for i := 1; i < n; i++ {
		nb, ok := readByteTimeout(rawCh, csiTimeout)
		if !ok {
			break
		}
		buf = append(buf, nb)
	}
	r, _ := utf8.DecodeRune(buf)
	return r
}

func utf8SeqLen(lead byte) int {
	switch {
	case lead&0x80 == 0x00:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

func (d *Driver) processEsc(rawCh <-chan byte) {
	select {
	case next, ok := <-rawCh:
		if !ok {
			d.pushKey(KeyEsc, 0)
			return
		}
		switch next {
		case '[':
			d.parseCSI(rawCh)
		case 'O':
			d.parseSS3(rawCh)
		default:
			d.pushKey(int32(next), ModAlt)
		}
	case <-time.After(escTimeout):
		d.pushKey(KeyEsc, 0)
	}
}

// parseCSI consumes a CSI body (ESC [ already seen) and dispatches the
// decoded key, mouse, or paste-start event. CSI format: ESC [ <params>
// <final>, where params are 0x30-0x3F and final is 0x40-0x7E.
func (d *Driver) parseCSI(rawCh <-chan byte) {
	first, ok := readByteTimeout(rawCh, csiTimeout)
	if !ok {
		return
	}
	if first == '<' {
		d.parseSGRMouse(rawCh)
		return
	}

	params := []byte{first}
	for {
		b, ok := readByteTimeout(rawCh, csiTimeout)
		if !ok {
			return
		}
		if b >= 0x40 && b <= 0x7e {
			d.dispatchCSI(params, b, rawCh)
			return
		}
		params = append(params, b)
	}
}

func (d *Driver) dispatchCSI(params []byte, final byte, rawCh <-chan byte) {
	p := string(params)
	switch final {
	case 'A':
		d.pushKey(KeyUp, 0)
	case 'B':
		d.pushKey(KeyDown, 0)
	case 'C':
		d.pushKey(binder.KeyRight, 0)
	case 'D':
		d.pushKey(binder.KeyLeft, 0)
	case 'H':
		d.pushKey(binder.KeyHome, 0)
	case 'F':
		d.pushKey(binder.KeyEnd, 0)
	case '~':
		key := p
		if i := strings.IndexByte(p, ';'); i >= 0 {
			key = p[:i]
		}
		switch key {
		case "1":
			d.pushKey(binder.KeyHome, 0)
		case "2":
			d.pushKey(KeyInsert, 0)
		case "3":
			d.pushKey(binder.KeyDelete, 0)
		case "4":
			d.pushKey(binder.KeyEnd, 0)
		case "5":
			d.pushKey(KeyPgUp, 0)
		case "6":
			d.pushKey(KeyPgDown, 0)
		case "15":
			d.pushKey(KeyF5, 0)
		case "17":
			d.pushKey(KeyF6, 0)
		case "18":
			d.pushKey(KeyF7, 0)
		case "19":
			d.pushKey(KeyF8, 0)
		case "20":
			d.pushKey(KeyF9, 0)
		case "21":
			d.pushKey(KeyF10, 0)
		case "23":
			d.pushKey(KeyF11, 0)
		case "24":
			d.pushKey(KeyF12, 0)
		case "200":
			d.capturePaste(rawCh)
		}
	}
}

func (d *Driver) parseSS3(rawCh <-chan byte) {
	b, ok := readByteTimeout(rawCh, csiTimeout)
	if !ok {
		return
	}
	switch b {
	case 'A':
		d.pushKey(KeyUp, 0)
	case 'B':
		d.pushKey(KeyDown, 0)
	case 'C':
		d.pushKey(binder.KeyRight, 0)
	case 'D':
		d.pushKey(binder.KeyLeft, 0)
	case 'P':
		d.pushKey(KeyF1, 0)
	case 'Q':
		d.pushKey(KeyF2, 0)
	case 'R':
		d.pushKey(KeyF3, 0)
	case 'S':
		d.pushKey(KeyF4, 0)
	case 'H':
		d.pushKey(binder.KeyHome, 0)
	case 'F':
		d.pushKey(binder.KeyEnd, 0)
	}
}

// parseSGRMouse consumes an SGR mouse report (ESC [ < already seen):
// <button>;<x>;<y><M|m>, M for press, m for release (§4.7 "MouseEvent
// (X10/SGR)"). Coordinates are 1-based on the wire; stored 0-based.
func (d *Driver) parseSGRMouse(rawCh <-chan byte) {
	var params []byte
	for {
		b, ok := readByteTimeout(rawCh, csiTimeout)
		if !ok {
			return
		}
		if b == 'M' || b == 'm' {
			d.dispatchSGRMouse(string(params), b == 'M')
			return
		}
		params = append(params, b)
	}
}

func (d *Driver) dispatchSGRMouse(params string, pressed bool) {
	parts := strings.Split(params, ";")
	if len(parts) != 3 {
		return
	}
	btn, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return
	}
	evType := sns.EventMouse
	if !pressed {
		btn |= 0x1000 // caller-visible release marker distinct from any button code
	}
	d.push(sns.Event{Type: evType, Keycode: int32(btn), X: int32(x - 1), Y: int32(y - 1)})
}

// pasteTerminator is the bracketed-paste end marker; capturePaste scans
// for it byte-by-byte so escape-like bytes inside pasted text are never
// mistaken for real escape sequences (§4.7 "Paste... surfaced as a
// PasteEvent wrapping the intervening bytes").
var pasteTerminator = []byte("\x1b[201~")

func (d *Driver) capturePaste(rawCh <-chan byte) {
	var buf []byte
	for {
		b, ok := readByteTimeout(rawCh, 5*time.Second)
		if !ok {
			break
		}
		buf = append(buf, b)
		if len(buf) >= len(pasteTerminator) && string(buf[len(buf)-len(pasteTerminator):]) == string(pasteTerminator) {
			buf = buf[:len(buf)-len(pasteTerminator)]
			break
		}
	}
	d.push(sns.Event{Type: sns.EventPaste, Paste: buf})
}
