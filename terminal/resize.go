package terminal

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/RLabs-Inc/sparktui/sns"
)

// windowSize reads the terminal's column/row count via TIOCGWINSZ,
// grounded on other_examples/kungfusheep-glyph's screen.go
// (unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)) rather than the teacher's
// golang.org/x/term.GetSize. This is the package's only use of
// x/sys/unix: term.go sets the mouse/paste modes by writing escape
// sequences and receives SIGWINCH through os/signal.
func windowSize(f *os.File) (cols, rows int, err error) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

// watchResize blocks on SIGWINCH and, on receipt, re-reads the window
// size, writes it into the store header, marks the root LAYOUT dirty,
// and wakes the engine loop (§4.7 "Resize is signaled out-of-band").
func (d *Driver) watchResize() {
	for {
		select {
		case <-d.doneCh:
			return
		case <-d.resizeCh:
			cols, rows, err := windowSize(d.out)
			if err != nil {
				continue
			}
			d.store.SetTerminalSize(cols, rows)
			d.store.MarkDirty(0, sns.DirtyLayout)
			d.store.Wake()
		}
	}
}
