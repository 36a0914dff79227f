package layout

import (
	"strings"

	"github.com/RLabs-Inc/sparktui/internal/cellwidth"
	"github.com/RLabs-Inc/sparktui/sns"
)

// intrinsicWidth returns a TEXT/INPUT node's unconstrained cell width:
// the widest line of its content, East-Asian-Width aware (§4.4 step 2).
// Grounded on the teacher's measureContent, generalized from
// utf8.RuneCountInString to cellwidth.String per internal/cellwidth's
// grounding note.
func intrinsicWidth(text string) int {
	if text == "" {
		return 0
	}
	lines := strings.Split(text, "\n")
	max := 0
	for _, l := range lines {
		if w := cellwidth.String(l); w > max {
			max = w
		}
	}
	return max
}

// wrapAndMeasureHeight wraps text to fit innerWidth cells (word boundaries;
// a single word longer than innerWidth breaks mid-grapheme when wrap !=
// none, per §4.4 step 7) and returns the resulting line count. Called
// after a node's final computed width is known (§9 open-question
// decision: height is measured in the pass after width).
func wrapAndMeasureHeight(text string, innerWidth int, wrap sns.TextWrap) int {
	if text == "" {
		return 1
	}
	if innerWidth <= 0 {
		innerWidth = 1
	}
	total := 0
	for _, paragraph := range strings.Split(text, "\n") {
		total += countWrappedLines(paragraph, innerWidth, wrap)
	}
	if total == 0 {
		total = 1
	}
	return total
}

func countWrappedLines(line string, innerWidth int, wrap sns.TextWrap) int {
	if wrap == sns.TextWrapNone {
		return 1
	}
	if cellwidth.String(line) <= innerWidth {
		return 1
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return 1
	}

	lines := 1
	cur := 0
	for _, w := range words {
		ww := cellwidth.String(w)
		if ww > innerWidth {
			// Break the overlong word itself across as many lines as
			// needed, starting a fresh line first if the current one
			// already has content.
			if cur > 0 {
				lines++
				cur = 0
			}
			remaining := ww
			for remaining > innerWidth {
				lines++
				remaining -= innerWidth
			}
			cur = remaining
			continue
		}
		sep := 0
		if cur > 0 {
			sep = 1 // single space between words on the same line
		}
		if cur+sep+ww > innerWidth {
			lines++
			cur = ww
		} else {
			cur += sep + ww
		}
	}
	return lines
}

// WrapLines splits text into the concrete line strings the compositor
// draws, mirroring countWrappedLines' decisions exactly so FC paints what
// LE measured (§4.4 step 7, §4.5 point 3).
func WrapLines(text string, innerWidth int, wrap sns.TextWrap) []string {
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		out = append(out, wrapParagraph(paragraph, innerWidth, wrap)...)
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

func wrapParagraph(line string, innerWidth int, wrap sns.TextWrap) []string {
	if wrap == sns.TextWrapNone || innerWidth <= 0 {
		return []string{line}
	}
	if cellwidth.String(line) <= innerWidth {
		return []string{line}
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var out []string
	var cur strings.Builder
	curW := 0

	flush := func() {
		out = append(out, cur.String())
		cur.Reset()
		curW = 0
	}

	for _, w := range words {
		ww := cellwidth.String(w)
		if ww > innerWidth {
			if curW > 0 {
				flush()
			}
			runes := []rune(w)
			for len(runes) > 0 {
				n := 0
				width := 0
				for n < len(runes) {
					rw := cellwidth.Rune(runes[n])
					if width+rw > innerWidth && n > 0 {
						break
					}
					width += rw
					n++
				}
				out = append(out, string(runes[:n]))
				runes = runes[n:]
			}
			continue
		}
		sep := 0
		if curW > 0 {
			sep = 1
		}
		if curW+sep+ww > innerWidth {
			flush()
			cur.WriteString(w)
			curW = ww
		} else {
			if sep == 1 {
				cur.WriteByte(' ')
			}
			cur.WriteString(w)
			curW += sep + ww
		}
	}
	if curW > 0 || len(out) == 0 {
		flush()
	}
	return out
}
