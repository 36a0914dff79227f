package render

import (
	"strings"

	"github.com/RLabs-Inc/sparktui/internal/color"
	"github.com/RLabs-Inc/sparktui/sns"
)

// sgrSequence builds the escape sequence for one cell's full style,
// generalizing the teacher's writeStyle (which wrote named 8-color ANSI
// codes) to 24-bit truecolor via internal/color, attribute-by-attribute
// the same way the teacher emits each flag as its own escape.
func sgrSequence(attrs sns.Attrs, fg, bg color.RGBA) string {
	var b strings.Builder
	if attrs&sns.AttrBold != 0 {
		b.WriteString("\x1b[1m")
	}
	if attrs&sns.AttrItalic != 0 {
		b.WriteString("\x1b[3m")
	}
	if attrs&sns.AttrUnderline != 0 {
		b.WriteString("\x1b[4m")
	}
	if fg != color.Transparent {
		b.WriteString(color.FGSequence(fg))
	}
	if bg != color.Transparent {
		b.WriteString(color.BGSequence(bg))
	}
	return b.String()
}
