// Package cellwidth is the single width function LE, FC, and DR all use,
// per spec §9 ("the engine should expose a single width function and use
// it consistently"). It wraps go-runewidth so East Asian Width and
// combining marks are handled the way a real terminal renders them,
// instead of the teacher's plain utf8.RuneCountInString.
package cellwidth

import "github.com/mattn/go-runewidth"

// Rune returns the number of terminal cells r occupies: 0 for combining
// marks, 1 for narrow/ambiguous, 2 for East-Asian-wide and emoji presentation.
func Rune(r rune) int {
	return runewidth.RuneWidth(r)
}

// String returns the total cell width of s.
func String(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to fit within width cells, appending tail (often "")
// if truncation occurred, without splitting a wide glyph in half.
func Truncate(s string, width int, tail string) string {
	if String(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, tail)
}

// IsWide reports whether r occupies two cells.
func IsWide(r rune) bool {
	return Rune(r) == 2
}
