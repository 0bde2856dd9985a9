// Package format holds terminal text helpers shared by the output renderers.
package format

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m|\x1b\]8;;[^\x1b]*\x1b\\`)

// StripANSI removes SGR colour sequences and OSC 8 hyperlink markers.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// DisplayWidth returns the number of terminal columns s occupies once
// escape sequences are removed.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(StripANSI(s))
}

// Truncate shortens plain text to at most maxWidth columns, ending with an
// ellipsis when anything was cut. Wide runes are never split.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…"
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// PadRight pads s with spaces up to width visible columns.
func PadRight(s string, width int) string {
	w := DisplayWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
