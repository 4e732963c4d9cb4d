package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Widths are display columns, not bytes: wide characters (emoji, CJK) take
// two columns and combining marks none.

// RuneWidth returns the display width of a single rune
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		// Negative width means control/combining character, treat as 0
		return 0
	}
	return w
}

// StringWidth returns the display width of a string
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToWidth truncates s to at most maxWidth columns without
// splitting a rune
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	width := 0
	for i, r := range s {
		rw := RuneWidth(r)
		if width+rw > maxWidth {
			return s[:i]
		}
		width += rw
	}
	return s
}

// TruncateToWidthWithEllipsis truncates s and marks the cut with "…"
func TruncateToWidthWithEllipsis(s string, maxWidth int) string {
	if StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return TruncateToWidth(s, maxWidth)
	}
	return TruncateToWidth(s, maxWidth-1) + "…"
}

// PadStringToWidth pads s with spaces to width columns
func PadStringToWidth(s string, width int) string {
	current := StringWidth(s)
	if current >= width {
		return s
	}
	return s + strings.Repeat(" ", width-current)
}

// AlignRight left-pads s so it ends at column width
func AlignRight(s string, width int) string {
	current := StringWidth(s)
	if current >= width {
		return TruncateToWidth(s, width)
	}
	return strings.Repeat(" ", width-current) + s
}
