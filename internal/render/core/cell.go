package core

import "github.com/mattn/go-runewidth"

// Cell is one terminal cell. Wide runes occupy a cell of Width 2 followed
// by a continuation cell of Width 0.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

// EmptyCell is a space in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewCell returns a styled cell for r.
func NewCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// IsContinuation reports whether c is the trailing half of a wide rune.
func (c Cell) IsContinuation() bool { return c.Width == 0 }

// RuneWidth returns the display width of r. Zero-width runes count as one
// so every rune advances the cursor.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 1 {
		return 1
	}
	return w
}

// StringWidth returns the display width of s.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Fit truncates s to width cells, ending with tail when cut, and pads it
// with spaces to exactly width.
func Fit(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, tail)
	}
	return runewidth.FillRight(s, width)
}

// FitRight is Fit with the text right-aligned.
func FitRight(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		return runewidth.FillRight(runewidth.Truncate(s, width, tail), width)
	}
	return runewidth.FillLeft(s, width)
}

// Rect is a screen rectangle; Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// RectFromSize builds a rect from an origin and size.
func RectFromSize(left, top, width, height int) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width returns the rect width, never negative.
func (r Rect) Width() int { return max(r.Right-r.Left, 0) }

// Height returns the rect height, never negative.
func (r Rect) Height() int { return max(r.Bottom-r.Top, 0) }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width() == 0 || r.Height() == 0 }

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}
