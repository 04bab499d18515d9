package render

import "github.com/dshills/keygrid/internal/render/core"

// Layout splits the surface into header, body and footer bands.
type Layout struct {
	Header core.Rect
	Body   core.Rect
	Footer core.Rect
}

// ComputeLayout returns the bands for a surface of width x height. The
// header and footer take one line each; the body gets the rest.
func ComputeLayout(width, height int) Layout {
	var l Layout
	if width <= 0 || height <= 0 {
		return l
	}
	l.Header = core.RectFromSize(0, 0, width, min(1, height))
	if height >= 3 {
		l.Body = core.RectFromSize(0, 1, width, height-2)
		l.Footer = core.RectFromSize(0, height-1, width, 1)
	} else if height == 2 {
		l.Body = core.RectFromSize(0, 1, width, 1)
	}
	return l
}

// ColumnSpan is the horizontal extent of a visible column.
type ColumnSpan struct {
	Col   int
	Left  int
	Width int
}

// columnSpans lays columns out left to right with a one-cell separator,
// clipping at width.
func columnSpans(cols []ColumnLayout, width int) []ColumnSpan {
	spans := make([]ColumnSpan, 0, len(cols))
	x := 0
	for i, c := range cols {
		if x >= width {
			break
		}
		w := min(c.Width, width-x)
		spans = append(spans, ColumnSpan{Col: i, Left: x, Width: w})
		x += c.Width + 1
	}
	return spans
}

// Area names a screen band for hit testing.
type Area int

const (
	AreaNone Area = iota
	AreaHeader
	AreaBody
	AreaFooter
)

// Hit is the result of a hit test.
type Hit struct {
	Area    Area
	ViewPos int
	Col     int
}
