package viewport

import "fmt"

// Range is a half-open window [Start, End) over view positions.
type Range struct {
	Start int
	End   int
}

// Len returns the number of positions in r.
func (r Range) Len() int { return r.End - r.Start }

// Empty reports whether r contains no positions.
func (r Range) Empty() bool { return r.End <= r.Start }

// Contains reports whether pos lies in r.
func (r Range) Contains(pos int) bool { return pos >= r.Start && pos < r.End }

// String implements fmt.Stringer.
func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// ComputeRange returns the window to materialize: the visible band plus a
// buffer of one band above and below, clamped to [0, viewLength].
//
// A non-positive rowHeight or viewLength yields an empty range.
func ComputeRange(scrollTop, viewportHeight, rowHeight, viewLength int) Range {
	if rowHeight <= 0 || viewLength <= 0 {
		return Range{}
	}
	scrollTop = max(scrollTop, 0)
	viewportHeight = max(viewportHeight, 0)

	visibleStart := scrollTop / rowHeight
	visibleCount := (viewportHeight + rowHeight - 1) / rowHeight
	buffer := visibleCount

	start := max(0, visibleStart-buffer)
	end := min(viewLength, visibleStart+visibleCount+buffer)
	if start > end {
		start = end
	}
	return Range{Start: start, End: end}
}

// VisibleBand returns the rows that intersect the viewport, without buffer.
func VisibleBand(scrollTop, viewportHeight, rowHeight, viewLength int) Range {
	if rowHeight <= 0 || viewLength <= 0 {
		return Range{}
	}
	scrollTop = max(scrollTop, 0)
	viewportHeight = max(viewportHeight, 0)

	start := min(scrollTop/rowHeight, viewLength)
	end := min(viewLength, start+(viewportHeight+rowHeight-1)/rowHeight)
	return Range{Start: start, End: end}
}
