package viewport

// Viewport tracks the scroll surface for a fixed row height. Units are
// whatever the host surface uses: pixels in a browser, terminal lines here.
type Viewport struct {
	scrollTop int
	height    int
	rowHeight int
}

// New creates a viewport. rowHeight values below 1 are raised to 1.
func New(height, rowHeight int) *Viewport {
	return &Viewport{height: max(height, 0), rowHeight: max(rowHeight, 1)}
}

// ScrollTop returns the scroll offset.
func (v *Viewport) ScrollTop() int { return v.scrollTop }

// Height returns the viewport height.
func (v *Viewport) Height() int { return v.height }

// RowHeight returns the fixed row height.
func (v *Viewport) RowHeight() int { return v.rowHeight }

// SetHeight updates the viewport height after a resize.
func (v *Viewport) SetHeight(h int) { v.height = max(h, 0) }

// VisibleRows returns how many rows fit in the viewport, at least one.
func (v *Viewport) VisibleRows() int {
	return max(1, v.height/v.rowHeight)
}

// TotalHeight returns the scrollable height for viewLength rows.
func (v *Viewport) TotalHeight(viewLength int) int {
	return max(viewLength, 0) * v.rowHeight
}

// MaxScroll returns the largest valid scroll offset.
func (v *Viewport) MaxScroll(viewLength int) int {
	return max(0, v.TotalHeight(viewLength)-v.height)
}

// SetScrollTop sets the offset, clamped to [0, MaxScroll].
func (v *Viewport) SetScrollTop(top, viewLength int) {
	v.scrollTop = min(max(top, 0), v.MaxScroll(viewLength))
}

// ScrollBy moves the offset by delta, clamped.
func (v *Viewport) ScrollBy(delta, viewLength int) {
	v.SetScrollTop(v.scrollTop+delta, viewLength)
}

// Clamp re-applies bounds after the view length changed.
func (v *Viewport) Clamp(viewLength int) {
	v.SetScrollTop(v.scrollTop, viewLength)
}

// ScrollToRow puts row at the top of the viewport.
func (v *Viewport) ScrollToRow(row, viewLength int) {
	v.SetScrollTop(row*v.rowHeight, viewLength)
}

// ScrollToTop scrolls to the first row.
func (v *Viewport) ScrollToTop() { v.scrollTop = 0 }

// ScrollToBottom scrolls to the last row.
func (v *Viewport) ScrollToBottom(viewLength int) {
	v.scrollTop = v.MaxScroll(viewLength)
}

// EnsureVisible scrolls the minimum amount that brings row fully into the
// viewport. It reports whether the offset changed.
func (v *Viewport) EnsureVisible(row, viewLength int) bool {
	if row < 0 || row >= viewLength {
		return false
	}
	before := v.scrollTop
	top := row * v.rowHeight
	bottom := top + v.rowHeight
	switch {
	case top < v.scrollTop:
		v.SetScrollTop(top, viewLength)
	case bottom > v.scrollTop+v.height:
		v.SetScrollTop(bottom-v.height, viewLength)
	}
	return v.scrollTop != before
}

// Range returns the materialized window for viewLength rows.
func (v *Viewport) Range(viewLength int) Range {
	return ComputeRange(v.scrollTop, v.height, v.rowHeight, viewLength)
}

// Visible returns the strictly visible band for viewLength rows.
func (v *Viewport) Visible(viewLength int) Range {
	return VisibleBand(v.scrollTop, v.height, v.rowHeight, viewLength)
}
