package viewport

import "sync"

// Tracker decides whether a body rebuild is needed.
//
// A rebuild is skipped when the range equals the last rendered one and no
// forced redraw is pending. Data, selection, column and focus mutations call
// Invalidate because they change row content without moving the range.
type Tracker struct {
	mu       sync.Mutex
	last     Range
	rendered bool
	force    bool
	renders  uint64
	skips    uint64
}

// NewTracker creates a tracker that renders on first use.
func NewTracker() *Tracker {
	return &Tracker{force: true}
}

// ShouldRender reports whether r must be rebuilt and, if so, records it as
// rendered and clears the force flag.
func (t *Tracker) ShouldRender(r Range) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rendered && !t.force && r == t.last {
		t.skips++
		return false
	}
	t.last = r
	t.rendered = true
	t.force = false
	t.renders++
	return true
}

// Invalidate forces the next ShouldRender to return true.
func (t *Tracker) Invalidate() {
	t.mu.Lock()
	t.force = true
	t.mu.Unlock()
}

// Last returns the most recently rendered range.
func (t *Tracker) Last() (Range, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last, t.rendered
}

// Counts returns how many rebuilds ran and how many were skipped.
func (t *Tracker) Counts() (renders, skips uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.renders, t.skips
}

// Reset forgets the last range.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.last = Range{}
	t.rendered = false
	t.force = true
	t.mu.Unlock()
}
