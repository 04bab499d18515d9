package render

import (
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/state"
	"github.com/dshills/keygrid/internal/viewport"
)

// ColumnLayout is one visible column and its resolved width in cells.
type ColumnLayout struct {
	Column model.Column
	Width  int
}

// EditOverlay describes the single cell being edited, if any.
type EditOverlay struct {
	Active  bool
	Row     int
	Col     int
	Text    string
	Cursor  int
	Checked bool
	Invalid bool
}

// Frame is everything a render cycle reads. The table builds one per cycle.
type Frame struct {
	Columns    []ColumnLayout
	ViewLength int
	// Row returns the row and stable id at a view position.
	Row func(pos int) (model.Row, string)
	// Selected reports whether a row id is selected.
	Selected func(id string) bool

	Viewport *viewport.Viewport

	Sort          state.SortSpec
	GlobalFilter  string
	ColumnFilters map[string]string

	Focused  bool
	FocusRow int
	FocusCol int
	Edit     EditOverlay

	Total         int
	Filtered      int
	SelectedCount int
	Page          int
	PageCount     int
	Paged         bool
	// PageOffset is the view position of the first row on the page.
	PageOffset int

	Loading bool
	Error   string

	// Force rebuilds the body even when the window did not move.
	Force bool
}

// RenderedRow is one materialized body row.
type RenderedRow struct {
	// Key is the stable row id.
	Key string
	// ViewPos is the row's position in the (paged) view.
	ViewPos int
	// Y is the screen line, or -1 for buffer rows outside the visible band.
	Y int
}

// BodyPatch is what the body pass produced.
type BodyPatch struct {
	Range       viewport.Range
	Rows        []RenderedRow
	Placeholder bool
}

// Report summarizes a cycle for render:after and for callers.
type Report struct {
	Cancelled   bool
	Header      bool
	Body        bool
	BodySkipped bool
	Footer      bool
	Overlay     bool
	Patch       *BodyPatch
}
