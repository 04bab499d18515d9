package table

import (
	"github.com/dshills/keygrid/internal/focus"
	"github.com/dshills/keygrid/internal/state"
	"github.com/dshills/keygrid/internal/view"
)

// ScrollToRow puts the row at display position pos at the top of the body.
func (t *Table) ScrollToRow(pos int) {
	t.scroll(func(n int) { t.viewport.ScrollToRow(pos, n) })
}

// ScrollToTop scrolls to the first row of the page.
func (t *Table) ScrollToTop() {
	t.scroll(func(int) { t.viewport.ScrollToTop() })
}

// ScrollToBottom scrolls to the last row of the page.
func (t *Table) ScrollToBottom() {
	t.scroll(t.viewport.ScrollToBottom)
}

// ScrollBy moves the scroll offset by delta lines.
func (t *Table) ScrollBy(delta int) {
	t.scroll(func(n int) { t.viewport.ScrollBy(delta, n) })
}

// ScrollTop returns the current scroll offset.
func (t *Table) ScrollTop() int { return t.viewport.ScrollTop() }

func (t *Table) scroll(fn func(viewLength int)) {
	if t.destroyed {
		return
	}
	fn(len(t.page(t.state.Get())))
	t.syncScroll()
	t.redraw()
}

// syncScroll mirrors the viewport offset into state without a change event;
// scrolling alone never rebuilds the view.
func (t *Table) syncScroll() {
	top := t.viewport.ScrollTop()
	if t.state.Get().ScrollTop == top {
		return
	}
	t.state.Set(func(s *state.State) { s.ScrollTop = top }, state.Silent())
}

// Page returns the zero-based current page.
func (t *Table) Page() int { return t.state.Get().Page }

// PageCount returns the number of pages, one when paging is off.
func (t *Table) PageCount() int {
	st := t.state.Get()
	return view.PageCount(len(st.View), st.PageSize)
}

// SetPage moves to page, clamped to the valid range.
func (t *Table) SetPage(page int) {
	if t.destroyed {
		return
	}
	st := t.state.Get()
	page = view.ClampPage(page, len(st.View), st.PageSize)
	if page == st.Page {
		return
	}
	t.commitPending()
	t.mutate(func(s *state.State) { s.Page = page })
	t.viewport.ScrollToTop()
	t.syncScroll()
	t.emitPage()
	t.settle()
}

// NextPage advances one page. It reports false on the last page.
func (t *Table) NextPage() bool {
	before := t.Page()
	t.SetPage(before + 1)
	return t.Page() != before
}

// PrevPage goes back one page. It reports false on the first page.
func (t *Table) PrevPage() bool {
	before := t.Page()
	t.SetPage(before - 1)
	return t.Page() != before
}

// SetPageSize changes the page size; zero turns paging off.
func (t *Table) SetPageSize(size int) {
	if t.destroyed {
		return
	}
	size = max(size, 0)
	if size == t.state.Get().PageSize {
		return
	}
	t.commitPending()
	t.mutate(func(s *state.State) {
		s.PageSize = size
		s.Page = 0
	})
	t.viewport.ScrollToTop()
	t.syncScroll()
	t.emitPage()
	t.settle()
}

func (t *Table) emitPage() {
	st := t.state.Get()
	t.emit(TopicPageChange, PageEvent{
		Page:      st.Page,
		PageCount: view.PageCount(len(st.View), st.PageSize),
		PageSize:  st.PageSize,
	})
}

// Focus moves keyboard focus to a cell by ids. The row must be on the
// current page and the column visible.
func (t *Table) Focus(rowID, columnID string) bool {
	row, col, ok := t.locate(rowID, columnID)
	if !ok {
		return false
	}
	done := t.focus.Focus(focus.Position{Row: row, Col: col})
	t.settle()
	return done
}

// FocusedCell returns the display position of the focused cell.
func (t *Table) FocusedCell() (viewPos, col int, ok bool) {
	pos, ok := t.focus.Position()
	return pos.Row, pos.Col, ok
}

// FocusedIDs returns the ids of the focused cell.
func (t *Table) FocusedIDs() (rowID, columnID string, ok bool) {
	return t.focus.Cell()
}

// Blur commits any edit and clears focus.
func (t *Table) Blur() bool {
	if t.destroyed {
		return false
	}
	ok := t.focus.Blur()
	t.settle()
	return ok
}

// locate maps ids to a display position on the current page.
func (t *Table) locate(rowID, columnID string) (row, col int, ok bool) {
	if t.destroyed {
		return 0, 0, false
	}
	raw, found := t.index.Lookup(rowID)
	if !found {
		return 0, 0, false
	}
	st := t.state.Get()
	row = view.Position(t.page(st), raw)
	if row < 0 {
		return 0, 0, false
	}
	col = -1
	for i, c := range t.visibleColumns(st) {
		if c.ID == columnID {
			col = i
			break
		}
	}
	return row, col, col >= 0
}
