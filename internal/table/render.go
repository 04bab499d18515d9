package table

import (
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/render"
	"github.com/dshills/keygrid/internal/state"
	"github.com/dshills/keygrid/internal/view"
)

// redraw runs one render cycle from current state.
func (t *Table) redraw() {
	if t.destroyed {
		return
	}
	f := t.frame()
	t.dirty = false
	t.report = t.renderer.Render(f)
}

// LastRender returns the report of the most recent render cycle.
func (t *Table) LastRender() render.Report { return t.report }

func (t *Table) frame() *render.Frame {
	st := t.state.Get()
	rows := t.page(st)
	cols := t.visibleColumns(st)

	layout := make([]render.ColumnLayout, len(cols))
	for i, c := range cols {
		layout[i] = render.ColumnLayout{Column: c, Width: c.Width}
	}

	f := &render.Frame{
		Columns:    layout,
		ViewLength: len(rows),
		Row: func(pos int) (model.Row, string) {
			if pos < 0 || pos >= len(rows) || rows[pos] >= len(st.Data) {
				return nil, ""
			}
			raw := rows[pos]
			return st.Data[raw], t.index.ID(raw)
		},
		Selected:      st.Selection.Has,
		Viewport:      t.viewport,
		Sort:          st.Sort,
		GlobalFilter:  st.GlobalFilter,
		ColumnFilters: st.ColumnFilters,
		Total:         len(st.Data),
		Filtered:      len(st.View),
		SelectedCount: st.Selection.Len(),
		Page:          st.Page,
		PageCount:     view.PageCount(len(st.View), st.PageSize),
		Paged:         st.PageSize > 0,
		Loading:       st.Loading,
		Error:         st.Error,
		Force:         t.dirty,
	}
	if f.Paged {
		f.PageOffset = st.Page * st.PageSize
	}
	if pos, ok := t.focus.Position(); ok {
		f.Focused = true
		f.FocusRow, f.FocusCol = pos.Row, pos.Col
	}
	if t.focus.Editing() {
		pos, _ := t.focus.Position()
		f.Edit = render.EditOverlay{
			Active:  true,
			Row:     pos.Row,
			Col:     pos.Col,
			Text:    t.focus.Input(),
			Cursor:  t.focus.Cursor(),
			Checked: t.focus.Checked(),
			Invalid: t.focus.Invalid(),
		}
	}
	return f
}

// SetLoading toggles the loading overlay.
func (t *Table) SetLoading(loading bool) {
	if t.destroyed {
		return
	}
	t.state.Set(func(s *state.State) { s.Loading = loading })
	t.dirty = true
	t.redraw()
}

// SetError shows msg in the error overlay; an empty msg hides it.
func (t *Table) SetError(msg string) {
	if t.destroyed {
		return
	}
	t.state.Set(func(s *state.State) { s.Error = msg })
	t.dirty = true
	t.redraw()
}

// SetTheme restyles the grid and repaints it.
func (t *Table) SetTheme(theme render.Theme) {
	if t.destroyed {
		return
	}
	t.renderer.SetTheme(theme)
	t.dirty = true
	t.redraw()
}
