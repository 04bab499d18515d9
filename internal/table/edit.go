package table

import (
	"slices"

	"github.com/dshills/keygrid/internal/focus"
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/state"
)

// StartEdit opens the editor on a cell. A different edit in progress is
// committed first.
func (t *Table) StartEdit(rowID, columnID string) bool {
	row, col, ok := t.locate(rowID, columnID)
	if !ok {
		return false
	}
	started := t.focus.StartEdit(focus.Position{Row: row, Col: col})
	t.settle()
	return started
}

// SetEditInput replaces the pending editor text.
func (t *Table) SetEditInput(text string) {
	if t.destroyed {
		return
	}
	t.focus.SetInput(text)
	t.redraw()
}

// StopEdit commits the pending edit in place. It reports false when the
// validator rejected the value; the editor then stays open.
func (t *Table) StopEdit() bool {
	if t.destroyed {
		return false
	}
	ok := t.focus.Commit(focus.Blur)
	t.settle()
	return ok
}

// CancelEdit discards the pending edit.
func (t *Table) CancelEdit() {
	if t.destroyed {
		return
	}
	t.focus.Cancel()
	t.settle()
}

// Editing reports whether a cell editor is open.
func (t *Table) Editing() bool { return t.focus.Editing() }

// CanEdit reports whether cells in the column accept edits.
func (t *Table) CanEdit(columnID string) bool {
	col, ok := t.columns.Get(columnID)
	return ok && t.editable(col)
}

// editable resolves the column flag, then the allowlist, then the global
// flag.
func (t *Table) editable(col model.Column) bool {
	if col.Editable != nil {
		return *col.Editable
	}
	if slices.Contains(t.cfg.editableColumns, col.ID) {
		return true
	}
	return t.cfg.editable
}

// grid adapts the table to the focus controller. Positions are display
// positions on the current page and visible column positions.
type grid struct{ t *Table }

func (g grid) rows() []int { return g.t.page(g.t.state.Get()) }

func (g grid) RowCount() int { return len(g.rows()) }

func (g grid) ColumnCount() int { return len(g.t.visibleColumns(g.t.state.Get())) }

func (g grid) ColumnAt(col int) (model.Column, bool) {
	cols := g.t.visibleColumns(g.t.state.Get())
	if col < 0 || col >= len(cols) {
		return model.Column{}, false
	}
	return cols[col], true
}

func (g grid) RowID(row int) string {
	rows := g.rows()
	if row < 0 || row >= len(rows) {
		return ""
	}
	return g.t.index.ID(rows[row])
}

func (g grid) cell(row, col int) (model.Row, model.Column, bool) {
	rows := g.rows()
	column, ok := g.ColumnAt(col)
	if !ok || row < 0 || row >= len(rows) {
		return nil, model.Column{}, false
	}
	data := g.t.state.Get().Data
	raw := rows[row]
	if raw >= len(data) {
		return nil, model.Column{}, false
	}
	return data[raw], column, true
}

func (g grid) Value(row, col int) any {
	r, column, ok := g.cell(row, col)
	if !ok {
		return nil
	}
	v, _ := column.Value(r)
	return v
}

// Write stores the committed value in place. The view is rebuilt when the
// current entry point settles, so a sorted edit does not move rows under
// the controller mid-commit.
func (g grid) Write(row, col int, value any) {
	r, column, ok := g.cell(row, col)
	if !ok {
		return
	}
	model.Set(r, column.Field, value)
	g.t.edited = true
	g.t.dirty = true
	if g.t.identityChanged(map[string]any{column.Field: value}) {
		g.t.index = model.BuildIndex(g.t.state.Get().Data, g.t.ids)
	}
}

func (g grid) Editable(col int) bool {
	column, ok := g.ColumnAt(col)
	return ok && g.t.editable(column)
}

func (g grid) ToggleSelection(row int) bool {
	id := g.RowID(row)
	if id == "" || g.t.cfg.selectionMode == state.SelectNone {
		return false
	}
	if g.t.IsSelected(id) {
		g.t.changeSelection(func(sel state.Selection) state.Selection { return sel.Without(id) })
		return true
	}
	g.t.changeSelection(func(sel state.Selection) state.Selection {
		if g.t.cfg.selectionMode == state.SelectSingle {
			return state.NewSelection(id)
		}
		return sel.With(id)
	})
	return true
}

func (g grid) EnsureVisible(row int) {
	if g.t.viewport.EnsureVisible(row, g.RowCount()) {
		g.t.syncScroll()
	}
}

func (g grid) PageRows() int { return g.t.viewport.VisibleRows() }
