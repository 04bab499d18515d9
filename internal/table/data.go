package table

import (
	"maps"

	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/state"
	"github.com/dshills/keygrid/internal/view"
)

// SetData replaces the rows. The table references rows rather than copying
// them. View, selection, sort, filters, page and focus reset to defaults.
func (t *Table) SetData(rows []model.Row) {
	if t.destroyed {
		return
	}
	t.load(rows)
}

func (t *Table) load(rows []model.Row) {
	t.focus.Reset()
	if !t.explicit && t.columns.Len() == 0 && len(rows) > 0 {
		t.columns = model.NewColumns(model.DetectColumns(rows[0]))
		t.logger.Debug("detected %d columns", t.columns.Len())
	}
	t.ids.Reset()
	t.index = model.BuildIndex(rows, t.ids)
	if d := t.index.Duplicates(); d > 0 {
		t.logger.Warn("%d rows share an id with an earlier row", d)
	}

	t.loadGen++
	gen := t.loadGen
	large := t.cfg.loadingThreshold > 0 && len(rows) > t.cfg.loadingThreshold
	t.deferred = large

	t.mutate(func(s *state.State) {
		s.Data = rows
		s.Sort = state.SortSpec{}
		s.GlobalFilter = ""
		s.ColumnFilters = map[string]string{}
		s.Selection = state.Selection{}
		s.Page = 0
		s.ScrollTop = 0
		s.Loading = large
		s.Error = ""
	}, state.KeyData)
	t.viewport.ScrollToTop()
	t.tracker.Invalidate()
	t.emit(TopicDataLoad, DataEvent{Rows: len(rows), Columns: t.columns.Len()})

	if !large {
		t.settle()
		return
	}
	t.logger.Info("deferring view of %d rows", len(rows))
	t.redraw()
	t.cfg.scheduler.Schedule(func() {
		if t.destroyed || gen != t.loadGen {
			return
		}
		t.deferred = false
		t.mutate(func(s *state.State) { s.Loading = false })
		t.settle()
	})
}

// Data returns the raw rows.
func (t *Table) Data() []model.Row { return t.state.Get().Data }

// FilteredData materializes the current view in view order, across all
// pages.
func (t *Table) FilteredData() []model.Row {
	st := t.state.Get()
	return view.Materialize(st.Data, st.View)
}

// RowCount returns the raw and filtered row counts.
func (t *Table) RowCount() (total, filtered int) {
	st := t.state.Get()
	return len(st.Data), len(st.View)
}

// RowByID returns the row with id.
func (t *Table) RowByID(id string) (model.Row, bool) {
	raw, ok := t.index.Lookup(id)
	if !ok {
		return nil, false
	}
	data := t.state.Get().Data
	if raw >= len(data) {
		return nil, false
	}
	return data[raw], true
}

// RowID returns the id of the row at a display position on the current page.
func (t *Table) RowID(viewPos int) (string, bool) {
	rows := t.page(t.state.Get())
	if viewPos < 0 || viewPos >= len(rows) {
		return "", false
	}
	return t.index.ID(rows[viewPos]), true
}

// Columns returns every declared column, hidden ones included.
func (t *Table) Columns() []model.Column { return t.columns.All() }

// UpdateCell writes value into one cell and rebuilds the view. It reports
// false for an unknown row or column.
func (t *Table) UpdateCell(rowID, columnID string, value any) bool {
	col, ok := t.columns.Get(columnID)
	if !ok {
		return false
	}
	return t.update(rowID, map[string]any{col.Field: value})
}

// UpdateRow merges partial into the row. Keys are field paths.
func (t *Table) UpdateRow(rowID string, partial model.Row) bool {
	if len(partial) == 0 {
		_, ok := t.RowByID(rowID)
		return ok
	}
	return t.update(rowID, partial)
}

func (t *Table) update(rowID string, changes map[string]any) bool {
	if t.destroyed {
		return false
	}
	raw, ok := t.index.Lookup(rowID)
	data := t.state.Get().Data
	if !ok || raw >= len(data) {
		return false
	}
	row := data[raw]
	t.commitPending()
	for field, v := range changes {
		model.Set(row, field, v)
	}
	if t.identityChanged(changes) {
		t.index = model.BuildIndex(data, t.ids)
		rowID = t.index.ID(raw)
	}
	t.mutate(func(*state.State) {}, state.KeyData)
	t.emit(TopicRowUpdate, RowUpdateEvent{RowID: rowID, Row: row, Changes: maps.Clone(changes)})
	t.settle()
	return true
}

// SetCellValue is UpdateCell addressed the way the editor addresses cells.
func (t *Table) SetCellValue(rowID, columnID string, value any) bool {
	return t.UpdateCell(rowID, columnID, value)
}

// identityChanged reports whether changes may have moved a row id.
func (t *Table) identityChanged(changes map[string]any) bool {
	if t.cfg.idFunc != nil {
		return true
	}
	f := t.ids.Field()
	if f == "" {
		return false
	}
	_, ok := changes[f]
	return ok
}
