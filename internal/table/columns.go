package table

import (
	"maps"
	"slices"

	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/state"
)

// visibleColumns returns the columns not hidden in s, with width overrides
// applied.
func (t *Table) visibleColumns(s state.State) []model.Column {
	all := t.columns.All()
	out := make([]model.Column, 0, len(all))
	for _, c := range all {
		if s.IsHidden(c.ID) {
			continue
		}
		if w, ok := s.ColumnWidths[c.ID]; ok {
			c.Width = c.ClampWidth(w)
		}
		out = append(out, c)
	}
	return out
}

// VisibleColumns returns the columns in display order with their effective
// widths.
func (t *Table) VisibleColumns() []model.Column { return t.visibleColumns(t.state.Get()) }

// HiddenColumns returns the ids of hidden columns.
func (t *Table) HiddenColumns() []string { return slices.Clone(t.state.Get().HiddenColumns) }

// HideColumn hides a column. It reports false for unknown or already
// hidden columns.
func (t *Table) HideColumn(columnID string) bool {
	return t.setHidden(columnID, true)
}

// ShowColumn shows a hidden column.
func (t *Table) ShowColumn(columnID string) bool {
	return t.setHidden(columnID, false)
}

// ToggleColumn flips a column's visibility.
func (t *Table) ToggleColumn(columnID string) bool {
	return t.setHidden(columnID, !t.state.Get().IsHidden(columnID))
}

func (t *Table) setHidden(columnID string, hidden bool) bool {
	if t.destroyed || !t.columns.Has(columnID) {
		return false
	}
	if t.state.Get().IsHidden(columnID) == hidden {
		return false
	}
	t.commitPending()
	t.mutate(func(s *state.State) {
		if hidden {
			s.HiddenColumns = append(s.HiddenColumns, columnID)
			return
		}
		s.HiddenColumns = slices.DeleteFunc(s.HiddenColumns, func(id string) bool { return id == columnID })
	})
	t.emit(TopicColumnVisibility, ColumnEvent{ColumnID: columnID, Hidden: hidden})
	t.settle()
	return true
}

// SetColumnWidth overrides a column's width, clamped by its bounds. It
// reports false for unknown or non-resizable columns.
func (t *Table) SetColumnWidth(columnID string, width int) bool {
	if t.destroyed {
		return false
	}
	col, ok := t.columns.Get(columnID)
	if !ok || !col.CanResize() {
		return false
	}
	width = col.ClampWidth(width)
	t.mutate(func(s *state.State) { s.ColumnWidths[columnID] = width })
	t.tracker.Invalidate()
	t.emit(TopicColumnResize, ColumnEvent{ColumnID: columnID, Width: width})
	t.settle()
	return true
}

// ColumnWidths returns the width overrides.
func (t *Table) ColumnWidths() map[string]int { return maps.Clone(t.state.Get().ColumnWidths) }

// ResetColumnWidths drops every override.
func (t *Table) ResetColumnWidths() {
	if t.destroyed || len(t.state.Get().ColumnWidths) == 0 {
		return
	}
	t.mutate(func(s *state.State) { s.ColumnWidths = map[string]int{} })
	t.tracker.Invalidate()
	t.emit(TopicColumnResize, ColumnEvent{})
	t.settle()
}
