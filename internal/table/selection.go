package table

import (
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/state"
)

// SelectedIDs returns the selected row ids in selection order.
func (t *Table) SelectedIDs() []string { return t.state.Get().Selection.IDs() }

// Selected returns the selected rows in selection order.
func (t *Table) Selected() []model.Row {
	ids := t.SelectedIDs()
	out := make([]model.Row, 0, len(ids))
	for _, id := range ids {
		if row, ok := t.RowByID(id); ok {
			out = append(out, row)
		}
	}
	return out
}

// IsSelected reports whether id is selected.
func (t *Table) IsSelected(id string) bool { return t.state.Get().Selection.Has(id) }

// SelectionMode returns the configured mode.
func (t *Table) SelectionMode() state.SelectionMode { return t.cfg.selectionMode }

// SelectRow selects id and reports whether the selection changed. Single
// mode replaces the selection; none refuses.
func (t *Table) SelectRow(id string) bool {
	if !t.canSelect(id) {
		return false
	}
	return t.settleIf(t.changeSelection(func(sel state.Selection) state.Selection {
		if t.cfg.selectionMode == state.SelectSingle {
			return state.NewSelection(id)
		}
		return sel.With(id)
	}))
}

// DeselectRow removes id from the selection.
func (t *Table) DeselectRow(id string) bool {
	if t.destroyed || !t.IsSelected(id) {
		return false
	}
	return t.settleIf(t.changeSelection(func(sel state.Selection) state.Selection {
		return sel.Without(id)
	}))
}

// ToggleRow flips the selection of id.
func (t *Table) ToggleRow(id string) bool {
	if t.IsSelected(id) {
		return t.DeselectRow(id)
	}
	return t.SelectRow(id)
}

// SelectAll selects every row in the filtered view, across pages. It only
// applies in multi mode.
func (t *Table) SelectAll() {
	if t.destroyed || t.cfg.selectionMode != state.SelectMulti {
		return
	}
	st := t.state.Get()
	t.settleIf(t.changeSelection(func(sel state.Selection) state.Selection {
		for _, raw := range st.View {
			sel = sel.With(t.index.ID(raw))
		}
		return sel
	}))
}

// ClearSelection deselects everything.
func (t *Table) ClearSelection() {
	if t.destroyed || t.state.Get().Selection.Len() == 0 {
		return
	}
	t.settleIf(t.changeSelection(func(state.Selection) state.Selection { return state.Selection{} }))
}

func (t *Table) canSelect(id string) bool {
	if t.destroyed || t.cfg.selectionMode == state.SelectNone {
		return false
	}
	_, ok := t.index.Lookup(id)
	return ok
}

// changeSelection installs fn's selection and emits selection:change with
// the difference. It reports whether anything changed. Callers settle.
func (t *Table) changeSelection(fn func(state.Selection) state.Selection) bool {
	prev := t.state.Get().Selection
	next := fn(prev)

	var added, removed []string
	for _, id := range next.IDs() {
		if !prev.Has(id) {
			added = append(added, id)
		}
	}
	for _, id := range prev.IDs() {
		if !next.Has(id) {
			removed = append(removed, id)
		}
	}
	if len(added) == 0 && len(removed) == 0 {
		return false
	}

	t.state.Set(func(s *state.State) { s.Selection = next })
	t.dirty = true
	t.emit(TopicSelectionChange, SelectionEvent{IDs: next.IDs(), Added: added, Removed: removed})
	return true
}

func (t *Table) settleIf(changed bool) bool {
	if changed {
		t.settle()
	}
	return changed
}
