package table

import (
	"maps"

	"github.com/dshills/keygrid/internal/state"
)

// Sort sorts by columnID. An empty dir applies the three-state toggle.
//
// The sort event runs first: an interceptor may cancel it, in which case
// nothing changes and Sort returns false, or replace the SortEvent to sort
// differently. An unknown column is applied and leaves the view in raw
// order; a column that is not sortable is refused.
func (t *Table) Sort(columnID string, dir state.Direction) bool {
	if t.destroyed || columnID == "" {
		return false
	}
	if col, ok := t.columns.Get(columnID); ok && !col.CanSort() {
		return false
	}
	var next state.SortSpec
	if dir == "" {
		next = t.state.Get().Sort.Next(columnID)
	} else {
		if _, ok := state.ParseDirection(string(dir)); !ok {
			return false
		}
		next = state.SortSpec{Column: columnID, Direction: dir}
	}
	if !next.Active() {
		t.ClearSort()
		return true
	}

	res := t.emit(TopicSort, SortEvent{Column: next.Column, Direction: next.Direction})
	if res.Cancelled {
		t.logger.Debug("sort on %s vetoed", columnID)
		return false
	}
	if ev, ok := res.Payload.(SortEvent); ok && ev.Column != "" {
		next = state.SortSpec{Column: ev.Column, Direction: ev.Direction}
		if next.Direction == "" {
			next.Direction = state.Asc
		}
	}

	t.commitPending()
	t.mutate(func(s *state.State) { s.Sort = next })
	t.emit(TopicSortAfter, SortEvent{Column: next.Column, Direction: next.Direction})
	t.settle()
	return true
}

// ToggleSort cycles columnID through asc, desc and unsorted.
func (t *Table) ToggleSort(columnID string) bool {
	return t.Sort(columnID, "")
}

// ClearSort restores raw order.
func (t *Table) ClearSort() {
	if t.destroyed {
		return
	}
	t.commitPending()
	t.mutate(func(s *state.State) { s.Sort = state.SortSpec{} })
	t.emit(TopicSortClear, nil)
	t.settle()
}

// SortState returns the active sort.
func (t *Table) SortState() state.SortSpec { return t.state.Get().Sort }

// Filter sets the global search term. An empty term clears it.
func (t *Table) Filter(term string) bool {
	return t.applyFilter(FilterEvent{Value: term})
}

// FilterColumn sets a per-column substring filter. An empty value removes
// it. Unknown and non-filterable columns are refused.
func (t *Table) FilterColumn(columnID, value string) bool {
	if columnID == "" {
		return t.Filter(value)
	}
	col, ok := t.columns.Get(columnID)
	if !ok || !col.CanFilter() {
		return false
	}
	return t.applyFilter(FilterEvent{Column: columnID, Value: value})
}

func (t *Table) applyFilter(ev FilterEvent) bool {
	if t.destroyed {
		return false
	}
	res := t.emit(TopicFilter, ev)
	if res.Cancelled {
		t.logger.Debug("filter %q vetoed", ev.Value)
		return false
	}
	if replaced, ok := res.Payload.(FilterEvent); ok {
		ev = replaced
	}

	t.commitPending()
	t.mutate(func(s *state.State) {
		if ev.Column == "" {
			s.GlobalFilter = ev.Value
			return
		}
		if ev.Value == "" {
			delete(s.ColumnFilters, ev.Column)
			return
		}
		s.ColumnFilters[ev.Column] = ev.Value
	})
	t.emit(TopicFilterAfter, ev)
	t.settle()
	return true
}

// ClearFilters removes the global term and every column filter.
func (t *Table) ClearFilters() {
	if t.destroyed {
		return
	}
	t.commitPending()
	t.mutate(func(s *state.State) {
		s.GlobalFilter = ""
		s.ColumnFilters = map[string]string{}
	})
	t.emit(TopicFilterClear, nil)
	t.settle()
}

// Filters returns the global term and a copy of the column filters.
func (t *Table) Filters() (global string, columns map[string]string) {
	st := t.state.Get()
	return st.GlobalFilter, maps.Clone(st.ColumnFilters)
}

// Reset clears sort and filters in one state write.
func (t *Table) Reset() {
	if t.destroyed {
		return
	}
	t.commitPending()
	t.mutate(func(s *state.State) {
		s.Sort = state.SortSpec{}
		s.GlobalFilter = ""
		s.ColumnFilters = map[string]string{}
		s.Page = 0
	})
	t.emit(TopicReset, nil)
	t.settle()
}
