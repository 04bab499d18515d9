package state

import (
	"reflect"
	"slices"

	"github.com/dshills/keygrid/internal/model"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps text to a Direction. Unknown input reports false.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Asc, Desc:
		return Direction(s), true
	}
	return "", false
}

// SortSpec is the active sort. A zero value means unsorted.
type SortSpec struct {
	Column    string
	Direction Direction
}

// Active reports whether a sort is set.
func (s SortSpec) Active() bool { return s.Column != "" }

// Next returns the three-state toggle successor for a click on column:
// unsorted -> asc -> desc -> unsorted.
func (s SortSpec) Next(column string) SortSpec {
	if s.Column != column {
		return SortSpec{Column: column, Direction: Asc}
	}
	switch s.Direction {
	case Asc:
		return SortSpec{Column: column, Direction: Desc}
	case Desc:
		return SortSpec{}
	default:
		return SortSpec{Column: column, Direction: Asc}
	}
}

// SelectionMode controls how many rows may be selected.
type SelectionMode string

const (
	SelectNone   SelectionMode = "none"
	SelectSingle SelectionMode = "single"
	SelectMulti  SelectionMode = "multi"
)

// ParseSelectionMode maps text to a SelectionMode, defaulting to none.
func ParseSelectionMode(s string) SelectionMode {
	switch SelectionMode(s) {
	case SelectSingle:
		return SelectSingle
	case SelectMulti:
		return SelectMulti
	}
	return SelectNone
}

// Selection is an insertion-ordered set of row ids.
type Selection struct {
	order []string
	set   map[string]struct{}
}

// NewSelection builds a selection from ids, ignoring duplicates.
func NewSelection(ids ...string) Selection {
	var s Selection
	for _, id := range ids {
		s = s.With(id)
	}
	return s
}

// Len returns the number of selected ids.
func (s Selection) Len() int { return len(s.order) }

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s.set[id]
	return ok
}

// IDs returns the selected ids in selection order.
func (s Selection) IDs() []string { return slices.Clone(s.order) }

// With returns a selection that also contains id.
func (s Selection) With(id string) Selection {
	if s.Has(id) {
		return s
	}
	out := s.clone()
	out.order = append(out.order, id)
	out.set[id] = struct{}{}
	return out
}

// Without returns a selection that does not contain id.
func (s Selection) Without(id string) Selection {
	if !s.Has(id) {
		return s
	}
	out := Selection{set: make(map[string]struct{}, len(s.set))}
	for _, v := range s.order {
		if v == id {
			continue
		}
		out.order = append(out.order, v)
		out.set[v] = struct{}{}
	}
	return out
}

// Retain drops ids for which keep returns false.
func (s Selection) Retain(keep func(id string) bool) Selection {
	out := Selection{set: make(map[string]struct{}, len(s.set))}
	for _, v := range s.order {
		if keep(v) {
			out.order = append(out.order, v)
			out.set[v] = struct{}{}
		}
	}
	return out
}

func (s Selection) clone() Selection {
	out := Selection{
		order: slices.Clone(s.order),
		set:   make(map[string]struct{}, len(s.set)+1),
	}
	for k := range s.set {
		out.set[k] = struct{}{}
	}
	return out
}

// State is one consistent snapshot of the grid's mutable state.
//
// Values obtained from Manager.Get share maps and slices with the manager.
// Treat them as read-only; write through Manager.Set.
type State struct {
	Data          []model.Row
	View          []int
	Sort          SortSpec
	GlobalFilter  string
	ColumnFilters map[string]string
	Selection     Selection
	HiddenColumns []string
	ColumnWidths  map[string]int
	Page          int
	PageSize      int
	ScrollTop     int
	Loading       bool
	Error         string
}

// Key names a State field in change notifications.
type Key string

const (
	KeyData          Key = "data"
	KeyView          Key = "view"
	KeySort          Key = "sort"
	KeyGlobalFilter  Key = "globalFilter"
	KeyColumnFilters Key = "columnFilters"
	KeySelection     Key = "selection"
	KeyHiddenColumns Key = "hiddenColumns"
	KeyColumnWidths  Key = "columnWidths"
	KeyPage          Key = "page"
	KeyPageSize      Key = "pageSize"
	KeyScrollTop     Key = "scrollTop"
	KeyLoading       Key = "loading"
	KeyError         Key = "error"
)

// HasFilters reports whether a global or column filter is active.
func (s State) HasFilters() bool {
	if s.GlobalFilter != "" {
		return true
	}
	for _, v := range s.ColumnFilters {
		if v != "" {
			return true
		}
	}
	return false
}

// IsHidden reports whether the column id is hidden.
func (s State) IsHidden(id string) bool {
	return slices.Contains(s.HiddenColumns, id)
}

// copyContainers gives s its own maps and slices so a mutation function can
// write freely without touching the previous state. Row maps are shared.
func (s State) copyContainers() State {
	s.Data = slices.Clone(s.Data)
	s.View = slices.Clone(s.View)
	s.HiddenColumns = slices.Clone(s.HiddenColumns)
	s.ColumnFilters = cloneMap(s.ColumnFilters)
	s.ColumnWidths = cloneMap(s.ColumnWidths)
	return s
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// diff lists the keys whose values differ between a and b.
func diff(a, b State) []Key {
	var keys []Key
	if !sameRows(a.Data, b.Data) {
		keys = append(keys, KeyData)
	}
	if !slices.Equal(a.View, b.View) {
		keys = append(keys, KeyView)
	}
	if a.Sort != b.Sort {
		keys = append(keys, KeySort)
	}
	if a.GlobalFilter != b.GlobalFilter {
		keys = append(keys, KeyGlobalFilter)
	}
	if !mapsEqual(a.ColumnFilters, b.ColumnFilters) {
		keys = append(keys, KeyColumnFilters)
	}
	if !slices.Equal(a.Selection.order, b.Selection.order) {
		keys = append(keys, KeySelection)
	}
	if !slices.Equal(a.HiddenColumns, b.HiddenColumns) {
		keys = append(keys, KeyHiddenColumns)
	}
	if !mapsEqual(a.ColumnWidths, b.ColumnWidths) {
		keys = append(keys, KeyColumnWidths)
	}
	if a.Page != b.Page {
		keys = append(keys, KeyPage)
	}
	if a.PageSize != b.PageSize {
		keys = append(keys, KeyPageSize)
	}
	if a.ScrollTop != b.ScrollTop {
		keys = append(keys, KeyScrollTop)
	}
	if a.Loading != b.Loading {
		keys = append(keys, KeyLoading)
	}
	if a.Error != b.Error {
		keys = append(keys, KeyError)
	}
	return keys
}

func sameRows(a, b []model.Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameRow(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameRow(a, b model.Row) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func mapsEqual[V comparable](a, b map[string]V) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}
