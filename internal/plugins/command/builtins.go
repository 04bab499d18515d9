package command

import (
	"fmt"

	"github.com/dshills/keygrid/internal/plugin"
	"github.com/dshills/keygrid/internal/state"
)

const builtinSource = "builtin"

func reject(ok bool, what string) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrRejected, what)
}

// call forwards to an extension another plugin provides.
func call(t plugin.Table, name string, args ...any) Handler {
	return func(map[string]any) error {
		_, err := t.Call(name, args...)
		return err
	}
}

func builtins(t plugin.Table) []*Command {
	column := Arg{Name: "column", Type: ArgColumn, Required: true, Description: "Column id"}
	return []*Command{
		{
			ID: "sort", Title: "Sort by column", Category: "Sort",
			Args: []Arg{column, {Name: "direction", Type: ArgEnum, Default: "asc", Options: []string{"asc", "desc"}}},
			Handler: func(a map[string]any) error {
				col := a["column"].(string)
				return reject(t.Sort(col, state.Direction(a["direction"].(string))), "sort "+col)
			},
		},
		{
			ID: "sort.toggle", Title: "Toggle sort", Category: "Sort",
			Description: "Cycle ascending, descending, unsorted",
			Args:        []Arg{column},
			Handler: func(a map[string]any) error {
				col := a["column"].(string)
				return reject(t.ToggleSort(col), "sort "+col)
			},
		},
		{
			ID: "sort.clear", Title: "Clear sort", Category: "Sort",
			Handler: func(map[string]any) error { t.ClearSort(); return nil },
		},
		{
			ID: "filter", Title: "Filter rows", Category: "Filter",
			Description: "Match any column",
			Args:        []Arg{{Name: "term", Type: ArgString, Required: true}},
			Handler: func(a map[string]any) error {
				return reject(t.Filter(a["term"].(string)), "filter")
			},
		},
		{
			ID: "filter.column", Title: "Filter column", Category: "Filter",
			Args: []Arg{column, {Name: "value", Type: ArgString, Default: ""}},
			Handler: func(a map[string]any) error {
				col := a["column"].(string)
				return reject(t.FilterColumn(col, a["value"].(string)), "filter "+col)
			},
		},
		{
			ID: "filter.clear", Title: "Clear filters", Category: "Filter",
			Handler: func(map[string]any) error { t.ClearFilters(); return nil },
		},
		{
			ID: "reset", Title: "Reset view", Category: "View",
			Description: "Clear sort, filters and paging",
			Handler: func(map[string]any) error { t.Reset(); return nil },
		},
		{
			ID: "select.all", Title: "Select all rows", Category: "Selection",
			Handler: func(map[string]any) error { t.SelectAll(); return nil },
		},
		{
			ID: "select.clear", Title: "Clear selection", Category: "Selection",
			Handler: func(map[string]any) error { t.ClearSelection(); return nil },
		},
		{
			ID: "column.toggle", Title: "Show or hide column", Category: "View",
			Args: []Arg{column},
			Handler: func(a map[string]any) error {
				col := a["column"].(string)
				return reject(t.ToggleColumn(col), "toggle "+col)
			},
		},
		{
			ID: "page.next", Title: "Next page", Category: "Paging",
			Handler: func(map[string]any) error { return reject(t.NextPage(), "next page") },
		},
		{
			ID: "page.prev", Title: "Previous page", Category: "Paging",
			Handler: func(map[string]any) error { return reject(t.PrevPage(), "previous page") },
		},
		{
			ID: "page.goto", Title: "Go to page", Category: "Paging",
			Args: []Arg{{Name: "page", Type: ArgNumber, Required: true, Description: "1-based page"}},
			Handler: func(a map[string]any) error {
				n, _ := toFloat(a["page"])
				t.SetPage(int(n) - 1)
				return nil
			},
		},
		{ID: "edit.undo", Title: "Undo", Category: "Edit", Keys: "Ctrl+Z", Handler: call(t, "undo")},
		{ID: "edit.redo", Title: "Redo", Category: "Edit", Keys: "Ctrl+Y", Handler: call(t, "redo")},
		{ID: "clipboard.copy", Title: "Copy", Category: "Edit", Keys: "Ctrl+C", Handler: call(t, "copy")},
		{ID: "clipboard.paste", Title: "Paste", Category: "Edit", Keys: "Ctrl+V", Handler: call(t, "paste")},
		{
			ID: "export", Title: "Export to file", Category: "Data",
			Description: "Write the view as csv, tsv, json, yaml, text or parquet",
			Args: []Arg{
				{Name: "path", Type: ArgString, Required: true},
				{Name: "scope", Type: ArgEnum, Default: "view", Options: []string{"view", "selection", "all"}},
			},
			Handler: func(a map[string]any) error {
				_, err := t.Call("exportFile", a["path"], "", a["scope"])
				return err
			},
		},
	}
}
