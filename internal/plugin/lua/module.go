package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/input"
	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/plugin"
	"github.com/dshills/keygrid/internal/state"
)

// module exposes a plugin.API to Lua as the grid table.
type module struct {
	s   *State
	api *plugin.API
}

func newModule(s *State, api *plugin.API) *module {
	return &module{s: s, api: api}
}

func (m *module) table() *lua.LTable {
	funcs := map[string]lua.LGFunction{
		"on":              m.on,
		"intercept":       m.intercept,
		"emit":            m.emit,
		"state":           m.state,
		"sort":            m.sort,
		"clear_sort":      m.clearSort,
		"filter":          m.filter,
		"filter_column":   m.filterColumn,
		"clear_filters":   m.clearFilters,
		"reset":           m.reset,
		"rows":            m.rows,
		"data":            m.data,
		"row":             m.row,
		"update_cell":     m.updateCell,
		"selected_ids":    m.selectedIDs,
		"select":          m.selectRow,
		"select_all":      m.selectAll,
		"clear_selection": m.clearSelection,
		"extend":          m.extend,
		"call":            m.call,
		"bind":            m.bind,
		"render":          m.render,
		"log":             m.log,
		"warn":            m.warn,
	}
	t := m.s.L.SetFuncs(m.s.L.NewTable(), funcs)
	t.RawSetString("name", lua.LString(m.api.Name()))
	return t
}

// callback runs a Lua function from Go, logging failures.
func (m *module) callback(fn *lua.LFunction, args ...any) []lua.LValue {
	if m.s.Closed() {
		return nil
	}
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = ToLua(m.s.L, a)
	}
	results, err := m.s.Call(fn, largs...)
	if err != nil {
		m.api.Logger.Error("lua callback: %v", err)
		return nil
	}
	return results
}

func (m *module) on(L *lua.LState) int {
	t := topic.Topic(L.CheckString(1))
	fn := L.CheckFunction(2)
	sub := m.api.On(t, func(payload any) { m.callback(fn, payload) })
	L.Push(lua.LNumber(sub.ID()))
	return 1
}

// intercept: returning false cancels, nil or true continues, anything else
// replaces the payload.
func (m *module) intercept(L *lua.LState) int {
	t := topic.Topic(L.CheckString(1))
	fn := L.CheckFunction(2)
	sub := m.api.Intercept(t, func(payload any) event.Outcome {
		res := m.callback(fn, payload)
		if len(res) == 0 {
			return event.Continue()
		}
		switch v := res[0].(type) {
		case *lua.LNilType:
			return event.Continue()
		case lua.LBool:
			if !bool(v) {
				return event.Cancel()
			}
			return event.Continue()
		}
		return event.Replace(ToGo(res[0]))
	})
	L.Push(lua.LNumber(sub.ID()))
	return 1
}

func (m *module) emit(L *lua.LState) int {
	res := m.api.Emit(topic.Topic(L.CheckString(1)), ToGo(L.Get(2)))
	L.Push(lua.LBool(res.Cancelled))
	return 1
}

func (m *module) state(L *lua.LState) int {
	st := m.api.GetState()
	L.Push(ToLua(L, map[string]any{
		"sort_column":    st.Sort.Column,
		"sort_direction": string(st.Sort.Direction),
		"filter":         st.GlobalFilter,
		"column_filters": stringMap(st.ColumnFilters),
		"selected":       st.Selection.IDs(),
		"hidden":         st.HiddenColumns,
		"page":           st.Page,
		"page_size":      st.PageSize,
		"total":          len(st.Data),
		"filtered":       len(st.View),
		"loading":        st.Loading,
		"error":          st.Error,
	}))
	return 1
}

func stringMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m *module) sort(L *lua.LState) int {
	col := L.CheckString(1)
	var ok bool
	if dir := L.OptString(2, ""); dir != "" {
		d, valid := state.ParseDirection(dir)
		if !valid {
			L.ArgError(2, "direction must be asc or desc")
			return 0
		}
		ok = m.api.Table.Sort(col, d)
	} else {
		ok = m.api.Table.ToggleSort(col)
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (m *module) clearSort(*lua.LState) int {
	m.api.Table.ClearSort()
	return 0
}

func (m *module) filter(L *lua.LState) int {
	L.Push(lua.LBool(m.api.Table.Filter(L.OptString(1, ""))))
	return 1
}

func (m *module) filterColumn(L *lua.LState) int {
	L.Push(lua.LBool(m.api.Table.FilterColumn(L.CheckString(1), L.OptString(2, ""))))
	return 1
}

func (m *module) clearFilters(*lua.LState) int {
	m.api.Table.ClearFilters()
	return 0
}

func (m *module) reset(*lua.LState) int {
	m.api.Table.Reset()
	return 0
}

func (m *module) rows(L *lua.LState) int {
	rows := m.api.Table.FilteredData()
	t := L.CreateTable(len(rows), 0)
	for i, r := range rows {
		t.RawSetInt(i+1, ToLua(L, map[string]any(r)))
	}
	L.Push(t)
	return 1
}

func (m *module) data(L *lua.LState) int {
	rows := m.api.Table.Data()
	t := L.CreateTable(len(rows), 0)
	for i, r := range rows {
		t.RawSetInt(i+1, ToLua(L, map[string]any(r)))
	}
	L.Push(t)
	return 1
}

func (m *module) row(L *lua.LState) int {
	r, ok := m.api.Table.RowByID(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(ToLua(L, map[string]any(r)))
	return 1
}

func (m *module) updateCell(L *lua.LState) int {
	ok := m.api.Table.UpdateCell(L.CheckString(1), L.CheckString(2), ToGo(L.Get(3)))
	L.Push(lua.LBool(ok))
	return 1
}

func (m *module) selectedIDs(L *lua.LState) int {
	L.Push(ToLua(L, m.api.Table.SelectedIDs()))
	return 1
}

func (m *module) selectRow(L *lua.LState) int {
	L.Push(lua.LBool(m.api.Table.SelectRow(L.CheckString(1))))
	return 1
}

func (m *module) selectAll(*lua.LState) int {
	m.api.Table.SelectAll()
	return 0
}

func (m *module) clearSelection(*lua.LState) int {
	m.api.Table.ClearSelection()
	return 0
}

func (m *module) extend(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	err := m.api.Extend(name, func(args ...any) (any, error) {
		if m.s.Closed() {
			return nil, ErrStateClosed
		}
		largs := make([]lua.LValue, len(args))
		for i, a := range args {
			largs[i] = ToLua(m.s.L, a)
		}
		res, err := m.s.Call(fn, largs...)
		if err != nil || len(res) == 0 {
			return nil, err
		}
		return ToGo(res[0]), nil
	})
	if err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (m *module) call(L *lua.LState) int {
	name := L.CheckString(1)
	args := make([]any, 0, L.GetTop()-1)
	for i := 2; i <= L.GetTop(); i++ {
		args = append(args, ToGo(L.Get(i)))
	}
	res, err := m.api.Table.Call(name, args...)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(ToLua(L, res))
	return 1
}

// bind: the handler receives the chord text; returning false lets the key
// fall through.
func (m *module) bind(L *lua.LState) int {
	keys := L.CheckString(1)
	fn := L.CheckFunction(2)
	_, err := m.api.Bind(input.Binding{
		Keys:        keys,
		Description: L.OptString(3, ""),
		Action: func(ev key.Event) bool {
			res := m.callback(fn, ev.String())
			if len(res) > 0 {
				if b, ok := res[0].(lua.LBool); ok {
					return bool(b)
				}
			}
			return true
		},
	})
	if err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (m *module) render(*lua.LState) int {
	m.api.Table.Render()
	return 0
}

func (m *module) log(L *lua.LState) int {
	m.api.Logger.Info("%s", L.CheckString(1))
	return 0
}

func (m *module) warn(L *lua.LState) int {
	m.api.Logger.Warn("%s", L.CheckString(1))
	return 0
}
