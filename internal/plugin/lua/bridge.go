package lua

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ToGo converts a Lua value to grid data. Numbers become float64, the grid's
// numeric type. Sequence tables become []any and other tables map[string]any.
func ToGo(lv lua.LValue) any {
	return toGo(lv, make(map[*lua.LTable]bool))
}

func toGo(lv lua.LValue, seen map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if seen[v] {
			return nil
		}
		seen[v] = true
		defer delete(seen, v)
		return tableToGo(v, seen)
	case *lua.LUserData:
		return v.Value
	}
	return nil
}

func tableToGo(t *lua.LTable, seen map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(lua.LValue, lua.LValue) { count++ })
	if n > 0 && n == count {
		out := make([]any, n)
		for i := range n {
			out[i] = toGo(t.RawGetInt(i+1), seen)
		}
		return out
	}
	out := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		out[keyString(k)] = toGo(v, seen)
	})
	return out
}

func keyString(k lua.LValue) string {
	if n, ok := k.(lua.LNumber); ok {
		return fmt.Sprint(float64(n))
	}
	return k.String()
}

// ToLua converts grid data to a Lua value. Structs become tables keyed by
// field name; times become RFC3339 strings.
func ToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case float64:
		return lua.LNumber(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case time.Time:
		return lua.LString(val.Format(time.RFC3339))
	case error:
		return lua.LString(val.Error())
	case fmt.Stringer:
		return lua.LString(val.String())
	case map[string]any:
		t := L.CreateTable(0, len(val))
		for _, k := range sortedKeys(val) {
			t.RawSetString(k, ToLua(L, val[k]))
		}
		return t
	case []any:
		t := L.CreateTable(len(val), 0)
		for i, e := range val {
			t.RawSetInt(i+1, ToLua(L, e))
		}
		return t
	case []string:
		t := L.CreateTable(len(val), 0)
		for i, e := range val {
			t.RawSetInt(i+1, lua.LString(e))
		}
		return t
	}
	return reflectToLua(L, reflect.ValueOf(v))
}

func reflectToLua(L *lua.LState, rv reflect.Value) lua.LValue {
	switch rv.Kind() {
	case reflect.Invalid:
		return lua.LNil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return lua.LNil
		}
		return ToLua(L, rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float())
	case reflect.Bool:
		return lua.LBool(rv.Bool())
	case reflect.String:
		return lua.LString(rv.String())
	case reflect.Slice, reflect.Array:
		t := L.CreateTable(rv.Len(), 0)
		for i := range rv.Len() {
			t.RawSetInt(i+1, ToLua(L, rv.Index(i).Interface()))
		}
		return t
	case reflect.Map:
		t := L.NewTable()
		iter := rv.MapRange()
		for iter.Next() {
			t.RawSet(ToLua(L, iter.Key().Interface()), ToLua(L, iter.Value().Interface()))
		}
		return t
	case reflect.Struct:
		t := L.NewTable()
		rt := rv.Type()
		for i := range rv.NumField() {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			t.RawSetString(f.Name, ToLua(L, rv.Field(i).Interface()))
		}
		return t
	}
	ud := L.NewUserData()
	ud.Value = rv.Interface()
	return ud
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stringList reads a Lua sequence of strings.
func stringList(lv lua.LValue) []string {
	t, ok := lv.(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	for i := 1; i <= t.Len(); i++ {
		if s, ok := t.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}
