package lua

import (
	"errors"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/input"
	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/plugin"
	"github.com/dshills/keygrid/internal/state"
)

// fakeTable implements the parts of plugin.Table the scripts below touch.
type fakeTable struct {
	plugin.Table
	sorts   []string
	updates map[string]any
}

func (f *fakeTable) Sort(col string, dir state.Direction) bool {
	f.sorts = append(f.sorts, col+":"+string(dir))
	return true
}

func (f *fakeTable) ToggleSort(col string) bool {
	f.sorts = append(f.sorts, col+":toggle")
	return true
}

func (f *fakeTable) RowByID(id string) (model.Row, bool) {
	if id != "1" {
		return nil, false
	}
	return model.Row{"id": 1.0, "name": "ada"}, true
}

func (f *fakeTable) UpdateCell(rowID, col string, v any) bool {
	if f.updates == nil {
		f.updates = map[string]any{}
	}
	f.updates[rowID+"."+col] = v
	return true
}

func newHost(tbl plugin.Table) *plugin.Host {
	return plugin.NewHost(plugin.Environment{
		Table: tbl,
		Bus:   event.NewBus(),
		Input: input.NewService(nil),
	})
}

const greeter = `
return {
  name = "greeter",
  init = function(grid, options)
    local seen = {}
    grid.on("cell:edit", function(ev) table.insert(seen, ev.ColumnID) end)
    grid.extend("greet", function(who) return options.greeting .. ", " .. who end)
    grid.extend("seen", function() return table.concat(seen, ",") end)
    grid.extend("lookup", function(id)
      local r = grid.row(id)
      if r == nil then return "none" end
      return r.name
    end)
    grid.sort("age", "desc")
    grid.sort("name")
    grid.update_cell("1", "age", 40)
    return { ready = true }
  end,
}
`

type editPayload struct {
	RowID    string
	ColumnID string
}

func TestLuaPluginLifecycle(t *testing.T) {
	tbl := &fakeTable{}
	host := newHost(tbl)
	p, err := LoadString(greeter)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if p.Name() != "greeter" {
		t.Errorf("Name() = %q", p.Name())
	}

	inst, err := host.Register(p, plugin.Options{"greeting": "hello"})
	if err != nil || inst == nil {
		t.Fatalf("Register() = %v, %v", inst, err)
	}

	got, err := host.Extensions().Call("greet", "grid")
	if err != nil || got != "hello, grid" {
		t.Errorf("greet = %v, %v", got, err)
	}

	inst.API().Bus.Emit("cell:edit", editPayload{RowID: "1", ColumnID: "age"})
	inst.API().Bus.Emit("cell:edit", &editPayload{RowID: "2", ColumnID: "name"})
	if got, _ := host.Extensions().Call("seen"); got != "age,name" {
		t.Errorf("seen = %v, want age,name", got)
	}

	if got, _ := host.Extensions().Call("lookup", "1"); got != "ada" {
		t.Errorf("lookup(1) = %v", got)
	}
	if got, _ := host.Extensions().Call("lookup", "9"); got != "none" {
		t.Errorf("lookup(9) = %v", got)
	}

	if strings.Join(tbl.sorts, " ") != "age:desc name:toggle" {
		t.Errorf("sorts = %v", tbl.sorts)
	}
	if tbl.updates["1.age"] != 40.0 {
		t.Errorf("update value = %#v, want float64 40", tbl.updates["1.age"])
	}
	if m, ok := p.Instance().(map[string]any); !ok || m["ready"] != true {
		t.Errorf("Instance() = %#v", p.Instance())
	}

	if err := host.DestroyAll(); err != nil {
		t.Fatalf("DestroyAll() = %v", err)
	}
	if host.Extensions().Has("greet") {
		t.Error("extension survived destroy")
	}
}

func TestLuaPluginDefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no table", `return 42`, ErrNoDefinition},
		{"no init", `return { name = "x" }`, plugin.ErrMissingInit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadString(tt.src); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := LoadString(`return {`); err == nil {
		t.Error("syntax error not reported")
	}
}

func TestLuaPluginDependencies(t *testing.T) {
	host := newHost(&fakeTable{})
	p, err := LoadString(`return { name = "b", dependencies = { "a" }, init = function() end }`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := host.Register(p, nil); !errors.Is(err, plugin.ErrDependencyNotFound) {
		t.Errorf("Register() error = %v, want ErrDependencyNotFound", err)
	}
	if !p.Closed() {
		t.Error("rejected plugin kept its Lua state")
	}
}

func TestLuaDuplicateClosesState(t *testing.T) {
	host := newHost(&fakeTable{})
	const src = `return { name = "twice", init = function() end }`
	first, err := LoadString(src)
	if err != nil {
		t.Fatal(err)
	}
	inst, err := host.Register(first, nil)
	if err != nil || inst == nil {
		t.Fatalf("Register() = %v, %v", inst, err)
	}

	second, err := LoadString(src)
	if err != nil {
		t.Fatal(err)
	}
	again, err := host.Register(second, nil)
	if err != nil || again != inst {
		t.Fatalf("duplicate Register() = %v, %v; want the first instance", again, err)
	}
	if !second.Closed() {
		t.Error("duplicate plugin kept its Lua state")
	}
	if first.Closed() {
		t.Error("registered plugin's state was closed")
	}
}

func TestLuaInitErrorIsContained(t *testing.T) {
	host := newHost(&fakeTable{})
	p, err := LoadString(`return { name = "bad", init = function() error("nope") end }`)
	if err != nil {
		t.Fatal(err)
	}
	inst, err := host.Register(p, nil)
	if err != nil || inst != nil {
		t.Errorf("Register() = %v, %v; want nil, nil", inst, err)
	}
	if host.Has("bad") {
		t.Error("failing plugin registered")
	}
}

func TestLuaInterceptAndBind(t *testing.T) {
	host := newHost(&fakeTable{})
	p, err := LoadString(`
return {
  name = "guard",
  init = function(grid)
    grid.intercept("sort", function(ev)
      if ev.column == "secret" then return false end
    end)
    grid.intercept("filter", function(ev) return { term = string.lower(ev.term) } end)
    grid.bind("Ctrl+K", function(chord) grid.emit("guard:key", chord) end, "guard key")
  end,
}`)
	if err != nil {
		t.Fatal(err)
	}
	inst, err := host.Register(p, nil)
	if err != nil || inst == nil {
		t.Fatalf("Register() = %v, %v", inst, err)
	}
	bus := inst.API().Bus

	if res := bus.Emit("sort", map[string]any{"column": "secret"}); !res.Cancelled {
		t.Error("sort on secret not cancelled")
	}
	if res := bus.Emit("sort", map[string]any{"column": "name"}); res.Cancelled {
		t.Error("sort on name cancelled")
	}

	res := bus.Emit("filter", map[string]any{"term": "ABC"})
	if m, ok := res.Payload.(map[string]any); !ok || m["term"] != "abc" {
		t.Errorf("filter payload = %#v", res.Payload)
	}

	var chord any
	bus.On("guard:key", func(p any) { chord = p })
	if !inst.API().Input.Dispatch(key.Rune('k', key.ModCtrl)) {
		t.Fatal("binding did not consume Ctrl+K")
	}
	if chord != "Ctrl+K" {
		t.Errorf("chord = %v", chord)
	}
}

func TestSandbox(t *testing.T) {
	var printed []string
	s := NewState(WithPrint(func(line string) { printed = append(printed, line) }))
	defer s.Close()

	for _, global := range []string{"dofile", "loadfile", "load", "require", "io", "os", "debug"} {
		if s.L.GetGlobal(global) != lua.LNil {
			t.Errorf("global %q is available", global)
		}
	}
	if err := s.DoString(`print("a", 1, true)`); err != nil {
		t.Fatal(err)
	}
	if len(printed) != 1 || printed[0] != "a\t1\ttrue" {
		t.Errorf("printed = %q", printed)
	}
}

func TestExecutionTimeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()
	err := s.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("error = %v, want ErrExecutionTimeout", err)
	}
	if err := s.DoString(`x = 1`); err != nil {
		t.Errorf("state unusable after timeout: %v", err)
	}

	s.Close()
	if err := s.DoString(`x = 2`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("closed state error = %v", err)
	}
}

func TestBridgeRoundTrip(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	in := map[string]any{
		"n":    3.5,
		"s":    "x",
		"b":    true,
		"list": []any{1.0, "two"},
		"nest": map[string]any{"k": "v"},
		"when": time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	out, ok := ToGo(ToLua(L, in)).(map[string]any)
	if !ok {
		t.Fatalf("round trip lost map type")
	}
	if out["n"] != 3.5 || out["s"] != "x" || out["b"] != true {
		t.Errorf("scalars = %#v", out)
	}
	if l, ok := out["list"].([]any); !ok || len(l) != 2 || l[1] != "two" {
		t.Errorf("list = %#v", out["list"])
	}
	if n, ok := out["nest"].(map[string]any); !ok || n["k"] != "v" {
		t.Errorf("nest = %#v", out["nest"])
	}
	if out["when"] != "2024-01-02T00:00:00Z" {
		t.Errorf("when = %#v", out["when"])
	}

	type payload struct {
		Column string
		Count  int
		hidden bool
	}
	tbl, ok := ToLua(L, payload{Column: "age", Count: 2}).(*lua.LTable)
	if !ok {
		t.Fatal("struct did not convert to a table")
	}
	if tbl.RawGetString("Column").String() != "age" || tbl.RawGetString("hidden") != lua.LNil {
		t.Error("struct fields")
	}
}
