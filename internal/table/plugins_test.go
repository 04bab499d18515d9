package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keygrid/internal/plugin"
	"github.com/dshills/keygrid/internal/plugin/lua"
	"github.com/dshills/keygrid/internal/state"
)

func TestUseDefinition(t *testing.T) {
	tbl, _ := newTable(t)
	destroyed := 0

	counter := plugin.Definition{
		Name: "counter",
		Init: func(api *plugin.API) (any, error) {
			n := 0
			api.On(TopicSortAfter, func(any) { n++ })
			err := api.Extend("sortCount", func(...any) (any, error) { return n, nil })
			return &n, err
		},
		Destroy: func(any) error {
			destroyed++
			return nil
		},
	}

	got, err := tbl.Use(counter, plugin.Options{"label": "x"})
	require.NoError(t, err)
	assert.Same(t, tbl, got)
	assert.Equal(t, []string{"counter"}, tbl.Plugins())

	tbl.Sort("age", state.Asc)
	tbl.Sort("name", state.Asc)
	v, err := tbl.Call("sortCount")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.True(t, tbl.HasExtension("sortCount"))

	inst, ok := tbl.Plugin("counter")
	require.True(t, ok)
	assert.Equal(t, "x", inst.Options.String("label", ""))

	require.NoError(t, tbl.Destroy())
	assert.Equal(t, 1, destroyed)
}

func TestUseValidation(t *testing.T) {
	tbl, _ := newTable(t)
	noop := func(*plugin.API) (any, error) { return nil, nil }

	_, err := tbl.Use(plugin.Definition{Name: "child", Init: noop, Dependencies: []string{"parent"}}, nil)
	assert.ErrorIs(t, err, plugin.ErrDependencyNotFound)

	_, err = tbl.Use(plugin.Definition{Name: "empty"}, nil)
	assert.ErrorIs(t, err, plugin.ErrMissingInit)

	assert.Panics(t, func() { tbl.MustUse(plugin.Definition{Init: noop}, nil) })

	tbl.MustUse(plugin.Definition{Name: "parent", Init: noop}, nil).
		MustUse(plugin.Definition{Name: "child", Init: noop, Dependencies: []string{"parent"}}, nil)
	assert.Equal(t, []string{"parent", "child"}, tbl.Plugins())
	assert.Error(t, tbl.RemovePlugin("parent"))
}

func TestUseContainsInitFailure(t *testing.T) {
	tbl, _ := newTable(t)
	var failures []plugin.LifecycleEvent
	tbl.On(plugin.TopicError, func(p any) { failures = append(failures, p.(plugin.LifecycleEvent)) })

	_, err := tbl.Use(plugin.Definition{
		Name: "broken",
		Init: func(api *plugin.API) (any, error) {
			_ = api.Extend("half", func(...any) (any, error) { return nil, nil })
			return nil, errors.New("boom")
		},
	}, nil)
	require.NoError(t, err)

	_, err = tbl.Use(plugin.Definition{
		Name: "panics",
		Init: func(*plugin.API) (any, error) { panic("bad") },
	}, nil)
	require.NoError(t, err)

	tbl.MustUse(plugin.Definition{Name: "fine", Init: func(*plugin.API) (any, error) { return nil, nil }}, nil)

	assert.Equal(t, []string{"fine"}, tbl.Plugins())
	assert.False(t, tbl.HasExtension("half"))
	require.Len(t, failures, 2)
	assert.Equal(t, "broken", failures[0].Name)
}

func TestPluginStateAccessRecomputesView(t *testing.T) {
	tbl, _ := newTable(t)
	var api *plugin.API
	tbl.MustUse(plugin.Definition{
		Name: "peek",
		Init: func(a *plugin.API) (any, error) {
			api = a
			return nil, nil
		},
	}, nil)

	api.SetState(func(s *state.State) { s.GlobalFilter = "oslo" })

	assert.Len(t, api.GetState().View, 2)
	assert.Equal(t, []string{"Carol", "Bob"}, names(tbl.FilteredData()))
	assert.Equal(t, "multi", api.Config()["selectionMode"])
}

func TestExtendFromHost(t *testing.T) {
	tbl, _ := newTable(t)
	require.NoError(t, tbl.Extend("rows", func(...any) (any, error) {
		total, _ := tbl.RowCount()
		return total, nil
	}))
	v, err := tbl.Call("rows")
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	assert.Contains(t, tbl.Extensions(), "rows")

	_, err = tbl.Call("missing")
	assert.ErrorIs(t, err, plugin.ErrNoExtension)
}

const doublerScript = `
return {
  name = "doubler",
  init = function(grid, options)
    grid.extend("double", function(x) return x * 2 end)
    grid.sort("age", "desc")
    return { ready = true }
  end,
}
`

func TestUseLuaPlugin(t *testing.T) {
	tbl, _ := newTable(t)
	p, err := lua.LoadString(doublerScript)
	require.NoError(t, err)

	_, err = tbl.Use(p, nil)
	require.NoError(t, err)

	assert.Equal(t, state.SortSpec{Column: "age", Direction: state.Desc}, tbl.SortState())
	v, err := tbl.Call("double", 21)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
}
