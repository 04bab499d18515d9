package urlstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/plugin"
	"github.com/dshills/keygrid/internal/render/backend"
	"github.com/dshills/keygrid/internal/state"
	"github.com/dshills/keygrid/internal/table"
)

func newTable(t *testing.T, opts plugin.Options) *table.Table {
	t.Helper()
	tbl, err := table.New(backend.NewMemory(60, 10),
		table.WithIDField("id"),
		table.WithPageSize(2),
		table.WithColumns(
			model.Column{ID: "id", Type: model.TypeNumber},
			model.Column{ID: "name"},
			model.Column{ID: "age", Type: model.TypeNumber},
			model.Column{ID: "city"},
		),
		table.WithData([]model.Row{
			{"id": 1, "name": "ann", "age": 30, "city": "Oslo"},
			{"id": 2, "name": "ben", "age": 25, "city": "Oslo"},
			{"id": 3, "name": "cid", "age": 41, "city": "Rome"},
			{"id": 4, "name": "dan", "age": 35, "city": "Oslo"},
			{"id": 5, "name": "eve", "age": 22, "city": "Paris"},
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Destroy() })
	tbl.MustUse(New(), opts)
	return tbl
}

func names(rows []model.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i], _ = r["name"].(string)
	}
	return out
}

func TestEncode(t *testing.T) {
	s := state.State{
		Sort:          state.SortSpec{Column: "name", Direction: state.Desc},
		GlobalFilter:  "oslo",
		ColumnFilters: map[string]string{"city": "os", "age": ""},
		Page:          1,
		HiddenColumns: []string{"id", "age"},
	}
	assert.Equal(t, "f.city=os&hidden=age%2Cid&page=2&q=oslo&sort=name%3Adesc", Encode(s))
	assert.Equal(t, "", Encode(state.State{}))
}

func TestUpdatesFollowState(t *testing.T) {
	var sunk []string
	tbl := newTable(t, plugin.Options{"sink": func(q string) { sunk = append(sunk, q) }})
	var updates []Event
	tbl.On(TopicUpdate, func(p any) { updates = append(updates, p.(Event)) })

	tbl.Sort("name", state.Asc)
	tbl.SelectRow("1")
	tbl.NextPage()

	require.Len(t, updates, 2)
	assert.Equal(t, "sort=name%3Aasc", updates[0].Query)
	assert.Equal(t, "page=2&sort=name%3Aasc", updates[1].Query)
	assert.Equal(t, []string{updates[0].Query, updates[1].Query}, sunk)

	q, err := tbl.Call("stateQuery")
	require.NoError(t, err)
	assert.Equal(t, "page=2&sort=name%3Aasc", q)
}

func TestRestore(t *testing.T) {
	tbl := newTable(t, nil)
	tbl.Filter("eve")
	var updates, restores int
	tbl.On(TopicUpdate, func(any) { updates++ })
	tbl.On(TopicRestore, func(any) { restores++ })

	_, err := tbl.Call("restoreQuery", "?sort=age:desc&f.city=oslo&page=2&hidden=id")
	require.NoError(t, err)

	assert.Equal(t, state.SortSpec{Column: "age", Direction: state.Desc}, tbl.SortState())
	global, cols := tbl.Filters()
	assert.Empty(t, global)
	assert.Equal(t, map[string]string{"city": "oslo"}, cols)
	assert.Equal(t, []string{"dan", "ann", "ben"}, names(tbl.FilteredData()))
	assert.Equal(t, 1, tbl.Page())
	assert.Equal(t, []string{"id"}, tbl.HiddenColumns())

	assert.Zero(t, updates)
	assert.Equal(t, 1, restores)
}

func TestRestoreShowsColumns(t *testing.T) {
	tbl := newTable(t, nil)
	require.True(t, tbl.ToggleColumn("age"))

	_, err := tbl.Call("restoreQuery", "hidden=city")
	require.NoError(t, err)
	assert.Equal(t, []string{"city"}, tbl.HiddenColumns())
}

func TestRestoreReportsSkippedParts(t *testing.T) {
	tbl := newTable(t, nil)
	tbl.Sort("name", state.Asc)

	_, err := tbl.Call("restoreQuery", "sort=name:sideways&f.missing=x&page=0&q=ann")
	require.Error(t, err)
	assert.ErrorContains(t, err, "sort")
	assert.ErrorContains(t, err, "missing")
	assert.ErrorContains(t, err, "page")

	assert.False(t, tbl.SortState().Active())
	global, _ := tbl.Filters()
	assert.Equal(t, "ann", global)

	_, err = tbl.Call("restoreQuery", 42)
	assert.ErrorIs(t, err, plugin.ErrBadArgument)
}
