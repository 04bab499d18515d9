package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/plugin"
	"github.com/dshills/keygrid/internal/plugins/history"
	"github.com/dshills/keygrid/internal/render/backend"
	"github.com/dshills/keygrid/internal/state"
	"github.com/dshills/keygrid/internal/table"
)

func testColumns() []model.Column {
	return []model.Column{
		{ID: "id", Header: "ID", Type: model.TypeNumber},
		{ID: "name", Header: "Name"},
		{ID: "age", Header: "Age", Type: model.TypeNumber},
		{ID: "code", Header: "Code", Editable: model.Bool(false)},
	}
}

func newTable(t *testing.T, opts plugin.Options, tableOpts ...table.Option) (*table.Table, *Memory) {
	t.Helper()
	base := []table.Option{
		table.WithIDField("id"),
		table.WithEditable(true),
		table.WithColumns(testColumns()...),
		table.WithData([]model.Row{
			{"id": 1, "name": "ann", "age": 30, "code": "A"},
			{"id": 2, "name": "ben", "age": 25, "code": "B"},
			{"id": 3, "name": "cid", "age": 22, "code": "C"},
		}),
	}
	tbl, err := table.New(backend.NewMemory(60, 10), append(base, tableOpts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Destroy() })

	board := &Memory{}
	tbl.MustUse(New(board), opts)
	return tbl, board
}

func TestCopySelection(t *testing.T) {
	tbl, board := newTable(t, nil)
	var copies []Event
	tbl.On(TopicCopy, func(e any) { copies = append(copies, e.(Event)) })

	tbl.SelectRow("3")
	tbl.SelectRow("1")
	out, err := tbl.Call("copy")
	require.NoError(t, err)

	assert.Equal(t, "3\tcid\t22\tC\n1\tann\t30\tA", out)
	assert.Equal(t, out, board.Text)
	require.Len(t, copies, 1)
	assert.Equal(t, 2, copies[0].Rows)
	assert.Equal(t, 8, copies[0].Cells)
}

func TestCopyWithHeaders(t *testing.T) {
	tbl, board := newTable(t, plugin.Options{"headers": true})
	tbl.SelectRow("2")
	assert.True(t, tbl.HandleKey(key.Rune('c', key.ModCtrl)))
	assert.Equal(t, "ID\tName\tAge\tCode\n2\tben\t25\tB", board.Text)
}

func TestCopyFocusedCell(t *testing.T) {
	tbl, board := newTable(t, nil)
	require.True(t, tbl.Focus("2", "age"))

	_, err := tbl.Call("copy")
	require.NoError(t, err)
	assert.Equal(t, "25", board.Text)
}

func TestCopyNothing(t *testing.T) {
	tbl, _ := newTable(t, nil)
	var failures []ErrorEvent
	tbl.On(TopicError, func(e any) { failures = append(failures, e.(ErrorEvent)) })

	_, err := tbl.Call("copy")
	assert.ErrorIs(t, err, ErrNothingToCopy)
	require.Len(t, failures, 1)
	assert.Equal(t, "copy", failures[0].Op)
}

func TestPasteAtFocus(t *testing.T) {
	tbl, board := newTable(t, nil)
	require.True(t, tbl.Focus("1", "name"))
	board.Text = "zed\t50\tX\r\nyan\t60\r\n"

	n, err := tbl.Call("paste")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	first, _ := tbl.RowByID("1")
	assert.Equal(t, "zed", first["name"])
	assert.Equal(t, 50.0, first["age"])
	assert.Equal(t, "A", first["code"])

	second, _ := tbl.RowByID("2")
	assert.Equal(t, "yan", second["name"])
	assert.Equal(t, 60.0, second["age"])
}

func TestPasteDropsOverflow(t *testing.T) {
	tbl, board := newTable(t, nil)
	require.True(t, tbl.Focus("3", "age"))
	board.Text = "1\t2\t3\t4\n5"

	n, err := tbl.Call("paste")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	row, _ := tbl.RowByID("3")
	assert.Equal(t, 1.0, row["age"])
}

func TestPasteKeepsTargetsInSortedColumn(t *testing.T) {
	tbl, board := newTable(t, nil)
	require.True(t, tbl.Sort("name", state.Asc))
	require.True(t, tbl.Focus("1", "name"))
	board.Text = "zz\nzy"

	n, err := tbl.Call("paste")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	names := map[string]any{}
	for _, id := range []string{"1", "2", "3"} {
		row, ok := tbl.RowByID(id)
		require.True(t, ok)
		names[id] = row["name"]
	}
	assert.Equal(t, map[string]any{"1": "zz", "2": "zy", "3": "cid"}, names)
}

func TestPasteFollowsEditability(t *testing.T) {
	tests := []struct {
		name      string
		tableOpts []table.Option
		want      map[string]any
	}{
		{
			name:      "global flag off",
			tableOpts: []table.Option{table.WithEditable(false)},
			want:      map[string]any{"name": "ann", "age": 30},
		},
		{
			name:      "allowlist",
			tableOpts: []table.Option{table.WithEditable(false), table.WithEditableColumns("age")},
			want:      map[string]any{"name": "ann", "age": 70.0},
		},
		{
			name:      "global flag on",
			tableOpts: nil,
			want:      map[string]any{"name": "xo", "age": 70.0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, board := newTable(t, nil, tt.tableOpts...)
			require.True(t, tbl.Focus("1", "name"))
			board.Text = "xo\t70"

			_, err := tbl.Call("paste")
			require.NoError(t, err)
			row, _ := tbl.RowByID("1")
			assert.Equal(t, tt.want, map[string]any{"name": row["name"], "age": row["age"]})
		})
	}
}

func TestPasteRunsValidator(t *testing.T) {
	cols := testColumns()
	cols[2].Validate = func(newValue, _ any, _ string) bool {
		n, ok := newValue.(float64)
		return ok && n >= 0
	}
	tbl, board := newTable(t, nil, table.WithColumns(cols...))
	require.True(t, tbl.Focus("1", "name"))
	board.Text = "amy\t-5\nbob\t40"

	n, err := tbl.Call("paste")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	first, _ := tbl.RowByID("1")
	assert.Equal(t, "amy", first["name"])
	assert.Equal(t, 30, first["age"])
	second, _ := tbl.RowByID("2")
	assert.Equal(t, 40.0, second["age"])
}

func TestPasteWithoutFocus(t *testing.T) {
	tbl, board := newTable(t, nil)
	board.Text = "x"
	_, err := tbl.Call("paste")
	assert.ErrorIs(t, err, ErrNoTarget)
	assert.False(t, tbl.HandleKey(key.Rune('v', key.ModCtrl)))
}

func TestPasteIsOneUndoStep(t *testing.T) {
	tbl, board := newTable(t, nil)
	tbl.MustUse(history.New(), nil)
	require.True(t, tbl.Focus("1", "name"))
	board.Text = "p\nq\nr"

	_, err := tbl.Call("paste")
	require.NoError(t, err)
	_, err = tbl.Call("undo")
	require.NoError(t, err)

	assert.Equal(t, []any{"ann", "ben", "cid"}, []any{
		tbl.Data()[0]["name"], tbl.Data()[1]["name"], tbl.Data()[2]["name"],
	})
	can, _ := tbl.Call("canUndo")
	assert.Equal(t, false, can)
}
