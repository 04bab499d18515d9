package table

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/focus"
	"github.com/dshills/keygrid/internal/input"
	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/render/backend"
	"github.com/dshills/keygrid/internal/state"
)

func people() []model.Row {
	return []model.Row{
		{"id": 1, "name": "Carol", "age": 41, "city": "Oslo"},
		{"id": 2, "name": "alice", "age": 30, "city": "Paris"},
		{"id": 3, "name": "Bob", "age": 25, "city": "Oslo"},
		{"id": 4, "name": "dave", "age": 35, "city": "Rome"},
	}
}

func peopleColumns() Option {
	return WithColumns(
		model.Column{ID: "id", Type: model.TypeNumber, Width: 4},
		model.Column{ID: "name", Width: 10, MinWidth: 6},
		model.Column{ID: "age", Type: model.TypeNumber, Width: 5},
		model.Column{ID: "city", Width: 8},
	)
}

func newTable(t *testing.T, opts ...Option) (*Table, *backend.Memory) {
	t.Helper()
	mem := backend.NewMemory(60, 12)
	base := []Option{peopleColumns(), WithIDField("id"), WithData(people())}
	tbl, err := New(mem, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Destroy() })
	return tbl, mem
}

func names(rows []model.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i], _ = r["name"].(string)
	}
	return out
}

func screen(mem *backend.Memory) string {
	return strings.Join(mem.Lines(), "\n")
}

func TestNewRequiresBackend(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestNewRendersAndEmitsReady(t *testing.T) {
	bus := event.NewBus()
	var ready []DataEvent
	bus.On(TopicReady, func(p any) { ready = append(ready, p.(DataEvent)) })

	tbl, mem := newTable(t, WithBus(bus))

	require.Len(t, ready, 1)
	assert.Equal(t, DataEvent{Rows: 4, Columns: 4}, ready[0])
	assert.Contains(t, mem.Line(0), "Name")
	assert.Contains(t, screen(mem), "Carol")
	assert.Contains(t, mem.Lines()[11], "4 rows")
	total, filtered := tbl.RowCount()
	assert.Equal(t, 4, total)
	assert.Equal(t, 4, filtered)
}

func TestDetectsColumnsWithoutDeclaration(t *testing.T) {
	tbl, err := New(backend.NewMemory(80, 10), WithData(people()))
	require.NoError(t, err)

	var ids []string
	for _, c := range tbl.Columns() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"age", "city", "id", "name"}, ids)

	// Detection runs once; a later data set with other keys keeps them.
	tbl.SetData([]model.Row{{"other": 1}})
	assert.Len(t, tbl.Columns(), 4)
}

func TestSortDirectionsAndToggle(t *testing.T) {
	tbl, _ := newTable(t)
	var after []SortEvent
	cleared := 0
	tbl.On(TopicSortAfter, func(p any) { after = append(after, p.(SortEvent)) })
	tbl.On(TopicSortClear, func(any) { cleared++ })

	require.True(t, tbl.Sort("age", state.Asc))
	assert.Equal(t, []string{"Bob", "alice", "dave", "Carol"}, names(tbl.FilteredData()))

	require.True(t, tbl.ToggleSort("name"))
	assert.Equal(t, []string{"alice", "Bob", "Carol", "dave"}, names(tbl.FilteredData()))
	require.True(t, tbl.ToggleSort("name"))
	assert.Equal(t, []string{"dave", "Carol", "Bob", "alice"}, names(tbl.FilteredData()))
	require.True(t, tbl.ToggleSort("name"))
	assert.False(t, tbl.SortState().Active())
	assert.Equal(t, names(people()), names(tbl.FilteredData()))

	assert.Equal(t, []SortEvent{
		{Column: "age", Direction: state.Asc},
		{Column: "name", Direction: state.Asc},
		{Column: "name", Direction: state.Desc},
	}, after)
	assert.Equal(t, 1, cleared)
}

func TestSortRejectsBadInput(t *testing.T) {
	tbl, _ := newTable(t, WithColumns(
		model.Column{ID: "name", Sortable: model.Bool(false)},
		model.Column{ID: "age", Type: model.TypeNumber},
	))

	assert.False(t, tbl.Sort("name", state.Asc))
	assert.False(t, tbl.Sort("age", "sideways"))
	assert.False(t, tbl.Sort("", state.Asc))

	// Unknown columns apply but leave raw order.
	assert.True(t, tbl.Sort("missing", state.Asc))
	assert.Equal(t, names(people()), names(tbl.FilteredData()))
}

func TestSortInterceptors(t *testing.T) {
	t.Run("cancel vetoes", func(t *testing.T) {
		tbl, _ := newTable(t)
		tbl.Intercept(TopicSort, func(any) event.Outcome { return event.Cancel() })
		changes := 0
		tbl.On(TopicStateChange, func(any) { changes++ })

		assert.False(t, tbl.Sort("age", state.Asc))
		assert.False(t, tbl.SortState().Active())
		assert.Zero(t, changes)
	})

	t.Run("replace rewrites", func(t *testing.T) {
		tbl, _ := newTable(t)
		tbl.Intercept(TopicSort, func(any) event.Outcome {
			return event.Replace(SortEvent{Column: "name", Direction: state.Desc})
		})

		assert.True(t, tbl.Sort("age", state.Asc))
		assert.Equal(t, state.SortSpec{Column: "name", Direction: state.Desc}, tbl.SortState())
		assert.Equal(t, "dave", names(tbl.FilteredData())[0])
	})
}

func TestStateChangeSeesConsistentView(t *testing.T) {
	tbl, _ := newTable(t)
	var views [][]int
	tbl.On(TopicStateChange, func(p any) {
		ch := p.(state.Change)
		views = append(views, ch.Next.View)
	})

	tbl.Sort("age", state.Asc)
	tbl.Filter("oslo")

	require.Len(t, views, 2)
	assert.Equal(t, []int{2, 1, 3, 0}, views[0])
	assert.Equal(t, []int{2, 0}, views[1])
}

func TestFilterComposition(t *testing.T) {
	tbl, mem := newTable(t)
	var filters []FilterEvent
	tbl.On(TopicFilterAfter, func(p any) { filters = append(filters, p.(FilterEvent)) })

	require.True(t, tbl.Filter("o"))
	assert.Equal(t, []string{"Carol", "Bob", "dave"}, names(tbl.FilteredData()))
	assert.Contains(t, mem.Lines()[11], "3 of 4 rows")

	require.True(t, tbl.FilterColumn("city", "OSLO"))
	assert.Equal(t, []string{"Carol", "Bob"}, names(tbl.FilteredData()))

	require.True(t, tbl.FilterColumn("city", ""))
	_, cols := tbl.Filters()
	assert.Empty(t, cols)

	assert.False(t, tbl.FilterColumn("missing", "x"))

	tbl.ClearFilters()
	assert.Equal(t, names(people()), names(tbl.FilteredData()))
	assert.Equal(t, []FilterEvent{
		{Value: "o"},
		{Column: "city", Value: "OSLO"},
		{Column: "city", Value: ""},
	}, filters)
}

func TestFilterNoMatchShowsPlaceholder(t *testing.T) {
	tbl, mem := newTable(t)
	tbl.Filter("nobody")
	assert.Empty(t, tbl.FilteredData())
	assert.Contains(t, mem.Line(1), "No rows")
}

func TestResetClearsSortAndFilters(t *testing.T) {
	tbl, _ := newTable(t)
	resets := 0
	tbl.On(TopicReset, func(any) { resets++ })
	tbl.Sort("age", state.Desc)
	tbl.Filter("o")
	tbl.FilterColumn("city", "rome")

	tbl.Reset()

	assert.False(t, tbl.SortState().Active())
	global, cols := tbl.Filters()
	assert.Empty(t, global)
	assert.Empty(t, cols)
	assert.Equal(t, names(people()), names(tbl.FilteredData()))
	assert.Equal(t, 1, resets)
}

func TestSelectionFollowsIdentity(t *testing.T) {
	tbl, _ := newTable(t)

	require.True(t, tbl.SelectRow("2"))
	assert.False(t, tbl.SelectRow("2"))
	assert.False(t, tbl.SelectRow("99"))

	tbl.Sort("age", state.Desc)
	assert.Equal(t, []string{"2"}, tbl.SelectedIDs())
	tbl.Filter("nobody")
	assert.Equal(t, []string{"2"}, tbl.SelectedIDs())
	assert.Equal(t, "alice", tbl.Selected()[0]["name"])

	tbl.SetData(people())
	assert.Empty(t, tbl.SelectedIDs())
}

func TestSelectAllIsScopedToView(t *testing.T) {
	tbl, mem := newTable(t)
	var changes []SelectionEvent
	tbl.On(TopicSelectionChange, func(p any) { changes = append(changes, p.(SelectionEvent)) })

	tbl.Filter("o")
	tbl.SelectAll()
	assert.Equal(t, []string{"1", "3", "4"}, tbl.SelectedIDs())
	assert.Contains(t, mem.Lines()[11], "3 selected")

	require.True(t, tbl.ToggleRow("3"))
	tbl.ClearSelection()
	assert.Empty(t, tbl.SelectedIDs())

	require.Len(t, changes, 3)
	assert.Equal(t, []string{"1", "3", "4"}, changes[0].Added)
	assert.Equal(t, []string{"3"}, changes[1].Removed)
	assert.Equal(t, []string{"1", "4"}, changes[2].Removed)
}

func TestSelectionModes(t *testing.T) {
	t.Run("single replaces", func(t *testing.T) {
		tbl, _ := newTable(t, WithSelectionMode(state.SelectSingle))
		tbl.SelectRow("1")
		tbl.SelectRow("3")
		assert.Equal(t, []string{"3"}, tbl.SelectedIDs())
		tbl.SelectAll()
		assert.Equal(t, []string{"3"}, tbl.SelectedIDs())
	})

	t.Run("none refuses", func(t *testing.T) {
		tbl, _ := newTable(t, WithSelectionMode(state.SelectNone))
		assert.False(t, tbl.SelectRow("1"))
		assert.Empty(t, tbl.SelectedIDs())
	})

	t.Run("space toggles focused row", func(t *testing.T) {
		tbl, _ := newTable(t)
		require.True(t, tbl.Focus("2", "name"))
		assert.True(t, tbl.HandleKey(key.Special(key.KeySpace, key.ModNone)))
		assert.Equal(t, []string{"2"}, tbl.SelectedIDs())
		assert.True(t, tbl.HandleKey(key.Special(key.KeySpace, key.ModNone)))
		assert.Empty(t, tbl.SelectedIDs())
	})
}

func TestKeyboardEditRoundTrip(t *testing.T) {
	tbl, _ := newTable(t, WithEditable(true))
	var edits []focus.EditEvent
	tbl.On(TopicCellEdit, func(p any) { edits = append(edits, p.(focus.EditEvent)) })

	require.True(t, tbl.Focus("1", "name"))
	tbl.HandleKey(key.Rune('Z', key.ModNone))
	tbl.HandleKey(key.Rune('e', key.ModNone))
	assert.True(t, tbl.Editing())
	tbl.HandleKey(key.Special(key.KeyEnter, key.ModNone))

	assert.False(t, tbl.Editing())
	row, ok := tbl.RowByID("1")
	require.True(t, ok)
	assert.Equal(t, "Ze", row["name"])

	require.Len(t, edits, 1)
	assert.Equal(t, "1", edits[0].RowID)
	assert.Equal(t, "name", edits[0].ColumnID)
	assert.Equal(t, "Carol", edits[0].OldValue)
	assert.Equal(t, "Ze", edits[0].NewValue)

	rowID, colID, ok := tbl.FocusedIDs()
	require.True(t, ok)
	assert.Equal(t, "2", rowID)
	assert.Equal(t, "name", colID)
}

func TestEditCursorIsShown(t *testing.T) {
	tbl, mem := newTable(t, WithEditable(true))
	require.True(t, tbl.StartEdit("1", "name"))
	tbl.SetEditInput("Ann")

	x, y, visible := mem.Cursor()
	assert.True(t, visible)
	assert.Equal(t, 1, y)
	assert.Equal(t, 5+3, x)

	tbl.CancelEdit()
	_, _, visible = mem.Cursor()
	assert.False(t, visible)
}

func TestEditResortsAndFocusFollowsRow(t *testing.T) {
	tbl, _ := newTable(t, WithEditable(true))
	tbl.Sort("name", state.Asc)

	require.True(t, tbl.StartEdit("2", "name"))
	tbl.SetEditInput("zed")
	require.True(t, tbl.StopEdit())

	assert.Equal(t, []string{"Bob", "Carol", "dave", "zed"}, names(tbl.FilteredData()))
	row, col, ok := tbl.FocusedCell()
	require.True(t, ok)
	assert.Equal(t, 3, row)
	assert.Equal(t, 1, col)
}

func TestEditFilteringOutLastRowKeepsFocus(t *testing.T) {
	tbl, _ := newTable(t, WithEditable(true))
	require.True(t, tbl.FilterColumn("city", "oslo"))
	require.Equal(t, []string{"Carol", "Bob"}, names(tbl.FilteredData()))

	require.True(t, tbl.StartEdit("3", "city"))
	tbl.SetEditInput("Paris")
	require.True(t, tbl.HandleKey(key.Special(key.KeyEnter, key.ModNone)))

	assert.Equal(t, []string{"Carol"}, names(tbl.FilteredData()))
	row, _ := tbl.RowByID("3")
	assert.Equal(t, "Paris", row["city"])
	rowID, colID, ok := tbl.FocusedIDs()
	require.True(t, ok)
	assert.Equal(t, "1", rowID)
	assert.Equal(t, "city", colID)
	assert.False(t, tbl.Editing())
}

func TestEditValidationKeepsEditorOpen(t *testing.T) {
	nonNegative := func(v, _ any, _ string) bool {
		f, ok := v.(float64)
		return ok && f >= 0
	}
	tbl, _ := newTable(t, WithEditable(true), WithColumns(
		model.Column{ID: "name"},
		model.Column{ID: "age", Type: model.TypeNumber, Validate: nonNegative},
	))

	require.True(t, tbl.StartEdit("1", "age"))
	tbl.SetEditInput("-5")
	assert.False(t, tbl.StopEdit())
	assert.True(t, tbl.Editing())
	row, _ := tbl.RowByID("1")
	assert.Equal(t, 41, row["age"])

	tbl.SetEditInput("7")
	assert.True(t, tbl.StopEdit())
	row, _ = tbl.RowByID("1")
	assert.Equal(t, 7.0, row["age"])
}

func TestOnlyOneEditAtATime(t *testing.T) {
	tbl, _ := newTable(t, WithEditable(true))
	var edits []focus.EditEvent
	tbl.On(TopicCellEdit, func(p any) { edits = append(edits, p.(focus.EditEvent)) })

	require.True(t, tbl.StartEdit("1", "name"))
	tbl.SetEditInput("Cora")
	require.True(t, tbl.StartEdit("3", "name"))

	require.Len(t, edits, 1)
	assert.Equal(t, "1", edits[0].RowID)
	rowID, _, _ := tbl.FocusedIDs()
	assert.Equal(t, "3", rowID)
	assert.True(t, tbl.Editing())
}

func TestStructuralChangeCommitsPendingEdit(t *testing.T) {
	tbl, _ := newTable(t, WithEditable(true))
	require.True(t, tbl.StartEdit("1", "name"))
	tbl.SetEditInput("Aaron")

	tbl.Sort("name", state.Asc)

	assert.False(t, tbl.Editing())
	assert.Equal(t, "Aaron", names(tbl.FilteredData())[0])
}

func TestEditabilityResolution(t *testing.T) {
	tbl, _ := newTable(t, WithEditableColumns("city"), WithColumns(
		model.Column{ID: "name"},
		model.Column{ID: "age", Editable: model.Bool(true)},
		model.Column{ID: "city"},
		model.Column{ID: "id", Editable: model.Bool(false)},
	))

	assert.False(t, tbl.StartEdit("1", "name"))
	assert.True(t, tbl.StartEdit("1", "age"))
	assert.True(t, tbl.StartEdit("1", "city"))
	assert.False(t, tbl.StartEdit("1", "id"))
}

func TestUpdateCellAndRow(t *testing.T) {
	tbl, _ := newTable(t)
	var updates []RowUpdateEvent
	tbl.On(TopicRowUpdate, func(p any) { updates = append(updates, p.(RowUpdateEvent)) })
	tbl.Sort("name", state.Asc)

	require.True(t, tbl.UpdateCell("2", "name", "zoe"))
	assert.Equal(t, "zoe", names(tbl.FilteredData())[3])
	assert.False(t, tbl.UpdateCell("99", "name", "x"))
	assert.False(t, tbl.UpdateCell("2", "missing", "x"))

	require.True(t, tbl.UpdateRow("1", model.Row{"id": 10, "city": "Bergen"}))
	_, ok := tbl.RowByID("1")
	assert.False(t, ok)
	row, ok := tbl.RowByID("10")
	require.True(t, ok)
	assert.Equal(t, "Bergen", row["city"])

	require.Len(t, updates, 2)
	assert.Equal(t, "2", updates[0].RowID)
	assert.Equal(t, map[string]any{"name": "zoe"}, updates[0].Changes)
	assert.Equal(t, "10", updates[1].RowID)
}

func TestPaging(t *testing.T) {
	tbl, mem := newTable(t, WithPageSize(2))
	var pages []PageEvent
	tbl.On(TopicPageChange, func(p any) { pages = append(pages, p.(PageEvent)) })

	assert.Equal(t, 2, tbl.PageCount())
	id, _ := tbl.RowID(0)
	assert.Equal(t, "1", id)
	_, ok := tbl.RowID(2)
	assert.False(t, ok)

	require.True(t, tbl.NextPage())
	id, _ = tbl.RowID(0)
	assert.Equal(t, "3", id)
	assert.False(t, tbl.NextPage())
	assert.Contains(t, mem.Lines()[11], "page 2/2")

	tbl.FilterColumn("city", "oslo")
	assert.Equal(t, 0, tbl.Page())
	assert.False(t, tbl.PrevPage())

	tbl.SetPageSize(0)
	assert.Equal(t, 1, tbl.PageCount())
	assert.Equal(t, []PageEvent{
		{Page: 1, PageCount: 2, PageSize: 2},
		{Page: 0, PageCount: 1, PageSize: 0},
	}, pages)
}

func TestColumnVisibilityAndWidths(t *testing.T) {
	tbl, mem := newTable(t)
	var events []ColumnEvent
	tbl.On("column:*", func(p any) { events = append(events, p.(ColumnEvent)) })

	require.True(t, tbl.HideColumn("city"))
	assert.False(t, tbl.HideColumn("city"))
	assert.False(t, tbl.HideColumn("missing"))
	assert.Equal(t, []string{"city"}, tbl.HiddenColumns())
	assert.NotContains(t, mem.Line(0), "City")

	var ids []string
	for _, c := range tbl.VisibleColumns() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"id", "name", "age"}, ids)

	require.True(t, tbl.ToggleColumn("city"))
	assert.Empty(t, tbl.HiddenColumns())

	require.True(t, tbl.SetColumnWidth("name", 2))
	assert.Equal(t, map[string]int{"name": 6}, tbl.ColumnWidths())
	assert.Equal(t, 6, tbl.VisibleColumns()[1].Width)
	tbl.ResetColumnWidths()
	assert.Empty(t, tbl.ColumnWidths())

	assert.Equal(t, []ColumnEvent{
		{ColumnID: "city", Hidden: true},
		{ColumnID: "city", Hidden: false},
		{ColumnID: "name", Width: 6},
		{},
	}, events)
}

func TestScrolling(t *testing.T) {
	rows := make([]model.Row, 20)
	for i := range rows {
		rows[i] = model.Row{"n": i}
	}
	mem := backend.NewMemory(40, 6)
	tbl, err := New(mem, WithColumns(model.Column{ID: "n", Type: model.TypeNumber}), WithIDField("n"), WithData(rows))
	require.NoError(t, err)

	tbl.ScrollToBottom()
	assert.Equal(t, 16, tbl.ScrollTop())
	assert.Equal(t, 16, tbl.State().ScrollTop)
	tbl.ScrollToTop()
	tbl.ScrollBy(3)
	assert.Equal(t, 3, tbl.ScrollTop())

	require.True(t, tbl.Focus("10", "n"))
	assert.Equal(t, 7, tbl.ScrollTop())

	tbl.HandleEvent(backend.Event{Type: backend.EventMouse, Button: backend.MouseWheelUp})
	assert.Equal(t, 4, tbl.ScrollTop())

	mem.Resize(40, 12)
	tbl.HandleEvent(backend.Event{Type: backend.EventResize, Width: 40, Height: 12})
	assert.Equal(t, 4, tbl.ScrollTop())
	tbl.ScrollToBottom()
	assert.Equal(t, 10, tbl.ScrollTop())
}

func TestUnchangedWindowSkipsBody(t *testing.T) {
	tbl, _ := newTable(t)

	tbl.ScrollBy(0)
	assert.True(t, tbl.LastRender().BodySkipped)

	tbl.Render()
	assert.True(t, tbl.LastRender().Body)
}

func TestScrollInsideClampedWindowRepaints(t *testing.T) {
	rows := make([]model.Row, 15)
	for i := range rows {
		rows[i] = model.Row{"n": i, "name": fmt.Sprintf("row%02d", i)}
	}
	mem := backend.NewMemory(40, 12)
	tbl, err := New(mem, WithColumns(
		model.Column{ID: "n", Type: model.TypeNumber, Width: 4},
		model.Column{ID: "name", Width: 8},
	), WithIDField("n"), WithData(rows))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Destroy() })
	require.Contains(t, mem.Line(1), "row00")

	tbl.ScrollBy(3)
	assert.Equal(t, 3, tbl.ScrollTop())
	assert.False(t, tbl.LastRender().BodySkipped)
	assert.Contains(t, mem.Line(1), "row03")
	assert.NotContains(t, screen(mem), "row00")

	require.True(t, tbl.HandleClick(6, 1))
	rowID, _, ok := tbl.FocusedIDs()
	require.True(t, ok)
	assert.Equal(t, "3", rowID)
}

func TestMouse(t *testing.T) {
	tbl, _ := newTable(t, WithEditable(true))

	// Columns are laid out id[0,4) name[5,15).
	require.True(t, tbl.HandleClick(5, 0))
	assert.Equal(t, state.SortSpec{Column: "name", Direction: state.Asc}, tbl.SortState())

	require.True(t, tbl.HandleClick(6, 1))
	rowID, colID, ok := tbl.FocusedIDs()
	require.True(t, ok)
	assert.Equal(t, "2", rowID)
	assert.Equal(t, "name", colID)

	require.True(t, tbl.HandleClick(6, 1))
	assert.True(t, tbl.Editing())

	assert.False(t, tbl.HandleClick(59, 9))
}

func TestPluginBindingRunsBeforeGrid(t *testing.T) {
	tbl, _ := newTable(t)
	fired := 0
	_, err := tbl.Input().Bind(input.Binding{
		Keys:   "Down",
		Owner:  "test",
		Action: func(key.Event) bool { fired++; return true },
	})
	require.NoError(t, err)

	require.True(t, tbl.Focus("1", "name"))
	tbl.HandleKey(key.Special(key.KeyDown, key.ModNone))

	assert.Equal(t, 1, fired)
	row, _, _ := tbl.FocusedCell()
	assert.Equal(t, 0, row)
}

func TestLoadingDefersLargeData(t *testing.T) {
	q := &Queue{}
	tbl, mem := newTable(t, WithLoadingThreshold(3), WithScheduler(q))

	assert.True(t, tbl.State().Loading)
	assert.Empty(t, tbl.FilteredData())
	assert.Contains(t, screen(mem), "Loading")
	assert.Equal(t, 1, q.Len())

	more := append(people(), model.Row{"id": 5, "name": "Eve", "age": 22, "city": "Lima"})
	tbl.SetData(more)
	assert.Equal(t, 2, q.Len())

	assert.Equal(t, 2, q.Drain())
	assert.False(t, tbl.State().Loading)
	assert.Len(t, tbl.FilteredData(), 5)
	assert.NotContains(t, screen(mem), "Loading")
	assert.Contains(t, mem.Lines()[11], "5 rows")
}

func TestLoadingAndErrorOverlay(t *testing.T) {
	tbl, mem := newTable(t)

	tbl.SetError("backend down")
	assert.Contains(t, screen(mem), "Error: backend down")
	tbl.SetError("")
	assert.NotContains(t, screen(mem), "Error:")

	tbl.SetLoading(true)
	assert.Contains(t, screen(mem), "Loading")
	tbl.SetLoading(false)
	assert.NotContains(t, screen(mem), "Loading")
}

func TestSnapshotRestore(t *testing.T) {
	tbl, _ := newTable(t)
	tbl.Sort("name", state.Asc)
	tbl.SelectRow("3")
	snap := tbl.Snapshot()

	tbl.UpdateCell("1", "name", "Zed")
	require.NoError(t, tbl.Restore(snap))

	row, ok := tbl.RowByID("1")
	require.True(t, ok)
	assert.Equal(t, "Carol", row["name"])
	assert.Equal(t, state.SortSpec{Column: "name", Direction: state.Asc}, tbl.SortState())
	assert.Equal(t, []string{"3"}, tbl.SelectedIDs())

	// The snapshot stays reusable and independent of live rows.
	row["name"] = "Mutated"
	require.NoError(t, tbl.Restore(snap))
	row, _ = tbl.RowByID("1")
	assert.Equal(t, "Carol", row["name"])

	assert.ErrorIs(t, tbl.Restore(state.Snapshot{}), ErrEmptySnapshot)
}

func TestDestroy(t *testing.T) {
	tbl, mem := newTable(t)
	destroyed := 0
	tbl.On(TopicDestroy, func(any) { destroyed++ })

	require.NoError(t, tbl.Destroy())
	require.NoError(t, tbl.Destroy())

	assert.Equal(t, 1, destroyed)
	assert.True(t, tbl.Destroyed())
	assert.False(t, tbl.Bus().HasListeners(TopicDestroy))
	assert.Empty(t, strings.TrimSpace(screen(mem)))
	assert.False(t, tbl.Sort("age", state.Asc))
	_, err := tbl.Call("anything")
	assert.True(t, errors.Is(err, ErrDestroyed))
}
