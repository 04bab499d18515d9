package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Command.ID
	}
	return out
}

func sample(t *testing.T) (*Registry, *[]string) {
	t.Helper()
	var ran []string
	r := NewRegistry(10)
	for _, c := range []*Command{
		{ID: "sort", Title: "Sort by column"},
		{ID: "sort.toggle", Title: "Toggle sort"},
		{ID: "sort.clear", Title: "Clear sort"},
		{ID: "filter", Title: "Filter rows", Description: "Match any column"},
		{ID: "reset", Title: "Reset view", Category: "View"},
	} {
		id := c.ID
		c.Handler = func(map[string]any) error {
			ran = append(ran, id)
			return nil
		}
		require.NoError(t, r.Register(c))
	}
	return r, &ran
}

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry(0)
	assert.ErrorIs(t, r.Register(nil), ErrInvalid)
	assert.ErrorIs(t, r.Register(&Command{}), ErrInvalid)
	assert.ErrorIs(t, r.Register(&Command{ID: "two words"}), ErrInvalid)

	require.NoError(t, r.Register(&Command{ID: "x"}))
	c, ok := r.Get("x")
	require.True(t, ok)
	assert.Equal(t, "x", c.Title)
}

func TestSearchRanksTitlePrefixFirst(t *testing.T) {
	r, _ := sample(t)
	got := ids(r.Search("sort", 0))
	require.Len(t, got, 3)
	assert.Equal(t, "sort", got[0])
	assert.ElementsMatch(t, []string{"sort", "sort.toggle", "sort.clear"}, got)

	assert.Equal(t, []string{"filter"}, ids(r.Search("any col", 0)))
	assert.Equal(t, []string{"reset"}, ids(r.Search("view", 0)))
	assert.Empty(t, r.Search("zzz", 0))
	assert.Len(t, r.Search("s", 2), 2)
}

func TestEmptySearchListsRecentFirst(t *testing.T) {
	r, ran := sample(t)
	require.NoError(t, r.Execute("reset", nil))
	require.NoError(t, r.Execute("sort.clear", nil))
	assert.Equal(t, []string{"reset", "sort.clear"}, *ran)

	got := ids(r.Search("", 0))
	assert.Equal(t, []string{"sort.clear", "reset", "filter", "sort"}, got[:4])
	assert.Equal(t, []string{"sort.clear", "reset"}, r.Recent(0))

	err := r.Execute("missing", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, []string{"sort.clear", "reset"}, r.Recent(0))
}

func TestRecentBoostsFuzzyHits(t *testing.T) {
	r, _ := sample(t)
	require.NoError(t, r.Execute("sort.clear", nil))
	assert.Equal(t, "sort.clear", ids(r.Search("sort", 0))[0])
}

func TestFailedExecuteIsNotRecent(t *testing.T) {
	r := NewRegistry(5)
	require.NoError(t, r.Register(&Command{ID: "boom", Handler: func(map[string]any) error {
		return errors.New("boom")
	}}))
	assert.Error(t, r.Execute("boom", nil))
	assert.Empty(t, r.Recent(0))
}

func TestUnregister(t *testing.T) {
	r, _ := sample(t)
	assert.Equal(t, []string{"View"}, r.Categories())
	require.NoError(t, r.Execute("reset", nil))
	assert.True(t, r.Unregister("reset"))
	assert.False(t, r.Unregister("reset"))
	assert.Empty(t, r.Recent(0))

	require.NoError(t, r.Register(&Command{ID: "p.one", Source: "p"}))
	require.NoError(t, r.Register(&Command{ID: "p.two", Source: "p"}))
	assert.Equal(t, 2, r.UnregisterSource("p"))
	assert.Equal(t, 4, r.Len())
	assert.Empty(t, r.Categories())
}

func TestExecuteArgs(t *testing.T) {
	var got map[string]any
	c := &Command{
		ID: "sort",
		Args: []Arg{
			{Name: "column", Type: ArgColumn, Required: true},
			{Name: "direction", Type: ArgEnum, Default: "asc", Options: []string{"asc", "desc"}},
			{Name: "limit", Type: ArgNumber},
		},
		Handler: func(a map[string]any) error {
			got = a
			return nil
		},
	}

	assert.ErrorIs(t, c.Execute(nil), ErrBadArgs)
	assert.ErrorIs(t, c.Execute(map[string]any{"column": "a", "direction": "up"}), ErrBadArgs)
	assert.ErrorIs(t, c.Execute(map[string]any{"column": "a", "limit": "ten"}), ErrBadArgs)

	in := map[string]any{"column": "age", "limit": 3}
	require.NoError(t, c.Execute(in))
	assert.Equal(t, map[string]any{"column": "age", "direction": "asc", "limit": 3}, got)
	assert.Len(t, in, 2)

	assert.ErrorIs(t, (&Command{ID: "x"}).Execute(nil), ErrNoHandler)
}

func TestBind(t *testing.T) {
	c := &Command{ID: "filter.column", Args: []Arg{
		{Name: "column", Type: ArgColumn},
		{Name: "value", Type: ArgString},
	}}
	args, err := c.Bind([]string{"city", "new", "york"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"column": "city", "value": "new york"}, args)

	page := &Command{ID: "page.goto", Args: []Arg{{Name: "page", Type: ArgNumber}}}
	args, err = page.Bind([]string{"3"})
	require.NoError(t, err)
	assert.Equal(t, 3.0, args["page"])
	_, err = page.Bind([]string{"three"})
	assert.ErrorIs(t, err, ErrBadArgs)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"sort age desc", []string{"sort", "age", "desc"}},
		{`filter "new york"`, []string{"filter", "new york"}},
		{"  a\t'b c'  d ", []string{"a", "b c", "d"}},
		{`x ""`, []string{"x", ""}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, split(tt.in), tt.in)
	}
}
