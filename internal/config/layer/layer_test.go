package layer

import (
	"errors"
	"reflect"
	"testing"
)

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name string
		dst  map[string]any
		src  map[string]any
		want map[string]any
	}{
		{
			name: "nil dst",
			src:  map[string]any{"a": 1},
			want: map[string]any{"a": 1},
		},
		{
			name: "scalar override",
			dst:  map[string]any{"a": 1, "b": 2},
			src:  map[string]any{"a": 3},
			want: map[string]any{"a": 3, "b": 2},
		},
		{
			name: "nested merge",
			dst:  map[string]any{"grid": map[string]any{"pageSize": 50, "editable": true}},
			src:  map[string]any{"grid": map[string]any{"pageSize": 10}},
			want: map[string]any{"grid": map[string]any{"pageSize": 10, "editable": true}},
		},
		{
			name: "map replaces scalar",
			dst:  map[string]any{"theme": "dark"},
			src:  map[string]any{"theme": map[string]any{"accent": "#fff"}},
			want: map[string]any{"theme": map[string]any{"accent": "#fff"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeepMerge(tt.dst, tt.src)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DeepMerge = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeepMergeDoesNotAliasSource(t *testing.T) {
	src := map[string]any{"plugins": map[string]any{"enabled": []any{"history"}}}
	got := DeepMerge(nil, src)
	got["plugins"].(map[string]any)["enabled"].([]any)[0] = "changed"
	if src["plugins"].(map[string]any)["enabled"].([]any)[0] != "history" {
		t.Error("merge result shares slices with the source")
	}
}

func TestPaths(t *testing.T) {
	data := map[string]any{}
	SetByPath(data, "grid.pageSize", 25)
	SetByPath(data, "theme.accent", "#abc")

	if v, ok := GetByPath(data, "grid.pageSize"); !ok || v != 25 {
		t.Errorf("GetByPath grid.pageSize = %v, %v", v, ok)
	}
	if _, ok := GetByPath(data, "grid.pageSize.x"); ok {
		t.Error("path through a scalar should miss")
	}
	if _, ok := GetByPath(data, ""); ok {
		t.Error("empty path should miss")
	}

	SetByPath(data, "theme", "plain")
	SetByPath(data, "theme.accent", "#fff")
	if v, _ := GetByPath(data, "theme.accent"); v != "#fff" {
		t.Errorf("SetByPath through a scalar = %v", v)
	}

	if !DeleteByPath(data, "grid.pageSize") {
		t.Error("DeleteByPath existing = false")
	}
	if DeleteByPath(data, "grid.pageSize") {
		t.Error("DeleteByPath missing = true")
	}
}

func TestDiff(t *testing.T) {
	old := map[string]any{
		"grid":  map[string]any{"pageSize": 50, "editable": true},
		"theme": map[string]any{"accent": "#111"},
	}
	next := map[string]any{
		"grid":    map[string]any{"pageSize": 25, "editable": true},
		"logging": map[string]any{"level": "debug"},
	}
	want := []string{"grid.pageSize", "logging.level", "theme.accent"}
	if got := Diff(old, next); !reflect.DeepEqual(got, want) {
		t.Errorf("Diff = %v, want %v", got, want)
	}
	if got := Diff(old, old); len(got) != 0 {
		t.Errorf("Diff of equal maps = %v", got)
	}
}

func TestManagerPriority(t *testing.T) {
	m := NewManager()
	m.Put(NewWithData("env", SourceEnv, map[string]any{"grid": map[string]any{"pageSize": 10}}))
	m.Put(NewWithData("defaults", SourceDefaults, map[string]any{"grid": map[string]any{"pageSize": 50, "editable": false}}))
	m.Put(NewWithData("file", SourceFile, map[string]any{"grid": map[string]any{"pageSize": 20, "editable": true}}))

	if got, want := m.Names(), []string{"defaults", "file", "env"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}

	v, from, ok := m.Get("grid.pageSize")
	if !ok || v != 10 || from != "env" {
		t.Errorf("Get pageSize = %v from %q", v, from)
	}
	v, from, _ = m.Get("grid.editable")
	if v != true || from != "file" {
		t.Errorf("Get editable = %v from %q", v, from)
	}

	merged := m.Merge()
	want := map[string]any{"grid": map[string]any{"pageSize": 10, "editable": true}}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("Merge = %v, want %v", merged, want)
	}

	merged["grid"].(map[string]any)["pageSize"] = 99
	if v, _, _ := m.Get("grid.pageSize"); v != 10 {
		t.Error("Merge result aliases layer data")
	}
}

func TestManagerPutReplaces(t *testing.T) {
	m := NewManager()
	m.Put(NewWithData("file", SourceFile, map[string]any{"a": 1}))
	_ = m.Merge()
	m.Put(NewWithData("file", SourceFile, map[string]any{"a": 2}))

	if got := m.Merge()["a"]; got != 2 {
		t.Errorf("after replace a = %v, want 2", got)
	}
	if len(m.Names()) != 1 {
		t.Errorf("Names = %v", m.Names())
	}
	if !m.Remove("file") || m.Remove("file") {
		t.Error("Remove should succeed once")
	}
}

func TestManagerSet(t *testing.T) {
	m := NewManager()
	defaults := New("defaults", SourceDefaults)
	defaults.ReadOnly = true
	m.Put(defaults)
	m.Put(New("file", SourceFile))

	if err := m.Set("defaults", "a", 1); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Set read-only err = %v", err)
	}
	if err := m.Set("missing", "a", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Set missing err = %v", err)
	}
	if err := m.Set("file", "grid.pageSize", 5); err != nil {
		t.Fatal(err)
	}

	m.SetInSession("grid.pageSize", 7)
	if v, from, _ := m.Get("grid.pageSize"); v != 7 || from != "session" {
		t.Errorf("session override = %v from %q", v, from)
	}

	if err := m.Delete("session", "grid.pageSize"); err != nil {
		t.Fatal(err)
	}
	if v, _, _ := m.Get("grid.pageSize"); v != 5 {
		t.Errorf("after delete = %v, want 5", v)
	}
}
