package model

import (
	"reflect"
	"strings"
)

// Row is an opaque record supplied by the host.
type Row = map[string]any

// PathSeparator separates nested field names in a column's Field.
const PathSeparator = "."

// Get reads a possibly nested field ("address.city") from a row.
// The second result is false when any segment is missing.
func Get(row Row, path string) (any, bool) {
	if row == nil || path == "" {
		return nil, false
	}
	if v, ok := row[path]; ok {
		return v, true
	}
	if !strings.Contains(path, PathSeparator) {
		return nil, false
	}

	var current any = row
	for _, part := range strings.Split(path, PathSeparator) {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		v, exists := m[part]
		if !exists {
			return nil, false
		}
		current = v
	}
	return current, true
}

// Set writes a possibly nested field, creating intermediate maps as needed.
// A flat key that already exists verbatim is written in place.
func Set(row Row, path string, value any) {
	if row == nil || path == "" {
		return
	}
	if _, ok := row[path]; ok || !strings.Contains(path, PathSeparator) {
		row[path] = value
		return
	}

	parts := strings.Split(path, PathSeparator)
	current := row
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// identity returns a value that is stable for the lifetime of a row map
// object and changes when the map is replaced.
func identity(row Row) uintptr {
	if row == nil {
		return 0
	}
	return reflect.ValueOf(row).Pointer()
}

// CloneRow deep-copies a row. Nested maps, slices and []any are copied;
// time.Time and other values are copied by value. Funcs, channels and
// pointers are shared with the source.
func CloneRow(row Row) Row {
	if row == nil {
		return nil
	}
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies maps and slices reachable from v.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneRow(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	case []int:
		return append([]int(nil), t...)
	default:
		return v
	}
}
