package layer

import (
	"reflect"
	"slices"
	"strings"
)

// DeepMerge merges src into dst and returns dst. Maps merge recursively;
// any other src value replaces the dst value. src is not retained.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, sv := range src {
		sm, srcIsMap := sv.(map[string]any)
		dm, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[k] = DeepMerge(dm, sm)
			continue
		}
		dst[k] = cloneValue(sv)
	}
	return dst
}

// GetByPath looks up a dot-separated path such as "grid.pageSize".
func GetByPath(data map[string]any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	cur := data
	for i, part := range parts {
		v, ok := cur[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// SetByPath stores value at path, creating intermediate maps and replacing
// non-map values on the way.
func SetByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	cur := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

// DeleteByPath removes path. It reports whether anything was removed.
func DeleteByPath(data map[string]any, path string) bool {
	parts := strings.Split(path, ".")
	cur := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			return false
		}
		cur = next
	}
	last := parts[len(parts)-1]
	if _, ok := cur[last]; !ok {
		return false
	}
	delete(cur, last)
	return true
}

// Flatten maps every leaf to its dotted path.
func Flatten(data map[string]any) map[string]any {
	out := make(map[string]any)
	flatten(data, "", out)
	return out
}

func flatten(data map[string]any, prefix string, out map[string]any) {
	for k, v := range data {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if m, ok := v.(map[string]any); ok && len(m) > 0 {
			flatten(m, path, out)
			continue
		}
		out[path] = v
	}
}

// Diff returns the sorted leaf paths whose values differ between old and
// next, including paths present in only one of them.
func Diff(old, next map[string]any) []string {
	a, b := Flatten(old), Flatten(next)
	var changed []string
	for path, nv := range b {
		if ov, ok := a[path]; !ok || !reflect.DeepEqual(ov, nv) {
			changed = append(changed, path)
		}
	}
	for path := range a {
		if _, ok := b[path]; !ok {
			changed = append(changed, path)
		}
	}
	slices.Sort(changed)
	return changed
}
