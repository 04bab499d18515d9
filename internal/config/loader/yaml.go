package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func parseYAML(path string, data []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if out == nil {
		return make(map[string]any), nil
	}
	normalized, ok := normalizeYAML(out).(map[string]any)
	if !ok {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("top level is not a mapping")}
	}
	return normalized, nil
}

// normalizeYAML turns integers into int64 so YAML and TOML files decode to
// the same value types, and stringifies non-string mapping keys.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeYAML(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalizeYAML(e)
		}
		return t
	case int:
		return int64(t)
	default:
		return v
	}
}
