package datasource

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/keygrid/internal/model"
)

// readYAML accepts a top-level sequence, or a mapping when a dotted path
// to the sequence is configured.
func readYAML(data []byte, o options) ([]model.Row, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if o.path != "" {
		for _, key := range strings.Split(o.path, ".") {
			m, ok := doc.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: nothing at %q", ErrNotRows, o.path)
			}
			if doc, ok = m[key]; !ok {
				return nil, fmt.Errorf("%w: nothing at %q", ErrNotRows, o.path)
			}
		}
	}

	list, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: found %T", ErrNotRows, doc)
	}
	rows := make([]model.Row, 0, len(list))
	for i, item := range list {
		if o.full(len(rows)) {
			break
		}
		m, ok := item.(map[string]any)
		if !ok {
			if o.lenient {
				continue
			}
			return nil, fmt.Errorf("%w: item %d is %T", ErrNotRows, i, item)
		}
		rows = append(rows, model.Row(m))
	}
	return rows, nil
}
