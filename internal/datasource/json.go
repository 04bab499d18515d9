package datasource

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dshills/keygrid/internal/model"
)

func readJSON(data []byte, o options) ([]model.Row, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	list := gjson.ParseBytes(data)
	if o.path != "" {
		list = gjson.GetBytes(data, o.path)
		if !list.Exists() {
			return nil, fmt.Errorf("%w: nothing at %q", ErrNotRows, o.path)
		}
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: found %s", ErrNotRows, kind(list))
	}

	var rows []model.Row
	var err error
	i := 0
	list.ForEach(func(_, v gjson.Result) bool {
		defer func() { i++ }()
		if o.full(len(rows)) {
			return false
		}
		row, ok := object(v)
		if !ok {
			if o.lenient {
				return true
			}
			err = fmt.Errorf("%w: element %d is %s", ErrNotRows, i, kind(v))
			return false
		}
		rows = append(rows, row)
		return true
	})
	return rows, err
}

func readJSONLines(data []byte, o options) ([]model.Row, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var rows []model.Row
	for line := 1; sc.Scan() && !o.full(len(rows)); line++ {
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		if !gjson.ValidBytes(text) {
			if o.lenient {
				continue
			}
			return nil, fmt.Errorf("%w: line %d", ErrInvalidJSON, line)
		}
		row, ok := object(gjson.ParseBytes(text))
		if !ok {
			if o.lenient {
				continue
			}
			return nil, fmt.Errorf("%w: line %d is not an object", ErrNotRows, line)
		}
		rows = append(rows, row)
	}
	return rows, sc.Err()
}

func object(v gjson.Result) (model.Row, bool) {
	if !v.IsObject() {
		return nil, false
	}
	m, ok := v.Value().(map[string]any)
	return model.Row(m), ok
}

func kind(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "an array"
	case v.IsObject():
		return "an object"
	}
	return v.Type.String()
}
