package datasource

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/keygrid/internal/model"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

func readDelimited(data []byte, o options) ([]model.Row, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, bom)))
	r.Comma = o.comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}
	keys := headerKeys(header)

	var rows []model.Row
	for !o.full(len(rows)) {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && rec[0] == "" {
			continue
		}
		row := make(model.Row, len(rec))
		for i, field := range rec {
			if i >= len(keys) {
				keys = append(keys, fmt.Sprintf("column_%d", i+1))
			}
			row[keys[i]] = typed(field, o.infer)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// headerKeys names blank headers by position and suffixes repeats.
func headerKeys(header []string) []string {
	keys := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		k := strings.TrimSpace(h)
		if k == "" {
			k = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[k]; n > 0 {
			seen[k]++
			k = fmt.Sprintf("%s_%d", k, n+1)
		}
		seen[k]++
		keys[i] = k
	}
	return keys
}

func typed(field string, infer bool) any {
	if !infer {
		return field
	}
	s := strings.TrimSpace(field)
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	case "", "nan", "inf", "+inf", "-inf", "infinity":
		return field
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return field
}
