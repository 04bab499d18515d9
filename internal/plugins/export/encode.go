package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/keygrid/internal/model"
)

// Request describes one export.
type Request struct {
	Format Format
	Scope  Scope
	// Columns restricts and orders the exported columns by id. Empty means
	// the visible columns.
	Columns []string
	// Indent pretty-prints JSON.
	Indent bool
}

// Source is the table surface an export reads.
type Source interface {
	Data() []model.Row
	FilteredData() []model.Row
	Selected() []model.Row
	Columns() []model.Column
	VisibleColumns() []model.Column
}

// Encode renders the rows req selects from src in a text format.
func Encode(src Source, req Request) ([]byte, error) {
	out, _, err := encode(src, req)
	return out, err
}

func encode(src Source, req Request) (out []byte, n int, err error) {
	cols, rows, err := resolve(src, req)
	if err != nil {
		return nil, 0, err
	}
	switch req.Format {
	case CSV:
		out, err = encodeDelimited(cols, rows, ',')
	case TSV:
		out, err = encodeDelimited(cols, rows, '\t')
	case JSON:
		out, err = encodeJSON(cols, rows, req.Indent)
	case YAML:
		out, err = encodeYAML(cols, rows)
	case Text:
		out = encodeText(cols, rows)
	case Parquet:
		err = fmt.Errorf("%w: %s", ErrBinaryFormat, req.Format)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, req.Format)
	}
	if err != nil {
		return nil, 0, err
	}
	return out, len(rows), nil
}

func resolve(src Source, req Request) ([]model.Column, []model.Row, error) {
	var rows []model.Row
	switch req.Scope {
	case "", ScopeView:
		rows = src.FilteredData()
	case ScopeSelection:
		rows = src.Selected()
	case ScopeAll:
		rows = src.Data()
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownScope, req.Scope)
	}

	if len(req.Columns) == 0 {
		return src.VisibleColumns(), rows, nil
	}
	all := src.Columns()
	cols := make([]model.Column, 0, len(req.Columns))
	for _, id := range req.Columns {
		for _, c := range all {
			if c.ID == id {
				cols = append(cols, c)
				break
			}
		}
	}
	return cols, rows, nil
}

func headers(cols []model.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

func records(cols []model.Column, rows []model.Row) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		rec := make([]string, len(cols))
		for j, c := range cols {
			v, _ := c.Value(row)
			rec[j] = model.Stringify(v)
		}
		out[i] = rec
	}
	return out
}

// plain converts a cell value into something the encoders write natively.
func plain(v any) any {
	if t, ok := v.(time.Time); ok {
		return model.Stringify(t)
	}
	return v
}

func encodeDelimited(cols []model.Column, rows []model.Row, comma rune) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = comma
	if err := w.Write(headers(cols)); err != nil {
		return nil, err
	}
	if err := w.WriteAll(records(cols, rows)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pathEscaper protects sjson path syntax inside column ids.
var pathEscaper = strings.NewReplacer(
	`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`,
)

func encodeJSON(cols []model.Column, rows []model.Row, indent bool) ([]byte, error) {
	out := []byte("[]")
	for _, row := range rows {
		obj := []byte("{}")
		for _, c := range cols {
			v, _ := c.Value(row)
			var err error
			if obj, err = sjson.SetBytes(obj, pathEscaper.Replace(c.ID), plain(v)); err != nil {
				return nil, fmt.Errorf("encode %s: %w", c.ID, err)
			}
		}
		var err error
		if out, err = sjson.SetRawBytes(out, "-1", obj); err != nil {
			return nil, err
		}
	}
	if indent {
		return pretty.Pretty(out), nil
	}
	return append(out, '\n'), nil
}

func encodeYAML(cols []model.Column, rows []model.Row) ([]byte, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, c := range cols {
			v, _ := c.Value(row)
			val := &yaml.Node{}
			if err := val.Encode(plain(v)); err != nil {
				return nil, fmt.Errorf("encode %s: %w", c.ID, err)
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.ID}, val)
		}
		seq.Content = append(seq.Content, m)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeText(cols []model.Column, rows []model.Row) []byte {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers(cols)...).
		Rows(records(cols, rows)...)
	return []byte(t.Render() + "\n")
}
