package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/dshills/keygrid/internal/model"
)

// parquetField maps one grid column onto a parquet leaf.
type parquetField struct {
	col  model.Column
	name string
	kind model.ColumnType
}

// WriteParquet writes the rows req selects from src to a Snappy-compressed
// parquet file at path. Number columns become DOUBLE, boolean columns
// BOOLEAN and everything else UTF8 strings; every field is optional.
func WriteParquet(src Source, req Request, path string) (int, error) {
	cols, rows, err := resolve(src, req)
	if err != nil {
		return 0, err
	}
	fields := parquetFields(cols)

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer fw.Close()

	pw, err := writer.NewJSONWriter(parquetSchema(fields), fw, 4)
	if err != nil {
		return 0, fmt.Errorf("parquet schema: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range rows {
		rec := make(map[string]any, len(fields))
		for _, f := range fields {
			if v := parquetValue(f, row); v != nil {
				rec[f.name] = v
			}
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return 0, err
		}
		if err := pw.Write(string(data)); err != nil {
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return 0, fmt.Errorf("finish %s: %w", path, err)
	}
	return len(rows), nil
}

func parquetFields(cols []model.Column) []parquetField {
	out := make([]parquetField, 0, len(cols))
	seen := make(map[string]int)
	for _, c := range cols {
		name := parquetName(c.ID)
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		seen[name]++
		out = append(out, parquetField{col: c, name: name, kind: c.Type})
	}
	return out
}

// parquetName turns a column id into an exported identifier, which the
// JSON writer requires for its in-memory field names.
func parquetName(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	name := sb.String()
	if name == "" || !unicode.IsLetter([]rune(name)[0]) {
		name = "C" + name
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func parquetSchema(fields []parquetField) string {
	type node struct {
		Tag    string
		Fields []node `json:",omitempty"`
	}
	root := node{Tag: "name=parquet_go_root, repetitiontype=REQUIRED"}
	for _, f := range fields {
		var typ string
		switch f.kind {
		case model.TypeNumber:
			typ = "type=DOUBLE"
		case model.TypeBoolean:
			typ = "type=BOOLEAN"
		default:
			typ = "type=BYTE_ARRAY, convertedtype=UTF8"
		}
		root.Fields = append(root.Fields, node{
			Tag: fmt.Sprintf("name=%s, inname=%s, %s, repetitiontype=OPTIONAL", f.name, f.name, typ),
		})
	}
	data, _ := json.Marshal(root)
	return string(data)
}

func parquetValue(f parquetField, row model.Row) any {
	v, ok := f.col.Value(row)
	if !ok || v == nil {
		return nil
	}
	switch f.kind {
	case model.TypeNumber:
		if n, ok := model.ToFloat(v); ok {
			return n
		}
		return nil
	case model.TypeBoolean:
		b, _ := model.Coerce(model.TypeBoolean, v).(bool)
		return b
	}
	return model.Stringify(v)
}
