package datasource

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/dshills/keygrid/internal/model"
)

// ReadParquet reads every row of a parquet file using the schema stored
// in the file. Field names come back as the file's in-memory names.
func ReadParquet(path string, opts ...Option) ([]model.Row, error) {
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}

	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, nil, 4)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	if o.limit > 0 {
		n = min(n, o.limit)
	}
	records, err := pr.ReadByNumber(n)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}

	rows := make([]model.Row, 0, n)
	for _, v := range gjson.ParseBytes(data).Array() {
		if row, ok := object(v); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
