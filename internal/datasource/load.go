package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/keygrid/internal/model"
)

// Format names a file format Load understands.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatJSON    Format = "json"
	FormatJSONL   Format = "jsonl"
	FormatYAML    Format = "yaml"
	FormatParquet Format = "parquet"
)

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".parquet":
		return FormatParquet, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))
}

// Load reads rows from path.
func Load(path string, opts ...Option) ([]model.Row, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatParquet {
		return ReadParquet(path, opts...)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rows, err := Parse(format, data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Parse decodes in-memory data.
func Parse(format Format, data []byte, opts ...Option) ([]model.Row, error) {
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}
	switch format {
	case FormatCSV:
		return readDelimited(data, o)
	case FormatTSV:
		o.comma = '\t'
		return readDelimited(data, o)
	case FormatJSON:
		return readJSON(data, o)
	case FormatJSONL:
		return readJSONLines(data, o)
	case FormatYAML:
		return readYAML(data, o)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, format)
}
