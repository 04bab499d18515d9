package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output encoding.
type Format string

const (
	CSV     Format = "csv"
	TSV     Format = "tsv"
	JSON    Format = "json"
	YAML    Format = "yaml"
	Text    Format = "text"
	Parquet Format = "parquet"
)

// Formats lists every supported format.
var Formats = []Format{CSV, TSV, JSON, YAML, Text, Parquet}

var aliases = map[string]Format{
	"csv":     CSV,
	"tsv":     TSV,
	"tab":     TSV,
	"json":    JSON,
	"yaml":    YAML,
	"yml":     YAML,
	"text":    Text,
	"txt":     Text,
	"table":   Text,
	"parquet": Parquet,
}

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	if f, ok := aliases[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Binary reports whether the format can only be written to a file.
func (f Format) Binary() bool { return f == Parquet }

// Scope selects which rows are exported.
type Scope string

const (
	// ScopeView is the filtered, sorted view across all pages.
	ScopeView Scope = "view"
	// ScopeSelection is the selected rows in selection order.
	ScopeSelection Scope = "selection"
	// ScopeAll is the raw data in insertion order.
	ScopeAll Scope = "all"
)

// ParseScope resolves a scope name. Empty means ScopeView.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeView:
		return ScopeView, nil
	case ScopeSelection, "selected":
		return ScopeSelection, nil
	case ScopeAll, "data":
		return ScopeAll, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
}
