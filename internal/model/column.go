package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
)

// ColumnType drives default formatting, coercion and sort comparison.
type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeNumber  ColumnType = "number"
	TypeBoolean ColumnType = "boolean"
	TypeDate    ColumnType = "date"
)

// ParseColumnType maps a configuration string to a ColumnType,
// defaulting to TypeString.
func ParseColumnType(s string) ColumnType {
	switch ColumnType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeNumber:
		return TypeNumber
	case TypeBoolean:
		return TypeBoolean
	case TypeDate:
		return TypeDate
	default:
		return TypeString
	}
}

// DefaultColumnWidth is used when a column declares no width.
const DefaultColumnWidth = 14

// ValidateFunc accepts or rejects an edit. Returning false keeps the cell
// in editing state.
type ValidateFunc func(newValue, oldValue any, rowID string) bool

// FormatFunc converts a cell value to display text.
type FormatFunc func(value any, row Row) string

// RenderFunc produces the final cell text; it wins over FormatFunc.
type RenderFunc func(value any, row Row, rowID string) string

// Column describes one grid column.
type Column struct {
	ID       string
	Field    string
	Header   string
	Type     ColumnType
	Width    int
	MinWidth int
	MaxWidth int

	// Nil flags mean true for Sortable, Filterable and Resizable.
	Sortable   *bool
	Filterable *bool
	Resizable  *bool

	// Editable is tri-state: nil defers to the table's allowlist and
	// global editable flag.
	Editable *bool

	Render   RenderFunc
	Format   FormatFunc
	Validate ValidateFunc
}

// Bool returns a pointer to b, for the Column flags.
func Bool(b bool) *bool { return &b }

func flag(p *bool) bool { return p == nil || *p }

// CanSort reports whether the column may be sorted.
func (c Column) CanSort() bool { return flag(c.Sortable) }

// CanFilter reports whether the column takes part in filtering.
func (c Column) CanFilter() bool { return flag(c.Filterable) }

// CanResize reports whether the column width may be changed.
func (c Column) CanResize() bool { return flag(c.Resizable) }

// Normalize fills defaults: Field and Header from ID, Type string,
// Width from DefaultColumnWidth.
func (c Column) Normalize() Column {
	if c.Field == "" {
		c.Field = c.ID
	}
	if c.ID == "" {
		c.ID = c.Field
	}
	if c.Header == "" {
		c.Header = HeaderFromField(c.ID)
	}
	if c.Type == "" {
		c.Type = TypeString
	}
	if c.Width <= 0 {
		c.Width = DefaultColumnWidth
	}
	return c
}

// ClampWidth bounds w by the column's MinWidth/MaxWidth.
func (c Column) ClampWidth(w int) int {
	if c.MinWidth > 0 && w < c.MinWidth {
		w = c.MinWidth
	}
	if c.MaxWidth > 0 && w > c.MaxWidth {
		w = c.MaxWidth
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Value reads the column's field from row.
func (c Column) Value(row Row) (any, bool) {
	return Get(row, c.Field)
}

// Text returns the display text for the column's value in row.
func (c Column) Text(row Row, rowID string) string {
	v, _ := c.Value(row)
	if c.Render != nil {
		return c.Render(v, row, rowID)
	}
	if c.Format != nil {
		return c.Format(v, row)
	}
	return Stringify(v)
}

// HeaderFromField turns "first_name" or "address.city" into a label.
func HeaderFromField(field string) string {
	fields := strings.FieldsFunc(field, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	for i, f := range fields {
		runes := []rune(f)
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}

// DetectColumns infers columns from the shape of the first row. Nested maps
// are flattened into dot paths. Keys are sorted so detection is
// deterministic; it is meant to run once at initial load.
func DetectColumns(first Row) []Column {
	if len(first) == 0 {
		return nil
	}
	var cols []Column
	detectInto(&cols, first, "")
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].ID < cols[j].ID })
	return cols
}

func detectInto(cols *[]Column, m map[string]any, prefix string) {
	for key, v := range m {
		path := key
		if prefix != "" {
			path = prefix + PathSeparator + key
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			detectInto(cols, nested, path)
			continue
		}
		*cols = append(*cols, Column{
			ID:    path,
			Field: path,
			Type:  InferType(v),
		}.Normalize())
	}
}

// InferType guesses a column type from a sample value.
func InferType(v any) ColumnType {
	switch t := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return TypeNumber
	case bool:
		return TypeBoolean
	case time.Time, *time.Time:
		return TypeDate
	case string:
		if _, ok := ParseDate(t); ok && len(t) >= 8 {
			return TypeDate
		}
		return TypeString
	default:
		return TypeString
	}
}

// Columns is an ordered column set with id lookup.
type Columns struct {
	list  []Column
	index map[string]int
}

// NewColumns normalizes cols and indexes them by ID. Later duplicates of an
// ID are dropped.
func NewColumns(cols []Column) *Columns {
	c := &Columns{index: make(map[string]int, len(cols))}
	for _, col := range cols {
		col = col.Normalize()
		if _, dup := c.index[col.ID]; dup {
			continue
		}
		c.index[col.ID] = len(c.list)
		c.list = append(c.list, col)
	}
	return c
}

// Len returns the number of columns.
func (c *Columns) Len() int { return len(c.list) }

// All returns a copy of the column list.
func (c *Columns) All() []Column {
	return append([]Column(nil), c.list...)
}

// At returns the column at position i.
func (c *Columns) At(i int) (Column, bool) {
	if i < 0 || i >= len(c.list) {
		return Column{}, false
	}
	return c.list[i], true
}

// Get returns the column with the given id.
func (c *Columns) Get(id string) (Column, bool) {
	i, ok := c.index[id]
	if !ok {
		return Column{}, false
	}
	return c.list[i], true
}

// IndexOf returns the position of id, or -1.
func (c *Columns) IndexOf(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Has reports whether id is a known column.
func (c *Columns) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// String implements fmt.Stringer for debugging.
func (c *Columns) String() string {
	ids := make([]string, len(c.list))
	for i, col := range c.list {
		ids[i] = col.ID
	}
	return fmt.Sprintf("Columns%v", ids)
}
