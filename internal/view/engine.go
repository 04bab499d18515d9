package view

import (
	"bytes"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/state"
)

// Query is the input of a rebuild besides the rows themselves.
type Query struct {
	Sort          state.SortSpec
	GlobalFilter  string
	ColumnFilters map[string]string
}

// Engine rebuilds views. It is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	collator *collate.Collator
	buf      collate.Buffer
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	lang language.Tag
}

// WithLanguage sets the collation language for string sorting.
func WithLanguage(tag language.Tag) Option {
	return func(c *engineConfig) { c.lang = tag }
}

// NewEngine creates an engine. Strings collate with the root locale unless
// WithLanguage is given.
func NewEngine(opts ...Option) *Engine {
	cfg := engineConfig{lang: language.Und}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{collator: collate.New(cfg.lang, collate.IgnoreCase)}
}

// Rebuild returns the filtered, sorted indices into rows.
//
// Unknown filter or sort columns are ignored. The result always satisfies
// len(view) <= len(rows) with every element in [0, len(rows)).
func (e *Engine) Rebuild(rows []model.Row, q Query, cols *model.Columns) []int {
	indices := make([]int, 0, len(rows))
	for i := range rows {
		indices = append(indices, i)
	}
	if cols == nil {
		cols = model.NewColumns(nil)
	}

	if term := strings.ToLower(q.GlobalFilter); term != "" {
		filterable := filterableColumns(cols)
		indices = retain(indices, func(i int) bool {
			return matchesAny(rows[i], filterable, term)
		})
	}

	for _, id := range sortedKeys(q.ColumnFilters) {
		needle := strings.ToLower(q.ColumnFilters[id])
		col, ok := cols.Get(id)
		if needle == "" || !ok {
			continue
		}
		indices = retain(indices, func(i int) bool {
			v, _ := col.Value(rows[i])
			return strings.Contains(strings.ToLower(model.Stringify(v)), needle)
		})
	}

	if q.Sort.Active() {
		if col, ok := cols.Get(q.Sort.Column); ok {
			e.sort(rows, indices, col, q.Sort.Direction == state.Desc)
		}
	}
	return indices
}

// sortKey is a precomputed comparison key for one row.
type sortKey struct {
	null bool
	num  float64
	text []byte
}

func (e *Engine) sort(rows []model.Row, indices []int, col model.Column, desc bool) {
	keys := make([]sortKey, len(rows))

	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.Reset()
	for _, i := range indices {
		v, _ := col.Value(rows[i])
		keys[i] = e.keyFor(col.Type, v)
	}

	textual := col.Type != model.TypeNumber && col.Type != model.TypeDate && col.Type != model.TypeBoolean
	sort.SliceStable(indices, func(a, b int) bool {
		ka, kb := keys[indices[a]], keys[indices[b]]
		if ka.null || kb.null {
			return !ka.null && kb.null
		}
		var c int
		if textual {
			c = bytes.Compare(ka.text, kb.text)
		} else {
			c = compareFloat(ka.num, kb.num)
		}
		if desc {
			c = -c
		}
		return c < 0
	})
}

func (e *Engine) keyFor(t model.ColumnType, v any) sortKey {
	if model.IsNull(v) {
		return sortKey{null: true}
	}
	switch t {
	case model.TypeNumber:
		f, ok := model.ToFloat(v)
		if !ok {
			return sortKey{null: true}
		}
		return sortKey{num: f}
	case model.TypeDate:
		d, ok := model.ParseDate(v)
		if !ok {
			return sortKey{null: true}
		}
		return sortKey{num: float64(d.UnixMilli())}
	case model.TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			b, _ = model.Coerce(model.TypeBoolean, v).(bool)
		}
		if b {
			return sortKey{num: 1}
		}
		return sortKey{num: 0}
	default:
		// Keys from the shared buffer stay valid until the next Reset.
		key := e.collator.KeyFromString(&e.buf, model.Stringify(v))
		return sortKey{text: key}
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func filterableColumns(cols *model.Columns) []model.Column {
	var out []model.Column
	for _, c := range cols.All() {
		if c.CanFilter() {
			out = append(out, c)
		}
	}
	return out
}

func matchesAny(row model.Row, cols []model.Column, term string) bool {
	for _, c := range cols {
		v, _ := c.Value(row)
		text := model.Stringify(v)
		if c.Format != nil {
			text = c.Format(v, row)
		}
		if strings.Contains(strings.ToLower(text), term) {
			return true
		}
	}
	return false
}

func retain(indices []int, keep func(int) bool) []int {
	out := indices[:0]
	for _, i := range indices {
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
