package model

import (
	"sync"

	"github.com/google/uuid"
)

// IDFunc derives a row id from the row and its raw index.
type IDFunc func(row Row, index int) string

// IDResolver derives stable row identifiers.
//
// Resolution order: a configured IDFunc, then a configured field, then a
// generated UUID cached against the row object. A generated id lives as long
// as the row map does; replacing the map yields a new id.
type IDResolver struct {
	field string
	fn    IDFunc

	mu    sync.Mutex
	cache map[uintptr]generatedID
	gen   func() string
}

type generatedID struct {
	// row pins the map so its address cannot be reused while cached.
	row Row
	id  string
}

// ResolverOption configures an IDResolver.
type ResolverOption func(*IDResolver)

// WithIDField resolves ids from a row field (dot paths allowed).
func WithIDField(field string) ResolverOption {
	return func(r *IDResolver) { r.field = field }
}

// WithIDFunc resolves ids with fn.
func WithIDFunc(fn IDFunc) ResolverOption {
	return func(r *IDResolver) { r.fn = fn }
}

// WithIDGenerator replaces the UUID generator; used by tests.
func WithIDGenerator(gen func() string) ResolverOption {
	return func(r *IDResolver) { r.gen = gen }
}

// NewIDResolver creates a resolver.
func NewIDResolver(opts ...ResolverOption) *IDResolver {
	r := &IDResolver{
		cache: make(map[uintptr]generatedID),
		gen:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Field returns the configured id field, if any.
func (r *IDResolver) Field() string { return r.field }

// ID returns the identifier for row at raw index.
func (r *IDResolver) ID(row Row, index int) string {
	if r.fn != nil {
		if id := r.fn(row, index); id != "" {
			return id
		}
	}
	if r.field != "" {
		if v, ok := Get(row, r.field); ok && v != nil {
			return Stringify(v)
		}
	}
	return r.generated(row)
}

func (r *IDResolver) generated(row Row) string {
	key := identity(row)
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.cache[key]; ok {
		return e.id
	}
	id := r.gen()
	r.cache[key] = generatedID{row: row, id: id}
	return id
}

// Forget drops the cached id of row.
func (r *IDResolver) Forget(row Row) {
	r.mu.Lock()
	delete(r.cache, identity(row))
	r.mu.Unlock()
}

// Reset drops all generated ids. Called when the data set is replaced.
func (r *IDResolver) Reset() {
	r.mu.Lock()
	r.cache = make(map[uintptr]generatedID)
	r.mu.Unlock()
}

// Index maps row ids to raw indices for a data set.
type Index struct {
	ids   []string
	byID  map[string]int
	dupes int
}

// BuildIndex resolves ids for every row. When two rows share an id the first
// one wins lookups.
func BuildIndex(rows []Row, r *IDResolver) *Index {
	idx := &Index{
		ids:  make([]string, len(rows)),
		byID: make(map[string]int, len(rows)),
	}
	for i, row := range rows {
		id := r.ID(row, i)
		idx.ids[i] = id
		if _, exists := idx.byID[id]; exists {
			idx.dupes++
			continue
		}
		idx.byID[id] = i
	}
	return idx
}

// ID returns the id of the row at raw index i.
func (x *Index) ID(i int) string {
	if x == nil || i < 0 || i >= len(x.ids) {
		return ""
	}
	return x.ids[i]
}

// Lookup returns the raw index of id.
func (x *Index) Lookup(id string) (int, bool) {
	if x == nil {
		return -1, false
	}
	i, ok := x.byID[id]
	return i, ok
}

// Len returns the number of indexed rows.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.ids)
}

// Duplicates returns how many rows shared an id with an earlier row.
func (x *Index) Duplicates() int {
	if x == nil {
		return 0
	}
	return x.dupes
}
