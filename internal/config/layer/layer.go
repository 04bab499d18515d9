// Package layer merges configuration sources by priority.
//
// Each source (built-in defaults, the config file, the environment, command
// line flags, runtime overrides) is a Layer holding a nested map. Higher
// priority layers override lower ones key by key; nested maps merge.
package layer

import "time"

// Source says where a layer came from.
type Source uint8

const (
	SourceDefaults Source = iota
	SourceFile
	SourceEnv
	SourceFlags
	SourceSession
)

// Default priorities, lowest first.
const (
	PriorityDefaults = 0
	PriorityFile     = 100
	PriorityEnv      = 200
	PriorityFlags    = 300
	PrioritySession  = 400
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "environment"
	case SourceFlags:
		return "flags"
	case SourceSession:
		return "session"
	default:
		return "unknown"
	}
}

// Priority returns the default priority for s.
func (s Source) Priority() int {
	switch s {
	case SourceFile:
		return PriorityFile
	case SourceEnv:
		return PriorityEnv
	case SourceFlags:
		return PriorityFlags
	case SourceSession:
		return PrioritySession
	default:
		return PriorityDefaults
	}
}

// Layer is one configuration source.
type Layer struct {
	Name     string
	Source   Source
	Priority int

	// Path is the file a file layer was read from.
	Path string

	Data    map[string]any
	ModTime time.Time

	// ReadOnly layers reject Set and Delete.
	ReadOnly bool
}

// New creates an empty layer at the source's default priority.
func New(name string, source Source) *Layer {
	return NewWithData(name, source, nil)
}

// NewWithData creates a layer holding data.
func NewWithData(name string, source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: source.Priority(),
		Data:     data,
		ModTime:  time.Now(),
	}
}

// Clone returns a deep copy of l.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Data = Clone(l.Data)
	return &c
}

// Clone deep-copies nested maps and slices of src.
func Clone(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
