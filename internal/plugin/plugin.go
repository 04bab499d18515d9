package plugin

import (
	"fmt"
	"time"
)

// InitFunc initializes a plugin and returns its instance.
type InitFunc func(api *API) (any, error)

// DestroyFunc tears down an instance returned by InitFunc.
type DestroyFunc func(instance any) error

// Definition is the descriptor form of a plugin.
type Definition struct {
	Name         string
	Init         InitFunc
	Destroy      DestroyFunc
	Dependencies []string
}

// Plugin is the object form of a plugin.
type Plugin interface {
	Name() string
	Init(api *API) error
	Destroy() error
}

// Dependent is implemented by plugins that require others.
type Dependent interface {
	Dependencies() []string
}

// Closer is implemented by plugins that hold resources before Init. The
// host closes a plugin it does not register.
type Closer interface {
	Close() error
}

// Factory constructs a plugin at registration time.
type Factory func() Plugin

// definitionOf normalizes the accepted plugin shapes.
func definitionOf(p any) (Definition, error) {
	switch v := p.(type) {
	case Definition:
		return v, nil
	case *Definition:
		if v == nil {
			return Definition{}, ErrInvalidPlugin
		}
		return *v, nil
	case Factory:
		return fromFactory(v)
	case func() Plugin:
		return fromFactory(v)
	case Plugin:
		return fromObject(v), nil
	case nil:
		return Definition{}, ErrInvalidPlugin
	}
	return Definition{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidPlugin, p)
}

func fromFactory(f func() Plugin) (def Definition, err error) {
	if f == nil {
		return Definition{}, ErrInvalidPlugin
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: constructor panicked: %v", ErrInvalidPlugin, r)
		}
	}()
	obj := f()
	if obj == nil {
		return Definition{}, fmt.Errorf("%w: constructor returned nil", ErrInvalidPlugin)
	}
	return fromObject(obj), nil
}

func fromObject(obj Plugin) Definition {
	def := Definition{
		Name: obj.Name(),
		Init: func(api *API) (any, error) {
			return obj, obj.Init(api)
		},
		Destroy: func(any) error {
			return obj.Destroy()
		},
	}
	if d, ok := obj.(Dependent); ok {
		def.Dependencies = d.Dependencies()
	}
	return def
}

// Options are the per-registration options passed to Use.
type Options map[string]any

// Has reports whether key is set.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// String returns a string option or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Bool returns a boolean option or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// Int returns an integer option or def. Any numeric type is accepted.
func (o Options) Int(key string, def int) int {
	if n, ok := toInt(o[key]); ok {
		return n
	}
	return def
}

// Duration returns a duration option or def. Integers are milliseconds and
// strings use time.ParseDuration syntax.
func (o Options) Duration(key string, def time.Duration) time.Duration {
	switch v := o[key].(type) {
	case time.Duration:
		return v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	default:
		if n, ok := toInt(v); ok {
			return time.Duration(n) * time.Millisecond
		}
	}
	return def
}

// Strings returns a string list option.
func (o Options) Strings(key string) []string {
	switch v := o[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if str, ok := s.(string); ok {
				out = append(out, str)
			}
		}
		return out
	case string:
		return []string{v}
	}
	return nil
}

// Clone returns a shallow copy.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	}
	return 0, false
}
