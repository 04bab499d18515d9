package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// ExtensionFunc is a method a plugin adds to the table.
type ExtensionFunc func(args ...any) (any, error)

type extension struct {
	owner string
	fn    ExtensionFunc
}

// Extensions maps method names to plugin-provided functions.
type Extensions struct {
	mu    sync.RWMutex
	funcs map[string]extension
}

// NewExtensions creates an empty registry.
func NewExtensions() *Extensions {
	return &Extensions{funcs: make(map[string]extension)}
}

// Register adds name. An owner may replace its own extension but not
// another owner's.
func (e *Extensions) Register(owner, name string, fn ExtensionFunc) error {
	if name == "" || fn == nil {
		return fmt.Errorf("%w: extension %q", ErrInvalidPlugin, name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if cur, ok := e.funcs[name]; ok && cur.owner != owner {
		return fmt.Errorf("%w: %q (owned by %q)", ErrExtensionExists, name, cur.owner)
	}
	e.funcs[name] = extension{owner: owner, fn: fn}
	return nil
}

// Call invokes name. A panic inside the extension is returned as an error.
func (e *Extensions) Call(name string, args ...any) (result any, err error) {
	e.mu.RLock()
	ext, ok := e.funcs[name]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoExtension, name)
	}
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Plugin: ext.owner, Op: "call " + name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return ext.fn(args...)
}

// Has reports whether name is registered.
func (e *Extensions) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.funcs[name]
	return ok
}

// Owner returns the plugin that registered name.
func (e *Extensions) Owner(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ext, ok := e.funcs[name]
	return ext.owner, ok
}

// Names returns the registered names in sorted order.
func (e *Extensions) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.funcs))
	for name := range e.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoveOwner drops every extension registered by owner.
func (e *Extensions) RemoveOwner(owner string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for name, ext := range e.funcs {
		if ext.owner == owner {
			delete(e.funcs, name)
			n++
		}
	}
	return n
}

// Clear removes everything.
func (e *Extensions) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.funcs)
}

// Arg returns args[i] as T.
func Arg[T any](args []any, i int) (T, error) {
	var zero T
	if i >= len(args) {
		return zero, fmt.Errorf("%w: missing argument %d", ErrBadArgument, i+1)
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: argument %d is %T, want %T", ErrBadArgument, i+1, args[i], zero)
	}
	return v, nil
}

// OptArg returns args[i] as T, or def when absent or nil.
func OptArg[T any](args []any, i int, def T) (T, error) {
	if i >= len(args) || args[i] == nil {
		return def, nil
	}
	return Arg[T](args, i)
}

// IntArg returns args[i] as an int, accepting any numeric type.
func IntArg(args []any, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%w: missing argument %d", ErrBadArgument, i+1)
	}
	n, ok := toInt(args[i])
	if !ok {
		return 0, fmt.Errorf("%w: argument %d is %T, want a number", ErrBadArgument, i+1, args[i])
	}
	return n, nil
}
