package lua

import (
	"context"
	"errors"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds every entry into Lua.
const DefaultExecutionTimeout = 2 * time.Second

// State is a sandboxed Lua state with bounded execution.
type State struct {
	L *lua.LState

	timeout time.Duration
	print   func(string)
	depth   int
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the per-call timeout. Zero disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) { s.timeout = d }
}

// WithPrint routes Lua's print to fn.
func WithPrint(fn func(string)) StateOption {
	return func(s *State) { s.print = fn }
}

// NewState creates a sandboxed state.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(s)
	}
	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	installSandbox(s.L, s.print)
	return s
}

// DoFile executes a script file.
func (s *State) DoFile(path string) error {
	return s.run(func() error { return s.L.DoFile(path) })
}

// DoString executes source.
func (s *State) DoString(src string) error {
	return s.run(func() error { return s.L.DoString(src) })
}

// Call invokes fn with args and returns its results.
func (s *State) Call(fn *lua.LFunction, args ...lua.LValue) ([]lua.LValue, error) {
	var results []lua.LValue
	err := s.run(func() error {
		top := s.L.GetTop()
		s.L.Push(fn)
		for _, a := range args {
			s.L.Push(a)
		}
		if err := s.L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}
		n := s.L.GetTop() - top
		results = make([]lua.LValue, n)
		for i := range n {
			results[i] = s.L.Get(top + i + 1)
		}
		s.L.Pop(n)
		return nil
	})
	return results, err
}

// run executes fn with panic recovery. The outermost entry installs the
// timeout context; calls made from Go functions that Lua invoked reuse it.
func (s *State) run(fn func() error) (err error) {
	if s.closed {
		return ErrStateClosed
	}
	if s.depth == 0 && s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		s.L.SetContext(ctx)
		defer func() {
			s.L.RemoveContext()
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
			}
			cancel()
		}()
	}
	s.depth++
	defer func() { s.depth-- }()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the state. Further calls return ErrStateClosed.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}

// Closed reports whether Close was called.
func (s *State) Closed() bool { return s.closed }
