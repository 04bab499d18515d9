package lua

import (
	"fmt"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keygrid/internal/plugin"
)

// Plugin is a Lua script adapted to plugin.Plugin.
type Plugin struct {
	name    string
	source  string
	deps    []string
	state   *State
	init    *lua.LFunction
	destroy *lua.LFunction

	instance lua.LValue
	api      *plugin.API
}

// Load reads a plugin script from path.
func Load(path string, opts ...StateOption) (*Plugin, error) {
	s := NewState(opts...)
	if err := s.DoFile(path); err != nil {
		s.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	p, err := fromStack(s, path)
	if err != nil {
		s.Close()
		return nil, err
	}
	if p.name == "" {
		p.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// LoadString reads a plugin script from source.
func LoadString(source string, opts ...StateOption) (*Plugin, error) {
	s := NewState(opts...)
	if err := s.DoString(source); err != nil {
		s.Close()
		return nil, fmt.Errorf("load lua source: %w", err)
	}
	p, err := fromStack(s, "<string>")
	if err != nil {
		s.Close()
		return nil, err
	}
	return p, nil
}

// fromStack reads the definition table the chunk left on the stack.
func fromStack(s *State, source string) (*Plugin, error) {
	def, ok := s.L.Get(-1).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%s: %w", source, ErrNoDefinition)
	}
	s.L.Pop(1)

	p := &Plugin{source: source, state: s}
	if name, ok := def.RawGetString("name").(lua.LString); ok {
		p.name = string(name)
	}
	p.deps = stringList(def.RawGetString("dependencies"))
	p.init, _ = def.RawGetString("init").(*lua.LFunction)
	p.destroy, _ = def.RawGetString("destroy").(*lua.LFunction)
	if p.init == nil {
		return nil, &plugin.Error{Plugin: p.name, Op: "load " + source, Err: plugin.ErrMissingInit}
	}
	return p, nil
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return p.name }

// Dependencies implements plugin.Dependent.
func (p *Plugin) Dependencies() []string { return p.deps }

// Source returns the script path, or "<string>".
func (p *Plugin) Source() string { return p.source }

// Instance returns what init returned, converted to Go values.
func (p *Plugin) Instance() any { return ToGo(p.instance) }

// Init implements plugin.Plugin. The script's init receives the grid module
// and its options table.
func (p *Plugin) Init(api *plugin.API) error {
	p.api = api
	mod := newModule(p.state, api).table()
	opts := ToLua(p.state.L, map[string]any(api.Options))
	results, err := p.state.Call(p.init, mod, opts)
	if err != nil {
		p.state.Close()
		return err
	}
	if len(results) > 0 {
		p.instance = results[0]
	}
	return nil
}

// Close releases the Lua state without running destroy. The host calls it
// when the plugin is not registered.
func (p *Plugin) Close() error {
	p.state.Close()
	return nil
}

// Closed reports whether the Lua state was released.
func (p *Plugin) Closed() bool { return p.state.Closed() }

// Destroy implements plugin.Plugin and closes the Lua state.
func (p *Plugin) Destroy() error {
	defer p.state.Close()
	if p.destroy == nil {
		return nil
	}
	inst := p.instance
	if inst == nil {
		inst = lua.LNil
	}
	_, err := p.state.Call(p.destroy, inst)
	return err
}
