package command

import (
	"fmt"
	"strings"

	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/input"
	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/plugin"
)

// Name is the plugin name.
const Name = "command"

// Command topics. command:open asks the host to show its palette.
const (
	TopicRegister topic.Topic = "command:register"
	TopicExecute  topic.Topic = "command:execute"
	TopicError    topic.Topic = "command:error"
	TopicOpen     topic.Topic = "command:open"
)

// Event is the payload of command:register and command:execute.
type Event struct {
	ID     string
	Source string
	Args   map[string]any
}

// ErrorEvent is the payload of command:error.
type ErrorEvent struct {
	ID  string
	Err error
}

// Plugin exposes grid actions as named, searchable commands.
type Plugin struct {
	api *plugin.API
	reg *Registry
}

// New creates the plugin.
func New() *Plugin { return &Plugin{} }

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return Name }

// Registry returns the command registry. It is nil before Init.
func (p *Plugin) Registry() *Registry { return p.reg }

// Init implements plugin.Plugin.
//
// Options:
//
//	history  number of recent commands remembered (default 50)
//	keys     bind Ctrl+P to command:open (default true)
func (p *Plugin) Init(api *plugin.API) error {
	p.api = api
	p.reg = NewRegistry(api.Options.Int("history", 50))
	for _, c := range builtins(api.Table) {
		c.Source = builtinSource
		if err := p.Register(c); err != nil {
			return err
		}
	}

	exts := map[string]plugin.ExtensionFunc{
		"command": func(args ...any) (any, error) {
			id, err := plugin.Arg[string](args, 0)
			if err != nil {
				return nil, err
			}
			params, err := plugin.OptArg[map[string]any](args, 1, nil)
			if err != nil {
				return nil, err
			}
			return nil, p.Execute(id, params)
		},
		"run": func(args ...any) (any, error) {
			line, err := plugin.Arg[string](args, 0)
			if err != nil {
				return nil, err
			}
			return p.Run(line)
		},
		"commands": func(...any) (any, error) { return p.reg.All(), nil },
		"searchCommands": func(args ...any) (any, error) {
			q, err := plugin.OptArg(args, 0, "")
			if err != nil {
				return nil, err
			}
			limit := 0
			if len(args) > 1 {
				if limit, err = plugin.IntArg(args, 1); err != nil {
					return nil, err
				}
			}
			return p.reg.Search(q, limit), nil
		},
		"registerCommand": func(args ...any) (any, error) {
			c, err := plugin.Arg[*Command](args, 0)
			if err != nil {
				return nil, err
			}
			if c != nil && c.Source == "" {
				c.Source = "plugin"
			}
			return nil, p.Register(c)
		},
	}
	for name, fn := range exts {
		if err := api.Extend(name, fn); err != nil {
			return err
		}
	}

	if api.Options.Bool("keys", true) {
		_, err := api.Bind(input.Binding{
			Keys:        "Ctrl+P",
			Description: "Command palette",
			Action: func(key.Event) bool {
				api.Emit(TopicOpen, nil)
				return true
			},
		})
		return err
	}
	return nil
}

// Destroy implements plugin.Plugin.
func (p *Plugin) Destroy() error { return nil }

// Register adds a command and announces it.
func (p *Plugin) Register(c *Command) error {
	if err := p.reg.Register(c); err != nil {
		return err
	}
	p.api.Emit(TopicRegister, Event{ID: c.ID, Source: c.Source})
	return nil
}

// Execute runs a command by id.
func (p *Plugin) Execute(id string, args map[string]any) error {
	if err := p.reg.Execute(id, args); err != nil {
		p.api.Logger.Debug("command %s failed: %v", id, err)
		p.api.Emit(TopicError, ErrorEvent{ID: id, Err: err})
		return err
	}
	p.api.Emit(TopicExecute, Event{ID: id, Args: args})
	return nil
}

// Run parses a command line such as `sort age desc` or
// `filter "new york"` and executes it. The first word is a command id, or
// failing that, a search query whose best hit runs. It returns the id that
// ran.
func (p *Plugin) Run(line string) (string, error) {
	words := split(strings.TrimSpace(line))
	if len(words) == 0 {
		return "", fmt.Errorf("%w: empty command line", ErrUnknownCommand)
	}
	c, ok := p.reg.Get(words[0])
	if !ok {
		hits := p.reg.Search(words[0], 1)
		if len(hits) == 0 {
			err := fmt.Errorf("%w: %q", ErrUnknownCommand, words[0])
			p.api.Emit(TopicError, ErrorEvent{ID: words[0], Err: err})
			return "", err
		}
		c = hits[0].Command
	}
	args, err := c.Bind(words[1:])
	if err != nil {
		p.api.Emit(TopicError, ErrorEvent{ID: c.ID, Err: err})
		return c.ID, err
	}
	return c.ID, p.Execute(c.ID, args)
}
