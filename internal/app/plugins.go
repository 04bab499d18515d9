package app

import (
	"fmt"

	"github.com/dshills/keygrid/internal/config"
	"github.com/dshills/keygrid/internal/input"
	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/plugin"
	"github.com/dshills/keygrid/internal/plugin/lua"
	"github.com/dshills/keygrid/internal/plugins/clipboard"
	"github.com/dshills/keygrid/internal/plugins/command"
	"github.com/dshills/keygrid/internal/plugins/export"
	"github.com/dshills/keygrid/internal/plugins/history"
	"github.com/dshills/keygrid/internal/plugins/urlstate"
	"github.com/dshills/keygrid/internal/table"
)

// keyOwner owns the bindings declared in the [keys] section.
const keyOwner = "config"

// keyPriority puts configured bindings ahead of plugin defaults.
const keyPriority = 10

// builtins constructs the bundled plugins by name.
var builtins = map[string]func(app *Application) any{
	history.Name:   func(*Application) any { return history.New() },
	clipboard.Name: func(app *Application) any { return clipboard.New(app.board()) },
	export.Name:    func(*Application) any { return export.Plugin() },
	urlstate.Name:  func(*Application) any { return urlstate.New() },
	command.Name:   func(*Application) any { return command.New() },
}

func (app *Application) board() clipboard.Board {
	if app.opts.Clipboard != nil {
		return app.opts.Clipboard
	}
	return clipboard.System()
}

// loadPlugins registers the enabled built-ins in order, then the Lua
// scripts. A plugin that fails is logged and skipped.
func (app *Application) loadPlugins(t *table.Table, ps config.PluginSettings) {
	for _, name := range ps.Enabled {
		ctor, ok := builtins[name]
		if !ok {
			app.logger.Warn("plugin %s: %v", name, ErrUnknownPlugin)
			continue
		}
		if _, err := t.Use(ctor(app), plugin.Options(ps.OptionsFor(name))); err != nil {
			app.logger.Warn("plugin %s: %v", name, err)
		}
	}

	log := app.logger.WithComponent("lua")
	for _, path := range ps.Scripts {
		p, err := lua.Load(path, lua.WithPrint(func(s string) { log.Info("%s", s) }))
		if err != nil {
			app.logger.Warn("script %s: %v", path, err)
			continue
		}
		if _, err := t.Use(p, plugin.Options(ps.OptionsFor(p.Name()))); err != nil {
			app.logger.Warn("script %s: %v", path, err)
		}
	}
	app.logger.Info("plugins: %v", t.Plugins())
}

// bindKeys replaces the configured key bindings. Each runs its command
// line through the command plugin.
func (app *Application) bindKeys(t *table.Table, keys []config.KeyBinding) {
	in := t.Input()
	in.RemoveOwner(keyOwner)
	for _, kb := range keys {
		line := kb.Command
		_, err := in.Bind(input.Binding{
			Keys:        kb.Keys,
			Owner:       keyOwner,
			Description: line,
			Priority:    keyPriority,
			Action: func(key.Event) bool {
				app.runCommand(line)
				return true
			},
		})
		if err != nil {
			app.logger.Warn("key %s: %v", kb.Keys, err)
		}
	}
}

// runCommand runs a palette command line. The outcome reaches the status
// line through the command topics.
func (app *Application) runCommand(line string) {
	t := app.currentTable()
	if t == nil {
		return
	}
	if !t.HasExtension("run") {
		app.prompt.fail(fmt.Errorf("%w: %s", ErrPluginDisabled, command.Name))
		return
	}
	if _, err := t.Call("run", line); err != nil {
		app.logger.Debug("run %q: %v", line, err)
		if app.prompt.status == "" {
			app.prompt.fail(err)
		}
	}
}
