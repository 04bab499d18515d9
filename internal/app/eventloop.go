package app

import (
	"strings"

	"github.com/dshills/keygrid/internal/config/notify"
	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/logging"
	"github.com/dshills/keygrid/internal/render/backend"
)

// quitKey exits the application unless the prompt is open.
var quitKey = key.MustParse("Ctrl+Q")

// quitRequest is the interrupt payload Shutdown posts to wake the loop.
type quitRequest struct{}

// eventLoop is the main application loop. Every table call happens on
// this goroutine; other goroutines hand work over with backend.Interrupt.
func (app *Application) eventLoop(b backend.Backend) error {
	for {
		select {
		case <-app.done:
			return ErrQuit
		default:
		}
		if err := app.handleBackendEvent(b.PollEvent()); err != nil {
			return err
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	t := app.currentTable()
	if t == nil {
		return nil
	}
	switch ev.Type {
	case backend.EventInterrupt:
		return app.handleInterrupt(ev.Data)
	case backend.EventKey:
		return app.handleKey(ev.Key)
	case backend.EventMouse, backend.EventResize:
		if app.prompt.clearStatus() {
			t.Render()
		}
		t.HandleEvent(ev)
	}
	return nil
}

func (app *Application) handleInterrupt(data any) error {
	switch v := data.(type) {
	case quitRequest:
		return ErrQuit
	case func():
		v()
	}
	return nil
}

func (app *Application) handleKey(ev key.Event) error {
	t := app.currentTable()
	if app.prompt.isOpen() {
		app.prompt.handleKey(ev)
		t.Render()
		return nil
	}
	if ev.Matches(quitKey) {
		return ErrQuit
	}
	cleared := app.prompt.clearStatus()
	if !t.HandleKey(ev) && cleared {
		t.Render()
	}
	return nil
}

// post runs fn on the loop goroutine. Work posted while the loop is not
// running is dropped.
func (app *Application) post(fn func()) {
	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()
	if b == nil || !app.running.Load() {
		return
	}
	b.Interrupt(fn)
}

// onConfigChange runs on the notifying goroutine, which is the watcher's
// for file reloads.
func (app *Application) onConfigChange(ch notify.Change) {
	app.post(func() { app.applyConfig(ch) })
}

// applyConfig pushes changed settings into the running table. Settings
// that only take effect at startup are logged and left alone.
func (app *Application) applyConfig(ch notify.Change) {
	t := app.currentTable()
	if t == nil {
		return
	}
	paths := ch.Paths
	if len(paths) == 0 {
		paths = []string{ch.Path}
	}
	s := app.config.Settings()

	if touches(paths, "theme") {
		theme, err := newTheme(s.Theme)
		if err != nil {
			app.logger.Warn("theme not applied: %v", err)
		} else {
			t.SetTheme(theme)
		}
	}
	if touches(paths, "grid.pageSize") {
		t.SetPageSize(s.Grid.PageSize)
	}
	if touches(paths, "keys") {
		app.bindKeys(t, s.Keys)
	}
	if touches(paths, "logging.level") {
		app.logger.SetLevel(logging.ParseLevel(s.Logging.Level))
	}
	for _, prefix := range []string{"grid.selectionMode", "grid.editable", "grid.language", "grid.idField", "plugins"} {
		if touches(paths, prefix) {
			app.logger.Info("%s changed; restart to apply", prefix)
		}
	}
	app.logger.Debug("config %s: %s", ch.Type, strings.Join(paths, ", "))
}

// touches reports whether any path is prefix or lies below it.
func touches(paths []string, prefix string) bool {
	for _, p := range paths {
		if p == prefix || strings.HasPrefix(p, prefix+".") {
			return true
		}
	}
	return false
}
