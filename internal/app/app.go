// Package app runs the keygrid terminal viewer. It loads the configuration
// and the rows, builds the table with its plugins and drives the backend
// event loop until the user quits.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dshills/keygrid/internal/config"
	"github.com/dshills/keygrid/internal/config/notify"
	"github.com/dshills/keygrid/internal/datasource"
	"github.com/dshills/keygrid/internal/logging"
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/plugins/clipboard"
	"github.com/dshills/keygrid/internal/render"
	"github.com/dshills/keygrid/internal/render/backend"
	"github.com/dshills/keygrid/internal/state"
	"github.com/dshills/keygrid/internal/table"
)

// Headless surface size used by Export.
const (
	headlessWidth  = 160
	headlessHeight = 48
)

// Application owns the configuration, the table and the event loop.
type Application struct {
	mu sync.RWMutex

	config  *config.Config
	logger  *logging.Logger
	logFile *os.File
	subs    []*notify.Subscription

	backend backend.Backend
	table   *table.Table
	prompt  *prompt

	rows    []model.Row
	columns []model.Column

	ctx    context.Context
	cancel context.CancelFunc

	running  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty runs on defaults,
	// environment and overrides only.
	ConfigPath string

	// Watch reloads the configuration file when it changes.
	Watch bool

	// Overrides are command line settings keyed by dotted path.
	Overrides map[string]any

	// DataPath is the file to view.
	DataPath string

	// Format overrides format detection by extension.
	Format string

	// Generate, when DataPath is empty, fills the grid with that many
	// synthetic rows derived from Seed.
	Generate int
	Seed     uint64

	// Query is a view state query restored once plugins are loaded.
	Query string

	// Clipboard replaces the system clipboard.
	Clipboard clipboard.Board

	// ConfigOptions are appended to the options New passes to config.New.
	ConfigOptions []config.Option
}

// New loads the configuration and the rows. No terminal is touched until
// Run.
func New(opts Options) (*Application, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		logger: logging.New(logging.Config{Level: logging.LevelInfo, Output: io.Discard, Prefix: "keygrid"}),
	}
	if err := app.bootstrap(); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes the components that do not need a backend.
func (app *Application) bootstrap() error {
	cfgOpts := []config.Option{
		config.WithLogger(app.logger),
		config.WithWatch(app.opts.Watch),
	}
	if app.opts.ConfigPath != "" {
		cfgOpts = append(cfgOpts, config.WithFile(app.opts.ConfigPath))
	}
	if len(app.opts.Overrides) > 0 {
		cfgOpts = append(cfgOpts, config.WithFlags(app.opts.Overrides))
	}
	cfgOpts = append(cfgOpts, app.opts.ConfigOptions...)

	app.config = config.New(cfgOpts...)
	if err := app.config.Load(app.ctx); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if err := app.configureLogging(app.config.Settings().Logging); err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	rows, cols, err := app.loadData()
	if err != nil {
		return &InitError{Component: "data", Err: err}
	}
	app.rows, app.columns = rows, cols
	app.logger.Info("loaded %d rows", len(rows))

	app.subs = append(app.subs, app.config.Subscribe(app.onConfigChange))
	return nil
}

func (app *Application) configureLogging(ls config.LoggingSettings) error {
	app.logger.SetLevel(logging.ParseLevel(ls.Level))
	if ls.File == "" || app.logFile != nil {
		return nil
	}
	f, err := os.OpenFile(ls.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	app.logFile = f
	app.logger.SetOutput(f)
	return nil
}

func (app *Application) loadData() ([]model.Row, []model.Column, error) {
	switch {
	case app.opts.DataPath != "":
		rows, err := readRows(app.opts.DataPath, app.opts.Format)
		return rows, nil, err
	case app.opts.Generate > 0:
		return datasource.Generate(app.opts.Generate, app.opts.Seed), datasource.GeneratedColumns(), nil
	}
	return nil, nil, ErrNoData
}

func readRows(path, format string) ([]model.Row, error) {
	if format == "" {
		return datasource.Load(path)
	}
	f := datasource.Format(strings.ToLower(format))
	if f == datasource.FormatParquet {
		return datasource.ReadParquet(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return datasource.Parse(f, data)
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Run initializes the backend, builds the table and blocks in the event
// loop. A normal exit returns ErrQuit.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	select {
	case <-app.done:
		return ErrQuit
	default:
	}

	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()
	if b == nil {
		return ErrNoBackend
	}
	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	sched := table.SchedulerFunc(func(fn func()) { b.Interrupt(fn) })
	if err := app.build(b, sched); err != nil {
		return err
	}
	defer app.destroyTable()

	return app.eventLoop(b)
}

// Export writes the rows to path without a terminal and returns how many
// rows were written. The startup query applies first, so a sorted or
// filtered view exports as shown. Empty format and scope take the export
// plugin defaults.
func (app *Application) Export(path, format, scope string) (int, error) {
	if !app.running.CompareAndSwap(false, true) {
		return 0, ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.build(backend.NewMemory(headlessWidth, headlessHeight), table.Immediate); err != nil {
		return 0, err
	}
	defer app.destroyTable()

	t := app.currentTable()
	if !t.HasExtension("exportFile") {
		return 0, fmt.Errorf("%w: export", ErrPluginDisabled)
	}
	res, err := t.Call("exportFile", path, format, scope)
	if err != nil {
		return 0, err
	}
	n, _ := res.(int)
	return n, nil
}

// build creates the table from the current settings and loads plugins,
// key bindings and the startup query.
func (app *Application) build(b backend.Backend, sched table.Scheduler) error {
	s := app.config.Settings()
	theme, err := newTheme(s.Theme)
	if err != nil {
		return &InitError{Component: "theme", Err: err}
	}

	opts := []table.Option{
		table.WithData(app.rows),
		table.WithSelectionMode(state.SelectionMode(s.Grid.SelectionMode)),
		table.WithEditable(s.Grid.Editable),
		table.WithPageSize(s.Grid.PageSize),
		table.WithLoadingThreshold(s.Grid.LoadingThreshold),
		table.WithLanguage(s.Grid.Language),
		table.WithTheme(theme),
		table.WithLogger(app.logger),
		table.WithScheduler(sched),
	}
	if len(app.columns) > 0 {
		opts = append(opts, table.WithColumns(app.columns...))
	}
	if s.Grid.IDField != "" {
		opts = append(opts, table.WithIDField(s.Grid.IDField))
	}

	t, err := table.New(b, opts...)
	if err != nil {
		return &InitError{Component: "table", Err: err}
	}
	app.mu.Lock()
	app.table = t
	app.mu.Unlock()

	app.prompt = newPrompt(app, b)
	app.prompt.attach(t)
	app.loadPlugins(t, s.Plugins)
	app.bindKeys(t, s.Keys)

	if app.opts.Query != "" {
		if !t.HasExtension("restoreQuery") {
			return &InitError{Component: "query", Err: fmt.Errorf("%w: urlstate", ErrPluginDisabled)}
		}
		if _, err := t.Call("restoreQuery", app.opts.Query); err != nil {
			return &InitError{Component: "query", Err: err}
		}
	}
	t.Render()
	return nil
}

func (app *Application) destroyTable() {
	app.mu.Lock()
	t := app.table
	app.table = nil
	app.mu.Unlock()
	if t == nil {
		return
	}
	if err := t.Destroy(); err != nil {
		app.logger.Warn("destroy table: %v", err)
	}
}

func (app *Application) currentTable() *table.Table {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.table
}

// Shutdown stops the event loop and releases the configuration watcher and
// the log file. It is safe to call more than once and from any goroutine.
func (app *Application) Shutdown() {
	app.stopOnce.Do(func() {
		close(app.done)
		app.mu.RLock()
		b := app.backend
		app.mu.RUnlock()
		if b != nil && app.running.Load() {
			b.Interrupt(quitRequest{})
		}
		app.close()
	})
}

func (app *Application) close() {
	app.cancel()
	for _, sub := range app.subs {
		sub.Unsubscribe()
	}
	if app.config != nil {
		if err := app.config.Close(); err != nil {
			app.logger.Warn("close config: %v", err)
		}
	}
	if app.logFile != nil {
		app.logger.SetOutput(io.Discard)
		_ = app.logFile.Close()
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Table returns the table while Run or Export is active, otherwise nil.
func (app *Application) Table() *table.Table {
	return app.currentTable()
}

// Rows returns the loaded rows.
func (app *Application) Rows() []model.Row {
	return app.rows
}

func newTheme(ts config.ThemeSettings) (render.Theme, error) {
	return render.NewTheme(render.ThemeColors{
		Foreground: ts.Foreground,
		Background: ts.Background,
		Accent:     ts.Accent,
		Error:      ts.Error,
	})
}
