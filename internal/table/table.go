package table

import (
	"slices"

	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/focus"
	"github.com/dshills/keygrid/internal/input"
	"github.com/dshills/keygrid/internal/logging"
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/plugin"
	"github.com/dshills/keygrid/internal/render"
	"github.com/dshills/keygrid/internal/render/backend"
	"github.com/dshills/keygrid/internal/state"
	"github.com/dshills/keygrid/internal/view"
	"github.com/dshills/keygrid/internal/viewport"
)

// Table is the grid facade.
type Table struct {
	cfg     config
	backend backend.Backend
	bus     *event.Bus
	logger  *logging.Logger

	state    *state.Manager
	engine   *view.Engine
	columns  *model.Columns
	explicit bool
	ids      *model.IDResolver
	index    *model.Index

	viewport *viewport.Viewport
	tracker  *viewport.Tracker
	renderer *render.Coordinator
	focus    *focus.Controller
	input    *input.Service
	plugins  *plugin.Host

	// dirty forces the next body rebuild.
	dirty bool

	// edited is set when an interactive edit wrote through and the view
	// has not been rebuilt yet.
	edited bool

	// deferred holds the view empty while a large load waits for the
	// scheduler.
	deferred bool

	report    render.Report
	loadGen   uint64
	destroyed bool
}

// New creates a table drawing on b.
func New(b backend.Backend, opts ...Option) (*Table, error) {
	if b == nil {
		return nil, ErrNoBackend
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = logging.Nop()
	}
	bus := cfg.bus
	if bus == nil {
		bus = event.NewBus(event.WithLogger(logger))
	}

	t := &Table{
		cfg:      cfg,
		backend:  b,
		bus:      bus,
		logger:   logger.WithComponent("table"),
		engine:   view.NewEngine(view.WithLanguage(cfg.language)),
		columns:  model.NewColumns(cfg.columns),
		explicit: len(cfg.columns) > 0,
		tracker:  viewport.NewTracker(),
		input:    input.NewService(logger),
	}

	var resolverOpts []model.ResolverOption
	if cfg.idField != "" {
		resolverOpts = append(resolverOpts, model.WithIDField(cfg.idField))
	}
	if cfg.idFunc != nil {
		resolverOpts = append(resolverOpts, model.WithIDFunc(cfg.idFunc))
	}
	t.ids = model.NewIDResolver(resolverOpts...)
	t.index = model.BuildIndex(nil, t.ids)

	t.state = state.NewManager(bus, state.State{PageSize: cfg.pageSize})

	renderOpts := []render.Option{render.WithTracker(t.tracker), render.WithLogger(logger)}
	if cfg.theme != nil {
		renderOpts = append(renderOpts, render.WithTheme(*cfg.theme))
	}
	t.renderer = render.New(b, bus, renderOpts...)
	t.viewport = viewport.New(t.renderer.BodyHeight(), 1)

	t.focus = focus.New(grid{t},
		focus.WithBus(bus),
		focus.WithLogger(logger),
		focus.WithOnChange(func() { t.dirty = true }),
	)

	t.plugins = plugin.NewHost(plugin.Environment{
		Table:  t,
		Bus:    bus,
		State:  t,
		Config: cfg.snapshot,
		Input:  t.input,
		Logger: logger,
	})

	if len(cfg.data) > 0 {
		t.load(cfg.data)
	} else {
		t.redraw()
	}
	st := t.state.Get()
	t.emit(TopicReady, DataEvent{Rows: len(st.Data), Columns: t.columns.Len()})
	return t, nil
}

// State returns the current state. Treat it as read-only.
func (t *Table) State() state.State { return t.state.Get() }

// SetState mutates state directly. Derived state is recomputed before
// state:change is emitted.
func (t *Table) SetState(fn func(*state.State)) {
	if t.destroyed || fn == nil {
		return
	}
	t.commitPending()
	t.mutate(fn)
	t.settle()
}

// Config returns the configuration snapshot handed to plugins.
func (t *Table) Config() map[string]any { return t.cfg.snapshot() }

// Input returns the table's input service.
func (t *Table) Input() *input.Service { return t.input }

// Renderer returns the render coordinator.
func (t *Table) Renderer() *render.Coordinator { return t.renderer }

// mutate applies fn and recomputes the view, the page clamp and the
// selection in the same state write, so listeners never observe a
// half-applied change.
func (t *Table) mutate(fn func(*state.State), keys ...state.Key) state.Change {
	if t.edited {
		t.edited = false
		keys = append(keys, state.KeyData)
	}
	change := t.state.Set(func(s *state.State) {
		fn(s)
		t.derive(s)
	}, state.Touch(keys...))
	t.dirty = true
	return change
}

func (t *Table) derive(s *state.State) {
	if t.deferred {
		s.View = s.View[:0]
		s.Page = 0
		return
	}
	s.View = t.engine.Rebuild(s.Data, view.Query{
		Sort:          s.Sort,
		GlobalFilter:  s.GlobalFilter,
		ColumnFilters: s.ColumnFilters,
	}, t.columns)
	s.Page = view.ClampPage(s.Page, len(s.View), s.PageSize)
	if s.Selection.Len() > 0 {
		s.Selection = s.Selection.Retain(func(id string) bool {
			_, ok := t.index.Lookup(id)
			return ok
		})
	}
}

// page returns the raw indices shown in the body.
func (t *Table) page(s state.State) []int {
	return view.Page(s.View, s.Page, s.PageSize)
}

// settle finishes an entry point: it rebuilds the view after interactive
// edits, re-resolves focus and repaints.
func (t *Table) settle() {
	if t.destroyed {
		return
	}
	if t.edited {
		t.mutate(func(*state.State) {})
	}
	t.relocate()
	st := t.state.Get()
	t.viewport.Clamp(len(t.page(st)))
	t.syncScroll()
	t.redraw()
}

// relocate moves focus to wherever its row and column ended up.
func (t *Table) relocate() {
	st := t.state.Get()
	rows := t.page(st)
	visible := t.visibleColumns(st)
	t.focus.Relocate(
		func(id string) (int, bool) {
			raw, ok := t.index.Lookup(id)
			if !ok {
				return 0, false
			}
			pos := view.Position(rows, raw)
			return pos, pos >= 0
		},
		func(id string) (int, bool) {
			i := slices.IndexFunc(visible, func(c model.Column) bool { return c.ID == id })
			return i, i >= 0
		},
	)
}

// commitPending commits an in-progress edit before a structural mutation.
// An edit the validator rejects is cancelled instead.
func (t *Table) commitPending() {
	if !t.focus.Editing() {
		return
	}
	if !t.focus.Commit(focus.Blur) {
		t.logger.Debug("discarding rejected edit before view change")
		t.focus.Cancel()
	}
}

// Render forces a full repaint.
func (t *Table) Render() {
	if t.destroyed {
		return
	}
	t.dirty = true
	t.redraw()
}

// Destroy tears down plugins, detaches listeners and clears the surface.
// Further calls are no-ops.
func (t *Table) Destroy() error {
	if t.destroyed {
		return nil
	}
	if t.focus.Editing() {
		t.focus.Cancel()
	}
	t.emit(TopicDestroy, nil)
	err := t.plugins.DestroyAll()
	t.destroyed = true
	t.loadGen++
	t.input.Clear()
	t.bus.Clear()
	t.backend.Clear()
	t.backend.HideCursor()
	t.backend.Show()
	return err
}

// Destroyed reports whether Destroy was called.
func (t *Table) Destroyed() bool { return t.destroyed }
