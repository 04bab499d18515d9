package plugin

import (
	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/input"
	"github.com/dshills/keygrid/internal/logging"
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/state"
)

// Table is the facade surface plugins drive.
type Table interface {
	Data() []model.Row
	FilteredData() []model.Row
	SetData(rows []model.Row)
	Columns() []model.Column
	VisibleColumns() []model.Column
	RowByID(id string) (model.Row, bool)
	RowID(viewPos int) (string, bool)
	UpdateCell(rowID, columnID string, value any) bool
	UpdateRow(rowID string, partial model.Row) bool
	CanEdit(columnID string) bool

	Sort(columnID string, dir state.Direction) bool
	ToggleSort(columnID string) bool
	ClearSort()
	Filter(term string) bool
	FilterColumn(columnID, value string) bool
	ClearFilters()
	Reset()

	SelectedIDs() []string
	Selected() []model.Row
	SelectRow(id string) bool
	SelectAll()
	ClearSelection()

	FocusedCell() (viewPos, col int, ok bool)
	SetPage(page int)
	NextPage() bool
	PrevPage() bool
	ToggleColumn(columnID string) bool

	Snapshot() state.Snapshot
	SnapshotFrom(base state.Snapshot) state.Snapshot
	Restore(snap state.Snapshot) error
	Render()

	Call(name string, args ...any) (any, error)
	HasExtension(name string) bool
}

// StateAccess reads and mutates grid state. Mutations recompute derived
// state before state:change is observed.
type StateAccess interface {
	State() state.State
	SetState(fn func(*state.State))
}

// Environment is what the host hands every plugin.
type Environment struct {
	Table      Table
	Bus        *event.Bus
	State      StateAccess
	Config     func() map[string]any
	Input      *input.Service
	Logger     *logging.Logger
	Extensions *Extensions
}

// API is the capability object passed to Init.
type API struct {
	Table   Table
	Bus     *event.Bus
	Input   *input.Service
	Logger  *logging.Logger
	Options Options

	name    string
	env     Environment
	subs    []event.Subscription
	handles []input.Handle
}

func newAPI(name string, env Environment, opts Options) *API {
	logger := env.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	if opts == nil {
		opts = Options{}
	}
	return &API{
		Table:   env.Table,
		Bus:     env.Bus,
		Input:   env.Input,
		Logger:  logger.WithComponent("plugin").WithField("plugin", name),
		Options: opts,
		name:    name,
		env:     env,
	}
}

// Name returns the plugin's registered name.
func (a *API) Name() string { return a.name }

// GetState returns the current state.
func (a *API) GetState() state.State {
	if a.env.State == nil {
		return state.State{}
	}
	return a.env.State.State()
}

// SetState mutates state through the table.
func (a *API) SetState(fn func(*state.State)) {
	if a.env.State != nil {
		a.env.State.SetState(fn)
	}
}

// Config returns a snapshot of the table configuration.
func (a *API) Config() map[string]any {
	if a.env.Config == nil {
		return map[string]any{}
	}
	return a.env.Config()
}

// Extend adds a method to the table.
func (a *API) Extend(name string, fn ExtensionFunc) error {
	if a.env.Extensions == nil {
		return &Error{Plugin: a.name, Op: "extend", Err: ErrNoExtension}
	}
	return a.env.Extensions.Register(a.name, name, fn)
}

// On subscribes to the bus. The subscription ends with the plugin.
func (a *API) On(t topic.Topic, fn event.Listener) event.Subscription {
	sub := a.Bus.On(t, fn)
	a.subs = append(a.subs, sub)
	return sub
}

// Intercept registers an interceptor owned by the plugin.
func (a *API) Intercept(t topic.Topic, fn event.InterceptFunc) event.Subscription {
	sub := a.Bus.Intercept(t, fn)
	a.subs = append(a.subs, sub)
	return sub
}

// Emit publishes on the bus.
func (a *API) Emit(t topic.Topic, payload any) event.Result {
	return a.Bus.Emit(t, payload)
}

// Bind registers a key binding owned by the plugin.
func (a *API) Bind(b input.Binding) (input.Handle, error) {
	if a.Input == nil {
		return input.Handle{}, &Error{Plugin: a.name, Op: "bind", Err: ErrInvalidPlugin}
	}
	b.Owner = a.name
	h, err := a.Input.Bind(b)
	if err != nil {
		return h, err
	}
	a.handles = append(a.handles, h)
	return h, nil
}

// release drops everything the plugin registered through the API.
func (a *API) release() {
	for _, sub := range a.subs {
		sub.Unsubscribe()
	}
	a.subs = nil
	for _, h := range a.handles {
		h.Remove()
	}
	a.handles = nil
	if a.env.Extensions != nil {
		a.env.Extensions.RemoveOwner(a.name)
	}
}
