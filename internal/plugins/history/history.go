package history

import (
	"errors"

	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/input"
	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/plugin"
	"github.com/dshills/keygrid/internal/state"
	"github.com/dshills/keygrid/internal/table"
)

// Name is the plugin name.
const Name = "history"

// DefaultLimit bounds the undo stack when no limit option is given. Steps
// share unchanged rows, so a full stack holds one copy of the data plus the
// rows each step changed.
const DefaultLimit = 100

// History topics.
const (
	TopicPush  topic.Topic = "history:push"
	TopicUndo  topic.Topic = "history:undo"
	TopicRedo  topic.Topic = "history:redo"
	TopicClear topic.Topic = "history:clear"
)

var (
	ErrNothingToUndo = errors.New("history: nothing to undo")
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

// Event is the payload of every history topic.
type Event struct {
	Reason string
	Undo   int
	Redo   int
}

// Plugin records snapshots and restores them.
type Plugin struct {
	api   *plugin.API
	limit int

	undo    []state.Snapshot
	redo    []state.Snapshot
	current state.Snapshot

	depth     int
	pending   bool
	restoring bool
}

// New creates the plugin.
func New() *Plugin { return &Plugin{} }

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return Name }

// Init implements plugin.Plugin.
func (p *Plugin) Init(api *plugin.API) error {
	p.api = api
	p.limit = max(api.Options.Int("limit", DefaultLimit), 1)
	p.current = api.Table.Snapshot()

	api.On(table.TopicCellEdit, func(any) { p.record("edit") })
	api.On(table.TopicRowUpdate, func(any) { p.record("update") })
	api.On(table.TopicDataLoad, func(any) { p.Clear() })

	exts := map[string]plugin.ExtensionFunc{
		"undo":    func(...any) (any, error) { return nil, p.Undo() },
		"redo":    func(...any) (any, error) { return nil, p.Redo() },
		"canUndo": func(...any) (any, error) { return p.CanUndo(), nil },
		"canRedo": func(...any) (any, error) { return p.CanRedo(), nil },
		"clearHistory": func(...any) (any, error) {
			p.Clear()
			return nil, nil
		},
		"historyBatch": func(args ...any) (any, error) {
			fn, err := plugin.Arg[func()](args, 0)
			if err != nil {
				return nil, err
			}
			p.Batch(fn)
			return nil, nil
		},
	}
	for name, fn := range exts {
		if err := api.Extend(name, fn); err != nil {
			return err
		}
	}

	if api.Options.Bool("keys", true) {
		bindings := []input.Binding{
			{Keys: "Ctrl+Z", Description: "Undo", Action: func(key.Event) bool { return p.Undo() == nil }},
			{Keys: "Ctrl+Y", Description: "Redo", Action: func(key.Event) bool { return p.Redo() == nil }},
		}
		for _, b := range bindings {
			if _, err := api.Bind(b); err != nil {
				return err
			}
		}
	}
	return nil
}

// Destroy implements plugin.Plugin.
func (p *Plugin) Destroy() error {
	p.undo, p.redo = nil, nil
	return nil
}

// record pushes the state before the mutation that just happened.
func (p *Plugin) record(reason string) {
	if p.restoring {
		return
	}
	if p.depth > 0 {
		p.pending = true
		return
	}
	p.undo = append(p.undo, p.current)
	if excess := len(p.undo) - p.limit; excess > 0 {
		p.undo = p.undo[excess:]
	}
	p.redo = nil
	p.current = p.api.Table.SnapshotFrom(p.current)
	p.emit(TopicPush, reason)
}

// Batch runs fn and records everything it changes as one undo step.
// Batches nest.
func (p *Plugin) Batch(fn func()) {
	p.depth++
	defer func() {
		p.depth--
		if p.depth == 0 && p.pending {
			p.pending = false
			p.record("batch")
		}
	}()
	fn()
}

// Undo restores the rows before the last recorded mutation.
func (p *Plugin) Undo() error {
	if len(p.undo) == 0 {
		return ErrNothingToUndo
	}
	prev := p.undo[len(p.undo)-1]
	if err := p.restore(prev); err != nil {
		return err
	}
	p.undo = p.undo[:len(p.undo)-1]
	p.redo = append(p.redo, p.current)
	p.current = prev
	p.emit(TopicUndo, "undo")
	return nil
}

// Redo reapplies the last undone mutation.
func (p *Plugin) Redo() error {
	if len(p.redo) == 0 {
		return ErrNothingToRedo
	}
	next := p.redo[len(p.redo)-1]
	if err := p.restore(next); err != nil {
		return err
	}
	p.redo = p.redo[:len(p.redo)-1]
	p.undo = append(p.undo, p.current)
	p.current = next
	p.emit(TopicRedo, "redo")
	return nil
}

func (p *Plugin) restore(snap state.Snapshot) error {
	p.restoring = true
	defer func() { p.restoring = false }()
	return p.api.Table.Restore(snap)
}

// CanUndo reports whether Undo has anything to do.
func (p *Plugin) CanUndo() bool { return len(p.undo) > 0 }

// CanRedo reports whether Redo has anything to do.
func (p *Plugin) CanRedo() bool { return len(p.redo) > 0 }

// Clear drops both stacks and rebases on the current rows.
func (p *Plugin) Clear() {
	p.undo, p.redo = nil, nil
	p.pending = false
	p.current = p.api.Table.Snapshot()
	p.emit(TopicClear, "clear")
}

func (p *Plugin) emit(t topic.Topic, reason string) {
	p.api.Emit(t, Event{Reason: reason, Undo: len(p.undo), Redo: len(p.redo)})
}
