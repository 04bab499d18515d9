package table

import (
	"fmt"

	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/plugin"
	"github.com/dshills/keygrid/internal/state"
)

// extensionOwner owns extensions registered by the host application.
const extensionOwner = "table"

// Use registers a plugin: a plugin.Definition, a plugin.Plugin, a factory,
// or a Lua plugin loaded with the lua package. Validation failures are
// returned; a plugin whose init fails is logged and skipped, and Use still
// returns the table so registration can continue.
func (t *Table) Use(p any, opts plugin.Options) (*Table, error) {
	if t.destroyed {
		return t, ErrDestroyed
	}
	if _, err := t.plugins.Register(p, opts); err != nil {
		return t, err
	}
	return t, nil
}

// MustUse is Use for setup code; it panics on a validation failure.
func (t *Table) MustUse(p any, opts plugin.Options) *Table {
	if _, err := t.Use(p, opts); err != nil {
		panic(fmt.Sprintf("table: use plugin: %v", err))
	}
	return t
}

// Plugin returns a registered plugin instance.
func (t *Table) Plugin(name string) (*plugin.Instance, bool) { return t.plugins.Get(name) }

// Plugins returns registered plugin names in registration order.
func (t *Table) Plugins() []string { return t.plugins.Names() }

// RemovePlugin destroys one plugin. It fails while another plugin depends
// on it.
func (t *Table) RemovePlugin(name string) error { return t.plugins.Unregister(name) }

// Extend adds a method callable through Call.
func (t *Table) Extend(name string, fn plugin.ExtensionFunc) error {
	return t.plugins.Extensions().Register(extensionOwner, name, fn)
}

// Call invokes an extension method.
func (t *Table) Call(name string, args ...any) (any, error) {
	if t.destroyed {
		return nil, ErrDestroyed
	}
	return t.plugins.Extensions().Call(name, args...)
}

// HasExtension reports whether name was added by Extend or a plugin.
func (t *Table) HasExtension(name string) bool { return t.plugins.Extensions().Has(name) }

// Extensions returns the extension names, sorted.
func (t *Table) Extensions() []string { return t.plugins.Extensions().Names() }

// Snapshot captures a deep copy of the current state.
func (t *Table) Snapshot() state.Snapshot { return t.state.Snapshot() }

// SnapshotFrom captures the rows like Snapshot, sharing every row that is
// unchanged since base.
func (t *Table) SnapshotFrom(base state.Snapshot) state.Snapshot { return t.state.SnapshotFrom(base) }

// Restore reinstalls the rows captured in snap. Sort, filters, paging and
// column layout stay as they are; the view is recomputed and selection
// keeps the ids that still resolve. Generated row ids do not survive a
// restore since the rows are fresh copies.
func (t *Table) Restore(snap state.Snapshot) error {
	if t.destroyed {
		return ErrDestroyed
	}
	if !snap.Valid() {
		return ErrEmptySnapshot
	}
	if t.focus.Editing() {
		t.focus.Cancel()
	}
	rows := snap.Data()
	t.ids.Reset()
	t.index = model.BuildIndex(rows, t.ids)
	t.mutate(func(s *state.State) { s.Data = rows }, state.KeyData)
	t.tracker.Invalidate()
	t.settle()
	return nil
}
