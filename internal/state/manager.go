package state

import (
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/model"
)

// TopicChange is emitted after every non-silent mutation.
const TopicChange topic.Topic = "state:change"

// Change is the payload of TopicChange.
type Change struct {
	Prev State
	Next State
	Keys []Key
}

// Has reports whether key changed.
func (c Change) Has(key Key) bool { return slices.Contains(c.Keys, key) }

// SetOption configures a single Set call.
type SetOption func(*setConfig)

type setConfig struct {
	silent  bool
	touched []Key
}

// Silent suppresses the change event.
func Silent() SetOption {
	return func(c *setConfig) { c.silent = true }
}

// Touch marks keys as changed even when the containers compare equal, for
// in-place row edits that keep the same map objects.
func Touch(keys ...Key) SetOption {
	return func(c *setConfig) { c.touched = append(c.touched, keys...) }
}

// Manager owns the current State.
//
// Mutations are serialized. Change events are emitted after the write lock is
// released, so listeners may read or mutate state again.
type Manager struct {
	mu      sync.RWMutex
	current State

	writeMu sync.Mutex
	bus     *event.Bus
}

// NewManager creates a manager that emits on bus. A nil bus disables events.
func NewManager(bus *event.Bus, initial State) *Manager {
	return &Manager{
		current: initial.copyContainers(),
		bus:     bus,
	}
}

// Get returns the current state. See State for the sharing rules.
func (m *Manager) Get() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set applies fn to a copy of the current state and installs the result.
// fn must not call Set or Batch.
func (m *Manager) Set(fn func(*State), opts ...SetOption) Change {
	var cfg setConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	m.writeMu.Lock()
	prev := m.Get()
	next := prev.copyContainers()
	fn(&next)
	m.install(next)
	m.writeMu.Unlock()

	change := Change{Prev: prev, Next: next, Keys: mergeKeys(diff(prev, next), cfg.touched)}
	if !cfg.silent {
		m.emit(change)
	}
	return change
}

// Tx is a batch of silent writes.
type Tx struct {
	working State
	touched []Key
}

// Get returns the batch's working state.
func (tx *Tx) Get() State { return tx.working }

// Set mutates the working state. Options other than Touch are ignored since
// the whole batch emits once.
func (tx *Tx) Set(fn func(*State), opts ...SetOption) {
	var cfg setConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	next := tx.working.copyContainers()
	fn(&next)
	tx.working = next
	tx.touched = append(tx.touched, cfg.touched...)
}

// Batch runs fn with a transaction and emits exactly one aggregate change
// covering every key any write touched.
func (m *Manager) Batch(fn func(tx *Tx)) Change {
	m.writeMu.Lock()
	prev := m.Get()
	tx := &Tx{working: prev}
	fn(tx)
	m.install(tx.working)
	m.writeMu.Unlock()

	change := Change{Prev: prev, Next: tx.working, Keys: mergeKeys(diff(prev, tx.working), tx.touched)}
	m.emit(change)
	return change
}

func (m *Manager) install(next State) {
	m.mu.Lock()
	m.current = next
	m.mu.Unlock()
}

func (m *Manager) emit(change Change) {
	if m.bus != nil {
		m.bus.Emit(TopicChange, change)
	}
}

func mergeKeys(a, b []Key) []Key {
	out := slices.Clone(a)
	for _, k := range b {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

// Snapshot is a deep copy of the state at one moment.
type Snapshot struct {
	state State
	taken time.Time
	valid bool
}

// Taken returns when the snapshot was captured.
func (s Snapshot) Taken() time.Time { return s.taken }

// Rows returns the snapshot's row count.
func (s Snapshot) Rows() int { return len(s.state.Data) }

// Valid reports whether the snapshot was captured by a Manager.
func (s Snapshot) Valid() bool { return s.valid }

// Data returns a fresh deep copy of the snapshot's rows.
func (s Snapshot) Data() []model.Row {
	return deepCopy(State{Data: s.state.Data}).Data
}

// Snapshot captures a structural deep copy of the current state.
//
// Nested maps and slices inside rows are copied and time values keep their
// type. Funcs, channels and pointers inside rows are shared with the live
// data.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{state: deepCopy(m.Get()), taken: time.Now(), valid: true}
}

// SnapshotFrom is Snapshot for a chain of snapshots. A row still equal to
// its copy in base reuses that copy, so each link costs only the rows that
// changed since base. Snapshot rows are never mutated, which makes the
// sharing safe.
func (m *Manager) SnapshotFrom(base Snapshot) Snapshot {
	if !base.valid {
		return m.Snapshot()
	}
	s := m.Get().copyContainers()
	prev := base.state.Data
	for i, row := range s.Data {
		if i < len(prev) && reflect.DeepEqual(prev[i], row) {
			s.Data[i] = prev[i]
			continue
		}
		s.Data[i] = model.CloneRow(row)
	}
	return Snapshot{state: s, taken: time.Now(), valid: true}
}

// Restore installs a copy of snap and emits a change that always lists
// KeyData. The snapshot stays reusable.
func (m *Manager) Restore(snap Snapshot) (Change, error) {
	if !snap.valid {
		return Change{}, ErrEmptySnapshot
	}
	restored := deepCopy(snap.state)
	return m.Set(func(s *State) { *s = restored }, Touch(KeyData)), nil
}

func deepCopy(s State) State {
	s = s.copyContainers()
	for i, row := range s.Data {
		s.Data[i] = model.CloneRow(row)
	}
	return s
}
