package layer

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrReadOnly is returned when writing to a read-only layer.
var ErrReadOnly = errors.New("layer is read-only")

// ErrNotFound is returned for an unknown layer name.
var ErrNotFound = errors.New("layer not found")

// Manager holds layers sorted by priority and caches their merge.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer
	merged map[string]any
	dirty  bool
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{dirty: true}
}

// Put adds l, replacing any layer with the same name.
func (m *Manager) Put(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.layers {
		if cur.Name == l.Name {
			m.layers[i] = l
			m.sort()
			m.dirty = true
			return
		}
	}
	m.layers = append(m.layers, l)
	m.sort()
	m.dirty = true
}

// Remove drops the named layer and reports whether it existed.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.layers {
		if l.Name == name {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.dirty = true
			return true
		}
	}
	return false
}

// Layer returns a copy of the named layer.
func (m *Manager) Layer(name string) (*Layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l := m.find(name); l != nil {
		return l.Clone(), true
	}
	return nil, false
}

// Names returns layer names in priority order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.layers))
	for i, l := range m.layers {
		names[i] = l.Name
	}
	return names
}

// Merge returns a deep copy of all layers merged lowest priority first.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Clone(m.mergedLocked())
}

func (m *Manager) mergedLocked() map[string]any {
	if m.dirty || m.merged == nil {
		out := make(map[string]any)
		for _, l := range m.layers {
			out = DeepMerge(out, l.Data)
		}
		m.merged = out
		m.dirty = false
	}
	return m.merged
}

// Get returns the effective value at path and the name of the highest
// layer that sets it.
func (m *Manager) Get(path string) (value any, layer string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.layers) - 1; i >= 0; i-- {
		if v, found := GetByPath(m.layers[i].Data, path); found {
			return v, m.layers[i].Name, true
		}
	}
	return nil, "", false
}

// Set writes value at path in the named layer.
func (m *Manager) Set(name, path string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.find(name)
	if l == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if l.ReadOnly {
		return fmt.Errorf("%w: %s", ErrReadOnly, name)
	}
	SetByPath(l.Data, path, value)
	m.dirty = true
	return nil
}

// SetInSession writes value into the session layer, creating it on first
// use.
func (m *Manager) SetInSession(path string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.find(SourceSession.String())
	if l == nil {
		l = New(SourceSession.String(), SourceSession)
		m.layers = append(m.layers, l)
		m.sort()
	}
	SetByPath(l.Data, path, value)
	m.dirty = true
}

// Delete removes path from the named layer.
func (m *Manager) Delete(name, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.find(name)
	if l == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if l.ReadOnly {
		return fmt.Errorf("%w: %s", ErrReadOnly, name)
	}
	if DeleteByPath(l.Data, path) {
		m.dirty = true
	}
	return nil
}

func (m *Manager) find(name string) *Layer {
	for _, l := range m.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// sort keeps insertion order among equal priorities.
func (m *Manager) sort() {
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
}
