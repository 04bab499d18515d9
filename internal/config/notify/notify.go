// Package notify delivers configuration change notifications to
// subscribers, either for every change or for a path and its children.
package notify

import (
	"sort"
	"strings"
	"sync"
)

// ChangeType is the kind of change.
type ChangeType int

const (
	ChangeSet ChangeType = iota
	ChangeDelete
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes one changed setting. Reload changes carry no path and
// list every changed path in Paths.
type Change struct {
	Path     string
	Type     ChangeType
	OldValue any
	NewValue any
	Paths    []string
	Source   string
}

// Observer receives changes.
type Observer func(Change)

// Subscription is an active observer registration.
type Subscription struct {
	id uint64
	n  *Notifier
}

// Unsubscribe removes the observer. Calling it twice is harmless.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.n != nil {
		s.n.remove(s.id)
	}
}

type entry struct {
	id   uint64
	path string
	fn   Observer
}

// Notifier fans out changes synchronously in subscription order.
type Notifier struct {
	mu      sync.RWMutex
	entries []entry
	nextID  uint64
}

// New creates an empty notifier.
func New() *Notifier { return &Notifier{} }

// Subscribe registers fn for every change.
func (n *Notifier) Subscribe(fn Observer) *Subscription {
	return n.SubscribePath("", fn)
}

// SubscribePath registers fn for changes at path or below it. A reload
// reaches fn when any of its paths matches.
func (n *Notifier) SubscribePath(path string, fn Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	n.entries = append(n.entries, entry{id: n.nextID, path: path, fn: fn})
	return &Subscription{id: n.nextID, n: n}
}

// Notify delivers c to every matching observer outside the lock.
func (n *Notifier) Notify(c Change) {
	n.mu.RLock()
	var targets []Observer
	for _, e := range n.entries {
		if matches(e.path, c) {
			targets = append(targets, e.fn)
		}
	}
	n.mu.RUnlock()

	for _, fn := range targets {
		fn(c)
	}
}

// NotifyReload sends a reload change listing paths.
func (n *Notifier) NotifyReload(source string, paths []string) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	n.Notify(Change{Type: ChangeReload, Paths: sorted, Source: source})
}

// Len returns the number of subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

func (n *Notifier) remove(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, e := range n.entries {
		if e.id == id {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return
		}
	}
}

func matches(sub string, c Change) bool {
	if sub == "" {
		return true
	}
	if c.Type == ChangeReload {
		for _, p := range c.Paths {
			if within(sub, p) {
				return true
			}
		}
		return false
	}
	return within(sub, c.Path)
}

// within reports whether path is sub or a child of it.
func within(sub, path string) bool {
	return path == sub || strings.HasPrefix(path, sub+".")
}
