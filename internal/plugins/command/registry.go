package command

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry holds commands and ranks them for search.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	recent   *recent
}

// NewRegistry creates an empty registry remembering up to historySize
// recently run commands.
func NewRegistry(historySize int) *Registry {
	return &Registry{commands: make(map[string]*Command), recent: newRecent(historySize)}
}

// Register adds cmd, replacing any command with the same id.
func (r *Registry) Register(cmd *Command) error {
	switch {
	case cmd == nil:
		return fmt.Errorf("%w: nil", ErrInvalid)
	case cmd.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalid)
	case strings.ContainsAny(cmd.ID, " \t"):
		return fmt.Errorf("%w: id %q contains spaces", ErrInvalid, cmd.ID)
	}
	if cmd.Title == "" {
		cmd.Title = cmd.ID
	}
	r.mu.Lock()
	r.commands[cmd.ID] = cmd
	r.mu.Unlock()
	return nil
}

// Unregister removes a command.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.commands[id]; !ok {
		return false
	}
	delete(r.commands, id)
	r.recent.remove(id)
	return true
}

// UnregisterSource removes every command from source.
func (r *Registry) UnregisterSource(source string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, c := range r.commands {
		if c.Source == source {
			delete(r.commands, id)
			r.recent.remove(id)
			n++
		}
	}
	return n
}

// Get returns a command by id.
func (r *Registry) Get(id string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[id]
	return c, ok
}

// All returns the commands ordered by title.
func (r *Registry) All() []*Command {
	r.mu.RLock()
	out := make([]*Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, byTitle)
	return out
}

// Len returns the number of commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Categories returns the distinct categories, sorted.
func (r *Registry) Categories() []string {
	var out []string
	for _, c := range r.All() {
		if c.Category != "" && !slices.Contains(out, c.Category) {
			out = append(out, c.Category)
		}
	}
	slices.Sort(out)
	return out
}

// Search ranks commands against query. An empty query lists recently run
// commands first, then the rest by title. Recent commands also get a boost
// on fuzzy hits. limit <= 0 means no limit.
func (r *Registry) Search(query string, limit int) []Result {
	all := r.All()
	query = strings.ToLower(strings.TrimSpace(query))

	r.mu.RLock()
	results := make([]Result, 0, len(all))
	for _, c := range all {
		pos := r.recent.position(c.ID)
		if query == "" {
			s := 0
			if pos >= 0 {
				s = 1000 - pos
			}
			results = append(results, Result{Command: c, Score: s})
			continue
		}
		s, m := score(query, c)
		if s == 0 {
			continue
		}
		if pos >= 0 {
			s += 100 - pos
		}
		results = append(results, Result{Command: c, Score: s, Matches: m})
	}
	r.mu.RUnlock()

	slices.SortStableFunc(results, func(a, b Result) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return byTitle(a.Command, b.Command)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Execute runs a command and records it as recent when it succeeds.
func (r *Registry) Execute(id string, args map[string]any) error {
	c, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, id)
	}
	if err := c.Execute(args); err != nil {
		return err
	}
	r.mu.Lock()
	r.recent.add(id)
	r.mu.Unlock()
	return nil
}

// Recent returns up to limit recently run command ids, newest first.
func (r *Registry) Recent(limit int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.recent.list(limit)
}

func byTitle(a, b *Command) int {
	if c := cmp.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
