package input

import (
	"fmt"

	"github.com/dshills/keygrid/internal/input/key"
)

// Action runs when a binding matches. Returning false lets the event fall
// through to lower-priority bindings and the grid.
type Action func(ev key.Event) bool

// Binding maps a key chord to an action.
type Binding struct {
	// Keys is the chord, e.g. "Ctrl+Z".
	Keys string

	// Owner groups bindings for bulk removal, usually a plugin name.
	Owner string

	// Description is shown by the command palette.
	Description string

	// Priority orders matching bindings; higher runs first. Equal
	// priorities run in registration order.
	Priority int

	Action Action
}

type parsedBinding struct {
	Binding
	id    uint64
	chord key.Event
}

func parseBinding(b Binding, id uint64) (*parsedBinding, error) {
	if b.Action == nil {
		return nil, fmt.Errorf("%w: %q has no action", ErrInvalidBinding, b.Keys)
	}
	chord, err := key.Parse(b.Keys)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBinding, err)
	}
	return &parsedBinding{Binding: b, id: id, chord: chord}, nil
}
