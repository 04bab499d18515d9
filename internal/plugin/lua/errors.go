package lua

import "errors"

// Lua runtime errors.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a call exceeds its timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoDefinition is returned when a script does not return a table.
	ErrNoDefinition = errors.New("lua plugin did not return a definition table")
)
