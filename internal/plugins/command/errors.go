package command

import "errors"

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgs        = errors.New("bad arguments")
	ErrNoHandler      = errors.New("no handler")
	ErrInvalid        = errors.New("invalid command")
	// ErrRejected is returned when the grid refused the action, for example
	// sorting a column that is not sortable.
	ErrRejected = errors.New("rejected")
)
