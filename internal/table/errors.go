package table

import "errors"

var (
	// ErrNoBackend is returned by New without a drawing surface.
	ErrNoBackend = errors.New("table: no backend")

	// ErrDestroyed is returned by operations on a destroyed table.
	ErrDestroyed = errors.New("table: destroyed")

	// ErrEmptySnapshot is returned when restoring a zero snapshot.
	ErrEmptySnapshot = errors.New("table: empty snapshot")
)
