package state

import "errors"

// ErrEmptySnapshot is returned when restoring a zero Snapshot.
var ErrEmptySnapshot = errors.New("state: empty snapshot")
