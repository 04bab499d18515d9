package input

import "errors"

// ErrInvalidBinding is returned for unparsable or action-less bindings.
var ErrInvalidBinding = errors.New("input: invalid binding")
