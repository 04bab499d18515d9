package export

import "errors"

var (
	ErrUnknownFormat = errors.New("export: unknown format")
	ErrUnknownScope  = errors.New("export: unknown scope")
	ErrBinaryFormat  = errors.New("export: format can only be written to a file")
	ErrCancelled     = errors.New("export: cancelled")
)
