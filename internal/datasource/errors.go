package datasource

import "errors"

var (
	ErrUnsupported = errors.New("datasource: unsupported format")
	ErrInvalidJSON = errors.New("datasource: invalid json")
	ErrNotRows     = errors.New("datasource: not a list of records")
	ErrNoHeader    = errors.New("datasource: missing header row")
)
