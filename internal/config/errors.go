package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValue marks a setting whose value has the wrong type or is
	// out of range.
	ErrInvalidValue = errors.New("invalid value")

	// ErrNotLoaded is returned by Reload before Load.
	ErrNotLoaded = errors.New("config not loaded")
)

// ConfigError reports a bad setting.
type ConfigError struct {
	Path  string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s = %v: %v", e.Path, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func invalid(path string, value any, format string, args ...any) error {
	return &ConfigError{
		Path:  path,
		Value: value,
		Err:   fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...)),
	}
}
