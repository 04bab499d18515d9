package plugin

import (
	"errors"
	"fmt"
)

// Plugin host errors.
var (
	// ErrInvalidPlugin is returned when a value is not a recognized plugin shape.
	ErrInvalidPlugin = errors.New("invalid plugin")

	// ErrMissingName is returned when a plugin has no name.
	ErrMissingName = errors.New("plugin has no name")

	// ErrMissingInit is returned when a plugin definition has no init function.
	ErrMissingInit = errors.New("plugin has no init function")

	// ErrDependencyNotFound is returned when a declared dependency is not registered.
	ErrDependencyNotFound = errors.New("plugin dependency not found")

	// ErrHasDependents is returned when unregistering a plugin others depend on.
	ErrHasDependents = errors.New("plugin has dependents")

	// ErrPluginNotFound is returned when a named plugin is not registered.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrExtensionExists is returned when an extension name is owned by another plugin.
	ErrExtensionExists = errors.New("extension already registered")

	// ErrNoExtension is returned when calling an unknown extension.
	ErrNoExtension = errors.New("no such extension")

	// ErrBadArgument is returned by extension argument helpers.
	ErrBadArgument = errors.New("bad extension argument")
)

// Error records the plugin and lifecycle step that failed.
type Error struct {
	Plugin string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e.Plugin == "" {
		return fmt.Sprintf("plugin %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("plugin %q %s: %v", e.Plugin, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
