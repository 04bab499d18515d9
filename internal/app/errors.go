package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoBackend is returned by Run before SetBackend.
	ErrNoBackend = errors.New("no backend set")

	// ErrNoData is returned by New when neither a data file nor generated
	// rows were requested.
	ErrNoData = errors.New("no data source")

	// ErrPluginDisabled is returned when an operation needs a plugin the
	// configuration did not enable.
	ErrPluginDisabled = errors.New("plugin disabled")

	// ErrUnknownPlugin is reported for names in plugins.enabled that match
	// no built-in plugin.
	ErrUnknownPlugin = errors.New("unknown plugin")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
