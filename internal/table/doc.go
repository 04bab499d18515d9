// Package table is the grid facade. It composes the view engine, viewport,
// focus controller, render coordinator, state manager, event bus and plugin
// host behind one imperative API.
//
// A Table is driven from a single goroutine, normally the host's event loop.
// Every mutation runs to completion synchronously: derived state (the view,
// the page, the focus position) is recomputed before state:change is
// emitted and before control returns to the caller. The only deferred work
// is the first render of a data set larger than the loading threshold,
// which is handed to the Scheduler after the loading overlay is shown.
//
// Methods added by plugins are reached through Call; use HasExtension to
// test whether one is present.
package table
