// Package render draws the grid onto a backend surface in passes.
//
// A cycle runs render:before, then the header, body and footer passes, then
// the overlay, then render:after. Every pass except the overlay emits an
// interceptable event first; cancelling render:before aborts the cycle and
// cancelling a pass event skips that pass only. Passes regenerate their area
// from the frame rather than patching it. The body pass is skipped when the
// viewport tracker reports the same window and no forced redraw.
package render
