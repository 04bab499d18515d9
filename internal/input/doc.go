// Package input routes key events to the grid and to plugins.
//
// Each table owns one Service. Plugins request key bindings through it
// instead of listening on a shared global source, so two tables in one
// process never see each other's keys.
package input
