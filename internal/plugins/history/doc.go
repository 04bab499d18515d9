// Package history is an undo/redo plugin for the grid.
//
// It keeps a bounded stack of state snapshots. A snapshot of the rows is
// pushed whenever a cell edit commits or a row is updated programmatically.
// Each snapshot shares unchanged rows with the one before it. Undo and
// redo restore the rows through the table's Restore. Several
// mutations can be grouped into one undo step with the historyBatch
// extension. Replacing the data set with SetData clears the history.
//
// Register it with Use:
//
//	t.MustUse(history.New(), plugin.Options{"limit": 50})
//
// Options:
//
//	limit  maximum undo depth (default 100)
//	keys   bind Ctrl+Z and Ctrl+Y (default true)
package history
