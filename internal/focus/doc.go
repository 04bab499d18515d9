// Package focus implements the grid's focus and inline-edit state machine.
//
// The controller is in exactly one of three modes:
//
//	Idle -> Focused(pos) -> Editing(pos, original) -> Focused(next | same)
//
// Positions are view coordinates (row position in the view, column position
// among visible columns). The controller also remembers the row and column
// ids so the owner can relocate focus after the view is rebuilt.
package focus
