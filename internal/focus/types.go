package focus

import (
	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/model"
)

// Mode is the controller state.
type Mode uint8

const (
	Idle Mode = iota
	Focused
	Editing
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Focused:
		return "focused"
	case Editing:
		return "editing"
	default:
		return "idle"
	}
}

// Position is a cell in view coordinates.
type Position struct {
	Row int
	Col int
}

// Trigger says what ended an edit; it decides where focus goes next.
type Trigger uint8

const (
	// Blur commits in place.
	Blur Trigger = iota
	// Enter commits and moves down the same column.
	Enter
	// Tab commits and moves right, wrapping to the next row.
	Tab
	// ShiftTab commits and moves left, wrapping to the previous row.
	ShiftTab
)

// Event topics emitted by the controller.
const (
	TopicEditStart  topic.Topic = "cell:edit:start"
	TopicEdit       topic.Topic = "cell:edit"
	TopicEditEnd    topic.Topic = "cell:edit:end"
	TopicEditCancel topic.Topic = "cell:edit:cancel"
	TopicFocus      topic.Topic = "cell:focus"
)

// EditEvent is the payload of the cell:edit* topics.
type EditEvent struct {
	RowID    string
	ColumnID string
	Position Position
	OldValue any
	NewValue any
	// Committed is set on cell:edit:end when the value was written.
	Committed bool
}

// FocusEvent is the payload of cell:focus.
type FocusEvent struct {
	RowID    string
	ColumnID string
	Position Position
	Mode     Mode
}

// Grid is what the controller needs from its owner.
type Grid interface {
	// RowCount is the view length.
	RowCount() int
	// ColumnCount is the number of visible columns.
	ColumnCount() int
	// ColumnAt returns the visible column at col.
	ColumnAt(col int) (model.Column, bool)
	// RowID returns the stable id of the row at view position row.
	RowID(row int) string
	// Value reads the cell.
	Value(row, col int) any
	// Write stores value in the backing row in place.
	Write(row, col int, value any)
	// Editable resolves the column flag, allowlist and global setting.
	Editable(col int) bool
	// ToggleSelection toggles the row's selection. It reports false when
	// selection is disabled.
	ToggleSelection(row int) bool
	// EnsureVisible scrolls the minimum amount to show row.
	EnsureVisible(row int)
	// PageRows is the number of rows that fit in the viewport.
	PageRows() int
}
