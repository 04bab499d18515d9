package focus

import (
	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/logging"
	"github.com/dshills/keygrid/internal/model"
)

// Controller owns focus and edit state for one grid.
//
// It is not safe for concurrent use; the grid drives it from its event loop.
type Controller struct {
	grid     Grid
	bus      *event.Bus
	logger   *logging.Logger
	onChange func()

	mode     Mode
	pos      Position
	rowID    string
	columnID string

	original any
	input    []rune
	cursor   int
	checked  bool
	invalid  bool
}

// New creates an idle controller over grid.
func New(grid Grid, opts ...Option) *Controller {
	c := &Controller{grid: grid, logger: logging.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode { return c.mode }

// Position returns the focused cell. ok is false when idle.
func (c *Controller) Position() (pos Position, ok bool) {
	return c.pos, c.mode != Idle
}

// Cell returns the ids of the focused cell.
func (c *Controller) Cell() (rowID, columnID string, ok bool) {
	return c.rowID, c.columnID, c.mode != Idle
}

// Editing reports whether an edit is in progress.
func (c *Controller) Editing() bool { return c.mode == Editing }

// IsEditing reports whether pos is the cell being edited.
func (c *Controller) IsEditing(pos Position) bool {
	return c.mode == Editing && c.pos == pos
}

// Input returns the pending edit text.
func (c *Controller) Input() string { return string(c.input) }

// Cursor returns the rune offset of the edit cursor.
func (c *Controller) Cursor() int { return c.cursor }

// Checked returns the pending checkbox state for boolean columns.
func (c *Controller) Checked() bool { return c.checked }

// Invalid reports whether the last commit was rejected by a validator.
func (c *Controller) Invalid() bool { return c.invalid }

// Original returns the value the cell had when editing started.
func (c *Controller) Original() any { return c.original }

// Focus moves focus to pos, committing any edit in place first. It reports
// false when pos is out of range or a pending edit failed validation.
func (c *Controller) Focus(pos Position) bool {
	if !c.inBounds(pos) {
		return false
	}
	if c.mode == Editing && !c.Commit(Blur) {
		return false
	}
	c.setFocus(pos)
	return true
}

// Click applies mouse semantics: a click on the focused cell starts an edit,
// a click elsewhere moves focus.
func (c *Controller) Click(pos Position) bool {
	if c.mode == Focused && c.pos == pos {
		return c.StartEdit(pos)
	}
	if c.mode == Editing && c.pos == pos {
		return true
	}
	return c.Focus(pos)
}

// StartEdit begins editing pos. A different edit in progress is committed
// first; if that commit is rejected the new edit does not start.
func (c *Controller) StartEdit(pos Position) bool {
	if !c.inBounds(pos) || !c.grid.Editable(pos.Col) {
		return false
	}
	if c.mode == Editing {
		if c.pos == pos {
			return true
		}
		if !c.Commit(Blur) {
			return false
		}
	}

	c.pos = pos
	c.rowID = c.grid.RowID(pos.Row)
	c.columnID = c.columnIDAt(pos.Col)
	c.original = c.grid.Value(pos.Row, pos.Col)
	c.setInput(model.Stringify(c.original))
	c.checked, _ = model.Coerce(model.TypeBoolean, c.original).(bool)
	c.invalid = false
	c.mode = Editing

	c.grid.EnsureVisible(pos.Row)
	c.emit(TopicEditStart, EditEvent{
		RowID:    c.rowID,
		ColumnID: c.columnID,
		Position: pos,
		OldValue: c.original,
	})
	c.changed()
	return true
}

// SetInput replaces the pending edit text.
func (c *Controller) SetInput(text string) {
	if c.mode != Editing {
		return
	}
	c.setInput(text)
	c.changed()
}

// SetChecked sets the pending checkbox state.
func (c *Controller) SetChecked(v bool) {
	if c.mode != Editing {
		return
	}
	c.checked = v
	c.changed()
}

// Commit ends the edit: coerce, validate, write through, notify, move.
// A validator rejection keeps the controller editing, marks the input
// invalid and returns false. Commit with nothing to commit returns true.
func (c *Controller) Commit(trigger Trigger) bool {
	if c.mode != Editing {
		return true
	}
	col, ok := c.grid.ColumnAt(c.pos.Col)
	if !ok {
		c.abandon()
		return true
	}

	var raw any = string(c.input)
	if col.Type == model.TypeBoolean {
		raw = c.checked
	}
	newValue := model.Coerce(col.Type, raw)

	if col.Validate != nil && !c.validate(col, newValue) {
		c.invalid = true
		c.changed()
		return false
	}

	old := c.original
	c.grid.Write(c.pos.Row, c.pos.Col, newValue)
	edited := EditEvent{
		RowID:    c.rowID,
		ColumnID: c.columnID,
		Position: c.pos,
		OldValue: old,
		NewValue: newValue,
	}
	c.clearEdit()
	c.mode = Focused

	c.emit(TopicEdit, edited)
	edited.Committed = true
	c.emit(TopicEditEnd, edited)

	c.move(trigger)
	c.changed()
	return true
}

func (c *Controller) validate(col model.Column, newValue any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("validator for %s panicked: %v", col.ID, r)
			ok = false
		}
	}()
	return col.Validate(newValue, c.original, c.rowID)
}

// Cancel discards the pending input and returns to Focused on the same
// cell without touching data.
func (c *Controller) Cancel() {
	if c.mode != Editing {
		return
	}
	ev := EditEvent{
		RowID:    c.rowID,
		ColumnID: c.columnID,
		Position: c.pos,
		OldValue: c.original,
		NewValue: c.original,
	}
	c.clearEdit()
	c.mode = Focused
	c.emit(TopicEditCancel, ev)
	c.emit(TopicEditEnd, ev)
	c.changed()
}

// Blur commits any edit in place and clears focus. It reports false when
// the commit was rejected.
func (c *Controller) Blur() bool {
	if !c.Commit(Blur) {
		return false
	}
	c.Reset()
	return true
}

// Reset drops focus and any pending edit without committing. Used when the
// data set is replaced.
func (c *Controller) Reset() {
	if c.mode == Idle {
		return
	}
	c.clearEdit()
	c.mode = Idle
	c.pos = Position{}
	c.rowID, c.columnID = "", ""
	c.changed()
}

// Relocate re-resolves the focused cell after the view or column layout
// changed. rowPos maps a row id to its view position; colPos maps a column
// id to its visible position. When the focused row or column left, focus
// falls back to the nearest remaining cell and an edit in progress is
// cancelled. An empty grid resets the controller.
func (c *Controller) Relocate(rowPos func(id string) (int, bool), colPos func(id string) (int, bool)) {
	if c.mode == Idle {
		return
	}
	row, rowOK := rowPos(c.rowID)
	col, colOK := colPos(c.columnID)
	if rowOK && colOK {
		if row == c.pos.Row && col == c.pos.Col {
			return
		}
		c.pos = Position{Row: row, Col: col}
		c.changed()
		return
	}

	if c.mode == Editing {
		c.Cancel()
	}
	if c.grid.RowCount() == 0 || c.grid.ColumnCount() == 0 {
		c.Reset()
		return
	}
	fallback := c.pos
	if rowOK {
		fallback.Row = row
	}
	if colOK {
		fallback.Col = col
	}
	c.setFocus(c.clamp(fallback))
}

func (c *Controller) setFocus(pos Position) {
	c.pos = pos
	c.rowID = c.grid.RowID(pos.Row)
	c.columnID = c.columnIDAt(pos.Col)
	if c.mode != Editing {
		c.mode = Focused
	}
	c.grid.EnsureVisible(pos.Row)
	c.emit(TopicFocus, FocusEvent{
		RowID:    c.rowID,
		ColumnID: c.columnID,
		Position: pos,
		Mode:     c.mode,
	})
	c.changed()
}

// move places focus after a commit.
func (c *Controller) move(trigger Trigger) {
	switch trigger {
	case Enter:
		c.setFocus(c.clamp(Position{Row: c.pos.Row + 1, Col: c.pos.Col}))
	case Tab:
		c.setFocus(c.next(c.pos))
	case ShiftTab:
		c.setFocus(c.prev(c.pos))
	default:
		c.setFocus(c.pos)
	}
}

func (c *Controller) next(p Position) Position {
	cols := c.grid.ColumnCount()
	if p.Col+1 < cols {
		return Position{Row: p.Row, Col: p.Col + 1}
	}
	if p.Row+1 < c.grid.RowCount() {
		return Position{Row: p.Row + 1, Col: 0}
	}
	return p
}

func (c *Controller) prev(p Position) Position {
	if p.Col > 0 {
		return Position{Row: p.Row, Col: p.Col - 1}
	}
	if p.Row > 0 {
		return Position{Row: p.Row - 1, Col: c.grid.ColumnCount() - 1}
	}
	return p
}

func (c *Controller) clamp(p Position) Position {
	rows, cols := c.grid.RowCount(), c.grid.ColumnCount()
	p.Row = min(max(p.Row, 0), max(rows-1, 0))
	p.Col = min(max(p.Col, 0), max(cols-1, 0))
	return p
}

func (c *Controller) inBounds(p Position) bool {
	return p.Row >= 0 && p.Row < c.grid.RowCount() && p.Col >= 0 && p.Col < c.grid.ColumnCount()
}

func (c *Controller) columnIDAt(col int) string {
	if column, ok := c.grid.ColumnAt(col); ok {
		return column.ID
	}
	return ""
}

func (c *Controller) setInput(text string) {
	c.input = []rune(text)
	c.cursor = len(c.input)
}

func (c *Controller) clearEdit() {
	c.original = nil
	c.input = nil
	c.cursor = 0
	c.checked = false
	c.invalid = false
}

// abandon leaves editing when the column vanished under the edit.
func (c *Controller) abandon() {
	c.clearEdit()
	c.mode = Focused
	c.changed()
}

func (c *Controller) emit(t topic.Topic, payload any) {
	if c.bus != nil {
		c.bus.Emit(t, payload)
	}
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
