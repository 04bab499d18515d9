package focus

import (
	"slices"

	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/model"
)

// HandleKey applies a key press and reports whether it was consumed.
func (c *Controller) HandleKey(ev key.Event) bool {
	switch c.mode {
	case Editing:
		return c.editKey(ev)
	case Focused:
		return c.focusedKey(ev)
	default:
		if ev.Key.IsNavigation() && c.grid.RowCount() > 0 && c.grid.ColumnCount() > 0 {
			return c.Focus(Position{})
		}
		return false
	}
}

func (c *Controller) focusedKey(ev key.Event) bool {
	p := c.pos
	ctrl := ev.Modifiers.HasCtrl()
	lastRow, lastCol := c.grid.RowCount()-1, c.grid.ColumnCount()-1

	switch ev.Key {
	case key.KeyUp:
		return c.moveTo(Position{Row: p.Row - 1, Col: p.Col})
	case key.KeyDown:
		return c.moveTo(Position{Row: p.Row + 1, Col: p.Col})
	case key.KeyLeft:
		return c.moveTo(Position{Row: p.Row, Col: p.Col - 1})
	case key.KeyRight:
		return c.moveTo(Position{Row: p.Row, Col: p.Col + 1})
	case key.KeyHome:
		if ctrl {
			return c.moveTo(Position{Row: 0, Col: 0})
		}
		return c.moveTo(Position{Row: p.Row, Col: 0})
	case key.KeyEnd:
		if ctrl {
			return c.moveTo(Position{Row: lastRow, Col: lastCol})
		}
		return c.moveTo(Position{Row: p.Row, Col: lastCol})
	case key.KeyPageUp:
		return c.moveTo(Position{Row: p.Row - c.grid.PageRows(), Col: p.Col})
	case key.KeyPageDown:
		return c.moveTo(Position{Row: p.Row + c.grid.PageRows(), Col: p.Col})
	case key.KeyTab:
		if ev.Modifiers.HasShift() {
			return c.moveTo(c.prev(p))
		}
		return c.moveTo(c.next(p))
	case key.KeyEnter, key.KeyF2:
		return c.StartEdit(p)
	case key.KeyEscape:
		c.Reset()
		return true
	case key.KeySpace:
		return c.grid.ToggleSelection(p.Row)
	case key.KeyRune:
		if !ev.IsChar() || !c.grid.Editable(p.Col) {
			return false
		}
		if !c.StartEdit(p) {
			return false
		}
		if col, ok := c.grid.ColumnAt(p.Col); ok && col.Type == model.TypeBoolean {
			return true
		}
		c.SetInput(string(ev.Char()))
		return true
	}
	return false
}

func (c *Controller) moveTo(p Position) bool {
	if c.grid.RowCount() == 0 || c.grid.ColumnCount() == 0 {
		return false
	}
	p = c.clamp(p)
	if p == c.pos {
		c.grid.EnsureVisible(p.Row)
		return true
	}
	c.setFocus(p)
	return true
}

func (c *Controller) editKey(ev key.Event) bool {
	col, _ := c.grid.ColumnAt(c.pos.Col)
	boolean := col.Type == model.TypeBoolean

	switch ev.Key {
	case key.KeyEscape:
		c.Cancel()
		return true
	case key.KeyEnter:
		c.Commit(Enter)
		return true
	case key.KeyTab:
		if ev.Modifiers.HasShift() {
			c.Commit(ShiftTab)
		} else {
			c.Commit(Tab)
		}
		return true
	}

	if boolean {
		if ev.Key == key.KeySpace || (ev.Key == key.KeyRune && ev.Rune == ' ') {
			c.SetChecked(!c.checked)
			return true
		}
		return true
	}

	switch ev.Key {
	case key.KeyBackspace:
		if c.cursor > 0 {
			c.input = slices.Delete(c.input, c.cursor-1, c.cursor)
			c.cursor--
			c.afterInput()
		}
	case key.KeyDelete:
		if c.cursor < len(c.input) {
			c.input = slices.Delete(c.input, c.cursor, c.cursor+1)
			c.afterInput()
		}
	case key.KeyLeft:
		c.cursor = max(c.cursor-1, 0)
		c.changed()
	case key.KeyRight:
		c.cursor = min(c.cursor+1, len(c.input))
		c.changed()
	case key.KeyHome:
		c.cursor = 0
		c.changed()
	case key.KeyEnd:
		c.cursor = len(c.input)
		c.changed()
	default:
		if !ev.IsChar() {
			return false
		}
		c.input = slices.Insert(c.input, c.cursor, ev.Char())
		c.cursor++
		c.afterInput()
	}
	return true
}

func (c *Controller) afterInput() {
	c.invalid = false
	c.changed()
}
