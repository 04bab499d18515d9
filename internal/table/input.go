package table

import (
	"github.com/dshills/keygrid/internal/focus"
	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/render"
	"github.com/dshills/keygrid/internal/render/backend"
)

// WheelLines is how far one wheel notch scrolls.
const WheelLines = 3

// HandleKey routes a key press. An open editor sees keys before plugin
// bindings; otherwise bindings run first and the grid gets what they leave.
func (t *Table) HandleKey(ev key.Event) bool {
	if t.destroyed {
		return false
	}
	var consumed bool
	if t.focus.Editing() {
		consumed = t.focus.HandleKey(ev) || t.input.Dispatch(ev)
	} else {
		consumed = t.input.Dispatch(ev) || t.focus.HandleKey(ev)
	}
	if consumed {
		t.settle()
	}
	return consumed
}

// HandleClick applies a left click at screen cell (x, y). A header click
// toggles that column's sort; a body click focuses, and a second click on
// the focused cell edits.
func (t *Table) HandleClick(x, y int) bool {
	if t.destroyed {
		return false
	}
	hit := t.renderer.HitTest(x, y)
	switch hit.Area {
	case render.AreaHeader:
		cols := t.VisibleColumns()
		if hit.Col < 0 || hit.Col >= len(cols) {
			return false
		}
		return t.ToggleSort(cols[hit.Col].ID)
	case render.AreaBody:
		if hit.ViewPos < 0 || hit.Col < 0 {
			return false
		}
		ok := t.focus.Click(focus.Position{Row: hit.ViewPos, Col: hit.Col})
		t.settle()
		return ok
	}
	return false
}

// Resize adapts the viewport to the backend's current size.
func (t *Table) Resize() {
	if t.destroyed {
		return
	}
	t.viewport.SetHeight(t.renderer.BodyHeight())
	t.viewport.Clamp(len(t.page(t.state.Get())))
	t.syncScroll()
	t.Render()
}

// HandleEvent dispatches a backend event and reports whether it changed
// anything.
func (t *Table) HandleEvent(ev backend.Event) bool {
	switch ev.Type {
	case backend.EventKey:
		return t.HandleKey(ev.Key)
	case backend.EventMouse:
		switch ev.Button {
		case backend.MouseLeft:
			return t.HandleClick(ev.MouseX, ev.MouseY)
		case backend.MouseWheelUp:
			t.ScrollBy(-WheelLines)
			return true
		case backend.MouseWheelDown:
			t.ScrollBy(WheelLines)
			return true
		}
	case backend.EventResize:
		t.Resize()
		return true
	}
	return false
}
