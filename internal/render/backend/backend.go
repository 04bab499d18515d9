package backend

import (
	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/render/core"
)

// EventType identifies a surface event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventPaste
	EventInterrupt
)

// MouseButton is the button of a mouse event.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Event is a backend-neutral input event.
type Event struct {
	Type EventType

	Key key.Event

	MouseX, MouseY int
	Button         MouseButton

	Width, Height int

	// PasteStart is true at the start of a bracketed paste, false at the end.
	PasteStart bool

	// Data carries the payload of EventInterrupt.
	Data any
}

// Backend is a drawable cell surface with an input queue.
type Backend interface {
	// Init prepares the surface. It must be called before anything else.
	Init() error

	// Shutdown releases the surface and restores the terminal.
	Shutdown()

	// Size returns the surface dimensions in cells.
	Size() (width, height int)

	// SetCell sets one cell. Out-of-range positions are ignored.
	SetCell(x, y int, cell core.Cell)

	// GetCell returns one cell, or an empty cell when out of range.
	GetCell(x, y int) core.Cell

	// Fill sets every cell in rect.
	Fill(rect core.Rect, cell core.Cell)

	// Clear blanks the surface.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// ShowCursor places the text cursor.
	ShowCursor(x, y int)

	// HideCursor hides the text cursor.
	HideCursor()

	// PollEvent blocks until the next event. It returns EventNone after
	// Shutdown.
	PollEvent() Event

	// Interrupt wakes PollEvent with an EventInterrupt carrying data.
	Interrupt(data any)
}

// DrawText writes s at (x, y) clipped to maxWidth cells and returns the
// number of cells used. Wide runes that would straddle the limit are
// dropped.
func DrawText(b Backend, x, y, maxWidth int, s string, style core.Style) int {
	used := 0
	for _, r := range s {
		w := core.RuneWidth(r)
		if used+w > maxWidth {
			break
		}
		b.SetCell(x+used, y, core.Cell{Rune: r, Width: w, Style: style})
		if w == 2 {
			b.SetCell(x+used+1, y, core.Cell{Rune: ' ', Width: 0, Style: style})
		}
		used += w
	}
	return used
}
