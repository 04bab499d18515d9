package backend

import (
	"strings"
	"sync"

	"github.com/dshills/keygrid/internal/render/core"
)

// Memory is an in-memory Backend.
type Memory struct {
	mu            sync.Mutex
	width, height int
	cells         []core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	shows         int
	events        chan Event
	closed        bool
}

// NewMemory creates a memory backend of the given size.
func NewMemory(width, height int) *Memory {
	m := &Memory{events: make(chan Event, 64)}
	m.resize(width, height)
	return m
}

func (m *Memory) Init() error { return nil }

func (m *Memory) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.events)
	}
}

func (m *Memory) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

func (m *Memory) SetCell(x, y int, cell core.Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inBounds(x, y) {
		m.cells[y*m.width+x] = cell
	}
}

func (m *Memory) GetCell(x, y int) core.Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inBounds(x, y) {
		return m.cells[y*m.width+x]
	}
	return core.EmptyCell()
}

func (m *Memory) Fill(rect core.Rect, cell core.Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for y := max(rect.Top, 0); y < rect.Bottom && y < m.height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < m.width; x++ {
			m.cells[y*m.width+x] = cell
		}
	}
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.cells {
		m.cells[i] = core.EmptyCell()
	}
}

func (m *Memory) Show() {
	m.mu.Lock()
	m.shows++
	m.mu.Unlock()
}

func (m *Memory) ShowCursor(x, y int) {
	m.mu.Lock()
	m.cursorX, m.cursorY, m.cursorVisible = x, y, true
	m.mu.Unlock()
}

func (m *Memory) HideCursor() {
	m.mu.Lock()
	m.cursorVisible = false
	m.mu.Unlock()
}

func (m *Memory) PollEvent() Event {
	ev, ok := <-m.events
	if !ok {
		return Event{Type: EventNone}
	}
	return ev
}

func (m *Memory) Interrupt(data any) {
	m.Post(Event{Type: EventInterrupt, Data: data})
}

// Post queues an event for PollEvent. Events posted after Shutdown or to a
// full queue are dropped.
func (m *Memory) Post(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	select {
	case m.events <- ev:
	default:
	}
}

// Resize changes the surface size and queues an EventResize.
func (m *Memory) Resize(width, height int) {
	m.mu.Lock()
	m.resize(width, height)
	m.mu.Unlock()
	m.Post(Event{Type: EventResize, Width: width, Height: height})
}

func (m *Memory) resize(width, height int) {
	m.width, m.height = max(width, 0), max(height, 0)
	m.cells = make([]core.Cell, m.width*m.height)
	for i := range m.cells {
		m.cells[i] = core.EmptyCell()
	}
}

func (m *Memory) inBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Line returns row y as text, skipping continuation cells.
func (m *Memory) Line(y int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if y < 0 || y >= m.height {
		return ""
	}
	var b strings.Builder
	for _, c := range m.cells[y*m.width : (y+1)*m.width] {
		if c.IsContinuation() {
			continue
		}
		b.WriteRune(c.Rune)
	}
	return b.String()
}

// Lines returns every row with trailing spaces trimmed.
func (m *Memory) Lines() []string {
	_, h := m.Size()
	out := make([]string, h)
	for y := range out {
		out[y] = strings.TrimRight(m.Line(y), " ")
	}
	return out
}

// Cursor returns the cursor position and visibility.
func (m *Memory) Cursor() (x, y int, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursorX, m.cursorY, m.cursorVisible
}

// Shows returns how many times Show was called.
func (m *Memory) Shows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows
}
