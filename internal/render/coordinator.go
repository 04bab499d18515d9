package render

import (
	"fmt"
	"strings"

	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/logging"
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/render/backend"
	"github.com/dshills/keygrid/internal/render/core"
	"github.com/dshills/keygrid/internal/state"
	"github.com/dshills/keygrid/internal/viewport"
)

// Render topics.
const (
	TopicBefore topic.Topic = "render:before"
	TopicHeader topic.Topic = "render:header"
	TopicBody   topic.Topic = "render:body"
	TopicFooter topic.Topic = "render:footer"
	TopicAfter  topic.Topic = "render:after"
)

// PassEvent is the payload of the pass topics. Interceptors may draw into
// Area themselves before cancelling the default pass.
type PassEvent struct {
	Frame *Frame
	Area  core.Rect
}

// Placeholder is shown when the view is empty.
const Placeholder = "No rows"

var spinnerFrames = []string{"|", "/", "-", "\\"}

// Coordinator runs render cycles against a backend.
type Coordinator struct {
	backend backend.Backend
	bus     *event.Bus
	tracker *viewport.Tracker
	theme   Theme
	logger  *logging.Logger

	layout  Layout
	spans   []ColumnSpan
	rowAtY  map[int]int
	painted viewport.Range
	spinner int
	cycles  uint64
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTheme sets the theme.
func WithTheme(t Theme) Option {
	return func(c *Coordinator) { c.theme = t }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l.WithComponent("render")
		}
	}
}

// WithTracker shares a tracker with the owner, which invalidates it on
// mutations.
func WithTracker(t *viewport.Tracker) Option {
	return func(c *Coordinator) { c.tracker = t }
}

// New creates a coordinator drawing on b and emitting on bus.
func New(b backend.Backend, bus *event.Bus, opts ...Option) *Coordinator {
	c := &Coordinator{
		backend: b,
		bus:     bus,
		tracker: viewport.NewTracker(),
		theme:   DefaultTheme(),
		logger:  logging.Nop(),
		rowAtY:  make(map[int]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tracker returns the viewport tracker.
func (c *Coordinator) Tracker() *viewport.Tracker { return c.tracker }

// SetTheme replaces the theme. The next cycle repaints every band.
func (c *Coordinator) SetTheme(t Theme) {
	c.theme = t
	c.tracker.Invalidate()
}

// Theme returns the current theme.
func (c *Coordinator) Theme() Theme { return c.theme }

// Layout returns the bands used by the last cycle.
func (c *Coordinator) Layout() Layout { return c.layout }

// BodyHeight returns the number of body lines for the current surface size.
func (c *Coordinator) BodyHeight() int {
	w, h := c.backend.Size()
	return ComputeLayout(w, h).Body.Height()
}

// Cycles returns how many cycles ran to completion.
func (c *Coordinator) Cycles() uint64 { return c.cycles }

// Render runs one cycle.
func (c *Coordinator) Render(f *Frame) Report {
	var rep Report
	if c.emit(TopicBefore, f).Cancelled {
		rep.Cancelled = true
		return rep
	}

	w, h := c.backend.Size()
	layout := ComputeLayout(w, h)
	if layout != c.layout {
		c.tracker.Invalidate()
		c.layout = layout
	}
	c.spans = columnSpans(f.Columns, w)
	if f.Force {
		c.tracker.Invalidate()
	}

	if !c.emit(TopicHeader, &PassEvent{Frame: f, Area: layout.Header}).Cancelled {
		c.drawHeader(f, layout.Header)
		rep.Header = true
	}

	if !c.emit(TopicBody, &PassEvent{Frame: f, Area: layout.Body}).Cancelled {
		patch, rebuilt := c.drawBody(f, layout.Body)
		rep.Patch = patch
		rep.Body = rebuilt
		rep.BodySkipped = !rebuilt
	}

	if !layout.Footer.Empty() && !c.emit(TopicFooter, &PassEvent{Frame: f, Area: layout.Footer}).Cancelled {
		c.drawFooter(f, layout.Footer)
		rep.Footer = true
	}

	rep.Overlay = c.drawOverlay(f, layout.Body)
	c.placeCursor(f)
	c.backend.Show()
	c.cycles++

	c.emit(TopicAfter, rep)
	return rep
}

// HitTest maps a screen position to a grid area, view position and column.
func (c *Coordinator) HitTest(x, y int) Hit {
	col := -1
	for _, s := range c.spans {
		if x >= s.Left && x < s.Left+s.Width {
			col = s.Col
			break
		}
	}
	switch {
	case c.layout.Header.Contains(x, y):
		return Hit{Area: AreaHeader, ViewPos: -1, Col: col}
	case c.layout.Body.Contains(x, y):
		pos, ok := c.rowAtY[y]
		if !ok {
			pos = -1
		}
		return Hit{Area: AreaBody, ViewPos: pos, Col: col}
	case c.layout.Footer.Contains(x, y):
		return Hit{Area: AreaFooter, ViewPos: -1, Col: col}
	}
	return Hit{Area: AreaNone, ViewPos: -1, Col: -1}
}

func (c *Coordinator) emit(t topic.Topic, payload any) event.Result {
	if c.bus == nil {
		return event.Result{Payload: payload}
	}
	return c.bus.Emit(t, payload)
}

func (c *Coordinator) drawHeader(f *Frame, area core.Rect) {
	if area.Empty() {
		return
	}
	c.backend.Fill(area, core.NewCell(' ', c.theme.Header))
	for _, s := range c.spans {
		col := f.Columns[s.Col].Column
		label := col.Header
		if f.Sort.Active() && f.Sort.Column == col.ID {
			if f.Sort.Direction == state.Desc {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		if f.ColumnFilters[col.ID] != "" {
			label += " *"
		}
		backend.DrawText(c.backend, s.Left, area.Top, s.Width, core.Fit(label, s.Width, "…"), c.theme.Header)
	}
}

// drawBody resolves the window, slices the view and draws each visible row.
func (c *Coordinator) drawBody(f *Frame, area core.Rect) (*BodyPatch, bool) {
	vp := f.Viewport
	if vp == nil {
		vp = viewport.New(area.Height(), 1)
	}
	window := vp.Range(f.ViewLength)
	visible := vp.Visible(f.ViewLength)
	// Only the visible band is painted, so a scroll inside a clamped
	// window still needs a rebuild.
	if visible != c.painted {
		c.tracker.Invalidate()
	}
	if !c.tracker.ShouldRender(window) {
		return nil, false
	}
	c.painted = visible

	c.backend.Fill(area, core.NewCell(' ', c.theme.Row))
	clear(c.rowAtY)
	patch := &BodyPatch{Range: window}

	if f.ViewLength == 0 || len(f.Columns) == 0 {
		patch.Placeholder = true
		if !area.Empty() {
			text := core.Fit(Placeholder, area.Width(), "…")
			backend.DrawText(c.backend, area.Left, area.Top, area.Width(), text, c.theme.Placeholder)
		}
		return patch, true
	}

	for pos := window.Start; pos < window.End; pos++ {
		row, id := f.Row(pos)
		y := -1
		if visible.Contains(pos) {
			y = area.Top + (pos - visible.Start)
			if y >= area.Bottom {
				y = -1
			}
		}
		patch.Rows = append(patch.Rows, RenderedRow{Key: id, ViewPos: pos, Y: y})
		if y < 0 {
			continue
		}
		c.rowAtY[y] = pos
		c.drawRow(f, pos, y, row, id)
	}
	return patch, true
}

func (c *Coordinator) drawRow(f *Frame, pos, y int, row model.Row, id string) {
	rowStyle := c.theme.Row
	if (pos+f.PageOffset)%2 == 1 {
		rowStyle = c.theme.RowAlt
	}
	if f.Selected != nil && f.Selected(id) {
		rowStyle = c.theme.Selected
	}
	c.backend.Fill(core.RectFromSize(0, y, c.layout.Body.Width(), 1), core.NewCell(' ', rowStyle))

	for _, s := range c.spans {
		col := f.Columns[s.Col].Column
		style := rowStyle
		if f.Focused && f.FocusRow == pos && f.FocusCol == s.Col {
			style = c.theme.Focused
		}

		if f.Edit.Active && f.Edit.Row == pos && f.Edit.Col == s.Col {
			c.drawEditor(f, col, s, y)
			continue
		}
		text := cellText(col, row, id)
		if col.Type == model.TypeNumber {
			text = core.FitRight(text, s.Width, "…")
		} else {
			text = core.Fit(text, s.Width, "…")
		}
		backend.DrawText(c.backend, s.Left, y, s.Width, text, style)
	}
}

func cellText(col model.Column, row model.Row, id string) string {
	if col.Type == model.TypeBoolean && col.Render == nil && col.Format == nil {
		v, _ := col.Value(row)
		if b, _ := model.Coerce(model.TypeBoolean, v).(bool); b {
			return "[x]"
		}
		return "[ ]"
	}
	return col.Text(row, id)
}

func (c *Coordinator) drawEditor(f *Frame, col model.Column, s ColumnSpan, y int) {
	style := c.theme.Editing
	if f.Edit.Invalid {
		style = c.theme.Invalid
	}
	text := f.Edit.Text
	if col.Type == model.TypeBoolean {
		text = "[ ]"
		if f.Edit.Checked {
			text = "[x]"
		}
	}
	backend.DrawText(c.backend, s.Left, y, s.Width, core.Fit(text, s.Width, ""), style)
}

func (c *Coordinator) placeCursor(f *Frame) {
	if !f.Edit.Active {
		c.backend.HideCursor()
		return
	}
	y := -1
	for yy, pos := range c.rowAtY {
		if pos == f.Edit.Row {
			y = yy
			break
		}
	}
	if y < 0 {
		c.backend.HideCursor()
		return
	}
	for _, s := range c.spans {
		if s.Col != f.Edit.Col {
			continue
		}
		runes := []rune(f.Edit.Text)
		offset := core.StringWidth(string(runes[:min(f.Edit.Cursor, len(runes))]))
		c.backend.ShowCursor(s.Left+min(offset, max(s.Width-1, 0)), y)
		return
	}
	c.backend.HideCursor()
}

func (c *Coordinator) drawFooter(f *Frame, area core.Rect) {
	c.backend.Fill(area, core.NewCell(' ', c.theme.Footer))
	backend.DrawText(c.backend, area.Left, area.Top, area.Width(), core.Fit(FooterText(f), area.Width(), "…"), c.theme.Footer)
}

// FooterText summarizes counts, paging, sort and filters.
func FooterText(f *Frame) string {
	var parts []string
	if f.Filtered == f.Total {
		parts = append(parts, fmt.Sprintf("%d rows", f.Total))
	} else {
		parts = append(parts, fmt.Sprintf("%d of %d rows", f.Filtered, f.Total))
	}
	if f.Paged {
		parts = append(parts, fmt.Sprintf("page %d/%d", f.Page+1, max(f.PageCount, 1)))
	}
	if f.SelectedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", f.SelectedCount))
	}
	if f.Sort.Active() {
		parts = append(parts, fmt.Sprintf("sort %s %s", f.Sort.Column, f.Sort.Direction))
	}
	if f.GlobalFilter != "" {
		parts = append(parts, fmt.Sprintf("filter %q", f.GlobalFilter))
	}
	return " " + strings.Join(parts, " | ")
}

// drawOverlay paints the loading or error banner over the body. It is not
// interceptable.
func (c *Coordinator) drawOverlay(f *Frame, area core.Rect) bool {
	var text string
	var style core.Style
	switch {
	case f.Error != "":
		text, style = "Error: "+f.Error, c.theme.Error
	case f.Loading:
		text, style = spinnerFrames[c.spinner%len(spinnerFrames)]+" Loading…", c.theme.Overlay
		c.spinner++
	default:
		return false
	}
	if area.Empty() {
		return false
	}
	width := min(area.Width(), core.StringWidth(text)+4)
	left := area.Left + (area.Width()-width)/2
	top := area.Top + area.Height()/2
	c.backend.Fill(core.RectFromSize(left, top, width, 1), core.NewCell(' ', style))
	backend.DrawText(c.backend, left+2, top, width-2, text, style)
	// The banner covers body cells, so the next cycle must repaint them.
	c.tracker.Invalidate()
	return true
}
