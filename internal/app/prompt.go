package app

import (
	"fmt"
	"strings"

	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/plugins/command"
	"github.com/dshills/keygrid/internal/plugins/export"
	"github.com/dshills/keygrid/internal/render"
	"github.com/dshills/keygrid/internal/render/backend"
	"github.com/dshills/keygrid/internal/render/core"
	"github.com/dshills/keygrid/internal/table"
)

const (
	promptPrefix = ": "
	maxHints     = 5
)

// prompt is the command line drawn over the footer. It opens on
// command:open, runs the line on Enter and otherwise shows the outcome of
// the last command until the next key.
type prompt struct {
	app     *Application
	backend backend.Backend

	open  bool
	text  []rune
	hints []string

	status string
	failed bool

	area core.Rect
}

func newPrompt(app *Application, b backend.Backend) *prompt {
	return &prompt{app: app, backend: b}
}

// attach subscribes the prompt to the table's topics.
func (p *prompt) attach(t *table.Table) {
	t.On(command.TopicOpen, func(any) { p.show() })
	t.On(command.TopicExecute, func(payload any) {
		if ev, ok := payload.(command.Event); ok {
			p.info(ev.ID)
		}
	})
	t.On(command.TopicError, func(payload any) {
		if ev, ok := payload.(command.ErrorEvent); ok {
			p.fail(ev.Err)
		}
	})
	t.On(export.TopicAfter, func(payload any) {
		if ev, ok := payload.(export.Event); ok && ev.Path != "" {
			p.info(fmt.Sprintf("exported %d rows to %s", ev.Rows, ev.Path))
		}
	})
	t.Intercept(table.TopicRenderFooter, p.drawFooter)
	t.On(table.TopicRenderAfter, func(any) { p.placeCursor() })
}

func (p *prompt) isOpen() bool { return p.open }

func (p *prompt) show() {
	p.open = true
	p.text = p.text[:0]
	p.hints = nil
	p.status, p.failed = "", false
}

func (p *prompt) hide() {
	p.open = false
	p.hints = nil
}

func (p *prompt) info(msg string) { p.status, p.failed = msg, false }

func (p *prompt) fail(err error) { p.status, p.failed = err.Error(), true }

// clearStatus drops the status message and reports whether there was one.
func (p *prompt) clearStatus() bool {
	had := p.status != ""
	p.status, p.failed = "", false
	return had
}

// Text returns the current input.
func (p *prompt) Text() string { return string(p.text) }

func (p *prompt) handleKey(ev key.Event) {
	switch ev.Key {
	case key.KeyEscape:
		p.hide()
	case key.KeyEnter:
		line := strings.TrimSpace(string(p.text))
		p.hide()
		if line != "" {
			p.app.runCommand(line)
		}
	case key.KeyBackspace:
		if n := len(p.text); n > 0 {
			p.text = p.text[:n-1]
		}
		p.hints = nil
	case key.KeyTab:
		p.complete()
	case key.KeySpace:
		p.text = append(p.text, ' ')
	case key.KeyRune:
		if ev.Modifiers&(key.ModCtrl|key.ModAlt|key.ModMeta) == 0 {
			p.text = append(p.text, ev.Rune)
			p.hints = nil
		}
	}
}

// complete replaces the command word with the best match and lists the
// runners-up. Arguments are left to the user.
func (p *prompt) complete() {
	word := string(p.text)
	if strings.ContainsRune(word, ' ') {
		return
	}
	t := p.app.currentTable()
	if t == nil || !t.HasExtension("searchCommands") {
		return
	}
	res, err := t.Call("searchCommands", word, maxHints)
	if err != nil {
		return
	}
	hits, _ := res.([]command.Result)
	p.hints = p.hints[:0]
	for _, h := range hits {
		p.hints = append(p.hints, h.Command.ID)
	}
	if len(hits) > 0 {
		p.text = []rune(hits[0].Command.ID + " ")
	}
}

func (p *prompt) line() string {
	if p.open {
		s := promptPrefix + string(p.text)
		if len(p.hints) > 1 {
			s += "   [" + strings.Join(p.hints[1:], " ") + "]"
		}
		return s
	}
	return " " + p.status
}

// drawFooter replaces the footer pass while the prompt or a status is
// showing.
func (p *prompt) drawFooter(payload any) event.Outcome {
	pass, ok := payload.(*render.PassEvent)
	if !ok || (!p.open && p.status == "") {
		return event.Continue()
	}
	t := p.app.currentTable()
	if t == nil {
		return event.Continue()
	}
	theme := t.Renderer().Theme()
	style := theme.Footer
	if !p.open && p.failed {
		style = theme.Error
	}
	p.area = pass.Area
	w := pass.Area.Width()
	p.backend.Fill(pass.Area, core.NewCell(' ', style))
	backend.DrawText(p.backend, pass.Area.Left, pass.Area.Top, w, core.Fit(p.line(), w, "…"), style)
	return event.Cancel()
}

// placeCursor shows the text cursor at the end of the input. It runs after
// the cycle has hidden the cursor.
func (p *prompt) placeCursor() {
	if !p.open || p.area.Empty() {
		return
	}
	x := p.area.Left + core.StringWidth(promptPrefix+string(p.text))
	if x >= p.area.Right {
		x = p.area.Right - 1
	}
	p.backend.ShowCursor(x, p.area.Top)
	p.backend.Show()
}
