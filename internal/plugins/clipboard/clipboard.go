// Package clipboard copies grid cells to the system clipboard as
// tab-separated text and pastes them back at the focused cell.
//
// Options:
//
//	headers  include column headers when copying rows (default false)
//	keys     bind Ctrl+C and Ctrl+V (default true)
package clipboard

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/input"
	"github.com/dshills/keygrid/internal/input/key"
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/plugin"
)

// Name is the plugin name.
const Name = "clipboard"

// Clipboard topics.
const (
	TopicCopy  topic.Topic = "clipboard:copy"
	TopicPaste topic.Topic = "clipboard:paste"
	TopicError topic.Topic = "clipboard:error"
)

var (
	// ErrNothingToCopy is returned when there is no selection and no focus.
	ErrNothingToCopy = errors.New("clipboard: nothing to copy")
	// ErrNoTarget is returned when pasting without a focused cell.
	ErrNoTarget = errors.New("clipboard: no focused cell")
)

// Event is the payload of clipboard:copy and clipboard:paste.
type Event struct {
	Rows  int
	Cells int
	Text  string
}

// ErrorEvent is the payload of clipboard:error.
type ErrorEvent struct {
	Op  string
	Err error
}

// Board is the clipboard the plugin talks to.
type Board interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type system struct{}

func (system) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (system) WriteAll(text string) error { return clipboard.WriteAll(text) }

// System returns the operating system clipboard.
func System() Board { return system{} }

// Memory is an in-process Board.
type Memory struct {
	Text string
}

// ReadAll implements Board.
func (m *Memory) ReadAll() (string, error) { return m.Text, nil }

// WriteAll implements Board.
func (m *Memory) WriteAll(text string) error {
	m.Text = text
	return nil
}

// Plugin is the clipboard plugin.
type Plugin struct {
	board   Board
	api     *plugin.API
	headers bool
}

// New creates the plugin over board. A nil board uses the system clipboard.
func New(board Board) *Plugin {
	if board == nil {
		board = System()
	}
	return &Plugin{board: board}
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return Name }

// Init implements plugin.Plugin.
func (p *Plugin) Init(api *plugin.API) error {
	p.api = api
	p.headers = api.Options.Bool("headers", false)

	if err := api.Extend("copy", func(...any) (any, error) { return p.Copy() }); err != nil {
		return err
	}
	if err := api.Extend("paste", func(...any) (any, error) { return p.Paste() }); err != nil {
		return err
	}

	if api.Options.Bool("keys", true) {
		for _, b := range []input.Binding{
			{Keys: "Ctrl+C", Description: "Copy", Action: func(key.Event) bool {
				_, err := p.Copy()
				return err == nil
			}},
			{Keys: "Ctrl+V", Description: "Paste", Action: func(key.Event) bool {
				_, err := p.Paste()
				return err == nil
			}},
		} {
			if _, err := api.Bind(b); err != nil {
				return err
			}
		}
	}
	return nil
}

// Destroy implements plugin.Plugin.
func (p *Plugin) Destroy() error { return nil }

// Copy writes the selected rows, or the focused cell when nothing is
// selected, to the clipboard and returns the text.
func (p *Plugin) Copy() (string, error) {
	cols := p.api.Table.VisibleColumns()
	var records [][]string
	var cells int

	if rows := p.api.Table.Selected(); len(rows) > 0 {
		if p.headers {
			header := make([]string, len(cols))
			for i, c := range cols {
				header[i] = c.Header
			}
			records = append(records, header)
		}
		for _, row := range rows {
			rec := make([]string, len(cols))
			for i, c := range cols {
				rec[i] = cellText(c, row)
			}
			records = append(records, rec)
			cells += len(rec)
		}
	} else {
		pos, col, ok := p.api.Table.FocusedCell()
		if !ok || col >= len(cols) {
			return "", p.fail("copy", ErrNothingToCopy)
		}
		id, _ := p.api.Table.RowID(pos)
		row, ok := p.api.Table.RowByID(id)
		if !ok {
			return "", p.fail("copy", ErrNothingToCopy)
		}
		records = [][]string{{cellText(cols[col], row)}}
		cells = 1
	}

	text, err := encode(records)
	if err != nil {
		return "", p.fail("copy", err)
	}
	if err := p.board.WriteAll(text); err != nil {
		return "", p.fail("copy", err)
	}
	p.api.Emit(TopicCopy, Event{Rows: len(records), Cells: cells, Text: text})
	return text, nil
}

// Paste writes clipboard text into the grid starting at the focused cell.
// Target rows are fixed before the first write, so a paste into a sorted
// or filtered column does not follow rows the write moves. Cells past the
// last visible column or the last row on the page are dropped, as are
// read-only columns and values the column validator rejects. It returns
// the number of cells written.
func (p *Plugin) Paste() (int, error) {
	start, startCol, ok := p.api.Table.FocusedCell()
	if !ok {
		return 0, p.fail("paste", ErrNoTarget)
	}
	text, err := p.board.ReadAll()
	if err != nil {
		return 0, p.fail("paste", err)
	}
	records, err := decode(text)
	if err != nil {
		return 0, p.fail("paste", err)
	}

	cols := p.api.Table.VisibleColumns()
	ids := make([]string, 0, len(records))
	for r := range records {
		id, ok := p.api.Table.RowID(start + r)
		if !ok {
			break
		}
		ids = append(ids, id)
	}

	var written int
	apply := func() {
		for r, id := range ids {
			end := min(startCol+len(records[r]), len(cols))
			written += p.writeRow(id, cols[startCol:end], records[r])
		}
	}
	if p.api.Table.HasExtension("historyBatch") {
		if _, err := p.api.Table.Call("historyBatch", apply); err != nil {
			return written, p.fail("paste", err)
		}
	} else {
		apply()
	}

	p.api.Emit(TopicPaste, Event{Rows: len(ids), Cells: written, Text: text})
	return written, nil
}

// writeRow stores one pasted record as a single row update. Fields go
// through the same rules as the editor: read-only columns are skipped and
// the column validator may reject a value.
func (p *Plugin) writeRow(rowID string, cols []model.Column, fields []string) int {
	row, ok := p.api.Table.RowByID(rowID)
	if !ok {
		return 0
	}
	partial := make(model.Row)
	for i, col := range cols {
		if i >= len(fields) || !p.api.Table.CanEdit(col.ID) {
			continue
		}
		value := model.Coerce(col.Type, fields[i])
		if col.Validate != nil {
			old, _ := col.Value(row)
			if !col.Validate(value, old, rowID) {
				continue
			}
		}
		partial[col.Field] = value
	}
	if len(partial) == 0 || !p.api.Table.UpdateRow(rowID, partial) {
		return 0
	}
	return len(partial)
}

func (p *Plugin) fail(op string, err error) error {
	p.api.Logger.Warn("%s failed: %v", op, err)
	p.api.Emit(TopicError, ErrorEvent{Op: op, Err: err})
	return err
}

func cellText(c model.Column, row model.Row) string {
	v, _ := c.Value(row)
	return model.Stringify(v)
}

func encode(records [][]string) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Comma = '\t'
	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func decode(text string) ([][]string, error) {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil, nil
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse clipboard: %w", err)
	}
	return records, nil
}
