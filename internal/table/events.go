package table

import (
	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/focus"
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/render"
	"github.com/dshills/keygrid/internal/state"
)

// Table topics. sort and filter are emitted before the mutation and may be
// cancelled or rewritten by interceptors; the others are notifications.
const (
	TopicSort             topic.Topic = "sort"
	TopicSortAfter        topic.Topic = "sort:after"
	TopicSortClear        topic.Topic = "sort:clear"
	TopicFilter           topic.Topic = "filter"
	TopicFilterAfter      topic.Topic = "filter:after"
	TopicFilterClear      topic.Topic = "filter:clear"
	TopicReset            topic.Topic = "reset"
	TopicSelectionChange  topic.Topic = "selection:change"
	TopicRowUpdate        topic.Topic = "row:update"
	TopicReady            topic.Topic = "table:ready"
	TopicDataLoad         topic.Topic = "data:load"
	TopicColumnResize     topic.Topic = "column:resize"
	TopicColumnVisibility topic.Topic = "column:visibility"
	TopicPageChange       topic.Topic = "page:change"
	TopicDestroy          topic.Topic = "table:destroy"

	TopicCellEdit       = focus.TopicEdit
	TopicCellEditStart  = focus.TopicEditStart
	TopicCellEditEnd    = focus.TopicEditEnd
	TopicCellEditCancel = focus.TopicEditCancel
	TopicCellFocus      = focus.TopicFocus
	TopicStateChange    = state.TopicChange

	TopicRenderBefore = render.TopicBefore
	TopicRenderHeader = render.TopicHeader
	TopicRenderBody   = render.TopicBody
	TopicRenderFooter = render.TopicFooter
	TopicRenderAfter  = render.TopicAfter
)

// SortEvent is the payload of sort and sort:after. An interceptor may
// replace it to change the column or direction.
type SortEvent struct {
	Column    string
	Direction state.Direction
}

// FilterEvent is the payload of filter and filter:after. Column is empty
// for the global term.
type FilterEvent struct {
	Column string
	Value  string
}

// SelectionEvent is the payload of selection:change.
type SelectionEvent struct {
	IDs     []string
	Added   []string
	Removed []string
}

// RowUpdateEvent is the payload of row:update.
type RowUpdateEvent struct {
	RowID   string
	Row     model.Row
	Changes map[string]any
}

// DataEvent is the payload of data:load and table:ready.
type DataEvent struct {
	Rows    int
	Columns int
}

// ColumnEvent is the payload of column:resize and column:visibility. An
// empty ColumnID means every column.
type ColumnEvent struct {
	ColumnID string
	Width    int
	Hidden   bool
}

// PageEvent is the payload of page:change.
type PageEvent struct {
	Page      int
	PageCount int
	PageSize  int
}

// On subscribes to a topic pattern.
func (t *Table) On(pattern topic.Topic, fn event.Listener) event.Subscription {
	return t.bus.On(pattern, fn)
}

// Once subscribes for a single delivery.
func (t *Table) Once(pattern topic.Topic, fn event.Listener) event.Subscription {
	return t.bus.Once(pattern, fn)
}

// Off removes a subscription.
func (t *Table) Off(sub event.Subscription) bool {
	return t.bus.Off(sub)
}

// Intercept registers an interceptor.
func (t *Table) Intercept(pattern topic.Topic, fn event.InterceptFunc) event.Subscription {
	return t.bus.Intercept(pattern, fn)
}

// Bus returns the table's event bus.
func (t *Table) Bus() *event.Bus { return t.bus }

func (t *Table) emit(tp topic.Topic, payload any) event.Result {
	return t.bus.Emit(tp, payload)
}
