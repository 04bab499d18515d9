package table

import (
	"golang.org/x/text/language"

	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/logging"
	"github.com/dshills/keygrid/internal/model"
	"github.com/dshills/keygrid/internal/render"
	"github.com/dshills/keygrid/internal/state"
)

// DefaultLoadingThreshold is the row count above which a data load shows
// the loading overlay and defers the real render one tick.
const DefaultLoadingThreshold = 50_000

type config struct {
	columns          []model.Column
	data             []model.Row
	idField          string
	idFunc           model.IDFunc
	selectionMode    state.SelectionMode
	editable         bool
	editableColumns  []string
	pageSize         int
	loadingThreshold int
	language         language.Tag
	theme            *render.Theme
	logger           *logging.Logger
	bus              *event.Bus
	scheduler        Scheduler
}

func defaultConfig() config {
	return config{
		selectionMode:    state.SelectMulti,
		loadingThreshold: DefaultLoadingThreshold,
		language:         language.Und,
		scheduler:        Immediate,
	}
}

// Option configures a Table.
type Option func(*config)

// WithColumns declares the columns. Without it columns are detected once
// from the first row of the first non-empty data set.
func WithColumns(cols ...model.Column) Option {
	return func(c *config) { c.columns = cols }
}

// WithData sets the initial rows.
func WithData(rows []model.Row) Option {
	return func(c *config) { c.data = rows }
}

// WithIDField derives row ids from a field.
func WithIDField(field string) Option {
	return func(c *config) { c.idField = field }
}

// WithIDFunc derives row ids from a function of the row and its index.
func WithIDFunc(fn model.IDFunc) Option {
	return func(c *config) { c.idFunc = fn }
}

// WithSelectionMode sets none, single or multi selection.
func WithSelectionMode(m state.SelectionMode) Option {
	return func(c *config) { c.selectionMode = m }
}

// WithEditable sets the global editable flag.
func WithEditable(editable bool) Option {
	return func(c *config) { c.editable = editable }
}

// WithEditableColumns allows editing the listed columns when the column
// itself does not say.
func WithEditableColumns(ids ...string) Option {
	return func(c *config) { c.editableColumns = ids }
}

// WithPageSize enables pagination. Zero shows the whole view.
func WithPageSize(n int) Option {
	return func(c *config) { c.pageSize = max(n, 0) }
}

// WithLoadingThreshold overrides DefaultLoadingThreshold. Zero or less
// never defers.
func WithLoadingThreshold(n int) Option {
	return func(c *config) { c.loadingThreshold = n }
}

// WithLanguage sets the collation language for string sorting.
func WithLanguage(tag language.Tag) Option {
	return func(c *config) { c.language = tag }
}

// WithTheme sets the render theme.
func WithTheme(theme render.Theme) Option {
	return func(c *config) { c.theme = &theme }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithBus shares an existing bus.
func WithBus(b *event.Bus) Option {
	return func(c *config) { c.bus = b }
}

// WithScheduler sets where deferred renders run.
func WithScheduler(s Scheduler) Option {
	return func(c *config) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// snapshot is the configuration view handed to plugins.
func (c config) snapshot() map[string]any {
	return map[string]any{
		"selectionMode":    string(c.selectionMode),
		"editable":         c.editable,
		"editableColumns":  append([]string(nil), c.editableColumns...),
		"pageSize":         c.pageSize,
		"idField":          c.idField,
		"loadingThreshold": c.loadingThreshold,
		"language":         c.language.String(),
	}
}
