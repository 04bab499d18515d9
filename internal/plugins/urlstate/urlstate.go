// Package urlstate mirrors the grid's sort, filters, page and hidden
// columns into a URL query string and restores them from one.
//
// The query looks like
//
//	sort=name:desc&q=oslo&f.city=os&page=2&hidden=id,notes
//
// page is 1-based. Every change is announced on urlstate:update; hosts
// that keep a location bar can also pass a "sink" option of type
// func(string) which receives each new query.
package urlstate

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/plugin"
	"github.com/dshills/keygrid/internal/state"
)

// Name is the plugin name.
const Name = "urlstate"

// Topics.
const (
	TopicUpdate  topic.Topic = "urlstate:update"
	TopicRestore topic.Topic = "urlstate:restore"
)

const filterPrefix = "f."

// Event is the payload of urlstate:update and urlstate:restore.
type Event struct {
	Query string
}

// Encode renders the shareable part of s as a query string. Keys are
// sorted so equal states encode identically.
func Encode(s state.State) string {
	q := url.Values{}
	if s.Sort.Active() {
		q.Set("sort", s.Sort.Column+":"+string(s.Sort.Direction))
	}
	if s.GlobalFilter != "" {
		q.Set("q", s.GlobalFilter)
	}
	for col, v := range s.ColumnFilters {
		if v != "" {
			q.Set(filterPrefix+col, v)
		}
	}
	if s.Page > 0 {
		q.Set("page", strconv.Itoa(s.Page+1))
	}
	if len(s.HiddenColumns) > 0 {
		hidden := slices.Clone(s.HiddenColumns)
		slices.Sort(hidden)
		q.Set("hidden", strings.Join(hidden, ","))
	}
	return q.Encode()
}

// Plugin keeps the query in sync with state.
type Plugin struct {
	api       *plugin.API
	sink      func(string)
	last      string
	restoring bool
}

// New creates the plugin.
func New() *Plugin { return &Plugin{} }

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return Name }

// Init implements plugin.Plugin.
func (p *Plugin) Init(api *plugin.API) error {
	p.api = api
	if fn, ok := api.Options["sink"].(func(string)); ok {
		p.sink = fn
	}
	p.last = Encode(api.GetState())

	api.On(state.TopicChange, func(payload any) {
		change, ok := payload.(state.Change)
		if !ok || p.restoring {
			return
		}
		for _, k := range []state.Key{state.KeySort, state.KeyGlobalFilter, state.KeyColumnFilters, state.KeyPage, state.KeyHiddenColumns} {
			if change.Has(k) {
				p.sync()
				return
			}
		}
	})

	if err := api.Extend("stateQuery", func(...any) (any, error) { return p.Query(), nil }); err != nil {
		return err
	}
	return api.Extend("restoreQuery", func(args ...any) (any, error) {
		q, err := plugin.Arg[string](args, 0)
		if err != nil {
			return nil, err
		}
		return nil, p.Restore(q)
	})
}

// Destroy implements plugin.Plugin.
func (p *Plugin) Destroy() error { return nil }

// Query returns the current query string.
func (p *Plugin) Query() string { return Encode(p.api.GetState()) }

func (p *Plugin) sync() {
	q := p.Query()
	if q == p.last {
		return
	}
	p.last = q
	if p.sink != nil {
		p.sink(q)
	}
	p.api.Emit(TopicUpdate, Event{Query: q})
}

// Restore resets sort, filters and paging and applies query. A leading
// "?" is ignored. Parts that do not apply, such as an unknown column or a
// bad direction, are skipped and reported together in the returned error;
// the rest still takes effect.
func (p *Plugin) Restore(query string) error {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return fmt.Errorf("urlstate: %w", err)
	}

	p.restoring = true
	var errs []error
	t := p.api.Table
	t.Reset()

	if v := values.Get("sort"); v != "" {
		col, dir, _ := strings.Cut(v, ":")
		if dir == "" {
			dir = string(state.Asc)
		}
		d, ok := state.ParseDirection(dir)
		if !ok || !t.Sort(col, d) {
			errs = append(errs, fmt.Errorf("sort %q not applied", v))
		}
	}
	if v := values.Get("q"); v != "" {
		t.Filter(v)
	}
	for key := range values {
		col, ok := strings.CutPrefix(key, filterPrefix)
		if !ok {
			continue
		}
		if !t.FilterColumn(col, values.Get(key)) {
			errs = append(errs, fmt.Errorf("filter on %q not applied", col))
		}
	}
	p.restoreHidden(values.Get("hidden"), &errs)
	if v := values.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, fmt.Errorf("bad page %q", v))
		} else {
			t.SetPage(n - 1)
		}
	}
	p.restoring = false

	p.last = p.Query()
	if p.sink != nil {
		p.sink(p.last)
	}
	p.api.Emit(TopicRestore, Event{Query: p.last})
	if len(errs) > 0 {
		err := errors.Join(errs...)
		p.api.Logger.Warn("restore %q: %v", query, err)
		return fmt.Errorf("urlstate: %w", err)
	}
	return nil
}

func (p *Plugin) restoreHidden(list string, errs *[]error) {
	want := map[string]bool{}
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			want[id] = true
		}
	}
	current := p.api.GetState().HiddenColumns
	for _, id := range current {
		if !want[id] {
			p.api.Table.ToggleColumn(id)
		}
	}
	for id := range want {
		if slices.Contains(current, id) {
			continue
		}
		if !p.api.Table.ToggleColumn(id) {
			*errs = append(*errs, fmt.Errorf("column %q not hidden", id))
		}
	}
}
