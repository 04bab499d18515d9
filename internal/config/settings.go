package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/language"

	"github.com/dshills/keygrid/internal/config/layer"
	"github.com/dshills/keygrid/internal/input/key"
)

// Settings is the decoded, validated configuration.
type Settings struct {
	Grid    GridSettings
	Theme   ThemeSettings
	Logging LoggingSettings
	Plugins PluginSettings
	Keys    []KeyBinding
}

// GridSettings configure the table.
type GridSettings struct {
	// PageSize of zero disables paging.
	PageSize         int
	SelectionMode    string
	Editable         bool
	LoadingThreshold int
	Language         language.Tag
	IDField          string
}

// ThemeSettings are the four colors the render theme derives from. Empty
// means the built-in color.
type ThemeSettings struct {
	Foreground string
	Background string
	Accent     string
	Error      string
}

// LoggingSettings configure the logger.
type LoggingSettings struct {
	Level string
	// File receives log output. Empty disables logging in the terminal UI.
	File string
}

// PluginSettings choose which plugins load and with what options.
type PluginSettings struct {
	Enabled []string
	Options map[string]map[string]any
	// Scripts are Lua plugin files.
	Scripts []string
}

// OptionsFor returns a copy of the options of plugin name.
func (p PluginSettings) OptionsFor(name string) map[string]any {
	src := p.Options[name]
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// IsEnabled reports whether name is in Enabled.
func (p PluginSettings) IsEnabled(name string) bool {
	return slices.Contains(p.Enabled, name)
}

// KeyBinding runs a palette command line when Keys is pressed.
type KeyBinding struct {
	Keys    string
	Command string
}

// BuiltinPlugins lists the plugins enabled by default.
var BuiltinPlugins = []string{"history", "clipboard", "export", "urlstate", "command"}

// Defaults returns the defaults layer.
func Defaults() map[string]any {
	enabled := make([]any, len(BuiltinPlugins))
	for i, name := range BuiltinPlugins {
		enabled[i] = name
	}
	return map[string]any{
		"grid": map[string]any{
			"pageSize":         int64(0),
			"selectionMode":    "multi",
			"editable":         true,
			"loadingThreshold": int64(50_000),
			"language":         "und",
			"idField":          "",
		},
		"theme": map[string]any{
			"foreground": "#d0d0d0",
			"background": "#1c1c1c",
			"accent":     "#5f87d7",
			"error":      "#d75f5f",
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"plugins": map[string]any{
			"enabled": enabled,
			"options": map[string]any{},
			"scripts": []any{},
		},
		"keys": map[string]any{},
	}
}

var (
	selectionModes = []string{"none", "single", "multi"}
	logLevels      = []string{"debug", "info", "warn", "warning", "error"}
)

// decode builds Settings from a merged map. Every invalid value is
// reported; the returned Settings are only meaningful when err is nil.
func decode(m map[string]any) (Settings, error) {
	d := decoder{m: m}
	var s Settings

	s.Grid.PageSize = d.int("grid.pageSize", 0)
	s.Grid.SelectionMode = strings.ToLower(d.string("grid.selectionMode"))
	if !slices.Contains(selectionModes, s.Grid.SelectionMode) {
		d.fail(invalid("grid.selectionMode", s.Grid.SelectionMode, "want one of %s", strings.Join(selectionModes, ", ")))
	}
	s.Grid.Editable = d.bool("grid.editable")
	s.Grid.LoadingThreshold = d.int("grid.loadingThreshold", 0)
	s.Grid.IDField = d.string("grid.idField")
	if raw := d.string("grid.language"); raw != "" {
		tag, err := language.Parse(raw)
		if err != nil {
			d.fail(invalid("grid.language", raw, "%v", err))
		}
		s.Grid.Language = tag
	}

	s.Theme = ThemeSettings{
		Foreground: d.color("theme.foreground"),
		Background: d.color("theme.background"),
		Accent:     d.color("theme.accent"),
		Error:      d.color("theme.error"),
	}

	s.Logging.Level = strings.ToLower(d.string("logging.level"))
	if !slices.Contains(logLevels, s.Logging.Level) {
		d.fail(invalid("logging.level", s.Logging.Level, "want one of %s", strings.Join(logLevels, ", ")))
	}
	s.Logging.File = d.string("logging.file")

	s.Plugins.Enabled = d.strings("plugins.enabled")
	s.Plugins.Scripts = d.strings("plugins.scripts")
	s.Plugins.Options = make(map[string]map[string]any)
	for name, v := range d.table("plugins.options") {
		opts, ok := v.(map[string]any)
		if !ok {
			d.fail(invalid("plugins.options."+name, v, "want a table"))
			continue
		}
		s.Plugins.Options[name] = opts
	}

	for chord, v := range d.table("keys") {
		line, ok := v.(string)
		if !ok || strings.TrimSpace(line) == "" {
			d.fail(invalid("keys."+chord, v, "want a command line"))
			continue
		}
		if _, err := key.Parse(chord); err != nil {
			d.fail(invalid("keys."+chord, line, "%v", err))
			continue
		}
		s.Keys = append(s.Keys, KeyBinding{Keys: chord, Command: strings.TrimSpace(line)})
	}
	sort.Slice(s.Keys, func(i, j int) bool { return s.Keys[i].Keys < s.Keys[j].Keys })

	return s, errors.Join(d.errs...)
}

type decoder struct {
	m    map[string]any
	errs []error
}

func (d *decoder) fail(err error) { d.errs = append(d.errs, err) }

func (d *decoder) get(path string) (any, bool) {
	return layer.GetByPath(d.m, path)
}

func (d *decoder) string(path string) string {
	v, ok := d.get(path)
	if !ok || v == nil {
		return ""
	}
	s, isString := v.(string)
	if !isString {
		d.fail(invalid(path, v, "want a string"))
	}
	return s
}

func (d *decoder) bool(path string) bool {
	v, ok := d.get(path)
	if !ok {
		return false
	}
	b, isBool := v.(bool)
	if !isBool {
		d.fail(invalid(path, v, "want a boolean"))
	}
	return b
}

func (d *decoder) int(path string, minimum int) int {
	v, ok := d.get(path)
	if !ok {
		return minimum
	}
	n, isInt := toInt(v)
	if !isInt {
		d.fail(invalid(path, v, "want an integer"))
		return minimum
	}
	if n < minimum {
		d.fail(invalid(path, v, "must be at least %d", minimum))
		return minimum
	}
	return n
}

func (d *decoder) strings(path string) []string {
	v, ok := d.get(path)
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return slices.Clone(t)
	case []any:
		out := make([]string, 0, len(t))
		for i, e := range t {
			s, isString := e.(string)
			if !isString {
				d.fail(invalid(fmt.Sprintf("%s[%d]", path, i), e, "want a string"))
				continue
			}
			out = append(out, s)
		}
		return out
	case string:
		return splitList(t)
	default:
		d.fail(invalid(path, v, "want a list of strings"))
		return nil
	}
}

func (d *decoder) table(path string) map[string]any {
	v, ok := d.get(path)
	if !ok || v == nil {
		return nil
	}
	t, isTable := v.(map[string]any)
	if !isTable {
		d.fail(invalid(path, v, "want a table"))
	}
	return t
}

func (d *decoder) color(path string) string {
	s := d.string(path)
	if s == "" || s == "default" {
		return s
	}
	if _, err := colorful.Hex(s); err != nil {
		d.fail(invalid(path, s, "want #rrggbb or #rgb"))
		return ""
	}
	return s
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
