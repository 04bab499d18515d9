package export

import (
	"fmt"
	"os"

	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/plugin"
)

// Name is the plugin name.
const Name = "export"

// Export topics. export:before carries the Request and may be cancelled or
// replaced by an interceptor.
const (
	TopicBefore topic.Topic = "export:before"
	TopicAfter  topic.Topic = "export:after"
)

// Event is the payload of export:after.
type Event struct {
	Request
	Path  string
	Rows  int
	Bytes int
}

// Exporter is the plugin instance.
type Exporter struct {
	api    *plugin.API
	scope  Scope
	indent bool
}

// Plugin returns the export plugin definition.
//
// Options:
//
//	scope   default scope: view, selection or all (default view)
//	indent  pretty-print JSON (default false)
func Plugin() plugin.Definition {
	return plugin.Definition{
		Name: Name,
		Init: func(api *plugin.API) (any, error) {
			scope, err := ParseScope(api.Options.String("scope", ""))
			if err != nil {
				return nil, err
			}
			e := &Exporter{api: api, scope: scope, indent: api.Options.Bool("indent", false)}
			if err := api.Extend("export", e.exportExt); err != nil {
				return nil, err
			}
			if err := api.Extend("exportFile", e.exportFileExt); err != nil {
				return nil, err
			}
			return e, nil
		},
	}
}

// Export renders req after export:before interceptors had their say.
func (e *Exporter) Export(req Request) ([]byte, error) {
	if req.Format == "" {
		req.Format = CSV
	}
	req, err := e.before(req)
	if err != nil {
		return nil, err
	}
	out, n, err := encode(e.api.Table, req)
	if err != nil {
		return nil, err
	}
	e.api.Emit(TopicAfter, Event{Request: req, Rows: n, Bytes: len(out)})
	return out, nil
}

// ExportFile writes req to path. An empty format is inferred from the
// file extension. It returns the number of rows written.
func (e *Exporter) ExportFile(path string, req Request) (int, error) {
	if req.Format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return 0, err
		}
		req.Format = f
	}
	req, err := e.before(req)
	if err != nil {
		return 0, err
	}

	var n, size int
	if req.Format.Binary() {
		if n, err = WriteParquet(e.api.Table, req, path); err != nil {
			return 0, err
		}
		if fi, err := os.Stat(path); err == nil {
			size = int(fi.Size())
		}
	} else {
		var out []byte
		if out, n, err = encode(e.api.Table, req); err != nil {
			return 0, err
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return 0, fmt.Errorf("write %s: %w", path, err)
		}
		size = len(out)
	}
	e.api.Logger.Info("exported %d rows to %s", n, path)
	e.api.Emit(TopicAfter, Event{Request: req, Path: path, Rows: n, Bytes: size})
	return n, nil
}

func (e *Exporter) before(req Request) (Request, error) {
	if req.Scope == "" {
		req.Scope = e.scope
	}
	if e.indent {
		req.Indent = true
	}
	res := e.api.Emit(TopicBefore, req)
	if res.Cancelled {
		return req, ErrCancelled
	}
	if r, ok := res.Payload.(Request); ok {
		req = r
	}
	return req, nil
}

// exportExt is export(format[, scope]).
func (e *Exporter) exportExt(args ...any) (any, error) {
	req, err := requestArgs(args, 0)
	if err != nil {
		return nil, err
	}
	out, err := e.Export(req)
	if err != nil {
		return nil, err
	}
	return string(out), nil
}

// exportFileExt is exportFile(path[, format[, scope]]).
func (e *Exporter) exportFileExt(args ...any) (any, error) {
	path, err := plugin.Arg[string](args, 0)
	if err != nil {
		return nil, err
	}
	req, err := requestArgs(args, 1)
	if err != nil {
		return nil, err
	}
	return e.ExportFile(path, req)
}

func requestArgs(args []any, at int) (Request, error) {
	var req Request
	format, err := plugin.OptArg(args, at, "")
	if err != nil {
		return req, err
	}
	if format != "" {
		if req.Format, err = ParseFormat(format); err != nil {
			return req, err
		}
	}
	scope, err := plugin.OptArg(args, at+1, "")
	if err != nil {
		return req, err
	}
	if scope != "" {
		if req.Scope, err = ParseScope(scope); err != nil {
			return req, err
		}
	}
	return req, nil
}
