package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

func parseTOML(path string, data []byte) (map[string]any, error) {
	var out map[string]any
	if err := toml.Unmarshal(data, &out); err != nil {
		perr := &ParseError{Path: path, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, _ = derr.Position()
		}
		return nil, perr
	}
	if out == nil {
		out = make(map[string]any)
	}
	return out, nil
}
