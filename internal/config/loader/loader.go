// Package loader reads configuration maps from TOML and YAML files and from
// KEYGRID_* environment variables.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned for a config file with an unsupported
// extension.
var ErrUnknownFormat = errors.New("unknown config format")

// Loader produces a configuration map. A missing source yields nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem is the file access a file loader needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS reads from the real file system.
type OSFS struct{}

// ReadFile implements FileSystem.
func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Stat implements FileSystem.
func (OSFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// ParseError reports a malformed config file.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s at line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// parseFunc decodes a document into a map.
type parseFunc func(path string, data []byte) (map[string]any, error)

// FileLoader reads one config file, choosing the decoder by extension.
type FileLoader struct {
	fs    FileSystem
	path  string
	parse parseFunc
}

// NewFileLoader returns a loader for path. Supported extensions are .toml,
// .yaml and .yml.
func NewFileLoader(path string) (*FileLoader, error) {
	return NewFileLoaderWithFS(OSFS{}, path)
}

// NewFileLoaderWithFS is NewFileLoader over a custom file system.
func NewFileLoaderWithFS(fsys FileSystem, path string) (*FileLoader, error) {
	var parse parseFunc
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parse = parseTOML
	case ".yaml", ".yml":
		parse = parseYAML
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	return &FileLoader{fs: fsys, path: path, parse: parse}, nil
}

// Path returns the file the loader reads.
func (l *FileLoader) Path() string { return l.path }

// Load reads and decodes the file. A missing file is not an error.
func (l *FileLoader) Load() (map[string]any, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config %s: %w", l.path, err)
	}
	return l.parse(l.path, data)
}

// Parse decodes data as the format named by ext (".toml", ".yaml").
func Parse(ext string, data []byte) (map[string]any, error) {
	switch strings.ToLower(ext) {
	case ".toml", "toml":
		return parseTOML("<input>", data)
	case ".yaml", ".yml", "yaml", "yml":
		return parseYAML("<input>", data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, ext)
	}
}
