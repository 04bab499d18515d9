package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dshills/keygrid/internal/config/layer"
	"github.com/dshills/keygrid/internal/config/loader"
	"github.com/dshills/keygrid/internal/config/notify"
	"github.com/dshills/keygrid/internal/config/watcher"
	"github.com/dshills/keygrid/internal/logging"
)

// Layer names.
const (
	LayerDefaults = "defaults"
	LayerFile     = "file"
	LayerEnv      = "environment"
	LayerFlags    = "flags"
	LayerSession  = "session"
)

// Config owns the configuration layers and the decoded Settings.
type Config struct {
	mu       sync.RWMutex
	layers   *layer.Manager
	settings Settings
	loaded   bool

	notifier *notify.Notifier
	watcher  *watcher.Watcher
	logger   *logging.Logger

	file      string
	fs        loader.FileSystem
	envPrefix string
	flags     map[string]any
	watch     bool
	debounce  time.Duration
}

// Option configures a Config.
type Option func(*Config)

// WithFile sets the config file. Its extension picks the format.
func WithFile(path string) Option {
	return func(c *Config) { c.file = path }
}

// WithFileSystem reads the config file through fsys.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) { c.fs = fsys }
}

// WithEnvPrefix sets the environment prefix. An empty prefix disables the
// environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) { c.envPrefix = prefix }
}

// WithFlags adds a layer of command line overrides keyed by dotted path.
func WithFlags(values map[string]any) Option {
	return func(c *Config) {
		c.flags = make(map[string]any)
		for path, v := range values {
			layer.SetByPath(c.flags, path, v)
		}
	}
}

// WithWatch reloads the config file when it changes on disk.
func WithWatch(enable bool) Option {
	return func(c *Config) { c.watch = enable }
}

// WithDebounce sets the quiet period before a file change reloads.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) { c.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Config holding only the defaults. Call Load to read the
// other sources.
func New(opts ...Option) *Config {
	c := &Config{
		layers:    layer.NewManager(),
		notifier:  notify.New(),
		logger:    logging.Nop(),
		fs:        loader.OSFS{},
		envPrefix: loader.EnvPrefix,
		debounce:  100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}

	defaults := layer.NewWithData(LayerDefaults, layer.SourceDefaults, Defaults())
	defaults.ReadOnly = true
	c.layers.Put(defaults)
	c.settings, _ = decode(c.layers.Merge())
	return c
}

// DefaultFile returns the first existing config file in the user config
// directory, preferring TOML, or the TOML path when none exists.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	base := filepath.Join(dir, "keygrid")
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		path := filepath.Join(base, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(base, "config.toml")
}

// Load reads the file, environment and flag layers and validates the
// result. When watching is enabled the file is then watched until ctx is
// done or Close is called.
func (c *Config) Load(ctx context.Context) error {
	if err := c.loadFile(); err != nil {
		return err
	}
	if c.envPrefix != "" {
		data, err := loader.NewEnvLoader(c.envPrefix).Load()
		if err != nil {
			return fmt.Errorf("load environment: %w", err)
		}
		c.layers.Put(layer.NewWithData(LayerEnv, layer.SourceEnv, data))
	}
	if c.flags != nil {
		c.layers.Put(layer.NewWithData(LayerFlags, layer.SourceFlags, layer.Clone(c.flags)))
	}

	settings, err := decode(c.layers.Merge())
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.settings = settings
	c.loaded = true
	c.mu.Unlock()

	if c.watch && c.file != "" {
		return c.startWatcher(ctx)
	}
	return nil
}

func (c *Config) loadFile() error {
	if c.file == "" {
		return nil
	}
	l, err := loader.NewFileLoaderWithFS(c.fs, c.file)
	if err != nil {
		return err
	}
	data, err := l.Load()
	if err != nil {
		return err
	}
	file := layer.NewWithData(LayerFile, layer.SourceFile, data)
	file.Path = c.file
	if info, err := c.fs.Stat(c.file); err == nil {
		file.ModTime = info.ModTime()
	}
	c.layers.Put(file)
	return nil
}

func (c *Config) startWatcher(ctx context.Context) error {
	w, err := watcher.New(watcher.WithDebounce(c.debounce), watcher.WithLogger(c.logger))
	if err != nil {
		return err
	}
	if err := w.Add(c.file); err != nil {
		_ = w.Close()
		return err
	}
	w.OnChange(func(ev watcher.Event) {
		c.logger.Info("config file %s: %s", ev.Op, ev.Path)
		if err := c.Reload(); err != nil {
			c.logger.Warn("config reload failed, keeping previous settings: %v", err)
		}
	})
	w.Start(ctx)

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()
	return nil
}

// Reload re-reads the config file. An invalid file leaves the previous
// layers and settings untouched. Subscribers receive one reload change
// listing every changed path.
func (c *Config) Reload() error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if !loaded {
		return ErrNotLoaded
	}

	before := c.layers.Merge()
	prev, hadFile := c.layers.Layer(LayerFile)
	if err := c.loadFile(); err != nil {
		return err
	}

	after := c.layers.Merge()
	settings, err := decode(after)
	if err != nil {
		if hadFile {
			c.layers.Put(prev)
		} else {
			c.layers.Remove(LayerFile)
		}
		return err
	}

	c.mu.Lock()
	c.settings = settings
	c.mu.Unlock()

	if changed := layer.Diff(before, after); len(changed) > 0 {
		c.notifier.NotifyReload(LayerFile, changed)
	}
	return nil
}

// Settings returns the current settings.
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// Get returns the effective raw value at a dotted path.
func (c *Config) Get(path string) (any, bool) {
	v, _, ok := c.layers.Get(path)
	return v, ok
}

// Source returns the name of the layer that provides path, or "".
func (c *Config) Source(path string) string {
	_, name, _ := c.layers.Get(path)
	return name
}

// Set overrides path for this session. The value must keep the settings
// valid; otherwise nothing changes and the *ConfigError is returned.
func (c *Config) Set(path string, value any) error {
	old, _ := c.Get(path)
	merged := c.layers.Merge()
	layer.SetByPath(merged, path, value)
	settings, err := decode(merged)
	if err != nil {
		return err
	}

	c.layers.SetInSession(path, value)
	c.mu.Lock()
	c.settings = settings
	c.mu.Unlock()

	c.notifier.Notify(notify.Change{
		Path:     path,
		Type:     notify.ChangeSet,
		OldValue: old,
		NewValue: value,
		Source:   LayerSession,
	})
	return nil
}

// Reset drops a session override.
func (c *Config) Reset(path string) error {
	old, ok := c.Get(path)
	if !ok {
		return nil
	}
	if _, has := c.layers.Layer(LayerSession); !has {
		return nil
	}
	if err := c.layers.Delete(LayerSession, path); err != nil {
		return err
	}
	settings, err := decode(c.layers.Merge())
	if err != nil {
		c.layers.SetInSession(path, old)
		return err
	}
	c.mu.Lock()
	c.settings = settings
	c.mu.Unlock()

	next, _ := c.Get(path)
	c.notifier.Notify(notify.Change{
		Path:     path,
		Type:     notify.ChangeDelete,
		OldValue: old,
		NewValue: next,
		Source:   LayerSession,
	})
	return nil
}

// Subscribe registers fn for every change.
func (c *Config) Subscribe(fn notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(fn)
}

// SubscribePath registers fn for changes at or below path.
func (c *Config) SubscribePath(path string, fn notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, fn)
}

// File returns the config file path.
func (c *Config) File() string { return c.file }

// Layers returns the layer names in priority order.
func (c *Config) Layers() []string { return c.layers.Names() }

// Close stops watching.
func (c *Config) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()
	if w == nil {
		return nil
	}
	if err := w.Close(); err != nil && !errors.Is(err, watcher.ErrClosed) {
		return err
	}
	return nil
}
