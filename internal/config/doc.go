// Package config loads keygrid settings from layered sources.
//
// Layers, lowest priority first:
//
//	defaults     built into the binary
//	file         config.toml or config.yaml
//	environment  KEYGRID_* variables
//	flags        command line overrides
//	session      values set at runtime through Set
//
// Values merge key by key. The merged map decodes into Settings, which is
// validated as a whole: a file that fails validation on reload leaves the
// previous settings in place.
//
// # Sub-packages
//
//   - layer: layer storage, merging and path helpers
//   - loader: TOML, YAML and environment loaders
//   - notify: change subscriptions
//   - watcher: fsnotify-based file watching for live reload
//
// # Example
//
//	cfg := config.New(config.WithFile(config.DefaultFile()), config.WithWatch(true))
//	if err := cfg.Load(ctx); err != nil {
//		return err
//	}
//	defer cfg.Close()
//	cfg.SubscribePath("theme", func(notify.Change) { applyTheme(cfg.Settings().Theme) })
package config
