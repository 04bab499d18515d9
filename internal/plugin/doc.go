// Package plugin is the grid's plugin host.
//
// A plugin comes in one of three shapes:
//
//   - a Definition value: a name, an Init function that receives the API and
//     returns an instance, an optional Destroy hook and dependency names;
//   - any value implementing Plugin (optionally Dependent), or a Factory
//     that constructs one;
//   - a Lua script loaded through the lua subpackage, which yields a Plugin.
//
// # Registration
//
// Host.Register validates the plugin before calling Init:
//
//   - the name must be non-empty (ErrMissingName);
//   - a second registration under the same name logs a warning and returns
//     the existing instance;
//   - Init must be present (ErrMissingInit);
//   - every dependency must already be registered (ErrDependencyNotFound).
//     Dependencies are never resolved automatically.
//
// Validation failures are configuration errors and are returned. Failures
// inside Init (an error or a panic) are runtime errors: they are logged and
// reported on the bus as plugin:error, anything the plugin registered through
// its API is released, and Register returns a nil instance and a nil error so
// that later plugins still load.
//
// # Capabilities
//
// Init receives an *API. Besides the table, bus and state accessors it
// carries the per-registration Options, the table's input service and a
// component logger. Plugins add methods to the table with API.Extend; the
// table dispatches them by name through its Extensions registry.
// Subscriptions, interceptors, key bindings and extensions made through the
// API are owned by the plugin and released when it is destroyed.
package plugin
