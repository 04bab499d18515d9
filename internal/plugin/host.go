package plugin

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/event/topic"
	"github.com/dshills/keygrid/internal/logging"
)

// Host lifecycle topics.
const (
	TopicRegister topic.Topic = "plugin:register"
	TopicError    topic.Topic = "plugin:error"
	TopicDestroy  topic.Topic = "plugin:destroy"
)

// LifecycleEvent is the payload of the plugin:* topics.
type LifecycleEvent struct {
	Name string
	Err  error
}

// Instance is a registered plugin.
type Instance struct {
	Name         string
	Value        any
	Options      Options
	Dependencies []string

	def Definition
	api *API
}

// API returns the capability object the plugin was initialized with.
func (i *Instance) API() *API { return i.api }

// Host is the plugin registry of one table.
type Host struct {
	mu        sync.Mutex
	env       Environment
	logger    *logging.Logger
	instances map[string]*Instance
	order     []string
}

// NewHost creates a host. A nil bus or extension registry is created.
func NewHost(env Environment) *Host {
	if env.Bus == nil {
		env.Bus = event.NewBus()
	}
	if env.Extensions == nil {
		env.Extensions = NewExtensions()
	}
	logger := env.Logger
	if logger == nil {
		logger = logging.Nop()
		env.Logger = logger
	}
	return &Host{
		env:       env,
		logger:    logger.WithComponent("plugin-host"),
		instances: make(map[string]*Instance),
	}
}

// Extensions returns the extension registry.
func (h *Host) Extensions() *Extensions { return h.env.Extensions }

// Register validates and initializes p. See the package documentation for
// which failures are returned and which are only logged.
func (h *Host) Register(p any, opts Options) (*Instance, error) {
	def, err := definitionOf(p)
	if err != nil {
		return nil, &Error{Op: "register", Err: err}
	}
	if def.Name == "" {
		return nil, &Error{Op: "register", Err: ErrMissingName}
	}

	h.mu.Lock()
	if existing, ok := h.instances[def.Name]; ok {
		h.mu.Unlock()
		h.logger.Warn("plugin %q is already registered", def.Name)
		h.discard(p)
		return existing, nil
	}
	if def.Init == nil {
		h.mu.Unlock()
		h.discard(p)
		return nil, &Error{Plugin: def.Name, Op: "register", Err: ErrMissingInit}
	}
	for _, dep := range def.Dependencies {
		if _, ok := h.instances[dep]; !ok {
			h.mu.Unlock()
			h.discard(p)
			return nil, &Error{Plugin: def.Name, Op: "register", Err: fmt.Errorf("%w: %q", ErrDependencyNotFound, dep)}
		}
	}
	h.mu.Unlock()

	api := newAPI(def.Name, h.env, opts.Clone())
	value, err := initSafely(def, api)
	if err != nil {
		api.release()
		h.discard(p)
		perr := &Error{Plugin: def.Name, Op: "init", Err: err}
		h.logger.Error("%v", perr)
		h.env.Bus.Emit(TopicError, LifecycleEvent{Name: def.Name, Err: perr})
		return nil, nil
	}

	inst := &Instance{
		Name:         def.Name,
		Value:        value,
		Options:      api.Options,
		Dependencies: slices.Clone(def.Dependencies),
		def:          def,
		api:          api,
	}
	h.mu.Lock()
	h.instances[def.Name] = inst
	h.order = append(h.order, def.Name)
	h.mu.Unlock()

	h.logger.Debug("registered plugin %q", def.Name)
	h.env.Bus.Emit(TopicRegister, LifecycleEvent{Name: def.Name})
	return inst, nil
}

// discard closes a plugin the host did not register.
func (h *Host) discard(p any) {
	c, ok := p.(Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		h.logger.Warn("close unregistered plugin: %v", err)
	}
}

func initSafely(def Definition, api *API) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return def.Init(api)
}

// Get returns a registered instance.
func (h *Host) Get(name string) (*Instance, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.instances[name]
	return inst, ok
}

// Has reports whether name is registered.
func (h *Host) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Names returns plugin names in registration order.
func (h *Host) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.order)
}

// Len returns the number of registered plugins.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.order)
}

// Unregister destroys one plugin. It fails while other plugins depend on it.
func (h *Host) Unregister(name string) error {
	h.mu.Lock()
	inst, ok := h.instances[name]
	if !ok {
		h.mu.Unlock()
		return &Error{Plugin: name, Op: "unregister", Err: ErrPluginNotFound}
	}
	for _, other := range h.instances {
		if slices.Contains(other.Dependencies, name) {
			h.mu.Unlock()
			return &Error{Plugin: name, Op: "unregister", Err: fmt.Errorf("%w: %q", ErrHasDependents, other.Name)}
		}
	}
	delete(h.instances, name)
	h.order = slices.DeleteFunc(h.order, func(n string) bool { return n == name })
	h.mu.Unlock()

	return h.destroy(inst)
}

// DestroyAll calls every destroy hook, newest first, then clears the
// registry. Hook errors and panics are logged and joined into the result.
func (h *Host) DestroyAll() error {
	h.mu.Lock()
	order := h.order
	instances := h.instances
	h.order = nil
	h.instances = make(map[string]*Instance)
	h.mu.Unlock()

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		if err := h.destroy(instances[order[i]]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *Host) destroy(inst *Instance) (err error) {
	defer inst.api.release()
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Plugin: inst.Name, Op: "destroy", Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			h.logger.Error("%v", err)
		}
		h.env.Bus.Emit(TopicDestroy, LifecycleEvent{Name: inst.Name, Err: err})
	}()
	if inst.def.Destroy == nil {
		return nil
	}
	if derr := inst.def.Destroy(inst.Value); derr != nil {
		return &Error{Plugin: inst.Name, Op: "destroy", Err: derr}
	}
	return nil
}
