package statebind

import (
	"sync"

	"github.com/dshills/statebind/binding"
	"github.com/dshills/statebind/config"
	"github.com/dshills/statebind/store"
)

// Engine is the top-level binding engine. It owns the store handle shared by
// every binding and the registry of blueprints keyed by owner type.
type Engine struct {
	handle   *store.Handle
	registry *binding.Registry

	mu      sync.Mutex
	watcher *config.Watcher
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	store    store.Store
	settings config.Settings
}

// WithStore provides the backing store at construction time. Bindings can
// also be created first and the store provided later.
func WithStore(s store.Store) Option {
	return func(c *engineConfig) {
		c.store = s
	}
}

// WithAsync enables thunk and future resolution in dispatch.
func WithAsync(enabled bool) Option {
	return func(c *engineConfig) {
		c.settings.Async = enabled
	}
}

// WithSettings applies loaded settings at construction time.
func WithSettings(s config.Settings) Option {
	return func(c *engineConfig) {
		c.settings = s
	}
}

// New creates an engine. Without WithStore the engine starts unconfigured:
// bindings attach but hold no value, dispatch methods return
// store.ErrNotConfigured, and everything comes alive once ProvideStore is
// called.
func New(opts ...Option) *Engine {
	var cfg engineConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	handleOpts := []store.Option{store.WithAsync(cfg.settings.Async)}
	if cfg.store != nil {
		handleOpts = append(handleOpts, store.WithStore(cfg.store))
	}

	h := store.NewHandle(handleOpts...)
	return &Engine{
		handle:   h,
		registry: binding.NewRegistry(h),
	}
}

// Handle returns the store handle shared by the engine's bindings.
func (e *Engine) Handle() *store.Handle {
	return e.handle
}

// Registry returns the blueprint registry.
func (e *Engine) Registry() *binding.Registry {
	return e.registry
}

// ProvideStore connects (or replaces) the backing store. Existing bindings
// migrate to the new store and re-evaluate synchronously before this returns.
func (e *Engine) ProvideStore(s store.Store) error {
	return e.handle.Provide(s)
}

// Dispatch forwards an action through the handle, resolving thunks and
// futures when async mode is on.
func (e *Engine) Dispatch(action any) (any, error) {
	return e.handle.Dispatch(action)
}

// GetState returns the current store state.
func (e *Engine) GetState() (any, error) {
	return e.handle.GetState()
}

// Register records a blueprint for the prototype's type.
func (e *Engine) Register(prototype any, bp *binding.Blueprint) error {
	return e.registry.Register(prototype, bp)
}

// Attach binds an owner using its registered blueprint.
func (e *Engine) Attach(owner any) (*binding.Instance, error) {
	return e.registry.Attach(owner)
}

// Bind creates a single property subscription outside any blueprint.
func (e *Engine) Bind(owner any, property string, spec any, opts ...binding.Option) (*binding.Subscription, error) {
	return binding.Bind(e.handle, owner, property, spec, opts...)
}

// BindMethod creates a single dispatch invoker outside any blueprint.
func (e *Engine) BindMethod(owner any, d binding.Descriptor) (binding.Invoker, error) {
	return binding.BindMethod(e.handle, owner, d)
}

// ApplySettings puts loaded settings into effect on the running engine.
func (e *Engine) ApplySettings(s config.Settings) {
	e.handle.SetAsync(s.Async)
}

// LoadSettings reads a settings file and applies it. A missing file applies
// the defaults.
func (e *Engine) LoadSettings(path string) error {
	s, err := config.Load(path)
	if err != nil {
		return err
	}
	e.ApplySettings(s)
	return nil
}

// WatchSettings loads a settings file, applies it, and keeps applying it as
// the file changes. Only one watch is active at a time; watching a new path
// stops the previous watcher.
func (e *Engine) WatchSettings(path string, opts ...config.WatcherOption) error {
	s, err := config.Load(path)
	if err != nil {
		return err
	}
	e.ApplySettings(s)

	w, err := config.Watch(path, e.ApplySettings, opts...)
	if err != nil {
		return err
	}

	e.mu.Lock()
	old := e.watcher
	e.watcher = w
	e.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// Close stops the settings watcher, if any. Bindings stay attached; dispose
// them through their Instance or Subscription handles.
func (e *Engine) Close() error {
	e.mu.Lock()
	w := e.watcher
	e.watcher = nil
	e.mu.Unlock()

	if w != nil {
		return w.Close()
	}
	return nil
}
