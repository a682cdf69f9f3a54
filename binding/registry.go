package binding

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/dshills/statebind/store"
)

// PropertyDescriptor declares one bound field on a view-model type.
type PropertyDescriptor struct {
	Property string
	Spec     any
	Invoke   bool
	Notify   bool
}

// MethodDescriptor declares one dispatch-bound method on a view-model type.
type MethodDescriptor struct {
	Name string
	Descriptor
}

// Blueprint is the declarative descriptor table for one view-model type.
// Build it once at setup time; the registry consults it whenever an instance
// of the type is attached.
type Blueprint struct {
	properties []PropertyDescriptor
	methods    []MethodDescriptor
}

// NewBlueprint creates an empty blueprint.
func NewBlueprint() *Blueprint {
	return &Blueprint{}
}

// Property declares a bound field. Returns the blueprint for chaining.
func (b *Blueprint) Property(name string, spec any, opts ...Option) *Blueprint {
	var cfg bindConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	b.properties = append(b.properties, PropertyDescriptor{
		Property: name,
		Spec:     spec,
		Invoke:   cfg.invoke,
		Notify:   cfg.notify,
	})
	return b
}

// Method declares a dispatch-bound method with a string action type or a
// creator function.
func (b *Blueprint) Method(name string, action any) *Blueprint {
	b.methods = append(b.methods, MethodDescriptor{Name: name, Descriptor: Descriptor{Action: action}})
	return b
}

// MethodVia declares a dispatch-bound method that delegates to a creator
// method on the owner.
func (b *Blueprint) MethodVia(name, creatorMethod string) *Blueprint {
	b.methods = append(b.methods, MethodDescriptor{Name: name, Descriptor: Descriptor{CreatorMethod: creatorMethod}})
	return b
}

// Stats is a snapshot of registry activity.
type Stats struct {
	// Registered is the number of view-model types with blueprints.
	Registered int

	// Attached is the total number of instances attached.
	Attached uint64

	// Disposed is the total number of instances disposed.
	Disposed uint64
}

// Registry maps view-model types to blueprints and manufactures live
// bindings from them. It replaces annotation-based wiring: the host's
// "constructed" hook calls Attach, the "disposed" hook calls the returned
// Instance's Dispose.
type Registry struct {
	mu         sync.RWMutex
	handle     *store.Handle
	blueprints map[reflect.Type]*Blueprint

	attached atomic.Uint64
	disposed atomic.Uint64
}

// NewRegistry creates a registry bound to the given handle.
func NewRegistry(h *store.Handle) *Registry {
	return &Registry{
		handle:     h,
		blueprints: make(map[reflect.Type]*Blueprint),
	}
}

// Register associates a blueprint with the concrete type of prototype.
// Registering the same type again replaces the earlier blueprint.
func (r *Registry) Register(prototype any, bp *Blueprint) error {
	if prototype == nil || bp == nil {
		return fmt.Errorf("%w: nil prototype or blueprint", ErrInvalidDescriptor)
	}
	r.mu.Lock()
	r.blueprints[reflect.TypeOf(prototype)] = bp
	r.mu.Unlock()
	return nil
}

// Blueprint returns the blueprint registered for the owner's type.
func (r *Registry) Blueprint(owner any) (*Blueprint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bp, ok := r.blueprints[reflect.TypeOf(owner)]
	return bp, ok
}

// Attach creates every subscription and invoker the owner's blueprint
// declares. A configuration error tears down the partially built instance
// and fails fast.
func (r *Registry) Attach(owner any) (*Instance, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}
	bp, ok := r.Blueprint(owner)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotRegistered, owner)
	}

	inst := &Instance{
		registry: r,
		invokers: make(map[string]Invoker, len(bp.methods)),
	}

	for _, pd := range bp.properties {
		var opts []Option
		if pd.Invoke {
			opts = append(opts, WithInvoke())
		}
		if pd.Notify {
			opts = append(opts, WithChangeNotify())
		}
		sub, err := Bind(r.handle, owner, pd.Property, pd.Spec, opts...)
		if err != nil {
			inst.Dispose()
			return nil, err
		}
		inst.subs = append(inst.subs, sub)
	}

	for _, md := range bp.methods {
		inv, err := BindMethod(r.handle, owner, md.Descriptor)
		if err != nil {
			inst.Dispose()
			return nil, err
		}
		inst.invokers[md.Name] = inv
	}

	r.attached.Add(1)
	return inst, nil
}

// Stats returns a snapshot of registry activity.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	registered := len(r.blueprints)
	r.mu.RUnlock()

	return Stats{
		Registered: registered,
		Attached:   r.attached.Load(),
		Disposed:   r.disposed.Load(),
	}
}

// Instance is the live set of bindings attached to one owner. Dispose it
// exactly when the owner is torn down.
type Instance struct {
	registry *Registry
	subs     []*Subscription
	invokers map[string]Invoker

	disposeOnce sync.Once
}

// Subscriptions returns the property subscriptions in declaration order.
func (i *Instance) Subscriptions() []*Subscription {
	return i.subs
}

// Invoker returns the named dispatch binding.
func (i *Instance) Invoker(name string) (Invoker, bool) {
	inv, ok := i.invokers[name]
	return inv, ok
}

// Invoke calls the named dispatch binding with the given arguments.
func (i *Instance) Invoke(name string, args ...any) (any, error) {
	inv, ok := i.invokers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return inv(args...)
}

// Dispose tears down every subscription exactly once.
func (i *Instance) Dispose() {
	i.disposeOnce.Do(func() {
		for _, sub := range i.subs {
			sub.Dispose()
		}
		if i.registry != nil {
			i.registry.disposed.Add(1)
		}
	})
}
