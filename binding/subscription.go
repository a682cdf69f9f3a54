package binding

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/statebind/selector"
	"github.com/dshills/statebind/store"
)

// subscriptionState tracks the binding lifecycle.
type subscriptionState int

const (
	stateDetached subscriptionState = iota
	stateAttached
	stateDisposed
)

// changedSuffix is appended to the field name to locate the owner's change
// handler, e.g. field UserName pairs with UserNameChanged.
const changedSuffix = "Changed"

// Subscription binds one field on an owner to a value derived from store
// state. It never extends the owner's lifetime; the owner's teardown must
// call Dispose.
type Subscription struct {
	id       string
	handle   *store.Handle
	property string
	eval     selector.Evaluator

	field   reflect.Value
	changed reflect.Value // zero when the owner has no handler or notify is off

	mu      sync.Mutex
	state   subscriptionState
	prev    any
	hasPrev bool
	unsub   store.Unsubscribe
}

// Bind creates and attaches a property binding. The owner must be a pointer
// to a struct and property the name of an exported field on it. The spec is
// any accessor kind selector.Build accepts. Configuration problems are
// reported here; a missing store is not one of them, the binding simply has
// no value until Provide runs.
func Bind(h *store.Handle, owner any, property string, spec any, opts ...Option) (*Subscription, error) {
	if h == nil {
		return nil, ErrNilHandle
	}
	if owner == nil {
		return nil, ErrNilOwner
	}

	var cfg bindConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	rv := reflect.ValueOf(owner)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrNotPointerToStruct, owner)
	}

	field := rv.Elem().FieldByName(property)
	if !field.IsValid() {
		return nil, fmt.Errorf("%w: %q on %T", ErrPropertyNotFound, property, owner)
	}
	if !field.CanSet() {
		return nil, fmt.Errorf("%w: %q on %T", ErrPropertyNotSettable, property, owner)
	}

	eval, err := selector.Build(spec, owner, selector.Options{Invoke: cfg.invoke})
	if err != nil {
		return nil, fmt.Errorf("binding %q: %w", property, err)
	}

	sub := &Subscription{
		id:       uuid.New().String(),
		handle:   h,
		property: property,
		eval:     eval,
		field:    field,
	}

	if cfg.notify {
		changed := rv.MethodByName(property + changedSuffix)
		if changed.IsValid() {
			if mt := changed.Type(); mt.NumIn() != 2 || mt.IsVariadic() {
				return nil, fmt.Errorf("%w: %s%s has signature %s", ErrBadChangeHandler, property, changedSuffix, mt)
			}
			sub.changed = changed
		}
	}

	if err := sub.attach(); err != nil {
		return nil, err
	}
	return sub, nil
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Property returns the bound field name.
func (s *Subscription) Property() string {
	return s.property
}

// Active reports whether the subscription is attached and not disposed.
func (s *Subscription) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateAttached
}

// attach registers with the handle and performs the initial evaluation pass.
// The initial pass writes the field but never fires the change handler:
// there is no previous value to have changed from.
func (s *Subscription) attach() error {
	unsub, err := s.handle.Subscribe(s.onNotify)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.unsub = unsub
	s.state = stateAttached
	s.mu.Unlock()

	if state, err := s.handle.GetState(); err == nil {
		s.mu.Lock()
		value := s.eval(state)
		s.prev = value
		s.hasPrev = true
		s.writeField(value)
		s.mu.Unlock()
	}
	return nil
}

// onNotify is the store change listener. It re-evaluates the accessor and
// routes the result through the equality gate. Evaluations are serialized by
// the subscription mutex, so no two are ever in flight at once.
func (s *Subscription) onNotify() {
	s.mu.Lock()
	if s.state != stateAttached {
		s.mu.Unlock()
		return
	}

	state, err := s.handle.GetState()
	if err != nil {
		// Store disappeared between notification and read; no value yet.
		s.mu.Unlock()
		return
	}

	value := s.eval(state)
	if s.hasPrev && selector.Same(s.prev, value) {
		s.mu.Unlock()
		return
	}

	old := s.prev
	hadPrev := s.hasPrev
	s.prev = value
	s.hasPrev = true
	s.writeField(value)
	changed := s.changed
	s.mu.Unlock()

	// The very first delivered value is an initial write, not a change.
	if hadPrev && changed.IsValid() {
		callChanged(changed, value, old)
	}
}

// Dispose releases the store registration exactly once. Notifications that
// race with disposal are ignored; nothing is written after this returns.
func (s *Subscription) Dispose() {
	s.mu.Lock()
	if s.state == stateDisposed {
		s.mu.Unlock()
		return
	}
	s.state = stateDisposed
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// writeField stores the value into the bound field. A nil value resets the
// field to its zero value. Values the field's type cannot hold are dropped;
// declare the field as any (or the selector's result type) to avoid that.
func (s *Subscription) writeField(value any) {
	if value == nil {
		s.field.Set(reflect.Zero(s.field.Type()))
		return
	}
	vv := reflect.ValueOf(value)
	if vv.Type().AssignableTo(s.field.Type()) {
		s.field.Set(vv)
	}
}

// callChanged invokes a <Field>Changed handler, adapting nil arguments to
// the parameter types.
func callChanged(handler reflect.Value, newValue, oldValue any) {
	mt := handler.Type()
	args := make([]reflect.Value, 2)
	for i, v := range []any{newValue, oldValue} {
		if v == nil {
			args[i] = reflect.Zero(mt.In(i))
			continue
		}
		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(mt.In(i)) {
			return
		}
		args[i] = rv
	}
	handler.Call(args)
}
