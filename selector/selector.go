package selector

import (
	"fmt"
	"reflect"
)

// Func is a pure selector over state. Memoized selectors from external
// libraries satisfy this shape; whether they recompute is their business.
type Func func(state any) any

// OwnerFunc is a selector that also receives the owning instance, for
// derivations that close over per-instance data.
type OwnerFunc func(owner, state any) any

// Evaluator derives a value from the current state. Evaluators never fail:
// missing data resolves to nil.
type Evaluator func(state any) any

// Options adjusts how a spec is interpreted.
type Options struct {
	// Invoke treats a string spec as the name of a method on the owner
	// rather than a path into state.
	Invoke bool
}

// Build normalizes an accessor spec into an Evaluator. The owner is required
// only for invoke-mode and owner-function specs. Invalid specs are rejected
// here, at attach time, so evaluation stays error-free.
func Build(spec any, owner any, opts Options) (Evaluator, error) {
	switch s := spec.(type) {
	case nil:
		return nil, ErrNilSpec

	case string:
		if opts.Invoke {
			return methodEvaluator(owner, s)
		}
		path := s
		return func(state any) any {
			value, _ := Resolve(state, path)
			return value
		}, nil

	case Func:
		return func(state any) any { return s(state) }, nil

	case func(state any) any:
		return func(state any) any { return s(state) }, nil

	case OwnerFunc:
		o := owner
		return func(state any) any { return s(o, state) }, nil

	case func(owner, state any) any:
		o := owner
		return func(state any) any { return s(o, state) }, nil

	default:
		return reflectedFuncEvaluator(spec)
	}
}

// reflectedFuncEvaluator adapts typed selector functions, e.g.
// func(AppState) []string, without requiring the any-based shapes above.
func reflectedFuncEvaluator(spec any) (Evaluator, error) {
	fv := reflect.ValueOf(spec)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidSpec, spec)
	}
	ft := fv.Type()
	if ft.NumIn() != 1 || ft.NumOut() != 1 || ft.IsVariadic() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidSpec, ft)
	}

	in := ft.In(0)
	return func(state any) any {
		arg := reflect.ValueOf(state)
		if !arg.IsValid() {
			arg = reflect.Zero(in)
		} else if !arg.Type().AssignableTo(in) {
			return nil
		}
		return fv.Call([]reflect.Value{arg})[0].Interface()
	}, nil
}

// methodEvaluator resolves a named method on the owner and calls it with the
// state. The method stays bound to the owner, so it may read private
// instance fields the way a pure function of state cannot.
func methodEvaluator(owner any, name string) (Evaluator, error) {
	if owner == nil {
		return nil, fmt.Errorf("%w: accessor method %q", ErrOwnerRequired, name)
	}

	method := reflect.ValueOf(owner).MethodByName(name)
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %q on %T", ErrMethodNotFound, name, owner)
	}

	mt := method.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.IsVariadic() {
		return nil, fmt.Errorf("%w: %q has signature %s", ErrBadMethodShape, name, mt)
	}

	in := mt.In(0)
	return func(state any) any {
		arg := reflect.ValueOf(state)
		if !arg.IsValid() {
			arg = reflect.Zero(in)
		} else if !arg.Type().AssignableTo(in) {
			return nil
		}
		return method.Call([]reflect.Value{arg})[0].Interface()
	}, nil
}
