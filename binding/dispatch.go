package binding

import (
	"fmt"
	"reflect"

	"github.com/dshills/statebind/store"
)

// Descriptor declares a dispatch-bound method.
type Descriptor struct {
	// Action is either a string action type or a creator function producing
	// an action from the invocation arguments. Ignored when CreatorMethod is
	// set.
	Action any

	// CreatorMethod optionally names a method on the owner that receives a
	// pre-bound dispatch function followed by the invocation arguments and
	// is solely responsible for producing and forwarding the final action.
	CreatorMethod string
}

// Invoker is a bound dispatch method. Errors from the store or from async
// resolution propagate to the caller unchanged; nothing is retried or
// swallowed here.
type Invoker func(args ...any) (any, error)

// Creator is the plain action-creator function shape.
type Creator func(args ...any) any

var dispatchFuncType = reflect.TypeOf(store.DispatchFunc(nil))

// BindMethod turns a Descriptor into an Invoker against the given handle.
// Descriptor shape problems are detected here, not at invocation time.
func BindMethod(h *store.Handle, owner any, d Descriptor) (Invoker, error) {
	if h == nil {
		return nil, ErrNilHandle
	}

	if d.CreatorMethod != "" {
		return bindCreatorMethod(h, owner, d.CreatorMethod)
	}

	switch action := d.Action.(type) {
	case string:
		actionType := action
		return func(args ...any) (any, error) {
			act := store.Action{Type: actionType}
			if len(args) > 0 {
				act.Payload = args[0]
			}
			return h.Dispatch(act)
		}, nil

	case Creator:
		return creatorInvoker(h, func(args []any) (any, error) { return action(args...), nil }), nil

	case func(args ...any) any:
		return creatorInvoker(h, func(args []any) (any, error) { return action(args...), nil }), nil

	default:
		return bindTypedCreator(h, d.Action)
	}
}

// creatorInvoker dispatches whatever the creator produced.
func creatorInvoker(h *store.Handle, create func(args []any) (any, error)) Invoker {
	return func(args ...any) (any, error) {
		action, err := create(args)
		if err != nil {
			return nil, err
		}
		return h.Dispatch(action)
	}
}

// bindTypedCreator adapts creator functions with typed parameters, e.g.
// func(name string) store.Action.
func bindTypedCreator(h *store.Handle, spec any) (Invoker, error) {
	fv := reflect.ValueOf(spec)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidDescriptor, spec)
	}
	if fv.Type().NumOut() != 1 {
		return nil, fmt.Errorf("%w: creator must return the action, got %s", ErrInvalidDescriptor, fv.Type())
	}

	return creatorInvoker(h, func(args []any) (any, error) {
		in, err := buildArgs(fv.Type(), 0, args)
		if err != nil {
			return nil, err
		}
		return fv.Call(in)[0].Interface(), nil
	}), nil
}

// bindCreatorMethod delegates action construction to a method on the owner.
// The method receives the handle's dispatch (no action-creator applied)
// followed by the caller's arguments, and its result is returned as-is; the
// method itself decides what, if anything, to dispatch.
func bindCreatorMethod(h *store.Handle, owner any, name string) (Invoker, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}

	method := reflect.ValueOf(owner).MethodByName(name)
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %q on %T", ErrCreatorMethodNotFound, name, owner)
	}

	mt := method.Type()
	if mt.NumIn() < 1 || !dispatchFuncType.AssignableTo(mt.In(0)) {
		return nil, fmt.Errorf("%w: %q has signature %s", ErrBadCreatorMethod, name, mt)
	}

	dispatch := store.DispatchFunc(h.Dispatch)
	return func(args ...any) (any, error) {
		in, err := buildArgs(mt, 1, args)
		if err != nil {
			return nil, err
		}
		in = append([]reflect.Value{reflect.ValueOf(dispatch)}, in...)
		return unpackResults(method.Call(in))
	}, nil
}

// buildArgs converts invocation arguments to the function's parameter types,
// starting at parameter offset.
func buildArgs(ft reflect.Type, offset int, args []any) ([]reflect.Value, error) {
	fixed := ft.NumIn() - offset
	if ft.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("%w: want at least %d args, got %d", ErrArgumentMismatch, fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("%w: want %d args, got %d", ErrArgumentMismatch, fixed, len(args))
	}

	in := make([]reflect.Value, 0, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if ft.IsVariadic() && i >= fixed {
			pt = ft.In(ft.NumIn() - 1).Elem()
		} else {
			pt = ft.In(i + offset)
		}

		if arg == nil {
			in = append(in, reflect.Zero(pt))
			continue
		}
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("%w: arg %d is %T, want %s", ErrArgumentMismatch, i, arg, pt)
		}
		in = append(in, av)
	}
	return in, nil
}

// unpackResults maps reflected return values onto (any, error): a trailing
// error return propagates, the first remaining value is the result.
func unpackResults(out []reflect.Value) (any, error) {
	var result any
	var err error
	for i, v := range out {
		if i == len(out)-1 && v.Type().Implements(errorType) {
			if !v.IsNil() {
				err = v.Interface().(error)
			}
			continue
		}
		if result == nil {
			result = v.Interface()
		}
	}
	return result, err
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
