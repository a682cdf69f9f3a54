package store

import "context"

// resolve unwraps an async dispatch payload before it reaches the real
// store. Reachable only when async mode is enabled.
//
// Plain values are forwarded unchanged. Thunks are invoked with the handle's
// dispatch and a state reader; the thunk performs its own dispatch calls and
// its return value is never dispatched. Futures are awaited in the
// background: the resolved value feeds back through resolve (so a future may
// yield an action, a thunk, or another future), and the returned Completable
// carries the eventual result or rejection to the original dispatch caller.
func (h *Handle) resolve(value any) (any, error) {
	switch v := value.(type) {
	case Thunk:
		return nil, v(h.Dispatch, h.State)
	case func(dispatch DispatchFunc, getState GetState) error:
		return nil, v(h.Dispatch, h.State)
	case Future:
		return h.awaitAndResolve(v), nil
	default:
		return h.rawDispatch(value)
	}
}

// awaitAndResolve settles the returned future with the outcome of resolving
// the awaited value. Control returns to the caller immediately; a rejection
// never mutates the store.
func (h *Handle) awaitAndResolve(f Future) *Completable {
	result := NewCompletable()
	go func() {
		value, err := f.Await(context.Background())
		if err != nil {
			result.Reject(err)
			return
		}
		resolved, err := h.resolve(value)
		if err != nil {
			result.Reject(err)
			return
		}
		result.Complete(resolved)
	}()
	return result
}
