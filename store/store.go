package store

import "context"

// Store is the minimal contract the external state container must satisfy.
// A single store instance is shared by every binding in the process.
type Store interface {
	// GetState returns the current state snapshot. The value is not copied.
	GetState() any

	// Dispatch submits a mutation request. The return value is whatever the
	// store chooses to return (commonly the action itself).
	Dispatch(action any) (any, error)

	// Subscribe registers a listener invoked with no arguments after every
	// state change. The returned function removes the listener.
	Subscribe(listener func()) (unsubscribe func())
}

// Action is the minimal dispatched action shape. Everything beyond Type is
// owned by the caller and the store's reducers; this package never
// interprets Payload.
type Action struct {
	Type    string
	Payload any
}

// DispatchFunc dispatches an action through a Handle.
type DispatchFunc func(action any) (any, error)

// GetState reads the current state. Returns nil when no store is configured.
type GetState func() any

// Unsubscribe removes a listener registration. Safe to call more than once;
// calls after the first are no-ops.
type Unsubscribe func()

// Thunk is a deferred dispatch payload accepted in async mode. The thunk is
// invoked with a dispatch function and a state reader and is expected to
// perform its own dispatch calls, zero or more times. Its return value is
// never dispatched automatically.
type Thunk func(dispatch DispatchFunc, getState GetState) error

// Future is an asynchronously produced dispatch payload. In async mode the
// handle awaits the future in the background and recursively resolves the
// produced value (action, thunk, or another future). A rejection propagates
// to the dispatch caller; the store is never touched.
type Future interface {
	Await(ctx context.Context) (any, error)
}
