// Package store wraps a single externally owned state store behind a
// late-bindable handle.
//
// The store itself (reducers, action semantics, update ordering) belongs to
// the host application. This package only requires the minimal Store
// contract: read current state, dispatch a mutation request, and subscribe
// to change notifications. A Handle may be created before the application
// has constructed its store; operations signal ErrNotConfigured until
// Provide is called, and listeners registered early are attached
// automatically once a store arrives.
//
// When async mode is enabled, Dispatch also accepts Thunk functions and
// Future values, resolving them to plain actions before the real store
// dispatch runs. With async mode disabled every value is forwarded to the
// store unmodified, which keeps the handle compatible with stores that
// carry their own async middleware.
package store
