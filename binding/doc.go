// Package binding connects view-model instances to the store.
//
// A Subscription binds one exported struct field to a value derived from
// store state. It owns exactly one listener registration on the store
// handle, re-evaluates its accessor on every change notification, and writes
// the field only when the equality gate accepts the new value. A binding
// may opt in to change callbacks: when the owner has a method named
// <Field>Changed(newValue, oldValue any), the subscription invokes it after
// every accepted change.
//
// The subscription lifecycle is Detached → Attached → Disposed. Attach
// performs one immediate synchronous evaluation when a store is already
// configured; otherwise the field keeps its zero value until a store is
// provided, at which point the handle's provide pass triggers the first
// evaluation. Dispose releases the listener registration exactly once and is
// safe to call repeatedly. There is no way back from Disposed; re-binding
// creates a new Subscription.
//
// BindMethod is the dispatch-side counterpart: it turns a declarative
// descriptor into an Invoker that builds an action from call arguments and
// forwards it through the handle, with optional action-creator or
// creator-method indirection.
//
// Registry and Blueprint replace annotation-style wiring with an explicit
// descriptor table: register a blueprint per view-model type once, then
// Attach each instance on construction and Dispose the returned Instance on
// teardown.
package binding
