// Package selector normalizes accessor specifications into evaluators and
// decides when a derived value counts as changed.
//
// An accessor spec is one of: a dot-separated path into state, a function of
// state, a function of (owner, state), or the name of a method on the owning
// instance when invoke mode is requested. Build collapses all of these into
// a single Evaluator so subscription code never cares which kind it holds.
//
// Externally memoized selectors are opaque here: an evaluator is called on
// every state change and the Same gate independently decides whether the
// result changed enough to notify. Same is intentionally shallow: memoized
// selectors already return stable references on no-op recomputation, so a
// deeper comparison would duplicate their work.
package selector
