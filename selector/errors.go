package selector

import "errors"

// Sentinel errors reported while building evaluators. All of these indicate
// programming mistakes in binding declarations and surface at attach time,
// never during evaluation.
var (
	// ErrNilSpec is returned when no accessor spec is given.
	ErrNilSpec = errors.New("accessor spec cannot be nil")

	// ErrInvalidSpec is returned when the spec is neither a string nor a
	// usable function.
	ErrInvalidSpec = errors.New("accessor spec must be a string path, method name, or function of state")

	// ErrOwnerRequired is returned when an invoke-mode spec is built without
	// an owning instance.
	ErrOwnerRequired = errors.New("invoke mode requires an owning instance")

	// ErrMethodNotFound is returned when an invoke-mode spec names a method
	// the owner does not have.
	ErrMethodNotFound = errors.New("owner has no method with that name")

	// ErrBadMethodShape is returned when a named accessor method does not
	// take exactly one argument and return exactly one value.
	ErrBadMethodShape = errors.New("accessor method must take the state and return a single value")
)
