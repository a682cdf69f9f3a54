package binding

import "errors"

// Sentinel errors for binding attachment. All of these indicate programming
// mistakes in binding declarations; they surface at attach time and are
// never produced by a store notification.
var (
	// ErrNilHandle is returned when a binding is created without a store handle.
	ErrNilHandle = errors.New("store handle cannot be nil")

	// ErrNilOwner is returned when a binding is created without an owner.
	ErrNilOwner = errors.New("owner cannot be nil")

	// ErrNotPointerToStruct is returned when the owner is not a pointer to a
	// struct, which property writes require.
	ErrNotPointerToStruct = errors.New("owner must be a pointer to a struct")

	// ErrPropertyNotFound is returned when the named field does not exist on
	// the owner.
	ErrPropertyNotFound = errors.New("owner has no such field")

	// ErrPropertyNotSettable is returned when the named field cannot be set
	// (unexported).
	ErrPropertyNotSettable = errors.New("field is not settable")

	// ErrInvalidDescriptor is returned when a dispatch descriptor carries an
	// action spec that is neither a string type nor a creator function.
	ErrInvalidDescriptor = errors.New("action spec must be a string action type or a creator function")

	// ErrCreatorMethodNotFound is returned when a descriptor names a creator
	// method the owner does not have.
	ErrCreatorMethodNotFound = errors.New("owner has no such creator method")

	// ErrBadCreatorMethod is returned when a creator method does not accept
	// a dispatch function as its first parameter.
	ErrBadCreatorMethod = errors.New("creator method must take a dispatch function first")

	// ErrBadChangeHandler is returned when a <Field>Changed method exists but
	// does not accept (newValue, oldValue).
	ErrBadChangeHandler = errors.New("change handler must take (newValue, oldValue)")

	// ErrArgumentMismatch is returned when a dispatch-bound method is invoked
	// with arguments the creator cannot accept.
	ErrArgumentMismatch = errors.New("arguments do not match the creator signature")

	// ErrNotRegistered is returned when attaching an owner whose type has no
	// registered blueprint.
	ErrNotRegistered = errors.New("no blueprint registered for owner type")

	// ErrUnknownMethod is returned when invoking a method name the blueprint
	// does not declare.
	ErrUnknownMethod = errors.New("no dispatch binding with that name")
)
