package store

import "errors"

// Sentinel errors for the store handle.
var (
	// ErrNotConfigured is returned when an operation requiring a store runs
	// before one has been provided. Bindings treat this as "no value yet"
	// rather than a failure.
	ErrNotConfigured = errors.New("no store has been provided")

	// ErrNilStore is returned when Provide is called with a nil store.
	ErrNilStore = errors.New("store cannot be nil")

	// ErrNilListener is returned when Subscribe is called with a nil listener.
	ErrNilListener = errors.New("listener cannot be nil")
)
