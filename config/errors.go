package config

import "errors"

// Sentinel errors for settings loading and watching.
var (
	// ErrUnknownFormat is returned when the file extension does not map to a
	// supported settings format.
	ErrUnknownFormat = errors.New("unknown settings format")

	// ErrWatcherClosed is returned when operating on a closed watcher.
	ErrWatcherClosed = errors.New("settings watcher is closed")
)

// ParseError wraps a format-level parse failure with its source path.
type ParseError struct {
	// Path is the file the settings came from, or "<data>" for raw bytes.
	Path string

	// Err is the underlying decoder error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return "parsing settings " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
