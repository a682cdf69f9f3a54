package binding

// Option configures a property binding.
type Option func(*bindConfig)

type bindConfig struct {
	// invoke treats a string accessor spec as a method name on the owner
	// instead of a path into state.
	invoke bool

	// notify invokes the owner's <Field>Changed method after accepted changes.
	notify bool
}

// WithInvoke treats a string accessor spec as the name of a method on the
// owner. The method is called with the current state and may read private
// instance fields.
func WithInvoke() Option {
	return func(c *bindConfig) {
		c.invoke = true
	}
}

// WithChangeNotify invokes <Field>Changed(newValue, oldValue) on the owner
// after every accepted change. A missing method is not an error; the
// callback is simply skipped.
func WithChangeNotify() Option {
	return func(c *bindConfig) {
		c.notify = true
	}
}
