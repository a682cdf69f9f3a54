// Package statebind binds plain Go structs to an external Redux-style store.
//
// The Engine is the top-level entry point. It owns a store handle that can be
// configured before or after bindings exist, a registry of binding blueprints
// keyed by owner type, and an optional settings file with live reload.
//
// Typical use:
//
//	eng := statebind.New(statebind.WithStore(appStore))
//	eng.Register(&ProfileVM{}, binding.NewBlueprint().
//		Property("FullName", "activeUser.name").
//		Method("SetName", "SET_NAME"))
//
//	vm := &ProfileVM{}
//	inst, err := eng.Attach(vm)
//
// Subpackages hold the moving parts: store wraps the external store and
// resolves thunks and futures, selector turns binding specs into state
// accessors, binding implements property subscriptions and dispatch methods,
// and config loads engine settings from disk.
package statebind
