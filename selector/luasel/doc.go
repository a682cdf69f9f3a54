// Package luasel compiles Lua scripts into selectors over store state.
//
// A script sees the current state as the global `state` (tables for maps,
// structs, and slices) and returns the derived value:
//
//	sel, err := luasel.Compile(`return state.activeUser.name`)
//	...
//	binding.Bind(h, vm, "Name", sel.Func())
//
// Scripts are evaluated on every state change like any other selector; a
// script that errors at runtime yields nil and records the error on the
// Selector. Lua states are not goroutine-safe, so each Selector serializes
// its evaluations behind a mutex.
package luasel
