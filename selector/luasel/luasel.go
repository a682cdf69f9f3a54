package luasel

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/statebind/selector"
)

// ErrSelectorClosed is returned when evaluating a closed selector.
var ErrSelectorClosed = errors.New("lua selector is closed")

// Selector is a compiled Lua script usable as an accessor spec.
type Selector struct {
	mu      sync.Mutex
	state   *lua.LState
	fn      *lua.LFunction
	lastErr error
	closed  bool
}

// Compile parses and compiles a Lua script. The script runs with the store
// state bound to the global `state` and should return the derived value.
func Compile(src string) (*Selector, error) {
	L := lua.NewState()

	fn, err := L.LoadString(src)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("luasel: compile: %w", err)
	}

	return &Selector{state: L, fn: fn}, nil
}

// Evaluate runs the script against the given state. Evaluation failures
// yield nil; the error is retrievable through Err until the next successful
// evaluation.
func (s *Selector) Evaluate(state any) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.lastErr = ErrSelectorClosed
		return nil
	}

	L := s.state
	L.SetGlobal("state", toLua(L, state))
	L.Push(s.fn)
	if err := L.PCall(0, 1, nil); err != nil {
		s.lastErr = fmt.Errorf("luasel: evaluate: %w", err)
		return nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	s.lastErr = nil
	return toGo(ret)
}

// Func adapts the selector to the plain function spec shape.
func (s *Selector) Func() selector.Func {
	return s.Evaluate
}

// Err returns the error from the most recent evaluation, if any.
func (s *Selector) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close releases the underlying Lua state. Evaluations after Close yield nil.
func (s *Selector) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.state.Close()
}
