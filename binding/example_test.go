package binding_test

import (
	"fmt"
	"sync"

	"github.com/dshills/statebind/binding"
	"github.com/dshills/statebind/store"
)

// exampleStore is a tiny reducer-driven store for the examples.
type exampleStore struct {
	mu        sync.Mutex
	state     map[string]any
	listeners []func()
}

func (s *exampleStore) GetState() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *exampleStore) Dispatch(action any) (any, error) {
	act := action.(store.Action)
	s.mu.Lock()
	if act.Type == "SET_NAME" {
		s.state = map[string]any{"activeUser": map[string]any{"name": act.Payload}}
	}
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
	return action, nil
}

func (s *exampleStore) Subscribe(listener func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
	return func() {}
}

type profileVM struct {
	Name string
}

func Example() {
	app := &exampleStore{state: map[string]any{"activeUser": map[string]any{"name": "Sven"}}}
	h := store.NewHandle(store.WithStore(app))

	registry := binding.NewRegistry(h)
	registry.Register(&profileVM{}, binding.NewBlueprint().
		Property("Name", "activeUser.name").
		Method("SetName", "SET_NAME"))

	vm := &profileVM{}
	inst, _ := registry.Attach(vm)
	defer inst.Dispose()

	fmt.Println(vm.Name)
	inst.Invoke("SetName", "Fran")
	fmt.Println(vm.Name)
	// Output:
	// Sven
	// Fran
}
