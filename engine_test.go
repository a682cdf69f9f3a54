package statebind

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dshills/statebind/binding"
	"github.com/dshills/statebind/config"
	"github.com/dshills/statebind/store"
)

// memStore is a minimal synchronous store driven by a reducer.
type memStore struct {
	mu        sync.Mutex
	state     any
	reduce    func(state any, action any) any
	listeners []func()
}

func newMemStore(initial any, reduce func(any, any) any) *memStore {
	return &memStore{state: initial, reduce: reduce}
}

func (m *memStore) GetState() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *memStore) Dispatch(action any) (any, error) {
	m.mu.Lock()
	if m.reduce != nil {
		m.state = m.reduce(m.state, action)
	}
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()

	for _, l := range listeners {
		l()
	}
	return action, nil
}

func (m *memStore) Subscribe(listener func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
	idx := len(m.listeners) - 1
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if idx < len(m.listeners) {
			m.listeners[idx] = func() {}
		}
	}
}

type counterVM struct {
	Count   int
	changes []int
}

func (v *counterVM) CountChanged(newValue, oldValue any) {
	if n, ok := newValue.(int); ok {
		v.changes = append(v.changes, n)
	}
}

func counterReducer(state any, action any) any {
	s, _ := state.(map[string]any)
	act, ok := action.(store.Action)
	if !ok {
		return state
	}
	next := map[string]any{"count": s["count"]}
	switch act.Type {
	case "INCREMENT":
		next["count"] = s["count"].(int) + 1
	case "SET":
		next["count"] = act.Payload
	}
	return next
}

func newCounterStore() *memStore {
	return newMemStore(map[string]any{"count": 0}, counterReducer)
}

func counterBlueprint() *binding.Blueprint {
	return binding.NewBlueprint().
		Property("Count", "count", binding.WithChangeNotify()).
		Method("Increment", "INCREMENT").
		Method("Set", "SET")
}

func TestEngineAttachAndInvoke(t *testing.T) {
	eng := New(WithStore(newCounterStore()))
	if err := eng.Register(&counterVM{}, counterBlueprint()); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	vm := &counterVM{}
	inst, err := eng.Attach(vm)
	if err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	defer inst.Dispose()

	if vm.Count != 0 {
		t.Errorf("initial Count = %d, want 0", vm.Count)
	}

	if _, err := inst.Invoke("Increment"); err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}
	if vm.Count != 1 {
		t.Errorf("Count after increment = %d, want 1", vm.Count)
	}

	if _, err := inst.Invoke("Set", 10); err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}
	if vm.Count != 10 {
		t.Errorf("Count after set = %d, want 10", vm.Count)
	}
	if len(vm.changes) != 2 {
		t.Errorf("change notifications = %v, want [1 10]", vm.changes)
	}
}

func TestEngineUnconfigured(t *testing.T) {
	eng := New()
	if err := eng.Register(&counterVM{}, counterBlueprint()); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	vm := &counterVM{}
	inst, err := eng.Attach(vm)
	if err != nil {
		t.Fatalf("Attach() without store error: %v", err)
	}
	defer inst.Dispose()

	if vm.Count != 0 {
		t.Errorf("Count without store = %d, want untouched zero value", vm.Count)
	}

	if _, err := inst.Invoke("Increment"); !errors.Is(err, store.ErrNotConfigured) {
		t.Errorf("Invoke() without store = %v, want ErrNotConfigured", err)
	}

	// Providing the store brings the binding alive.
	st := newCounterStore()
	st.Dispatch(store.Action{Type: "SET", Payload: 7})
	if err := eng.ProvideStore(st); err != nil {
		t.Fatalf("ProvideStore() error: %v", err)
	}
	if vm.Count != 7 {
		t.Errorf("Count after ProvideStore = %d, want 7", vm.Count)
	}
}

func TestEngineProvideStoreMigrates(t *testing.T) {
	first := newCounterStore()
	eng := New(WithStore(first))
	if err := eng.Register(&counterVM{}, counterBlueprint()); err != nil {
		t.Fatal(err)
	}

	vm := &counterVM{}
	inst, err := eng.Attach(vm)
	if err != nil {
		t.Fatal(err)
	}
	defer inst.Dispose()

	second := newCounterStore()
	second.Dispatch(store.Action{Type: "SET", Payload: 42})
	if err := eng.ProvideStore(second); err != nil {
		t.Fatalf("ProvideStore() error: %v", err)
	}
	if vm.Count != 42 {
		t.Errorf("Count after store swap = %d, want 42", vm.Count)
	}

	// The old store no longer reaches the binding.
	first.Dispatch(store.Action{Type: "SET", Payload: 99})
	if vm.Count != 42 {
		t.Errorf("Count after old-store dispatch = %d, want 42", vm.Count)
	}
}

func TestEngineApplySettings(t *testing.T) {
	eng := New()
	if eng.Handle().Async() {
		t.Fatal("async should be off by default")
	}

	eng.ApplySettings(config.Settings{Async: true})
	if !eng.Handle().Async() {
		t.Error("ApplySettings did not enable async")
	}
}

func TestEngineLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statebind.toml")
	if err := os.WriteFile(path, []byte("async = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	eng := New()
	if err := eng.LoadSettings(path); err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if !eng.Handle().Async() {
		t.Error("LoadSettings did not enable async")
	}
}

func TestEngineWatchSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statebind.toml")
	if err := os.WriteFile(path, []byte("async = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	eng := New()
	err := eng.WatchSettings(path, config.WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("WatchSettings() error: %v", err)
	}
	defer eng.Close()

	if err := os.WriteFile(path, []byte("async = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for !eng.Handle().Async() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for settings reload")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := eng.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if err := eng.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}

func TestEngineDirectBind(t *testing.T) {
	eng := New(WithStore(newCounterStore()))

	vm := &counterVM{}
	sub, err := eng.Bind(vm, "Count", "count")
	if err != nil {
		t.Fatalf("Bind() error: %v", err)
	}
	defer sub.Dispose()

	inc, err := eng.BindMethod(vm, binding.Descriptor{Action: "INCREMENT"})
	if err != nil {
		t.Fatalf("BindMethod() error: %v", err)
	}
	if _, err := inc(); err != nil {
		t.Fatalf("invoker error: %v", err)
	}
	if vm.Count != 1 {
		t.Errorf("Count = %d, want 1", vm.Count)
	}
}
