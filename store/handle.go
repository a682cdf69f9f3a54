package store

import (
	"sync"

	"github.com/google/uuid"
)

// Handle is a thin, late-bindable wrapper around one externally supplied
// store. Listeners register against the handle, not the store; the handle
// keeps a single subscription on the active store and fans notifications out
// to its own registry. That indirection is what makes Provide cheap: swapping
// stores re-points one subscription and every registered listener migrates
// with it.
type Handle struct {
	mu        sync.RWMutex
	store     Store
	async     bool
	listeners map[string]func()
	order     []string
	detach    func()
}

// Option configures a Handle.
type Option func(*Handle)

// WithStore provides the store at construction time.
func WithStore(s Store) Option {
	return func(h *Handle) {
		h.store = s
	}
}

// WithAsync enables thunk and future resolution in Dispatch.
func WithAsync(enabled bool) Option {
	return func(h *Handle) {
		h.async = enabled
	}
}

// NewHandle creates a Handle. A store may be supplied now via WithStore or
// later via Provide.
func NewHandle(opts ...Option) *Handle {
	h := &Handle{
		listeners: make(map[string]func()),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.store != nil {
		h.detach = h.store.Subscribe(h.broadcast)
	}
	return h
}

// Configured reports whether a store is currently active.
func (h *Handle) Configured() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.store != nil
}

// Async reports whether async dispatch resolution is enabled.
func (h *Handle) Async() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.async
}

// SetAsync enables or disables async dispatch resolution.
func (h *Handle) SetAsync(enabled bool) {
	h.mu.Lock()
	h.async = enabled
	h.mu.Unlock()
}

// Provide installs a store, replacing any prior one. Listeners already
// registered on the handle migrate to the new store, and one synchronous
// notification pass runs so they re-evaluate against the new state
// immediately rather than waiting for its next change.
func (h *Handle) Provide(s Store) error {
	if s == nil {
		return ErrNilStore
	}

	h.mu.Lock()
	if h.detach != nil {
		h.detach()
	}
	h.store = s
	h.detach = s.Subscribe(h.broadcast)
	h.mu.Unlock()

	h.broadcast()
	return nil
}

// GetState returns the current state snapshot, or ErrNotConfigured when no
// store has been provided.
func (h *Handle) GetState() (any, error) {
	h.mu.RLock()
	s := h.store
	h.mu.RUnlock()

	if s == nil {
		return nil, ErrNotConfigured
	}
	return s.GetState(), nil
}

// State is a GetState adapter that swallows the not-configured case,
// suitable for handing to thunks.
func (h *Handle) State() any {
	state, err := h.GetState()
	if err != nil {
		return nil
	}
	return state
}

// Dispatch forwards an action to the store. With async mode enabled, thunks
// and futures are resolved first (see resolve). Returns ErrNotConfigured
// when no store has been provided.
func (h *Handle) Dispatch(action any) (any, error) {
	h.mu.RLock()
	s := h.store
	async := h.async
	h.mu.RUnlock()

	if s == nil {
		return nil, ErrNotConfigured
	}
	if async {
		return h.resolve(action)
	}
	return s.Dispatch(action)
}

// Subscribe registers a listener invoked after every state change of the
// active store. Listeners registered before a store exists are retained and
// begin receiving notifications once Provide is called. The returned
// Unsubscribe is idempotent.
func (h *Handle) Subscribe(listener func()) (Unsubscribe, error) {
	if listener == nil {
		return nil, ErrNilListener
	}

	h.mu.Lock()
	id := uuid.New().String()
	h.listeners[id] = listener
	h.order = append(h.order, id)
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.remove(id)
		})
	}, nil
}

// ListenerCount returns the number of registered listeners.
func (h *Handle) ListenerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

func (h *Handle) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.listeners, id)
	for i, lid := range h.order {
		if lid == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// broadcast delivers one notification to every listener in registration
// order. Listeners run outside the lock so they may unsubscribe or dispatch.
func (h *Handle) broadcast() {
	h.mu.RLock()
	snapshot := make([]func(), 0, len(h.order))
	for _, id := range h.order {
		if fn, ok := h.listeners[id]; ok {
			snapshot = append(snapshot, fn)
		}
	}
	h.mu.RUnlock()

	for _, fn := range snapshot {
		fn()
	}
}

// rawDispatch sends an action straight to the active store, bypassing async
// resolution. Used as the final hop once a payload has been resolved.
func (h *Handle) rawDispatch(action any) (any, error) {
	h.mu.RLock()
	s := h.store
	h.mu.RUnlock()

	if s == nil {
		return nil, ErrNotConfigured
	}
	return s.Dispatch(action)
}
