package config

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler receives freshly parsed settings after the file changes.
type Handler func(Settings)

// ErrorHandler receives read or parse failures during reload. The previous
// settings stay in effect when a reload fails.
type ErrorHandler func(error)

// Watcher monitors one settings file and reports debounced reloads.
// The parent directory is watched rather than the file itself so that
// editors using write-rename cycles keep triggering events.
type Watcher struct {
	mu      sync.Mutex
	path    string
	fsw     *fsnotify.Watcher
	handler Handler
	onError ErrorHandler

	debounce time.Duration
	pending  *time.Timer

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets the callback for reload failures.
func WithErrorHandler(h ErrorHandler) WatcherOption {
	return func(w *Watcher) {
		w.onError = h
	}
}

// Watch starts monitoring a settings file. The handler is invoked with the
// newly parsed settings after each debounced change.
func Watch(path string, handler Handler, opts ...WatcherOption) (*Watcher, error) {
	if _, err := FormatForPath(path); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		fsw:      fsw,
		handler:  handler,
		debounce: 250 * time.Millisecond,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Reload re-reads the settings file immediately, bypassing the debounce.
// Returns ErrWatcherClosed after Close.
func (w *Watcher) Reload() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.mu.Unlock()

	return w.reload()
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// loop routes fsnotify events for the watched file into debounced reloads.
func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

// schedule arms (or re-arms) the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, func() {
		// A timer racing Close loses silently; nothing fires after Close.
		if err := w.reload(); err != nil && !errors.Is(err, ErrWatcherClosed) {
			w.reportError(err)
		}
	})
}

// reload re-reads the file and hands the result to the handler.
func (w *Watcher) reload() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	handler := w.handler
	w.mu.Unlock()

	settings, err := Load(w.path)
	if err != nil {
		return err
	}
	if handler != nil {
		handler(settings)
	}
	return nil
}

func (w *Watcher) reportError(err error) {
	w.mu.Lock()
	onError := w.onError
	w.mu.Unlock()

	if onError != nil {
		onError(err)
	}
}
