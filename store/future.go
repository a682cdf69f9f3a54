package store

import (
	"context"
	"sync"
)

// Completable is a single-assignment Future. Complete or Reject may be
// called once; later calls are ignored. Await blocks until the value is
// settled or the context is cancelled.
type Completable struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error
}

// NewCompletable creates an unsettled Completable.
func NewCompletable() *Completable {
	return &Completable{done: make(chan struct{})}
}

// Complete settles the future with a value.
func (c *Completable) Complete(value any) {
	c.once.Do(func() {
		c.value = value
		close(c.done)
	})
}

// Reject settles the future with an error.
func (c *Completable) Reject(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Await implements Future.
func (c *Completable) Await(ctx context.Context) (any, error) {
	select {
	case <-c.done:
		return c.value, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Settled reports whether the future has been completed or rejected.
func (c *Completable) Settled() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

var _ Future = (*Completable)(nil)
