package dispatch

import (
	"context"
	"fmt"
	"sync"
)

// Future is a value that becomes available later. It settles exactly once,
// either with a value or with an error.
type Future struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error
}

// NewFuture returns a pending future and the function that settles it.
// Only the first call to settle has any effect.
func NewFuture() (*Future, func(value any, err error)) {
	f := &Future{done: make(chan struct{})}
	return f, f.settle
}

// Go runs fn on a new goroutine and returns a future for its result.
// A panic in fn rejects the future.
func Go(fn func() (any, error)) *Future {
	f, settle := NewFuture()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				settle(nil, fmt.Errorf("deferred handler panicked: %v", r))
			}
		}()
		settle(fn())
	}()
	return f
}

// Resolved returns a future already settled with value.
func Resolved(value any) *Future {
	f, settle := NewFuture()
	settle(value, nil)
	return f
}

// Rejected returns a future already settled with err.
func Rejected(err error) *Future {
	f, settle := NewFuture()
	settle(nil, err)
	return f
}

func (f *Future) settle(value any, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
