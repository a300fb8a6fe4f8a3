// Package lazy provides a process-wide value that is built on first use.
//
// At most one initialization runs at a time. Callers that arrive while it is
// in flight wait for its outcome instead of starting their own. A failed
// initialization is not cached: the next caller tries again.
package lazy

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Get after Close.
var ErrClosed = errors.New("lazy value closed")

// Value holds a lazily built T.
type Value[T any] struct {
	build   func(ctx context.Context) (T, error)
	release func(T) error

	mu     sync.Mutex
	val    T
	ready  bool
	closed bool
	inFly  chan struct{}
}

// New returns a Value that calls build on first use. release, if non-nil,
// runs on Close when a value was built.
func New[T any](build func(ctx context.Context) (T, error), release func(T) error) *Value[T] {
	return &Value[T]{build: build, release: release}
}

// Get returns the value, building it if needed.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	var zero T
	for {
		v.mu.Lock()
		switch {
		case v.closed:
			v.mu.Unlock()
			return zero, ErrClosed
		case v.ready:
			val := v.val
			v.mu.Unlock()
			return val, nil
		case v.inFly != nil:
			wait := v.inFly
			v.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		done := make(chan struct{})
		v.inFly = done
		v.mu.Unlock()

		val, err := v.build(ctx)

		v.mu.Lock()
		v.inFly = nil
		if err == nil {
			if v.closed {
				v.mu.Unlock()
				close(done)
				if v.release != nil {
					_ = v.release(val)
				}
				return zero, ErrClosed
			}
			v.val = val
			v.ready = true
		}
		v.mu.Unlock()
		close(done)

		if err != nil {
			return zero, err
		}
		return val, nil
	}
}

// Ready reports whether the value has been built.
func (v *Value[T]) Ready() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ready
}

// Close releases the built value, if any. Later Get calls fail with ErrClosed.
func (v *Value[T]) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	val, ready := v.val, v.ready
	var zero T
	v.val = zero
	v.ready = false
	v.mu.Unlock()

	if ready && v.release != nil {
		return v.release(val)
	}
	return nil
}
