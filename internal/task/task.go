// Package task provides a small awaitable wrapper around background
// filesystem work.
//
// Scans, reads, writes, and deletes may block on real I/O (especially over a
// cloud-synced filesystem) and must never run on the thread driving UI
// responsiveness. Each task is independent; the expected concurrency is "at
// most one user-initiated operation at a time", so there is no pool and no
// queue. A task cannot be cancelled once started — a write in flight runs to
// completion — but its result may simply be discarded by awaiting with an
// already-cancelled context or by never awaiting at all.
package task

import (
	"context"
	"fmt"
)

// Task is an in-flight background computation producing a T.
type Task[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go starts fn on its own goroutine and returns its task handle.
func Go[T any](fn func() (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}

	go func() {
		defer close(t.done)

		t.val, t.err = fn()
	}()

	return t
}

// Await blocks until the task completes or ctx is done. Awaiting after
// completion returns the same result; abandoning the await does not stop the
// underlying work.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T

		return zero, fmt.Errorf("awaiting task: %w", ctx.Err())
	}
}

// Done reports whether the task has completed without blocking.
func (t *Task[T]) Done() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
