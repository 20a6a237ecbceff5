package taskpool

import (
	"context"
	"sync/atomic"
)

// State is the lifecycle of a submitted task.
type State int32

const (
	Pending State = iota
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Handle tracks one submitted task. It is shared by pointer: every holder
// observes the same state and reads the same result.
type Handle[T any] struct {
	state atomic.Int32
	done  chan struct{}
	value T
	err   error
}

func newHandle[T any]() *Handle[T] {
	return &Handle[T]{done: make(chan struct{})}
}

// finish publishes the outcome. value and err are written before the state
// store, so readers that observe a terminal state also observe them.
func (h *Handle[T]) finish(value T, err error) {
	h.value = value
	h.err = err
	if err != nil {
		h.state.Store(int32(Failed))
	} else {
		h.state.Store(int32(Succeeded))
	}
	close(h.done)
}

// IsComplete reports whether the task reached a terminal state. It never
// blocks.
func (h *Handle[T]) IsComplete() bool {
	return h.State() != Pending
}

func (h *Handle[T]) State() State {
	return State(h.state.Load())
}

// Result returns the task's value once it succeeded.
func (h *Handle[T]) Result() (T, bool) {
	if h.State() != Succeeded {
		var zero T
		return zero, false
	}
	return h.value, true
}

// Err returns why the task failed, or nil.
func (h *Handle[T]) Err() error {
	if h.State() != Failed {
		return nil
	}
	return h.err
}

// Wait blocks until the task completes or ctx is done. Frame code must use
// IsComplete instead.
func (h *Handle[T]) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
