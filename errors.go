// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package tickstream

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrPoolClosed is returned when spawning into, or driving, a pool that
	// has been closed.
	ErrPoolClosed = errors.New("tickstream: pool is closed")

	// ErrReentrantRun is returned when the pool is driven (or closed) from
	// within one of its own tasks.
	ErrReentrantRun = errors.New("tickstream: cannot drive the pool from within a task")

	// ErrTickBudgetExceeded is returned by [Pool.RunUntilStalled] when the
	// configured tick budget is exhausted, see [WithTickBudget].
	ErrTickBudgetExceeded = errors.New("tickstream: tick budget exceeded")

	// ErrTaskTerminated is the result of a task that was still in flight when
	// its pool was closed.
	ErrTaskTerminated = errors.New("tickstream: task terminated")

	// ErrNotInTask is the panic value used when a suspension point is reached
	// outside the task that owns it.
	ErrNotInTask = errors.New("tickstream: not called from the owning task")

	// ErrDriverRunning is returned by [Driver.Run] if it is already running.
	ErrDriverRunning = errors.New("tickstream: driver is already running")
)

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("tickstream: task panicked: %v", e.Value)
}

// Unwrap returns the panic value, if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// TaskError identifies the task that failed, under the [AbortOnError]
// policy.
type TaskError struct {
	Err error
	ID  uint64
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	return fmt.Sprintf("tickstream: task %d failed: %v", e.ID, e.Err)
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *TaskError) Unwrap() error {
	return e.Err
}
