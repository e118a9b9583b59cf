// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package tickstream

import (
	"context"
	"time"
)

// TaskContext couples a [Stream] with the [Pool] it was spawned into, bound to
// a single task. Each task gets its own TaskContext, but every one spawned
// (transitively) from the same root shares the same mailbox and pool.
//
// The methods that suspend (or that require the baton) must only be called
// by the owning task.
type TaskContext[E any] struct {
	stream Stream[E]
	pool   *Pool
}

// NewTaskContext spawns fn as a new task in pool, giving it a TaskContext
// over mailbox. Most callers will want [Driver.Run] instead, which calls
// this for the root task.
func NewTaskContext[E any](pool *Pool, mailbox *Mailbox[E], fn func(tc *TaskContext[E]) error) (*Task, error) {
	if pool == nil {
		panic(`tickstream: nil pool`)
	}
	return spawnContext(pool, StreamOf(mailbox), fn)
}

func spawnContext[E any](pool *Pool, stream Stream[E], fn func(tc *TaskContext[E]) error) (*Task, error) {
	if fn == nil {
		panic(`tickstream: nil task func`)
	}
	return pool.Spawn(func(t *Task) error {
		return fn(&TaskContext[E]{stream: stream.Bind(t), pool: pool})
	})
}

// Spawn launches fn as a new task, with its own TaskContext sharing this
// one's mailbox and pool. The new task first runs after the current task
// next suspends.
//
// Returns [ErrPoolClosed] if the pool has been closed.
func (tc *TaskContext[E]) Spawn(fn func(tc *TaskContext[E]) error) (*Task, error) {
	return spawnContext(tc.pool, tc.stream, fn)
}

// Dispatch pushes a synthetic event onto the shared mailbox. Once queued, it
// is indistinguishable from events delivered by the platform.
func (tc *TaskContext[E]) Dispatch(event E) {
	tc.stream.task.mustBeCurrent()
	tc.stream.mailbox.Push(event)
}

// Stream returns the shared event stream, bound to the owning task.
func (tc *TaskContext[E]) Stream() *Stream[E] { return &tc.stream }

// Task returns the owning task.
func (tc *TaskContext[E]) Task() *Task { return tc.stream.task }

// Pool returns the pool the owning task belongs to.
func (tc *TaskContext[E]) Pool() *Pool { return tc.pool }

// Context returns the owning task's cancellation token, see [Task.Context].
func (tc *TaskContext[E]) Context() context.Context { return tc.stream.task.Context() }

// Sleep parks the owning task for (at least) d.
func (tc *TaskContext[E]) Sleep(d time.Duration) { tc.stream.task.Sleep(d) }

// Yield parks the owning task, letting other runnable tasks run first.
func (tc *TaskContext[E]) Yield() { tc.stream.task.Yield() }

func (tc *TaskContext[E]) awaitingTask() *Task { return tc.stream.task }
