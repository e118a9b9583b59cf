// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package tickstream

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/joeycumines/goroutineid"
)

// Task is a cooperative computation, owned by a [Pool]. It also serves as
// the task's [Waker], and as a handle to observe or cancel it.
type Task struct { // betteralign:ignore
	// Prevent copying
	_ [0]func()

	pool *Pool

	ctx      context.Context
	cancel   context.CancelCauseFunc
	stopWake func() bool

	// resume receives true to run, or false to terminate
	resume chan bool

	// guarded by pool.mu
	joiners map[*joinFuture]struct{}
	err     error

	id uint64

	// goroutine is the ID of the goroutine running the task
	goroutine atomic.Int64

	// guarded by pool.mu
	queued   bool
	finished bool

	// only accessed by the task's own goroutine
	terminating bool
}

func newTask(p *Pool, id uint64) *Task {
	ctx, cancel := context.WithCancelCause(p.ctx)
	t := &Task{
		pool:   p,
		ctx:    ctx,
		cancel: cancel,
		resume: make(chan bool),
		id:     id,
	}
	t.stopWake = context.AfterFunc(ctx, t.Wake)
	return t
}

// ID returns the task's identifier, unique within its pool, starting at 1.
func (t *Task) ID() uint64 { return t.id }

// Context returns the task's cancellation token. It is cancelled by
// [Task.Cancel], by [Pool.Close], or once the task has finished.
func (t *Task) Context() context.Context { return t.ctx }

// Cancel cancels the task's context, and wakes it, so it may observe the
// cancellation. Cancellation is cooperative, see [Cancelled].
func (t *Task) Cancel() {
	t.cancel(context.Canceled)
	t.Wake()
}

// Wake makes the task runnable, if it is not already queued or finished.
// It is safe to call from any goroutine.
func (t *Task) Wake() { t.pool.wake(t) }

// Done reports whether the task has finished.
func (t *Task) Done() bool {
	t.pool.mu.Lock()
	defer t.pool.mu.Unlock()
	return t.finished
}

// Err returns the error the task finished with, or nil if it succeeded, or
// has not finished.
func (t *Task) Err() error {
	t.pool.mu.Lock()
	defer t.pool.mu.Unlock()
	return t.err
}

// Join returns a future that completes with the task's error, once it has
// finished.
func (t *Task) Join() Future[error] {
	return &joinFuture{task: t}
}

// Yield parks the task, letting any other runnable tasks run first.
func (t *Task) Yield() {
	t.mustBeCurrent()
	t.Wake()
	t.park()
}

// Sleep parks the task for (at least) d.
func (t *Task) Sleep(d time.Duration) {
	timer := After(d)
	defer timer.Stop()
	Await(t, timer)
}

func (t *Task) awaitingTask() *Task { return t }

// mustBeCurrent panics unless called by t's own goroutine, while t holds
// the baton.
func (t *Task) mustBeCurrent() {
	if t == nil || t.pool.current.Load() != t || t.goroutine.Load() != goroutineID() {
		panic(ErrNotInTask)
	}
}

func goroutineID() int64 {
	if id := goroutineid.Fast(); id != -1 {
		return id
	}
	return goroutineid.Slow(make([]byte, 64))
}

// park hands the baton back to the pool, and blocks until resumed.
func (t *Task) park() {
	if t.terminating {
		runtime.Goexit()
	}
	t.pool.yield <- t
	if !<-t.resume {
		t.terminating = true
		runtime.Goexit()
	}
}

func (t *Task) run(fn func(t *Task) error) {
	t.goroutine.Store(goroutineID())
	if !<-t.resume {
		t.finish(ErrTaskTerminated)
		t.pool.yield <- t
		return
	}

	var (
		err      error
		returned bool
	)
	defer func() {
		if !returned {
			if r := recover(); r != nil {
				err = &PanicError{Value: r, Stack: debug.Stack()}
			} else {
				err = ErrTaskTerminated
			}
		}
		t.finish(err)
		t.pool.yield <- t
	}()

	err = fn(t)
	returned = true
}

func (t *Task) finish(err error) {
	p := t.pool

	p.mu.Lock()
	t.finished = true
	t.err = err
	var wakers []Waker
	for j := range t.joiners {
		if j.waker != nil {
			wakers = append(wakers, j.waker)
		}
	}
	t.joiners = nil
	for c := range p.waiters {
		if c.waker != nil {
			wakers = append(wakers, c.waker)
		}
	}
	clear(p.waiters)
	delete(p.tasks, t.id)
	p.completed++
	p.mu.Unlock()

	t.stopWake()
	t.cancel(context.Canceled)

	for _, w := range wakers {
		w.Wake()
	}
}

type joinFuture struct {
	task  *Task
	waker Waker
}

func (x *joinFuture) Poll(w Waker) (error, bool) {
	t := x.task
	t.pool.mu.Lock()
	defer t.pool.mu.Unlock()
	if t.finished {
		return t.err, true
	}
	x.waker = w
	if t.joiners == nil {
		t.joiners = make(map[*joinFuture]struct{})
	}
	t.joiners[x] = struct{}{}
	return nil, false
}
