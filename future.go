// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package tickstream

import (
	"context"
	"sync"
	"time"
)

type (
	// Waker makes a parked computation runnable again. Implementations used
	// by this package ([*Task]) are safe to call from any goroutine, and
	// waking more than necessary is harmless.
	Waker interface {
		Wake()
	}

	// WakerFunc implements [Waker].
	WakerFunc func()

	// Future is an asynchronous operation, evaluated by polling. Poll must
	// not block. If the result is not yet available, Poll returns false, and
	// arranges for w to be woken once it might be; the latest waker wins.
	//
	// Once Poll has returned true, the future must not be polled again.
	Future[T any] interface {
		Poll(w Waker) (T, bool)
	}

	// FutureFunc implements [Future].
	FutureFunc[T any] func(w Waker) (T, bool)

	// Awaiter identifies the task that is suspending, see [Await].
	// Implemented by [*Task] and [*TaskContext].
	Awaiter interface {
		awaitingTask() *Task
	}

	// Result pairs a value with an error, for fallible futures.
	Result[T any] struct {
		Value T
		Err   error
	}
)

// Wake calls x.
func (x WakerFunc) Wake() { x() }

// Poll calls x.
func (x FutureFunc[T]) Poll(w Waker) (T, bool) { return x(w) }

// Await polls f until it completes, parking the awaiting task in between.
// It must be called from the task identified by a, or it panics with
// [ErrNotInTask].
//
// If the pool is closed while the task is parked, the task's goroutine exits
// (via [runtime.Goexit]), running deferred calls.
func Await[T any](a Awaiter, f Future[T]) T {
	t := a.awaitingTask()
	t.mustBeCurrent()
	for {
		if v, ok := f.Poll(t); ok {
			return v
		}
		t.park()
	}
}

// Ready returns a future that is immediately complete.
func Ready[T any](v T) Future[T] {
	return FutureFunc[T](func(Waker) (T, bool) { return v, true })
}

// Map transforms the result of f.
func Map[T, U any](f Future[T], fn func(T) U) Future[U] {
	return FutureFunc[U](func(w Waker) (u U, ok bool) {
		if v, ok := f.Poll(w); ok {
			return fn(v), true
		}
		return u, false
	})
}

// All completes once every future has, with the results in argument order.
// Completed futures are not polled again.
func All[T any](futures ...Future[T]) Future[[]T] {
	results := make([]T, len(futures))
	done := make([]bool, len(futures))
	remaining := len(futures)
	return FutureFunc[[]T](func(w Waker) ([]T, bool) {
		for i, f := range futures {
			if done[i] {
				continue
			}
			if v, ok := f.Poll(w); ok {
				results[i] = v
				done[i] = true
				remaining--
			}
		}
		if remaining != 0 {
			return nil, false
		}
		return results, true
	})
}

// Timer is a [Future] that completes with the time at which it fired.
type Timer struct {
	timer *time.Timer
	waker Waker
	at    time.Time
	mu    sync.Mutex
	fired bool
}

// After returns a timer that fires after d. The timer starts immediately.
func After(d time.Duration) *Timer {
	x := new(Timer)
	x.timer = time.AfterFunc(d, x.fire)
	return x
}

// Poll implements [Future].
func (x *Timer) Poll(w Waker) (time.Time, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.fired {
		return x.at, true
	}
	x.waker = w
	return time.Time{}, false
}

// Stop prevents the timer from firing, returning false if it already has.
func (x *Timer) Stop() bool {
	return x.timer.Stop()
}

func (x *Timer) fire() {
	x.mu.Lock()
	x.fired = true
	x.at = time.Now()
	w := x.waker
	x.waker = nil
	x.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

// Cancelled returns a future that completes with the cause of ctx, once it
// is done.
func Cancelled(ctx context.Context) Future[error] {
	var (
		mu    sync.Mutex
		waker Waker
		stop  func() bool
	)
	wake := func() {
		mu.Lock()
		w := waker
		waker = nil
		mu.Unlock()
		if w != nil {
			w.Wake()
		}
	}
	return FutureFunc[error](func(w Waker) (error, bool) {
		if ctx.Err() != nil {
			mu.Lock()
			if stop != nil {
				stop()
			}
			mu.Unlock()
			return context.Cause(ctx), true
		}
		mu.Lock()
		waker = w
		if stop == nil {
			stop = context.AfterFunc(ctx, wake)
		}
		mu.Unlock()
		return nil, false
	})
}
