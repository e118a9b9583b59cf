// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package tickstream

type (
	// Raced is the result of [Race].
	Raced[T any] struct {
		// Value is the result of the winning future.
		Value T
		// Remaining holds every other future, in their original order. None
		// of them have completed, and they may be polled (or raced) again.
		Remaining []Future[T]
		// Index is the position of the winning future, in the arguments.
		Index int
	}

	// Selected is the result of [Select]. Exactly one of A or B is set,
	// indicated by First, and the other side's future is returned for
	// continued use.
	Selected[A, B any] struct {
		A A
		B B
		// RestA is the (still pending) first future, if the second won.
		RestA Future[A]
		// RestB is the (still pending) second future, if the first won.
		RestB Future[B]
		// First is true if the first future completed.
		First bool
	}
)

// Race completes with the first of the futures to complete. All futures are
// polled with the same waker, in index order, so if several are ready during
// the same poll, the lowest index wins. Futures after the winner are not
// polled, in that pass.
//
// Racing zero futures never completes.
func Race[T any](futures ...Future[T]) Future[Raced[T]] {
	return FutureFunc[Raced[T]](func(w Waker) (r Raced[T], _ bool) {
		for i, f := range futures {
			v, ok := f.Poll(w)
			if !ok {
				continue
			}
			remaining := make([]Future[T], 0, len(futures)-1)
			remaining = append(remaining, futures[:i]...)
			remaining = append(remaining, futures[i+1:]...)
			return Raced[T]{Value: v, Remaining: remaining, Index: i}, true
		}
		return r, false
	})
}

// Select races two futures of different types. If both are ready in the same
// poll, a wins.
func Select[A, B any](a Future[A], b Future[B]) Future[Selected[A, B]] {
	return FutureFunc[Selected[A, B]](func(w Waker) (s Selected[A, B], _ bool) {
		if v, ok := a.Poll(w); ok {
			return Selected[A, B]{A: v, RestB: b, First: true}, true
		}
		if v, ok := b.Poll(w); ok {
			return Selected[A, B]{B: v, RestA: a}, true
		}
		return s, false
	})
}
