// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package tickstream turns a callback-driven platform event source into a
// pull-based sequence of events, consumed by cooperatively scheduled tasks.
//
// # Architecture
//
// A [Driver] owns a [Platform], which calls back into the driver once per
// platform callback. Callbacks are converted into domain events and pushed
// into a [Mailbox]. When the platform signals the end of a tick, the driver
// marks the mailbox ready, then drives the [Pool] until every task is either
// finished or parked, waiting on input.
//
// Tasks consume events via [Stream.Next], which follows a three way
// contract, evaluated each time it is resumed:
//
//   - queue non-empty: the front event is returned
//   - queue empty, ready flag set: the flag is cleared, and ok is false,
//     meaning "this tick's batch is drained", not "closed"
//   - queue empty, flag clear: the task parks until the next push or tick end
//
// The usual shape of an application is therefore:
//
//	for {
//	    for ev := range tc.Stream().Batch() {
//	        // handle ev
//	    }
//	    // per-tick work
//	}
//
// # Execution Model
//
// Each task runs on its own goroutine, but only while it holds the pool's
// baton. The pool resumes exactly one task at a time, and a task only hands
// the baton back at a suspension point (see [Await]). This makes the
// [Mailbox] safe to share between tasks without locks, as long as it is only
// touched from tasks, or from the goroutine driving the pool.
//
// [Waker.Wake] is the one thing that is safe to call from any goroutine.
// Timers ([After]), cancellation ([Cancelled]) and background loads use it to
// make a task runnable again. A wake arriving while the pool is idle is
// forwarded to [Platform.Wake].
//
// # Combinators
//
// [Race] and [Select] poll several futures with the same waker, and return
// whichever completes first, along with the others, untouched. This is how a
// task waits on its event stream and on unrelated work at the same time.
//
// # Errors and Cancellation
//
// Spawning into a closed pool returns [ErrPoolClosed]. Task failures are
// handled according to the pool's [ErrorPolicy]. Every task has a
// [context.Context], cancelled by [Task.Cancel] or [Pool.Close]; closing the
// pool also terminates any task that is still parked.
package tickstream
