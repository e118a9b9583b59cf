// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package tickstream

import (
	"iter"
)

// Item is the result of [Stream.NextEvent]. OK is false once the current
// tick's batch of events has been drained. It is not a terminal state: the
// next call waits for the next tick.
type Item[E any] struct {
	Event E
	OK    bool
}

// Stream is a handle to a shared [Mailbox]. Copies share the same mailbox
// (and the same owning task, if any), and are cheap.
//
// Only one task should consume from a given mailbox at a time, as the
// mailbox only retains the most recent waker.
type Stream[E any] struct {
	mailbox *Mailbox[E]
	task    *Task
}

// NewStream returns a stream over a new, empty mailbox, not bound to any
// task. Use [Stream.Bind] to bind it, before calling [Stream.Next].
func NewStream[E any]() Stream[E] {
	return Stream[E]{mailbox: NewMailbox[E]()}
}

// StreamOf returns a stream over the given mailbox, not bound to any task.
func StreamOf[E any](mailbox *Mailbox[E]) Stream[E] {
	if mailbox == nil {
		panic(`tickstream: nil mailbox`)
	}
	return Stream[E]{mailbox: mailbox}
}

// Bind returns a copy of the stream, owned by the given task.
func (x Stream[E]) Bind(task *Task) Stream[E] {
	x.task = task
	return x
}

// Mailbox returns the underlying mailbox.
func (x Stream[E]) Mailbox() *Mailbox[E] {
	return x.mailbox
}

// NextEvent returns a future for the next event, see [Mailbox.Poll] for the
// semantics of each poll. The future is single use: once it has completed,
// call NextEvent again.
//
// A pending NextEvent future has not consumed anything, which makes it safe
// to [Race] against other futures, and to keep racing the loser.
func (x Stream[E]) NextEvent() Future[Item[E]] {
	return FutureFunc[Item[E]](func(w Waker) (item Item[E], _ bool) {
		switch event, result := x.mailbox.Poll(w); result {
		case PollEvent:
			return Item[E]{Event: event, OK: true}, true
		case PollDrained:
			return item, true
		default:
			return item, false
		}
	})
}

// Next waits for the next event, returning false once the current tick's
// events have been drained. It must be called from the owning task.
func (x Stream[E]) Next() (E, bool) {
	if x.task == nil {
		panic(ErrNotInTask)
	}
	item := Await(x.task, x.NextEvent())
	return item.Event, item.OK
}

// Batch iterates over this tick's events, see [Stream.Next]. Breaking out of
// the loop early leaves the remaining events queued.
func (x Stream[E]) Batch() iter.Seq[E] {
	return func(yield func(E) bool) {
		for {
			event, ok := x.Next()
			if !ok || !yield(event) {
				return
			}
		}
	}
}
