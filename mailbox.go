// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package tickstream

// PollResult is the outcome of a single [Mailbox.Poll].
type PollResult uint8

const (
	// PollPending indicates no event is available and the tick has not
	// ended. The waker passed to Poll has been stored.
	PollPending PollResult = iota
	// PollEvent indicates an event was dequeued.
	PollEvent
	// PollDrained indicates the queue is empty and the ready flag was set
	// (and has now been cleared).
	PollDrained
)

// String returns a human-readable representation of the result.
func (x PollResult) String() string {
	switch x {
	case PollPending:
		return "Pending"
	case PollEvent:
		return "Event"
	case PollDrained:
		return "Drained"
	default:
		return "Unknown"
	}
}

// Mailbox is the ordered event queue backing one or more [Stream] values,
// along with a single waker slot, and the tick boundary ("ready") flag.
//
// A Mailbox is not safe for concurrent use. It is intended to be accessed
// from tasks of a single [Pool], or from the goroutine driving that pool,
// which are serialized by the pool itself.
//
// The zero value is ready to use.
type Mailbox[E any] struct {
	waker Waker
	queue queue[E]
	ready bool
}

// NewMailbox returns an empty mailbox.
func NewMailbox[E any]() *Mailbox[E] {
	return new(Mailbox[E])
}

// Push appends an event, sets the ready flag, and wakes the stored waker,
// if any. The stored waker is consumed.
func (x *Mailbox[E]) Push(event E) {
	x.queue.push(event)
	x.MarkReady()
}

// MarkReady sets the ready flag, and wakes (consuming) the stored waker, if
// any. The driver calls this at the end of each tick, so a consumer can
// tell "tick ended with no events" apart from "still waiting".
func (x *Mailbox[E]) MarkReady() {
	x.ready = true
	if w := x.waker; w != nil {
		x.waker = nil
		w.Wake()
	}
}

// Poll evaluates the consumer side of the mailbox, see [PollResult]. The
// waker is only stored (replacing, without waking, any prior waker) if the
// result is [PollPending].
func (x *Mailbox[E]) Poll(w Waker) (event E, result PollResult) {
	if v, ok := x.queue.pop(); ok {
		return v, PollEvent
	}
	if x.ready {
		x.ready = false
		return event, PollDrained
	}
	x.waker = w
	return event, PollPending
}

// Len returns the number of queued events.
func (x *Mailbox[E]) Len() int {
	return x.queue.len()
}

// Ready reports the state of the tick boundary flag.
func (x *Mailbox[E]) Ready() bool {
	return x.ready
}

// queue is an unbounded FIFO ring buffer.
type queue[E any] struct {
	buf  []E
	head int
	size int
}

func (x *queue[E]) len() int { return x.size }

func (x *queue[E]) push(v E) {
	if x.size == len(x.buf) {
		x.grow()
	}
	x.buf[(x.head+x.size)%len(x.buf)] = v
	x.size++
}

func (x *queue[E]) pop() (v E, ok bool) {
	if x.size == 0 {
		return v, false
	}
	var zero E
	v = x.buf[x.head]
	x.buf[x.head] = zero
	x.head = (x.head + 1) % len(x.buf)
	x.size--
	if x.size == 0 {
		x.head = 0
	}
	return v, true
}

func (x *queue[E]) grow() {
	n := len(x.buf) * 2
	if n == 0 {
		n = 16
	}
	buf := make([]E, n)
	for i := 0; i < x.size; i++ {
		buf[i] = x.buf[(x.head+i)%len(x.buf)]
	}
	x.buf = buf
	x.head = 0
}
