// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package longpoll receives batches of values from a channel, forming ticks.
package longpoll

import (
	"context"
	"io"
	"time"
)

// Config models optional configuration for the Tick function.
type Config struct {
	// MaxSize is the absolute maximum number of values to receive. Setting
	// this to a value < 0 will disable the maximum size constraint.
	//
	// Defaults to 64, if 0.
	MaxSize int

	// MinSize is the (target) minimum number of values to receive, once the
	// first value has arrived. Waiting for more stops once PartialTimeout
	// elapses, or on a wake.
	//
	// Defaults to 1, if 0.
	MinSize int

	// PartialTimeout is the maximum time to wait for MinSize values, after
	// the first. Setting this to a value < 0 disables the partial wait.
	//
	// Defaults to 5ms, if 0.
	PartialTimeout time.Duration

	// Idle is the maximum time to wait for the first value, after which a
	// tick with no values is formed. Setting this to a value <= 0 waits
	// indefinitely.
	Idle time.Duration
}

// Reason describes how a tick was formed.
type Reason uint8

const (
	// ReasonValues indicates at least one value was received.
	ReasonValues Reason = iota
	// ReasonWake indicates a wake was received before any values.
	ReasonWake
	// ReasonIdle indicates the idle timeout elapsed before any values.
	ReasonIdle
)

func (r Reason) String() string {
	switch r {
	case ReasonValues:
		return `values`
	case ReasonWake:
		return `wake`
	case ReasonIdle:
		return `idle`
	default:
		return `unknown`
	}
}

// Tick performs a blocking receive on ch, forming a single tick: it waits for
// the first value (or a wake, or the idle timeout), then receives as many
// additional values as the constraints allow. Each value is passed to
// handler, in order. Errors from handler cause Tick to return them
// immediately.
//
// A wake before the first value ends the tick without receiving anything. A
// nil wake channel is never ready.
//
// If ch is closed, Tick returns io.EOF, after handling any values received.
// If ctx is done, its error is returned.
//
// Providing a nil ctx, ch, or handler will cause a panic.
func Tick[T any](ctx context.Context, cfg *Config, ch <-chan T, wake <-chan struct{}, handler func(value T) error) (Reason, error) {
	if ctx == nil {
		panic(`longpoll: nil context`)
	}
	if ch == nil {
		panic(`longpoll: nil channel`)
	}
	if handler == nil {
		panic(`longpoll: nil handler`)
	}

	if err := ctx.Err(); err != nil {
		return ReasonValues, err
	}

	maxSize := 64
	minSize := 1
	partialTimeout := 5 * time.Millisecond
	var idle time.Duration
	if cfg != nil {
		if cfg.MaxSize != 0 {
			maxSize = cfg.MaxSize
		}
		if cfg.MinSize > 0 {
			minSize = cfg.MinSize
		}
		if cfg.PartialTimeout != 0 {
			partialTimeout = cfg.PartialTimeout
		}
		idle = cfg.Idle
	}

	// the first value, a wake, or the idle timeout
	var idleCh <-chan time.Time
	if idle > 0 {
		timer := time.NewTimer(idle)
		defer timer.Stop()
		idleCh = timer.C
	}

	select {
	case <-ctx.Done():
		return ReasonValues, ctx.Err()

	case <-wake:
		return ReasonWake, nil

	case <-idleCh:
		return ReasonIdle, ctx.Err()

	case value, ok := <-ch:
		if !ok {
			return ReasonValues, io.EOF
		}
		if err := handler(value); err != nil {
			return ReasonValues, err
		}
	}

	size := 1

	// wait for the minimum, if greater than one
	if size < minSize && partialTimeout > 0 && (maxSize < 0 || size < maxSize) {
		timer := time.NewTimer(partialTimeout)
		defer timer.Stop()

	MinSizeLoop:
		for size < minSize && (maxSize < 0 || size < maxSize) {
			select {
			case <-ctx.Done():
				return ReasonValues, ctx.Err()

			case <-timer.C:
				break MinSizeLoop

			case <-wake:
				break MinSizeLoop

			case value, ok := <-ch:
				if !ok {
					return ReasonValues, io.EOF
				}
				size++
				if err := handler(value); err != nil {
					return ReasonValues, err
				}
			}
		}
	}

	// receive what is immediately available, up to the maximum
	for maxSize < 0 || size < maxSize {
		select {
		case <-ctx.Done():
			return ReasonValues, ctx.Err()

		case value, ok := <-ch:
			if !ok {
				return ReasonValues, io.EOF
			}
			size++
			if err := handler(value); err != nil {
				return ReasonValues, err
			}

		default:
			return ReasonValues, ctx.Err()
		}
	}

	return ReasonValues, ctx.Err()
}
