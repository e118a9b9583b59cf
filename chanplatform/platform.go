// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package chanplatform implements a tickstream.Platform fed by a Go channel.
//
// Each tick is formed by waiting for a value (or a wake), then receiving as
// many further values as are immediately available. Closing the channel
// signals shutdown. It is useful for tests, for headless programs, and for
// adapting callback-based windowing libraries, whose callbacks may simply
// send to the channel.
package chanplatform

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/joeycumines/logiface"

	"github.com/joeycumines/go-tickstream"
	"github.com/joeycumines/go-tickstream/internal/longpoll"
)

// Platform implements [tickstream.Platform], receiving raw callbacks from a
// channel.
type Platform[R any] struct {
	logger   *logiface.Logger[logiface.Event]
	ch       <-chan R
	wake     chan struct{}
	cfg      longpoll.Config
	interval time.Duration
}

// Option configures a Platform.
type Option interface {
	applyOption(*options) error
}

type options struct {
	logger   *logiface.Logger[logiface.Event]
	cfg      longpoll.Config
	interval time.Duration
}

type optionImpl struct {
	applyOptionFunc func(*options) error
}

func (x *optionImpl) applyOption(opts *options) error {
	return x.applyOptionFunc(opts)
}

// WithLogger logs each tick at debug level, including why it formed, e.g.
// an idle or wake tick with no values. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *options) error {
		opts.logger = logger
		return nil
	}}
}

// WithMaxBatch limits the number of values delivered per tick. Values beyond
// the limit are delivered in the next tick. A negative value means
// unlimited. Defaults to 64.
func WithMaxBatch(n int) Option {
	return &optionImpl{func(opts *options) error {
		if n == 0 {
			return errors.New("chanplatform: max batch must be non-zero")
		}
		opts.cfg.MaxSize = n
		return nil
	}}
}

// WithMinBatch waits up to timeout, after the first value of a tick, for at
// least n values to arrive.
func WithMinBatch(n int, timeout time.Duration) Option {
	return &optionImpl{func(opts *options) error {
		if n <= 0 || timeout <= 0 {
			return errors.New("chanplatform: invalid min batch")
		}
		opts.cfg.MinSize = n
		opts.cfg.PartialTimeout = timeout
		return nil
	}}
}

// WithTickInterval sets the minimum interval between the start of each tick,
// limiting the tick rate, e.g. to a display's refresh rate.
func WithTickInterval(d time.Duration) Option {
	return &optionImpl{func(opts *options) error {
		if d < 0 {
			return errors.New("chanplatform: negative tick interval")
		}
		opts.interval = d
		return nil
	}}
}

// WithIdleTicks delivers an empty tick if no values arrive within d.
func WithIdleTicks(d time.Duration) Option {
	return &optionImpl{func(opts *options) error {
		if d < 0 {
			return errors.New("chanplatform: negative idle tick duration")
		}
		opts.cfg.Idle = d
		return nil
	}}
}

// New creates a platform receiving from ch. Closing ch delivers
// [tickstream.CallbackShutdown], after the final tick.
func New[R any](ch <-chan R, opts ...Option) (*Platform[R], error) {
	if ch == nil {
		return nil, errors.New("chanplatform: nil channel")
	}
	var cfg options
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyOption(&cfg); err != nil {
			return nil, err
		}
	}
	return &Platform[R]{
		logger:   cfg.logger,
		ch:       ch,
		wake:     make(chan struct{}, 1),
		cfg:      cfg.cfg,
		interval: cfg.interval,
	}, nil
}

var errExit = errors.New("chanplatform: exit")

// Run implements [tickstream.Platform].
func (x *Platform[R]) Run(ctx context.Context, handle func(cb tickstream.Callback[R]) tickstream.Control) error {
	if ctx == nil {
		panic(`chanplatform: nil context`)
	}
	if handle == nil {
		panic(`chanplatform: nil handler`)
	}

	var values int
	event := func(value R) error {
		values++
		if handle(tickstream.Callback[R]{Raw: value, Kind: tickstream.CallbackEvent}) == tickstream.Exit {
			return errExit
		}
		return nil
	}

	var last time.Time
	for {
		if err := x.throttle(ctx, last); err != nil {
			return err
		}
		last = time.Now()

		values = 0
		reason, err := longpoll.Tick(ctx, &x.cfg, x.ch, x.wake, event)

		switch {
		case err == nil:
			x.logTick(reason, values)
		case errors.Is(err, errExit):
			return nil
		case errors.Is(err, io.EOF):
			x.logTick(reason, values)
			if handle(tickstream.Callback[R]{Kind: tickstream.CallbackTickEnd}) == tickstream.Exit {
				return nil
			}
			handle(tickstream.Callback[R]{Kind: tickstream.CallbackShutdown})
			return nil
		default:
			return err
		}

		if handle(tickstream.Callback[R]{Kind: tickstream.CallbackTickEnd}) == tickstream.Exit {
			return nil
		}
	}
}

func (x *Platform[R]) logTick(reason longpoll.Reason, values int) {
	x.logger.Debug().
		Str(`category`, `platform`).
		Str(`reason`, reason.String()).
		Int(`values`, values).
		Log(`tick formed`)
}

// Wake implements [tickstream.Platform]. It never blocks, and wakes are
// coalesced.
func (x *Platform[R]) Wake() {
	select {
	case x.wake <- struct{}{}:
	default:
	}
}

func (x *Platform[R]) throttle(ctx context.Context, last time.Time) error {
	if x.interval <= 0 || last.IsZero() {
		return ctx.Err()
	}
	wait := x.interval - time.Since(last)
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
