// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package tickstream

import (
	"errors"
	"time"

	"github.com/joeycumines/logiface"
)

// ErrorPolicy determines what a [Pool] does with a task that returned an
// error (or panicked).
type ErrorPolicy uint8

const (
	// LogErrors logs failed tasks, and carries on. This is the default.
	LogErrors ErrorPolicy = iota
	// IgnoreErrors carries on, silently.
	IgnoreErrors
	// AbortOnError logs the failure, and returns it (as a [*TaskError]) from
	// [Pool.RunUntilStalled], which in turn stops the [Driver].
	AbortOnError
)

// String returns a human-readable representation of the policy.
func (x ErrorPolicy) String() string {
	switch x {
	case LogErrors:
		return "LogErrors"
	case IgnoreErrors:
		return "IgnoreErrors"
	case AbortOnError:
		return "AbortOnError"
	default:
		return "Unknown"
	}
}

// poolOptions holds configuration options for Pool creation.
type poolOptions struct {
	logger      *logiface.Logger[logiface.Event]
	onWake      func()
	tickBudget  int
	errorPolicy ErrorPolicy
}

// driverOptions holds configuration options for Driver creation.
type driverOptions struct {
	logger    *logiface.Logger[logiface.Event]
	dropRates map[time.Duration]int
	pool      []PoolOption
}

// --- Pool Options ---

// PoolOption configures a Pool instance.
type PoolOption interface {
	applyPool(*poolOptions) error
}

// poolOptionImpl implements PoolOption.
type poolOptionImpl struct {
	applyPoolFunc func(*poolOptions) error
}

func (x *poolOptionImpl) applyPool(opts *poolOptions) error {
	return x.applyPoolFunc(opts)
}

// WithErrorPolicy sets how failed tasks are handled, defaults to
// [LogErrors].
func WithErrorPolicy(policy ErrorPolicy) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		switch policy {
		case LogErrors, IgnoreErrors, AbortOnError:
		default:
			return errors.New("tickstream: invalid error policy")
		}
		opts.errorPolicy = policy
		return nil
	}}
}

// WithTickBudget limits the number of task resumptions performed by a single
// call to [Pool.RunUntilStalled]. A task that keeps waking itself would
// otherwise prevent the pool from ever stalling. Zero (the default) means
// unlimited.
func WithTickBudget(resumptions int) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		if resumptions < 0 {
			return errors.New("tickstream: negative tick budget")
		}
		opts.tickBudget = resumptions
		return nil
	}}
}

// WithWakeHook registers a function that is called when a task is woken
// while the pool is not being driven. It may be called from any goroutine.
// The [Driver] uses this to call [Platform.Wake].
func WithWakeHook(fn func()) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		opts.onWake = fn
		return nil
	}}
}

// --- Shared Options ---

// Option configures both a Pool and a Driver.
type Option interface {
	PoolOption
	DriverOption
}

// sharedOptionImpl implements Option.
type sharedOptionImpl struct {
	applyPoolFunc   func(*poolOptions) error
	applyDriverFunc func(*driverOptions) error
}

func (x *sharedOptionImpl) applyPool(opts *poolOptions) error {
	return x.applyPoolFunc(opts)
}

func (x *sharedOptionImpl) applyDriver(opts *driverOptions) error {
	return x.applyDriverFunc(opts)
}

// WithLogger configures structured logging. A nil logger (the default)
// disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &sharedOptionImpl{
		applyPoolFunc: func(opts *poolOptions) error {
			opts.logger = logger
			return nil
		},
		applyDriverFunc: func(opts *driverOptions) error {
			opts.logger = logger
			return nil
		},
	}
}

// --- Driver Options ---

// DriverOption configures a Driver instance.
type DriverOption interface {
	applyDriver(*driverOptions) error
}

// driverOptionImpl implements DriverOption.
type driverOptionImpl struct {
	applyDriverFunc func(*driverOptions) error
}

func (x *driverOptionImpl) applyDriver(opts *driverOptions) error {
	return x.applyDriverFunc(opts)
}

// WithPoolOptions configures the pool created by the driver. The driver's
// own logger is applied first, and may be overridden.
func WithPoolOptions(options ...PoolOption) DriverOption {
	return &driverOptionImpl{func(opts *driverOptions) error {
		opts.pool = append(opts.pool, options...)
		return nil
	}}
}

// WithDropLogRates sets the rate limits applied to logging of dropped
// (unroutable) platform callbacks, per window duration. Passing nil disables
// rate limiting. Defaults to 5 per second, 60 per minute, per callback type.
func WithDropLogRates(rates map[time.Duration]int) DriverOption {
	return &driverOptionImpl{func(opts *driverOptions) error {
		for d, n := range rates {
			if d <= 0 || n <= 0 {
				return errors.New("tickstream: invalid drop log rate")
			}
		}
		opts.dropRates = rates
		return nil
	}}
}

// resolvePoolOptions applies PoolOption instances to poolOptions.
func resolvePoolOptions(opts []PoolOption) (*poolOptions, error) {
	cfg := &poolOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyPool(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// resolveDriverOptions applies DriverOption instances to driverOptions.
func resolveDriverOptions(opts []DriverOption) (*driverOptions, error) {
	cfg := &driverOptions{
		dropRates: map[time.Duration]int{
			time.Second: 5,
			time.Minute: 60,
		},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyDriver(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
