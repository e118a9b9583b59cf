// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package tickstream

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

// CallbackKind identifies the type of a platform [Callback].
type CallbackKind uint8

const (
	// CallbackEvent carries a raw platform event, to be converted, then
	// pushed onto the mailbox.
	CallbackEvent CallbackKind = iota
	// CallbackTickEnd indicates that every event of the current tick has
	// been delivered.
	CallbackTickEnd
	// CallbackShutdown indicates that the platform has requested shutdown,
	// e.g. the window was closed.
	CallbackShutdown
)

// String returns a human-readable representation of the kind.
func (x CallbackKind) String() string {
	switch x {
	case CallbackEvent:
		return "Event"
	case CallbackTickEnd:
		return "TickEnd"
	case CallbackShutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// Control is returned by the handler passed to [Platform.Run].
type Control uint8

const (
	// Continue indicates the platform should keep delivering callbacks.
	Continue Control = iota
	// Exit indicates the platform must stop, and return from Run.
	Exit
)

type (
	// Callback is a single invocation, from a [Platform].
	Callback[R any] struct {
		// Raw is the platform-native payload, set only for CallbackEvent.
		Raw  R
		Kind CallbackKind
	}

	// Platform is a push-based event source, which calls back into the
	// program once per event, grouped into ticks.
	//
	// Run must call handle serially, from the goroutine that called Run, and
	// must return once handle returns [Exit], or ctx is done.
	//
	// Wake is called (from any goroutine, including from within handle) when
	// a task becomes runnable outside a tick, e.g. a timer fired. It must not
	// block. A platform that waits for input should arrange for another tick
	// to be delivered promptly.
	Platform[R any] interface {
		Run(ctx context.Context, handle func(cb Callback[R]) Control) error
		Wake()
	}

	// Converter translates a raw platform callback into zero or one domain
	// events. Returning false drops the callback.
	Converter[R, E any] func(raw R) (E, bool)

	// DriverStats is a snapshot of a driver's counters.
	DriverStats struct {
		// RunID identifies the current (or most recent) call to Run.
		RunID   string
		Pool    PoolStats
		Ticks   uint64
		Pushed  uint64
		Dropped uint64
	}
)

// Driver bridges a [Platform] to a [Pool] of tasks, consuming events via a
// shared [Mailbox].
type Driver[R, E any] struct { // betteralign:ignore
	// Prevent copying
	_ [0]func()

	platform Platform[R]
	convert  Converter[R, E]

	logger   *logiface.Logger[logiface.Event]
	limiter  *catrate.Limiter
	poolOpts []PoolOption

	pool  atomic.Pointer[Pool]
	runID atomic.Pointer[string]

	ticks   atomic.Uint64
	pushed  atomic.Uint64
	dropped atomic.Uint64

	running atomic.Bool
}

// NewDriver creates a new driver, which may then be [Driver.Run].
func NewDriver[R, E any](platform Platform[R], convert Converter[R, E], opts ...DriverOption) (*Driver[R, E], error) {
	if platform == nil {
		return nil, errors.New("tickstream: nil platform")
	}
	if convert == nil {
		return nil, errors.New("tickstream: nil converter")
	}

	cfg, err := resolveDriverOptions(opts)
	if err != nil {
		return nil, err
	}

	limiter, err := newDropLimiter(cfg.dropRates)
	if err != nil {
		return nil, err
	}

	return &Driver[R, E]{
		platform: platform,
		convert:  convert,
		logger:   cfg.logger,
		limiter:  limiter,
		poolOpts: cfg.pool,
	}, nil
}

func newDropLimiter(rates map[time.Duration]int) (limiter *catrate.Limiter, err error) {
	if len(rates) == 0 {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			limiter = nil
			err = fmt.Errorf("tickstream: invalid drop log rates: %v", r)
		}
	}()
	return catrate.NewLimiter(rates), nil
}

// Run spawns app as the root task, then pumps the platform, until the first
// of the following occurs:
//
//   - The root task finishes: its error is returned.
//   - The platform signals [CallbackShutdown]: nil is returned.
//   - A task fails under [AbortOnError]: the [*TaskError] is returned.
//   - ctx is done: its error is returned.
//   - The platform's Run returns: its error is returned.
//
// Each [CallbackEvent] is converted and pushed, in arrival order. Each
// [CallbackTickEnd] marks the mailbox ready, then runs the pool until it
// stalls. Before returning, the pool is closed, terminating any tasks still
// in flight.
//
// Run returns [ErrDriverRunning] if called concurrently.
func (d *Driver[R, E]) Run(ctx context.Context, app func(tc *TaskContext[E]) error) error {
	if app == nil {
		panic(`tickstream: nil app func`)
	}
	if !d.running.CompareAndSwap(false, true) {
		return ErrDriverRunning
	}
	defer d.running.Store(false)

	runID := uuid.NewString()
	d.runID.Store(&runID)
	logger := d.logger.Clone().Str(`run`, runID).Logger()

	r := &driverRun[R, E]{
		ctx:    ctx,
		driver: d,
		logger: logger,
	}

	poolOpts := make([]PoolOption, 0, len(d.poolOpts)+2)
	poolOpts = append(poolOpts, WithLogger(logger))
	poolOpts = append(poolOpts, d.poolOpts...)
	poolOpts = append(poolOpts, WithWakeHook(r.wake))

	pool, err := NewPool(poolOpts...)
	if err != nil {
		return err
	}
	r.pool = pool
	d.pool.Store(pool)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Err().
				Str(`category`, `driver`).
				Err(err).
				Log(`failed to close pool`)
		}
	}()

	r.mailbox = NewMailbox[E]()

	// the root runs below, so the wake from spawning it is redundant
	r.inTick.Store(true)
	r.root, err = NewTaskContext(pool, r.mailbox, app)
	if err != nil {
		return err
	}

	logger.Info().
		Str(`category`, `driver`).
		Log(`driver started`)

	// run the app up to its first suspension point, before any events
	stopped := r.drive()
	r.inTick.Store(false)
	if stopped {
		return r.stop(r.reason)
	}
	r.wakeIfRunnable()

	err = d.platform.Run(ctx, r.handle)

	switch {
	case r.exited:
		return r.stop(r.reason)
	case err != nil:
		r.err = err
		return r.stop(`platform failed`)
	case ctx.Err() != nil:
		r.err = ctx.Err()
		return r.stop(`context done`)
	default:
		return r.stop(`platform returned`)
	}
}

// Stats returns a snapshot of the driver's counters, including those of the
// pool of the current (or most recent) run.
func (d *Driver[R, E]) Stats() (stats DriverStats) {
	if id := d.runID.Load(); id != nil {
		stats.RunID = *id
	}
	if pool := d.pool.Load(); pool != nil {
		stats.Pool = pool.Stats()
	}
	stats.Ticks = d.ticks.Load()
	stats.Pushed = d.pushed.Load()
	stats.Dropped = d.dropped.Load()
	return stats
}

// driverRun is the state of a single call to Driver.Run.
type driverRun[R, E any] struct {
	ctx     context.Context
	driver  *Driver[R, E]
	logger  *logiface.Logger[logiface.Event]
	pool    *Pool
	mailbox *Mailbox[E]
	root    *Task
	err     error
	reason  string
	// inTick suppresses platform wakes while handling a callback
	inTick atomic.Bool
	exited bool
}

func (r *driverRun[R, E]) handle(cb Callback[R]) Control {
	r.inTick.Store(true)
	control := r.callback(cb)
	r.inTick.Store(false)
	if control == Continue && cb.Kind == CallbackTickEnd {
		r.wakeIfRunnable()
	}
	return control
}

// wake is the pool's wake hook. Tasks woken during an event are run at the
// end of the tick, and those woken while the pool is being driven are run
// before it stalls, so only wakes outside of callbacks need to reach the
// platform.
func (r *driverRun[R, E]) wake() {
	if !r.inTick.Load() {
		r.driver.platform.Wake()
	}
}

// wakeIfRunnable requests another tick if any tasks were left runnable,
// e.g. on exceeding the tick budget.
func (r *driverRun[R, E]) wakeIfRunnable() {
	if r.pool.Runnable() != 0 {
		r.driver.platform.Wake()
	}
}

func (r *driverRun[R, E]) callback(cb Callback[R]) Control {
	if r.exited {
		return Exit
	}
	if err := r.ctx.Err(); err != nil {
		r.exit(err, `context done`)
		return Exit
	}

	switch cb.Kind {
	case CallbackEvent:
		event, ok := r.driver.convert(cb.Raw)
		if !ok {
			r.drop(cb)
			return Continue
		}
		r.mailbox.Push(event)
		r.driver.pushed.Add(1)
		return Continue

	case CallbackTickEnd:
		r.driver.ticks.Add(1)
		r.mailbox.MarkReady()
		if r.drive() {
			return Exit
		}
		return Continue

	case CallbackShutdown:
		r.exit(nil, `platform shutdown`)
		return Exit

	default:
		r.drop(cb)
		return Continue
	}
}

// drive runs the pool until it stalls, returning true if the run must stop.
func (r *driverRun[R, E]) drive() bool {
	_, err := r.pool.RunUntilStalled()

	if r.root.Done() {
		r.exit(r.root.Err(), `root task finished`)
		return true
	}

	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrTickBudgetExceeded):
		// the remaining tasks are still queued, and will run next tick
		r.logger.Warning().
			Str(`category`, `driver`).
			Err(err).
			Log(`tick budget exceeded`)
		return false
	default:
		r.exit(err, `pool failed`)
		return true
	}
}

func (r *driverRun[R, E]) exit(err error, reason string) {
	if r.exited {
		return
	}
	r.exited = true
	r.err = err
	r.reason = reason
}

func (r *driverRun[R, E]) drop(cb Callback[R]) {
	r.driver.dropped.Add(1)
	if _, ok := r.driver.limiter.Allow(cb.Kind); !ok {
		return
	}
	r.logger.Debug().
		Str(`category`, `driver`).
		Stringer(`kind`, cb.Kind).
		Log(`dropped unroutable callback`)
}

func (r *driverRun[R, E]) stop(reason string) error {
	if r.err != nil {
		r.logger.Info().
			Str(`category`, `driver`).
			Str(`reason`, reason).
			Err(r.err).
			Log(`driver stopped`)
	} else {
		r.logger.Info().
			Str(`category`, `driver`).
			Str(`reason`, reason).
			Log(`driver stopped`)
	}
	return r.err
}
