// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package tickstream

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// Pool is a single-threaded, cooperative task scheduler.
//
// Tasks are spawned with [Pool.Spawn], and run (one at a time) by
// [Pool.RunUntilStalled]. A task runs until it either returns, or reaches a
// suspension point ([Await]) whose future is not ready, at which point the
// next runnable task is resumed.
//
// Spawn, Task.Wake and Task.Cancel may be called from any goroutine.
// RunUntilStalled and Close must not be called concurrently with each other,
// nor from within a task.
type Pool struct { // betteralign:ignore
	// Prevent copying
	_ [0]func()

	logger *logiface.Logger[logiface.Event]
	onWake func()

	ctx    context.Context
	cancel context.CancelCauseFunc

	// yield receives the task that just handed back the baton
	yield chan *Task

	// current is the task holding the baton, stored only by the driving
	// goroutine, before resume and after yield
	current atomic.Pointer[Task]

	tasks     map[uint64]*Task
	waiters   map[*completionFuture]struct{}
	runq      []*Task
	completed uint64

	stats poolCounters

	nextID atomic.Uint64

	mu sync.Mutex

	tickBudget  int
	errorPolicy ErrorPolicy

	closed  bool
	driving bool
}

// PoolStats is a snapshot of a pool's counters.
type PoolStats struct {
	Spawned   uint64
	Completed uint64
	Failed    uint64
	Resumes   uint64
	Live      int
}

type poolCounters struct {
	spawned   atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	resumes   atomic.Uint64
}

// NewPool creates a new, empty pool.
func NewPool(opts ...PoolOption) (*Pool, error) {
	cfg, err := resolvePoolOptions(opts)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	return &Pool{
		logger:      cfg.logger,
		onWake:      cfg.onWake,
		ctx:         ctx,
		cancel:      cancel,
		yield:       make(chan *Task),
		tasks:       make(map[uint64]*Task),
		waiters:     make(map[*completionFuture]struct{}),
		tickBudget:  cfg.tickBudget,
		errorPolicy: cfg.errorPolicy,
	}, nil
}

// Spawn registers a new task, which will first run the next time the pool
// is driven. The task's context is derived from the pool, not from the
// spawning task, so it outlives its parent.
//
// Returns [ErrPoolClosed] if the pool has been closed.
func (p *Pool) Spawn(fn func(t *Task) error) (*Task, error) {
	if fn == nil {
		panic(`tickstream: nil task func`)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	t := newTask(p, p.nextID.Add(1))
	p.tasks[t.id] = t
	t.queued = true
	p.runq = append(p.runq, t)
	hook := !p.driving && p.onWake != nil
	p.mu.Unlock()

	p.stats.spawned.Add(1)
	go t.run(fn)

	p.logger.Debug().
		Str(`category`, `pool`).
		Uint64(`task`, t.id).
		Log(`task spawned`)

	if hook {
		p.onWake()
	}

	return t, nil
}

// RunUntilStalled resumes runnable tasks, one at a time, until none remain
// runnable, returning the number of tasks that completed.
//
// Tasks woken while this is running (including by other tasks, or by
// themselves) are resumed before it returns. See also [WithTickBudget] and
// [AbortOnError], which may cause an early return with an error.
func (p *Pool) RunUntilStalled() (completed int, err error) {
	p.mu.Lock()
	switch {
	case p.driving || p.current.Load() != nil:
		p.mu.Unlock()
		return 0, ErrReentrantRun
	case p.closed:
		p.mu.Unlock()
		return 0, ErrPoolClosed
	}
	p.driving = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.driving = false
		p.mu.Unlock()
	}()

	var resumes int
	for {
		p.mu.Lock()
		if len(p.runq) == 0 {
			p.mu.Unlock()
			return completed, nil
		}
		if p.tickBudget > 0 && resumes >= p.tickBudget {
			p.mu.Unlock()
			return completed, ErrTickBudgetExceeded
		}
		t := p.runq[0]
		p.runq[0] = nil
		p.runq = p.runq[1:]
		t.queued = false
		finished := t.finished
		p.mu.Unlock()

		// woken, then finished, within the same resumption
		if finished {
			continue
		}

		resumes++
		p.stats.resumes.Add(1)

		if !p.step(t, true) {
			continue
		}

		completed++
		if err := p.taskFinished(t); err != nil {
			return completed, err
		}
	}
}

// step hands the baton to t, and waits for it to be handed back, returning
// true if t finished.
func (p *Pool) step(t *Task, run bool) bool {
	p.current.Store(t)
	t.resume <- run
	<-p.yield
	p.current.Store(nil)
	return t.Done()
}

func (p *Pool) taskFinished(t *Task) error {
	p.stats.completed.Add(1)

	err := t.Err()
	if err == nil {
		p.logger.Debug().
			Str(`category`, `task`).
			Uint64(`task`, t.id).
			Log(`task completed`)
		return nil
	}

	p.stats.failed.Add(1)

	switch p.errorPolicy {
	case IgnoreErrors:
		return nil
	case AbortOnError:
		p.logger.Err().
			Str(`category`, `task`).
			Uint64(`task`, t.id).
			Err(err).
			Log(`task failed, aborting`)
		return &TaskError{Err: err, ID: t.id}
	default:
		p.logger.Warning().
			Str(`category`, `task`).
			Uint64(`task`, t.id).
			Err(err).
			Log(`task failed`)
		return nil
	}
}

// Close rejects further spawns, cancels the context of every task, then
// terminates every task still in flight, in spawn order. Terminated tasks
// exit via [runtime.Goexit] from their current suspension point, running
// their deferred calls, and finish with [ErrTaskTerminated].
//
// Close is idempotent. It returns [ErrReentrantRun] if called from a task,
// or while the pool is being driven.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.driving || p.current.Load() != nil {
		p.mu.Unlock()
		return ErrReentrantRun
	}
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	for _, t := range p.runq {
		t.queued = false
	}
	p.runq = nil
	tasks := make([]*Task, 0, len(p.tasks))
	for _, t := range p.tasks {
		tasks = append(tasks, t)
	}
	p.mu.Unlock()

	p.cancel(ErrPoolClosed)

	slices.SortFunc(tasks, func(a, b *Task) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		default:
			return 0
		}
	})

	for _, t := range tasks {
		if t.Done() {
			continue
		}
		p.step(t, false)
		p.stats.completed.Add(1)
	}

	p.logger.Debug().
		Str(`category`, `pool`).
		Int(`terminated`, len(tasks)).
		Log(`pool closed`)

	return nil
}

// Len returns the number of tasks that have not yet finished.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

// Runnable returns the number of tasks queued to run.
func (p *Pool) Runnable() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.runq)
}

// Closed reports whether [Pool.Close] has been called.
func (p *Pool) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Spawned:   p.stats.spawned.Load(),
		Completed: p.stats.completed.Load(),
		Failed:    p.stats.failed.Load(),
		Resumes:   p.stats.resumes.Load(),
		Live:      p.Len(),
	}
}

// Completion returns a future that completes once any task of this pool
// finishes, after the call to Completion. The result is the total number of
// tasks that have finished.
func (p *Pool) Completion() Future[uint64] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &completionFuture{pool: p, start: p.completed}
}

type completionFuture struct {
	pool  *Pool
	waker Waker
	start uint64
}

func (x *completionFuture) Poll(w Waker) (uint64, bool) {
	p := x.pool
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.completed > x.start {
		delete(p.waiters, x)
		return p.completed, true
	}
	x.waker = w
	p.waiters[x] = struct{}{}
	return 0, false
}

// wake enqueues t, unless it is already queued, or finished.
func (p *Pool) wake(t *Task) {
	p.mu.Lock()
	if t.finished || t.queued || p.closed {
		p.mu.Unlock()
		return
	}
	t.queued = true
	p.runq = append(p.runq, t)
	hook := !p.driving && p.onWake != nil
	p.mu.Unlock()
	if hook {
		p.onWake()
	}
}
