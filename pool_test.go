// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package tickstream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(w io.Writer) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(stumpy.L.LevelDebug()),
	).Logger()
}

func newTestPool(t *testing.T, opts ...PoolOption) *Pool {
	t.Helper()
	p, err := NewPool(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func mustSpawn(t *testing.T, p *Pool, fn func(t *Task) error) *Task {
	t.Helper()
	task, err := p.Spawn(fn)
	require.NoError(t, err)
	return task
}

// pending never completes
var pending = FutureFunc[struct{}](func(Waker) (struct{}, bool) { return struct{}{}, false })

func TestPool_spawnRunsOnDrive(t *testing.T) {
	p := newTestPool(t)

	var ran []uint64
	for range 3 {
		mustSpawn(t, p, func(t *Task) error {
			ran = append(ran, t.ID())
			return nil
		})
	}
	require.Empty(t, ran)
	require.Equal(t, 3, p.Len())

	completed, err := p.RunUntilStalled()
	require.NoError(t, err)
	assert.Equal(t, 3, completed)
	assert.Equal(t, []uint64{1, 2, 3}, ran)
	assert.Zero(t, p.Len())

	completed, err = p.RunUntilStalled()
	require.NoError(t, err)
	assert.Zero(t, completed)
}

func TestPool_yieldInterleaves(t *testing.T) {
	p := newTestPool(t)

	var order []string
	for _, name := range []string{"a", "b"} {
		mustSpawn(t, p, func(t *Task) error {
			for i := range 3 {
				order = append(order, name+string(rune('0'+i)))
				t.Yield()
			}
			return nil
		})
	}

	completed, err := p.RunUntilStalled()
	require.NoError(t, err)
	assert.Equal(t, 2, completed)
	assert.Equal(t, []string{"a0", "b0", "a1", "b1", "a2", "b2"}, order)
}

// gate is a future that completes once opened, from any goroutine
type gate struct {
	waker Waker
	mu    sync.Mutex
	open  bool
}

func (x *gate) Poll(w Waker) (struct{}, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.open {
		return struct{}{}, true
	}
	x.waker = w
	return struct{}{}, false
}

func (x *gate) Open() {
	x.mu.Lock()
	x.open = true
	w := x.waker
	x.waker = nil
	x.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

func TestPool_wakeFromOtherGoroutine(t *testing.T) {
	woken := make(chan struct{}, 1)
	p := newTestPool(t, WithWakeHook(func() {
		select {
		case woken <- struct{}{}:
		default:
		}
	}))

	g := new(gate)
	task := mustSpawn(t, p, func(t *Task) error {
		Await(t, g)
		return nil
	})
	<-woken // spawn

	completed, err := p.RunUntilStalled()
	require.NoError(t, err)
	require.Zero(t, completed)
	require.False(t, task.Done())
	require.Zero(t, p.Runnable())

	go g.Open()

	select {
	case <-woken:
	case <-time.After(5 * time.Second):
		t.Fatal("expected the gate to wake the pool")
	}
	require.Equal(t, 1, p.Runnable())

	completed, err = p.RunUntilStalled()
	require.NoError(t, err)
	require.Equal(t, 1, completed)
	require.True(t, task.Done())
	require.NoError(t, task.Err())
}

func TestTask_sleep(t *testing.T) {
	woken := make(chan struct{}, 1)
	p := newTestPool(t, WithWakeHook(func() {
		select {
		case woken <- struct{}{}:
		default:
		}
	}))

	const d = 10 * time.Millisecond
	var elapsed time.Duration
	task := mustSpawn(t, p, func(t *Task) error {
		start := time.Now()
		t.Sleep(d)
		elapsed = time.Since(start)
		return nil
	})

	timeout := time.After(5 * time.Second)
	for !task.Done() {
		_, err := p.RunUntilStalled()
		require.NoError(t, err)
		if task.Done() {
			break
		}
		select {
		case <-woken:
		case <-timeout:
			t.Fatal("timed out")
		}
	}
	assert.GreaterOrEqual(t, elapsed, d)
}

func TestPool_closeTerminatesTasks(t *testing.T) {
	p := newTestPool(t)

	var deferred []string
	parked := mustSpawn(t, p, func(t *Task) error {
		defer func() { deferred = append(deferred, "parked") }()
		Await(t, pending)
		return errors.New("unreachable")
	})

	completed, err := p.RunUntilStalled()
	require.NoError(t, err)
	require.Zero(t, completed)

	var started bool
	notStarted := mustSpawn(t, p, func(t *Task) error {
		started = true
		return nil
	})

	require.NoError(t, p.Close())
	require.True(t, p.Closed())

	assert.Equal(t, []string{"parked"}, deferred)
	assert.False(t, started)
	for _, task := range []*Task{parked, notStarted} {
		assert.True(t, task.Done())
		assert.ErrorIs(t, task.Err(), ErrTaskTerminated)
		assert.ErrorIs(t, context.Cause(task.Context()), ErrPoolClosed)
	}
	assert.Zero(t, p.Len())

	// idempotent
	require.NoError(t, p.Close())

	_, err = p.Spawn(func(t *Task) error { return nil })
	assert.ErrorIs(t, err, ErrPoolClosed)

	_, err = p.RunUntilStalled()
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPool_errorPolicies(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("LogErrors", func(t *testing.T) {
		var buf bytes.Buffer
		p := newTestPool(t, WithLogger(newTestLogger(&buf)))
		mustSpawn(t, p, func(t *Task) error { return errBoom })
		ok := mustSpawn(t, p, func(t *Task) error { return nil })

		completed, err := p.RunUntilStalled()
		require.NoError(t, err)
		assert.Equal(t, 2, completed)
		assert.True(t, ok.Done())
		assert.Contains(t, buf.String(), `"msg":"task failed"`)
		assert.Contains(t, buf.String(), `"err":"boom"`)
		assert.Equal(t, uint64(1), p.Stats().Failed)
	})

	t.Run("IgnoreErrors", func(t *testing.T) {
		var buf bytes.Buffer
		p := newTestPool(t, WithLogger(newTestLogger(&buf)), WithErrorPolicy(IgnoreErrors))
		task := mustSpawn(t, p, func(t *Task) error { return errBoom })

		_, err := p.RunUntilStalled()
		require.NoError(t, err)
		assert.ErrorIs(t, task.Err(), errBoom)
		assert.NotContains(t, buf.String(), `task failed`)
	})

	t.Run("AbortOnError", func(t *testing.T) {
		p := newTestPool(t, WithErrorPolicy(AbortOnError))
		failed := mustSpawn(t, p, func(t *Task) error { return errBoom })
		next := mustSpawn(t, p, func(t *Task) error { return nil })

		completed, err := p.RunUntilStalled()
		assert.Equal(t, 1, completed)
		require.ErrorIs(t, err, errBoom)
		var taskErr *TaskError
		require.ErrorAs(t, err, &taskErr)
		assert.Equal(t, failed.ID(), taskErr.ID)
		assert.False(t, next.Done())

		// the remaining tasks are still queued
		completed, err = p.RunUntilStalled()
		require.NoError(t, err)
		assert.Equal(t, 1, completed)
		assert.True(t, next.Done())
	})
}

func TestPool_panicRecovered(t *testing.T) {
	p := newTestPool(t)
	errBoom := errors.New("boom")
	a := mustSpawn(t, p, func(t *Task) error { panic("oops") })
	b := mustSpawn(t, p, func(t *Task) error { panic(errBoom) })

	_, err := p.RunUntilStalled()
	require.NoError(t, err)

	var panicErr *PanicError
	require.ErrorAs(t, a.Err(), &panicErr)
	assert.Equal(t, "oops", panicErr.Value)
	assert.NotEmpty(t, panicErr.Stack)
	assert.Equal(t, "tickstream: task panicked: oops", panicErr.Error())

	assert.ErrorIs(t, b.Err(), errBoom)
}

func TestPool_tickBudget(t *testing.T) {
	p := newTestPool(t, WithTickBudget(5))
	var resumes int
	mustSpawn(t, p, func(t *Task) error {
		for {
			resumes++
			t.Yield()
		}
	})

	_, err := p.RunUntilStalled()
	require.ErrorIs(t, err, ErrTickBudgetExceeded)
	assert.Equal(t, 5, resumes)
	assert.Equal(t, 1, p.Runnable())

	_, err = p.RunUntilStalled()
	require.ErrorIs(t, err, ErrTickBudgetExceeded)
	assert.Equal(t, 10, resumes)
	assert.Equal(t, uint64(10), p.Stats().Resumes)
}

func TestPool_completion(t *testing.T) {
	p := newTestPool(t)

	var total uint64
	waiter := mustSpawn(t, p, func(t *Task) error {
		total = Await(t, p.Completion())
		return nil
	})
	mustSpawn(t, p, func(t *Task) error {
		t.Yield()
		return nil
	})

	completed, err := p.RunUntilStalled()
	require.NoError(t, err)
	assert.Equal(t, 2, completed)
	assert.True(t, waiter.Done())
	assert.Equal(t, uint64(1), total)
}

func TestTask_join(t *testing.T) {
	p := newTestPool(t)
	errBoom := errors.New("boom")

	child := mustSpawn(t, p, func(t *Task) error {
		t.Yield()
		t.Yield()
		return errBoom
	})

	var joined []error
	for range 2 {
		mustSpawn(t, p, func(t *Task) error {
			joined = append(joined, Await(t, child.Join()))
			return nil
		})
	}

	completed, err := p.RunUntilStalled()
	require.NoError(t, err)
	assert.Equal(t, 3, completed)
	assert.Equal(t, []error{errBoom, errBoom}, joined)

	// already finished
	v, ok := child.Join().Poll(nil)
	assert.True(t, ok)
	assert.ErrorIs(t, v, errBoom)
}

func TestTask_cancel(t *testing.T) {
	p := newTestPool(t)

	task := mustSpawn(t, p, func(t *Task) error {
		return Await(t, Cancelled(t.Context()))
	})

	_, err := p.RunUntilStalled()
	require.NoError(t, err)
	require.False(t, task.Done())

	task.Cancel()

	completed, err := p.RunUntilStalled()
	require.NoError(t, err)
	require.Equal(t, 1, completed)
	require.ErrorIs(t, task.Err(), context.Canceled)
}

func TestPool_reentrant(t *testing.T) {
	p := newTestPool(t)
	var runErr, closeErr error
	mustSpawn(t, p, func(t *Task) error {
		_, runErr = p.RunUntilStalled()
		closeErr = p.Close()
		return nil
	})

	_, err := p.RunUntilStalled()
	require.NoError(t, err)
	assert.ErrorIs(t, runErr, ErrReentrantRun)
	assert.ErrorIs(t, closeErr, ErrReentrantRun)
	assert.False(t, p.Closed())
}

func TestAwait_notInTask(t *testing.T) {
	p := newTestPool(t)
	task := mustSpawn(t, p, func(t *Task) error { return nil })

	assert.PanicsWithValue(t, ErrNotInTask, func() { Await(task, Ready(1)) })
	assert.PanicsWithValue(t, ErrNotInTask, func() { task.Yield() })
}

func TestPool_stats(t *testing.T) {
	p := newTestPool(t)
	mustSpawn(t, p, func(t *Task) error {
		t.Yield()
		return nil
	})
	mustSpawn(t, p, func(t *Task) error { return errors.New("x") })
	mustSpawn(t, p, func(t *Task) error {
		Await(t, pending)
		return nil
	})

	_, err := p.RunUntilStalled()
	require.NoError(t, err)

	assert.Equal(t, PoolStats{
		Spawned:   3,
		Completed: 2,
		Failed:    1,
		Resumes:   4,
		Live:      1,
	}, p.Stats())

	require.NoError(t, p.Close())
	assert.Equal(t, uint64(3), p.Stats().Completed)
}

func TestNewPool_invalidOptions(t *testing.T) {
	_, err := NewPool(WithTickBudget(-1))
	assert.Error(t, err)

	_, err = NewPool(WithErrorPolicy(ErrorPolicy(42)))
	assert.Error(t, err)

	p, err := NewPool(nil, WithLogger(nil))
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestErrorPolicy_String(t *testing.T) {
	assert.Equal(t, "LogErrors", LogErrors.String())
	assert.Equal(t, "IgnoreErrors", IgnoreErrors.String())
	assert.Equal(t, "AbortOnError", AbortOnError.String())
	assert.Equal(t, "Unknown", ErrorPolicy(42).String())
}
