// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package loader performs background resource loading, exposed as
// tickstream futures, so that tasks may race loads against events.
//
// Concurrent loads of the same key share a single fetch, and successful
// results are cached.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/joeycumines/logiface"
	"golang.org/x/sync/singleflight"

	"github.com/joeycumines/go-tickstream"
)

// Loader loads values by key, in the background.
type Loader[V any] struct {
	fetch  func(ctx context.Context, key string) (V, error)
	cache  *lru.Cache[string, V]
	logger *logiface.Logger[logiface.Event]
	group  singleflight.Group

	fetches atomic.Uint64
}

// Option configures a Loader.
type Option interface {
	applyOption(*options) error
}

type options struct {
	logger    *logiface.Logger[logiface.Event]
	cacheSize int
}

type optionImpl struct {
	applyOptionFunc func(*options) error
}

func (x *optionImpl) applyOption(opts *options) error {
	return x.applyOptionFunc(opts)
}

// WithCacheSize sets the maximum number of cached values. Zero disables
// caching. Defaults to 128.
func WithCacheSize(n int) Option {
	return &optionImpl{func(opts *options) error {
		if n < 0 {
			return errors.New("loader: negative cache size")
		}
		opts.cacheSize = n
		return nil
	}}
}

// WithLogger configures structured logging. A nil logger (the default)
// disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *options) error {
		opts.logger = logger
		return nil
	}}
}

// New creates a loader, calling fetch to load values.
func New[V any](fetch func(ctx context.Context, key string) (V, error), opts ...Option) (*Loader[V], error) {
	if fetch == nil {
		return nil, errors.New("loader: nil fetch func")
	}

	cfg := options{cacheSize: 128}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyOption(&cfg); err != nil {
			return nil, err
		}
	}

	x := &Loader[V]{
		fetch:  fetch,
		logger: cfg.logger,
	}

	if cfg.cacheSize > 0 {
		cache, err := lru.NewWithEvict[string, V](cfg.cacheSize, x.evicted)
		if err != nil {
			return nil, err
		}
		x.cache = cache
	}

	return x, nil
}

// NewFS creates a loader that reads files from fsys, keyed by path.
func NewFS(fsys fs.FS, opts ...Option) (*Loader[[]byte], error) {
	if fsys == nil {
		return nil, errors.New("loader: nil fs")
	}
	return New(func(ctx context.Context, name string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return fs.ReadFile(fsys, name)
	}, opts...)
}

// Load starts loading key, returning a future for the result. Cached values
// are returned immediately. The fetch outlives ctx, as it may be shared, but
// the returned future completes with ctx's error, if ctx is done first.
func (x *Loader[V]) Load(ctx context.Context, key string) tickstream.Future[tickstream.Result[V]] {
	if x.cache != nil {
		if v, ok := x.cache.Get(key); ok {
			return tickstream.Ready(tickstream.Result[V]{Value: v})
		}
	}

	f := new(loadFuture[V])

	ch := x.group.DoChan(key, func() (any, error) {
		return x.load(context.WithoutCancel(ctx), key)
	})

	go func() {
		select {
		case <-ctx.Done():
			f.complete(tickstream.Result[V]{Err: context.Cause(ctx)})
		case res := <-ch:
			v, _ := res.Val.(V)
			f.complete(tickstream.Result[V]{Value: v, Err: res.Err})
		}
	}()

	return f
}

// Fetches returns the number of fetches performed, i.e. loads that were not
// cached, nor shared.
func (x *Loader[V]) Fetches() uint64 {
	return x.fetches.Load()
}

// Purge removes all cached values.
func (x *Loader[V]) Purge() {
	if x.cache != nil {
		x.cache.Purge()
	}
}

func (x *Loader[V]) load(ctx context.Context, key string) (V, error) {
	x.fetches.Add(1)

	x.logger.Debug().
		Str(`category`, `loader`).
		Str(`key`, key).
		Log(`fetch started`)

	v, err := x.fetch(ctx, key)
	if err != nil {
		x.logger.Warning().
			Str(`category`, `loader`).
			Str(`key`, key).
			Err(err).
			Log(`fetch failed`)
		return v, err
	}

	if x.cache != nil {
		x.cache.Add(key, v)
	}

	return v, nil
}

func (x *Loader[V]) evicted(key string, _ V) {
	x.logger.Debug().
		Str(`category`, `loader`).
		Str(`key`, key).
		Log(`evicted`)
}

type loadFuture[V any] struct {
	waker  tickstream.Waker
	result tickstream.Result[V]
	mu     sync.Mutex
	done   bool
}

func (x *loadFuture[V]) Poll(w tickstream.Waker) (tickstream.Result[V], bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.done {
		return x.result, true
	}
	x.waker = w
	return tickstream.Result[V]{}, false
}

func (x *loadFuture[V]) complete(result tickstream.Result[V]) {
	x.mu.Lock()
	x.result = result
	x.done = true
	w := x.waker
	x.waker = nil
	x.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}
