// readthrough.go: read-through front-end with XFetch probabilistic early refresh
//
// Copyright (c) 2025 Halcyon Cache Contributors
// SPDX-License-Identifier: MPL-2.0

package xfetch

import (
	"context"
	"math"
)

// LoadResult is what a caller-supplied LoadFunc returns: the loaded value
// and its TTL in milliseconds (<= 0 means "never expires").
type LoadResult[V any] struct {
	Value V
	TTLMs int64
}

// RichLoadFunc produces a LoadResult for a cache miss or refresh. ctx is
// the context of whichever caller triggered the load (for a collapsed
// call, the first caller to arrive).
type RichLoadFunc[V any] func(ctx context.Context) (LoadResult[V], error)

// RichEntry is what ReadThroughCache stores in its backing Cache: a value
// plus the bookkeeping XFetch needs to decide when to refresh it early.
type RichEntry[V any] struct {
	Value          V
	ExpiresAtMs    int64 // 0 means never expires
	LoadDurationMs int64 // wall-clock cost of the load that produced Value
}

// ReadThroughCache composes a Cache[RichEntry[V]] and a DedupLoader[V] into
// a read-through front-end: hits return immediately (optionally kicking off
// a fire-and-forget eager refresh), misses load synchronously with
// concurrent loads for the same key collapsed into one (spec §4.3).
type ReadThroughCache[V any] struct {
	store  Cache[RichEntry[V]]
	loader *DedupLoader[V]
	pool   *refreshPool
	cfg    ReadThroughConfig[V]

	ownsStore bool
}

// NewReadThroughCache constructs a ReadThroughCache from cfg. If cfg.Store
// is nil, an unbounded *MemoryStore[RichEntry[V]] is created and owned (its
// Close is called by this cache's Close).
func NewReadThroughCache[V any](cfg ReadThroughConfig[V]) (*ReadThroughCache[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ownsStore := false
	store := cfg.Store
	if store == nil {
		s, err := NewMemoryStore[RichEntry[V]](DefaultStoreConfig())
		if err != nil {
			return nil, err
		}
		store = s
		ownsStore = true
	}

	return &ReadThroughCache[V]{
		store:     store,
		loader:    NewDedupLoader[V](cfg.MetricsCollector),
		pool:      newRefreshPool(cfg.RefreshWorkers),
		cfg:       cfg,
		ownsStore: ownsStore,
	}, nil
}

// Close stops the eager-refresh worker pool and, if this cache created its
// own MemoryStore, stops that store's sweep goroutine too. Safe to call
// multiple times.
func (r *ReadThroughCache[V]) Close() error {
	err := r.pool.Close()
	if r.ownsStore {
		if closer, ok := r.store.(interface{ Close() error }); ok {
			if cerr := closer.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}
	return err
}

// Get returns the value for key, loading it through load on a miss (spec
// §4.3 "get"). On a hit, if XFetch decides the entry should be refreshed
// early, a background refresh is kicked off and this call still returns
// the current (possibly soon-to-be-stale) value immediately.
func (r *ReadThroughCache[V]) Get(ctx context.Context, key string, load RichLoadFunc[V]) (V, error) {
	if key == "" {
		var zero V
		return zero, NewErrEmptyKey("Get")
	}

	if entry, found := r.store.Get(key); found {
		if r.shouldRefreshEagerly(entry) {
			r.triggerEagerRefresh(key, load)
		}
		return entry.Value, nil
	}

	return r.refresh(ctx, key, load)
}

// refresh routes the load through DedupLoader so concurrent misses/eager
// triggers for the same key collapse into one execution, then stores the
// result (spec §4.3 "refresh").
func (r *ReadThroughCache[V]) refresh(ctx context.Context, key string, load RichLoadFunc[V]) (V, error) {
	value, err := r.loader.LoadOrAwait(ctx, key, func(ctx context.Context) (V, error) {
		t0 := r.cfg.TimeSource.NowMs()
		result, err := load(ctx)
		if err != nil {
			var zero V
			return zero, NewErrLoaderFailed(key, err)
		}

		now := r.cfg.TimeSource.NowMs()
		loadDurationMs := now - t0
		var expiresAtMs int64
		if result.TTLMs > 0 {
			expiresAtMs = t0 + result.TTLMs
		}

		r.store.Set(key, RichEntry[V]{
			Value:          result.Value,
			ExpiresAtMs:    expiresAtMs,
			LoadDurationMs: loadDurationMs,
		}, result.TTLMs)

		return result.Value, nil
	})
	return value, err
}

// triggerEagerRefresh enqueues a background refresh for key on the pool.
// Its failure is routed to cfg.ErrorSink and must never surface to the
// caller that hit the cache and triggered it (spec §4.3 "Concurrency of
// eager refresh").
func (r *ReadThroughCache[V]) triggerEagerRefresh(key string, load RichLoadFunc[V]) {
	r.pool.Submit(func() {
		_, err := r.refresh(context.Background(), key, load)
		r.cfg.MetricsCollector.RecordEagerRefresh(err != nil)
		if err != nil {
			r.cfg.ErrorSink(key, err)
		}
	})
}

// shouldRefreshEagerly implements the XFetch (beta=1) probabilistic
// early-expiration algorithm (spec §4.3). The probability of triggering
// increases as nowMs approaches ExpiresAtMs and scales with how expensive
// the last load was.
func (r *ReadThroughCache[V]) shouldRefreshEagerly(entry RichEntry[V]) bool {
	if entry.ExpiresAtMs == 0 {
		return false
	}
	u := r.cfg.RandomSource.Float64()
	if u <= 0 {
		u = math.SmallestNonzeroFloat64
	}
	delta := float64(entry.LoadDurationMs) * xfetchBeta * math.Log(u)
	now := r.cfg.TimeSource.NowMs()
	return float64(now)-delta >= float64(entry.ExpiresAtMs)
}
