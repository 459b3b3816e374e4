// config.go: configuration for xfetch's two owning components
//
// Copyright (c) 2025 Halcyon Cache Contributors
// SPDX-License-Identifier: MPL-2.0

package xfetch

import "time"

// StoreConfig holds configuration for a MemoryStore.
type StoreConfig struct {
	// MaxItems is the maximum number of resident keys. 0 means unbounded.
	// Must be >= 0. Default: DefaultMaxItems (0).
	MaxItems int

	// CleanupInterval, if > 0, runs an eager TTL sweep on this interval in
	// addition to the mandatory lazy expiry check on Get (spec §4.1). 0
	// disables the sweep; lazy expiry alone remains correct.
	CleanupInterval time.Duration

	// Logger receives debug/info/warn/error events. Default: NoOpLogger.
	Logger Logger

	// TimeSource provides nowMs for TTL math. Default: go-timecache-backed
	// wall clock.
	TimeSource TimeSource

	// MetricsCollector receives operation counters. Default: NoOpMetricsCollector.
	MetricsCollector MetricsCollector

	// OnEvict, if set, is called synchronously when an entry is evicted for
	// capacity (not for TTL expiry). Must be fast and non-blocking.
	OnEvict func(key string)

	// OnExpire, if set, is called synchronously when an entry is removed
	// because it expired (lazily or by the eager sweep). Must be fast and
	// non-blocking.
	OnExpire func(key string)
}

// Validate normalizes cfg in place, applying defaults. The only value it
// rejects is a negative MaxItems, for which there is no recoverable default
// ("negative capacity"); NewMemoryStore returns that error to its caller.
func (c *StoreConfig) Validate() error {
	if c.MaxItems < 0 {
		return NewErrInvalidMaxItems(c.MaxItems)
	}
	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}
	if c.TimeSource == nil {
		c.TimeSource = systemTimeSource{}
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}
	return nil
}

// DefaultStoreConfig returns a StoreConfig with sensible defaults:
// unbounded capacity, no eager sweep, no-op ambient stack.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		MaxItems:         DefaultMaxItems,
		Logger:           NoOpLogger{},
		TimeSource:       systemTimeSource{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// ReadThroughConfig holds configuration for a ReadThroughCache.
type ReadThroughConfig[V any] struct {
	// Store backs the cache. If nil, a *MemoryStore[RichEntry[V]] built
	// from DefaultStoreConfig() is used.
	Store Cache[RichEntry[V]]

	// RefreshWorkers sizes the bounded pool draining eager-refresh tasks.
	// Must be >= 1. Default: DefaultRefreshWorkers.
	RefreshWorkers int

	// ErrorSink, if set, receives the error from a failed eager refresh
	// (spec §4.3 "logged or otherwise reported through an injectable error
	// sink"). Must be fast and non-blocking. Default: Logger.Error.
	ErrorSink func(key string, err error)

	// Logger receives debug/info/warn/error events. Default: NoOpLogger.
	Logger Logger

	// TimeSource provides nowMs for load timing and XFetch math. Default:
	// go-timecache-backed wall clock.
	TimeSource TimeSource

	// RandomSource provides U for the XFetch formula. Default: a private
	// math/rand source seeded at construction.
	RandomSource RandomSource

	// MetricsCollector receives operation counters. Default: NoOpMetricsCollector.
	MetricsCollector MetricsCollector
}

// Validate normalizes cfg in place, applying defaults.
func (c *ReadThroughConfig[V]) Validate() error {
	if c.RefreshWorkers <= 0 {
		c.RefreshWorkers = DefaultRefreshWorkers
	}
	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}
	if c.TimeSource == nil {
		c.TimeSource = systemTimeSource{}
	}
	if c.RandomSource == nil {
		c.RandomSource = newSystemRandomSource()
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}
	if c.ErrorSink == nil {
		logger := c.Logger
		c.ErrorSink = func(key string, err error) {
			logger.Error("eager refresh failed", "key", key, "error", err)
		}
	}
	return nil
}

// DefaultReadThroughConfig returns a ReadThroughConfig with sensible
// defaults. Store is left nil; NewReadThroughCache fills it in.
func DefaultReadThroughConfig[V any]() ReadThroughConfig[V] {
	return ReadThroughConfig[V]{
		RefreshWorkers:   DefaultRefreshWorkers,
		Logger:           NoOpLogger{},
		TimeSource:       systemTimeSource{},
		RandomSource:     newSystemRandomSource(),
		MetricsCollector: NoOpMetricsCollector{},
	}
}
