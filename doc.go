// Package xfetch provides an in-process, read-through cache built from
// three composable pieces: a bounded LRU store with per-key TTL, a
// single-flight loader that collapses concurrent cache misses for the same
// key into one execution, and a read-through front-end that layers the
// XFetch (beta=1) probabilistic early-refresh algorithm on top of both so
// hot keys are repopulated before they go cold instead of after.
//
// # Quick start
//
//	rtc, err := xfetch.NewReadThroughCache(xfetch.DefaultReadThroughConfig[User]())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer rtc.Close()
//
//	user, err := rtc.Get(ctx, "user:123", func(ctx context.Context) (xfetch.LoadResult[User], error) {
//		u, err := fetchUserFromDB(ctx, 123)
//		return xfetch.LoadResult[User]{Value: u, TTLMs: 60_000}, err
//	})
//
// Concurrent Get calls for the same absent or expired key collapse into a
// single load; everyone else waits for its result instead of hammering the
// backing source.
//
// # Using MemoryStore or DedupLoader standalone
//
// Both of the cache's building blocks are exported and usable on their
// own:
//
//	store, _ := xfetch.NewMemoryStore[int](xfetch.StoreConfig{MaxItems: 1000})
//	store.Set("k", 42, 0)
//	v, found := store.Get("k")
//
//	loader := xfetch.NewDedupLoader[string](nil)
//	v, err := loader.LoadOrAwait(ctx, "k", func(ctx context.Context) (string, error) {
//		return expensiveCall(ctx)
//	})
//
// # Configuration
//
// StoreConfig and ReadThroughConfig each carry an injectable Logger,
// TimeSource, RandomSource (ReadThroughConfig only) and MetricsCollector;
// their zero values fall back to no-op/system implementations via
// Validate, so most callers only set the fields they care about.
// DefaultStoreConfig and DefaultReadThroughConfig return ready-to-use
// values.
//
// # Hot-reloadable capacity
//
// HotStoreConfig watches a configuration file (any format Argus parses)
// and applies MaxItems changes to a running MemoryStore without requiring
// it to be rebuilt.
//
// # Observability
//
// The xfetch/otel subpackage implements MetricsCollector on top of
// OpenTelemetry metrics, for callers who want histograms and counters
// instead of the default no-op collector.
package xfetch
