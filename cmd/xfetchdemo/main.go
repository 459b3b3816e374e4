// Command xfetchdemo is a thin demonstration harness for the xfetch
// library: LRU eviction, TTL expiry, single-flight dedup under a stampede,
// and XFetch eager refresh, all driven against a simulated slow backing
// source.
//
// Copyright (c) 2025 Halcyon Cache Contributors
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/halcyon-cache/xfetch"
)

// User is the simulated value domain for this demo.
type User struct {
	ID   int
	Name string
}

func fetchUserFromDB(ctx context.Context, id int) (User, error) {
	log.Printf("fetching user %d from database (slow operation)...", id)
	select {
	case <-time.After(100 * time.Millisecond):
		return User{ID: id, Name: fmt.Sprintf("User%d", id)}, nil
	case <-ctx.Done():
		return User{}, ctx.Err()
	}
}

func main() {
	maxItems := flag.Int("max-items", 2, "MemoryStore capacity for the eviction demo")
	stampedeWorkers := flag.Int("stampede-workers", 50, "concurrent callers in the dedup demo")
	flag.Parse()

	// Signal-aware context is the root of ownership for long-lived
	// background work; SIGINT/SIGTERM triggers a clean shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("=== Demo 1: LRU eviction ===")
	lruEvictionDemo(*maxItems)

	fmt.Println("\n=== Demo 2: TTL expiry ===")
	ttlExpiryDemo()

	fmt.Println("\n=== Demo 3: Cache stampede prevention (single-flight) ===")
	stampedeDemo(ctx, *stampedeWorkers)

	fmt.Println("\n=== Demo 4: Read-through with eager refresh ===")
	readThroughDemo(ctx)

	select {
	case <-ctx.Done():
		log.Println("received shutdown signal")
	default:
		fmt.Println("\nDone. Press Ctrl+C to exit immediately next time.")
	}
}

func lruEvictionDemo(maxItems int) {
	store, err := xfetch.NewMemoryStore[string](xfetch.StoreConfig{MaxItems: maxItems})
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	store.Set("a", "A", 0)
	store.Set("b", "B", 0)
	if v, ok := store.Get("a"); ok {
		log.Printf("GET a = %q (touches a -> MRU)", v)
	}
	store.Set("c", "C", 0)
	if _, ok := store.Get("b"); !ok {
		log.Println("GET b: missing (evicted as LRU)")
	}
	if v, ok := store.Get("c"); ok {
		log.Printf("GET c = %q", v)
	}
}

func ttlExpiryDemo() {
	store, err := xfetch.NewMemoryStore[string](xfetch.StoreConfig{CleanupInterval: 50 * time.Millisecond})
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	store.Set("ttl", "short-lived", 100)
	if v, ok := store.Get("ttl"); ok {
		log.Printf("GET ttl = %q (fresh)", v)
	}
	time.Sleep(200 * time.Millisecond)
	if _, ok := store.Get("ttl"); !ok {
		log.Println("GET ttl: missing (expired)")
	}
}

func stampedeDemo(ctx context.Context, workers int) {
	loader := xfetch.NewDedupLoader[User](xfetch.NoOpMetricsCollector{})

	var dbCalls int32
	fmt.Printf("launching %d concurrent requests for the same key...\n", workers)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			user, err := loader.LoadOrAwait(ctx, "user:200", func(ctx context.Context) (User, error) {
				atomic.AddInt32(&dbCalls, 1)
				return fetchUserFromDB(ctx, 200)
			})
			if err != nil {
				log.Printf("worker %d error: %v", id, err)
				return
			}
			if id == 0 {
				fmt.Printf("worker 0 got user: %s\n", user.Name)
			}
		}(i)
	}
	wg.Wait()

	fmt.Printf("all %d requests completed in %v; backing source invoked %d time(s)\n",
		workers, time.Since(start), atomic.LoadInt32(&dbCalls))
}

func readThroughDemo(ctx context.Context) {
	cfg := xfetch.DefaultReadThroughConfig[User]()
	rtc, err := xfetch.NewReadThroughCache[User](cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer rtc.Close()

	load := func(ctx context.Context) (xfetch.LoadResult[User], error) {
		u, err := fetchUserFromDB(ctx, 300)
		return xfetch.LoadResult[User]{Value: u, TTLMs: 500}, err
	}

	user, err := rtc.Get(ctx, "user:300", load)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("first Get: %s (miss, loaded synchronously)\n", user.Name)

	user, err = rtc.Get(ctx, "user:300", load)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("second Get: %s (hit, returned immediately)\n", user.Name)
}
