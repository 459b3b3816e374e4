// hot-reload.go: dynamic capacity reload with Argus integration
//
// Copyright (c) 2025 Halcyon Cache Contributors
// SPDX-License-Identifier: MPL-2.0

package xfetch

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
	"github.com/hashicorp/go-multierror"
)

// HotStoreConfig watches a configuration file with Argus and applies
// capacity changes to a running MemoryStore without requiring it to be
// rebuilt. Only MaxItems is hot-reloadable: CleanupInterval governs a
// goroutine that is started once at construction (spec §4.1's "single
// shared scheduler", not one per reload), so changing it here only takes
// effect on the next process restart.
type HotStoreConfig[T any] struct {
	store   *MemoryStore[T]
	watcher *argus.Watcher
	mu      sync.RWMutex
	current StoreResizePolicy

	// OnReload is called after a config change has been applied. Optional,
	// must be fast and non-blocking.
	OnReload func(old, new StoreResizePolicy)
}

// StoreResizePolicy is the subset of StoreConfig that can be changed live.
type StoreResizePolicy struct {
	MaxItems int
}

// HotStoreConfigOptions configures hot reload behavior.
type HotStoreConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch. Supports
	// JSON, YAML, TOML, HCL, INI, Properties (anything Argus parses).
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(old, new StoreResizePolicy)
}

// NewHotStoreConfig creates a hot-reloadable capacity policy for store and
// starts watching opts.ConfigPath immediately.
//
// Expected configuration shape (YAML):
//
//	store:
//	  max_items: 10000
//
// max_items: 0 means unbounded. A negative or non-numeric max_items is
// ignored and the current policy is kept.
func NewHotStoreConfig[T any](store *MemoryStore[T], opts HotStoreConfigOptions) (*HotStoreConfig[T], error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	hc := &HotStoreConfig[T]{
		store:    store,
		OnReload: opts.OnReload,
		current:  StoreResizePolicy{MaxItems: 0},
	}

	argusConfig := argus.Config{PollInterval: opts.PollInterval}
	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file. Safe to call if already
// running.
func (hc *HotStoreConfig[T]) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file and closes the underlying
// store, aggregating any errors from both with go-multierror. Safe to call
// multiple times: the watcher is only stopped while it is running, and
// MemoryStore.Close is idempotent.
func (hc *HotStoreConfig[T]) Stop() error {
	var watcherErr error
	if hc.watcher.IsRunning() {
		watcherErr = hc.watcher.Stop()
	}
	storeErr := hc.store.Close()
	return aggregateStopErrors(watcherErr, storeErr)
}

// aggregateStopErrors combines the config watcher's and the store's shutdown
// errors into one, or nil if both succeeded. Factored out of Stop so the
// aggregation itself is testable without a live Argus watcher.
func aggregateStopErrors(watcherErr, storeErr error) error {
	var result *multierror.Error
	if watcherErr != nil {
		result = multierror.Append(result, fmt.Errorf("stopping config watcher: %w", watcherErr))
	}
	if storeErr != nil {
		result = multierror.Append(result, fmt.Errorf("closing store: %w", storeErr))
	}
	return result.ErrorOrNil()
}

// Current returns the currently applied resize policy.
func (hc *HotStoreConfig[T]) Current() StoreResizePolicy {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.current
}

func (hc *HotStoreConfig[T]) handleConfigChange(configData map[string]interface{}) {
	newPolicy := hc.parsePolicy(configData)

	hc.mu.Lock()
	oldPolicy := hc.current
	hc.current = newPolicy
	hc.mu.Unlock()

	if newPolicy != oldPolicy {
		hc.store.Resize(newPolicy.MaxItems)
	}

	if hc.OnReload != nil {
		hc.OnReload(oldPolicy, newPolicy)
	}
}

func (hc *HotStoreConfig[T]) parsePolicy(data map[string]interface{}) StoreResizePolicy {
	policy := hc.Current()

	section, ok := data["store"].(map[string]interface{})
	if !ok {
		if _, hasMaxItems := data["max_items"]; hasMaxItems {
			section = data
		} else {
			return policy
		}
	}

	if maxItems, ok := parseNonNegativeInt(section["max_items"]); ok {
		policy.MaxItems = maxItems
	}

	return policy
}

// parseNonNegativeInt extracts a non-negative integer from an interface{}
// value, tolerating both int and float64 (JSON/YAML decoders disagree on
// numeric Go types).
func parseNonNegativeInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v >= 0 {
			return v, true
		}
	case float64:
		if v >= 0 {
			return int(v), true
		}
	}
	return 0, false
}
