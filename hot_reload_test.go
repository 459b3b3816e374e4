// Copyright (c) 2025 Halcyon Cache Contributors
// SPDX-License-Identifier: MPL-2.0

package xfetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStoreForHotReload(t *testing.T) *MemoryStore[string] {
	t.Helper()
	store, err := NewMemoryStore[string](StoreConfig{MaxItems: 0})
	if err != nil {
		t.Fatalf("NewMemoryStore failed: %v", err)
	}
	return store
}

func TestNewHotStoreConfig_EmptyPath(t *testing.T) {
	store := newTestStoreForHotReload(t)
	defer store.Close()

	_, err := NewHotStoreConfig[string](store, HotStoreConfigOptions{ConfigPath: ""})
	if err == nil {
		t.Error("expected error for empty config path")
	}
}

func TestHotStoreConfig_StartStop(t *testing.T) {
	store := newTestStoreForHotReload(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	if err := os.WriteFile(configPath, []byte("store:\n  max_items: 100\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	hc, err := NewHotStoreConfig[string](store, HotStoreConfigOptions{
		ConfigPath:   configPath,
		PollInterval: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewHotStoreConfig failed: %v", err)
	}

	if err := hc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := hc.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}

	// Stop closes the store; calling it again must stay nil (store.Close is
	// idempotent), not attempt to resize a now-unreachable store.
	if err := hc.Stop(); err != nil {
		t.Errorf("second Stop = %v; want nil", err)
	}
}

// TestHotStoreConfig_GrowAndShrink exercises a real file watch: writing a
// smaller max_items than the store's current resident count must evict down
// to the new bound; writing a larger one must lift it again.
func TestHotStoreConfig_GrowAndShrink(t *testing.T) {
	store := newTestStoreForHotReload(t)
	defer store.Close()

	for i := 0; i < 5; i++ {
		store.Set(fmt.Sprintf("k%d", i), "v", 0)
	}
	if got := store.Len(); got != 5 {
		t.Fatalf("setup: store.Len() = %d; want 5", got)
	}

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")
	if err := os.WriteFile(configPath, []byte("store:\n  max_items: 5\n"), 0644); err != nil {
		t.Fatalf("write initial config: %v", err)
	}

	var mu sync.Mutex
	reloads := make(chan StoreResizePolicy, 4)
	hc, err := NewHotStoreConfig[string](store, HotStoreConfigOptions{
		ConfigPath:   configPath,
		PollInterval: 50 * time.Millisecond,
		OnReload: func(old, new StoreResizePolicy) {
			mu.Lock()
			defer mu.Unlock()
			select {
			case reloads <- new:
			default:
			}
		},
	})
	if err != nil {
		t.Fatalf("NewHotStoreConfig failed: %v", err)
	}
	defer func() { _ = hc.Stop() }()

	if err := hc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Initial load.
	select {
	case p := <-reloads:
		if p.MaxItems != 5 {
			t.Fatalf("initial policy MaxItems = %d; want 5", p.MaxItems)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for initial config load")
	}

	// Shrink: polling backends commonly key reload detection off mtime,
	// which can have coarse granularity, so give the timestamp room to move.
	time.Sleep(1500 * time.Millisecond)
	if err := os.WriteFile(configPath, []byte("store:\n  max_items: 2\n"), 0644); err != nil {
		t.Fatalf("write shrink config: %v", err)
	}

	select {
	case p := <-reloads:
		if p.MaxItems != 2 {
			t.Fatalf("shrunk policy MaxItems = %d; want 2", p.MaxItems)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for shrink reload")
	}
	if got := store.Len(); got != 2 {
		t.Errorf("store.Len() after shrink = %d; want 2", got)
	}
	if got := hc.Current().MaxItems; got != 2 {
		t.Errorf("hc.Current().MaxItems = %d; want 2", got)
	}

	// Grow again: the bound relaxes but nothing is re-admitted (already
	// evicted keys are gone; this just raises the ceiling).
	time.Sleep(1500 * time.Millisecond)
	if err := os.WriteFile(configPath, []byte("store:\n  max_items: 10\n"), 0644); err != nil {
		t.Fatalf("write grow config: %v", err)
	}

	select {
	case p := <-reloads:
		if p.MaxItems != 10 {
			t.Fatalf("grown policy MaxItems = %d; want 10", p.MaxItems)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for grow reload")
	}
	store.Set("k5", "v", 0)
	store.Set("k6", "v", 0)
	if got := store.Len(); got != 4 {
		t.Errorf("store.Len() after grow and two more Sets = %d; want 4", got)
	}
}

func TestHotStoreConfig_ParsePolicy(t *testing.T) {
	store := newTestStoreForHotReload(t)
	defer store.Close()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "dummy.yaml")
	if err := os.WriteFile(configPath, []byte("store: {}"), 0644); err != nil {
		t.Fatalf("write dummy config: %v", err)
	}

	hc, err := NewHotStoreConfig[string](store, HotStoreConfigOptions{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("NewHotStoreConfig failed: %v", err)
	}
	defer func() { _ = hc.Stop() }()

	tests := []struct {
		name string
		data map[string]interface{}
		want int
	}{
		{
			name: "nested store section, float64 from JSON/YAML decode",
			data: map[string]interface{}{
				"store": map[string]interface{}{"max_items": float64(500)},
			},
			want: 500,
		},
		{
			name: "nested store section, plain int",
			data: map[string]interface{}{
				"store": map[string]interface{}{"max_items": 500},
			},
			want: 500,
		},
		{
			name: "top-level max_items fallback when no store section",
			data: map[string]interface{}{"max_items": float64(42)},
			want: 42,
		},
		{
			name: "missing section keeps current policy",
			data: map[string]interface{}{"other": "value"},
			want: 0,
		},
		{
			name: "negative value ignored, keeps current policy",
			data: map[string]interface{}{
				"store": map[string]interface{}{"max_items": float64(-1)},
			},
			want: 0,
		},
		{
			name: "non-numeric value ignored, keeps current policy",
			data: map[string]interface{}{
				"store": map[string]interface{}{"max_items": "lots"},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hc.parsePolicy(tt.data)
			if got.MaxItems != tt.want {
				t.Errorf("parsePolicy(%v).MaxItems = %d; want %d", tt.data, got.MaxItems, tt.want)
			}
		})
	}
}

func TestHotStoreConfig_HandleConfigChangeAppliesResize(t *testing.T) {
	store := newTestStoreForHotReload(t)
	defer store.Close()
	for i := 0; i < 3; i++ {
		store.Set(fmt.Sprintf("k%d", i), "v", 0)
	}

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "dummy.yaml")
	if err := os.WriteFile(configPath, []byte("store: {}"), 0644); err != nil {
		t.Fatalf("write dummy config: %v", err)
	}

	var gotOld, gotNew StoreResizePolicy
	var calls int
	hc, err := NewHotStoreConfig[string](store, HotStoreConfigOptions{
		ConfigPath: configPath,
		OnReload: func(old, new StoreResizePolicy) {
			calls++
			gotOld, gotNew = old, new
		},
	})
	if err != nil {
		t.Fatalf("NewHotStoreConfig failed: %v", err)
	}
	defer func() { _ = hc.Stop() }()

	// Construction loads the file once ("store: {}" leaves MaxItems at 0)
	// and reports it through OnReload; count only the calls made below.
	base := calls

	hc.handleConfigChange(map[string]interface{}{
		"store": map[string]interface{}{"max_items": float64(1)},
	})

	if calls-base != 1 {
		t.Fatalf("OnReload called %d times; want 1", calls-base)
	}
	if gotOld.MaxItems != 0 || gotNew.MaxItems != 1 {
		t.Errorf("OnReload(old, new) = (%v, %v); want (MaxItems=0, MaxItems=1)", gotOld, gotNew)
	}
	if got := store.Len(); got != 1 {
		t.Errorf("store.Len() after resize to 1 = %d; want 1", got)
	}

	// An identical policy still fires OnReload but does not resize again.
	hc.handleConfigChange(map[string]interface{}{
		"store": map[string]interface{}{"max_items": float64(1)},
	})
	if calls-base != 2 {
		t.Fatalf("OnReload called %d times after repeat; want 2 (still fires, just no resize)", calls-base)
	}
}

// TestAggregateStopErrors exercises Stop's error-combination logic directly
// (it is factored out of Stop specifically so it can be tested without a
// live Argus watcher): nil+nil is nil, either side alone surfaces, and both
// together combine into one multierror carrying both messages.
func TestAggregateStopErrors(t *testing.T) {
	watcherErr := errors.New("watcher boom")
	storeErr := errors.New("store boom")

	if err := aggregateStopErrors(nil, nil); err != nil {
		t.Errorf("aggregateStopErrors(nil, nil) = %v; want nil", err)
	}

	if err := aggregateStopErrors(watcherErr, nil); err == nil || !errors.Is(err, watcherErr) {
		t.Errorf("aggregateStopErrors(watcherErr, nil) = %v; want wrapping %v", err, watcherErr)
	}

	if err := aggregateStopErrors(nil, storeErr); err == nil || !errors.Is(err, storeErr) {
		t.Errorf("aggregateStopErrors(nil, storeErr) = %v; want wrapping %v", err, storeErr)
	}

	err := aggregateStopErrors(watcherErr, storeErr)
	if err == nil {
		t.Fatal("aggregateStopErrors(watcherErr, storeErr) = nil; want a combined error")
	}
	if !errors.Is(err, watcherErr) {
		t.Errorf("combined error does not wrap watcherErr: %v", err)
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("combined error does not wrap storeErr: %v", err)
	}
}
