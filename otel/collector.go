// Package otel provides an OpenTelemetry-backed implementation of
// xfetch.MetricsCollector, for callers who want histograms and counters
// exported to Prometheus/Jaeger/DataDog/etc. instead of the library's
// default no-op collector.
//
// # Usage
//
//	import (
//		"github.com/halcyon-cache/xfetch"
//		xfetchotel "github.com/halcyon-cache/xfetch/otel"
//		"go.opentelemetry.io/otel/exporters/prometheus"
//		"go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, _ := xfetchotel.NewOTelMetricsCollector(provider)
//
//	cfg := xfetch.DefaultReadThroughConfig[User]()
//	cfg.MetricsCollector = collector
//	rtc, _ := xfetch.NewReadThroughCache[User](cfg)
//
// # Metrics exposed
//
//   - xfetch_get_latency_ns, xfetch_set_latency_ns: operation latency histograms
//   - xfetch_get_hits_total, xfetch_get_misses_total: Get outcome counters
//   - xfetch_evictions_total, xfetch_expirations_total: removal counters
//   - xfetch_dedup_collapses_total: callers that piggybacked on an in-flight load
//   - xfetch_eager_refresh_total, xfetch_eager_refresh_errors_total: XFetch refresh activity
//
// Copyright (c) 2025 Halcyon Cache Contributors
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/halcyon-cache/xfetch"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements xfetch.MetricsCollector using
// OpenTelemetry. Safe for concurrent use; all instruments are thread-safe.
type OTelMetricsCollector struct {
	getLatency  metric.Int64Histogram
	setLatency  metric.Int64Histogram
	hits        metric.Int64Counter
	misses      metric.Int64Counter
	evictions   metric.Int64Counter
	expirations metric.Int64Counter

	dedupCollapses     metric.Int64Counter
	eagerRefreshes     metric.Int64Counter
	eagerRefreshErrors metric.Int64Counter
}

// Options configures OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/halcyon-cache/xfetch"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful for distinguishing
// metrics from multiple cache instances.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates the OTEL instruments backing
// OTelMetricsCollector. provider must not be nil.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/halcyon-cache/xfetch"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	collector.getLatency, err = meter.Int64Histogram(
		"xfetch_get_latency_ns",
		metric.WithDescription("Latency of Get operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.setLatency, err = meter.Int64Histogram(
		"xfetch_set_latency_ns",
		metric.WithDescription("Latency of Set operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.hits, err = meter.Int64Counter(
		"xfetch_get_hits_total",
		metric.WithDescription("Total number of cache hits"),
	)
	if err != nil {
		return nil, err
	}

	collector.misses, err = meter.Int64Counter(
		"xfetch_get_misses_total",
		metric.WithDescription("Total number of cache misses"),
	)
	if err != nil {
		return nil, err
	}

	collector.evictions, err = meter.Int64Counter(
		"xfetch_evictions_total",
		metric.WithDescription("Total number of LRU evictions"),
	)
	if err != nil {
		return nil, err
	}

	collector.expirations, err = meter.Int64Counter(
		"xfetch_expirations_total",
		metric.WithDescription("Total number of TTL-based expirations"),
	)
	if err != nil {
		return nil, err
	}

	collector.dedupCollapses, err = meter.Int64Counter(
		"xfetch_dedup_collapses_total",
		metric.WithDescription("Total number of callers that piggybacked on an in-flight load"),
	)
	if err != nil {
		return nil, err
	}

	collector.eagerRefreshes, err = meter.Int64Counter(
		"xfetch_eager_refresh_total",
		metric.WithDescription("Total number of XFetch-triggered eager refreshes"),
	)
	if err != nil {
		return nil, err
	}

	collector.eagerRefreshErrors, err = meter.Int64Counter(
		"xfetch_eager_refresh_errors_total",
		metric.WithDescription("Total number of XFetch-triggered eager refreshes that failed"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordGet records a MemoryStore.Get latency and hit/miss outcome.
func (c *OTelMetricsCollector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordSet records a MemoryStore.Set latency.
func (c *OTelMetricsCollector) RecordSet(latencyNs int64) {
	c.setLatency.Record(context.Background(), latencyNs)
}

// RecordEviction records one LRU eviction.
func (c *OTelMetricsCollector) RecordEviction() {
	c.evictions.Add(context.Background(), 1)
}

// RecordExpiration records one TTL-based removal.
func (c *OTelMetricsCollector) RecordExpiration() {
	c.expirations.Add(context.Background(), 1)
}

// RecordDedupCollapse records a caller that piggybacked on an in-flight load.
func (c *OTelMetricsCollector) RecordDedupCollapse() {
	c.dedupCollapses.Add(context.Background(), 1)
}

// RecordEagerRefresh records an XFetch-triggered background refresh and
// whether it ultimately failed.
func (c *OTelMetricsCollector) RecordEagerRefresh(failed bool) {
	ctx := context.Background()
	c.eagerRefreshes.Add(ctx, 1)
	if failed {
		c.eagerRefreshErrors.Add(ctx, 1)
	}
}

var _ xfetch.MetricsCollector = (*OTelMetricsCollector)(nil)
