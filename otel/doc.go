// Package otel implements xfetch.MetricsCollector on top of OpenTelemetry
// metrics. It is a separate module so the xfetch core has no OTEL
// dependency; applications that don't need metrics don't pay for them.
//
// # Quick start
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	collector, err := xfetchotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := xfetch.DefaultReadThroughConfig[User]()
//	cfg.MetricsCollector = collector
//	rtc, _ := xfetch.NewReadThroughCache[User](cfg)
//
// # Metrics exposed
//
// Histograms:
//   - xfetch_get_latency_ns
//   - xfetch_set_latency_ns
//
// Counters:
//   - xfetch_get_hits_total / xfetch_get_misses_total
//   - xfetch_evictions_total / xfetch_expirations_total
//   - xfetch_dedup_collapses_total
//   - xfetch_eager_refresh_total / xfetch_eager_refresh_errors_total
//
// # Multiple instances
//
// Use WithMeterName to distinguish metrics from multiple cache instances
// sharing one MeterProvider:
//
//	collector, _ := xfetchotel.NewOTelMetricsCollector(provider,
//		xfetchotel.WithMeterName("user_cache"))
package otel
