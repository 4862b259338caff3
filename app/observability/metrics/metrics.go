package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EngineMetrics holds the engine's metric instruments. All recording
// helpers are nil-safe so services constructed without metrics (tests)
// simply record nothing.
type EngineMetrics struct {
	SearchRequestsTotal         metric.Int64Counter
	GeocodeRequestsTotal        metric.Int64Counter
	ProviderCallDurationSeconds metric.Float64Histogram
	ProviderErrorsTotal         metric.Int64Counter
	CacheHitsTotal              metric.Int64Counter
	CacheMissesTotal            metric.Int64Counter
}

var (
	engineMetrics *EngineMetrics
	once          sync.Once
)

// Init initializes the instruments once, against the globally configured
// MeterProvider. Must run after the meter provider is set up.
func Init() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("location-engine")
		var err error
		m := &EngineMetrics{}

		m.SearchRequestsTotal, err = meter.Int64Counter(
			"place_search_requests_total",
			metric.WithDescription("Total number of place search requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create place_search_requests_total: %v", err)
		}

		m.GeocodeRequestsTotal, err = meter.Int64Counter(
			"geocode_requests_total",
			metric.WithDescription("Total number of geocode requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create geocode_requests_total: %v", err)
		}

		m.ProviderCallDurationSeconds, err = meter.Float64Histogram(
			"provider_call_duration_seconds",
			metric.WithDescription("Duration of maps search provider calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create provider_call_duration_seconds: %v", err)
		}

		m.ProviderErrorsTotal, err = meter.Int64Counter(
			"provider_errors_total",
			metric.WithDescription("Total number of failed provider calls"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create provider_errors_total: %v", err)
		}

		m.CacheHitsTotal, err = meter.Int64Counter(
			"cache_hits_total",
			metric.WithDescription("Total number of engine cache hits"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create cache_hits_total: %v", err)
		}

		m.CacheMissesTotal, err = meter.Int64Counter(
			"cache_misses_total",
			metric.WithDescription("Total number of engine cache misses"),
			metric.WithUnit("{miss}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create cache_misses_total: %v", err)
		}

		log.Println("Engine metrics instruments initialized.")
		engineMetrics = m
	})
}

// Get returns the initialized instruments, or nil when Init has not run.
func Get() *EngineMetrics {
	return engineMetrics
}

// RecordProviderCall records one provider round-trip.
func (m *EngineMetrics) RecordProviderCall(ctx context.Context, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.ProviderCallDurationSeconds.Record(ctx, elapsed.Seconds())
	if err != nil {
		m.ProviderErrorsTotal.Add(ctx, 1)
	}
}

// RecordCacheLookup records a hit or miss for the named cache.
func (m *EngineMetrics) RecordCacheLookup(ctx context.Context, cacheName string, hit bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("cache", cacheName))
	if hit {
		m.CacheHitsTotal.Add(ctx, 1, attrs)
		return
	}
	m.CacheMissesTotal.Add(ctx, 1, attrs)
}

// RecordSearch counts one search request.
func (m *EngineMetrics) RecordSearch(ctx context.Context) {
	if m == nil {
		return
	}
	m.SearchRequestsTotal.Add(ctx, 1)
}

// RecordGeocode counts one geocode request.
func (m *EngineMetrics) RecordGeocode(ctx context.Context) {
	if m == nil {
		return
	}
	m.GeocodeRequestsTotal.Add(ctx, 1)
}
