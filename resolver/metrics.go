package resolver

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// metrics records resolution activity. All instruments come from the
// caller-supplied meter; with no meter configured every call is a no-op.
type metrics struct {
	hits           metric.Int64Counter
	misses         metric.Int64Counter
	decodeErrors   metric.Int64Counter
	decodeDuration metric.Float64Histogram
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("tzresolve")
	}

	hits, err := meter.Int64Counter(
		"tz.resolve.cache.hits",
		metric.WithDescription("Resolutions served from the worker cache"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"tz.resolve.cache.misses",
		metric.WithDescription("Resolutions that invoked a decode"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	decodeErrors, err := meter.Int64Counter(
		"tz.resolve.decode.errors",
		metric.WithDescription("Decodes that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	decodeDuration, err := meter.Float64Histogram(
		"tz.resolve.decode.duration_ms",
		metric.WithDescription("Decode duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metrics{
		hits:           hits,
		misses:         misses,
		decodeErrors:   decodeErrors,
		decodeDuration: decodeDuration,
	}, nil
}

func (m *metrics) recordLookup(ctx context.Context, computed bool) {
	if computed {
		m.misses.Add(ctx, 1)
	} else {
		m.hits.Add(ctx, 1)
	}
}

func (m *metrics) recordDecode(ctx context.Context, start time.Time, err error) {
	if err != nil {
		m.decodeErrors.Add(ctx, 1)
	}
	m.decodeDuration.Record(ctx, float64(time.Since(start))/float64(time.Millisecond))
}
