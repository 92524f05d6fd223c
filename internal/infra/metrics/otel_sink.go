// Package metrics records pipeline counters through OpenTelemetry.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"beacon/config"
	"beacon/internal/domain/service"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type otelSink struct {
	ingested    metric.Int64Counter
	ingestTime  metric.Float64Histogram
	pushes      metric.Int64Counter
	connections metric.Int64UpDownCounter
	replayed    metric.Int64Counter
}

// NewMetricsSink returns an OpenTelemetry sink on the global meter provider,
// or a no-op sink when metrics are disabled.
func NewMetricsSink(cfg *config.Config, logger *slog.Logger) (service.MetricsSink, error) {
	if cfg.Metrics == nil || !cfg.Metrics.Enabled {
		return service.NopMetrics{}, nil
	}

	logger.Info("OpenTelemetry metrics enabled", slog.String("meter", cfg.Metrics.MeterName))

	return NewOtelSink(otel.Meter(cfg.Metrics.MeterName))
}

// NewOtelSink creates the pipeline instruments on meter.
func NewOtelSink(meter metric.Meter) (service.MetricsSink, error) {
	ingested, err := meter.Int64Counter("beacon.notifications.ingested",
		metric.WithDescription("Queue messages processed, by outcome"))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	ingestTime, err := meter.Float64Histogram("beacon.notifications.ingest.duration",
		metric.WithDescription("Time spent processing one queue message"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	pushes, err := meter.Int64Counter("beacon.notifications.pushed",
		metric.WithDescription("Realtime push attempts, by delivered flag"))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	connections, err := meter.Int64UpDownCounter("beacon.gateway.connections",
		metric.WithDescription("Open realtime connections on this instance"))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	replayed, err := meter.Int64Counter("beacon.notifications.replayed",
		metric.WithDescription("Notifications delivered by replay"))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &otelSink{
		ingested:    ingested,
		ingestTime:  ingestTime,
		pushes:      pushes,
		connections: connections,
		replayed:    replayed,
	}, nil
}

func (s *otelSink) RecordIngest(ctx context.Context, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	s.ingested.Add(ctx, 1, attrs)
	s.ingestTime.Record(ctx, elapsed.Seconds(), attrs)
}

func (s *otelSink) RecordPush(ctx context.Context, delivered bool) {
	s.pushes.Add(ctx, 1, metric.WithAttributes(attribute.Bool("delivered", delivered)))
}

func (s *otelSink) RecordConnection(ctx context.Context, delta int64) {
	s.connections.Add(ctx, delta)
}

func (s *otelSink) RecordReplay(ctx context.Context, replayed int) {
	if replayed <= 0 {
		return
	}
	s.replayed.Add(ctx, int64(replayed))
}
