package service

import (
	"context"
	"time"
)

// MetricsSink receives pipeline counters. Implementations must be safe for concurrent use.
type MetricsSink interface {
	RecordIngest(ctx context.Context, outcome string, elapsed time.Duration)
	RecordPush(ctx context.Context, delivered bool)
	RecordConnection(ctx context.Context, delta int64)
	RecordReplay(ctx context.Context, replayed int)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordIngest(context.Context, string, time.Duration) {}
func (NopMetrics) RecordPush(context.Context, bool)                    {}
func (NopMetrics) RecordConnection(context.Context, int64)             {}
func (NopMetrics) RecordReplay(context.Context, int)                   {}

// MetricsOrNop returns sink, or a no-op sink when none is configured.
func MetricsOrNop(sink MetricsSink) MetricsSink {
	if sink == nil {
		return NopMetrics{}
	}

	return sink
}
