package xmetrics

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xqueue/pkg/util/xqueue"
)

const (
	metricQueueLength   = "xqueue.length"
	metricQueueCapacity = "xqueue.capacity"
	metricQueueClosed   = "xqueue.closed"
	metricQueuePushes   = "xqueue.pushes"
	metricQueuePops     = "xqueue.pops"
)

// StatsSource 是可被采集的队列。*xqueue.Queue 与 *xpool.Pool 均满足。
type StatsSource interface {
	Stats() xqueue.Stats
}

// RegisterQueue 为 src 注册异步指标，name 作为 queue 属性值。
// 返回的 Registration 用于在队列废弃后注销回调。
func RegisterQueue(meter metric.Meter, name string, src StatsSource) (metric.Registration, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if src == nil {
		return nil, ErrNilSource
	}

	length, err := meter.Int64ObservableGauge(metricQueueLength,
		metric.WithDescription("items currently buffered"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricQueueLength, err)
	}
	capacity, err := meter.Int64ObservableGauge(metricQueueCapacity,
		metric.WithDescription("fixed queue capacity"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricQueueCapacity, err)
	}
	closed, err := meter.Int64ObservableGauge(metricQueueClosed,
		metric.WithDescription("1 once the queue has been closed"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricQueueClosed, err)
	}
	pushes, err := meter.Int64ObservableCounter(metricQueuePushes,
		metric.WithDescription("successful pushes"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricQueuePushes, err)
	}
	pops, err := meter.Int64ObservableCounter(metricQueuePops,
		metric.WithDescription("successful pops"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricQueuePops, err)
	}

	attrs := metric.WithAttributeSet(attribute.NewSet(attribute.String("queue", name)))
	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		st := src.Stats()
		o.ObserveInt64(length, int64(st.Len), attrs)
		o.ObserveInt64(capacity, int64(st.Capacity), attrs)
		var c int64
		if st.Closed {
			c = 1
		}
		o.ObserveInt64(closed, c, attrs)
		o.ObserveInt64(pushes, clampInt64(st.Pushes), attrs)
		o.ObserveInt64(pops, clampInt64(st.Pops), attrs)
		return nil
	}, length, capacity, closed, pushes, pops)
	if err != nil {
		return nil, fmt.Errorf("%w: register callback: %w", ErrCreateInstrument, err)
	}
	return reg, nil
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
