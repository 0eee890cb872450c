package bench

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xqueue/pkg/observability/xmetrics"
)

// Option 配置 Run。
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer xmetrics.Observer
	meter    metric.Meter
}

func defaultOptions() options {
	return options{
		logger:   slog.Default(),
		observer: xmetrics.NoopObserver{},
	}
}

// WithLogger 设置日志记录器。nil 被忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver 设置观测器，为整次运行以及每个生产者/消费者创建跨度。nil 被忽略。
func WithObserver(observer xmetrics.Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithMeter 设置 meter，运行期间通过 xmetrics.RegisterQueue 导出队列指标。
func WithMeter(meter metric.Meter) Option {
	return func(o *options) {
		o.meter = meter
	}
}
