package bench

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/omeyang/xqueue/pkg/observability/xmetrics"
)

// syncBuffer 是并发安全的 bytes.Buffer，用于收集日志。
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRun_Basic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Items = 200

	res, err := Run(context.Background(), cfg, WithLogger(discardLogger()))
	require.NoError(t, err)

	assert.Equal(t, ScenarioBasic, res.Scenario)
	assert.Equal(t, uint64(400), res.Produced)
	assert.Equal(t, uint64(400), res.Consumed)
	assert.Zero(t, res.Rejected)
	assert.True(t, res.Balanced())
	assert.Positive(t, res.Elapsed)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
}

func TestRun_BasicManyWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Producers = 8
	cfg.Consumers = 3
	cfg.Capacity = 1
	cfg.Items = 250

	res, err := Run(context.Background(), cfg, WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), res.Produced)
	assert.Equal(t, uint64(2000), res.Pops)
	assert.True(t, res.Balanced())
}

func TestRun_EmptyRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Items = 0

	res, err := Run(context.Background(), cfg, WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.Zero(t, res.Produced)
	assert.Zero(t, res.Consumed)
	assert.True(t, res.Balanced())
}

func TestRun_Shutdown(t *testing.T) {
	cfg := Defaults(ScenarioShutdown)
	cfg.Items = 10_000_000
	cfg.CloseAfter = 20 * time.Millisecond

	res, err := Run(context.Background(), cfg, WithLogger(discardLogger()))
	require.NoError(t, err)

	assert.Equal(t, uint64(cfg.Producers), res.Rejected, "every producer observes the close")
	assert.Less(t, res.Produced, uint64(cfg.Producers*cfg.Items))
	assert.True(t, res.Balanced(), "items accepted before close are still drained")
	assert.GreaterOrEqual(t, res.Elapsed, cfg.CloseAfter)
}

func TestRun_ShutdownAfterProducersFinish(t *testing.T) {
	cfg := Defaults(ScenarioShutdown)
	cfg.Items = 5
	cfg.CloseAfter = 10 * time.Millisecond

	res, err := Run(context.Background(), cfg, WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.Zero(t, res.Rejected)
	assert.Equal(t, uint64(10), res.Consumed)
	assert.True(t, res.Balanced())
}

func TestRun_Blocking(t *testing.T) {
	cfg := Defaults(ScenarioBlocking)
	cfg.ConsumerDelay = 5 * time.Millisecond

	res, err := Run(context.Background(), cfg, WithLogger(discardLogger()))
	require.NoError(t, err)

	assert.Equal(t, uint64(10), res.Produced)
	assert.Equal(t, uint64(10), res.Consumed)
	assert.True(t, res.Balanced())
	// 单消费者每次 Pop 后停顿，总耗时不低于 Items*ConsumerDelay。
	assert.GreaterOrEqual(t, res.Elapsed, 10*cfg.ConsumerDelay)
}

func TestRun_Pool(t *testing.T) {
	cfg := Defaults(ScenarioPool)
	cfg.Producers = 3
	cfg.Consumers = 4
	cfg.Items = 300

	res, err := Run(context.Background(), cfg, WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.Equal(t, ScenarioPool, res.Scenario)
	assert.Equal(t, uint64(900), res.Consumed)
	assert.True(t, res.Balanced())
}

func TestRun_ContextCanceled(t *testing.T) {
	for _, sc := range []Scenario{ScenarioBasic, ScenarioPool} {
		t.Run(string(sc), func(t *testing.T) {
			cfg := Defaults(sc)
			cfg.Items = 10_000_000

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()

			res, err := Run(ctx, cfg, WithLogger(discardLogger()))
			require.ErrorIs(t, err, context.DeadlineExceeded)
			assert.Less(t, res.Produced, uint64(cfg.Producers*cfg.Items))
			assert.True(t, res.Balanced())
		})
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 0
	_, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Scenario = "unknown"
	_, err = Run(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestRun_ScenarioByNumber(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scenario = "1"
	cfg.Items = 10

	res, err := Run(context.Background(), cfg, WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.Equal(t, ScenarioBasic, res.Scenario)
}

func TestRun_Concurrent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Items = 100

	var wg sync.WaitGroup
	results := make([]Result, 4)
	for i := range results {
		wg.Go(func() {
			res, err := Run(context.Background(), cfg, WithLogger(discardLogger()))
			assert.NoError(t, err)
			results[i] = res
		})
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, res := range results {
		assert.True(t, res.Balanced())
		assert.Equal(t, uint64(200), res.Consumed)
		assert.False(t, seen[res.RunID], "run IDs are unique")
		seen[res.RunID] = true
	}
}

func TestRun_Logging(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := DefaultConfig()
	cfg.Producers = 1
	cfg.Consumers = 1
	cfg.Items = 100

	res, err := Run(context.Background(), cfg, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "run starting")
	assert.Contains(t, out, "run finished")
	assert.Contains(t, out, "run_id="+res.RunID)
	assert.Contains(t, out, "scenario=basic")
	assert.Contains(t, out, "msg=produced")
	assert.Contains(t, out, "msg=consumed")
	assert.Contains(t, out, "balanced=true")
}

func TestRun_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	observer, err := xmetrics.NewOTelObserver(xmetrics.WithTracerProvider(tp))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Producers = 2
	cfg.Consumers = 3
	cfg.Items = 10

	_, err = Run(context.Background(), cfg, WithLogger(discardLogger()), WithObserver(observer))
	require.NoError(t, err)

	counts := make(map[string]int)
	var root sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		counts[s.Name()]++
		if s.Name() == "run" {
			root = s
		}
	}
	assert.Equal(t, 1, counts["run"])
	assert.Equal(t, 2, counts["produce"])
	assert.Equal(t, 3, counts["consume"])

	require.NotNil(t, root)
	for _, s := range recorder.Ended() {
		if s.Name() != "run" {
			assert.Equal(t, root.SpanContext().SpanID(), s.Parent().SpanID(), "worker spans are children of the run span")
		}
	}
	assert.Contains(t, root.Attributes(), attribute.Bool("balanced", true))
}

func TestRun_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	cfg := Defaults(ScenarioBlocking)
	cfg.ConsumerDelay = 20 * time.Millisecond

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := Run(context.Background(), cfg,
			WithLogger(discardLogger()),
			WithMeter(mp.Meter("bench-test")),
		)
		assert.NoError(t, err)
	}()

	hasCapacity := func() bool {
		var rm metricdata.ResourceMetrics
		if err := reader.Collect(context.Background(), &rm); err != nil {
			return false
		}
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				g, ok := m.Data.(metricdata.Gauge[int64])
				if m.Name != "xqueue.capacity" || !ok {
					continue
				}
				for _, dp := range g.DataPoints {
					if v, _ := dp.Attributes.Value("queue"); v.AsString() == "bench.blocking" && dp.Value == 2 {
						return true
					}
				}
			}
		}
		return false
	}

	assert.Eventually(t, hasCapacity, time.Second, 5*time.Millisecond)
	<-done
	assert.False(t, hasCapacity(), "metrics are unregistered when the run ends")
}
