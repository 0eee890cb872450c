package xmetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTracerProvider() (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)), exporter
}

func TestNewOTelObserver_Default(t *testing.T) {
	obs, err := NewOTelObserver(WithInstrumentationName(""), WithMeterProvider(nil), nil)
	require.NoError(t, err)
	require.NotNil(t, obs)
}

func TestOTelSpan_Success(t *testing.T) {
	tp, exporter := newTestTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	obs, err := NewOTelObserver(WithTracerProvider(tp), WithMeterProvider(mp))
	require.NoError(t, err)

	_, span := obs.Start(context.Background(), SpanOptions{
		Component: "bench",
		Operation: "producer",
		Kind:      KindProducer,
		Attrs:     []Attr{Int("id", 3)},
	})
	span.End(Result{Attrs: []Attr{Uint64("pushed", 10), Duration("elapsed", time.Millisecond)}})
	span.End(Result{Err: errors.New("ignored")}) // 幂等

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "producer", spans[0].Name)
	assert.Equal(t, trace.SpanKindProducer, spans[0].SpanKind)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	data := collect(t, reader)
	sum, ok := data[metricOperationTotal].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)
	status, _ := sum.DataPoints[0].Attributes.Value("status")
	assert.Equal(t, "ok", status.AsString())

	_, ok = data[metricOperationDuration].(metricdata.Histogram[float64])
	assert.True(t, ok)
}

func TestOTelSpan_Error(t *testing.T) {
	tp, exporter := newTestTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	obs, err := NewOTelObserver(WithTracerProvider(tp))
	require.NoError(t, err)

	_, span := obs.Start(context.Background(), SpanOptions{Kind: KindConsumer})
	span.End(Result{Err: errors.New("drain failed")})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, unknownOperation, spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "drain failed", spans[0].Status.Description)
	assert.NotEmpty(t, spans[0].Events)
}

func TestOTelSpan_ExplicitErrorStatus(t *testing.T) {
	tp, exporter := newTestTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	obs, err := NewOTelObserver(WithTracerProvider(tp))
	require.NoError(t, err)

	_, span := obs.Start(context.Background(), SpanOptions{Operation: "run"})
	span.End(Result{Status: StatusError})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "operation failed", spans[0].Status.Description)
}

func TestOTelSpan_NilSafe(t *testing.T) {
	var span *otelSpan
	assert.NotPanics(t, func() { span.End(Result{}) })
}

type nilObserver struct{}

func (nilObserver) Start(context.Context, SpanOptions) (context.Context, Span) { return nil, nil }

func TestStart_Fallbacks(t *testing.T) {
	ctx, span := Start(nil, nil, SpanOptions{}) //nolint:staticcheck // nil ctx 归一化
	assert.NotNil(t, ctx)
	assert.IsType(t, NoopSpan{}, span)

	ctx, span = Start(context.Background(), nilObserver{}, SpanOptions{})
	assert.NotNil(t, ctx)
	assert.IsType(t, NoopSpan{}, span)

	ctx, span = NoopObserver{}.Start(nil, SpanOptions{}) //nolint:staticcheck // nil ctx 归一化
	assert.NotNil(t, ctx)
	span.End(Result{})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Internal", KindInternal.String())
	assert.Equal(t, "Producer", KindProducer.String())
	assert.Equal(t, "Consumer", KindConsumer.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestToKeyValue(t *testing.T) {
	assert.Equal(t, "x", toKeyValue(String("k", "x")).Value.AsString())
	assert.True(t, toKeyValue(Bool("k", true)).Value.AsBool())
	assert.Equal(t, int64(7), toKeyValue(Attr{Key: "k", Value: int64(7)}).Value.AsInt64())
	assert.Equal(t, "18446744073709551615", toKeyValue(Uint64("k", 1<<64-1)).Value.AsString())
	assert.Equal(t, 1.5, toKeyValue(Attr{Key: "k", Value: 1.5}).Value.AsFloat64())
	assert.Equal(t, "[1 2]", toKeyValue(Attr{Key: "k", Value: []int{1, 2}}).Value.AsString())
	assert.Nil(t, attrsToOTel(nil))
	assert.Empty(t, attrsToOTel([]Attr{{Key: "", Value: 1}, {Key: "k"}}))
}
