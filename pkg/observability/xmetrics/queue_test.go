package xmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/omeyang/xqueue/pkg/util/xqueue"
)

func TestRegisterQueue(t *testing.T) {
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	q, err := xqueue.New[int](4)
	require.NoError(t, err)

	reg, err := RegisterQueue(mp.Meter("test"), "jobs", q)
	require.NoError(t, err)
	defer func() { _ = reg.Unregister() }()

	require.True(t, q.Push(1))
	require.True(t, q.Push(2))
	require.True(t, q.Push(3))
	_, _ = q.Pop()

	data := collect(t, reader)
	assert.Equal(t, int64(2), int64Value(t, data[metricQueueLength], "jobs"))
	assert.Equal(t, int64(4), int64Value(t, data[metricQueueCapacity], "jobs"))
	assert.Equal(t, int64(0), int64Value(t, data[metricQueueClosed], "jobs"))
	assert.Equal(t, int64(3), int64Value(t, data[metricQueuePushes], "jobs"))
	assert.Equal(t, int64(1), int64Value(t, data[metricQueuePops], "jobs"))

	sum, ok := data[metricQueuePushes].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.True(t, sum.IsMonotonic)

	q.Close()
	data = collect(t, reader)
	assert.Equal(t, int64(1), int64Value(t, data[metricQueueClosed], "jobs"))
}

func TestRegisterQueue_Unregister(t *testing.T) {
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	q, err := xqueue.New[string](1)
	require.NoError(t, err)

	reg, err := RegisterQueue(mp.Meter("test"), "q", q)
	require.NoError(t, err)
	require.NoError(t, reg.Unregister())

	data := collect(t, reader)
	_, found := data[metricQueueLength]
	assert.False(t, found)
}

func TestRegisterQueue_MultipleQueues(t *testing.T) {
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()
	meter := mp.Meter("test")

	a, _ := xqueue.New[int](2)
	b, _ := xqueue.New[int](8)
	regA, err := RegisterQueue(meter, "a", a)
	require.NoError(t, err)
	defer func() { _ = regA.Unregister() }()
	regB, err := RegisterQueue(meter, "b", b)
	require.NoError(t, err)
	defer func() { _ = regB.Unregister() }()

	data := collect(t, reader)
	assert.Equal(t, int64(2), int64Value(t, data[metricQueueCapacity], "a"))
	assert.Equal(t, int64(8), int64Value(t, data[metricQueueCapacity], "b"))
}

func TestRegisterQueue_InvalidArgs(t *testing.T) {
	mp, _ := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	q, _ := xqueue.New[int](1)
	_, err := RegisterQueue(nil, "q", q)
	assert.ErrorIs(t, err, ErrNilMeter)

	_, err = RegisterQueue(mp.Meter("test"), "q", nil)
	assert.ErrorIs(t, err, ErrNilSource)
}

func TestClampInt64(t *testing.T) {
	assert.Equal(t, int64(5), clampInt64(5))
	assert.Equal(t, int64(1<<63-1), clampInt64(1<<64-1))
}
