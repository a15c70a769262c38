package telemetry_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
	"github.com/shaharia-lab/stockroom/internal/telemetry"
)

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func sumCounter(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is %T", m.Name, m.Data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetricsHook_RecordsEmissions(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	hook, err := telemetry.NewMetricsHook(mp.Meter("test"))
	require.NoError(t, err)

	bus := eventbus.New(eventbus.Config{Hooks: []eventbus.Hook{hook}})
	require.NoError(t, bus.SubscribeFunc("ok", func(context.Context, eventbus.Event) error { return nil }))
	require.NoError(t, bus.SubscribeFunc("bad", func(context.Context, eventbus.Event) error {
		return errors.New("boom")
	}))

	ctx := context.Background()
	require.NoError(t, bus.Emit(ctx, "ok", nil))
	require.NoError(t, bus.Emit(ctx, "ok", nil))
	require.Error(t, bus.Emit(ctx, "bad", nil))
	require.NoError(t, bus.Emit(ctx, "nobody-listens", nil))

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(3), sumCounter(t, findMetric(rm, "stockroom.bus.emissions")))
	assert.Equal(t, int64(1), sumCounter(t, findMetric(rm, "stockroom.bus.listener.failures")))

	durations := findMetric(rm, "stockroom.bus.emit.duration")
	require.NotNil(t, durations)
	hist, ok := durations.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestTracingHook_NestedEmissionsAreChildSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	bus := eventbus.New(eventbus.Config{
		Hooks: []eventbus.Hook{telemetry.NewTracingHook(tp.Tracer("test"))},
	})
	require.NoError(t, bus.SubscribeFunc("item_sold", func(ctx context.Context, _ eventbus.Event) error {
		return bus.Emit(ctx, "item_removed", nil)
	}))
	require.NoError(t, bus.SubscribeFunc("item_removed", func(context.Context, eventbus.Event) error { return nil }))

	require.NoError(t, bus.Emit(context.Background(), "item_sold", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	inner, outer := spans[0], spans[1]
	assert.Equal(t, "emit item_removed", inner.Name())
	assert.Equal(t, "emit item_sold", outer.Name())
	assert.Equal(t, outer.SpanContext().SpanID(), inner.Parent().SpanID())
	assert.Equal(t, codes.Unset, outer.Status().Code)
}

func TestTracingHook_FailureMarksSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	bus := eventbus.New(eventbus.Config{
		Hooks: []eventbus.Hook{telemetry.NewTracingHook(tp.Tracer("test"))},
	})
	require.NoError(t, bus.SubscribeFunc("bad", func(context.Context, eventbus.Event) error {
		return errors.New("boom")
	}))

	require.Error(t, bus.Emit(context.Background(), "bad", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	var names []string
	for _, ev := range spans[0].Events() {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "listener failed")
}

func TestLogHook_WarnsOnFailure(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	bus := eventbus.New(eventbus.Config{Hooks: []eventbus.Hook{telemetry.NewLogHook(logger)}})
	require.NoError(t, bus.SubscribeFunc("bad", func(context.Context, eventbus.Event) error {
		return errors.New("boom")
	}))
	require.Error(t, bus.Emit(context.Background(), "bad", nil))

	out := buf.String()
	assert.Contains(t, out, "listener failed")
	assert.Contains(t, out, "event=bad")
	assert.NotContains(t, out, "emit started")
}
