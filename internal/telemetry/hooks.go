package telemetry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
)

// TracingHook opens one span per emission. Nested emissions become child
// spans because the span travels in the context handed to listeners.
type TracingHook struct {
	tracer trace.Tracer
}

// NewTracingHook returns a TracingHook using tracer.
func NewTracingHook(tracer trace.Tracer) *TracingHook {
	return &TracingHook{tracer: tracer}
}

func (h *TracingHook) EmitStarted(ctx context.Context, e eventbus.Event, listeners int) context.Context {
	ctx, _ = h.tracer.Start(ctx, "emit "+e.Name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("event.name", e.Name),
			attribute.String("event.id", e.ID),
			attribute.Int("event.depth", e.Depth),
			attribute.Int("event.listeners", listeners),
		),
	)
	return ctx
}

func (h *TracingHook) ListenerFailed(ctx context.Context, _ eventbus.Event, index int, err error) {
	trace.SpanFromContext(ctx).AddEvent("listener failed", trace.WithAttributes(
		attribute.Int("listener.index", index),
		attribute.String("error", err.Error()),
	))
}

func (h *TracingHook) EmitFinished(ctx context.Context, _ eventbus.Event, err error) {
	span := trace.SpanFromContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listener failed")
	}
	span.End()
}

type emitStartKey struct{}

// MetricsHook counts emissions and listener failures and records how long
// each emission took, nested emissions included.
type MetricsHook struct {
	emissions metric.Int64Counter
	failures  metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewMetricsHook creates the bus instruments on meter.
func NewMetricsHook(meter metric.Meter) (*MetricsHook, error) {
	emissions, err := meter.Int64Counter("stockroom.bus.emissions",
		metric.WithDescription("Number of events emitted to at least one listener"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter("stockroom.bus.listener.failures",
		metric.WithDescription("Number of listener invocations that returned an error or panicked"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("stockroom.bus.emit.duration",
		metric.WithDescription("Duration of an emission including nested emissions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &MetricsHook{emissions: emissions, failures: failures, duration: duration}, nil
}

func (h *MetricsHook) EmitStarted(ctx context.Context, e eventbus.Event, _ int) context.Context {
	h.emissions.Add(ctx, 1, metric.WithAttributes(attribute.String("event", e.Name)))
	return context.WithValue(ctx, emitStartKey{}, time.Now())
}

func (h *MetricsHook) ListenerFailed(ctx context.Context, e eventbus.Event, _ int, _ error) {
	h.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("event", e.Name)))
}

func (h *MetricsHook) EmitFinished(ctx context.Context, e eventbus.Event, err error) {
	start, ok := ctx.Value(emitStartKey{}).(time.Time)
	if !ok {
		return
	}
	h.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("event", e.Name),
		attribute.Bool("failed", err != nil),
	))
}

// LogHook writes emission lifecycle records to a logger.
type LogHook struct {
	logger *slog.Logger
}

// NewLogHook returns a LogHook writing to logger.
func NewLogHook(logger *slog.Logger) *LogHook {
	return &LogHook{logger: logger}
}

func (h *LogHook) EmitStarted(ctx context.Context, e eventbus.Event, listeners int) context.Context {
	h.logger.DebugContext(ctx, "emit started",
		"event", e.Name, "event_id", e.ID, "depth", e.Depth, "listeners", listeners)
	return ctx
}

func (h *LogHook) ListenerFailed(ctx context.Context, e eventbus.Event, index int, err error) {
	h.logger.WarnContext(ctx, "listener failed",
		"event", e.Name, "event_id", e.ID, "listener", index, "error", err)
}

func (h *LogHook) EmitFinished(ctx context.Context, e eventbus.Event, err error) {
	if err != nil {
		h.logger.DebugContext(ctx, "emit finished with errors", "event", e.Name, "event_id", e.ID, "error", err)
		return
	}
	h.logger.DebugContext(ctx, "emit finished", "event", e.Name, "event_id", e.ID)
}

var (
	_ eventbus.Hook = (*TracingHook)(nil)
	_ eventbus.Hook = (*MetricsHook)(nil)
	_ eventbus.Hook = (*LogHook)(nil)
)
