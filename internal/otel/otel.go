package otel

import (
	"context"
	"sync"

	"github.com/hanpama/formtree/internal/cmdid"
	"github.com/hanpama/formtree/internal/eventbus"
	"github.com/hanpama/formtree/internal/events"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

const tracerName = "formtree"

// Setup configures OpenTelemetry and attaches span subscribers to bus.
// If endpoint is empty, no telemetry is configured.
func Setup(ctx context.Context, bus *eventbus.Bus, endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	detach := Attach(bus, otel.Tracer(tracerName))
	return func(ctx context.Context) error {
		detach()
		return tp.Shutdown(ctx)
	}, nil
}

// Attach records one "form.command" span per builder command on tracer.
// Tree events raised while the command runs become span events.
func Attach(bus *eventbus.Bus, tracer trace.Tracer) (detach func()) {
	s := &subscriber{tracer: tracer}
	return s.register(bus)
}

type subscriber struct {
	tracer trace.Tracer
	spans  sync.Map // cid -> trace.Span
}

func (s *subscriber) span(ctx context.Context) (trace.Span, bool) {
	cid, ok := cmdid.FromContext(ctx)
	if !ok {
		return nil, false
	}
	v, ok := s.spans.Load(cid)
	if !ok {
		return nil, false
	}
	return v.(trace.Span), true
}

func (s *subscriber) event(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	if span, ok := s.span(ctx); ok {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

func (s *subscriber) register(bus *eventbus.Bus) func() {
	unsubs := []func(){
		eventbus.Subscribe(bus, func(ctx context.Context, e events.CommandStart) {
			cid, _ := cmdid.FromContext(ctx)
			_, span := s.tracer.Start(ctx, "form.command")
			span.SetAttributes(
				attribute.String("form.command.name", e.Name),
				attribute.String("form.command.target", e.Target),
			)
			s.spans.Store(cid, span)
		}),

		eventbus.Subscribe(bus, func(ctx context.Context, e events.CommandFinish) {
			cid, _ := cmdid.FromContext(ctx)
			v, ok := s.spans.LoadAndDelete(cid)
			if !ok {
				return
			}
			span := v.(trace.Span)
			span.SetAttributes(
				attribute.Bool("form.command.applied", e.Applied),
				attribute.Int64("form.command.duration_us", e.Duration.Microseconds()),
			)
			if e.Err != nil {
				span.RecordError(e.Err)
				span.SetStatus(codes.Error, e.Err.Error())
			}
			span.End()
		}),

		eventbus.Subscribe(bus, func(ctx context.Context, e events.CommandRejected) {
			s.event(ctx, "command.rejected", attribute.String("reason", e.Reason.Error()))
		}),

		eventbus.Subscribe(bus, func(ctx context.Context, e events.FieldAdded) {
			s.event(ctx, "field.added",
				attribute.String("form.node.id", e.ID),
				attribute.String("form.node.type", e.Type.String()),
				attribute.String("form.parent.id", e.ParentID),
				attribute.String("form.slot", e.Slot.String()),
			)
		}),

		eventbus.Subscribe(bus, func(ctx context.Context, e events.FieldDeleted) {
			s.event(ctx, "field.deleted", attribute.String("form.node.id", e.ID))
		}),

		eventbus.Subscribe(bus, func(ctx context.Context, e events.FieldUpdated) {
			s.event(ctx, "field.updated", attribute.String("form.node.id", e.ID))
		}),

		eventbus.Subscribe(bus, func(ctx context.Context, e events.FieldMoved) {
			s.event(ctx, "field.moved",
				attribute.String("form.parent.id", e.ParentID),
				attribute.Int("form.move.from", e.From),
				attribute.Int("form.move.to", e.To),
			)
		}),

		eventbus.Subscribe(bus, func(ctx context.Context, e events.StructureChanged) {
			s.event(ctx, "structure.changed",
				attribute.String("form.structure.op", e.Op),
				attribute.String("form.parent.id", e.ParentID),
				attribute.Bool("form.structure.removed", e.Removed),
			)
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
