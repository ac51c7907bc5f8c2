// Package otel bridges remotefields events to OpenTelemetry traces: one span
// per serialization pass with one child span per batched endpoint fetch.
package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/remotefields/eventbus"
	events "github.com/hanpama/remotefields/events"

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

// Setup configures an OTLP/gRPC trace exporter and attaches the eventbus
// subscribers. If endpoint is empty, no telemetry is configured. The returned
// function shuts the tracer provider down.
//
// A bus must already be installed with eventbus.Use for events to reach the
// subscribers.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
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

	sub := &subscriber{tracer: otel.Tracer("remotefields")}
	sub.register()

	return tp.Shutdown, nil
}

type fetchKey struct {
	pass     uint64
	endpoint string
}

type subscriber struct {
	tracer     trace.Tracer
	passSpans  sync.Map // uint64 -> trace.Span
	fetchSpans sync.Map // fetchKey -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.PassStart) {
		_, span := s.tracer.Start(ctx, "remotefields.pass")
		span.SetAttributes(
			attribute.String("remotefields.schema", e.Schema),
			attribute.Int("remotefields.objects", e.Objects),
			attribute.Bool("remotefields.many", e.Many),
		)
		s.passSpans.Store(e.Pass, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.PassFinish) {
		v, ok := s.passSpans.LoadAndDelete(e.Pass)
		if !ok {
			return
		}
		span := v.(trace.Span)
		if e.Err != nil {
			span.RecordError(e.Err)
			span.SetStatus(codes.Error, e.Err.Error())
		}
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.FetchStart) {
		parent := ctx
		if v, ok := s.passSpans.Load(e.Pass); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "remotefields.fetch")
		span.SetAttributes(
			attribute.String("remotefields.endpoint", e.Endpoint),
			attribute.String("remotefields.context", e.Context),
			attribute.Int("remotefields.keys", e.Keys),
		)
		s.fetchSpans.Store(fetchKey{pass: e.Pass, endpoint: e.Endpoint}, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.FetchFinish) {
		v, ok := s.fetchSpans.LoadAndDelete(fetchKey{pass: e.Pass, endpoint: e.Endpoint})
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("remotefields.records", e.Records))
		if e.Err != nil {
			span.RecordError(e.Err)
			span.SetStatus(codes.Error, e.Err.Error())
		}
		span.End()
	})
}
