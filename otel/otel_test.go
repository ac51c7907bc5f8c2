package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	eventbus "github.com/hanpama/remotefields/eventbus"
	events "github.com/hanpama/remotefields/events"
)

func TestSetup_EmptyEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup("", "remotefields-test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSubscriber_SpansPerPassAndFetch(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)
	sub := &subscriber{tracer: tp.Tracer("test")}
	sub.register()

	ctx := context.Background()
	pass := events.NextPassID()
	eventbus.Publish(ctx, events.PassStart{Pass: pass, Schema: "widget", Objects: 2, Many: true})
	eventbus.Publish(ctx, events.FetchStart{Pass: pass, Endpoint: "things", Context: "list", Keys: 2})
	eventbus.Publish(ctx, events.FetchFinish{Pass: pass, Endpoint: "things", Context: "list", Keys: 2, Records: 2})
	eventbus.Publish(ctx, events.PassFinish{Pass: pass, Schema: "widget", Objects: 2, Many: true})

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	// The fetch span ends first and parents under the pass span.
	require.Equal(t, "remotefields.fetch", spans[0].Name())
	require.Equal(t, "remotefields.pass", spans[1].Name())
	require.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestSubscriber_RecordsFetchError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)
	sub := &subscriber{tracer: tp.Tracer("test")}
	sub.register()

	ctx := context.Background()
	pass := events.NextPassID()
	eventbus.Publish(ctx, events.FetchStart{Pass: pass, Endpoint: "things", Context: "list", Keys: 1})
	eventbus.Publish(ctx, events.FetchFinish{Pass: pass, Endpoint: "things", Context: "list", Keys: 1,
		Err: errors.New("connection refused")})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 1, "error must be recorded on the span")
}
