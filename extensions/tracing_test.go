package extensions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	forge "github.com/forge-fn/forge-go"
	"github.com/forge-fn/forge-go/extensions"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return sr, tp
}

func TestOTelSinkSpanTree(t *testing.T) {
	sr, tp := newRecorder()
	sink := extensions.NewOTelSink(context.Background(), tp)

	got, err := forge.Make[string](pipeline(), forge.WithSink(sink))
	require.NoError(t, err)
	require.Equal(t, "odd", got)

	spans := sr.Ended()
	// int, bool, string resolves plus the root make span, ended inner
	// first.
	require.Len(t, spans, 4)

	root := spans[len(spans)-1]
	assert.Equal(t, "forge.make", root.Name())
	for _, span := range spans[:len(spans)-1] {
		assert.Equal(t, "forge.resolve", span.Name())
		assert.Equal(t, root.SpanContext().TraceID(), span.SpanContext().TraceID())
	}
}

func TestOTelSinkRecordsFailure(t *testing.T) {
	sr, tp := newRecorder()
	sink := extensions.NewOTelSink(context.Background(), tp)

	_, err := forge.Make[string](forge.Empty(), forge.WithSink(sink))
	require.Error(t, err)

	spans := sr.Ended()
	require.NotEmpty(t, spans)

	root := spans[len(spans)-1]
	assert.Equal(t, "forge.make", root.Name())
	assert.Equal(t, codes.Error, root.Status().Code)
}

func TestOTelSinkConstructorEvents(t *testing.T) {
	sr, tp := newRecorder()
	sink := extensions.NewOTelSink(context.Background(), tp)

	_, err := forge.Make[string](pipeline(), forge.WithSink(sink))
	require.NoError(t, err)

	var constructs int
	for _, span := range sr.Ended() {
		for _, ev := range span.Events() {
			if ev.Name == "construct" {
				constructs++
			}
		}
	}
	// bool and string are constructed; int is a plain registered value.
	assert.Equal(t, 2, constructs)
}
