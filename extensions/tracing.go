package extensions

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	forge "github.com/forge-fn/forge-go"
)

const instrumentationName = "github.com/forge-fn/forge-go/extensions"

// OTelSink records each Make call as a span tree: one root span per Make,
// one child span per resolved type, and span events for store hits,
// overrides, constructor invocations, modifier applications, and skipped
// inputs. Fatal resolution errors are recorded on the span where they
// occurred and set its status to Error.
//
// A sink instance serves one Make call at a time; create one per
// concurrent call.
type OTelSink struct {
	tracer trace.Tracer
	base   context.Context
	ctxs   []context.Context
	spans  []trace.Span
}

// NewOTelSink creates a sink creating spans under ctx with the given
// tracer provider.
func NewOTelSink(ctx context.Context, tp trace.TracerProvider) *OTelSink {
	return &OTelSink{
		tracer: tp.Tracer(instrumentationName),
		base:   ctx,
	}
}

// Emit implements the forge.Sink interface.
func (s *OTelSink) Emit(ev forge.Event) {
	switch ev.Kind {
	case forge.EventMakeStart:
		ctx, span := s.tracer.Start(s.base, "forge.make", trace.WithAttributes(
			attribute.String("forge.target", typeLabel(ev.Target)),
			attribute.String("forge.session", ev.Session),
		))
		s.ctxs = append(s.ctxs[:0], ctx)
		s.spans = append(s.spans[:0], span)

	case forge.EventResolveStart:
		parent := s.base
		if len(s.ctxs) > 0 {
			parent = s.ctxs[len(s.ctxs)-1]
		}
		ctx, span := s.tracer.Start(parent, "forge.resolve", trace.WithAttributes(
			attribute.String("forge.target", typeLabel(ev.Target)),
			attribute.Int("forge.depth", len(ev.Path)),
		))
		s.ctxs = append(s.ctxs, ctx)
		s.spans = append(s.spans, span)

	case forge.EventResolveEnd:
		if len(s.spans) < 2 {
			return
		}
		span := s.spans[len(s.spans)-1]
		if ev.Err != nil {
			span.RecordError(ev.Err)
			span.SetStatus(codes.Error, ev.Err.Error())
		}
		span.End()
		s.spans = s.spans[:len(s.spans)-1]
		s.ctxs = s.ctxs[:len(s.ctxs)-1]

	case forge.EventMakeEnd:
		if len(s.spans) == 0 {
			return
		}
		span := s.spans[0]
		if ev.Err != nil {
			span.RecordError(ev.Err)
			span.SetStatus(codes.Error, ev.Err.Error())
		}
		span.End()
		s.spans = s.spans[:0]
		s.ctxs = s.ctxs[:0]

	default:
		if len(s.spans) == 0 {
			return
		}
		span := s.spans[len(s.spans)-1]
		attrs := []attribute.KeyValue{
			attribute.String("forge.target", typeLabel(ev.Target)),
		}
		if ev.Constructor != "" {
			attrs = append(attrs, attribute.String("forge.constructor", ev.Constructor))
		}
		span.AddEvent(string(ev.Kind), trace.WithAttributes(attrs...))
	}
}
