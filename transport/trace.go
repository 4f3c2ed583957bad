// Copyright 2021 The endpoint Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"github.com/gogama/endpoint/request"
	"github.com/gogama/endpoint/transient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used by NewTracer when no
// tracer provider is given.
const TracerName = "github.com/gogama/endpoint/transport"

type spanKey struct{}

// A Tracer is a plugin that wraps each attempt in an OpenTelemetry
// client span and injects the span context into the outgoing request
// headers.
type Tracer struct {
	Tracer     trace.Tracer
	Propagator propagation.TextMapPropagator
}

// NewTracer returns a tracing plugin using a tracer from tp. If tp is
// nil, the global tracer provider is used. The W3C trace context
// propagator is used to inject headers.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracer{
		Tracer:     tp.Tracer(TracerName),
		Propagator: propagation.TraceContext{},
	}
}

// Register installs the tracer's handlers into g.
func (t *Tracer) Register(g *HandlerGroup) {
	g.PushBack(BeforeAttempt, t)
	g.PushBack(AfterAttempt, t)
}

// Handle starts a span on BeforeAttempt and ends it on AfterAttempt.
func (t *Tracer) Handle(evt Event, e *request.Execution) {
	switch evt {
	case BeforeAttempt:
		t.start(e)
	case AfterAttempt:
		t.end(e)
	}
}

func (t *Tracer) start(e *request.Execution) {
	ctx, span := t.Tracer.Start(e.Request.Context(), "HTTP "+string(e.Spec.Method()),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", string(e.Spec.Method())),
			attribute.String("url.full", e.Spec.URL().String()),
			attribute.Int("http.request.resend_count", e.Attempt),
		),
	)
	e.Request = e.Request.WithContext(ctx)
	if t.Propagator != nil {
		t.Propagator.Inject(ctx, propagation.HeaderCarrier(e.Request.Header))
	}
	e.SetValue(spanKey{}, span)
}

func (t *Tracer) end(e *request.Execution) {
	span, ok := e.Value(spanKey{}).(trace.Span)
	if !ok {
		return
	}
	e.SetValue(spanKey{}, nil)
	if code := e.StatusCode(); code != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", code))
	}
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetAttributes(attribute.String("error.type", transient.Categorize(e.Err).String()))
		span.SetStatus(codes.Error, e.Err.Error())
	} else if e.StatusCode() >= 400 {
		span.SetStatus(codes.Error, "")
	}
	span.End()
}
