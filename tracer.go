package authscheme

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Tracer is a generic tracing interface for the middleware.
type Tracer interface {
	StartSpan(ctx context.Context, operationName string) (context.Context, Span)
}

type Span interface {
	Finish()
	SetTag(key string, value interface{})
	RecordError(err error)
}

// NoopTracer is a default tracer that does nothing.
type NoopTracer struct{}

func (t *NoopTracer) StartSpan(ctx context.Context, operationName string) (context.Context, Span) {
	return ctx, &NoopSpan{}
}

type NoopSpan struct{}

func (s *NoopSpan) Finish()                              {}
func (s *NoopSpan) SetTag(key string, value interface{}) {}
func (s *NoopSpan) RecordError(err error)                {}

// OpenTelemetryTracer implements the Tracer interface using OpenTelemetry.
type OpenTelemetryTracer struct {
	tracer oteltrace.Tracer
}

func NewOpenTelemetryTracer(tracer oteltrace.Tracer) Tracer {
	return &OpenTelemetryTracer{tracer: tracer}
}

func (t *OpenTelemetryTracer) StartSpan(ctx context.Context, operationName string) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, operationName)
	return ctx, &OpenTelemetrySpan{span: span}
}

// OpenTelemetrySpan implements the Span interface using OpenTelemetry.
type OpenTelemetrySpan struct {
	span oteltrace.Span
}

func (s *OpenTelemetrySpan) Finish() {
	s.span.End()
}

func (s *OpenTelemetrySpan) SetTag(key string, value interface{}) {
	s.span.SetAttributes(attribute.String(key, fmt.Sprint(value)))
}

func (s *OpenTelemetrySpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}
