// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/kurt/kurt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

// ContextOpenTelemetryTracerKey looks up the name of the tracer spans are
// created with in the parent context.
const ContextOpenTelemetryTracerKey contextKey = "otelParentTracer"

// DefaultTracerName names the tracer when the parent context does not.
const DefaultTracerName = "kurt"

// WithTracerName returns a copy of ctx naming the tracer that annotators
// created from it will use.
func WithTracerName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ContextOpenTelemetryTracerKey, name)
}

type otelAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    trace.Span
}

var _ kurt.Profiler = &otelAnnotator{}

// NewOpenTelemetryAnnotator returns a profiler that records a span for each
// block invocation as a child of the span in parentContext.  Spans come from
// the global tracer provider.
func NewOpenTelemetryAnnotator(parentContext context.Context, opts ...Option) kurt.Profiler {
	p := &otelAnnotator{currentContext: parentContext}
	p.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opentelemetry")
	}
	return p.profiler.Enable()
}

// Complete does nothing.  Spans end as the invocations they cover return.
func (p *otelAnnotator) Complete() error {
	return nil
}

func contextTracer(ctx context.Context) trace.Tracer {
	name, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		name = DefaultTracerName
	}
	return otel.GetTracerProvider().Tracer(name)
}

func (p *otelAnnotator) Start(block kurt.Expr) func() {
	if p.skipTrace(block) {
		return noop
	}
	oldContext := p.currentContext
	label, name := p.label(block)
	p.currentContext, p.currentSpan = contextTracer(oldContext).Start(oldContext, label)
	p.currentSpan.SetAttributes(codeAttributes(block, name)...)
	return func() {
		p.currentSpan.End()
		p.currentContext = oldContext
		p.currentSpan = trace.SpanFromContext(oldContext)
	}
}

func codeAttributes(block kurt.Expr, name string) []attribute.KeyValue {
	namespace := "kurt"
	if isBuiltin(block) {
		namespace = "kurt.builtin"
	}
	attrs := []attribute.KeyValue{
		semconv.CodeNamespace(namespace),
		semconv.CodeFunction(name),
	}
	if loc := block.Source(); loc != nil {
		attrs = append(attrs,
			semconv.CodeColumn(loc.Col),
			semconv.CodeFilepath(loc.File),
			semconv.CodeLineNumber(loc.Line),
		)
	}
	return attrs
}
