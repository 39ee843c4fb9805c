package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// Span names emitted by the edit script runner.
const (
	SpanScript = "inkwell.txn.run"
	SpanOp     = "inkwell.txn.op"
)

// opSpanFilter hands out tracers that turn SpanOp into a no-op span, leaving
// one exported span per script however many operations it applies.
type opSpanFilter struct {
	embedded.TracerProvider

	delegate trace.TracerProvider
}

// NewFilteringTracerProvider wraps delegate so per-operation spans are not
// recorded. Script spans and every other span pass through.
func NewFilteringTracerProvider(delegate trace.TracerProvider) trace.TracerProvider {
	return opSpanFilter{delegate: delegate}
}

// Tracer implements [trace.TracerProvider].
func (p opSpanFilter) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return opSpanTracer{
		delegate: p.delegate.Tracer(name, opts...),
		dropped:  nooptrace.NewTracerProvider().Tracer(name, opts...),
	}
}

type opSpanTracer struct {
	embedded.Tracer

	delegate trace.Tracer
	dropped  trace.Tracer
}

// Start implements [trace.Tracer]. A dropped op span still carries the
// parent's span context so nested log records stay correlated.
func (t opSpanTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if name == SpanOp {
		return t.dropped.Start(ctx, name, opts...)
	}

	return t.delegate.Start(ctx, name, opts...)
}
