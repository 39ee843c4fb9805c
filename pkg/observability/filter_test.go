package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/inkwell/pkg/observability"
)

func newTestTracerProvider(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	return exporter, tp
}

func TestAttributeFilter(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), nil)),
	)

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	_, span := tp.Tracer("test").Start(context.Background(), "op", trace.WithAttributes(
		attribute.String("txn.op", "insertText"),
		attribute.Int("document.blocks", 3),
		attribute.String("document.text", "private words"),
		attribute.String("user.email", "a@b.c"),
		attribute.String("unknown", "x"),
		attribute.Bool("error", true),
	))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	keys := make([]string, 0, len(spans[0].Attributes))
	for _, kv := range spans[0].Attributes {
		keys = append(keys, string(kv.Key))
	}

	assert.ElementsMatch(t, []string{"txn.op", "document.blocks", "error"}, keys)
}

func TestFilteringTracerProvider(t *testing.T) {
	t.Parallel()

	exporter, base := newTestTracerProvider(t)
	tracer := observability.NewFilteringTracerProvider(base).Tracer(observability.TracerName)

	ctx, script := tracer.Start(context.Background(), observability.SpanScript)
	_, op := tracer.Start(ctx, observability.SpanOp)
	op.End()
	script.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, observability.SpanScript, spans[0].Name)
}
