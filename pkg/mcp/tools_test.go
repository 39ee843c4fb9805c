package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/inkwell/pkg/config"
	"github.com/Sumatoshi-tech/inkwell/pkg/observability"
)

const yamlDocument = `blocks:
  - key: a
    text: "x 🙂 y"
    entityRanges:
      - {offset: 2, length: 1, keySet: [0]}
entityMap:
  "0": {type: EMOJI, mutability: IMMUTABLE}
`

func TestServer_ListToolNames(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})
	assert.Equal(t, []string{ToolNameEdit, ToolNameInspect, ToolNameTree}, srv.ListToolNames())
}

func TestHandleInspect_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input InspectInput
		want  string
	}{
		{name: "empty", input: InspectInput{}, want: ErrEmptyDocument.Error()},
		{name: "format", input: InspectInput{Document: "{}", Format: "lz4"}, want: ErrUnsupportedFormat.Error()},
		{name: "too large", input: InspectInput{Document: strings.Repeat(" ", MaxDocumentInputBytes+1)}, want: ErrInputTooLarge.Error()},
		{name: "malformed", input: InspectInput{Document: `{"blocks": [`}, want: "decode"},
		{name: "no blocks", input: InspectInput{Document: `{"blocks": [], "entityMap": {}}`}, want: "invalid raw document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, _, err := handleInspect(context.Background(), nil, tt.input)
			require.NoError(t, err)
			require.True(t, result.IsError)

			text, ok := result.Content[0].(*mcpsdk.TextContent)
			require.True(t, ok)
			assert.Contains(t, text.Text, tt.want)
		})
	}
}

func TestHandleTree_EntityDecoratorFromYAML(t *testing.T) {
	t.Parallel()

	result, out, err := handleTree(context.Background(), nil, TreeInput{
		Document:   yamlDocument,
		Format:     "yaml",
		Decorators: []config.DecoratorConfig{{Name: "emoji", EntityType: "EMOJI"}},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	blocks, ok := out.Data.([]TreeBlock)
	require.True(t, ok)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Ranges, 3)

	emoji := blocks[0].Ranges[1]
	assert.Equal(t, "emoji", emoji.Decorator)
	assert.Equal(t, 2, emoji.Start)
	assert.Equal(t, 4, emoji.End, "offsets count UTF-16 code units")
}

func TestHandleTree_BadDecorator(t *testing.T) {
	t.Parallel()

	result, _, err := handleTree(context.Background(), nil, TreeInput{
		Document:   yamlDocument,
		Format:     "yaml",
		Decorators: []config.DecoratorConfig{{Name: "broken", Pattern: "("}},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleEdit_RecordsTelemetry(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	srv := NewServer(ServerDeps{Metrics: red, Tracer: tp.Tracer("test")})

	handler := instrument(srv, ToolNameEdit, srv.handleEdit)

	result, _, err := handler(context.Background(), nil, EditInput{
		Document: yamlDocument,
		Format:   "yaml",
		Script:   "- {op: removeCharacters, anchor: {key: a, offset: 1}, focus: {key: a, offset: 0}}\n",
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	last, ok := result.Content[len(result.Content)-1].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(last.Text, traceIDMetaKey+"="))

	names := make(map[string]bool)
	for _, span := range exporter.GetSpans() {
		names[span.Name] = true
	}

	assert.True(t, names[toolSpanPrefix+ToolNameEdit])
	assert.True(t, names[observability.SpanScript])

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "inkwell.requests.total" {
				found = true
			}
		}
	}

	assert.True(t, found)

	result, _, err = handler(context.Background(), nil, EditInput{Document: yamlDocument, Format: "yaml"})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	spans := exporter.GetSpans()
	assert.Equal(t, codes.Error, spans[len(spans)-1].Status.Code)
}
