package txn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/entity"
	"github.com/Sumatoshi-tech/inkwell/pkg/observability"
)

const greetingScript = `
ops:
  - op: createEntity
    name: link
    type: LINK
    mutability: MUTABLE
    data: {url: "https://example.com"}
  - op: insertText
    anchor: {key: a, offset: 5}
    text: " there"
  - op: applyStyle
    anchor: {key: a, offset: 0}
    focus: {key: a, offset: 5}
    style: BOLD
  - op: applyEntity
    anchor: {key: a, offset: 6}
    focus: {key: a, offset: 11}
    entity: link
  - op: insertText
    anchor: {key: a, offset: 8}
    text: "!!"
    styles: [ITALIC]
`

func singleBlock(text string) document.ContentState {
	return document.NewContentState(nil, document.NewBlock("a", document.TypeUnstyled, text))
}

func blockText(t *testing.T, cs document.ContentState, key string) string {
	t.Helper()

	b, ok := cs.BlockForKey(key)
	require.True(t, ok, "block %q", key)

	return b.String()
}

func TestRun_Script(t *testing.T) {
	t.Parallel()

	script, err := Parse([]byte(greetingScript))
	require.NoError(t, err)
	require.Len(t, script.Ops, 5)

	res, err := NewRunner().Run(context.Background(), singleBlock("Hello"), script)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Applied)
	assert.Equal(t, "Hello th!!ere", blockText(t, res.State, "a"))
	assert.Equal(t, 10, res.State.SelectionAfter().FocusOffset)

	b, _ := res.State.BlockForKey("a")
	assert.True(t, b.StyleAt(0).Has("BOLD"))
	assert.False(t, b.StyleAt(5).Has("BOLD"))
	assert.True(t, b.StyleAt(8).Has("ITALIC"))

	link := res.Entities["link"]
	require.NotZero(t, link)
	assert.Equal(t, link, b.MetadataAt(6).Entity())
	assert.Equal(t, link, b.MetadataAt(8).Entity(), "typed text inherits the mutable entity")

	ent, err := res.State.Entity(link)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", ent.Data["url"])
}

func TestParse_Forms(t *testing.T) {
	t.Parallel()

	list, err := Parse([]byte("- op: removeRange\n  anchor: {key: a, offset: 0}\n  focus: {key: a, offset: 2}\n"))
	require.NoError(t, err)
	require.Len(t, list.Ops, 1)
	assert.Equal(t, OpRemoveRange, list.Ops[0].Op)
	assert.Equal(t, 2, list.Ops[0].Focus.Offset)

	jsonScript, err := Parse([]byte(`{"ops":[{"op":"insertText","anchor":{"key":"a","offset":0},"text":"x"}]}`))
	require.NoError(t, err)
	require.Len(t, jsonScript.Ops, 1)
	assert.Equal(t, "x", jsonScript.Ops[0].Text)

	_, err = Parse([]byte(""))
	require.ErrorIs(t, err, ErrInvalidScript)

	_, err = Parse([]byte("ops: 3"))
	require.ErrorIs(t, err, ErrInvalidScript)
}

func TestRun_StopsAtFirstError(t *testing.T) {
	t.Parallel()

	script := Script{Ops: []Op{
		{Op: OpInsertText, Anchor: &Point{Key: "a", Offset: 0}, Text: ">"},
		{Op: OpRemoveRange, Anchor: &Point{Key: "missing", Offset: 0}},
		{Op: OpInsertText, Anchor: &Point{Key: "a", Offset: 0}, Text: "never"},
	}}

	res, err := NewRunner().Run(context.Background(), singleBlock("doc"), script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op 1 (removeRange)")
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, ">doc", blockText(t, res.State, "a"))
}

func TestRun_OperandErrors(t *testing.T) {
	t.Parallel()

	anchor := &Point{Key: "a", Offset: 0}

	tests := []struct {
		name string
		ops  []Op
		want error
	}{
		{name: "unknown op", ops: []Op{{Op: "explode", Anchor: anchor}}, want: ErrUnknownOp},
		{name: "missing anchor", ops: []Op{{Op: OpRemoveRange}}, want: ErrMissingField},
		{name: "missing style", ops: []Op{{Op: OpApplyStyle, Anchor: anchor}}, want: ErrMissingField},
		{name: "missing target", ops: []Op{{Op: OpMoveText, Anchor: anchor}}, want: ErrMissingField},
		{name: "missing fragment", ops: []Op{{Op: OpInsertFragment, Anchor: anchor}}, want: ErrMissingField},
		{name: "unknown entity", ops: []Op{{Op: OpAddEntity, Anchor: anchor, Entity: "ghost"}}, want: ErrUnknownEntity},
		{name: "bad direction", ops: []Op{{Op: OpRemoveCharacters, Anchor: anchor, Direction: "sideways"}}, want: ErrInvalidOperand},
		{name: "bad mutability", ops: []Op{{Op: OpCreateEntity, Name: "e", Mutability: "SOFT"}}, want: entity.ErrInvalidMutability},
		{name: "duplicate name", ops: []Op{
			{Op: OpCreateEntity, Name: "e", Type: "LINK"},
			{Op: OpCreateEntity, Name: "e", Type: "LINK"},
		}, want: ErrDuplicateName},
		{name: "insert over range", ops: []Op{
			{Op: OpInsertText, Anchor: anchor, Focus: &Point{Key: "a", Offset: 2}, Text: "x"},
		}, want: document.ErrInvalidSelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewRunner().Run(context.Background(), singleBlock("abc"), Script{Ops: tt.ops})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewRunner().Run(ctx, singleBlock("abc"), Script{Ops: []Op{
		{Op: OpInsertText, Anchor: &Point{Key: "a", Offset: 0}, Text: "x"},
	}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Applied)
}

func TestRun_StructuralOps(t *testing.T) {
	t.Parallel()

	cs := document.NewContentState(nil,
		document.NewBlock("a", document.TypeUnstyled, "Alpha"),
		document.NewBlock("b", document.TypeUnstyled, "Bravo"),
		document.NewBlock("c", document.TypeUnstyled, "Charlie"),
	)

	script, err := Parse([]byte(`
- op: moveText
  anchor: {key: a, offset: 4}
  focus: {key: b, offset: 1}
  target: {key: b, offset: 2}
- op: setBlockType
  anchor: {key: c, offset: 0}
  blockType: header-one
- op: insertFragment
  anchor: {key: c, offset: 0}
  fragment:
    blocks:
      - {key: f, text: "XY", inlineStyleRanges: [{offset: 0, length: 1, style: CODE}]}
- op: replaceText
  anchor: {key: c, offset: 2}
  focus: {key: c, offset: 4}
  text: "__"
`))
	require.NoError(t, err)

	res, err := NewRunner().Run(context.Background(), cs, script)
	require.NoError(t, err)

	assert.Equal(t, "Alphra", blockText(t, res.State, "a"))
	assert.Equal(t, "Bavo", blockText(t, res.State, "b"))
	assert.Equal(t, "XY__arlie", blockText(t, res.State, "c"))

	c, _ := res.State.BlockForKey("c")
	assert.Equal(t, "header-one", c.Type())
	assert.True(t, c.StyleAt(0).Has("CODE"))
	assert.False(t, c.StyleAt(1).Has("CODE"))
}

func TestRun_RemoveCharactersWidensImmutable(t *testing.T) {
	t.Parallel()

	script := Script{Ops: []Op{
		{Op: OpCreateEntity, Name: "tag", Type: "TOKEN", Mutability: "IMMUTABLE"},
		{Op: OpApplyEntity, Anchor: &Point{Key: "a", Offset: 6}, Focus: &Point{Key: "a", Offset: 11}, Entity: "tag"},
		{Op: OpRemoveCharacters, Anchor: &Point{Key: "a", Offset: 9}, Focus: &Point{Key: "a", Offset: 8}},
	}}

	res, err := NewRunner().Run(context.Background(), singleBlock("Hello World"), script)
	require.NoError(t, err)
	assert.Equal(t, "Hello ", blockText(t, res.State, "a"))
}

func TestRun_RecordsTelemetry(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	dm, err := observability.NewDocumentMetrics(mp.Meter("test"))
	require.NoError(t, err)

	runner := NewRunner(
		WithTracer(tp.Tracer("test")),
		WithREDMetrics(red),
		WithDocumentMetrics(dm),
	)

	script := Script{Ops: []Op{
		{Op: OpInsertText, Anchor: &Point{Key: "a", Offset: 0}, Text: "x"},
		{Op: OpApplyStyle, Anchor: &Point{Key: "a", Offset: 0}, Focus: &Point{Key: "a", Offset: 1}, Style: "BOLD"},
		{Op: OpRemoveRange, Anchor: &Point{Key: "nope", Offset: 0}},
	}}

	_, err = runner.Run(context.Background(), singleBlock("abc"), script)
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 4)
	assert.Equal(t, observability.SpanScript, spans[len(spans)-1].Name)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					counts[m.Name] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(3), counts["inkwell.requests.total"])
	assert.Equal(t, int64(1), counts["inkwell.errors.total"])
	assert.Equal(t, int64(1), counts["inkwell.edit.scripts.total"])
	assert.Equal(t, int64(2), counts["inkwell.edit.ops.total"])
}
