package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/inkwell/pkg/observability"
)

func newTestMeterProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumOf(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	mp, reader := newTestMeterProvider()

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	red.RecordRequest(ctx, "insertText", observability.StatusOK, time.Millisecond)
	red.RecordRequest(ctx, "removeRange", observability.StatusError, time.Millisecond)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(2), sumOf(t, findMetric(rm, "inkwell.requests.total")))
	assert.Equal(t, int64(1), sumOf(t, findMetric(rm, "inkwell.errors.total")))
	assert.NotNil(t, findMetric(rm, "inkwell.request.duration.seconds"))
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()

	mp, reader := newTestMeterProvider()

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	done := red.TrackInflight(context.Background(), "moveText")
	assert.Equal(t, int64(1), sumOf(t, findMetric(collectMetrics(t, reader), "inkwell.inflight.requests")))

	done()
	assert.Zero(t, sumOf(t, findMetric(collectMetrics(t, reader), "inkwell.inflight.requests")))
}

func TestDocumentMetrics(t *testing.T) {
	t.Parallel()

	mp, reader := newTestMeterProvider()

	dm, err := observability.NewDocumentMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	dm.RecordScript(ctx, observability.ScriptStats{Ops: 4, Blocks: 12})
	dm.RecordCache(ctx,
		observability.CacheStats{Name: observability.CacheIntern, Hits: 10, Misses: 2},
		observability.CacheStats{Name: observability.CacheTree, Hits: 1, Misses: 3},
	)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(1), sumOf(t, findMetric(rm, "inkwell.edit.scripts.total")))
	assert.Equal(t, int64(4), sumOf(t, findMetric(rm, "inkwell.edit.ops.total")))
	assert.Equal(t, int64(11), sumOf(t, findMetric(rm, "inkwell.cache.hits.total")))
	assert.Equal(t, int64(5), sumOf(t, findMetric(rm, "inkwell.cache.misses.total")))
	assert.NotNil(t, findMetric(rm, "inkwell.document.blocks"))
}

func TestDocumentMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var dm *observability.DocumentMetrics

	assert.NotPanics(t, func() {
		dm.RecordScript(context.Background(), observability.ScriptStats{Ops: 1})
		dm.RecordCache(context.Background(), observability.CacheStats{Name: observability.CacheTree})
	})
}

func TestStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, observability.StatusOK, observability.Status(nil))
	assert.Equal(t, observability.StatusError, observability.Status(errors.New("boom")))
}
