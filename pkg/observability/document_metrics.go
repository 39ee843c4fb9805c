package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricScriptsTotal     = "inkwell.edit.scripts.total"
	metricOpsTotal         = "inkwell.edit.ops.total"
	metricBlocksTotal      = "inkwell.document.blocks"
	metricCacheHitsTotal   = "inkwell.cache.hits.total"
	metricCacheMissesTotal = "inkwell.cache.misses.total"

	attrCache = "cache"

	// CacheIntern labels the character metadata intern pool.
	CacheIntern = "intern"
	// CacheTree labels the decoration tree cache.
	CacheTree = "tree"
)

// blockBucketBoundaries spans single-paragraph notes to book-length documents.
var blockBucketBoundaries = []float64{1, 10, 50, 100, 500, 1000, 5000, 10000}

// DocumentMetrics holds instruments describing edit scripts and the
// documents they run against.
type DocumentMetrics struct {
	scriptsTotal metric.Int64Counter
	opsTotal     metric.Int64Counter
	blocks       metric.Float64Histogram
	cacheHits    metric.Int64Counter
	cacheMisses  metric.Int64Counter
}

// ScriptStats summarises one edit script run.
type ScriptStats struct {
	Ops    int
	Failed bool
	Blocks int
}

// CacheStats is a hit/miss delta for one cache.
type CacheStats struct {
	Name   string
	Hits   int64
	Misses int64
}

// NewDocumentMetrics creates document metric instruments from the given meter.
func NewDocumentMetrics(mt metric.Meter) (*DocumentMetrics, error) {
	in := newInstruments(mt)

	dm := &DocumentMetrics{
		scriptsTotal: in.counter(metricScriptsTotal, "Edit scripts run", "{script}"),
		opsTotal:     in.counter(metricOpsTotal, "Edit operations applied", "{op}"),
		blocks:       in.histogram(metricBlocksTotal, "Top-level blocks in edited documents", "{block}", blockBucketBoundaries...),
		cacheHits:    in.counter(metricCacheHitsTotal, "Cache hits by cache", "{hit}"),
		cacheMisses:  in.counter(metricCacheMissesTotal, "Cache misses by cache", "{miss}"),
	}

	if err := in.err(); err != nil {
		return nil, err
	}

	return dm, nil
}

// RecordScript records one finished script. Safe to call on a nil receiver.
func (dm *DocumentMetrics) RecordScript(ctx context.Context, stats ScriptStats) {
	if dm == nil {
		return
	}

	dm.scriptsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, statusFor(stats.Failed))))
	dm.opsTotal.Add(ctx, int64(stats.Ops))
	dm.blocks.Record(ctx, float64(stats.Blocks))
}

// RecordCache records cache counters. Safe to call on a nil receiver.
func (dm *DocumentMetrics) RecordCache(ctx context.Context, stats ...CacheStats) {
	if dm == nil {
		return
	}

	for _, s := range stats {
		attrs := metric.WithAttributes(attribute.String(attrCache, s.Name))
		dm.cacheHits.Add(ctx, s.Hits, attrs)
		dm.cacheMisses.Add(ctx, s.Misses, attrs)
	}
}

func statusFor(failed bool) string {
	if failed {
		return StatusError
	}

	return StatusOK
}
