package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// attributeRule decides the fate of keys matching prefix. Exact rules match
// the whole key only.
type attributeRule struct {
	prefix string
	exact  bool
	keep   bool
}

func (r attributeRule) matches(key string) bool {
	if r.exact {
		return key == r.prefix
	}

	return strings.HasPrefix(key, r.prefix)
}

// spanAttributeRules is evaluated in order; the first matching rule wins and
// keys matching no rule are dropped. Document and entity payloads are dropped
// ahead of the broader document. and entity. namespaces.
var spanAttributeRules = []attributeRule{
	{prefix: "document.text", keep: false},
	{prefix: "entity.data", keep: false},
	{prefix: "script.body", keep: false},
	{prefix: "user.", keep: false},
	{prefix: "error", exact: true, keep: true},
	{prefix: "inkwell.", keep: true},
	{prefix: "txn.", keep: true},
	{prefix: "document.", keep: true},
	{prefix: "entity.", keep: true},
	{prefix: "codec.", keep: true},
	{prefix: "tree.", keep: true},
	{prefix: "cache.", keep: true},
	{prefix: "mcp.", keep: true},
	{prefix: "http.", keep: true},
	{prefix: "error.", keep: true},
}

func keepAttribute(key string) bool {
	for _, rule := range spanAttributeRules {
		if rule.matches(key) {
			return rule.keep
		}
	}

	return false
}

// attributeFilter strips span attributes rejected by spanAttributeRules
// before the span reaches the exporting delegate.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	logger   *slog.Logger
	reported sync.Map
}

// NewAttributeFilter wraps delegate with the span attribute policy. When
// logger is non-nil, each dropped key is reported once.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, logger: logger}
}

// OnStart delegates to the wrapped processor.
func (f *attributeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, s)
}

// OnEnd hands the delegate a view of s with disallowed attributes removed.
func (f *attributeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	f.delegate.OnEnd(&filteredSpan{ReadOnlySpan: s, attrs: f.filter(s.Attributes())})
}

// Shutdown delegates to the wrapped processor.
func (f *attributeFilter) Shutdown(ctx context.Context) error {
	if err := f.delegate.Shutdown(ctx); err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

// ForceFlush delegates to the wrapped processor.
func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	if err := f.delegate.ForceFlush(ctx); err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

func (f *attributeFilter) filter(attrs []attribute.KeyValue) []attribute.KeyValue {
	kept := make([]attribute.KeyValue, 0, len(attrs))

	for _, kv := range attrs {
		key := string(kv.Key)
		if keepAttribute(key) {
			kept = append(kept, kv)

			continue
		}

		if _, seen := f.reported.LoadOrStore(key, struct{}{}); !seen && f.logger != nil {
			f.logger.Warn("span attribute dropped", "key", key)
		}
	}

	return kept
}

// filteredSpan is a ReadOnlySpan whose attributes were filtered once at end.
type filteredSpan struct {
	sdktrace.ReadOnlySpan

	attrs []attribute.KeyValue
}

// Attributes returns the attributes that passed the filter.
func (s *filteredSpan) Attributes() []attribute.KeyValue {
	return s.attrs
}
