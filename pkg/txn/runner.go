package txn

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/entity"
	"github.com/Sumatoshi-tech/inkwell/pkg/modifier"
	"github.com/Sumatoshi-tech/inkwell/pkg/observability"
	"github.com/Sumatoshi-tech/inkwell/pkg/raw"
)

// Runner applies scripts to documents.
type Runner struct {
	tracer trace.Tracer
	red    *observability.REDMetrics
	docs   *observability.DocumentMetrics
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTracer sets the tracer used for script and operation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) { r.tracer = tracer }
}

// WithREDMetrics records one request per applied operation.
func WithREDMetrics(red *observability.REDMetrics) Option {
	return func(r *Runner) { r.red = red }
}

// WithDocumentMetrics records script and cache counters.
func WithDocumentMetrics(dm *observability.DocumentMetrics) Option {
	return func(r *Runner) { r.docs = dm }
}

// WithLogger sets the logger for per-operation debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a runner. Without options it traces to a no-op tracer,
// records no metrics and discards logs.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		tracer: nooptrace.NewTracerProvider().Tracer(observability.TracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Result is the outcome of a script run.
type Result struct {
	// State is the document after the last applied operation.
	State document.ContentState
	// Applied counts operations that succeeded.
	Applied int
	// Entities maps names given by createEntity to their keys.
	Entities map[string]entity.Key
}

// Run applies script to cs in order and stops at the first failing
// operation. The returned Result holds the document as of the last success;
// the error names the failing operation's index and name.
func (r *Runner) Run(ctx context.Context, cs document.ContentState, script Script) (Result, error) {
	ctx, span := r.tracer.Start(ctx, observability.SpanScript,
		trace.WithAttributes(attribute.Int("txn.ops", len(script.Ops))))
	defer span.End()

	res := Result{State: cs, Entities: make(map[string]entity.Key)}
	internBefore := document.InternPoolStats()

	var runErr error

	for i, op := range script.Ops {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("op %d (%s): %w", i, op.Op, err)

			break
		}

		next, err := r.step(ctx, i, op, res)
		if err != nil {
			runErr = fmt.Errorf("op %d (%s): %w", i, op.Op, err)

			break
		}

		res.State = next
		res.Applied++
	}

	internAfter := document.InternPoolStats()

	r.docs.RecordScript(ctx, observability.ScriptStats{
		Ops:    res.Applied,
		Failed: runErr != nil,
		Blocks: res.State.BlockMap().Len(),
	})
	r.docs.RecordCache(ctx, observability.CacheStats{
		Name:   observability.CacheIntern,
		Hits:   internAfter.Hits - internBefore.Hits,
		Misses: internAfter.Misses - internBefore.Misses,
	})

	span.SetAttributes(attribute.Int("txn.applied", res.Applied))

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
	}

	return res, runErr
}

// step applies one operation inside its own span and RED measurement.
func (r *Runner) step(ctx context.Context, idx int, op Op, res Result) (document.ContentState, error) {
	ctx, span := r.tracer.Start(ctx, observability.SpanOp, trace.WithAttributes(
		attribute.String("txn.op", op.Op),
		attribute.Int("txn.index", idx),
	))
	defer span.End()

	if r.red != nil {
		done := r.red.TrackInflight(ctx, op.Op)
		defer done()
	}

	start := time.Now()
	next, err := apply(res, op)
	elapsed := time.Since(start)

	if r.red != nil {
		r.red.RecordRequest(ctx, op.Op, observability.Status(err), elapsed)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return res.State, err
	}

	r.logger.DebugContext(ctx, "edit applied", "op", op.Op, "index", idx, "duration", elapsed)

	return next, nil
}

//nolint:cyclop,gocyclo // one case per operation.
func apply(res Result, op Op) (document.ContentState, error) {
	cs := res.State

	switch op.Op {
	case OpCreateEntity:
		return createEntity(res, op)
	case OpMergeEntityData:
		key, err := resolveEntity(res, op.Entity)
		if err != nil {
			return cs, err
		}

		return cs, cs.Entities().MergeData(key, op.Data)
	case OpMoveText:
		sel, err := op.selection()
		if err != nil {
			return cs, err
		}

		target, err := op.target()
		if err != nil {
			return cs, err
		}

		return modifier.MoveText(cs, sel, target)
	case OpInsertFragment, OpReplaceWithFragment:
		return applyFragment(cs, op)
	}

	sel, err := op.selection()
	if err != nil {
		return cs, err
	}

	switch op.Op {
	case OpInsertText:
		return insertText(cs, sel, op)
	case OpReplaceText:
		removed, err := modifier.RemoveRange(cs, sel)
		if err != nil {
			return cs, err
		}

		return insertText(removed, removed.SelectionAfter(), op)
	case OpRemoveRange:
		return modifier.RemoveRange(cs, sel)
	case OpRemoveCharacters:
		dir, err := op.direction()
		if err != nil {
			return cs, err
		}

		return modifier.RemoveCharacters(cs, sel, dir)
	case OpApplyStyle, OpRemoveStyle:
		if op.Style == "" {
			return cs, fmt.Errorf("%w: style", ErrMissingField)
		}

		if op.Op == OpApplyStyle {
			return modifier.ApplyInlineStyle(cs, sel, op.Style)
		}

		return modifier.RemoveInlineStyle(cs, sel, op.Style)
	case OpApplyEntity, OpAddEntity, OpRemoveEntity:
		return applyEntityOp(res, sel, op)
	case OpSetBlockType:
		if op.BlockType == "" {
			return cs, fmt.Errorf("%w: blockType", ErrMissingField)
		}

		return modifier.SetBlockType(cs, sel, op.BlockType)
	case OpSetBlockData:
		return modifier.SetBlockData(cs, sel, document.NewData(op.Data))
	default:
		return cs, fmt.Errorf("%w: %q", ErrUnknownOp, op.Op)
	}
}

// insertText inserts op.Text with op.Styles plus any MUTABLE entities the
// insertion point carries.
func insertText(cs document.ContentState, sel document.SelectionState, op Op) (document.ContentState, error) {
	ents, err := modifier.EntitySetForSelection(cs, sel)
	if err != nil {
		return cs, err
	}

	return modifier.InsertText(cs, sel, op.Text, document.NewMetadata(document.NewStyleSet(op.Styles...), ents))
}

func createEntity(res Result, op Op) (document.ContentState, error) {
	cs := res.State

	if op.Name == "" {
		return cs, fmt.Errorf("%w: name", ErrMissingField)
	}

	if _, exists := res.Entities[op.Name]; exists {
		return cs, fmt.Errorf("%w: %q", ErrDuplicateName, op.Name)
	}

	mut := entity.Mutable
	if op.Mutability != "" {
		parsed, err := entity.ParseMutability(op.Mutability)
		if err != nil {
			return cs, err
		}

		mut = parsed
	}

	res.Entities[op.Name] = cs.Entities().Create(op.Type, mut, op.Data)

	return cs, nil
}

func resolveEntity(res Result, name string) (entity.Key, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: entity", ErrMissingField)
	}

	key, ok := res.Entities[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}

	return key, nil
}

func applyEntityOp(res Result, sel document.SelectionState, op Op) (document.ContentState, error) {
	cs := res.State

	// applyEntity with no entity clears the range.
	if op.Op == OpApplyEntity && op.Entity == "" {
		return modifier.ApplyEntity(cs, sel, 0)
	}

	key, err := resolveEntity(res, op.Entity)
	if err != nil {
		return cs, err
	}

	switch op.Op {
	case OpApplyEntity:
		return modifier.ApplyEntity(cs, sel, key)
	case OpAddEntity:
		return modifier.AddEntity(cs, sel, key)
	default:
		return modifier.RemoveEntity(cs, sel, key)
	}
}

func applyFragment(cs document.ContentState, op Op) (document.ContentState, error) {
	if op.Fragment == nil {
		return cs, fmt.Errorf("%w: fragment", ErrMissingField)
	}

	sel, err := op.selection()
	if err != nil {
		return cs, err
	}

	decoded, err := raw.Decode(*op.Fragment, cs.Entities())
	if err != nil {
		return cs, fmt.Errorf("decode fragment: %w", err)
	}

	if op.Op == OpInsertFragment {
		return modifier.InsertFragment(cs, sel, decoded.BlockMap())
	}

	return modifier.ReplaceWithFragment(cs, sel, decoded.BlockMap())
}
