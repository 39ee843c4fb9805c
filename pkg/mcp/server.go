// Package mcp serves inkwell document operations as Model Context Protocol
// tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/inkwell/pkg/observability"
	"github.com/Sumatoshi-tech/inkwell/pkg/txn"
	"github.com/Sumatoshi-tech/inkwell/pkg/version"
)

const (
	serverName = "inkwell"

	// toolSpanPrefix prefixes tool span names and the RED op label.
	toolSpanPrefix = "mcp."

	// traceIDMetaKey labels the trace reference appended to sampled results.
	traceIDMetaKey = "trace_id"
)

// toolFunc is the handler shape the SDK infers tool schemas from.
type toolFunc[In any] = func(context.Context, *mcpsdk.CallToolRequest, In) (*mcpsdk.CallToolResult, ToolOutput, error)

// ServerDeps are the optional collaborators of a Server. Nil fields disable
// the matching concern.
type ServerDeps struct {
	Logger    *slog.Logger
	Metrics   *observability.REDMetrics
	Documents *observability.DocumentMetrics
	Tracer    trace.Tracer
}

// Server is an MCP server with the inkwell tools registered.
type Server struct {
	inner  *mcpsdk.Server
	tools  []string
	red    *observability.REDMetrics
	tracer trace.Tracer
	runner *txn.Runner
}

// NewServer builds a server and registers every tool.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{Logger: deps.Logger}

	runnerOpts := []txn.Option{txn.WithDocumentMetrics(deps.Documents)}
	if deps.Tracer != nil {
		runnerOpts = append(runnerOpts, txn.WithTracer(deps.Tracer))
	}

	if deps.Logger != nil {
		runnerOpts = append(runnerOpts, txn.WithLogger(deps.Logger))
	}

	s := &Server{
		inner:  mcpsdk.NewServer(&mcpsdk.Implementation{Name: serverName, Version: version.Version}, opts),
		red:    deps.Metrics,
		tracer: deps.Tracer,
		runner: txn.NewRunner(runnerOpts...),
	}

	register(s, ToolNameInspect, inspectToolDescription, handleInspect)
	register(s, ToolNameEdit, editToolDescription, s.handleEdit)
	register(s, ToolNameTree, treeToolDescription, handleTree)

	return s
}

// ListToolNames returns the registered tool names in sorted order.
func (s *Server) ListToolNames() []string {
	return slices.Sorted(slices.Values(s.tools))
}

// Run serves on stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport serves on transport until ctx is cancelled or the
// connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	if err := s.inner.Run(ctx, transport); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func register[In any](s *Server, name, description string, handler toolFunc[In]) {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{Name: name, Description: description}, instrument(s, name, handler))
	s.tools = append(s.tools, name)
}

// instrument wraps handler with a server span, RED metrics and, for sampled
// spans, a trace_id text block in the result. A result with IsError counts
// as a failed request.
func instrument[In any](s *Server, name string, handler toolFunc[In]) toolFunc[In] {
	if s.tracer == nil && s.red == nil {
		return handler
	}

	op := toolSpanPrefix + name

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		var span trace.Span
		if s.tracer != nil {
			ctx, span = s.tracer.Start(ctx, op,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attribute.String("mcp.tool", name)))
			defer span.End()
		}

		if s.red != nil {
			defer s.red.TrackInflight(ctx, op)()
		}

		start := time.Now()
		result, output, err := handler(ctx, req, input)
		failed := err != nil || (result != nil && result.IsError)

		if s.red != nil {
			status := observability.StatusOK
			if failed {
				status = observability.StatusError
			}

			s.red.RecordRequest(ctx, op, status, time.Since(start))
		}

		if span != nil {
			if failed {
				span.SetStatus(codes.Error, "tool call failed")
			}

			if sc := span.SpanContext(); sc.IsSampled() && result != nil {
				result.Content = append(result.Content,
					&mcpsdk.TextContent{Text: traceIDMetaKey + "=" + sc.TraceID().String()})
			}
		}

		return result, output, err
	}
}

const (
	inspectToolDescription = "Summarise a raw rich-text document: block, character, " +
		"style and entity counts plus one row per block. " +
		"Accepts the document as JSON or YAML text."

	editToolDescription = "Apply an edit script (insertText, removeRange, applyStyle, " +
		"applyEntity, insertFragment, moveText and more) to a raw document " +
		"and return the edited raw document."

	treeToolDescription = "Compute the decoration tree fingerprint of every block " +
		"for a set of regexp or entity-type decorators."
)
