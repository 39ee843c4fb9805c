package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/inkwell/pkg/blocktree"
	"github.com/Sumatoshi-tech/inkwell/pkg/config"
	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/raw"
	"github.com/Sumatoshi-tech/inkwell/pkg/txn"
)

// Tool name constants.
const (
	ToolNameInspect = "inkwell_inspect"
	ToolNameEdit    = "inkwell_edit"
	ToolNameTree    = "inkwell_tree"
)

// Input size limits.
const (
	// MaxDocumentInputBytes is the maximum allowed size for an inline document (4 MB).
	MaxDocumentInputBytes = 4 << 20
	// MaxScriptInputBytes is the maximum allowed size for an inline edit script (1 MB).
	MaxScriptInputBytes = 1 << 20
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyDocument indicates the document parameter is empty.
	ErrEmptyDocument = errors.New("document parameter is required and must not be empty")
	// ErrEmptyScript indicates the script parameter is empty.
	ErrEmptyScript = errors.New("script parameter is required and must not be empty")
	// ErrInputTooLarge indicates an input exceeds its size limit.
	ErrInputTooLarge = errors.New("input exceeds maximum size")
	// ErrUnsupportedFormat indicates the format is neither json nor yaml.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Input types (auto-generate JSON schemas via struct tags).

// InspectInput is the input schema for the inkwell_inspect tool.
type InspectInput struct {
	Document string `json:"document"         jsonschema:"raw document as JSON or YAML text"`
	Format   string `json:"format,omitempty" jsonschema:"document format: json (default) or yaml"`
}

// EditInput is the input schema for the inkwell_edit tool.
type EditInput struct {
	Document string `json:"document"         jsonschema:"raw document as JSON or YAML text"`
	Format   string `json:"format,omitempty" jsonschema:"document format: json (default) or yaml"`
	Script   string `json:"script"           jsonschema:"edit script as YAML or JSON: a list of operations or a mapping with an ops list"`
}

// TreeInput is the input schema for the inkwell_tree tool.
type TreeInput struct {
	Document   string                   `json:"document"             jsonschema:"raw document as JSON or YAML text"`
	Format     string                   `json:"format,omitempty"     jsonschema:"document format: json (default) or yaml"`
	Decorators []config.DecoratorConfig `json:"decorators,omitempty" jsonschema:"decorator components; each sets a regexp pattern or an entity_type"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// EditResult is the payload of a successful inkwell_edit call.
type EditResult struct {
	Applied  int          `json:"applied"`
	Document raw.Document `json:"document"`
}

// TreeBlock is one block of an inkwell_tree result. Offsets count UTF-16
// code units.
type TreeBlock struct {
	Key         string      `json:"key"`
	Level       int         `json:"level"`
	Fingerprint string      `json:"fingerprint"`
	Ranges      []TreeRange `json:"ranges"`
}

// TreeRange is one top-level decorator range of a block.
type TreeRange struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Decorator string `json:"decorator,omitempty"`
	Leaves    int    `json:"leaves"`
	Children  int    `json:"children"`
}

func handleInspect(_ context.Context, _ *mcpsdk.CallToolRequest, input InspectInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	doc, _, err := loadDocument(input.Document, input.Format)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(raw.Summarize(doc))
}

func (s *Server) handleEdit(ctx context.Context, _ *mcpsdk.CallToolRequest, input EditInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Script == "" {
		return errorResult(ErrEmptyScript)
	}

	if len(input.Script) > MaxScriptInputBytes {
		return errorResult(fmt.Errorf("%w: script %d bytes (max %d)", ErrInputTooLarge, len(input.Script), MaxScriptInputBytes))
	}

	_, cs, err := loadDocument(input.Document, input.Format)
	if err != nil {
		return errorResult(err)
	}

	script, err := txn.Parse([]byte(input.Script))
	if err != nil {
		return errorResult(err)
	}

	res, err := s.runner.Run(ctx, cs, script)
	if err != nil {
		return errorResult(err)
	}

	out, err := raw.Encode(res.State)
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return jsonResult(EditResult{Applied: res.Applied, Document: out})
}

func handleTree(_ context.Context, _ *mcpsdk.CallToolRequest, input TreeInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	_, cs, err := loadDocument(input.Document, input.Format)
	if err != nil {
		return errorResult(err)
	}

	dec, err := (&config.Config{Decorators: input.Decorators}).Decorator()
	if err != nil {
		return errorResult(err)
	}

	blocks := make([]TreeBlock, 0, cs.BlockMap().Len())

	for level, b := range cs.Walk() {
		tree := blocktree.Generate(cs, b, dec)

		ranges := make([]TreeRange, 0, len(tree))
		for _, r := range tree {
			tr := TreeRange{Start: r.Start, End: r.End, Leaves: len(r.Leaves), Children: len(r.Children)}
			if comp, ok := dec.Component(r.Decorator); r.Decorated && ok {
				tr.Decorator = comp.Name
			}

			ranges = append(ranges, tr)
		}

		blocks = append(blocks, TreeBlock{
			Key:         b.Key(),
			Level:       level,
			Fingerprint: blocktree.Fingerprint(tree),
			Ranges:      ranges,
		})
	}

	return jsonResult(blocks)
}

// loadDocument validates and decodes an inline document into both its raw
// and in-memory forms.
func loadDocument(text, format string) (*raw.Document, document.ContentState, error) {
	if text == "" {
		return nil, document.ContentState{}, ErrEmptyDocument
	}

	if len(text) > MaxDocumentInputBytes {
		return nil, document.ContentState{}, fmt.Errorf("%w: document %d bytes (max %d)",
			ErrInputTooLarge, len(text), MaxDocumentInputBytes)
	}

	if format == "" {
		format = raw.CodecJSON
	}

	if format != raw.CodecJSON && format != raw.CodecYAML {
		return nil, document.ContentState{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	codec, err := raw.NewCodec(format)
	if err != nil {
		return nil, document.ContentState{}, err
	}

	doc, err := raw.DecodeBytes(codec, []byte(text))
	if err != nil {
		return nil, document.ContentState{}, err
	}

	cs, err := raw.Decode(*doc, nil)
	if err != nil {
		return nil, document.ContentState{}, err
	}

	return doc, cs, nil
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
