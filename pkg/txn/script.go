// Package txn runs edit scripts: ordered lists of edit operations decoded
// from YAML or JSON and applied to a document one after another.
package txn

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/entity"
	"github.com/Sumatoshi-tech/inkwell/pkg/raw"
)

// Sentinel errors for script decoding and execution.
var (
	ErrUnknownOp      = errors.New("unknown operation")
	ErrMissingField   = errors.New("missing field")
	ErrUnknownEntity  = errors.New("unknown entity reference")
	ErrInvalidScript  = errors.New("invalid edit script")
	ErrDuplicateName  = errors.New("duplicate entity name")
	ErrInvalidOperand = errors.New("invalid operand")
)

// Operation names.
const (
	OpInsertText          = "insertText"
	OpReplaceText         = "replaceText"
	OpRemoveRange         = "removeRange"
	OpRemoveCharacters    = "removeCharacters"
	OpApplyStyle          = "applyStyle"
	OpRemoveStyle         = "removeStyle"
	OpCreateEntity        = "createEntity"
	OpMergeEntityData     = "mergeEntityData"
	OpApplyEntity         = "applyEntity"
	OpAddEntity           = "addEntity"
	OpRemoveEntity        = "removeEntity"
	OpInsertFragment      = "insertFragment"
	OpReplaceWithFragment = "replaceWithFragment"
	OpMoveText            = "moveText"
	OpSetBlockType        = "setBlockType"
	OpSetBlockData        = "setBlockData"
)

// Directions accepted by removeCharacters.
const (
	DirectionForward  = "forward"
	DirectionBackward = "backward"
)

// Point is a position in a block.
type Point struct {
	Key    string `json:"key"    yaml:"key"`
	Offset int    `json:"offset" yaml:"offset"`
}

// Op is one edit operation. Which fields are read depends on Op.
type Op struct {
	Op         string         `json:"op"                   yaml:"op"`
	Anchor     *Point         `json:"anchor,omitempty"     yaml:"anchor,omitempty"`
	Focus      *Point         `json:"focus,omitempty"      yaml:"focus,omitempty"`
	Target     *Point         `json:"target,omitempty"     yaml:"target,omitempty"`
	Text       string         `json:"text,omitempty"       yaml:"text,omitempty"`
	Styles     []string       `json:"styles,omitempty"     yaml:"styles,omitempty"`
	Style      string         `json:"style,omitempty"      yaml:"style,omitempty"`
	Entity     string         `json:"entity,omitempty"     yaml:"entity,omitempty"`
	Direction  string         `json:"direction,omitempty"  yaml:"direction,omitempty"`
	Fragment   *raw.Document  `json:"fragment,omitempty"   yaml:"fragment,omitempty"`
	BlockType  string         `json:"blockType,omitempty"  yaml:"blockType,omitempty"`
	Name       string         `json:"name,omitempty"       yaml:"name,omitempty"`
	Type       string         `json:"type,omitempty"       yaml:"type,omitempty"`
	Mutability string         `json:"mutability,omitempty" yaml:"mutability,omitempty"`
	Data       map[string]any `json:"data,omitempty"       yaml:"data,omitempty"`
}

// Script is an ordered list of operations.
type Script struct {
	Ops []Op `json:"ops" yaml:"ops"`
}

// Parse decodes a script from YAML or JSON. Both a top-level list of
// operations and a mapping with an "ops" list are accepted.
func Parse(data []byte) (Script, error) {
	var node yaml.Node

	err := yaml.Unmarshal(data, &node)
	if err != nil {
		return Script{}, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}

	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return Script{}, fmt.Errorf("%w: empty document", ErrInvalidScript)
	}

	var script Script

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		err = root.Decode(&script.Ops)
	} else {
		err = root.Decode(&script)
	}

	if err != nil {
		return Script{}, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}

	return script, nil
}

// selection builds the selection named by the anchor and focus points. A
// missing focus collapses the selection onto the anchor.
func (o Op) selection() (document.SelectionState, error) {
	if o.Anchor == nil {
		return document.SelectionState{}, fmt.Errorf("%w: anchor", ErrMissingField)
	}

	focus := o.Anchor
	if o.Focus != nil {
		focus = o.Focus
	}

	return document.Range(o.Anchor.Key, o.Anchor.Offset, focus.Key, focus.Offset), nil
}

func (o Op) target() (document.SelectionState, error) {
	if o.Target == nil {
		return document.SelectionState{}, fmt.Errorf("%w: target", ErrMissingField)
	}

	return document.Collapsed(o.Target.Key, o.Target.Offset), nil
}

func (o Op) direction() (entity.Direction, error) {
	switch o.Direction {
	case "", DirectionBackward:
		return entity.Backward, nil
	case DirectionForward:
		return entity.Forward, nil
	default:
		return 0, fmt.Errorf("%w: direction %q", ErrInvalidOperand, o.Direction)
	}
}
