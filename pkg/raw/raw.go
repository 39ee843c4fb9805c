// Package raw converts documents to and from the portable raw form: plain
// blocks with code-point style and entity ranges plus an entity map keyed by
// per-document ordinals.
package raw

import "errors"

// Sentinel errors for decoding and persistence.
var (
	ErrInvalidDocument = errors.New("invalid raw document")
	ErrUnknownCodec    = errors.New("unknown codec")
	ErrSchemaViolation = errors.New("raw document violates schema")
)

// Document is the raw form of a ContentState.
type Document struct {
	Blocks    []Block           `json:"blocks"    yaml:"blocks"`
	EntityMap map[string]Entity `json:"entityMap" yaml:"entityMap"`
}

// Block is one raw block. Offsets in its ranges count code points.
type Block struct {
	Key               string         `json:"key"                 yaml:"key"`
	ParentKey         string         `json:"parentKey,omitempty" yaml:"parentKey,omitempty"`
	Type              string         `json:"type"                yaml:"type"`
	Text              string         `json:"text"                yaml:"text"`
	Depth             int            `json:"depth"               yaml:"depth"`
	InlineStyleRanges []StyleRange   `json:"inlineStyleRanges"   yaml:"inlineStyleRanges"`
	EntityRanges      []EntityRange  `json:"entityRanges"        yaml:"entityRanges"`
	Data              map[string]any `json:"data"                yaml:"data"`
	Markers           []string       `json:"markers"             yaml:"markers"`
	ChildBlockMap     []Block        `json:"childBlockMap"       yaml:"childBlockMap"`
}

// StyleRange marks length code points from offset with style.
type StyleRange struct {
	Offset int    `json:"offset" yaml:"offset"`
	Length int    `json:"length" yaml:"length"`
	Style  string `json:"style"  yaml:"style"`
}

// EntityRange attaches the entities in KeySet to a span. Key repeats the
// first KeySet entry for readers that predate entity sets; decoding falls
// back to it when KeySet is empty.
type EntityRange struct {
	Offset int   `json:"offset"         yaml:"offset"`
	Length int   `json:"length"         yaml:"length"`
	Key    *int  `json:"key,omitempty"  yaml:"key,omitempty"`
	KeySet []int `json:"keySet"         yaml:"keySet"`
}

// Entity is one entityMap entry.
type Entity struct {
	Type       string         `json:"type"       yaml:"type"`
	Mutability string         `json:"mutability" yaml:"mutability"`
	Data       map[string]any `json:"data"       yaml:"data"`
}

// Walk visits every block depth-first, parents before their children.
func (d Document) Walk(fn func(b Block, level int)) {
	walk(d.Blocks, 0, fn)
}

func walk(blocks []Block, level int, fn func(Block, int)) {
	for _, b := range blocks {
		fn(b, level)
		walk(b.ChildBlockMap, level+1, fn)
	}
}
