package document

import (
	"slices"

	"github.com/Sumatoshi-tech/inkwell/pkg/alg/runs"
	"github.com/Sumatoshi-tech/inkwell/pkg/alg/treap"
	"github.com/Sumatoshi-tech/inkwell/pkg/textutil"
)

// Block types with special meaning to edit operations.
const (
	TypeUnstyled = "unstyled"
	TypeAtomic   = "atomic"
)

// Characters is the persistent per-character metadata list of a block.
type Characters = treap.List[*CharacterMetadata]

// Block is one paragraph of a document. It is a value: every With method
// returns a modified copy and never alters the receiver. The text and its
// character list always have the same length.
type Block struct {
	key       string
	parentKey string
	typ       string
	depth     int
	text      textutil.UTF16
	chars     Characters
	data      Data
	markers   []string
	children  *BlockMap
}

// NewBlock creates a block whose characters all carry empty metadata.
func NewBlock(key, typ, text string) Block {
	t := textutil.FromString(text)

	return Block{
		key:   key,
		typ:   typ,
		text:  t,
		chars: treap.Repeat(EmptyMetadata(), t.Len()),
	}
}

// Key returns the block key.
func (b Block) Key() string { return b.key }

// ParentKey returns the key of the enclosing block, if any.
func (b Block) ParentKey() string { return b.parentKey }

// Type returns the block type.
func (b Block) Type() string { return b.typ }

// IsAtomic reports whether the block is edited only as a whole.
func (b Block) IsAtomic() bool { return b.typ == TypeAtomic }

// Depth returns the nesting depth used by list-like block types.
func (b Block) Depth() int { return b.depth }

// Text returns the UTF-16 text.
func (b Block) Text() textutil.UTF16 { return b.text }

// String returns the text as a Go string.
func (b Block) String() string { return b.text.String() }

// Len returns the text length in UTF-16 code units.
func (b Block) Len() int { return b.text.Len() }

// Characters returns the metadata list.
func (b Block) Characters() Characters { return b.chars }

// Data returns the block data.
func (b Block) Data() Data { return b.data }

// Markers returns the block markers.
func (b Block) Markers() []string { return slices.Clone(b.markers) }

// Children returns the nested block map and whether the block has one.
func (b Block) Children() (BlockMap, bool) {
	if b.children == nil {
		return BlockMap{}, false
	}

	return *b.children, true
}

// HasChildren reports whether the block holds a non-empty nested map.
func (b Block) HasChildren() bool {
	return b.children != nil && b.children.Len() > 0
}

// MetadataAt returns the metadata of the character at offset.
func (b Block) MetadataAt(offset int) *CharacterMetadata { return b.chars.At(offset) }

// StyleAt returns the style set of the character at offset.
func (b Block) StyleAt(offset int) StyleSet { return b.chars.At(offset).Style() }

// EntitiesAt returns the entity set of the character at offset, or an empty
// set when offset is outside the block.
func (b Block) EntitiesAt(offset int) EntitySet {
	if offset < 0 || offset >= b.chars.Len() {
		return EntitySet{}
	}

	return b.chars.At(offset).Entities()
}

// WithKey returns the block under a new key.
func (b Block) WithKey(key string) Block {
	b.key = key

	return b
}

// WithParentKey returns the block with a new parent key.
func (b Block) WithParentKey(key string) Block {
	b.parentKey = key

	return b
}

// WithType returns the block with a new type.
func (b Block) WithType(typ string) Block {
	b.typ = typ

	return b
}

// WithDepth returns the block with a new depth.
func (b Block) WithDepth(depth int) Block {
	b.depth = depth

	return b
}

// WithData returns the block with new data.
func (b Block) WithData(data Data) Block {
	b.data = data

	return b
}

// WithMarkers returns the block with new markers.
func (b Block) WithMarkers(markers []string) Block {
	b.markers = slices.Clone(markers)

	return b
}

// WithChildren returns the block holding children as its nested map.
func (b Block) WithChildren(children BlockMap) Block {
	b.children = &children

	return b
}

// WithoutChildren returns the block with no nested map.
func (b Block) WithoutChildren() Block {
	b.children = nil

	return b
}

// WithContent replaces text and characters. It panics when their lengths
// differ, as that would corrupt every later offset computation.
func (b Block) WithContent(text textutil.UTF16, chars Characters) Block {
	if text.Len() != chars.Len() {
		panic("document: text and character list lengths differ")
	}

	b.text = text
	b.chars = chars

	return b
}

// WithCharacters replaces the character list, keeping the text.
func (b Block) WithCharacters(chars Characters) Block {
	return b.WithContent(b.text, chars)
}

// FindStyleRanges reports maximal runs of characters sharing one style set.
// filter, when set, is checked against the first character of each run.
func (b Block) FindStyleRanges(filter func(*CharacterMetadata) bool, found func(start, end int)) {
	runs.Find(b.chars.Values(), SameStyle, filter, found)
}

// FindEntityRanges reports maximal runs of characters sharing one entity
// set. filter, when set, is checked against the first character of each run.
func (b Block) FindEntityRanges(filter func(*CharacterMetadata) bool, found func(start, end int)) {
	runs.Find(b.chars.Values(), SameEntities, filter, found)
}
