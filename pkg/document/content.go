package document

import (
	"fmt"
	"iter"
	"strings"

	"github.com/Sumatoshi-tech/inkwell/pkg/entity"
)

// ContentState is an immutable document snapshot: a block map, the entity
// store it references and the selections recorded by the last edit.
type ContentState struct {
	blocks          BlockMap
	entities        *entity.Store
	selectionBefore SelectionState
	selectionAfter  SelectionState
}

// NewContentState creates a document from blocks. A nil store gets a fresh
// one. Both selections start as a caret at the first block.
func NewContentState(store *entity.Store, blocks ...Block) ContentState {
	return FromBlockMap(store, NewBlockMap(blocks...))
}

// FromBlockMap creates a document over an existing block map.
func FromBlockMap(store *entity.Store, bm BlockMap) ContentState {
	if store == nil {
		store = entity.NewStore()
	}

	var sel SelectionState
	if first, ok := bm.First(); ok {
		sel = Collapsed(first.Key(), 0)
	}

	return ContentState{blocks: bm, entities: store, selectionBefore: sel, selectionAfter: sel}
}

// BlockMap returns the top-level block map.
func (cs ContentState) BlockMap() BlockMap { return cs.blocks }

// Entities returns the entity store.
func (cs ContentState) Entities() *entity.Store { return cs.entities }

// Entity resolves an entity key.
func (cs ContentState) Entity(key entity.Key) (entity.Entity, error) {
	return cs.entities.Get(key)
}

// SelectionBefore returns the selection recorded before the last edit.
func (cs ContentState) SelectionBefore() SelectionState { return cs.selectionBefore }

// SelectionAfter returns the selection recorded after the last edit.
func (cs ContentState) SelectionAfter() SelectionState { return cs.selectionAfter }

// WithBlockMap returns the document with a new top-level map.
func (cs ContentState) WithBlockMap(bm BlockMap) ContentState {
	cs.blocks = bm

	return cs
}

// WithSelections returns the document with both selections replaced.
func (cs ContentState) WithSelections(before, after SelectionState) ContentState {
	cs.selectionBefore = before
	cs.selectionAfter = after

	return cs
}

// WithSelectionAfter returns the document with the after selection replaced.
func (cs ContentState) WithSelectionAfter(sel SelectionState) ContentState {
	cs.selectionAfter = sel

	return cs
}

// BlockForKey finds a block at any nesting level.
func (cs ContentState) BlockForKey(key string) (Block, bool) {
	level, ok := levelFor(cs.blocks, key)
	if !ok {
		return Block{}, false
	}

	return level.Get(key)
}

// LevelForKey returns the block map that directly holds key.
func (cs ContentState) LevelForKey(key string) (BlockMap, bool) {
	return levelFor(cs.blocks, key)
}

// KeyBefore returns the key preceding key within its own level.
func (cs ContentState) KeyBefore(key string) (string, bool) {
	level, ok := levelFor(cs.blocks, key)
	if !ok {
		return "", false
	}

	return level.KeyBefore(key)
}

// KeyAfter returns the key following key within its own level.
func (cs ContentState) KeyAfter(key string) (string, bool) {
	level, ok := levelFor(cs.blocks, key)
	if !ok {
		return "", false
	}

	return level.KeyAfter(key)
}

// FirstBlock returns the first top-level block.
func (cs ContentState) FirstBlock() (Block, bool) { return cs.blocks.First() }

// LastBlock returns the last top-level block.
func (cs ContentState) LastBlock() (Block, bool) { return cs.blocks.Last() }

// ChangeBlockForKey replaces the block stored under key at whatever level it
// lives. Unknown keys leave the document unchanged.
func (cs ContentState) ChangeBlockForKey(key string, b Block) ContentState {
	return cs.UpdateLevel(key, func(level BlockMap) BlockMap {
		return level.Set(b)
	})
}

// UpdateLevel rewrites the block map level holding key with fn and re-attaches
// the result to its parents. Only the path down to that level is copied.
func (cs ContentState) UpdateLevel(key string, fn func(BlockMap) BlockMap) ContentState {
	if bm, ok := updateLevel(cs.blocks, key, fn); ok {
		cs.blocks = bm
	}

	return cs
}

// ApplyToAllBlockMaps runs fn over the top-level map and every nested map,
// outermost first, re-attaching rewritten children.
func (cs ContentState) ApplyToAllBlockMaps(fn func(BlockMap) BlockMap) ContentState {
	cs.blocks = applyAll(cs.blocks, fn)

	return cs
}

// PlainText joins the text of top-level blocks with delim.
func (cs ContentState) PlainText(delim string) string {
	parts := make([]string, 0, cs.blocks.Len())
	for _, b := range cs.blocks.All() {
		parts = append(parts, b.String())
	}

	return strings.Join(parts, delim)
}

// HasText reports whether any top-level block holds text.
func (cs ContentState) HasText() bool {
	for _, b := range cs.blocks.All() {
		if b.Len() > 0 {
			return true
		}
	}

	return false
}

// Walk yields every block depth-first, parents before their children, with
// its nesting level.
func (cs ContentState) Walk() iter.Seq2[int, Block] {
	return func(yield func(int, Block) bool) {
		walkLevel(cs.blocks, 0, yield)
	}
}

func walkLevel(bm BlockMap, level int, yield func(int, Block) bool) bool {
	for _, b := range bm.All() {
		if !yield(level, b) {
			return false
		}

		if children, ok := b.Children(); ok && !walkLevel(children, level+1, yield) {
			return false
		}
	}

	return true
}

// ValidateSelection checks that both ends of sel name existing blocks and
// offsets within them.
func (cs ContentState) ValidateSelection(sel SelectionState) error {
	if err := cs.validatePoint(sel.AnchorKey, sel.AnchorOffset); err != nil {
		return err
	}

	return cs.validatePoint(sel.FocusKey, sel.FocusOffset)
}

func (cs ContentState) validatePoint(key string, offset int) error {
	b, ok := cs.BlockForKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrBlockNotFound, key)
	}

	if offset < 0 || offset > b.Len() {
		return fmt.Errorf("%w: %d not in [0,%d] for block %q", ErrOffsetOutOfRange, offset, b.Len(), key)
	}

	return nil
}

func levelFor(bm BlockMap, key string) (BlockMap, bool) {
	if bm.Has(key) {
		return bm, true
	}

	for c := range bm.Containers() {
		if level, ok := levelFor(*c.children, key); ok {
			return level, true
		}
	}

	return BlockMap{}, false
}

func updateLevel(bm BlockMap, key string, fn func(BlockMap) BlockMap) (BlockMap, bool) {
	if bm.Has(key) {
		return fn(bm), true
	}

	for c := range bm.Containers() {
		if child, ok := updateLevel(*c.children, key, fn); ok {
			return bm.Set(c.WithChildren(child)), true
		}
	}

	return bm, false
}

func applyAll(bm BlockMap, fn func(BlockMap) BlockMap) BlockMap {
	bm = fn(bm)

	for c := range bm.Containers() {
		bm = bm.Set(c.WithChildren(applyAll(*c.children, fn)))
	}

	return bm
}
