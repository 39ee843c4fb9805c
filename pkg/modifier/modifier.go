// Package modifier implements the edit operations over document snapshots.
// Every operation is a pure function: it reads a ContentState and a
// selection and returns a new ContentState, leaving the input untouched.
package modifier

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/inkwell/pkg/document"
)

// Sentinel errors for entity range consistency and fragment input.
var (
	// ErrMultipleEntityRanges is returned when an entity occupies more than
	// one range overlapping a removal.
	ErrMultipleEntityRanges = errors.New("multiple entity ranges overlap removal")

	// ErrNoEntityRange is returned when an entity present at the removal
	// start has no range overlapping the removal.
	ErrNoEntityRange = errors.New("no entity range overlaps removal")

	// ErrEmptyFragment is returned when inserting a fragment with no blocks.
	ErrEmptyFragment = errors.New("empty fragment")
)

// mapSelectedBlocks rewrites the characters of every block from the
// selection start through its end on every block map level, passing each
// block the offsets it is covered by.
func mapSelectedBlocks(
	cs document.ContentState,
	sel document.SelectionState,
	fn func(b document.Block, start, end int) document.Block,
) (document.ContentState, error) {
	if err := cs.ValidateSelection(sel); err != nil {
		return cs, err
	}

	startKey, endKey := sel.StartKey(), sel.EndKey()
	startOffset, endOffset := sel.StartOffset(), sel.EndOffset()

	visit := func(bm document.BlockMap, b document.Block) document.BlockMap {
		start, end := 0, b.Len()
		if b.Key() == startKey {
			start = startOffset
		}

		if b.Key() == endKey {
			end = endOffset
		}

		if start >= end {
			return bm
		}

		return bm.Set(fn(b, start, end))
	}

	out := cs.ApplyToAllBlockMaps(func(bm document.BlockMap) document.BlockMap {
		if bm.Has(startKey) {
			for _, b := range bm.Between(startKey, endKey) {
				bm = visit(bm, b)
			}

			return bm
		}

		if b, ok := bm.Get(endKey); ok {
			bm = visit(bm, b)
		}

		return bm
	})

	return out.WithSelections(sel, sel), nil
}

// mapCharacters applies fn to every covered character.
func mapCharacters(
	cs document.ContentState,
	sel document.SelectionState,
	fn func(*document.CharacterMetadata) *document.CharacterMetadata,
) (document.ContentState, error) {
	return mapSelectedBlocks(cs, sel, func(b document.Block, start, end int) document.Block {
		return b.WithCharacters(b.Characters().Update(start, end, fn))
	})
}

// blockAt resolves key or fails with ErrBlockNotFound.
func blockAt(cs document.ContentState, key string) (document.Block, error) {
	b, ok := cs.BlockForKey(key)
	if !ok {
		return document.Block{}, fmt.Errorf("%w: %q", document.ErrBlockNotFound, key)
	}

	return b, nil
}

// selectedKeys returns the keys from the selection start through its end on
// the level holding the start. It fails when the end is not on that level
// after the start.
func selectedKeys(cs document.ContentState, sel document.SelectionState) (document.BlockMap, []string, error) {
	startKey, endKey := sel.StartKey(), sel.EndKey()

	level, ok := cs.LevelForKey(startKey)
	if !ok {
		return level, nil, fmt.Errorf("%w: %q", document.ErrBlockNotFound, startKey)
	}

	var keys []string
	for k := range level.Between(startKey, endKey) {
		keys = append(keys, k)
	}

	if keys[len(keys)-1] != endKey {
		return level, nil, fmt.Errorf("%w: %q does not follow %q on the same level",
			document.ErrInvalidSelection, endKey, startKey)
	}

	return level, keys, nil
}
