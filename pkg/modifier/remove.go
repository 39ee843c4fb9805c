package modifier

import (
	"fmt"

	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/entity"
	"github.com/Sumatoshi-tech/inkwell/pkg/textutil"
)

// RemoveRange deletes everything between the selection ends and merges the
// start block head with the end block tail under the start key. Any
// selection touching an atomic start block removes that block whole. A
// document never ends up empty: a fresh unstyled block replaces the last
// removed one.
func RemoveRange(cs document.ContentState, sel document.SelectionState) (document.ContentState, error) {
	if err := cs.ValidateSelection(sel); err != nil {
		return cs, err
	}

	startKey, endKey := sel.StartKey(), sel.EndKey()
	startOffset, endOffset := sel.StartOffset(), sel.EndOffset()

	startBlock, _ := cs.BlockForKey(startKey)
	if sel.IsCollapsed() && !startBlock.IsAtomic() {
		return cs, nil
	}

	level, keys, err := selectedKeys(cs, sel)
	if err != nil {
		return cs, err
	}

	endBlock, _ := level.Get(endKey)
	survivor, selKey, selOffset := "", startKey, startOffset

	var merged document.Block

	switch {
	case !startBlock.IsAtomic():
		var chars document.Characters
		if startKey == endKey {
			chars = removeFromList(startBlock.Characters(), startOffset, endOffset)
		} else {
			chars = startBlock.Characters().Slice(0, startOffset).
				Concat(endBlock.Characters().Slice(endOffset, endBlock.Len()))
		}

		text := textutil.Concat(startBlock.Text().Slice(0, startOffset), endBlock.Text().Slice(endOffset, endBlock.Len()))
		survivor, merged = startKey, startBlock.WithContent(text, chars)
	case startKey != endKey && !endBlock.IsAtomic():
		survivor = endKey
		merged = endBlock.WithContent(
			endBlock.Text().Slice(endOffset, endBlock.Len()),
			endBlock.Characters().Slice(endOffset, endBlock.Len()),
		)
		selKey, selOffset = endKey, 0
	default:
		selKey, selOffset = neighbourKey(level, startKey, endKey), 0
	}

	out := level
	for _, k := range keys {
		if k != survivor {
			out = out.Delete(k)
		}
	}

	if survivor != "" {
		out = out.Set(merged)
	}

	if out.Len() == 0 {
		fresh := startBlock.
			WithKey(document.GenerateKey()).
			WithType(document.TypeUnstyled).
			WithoutChildren().
			WithContent(nil, document.Characters{})
		out = out.Set(fresh)
		selKey, selOffset = fresh.Key(), 0
	}

	cs = cs.UpdateLevel(startKey, func(document.BlockMap) document.BlockMap { return out })

	return cs.WithSelections(sel, sel.CollapseTo(selKey, selOffset)), nil
}

func neighbourKey(level document.BlockMap, startKey, endKey string) string {
	if k, ok := level.KeyAfter(endKey); ok {
		return k
	}

	k, _ := level.KeyBefore(startKey)

	return k
}

// removeFromList drops [start, end) from chars, shifting or popping when the
// cut touches an end of the list so untouched nodes stay shared.
func removeFromList(chars document.Characters, start, end int) document.Characters {
	switch {
	case start == 0:
		for ; start < end; start++ {
			chars = chars.Shift()
		}
	case end == chars.Len():
		for ; end > start; end-- {
			chars = chars.Pop()
		}
	default:
		chars = chars.Slice(0, start).Concat(chars.Slice(end, chars.Len()))
	}

	return chars
}

// CharacterRemovalRange widens or aligns a single-block removal so it
// respects the mutability of entities at its start. MUTABLE entities leave
// the range unchanged, any IMMUTABLE entity widens it to the union of the
// IMMUTABLE entity ranges, and otherwise the first SEGMENTED entity aligns it
// to segment boundaries. The result is always a forward selection.
func CharacterRemovalRange(
	store *entity.Store,
	b document.Block,
	sel document.SelectionState,
	dir entity.Direction,
) (document.SelectionState, error) {
	start, end := sel.StartOffset(), sel.EndOffset()

	set := b.EntitiesAt(start)
	if set.Len() == 0 || sel.IsCollapsed() {
		return sel, nil
	}

	var (
		immutable    bool
		mutableCount int
		segmented    *entityHit
		lo, hi       int
	)

	for _, key := range set.Keys() {
		hit, err := overlappingRange(store, b, key, start, end)
		if err != nil {
			return sel, err
		}

		switch hit.mutability {
		case entity.Mutable:
			mutableCount++
		case entity.Immutable:
			if !immutable {
				lo, hi = hit.start, hit.end
				immutable = true
			}

			lo, hi = min(lo, hit.start), max(hi, hit.end)
		case entity.Segmented:
			if segmented == nil {
				segmented = &hit
			}
		}
	}

	switch {
	case mutableCount == set.Len():
		return sel, nil
	case immutable:
		out := sel.WithOffsets(lo, hi)
		out.IsBackward = false

		return out, nil
	case segmented != nil:
		s, e := entity.SegmentRemovalRange(start, end, b.Text().Slice(segmented.start, segmented.end), segmented.start, dir)
		out := sel.WithOffsets(s, e)
		out.IsBackward = false

		return out, nil
	default:
		return sel, nil
	}
}

type entityHit struct {
	mutability entity.Mutability
	start, end int
}

func overlappingRange(store *entity.Store, b document.Block, key entity.Key, start, end int) (entityHit, error) {
	mut, err := store.Mutability(key)
	if err != nil {
		return entityHit{}, err
	}

	var hits []entityHit

	for _, r := range entityRanges(b, key) {
		if start < r.End && end > r.Start {
			hits = append(hits, entityHit{mutability: mut, start: r.Start, end: r.End})
		}
	}

	switch len(hits) {
	case 1:
		return hits[0], nil
	case 0:
		return entityHit{}, fmt.Errorf("%w: entity %s in block %q", ErrNoEntityRange, key, b.Key())
	default:
		return entityHit{}, fmt.Errorf("%w: entity %s has %d ranges in block %q",
			ErrMultipleEntityRanges, key, len(hits), b.Key())
	}
}

// RemoveCharacters deletes sel the way a keyboard deletion would. A
// single-block removal that starts and ends inside the same entity set is
// first adjusted by CharacterRemovalRange; otherwise non-MUTABLE entities cut
// at the edges are stripped before removal.
func RemoveCharacters(cs document.ContentState, sel document.SelectionState, dir entity.Direction) (document.ContentState, error) {
	if err := cs.ValidateSelection(sel); err != nil {
		return cs, err
	}

	if sel.AnchorKey == sel.FocusKey && !sel.IsCollapsed() {
		b, _ := cs.BlockForKey(sel.AnchorKey)
		startSet := b.EntitiesAt(sel.StartOffset())
		endSet := b.EntitiesAt(sel.EndOffset() - 1)

		if startSet.Len() > 0 && startSet.Equal(endSet) {
			adjusted, err := CharacterRemovalRange(cs.Entities(), b, sel, dir)
			if err != nil {
				return cs, err
			}

			return RemoveRange(cs, adjusted)
		}
	}

	stripped, err := removeEntitiesAtEdges(cs, sel)
	if err != nil {
		return cs, err
	}

	return RemoveRange(stripped, sel)
}
