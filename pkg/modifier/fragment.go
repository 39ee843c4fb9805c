package modifier

import (
	"fmt"

	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/textutil"
)

// GetFragment copies the blocks covered by sel, trimmed to the selection and
// re-keyed. Non-MUTABLE entities split by either edge are dropped from the
// copy.
func GetFragment(cs document.ContentState, sel document.SelectionState) (document.BlockMap, error) {
	if err := cs.ValidateSelection(sel); err != nil {
		return document.BlockMap{}, err
	}

	stripped, err := removeEntitiesAtEdges(cs, sel)
	if err != nil {
		return document.BlockMap{}, err
	}

	level, keys, err := selectedKeys(stripped, sel)
	if err != nil {
		return document.BlockMap{}, err
	}

	startKey, endKey := sel.StartKey(), sel.EndKey()
	startOffset, endOffset := sel.StartOffset(), sel.EndOffset()

	var fragment document.BlockMap

	for _, k := range keys {
		b, _ := level.Get(k)
		from, to := 0, b.Len()

		if k == startKey {
			from = startOffset
		}

		if k == endKey {
			to = endOffset
		}

		b = b.WithKey(document.GenerateKey())
		if from != 0 || to != b.Len() {
			b = b.WithContent(b.Text().Slice(from, to), b.Characters().Slice(from, to))
		}

		fragment = fragment.Set(b)
	}

	return fragment, nil
}

// InsertFragment inserts fragment at a collapsed selection. A single
// non-atomic block is spliced into the target block. Otherwise the target is
// split: its head absorbs the first fragment block and its tail absorbs the
// last one unless they are atomic, and interior blocks get fresh keys.
func InsertFragment(
	cs document.ContentState,
	sel document.SelectionState,
	fragment document.BlockMap,
) (document.ContentState, error) {
	if !sel.IsCollapsed() {
		return cs, fmt.Errorf("%w: fragment insertion requires a collapsed selection", document.ErrInvalidSelection)
	}

	if err := cs.ValidateSelection(sel); err != nil {
		return cs, err
	}

	first, ok := fragment.First()
	if !ok {
		return cs, ErrEmptyFragment
	}

	targetKey, offset := sel.StartKey(), sel.StartOffset()
	target, _ := cs.BlockForKey(targetKey)

	if fragment.Len() == 1 && !first.IsAtomic() {
		merged := target.WithContent(
			target.Text().Splice(offset, offset, first.Text()),
			target.Characters().Insert(offset, first.Characters()),
		).WithData(first.Data())

		after := sel.CollapseTo(targetKey, offset+first.Len())

		return cs.ChangeBlockForKey(targetKey, merged).WithSelections(sel, after), nil
	}

	emitted, after := splitWithFragment(target, offset, fragment)

	cs = cs.UpdateLevel(targetKey, func(level document.BlockMap) document.BlockMap {
		return spliceBlocks(level, targetKey, emitted)
	})

	return cs.WithSelections(sel, sel.CollapseTo(after.key, after.offset)), nil
}

type point struct {
	key    string
	offset int
}

// splitWithFragment returns the blocks that replace target and the caret
// position at the junction with the tail.
func splitWithFragment(target document.Block, offset int, fragment document.BlockMap) ([]document.Block, point) {
	blocks := fragment.Blocks()
	first, last := blocks[0], blocks[len(blocks)-1]
	size := target.Len()

	headText := target.Text().Slice(0, offset)
	headChars := target.Characters().Slice(0, offset)
	tailText := target.Text().Slice(offset, size)
	tailChars := target.Characters().Slice(offset, size)

	var emitted []document.Block

	if first.IsAtomic() {
		if headText.Len() > 0 {
			emitted = append(emitted, target.WithContent(headText, headChars))
		}
	} else {
		head := target.WithContent(
			textutil.Concat(headText, first.Text()),
			headChars.Concat(first.Characters()),
		).WithData(first.Data())

		if headText.Len() == 0 {
			head = head.WithType(first.Type())
		}

		emitted = append(emitted, head)
	}

	from, to := 1, len(blocks)-1
	if first.IsAtomic() {
		from = 0
	}

	if last.IsAtomic() {
		to = len(blocks)
	}

	for _, b := range blocks[from:max(from, to)] {
		emitted = append(emitted, b.WithKey(document.GenerateKey()))
	}

	finalKey := document.GenerateKey()

	if !last.IsAtomic() {
		tail := last.WithKey(finalKey).WithContent(
			textutil.Concat(last.Text(), tailText),
			last.Characters().Concat(tailChars),
		)

		return append(emitted, tail), point{finalKey, last.Len()}
	}

	if tailText.Len() > 0 {
		tail := target.WithKey(finalKey).WithContent(tailText, tailChars)

		return append(emitted, tail), point{finalKey, 0}
	}

	lastEmitted := emitted[len(emitted)-1]

	return emitted, point{lastEmitted.Key(), lastEmitted.Len()}
}

// spliceBlocks replaces key in level with blocks, keeping their order.
func spliceBlocks(level document.BlockMap, key string, blocks []document.Block) document.BlockMap {
	prev, hasPrev := level.KeyBefore(key)
	next, hasNext := level.KeyAfter(key)
	level = level.Delete(key)

	for _, b := range blocks {
		switch {
		case hasPrev:
			level = level.InsertAfter(prev, b)
			prev = b.Key()
		case hasNext:
			level = level.InsertBefore(next, b)
		default:
			level = level.Set(b)
		}
	}

	return level
}

// ReplaceWithFragment removes sel and inserts fragment where it was.
func ReplaceWithFragment(
	cs document.ContentState,
	sel document.SelectionState,
	fragment document.BlockMap,
) (document.ContentState, error) {
	if err := cs.ValidateSelection(sel); err != nil {
		return cs, err
	}

	stripped, err := removeEntitiesAtEdges(cs, sel)
	if err != nil {
		return cs, err
	}

	removed, err := RemoveRange(stripped, sel)
	if err != nil {
		return cs, err
	}

	target := removed.SelectionAfter()
	if start, _ := stripped.BlockForKey(sel.StartKey()); sel.IsCollapsed() && !start.IsAtomic() {
		target = sel
	}

	out, err := InsertFragment(removed, target, fragment)
	if err != nil {
		return cs, err
	}

	return out.WithSelections(sel, out.SelectionAfter()), nil
}
