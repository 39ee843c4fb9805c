package modifier

import (
	"github.com/Sumatoshi-tech/inkwell/pkg/document"
)

// MoveText cuts the text covered by removal and pastes it at target. The
// target is given against cs and is mapped onto the document as it looks
// after the cut, so targets after the removed span land on the same text.
func MoveText(cs document.ContentState, removal, target document.SelectionState) (document.ContentState, error) {
	fragment, err := GetFragment(cs, removal)
	if err != nil {
		return cs, err
	}

	removed, err := RemoveRange(cs, removal)
	if err != nil {
		return cs, err
	}

	_, keys, err := selectedKeys(cs, removal)
	if err != nil {
		return cs, err
	}

	mapper := pointMapper{
		removal: removal,
		keys:    make(map[string]struct{}, len(keys)),
		after:   removed.SelectionAfter(),
		removed: removed,
	}
	for _, k := range keys {
		mapper.keys[k] = struct{}{}
	}

	if start, _ := cs.BlockForKey(removal.StartKey()); start.IsAtomic() {
		mapper.atomicStart = true
	}

	adjusted := target
	adjusted.AnchorKey, adjusted.AnchorOffset = mapper.mapPoint(target.AnchorKey, target.AnchorOffset)
	adjusted.FocusKey, adjusted.FocusOffset = mapper.mapPoint(target.FocusKey, target.FocusOffset)

	out, err := ReplaceWithFragment(removed, adjusted, fragment)
	if err != nil {
		return cs, err
	}

	return out.WithSelections(removal, out.SelectionAfter()), nil
}

// pointMapper translates positions in the document before a RemoveRange
// into the document after it.
type pointMapper struct {
	removal     document.SelectionState
	keys        map[string]struct{}
	after       document.SelectionState
	removed     document.ContentState
	atomicStart bool
}

func (m pointMapper) mapPoint(key string, offset int) (string, int) {
	startKey, endKey := m.removal.StartKey(), m.removal.EndKey()
	startOffset, endOffset := m.removal.StartOffset(), m.removal.EndOffset()

	if m.removal.IsCollapsed() && !m.atomicStart {
		return key, offset
	}

	if _, touched := m.keys[key]; !touched {
		if _, ok := m.removed.BlockForKey(key); ok {
			return key, offset
		}

		return m.after.AnchorKey, m.after.AnchorOffset
	}

	if m.atomicStart {
		if key == endKey && key != startKey && offset >= endOffset {
			if _, ok := m.removed.BlockForKey(endKey); ok {
				return endKey, offset - endOffset
			}
		}

		return m.after.AnchorKey, m.after.AnchorOffset
	}

	switch {
	case key == startKey && offset <= startOffset:
		return key, offset
	case key == endKey && offset >= endOffset:
		return startKey, startOffset + offset - endOffset
	default:
		return startKey, startOffset
	}
}
