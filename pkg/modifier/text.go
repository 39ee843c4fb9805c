package modifier

import (
	"fmt"

	"github.com/Sumatoshi-tech/inkwell/pkg/alg/treap"
	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/textutil"
)

// InsertText splices text carrying meta into the block at a collapsed
// selection. Empty text returns cs unchanged. A nil meta means no styles and
// no entities.
func InsertText(
	cs document.ContentState,
	sel document.SelectionState,
	text string,
	meta *document.CharacterMetadata,
) (document.ContentState, error) {
	if !sel.IsCollapsed() {
		return cs, fmt.Errorf("%w: text insertion requires a collapsed selection", document.ErrInvalidSelection)
	}

	if err := cs.ValidateSelection(sel); err != nil {
		return cs, err
	}

	inserted := textutil.FromString(text)
	if inserted.Len() == 0 {
		return cs, nil
	}

	if meta == nil {
		meta = document.EmptyMetadata()
	}

	key, offset := sel.StartKey(), sel.StartOffset()
	b, _ := cs.BlockForKey(key)

	b = b.WithContent(
		b.Text().Splice(offset, offset, inserted),
		b.Characters().Insert(offset, treap.Repeat(meta, inserted.Len())),
	)

	next := offset + inserted.Len()

	return cs.ChangeBlockForKey(key, b).WithSelectionAfter(sel.WithOffsets(next, next)), nil
}
