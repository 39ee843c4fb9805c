package modifier

import "github.com/Sumatoshi-tech/inkwell/pkg/document"

// SetBlockType changes the type of every block from the selection start
// through its end.
func SetBlockType(cs document.ContentState, sel document.SelectionState, typ string) (document.ContentState, error) {
	return mapBlocks(cs, sel, func(b document.Block) document.Block { return b.WithType(typ) })
}

// SetBlockData replaces the data of every selected block.
func SetBlockData(cs document.ContentState, sel document.SelectionState, data document.Data) (document.ContentState, error) {
	return mapBlocks(cs, sel, func(b document.Block) document.Block { return b.WithData(data) })
}

// MergeBlockData merges data into every selected block.
func MergeBlockData(cs document.ContentState, sel document.SelectionState, data document.Data) (document.ContentState, error) {
	return mapBlocks(cs, sel, func(b document.Block) document.Block { return b.WithData(b.Data().Merge(data)) })
}

func mapBlocks(
	cs document.ContentState,
	sel document.SelectionState,
	fn func(document.Block) document.Block,
) (document.ContentState, error) {
	if err := cs.ValidateSelection(sel); err != nil {
		return cs, err
	}

	level, keys, err := selectedKeys(cs, sel)
	if err != nil {
		return cs, err
	}

	for _, k := range keys {
		b, _ := level.Get(k)
		level = level.Set(fn(b))
	}

	out := cs.UpdateLevel(sel.StartKey(), func(document.BlockMap) document.BlockMap { return level })

	return out.WithSelections(sel, sel), nil
}
