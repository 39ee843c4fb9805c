package modifier

import (
	"github.com/Sumatoshi-tech/inkwell/pkg/alg/runs"
	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/entity"
)

// ApplyEntity replaces the entity set of every covered character with key.
// A zero key clears entities.
func ApplyEntity(cs document.ContentState, sel document.SelectionState, key entity.Key) (document.ContentState, error) {
	return mapCharacters(cs, sel, func(c *document.CharacterMetadata) *document.CharacterMetadata {
		return c.WithEntity(key)
	})
}

// AddEntity appends key to the entity set of every covered character.
func AddEntity(cs document.ContentState, sel document.SelectionState, key entity.Key) (document.ContentState, error) {
	return mapCharacters(cs, sel, func(c *document.CharacterMetadata) *document.CharacterMetadata {
		return c.AddEntity(key)
	})
}

// RemoveEntity drops key from the entity set of every covered character.
func RemoveEntity(cs document.ContentState, sel document.SelectionState, key entity.Key) (document.ContentState, error) {
	return mapCharacters(cs, sel, func(c *document.CharacterMetadata) *document.CharacterMetadata {
		return c.RemoveEntity(key)
	})
}

// EntitySetForSelection returns the entity set new text typed at sel should
// inherit: the set at the insertion point when every entity in it is
// MUTABLE, otherwise the empty set.
func EntitySetForSelection(cs document.ContentState, sel document.SelectionState) (document.EntitySet, error) {
	if err := cs.ValidateSelection(sel); err != nil {
		return document.EntitySet{}, err
	}

	var set document.EntitySet

	if sel.IsCollapsed() {
		if sel.AnchorOffset == 0 {
			return set, nil
		}

		b, _ := cs.BlockForKey(sel.AnchorKey)
		set = b.EntitiesAt(sel.AnchorOffset - 1)
	} else {
		b, _ := cs.BlockForKey(sel.StartKey())
		set = b.EntitiesAt(sel.StartOffset())
	}

	for _, key := range set.Keys() {
		mut, err := cs.Entities().Mutability(key)
		if err != nil {
			return document.EntitySet{}, err
		}

		if mut != entity.Mutable {
			return document.EntitySet{}, nil
		}
	}

	return set, nil
}

// entityRanges returns the maximal runs of characters carrying key.
func entityRanges(b document.Block, key entity.Key) []runs.Run {
	has := func(c *document.CharacterMetadata) bool { return c.Entities().Has(key) }

	return runs.Collect(
		b.Characters().Values(),
		func(x, y *document.CharacterMetadata) bool { return has(x) == has(y) },
		has,
	)
}

// removeEntitiesAtEdges strips non-MUTABLE entities that a cut at either
// end of sel would split, so copied or removed text never carries a partial
// immutable entity.
func removeEntitiesAtEdges(cs document.ContentState, sel document.SelectionState) (document.ContentState, error) {
	start, err := blockAt(cs, sel.StartKey())
	if err != nil {
		return cs, err
	}

	updated, err := removeEntitiesAtOffset(cs.Entities(), start, sel.StartOffset())
	if err != nil {
		return cs, err
	}

	cs = cs.ChangeBlockForKey(start.Key(), updated)

	end, err := blockAt(cs, sel.EndKey())
	if err != nil {
		return cs, err
	}

	updated, err = removeEntitiesAtOffset(cs.Entities(), end, sel.EndOffset())
	if err != nil {
		return cs, err
	}

	return cs.ChangeBlockForKey(end.Key(), updated), nil
}

func removeEntitiesAtOffset(store *entity.Store, b document.Block, offset int) (document.Block, error) {
	if offset <= 0 || offset >= b.Len() {
		return b, nil
	}

	before := b.EntitiesAt(offset - 1)
	after := b.EntitiesAt(offset)

	for _, key := range after.Keys() {
		if !before.Has(key) {
			continue
		}

		mut, err := store.Mutability(key)
		if err != nil {
			return b, err
		}

		if mut == entity.Mutable {
			continue
		}

		for _, r := range entityRanges(b, key) {
			if r.Start <= offset && offset <= r.End {
				b = b.WithCharacters(b.Characters().Update(r.Start, r.End, func(c *document.CharacterMetadata) *document.CharacterMetadata {
					return c.RemoveEntity(key)
				}))
			}
		}
	}

	return b, nil
}
