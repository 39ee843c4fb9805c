package raw

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/Sumatoshi-tech/inkwell/pkg/alg/treap"
	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/entity"
	"github.com/Sumatoshi-tech/inkwell/pkg/textutil"
)

// Decode rebuilds a ContentState from doc, creating its entities in store
// first. A nil store gets a fresh one. Missing block keys are generated,
// missing types default to unstyled and entity ranges that name an ordinal
// absent from the entity map are dropped.
func Decode(doc Document, store *entity.Store) (document.ContentState, error) {
	if len(doc.Blocks) == 0 {
		return document.ContentState{}, fmt.Errorf("%w: no blocks", ErrInvalidDocument)
	}

	if store == nil {
		store = entity.NewStore()
	}

	local, err := createEntities(doc.EntityMap, store)
	if err != nil {
		return document.ContentState{}, err
	}

	dec := decoder{local: local}

	blocks, err := dec.blocks(doc.Blocks)
	if err != nil {
		return document.ContentState{}, err
	}

	return document.FromBlockMap(store, document.NewBlockMap(blocks...)), nil
}

// createEntities registers entities in ordinal order so key allocation is
// deterministic for a given document.
func createEntities(entityMap map[string]Entity, store *entity.Store) (map[int]entity.Key, error) {
	type ordered struct {
		ordinal int
		ent     Entity
	}

	entries := make([]ordered, 0, len(entityMap))

	for name, ent := range entityMap {
		ord, err := strconv.Atoi(name)
		if err != nil {
			return nil, fmt.Errorf("%w: entity map key %q", ErrInvalidDocument, name)
		}

		entries = append(entries, ordered{ordinal: ord, ent: ent})
	}

	slices.SortFunc(entries, func(a, b ordered) int { return cmp.Compare(a.ordinal, b.ordinal) })

	local := make(map[int]entity.Key, len(entries))

	for _, e := range entries {
		mut, err := entity.ParseMutability(e.ent.Mutability)
		if err != nil {
			return nil, fmt.Errorf("%w: entity %d: %w", ErrInvalidDocument, e.ordinal, err)
		}

		local[e.ordinal] = store.Create(e.ent.Type, mut, maps.Clone(e.ent.Data))
	}

	return local, nil
}

type decoder struct {
	local map[int]entity.Key
}

func (d decoder) blocks(raws []Block) ([]document.Block, error) {
	out := make([]document.Block, 0, len(raws))

	for i, rb := range raws {
		b, err := d.block(rb)
		if err != nil {
			return nil, fmt.Errorf("block %d (%q): %w", i, rb.Key, err)
		}

		out = append(out, b)
	}

	return out, nil
}

func (d decoder) block(rb Block) (document.Block, error) {
	if rb.Depth < 0 {
		return document.Block{}, fmt.Errorf("%w: negative depth %d", ErrInvalidDocument, rb.Depth)
	}

	key := rb.Key
	if key == "" {
		key = document.GenerateKey()
	}

	typ := rb.Type
	if typ == "" {
		typ = document.TypeUnstyled
	}

	text := textutil.FromString(rb.Text)
	styles := make([]document.StyleSet, text.Len())
	ents := make([]document.EntitySet, text.Len())

	for _, sr := range rb.InlineStyleRanges {
		start, end, err := unitSpan(text, sr.Offset, sr.Length)
		if err != nil {
			return document.Block{}, fmt.Errorf("style %q: %w", sr.Style, err)
		}

		for i := start; i < end; i++ {
			styles[i] = styles[i].Add(sr.Style)
		}
	}

	for _, er := range rb.EntityRanges {
		keys := d.keys(er)
		if len(keys) == 0 {
			continue
		}

		start, end, err := unitSpan(text, er.Offset, er.Length)
		if err != nil {
			return document.Block{}, fmt.Errorf("entity range: %w", err)
		}

		for i := start; i < end; i++ {
			for _, k := range keys {
				ents[i] = ents[i].Add(k)
			}
		}
	}

	chars := make([]*document.CharacterMetadata, text.Len())
	for i := range chars {
		chars[i] = document.NewMetadata(styles[i], ents[i])
	}

	b := document.NewBlock(key, typ, "").
		WithContent(text, treap.FromSlice(chars)).
		WithParentKey(rb.ParentKey).
		WithDepth(rb.Depth).
		WithData(document.NewData(rb.Data)).
		WithMarkers(rb.Markers)

	if len(rb.ChildBlockMap) > 0 {
		children, err := d.blocks(rb.ChildBlockMap)
		if err != nil {
			return document.Block{}, err
		}

		b = b.WithChildren(document.NewBlockMap(children...))
	}

	return b, nil
}

// keys resolves the ordinals of er to store keys, dropping unknown ones.
func (d decoder) keys(er EntityRange) []entity.Key {
	ordinals := er.KeySet
	if len(ordinals) == 0 && er.Key != nil {
		ordinals = []int{*er.Key}
	}

	out := make([]entity.Key, 0, len(ordinals))

	for _, ord := range ordinals {
		if key, ok := d.local[ord]; ok {
			out = append(out, key)
		}
	}

	return out
}

// unitSpan converts a code-point span to UTF-16 unit offsets.
func unitSpan(text textutil.UTF16, offset, length int) (int, int, error) {
	if offset < 0 || length < 0 || offset+length > text.CodePointLen() {
		return 0, 0, fmt.Errorf("%w: range [%d,+%d) outside text of %d code points",
			ErrInvalidDocument, offset, length, text.CodePointLen())
	}

	return text.CodePointToUnit(offset), text.CodePointToUnit(offset + length), nil
}
