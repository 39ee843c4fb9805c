package raw

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/Sumatoshi-tech/inkwell/pkg/alg/runs"
	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/entity"
)

// Encode converts cs to its raw form. Entity keys become ordinals assigned in
// the order entities are first met while walking blocks.
func Encode(cs document.ContentState) (Document, error) {
	enc := encoder{ordinals: make(map[entity.Key]int)}

	blocks := enc.blocks(cs.BlockMap())

	entityMap := make(map[string]Entity, len(enc.order))

	for ord, key := range enc.order {
		ent, err := cs.Entity(key)
		if err != nil {
			return Document{}, fmt.Errorf("encode entity %s: %w", key, err)
		}

		data := ent.Data
		if data == nil {
			data = map[string]any{}
		}

		entityMap[strconv.Itoa(ord)] = Entity{
			Type:       ent.Type,
			Mutability: string(ent.Mutability),
			Data:       data,
		}
	}

	return Document{Blocks: blocks, EntityMap: entityMap}, nil
}

type encoder struct {
	ordinals map[entity.Key]int
	order    []entity.Key
}

func (e *encoder) ordinal(key entity.Key) int {
	if ord, ok := e.ordinals[key]; ok {
		return ord
	}

	ord := len(e.order)
	e.ordinals[key] = ord
	e.order = append(e.order, key)

	return ord
}

func (e *encoder) blocks(bm document.BlockMap) []Block {
	out := make([]Block, 0, bm.Len())

	for _, b := range bm.All() {
		out = append(out, e.block(b))
	}

	return out
}

func (e *encoder) block(b document.Block) Block {
	rb := Block{
		Key:               b.Key(),
		ParentKey:         b.ParentKey(),
		Type:              b.Type(),
		Text:              b.String(),
		Depth:             b.Depth(),
		InlineStyleRanges: styleRanges(b),
		EntityRanges:      e.entityRanges(b),
		Data:              b.Data().Map(),
		Markers:           b.Markers(),
		ChildBlockMap:     []Block{},
	}

	if rb.Markers == nil {
		rb.Markers = []string{}
	}

	if children, ok := b.Children(); ok {
		rb.ChildBlockMap = e.blocks(children)
	}

	return rb
}

// styleRanges emits, per style in tag order, every maximal run of characters
// carrying it.
func styleRanges(b document.Block) []StyleRange {
	var styles []string

	for c := range b.Characters().Values() {
		for _, tag := range c.Style().Tags() {
			if !slices.Contains(styles, tag) {
				styles = append(styles, tag)
			}
		}
	}

	slices.Sort(styles)

	text := b.Text()
	out := []StyleRange{}

	for _, style := range styles {
		has := func(c *document.CharacterMetadata) bool { return c.HasStyle(style) }
		same := func(a, c *document.CharacterMetadata) bool { return has(a) == has(c) }

		runs.Find(b.Characters().Values(), same, has, func(start, end int) {
			offset := text.UnitToCodePoint(start)
			out = append(out, StyleRange{
				Offset: offset,
				Length: text.UnitToCodePoint(end) - offset,
				Style:  style,
			})
		})
	}

	return out
}

func (e *encoder) entityRanges(b document.Block) []EntityRange {
	text := b.Text()
	out := []EntityRange{}

	b.FindEntityRanges(func(c *document.CharacterMetadata) bool {
		return c.Entities().Len() > 0
	}, func(start, end int) {
		keys := b.EntitiesAt(start).Keys()
		keySet := make([]int, len(keys))

		for i, key := range keys {
			keySet[i] = e.ordinal(key)
		}

		priority := keySet[0]
		offset := text.UnitToCodePoint(start)

		out = append(out, EntityRange{
			Offset: offset,
			Length: text.UnitToCodePoint(end) - offset,
			Key:    &priority,
			KeySet: keySet,
		})
	})

	return out
}
