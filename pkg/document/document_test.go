package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/inkwell/pkg/alg/treap"
	"github.com/Sumatoshi-tech/inkwell/pkg/entity"
	"github.com/Sumatoshi-tech/inkwell/pkg/textutil"
)

func TestMetadata_Interning(t *testing.T) {
	t.Parallel()

	bold := EmptyMetadata().WithStyle("BOLD")
	again := NewMetadata(NewStyleSet("BOLD"), EntitySet{})

	assert.Same(t, bold, again)
	assert.True(t, bold.Equal(again))
	assert.Same(t, EmptyMetadata(), bold.WithoutStyle("BOLD"))
	assert.Same(t, bold, bold.WithStyle("BOLD"))

	detached := &CharacterMetadata{style: NewStyleSet("BOLD")}
	assert.True(t, bold.Equal(detached), "value fallback")
	assert.False(t, bold.Equal(EmptyMetadata()))
	assert.False(t, bold.Equal(nil))
}

func TestMetadata_Entities(t *testing.T) {
	t.Parallel()

	m := EmptyMetadata().WithEntity(7)
	assert.Equal(t, entity.Key(7), m.Entity())

	m = m.AddEntity(9).AddEntity(7)
	assert.Equal(t, []entity.Key{7, 9}, m.Entities().Keys())
	assert.Equal(t, entity.Key(7), m.Entity(), "first key has priority")

	m = m.RemoveEntity(7)
	assert.Equal(t, entity.Key(9), m.Entity())
	assert.Same(t, EmptyMetadata(), m.WithEntity(0))
}

func TestStyleSet(t *testing.T) {
	t.Parallel()

	s := NewStyleSet("ITALIC", "BOLD", "ITALIC")
	assert.Equal(t, []string{"BOLD", "ITALIC"}, s.Tags())
	assert.True(t, s.Has("BOLD"))
	assert.Equal(t, []string{"BOLD", "CODE", "ITALIC"}, s.Add("CODE").Tags())
	assert.Equal(t, []string{"ITALIC"}, s.Remove("BOLD").Tags())
	assert.Equal(t, []string{"BOLD", "ITALIC"}, s.Tags(), "source untouched")
	assert.True(t, s.Equal(NewStyleSet("BOLD", "ITALIC")))
}

func TestBlock_ContentInvariant(t *testing.T) {
	t.Parallel()

	b := NewBlock("a", TypeUnstyled, "Hello")
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, 5, b.Characters().Len())

	assert.Panics(t, func() {
		b.WithContent(textutil.FromString("Hi"), b.Characters())
	})

	b2 := b.WithCharacters(b.Characters().Set(0, EmptyMetadata().WithStyle("BOLD")))
	assert.True(t, b2.StyleAt(0).Has("BOLD"))
	assert.False(t, b.StyleAt(0).Has("BOLD"), "blocks are values")
}

func TestBlock_FindRanges(t *testing.T) {
	t.Parallel()

	bold := EmptyMetadata().WithStyle("BOLD")
	link := EmptyMetadata().WithEntity(3)
	chars := treap.FromSlice([]*CharacterMetadata{bold, bold, EmptyMetadata(), link, link})
	b := NewBlock("a", TypeUnstyled, "abcde").WithCharacters(chars)

	var styleRuns [][2]int

	b.FindStyleRanges(nil, func(s, e int) { styleRuns = append(styleRuns, [2]int{s, e}) })
	assert.Equal(t, [][2]int{{0, 2}, {2, 5}}, styleRuns)

	var entityRuns [][2]int

	b.FindEntityRanges(
		func(c *CharacterMetadata) bool { return c.Entity() != 0 },
		func(s, e int) { entityRuns = append(entityRuns, [2]int{s, e}) },
	)
	assert.Equal(t, [][2]int{{3, 5}}, entityRuns)
}

func TestData(t *testing.T) {
	t.Parallel()

	d := NewData(map[string]any{"b": 2, "a": 1})

	var keys []string
	for k := range d.All() {
		keys = append(keys, k)
	}

	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, map[string]any{"a": 1, "b": 2, "c": 3}, d.Merge(NewData(map[string]any{"c": 3})).Map())
	assert.Equal(t, 1, d.Delete("a").Len())
	assert.NotNil(t, Data{}.Map())
}

func TestSelection(t *testing.T) {
	t.Parallel()

	sel := SelectionState{AnchorKey: "b", AnchorOffset: 2, FocusKey: "a", FocusOffset: 1, IsBackward: true}
	assert.Equal(t, "a", sel.StartKey())
	assert.Equal(t, 1, sel.StartOffset())
	assert.Equal(t, "b", sel.EndKey())
	assert.Equal(t, 2, sel.EndOffset())
	assert.False(t, sel.IsCollapsed())

	c := sel.CollapseTo("c", 4)
	assert.True(t, c.IsCollapsed())
	assert.False(t, c.IsBackward)
	assert.Equal(t, "c:4..c:4", c.String())
}

func TestGenerateKey_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 1000 {
		k := GenerateKey()
		assert.NotEmpty(t, k)

		_, dup := seen[k]
		require.False(t, dup)

		seen[k] = struct{}{}
	}
}

func nestedState() ContentState {
	child := NewBlockMap(NewBlock("c1", TypeUnstyled, "child one"), NewBlock("c2", TypeUnstyled, "child two"))
	container := NewBlock("box", "container", "").WithChildren(child)

	return NewContentState(nil, NewBlock("a", TypeUnstyled, "Alpha"), container, NewBlock("z", TypeUnstyled, "Zulu"))
}

func TestContentState_NestedLookup(t *testing.T) {
	t.Parallel()

	cs := nestedState()

	b, ok := cs.BlockForKey("c2")
	require.True(t, ok)
	assert.Equal(t, "child two", b.String())

	next, ok := cs.KeyAfter("c1")
	require.True(t, ok)
	assert.Equal(t, "c2", next)

	_, ok = cs.KeyAfter("c2")
	assert.False(t, ok, "neighbours stay within a level")

	prev, _ := cs.KeyBefore("box")
	assert.Equal(t, "a", prev)

	assert.Equal(t, Collapsed("a", 0), cs.SelectionAfter())
}

func TestContentState_Walk(t *testing.T) {
	t.Parallel()

	var visited []string

	for level, b := range nestedState().Walk() {
		visited = append(visited, fmt.Sprintf("%d:%s", level, b.Key()))
	}

	assert.Equal(t, []string{"0:a", "0:box", "1:c1", "1:c2", "0:z"}, visited)

	count := 0
	for range nestedState().Walk() {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(t, 2, count)
}

func TestContentState_ChangeBlockForKey_Nested(t *testing.T) {
	t.Parallel()

	cs := nestedState()
	c1, _ := cs.BlockForKey("c1")

	changed := cs.ChangeBlockForKey("c1", c1.WithType("header-one"))

	got, _ := changed.BlockForKey("c1")
	assert.Equal(t, "header-one", got.Type())

	orig, _ := cs.BlockForKey("c1")
	assert.Equal(t, TypeUnstyled, orig.Type(), "prior snapshot untouched")

	assert.Equal(t, []string{"a", "box", "z"}, changed.BlockMap().Keys())
}

func TestContentState_ApplyToAllBlockMaps(t *testing.T) {
	t.Parallel()

	cs := nestedState()

	var levels int

	out := cs.ApplyToAllBlockMaps(func(bm BlockMap) BlockMap {
		levels++

		for _, b := range bm.All() {
			bm = bm.Set(b.WithDepth(1))
		}

		return bm
	})

	assert.Equal(t, 2, levels)

	c2, _ := out.BlockForKey("c2")
	assert.Equal(t, 1, c2.Depth())

	z, _ := out.BlockForKey("z")
	assert.Equal(t, 1, z.Depth())
}

func TestContentState_ValidateSelection(t *testing.T) {
	t.Parallel()

	cs := nestedState()

	require.NoError(t, cs.ValidateSelection(Range("a", 0, "c1", 9)))
	require.ErrorIs(t, cs.ValidateSelection(Collapsed("nope", 0)), ErrBlockNotFound)
	require.ErrorIs(t, cs.ValidateSelection(Collapsed("a", 6)), ErrOffsetOutOfRange)
	require.ErrorIs(t, cs.ValidateSelection(Collapsed("a", -1)), ErrOffsetOutOfRange)
}

func TestBlockMap_Containers(t *testing.T) {
	t.Parallel()

	cs := nestedState()
	bm := cs.BlockMap()

	var keys []string
	for c := range bm.Containers() {
		keys = append(keys, c.Key())
	}

	assert.Equal(t, []string{"box"}, keys)

	box, _ := bm.Get("box")
	bm = bm.Set(box.WithoutChildren())

	keys = keys[:0]
	for c := range bm.Containers() {
		keys = append(keys, c.Key())
	}

	assert.Empty(t, keys)
	assert.Equal(t, "Alpha|Zulu", NewContentState(nil, NewBlock("a", TypeUnstyled, "Alpha"), NewBlock("z", TypeUnstyled, "Zulu")).PlainText("|"))
}
