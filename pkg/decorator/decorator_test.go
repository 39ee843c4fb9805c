package decorator

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/entity"
	"github.com/Sumatoshi-tech/inkwell/pkg/modifier"
)

func TestComposite_RegexpMatches(t *testing.T) {
	t.Parallel()

	b := document.NewBlock("a", document.TypeUnstyled, "hi #go and #rust")
	cs := document.NewContentState(nil, b)
	dec := NewComposite(Component{Name: "hashtag", Strategy: RegexpStrategy(regexp.MustCompile(`#\w+`))})

	paths := dec.Decorations(b, cs)
	require.Len(t, paths, b.Len())

	assert.Nil(t, paths[0])
	assert.Equal(t, Path{{Component: 0, Ordinal: 0}}, paths[3])
	assert.Equal(t, Path{{Component: 0, Ordinal: 0}}, paths[5])
	assert.Nil(t, paths[6])
	assert.Equal(t, Path{{Component: 0, Ordinal: 1}}, paths[11])
}

func TestComposite_WrapLevelOrdersOutermostFirst(t *testing.T) {
	t.Parallel()

	b := document.NewBlock("a", document.TypeUnstyled, "see http://x.io now")
	cs := document.NewContentState(nil, b)

	dec := NewComposite(
		Component{Name: "word", Strategy: RegexpStrategy(regexp.MustCompile(`x\.io`))},
		Component{Name: "link", Strategy: RegexpStrategy(regexp.MustCompile(`http://\S+`)), WrapLevel: 1},
	)

	paths := dec.Decorations(b, cs)

	assert.Equal(t, Path{{Component: 1, Ordinal: 0}}, paths[4])
	assert.Equal(t, Path{{Component: 1, Ordinal: 0}, {Component: 0, Ordinal: 0}}, paths[11])

	outer, ok := paths[11].At(0)
	require.True(t, ok)

	comp, ok := dec.Component(outer)
	require.True(t, ok)
	assert.Equal(t, "link", comp.Name)

	_, ok = paths[11].At(2)
	assert.False(t, ok)

	_, ok = dec.Component(Match{Component: 9})
	assert.False(t, ok)
	assert.Equal(t, "1.0", outer.String())
}

func TestRegexpStrategy_UTF16Offsets(t *testing.T) {
	t.Parallel()

	b := document.NewBlock("a", document.TypeUnstyled, "\U0001F600 #tag")
	cs := document.NewContentState(nil, b)

	var got [][2]int

	RegexpStrategy(regexp.MustCompile(`#\w+`))(b, cs, func(s, e int) { got = append(got, [2]int{s, e}) })

	assert.Equal(t, [][2]int{{3, 7}}, got)
}

func TestEntityTypeStrategy(t *testing.T) {
	t.Parallel()

	cs := document.NewContentState(nil, document.NewBlock("a", document.TypeUnstyled, "go to site now"))
	link := cs.Entities().Create("LINK", entity.Mutable, nil)
	other := cs.Entities().Create("MENTION", entity.Mutable, nil)

	cs, err := modifier.ApplyEntity(cs, document.Range("a", 6, "a", 10), link)
	require.NoError(t, err)

	cs, err = modifier.ApplyEntity(cs, document.Range("a", 0, "a", 2), other)
	require.NoError(t, err)

	b, _ := cs.BlockForKey("a")

	var got [][2]int

	EntityTypeStrategy("LINK")(b, cs, func(s, e int) { got = append(got, [2]int{s, e}) })

	assert.Equal(t, [][2]int{{6, 10}}, got)
}
