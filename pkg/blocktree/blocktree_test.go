package blocktree

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/inkwell/pkg/decorator"
	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/modifier"
)

func hashtags() *decorator.Composite {
	return decorator.NewComposite(decorator.Component{
		Name:     "hashtag",
		Strategy: decorator.RegexpStrategy(regexp.MustCompile(`#\w+`)),
	})
}

func single(text string) (document.ContentState, document.Block) {
	b := document.NewBlock("a", document.TypeUnstyled, text)

	return document.NewContentState(nil, b), b
}

func styled(t *testing.T, cs document.ContentState, start, end int, style string) (document.ContentState, document.Block) {
	t.Helper()

	out, err := modifier.ApplyInlineStyle(cs, document.Range("a", start, "a", end), style)
	require.NoError(t, err)

	b, _ := out.BlockForKey("a")

	return out, b
}

func TestGenerate_EmptyBlock(t *testing.T) {
	t.Parallel()

	cs, b := single("")
	tree := Generate(cs, b, hashtags())

	require.Len(t, tree, 1)
	assert.Equal(t, Range{Leaves: []Leaf{{Start: 0, End: 0}}}, tree[0])
	assert.Equal(t, ".1", Fingerprint(tree))
}

func TestGenerate_StyleLeaves(t *testing.T) {
	t.Parallel()

	cs, _ := single("Hello World")
	cs, b := styled(t, cs, 0, 5, "BOLD")

	tree := Generate(cs, b, nil)

	require.Len(t, tree, 1)
	assert.Equal(t, 0, tree[0].Start)
	assert.Equal(t, 11, tree[0].End)
	assert.False(t, tree[0].Decorated)
	assert.Equal(t, []Leaf{{0, 5}, {5, 11}}, tree[0].Leaves)
	assert.Equal(t, ".2", Fingerprint(tree))
}

func TestGenerate_Decorated(t *testing.T) {
	t.Parallel()

	cs, b := single("hi #go now")
	tree := Generate(cs, b, hashtags())

	require.Len(t, tree, 3)
	assert.Equal(t, []Leaf{{0, 3}}, tree[0].Leaves)
	assert.True(t, tree[1].Decorated)
	assert.Equal(t, "0-0.0", tree[1].Key())
	assert.Equal(t, []Leaf{{3, 6}}, tree[1].Leaves)
	assert.Equal(t, []Leaf{{6, 10}}, tree[2].Leaves)
	assert.Equal(t, ".1-0-0.0.3.1-.1", Fingerprint(tree))
}

func TestGenerate_NestedDecorators(t *testing.T) {
	t.Parallel()

	cs, b := single("see http://x.io now")
	dec := decorator.NewComposite(
		decorator.Component{Name: "host", Strategy: decorator.RegexpStrategy(regexp.MustCompile(`x\.io`))},
		decorator.Component{Name: "link", Strategy: decorator.RegexpStrategy(regexp.MustCompile(`http://\S+`)), WrapLevel: 1},
	)

	tree := Generate(cs, b, dec)

	require.Len(t, tree, 3)

	link := tree[1]
	assert.Equal(t, "0-1.0", link.Key())
	require.Len(t, link.Children, 2)
	assert.Empty(t, link.Leaves)

	assert.False(t, link.Children[0].Decorated)
	assert.Equal(t, []Leaf{{4, 11}}, link.Children[0].Leaves)
	assert.Equal(t, "0-0.0", link.Children[1].Key())
	assert.Equal(t, []Leaf{{11, 15}}, link.Children[1].Leaves)

	assert.Equal(t, ".1-0-1.0.11.2-.1", Fingerprint(tree))
}

func TestGenerate_PartitionInvariant(t *testing.T) {
	t.Parallel()

	cs, _ := single("a #b c #dd e")
	cs, b := styled(t, cs, 1, 9, "ITALIC")

	var check func(ranges []Range, start, end int)

	check = func(ranges []Range, start, end int) {
		pos := start
		for _, r := range ranges {
			require.Equal(t, pos, r.Start)

			if len(r.Children) > 0 {
				check(r.Children, r.Start, r.End)
			} else {
				leafPos := r.Start
				for _, l := range r.Leaves {
					require.Equal(t, leafPos, l.Start)
					leafPos = l.End
				}

				require.Equal(t, r.End, leafPos)
			}

			pos = r.End
		}

		require.Equal(t, end, pos)
	}

	check(Generate(cs, b, hashtags()), 0, b.Len())
}

func TestFingerprint_StableAndSensitive(t *testing.T) {
	t.Parallel()

	dec := hashtags()
	cs, b := single("hi #go now")

	base := Fingerprint(Generate(cs, b, dec))
	assert.Equal(t, base, Fingerprint(Generate(cs, b, dec)), "stable across generations")

	styledCS, styledBlock := styled(t, cs, 7, 9, "BOLD")
	assert.NotEqual(t, base, Fingerprint(Generate(styledCS, styledBlock, dec)), "style boundary moved")

	movedCS, movedBlock := single("hi #gox now")
	assert.NotEqual(t, base, Fingerprint(Generate(movedCS, movedBlock, dec)), "decorator boundary moved")
}

func TestCache(t *testing.T) {
	t.Parallel()

	cache := NewCache(8, hashtags())
	cs, b := single("hi #go now")

	tree, changed := cache.Tree(cs, b)
	assert.True(t, changed)

	again, changed := cache.Tree(cs, b)
	assert.False(t, changed)
	assert.Equal(t, tree, again)

	sameShape, sameShapeBlock := single("yo #go now")
	_, changed = cache.Tree(sameShape, sameShapeBlock)
	assert.False(t, changed, "text changed but partition did not")

	restyled, restyledBlock := styled(t, sameShape, 0, 2, "BOLD")
	_, changed = cache.Tree(restyled, restyledBlock)
	assert.True(t, changed)

	cache.Forget("a")
	_, changed = cache.Tree(restyled, restyledBlock)
	assert.True(t, changed)

	assert.Positive(t, cache.Stats().Hits)
}
