package orderedmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abc() Map[string, int] {
	return FromPairs(
		Pair[string, int]{Key: "a", Value: 1},
		Pair[string, int]{Key: "b", Value: 2},
		Pair[string, int]{Key: "c", Value: 3},
	)
}

func TestMap_OrderAndNeighbours(t *testing.T) {
	t.Parallel()

	m := abc()
	require.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	assert.Equal(t, []int{1, 2, 3}, m.Values())

	first, _ := m.First()
	last, _ := m.Last()
	assert.Equal(t, "a", first)
	assert.Equal(t, "c", last)

	after, ok := m.KeyAfter("a")
	assert.True(t, ok)
	assert.Equal(t, "b", after)

	_, ok = m.KeyAfter("c")
	assert.False(t, ok)

	before, ok := m.KeyBefore("b")
	assert.True(t, ok)
	assert.Equal(t, "a", before)

	_, ok = m.KeyBefore("a")
	assert.False(t, ok)
}

func TestMap_SetKeepsPosition(t *testing.T) {
	t.Parallel()

	m := abc().Set("a", 100)

	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	assert.Equal(t, []int{100, 2, 3}, m.Values())
}

func TestMap_InsertAfterBefore(t *testing.T) {
	t.Parallel()

	m := abc()

	assert.Equal(t, []string{"a", "x", "b", "c"}, m.InsertAfter("a", "x", 0).Keys())
	assert.Equal(t, []string{"a", "b", "c", "x"}, m.InsertAfter("c", "x", 0).Keys())
	assert.Equal(t, []string{"x", "a", "b", "c"}, m.InsertBefore("a", "x", 0).Keys())
	assert.Equal(t, []string{"a", "b", "x", "c"}, m.InsertBefore("c", "x", 0).Keys())
	assert.Equal(t, []string{"b", "c", "a"}, m.InsertAfter("c", "a", 1).Keys())
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys(), "original untouched")
}

func TestMap_Delete(t *testing.T) {
	t.Parallel()

	m := abc()

	assert.Equal(t, []string{"b", "c"}, m.Delete("a").Keys())
	assert.Equal(t, []string{"a", "c"}, m.Delete("b").Keys())
	assert.Equal(t, []string{"a", "b"}, m.Delete("c").Keys())
	assert.Empty(t, m.Delete("a").Delete("b").Delete("c").Keys())

	last, _ := m.Delete("c").Last()
	assert.Equal(t, "b", last)

	empty := m.Delete("a").Delete("b").Delete("c")
	_, ok := empty.First()
	assert.False(t, ok)
	assert.Equal(t, []string{"z"}, empty.Set("z", 1).Keys())
}

func TestMap_Between(t *testing.T) {
	t.Parallel()

	m := abc().Set("d", 4)

	var keys []string
	for k := range m.Between("b", "c") {
		keys = append(keys, k)
	}

	assert.Equal(t, []string{"b", "c"}, keys)

	keys = keys[:0]
	for k := range m.Between("missing", "c") {
		keys = append(keys, k)
	}

	assert.Empty(t, keys)
}
