package treap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_SetGetDelete(t *testing.T) {
	t.Parallel()

	var m Map[string, int]

	m1 := m.Set("b", 2).Set("a", 1).Set("c", 3)
	require.Equal(t, 3, m1.Len())

	v, ok := m1.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	m2 := m1.Set("a", 10)
	v, _ = m2.Get("a")
	assert.Equal(t, 10, v)
	v, _ = m1.Get("a")
	assert.Equal(t, 1, v, "older version must be untouched")

	m3 := m2.Delete("b")
	assert.False(t, m3.Has("b"))
	assert.True(t, m2.Has("b"))
	assert.Equal(t, 2, m3.Len())
	assert.Equal(t, m3, m3.Delete("missing"))
}

func TestMap_AllIsOrdered(t *testing.T) {
	t.Parallel()

	var m Map[string, int]
	for i := range testListSize {
		m = m.Set(fmt.Sprintf("k%03d", testListSize-i), i)
	}

	var keys []string
	for k := range m.All() {
		keys = append(keys, k)
	}

	require.Len(t, keys, testListSize)
	assert.IsIncreasing(t, keys)
}
