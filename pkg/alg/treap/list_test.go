package treap

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants.
const (
	testListSize    = 100
	testOracleSteps = 2000
	testSeed        = 42
)

func rangeSlice(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

func TestList_Empty(t *testing.T) {
	t.Parallel()

	var l List[int]

	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.ToSlice())

	_, ok := l.First()
	assert.False(t, ok)

	assert.Equal(t, 0, l.Shift().Len())
	assert.Equal(t, 0, l.Pop().Len())
}

func TestList_FromSliceAt(t *testing.T) {
	t.Parallel()

	l := FromSlice(rangeSlice(testListSize))
	require.Equal(t, testListSize, l.Len())

	for i := range testListSize {
		assert.Equal(t, i, l.At(i))
	}

	assert.Equal(t, rangeSlice(testListSize), l.ToSlice())
}

func TestList_AtPanicsOutOfRange(t *testing.T) {
	t.Parallel()

	l := FromSlice([]int{1})

	assert.Panics(t, func() { l.At(1) })
	assert.Panics(t, func() { l.At(-1) })
}

func TestList_SetIsPersistent(t *testing.T) {
	t.Parallel()

	orig := FromSlice([]string{"a", "b", "c"})
	next := orig.Set(1, "B")

	assert.Equal(t, []string{"a", "b", "c"}, orig.ToSlice())
	assert.Equal(t, []string{"a", "B", "c"}, next.ToSlice())
}

func TestList_SliceInsertRemove(t *testing.T) {
	t.Parallel()

	l := FromSlice([]int{0, 1, 2, 3, 4, 5})

	assert.Equal(t, []int{2, 3}, l.Slice(2, 4).ToSlice())
	assert.Equal(t, []int{0, 1, 9, 9, 2, 3, 4, 5}, l.Insert(2, Repeat(9, 2)).ToSlice())
	assert.Equal(t, []int{0, 4, 5}, l.Remove(1, 4).ToSlice())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, l.Append(6).ToSlice())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, l.ToSlice())
	assert.True(t, l.Slice(0, l.Len()).SharesRoot(l))
	assert.Equal(t, 0, l.Slice(4, 2).Len())
}

func TestList_ShiftPop(t *testing.T) {
	t.Parallel()

	l := FromSlice([]int{1, 2, 3})

	assert.Equal(t, []int{2, 3}, l.Shift().ToSlice())
	assert.Equal(t, []int{1, 2}, l.Pop().ToSlice())
	assert.Equal(t, []int{1, 2, 3}, l.ToSlice())
}

func TestList_Update(t *testing.T) {
	t.Parallel()

	l := FromSlice([]int{1, 2, 3, 4})
	double := func(v int) int { return v * 2 }

	assert.Equal(t, []int{1, 4, 6, 4}, l.Update(1, 3, double).ToSlice())
	assert.Equal(t, []int{1, 2, 3, 4}, l.ToSlice())
}

func TestList_Iterators(t *testing.T) {
	t.Parallel()

	l := FromSlice([]int{5, 6, 7})

	assert.Equal(t, []int{5, 6, 7}, slices.Collect(l.Values()))

	var idxs []int
	for i, v := range l.All() {
		idxs = append(idxs, i)

		if v == 6 {
			break
		}
	}

	assert.Equal(t, []int{0, 1}, idxs)
}

// TestList_Oracle runs random splices against a plain slice.
func TestList_Oracle(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(testSeed, testSeed))
	oracle := rangeSlice(testListSize)
	l := FromSlice(oracle)

	for step := range testOracleSteps {
		switch rng.IntN(4) {
		case 0:
			pos := rng.IntN(len(oracle) + 1)
			l = l.Insert(pos, FromSlice([]int{step}))
			oracle = slices.Insert(oracle, pos, step)
		case 1:
			if len(oracle) == 0 {
				continue
			}

			start := rng.IntN(len(oracle))
			end := start + rng.IntN(len(oracle)-start+1)
			l = l.Remove(start, end)
			oracle = slices.Delete(oracle, start, end)
		case 2:
			if len(oracle) == 0 {
				continue
			}

			idx := rng.IntN(len(oracle))
			l = l.Set(idx, -step)
			oracle[idx] = -step
		default:
			l = l.Shift().Pop()

			if len(oracle) > 0 {
				oracle = oracle[1:]
			}

			if len(oracle) > 0 {
				oracle = oracle[:len(oracle)-1]
			}
		}

		require.Equal(t, len(oracle), l.Len())
	}

	assert.Equal(t, oracle, l.ToSlice())
}
