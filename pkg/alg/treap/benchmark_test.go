package treap

import "testing"

const benchListSize = 100_000

func BenchmarkList_Insert(b *testing.B) {
	l := FromSlice(rangeSlice(benchListSize))
	one := FromSlice([]int{1})

	b.ResetTimer()

	for i := range b.N {
		_ = l.Insert(i%benchListSize, one)
	}
}

func BenchmarkList_Set(b *testing.B) {
	l := FromSlice(rangeSlice(benchListSize))

	b.ResetTimer()

	for i := range b.N {
		_ = l.Set(i%benchListSize, i)
	}
}

func BenchmarkMap_Set(b *testing.B) {
	var m Map[int, int]

	for i := range b.N {
		m = m.Set(i, i)
	}
}
