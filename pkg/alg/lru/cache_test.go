package lru_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/inkwell/pkg/alg/lru"
)

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	cache := lru.New[string, int](3)

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)

	_, ok := cache.Get("a")
	require.True(t, ok)

	cache.Put("d", 4)

	_, ok = cache.Get("b")
	assert.False(t, ok)

	for _, key := range []string{"a", "c", "d"} {
		_, ok = cache.Get(key)
		assert.True(t, ok, key)
	}

	stats := cache.Stats()
	assert.Equal(t, lru.Stats{Hits: 4, Misses: 1, Evictions: 1, Entries: 3, MaxEntries: 3}, stats)
}

func TestCache_GetOrPutKeepsFirstValue(t *testing.T) {
	t.Parallel()

	cache := lru.New[string, *int](8)
	first, second := 1, 2

	got, loaded := cache.GetOrPut("BOLD|", &first)
	assert.False(t, loaded)
	assert.Same(t, &first, got)

	got, loaded = cache.GetOrPut("BOLD|", &second)
	assert.True(t, loaded)
	assert.Same(t, &first, got)
}

func TestCache_PutReplacesAndRemove(t *testing.T) {
	t.Parallel()

	cache := lru.New[string, string](2)

	cache.Put("k", "old")
	cache.Put("k", "new")
	assert.Equal(t, 1, cache.Len())

	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", got)

	assert.True(t, cache.Remove("k"))
	assert.False(t, cache.Remove("k"))
	assert.Zero(t, cache.Len())
	assert.Zero(t, cache.Stats().Evictions)
}

func TestNew_RejectsNonPositiveLimit(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { lru.New[string, int](0) })
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	const (
		workers = 32
		perWork = 200
		limit   = 64
	)

	cache := lru.New[string, int](limit)

	var wg sync.WaitGroup

	for w := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range perWork {
				cache.GetOrPut(strconv.Itoa(w*perWork+i), i)
				cache.Get(strconv.Itoa(i))
			}
		}()
	}

	wg.Wait()

	stats := cache.Stats()
	assert.LessOrEqual(t, cache.Len(), limit)
	assert.Equal(t, int64(workers*perWork*2), stats.Hits+stats.Misses)
}
