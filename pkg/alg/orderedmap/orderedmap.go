// Package orderedmap provides a persistent insertion-ordered map. Entries are
// stored in a treap.Map keyed by K and chained into a doubly linked list, so
// lookup, neighbour lookup and splicing are O(log n) and iteration from any
// key costs O(log n) per step.
package orderedmap

import (
	"cmp"
	"iter"

	"github.com/Sumatoshi-tech/inkwell/pkg/alg/treap"
)

type entry[K cmp.Ordered, V any] struct {
	value   V
	prev    K
	next    K
	hasPrev bool
	hasNext bool
}

// Map is an immutable ordered map. The zero value is empty.
type Map[K cmp.Ordered, V any] struct {
	entries treap.Map[K, entry[K, V]]
	first   K
	last    K
}

// Pair is one key/value binding used for bulk construction.
type Pair[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// FromPairs builds a map preserving the order of pairs. Later duplicates
// replace the value but keep the first position.
func FromPairs[K cmp.Ordered, V any](pairs ...Pair[K, V]) Map[K, V] {
	var m Map[K, V]

	for _, p := range pairs {
		m = m.Set(p.Key, p.Value)
	}

	return m
}

// Len returns the number of entries.
func (m Map[K, V]) Len() int {
	return m.entries.Len()
}

// Get returns the value bound to key.
func (m Map[K, V]) Get(key K) (V, bool) {
	e, ok := m.entries.Get(key)

	return e.value, ok
}

// Has reports whether key is present.
func (m Map[K, V]) Has(key K) bool {
	return m.entries.Has(key)
}

// First returns the first key in order.
func (m Map[K, V]) First() (K, bool) {
	if m.Len() == 0 {
		var zero K

		return zero, false
	}

	return m.first, true
}

// Last returns the last key in order.
func (m Map[K, V]) Last() (K, bool) {
	if m.Len() == 0 {
		var zero K

		return zero, false
	}

	return m.last, true
}

// KeyAfter returns the key following key.
func (m Map[K, V]) KeyAfter(key K) (K, bool) {
	e, ok := m.entries.Get(key)
	if !ok || !e.hasNext {
		var zero K

		return zero, false
	}

	return e.next, true
}

// KeyBefore returns the key preceding key.
func (m Map[K, V]) KeyBefore(key K) (K, bool) {
	e, ok := m.entries.Get(key)
	if !ok || !e.hasPrev {
		var zero K

		return zero, false
	}

	return e.prev, true
}

// Set binds key to value. An existing key keeps its position; a new key is
// appended at the end.
func (m Map[K, V]) Set(key K, value V) Map[K, V] {
	if e, ok := m.entries.Get(key); ok {
		e.value = value
		m.entries = m.entries.Set(key, e)

		return m
	}

	if m.Len() == 0 {
		m.entries = m.entries.Set(key, entry[K, V]{value: value})
		m.first = key
		m.last = key

		return m
	}

	return m.InsertAfter(m.last, key, value)
}

// InsertAfter places a new key directly after anchor. If key already exists
// it is moved. A missing anchor appends at the end.
func (m Map[K, V]) InsertAfter(anchor, key K, value V) Map[K, V] {
	if m.Has(key) {
		m = m.Delete(key)
	}

	a, ok := m.entries.Get(anchor)
	if !ok {
		return m.Set(key, value)
	}

	e := entry[K, V]{value: value, prev: anchor, hasPrev: true, next: a.next, hasNext: a.hasNext}

	if a.hasNext {
		n, _ := m.entries.Get(a.next)
		n.prev = key
		m.entries = m.entries.Set(a.next, n)
	} else {
		m.last = key
	}

	a.next = key
	a.hasNext = true
	m.entries = m.entries.Set(anchor, a).Set(key, e)

	return m
}

// InsertBefore places a new key directly before anchor. If key already
// exists it is moved. A missing anchor appends at the end.
func (m Map[K, V]) InsertBefore(anchor, key K, value V) Map[K, V] {
	if m.Has(key) {
		m = m.Delete(key)
	}

	a, ok := m.entries.Get(anchor)
	if !ok {
		return m.Set(key, value)
	}

	if !a.hasPrev {
		e := entry[K, V]{value: value, next: anchor, hasNext: true}
		a.prev = key
		a.hasPrev = true
		m.entries = m.entries.Set(anchor, a).Set(key, e)
		m.first = key

		return m
	}

	return m.InsertAfter(a.prev, key, value)
}

// Delete removes key and relinks its neighbours.
func (m Map[K, V]) Delete(key K) Map[K, V] {
	e, ok := m.entries.Get(key)
	if !ok {
		return m
	}

	if e.hasPrev {
		p, _ := m.entries.Get(e.prev)
		p.next, p.hasNext = e.next, e.hasNext
		m.entries = m.entries.Set(e.prev, p)
	} else {
		m.first = e.next
	}

	if e.hasNext {
		n, _ := m.entries.Get(e.next)
		n.prev, n.hasPrev = e.prev, e.hasPrev
		m.entries = m.entries.Set(e.next, n)
	} else {
		m.last = e.prev
	}

	m.entries = m.entries.Delete(key)

	return m
}

// All yields entries in insertion order.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m.Len() == 0 {
			return
		}

		m.walk(m.first, yield)
	}
}

// From yields entries in order starting at key (inclusive). Nothing is
// yielded when key is absent.
func (m Map[K, V]) From(key K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if !m.Has(key) {
			return
		}

		m.walk(key, yield)
	}
}

// Between yields entries from start through end inclusive. If end is never
// reached iteration runs to the last entry.
func (m Map[K, V]) Between(start, end K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range m.From(start) {
			if !yield(k, v) || k == end {
				return
			}
		}
	}
}

// Keys returns all keys in order.
func (m Map[K, V]) Keys() []K {
	out := make([]K, 0, m.Len())
	for k := range m.All() {
		out = append(out, k)
	}

	return out
}

// Values returns all values in order.
func (m Map[K, V]) Values() []V {
	out := make([]V, 0, m.Len())
	for _, v := range m.All() {
		out = append(out, v)
	}

	return out
}

func (m Map[K, V]) walk(key K, yield func(K, V) bool) {
	for {
		e, ok := m.entries.Get(key)
		if !ok || !yield(key, e.value) || !e.hasNext {
			return
		}

		key = e.next
	}
}
