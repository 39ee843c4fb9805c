package treap

import (
	"cmp"
	"iter"
)

type mapNode[K cmp.Ordered, V any] struct {
	left, right *mapNode[K, V]
	key         K
	value       V
	size        int
	priority    uint64
}

func (n *mapNode[K, V]) clone() *mapNode[K, V] {
	c := *n

	return &c
}

func (n *mapNode[K, V]) recalcSize() {
	n.size = 1 + mapSize(n.left) + mapSize(n.right)
}

func mapSize[K cmp.Ordered, V any](n *mapNode[K, V]) int {
	if n == nil {
		return 0
	}

	return n.size
}

// Map is an immutable map ordered by key. The zero value is an empty map.
type Map[K cmp.Ordered, V any] struct {
	root *mapNode[K, V]
}

// Len returns the number of entries.
func (m Map[K, V]) Len() int {
	return mapSize(m.root)
}

// Get returns the value for key.
func (m Map[K, V]) Get(key K) (V, bool) {
	nd := m.root

	for nd != nil {
		switch c := cmp.Compare(key, nd.key); {
		case c < 0:
			nd = nd.left
		case c > 0:
			nd = nd.right
		default:
			return nd.value, true
		}
	}

	var zero V

	return zero, false
}

// Has reports whether key is present.
func (m Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)

	return ok
}

// Set returns a map with key bound to value. Replacing an existing key copies
// only the search path; inserting splits and merges around the new node.
func (m Map[K, V]) Set(key K, value V) Map[K, V] {
	if replaced, ok := replaceKey(m.root, key, value); ok {
		return Map[K, V]{root: replaced}
	}

	left, right := splitMap(m.root, key)
	nd := &mapNode[K, V]{key: key, value: value, size: 1, priority: nextPriority()}

	return Map[K, V]{root: mergeMap(mergeMap(left, nd), right)}
}

// Delete returns a map without key.
func (m Map[K, V]) Delete(key K) Map[K, V] {
	if !m.Has(key) {
		return m
	}

	return Map[K, V]{root: deleteKey(m.root, key)}
}

// All yields entries in ascending key order.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		walkMap(m.root, yield)
	}
}

func replaceKey[K cmp.Ordered, V any](n *mapNode[K, V], key K, value V) (*mapNode[K, V], bool) {
	if n == nil {
		return nil, false
	}

	switch c := cmp.Compare(key, n.key); {
	case c < 0:
		child, ok := replaceKey(n.left, key, value)
		if !ok {
			return n, false
		}

		cl := n.clone()
		cl.left = child

		return cl, true
	case c > 0:
		child, ok := replaceKey(n.right, key, value)
		if !ok {
			return n, false
		}

		cl := n.clone()
		cl.right = child

		return cl, true
	default:
		cl := n.clone()
		cl.value = value

		return cl, true
	}
}

func deleteKey[K cmp.Ordered, V any](n *mapNode[K, V], key K) *mapNode[K, V] {
	switch c := cmp.Compare(key, n.key); {
	case c < 0:
		cl := n.clone()
		cl.left = deleteKey(n.left, key)
		cl.recalcSize()

		return cl
	case c > 0:
		cl := n.clone()
		cl.right = deleteKey(n.right, key)
		cl.recalcSize()

		return cl
	default:
		return mergeMap(n.left, n.right)
	}
}

// splitMap splits into keys < key and keys > key. key itself must be absent.
func splitMap[K cmp.Ordered, V any](n *mapNode[K, V], key K) (left, right *mapNode[K, V]) {
	if n == nil {
		return nil, nil
	}

	if cmp.Less(key, n.key) {
		l, r := splitMap(n.left, key)
		c := n.clone()
		c.left = r
		c.recalcSize()

		return l, c
	}

	l, r := splitMap(n.right, key)
	c := n.clone()
	c.right = l
	c.recalcSize()

	return c, r
}

func mergeMap[K cmp.Ordered, V any](l, r *mapNode[K, V]) *mapNode[K, V] {
	if l == nil {
		return r
	}

	if r == nil {
		return l
	}

	if l.priority >= r.priority {
		c := l.clone()
		c.right = mergeMap(l.right, r)
		c.recalcSize()

		return c
	}

	c := r.clone()
	c.left = mergeMap(l, r.left)
	c.recalcSize()

	return c
}

func walkMap[K cmp.Ordered, V any](n *mapNode[K, V], fn func(K, V) bool) bool {
	if n == nil {
		return true
	}

	if !walkMap(n.left, fn) {
		return false
	}

	if !fn(n.key, n.value) {
		return false
	}

	return walkMap(n.right, fn)
}
