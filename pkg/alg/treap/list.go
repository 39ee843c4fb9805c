package treap

import (
	"fmt"
	"iter"
)

// listNode is one element. Position is implicit (size of the left subtree).
// Nodes are never mutated once reachable from a published List.
type listNode[T any] struct {
	left, right *listNode[T]
	value       T
	size        int
	priority    uint64
}

func (n *listNode[T]) clone() *listNode[T] {
	c := *n

	return &c
}

func (n *listNode[T]) recalcSize() {
	n.size = 1 + sizeOf(n.left) + sizeOf(n.right)
}

func sizeOf[T any](n *listNode[T]) int {
	if n == nil {
		return 0
	}

	return n.size
}

// List is an immutable sequence. The zero value is an empty list.
type List[T any] struct {
	root *listNode[T]
}

// FromSlice builds a list holding items in order in O(n).
func FromSlice[T any](items []T) List[T] {
	if len(items) == 0 {
		return List[T]{}
	}

	// Cartesian-tree construction: keep the right spine on a stack.
	stack := make([]*listNode[T], 0, len(items))

	for _, item := range items {
		nd := &listNode[T]{value: item, size: 1, priority: nextPriority()}

		var last *listNode[T]

		for len(stack) > 0 && stack[len(stack)-1].priority < nd.priority {
			last = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}

		nd.left = last

		if len(stack) > 0 {
			stack[len(stack)-1].right = nd
		}

		stack = append(stack, nd)
	}

	root := stack[0]
	fixSizes(root)

	return List[T]{root: root}
}

func fixSizes[T any](n *listNode[T]) int {
	if n == nil {
		return 0
	}

	n.size = 1 + fixSizes(n.left) + fixSizes(n.right)

	return n.size
}

// Repeat returns a list of count copies of value.
func Repeat[T any](value T, count int) List[T] {
	if count <= 0 {
		return List[T]{}
	}

	items := make([]T, count)
	for i := range items {
		items[i] = value
	}

	return FromSlice(items)
}

// Len returns the number of elements.
func (l List[T]) Len() int {
	return sizeOf(l.root)
}

// At returns the element at index idx. It panics when idx is out of range.
func (l List[T]) At(idx int) T {
	if idx < 0 || idx >= l.Len() {
		panic(fmt.Sprintf("treap: index %d out of range [0,%d)", idx, l.Len()))
	}

	nd := l.root

	for {
		leftSize := sizeOf(nd.left)

		switch {
		case idx < leftSize:
			nd = nd.left
		case idx == leftSize:
			return nd.value
		default:
			idx -= leftSize + 1
			nd = nd.right
		}
	}
}

// First returns the first element and whether the list is non-empty.
func (l List[T]) First() (T, bool) {
	if l.root == nil {
		var zero T

		return zero, false
	}

	return l.At(0), true
}

// Last returns the last element and whether the list is non-empty.
func (l List[T]) Last() (T, bool) {
	if l.root == nil {
		var zero T

		return zero, false
	}

	return l.At(l.Len() - 1), true
}

// Set returns a list with the element at idx replaced. Only the path from
// the root to idx is copied.
func (l List[T]) Set(idx int, value T) List[T] {
	if idx < 0 || idx >= l.Len() {
		panic(fmt.Sprintf("treap: index %d out of range [0,%d)", idx, l.Len()))
	}

	return List[T]{root: setAt(l.root, idx, value)}
}

func setAt[T any](n *listNode[T], idx int, value T) *listNode[T] {
	c := n.clone()
	leftSize := sizeOf(n.left)

	switch {
	case idx < leftSize:
		c.left = setAt(n.left, idx, value)
	case idx == leftSize:
		c.value = value
	default:
		c.right = setAt(n.right, idx-leftSize-1, value)
	}

	return c
}

// Update returns a list where every element in [start, end) is replaced by
// fn(element). The range is split out once and rebuilt.
func (l List[T]) Update(start, end int, fn func(T) T) List[T] {
	start, end = l.clamp(start, end)
	if start >= end {
		return l
	}

	left, rest := splitList(l.root, start)
	mid, right := splitList(rest, end-start)

	items := List[T]{root: mid}.ToSlice()
	for i := range items {
		items[i] = fn(items[i])
	}

	return List[T]{root: mergeList(left, mergeList(FromSlice(items).root, right))}
}

// Slice returns the sub-list [start, end). Indices are clamped.
func (l List[T]) Slice(start, end int) List[T] {
	start, end = l.clamp(start, end)
	if start >= end {
		return List[T]{}
	}

	if start == 0 && end == l.Len() {
		return l
	}

	_, rest := splitList(l.root, start)
	mid, _ := splitList(rest, end-start)

	return List[T]{root: mid}
}

// Concat returns l followed by other.
func (l List[T]) Concat(other List[T]) List[T] {
	return List[T]{root: mergeList(l.root, other.root)}
}

// Append returns l with values added at the end.
func (l List[T]) Append(values ...T) List[T] {
	return l.Concat(FromSlice(values))
}

// Insert splices other into l at pos.
func (l List[T]) Insert(pos int, other List[T]) List[T] {
	if pos < 0 || pos > l.Len() {
		panic(fmt.Sprintf("treap: insert position %d out of range [0,%d]", pos, l.Len()))
	}

	if other.root == nil {
		return l
	}

	left, right := splitList(l.root, pos)

	return List[T]{root: mergeList(left, mergeList(other.root, right))}
}

// Remove deletes [start, end).
func (l List[T]) Remove(start, end int) List[T] {
	start, end = l.clamp(start, end)
	if start >= end {
		return l
	}

	left, rest := splitList(l.root, start)
	_, right := splitList(rest, end-start)

	return List[T]{root: mergeList(left, right)}
}

// Shift drops the first element, copying only the left spine.
func (l List[T]) Shift() List[T] {
	if l.root == nil {
		return l
	}

	return List[T]{root: dropFirst(l.root)}
}

// Pop drops the last element, copying only the right spine.
func (l List[T]) Pop() List[T] {
	if l.root == nil {
		return l
	}

	return List[T]{root: dropLast(l.root)}
}

func dropFirst[T any](n *listNode[T]) *listNode[T] {
	if n.left == nil {
		return n.right
	}

	c := n.clone()
	c.left = dropFirst(n.left)
	c.recalcSize()

	return c
}

func dropLast[T any](n *listNode[T]) *listNode[T] {
	if n.right == nil {
		return n.left
	}

	c := n.clone()
	c.right = dropLast(n.right)
	c.recalcSize()

	return c
}

// All yields (index, element) pairs in order.
func (l List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		idx := 0
		walkList(l.root, func(v T) bool {
			ok := yield(idx, v)
			idx++

			return ok
		})
	}
}

// Values yields the elements in order.
func (l List[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		walkList(l.root, yield)
	}
}

// ToSlice returns the elements as a fresh slice.
func (l List[T]) ToSlice() []T {
	out := make([]T, 0, l.Len())
	walkList(l.root, func(v T) bool {
		out = append(out, v)

		return true
	})

	return out
}

// SharesRoot reports whether l and other are the same version.
func (l List[T]) SharesRoot(other List[T]) bool {
	return l.root == other.root
}

func (l List[T]) clamp(start, end int) (int, int) {
	size := l.Len()

	start = max(start, 0)
	end = min(end, size)

	return start, end
}

func walkList[T any](n *listNode[T], fn func(T) bool) bool {
	if n == nil {
		return true
	}

	if !walkList(n.left, fn) {
		return false
	}

	if !fn(n.value) {
		return false
	}

	return walkList(n.right, fn)
}

// splitList splits so left holds the first pos elements. Nodes on the split
// path are copied; everything else is shared.
func splitList[T any](n *listNode[T], pos int) (left, right *listNode[T]) {
	if n == nil {
		return nil, nil
	}

	leftSize := sizeOf(n.left)

	if pos <= leftSize {
		l, r := splitList(n.left, pos)
		c := n.clone()
		c.left = r
		c.recalcSize()

		return l, c
	}

	l, r := splitList(n.right, pos-leftSize-1)
	c := n.clone()
	c.right = l
	c.recalcSize()

	return c, r
}

func mergeList[T any](l, r *listNode[T]) *listNode[T] {
	if l == nil {
		return r
	}

	if r == nil {
		return l
	}

	if l.priority >= r.priority {
		c := l.clone()
		c.right = mergeList(l.right, r)
		c.recalcSize()

		return c
	}

	c := r.clone()
	c.left = mergeList(l, r.left)
	c.recalcSize()

	return c
}
