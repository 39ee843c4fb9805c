// Package runs groups an ordered sequence into maximal contiguous runs of
// equivalent elements in a single left-to-right pass.
package runs

import "iter"

// Run is a half-open index range [Start, End).
type Run struct {
	Start int
	End   int
}

// Len returns the number of elements covered by the run.
func (r Run) Len() int {
	return r.End - r.Start
}

// Find walks seq once and calls found for every maximal run of elements
// that are eq to the run's first element. filter is evaluated once per run
// on the run's first element; a nil filter accepts every run.
// eq is called exactly once per element after the first.
func Find[T any](seq iter.Seq[T], eq func(a, b T) bool, filter func(T) bool, found func(start, end int)) {
	var (
		head   T
		cursor int
		idx    int
	)

	for item := range seq {
		if idx == 0 {
			head = item
			idx++

			continue
		}

		if !eq(head, item) {
			if filter == nil || filter(head) {
				found(cursor, idx)
			}

			head = item
			cursor = idx
		}

		idx++
	}

	if idx == 0 {
		return
	}

	if filter == nil || filter(head) {
		found(cursor, idx)
	}
}

// Collect is Find returning the accepted runs as a slice.
func Collect[T any](seq iter.Seq[T], eq func(a, b T) bool, filter func(T) bool) []Run {
	var out []Run

	Find(seq, eq, filter, func(start, end int) {
		out = append(out, Run{Start: start, End: end})
	})

	return out
}

// Equal is the default comparable equality predicate.
func Equal[T comparable](a, b T) bool {
	return a == b
}
