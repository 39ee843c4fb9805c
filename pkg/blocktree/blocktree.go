// Package blocktree builds the render partition of a block: nested
// decorator ranges with inline-style leaves, plus a fingerprint that changes
// whenever the partition changes visibly.
package blocktree

import (
	"slices"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/inkwell/pkg/alg/runs"
	"github.com/Sumatoshi-tech/inkwell/pkg/decorator"
	"github.com/Sumatoshi-tech/inkwell/pkg/document"
)

const fingerprintDelimiter = "-"

// Leaf is a run of characters sharing one style set.
type Leaf struct {
	Start int
	End   int
}

// Range is a decorator range. It holds either style leaves or nested
// ranges; at every level the ranges partition their parent contiguously.
type Range struct {
	Start     int
	End       int
	Decorator decorator.Match
	Decorated bool
	Leaves    []Leaf
	Children  []Range
}

// Len returns the range length.
func (r Range) Len() int { return r.End - r.Start }

// Size returns the number of direct descendants.
func (r Range) Size() int { return len(r.Leaves) + len(r.Children) }

// Key returns the render key of the decorator that produced the range, or ""
// for undecorated ranges.
func (r Range) Key() string {
	if !r.Decorated {
		return ""
	}

	return "0-" + r.Decorator.String()
}

// Tree is the top-level partition of a block.
type Tree []Range

// Generate builds the tree for b. A nil dec leaves every character
// undecorated.
func Generate(cs document.ContentState, b document.Block, dec decorator.Decorator) Tree {
	n := b.Len()
	if n == 0 {
		return Tree{{Leaves: []Leaf{{}}}}
	}

	paths := make([]decorator.Path, n)
	if dec != nil {
		copy(paths, dec.Decorations(b, cs))
	}

	g := generator{chars: b.Characters().ToSlice()}
	ranges, _ := g.subtree(paths, 0, 0)

	return ranges
}

type generator struct {
	chars []*document.CharacterMetadata
}

// subtree partitions paths by their match at level. When the whole slice is
// one run with uniform matches below, a nested call returns leaves directly
// instead of wrapping them in another range.
func (g generator) subtree(paths []decorator.Path, level, offset int) ([]Range, []Leaf) {
	var (
		ranges []Range
		leaves []Leaf
	)

	runs.Find(slices.Values(paths), sameAt(level), nil, func(start, end int) {
		r := Range{Start: start + offset, End: end + offset}
		r.Decorator, r.Decorated = paths[start].At(level)

		if start == 0 && end == len(paths) && uniformAt(paths, level+1) {
			styled := g.leaves(r.Start, r.End)
			if level > 0 {
				leaves = styled

				return
			}

			r.Leaves = styled
		} else {
			r.Children, r.Leaves = g.subtree(paths[start:end], level+1, offset+start)
		}

		ranges = append(ranges, r)
	})

	return ranges, leaves
}

func (g generator) leaves(start, end int) []Leaf {
	var out []Leaf

	runs.Find(slices.Values(g.chars[start:end]), document.SameStyle, nil, func(s, e int) {
		out = append(out, Leaf{Start: s + start, End: e + start})
	})

	return out
}

func sameAt(level int) func(a, b decorator.Path) bool {
	return func(a, b decorator.Path) bool {
		ma, oka := a.At(level)
		mb, okb := b.At(level)

		return oka == okb && ma == mb
	}
}

func uniformAt(paths []decorator.Path, level int) bool {
	eq := sameAt(level)
	for _, p := range paths[1:] {
		if !eq(paths[0], p) {
			return false
		}
	}

	return true
}

// Fingerprint summarises the top level of t: per range the decorator key and
// length when decorated, then the number of direct descendants.
func Fingerprint(t Tree) string {
	parts := make([]string, len(t))

	for i, r := range t {
		var sb strings.Builder

		if r.Decorated {
			sb.WriteString(r.Key())
			sb.WriteByte('.')
			sb.WriteString(strconv.Itoa(r.Len()))
		}

		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(r.Size()))
		parts[i] = sb.String()
	}

	return strings.Join(parts, fingerprintDelimiter)
}
