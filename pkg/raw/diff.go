package raw

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffStatus classifies a block in a document comparison.
type DiffStatus string

// Diff statuses.
const (
	DiffAdded   DiffStatus = "added"
	DiffRemoved DiffStatus = "removed"
	DiffChanged DiffStatus = "changed"
)

// BlockDiff describes how one block differs between two documents.
type BlockDiff struct {
	Key    string
	Status DiffStatus
	Diffs  []diffmatchpatch.Diff
}

// Inserted counts inserted runes in the text diff.
func (d BlockDiff) Inserted() int { return countRunes(d.Diffs, diffmatchpatch.DiffInsert) }

// Deleted counts deleted runes in the text diff.
func (d BlockDiff) Deleted() int { return countRunes(d.Diffs, diffmatchpatch.DiffDelete) }

func countRunes(diffs []diffmatchpatch.Diff, op diffmatchpatch.Operation) int {
	n := 0

	for _, d := range diffs {
		if d.Type == op {
			n += len([]rune(d.Text))
		}
	}

	return n
}

// DiffBlocks compares two documents block by block, matching blocks by key
// across all nesting levels. Blocks whose text and type are unchanged are
// omitted. Results follow the order of a, then blocks only present in b.
func DiffBlocks(a, b *Document) []BlockDiff {
	dmp := diffmatchpatch.New()

	after := make(map[string]Block)
	b.Walk(func(blk Block, _ int) { after[blk.Key] = blk })

	seen := make(map[string]bool, len(after))

	var out []BlockDiff

	a.Walk(func(blk Block, _ int) {
		seen[blk.Key] = true

		next, ok := after[blk.Key]
		if !ok {
			out = append(out, BlockDiff{
				Key:    blk.Key,
				Status: DiffRemoved,
				Diffs:  []diffmatchpatch.Diff{{Type: diffmatchpatch.DiffDelete, Text: blk.Text}},
			})

			return
		}

		if next.Text == blk.Text && next.Type == blk.Type {
			return
		}

		diffs := dmp.DiffMain(blk.Text, next.Text, false)
		out = append(out, BlockDiff{Key: blk.Key, Status: DiffChanged, Diffs: dmp.DiffCleanupSemantic(diffs)})
	})

	b.Walk(func(blk Block, _ int) {
		if seen[blk.Key] {
			return
		}

		out = append(out, BlockDiff{
			Key:    blk.Key,
			Status: DiffAdded,
			Diffs:  []diffmatchpatch.Diff{{Type: diffmatchpatch.DiffInsert, Text: blk.Text}},
		})
	})

	return out
}
