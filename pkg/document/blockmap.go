package document

import (
	"iter"

	"github.com/Sumatoshi-tech/inkwell/pkg/alg/orderedmap"
	"github.com/Sumatoshi-tech/inkwell/pkg/alg/treap"
)

// BlockMap is a persistent ordered map of blocks keyed by block key. It also
// tracks which blocks hold nested maps so recursive walks skip leaf blocks.
type BlockMap struct {
	blocks     orderedmap.Map[string, Block]
	containers treap.Map[string, struct{}]
}

// NewBlockMap builds a map preserving the order of blocks.
func NewBlockMap(blocks ...Block) BlockMap {
	var bm BlockMap
	for _, b := range blocks {
		bm = bm.Set(b)
	}

	return bm
}

// Len returns the number of blocks at this level.
func (bm BlockMap) Len() int { return bm.blocks.Len() }

// Get returns the block under key at this level.
func (bm BlockMap) Get(key string) (Block, bool) { return bm.blocks.Get(key) }

// Has reports whether key exists at this level.
func (bm BlockMap) Has(key string) bool { return bm.blocks.Has(key) }

// First returns the first block.
func (bm BlockMap) First() (Block, bool) {
	key, ok := bm.blocks.First()
	if !ok {
		return Block{}, false
	}

	return bm.Get(key)
}

// Last returns the last block.
func (bm BlockMap) Last() (Block, bool) {
	key, ok := bm.blocks.Last()
	if !ok {
		return Block{}, false
	}

	return bm.Get(key)
}

// KeyAfter returns the key following key.
func (bm BlockMap) KeyAfter(key string) (string, bool) { return bm.blocks.KeyAfter(key) }

// KeyBefore returns the key preceding key.
func (bm BlockMap) KeyBefore(key string) (string, bool) { return bm.blocks.KeyBefore(key) }

// Set stores b under its key. An existing key keeps its position; a new one
// is appended.
func (bm BlockMap) Set(b Block) BlockMap {
	bm.blocks = bm.blocks.Set(b.key, b)

	return bm.track(b)
}

// InsertAfter places b directly after anchor.
func (bm BlockMap) InsertAfter(anchor string, b Block) BlockMap {
	bm.blocks = bm.blocks.InsertAfter(anchor, b.key, b)

	return bm.track(b)
}

// InsertBefore places b directly before anchor.
func (bm BlockMap) InsertBefore(anchor string, b Block) BlockMap {
	bm.blocks = bm.blocks.InsertBefore(anchor, b.key, b)

	return bm.track(b)
}

// Delete removes key from this level.
func (bm BlockMap) Delete(key string) BlockMap {
	bm.blocks = bm.blocks.Delete(key)
	bm.containers = bm.containers.Delete(key)

	return bm
}

// All yields blocks in order.
func (bm BlockMap) All() iter.Seq2[string, Block] { return bm.blocks.All() }

// From yields blocks starting at key.
func (bm BlockMap) From(key string) iter.Seq2[string, Block] { return bm.blocks.From(key) }

// Between yields blocks from start through end inclusive.
func (bm BlockMap) Between(start, end string) iter.Seq2[string, Block] {
	return bm.blocks.Between(start, end)
}

// Keys returns block keys in order.
func (bm BlockMap) Keys() []string { return bm.blocks.Keys() }

// Blocks returns blocks in order.
func (bm BlockMap) Blocks() []Block { return bm.blocks.Values() }

// Containers yields the blocks at this level that hold nested maps, ordered
// by key.
func (bm BlockMap) Containers() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for key := range bm.containers.All() {
			b, ok := bm.blocks.Get(key)
			if ok && !yield(b) {
				return
			}
		}
	}
}

func (bm BlockMap) track(b Block) BlockMap {
	if b.HasChildren() {
		bm.containers = bm.containers.Set(b.key, struct{}{})
	} else if bm.containers.Has(b.key) {
		bm.containers = bm.containers.Delete(b.key)
	}

	return bm
}
