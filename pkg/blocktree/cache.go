package blocktree

import (
	"github.com/Sumatoshi-tech/inkwell/pkg/alg/lru"
	"github.com/Sumatoshi-tech/inkwell/pkg/decorator"
	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/textutil"
)

// DefaultCacheSize is the number of blocks whose trees are remembered.
const DefaultCacheSize = 1024

type cached struct {
	text        textutil.UTF16
	chars       document.Characters
	tree        Tree
	fingerprint string
}

// Cache remembers the last tree generated per block key for one decorator so
// callers can skip re-rendering blocks whose partition did not change.
type Cache struct {
	entries *lru.Cache[string, cached]
	dec     decorator.Decorator
}

// NewCache creates a cache holding up to size blocks decorated by dec.
func NewCache(size int, dec decorator.Decorator) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}

	return &Cache{entries: lru.New[string, cached](size), dec: dec}
}

// Tree returns the tree for b and whether its fingerprint differs from the
// one produced for the same block key last time. A block whose text and
// character list are unchanged reuses the cached tree.
func (c *Cache) Tree(cs document.ContentState, b document.Block) (Tree, bool) {
	prev, ok := c.entries.Get(b.Key())
	if ok && prev.chars.SharesRoot(b.Characters()) && prev.text.Equal(b.Text()) {
		return prev.tree, false
	}

	tree := Generate(cs, b, c.dec)
	fp := Fingerprint(tree)

	c.entries.Put(b.Key(), cached{
		text:        b.Text(),
		chars:       b.Characters(),
		tree:        tree,
		fingerprint: fp,
	})

	return tree, !ok || prev.fingerprint != fp
}

// Forget drops the cached tree for key.
func (c *Cache) Forget(key string) {
	c.entries.Remove(key)
}

// Stats reports cache hit and miss counts.
func (c *Cache) Stats() lru.Stats {
	return c.entries.Stats()
}
