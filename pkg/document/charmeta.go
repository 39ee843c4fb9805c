package document

import (
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/Sumatoshi-tech/inkwell/pkg/alg/lru"
	"github.com/Sumatoshi-tech/inkwell/pkg/entity"
)

// DefaultInternPoolSize bounds the number of distinct metadata values kept
// canonical at once.
const DefaultInternPoolSize = 4096

// StyleSet is an immutable sorted set of inline style tags.
type StyleSet struct {
	tags []string
}

// NewStyleSet builds a set from tags, dropping duplicates.
func NewStyleSet(tags ...string) StyleSet {
	if len(tags) == 0 {
		return StyleSet{}
	}

	sorted := slices.Clone(tags)
	slices.Sort(sorted)

	return StyleSet{tags: slices.Compact(sorted)}
}

// Len returns the number of tags.
func (s StyleSet) Len() int { return len(s.tags) }

// Has reports whether tag is present.
func (s StyleSet) Has(tag string) bool {
	_, ok := slices.BinarySearch(s.tags, tag)

	return ok
}

// Add returns the set with tag included.
func (s StyleSet) Add(tag string) StyleSet {
	i, ok := slices.BinarySearch(s.tags, tag)
	if ok {
		return s
	}

	return StyleSet{tags: slices.Insert(slices.Clone(s.tags), i, tag)}
}

// Remove returns the set without tag.
func (s StyleSet) Remove(tag string) StyleSet {
	i, ok := slices.BinarySearch(s.tags, tag)
	if !ok {
		return s
	}

	return StyleSet{tags: slices.Delete(slices.Clone(s.tags), i, i+1)}
}

// Tags returns the tags in sorted order.
func (s StyleSet) Tags() []string { return slices.Clone(s.tags) }

// Equal reports whether both sets hold the same tags.
func (s StyleSet) Equal(other StyleSet) bool { return slices.Equal(s.tags, other.tags) }

// EntitySet is an immutable insertion-ordered set of entity keys. The first
// key is the priority key.
type EntitySet struct {
	keys []entity.Key
}

// NewEntitySet builds a set from keys, dropping zero keys and duplicates.
func NewEntitySet(keys ...entity.Key) EntitySet {
	var set EntitySet
	for _, k := range keys {
		set = set.Add(k)
	}

	return set
}

// Len returns the number of keys.
func (s EntitySet) Len() int { return len(s.keys) }

// Has reports whether key is present.
func (s EntitySet) Has(key entity.Key) bool { return slices.Contains(s.keys, key) }

// First returns the priority key, or zero for an empty set.
func (s EntitySet) First() entity.Key {
	if len(s.keys) == 0 {
		return 0
	}

	return s.keys[0]
}

// Add returns the set with key appended.
func (s EntitySet) Add(key entity.Key) EntitySet {
	if key == 0 || s.Has(key) {
		return s
	}

	return EntitySet{keys: append(slices.Clip(s.keys), key)}
}

// Remove returns the set without key.
func (s EntitySet) Remove(key entity.Key) EntitySet {
	i := slices.Index(s.keys, key)
	if i < 0 {
		return s
	}

	return EntitySet{keys: slices.Delete(slices.Clone(s.keys), i, i+1)}
}

// Keys returns the keys in order.
func (s EntitySet) Keys() []entity.Key { return slices.Clone(s.keys) }

// Equal reports whether both sets hold the same keys in the same order.
func (s EntitySet) Equal(other EntitySet) bool { return slices.Equal(s.keys, other.keys) }

// CharacterMetadata describes the styles and entities of one character.
// Values are interned: equal contents normally share one pointer, so
// comparisons are a pointer check. Equal falls back to a value comparison
// for values that outlived an intern pool eviction.
type CharacterMetadata struct {
	style    StyleSet
	entities EntitySet
}

var pool atomic.Pointer[lru.Cache[string, *CharacterMetadata]]

// emptyMetadata is kept outside the pool so it never gets evicted.
var emptyMetadata = &CharacterMetadata{}

func init() {
	SetInternPoolSize(DefaultInternPoolSize)
}

// SetInternPoolSize replaces the intern pool with one of the given capacity.
// Previously interned values remain valid.
func SetInternPoolSize(n int) {
	pool.Store(lru.New[string, *CharacterMetadata](max(n, 1)))
}

// InternPoolStats reports intern pool hit and miss counts.
func InternPoolStats() lru.Stats {
	return pool.Load().Stats()
}

// EmptyMetadata returns metadata with no styles and no entities.
func EmptyMetadata() *CharacterMetadata {
	return emptyMetadata
}

// NewMetadata returns the canonical metadata value for style and entities.
func NewMetadata(style StyleSet, entities EntitySet) *CharacterMetadata {
	if style.Len() == 0 && entities.Len() == 0 {
		return emptyMetadata
	}

	id := metadataID(style, entities)
	meta, _ := pool.Load().GetOrPut(id, &CharacterMetadata{style: style, entities: entities})

	return meta
}

func metadataID(style StyleSet, entities EntitySet) string {
	var sb strings.Builder

	for _, tag := range style.tags {
		sb.WriteString(strconv.Itoa(len(tag)))
		sb.WriteByte(':')
		sb.WriteString(tag)
	}

	sb.WriteByte('|')

	for i, k := range entities.keys {
		if i > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(k.String())
	}

	return sb.String()
}

// Style returns the style set.
func (c *CharacterMetadata) Style() StyleSet { return c.style }

// Entities returns the entity key set.
func (c *CharacterMetadata) Entities() EntitySet { return c.entities }

// Entity returns the priority entity key, or zero.
func (c *CharacterMetadata) Entity() entity.Key { return c.entities.First() }

// HasStyle reports whether the style tag is set.
func (c *CharacterMetadata) HasStyle(tag string) bool { return c.style.Has(tag) }

// WithStyle returns metadata with tag added.
func (c *CharacterMetadata) WithStyle(tag string) *CharacterMetadata {
	if c.style.Has(tag) {
		return c
	}

	return NewMetadata(c.style.Add(tag), c.entities)
}

// WithoutStyle returns metadata with tag removed.
func (c *CharacterMetadata) WithoutStyle(tag string) *CharacterMetadata {
	if !c.style.Has(tag) {
		return c
	}

	return NewMetadata(c.style.Remove(tag), c.entities)
}

// WithEntity replaces the entity set with key alone. A zero key clears it.
func (c *CharacterMetadata) WithEntity(key entity.Key) *CharacterMetadata {
	return NewMetadata(c.style, NewEntitySet(key))
}

// WithEntities replaces the entity set.
func (c *CharacterMetadata) WithEntities(set EntitySet) *CharacterMetadata {
	return NewMetadata(c.style, set)
}

// AddEntity returns metadata with key appended to the entity set.
func (c *CharacterMetadata) AddEntity(key entity.Key) *CharacterMetadata {
	if key == 0 || c.entities.Has(key) {
		return c
	}

	return NewMetadata(c.style, c.entities.Add(key))
}

// RemoveEntity returns metadata with key dropped from the entity set.
func (c *CharacterMetadata) RemoveEntity(key entity.Key) *CharacterMetadata {
	if !c.entities.Has(key) {
		return c
	}

	return NewMetadata(c.style, c.entities.Remove(key))
}

// Equal reports whether both values describe the same styles and entities.
func (c *CharacterMetadata) Equal(other *CharacterMetadata) bool {
	if c == other {
		return true
	}

	if c == nil || other == nil {
		return false
	}

	return c.style.Equal(other.style) && c.entities.Equal(other.entities)
}

// SameStyle reports whether both values carry the same style set.
func SameStyle(a, b *CharacterMetadata) bool {
	return a == b || a.style.Equal(b.style)
}

// SameEntities reports whether both values carry the same entity set.
func SameEntities(a, b *CharacterMetadata) bool {
	return a == b || a.entities.Equal(b.entities)
}
