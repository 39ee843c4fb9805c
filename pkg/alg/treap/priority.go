// Package treap provides persistent (path-copying) treaps: an implicit
// sequence List indexed by position and an ordered Map keyed by cmp.Ordered
// keys. Every update returns a new value that shares all untouched nodes with
// its predecessor, so older versions stay valid and may be read concurrently.
package treap

import "sync/atomic"

// prioritySeed feeds splitmix64 so node priorities are well distributed but
// generated without a shared random source.
var prioritySeed atomic.Uint64

// splitmix64 constants.
const (
	splitmixGamma = 0x9e3779b97f4a7c15
	splitmixMul1  = 0xbf58476d1ce4e5b9
	splitmixMul2  = 0x94d049bb133111eb
)

func nextPriority() uint64 {
	z := prioritySeed.Add(splitmixGamma)
	z = (z ^ (z >> 30)) * splitmixMul1
	z = (z ^ (z >> 27)) * splitmixMul2

	return z ^ (z >> 31)
}
