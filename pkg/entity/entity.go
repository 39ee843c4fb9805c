// Package entity holds typed annotations referenced by key from character
// metadata, the store that owns them, and the segment rule used when a
// deletion touches a SEGMENTED entity.
package entity

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"sync/atomic"
)

// Sentinel errors for entity lookups and parsing.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidMutability = errors.New("invalid entity mutability")
)

// Mutability governs how a deletion touching an entity range is widened.
type Mutability string

// Mutability values as they appear in raw documents.
const (
	Mutable   Mutability = "MUTABLE"
	Immutable Mutability = "IMMUTABLE"
	Segmented Mutability = "SEGMENTED"
)

// ParseMutability validates a raw mutability string.
func ParseMutability(s string) (Mutability, error) {
	switch m := Mutability(s); m {
	case Mutable, Immutable, Segmented:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMutability, s)
	}
}

// Key identifies an entity. Keys are process-wide and never reused; the zero
// Key means "no entity".
type Key uint64

func (k Key) String() string {
	return strconv.FormatUint(uint64(k), 10)
}

var lastKey atomic.Uint64

func nextKey() Key {
	return Key(lastKey.Add(1))
}

// ResetKeys restarts key allocation. Intended for test isolation only; stores
// created before the reset may then see colliding keys.
func ResetKeys() {
	lastKey.Store(0)
}

// Entity is a typed annotation.
type Entity struct {
	Key        Key
	Type       string
	Mutability Mutability
	Data       map[string]any
}

func (e Entity) clone() Entity {
	e.Data = maps.Clone(e.Data)
	if e.Data == nil {
		e.Data = map[string]any{}
	}

	return e
}
