package document

import (
	"iter"
	"maps"
	"slices"

	"github.com/Sumatoshi-tech/inkwell/pkg/alg/orderedmap"
)

// Data is an immutable ordered string-keyed map attached to a block.
type Data struct {
	m orderedmap.Map[string, any]
}

// NewData builds Data from a plain map. Keys are ordered lexically because Go
// maps carry no order.
func NewData(src map[string]any) Data {
	var d Data
	for _, k := range slices.Sorted(maps.Keys(src)) {
		d.m = d.m.Set(k, src[k])
	}

	return d
}

// Len returns the number of entries.
func (d Data) Len() int { return d.m.Len() }

// Get returns the value under key.
func (d Data) Get(key string) (any, bool) { return d.m.Get(key) }

// Set returns Data with key bound to value.
func (d Data) Set(key string, value any) Data { return Data{m: d.m.Set(key, value)} }

// Delete returns Data without key.
func (d Data) Delete(key string) Data { return Data{m: d.m.Delete(key)} }

// Merge returns Data with every entry of other applied on top.
func (d Data) Merge(other Data) Data {
	for k, v := range other.All() {
		d = d.Set(k, v)
	}

	return d
}

// All yields entries in order.
func (d Data) All() iter.Seq2[string, any] { return d.m.All() }

// Map converts Data to a plain map. Empty data yields an empty, non-nil map.
func (d Data) Map() map[string]any {
	out := make(map[string]any, d.Len())
	for k, v := range d.All() {
		out[k] = v
	}

	return out
}
