package entity

import (
	"fmt"
	"maps"
	"sync"
)

// Store owns entities. Entities are never deleted so that older document
// snapshots keep resolving their keys.
type Store struct {
	mu       sync.RWMutex
	entities map[Key]*Entity
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entities: make(map[Key]*Entity)}
}

// Create registers a new entity and returns its key.
func (s *Store) Create(typ string, mutability Mutability, data map[string]any) Key {
	ent := Entity{Key: nextKey(), Type: typ, Mutability: mutability, Data: data}.clone()

	s.mu.Lock()
	s.entities[ent.Key] = &ent
	s.mu.Unlock()

	return ent.Key
}

// Get returns a copy of the entity stored under key.
func (s *Store) Get(key Key) (Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.entities[key]
	if !ok {
		return Entity{}, fmt.Errorf("%w: key %s", ErrNotFound, key)
	}

	return ent.clone(), nil
}

// Mutability returns the mutability of key.
func (s *Store) Mutability(key Key) (Mutability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.entities[key]
	if !ok {
		return "", fmt.Errorf("%w: key %s", ErrNotFound, key)
	}

	return ent.Mutability, nil
}

// MergeData shallow-merges partial into the entity data. Key, type and
// mutability are preserved.
func (s *Store) MergeData(key Key, partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entities[key]
	if !ok {
		return fmt.Errorf("%w: key %s", ErrNotFound, key)
	}

	data := maps.Clone(ent.Data)
	maps.Copy(data, partial)
	ent.Data = data

	return nil
}

// ReplaceData swaps the entity data for data.
func (s *Store) ReplaceData(key Key, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entities[key]
	if !ok {
		return fmt.Errorf("%w: key %s", ErrNotFound, key)
	}

	ent.Data = maps.Clone(data)
	if ent.Data == nil {
		ent.Data = map[string]any{}
	}

	return nil
}

// Len returns the number of entities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entities)
}
