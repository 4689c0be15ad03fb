// Package machine implements the Machine runtime: switch context,
// systems/districts/dispatcher, the capability Context, the event loop,
// and the boot-time Builder (C4-C9, C11).
package machine

import (
	"encoding/json"
	"reflect"
	"sync"
)

// Store is a type-keyed value bag, one per District, used by Systems to
// persist state across ticks without a shared mutable global. Grounded
// on original_source/frontbox/src/machine/store/store.rs.
type Store struct {
	mu     sync.RWMutex
	values map[reflect.Type]any
}

// NewStore builds an empty Store.
func NewStore() *Store {
	return &Store{values: map[reflect.Type]any{}}
}

func keyOf[T any]() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// Internally every value is boxed as *T so GetMut can hand back a
// pointer into the same slot Get and Insert see — map values in Go
// aren't addressable, so the box is the only way to share one slot
// across all three accessors.

// Get returns a copy of the stored T, or false if none has been inserted.
func Get[T any](s *Store) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[keyOf[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return *v.(*T), true
}

// GetMut returns a pointer to the stored T, lazily default-initializing
// it on first access (mirrors the Rust source's get_mut<T>()).
func GetMut[T any](s *Store) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := keyOf[T]()
	v, ok := s.values[key]
	if !ok {
		boxed := new(T)
		s.values[key] = boxed
		return boxed
	}
	return v.(*T)
}

// Insert overwrites the stored value for T.
func Insert[T any](s *Store, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[keyOf[T]()] = &value
}

// Remove deletes the stored value for T, if any.
func Remove[T any](s *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, keyOf[T]())
}

// ToJSON dumps every stored value keyed by its Go type name, for
// debugging/diagnostics.
func (s *Store) ToJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[string]any{}
	for t, v := range s.values {
		out[t.String()] = v
	}
	return json.Marshal(out)
}

// Clone copies every boxed value into a new box via reflection, so the
// clone's slots are independent of the original's. Each T is copied by
// value: maps, slices and pointers inside a T stay shared.
func (s *Store) Clone() *Store {
	clone := NewStore()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for t, v := range s.values {
		boxed := reflect.New(t)
		boxed.Elem().Set(reflect.ValueOf(v).Elem())
		clone.values[t] = boxed.Interface()
	}
	return clone
}
