// Package liststate holds the list a screen last fetched. Every fetch takes an
// epoch from Begin and only the newest epoch may apply its result, so a slow
// response from an older fetch can never overwrite newer data.
package liststate

import (
	"sync"
)

type Epoch uint64

type Store[T any] struct {
	mu      sync.RWMutex
	id      func(T) string
	items   []T
	issued  Epoch
	applied Epoch
}

func New[T any](id func(T) string) *Store[T] {
	return &Store[T]{id: id}
}

// Begin issues the epoch for a new fetch.
func (s *Store[T]) Begin() Epoch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Apply replaces the items when e is the latest issued epoch and reports
// whether it did.
func (s *Store[T]) Apply(e Epoch, items []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e != s.issued {
		return false
	}
	s.items = append(make([]T, 0, len(items)), items...)
	s.applied = e
	return true
}

// Generation is the epoch of the data currently held, zero before the first
// successful fetch.
func (s *Store[T]) Generation() Epoch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied
}

func (s *Store[T]) Loaded() bool {
	return s.Generation() != 0
}

func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]T, 0, len(s.items)), s.items...)
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if s.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Update mutates the item with the given id in place.
func (s *Store[T]) Update(id string, fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.id(s.items[i]) == id {
			fn(&s.items[i])
			return true
		}
	}
	return false
}

// Upsert replaces the item with the same id or appends it. Items without an
// id are ignored.
func (s *Store[T]) Upsert(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id(item)
	if id == "" {
		return
	}
	for i := range s.items {
		if s.id(s.items[i]) == id {
			s.items[i] = item
			return
		}
	}
	s.items = append(s.items, item)
}

// Remove drops only the matching item; nothing cascades.
func (s *Store[T]) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.id(s.items[i]) == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}
