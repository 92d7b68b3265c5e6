package repository

import (
	"bytes"
	"encoding/gob"
	"sync"

	"agrirent/pkg/errors"
)

// memoryStore keeps deep copies of documents keyed by id so callers can never
// mutate stored state without going through the repository.
type memoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
	order []string
}

func newMemoryStore[T any]() *memoryStore[T] {
	return &memoryStore[T]{items: make(map[string]*T)}
}

func cloneOf[T any](v *T) *T {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		panic("memory store: encode: " + err.Error())
	}
	out := new(T)
	if err := gob.NewDecoder(&buf).Decode(out); err != nil {
		panic("memory store: decode: " + err.Error())
	}
	return out
}

func (s *memoryStore[T]) insert(id string, v *T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; exists {
		return false
	}
	s.items[id] = cloneOf(v)
	s.order = append(s.order, id)
	return true
}

func (s *memoryStore[T]) get(id string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return cloneOf(v), nil
}

func (s *memoryStore[T]) replace(id string, v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return errors.ErrNotFound
	}
	s.items[id] = cloneOf(v)
	return nil
}

func (s *memoryStore[T]) remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return errors.ErrNotFound
	}
	delete(s.items, id)
	for i, key := range s.order {
		if key == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// mutate applies fn to the stored document under the write lock.
func (s *memoryStore[T]) mutate(id string, fn func(*T) error) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	working := cloneOf(v)
	if err := fn(working); err != nil {
		return nil, err
	}
	s.items[id] = working
	return cloneOf(working), nil
}

// filter returns copies of every document accepted by keep, in insertion order.
func (s *memoryStore[T]) filter(keep func(*T) bool) []*T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*T
	for _, id := range s.order {
		v := s.items[id]
		if keep(v) {
			out = append(out, cloneOf(v))
		}
	}
	return out
}
