package client

import (
	"maps"
	"slices"
	"sync"
)

// Atom is a value shared between goroutines. Readers get a copy made by clone, so a
// reader never observes a collection while a writer is replacing it.
type Atom[T any] struct {
	mu    sync.RWMutex
	v     T
	clone func(T) T
}

// NewAtom holds v; values are returned as-is (use for scalars and pointers).
func NewAtom[T any](v T) *Atom[T] {
	return &Atom[T]{v: v, clone: func(x T) T { return x }}
}

// NewSliceAtom holds a slice and hands out shallow copies.
func NewSliceAtom[E any](v []E) *Atom[[]E] {
	return &Atom[[]E]{v: v, clone: slices.Clone[[]E]}
}

// NewMapAtom holds a map and hands out shallow copies.
func NewMapAtom[K comparable, V any](v map[K]V) *Atom[map[K]V] {
	return &Atom[map[K]V]{v: v, clone: maps.Clone[map[K]V]}
}

func (a *Atom[T]) Get() T {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.clone(a.v)
}

func (a *Atom[T]) Set(v T) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.v = v
}

// Update replaces the value with fn(copy of current) atomically and returns it.
func (a *Atom[T]) Update(fn func(T) T) T {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.v = fn(a.clone(a.v))
	return a.clone(a.v)
}
