package ecs

import (
	"fmt"

	"github.com/milk9111/breakout/ecs/component"
)

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if s, ok := w.stores[kind.ID()]; ok {
		typed, _ := s.(*sparseSet[T])
		return typed
	}
	if !create {
		return nil
	}
	s := &sparseSet[T]{}
	w.stores[kind.ID()] = s
	return s
}

// Add attaches or replaces a component on a live entity.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	storeFor(w, kind, true).set(e.id(), value)
	return nil
}

// Get returns the component pointer stored for e.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	s := storeFor(w, kind, false)
	if s == nil {
		return nil, false
	}
	return s.get(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := Get(w, e, kind)
	return ok
}

// Remove detaches a component, reporting whether one was present.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	s := storeFor(w, kind, false)
	if s == nil {
		return false
	}
	return s.remove(e.id())
}

// ForEach calls fn for every live entity holding kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := storeFor(w, kind, false)
	if s == nil {
		return
	}
	// fn may add or remove components, so walk a snapshot.
	ids := append([]entityID(nil), s.ids()...)
	for _, id := range ids {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		if v, ok := s.get(id); ok {
			fn(e, v)
		}
	}
}

// ForEach2 calls fn for every live entity holding both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

// ForEach3 calls fn for every live entity holding all three kinds.
func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(ka, kb, kc) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}
