package ecs

import "github.com/milk9111/breakout/ecs/component"

// World owns entities, their components and the frame's event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]componentStore
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]componentStore)}
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity drops every component of e and retires its handle.
func DestroyEntity(w *World, e Entity) bool {
	if !IsAlive(w, e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

// Entities returns every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}
