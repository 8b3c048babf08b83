package ecs

import "github.com/milk9111/breakout/ecs/component"

// Query returns the live entities that carry every given component kind.
// Order follows the dense order of the smallest store.
func (w *World) Query(kinds ...component.Key) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}

	stores := make([]componentStore, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.stores[k.ID()]
		if !ok || s.len() == 0 {
			return nil
		}
		stores = append(stores, s)
	}

	// iterate smaller set
	smallest := 0
	for i, s := range stores {
		if s.len() < stores[smallest].len() {
			smallest = i
		}
	}

	out := make([]Entity, 0, stores[smallest].len())
	for _, id := range stores[smallest].ids() {
		matched := true
		for i, s := range stores {
			if i != smallest && !s.has(id) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if e, ok := w.entities.current(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns any live entity carrying the kind.
func (w *World) First(kind component.Key) (Entity, bool) {
	ents := w.Query(kind)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// Count returns how many live entities carry the kind.
func (w *World) Count(kind component.Key) int {
	if w == nil {
		return 0
	}
	s, ok := w.stores[kind.ID()]
	if !ok {
		return 0
	}
	return s.len()
}
