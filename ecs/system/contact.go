package system

import (
	"fmt"
	"log"

	"github.com/milk9111/breakout/ecs"
	"github.com/milk9111/breakout/ecs/component"
)

// BodyRemover drops an entity's colliders from the simulation right away.
type BodyRemover interface {
	RemoveEntity(e ecs.Entity)
}

// ContactSystem turns contact events into game rules: the ball clearing a
// block, and the ball reaching the bottom edge.
type ContactSystem struct {
	bodies  BodyRemover
	outcome component.Outcome
}

func NewContactSystem(bodies BodyRemover) *ContactSystem {
	return &ContactSystem{bodies: bodies}
}

func (s *ContactSystem) Outcome() component.Outcome {
	if s == nil {
		return component.OutcomeNone
	}
	return s.outcome
}

func (s *ContactSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for _, evt := range w.Events().Take(ecs.EventContact) {
		contact, ok := evt.Data.(ecs.ContactEvent)
		if !ok {
			continue
		}
		s.Resolve(w, contact.A, contact.B)
	}
}

// Resolve applies the rule for one contact, whichever order the pair comes
// in, and returns the round outcome afterwards.
func (s *ContactSystem) Resolve(w *ecs.World, a, b ecs.Entity) component.Outcome {
	if s == nil || w == nil {
		return component.OutcomeNone
	}
	if s.outcome != component.OutcomeNone {
		return s.outcome
	}
	if !w.IsAlive(a) || !w.IsAlive(b) {
		return s.outcome
	}

	catA := category(w, a)
	catB := category(w, b)

	switch catA | catB {
	case component.CategoryBall | component.CategoryBottom:
		s.finish(w, component.OutcomeLost)
	case component.CategoryBall | component.CategoryBlock:
		block := a
		if catB == component.CategoryBlock {
			block = b
		}
		s.clearBlock(w, block)
	}
	return s.outcome
}

func (s *ContactSystem) clearBlock(w *ecs.World, block ecs.Entity) {
	if s.bodies != nil {
		s.bodies.RemoveEntity(block)
	}
	ecs.DestroyEntity(w, block)

	remaining := w.Count(component.BlockTagComponent.Kind())
	log.Printf("contact: block %s cleared, %d left", block, remaining)
	if remaining == 0 {
		s.finish(w, component.OutcomeWon)
	}
}

func (s *ContactSystem) finish(w *ecs.World, outcome component.Outcome) {
	s.outcome = outcome
	log.Printf("contact: round %s", outcome)

	req := ecs.CreateEntity(w)
	if err := ecs.Add(w, req, component.GameOverRequestComponent.Kind(), &component.GameOverRequest{Outcome: outcome}); err != nil {
		panic(fmt.Sprintf("contact: add game over request: %v", err))
	}
}

func category(w *ecs.World, e ecs.Entity) component.Category {
	layer, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind())
	if !ok {
		return 0
	}
	return layer.Category
}
