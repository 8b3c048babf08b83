package system

import (
	"fmt"
	"math"

	"github.com/milk9111/breakout/ecs"
	"github.com/milk9111/breakout/ecs/component"
)

// DragState tracks whether the pointer currently owns the paddle.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	if s == DragDragging {
		return "dragging"
	}
	return "idle"
}

// HitTester resolves a point in arena space to the entity whose collider
// contains it.
type HitTester interface {
	HitTest(x, y float64) (ecs.Entity, bool)
}

// PaddleDragSystem moves the paddle horizontally by pointer deltas while a
// press that landed on it is held.
type PaddleDragSystem struct {
	paddle     ecs.Entity
	arenaWidth float64
	hits       HitTester
	state      DragState
}

func NewPaddleDragSystem(paddle ecs.Entity, arenaWidth float64, hits HitTester) *PaddleDragSystem {
	return &PaddleDragSystem{
		paddle:     paddle,
		arenaWidth: arenaWidth,
		hits:       hits,
	}
}

func (s *PaddleDragSystem) State() DragState {
	if s == nil {
		return DragIdle
	}
	return s.state
}

// Press starts a drag when the point is over the paddle. A press anywhere
// else leaves the state unchanged.
func (s *PaddleDragSystem) Press(w *ecs.World, x, y float64) {
	if s == nil || s.hits == nil || !w.IsAlive(s.paddle) {
		return
	}
	hit, ok := s.hits.HitTest(x, y)
	if !ok || hit != s.paddle {
		return
	}
	s.state = DragDragging
}

// Move shifts the paddle by x-prevX, keeping it fully inside the arena.
// The paddle's y never changes.
func (s *PaddleDragSystem) Move(w *ecs.World, x, prevX float64) {
	if s == nil || s.state != DragDragging {
		return
	}

	transform, ok := ecs.Get(w, s.paddle, component.TransformComponent.Kind())
	if !ok {
		panic(fmt.Sprintf("paddle drag: paddle %s has no transform while dragging", s.paddle))
	}
	body, ok := ecs.Get(w, s.paddle, component.PhysicsBodyComponent.Kind())
	if !ok {
		panic(fmt.Sprintf("paddle drag: paddle %s has no physics body while dragging", s.paddle))
	}

	half := body.HalfWidth()
	target := transform.X + (x - prevX)
	transform.X = clamp(target, half, s.arenaWidth-half)
}

// Release always ends the drag.
func (s *PaddleDragSystem) Release() {
	if s == nil {
		return
	}
	s.state = DragIdle
}

// Update is a no-op; the paddle only moves in response to pointer calls.
func (s *PaddleDragSystem) Update(w *ecs.World) {}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Min(math.Max(v, lo), hi)
}
