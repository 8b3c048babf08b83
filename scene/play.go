package scene

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/breakout/ecs"
	"github.com/milk9111/breakout/ecs/component"
	"github.com/milk9111/breakout/ecs/entity"
	"github.com/milk9111/breakout/ecs/system"
	"github.com/milk9111/breakout/prefabs"
)

// Point is a pointer position in arena units, y-up.
type Point struct {
	X float64
	Y float64
}

// Play is one round: a freshly built arena plus the systems that drive it.
type Play struct {
	world *ecs.World
	arena *entity.Arena

	physics   *system.PhysicsSystem
	drag      *system.PaddleDragSystem
	contacts  *system.ContactSystem
	scheduler *ecs.Scheduler
}

func NewPlay(spec prefabs.ArenaSpec, width, height float64) (*Play, error) {
	w := ecs.NewWorld()
	arena, err := entity.BuildArena(w, spec, width, height)
	if err != nil {
		return nil, fmt.Errorf("scene: new play: %w", err)
	}

	physics := system.NewPhysicsSystem()
	physics.SetIterations(spec.Physics.Iterations)
	physics.SetBounceFloor(spec.Physics.BounceFloor)
	// Bodies must exist before the first frame so a press can hit the paddle.
	physics.Sync(w)

	contacts := system.NewContactSystem(physics)
	p := &Play{
		world:     w,
		arena:     arena,
		physics:   physics,
		drag:      system.NewPaddleDragSystem(arena.Paddle, width, physics),
		contacts:  contacts,
		scheduler: ecs.NewScheduler(physics, contacts),
	}
	return p, nil
}

// Update steps the simulation and applies contact rules. A finished round
// no longer advances.
func (p *Play) Update() {
	if p.Finished() {
		return
	}
	p.scheduler.Update(p.world)
}

// TakeGameOver consumes the pending game over request, if any.
func (p *Play) TakeGameOver() (component.Outcome, bool) {
	outcome := component.OutcomeNone
	found := false
	ecs.ForEach(p.world, component.GameOverRequestComponent.Kind(), func(e ecs.Entity, req *component.GameOverRequest) {
		if !found {
			outcome = req.Outcome
			found = true
		}
		ecs.DestroyEntity(p.world, e)
	})
	return outcome, found
}

func (p *Play) PointerDown(pt Point) {
	if p.Finished() {
		return
	}
	p.drag.Press(p.world, pt.X, pt.Y)
}

func (p *Play) PointerMove(pt, prev Point) {
	if p.Finished() {
		return
	}
	p.drag.Move(p.world, pt.X, prev.X)
}

// PointerUp also covers a cancelled pointer.
func (p *Play) PointerUp() {
	p.drag.Release()
}

// HandleContact applies the contact rules to a pair of touching bodies.
func (p *Play) HandleContact(a, b ecs.Entity) component.Outcome {
	return p.contacts.Resolve(p.world, a, b)
}

func (p *Play) IsGameWon() bool {
	return p.contacts.Outcome() == component.OutcomeWon
}

func (p *Play) Finished() bool {
	return p.contacts.Outcome() != component.OutcomeNone
}

func (p *Play) Outcome() component.Outcome {
	return p.contacts.Outcome()
}

func (p *Play) BlockCount() int {
	return p.world.Count(component.BlockTagComponent.Kind())
}

func (p *Play) DragState() system.DragState {
	return p.drag.State()
}

func (p *Play) World() *ecs.World {
	return p.world
}

func (p *Play) Arena() *entity.Arena {
	return p.arena
}

func (p *Play) Space() *cp.Space {
	return p.physics.Space()
}
