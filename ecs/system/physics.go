package system

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/breakout/ecs"
	"github.com/milk9111/breakout/ecs/component"
)

const (
	// FixedStep matches ebiten's default 60 ticks per second.
	FixedStep = 1.0 / 60.0

	defaultIterations = 10
	edgeRadius        = 0.5
)

// PhysicsSystem mirrors PhysicsBody entities into a zero-gravity Chipmunk
// space, steps it, and publishes contact events for the categories each
// body listens to.
type PhysicsSystem struct {
	space       *cp.Space
	step        float64
	bounceFloor float64

	// events is only set while the space is stepping.
	events   *ecs.EventQueue
	handlers map[[2]cp.CollisionType]bool

	entities      map[ecs.Entity]*bodyInfo
	shapeToEntity map[*cp.Shape]ecs.Entity
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	static bool
}

func NewPhysicsSystem() *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = defaultIterations
	space.SetGravity(cp.Vector{})
	return &PhysicsSystem{
		space:         space,
		step:          FixedStep,
		handlers:      make(map[[2]cp.CollisionType]bool),
		entities:      make(map[ecs.Entity]*bodyInfo),
		shapeToEntity: make(map[*cp.Shape]ecs.Entity),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// SetIterations overrides the solver iteration count.
func (ps *PhysicsSystem) SetIterations(n int) {
	if ps == nil || n <= 0 {
		return
	}
	ps.space.Iterations = uint(n)
}

// SetBounceFloor sets the least elasticity given to static and kinematic
// shapes created after the call.
func (ps *PhysicsSystem) SetBounceFloor(floor float64) {
	if ps == nil {
		return
	}
	ps.bounceFloor = floor
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.Sync(w)

	ps.events = w.Events()
	ps.space.Step(ps.step)
	ps.events = nil

	ps.syncTransforms(w)
}

// Sync brings the space in line with the world without stepping: bodies of
// destroyed entities are removed, new bodies are created, pending impulses
// are applied and kinematic bodies are moved to their transforms.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.cleanupEntities(w)
	ps.syncEntities(w)
	ps.applyImpulses(w)
	ps.syncKinematic(w)
}

// HitTest returns the entity whose solid shape contains the point.
func (ps *PhysicsSystem) HitTest(x, y float64) (ecs.Entity, bool) {
	if ps == nil || ps.space == nil {
		return 0, false
	}
	info := ps.space.PointQueryNearest(cp.Vector{X: x, Y: y}, 0, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return 0, false
	}
	e, ok := ps.shapeToEntity[info.Shape]
	return e, ok
}

// RemoveEntity drops e's shapes and body from the space immediately. It must
// not be called while the space is stepping.
func (ps *PhysicsSystem) RemoveEntity(e ecs.Entity) {
	if ps == nil {
		return
	}
	info, ok := ps.entities[e]
	if !ok {
		return
	}
	ps.removeInfo(info)
	delete(ps.entities, e)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	entities := w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range entities {
		if _, exists := ps.entities[e]; exists {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		layer, _ := ecs.Get(w, e, component.CollisionLayerComponent.Kind())

		info := ps.createBodyInfo(transform, bodyComp, layer)
		if info == nil || len(info.shapes) == 0 {
			continue
		}
		ps.entities[e] = info
		for _, shape := range info.shapes {
			ps.shapeToEntity[shape] = e
		}
		bodyComp.Body = info.body
		bodyComp.Shape = info.shapes[0]

		if layer != nil {
			ps.ensureContactHandlers(layer)
		}
	}
}

func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody, layer *component.CollisionLayer) *bodyInfo {
	var body *cp.Body
	static := false
	switch bodyComp.Mode {
	case component.BodyDynamic:
		mass := bodyComp.Mass
		if mass <= 0 {
			mass = 1
		}
		moment := math.Inf(1)
		if bodyComp.AllowsRotation {
			switch bodyComp.Kind {
			case component.ShapeCircle:
				moment = cp.MomentForCircle(mass, 0, bodyComp.Radius, cp.Vector{})
			default:
				moment = cp.MomentForBox(mass, bodyComp.Width, bodyComp.Height)
			}
		}
		body = cp.NewBody(mass, moment)
		if damping := bodyComp.LinearDamping; damping > 0 {
			body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, spaceDamping float64, dt float64) {
				cp.BodyUpdateVelocity(b, gravity, spaceDamping*math.Max(0, 1-damping*dt), dt)
			})
		}
	case component.BodyKinematic:
		body = cp.NewKinematicBody()
	default:
		body = ps.space.StaticBody
		static = true
	}

	center := cp.Vector{X: transform.X, Y: transform.Y}
	var shapes []*cp.Shape
	switch bodyComp.Kind {
	case component.ShapeEdgeLoop:
		shapes = ps.edgeLoopShapes(body, static, transform, bodyComp)
	case component.ShapeCircle:
		offset := cp.Vector{}
		if static {
			offset = center
		}
		shapes = []*cp.Shape{cp.NewCircle(body, bodyComp.Radius, offset)}
	default:
		if static {
			bb := cp.BB{
				L: center.X - bodyComp.Width/2,
				B: center.Y - bodyComp.Height/2,
				R: center.X + bodyComp.Width/2,
				T: center.Y + bodyComp.Height/2,
			}
			shapes = []*cp.Shape{cp.NewBox2(body, bb, 0)}
		} else {
			shapes = []*cp.Shape{cp.NewBox(body, bodyComp.Width, bodyComp.Height, 0)}
		}
	}

	elasticity := bodyComp.Restitution
	if !bodyComp.IsDynamic() {
		elasticity = math.Max(elasticity, ps.bounceFloor)
	}

	filter := cp.SHAPE_FILTER_ALL
	collisionType := cp.CollisionType(0)
	if layer != nil {
		filter = cp.ShapeFilter{Group: cp.NO_GROUP, Categories: uint(layer.Category), Mask: cp.ALL_CATEGORIES}
		if layer.CollisionMask != 0 {
			filter.Mask = uint(layer.CollisionMask)
		}
		collisionType = cp.CollisionType(layer.Category)
	}

	if !static {
		body.SetPosition(center)
		body.SetAngle(transform.Rotation)
		ps.space.AddBody(body)
	}
	for _, shape := range shapes {
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(elasticity)
		shape.SetSensor(bodyComp.Sensor)
		shape.SetFilter(filter)
		shape.SetCollisionType(collisionType)
		ps.space.AddShape(shape)
	}

	return &bodyInfo{body: body, shapes: shapes, static: static}
}

func (ps *PhysicsSystem) edgeLoopShapes(body *cp.Body, static bool, transform *component.Transform, bodyComp *component.PhysicsBody) []*cp.Shape {
	origin := cp.Vector{}
	if static {
		origin = cp.Vector{X: transform.X, Y: transform.Y}
	}
	l, b := origin.X, origin.Y
	r, t := l+bodyComp.Width, b+bodyComp.Height

	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: l, Y: t}, b: cp.Vector{X: r, Y: t}}, // top
		{a: cp.Vector{X: l, Y: b}, b: cp.Vector{X: l, Y: t}}, // left
		{a: cp.Vector{X: r, Y: b}, b: cp.Vector{X: r, Y: t}}, // right
	}
	if !bodyComp.OpenBottom {
		segments = append(segments, struct {
			a cp.Vector
			b cp.Vector
		}{a: cp.Vector{X: l, Y: b}, b: cp.Vector{X: r, Y: b}})
	}

	shapes := make([]*cp.Shape, 0, len(segments))
	for _, seg := range segments {
		shapes = append(shapes, cp.NewSegment(body, seg.a, seg.b, edgeRadius))
	}
	return shapes
}

// ensureContactHandlers installs one begin handler per category the layer
// listens to. Handlers publish contacts and let the collision resolve.
func (ps *PhysicsSystem) ensureContactHandlers(layer *component.CollisionLayer) {
	self := cp.CollisionType(layer.Category)
	mask := uint32(layer.ContactMask)
	for mask != 0 {
		bit := mask & -mask
		mask &^= bit
		other := cp.CollisionType(bit)

		key := [2]cp.CollisionType{self, other}
		if ps.handlers[key] {
			continue
		}
		ps.handlers[key] = true

		handler := ps.space.NewCollisionHandler(self, other)
		handler.UserData = ps
		handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			sys, ok := userData.(*PhysicsSystem)
			if !ok || sys == nil || sys.events == nil {
				return true
			}
			shapeA, shapeB := arb.Shapes()
			a, okA := sys.shapeToEntity[shapeA]
			b, okB := sys.shapeToEntity[shapeB]
			if !okA || !okB {
				return true
			}
			sys.events.Push(ecs.Event{Type: ecs.EventContact, Data: ecs.ContactEvent{A: a, B: b}})
			return true
		}
		log.Printf("physics: contact handler %s <-> %s", layer.Category, component.Category(bit))
	}
}

func (ps *PhysicsSystem) applyImpulses(w *ecs.World) {
	ecs.ForEach(w, component.ImpulseComponent.Kind(), func(e ecs.Entity, imp *component.Impulse) {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || bodyComp.Body == nil || !bodyComp.IsDynamic() {
			return
		}
		bodyComp.Body.ApplyImpulseAtLocalPoint(cp.Vector{X: imp.X, Y: imp.Y}, cp.Vector{})
		ecs.Remove(w, e, component.ImpulseComponent.Kind())
	})
}

func (ps *PhysicsSystem) syncKinematic(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Mode != component.BodyKinematic || bodyComp.Body == nil {
			return
		}
		pos := bodyComp.Body.Position()
		if pos.X == transform.X && pos.Y == transform.Y {
			return
		}
		bodyComp.Body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if !bodyComp.IsDynamic() || bodyComp.Body == nil {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ps.removeInfo(info)
		delete(ps.entities, e)
	}
}

func (ps *PhysicsSystem) removeInfo(info *bodyInfo) {
	for _, shape := range info.shapes {
		if shape == nil {
			continue
		}
		ps.space.RemoveShape(shape)
		delete(ps.shapeToEntity, shape)
	}
	if info.body != nil && !info.static {
		ps.space.RemoveBody(info.body)
	}
}
