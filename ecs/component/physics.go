package component

import "github.com/jakecoffman/cp"

// ShapeKind selects the collider geometry built for a PhysicsBody.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
	// ShapeEdgeLoop is a hollow rectangle of four segments.
	ShapeEdgeLoop
)

// BodyMode mirrors Chipmunk's body types.
type BodyMode int

const (
	// BodyStatic shapes hang off the space's static body and never move.
	BodyStatic BodyMode = iota
	// BodyKinematic bodies are moved by writing their Transform.
	BodyKinematic
	// BodyDynamic bodies are driven by the simulation.
	BodyDynamic
)

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Kind   ShapeKind
	Mode   BodyMode
	Width  float64
	Height float64
	Radius float64
	Mass   float64

	Friction       float64
	Restitution    float64
	LinearDamping  float64
	AllowsRotation bool
	// Sensor shapes report contacts without a collision response.
	Sensor bool
	// OpenBottom leaves out the lower segment of an edge loop.
	OpenBottom bool
}

// HalfWidth returns half the collider's horizontal extent.
func (b *PhysicsBody) HalfWidth() float64 {
	if b == nil {
		return 0
	}
	if b.Kind == ShapeCircle {
		return b.Radius
	}
	return b.Width / 2
}

// IsDynamic reports whether collisions can move the body.
func (b *PhysicsBody) IsDynamic() bool {
	return b != nil && b.Mode == BodyDynamic
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
