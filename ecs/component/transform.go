package component

// Transform is a body's position in arena units, y-up. Circles and boxes are
// positioned by their centre, edge loops by their bottom-left corner.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
