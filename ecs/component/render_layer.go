package component

import "image/color"

// RenderLayer is used to sort draw order deterministically.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()

// ShapeStyle colours a body's collider outline when drawn. Fill is ignored
// for edge loops.
type ShapeStyle struct {
	Fill   color.NRGBA
	Stroke float32
}

var ShapeStyleComponent = NewComponent[ShapeStyle]()
