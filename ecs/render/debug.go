package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// DrawPhysicsDebug outlines every collider in the space, flipped into screen
// space against arenaHeight.
func DrawPhysicsDebug(space *cp.Space, arenaHeight float64, screen *ebiten.Image) {
	if space == nil || screen == nil {
		return
	}
	cp.DrawSpace(space, &physicsDebugDrawer{screen: screen, height: arenaHeight})
}

// DrawStatus prints round state in the top-left corner.
func DrawStatus(screen *ebiten.Image, blocks int, drag fmt.Stringer) {
	if screen == nil {
		return
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Blocks: %d\nDrag: %s\nTPS: %0.1f", blocks, drag, ebiten.ActualTPS()), 6, 6)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	height float64
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	x, y := d.toScreen(pos)
	vector.FillCircle(d.screen, x, y, float32(size/2), toNRGBA(fill), false)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, toNRGBA(c), true)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float32, float32) {
	return float32(v.X), float32(d.height - v.Y)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
