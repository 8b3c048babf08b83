package entity

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"github.com/milk9111/breakout/ecs"
	"github.com/milk9111/breakout/ecs/component"
	"github.com/milk9111/breakout/prefabs"
)

// ErrInvalidArena is returned when the requested size cannot hold the layout.
var ErrInvalidArena = errors.New("build arena: invalid arena")

const (
	layerBounds = iota
	layerBlocks
	layerPaddle
	layerBall
)

// Arena holds typed handles to every body created for one round.
type Arena struct {
	Width  float64
	Height float64

	Bounds ecs.Entity
	Bottom ecs.Entity
	Ball   ecs.Entity
	Paddle ecs.Entity
	// Blocks lists the blocks as built. Destroyed blocks keep their stale
	// handles here; use LiveBlocks for what remains.
	Blocks []ecs.Entity
}

// LiveBlocks returns the blocks still present in the world.
func (a *Arena) LiveBlocks(w *ecs.World) []ecs.Entity {
	if a == nil {
		return nil
	}
	live := make([]ecs.Entity, 0, len(a.Blocks))
	for _, b := range a.Blocks {
		if w.IsAlive(b) {
			live = append(live, b)
		}
	}
	return live
}

// BuildArena populates w with the boundary, bottom edge, ball, paddle and the
// block grid described by spec, sized to width x height.
func BuildArena(w *ecs.World, spec prefabs.ArenaSpec, width, height float64) (*Arena, error) {
	if w == nil {
		return nil, fmt.Errorf("build arena: world is nil")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %vx%v", ErrInvalidArena, width, height)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArena, err)
	}
	slots, err := BlockLayout(spec.Grid, spec.Block.Width, width, height)
	if err != nil {
		return nil, err
	}

	arena := &Arena{Width: width, Height: height}

	if arena.Bounds, err = newBounds(w, spec, width, height); err != nil {
		return nil, err
	}
	if arena.Bottom, err = newBottom(w, spec, width); err != nil {
		return nil, err
	}
	if arena.Ball, err = newBall(w, spec.Ball, width, height); err != nil {
		return nil, err
	}
	if arena.Paddle, err = newPaddle(w, spec.Paddle, width); err != nil {
		return nil, err
	}

	arena.Blocks = make([]ecs.Entity, 0, len(slots))
	for i, slot := range slots {
		b, err := newBlock(w, spec.Block, slot)
		if err != nil {
			return nil, fmt.Errorf("build arena: block %d: %w", i, err)
		}
		arena.Blocks = append(arena.Blocks, b)
	}

	log.Printf("arena: built %vx%v with %d blocks", width, height, len(arena.Blocks))
	return arena, nil
}

// BlockLayout returns the centre of every block, row by row from the top.
// Blocks in a row are spaced by grid.Padding and the row is centred
// horizontally.
func BlockLayout(grid prefabs.GridSpec, blockWidth, width, height float64) ([]component.Transform, error) {
	if grid.Rows <= 0 || grid.Columns <= 0 || len(grid.RowY) < grid.Rows {
		return nil, fmt.Errorf("%w: grid %dx%d with %d row positions", ErrInvalidArena, grid.Rows, grid.Columns, len(grid.RowY))
	}

	columns := float64(grid.Columns)
	rowWidth := blockWidth*columns + grid.Padding*(columns-1)
	if rowWidth > width {
		return nil, fmt.Errorf("%w: block row is %v wide, arena is %v", ErrInvalidArena, rowWidth, width)
	}
	offset := (width - rowWidth) / 2

	out := make([]component.Transform, 0, grid.Rows*grid.Columns)
	for row := 0; row < grid.Rows; row++ {
		y := height * grid.RowY[row]
		for index := 1; index <= grid.Columns; index++ {
			i := float64(index)
			x := (i-0.5)*blockWidth + (i-1)*grid.Padding + offset
			out = append(out, component.Transform{X: x, Y: y})
		}
	}
	return out, nil
}

func newBounds(w *ecs.World, spec prefabs.ArenaSpec, width, height float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	body := &component.PhysicsBody{
		Kind:        component.ShapeEdgeLoop,
		Mode:        component.BodyStatic,
		Width:       width,
		Height:      height,
		Friction:    spec.Bounds.Material.Friction,
		Restitution: spec.Bounds.Material.Restitution,
		OpenBottom:  spec.Bottom.Sensor,
	}
	layer := &component.CollisionLayer{Category: component.CategoryWall}
	style := &component.ShapeStyle{Fill: spec.Bounds.Color.Or(color.NRGBA{R: 0x5c, G: 0x6b, B: 0xc0, A: 0xff}), Stroke: 2}
	if err := addBody(w, e, &component.Transform{}, body, layer, style, layerBounds); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("bounds: %w", err)
	}
	if err := ecs.Add(w, e, component.WallTagComponent.Kind(), &component.WallTag{}); err != nil {
		return 0, fmt.Errorf("bounds: add tag: %w", err)
	}
	return e, nil
}

func newBottom(w *ecs.World, spec prefabs.ArenaSpec, width float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	body := &component.PhysicsBody{
		Kind:        component.ShapeEdgeLoop,
		Mode:        component.BodyStatic,
		Width:       width,
		Height:      spec.Bottom.Height,
		Friction:    spec.Bounds.Material.Friction,
		Restitution: spec.Bounds.Material.Restitution,
		Sensor:      spec.Bottom.Sensor,
	}
	layer := &component.CollisionLayer{Category: component.CategoryBottom}
	style := &component.ShapeStyle{Fill: spec.Bottom.Color.Or(color.NRGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff}), Stroke: 2}
	if err := addBody(w, e, &component.Transform{}, body, layer, style, layerBounds); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("bottom: %w", err)
	}
	if err := ecs.Add(w, e, component.BottomTagComponent.Kind(), &component.BottomTag{}); err != nil {
		return 0, fmt.Errorf("bottom: add tag: %w", err)
	}
	return e, nil
}

func newBall(w *ecs.World, spec prefabs.BallSpec, width, height float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	radius := spec.Width / 2
	tr := &component.Transform{X: width / spec.StartDivisor, Y: height / spec.StartDivisor}
	body := &component.PhysicsBody{
		Kind:           component.ShapeCircle,
		Mode:           component.BodyDynamic,
		Width:          spec.Width,
		Height:         spec.Width,
		Radius:         radius,
		Mass:           spec.Mass,
		Friction:       spec.Material.Friction,
		Restitution:    spec.Material.Restitution,
		LinearDamping:  spec.LinearDamping,
		AllowsRotation: spec.AllowsRotation,
	}
	layer := &component.CollisionLayer{
		Category:    component.CategoryBall,
		ContactMask: component.CategoryBottom | component.CategoryBlock,
	}
	style := &component.ShapeStyle{Fill: spec.Color.Or(color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff})}
	if err := addBody(w, e, tr, body, layer, style, layerBall); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("ball: %w", err)
	}
	if err := ecs.Add(w, e, component.BallTagComponent.Kind(), &component.BallTag{}); err != nil {
		return 0, fmt.Errorf("ball: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.ImpulseComponent.Kind(), &component.Impulse{X: spec.Impulse.X, Y: spec.Impulse.Y}); err != nil {
		return 0, fmt.Errorf("ball: add impulse: %w", err)
	}
	return e, nil
}

func newPaddle(w *ecs.World, spec prefabs.PaddleSpec, width float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	tr := &component.Transform{X: width / 2, Y: spec.Height * 2}
	body := &component.PhysicsBody{
		Kind:        component.ShapeBox,
		Mode:        component.BodyKinematic,
		Width:       spec.Width,
		Height:      spec.Height,
		Friction:    spec.Material.Friction,
		Restitution: spec.Material.Restitution,
	}
	layer := &component.CollisionLayer{Category: component.CategoryPaddle}
	style := &component.ShapeStyle{Fill: spec.Color.Or(color.NRGBA{R: 0x4f, G: 0xc3, B: 0xf7, A: 0xff})}
	if err := addBody(w, e, tr, body, layer, style, layerPaddle); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("paddle: %w", err)
	}
	if err := ecs.Add(w, e, component.PaddleTagComponent.Kind(), &component.PaddleTag{}); err != nil {
		return 0, fmt.Errorf("paddle: add tag: %w", err)
	}
	return e, nil
}

func newBlock(w *ecs.World, spec prefabs.BlockSpec, at component.Transform) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	tr := at
	body := &component.PhysicsBody{
		Kind:        component.ShapeBox,
		Mode:        component.BodyStatic,
		Width:       spec.Width,
		Height:      spec.Height,
		Friction:    spec.Material.Friction,
		Restitution: spec.Material.Restitution,
	}
	layer := &component.CollisionLayer{Category: component.CategoryBlock}
	style := &component.ShapeStyle{Fill: spec.Color.Or(color.NRGBA{R: 0xff, G: 0x8a, B: 0x65, A: 0xff})}
	if err := addBody(w, e, &tr, body, layer, style, layerBlocks); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	if err := ecs.Add(w, e, component.BlockTagComponent.Kind(), &component.BlockTag{}); err != nil {
		return 0, fmt.Errorf("add tag: %w", err)
	}
	return e, nil
}

func addBody(w *ecs.World, e ecs.Entity, tr *component.Transform, body *component.PhysicsBody, layer *component.CollisionLayer, style *component.ShapeStyle, renderLayer int) error {
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), tr); err != nil {
		return fmt.Errorf("add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return fmt.Errorf("add physics body: %w", err)
	}
	if err := ecs.Add(w, e, component.CollisionLayerComponent.Kind(), layer); err != nil {
		return fmt.Errorf("add collision layer: %w", err)
	}
	if err := ecs.Add(w, e, component.ShapeStyleComponent.Kind(), style); err != nil {
		return fmt.Errorf("add shape style: %w", err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: renderLayer}); err != nil {
		return fmt.Errorf("add render layer: %w", err)
	}
	return nil
}
