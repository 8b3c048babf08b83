package render

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/breakout/ecs"
	"github.com/milk9111/breakout/ecs/component"
	"golang.org/x/image/colornames"
)

// Background is the arena clear colour.
var Background = colornames.Midnightblue

// Renderer draws every styled body as a plain shape. Arena coordinates are
// y-up, so every y is flipped against the arena height.
type Renderer struct {
	arenaHeight float64
}

func NewRenderer(arenaHeight float64) *Renderer {
	return &Renderer{arenaHeight: arenaHeight}
}

func (r *Renderer) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	screen.Fill(Background)

	entities := w.Query(
		component.TransformComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
		component.ShapeStyleComponent.Kind(),
	)
	sort.SliceStable(entities, func(i, j int) bool {
		li := 0
		if layer, ok := ecs.Get(w, entities[i], component.RenderLayerComponent.Kind()); ok {
			li = layer.Index
		}
		lj := 0
		if layer, ok := ecs.Get(w, entities[j], component.RenderLayerComponent.Kind()); ok {
			lj = layer.Index
		}
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		style, _ := ecs.Get(w, e, component.ShapeStyleComponent.Kind())
		r.drawBody(screen, t, body, style)
	}
}

func (r *Renderer) drawBody(screen *ebiten.Image, t *component.Transform, body *component.PhysicsBody, style *component.ShapeStyle) {
	stroke := style.Stroke
	if stroke <= 0 {
		stroke = 1
	}

	switch body.Kind {
	case component.ShapeCircle:
		x, y := r.toScreen(t.X, t.Y)
		vector.FillCircle(screen, x, y, float32(body.Radius), style.Fill, true)
	case component.ShapeEdgeLoop:
		left, top := r.toScreen(t.X, t.Y+body.Height)
		right, bottom := r.toScreen(t.X+body.Width, t.Y)
		vector.StrokeLine(screen, left, top, right, top, stroke, style.Fill, false)
		vector.StrokeLine(screen, left, top, left, bottom, stroke, style.Fill, false)
		vector.StrokeLine(screen, right, top, right, bottom, stroke, style.Fill, false)
		if !body.OpenBottom {
			vector.StrokeLine(screen, left, bottom, right, bottom, stroke, style.Fill, false)
		}
	default:
		x, y := r.toScreen(t.X-body.Width/2, t.Y+body.Height/2)
		vector.FillRect(screen, x, y, float32(body.Width), float32(body.Height), style.Fill, false)
		vector.StrokeRect(screen, x, y, float32(body.Width), float32(body.Height), 1, shade(style.Fill), false)
	}
}

func (r *Renderer) toScreen(x, y float64) (float32, float32) {
	return float32(x), float32(r.arenaHeight - y)
}

func shade(c color.NRGBA) color.NRGBA {
	return color.NRGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}
