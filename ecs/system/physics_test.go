package system

import (
	"math"
	"testing"

	"github.com/milk9111/breakout/ecs"
	"github.com/milk9111/breakout/ecs/component"
	"github.com/milk9111/breakout/ecs/entity"
	"github.com/milk9111/breakout/prefabs"
)

func addBody(t *testing.T, w *ecs.World, tr component.Transform, body component.PhysicsBody, layer component.CollisionLayer) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &tr); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &body); err != nil {
		t.Fatalf("add body: %v", err)
	}
	if err := ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &layer); err != nil {
		t.Fatalf("add layer: %v", err)
	}
	return e
}

func addBall(t *testing.T, w *ecs.World, x, y, vy float64, contacts component.Category) ecs.Entity {
	t.Helper()
	e := addBody(t, w,
		component.Transform{X: x, Y: y},
		component.PhysicsBody{Kind: component.ShapeCircle, Mode: component.BodyDynamic, Radius: 5, Mass: 1, Restitution: 1},
		component.CollisionLayer{Category: component.CategoryBall, ContactMask: contacts},
	)
	if err := ecs.Add(w, e, component.ImpulseComponent.Kind(), &component.Impulse{Y: vy}); err != nil {
		t.Fatalf("add impulse: %v", err)
	}
	return e
}

func contactsUntil(w *ecs.World, ps *PhysicsSystem, frames int) []ecs.ContactEvent {
	var out []ecs.ContactEvent
	for i := 0; i < frames; i++ {
		ps.Update(w)
		for _, evt := range w.Events().Take(ecs.EventContact) {
			out = append(out, evt.Data.(ecs.ContactEvent))
		}
		if len(out) > 0 {
			return out
		}
	}
	return out
}

func samePair(c ecs.ContactEvent, a, b ecs.Entity) bool {
	return (c.A == a && c.B == b) || (c.A == b && c.B == a)
}

func TestPhysicsSyncAppliesImpulseOnce(t *testing.T) {
	spec, err := prefabs.LoadArenaSpec("")
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	w := ecs.NewWorld()
	arena, err := entity.BuildArena(w, spec, 320, 480)
	if err != nil {
		t.Fatalf("build arena: %v", err)
	}

	ps := NewPhysicsSystem()
	ps.Sync(w)

	body, _ := ecs.Get(w, arena.Ball, component.PhysicsBodyComponent.Kind())
	if body.Body == nil {
		t.Fatalf("ball body not created")
	}
	if ecs.Has(w, arena.Ball, component.ImpulseComponent.Kind()) {
		t.Fatalf("impulse should be consumed once applied")
	}
	v := body.Body.Velocity()
	want := spec.Ball.Impulse.X / spec.Ball.Mass
	if math.Abs(v.X-want) > 1e-6 || math.Abs(v.Y+want) > 1e-6 {
		t.Fatalf("ball velocity %v, want (%v,%v)", v, want, -want)
	}

	ps.Sync(w)
	if v2 := body.Body.Velocity(); v2 != v {
		t.Fatalf("second sync changed velocity from %v to %v", v, v2)
	}

	start, _ := ecs.Get(w, arena.Ball, component.TransformComponent.Kind())
	x0, y0 := start.X, start.Y
	ps.Update(w)
	moved, _ := ecs.Get(w, arena.Ball, component.TransformComponent.Kind())
	if moved.X <= x0 || moved.Y >= y0 {
		t.Fatalf("ball should move down-right, went from (%v,%v) to (%v,%v)", x0, y0, moved.X, moved.Y)
	}
}

func TestPhysicsHitTest(t *testing.T) {
	spec, err := prefabs.LoadArenaSpec("")
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	w := ecs.NewWorld()
	arena, err := entity.BuildArena(w, spec, 320, 480)
	if err != nil {
		t.Fatalf("build arena: %v", err)
	}
	ps := NewPhysicsSystem()
	ps.Sync(w)

	paddle, _ := ecs.Get(w, arena.Paddle, component.TransformComponent.Kind())
	block, _ := ecs.Get(w, arena.Blocks[0], component.TransformComponent.Kind())

	tests := []struct {
		name   string
		x, y   float64
		want   ecs.Entity
		wantOK bool
	}{
		{"paddle_centre", paddle.X, paddle.Y, arena.Paddle, true},
		{"paddle_edge", paddle.X + spec.Paddle.Width/2 - 1, paddle.Y, arena.Paddle, true},
		{"block", block.X, block.Y, arena.Blocks[0], true},
		{"empty", 160, 240, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ps.HitTest(tc.x, tc.y)
			if ok != tc.wantOK || (ok && got != tc.want) {
				t.Fatalf("HitTest(%v,%v) = %v,%v want %v,%v", tc.x, tc.y, got, ok, tc.want, tc.wantOK)
			}
		})
	}

	t.Run("kinematic_follows_transform", func(t *testing.T) {
		paddle.X += 60
		ps.Update(w)
		got, ok := ps.HitTest(paddle.X+30, paddle.Y)
		if !ok || got != arena.Paddle {
			t.Fatalf("expected moved paddle under the pointer, got %v,%v", got, ok)
		}
	})

	t.Run("removed_entity", func(t *testing.T) {
		ps.RemoveEntity(arena.Blocks[0])
		if _, ok := ps.HitTest(block.X, block.Y); ok {
			t.Fatalf("removed block still hit")
		}
	})
}

func TestPhysicsContactEvents(t *testing.T) {
	t.Run("ball_block", func(t *testing.T) {
		w := ecs.NewWorld()
		ps := NewPhysicsSystem()
		ball := addBall(t, w, 50, 20, 300, component.CategoryBlock)
		block := addBody(t, w,
			component.Transform{X: 50, Y: 60},
			component.PhysicsBody{Kind: component.ShapeBox, Mode: component.BodyStatic, Width: 30, Height: 14},
			component.CollisionLayer{Category: component.CategoryBlock},
		)

		got := contactsUntil(w, ps, 60)
		if len(got) != 1 || !samePair(got[0], ball, block) {
			t.Fatalf("expected one ball/block contact, got %v", got)
		}
	})

	t.Run("unlisted_category_is_silent", func(t *testing.T) {
		w := ecs.NewWorld()
		ps := NewPhysicsSystem()
		addBall(t, w, 50, 20, 300, component.CategoryBlock)
		addBody(t, w,
			component.Transform{X: 50, Y: 60},
			component.PhysicsBody{Kind: component.ShapeBox, Mode: component.BodyKinematic, Width: 30, Height: 14},
			component.CollisionLayer{Category: component.CategoryPaddle},
		)

		if got := contactsUntil(w, ps, 60); len(got) != 0 {
			t.Fatalf("paddle contacts should not be reported, got %v", got)
		}
	})

	t.Run("sensor_bottom", func(t *testing.T) {
		w := ecs.NewWorld()
		ps := NewPhysicsSystem()
		ball := addBall(t, w, 50, 30, -300, component.CategoryBottom)
		bottom := addBody(t, w,
			component.Transform{},
			component.PhysicsBody{Kind: component.ShapeEdgeLoop, Mode: component.BodyStatic, Width: 100, Height: 1, Sensor: true},
			component.CollisionLayer{Category: component.CategoryBottom},
		)

		// Each segment of the loop reports separately.
		got := contactsUntil(w, ps, 60)
		if len(got) == 0 {
			t.Fatalf("expected a ball/bottom contact")
		}
		for _, c := range got {
			if !samePair(c, ball, bottom) {
				t.Fatalf("unexpected contact %v", c)
			}
		}
	})
}

func TestPhysicsCleansUpDestroyedEntities(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	block := addBody(t, w,
		component.Transform{X: 50, Y: 60},
		component.PhysicsBody{Kind: component.ShapeBox, Mode: component.BodyStatic, Width: 30, Height: 14},
		component.CollisionLayer{Category: component.CategoryBlock},
	)
	ps.Sync(w)
	if _, ok := ps.HitTest(50, 60); !ok {
		t.Fatalf("expected block to be hit before destroy")
	}

	ecs.DestroyEntity(w, block)
	ps.Sync(w)
	if _, ok := ps.HitTest(50, 60); ok {
		t.Fatalf("destroyed block still in the space")
	}
}
