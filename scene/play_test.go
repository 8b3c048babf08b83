package scene

import (
	"testing"

	"github.com/milk9111/breakout/ecs"
	"github.com/milk9111/breakout/ecs/component"
	"github.com/milk9111/breakout/ecs/system"
	"github.com/milk9111/breakout/prefabs"
)

func defaultSpec(t *testing.T) prefabs.ArenaSpec {
	t.Helper()
	spec, err := prefabs.LoadArenaSpec("")
	if err != nil {
		t.Fatalf("load arena spec: %v", err)
	}
	return spec
}

func newTestPlay(t *testing.T) *Play {
	t.Helper()
	p, err := NewPlay(defaultSpec(t), 320, 480)
	if err != nil {
		t.Fatalf("new play: %v", err)
	}
	return p
}

func paddlePos(t *testing.T, p *Play) Point {
	t.Helper()
	tr, ok := ecs.Get(p.World(), p.Arena().Paddle, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("paddle has no transform")
	}
	return Point{X: tr.X, Y: tr.Y}
}

func TestNewPlayInitialState(t *testing.T) {
	p := newTestPlay(t)
	if p.BlockCount() != 18 {
		t.Fatalf("expected 18 blocks, got %d", p.BlockCount())
	}
	if p.IsGameWon() || p.Finished() {
		t.Fatalf("fresh round should not be over")
	}
	if p.DragState() != system.DragIdle {
		t.Fatalf("fresh round should not be dragging")
	}
	if p.Space() == nil {
		t.Fatalf("expected a physics space")
	}
}

func TestPlayClearAllBlocksScenario(t *testing.T) {
	p := newTestPlay(t)
	blocks := append([]ecs.Entity(nil), p.Arena().Blocks...)

	for i, b := range blocks {
		p.HandleContact(p.Arena().Ball, b)
		if p.BlockCount() != 17-i {
			t.Fatalf("after contact %d expected %d blocks, got %d", i+1, 17-i, p.BlockCount())
		}
		if won := p.IsGameWon(); won != (i == 17) {
			t.Fatalf("after contact %d IsGameWon = %v", i+1, won)
		}
	}

	outcome, ok := p.TakeGameOver()
	if !ok || outcome != component.OutcomeWon {
		t.Fatalf("expected won request, got %s ok=%v", outcome, ok)
	}
	if _, ok := p.TakeGameOver(); ok {
		t.Fatalf("request should be consumed once")
	}
}

func TestPlayBottomContactScenario(t *testing.T) {
	p := newTestPlay(t)
	if got := p.HandleContact(p.Arena().Bottom, p.Arena().Ball); got != component.OutcomeLost {
		t.Fatalf("expected lost, got %s", got)
	}
	if p.IsGameWon() {
		t.Fatalf("lost round reported as won")
	}
	if p.BlockCount() != 18 {
		t.Fatalf("expected blocks untouched, got %d", p.BlockCount())
	}
	outcome, ok := p.TakeGameOver()
	if !ok || outcome != component.OutcomeLost {
		t.Fatalf("expected lost request, got %s ok=%v", outcome, ok)
	}
}

func TestPlayPaddleDragScenario(t *testing.T) {
	p := newTestPlay(t)
	start := paddlePos(t, p)
	half := defaultSpec(t).Paddle.Width / 2

	p.PointerDown(start)
	if p.DragState() != system.DragDragging {
		t.Fatalf("press on paddle should start dragging")
	}

	near := Point{X: 320 - half - 10, Y: start.Y}
	p.PointerMove(near, start)
	p.PointerMove(Point{X: near.X + 50, Y: near.Y}, near)
	if got := paddlePos(t, p); got.X != 320-half || got.Y != start.Y {
		t.Fatalf("expected paddle clamped at (%v,%v), got %+v", 320-half, start.Y, got)
	}

	p.PointerUp()
	if p.DragState() != system.DragIdle {
		t.Fatalf("release should return to idle")
	}
	p.PointerMove(Point{X: 0, Y: 0}, Point{X: 200, Y: 0})
	if got := paddlePos(t, p); got.X != 320-half {
		t.Fatalf("move after release changed paddle to %v", got.X)
	}
}

func TestPlayPressOffPaddle(t *testing.T) {
	p := newTestPlay(t)
	p.PointerDown(Point{X: 10, Y: 400})
	if p.DragState() != system.DragIdle {
		t.Fatalf("press away from paddle should not start dragging")
	}
	before := paddlePos(t, p)
	p.PointerMove(Point{X: 100, Y: 400}, Point{X: 10, Y: 400})
	if got := paddlePos(t, p); got != before {
		t.Fatalf("idle move changed paddle from %+v to %+v", before, got)
	}
}

func TestPlayIgnoresInputAfterGameOver(t *testing.T) {
	p := newTestPlay(t)
	p.HandleContact(p.Arena().Ball, p.Arena().Bottom)

	p.PointerDown(paddlePos(t, p))
	if p.DragState() != system.DragIdle {
		t.Fatalf("finished round should ignore presses")
	}
	p.HandleContact(p.Arena().Ball, p.Arena().Blocks[0])
	if p.BlockCount() != 18 {
		t.Fatalf("finished round should ignore contacts")
	}
}

func TestPlayUntouchedBallFallsToBottom(t *testing.T) {
	p := newTestPlay(t)
	for i := 0; i < 600 && !p.Finished(); i++ {
		p.Update()
	}
	if p.Outcome() != component.OutcomeLost {
		t.Fatalf("expected the unplayed ball to reach the bottom, outcome %s", p.Outcome())
	}
	if p.BlockCount() != 18 {
		t.Fatalf("expected no blocks cleared, got %d", p.BlockCount())
	}
}
