package scene

import (
	"testing"

	"github.com/milk9111/breakout/ecs/component"
)

func newTestDirector(t *testing.T) *Director {
	t.Helper()
	d, err := NewDirector(defaultSpec(t), 320, 480)
	if err != nil {
		t.Fatalf("new director: %v", err)
	}
	return d
}

func TestDirectorLoseAndRestart(t *testing.T) {
	d := newTestDirector(t)
	if d.State() != StatePlaying {
		t.Fatalf("director should start playing, got %s", d.State())
	}

	first := d.Play()
	first.HandleContact(first.Arena().Ball, first.Arena().Bottom)
	if err := d.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if d.State() != StateGameOver {
		t.Fatalf("expected game over, got %s", d.State())
	}
	if msg := d.GameOver().Message(); msg != "GAME OVER!" {
		t.Fatalf("unexpected message %q", msg)
	}
	if d.Play() != first {
		t.Fatalf("finished round should stay available for drawing")
	}

	if err := d.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if d.State() != StateGameOver {
		t.Fatalf("game over should wait for a press")
	}

	d.PointerDown(Point{X: 10, Y: 10})
	if err := d.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if d.State() != StatePlaying {
		t.Fatalf("press should start a new round, got %s", d.State())
	}
	if d.Play() == first {
		t.Fatalf("expected a freshly built round")
	}
	if d.Play().BlockCount() != 18 {
		t.Fatalf("new round has %d blocks", d.Play().BlockCount())
	}
}

func TestDirectorWinMessage(t *testing.T) {
	d := newTestDirector(t)
	p := d.Play()
	for _, b := range p.Arena().Blocks {
		p.HandleContact(b, p.Arena().Ball)
	}
	if err := d.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	over := d.GameOver()
	if d.State() != StateGameOver || over.Outcome != component.OutcomeWon {
		t.Fatalf("expected won game over, got %s %s", d.State(), over.Outcome)
	}
	if over.Message() != "YOU WIN!" {
		t.Fatalf("unexpected message %q", over.Message())
	}

	d.RequestRestart()
	if err := d.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if d.State() != StatePlaying {
		t.Fatalf("replay should start a new round")
	}
}

func TestDirectorRequestRestartWhilePlaying(t *testing.T) {
	d := newTestDirector(t)
	p := d.Play()
	d.RequestRestart()
	if err := d.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if d.Play() != p || d.State() != StatePlaying {
		t.Fatalf("restart request during play should be ignored")
	}
}

func TestDirectorForwardsPointer(t *testing.T) {
	d := newTestDirector(t)
	pos := paddlePos(t, d.Play())
	d.PointerDown(pos)
	d.PointerMove(Point{X: pos.X - 30, Y: pos.Y}, pos)
	d.PointerUp()
	if got := paddlePos(t, d.Play()); got.X != pos.X-30 {
		t.Fatalf("expected paddle at %v, got %v", pos.X-30, got.X)
	}
}

func TestDirectorReload(t *testing.T) {
	d := newTestDirector(t)
	p := d.Play()

	bad := defaultSpec(t)
	bad.Grid.RowY = nil
	if err := d.Reload(bad); err == nil {
		t.Fatalf("expected reload of invalid spec to fail")
	}
	if d.Play() != p {
		t.Fatalf("failed reload should keep the running round")
	}

	good := defaultSpec(t)
	good.Grid.Columns = 4
	if err := d.Reload(good); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := d.Play().BlockCount(); got != 12 {
		t.Fatalf("expected 12 blocks after reload, got %d", got)
	}
}
