package scene

import (
	"fmt"
	"log"

	"github.com/milk9111/breakout/ecs/component"
	"github.com/milk9111/breakout/prefabs"
)

// State is the director's current scene.
type State int

const (
	StatePlaying State = iota
	StateGameOver
)

func (s State) String() string {
	if s == StateGameOver {
		return "game over"
	}
	return "playing"
}

// GameOver is the end-of-round scene.
type GameOver struct {
	Outcome component.Outcome
}

func (g GameOver) Message() string {
	if g.Outcome == component.OutcomeWon {
		return "YOU WIN!"
	}
	return "GAME OVER!"
}

// Director owns the current round and moves between playing and the
// game over screen. Every new round gets a freshly built arena.
type Director struct {
	spec   prefabs.ArenaSpec
	width  float64
	height float64

	state   State
	play    *Play
	over    GameOver
	restart bool
}

func NewDirector(spec prefabs.ArenaSpec, width, height float64) (*Director, error) {
	d := &Director{spec: spec, width: width, height: height}
	if err := d.Restart(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Director) Update() error {
	switch d.state {
	case StatePlaying:
		d.play.Update()
		if outcome, ok := d.play.TakeGameOver(); ok {
			d.state = StateGameOver
			d.over = GameOver{Outcome: outcome}
			d.restart = false
			log.Printf("scene: round over (%s)", outcome)
		}
	case StateGameOver:
		if d.restart {
			return d.Restart()
		}
	}
	return nil
}

// Restart discards the current round and starts a new one.
func (d *Director) Restart() error {
	play, err := NewPlay(d.spec, d.width, d.height)
	if err != nil {
		return fmt.Errorf("scene: restart: %w", err)
	}
	d.play = play
	d.state = StatePlaying
	d.over = GameOver{}
	d.restart = false
	return nil
}

// Reload swaps the arena spec and restarts. On error the running round is
// kept.
func (d *Director) Reload(spec prefabs.ArenaSpec) error {
	prev := d.spec
	d.spec = spec
	if err := d.Restart(); err != nil {
		d.spec = prev
		return err
	}
	log.Printf("scene: reloaded arena %q", spec.Name)
	return nil
}

// PointerDown forwards to the round, or on the game over screen asks for a
// new round on the next update.
func (d *Director) PointerDown(pt Point) {
	switch d.state {
	case StatePlaying:
		d.play.PointerDown(pt)
	case StateGameOver:
		d.restart = true
	}
}

func (d *Director) PointerMove(pt, prev Point) {
	if d.state == StatePlaying {
		d.play.PointerMove(pt, prev)
	}
}

func (d *Director) PointerUp() {
	if d.state == StatePlaying {
		d.play.PointerUp()
	}
}

// RequestRestart is the game over screen's replay action.
func (d *Director) RequestRestart() {
	if d.state == StateGameOver {
		d.restart = true
	}
}

func (d *Director) State() State {
	return d.state
}

// Play returns the current round. It stays valid on the game over screen so
// the final arena can still be drawn.
func (d *Director) Play() *Play {
	return d.play
}

func (d *Director) GameOver() GameOver {
	return d.over
}
