package main

import (
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/breakout/ecs/render"
	"github.com/milk9111/breakout/prefabs"
	"github.com/milk9111/breakout/scene"
)

type Game struct {
	frames int
	debug  bool

	width     float64
	height    float64
	arenaName string

	director *scene.Director
	pointer  *Pointer
	renderer *render.Renderer
	watcher  *prefabs.Watcher

	overlay      *ebitenui.UI
	overlayState scene.State
}

func NewGame(arenaName string, width, height float64, debug bool) (*Game, error) {
	if arenaName == "" {
		arenaName = prefabs.DefaultArena
	}
	arenaName = prefabs.CleanName(arenaName)

	spec, err := prefabs.LoadArenaSpec(arenaName)
	if err != nil {
		return nil, err
	}
	if width <= 0 {
		width = spec.Width
	}
	if height <= 0 {
		height = spec.Height
	}

	director, err := scene.NewDirector(spec, width, height)
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:     debug,
		width:     width,
		height:    height,
		arenaName: arenaName,
		director:  director,
		pointer:   NewPointer(height),
		renderer:  render.NewRenderer(height),
	}

	if debug {
		watcher, err := prefabs.NewWatcher("prefabs")
		if err != nil {
			log.Printf("prefabs: hot reload disabled: %v", err)
		} else {
			g.watcher = watcher
		}
	}

	return g, nil
}

func (g *Game) Update() error {
	g.frames++

	g.pollReload()

	if g.director.State() == scene.StateGameOver && g.overlay != nil {
		g.overlay.Update()
	}

	g.pointer.Update(g.director)

	prev := g.director.State()
	if err := g.director.Update(); err != nil {
		return err
	}
	if state := g.director.State(); state != prev {
		g.pointer.Cancel(g.director)
		g.syncOverlay()
	}

	return nil
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	if err := g.watcher.Err(); err != nil {
		log.Printf("prefabs: watch: %v", err)
	}
	name, ok := g.watcher.Poll()
	if !ok {
		return
	}
	if name != g.arenaName {
		return
	}
	spec, err := prefabs.LoadArenaSpec(name)
	if err != nil {
		log.Printf("prefabs: reload %s: %v", name, err)
		return
	}
	if err := g.director.Reload(spec); err != nil {
		log.Printf("prefabs: reload %s: %v", name, err)
		return
	}
	if mod, ok := prefabs.ModTime(name); ok {
		log.Printf("prefabs: %s reloaded (modified %s)", name, mod.Format("15:04:05"))
	}
	g.pointer.Cancel(g.director)
	g.syncOverlay()
}

func (g *Game) syncOverlay() {
	g.overlayState = g.director.State()
	if g.overlayState != scene.StateGameOver {
		g.overlay = nil
		return
	}
	g.overlay = NewGameOverUI(g.director.GameOver().Message(), int(g.width), int(g.height), g.director.RequestRestart)
}

func (g *Game) Draw(screen *ebiten.Image) {
	play := g.director.Play()
	g.renderer.Draw(play.World(), screen)

	if g.debug {
		render.DrawPhysicsDebug(play.Space(), g.height, screen)
		render.DrawStatus(screen, play.BlockCount(), play.DragState())
	}

	if g.overlayState == scene.StateGameOver && g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.width, g.height
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
