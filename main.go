package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "draw physics colliders and hot reload prefabs from disk")
	width := flag.Float64("width", 0, "arena width (defaults to the prefab's)")
	height := flag.Float64("height", 0, "arena height (defaults to the prefab's)")
	arenaName := flag.String("arena", "", "arena prefab in prefabs/ (basename, .yaml optional)")
	flag.Parse()

	game, err := NewGame(*arenaName, *width, *height, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(game.width)*2, int(game.height)*2)
	ebiten.SetWindowTitle("breakout")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
