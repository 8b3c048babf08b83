package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/breakout/scene"
)

// PointerTarget receives pointer gestures in arena coordinates.
type PointerTarget interface {
	PointerDown(pt scene.Point)
	PointerMove(pt, prev scene.Point)
	PointerUp()
}

// Pointer follows a single mouse button or touch and turns it into
// press/move/release calls. Other touches are ignored while one is held.
type Pointer struct {
	arenaHeight float64

	active  bool
	touch   bool
	touchID ebiten.TouchID
	last    scene.Point

	touchIDs []ebiten.TouchID
}

func NewPointer(arenaHeight float64) *Pointer {
	return &Pointer{arenaHeight: arenaHeight}
}

func (p *Pointer) Update(target PointerTarget) {
	if p.active {
		p.updateActive(target)
		return
	}

	p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
	if len(p.touchIDs) > 0 {
		id := p.touchIDs[0]
		p.active = true
		p.touch = true
		p.touchID = id
		p.last = p.toArena(ebiten.TouchPosition(id))
		target.PointerDown(p.last)
		return
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		p.active = true
		p.touch = false
		p.last = p.toArena(ebiten.CursorPosition())
		target.PointerDown(p.last)
	}
}

func (p *Pointer) updateActive(target PointerTarget) {
	var released bool
	var pt scene.Point
	if p.touch {
		released = inpututil.IsTouchJustReleased(p.touchID)
		if !released {
			pt = p.toArena(ebiten.TouchPosition(p.touchID))
		}
	} else {
		released = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) || !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
		if !released {
			pt = p.toArena(ebiten.CursorPosition())
		}
	}

	if released {
		p.active = false
		target.PointerUp()
		return
	}
	if pt != p.last {
		target.PointerMove(pt, p.last)
		p.last = pt
	}
}

// Cancel ends any held gesture, as when the scene under it goes away.
func (p *Pointer) Cancel(target PointerTarget) {
	if !p.active {
		return
	}
	p.active = false
	target.PointerUp()
}

func (p *Pointer) toArena(x, y int) scene.Point {
	return scene.Point{X: float64(x), Y: p.arenaHeight - float64(y)}
}
