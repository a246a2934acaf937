package ebitengame

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/birch/ecs"
)

// Transform positions an entity in screen space.
type Transform struct {
	ecs.BaseComponent
	X, Y   float32
	VX, VY float32
}

// Update integrates velocity. Velocities are in pixels per tick.
func (t *Transform) Update() {
	t.X += t.VX
	t.Y += t.VY
}

// Rect fills a rectangle at its entity's Transform.
type Rect struct {
	ecs.BaseComponent
	Canvas *Canvas
	W, H   float32
	Color  color.Color

	transform *Transform
}

// Init resolves the sibling Transform; a Rect added before its Transform draws at the origin.
func (r *Rect) Init() {
	r.transform, _ = ecs.LookupComponent[*Transform](r.Entity())
}

func (r *Rect) Draw() {
	screen := r.Canvas.Screen()
	if screen == nil {
		return
	}
	var x, y float32
	if r.transform != nil {
		x, y = r.transform.X, r.transform.Y
	}
	vector.DrawFilledRect(screen, x, y, r.W, r.H, r.Color, false)
}
