package main

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/plus3/birch/ecs"
)

// Body moves in a unit square and bounces off its edges.
type Body struct {
	ecs.BaseComponent
	X, Y   float64
	VX, VY float64
}

func (b *Body) Update() {
	b.X += b.VX
	b.Y += b.VY
	if b.X < 0 || b.X > 1 {
		b.VX = -b.VX
	}
	if b.Y < 0 || b.Y > 1 {
		b.VY = -b.VY
	}
}

// Lifetime destroys its entity after a number of frames.
type Lifetime struct {
	ecs.BaseComponent
	Remaining int
}

func (l *Lifetime) Update() {
	l.Remaining--
	if l.Remaining <= 0 {
		l.Entity().Destroy()
	}
}

// Renderable accumulates a checksum in Draw so draw traversal is not optimized away.
type Renderable struct {
	ecs.BaseComponent
	Sink *float64

	body *Body
}

func (r *Renderable) Init() {
	r.body, _ = ecs.LookupComponent[*Body](r.Entity())
}

func (r *Renderable) Draw() {
	if r.body != nil {
		*r.Sink += r.body.X + r.body.Y
	}
}

// Director keeps the population at Target and destroys a random Churn fraction each frame.
// It lives on its own entity, created before any stress entity.
type Director struct {
	ecs.BaseComponent
	Target      int
	Churn       float64
	MaxLifetime int
	Rand        *rand.Rand
	Logger      *zap.Logger
	Sink        float64
}

func (d *Director) Update() {
	manager := d.Entity().Manager()

	if d.Churn > 0 {
		for e := range manager.Entities() {
			if e != d.Entity() && d.Rand.Float64() < d.Churn {
				e.Destroy()
			}
		}
	}

	// The director's own entity is not part of the population.
	for missing := d.Target - (manager.Len() - 1); missing > 0; missing-- {
		if err := d.spawn(manager); err != nil {
			if d.Logger != nil {
				d.Logger.Warn("spawn failed", zap.Error(err))
			}
			return
		}
	}
}

func (d *Director) spawn(manager *ecs.Manager) error {
	entity := manager.AddEntity()

	if _, err := ecs.AddComponent(entity, &Body{
		X:  d.Rand.Float64(),
		Y:  d.Rand.Float64(),
		VX: (d.Rand.Float64() - 0.5) / 100,
		VY: (d.Rand.Float64() - 0.5) / 100,
	}); err != nil {
		entity.Destroy()
		return errors.Wrap(err, "spawn body")
	}
	if _, err := ecs.AddComponent(entity, &Lifetime{Remaining: 1 + d.Rand.IntN(d.MaxLifetime)}); err != nil {
		entity.Destroy()
		return errors.Wrap(err, "spawn lifetime")
	}
	if d.Rand.IntN(2) == 0 {
		if _, err := ecs.AddComponent(entity, &Renderable{Sink: &d.Sink}); err != nil {
			entity.Destroy()
			return errors.Wrap(err, "spawn renderable")
		}
	}
	return nil
}
