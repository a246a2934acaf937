package ecs_test

import "github.com/plus3/birch/ecs"

// Common test component types
type Position struct {
	ecs.BaseComponent
	X, Y float64
}

type Velocity struct {
	ecs.BaseComponent
	DX, DY float64
}

func (v *Velocity) Update() {
	pos, ok := ecs.LookupComponent[*Position](v.Entity())
	if !ok {
		return
	}
	pos.X += v.DX
	pos.Y += v.DY
}

type Health struct {
	ecs.BaseComponent
	Current, Max int
}

// Counter counts how often its hooks run.
type Counter struct {
	ecs.BaseComponent
	Inits   int
	Updates int
	Draws   int
}

func (c *Counter) Init()   { c.Inits++ }
func (c *Counter) Update() { c.Updates++ }
func (c *Counter) Draw()   { c.Draws++ }

// Tracer appends "<name>.<hook>" to a shared log and remembers the owner seen by Init.
type Tracer struct {
	ecs.BaseComponent
	Name      string
	Log       *[]string
	InitOwner *ecs.Entity
}

func (t *Tracer) Init() {
	t.InitOwner = t.Entity()
	*t.Log = append(*t.Log, t.Name+".init")
}

func (t *Tracer) Update() { *t.Log = append(*t.Log, t.Name+".update") }
func (t *Tracer) Draw()   { *t.Log = append(*t.Log, t.Name+".draw") }

// SecondTracer is a distinct type with Tracer's behavior.
type SecondTracer struct {
	Tracer
}

// Lifetime destroys its entity after a number of updates.
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

func newTestManager() *ecs.Manager {
	return ecs.NewManager(ecs.NewTypeRegistry())
}
