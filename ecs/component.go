package ecs

// Component is a unit of data and behavior attached to exactly one Entity.
// Concrete components embed BaseComponent and override the hooks they need:
//
//	type Counter struct {
//		ecs.BaseComponent
//		Ticks int
//	}
//
//	func (c *Counter) Update() { c.Ticks++ }
//
// Components are attached with AddComponent. Init runs once, after the owner
// back-reference is set. Update and Draw run once per traversal, in the order the
// components were added to their entity.
type Component interface {
	Init()
	Update()
	Draw()
	Entity() *Entity

	setEntity(*Entity)
}

// BaseComponent provides no-op lifecycle hooks and the owner back-reference.
type BaseComponent struct {
	entity *Entity
}

func (b *BaseComponent) Init()   {}
func (b *BaseComponent) Update() {}
func (b *BaseComponent) Draw()   {}

// Entity returns the owning entity, or nil once the entity has been removed.
func (b *BaseComponent) Entity() *Entity {
	return b.entity
}

func (b *BaseComponent) setEntity(e *Entity) {
	b.entity = e
}
