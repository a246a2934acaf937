package ecs

import (
	"iter"
	"reflect"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// EntityID identifies an entity within its Manager. Identifiers start at 1 and are never reused.
type EntityID uint64

// EntityState is the lifecycle stage of an entity.
type EntityState uint8

const (
	// Active entities are updated, drawn and kept by Refresh.
	Active EntityState = iota
	// Inactive entities have been destroyed but still take part in traversals until the next Refresh.
	Inactive
	// Removed entities were evicted by Refresh and no longer own any components.
	Removed
)

func (s EntityState) String() string {
	switch s {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Entity owns a set of components, at most one per component type.
type Entity struct {
	id      EntityID
	manager *Manager
	active  bool
	removed bool

	components     []Component
	componentArray [MaxComponents]Component
	componentBits  ComponentBitSet
}

func newEntity(id EntityID, manager *Manager) *Entity {
	return &Entity{
		id:      id,
		manager: manager,
		active:  true,
	}
}

// ID returns the entity's identifier.
func (e *Entity) ID() EntityID {
	return e.id
}

// Manager returns the owning manager, or nil once the entity has been removed.
func (e *Entity) Manager() *Manager {
	return e.manager
}

// Update calls Update on every component in add order. Inactive entities are still updated.
func (e *Entity) Update() {
	for _, c := range e.components {
		c.Update()
	}
}

// Draw calls Draw on every component in add order.
func (e *Entity) Draw() {
	for _, c := range e.components {
		c.Draw()
	}
}

// IsActive reports whether the entity survives the next Refresh.
func (e *Entity) IsActive() bool {
	return e.active
}

// Destroy marks the entity inactive. It is evicted by the next Manager.Refresh.
// Calling Destroy more than once has no further effect.
func (e *Entity) Destroy() {
	e.active = false
}

// State returns the entity's lifecycle stage.
func (e *Entity) State() EntityState {
	switch {
	case e.removed:
		return Removed
	case !e.active:
		return Inactive
	default:
		return Active
	}
}

// Mask returns the set of component type identifiers the entity holds.
func (e *Entity) Mask() ComponentBitSet {
	return e.componentBits
}

// Len returns the number of components the entity holds.
func (e *Entity) Len() int {
	return len(e.components)
}

// Components iterates the entity's components in add order.
func (e *Entity) Components() iter.Seq[Component] {
	return func(yield func(Component) bool) {
		for _, c := range e.components {
			if !yield(c) {
				return
			}
		}
	}
}

func (e *Entity) registry() *TypeRegistry {
	if e.manager == nil {
		return nil
	}
	return e.manager.registry
}

// release drops every component and the back-references to the entity.
func (e *Entity) release() {
	for _, c := range e.components {
		c.setEntity(nil)
	}
	clear(e.components)
	e.components = nil
	clear(e.componentArray[:])
	e.componentBits.Reset()
	e.active = false
	e.removed = true
	e.manager = nil
}

// AddComponent attaches c to e and returns it. The owner back-reference is set before
// c.Init runs. An entity holds at most one component per type: adding a second one
// fails with ErrDuplicateComponent and leaves the entity unchanged.
//
// T is normally inferred as the concrete pointer type. When T is an interface the
// dynamic type of c is registered instead.
func AddComponent[T Component](e *Entity, c T) (T, error) {
	v := reflect.ValueOf(c)
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		panic("ecs: AddComponent called with a nil component")
	}

	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		t = v.Type()
	}
	if e.removed || e.manager == nil {
		return c, errors.Wrapf(ErrEntityRemoved, "add %s to entity %d", t, e.id)
	}

	id, err := e.registry().identifierOf(t)
	if err != nil {
		return c, errors.Wrapf(err, "add %s to entity %d", t, e.id)
	}

	if e.componentBits.Test(id) {
		e.manager.logger.Warn("rejected duplicate component",
			zap.Uint64("entity", uint64(e.id)),
			zap.Stringer("type", t),
		)
		return c, errors.Wrapf(ErrDuplicateComponent, "add %s to entity %d", t, e.id)
	}

	c.setEntity(e)
	e.components = append(e.components, c)
	e.componentArray[id] = c
	e.componentBits.Set(id)

	c.Init()
	return c, nil
}

// HasComponent reports whether e holds a component of type T. Querying a concrete
// type assigns its identifier if it has none yet. When T is an interface, e holds one
// when any of its components implements T.
func HasComponent[T Component](e *Entity) bool {
	_, ok := LookupComponent[T](e)
	return ok
}

// LookupComponent returns the component of type T and whether e holds one. When T is
// an interface the first component in add order that implements T is returned.
func LookupComponent[T Component](e *Entity) (T, bool) {
	var zero T
	r := e.registry()
	if r == nil {
		return zero, false
	}

	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		for _, c := range e.components {
			if v, ok := c.(T); ok {
				return v, true
			}
		}
		return zero, false
	}

	id, err := r.identifierOf(t)
	if err != nil {
		e.manager.logger.Warn("component lookup failed",
			zap.Uint64("entity", uint64(e.id)),
			zap.Stringer("type", t),
			zap.Error(err),
		)
		return zero, false
	}
	if !e.componentBits.Test(id) {
		return zero, false
	}
	c, ok := e.componentArray[id].(T)
	return c, ok
}

// GetComponent returns the component of type T, or ErrComponentNotFound when e holds none.
func GetComponent[T Component](e *Entity) (T, error) {
	c, ok := LookupComponent[T](e)
	if !ok {
		return c, errors.Wrapf(ErrComponentNotFound, "get %s from entity %d", reflect.TypeFor[T](), e.id)
	}
	return c, nil
}

// MustGetComponent is like GetComponent but panics when the component is absent.
func MustGetComponent[T Component](e *Entity) T {
	c, err := GetComponent[T](e)
	if err != nil {
		panic(err)
	}
	return c
}
