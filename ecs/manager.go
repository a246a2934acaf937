package ecs

import (
	"iter"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// Manager owns every entity it creates and drives their traversals. Entities are kept
// in creation order; destroyed entities stay in place until Refresh compacts them away,
// so destroying an entity mid-traversal never invalidates the traversal.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	registry *TypeRegistry
	entities []*Entity
	index    *intmap.Map[EntityID, *Entity]
	nextID   EntityID
	logger   *zap.Logger

	created uint64
	evicted uint64
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a manager whose entities resolve component types through registry.
func NewManager(registry *TypeRegistry, opts ...ManagerOption) *Manager {
	if registry == nil {
		panic("ecs: NewManager requires a TypeRegistry")
	}
	m := &Manager{
		registry: registry,
		index:    intmap.New[EntityID, *Entity](256),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the manager's type registry.
func (m *Manager) Registry() *TypeRegistry {
	return m.registry
}

// AddEntity creates an active entity and appends it to the collection. The returned
// pointer must not be used once Refresh has evicted the entity.
func (m *Manager) AddEntity() *Entity {
	m.nextID++
	e := newEntity(m.nextID, m)
	m.entities = append(m.entities, e)
	m.index.Put(e.id, e)
	m.created++
	return e
}

// Entity returns the live entity with the given id.
func (m *Manager) Entity(id EntityID) (*Entity, bool) {
	return m.index.Get(id)
}

// Len returns the number of entities in the collection, including inactive ones
// awaiting Refresh.
func (m *Manager) Len() int {
	return len(m.entities)
}

// Entities iterates the collection in creation order.
func (m *Manager) Entities() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for _, e := range m.entities {
			if !yield(e) {
				return
			}
		}
	}
}

// Update updates every entity in creation order, inactive ones included.
// Entities created during the traversal are first updated on the next call.
func (m *Manager) Update() {
	for _, e := range m.entities {
		e.Update()
	}
}

// Draw draws every entity in creation order, inactive ones included.
func (m *Manager) Draw() {
	for _, e := range m.entities {
		e.Draw()
	}
}

// Refresh evicts inactive entities, keeping survivors in their relative order, and
// releases the evicted entities' components. It returns the number evicted.
func (m *Manager) Refresh() int {
	kept := 0
	for _, e := range m.entities {
		if e.active {
			m.entities[kept] = e
			kept++
			continue
		}
		m.index.Del(e.id)
		e.release()
	}

	removed := len(m.entities) - kept
	clear(m.entities[kept:])
	m.entities = m.entities[:kept]

	if removed > 0 {
		m.evicted += uint64(removed)
		m.logger.Debug("refreshed entities",
			zap.Int("evicted", removed),
			zap.Int("remaining", kept),
		)
	}
	return removed
}
