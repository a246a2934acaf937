package ecs_test

import (
	"testing"

	"github.com/plus3/birch/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addCounter(t *testing.T, manager *ecs.Manager) (*ecs.Entity, *Counter) {
	t.Helper()
	entity := manager.AddEntity()
	counter, err := ecs.AddComponent(entity, &Counter{})
	require.NoError(t, err)
	return entity, counter
}

func ids(manager *ecs.Manager) []ecs.EntityID {
	var out []ecs.EntityID
	for e := range manager.Entities() {
		out = append(out, e.ID())
	}
	return out
}

func TestManagerFrameScenario(t *testing.T) {
	manager := newTestManager()

	e1, c1 := addCounter(t, manager)
	e2, c2 := addCounter(t, manager)
	e3, c3 := addCounter(t, manager)

	manager.Update()
	assert.Equal(t, []int{1, 1, 1}, []int{c1.Updates, c2.Updates, c3.Updates})

	e2.Destroy()
	manager.Update()
	assert.Equal(t, []int{2, 2, 2}, []int{c1.Updates, c2.Updates, c3.Updates}, "destroyed entities update until refresh")

	assert.Equal(t, 3, manager.Len())
	assert.Equal(t, 1, manager.Refresh())
	assert.Equal(t, 2, manager.Len())
	assert.Equal(t, []ecs.EntityID{e1.ID(), e3.ID()}, ids(manager))

	manager.Update()
	assert.Equal(t, 3, c1.Updates)
	assert.Equal(t, 2, c2.Updates)
	assert.Equal(t, 3, c3.Updates)
}

func TestManagerRefreshKeepsActiveEntities(t *testing.T) {
	manager := newTestManager()
	manager.AddEntity()
	manager.AddEntity()

	assert.Equal(t, 0, manager.Refresh())
	assert.Equal(t, 2, manager.Len())

	manager.AddEntity()
	manager.Refresh()
	assert.Equal(t, 3, manager.Len())
}

func TestManagerRefreshPreservesOrder(t *testing.T) {
	manager := newTestManager()

	var entities []*ecs.Entity
	for range 8 {
		entities = append(entities, manager.AddEntity())
	}

	entities[0].Destroy()
	entities[3].Destroy()
	entities[4].Destroy()
	entities[7].Destroy()

	assert.Equal(t, 4, manager.Refresh())
	assert.Equal(t, []ecs.EntityID{
		entities[1].ID(),
		entities[2].ID(),
		entities[5].ID(),
		entities[6].ID(),
	}, ids(manager))

	entities[5].Destroy()
	assert.Equal(t, 1, manager.Refresh())
	assert.Equal(t, []ecs.EntityID{
		entities[1].ID(),
		entities[2].ID(),
		entities[6].ID(),
	}, ids(manager))
}

func TestManagerDrawVisitsInactiveEntities(t *testing.T) {
	manager := newTestManager()
	e1, c1 := addCounter(t, manager)
	_, c2 := addCounter(t, manager)

	e1.Destroy()
	manager.Draw()
	assert.Equal(t, 1, c1.Draws)
	assert.Equal(t, 1, c2.Draws)

	manager.Refresh()
	manager.Draw()
	assert.Equal(t, 1, c1.Draws)
	assert.Equal(t, 2, c2.Draws)
}

func TestManagerTraversalOrder(t *testing.T) {
	manager := newTestManager()

	var log []string
	for _, name := range []string{"e1", "e2", "e3"} {
		entity := manager.AddEntity()
		_, err := ecs.AddComponent(entity, &Tracer{Name: name, Log: &log})
		require.NoError(t, err)
	}

	log = log[:0]
	manager.Update()
	manager.Draw()

	assert.Equal(t, []string{
		"e1.update", "e2.update", "e3.update",
		"e1.draw", "e2.draw", "e3.draw",
	}, log)
}

func TestDestroyDuringUpdate(t *testing.T) {
	manager := newTestManager()

	short := manager.AddEntity()
	_, err := ecs.AddComponent(short, &Lifetime{Remaining: 1})
	require.NoError(t, err)
	shortCounter, err := ecs.AddComponent(short, &Counter{})
	require.NoError(t, err)

	_, survivor := addCounter(t, manager)

	manager.Update()
	assert.Equal(t, ecs.Inactive, short.State())
	assert.Equal(t, 1, shortCounter.Updates, "components after the destroying one still run this frame")
	assert.Equal(t, 1, survivor.Updates)

	manager.Draw()
	assert.Equal(t, 1, shortCounter.Draws)

	manager.Refresh()
	assert.Equal(t, 1, manager.Len())

	manager.Update()
	assert.Equal(t, 1, shortCounter.Updates)
	assert.Equal(t, 2, survivor.Updates)
}

type spawner struct {
	ecs.BaseComponent
	spawned []*Counter
}

func (s *spawner) Update() {
	child := s.Entity().Manager().AddEntity()
	counter, _ := ecs.AddComponent(child, &Counter{})
	s.spawned = append(s.spawned, counter)
}

func TestAddEntityDuringUpdate(t *testing.T) {
	manager := newTestManager()
	parent := manager.AddEntity()
	spawn, err := ecs.AddComponent(parent, &spawner{})
	require.NoError(t, err)

	manager.Update()
	require.Len(t, spawn.spawned, 1)
	assert.Equal(t, 2, manager.Len())
	assert.Equal(t, 0, spawn.spawned[0].Updates, "new entities join the next traversal")

	manager.Update()
	assert.Equal(t, 1, spawn.spawned[0].Updates)
}

func TestManagerEntityLookup(t *testing.T) {
	manager := newTestManager()
	e1 := manager.AddEntity()
	e2 := manager.AddEntity()

	assert.NotEqual(t, e1.ID(), e2.ID())

	got, ok := manager.Entity(e2.ID())
	require.True(t, ok)
	assert.Same(t, e2, got)

	e2.Destroy()
	_, ok = manager.Entity(e2.ID())
	assert.True(t, ok, "inactive entities are still reachable before refresh")

	manager.Refresh()
	_, ok = manager.Entity(e2.ID())
	assert.False(t, ok)

	e3 := manager.AddEntity()
	assert.Greater(t, e3.ID(), e2.ID(), "ids are never reused")
}

func TestManagerCollectStats(t *testing.T) {
	manager := newTestManager()

	player := manager.AddEntity()
	ecs.AddComponent(player, &Position{})
	ecs.AddComponent(player, &Velocity{})
	ecs.AddComponent(player, &Health{})

	for range 3 {
		e := manager.AddEntity()
		ecs.AddComponent(e, &Position{})
	}

	doomed := manager.AddEntity()
	ecs.AddComponent(doomed, &Velocity{})
	doomed.Destroy()

	stats := manager.CollectStats()
	assert.Equal(t, 5, stats.EntityCount)
	assert.Equal(t, 4, stats.ActiveCount)
	assert.Equal(t, 1, stats.InactiveCount)
	assert.Equal(t, 7, stats.ComponentCount)
	assert.Equal(t, 3, stats.RegisteredTypes)
	assert.Equal(t, ecs.MaxComponents, stats.TypeCapacity)
	assert.Equal(t, uint64(5), stats.TotalCreated)
	assert.Equal(t, uint64(0), stats.TotalEvicted)

	require.Len(t, stats.TypeBreakdown, 3)
	assert.Equal(t, "*ecs_test.Position", stats.TypeBreakdown[0].Name)
	assert.Equal(t, 4, stats.TypeBreakdown[0].EntityCount)

	manager.Refresh()
	stats = manager.CollectStats()
	assert.Equal(t, 4, stats.EntityCount)
	assert.Equal(t, uint64(1), stats.TotalEvicted)
}

func TestNewManagerRequiresRegistry(t *testing.T) {
	assert.Panics(t, func() { ecs.NewManager(nil) })
}
