package ecs

import "sort"

// ManagerStats is a snapshot of a Manager's contents.
type ManagerStats struct {
	EntityCount     int
	ActiveCount     int
	InactiveCount   int
	ComponentCount  int
	RegisteredTypes int
	TypeCapacity    int
	TotalCreated    uint64
	TotalEvicted    uint64
	TypeBreakdown   []TypeStats
}

// TypeStats counts the entities holding one component type.
type TypeStats struct {
	ID          ComponentTypeID
	Name        string
	EntityCount int
}

// CollectStats walks the collection and summarizes it.
func (m *Manager) CollectStats() ManagerStats {
	stats := ManagerStats{
		EntityCount:     len(m.entities),
		RegisteredTypes: m.registry.Len(),
		TypeCapacity:    m.registry.Capacity(),
		TotalCreated:    m.created,
		TotalEvicted:    m.evicted,
	}

	perType := make([]int, m.registry.Len())
	for _, e := range m.entities {
		if e.active {
			stats.ActiveCount++
		} else {
			stats.InactiveCount++
		}
		stats.ComponentCount += len(e.components)
		for _, id := range e.componentBits.IDs() {
			if int(id) < len(perType) {
				perType[id]++
			}
		}
	}

	for id, count := range perType {
		t, _ := m.registry.TypeOf(ComponentTypeID(id))
		stats.TypeBreakdown = append(stats.TypeBreakdown, TypeStats{
			ID:          ComponentTypeID(id),
			Name:        t.String(),
			EntityCount: count,
		})
	}
	sort.SliceStable(stats.TypeBreakdown, func(i, j int) bool {
		return stats.TypeBreakdown[i].EntityCount > stats.TypeBreakdown[j].EntityCount
	})

	return stats
}
