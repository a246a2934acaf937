package debugui

import (
	"github.com/pkg/errors"

	"github.com/plus3/birch/ecs"
)

// SpawnDebugUI creates an entity carrying the standard debug widgets.
func SpawnDebugUI(manager *ecs.Manager) (*ecs.Entity, error) {
	entity := manager.AddEntity()

	if _, err := ecs.AddComponent(entity, &ImguiInputState{}); err != nil {
		return nil, errors.Wrap(err, "attach input state")
	}
	if _, err := ecs.AddComponent(entity, NewPerformanceStats(120)); err != nil {
		return nil, errors.Wrap(err, "attach performance stats")
	}
	if _, err := ecs.AddComponent(entity, NewEntityBrowser(100)); err != nil {
		return nil, errors.Wrap(err, "attach entity browser")
	}
	return entity, nil
}
