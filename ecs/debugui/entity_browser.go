package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/birch/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityID
	State          ecs.EntityState
	ComponentTypes []string
}

// EntityBrowser lists the entities of the owning entity's manager, one page at a time.
type EntityBrowser struct {
	ecs.BaseComponent

	selectedEntityId   ecs.EntityID
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	if maxEntitiesPerPage < 1 {
		maxEntitiesPerPage = 100
	}
	return &EntityBrowser{
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

// Collect snapshots the manager's entities that match filter. The filter matches
// against the entity id, state and component type names, case-insensitively.
func Collect(manager *ecs.Manager, filter string) []EntityInfo {
	filterLower := strings.ToLower(filter)
	registry := manager.Registry()

	entities := make([]EntityInfo, 0, manager.Len())
	for entity := range manager.Entities() {
		info := EntityInfo{
			ID:    entity.ID(),
			State: entity.State(),
		}
		for _, id := range entity.Mask().IDs() {
			if typ, ok := registry.TypeOf(id); ok {
				info.ComponentTypes = append(info.ComponentTypes, typ.String())
			}
		}

		if filterLower != "" {
			idStr := fmt.Sprintf("%d", info.ID)
			componentsStr := strings.ToLower(strings.Join(info.ComponentTypes, " "))
			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(info.State.String(), filterLower) &&
				!strings.Contains(componentsStr, filterLower) {
				continue
			}
		}
		entities = append(entities, info)
	}
	return entities
}

func (eb *EntityBrowser) Draw() {
	owner := eb.Entity()
	if owner == nil || owner.Manager() == nil {
		return
	}

	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.currentPage = 0
	}

	filteredEntities := Collect(owner.Manager(), eb.filterText)
	startIdx, endIdx := eb.pageBounds(len(filteredEntities))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("State")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.State.String())

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(entity.ComponentTypes)))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := eb.totalPages(len(filteredEntities))
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

func (eb *EntityBrowser) totalPages(count int) int {
	return (count + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
}

// pageBounds clamps the current page to the entity count and returns its index range.
func (eb *EntityBrowser) pageBounds(count int) (int, int) {
	if pages := eb.totalPages(count); eb.currentPage >= pages {
		eb.currentPage = max(pages-1, 0)
	}
	startIdx := eb.currentPage * eb.maxEntitiesPerPage
	endIdx := min(startIdx+eb.maxEntitiesPerPage, count)
	return startIdx, endIdx
}
