// Package debugui provides Dear ImGui overlay components for ecs applications.
// Every widget is an ecs.Component that issues its ImGui calls from Draw, so the
// overlay backend's BeginFrame/EndFrame must bracket Manager.Draw.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/birch/ecs"
)

// ImguiItem holds a Dear ImGui render function called from Draw.
type ImguiItem struct {
	ecs.BaseComponent
	Render func()
}

func (i *ImguiItem) Draw() {
	if i.Render != nil {
		i.Render()
	}
}

// ImguiInputState tracks whether Dear ImGui is consuming mouse or keyboard input.
// Gameplay components can look it up on the debug entity before reacting to input.
type ImguiInputState struct {
	ecs.BaseComponent
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

func (s *ImguiInputState) Update() {
	io := imgui.CurrentIO()
	s.WantCaptureMouse = io.WantCaptureMouse()
	s.WantCaptureKeyboard = io.WantCaptureKeyboard()
}
