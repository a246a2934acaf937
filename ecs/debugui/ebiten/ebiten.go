// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/birch/ecs/ebitengame"
)

var _ ebitengame.Overlay = (*ImguiBackend)(nil)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation so it can
// be passed to ebitengame.WithOverlay.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend and its window. The imgui.ini file is disabled.
func NewImguiBackend(cfg ebitengame.Config) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(cfg.Title, cfg.Width, cfg.Height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: backend}
}

func (b *ImguiBackend) BeginFrame() {
	b.EbitenBackend.BeginFrame()
}

func (b *ImguiBackend) EndFrame() {
	b.EbitenBackend.EndFrame()
}

func (b *ImguiBackend) Draw(screen *ebiten.Image) {
	b.EbitenBackend.Draw(screen)
}

func (b *ImguiBackend) Layout(outsideWidth, outsideHeight int) {
	b.EbitenBackend.Layout(outsideWidth, outsideHeight)
}
