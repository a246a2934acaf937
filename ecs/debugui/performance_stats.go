package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/birch/ecs"
)

// PerformanceStats shows tick times and a summary of the owning entity's manager.
type PerformanceStats struct {
	ecs.BaseComponent

	historyFrames int
	frameHistory  []float32
	frameIndex    int
	timer         *FrameTimer
}

func NewPerformanceStats(historyFrames int) *PerformanceStats {
	if historyFrames < 1 {
		historyFrames = 1
	}
	return &PerformanceStats{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

func (ps *PerformanceStats) Init() {
	ps.timer = NewFrameTimer()
}

// Update samples the time since the previous tick.
func (ps *PerformanceStats) Update() {
	ps.record(ps.timer.GetDeltaTime())
}

func (ps *PerformanceStats) record(deltaTime float32) {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
}

// AverageFrameTime returns the mean of the sampled tick times in milliseconds.
func (ps *PerformanceStats) AverageFrameTime() float32 {
	var total float32
	for _, ft := range ps.frameHistory {
		total += ft
	}
	return total / float32(ps.historyFrames)
}

func (ps *PerformanceStats) Draw() {
	owner := ps.Entity()
	if owner == nil || owner.Manager() == nil {
		return
	}

	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := owner.Manager().CollectStats()

	imgui.Text(fmt.Sprintf("Entities: %d (%d active, %d pending removal)", stats.EntityCount, stats.ActiveCount, stats.InactiveCount))
	imgui.Text(fmt.Sprintf("Components: %d", stats.ComponentCount))
	imgui.Text(fmt.Sprintf("Component Types: %d / %d", stats.RegisteredTypes, stats.TypeCapacity))
	imgui.Text(fmt.Sprintf("Created: %d  Evicted: %d", stats.TotalCreated, stats.TotalEvicted))

	avgFrameTime := ps.AverageFrameTime()
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Tick Time: %.2f ms (%.0f TPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Tick Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("Component Types") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("TypeStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("ID")
			imgui.TableSetupColumn("Type")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			for _, typ := range stats.TypeBreakdown {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", typ.ID))
				imgui.TableNextColumn()
				imgui.Text(typ.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", typ.EntityCount))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
