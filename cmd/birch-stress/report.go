package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/plus3/birch/ecs"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Entities int
	FPS      int
	Churn    float64

	// Results
	TotalTime     time.Duration
	Loop          ecs.LoopStats
	Manager       ecs.ManagerStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Target Entities:** {{.Entities}}
- **Target FPS:** {{.FPS}}
- **Churn per Frame:** {{printf "%.2f%%" (pct .Churn)}}

## Performance Results
- **Frames:** {{.Loop.Frames}} ({{.Loop.Overruns}} over budget)
- **Total Test Time:** {{.TotalTime}}
- **Frame Time:**
  - **Avg:** {{.Loop.Frame.AvgDuration}}
  - **Min:** {{.Loop.Frame.MinDuration}}
  - **Max:** {{.Loop.Frame.MaxDuration}}
{{range .Loop.Phases}}- **{{.Name}}:** avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Entities
- Live at end:    {{.Manager.EntityCount}}
- Created:        {{.Manager.TotalCreated}}
- Evicted:        {{.Manager.TotalEvicted}}
- Components:     {{.Manager.ComponentCount}}
{{range .Manager.TypeBreakdown}}- {{.Name}}: {{.EntityCount}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
- Total GC Pause: {{.MemStatsEnd.PauseTotalNs | ns}}
`

	fm := template.FuncMap{
		"pct": func(v float64) float64 {
			return v * 100
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return errors.Wrap(err, "parse report template")
	}

	return tmpl.Execute(w, r)
}
