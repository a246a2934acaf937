// Command birch-demo opens a window with bouncing rectangles that expire and respawn,
// plus the Dear ImGui debug overlay.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"math/rand/v2"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/plus3/birch/ecs"
	"github.com/plus3/birch/ecs/debugui"
	imguiebiten "github.com/plus3/birch/ecs/debugui/ebiten"
	"github.com/plus3/birch/ecs/ebitengame"
	"github.com/plus3/birch/internal/config"
	"github.com/plus3/birch/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML configuration file.")
	count := flag.Int("boxes", 200, "The number of boxes kept on screen.")
	noDebug := flag.Bool("no-debug", false, "Disable the ImGui debug overlay.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, *count, !*noDebug, logger); err != nil {
		logger.Fatal("demo failed", zap.Error(err))
	}
}

func run(cfg config.Config, count int, debug bool, logger *zap.Logger) error {
	gameCfg := ebitengame.Config{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		FPS:    cfg.Loop.FPS,
	}

	registry := ecs.NewTypeRegistry(ecs.WithRegistryLogger(logger))
	manager := ecs.NewManager(registry, ecs.WithLogger(logger))
	canvas := &ebitengame.Canvas{}

	spawner := &boxSpawner{
		canvas: canvas,
		target: count,
		width:  float32(gameCfg.Width),
		height: float32(gameCfg.Height),
		rand:   rand.New(rand.NewPCG(1, 2)),
		logger: logger,
	}
	if _, err := ecs.AddComponent(manager.AddEntity(), spawner); err != nil {
		return errors.Wrap(err, "attach spawner")
	}

	opts := []ebitengame.Option{
		ebitengame.WithLogger(logger),
		ebitengame.WithBeforeUpdate(func() error {
			if ebiten.IsKeyPressed(ebiten.KeyEscape) {
				return ecs.ErrStopLoop
			}
			return nil
		}),
	}
	if debug {
		if _, err := debugui.SpawnDebugUI(manager); err != nil {
			return err
		}
		opts = append(opts, ebitengame.WithOverlay(imguiebiten.NewImguiBackend(gameCfg)))
	}

	return ebitengame.Run(ebitengame.New(manager, canvas, gameCfg, opts...))
}

// boxSpawner keeps target boxes alive. Each box bounces inside the window and
// expires after a random number of ticks.
type boxSpawner struct {
	ecs.BaseComponent
	canvas        *ebitengame.Canvas
	target        int
	alive         int
	width, height float32
	rand          *rand.Rand
	logger        *zap.Logger
}

func (s *boxSpawner) Update() {
	for ; s.alive < s.target; s.alive++ {
		if err := s.spawn(); err != nil {
			s.logger.Warn("spawn failed", zap.Error(err))
			return
		}
	}
}

func (s *boxSpawner) spawn() (err error) {
	entity := s.Entity().Manager().AddEntity()
	defer func() {
		if err != nil {
			entity.Destroy()
		}
	}()
	size := 4 + s.rand.Float32()*12

	if _, err := ecs.AddComponent(entity, &ebitengame.Transform{
		X:  s.rand.Float32() * (s.width - size),
		Y:  s.rand.Float32() * (s.height - size),
		VX: (s.rand.Float32() - 0.5) * 6,
		VY: (s.rand.Float32() - 0.5) * 6,
	}); err != nil {
		return errors.Wrap(err, "spawn transform")
	}
	if _, err := ecs.AddComponent(entity, &bounds{width: s.width - size, height: s.height - size}); err != nil {
		return errors.Wrap(err, "spawn bounds")
	}
	if _, err := ecs.AddComponent(entity, &ebitengame.Rect{
		Canvas: s.canvas,
		W:      size,
		H:      size,
		Color: color.RGBA{
			R: uint8(64 + s.rand.IntN(192)),
			G: uint8(64 + s.rand.IntN(192)),
			B: uint8(64 + s.rand.IntN(192)),
			A: 255,
		},
	}); err != nil {
		return errors.Wrap(err, "spawn rect")
	}
	if _, err := ecs.AddComponent(entity, &expiry{ticks: 60 + s.rand.IntN(240), spawner: s}); err != nil {
		return errors.Wrap(err, "spawn expiry")
	}
	return nil
}

// bounds reflects the entity's Transform off the window edges.
type bounds struct {
	ecs.BaseComponent
	width, height float32

	transform *ebitengame.Transform
}

func (b *bounds) Init() {
	b.transform, _ = ecs.LookupComponent[*ebitengame.Transform](b.Entity())
}

func (b *bounds) Update() {
	t := b.transform
	if t.X < 0 || t.X > b.width {
		t.VX = -t.VX
	}
	if t.Y < 0 || t.Y > b.height {
		t.VY = -t.VY
	}
}

// expiry destroys its entity after a number of ticks and frees a spawner slot.
type expiry struct {
	ecs.BaseComponent
	ticks   int
	spawner *boxSpawner
}

func (e *expiry) Update() {
	e.ticks--
	if e.ticks == 0 {
		e.Entity().Destroy()
		e.spawner.alive--
	}
}
