// Package ebitengame drives an ecs.Manager from ebiten's fixed-rate game loop.
//
// Ebiten calls Update at a fixed tick rate and Draw once per rendered frame, and the
// two rates may differ. Game therefore runs Manager.Refresh at the end of every Update
// rather than after Draw: an entity destroyed during a tick is evicted before the next
// Draw.
package ebitengame

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/plus3/birch/ecs"
)

// Config describes the window and tick rate.
type Config struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
}

// DefaultConfig returns the 800x640 window at 60 ticks per second.
func DefaultConfig() Config {
	return Config{
		Title:  "birch",
		Width:  800,
		Height: 640,
		FPS:    60,
	}
}

// Overlay renders on top of the game. ImguiBackend from the debugui/ebiten package
// satisfies it.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(outsideWidth, outsideHeight int)
}

// Canvas hands the screen being drawn to drawing components. Screen returns nil
// outside Game.Draw.
type Canvas struct {
	screen *ebiten.Image
}

// Screen returns the image currently being drawn. A nil Canvas has no screen.
func (c *Canvas) Screen() *ebiten.Image {
	if c == nil {
		return nil
	}
	return c.screen
}

// Game implements ebiten.Game on top of an ecs.Manager.
type Game struct {
	manager      *ecs.Manager
	canvas       *Canvas
	config       Config
	overlay      Overlay
	beforeUpdate func() error
	logger       *zap.Logger

	ticks  uint64
	frames uint64
}

// Option configures a Game.
type Option func(*Game)

// WithOverlay draws o over the game each frame. Manager.Draw runs between the overlay's
// BeginFrame and EndFrame, so components may issue overlay widgets from Draw.
func WithOverlay(o Overlay) Option {
	return func(g *Game) {
		g.overlay = o
	}
}

// WithBeforeUpdate registers a hook that runs at the start of every tick. Returning
// ecs.ErrStopLoop terminates the game cleanly.
func WithBeforeUpdate(fn func() error) Option {
	return func(g *Game) {
		g.beforeUpdate = fn
	}
}

// WithLogger sets the logger used for game events.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a game for manager. canvas may be shared with drawing components; a nil
// canvas gets a private one.
func New(manager *ecs.Manager, canvas *Canvas, cfg Config, opts ...Option) *Game {
	if canvas == nil {
		canvas = &Canvas{}
	}
	g := &Game{
		manager: manager,
		canvas:  canvas,
		config:  cfg,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Canvas returns the canvas the game publishes its screen on.
func (g *Game) Canvas() *Canvas {
	return g.canvas
}

// Ticks returns the number of completed Update calls.
func (g *Game) Ticks() uint64 {
	return g.ticks
}

// Frames returns the number of completed Draw calls.
func (g *Game) Frames() uint64 {
	return g.frames
}

// Update runs one tick: the before-update hook, Manager.Update and Manager.Refresh.
func (g *Game) Update() error {
	if g.beforeUpdate != nil {
		if err := g.beforeUpdate(); err != nil {
			if errors.Is(err, ecs.ErrStopLoop) {
				return ebiten.Termination
			}
			return errors.Wrap(err, "before update")
		}
	}

	g.manager.Update()
	if evicted := g.manager.Refresh(); evicted > 0 {
		g.logger.Debug("evicted entities", zap.Int("count", evicted), zap.Uint64("tick", g.ticks))
	}
	g.ticks++
	return nil
}

// Draw publishes screen on the canvas and runs Manager.Draw.
func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.screen = screen
	defer func() { g.canvas.screen = nil }()

	if g.overlay != nil {
		g.overlay.BeginFrame()
	}
	g.manager.Draw()
	if g.overlay != nil {
		g.overlay.EndFrame()
		g.overlay.Draw(screen)
	}
	g.frames++
}

// Layout returns the configured logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.overlay != nil {
		g.overlay.Layout(outsideWidth, outsideHeight)
	}
	return g.config.Width, g.config.Height
}

// Run opens the window and blocks until the game terminates.
func Run(g *Game) error {
	cfg := g.config
	if cfg.FPS <= 0 {
		return errors.Errorf("fps must be positive, got %d", cfg.FPS)
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(cfg.FPS)

	g.logger.Info("starting game",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("fps", cfg.FPS),
	)

	if err := ebiten.RunGame(g); err != nil {
		return errors.Wrap(err, "run game")
	}
	return nil
}
