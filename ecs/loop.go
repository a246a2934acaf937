package ecs

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LoopConfig controls the frame cadence of a Loop.
type LoopConfig struct {
	// FPS is the target frame rate. Each frame is padded to time.Second / FPS.
	FPS int `yaml:"fps"`
	// MaxFrames stops Run after this many frames. Zero means no limit.
	MaxFrames int `yaml:"max_frames"`
}

// DefaultLoopConfig returns a 60 FPS configuration with no frame limit.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{FPS: 60}
}

// FrameBudget returns the target duration of one frame.
func (c LoopConfig) FrameBudget() time.Duration {
	if c.FPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.FPS)
}

// Validate reports configuration values Run cannot honor.
func (c LoopConfig) Validate() error {
	if c.FPS <= 0 {
		return errors.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.MaxFrames < 0 {
		return errors.Errorf("max_frames must not be negative, got %d", c.MaxFrames)
	}
	return nil
}

// Phase names one step of a frame.
type Phase int

const (
	PhaseUpdate Phase = iota
	PhaseDraw
	PhaseRefresh
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhaseDraw:
		return "draw"
	case PhaseRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// LoopStats provides statistics about frame execution.
type LoopStats struct {
	Frames   int64
	Overruns int64
	Evicted  int64
	Frame    PhaseStats
	Phases   []PhaseStats
}

// PhaseStats provides timing statistics for one phase, or for whole frames.
type PhaseStats struct {
	Name          string
	MinDuration   time.Duration
	MaxDuration   time.Duration
	AvgDuration   time.Duration
	LastDuration  time.Duration
	TotalDuration time.Duration
}

type phaseStatsInternal struct {
	minDuration   time.Duration
	maxDuration   time.Duration
	totalDuration time.Duration
	lastDuration  time.Duration
}

func (s *phaseStatsInternal) record(d time.Duration) {
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

func (s *phaseStatsInternal) export(name string, frames int64) PhaseStats {
	out := PhaseStats{
		Name:          name,
		MaxDuration:   s.maxDuration,
		LastDuration:  s.lastDuration,
		TotalDuration: s.totalDuration,
	}
	if frames > 0 {
		out.MinDuration = s.minDuration
		out.AvgDuration = s.totalDuration / time.Duration(frames)
	}
	return out
}

// Loop drives a Manager once per frame: Update, then Draw, then Refresh.
type Loop struct {
	manager     *Manager
	config      LoopConfig
	logger      *zap.Logger
	beforeFrame func() error

	frames     int64
	overruns   int64
	evicted    int64
	frameStats phaseStatsInternal
	phaseStats [phaseCount]phaseStatsInternal
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the logger used for loop events.
func WithLoopLogger(logger *zap.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithBeforeFrame registers a hook that runs at the start of every frame, before
// Update. Input handling belongs here. Returning ErrStopLoop ends Run cleanly; any
// other error ends Run and is returned from it.
func WithBeforeFrame(fn func() error) LoopOption {
	return func(l *Loop) {
		l.beforeFrame = fn
	}
}

// NewLoop creates a loop for manager.
func NewLoop(manager *Manager, cfg LoopConfig, opts ...LoopOption) *Loop {
	l := &Loop{
		manager: manager,
		config:  cfg,
		logger:  zap.NewNop(),
	}
	l.frameStats.minDuration = time.Duration(1<<63 - 1)
	for i := range l.phaseStats {
		l.phaseStats[i].minDuration = time.Duration(1<<63 - 1)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Once runs a single frame without pacing.
func (l *Loop) Once() {
	frameStart := time.Now()

	start := frameStart
	l.manager.Update()
	l.phaseStats[PhaseUpdate].record(time.Since(start))

	start = time.Now()
	l.manager.Draw()
	l.phaseStats[PhaseDraw].record(time.Since(start))

	start = time.Now()
	l.evicted += int64(l.manager.Refresh())
	l.phaseStats[PhaseRefresh].record(time.Since(start))

	l.frameStats.record(time.Since(frameStart))
	l.frames++
}

// Run executes frames until ctx is done, the configured frame limit is reached, or the
// before-frame hook stops it. Each frame is followed by a delay filling the rest of the
// frame budget; frames that take longer than the budget are counted as overruns and the
// next frame starts immediately.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.config.Validate(); err != nil {
		return errors.Wrap(err, "invalid loop config")
	}
	budget := l.config.FrameBudget()

	l.logger.Info("loop started",
		zap.Int("fps", l.config.FPS),
		zap.Duration("frame_budget", budget),
	)
	defer func() {
		l.logger.Info("loop stopped",
			zap.Int64("frames", l.frames),
			zap.Int64("overruns", l.overruns),
		)
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	var ran int
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if l.config.MaxFrames > 0 && ran >= l.config.MaxFrames {
			return nil
		}

		frameStart := time.Now()
		if l.beforeFrame != nil {
			if err := l.beforeFrame(); err != nil {
				if errors.Is(err, ErrStopLoop) {
					return nil
				}
				return errors.Wrap(err, "before frame")
			}
		}

		l.Once()
		ran++

		elapsed := time.Since(frameStart)
		if elapsed >= budget {
			l.overruns++
			continue
		}

		timer.Reset(budget - elapsed)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
}

// Stats returns statistics about frame execution.
func (l *Loop) Stats() LoopStats {
	stats := LoopStats{
		Frames:   l.frames,
		Overruns: l.overruns,
		Evicted:  l.evicted,
		Frame:    l.frameStats.export("frame", l.frames),
		Phases:   make([]PhaseStats, phaseCount),
	}
	for i := range l.phaseStats {
		stats.Phases[i] = l.phaseStats[i].export(Phase(i).String(), l.frames)
	}
	return stats
}
