package ecs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plus3/birch/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopOnceOrdersPhases(t *testing.T) {
	manager := newTestManager()

	var log []string
	entity := manager.AddEntity()
	_, err := ecs.AddComponent(entity, &Tracer{Name: "t", Log: &log})
	require.NoError(t, err)
	_, err = ecs.AddComponent(entity, &Lifetime{Remaining: 1})
	require.NoError(t, err)

	loop := ecs.NewLoop(manager, ecs.DefaultLoopConfig())
	log = log[:0]
	loop.Once()

	assert.Equal(t, []string{"t.update", "t.draw"}, log, "a destroyed entity is still drawn in its last frame")
	assert.Equal(t, 0, manager.Len(), "refresh runs at the end of the frame")

	stats := loop.Stats()
	assert.Equal(t, int64(1), stats.Frames)
	assert.Equal(t, int64(1), stats.Evicted)
	require.Len(t, stats.Phases, 3)
	assert.Equal(t, "update", stats.Phases[0].Name)
	assert.Equal(t, "draw", stats.Phases[1].Name)
	assert.Equal(t, "refresh", stats.Phases[2].Name)
}

func TestLoopRunMaxFrames(t *testing.T) {
	manager := newTestManager()
	_, counter := addCounter(t, manager)

	loop := ecs.NewLoop(manager, ecs.LoopConfig{FPS: 1000, MaxFrames: 5})
	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, 5, counter.Updates)
	assert.Equal(t, 5, counter.Draws)
	assert.Equal(t, int64(5), loop.Stats().Frames)
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	manager := newTestManager()
	_, counter := addCounter(t, manager)

	loop := ecs.NewLoop(manager, ecs.LoopConfig{FPS: 500})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after context cancellation")
	}

	assert.Greater(t, counter.Updates, 0)
}

func TestLoopRunPacesFrames(t *testing.T) {
	manager := newTestManager()
	loop := ecs.NewLoop(manager, ecs.LoopConfig{FPS: 100, MaxFrames: 5})

	start := time.Now()
	require.NoError(t, loop.Run(context.Background()))

	// Five frames of 10ms each; the last delay is included.
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestLoopBeforeFrameHook(t *testing.T) {
	manager := newTestManager()
	_, counter := addCounter(t, manager)

	calls := 0
	loop := ecs.NewLoop(manager, ecs.LoopConfig{FPS: 1000}, ecs.WithBeforeFrame(func() error {
		calls++
		if calls == 3 {
			return ecs.ErrStopLoop
		}
		return nil
	}))

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, counter.Updates, "the stopping frame does not run")
}

func TestLoopBeforeFrameError(t *testing.T) {
	manager := newTestManager()
	failure := errors.New("input device lost")

	loop := ecs.NewLoop(manager, ecs.LoopConfig{FPS: 1000}, ecs.WithBeforeFrame(func() error {
		return failure
	}))

	err := loop.Run(context.Background())
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, int64(0), loop.Stats().Frames)
}

func TestLoopRunRejectsInvalidConfig(t *testing.T) {
	loop := ecs.NewLoop(newTestManager(), ecs.LoopConfig{FPS: 0})
	assert.Error(t, loop.Run(context.Background()))

	assert.Error(t, ecs.LoopConfig{FPS: 60, MaxFrames: -1}.Validate())
	assert.NoError(t, ecs.DefaultLoopConfig().Validate())
	assert.Equal(t, 16666666*time.Nanosecond, ecs.DefaultLoopConfig().FrameBudget())
}
