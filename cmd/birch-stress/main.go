package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/plus3/birch/ecs"
	"github.com/plus3/birch/internal/config"
	"github.com/plus3/birch/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML configuration file.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 0, "The population to keep alive (overrides the config file).")
	fps := flag.Int("fps", 0, "The target frame rate (overrides the config file).")
	churn := flag.Float64("churn", -1, "Fraction of entities destroyed per frame (overrides the config file).")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error (overrides the config file).")
	profileMode := flag.String("profile", "", "Write a cpu or mem profile to the working directory.")
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
	if *entityCount > 0 {
		cfg.Stress.Entities = *entityCount
	}
	if *fps > 0 {
		cfg.Loop.FPS = *fps
	}
	if *churn >= 0 {
		cfg.Stress.Churn = *churn
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		logger.Fatal("unknown profile mode", zap.String("mode", *profileMode))
	}

	report, err := run(cfg, *duration, logger)
	if err != nil {
		logger.Fatal("stress test failed", zap.Error(err))
	}

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}

func run(cfg config.Config, duration time.Duration, logger *zap.Logger) (*Report, error) {
	// 1. Setup registry and manager
	registry := ecs.NewTypeRegistry(ecs.WithRegistryLogger(logger))
	manager := ecs.NewManager(registry, ecs.WithLogger(logger))

	seed := cfg.Stress.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	director := &Director{
		Target:      cfg.Stress.Entities,
		Churn:       cfg.Stress.Churn,
		MaxLifetime: cfg.Stress.MaxLifetime,
		Rand:        rand.New(rand.NewPCG(uint64(seed), uint64(seed>>32))),
		Logger:      logger,
	}
	if _, err := ecs.AddComponent(manager.AddEntity(), director); err != nil {
		return nil, errors.Wrap(err, "attach director")
	}

	// 2. Populate the manager; the director tops it up every frame from here on
	logger.Info("populating manager", zap.Int("entities", cfg.Stress.Entities))
	for range cfg.Stress.Entities {
		if err := director.spawn(manager); err != nil {
			return nil, errors.Wrap(err, "populate manager")
		}
	}

	report := &Report{
		Duration: duration,
		Entities: cfg.Stress.Entities,
		FPS:      cfg.Loop.FPS,
		Churn:    cfg.Stress.Churn,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	// 3. Run the loop until the duration elapses or the process is interrupted
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	var frames atomic.Int64
	loop := ecs.NewLoop(manager, cfg.Loop,
		ecs.WithLoopLogger(logger),
		ecs.WithBeforeFrame(func() error {
			frames.Add(1)
			return nil
		}),
	)

	startTime := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return loop.Run(gctx)
	})
	g.Go(func() error {
		return logProgress(gctx, &frames, logger)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.TotalTime = time.Since(startTime)
	report.Loop = loop.Stats()
	report.Manager = manager.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished",
		zap.Int64("frames", report.Loop.Frames),
		zap.Float64("checksum", director.Sink),
	)
	return report, nil
}

// logProgress reports the frame rate once per second until ctx is done.
func logProgress(ctx context.Context, frames *atomic.Int64, logger *zap.Logger) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var last int64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			current := frames.Load()
			logger.Info("progress", zap.Int64("frames", current), zap.Int64("fps", current-last))
			last = current
		}
	}
}
