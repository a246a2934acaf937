// Package config loads birch tool configuration from YAML files.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/plus3/birch/ecs"
	"github.com/plus3/birch/internal/logging"
)

// Config is the root of a configuration file.
type Config struct {
	Loop   ecs.LoopConfig `yaml:"loop"`
	Window WindowConfig   `yaml:"window"`
	Log    logging.Config `yaml:"log"`
	Stress StressConfig   `yaml:"stress"`
}

// WindowConfig describes the demo window. Its tick rate comes from the loop section.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// StressConfig controls the population of the stress tool.
type StressConfig struct {
	// Entities is the population kept alive each frame.
	Entities int `yaml:"entities"`
	// Churn is the fraction of the population destroyed per frame, in [0, 1].
	Churn float64 `yaml:"churn"`
	// MaxLifetime bounds the random lifetime, in frames, of stress entities.
	MaxLifetime int `yaml:"max_lifetime"`
	// Seed seeds the stress tool's random source. Zero picks a time-based seed.
	Seed int64 `yaml:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Loop:   ecs.DefaultLoopConfig(),
		Window: WindowConfig{
			Title:  "birch",
			Width:  800,
			Height: 640,
		},
		Log:    logging.DefaultConfig(),
		Stress: StressConfig{
			Entities:    10000,
			Churn:       0.01,
			MaxLifetime: 600,
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "validate config %s", path)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Loop.Validate(); err != nil {
		return errors.Wrap(err, "loop")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window: size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if err := c.Log.Validate(); err != nil {
		return errors.Wrap(err, "log")
	}
	if c.Stress.Entities < 0 {
		return errors.Errorf("stress: entities must not be negative, got %d", c.Stress.Entities)
	}
	if c.Stress.Churn < 0 || c.Stress.Churn > 1 {
		return errors.Errorf("stress: churn must be within [0, 1], got %g", c.Stress.Churn)
	}
	if c.Stress.MaxLifetime < 1 {
		return errors.Errorf("stress: max_lifetime must be at least 1, got %d", c.Stress.MaxLifetime)
	}
	return nil
}
