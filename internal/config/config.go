package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aredko/latdyn/internal/model"
	"github.com/aredko/latdyn/internal/rollout"
)

const (
	DefaultDt       = 0.05
	DefaultDuration = 10.0
	DefaultKind     = "ldm"
	DefaultDataset  = "pendulum"
	DefaultMethod   = "dopri5"
)

// ErrInvalid indicates a run config that fails validation.
var ErrInvalid = errors.New("config: invalid run config")

// Config describes a full run: which model to build, the dataset to
// evaluate it against, and how to integrate predictions.
type Config struct {
	Kind    string        `yaml:"kind"`
	Dataset string        `yaml:"dataset"`
	Seed    int64         `yaml:"seed"`
	Model   model.Config  `yaml:"model"`
	Rollout RolloutConfig `yaml:"rollout"`
}

// RolloutConfig controls the prediction time grid and solver.
type RolloutConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Method   string  `yaml:"method"`
}

func DefaultConfig() *Config {
	return &Config{
		Kind:    DefaultKind,
		Dataset: DefaultDataset,
		Rollout: RolloutConfig{
			Dt:       DefaultDt,
			Duration: DefaultDuration,
			Method:   DefaultMethod,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configs a run could not be built from.
func (c *Config) Validate() error {
	switch c.Kind {
	case "ldm", "gldm":
	default:
		return fmt.Errorf("%w: unknown model kind %q", ErrInvalid, c.Kind)
	}
	if c.Rollout.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Rollout.Dt)
	}
	if c.Rollout.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalid, c.Rollout.Duration)
	}
	switch c.Rollout.Method {
	case rollout.MethodDopri5, rollout.MethodRK4, rollout.MethodEuler:
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalid, c.Rollout.Method)
	}
	return nil
}

// TimeGrid returns the prediction time points [0, Duration] at Dt
// spacing, endpoint included.
func (c *Config) TimeGrid() []float64 {
	n := int(c.Rollout.Duration/c.Rollout.Dt) + 1
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i) * c.Rollout.Dt
	}
	return ts
}
