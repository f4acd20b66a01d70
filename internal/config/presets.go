package config

import "github.com/aredko/latdyn/internal/model"

func ip(v int) *int { return &v }

var Presets = map[string]map[string]*Config{
	"ldm": {
		"small": {
			Kind: "ldm", Dataset: "pendulum",
			Model:   model.Config{LatentDimension: 16, EncoderLayers: ip(2), ProcessorLayers: ip(2), DecoderLayers: ip(2)},
			Rollout: RolloutConfig{Dt: 0.05, Duration: 10.0, Method: "dopri5"},
		},
		"deep": {
			Kind: "ldm", Dataset: "pendulum",
			Model:   model.Config{LatentDimension: 64, EncoderLayers: ip(4), ProcessorLayers: ip(4), DecoderLayers: ip(4)},
			Rollout: RolloutConfig{Dt: 0.05, Duration: 20.0, Method: "dopri5"},
		},
		"passthrough": {
			Kind: "ldm", Dataset: "spring",
			Model:   model.Config{EncoderLayers: ip(0), ProcessorLayers: ip(3), DecoderLayers: ip(0)},
			Rollout: RolloutConfig{Dt: 0.02, Duration: 10.0, Method: "rk4"},
		},
		"spring": {
			Kind: "ldm", Dataset: "spring",
			Model:   model.Config{LatentDimension: 32, Activation: "tanh"},
			Rollout: RolloutConfig{Dt: 0.05, Duration: 15.0, Method: "dopri5"},
		},
	},
	"gldm": {
		"diffusion": {
			Kind: "gldm", Dataset: "diffusion",
			Model:   model.Config{LatentDimension: 8, GCL: "sage"},
			Rollout: RolloutConfig{Dt: 0.05, Duration: 5.0, Method: "dopri5"},
		},
		"diffusion-gcn": {
			Kind: "gldm", Dataset: "diffusion",
			Model:   model.Config{LatentDimension: 8, GCL: "gcn", Activation: "tanh"},
			Rollout: RolloutConfig{Dt: 0.05, Duration: 5.0, Method: "rk4"},
		},
	},
}

func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	return names
}
