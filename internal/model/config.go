package model

import (
	"fmt"

	"github.com/aredko/latdyn/internal/nn"
	"github.com/aredko/latdyn/internal/rollout"
)

// Defaults applied when a configuration field is left unset.
const (
	DefaultLatentDimension = 64
	DefaultStageLayers     = 2
	DefaultActivation      = nn.ActPReLU
	DefaultWeightInit      = nn.InitXavierUniform
	DefaultBiasInit        = nn.InitZeros
	DefaultGain            = 1.0
	DefaultInputOrder      = "cubic"
	DefaultGCL             = "sage"
)

// Config carries the model hyperparameters. Every field has a default;
// a zero-valued Config builds a working model. Layer counts and the
// end-activation flag are pointers because zero and false are
// meaningful values distinct from "unset".
type Config struct {
	LatentDimension int      `yaml:"latent_dimension"`
	EncoderLayers   *int     `yaml:"encoder_layers"`
	ProcessorLayers *int     `yaml:"processor_layers"`
	DecoderLayers   *int     `yaml:"decoder_layers"`
	Activation      string   `yaml:"activation"`
	WeightInit      string   `yaml:"weight_init"`
	BiasInit        string   `yaml:"bias_init"`
	Gain            float64  `yaml:"gain"`
	EndActivation   *bool    `yaml:"end_activation"`
	InputOrder      string   `yaml:"input_order"`
	GCL             string   `yaml:"gcl"`
	Seed            int64    `yaml:"seed"`
}

// resolved is a Config with every default applied.
type resolved struct {
	Latent     int
	EncLayers  int
	ProcLayers int
	DecLayers  int
	InputOrder string
	GCL        string
	Opts       nn.Options
}

func (c Config) resolve() (resolved, error) {
	r := resolved{
		Latent:     c.LatentDimension,
		EncLayers:  DefaultStageLayers,
		ProcLayers: DefaultStageLayers,
		DecLayers:  DefaultStageLayers,
		InputOrder: c.InputOrder,
		GCL:        c.GCL,
	}
	if r.Latent == 0 {
		r.Latent = DefaultLatentDimension
	}
	if r.Latent < 0 {
		return r, fmt.Errorf("%w: latent_dimension %d", ErrBadConfig, r.Latent)
	}
	if c.EncoderLayers != nil {
		r.EncLayers = *c.EncoderLayers
	}
	if c.ProcessorLayers != nil {
		r.ProcLayers = *c.ProcessorLayers
	}
	if c.DecoderLayers != nil {
		r.DecLayers = *c.DecoderLayers
	}
	if r.EncLayers < 0 || r.ProcLayers < 0 || r.DecLayers < 0 {
		return r, fmt.Errorf("%w: negative layer count (encoder %d, processor %d, decoder %d)",
			ErrBadConfig, r.EncLayers, r.ProcLayers, r.DecLayers)
	}
	if r.InputOrder == "" {
		r.InputOrder = DefaultInputOrder
	}
	switch r.InputOrder {
	case rollout.OrderCubic, rollout.OrderAkima, rollout.OrderLinear, rollout.OrderZOH:
	default:
		return r, fmt.Errorf("%w: input_order %q", ErrBadConfig, r.InputOrder)
	}
	if r.GCL == "" {
		r.GCL = DefaultGCL
	}

	end := true
	if c.EndActivation != nil {
		end = *c.EndActivation
	}
	r.Opts = nn.Options{
		Activation:    c.Activation,
		WeightInit:    c.WeightInit,
		BiasInit:      c.BiasInit,
		Gain:          c.Gain,
		EndActivation: end,
		Seed:          c.Seed,
	}.WithDefaults()
	if err := r.Opts.Validate(); err != nil {
		return r, err
	}
	return r, nil
}

// Meta describes the dataset the model is built for. The node count
// lives in the nested Data section, mirroring how dataset pipelines
// report it.
type Meta struct {
	NTotalStateFeatures   int      `yaml:"n_total_state_features"`
	NTotalControlFeatures int      `yaml:"n_total_control_features"`
	NTotalFeatures        int      `yaml:"n_total_features"`
	Data                  DataMeta `yaml:"data"`
}

// DataMeta is the nested dataset section of Meta.
type DataMeta struct {
	NNodes int `yaml:"n_nodes"`
}

// validate checks the flat feature counts and derives the total when
// it is unset.
func (m *Meta) validate() error {
	if m.NTotalStateFeatures <= 0 {
		return fmt.Errorf("%w: n_total_state_features", ErrMissingMeta)
	}
	if m.NTotalControlFeatures < 0 {
		return fmt.Errorf("%w: n_total_control_features %d", ErrInconsistentMeta, m.NTotalControlFeatures)
	}
	sum := m.NTotalStateFeatures + m.NTotalControlFeatures
	if m.NTotalFeatures == 0 {
		m.NTotalFeatures = sum
	} else if m.NTotalFeatures != sum {
		return fmt.Errorf("%w: n_total_features %d != %d state + %d control",
			ErrInconsistentMeta, m.NTotalFeatures, m.NTotalStateFeatures, m.NTotalControlFeatures)
	}
	return nil
}

// validateGraph additionally checks the node count and divisibility
// invariants the graph networks rely on.
func (m *Meta) validateGraph() error {
	if err := m.validate(); err != nil {
		return err
	}
	n := m.Data.NNodes
	if n <= 0 {
		return fmt.Errorf("%w: data.n_nodes", ErrMissingMeta)
	}
	if m.NTotalFeatures%n != 0 {
		return fmt.Errorf("%w: n_total_features %d, n_nodes %d", ErrIndivisible, m.NTotalFeatures, n)
	}
	if m.NTotalStateFeatures%n != 0 {
		return fmt.Errorf("%w: n_total_state_features %d, n_nodes %d", ErrIndivisible, m.NTotalStateFeatures, n)
	}
	return nil
}
