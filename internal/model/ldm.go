package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/dyn"
	"github.com/aredko/latdyn/internal/nn"
	"github.com/aredko/latdyn/internal/rollout"
)

// LDM is the latent dynamics model over flat features. Encoder,
// dynamics, and decoder are feed-forward networks.
type LDM struct {
	stateFeatures   int
	controlFeatures int
	totalFeatures   int
	latent          int
	inputOrder      string

	encoderNet  *nn.MLP
	dynamicsNet *nn.MLP
	decoderNet  *nn.MLP
}

// NewLDM builds the three sub-networks from the hyperparameters in cfg
// and the feature counts in meta. When a stage has zero layers its
// latent-side dimension degenerates to the raw total feature count
// (pass-through case).
func NewLDM(cfg Config, meta Meta) (*LDM, error) {
	if err := meta.validate(); err != nil {
		return nil, err
	}
	r, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	encOut := r.Latent
	if r.EncLayers == 0 {
		encOut = meta.NTotalFeatures
	}
	decIn := r.Latent
	if r.DecLayers == 0 {
		decIn = meta.NTotalFeatures
	}

	m := &LDM{
		stateFeatures:   meta.NTotalStateFeatures,
		controlFeatures: meta.NTotalControlFeatures,
		totalFeatures:   meta.NTotalFeatures,
		latent:          r.Latent,
		inputOrder:      r.InputOrder,
	}

	opts := r.Opts
	m.encoderNet, err = nn.NewMLP(meta.NTotalFeatures, r.Latent, encOut, r.EncLayers, opts)
	if err != nil {
		return nil, fmt.Errorf("model: building encoder: %w", err)
	}
	opts.Seed++
	m.dynamicsNet, err = nn.NewMLP(encOut, r.Latent, decIn, r.ProcLayers, opts)
	if err != nil {
		return nil, fmt.Errorf("model: building dynamics: %w", err)
	}
	opts.Seed++
	m.decoderNet, err = nn.NewMLP(decIn, r.Latent, meta.NTotalStateFeatures, r.DecLayers, opts)
	if err != nil {
		return nil, fmt.Errorf("model: building decoder: %w", err)
	}
	return m, nil
}

// LatentDim returns the encoder output dimension, which equals the
// configured latent dimension except in the pass-through case.
func (m *LDM) LatentDim() int { return m.encoderNet.OutputDim() }

// StateDim returns the reconstructed state feature count.
func (m *LDM) StateDim() int { return m.stateFeatures }

// InputOrder returns the configured control interpolation order.
func (m *LDM) InputOrder() string { return m.inputOrder }

// Encode maps the concatenated state and control features into the
// latent space.
func (m *LDM) Encode(w *dyn.Batch) (*mat.Dense, error) {
	return m.encoderNet.Forward(w.Features())
}

// Dynamics maps a latent state to its time-derivative. The observation
// is unused; the signature mirrors the graph variant, which needs
// connectivity.
func (m *LDM) Dynamics(z *mat.Dense, w *dyn.Batch) (*mat.Dense, error) {
	return m.dynamicsNet.Forward(z)
}

// Decode reconstructs the observable state from a latent state. The
// observation is unused, as with Dynamics.
func (m *LDM) Decode(z *mat.Dense, w *dyn.Batch) (*mat.Dense, error) {
	return m.decoderNet.Forward(z)
}

// Forward runs the full encoder -> dynamics -> decoder pass.
func (m *LDM) Forward(w *dyn.Batch) (*mat.Dense, *mat.Dense, *mat.Dense, error) {
	return runForward(m, w)
}

// Predict rolls out a trajectory from x0 over ts, interpolating the
// control signal in w per the configured input order.
func (m *LDM) Predict(x0 *mat.Dense, w *dyn.Batch, ts []float64, method string) (*rollout.Trajectory, error) {
	return rollout.Continuous(m, x0, w, ts, rollout.Options{
		Method: method,
		Order:  m.inputOrder,
	})
}

// DiagnosticInfo reports the model composition.
func (m *LDM) DiagnosticInfo() string {
	return diagnostics("LDM (latent dynamics model)", m.encoderNet, m.dynamicsNet, m.decoderNet, m.inputOrder)
}
