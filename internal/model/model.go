// Package model implements latent dynamics models: an encoder mapping
// observations into a latent space, a dynamics network producing the
// latent time-derivative, and a decoder reconstructing the observable
// state. Trajectory prediction composes the three stages with the
// rollout package's ODE solvers.
package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/dyn"
	"github.com/aredko/latdyn/internal/rollout"
)

// Model is the capability set shared by the flat and graph variants.
// Encode, Dynamics, and Decode are independently callable stages; the
// rollout package relies on that.
type Model interface {
	rollout.Stages

	// Forward runs encoder, dynamics, and decoder in sequence and
	// returns (latent, latent derivative, reconstruction).
	Forward(w *dyn.Batch) (z, zdot, xhat *mat.Dense, err error)

	// Predict rolls out a trajectory from x0 using the continuous-time
	// predictor. An empty method selects dopri5.
	Predict(x0 *mat.Dense, w *dyn.Batch, ts []float64, method string) (*rollout.Trajectory, error)

	// DiagnosticInfo returns a multi-line human-readable summary.
	DiagnosticInfo() string
}

// runForward is the shared encoder -> dynamics -> decoder sequence.
func runForward(m rollout.Stages, w *dyn.Batch) (*mat.Dense, *mat.Dense, *mat.Dense, error) {
	z, err := m.Encode(w)
	if err != nil {
		return nil, nil, nil, err
	}
	zdot, err := m.Dynamics(z, w)
	if err != nil {
		return nil, nil, nil, err
	}
	xhat, err := m.Decode(z, w)
	if err != nil {
		return nil, nil, nil, err
	}
	return z, zdot, xhat, nil
}

// diagnostics assembles the shared report format: a base description,
// one line per sub-network, and the configured input order.
func diagnostics(kind string, encoder, dynamics, decoder interface{ DiagnosticInfo() string }, inputOrder string) string {
	return fmt.Sprintf("%s\nEncoder: %s\nDynamics: %s\nDecoder: %s\nInput order: %s",
		kind,
		encoder.DiagnosticInfo(),
		dynamics.DiagnosticInfo(),
		decoder.DiagnosticInfo(),
		inputOrder)
}
