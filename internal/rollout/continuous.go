// Package rollout predicts full trajectories by stepping a latent
// dynamics model through a numerical ODE solver. The model only
// exposes its encoder, dynamics, and decoder as callable stages; all
// integration and control interpolation happens here.
package rollout

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/dyn"
)

// Solver method names.
const (
	MethodDopri5 = "dopri5"
	MethodRK4    = "rk4"
	MethodEuler  = "euler"
)

// Stages is the capability set a model must expose for continuous
// prediction. Each stage is a pure function of its inputs and the
// learned parameters.
type Stages interface {
	Encode(w *dyn.Batch) (*mat.Dense, error)
	Dynamics(z *mat.Dense, w *dyn.Batch) (*mat.Dense, error)
	Decode(z *mat.Dense, w *dyn.Batch) (*mat.Dense, error)
}

// Options tunes the trajectory predictor. The zero value picks the
// dopri5 solver with cubic control interpolation.
type Options struct {
	Method    string  // dopri5, rk4, euler
	Order     string  // cubic, akima, linear, zoh
	Tolerance float64 // dopri5 error tolerance, default 1e-6
	Substeps  int     // fixed-step substeps per sample interval, default 10
}

func (o Options) withDefaults() Options {
	if o.Method == "" {
		o.Method = MethodDopri5
	}
	if o.Order == "" {
		o.Order = OrderCubic
	}
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-6
	}
	if o.Substeps <= 0 {
		o.Substeps = 10
	}
	return o
}

// Trajectory is a predicted rollout: one decoded state tensor
// (batch x stateFeatures) per requested time point.
type Trajectory struct {
	Times  []float64
	States []*mat.Dense
}

// Len returns the number of time points.
func (tr *Trajectory) Len() int { return len(tr.Times) }

// Series extracts one scalar channel over time for batch entry row and
// state feature col; handy for plotting and metrics.
func (tr *Trajectory) Series(row, col int) []float64 {
	out := make([]float64, len(tr.States))
	for i, s := range tr.States {
		out[i] = s.At(row, col)
	}
	return out
}

// Continuous predicts a trajectory from the initial states x0 (one row
// per batch entry) over the time grid ts. Control values are taken from
// w and interpolated between sample times per opts.Order; the edge
// index in w, when present, is threaded through every stage call.
func Continuous(m Stages, x0 *mat.Dense, w *dyn.Batch, ts []float64, opts Options) (*Trajectory, error) {
	opts = opts.withDefaults()
	switch opts.Method {
	case MethodDopri5, MethodRK4, MethodEuler:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, opts.Method)
	}
	if len(ts) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrBadTimes)
	}
	for i := 1; i < len(ts); i++ {
		if ts[i] <= ts[i-1] {
			return nil, fmt.Errorf("%w: ts[%d]=%g, ts[%d]=%g", ErrBadTimes, i-1, ts[i-1], i, ts[i])
		}
	}

	cs, err := fitControl(ts, controlRows(w), opts.Order)
	if err != nil {
		return nil, err
	}

	rows, _ := x0.Dims()
	t0, tN := ts[0], ts[len(ts)-1]
	obsAt := func(t float64) *dyn.Batch {
		b := &dyn.Batch{X: x0}
		if w != nil {
			b.Edges = w.Edges
		}
		if cs != nil {
			b.U = repeatRow(cs.at(t, t0, tN), rows)
		}
		return b
	}

	z, err := m.Encode(obsAt(t0))
	if err != nil {
		return nil, fmt.Errorf("rollout: encoding initial state: %w", err)
	}

	f := func(t float64, z *mat.Dense) (*mat.Dense, error) {
		return m.Dynamics(z, obsAt(t))
	}

	tr := &Trajectory{
		Times:  append([]float64(nil), ts...),
		States: make([]*mat.Dense, 0, len(ts)),
	}

	x, err := m.Decode(z, obsAt(t0))
	if err != nil {
		return nil, fmt.Errorf("rollout: decoding at t=%g: %w", t0, err)
	}
	tr.States = append(tr.States, x)

	for i := 1; i < len(ts); i++ {
		switch opts.Method {
		case MethodDopri5:
			z, err = stepDopri5(f, z, ts[i-1], ts[i], opts.Tolerance)
		case MethodRK4:
			z, err = stepFixed(f, z, ts[i-1], ts[i], opts.Substeps, rk4Step)
		case MethodEuler:
			z, err = stepFixed(f, z, ts[i-1], ts[i], opts.Substeps, eulerStep)
		}
		if err != nil {
			return nil, err
		}
		if !matFinite(z) {
			return nil, &StepError{Time: ts[i], Wrapped: ErrUnstable}
		}

		x, err := m.Decode(z, obsAt(ts[i]))
		if err != nil {
			return nil, fmt.Errorf("rollout: decoding at t=%g: %w", ts[i], err)
		}
		tr.States = append(tr.States, x)
	}
	return tr, nil
}

// controlRows flattens w.U into one control row per sample time.
func controlRows(w *dyn.Batch) [][]float64 {
	if w == nil || w.U == nil {
		return nil
	}
	rows, cols := w.U.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			out[i][j] = w.U.At(i, j)
		}
	}
	return out
}

func repeatRow(row []float64, n int) *mat.Dense {
	out := mat.NewDense(n, len(row), nil)
	for i := 0; i < n; i++ {
		out.SetRow(i, row)
	}
	return out
}

func matFinite(m *mat.Dense) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
