// Package dataset synthesizes ground-truth observation batches for
// training and evaluating latent dynamics models. Each source wraps a
// known ODE system; trajectories are integrated with the same rollout
// machinery the models use for prediction.
package dataset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/dyn"
	"github.com/aredko/latdyn/internal/graph"
	"github.com/aredko/latdyn/internal/model"
	"github.com/aredko/latdyn/internal/rollout"
)

// ErrUnknownDataset indicates an unrecognized source name.
var ErrUnknownDataset = errors.New("dataset: unknown dataset")

// Source is a synthetic observation generator with a known governing
// equation.
type Source struct {
	name    string
	meta    model.Meta
	edges   *graph.EdgeIndex
	x0      []float64
	control func(t float64) []float64
	derive  func(x, u []float64) []float64
}

// New returns the named source with its default parameters.
func New(name string) (*Source, error) {
	switch name {
	case "pendulum":
		return Pendulum(), nil
	case "spring":
		return SpringMass(), nil
	case "diffusion":
		return Diffusion(8)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
}

// Names lists the available sources.
func Names() []string { return []string{"pendulum", "spring", "diffusion"} }

// Name returns the source name.
func (s *Source) Name() string { return s.name }

// Meta returns the data metadata models are constructed from.
func (s *Source) Meta() model.Meta { return s.meta }

// Edges returns the node connectivity, nil for flat sources.
func (s *Source) Edges() *graph.EdgeIndex { return s.edges }

// InitialState returns the default initial condition as a 1-row tensor.
func (s *Source) InitialState() *mat.Dense {
	return mat.NewDense(1, len(s.x0), append([]float64(nil), s.x0...))
}

// stages adapts the governing equation to the rollout interface: the
// "latent" space is the physical state itself.
type stages struct{ s *Source }

func (st stages) Encode(w *dyn.Batch) (*mat.Dense, error) {
	out := &mat.Dense{}
	out.CloneFrom(w.X)
	return out, nil
}

func (st stages) Decode(z *mat.Dense, w *dyn.Batch) (*mat.Dense, error) {
	out := &mat.Dense{}
	out.CloneFrom(z)
	return out, nil
}

func (st stages) Dynamics(z *mat.Dense, w *dyn.Batch) (*mat.Dense, error) {
	rows, cols := z.Dims()
	out := mat.NewDense(rows, cols, nil)
	x := make([]float64, cols)
	var u []float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x[j] = z.At(i, j)
		}
		if w.U != nil {
			u = mat.Row(nil, i, w.U)
		}
		out.SetRow(i, st.s.derive(x, u))
	}
	return out, nil
}

// Sample integrates the governing equation over ts and returns the
// resulting observation batch: one row per time point, with the
// control signal sampled on the same grid.
func (s *Source) Sample(ts []float64) (*dyn.Batch, error) {
	u := s.controlTensor(ts)
	w := &dyn.Batch{X: s.InitialState(), U: u, Edges: s.edges}

	tr, err := rollout.Continuous(stages{s}, s.InitialState(), w, ts, rollout.Options{
		Method: rollout.MethodRK4,
		Order:  rollout.OrderLinear,
	})
	if err != nil {
		return nil, fmt.Errorf("dataset: integrating %s: %w", s.name, err)
	}

	x := mat.NewDense(len(ts), len(s.x0), nil)
	for i, st := range tr.States {
		x.SetRow(i, mat.Row(nil, 0, st))
	}

	if s.edges != nil {
		return dyn.NewGeoBatch(x, u, s.edges)
	}
	return dyn.NewBatch(x, u)
}

// Reference returns the ground-truth trajectory over ts, for scoring
// model predictions.
func (s *Source) Reference(ts []float64) (*rollout.Trajectory, error) {
	b, err := s.Sample(ts)
	if err != nil {
		return nil, err
	}
	tr := &rollout.Trajectory{
		Times:  append([]float64(nil), ts...),
		States: make([]*mat.Dense, len(ts)),
	}
	for i := range ts {
		tr.States[i] = mat.NewDense(1, b.StateDim(), mat.Row(nil, i, b.X))
	}
	return tr, nil
}

func (s *Source) controlTensor(ts []float64) *mat.Dense {
	if s.control == nil {
		return nil
	}
	dim := len(s.control(ts[0]))
	u := mat.NewDense(len(ts), dim, nil)
	for i, t := range ts {
		u.SetRow(i, s.control(t))
	}
	return u
}
