// Package dyn holds the observation containers consumed by the latent
// dynamics models. A Batch is read-only from the model's point of
// view: models only ever look at its tensors and connectivity.
package dyn

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/graph"
)

// Domain errors for observation containers.
var (
	// ErrNilStates indicates a batch without a state tensor.
	ErrNilStates = errors.New("dyn: state tensor is required")

	// ErrRowMismatch indicates state and control tensors with different
	// row counts.
	ErrRowMismatch = errors.New("dyn: state and control row mismatch")
)

// Batch is an observation container: per-row state tensor X, control
// tensor U, and, for graph-structured data, the node connectivity.
// Edges is nil for flat data.
type Batch struct {
	X     *mat.Dense
	U     *mat.Dense
	Edges *graph.EdgeIndex
}

// NewBatch builds a flat observation batch. U may be nil for
// autonomous data.
func NewBatch(x, u *mat.Dense) (*Batch, error) {
	if x == nil {
		return nil, ErrNilStates
	}
	if u != nil {
		xr, _ := x.Dims()
		ur, _ := u.Dims()
		if xr != ur {
			return nil, fmt.Errorf("%w: %d state rows, %d control rows", ErrRowMismatch, xr, ur)
		}
	}
	return &Batch{X: x, U: u}, nil
}

// NewGeoBatch builds a graph observation batch carrying connectivity.
func NewGeoBatch(x, u *mat.Dense, e *graph.EdgeIndex) (*Batch, error) {
	b, err := NewBatch(x, u)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, graph.ErrNilGraph
	}
	b.Edges = e
	return b, nil
}

// Rows returns the number of observations in the batch.
func (b *Batch) Rows() int {
	r, _ := b.X.Dims()
	return r
}

// StateDim returns the state feature count.
func (b *Batch) StateDim() int {
	_, c := b.X.Dims()
	return c
}

// ControlDim returns the control feature count, zero when autonomous.
func (b *Batch) ControlDim() int {
	if b.U == nil {
		return 0
	}
	_, c := b.U.Dims()
	return c
}

// Features returns the column concatenation [X U]. The result is a
// fresh tensor; mutating it does not touch the batch.
func (b *Batch) Features() *mat.Dense {
	if b.U == nil {
		out := &mat.Dense{}
		out.CloneFrom(b.X)
		return out
	}
	out := &mat.Dense{}
	out.Augment(b.X, b.U)
	return out
}

// IsValid reports whether every entry is finite.
func (b *Batch) IsValid() bool {
	if !finite(b.X) {
		return false
	}
	return b.U == nil || finite(b.U)
}

func finite(m *mat.Dense) bool {
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
