// Package metrics scores predicted trajectories against references.
package metrics

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/rollout"
)

// ErrLengthMismatch indicates trajectories of different lengths.
var ErrLengthMismatch = errors.New("metrics: trajectory length mismatch")

// Metric accumulates per-time-step observations of a predicted and a
// reference state tensor.
type Metric interface {
	Name() string
	Observe(pred, ref *mat.Dense)
	Value() float64
	Reset()
}

type rmse struct {
	sum     float64
	samples int
}

// NewRMSE returns the root-mean-square error over all entries.
func NewRMSE() Metric { return &rmse{} }

func (m *rmse) Name() string { return "rmse" }

func (m *rmse) Observe(pred, ref *mat.Dense) {
	r, c := pred.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := pred.At(i, j) - ref.At(i, j)
			m.sum += d * d
			m.samples++
		}
	}
}

func (m *rmse) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return math.Sqrt(m.sum / float64(m.samples))
}

func (m *rmse) Reset() {
	m.sum = 0
	m.samples = 0
}

type mae struct {
	sum     float64
	samples int
}

// NewMAE returns the mean absolute error over all entries.
func NewMAE() Metric { return &mae{} }

func (m *mae) Name() string { return "mae" }

func (m *mae) Observe(pred, ref *mat.Dense) {
	r, c := pred.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.sum += math.Abs(pred.At(i, j) - ref.At(i, j))
			m.samples++
		}
	}
}

func (m *mae) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *mae) Reset() {
	m.sum = 0
	m.samples = 0
}

type maxErr struct {
	max float64
}

// NewMaxError returns the largest absolute entry error seen.
func NewMaxError() Metric { return &maxErr{} }

func (m *maxErr) Name() string { return "max_error" }

func (m *maxErr) Observe(pred, ref *mat.Dense) {
	r, c := pred.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.max = math.Max(m.max, math.Abs(pred.At(i, j)-ref.At(i, j)))
		}
	}
}

func (m *maxErr) Value() float64 { return m.max }

func (m *maxErr) Reset() { m.max = 0 }

// Evaluate runs every metric over two aligned trajectories and returns
// name -> value.
func Evaluate(pred, ref *rollout.Trajectory, ms ...Metric) (map[string]float64, error) {
	if pred.Len() != ref.Len() {
		return nil, ErrLengthMismatch
	}
	for _, m := range ms {
		m.Reset()
	}
	for i := range pred.States {
		for _, m := range ms {
			m.Observe(pred.States[i], ref.States[i])
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out, nil
}

// Defaults returns the standard metric set for rollout evaluation.
func Defaults() []Metric {
	return []Metric{NewRMSE(), NewMAE(), NewMaxError()}
}
