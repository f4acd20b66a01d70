package dataset

import (
	"fmt"
	"math"

	"github.com/aredko/latdyn/internal/graph"
	"github.com/aredko/latdyn/internal/model"
)

// Pendulum returns a forced damped pendulum: state [theta, omega],
// control [torque] driven by a sinusoid.
func Pendulum() *Source {
	const (
		mass    = 1.0
		length  = 1.0
		damping = 0.1
		gravity = 9.81
	)
	return &Source{
		name: "pendulum",
		meta: model.Meta{
			NTotalStateFeatures:   2,
			NTotalControlFeatures: 1,
			NTotalFeatures:        3,
		},
		x0: []float64{0.5, 0},
		control: func(t float64) []float64 {
			return []float64{0.5 * math.Sin(2*math.Pi*0.2*t)}
		},
		derive: func(x, u []float64) []float64 {
			theta, omega := x[0], x[1]
			torque := 0.0
			if len(u) > 0 {
				torque = u[0]
			}
			alpha := (-damping*omega - mass*gravity*length*math.Sin(theta) + torque) / (mass * length * length)
			return []float64{omega, alpha}
		},
	}
}

// SpringMass returns a driven spring-mass oscillator: state [pos, vel],
// control [force].
func SpringMass() *Source {
	const (
		mass      = 1.0
		stiffness = 4.0
		damping   = 0.2
	)
	return &Source{
		name: "spring",
		meta: model.Meta{
			NTotalStateFeatures:   2,
			NTotalControlFeatures: 1,
			NTotalFeatures:        3,
		},
		x0: []float64{1, 0},
		control: func(t float64) []float64 {
			return []float64{math.Cos(1.5 * t)}
		},
		derive: func(x, u []float64) []float64 {
			pos, vel := x[0], x[1]
			force := 0.0
			if len(u) > 0 {
				force = u[0]
			}
			return []float64{vel, (-stiffness*pos - damping*vel + force) / mass}
		},
	}
}

// Diffusion returns heat diffusion over an undirected ring of n nodes:
// one scalar state per node, one scalar source term per node (only
// node 0 is driven). dx_i = -kappa * sum over neighbors (x_i - x_j) + u_i.
func Diffusion(n int) (*Source, error) {
	const kappa = 1.0

	e, err := graph.Ring(n)
	if err != nil {
		return nil, fmt.Errorf("dataset: building diffusion topology: %w", err)
	}

	x0 := make([]float64, n)
	x0[0] = 1 // initial heat spike

	return &Source{
		name: "diffusion",
		meta: model.Meta{
			NTotalStateFeatures:   n,
			NTotalControlFeatures: n,
			NTotalFeatures:        2 * n,
			Data:                  model.DataMeta{NNodes: n},
		},
		edges: e,
		x0:    x0,
		control: func(t float64) []float64 {
			u := make([]float64, n)
			u[0] = 0.2 * math.Sin(t)
			return u
		},
		derive: func(x, u []float64) []float64 {
			dx := make([]float64, n)
			for i := 0; i < n; i++ {
				for _, j := range e.InNeighbors(i) {
					dx[i] -= kappa * (x[i] - x[j])
				}
				if len(u) > i {
					dx[i] += u[i]
				}
			}
			return dx
		},
	}, nil
}
