package rollout

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Control interpolation orders.
const (
	OrderCubic  = "cubic"
	OrderAkima  = "akima"
	OrderLinear = "linear"
	OrderZOH    = "zoh"
)

// controlSignal interpolates per-channel control values between sample
// times. A nil signal (autonomous system) yields no control columns.
type controlSignal struct {
	preds []interp.Predictor
	dim   int
}

// constantPredictor returns a fixed value; used when only one sample
// exists and fitting a spline is impossible.
type constantPredictor struct{ v float64 }

func (c constantPredictor) Predict(float64) float64 { return c.v }

// fitControl builds one predictor per control channel over ts.
// u is (len(ts) x dim); order names the interpolation scheme.
func fitControl(ts []float64, u [][]float64, order string) (*controlSignal, error) {
	if len(u) == 0 {
		return nil, nil
	}
	if len(u) != len(ts) {
		return nil, fmt.Errorf("%w: %d control rows, %d time points", ErrControlLength, len(u), len(ts))
	}

	dim := len(u[0])
	cs := &controlSignal{preds: make([]interp.Predictor, dim), dim: dim}

	for j := 0; j < dim; j++ {
		ys := make([]float64, len(ts))
		for i := range ts {
			ys[i] = u[i][j]
		}

		if len(ts) == 1 {
			cs.preds[j] = constantPredictor{v: ys[0]}
			continue
		}

		var p interp.FittablePredictor
		switch order {
		case OrderCubic:
			p = &interp.NaturalCubic{}
		case OrderAkima:
			p = &interp.AkimaSpline{}
		case OrderLinear:
			p = &interp.PiecewiseLinear{}
		case OrderZOH:
			p = &interp.PiecewiseConstant{}
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownOrder, order)
		}
		if err := p.Fit(ts, ys); err != nil {
			return nil, fmt.Errorf("rollout: fitting control channel %d: %w", j, err)
		}
		cs.preds[j] = p
	}
	return cs, nil
}

// at evaluates the control vector at time t, clamped to the sample
// range so adaptive solvers probing slightly past the end stay defined.
func (cs *controlSignal) at(t, tMin, tMax float64) []float64 {
	if cs == nil {
		return nil
	}
	if t < tMin {
		t = tMin
	}
	if t > tMax {
		t = tMax
	}
	out := make([]float64, cs.dim)
	for j, p := range cs.preds {
		out[j] = p.Predict(t)
	}
	return out
}
