package rollout

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Dormand-Prince coefficients (dopri5).
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// Step-size control constants.
const (
	safety   = 0.9
	minScale = 0.2
	maxScale = 10.0
	maxIters = 100000
)

type derivFunc func(t float64, z *mat.Dense) (*mat.Dense, error)

// combine returns z + h * sum(coefs[i] * ks[i]).
func combine(z *mat.Dense, h float64, coefs []float64, ks []*mat.Dense) *mat.Dense {
	rows, cols := z.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := z.At(i, j)
			for n, k := range ks {
				v += h * coefs[n] * k.At(i, j)
			}
			out.Set(i, j, v)
		}
	}
	return out
}

func eulerStep(f derivFunc, z *mat.Dense, t, h float64) (*mat.Dense, error) {
	k1, err := f(t, z)
	if err != nil {
		return nil, err
	}
	return combine(z, h, []float64{1}, []*mat.Dense{k1}), nil
}

func rk4Step(f derivFunc, z *mat.Dense, t, h float64) (*mat.Dense, error) {
	k1, err := f(t, z)
	if err != nil {
		return nil, err
	}
	k2, err := f(t+h/2, combine(z, h/2, []float64{1}, []*mat.Dense{k1}))
	if err != nil {
		return nil, err
	}
	k3, err := f(t+h/2, combine(z, h/2, []float64{1}, []*mat.Dense{k2}))
	if err != nil {
		return nil, err
	}
	k4, err := f(t+h, combine(z, h, []float64{1}, []*mat.Dense{k3}))
	if err != nil {
		return nil, err
	}
	return combine(z, h/6, []float64{1, 2, 2, 1}, []*mat.Dense{k1, k2, k3, k4}), nil
}

// stepFixed advances z from ta to tb in n equal substeps of the given
// single-step scheme.
func stepFixed(f derivFunc, z *mat.Dense, ta, tb float64, n int, step func(derivFunc, *mat.Dense, float64, float64) (*mat.Dense, error)) (*mat.Dense, error) {
	h := (tb - ta) / float64(n)
	t := ta
	var err error
	for i := 0; i < n; i++ {
		z, err = step(f, z, t, h)
		if err != nil {
			return nil, err
		}
		t += h
	}
	return z, nil
}

// stepDopri5 advances z from ta to tb with adaptive Dormand-Prince
// stepping and the classic error-scaled step control.
func stepDopri5(f derivFunc, z *mat.Dense, ta, tb float64, tol float64) (*mat.Dense, error) {
	t := ta
	h := (tb - ta) / 10.0
	minStep := (tb - ta) * 1e-12

	for iter := 0; iter < maxIters; iter++ {
		if t >= tb {
			return z, nil
		}
		if h > tb-t {
			h = tb - t
		}

		k1, err := f(t, z)
		if err != nil {
			return nil, err
		}
		k2, err := f(t+a2*h, combine(z, h, []float64{b21}, []*mat.Dense{k1}))
		if err != nil {
			return nil, err
		}
		k3, err := f(t+a3*h, combine(z, h, []float64{b31, b32}, []*mat.Dense{k1, k2}))
		if err != nil {
			return nil, err
		}
		k4, err := f(t+a4*h, combine(z, h, []float64{b41, b42, b43}, []*mat.Dense{k1, k2, k3}))
		if err != nil {
			return nil, err
		}
		k5, err := f(t+a5*h, combine(z, h, []float64{b51, b52, b53, b54}, []*mat.Dense{k1, k2, k3, k4}))
		if err != nil {
			return nil, err
		}
		k6, err := f(t+h, combine(z, h, []float64{b61, b62, b63, b64, b65}, []*mat.Dense{k1, k2, k3, k4, k5}))
		if err != nil {
			return nil, err
		}

		zNew := combine(z, h, []float64{c1, c3, c4, c5, c6}, []*mat.Dense{k1, k3, k4, k5, k6})
		k7, err := f(t+h, zNew)
		if err != nil {
			return nil, err
		}

		errMax := 0.0
		rows, cols := z.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				errEst := h * (dc1*k1.At(i, j) + dc3*k3.At(i, j) + dc4*k4.At(i, j) +
					dc5*k5.At(i, j) + dc6*k6.At(i, j) + dc7*k7.At(i, j))
				scale := math.Abs(z.At(i, j)) + math.Abs(h*k1.At(i, j)) + 1e-10
				errMax = math.Max(errMax, math.Abs(errEst)/scale)
			}
		}

		errRatio := errMax / tol
		if errRatio <= 1 {
			t += h
			z = zNew
			if errRatio > 0 {
				h *= math.Min(maxScale, safety*math.Pow(errRatio, -0.2))
			} else {
				h *= maxScale
			}
		} else {
			h *= math.Max(minScale, safety*math.Pow(errRatio, -0.25))
			if h < minStep {
				return nil, &StepError{Time: t, Wrapped: ErrStepTooSmall}
			}
		}
	}
	return nil, &StepError{Time: t, Wrapped: ErrStepTooSmall}
}
