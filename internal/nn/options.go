package nn

import (
	"fmt"
	"math"
	"math/rand"
)

// Recognized option values.
const (
	ActPReLU    = "prelu"
	ActReLU     = "relu"
	ActTanh     = "tanh"
	ActSigmoid  = "sigmoid"
	ActELU      = "elu"
	ActIdentity = "identity"

	InitXavierUniform  = "xavier_uniform"
	InitXavierNormal   = "xavier_normal"
	InitKaimingUniform = "kaiming_uniform"
	InitKaimingNormal  = "kaiming_normal"
	InitZeros          = "zeros"
	InitOnes           = "ones"
	InitUniform        = "uniform"
)

// preluSlope is the fixed negative-side slope used by the prelu
// activation.
const preluSlope = 0.25

// Options carries the shared style settings for network construction.
// Named fields instead of an open-ended map so typos fail at
// construction time.
type Options struct {
	Activation    string
	WeightInit    string
	BiasInit      string
	Gain          float64
	EndActivation bool
	Seed          int64
}

// DefaultOptions returns the standard style settings.
func DefaultOptions() Options {
	return Options{
		Activation:    ActPReLU,
		WeightInit:    InitXavierUniform,
		BiasInit:      InitZeros,
		Gain:          1.0,
		EndActivation: true,
	}
}

// WithDefaults fills zero-valued fields so partially specified options
// never fail on missing keys.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Activation == "" {
		o.Activation = d.Activation
	}
	if o.WeightInit == "" {
		o.WeightInit = d.WeightInit
	}
	if o.BiasInit == "" {
		o.BiasInit = d.BiasInit
	}
	if o.Gain == 0 {
		o.Gain = d.Gain
	}
	return o
}

// Validate rejects unrecognized option strings. Call on defaulted
// options (see WithDefaults).
func (o Options) Validate() error {
	if _, err := activationFunc(o.Activation); err != nil {
		return err
	}
	switch o.WeightInit {
	case InitXavierUniform, InitXavierNormal, InitKaimingUniform, InitKaimingNormal, InitZeros:
	default:
		return fmt.Errorf("%w: weight init %q", ErrUnknownInit, o.WeightInit)
	}
	switch o.BiasInit {
	case InitZeros, InitOnes, InitUniform:
	default:
		return fmt.Errorf("%w: bias init %q", ErrUnknownInit, o.BiasInit)
	}
	return nil
}

func activationFunc(name string) (func(float64) float64, error) {
	switch name {
	case ActPReLU:
		return func(x float64) float64 {
			if x < 0 {
				return preluSlope * x
			}
			return x
		}, nil
	case ActReLU:
		return func(x float64) float64 { return math.Max(0, x) }, nil
	case ActTanh:
		return math.Tanh, nil
	case ActSigmoid:
		return func(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }, nil
	case ActELU:
		return func(x float64) float64 {
			if x < 0 {
				return math.Expm1(x)
			}
			return x
		}, nil
	case ActIdentity, "":
		return func(x float64) float64 { return x }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivation, name)
	}
}

// initWeights fills w (outDim x inDim, row-major) per the named scheme.
func initWeights(w []float64, inDim, outDim int, scheme string, gain float64, rng *rand.Rand) {
	switch scheme {
	case InitXavierUniform:
		a := gain * math.Sqrt(6.0/float64(inDim+outDim))
		for i := range w {
			w[i] = (2*rng.Float64() - 1) * a
		}
	case InitXavierNormal:
		std := gain * math.Sqrt(2.0/float64(inDim+outDim))
		for i := range w {
			w[i] = rng.NormFloat64() * std
		}
	case InitKaimingUniform:
		a := gain * math.Sqrt(3.0/float64(inDim))
		for i := range w {
			w[i] = (2*rng.Float64() - 1) * a
		}
	case InitKaimingNormal:
		std := gain / math.Sqrt(float64(inDim))
		for i := range w {
			w[i] = rng.NormFloat64() * std
		}
	case InitZeros:
		for i := range w {
			w[i] = 0
		}
	}
}

// ActivationFor returns the activation for opts, or identity when
// withAct is false. Used by sibling network builders so every stage
// resolves names identically.
func ActivationFor(opts Options, withAct bool) (func(float64) float64, error) {
	if !withAct {
		return func(x float64) float64 { return x }, nil
	}
	return activationFunc(opts.Activation)
}

// InitWeightSlice returns a freshly initialized outDim x inDim
// row-major weight slice per opts.
func InitWeightSlice(inDim, outDim int, opts Options, rng *rand.Rand) []float64 {
	w := make([]float64, outDim*inDim)
	initWeights(w, inDim, outDim, opts.WeightInit, opts.Gain, rng)
	return w
}

// InitBiasSlice returns a freshly initialized bias slice of length
// outDim per opts.
func InitBiasSlice(inDim, outDim int, opts Options, rng *rand.Rand) []float64 {
	b := make([]float64, outDim)
	initBias(b, inDim, opts.BiasInit, rng)
	return b
}

// initBias fills b per the named scheme.
func initBias(b []float64, inDim int, scheme string, rng *rand.Rand) {
	switch scheme {
	case InitZeros:
		for i := range b {
			b[i] = 0
		}
	case InitOnes:
		for i := range b {
			b[i] = 1
		}
	case InitUniform:
		a := 1.0 / math.Sqrt(float64(inDim))
		for i := range b {
			b[i] = (2*rng.Float64() - 1) * a
		}
	}
}
