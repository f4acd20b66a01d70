package nn

import (
	"fmt"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// dense is a single affine layer with an optional activation.
type dense struct {
	w        *mat.Dense // outDim x inDim
	b        []float64
	activate func(float64) float64
}

func newDense(inDim, outDim int, opts Options, withAct bool, rng *rand.Rand) (*dense, error) {
	act := func(x float64) float64 { return x }
	if withAct {
		var err error
		act, err = activationFunc(opts.Activation)
		if err != nil {
			return nil, err
		}
	}

	weights := make([]float64, outDim*inDim)
	initWeights(weights, inDim, outDim, opts.WeightInit, opts.Gain, rng)
	bias := make([]float64, outDim)
	initBias(bias, inDim, opts.BiasInit, rng)

	return &dense{
		w:        mat.NewDense(outDim, inDim, weights),
		b:        bias,
		activate: act,
	}, nil
}

// forward maps x (batch x inDim) to (batch x outDim).
func (l *dense) forward(x *mat.Dense) *mat.Dense {
	rows, _ := x.Dims()
	outDim, _ := l.w.Dims()

	y := mat.NewDense(rows, outDim, nil)
	y.Mul(x, l.w.T())
	for i := 0; i < rows; i++ {
		for j := 0; j < outDim; j++ {
			y.Set(i, j, l.activate(y.At(i, j)+l.b[j]))
		}
	}
	return y
}

// MLP is a feed-forward network over row-batched inputs.
//
// Layer counts follow the usual convention: 0 layers is an identity
// pass-through, 1 layer maps input directly to output, and n >= 2
// layers route input -> latent -> ... -> latent -> output.
type MLP struct {
	layers []*dense
	dims   []int
	opts   Options
}

// NewMLP builds a feed-forward network. The activation is applied after
// every layer, the last one only when opts.EndActivation holds.
func NewMLP(inputDim, latentDim, outputDim, nLayers int, opts Options) (*MLP, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if inputDim <= 0 || latentDim <= 0 || outputDim <= 0 {
		return nil, fmt.Errorf("%w: input %d, latent %d, output %d", ErrBadDimension, inputDim, latentDim, outputDim)
	}
	if nLayers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLayers, nLayers)
	}

	m := &MLP{opts: opts}
	switch nLayers {
	case 0:
		// Identity; output dimension degenerates to the input dimension.
		m.dims = []int{inputDim, inputDim}
		return m, nil
	case 1:
		m.dims = []int{inputDim, outputDim}
	default:
		m.dims = make([]int, 0, nLayers+1)
		m.dims = append(m.dims, inputDim)
		for i := 0; i < nLayers-1; i++ {
			m.dims = append(m.dims, latentDim)
		}
		m.dims = append(m.dims, outputDim)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	m.layers = make([]*dense, 0, nLayers)
	for i := 0; i < nLayers; i++ {
		withAct := i < nLayers-1 || opts.EndActivation
		l, err := newDense(m.dims[i], m.dims[i+1], opts, withAct, rng)
		if err != nil {
			return nil, err
		}
		m.layers = append(m.layers, l)
	}
	return m, nil
}

// InputDim returns the expected feature count of inputs.
func (m *MLP) InputDim() int { return m.dims[0] }

// OutputDim returns the feature count of outputs.
func (m *MLP) OutputDim() int { return m.dims[len(m.dims)-1] }

// Forward maps x (batch x InputDim) to (batch x OutputDim).
func (m *MLP) Forward(x *mat.Dense) (*mat.Dense, error) {
	_, cols := x.Dims()
	if cols != m.InputDim() {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrShapeMismatch, cols, m.InputDim())
	}
	if len(m.layers) == 0 {
		out := &mat.Dense{}
		out.CloneFrom(x)
		return out, nil
	}

	y := x
	for _, l := range m.layers {
		y = l.forward(y)
	}
	return y, nil
}

// DiagnosticInfo returns a one-line human-readable summary.
func (m *MLP) DiagnosticInfo() string {
	if len(m.layers) == 0 {
		return fmt.Sprintf("MLP identity (%d)", m.InputDim())
	}
	parts := make([]string, len(m.dims))
	for i, d := range m.dims {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return fmt.Sprintf("MLP [%s], activation=%s, end_activation=%t",
		strings.Join(parts, " -> "), m.opts.Activation, m.opts.EndActivation)
}
