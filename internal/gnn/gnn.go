// Package gnn builds message-passing networks over node-blocked row
// batches. An input row holds the features of every node back to back:
// [batch, nNodes*inputDim] -> [batch, nNodes*outputDim]. Connectivity
// comes in at call time as an edge index, so one network serves any
// topology with the right node count.
package gnn

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/graph"
	"github.com/aredko/latdyn/internal/nn"
)

// Graph convolution kinds.
const (
	ConvSAGE = "sage"
	ConvGCN  = "gcn"
	ConvMean = "mean"
)

// conv is a single graph-convolution layer. SAGE keeps separate
// self and neighbor transforms; gcn and mean share one.
type conv struct {
	kind     string
	wSelf    *mat.Dense // outDim x inDim
	wNeigh   *mat.Dense // outDim x inDim, nil unless sage
	b        []float64
	inDim    int
	outDim   int
	activate func(float64) float64
}

// GNN is a stack of graph-convolution layers applied per node.
type GNN struct {
	layers []*conv
	dims   []int // per-node feature sizes
	nNodes int
	kind   string
	opts   nn.Options
}

// NewGNN builds a message-passing network with per-node dimensions
// following the same layer-count convention as nn.NewMLP.
func NewGNN(inputDim, latentDim, outputDim, nLayers, nNodes int, convKind string, opts nn.Options) (*GNN, error) {
	if convKind == "" {
		convKind = ConvSAGE
	}
	switch convKind {
	case ConvSAGE, ConvGCN, ConvMean:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownConv, convKind)
	}
	if inputDim <= 0 || latentDim <= 0 || outputDim <= 0 || nNodes <= 0 {
		return nil, fmt.Errorf("%w: input %d, latent %d, output %d, nodes %d",
			ErrBadDimension, inputDim, latentDim, outputDim, nNodes)
	}
	if nLayers < 0 {
		return nil, fmt.Errorf("%w: %d", nn.ErrNegativeLayers, nLayers)
	}

	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	g := &GNN{nNodes: nNodes, kind: convKind, opts: opts}
	switch nLayers {
	case 0:
		g.dims = []int{inputDim, inputDim}
		return g, nil
	case 1:
		g.dims = []int{inputDim, outputDim}
	default:
		g.dims = make([]int, 0, nLayers+1)
		g.dims = append(g.dims, inputDim)
		for i := 0; i < nLayers-1; i++ {
			g.dims = append(g.dims, latentDim)
		}
		g.dims = append(g.dims, outputDim)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	g.layers = make([]*conv, 0, nLayers)
	for i := 0; i < nLayers; i++ {
		withAct := i < nLayers-1 || opts.EndActivation
		l, err := newConv(convKind, g.dims[i], g.dims[i+1], opts, withAct, rng)
		if err != nil {
			return nil, err
		}
		g.layers = append(g.layers, l)
	}
	return g, nil
}

func newConv(kind string, inDim, outDim int, opts nn.Options, withAct bool, rng *rand.Rand) (*conv, error) {
	act, err := nn.ActivationFor(opts, withAct)
	if err != nil {
		return nil, err
	}

	c := &conv{
		kind:     kind,
		wSelf:    mat.NewDense(outDim, inDim, nn.InitWeightSlice(inDim, outDim, opts, rng)),
		b:        nn.InitBiasSlice(inDim, outDim, opts, rng),
		inDim:    inDim,
		outDim:   outDim,
		activate: act,
	}
	if kind == ConvSAGE {
		c.wNeigh = mat.NewDense(outDim, inDim, nn.InitWeightSlice(inDim, outDim, opts, rng))
	}
	return c, nil
}

// InputDim returns the per-node input feature count.
func (g *GNN) InputDim() int { return g.dims[0] }

// OutputDim returns the per-node output feature count.
func (g *GNN) OutputDim() int { return g.dims[len(g.dims)-1] }

// NumNodes returns the node count the network was built for.
func (g *GNN) NumNodes() int { return g.nNodes }

// Forward maps x (batch x nNodes*InputDim) to (batch x nNodes*OutputDim),
// aggregating neighbor features per the edge index at every layer.
func (g *GNN) Forward(x *mat.Dense, e *graph.EdgeIndex) (*mat.Dense, error) {
	if e == nil {
		return nil, ErrNilEdgeIndex
	}
	if e.NumNodes() != g.nNodes {
		return nil, fmt.Errorf("%w: got %d nodes, want %d", ErrNodeCountMismatch, e.NumNodes(), g.nNodes)
	}
	_, cols := x.Dims()
	if cols != g.nNodes*g.InputDim() {
		return nil, fmt.Errorf("%w: got %d features, want %d (%d nodes x %d)",
			ErrShapeMismatch, cols, g.nNodes*g.InputDim(), g.nNodes, g.InputDim())
	}
	if len(g.layers) == 0 {
		out := &mat.Dense{}
		out.CloneFrom(x)
		return out, nil
	}

	y := x
	for _, l := range g.layers {
		y = l.forward(y, e, g.nNodes)
	}
	return y, nil
}

func (l *conv) forward(x *mat.Dense, e *graph.EdgeIndex, nNodes int) *mat.Dense {
	rows, _ := x.Dims()
	out := mat.NewDense(rows, nNodes*l.outDim, nil)

	agg := mat.NewDense(rows, l.inDim, nil)
	tmp := mat.NewDense(rows, l.outDim, nil)
	tmp2 := mat.NewDense(rows, l.outDim, nil)

	for i := 0; i < nNodes; i++ {
		h := x.Slice(0, rows, i*l.inDim, (i+1)*l.inDim).(*mat.Dense)
		l.aggregate(agg, x, e, i, rows)

		switch l.kind {
		case ConvSAGE:
			tmp.Mul(h, l.wSelf.T())
			tmp2.Mul(agg, l.wNeigh.T())
			tmp.Add(tmp, tmp2)
		default:
			// gcn and mean fold the self features into the aggregate.
			tmp.Mul(agg, l.wSelf.T())
		}

		dst := out.Slice(0, rows, i*l.outDim, (i+1)*l.outDim).(*mat.Dense)
		for r := 0; r < rows; r++ {
			for c := 0; c < l.outDim; c++ {
				dst.Set(r, c, l.activate(tmp.At(r, c)+l.b[c]))
			}
		}
	}
	return out
}

// aggregate fills agg (rows x inDim) with the neighborhood combination
// for node i per the convolution kind.
func (l *conv) aggregate(agg, x *mat.Dense, e *graph.EdgeIndex, i, rows int) {
	agg.Zero()
	neigh := e.InNeighbors(i)

	switch l.kind {
	case ConvSAGE:
		// Mean of in-neighbors, zero when isolated.
		if len(neigh) == 0 {
			return
		}
		for _, j := range neigh {
			agg.Add(agg, x.Slice(0, rows, j*l.inDim, (j+1)*l.inDim).(*mat.Dense))
		}
		agg.Scale(1.0/float64(len(neigh)), agg)

	case ConvGCN:
		// Symmetric normalization with self-loop: 1/sqrt((di+1)(dj+1)).
		di := float64(len(neigh)) + 1
		self := x.Slice(0, rows, i*l.inDim, (i+1)*l.inDim).(*mat.Dense)
		scaled := mat.NewDense(rows, l.inDim, nil)
		scaled.Scale(1.0/di, self)
		agg.Add(agg, scaled)
		for _, j := range neigh {
			dj := float64(len(e.InNeighbors(j))) + 1
			scaled.Scale(1.0/math.Sqrt(di*dj), x.Slice(0, rows, j*l.inDim, (j+1)*l.inDim).(*mat.Dense))
			agg.Add(agg, scaled)
		}

	case ConvMean:
		// Plain mean over the closed neighborhood.
		agg.Add(agg, x.Slice(0, rows, i*l.inDim, (i+1)*l.inDim).(*mat.Dense))
		for _, j := range neigh {
			agg.Add(agg, x.Slice(0, rows, j*l.inDim, (j+1)*l.inDim).(*mat.Dense))
		}
		agg.Scale(1.0/float64(len(neigh)+1), agg)
	}
}

// DiagnosticInfo returns a one-line human-readable summary.
func (g *GNN) DiagnosticInfo() string {
	if len(g.layers) == 0 {
		return fmt.Sprintf("GNN identity (%d nodes x %d)", g.nNodes, g.InputDim())
	}
	parts := make([]string, len(g.dims))
	for i, d := range g.dims {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return fmt.Sprintf("GNN(%s) [%s] per node, nodes=%d, activation=%s, end_activation=%t",
		g.kind, strings.Join(parts, " -> "), g.nNodes, g.opts.Activation, g.opts.EndActivation)
}
