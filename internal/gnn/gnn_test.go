package gnn

import (
	"errors"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/graph"
	"github.com/aredko/latdyn/internal/nn"
)

func ringIndex(t *testing.T, n int) *graph.EdgeIndex {
	t.Helper()
	e, err := graph.Ring(n)
	if err != nil {
		t.Fatalf("Ring(%d) returned error: %v", n, err)
	}
	return e
}

func TestNewGNN_Dimensions(t *testing.T) {
	g, err := NewGNN(2, 16, 8, 2, 5, ConvSAGE, nn.DefaultOptions())
	if err != nil {
		t.Fatalf("NewGNN returned error: %v", err)
	}

	if g.InputDim() != 2 {
		t.Errorf("input dim: got %d, want 2", g.InputDim())
	}
	if g.OutputDim() != 8 {
		t.Errorf("output dim: got %d, want 8", g.OutputDim())
	}
	if g.NumNodes() != 5 {
		t.Errorf("nodes: got %d, want 5", g.NumNodes())
	}
}

func TestNewGNN_Validation(t *testing.T) {
	if _, err := NewGNN(2, 16, 8, 2, 0, ConvSAGE, nn.DefaultOptions()); !errors.Is(err, ErrBadDimension) {
		t.Errorf("expected ErrBadDimension for zero nodes, got %v", err)
	}
	if _, err := NewGNN(2, 16, 8, 2, 5, "spectral", nn.DefaultOptions()); !errors.Is(err, ErrUnknownConv) {
		t.Errorf("expected ErrUnknownConv, got %v", err)
	}
	if _, err := NewGNN(2, 16, 8, -1, 5, ConvSAGE, nn.DefaultOptions()); !errors.Is(err, nn.ErrNegativeLayers) {
		t.Errorf("expected ErrNegativeLayers, got %v", err)
	}
}

func TestGNN_Forward_Shapes(t *testing.T) {
	for _, kind := range []string{ConvSAGE, ConvGCN, ConvMean} {
		t.Run(kind, func(t *testing.T) {
			g, err := NewGNN(2, 16, 3, 2, 5, kind, nn.DefaultOptions())
			if err != nil {
				t.Fatalf("NewGNN returned error: %v", err)
			}

			x := mat.NewDense(4, 10, nil)
			y, err := g.Forward(x, ringIndex(t, 5))
			if err != nil {
				t.Fatalf("Forward returned error: %v", err)
			}

			rows, cols := y.Dims()
			if rows != 4 || cols != 15 {
				t.Errorf("expected shape 4x15, got %dx%d", rows, cols)
			}
		})
	}
}

func TestGNN_Forward_Errors(t *testing.T) {
	g, _ := NewGNN(2, 16, 3, 2, 5, ConvSAGE, nn.DefaultOptions())

	x := mat.NewDense(4, 10, nil)
	if _, err := g.Forward(x, nil); !errors.Is(err, ErrNilEdgeIndex) {
		t.Errorf("expected ErrNilEdgeIndex, got %v", err)
	}
	if _, err := g.Forward(x, ringIndex(t, 4)); !errors.Is(err, ErrNodeCountMismatch) {
		t.Errorf("expected ErrNodeCountMismatch, got %v", err)
	}

	bad := mat.NewDense(4, 11, nil)
	if _, err := g.Forward(bad, ringIndex(t, 5)); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestGNN_MessagePassing(t *testing.T) {
	// Identity-free check: with zero weights every output is the bias,
	// so message passing must not blow up on isolated aggregation.
	opts := nn.DefaultOptions()
	opts.WeightInit = nn.InitZeros
	opts.BiasInit = nn.InitOnes
	opts.Activation = nn.ActIdentity

	g, err := NewGNN(1, 4, 1, 1, 3, ConvSAGE, opts)
	if err != nil {
		t.Fatalf("NewGNN returned error: %v", err)
	}

	e, err := graph.Path(3)
	if err != nil {
		t.Fatalf("Path returned error: %v", err)
	}

	x := mat.NewDense(1, 3, []float64{1, 2, 3})
	y, err := g.Forward(x, e)
	if err != nil {
		t.Fatalf("Forward returned error: %v", err)
	}

	for j := 0; j < 3; j++ {
		if y.At(0, j) != 1 {
			t.Errorf("node %d: expected bias-only output 1, got %f", j, y.At(0, j))
		}
	}
}

func TestGNN_NeighborInfluence(t *testing.T) {
	// With identity activation and known weights, a node's output must
	// depend on its neighbors' inputs.
	opts := nn.DefaultOptions()
	opts.Activation = nn.ActIdentity
	opts.Seed = 7

	g, err := NewGNN(1, 4, 1, 1, 3, ConvSAGE, opts)
	if err != nil {
		t.Fatalf("NewGNN returned error: %v", err)
	}
	e, _ := graph.Path(3)

	a := mat.NewDense(1, 3, []float64{1, 0, 0})
	b := mat.NewDense(1, 3, []float64{2, 0, 0})

	ya, _ := g.Forward(a, e)
	yb, _ := g.Forward(b, e)

	// Node 1 neighbors node 0, whose input changed.
	if ya.At(0, 1) == yb.At(0, 1) {
		t.Error("expected node 1 output to change with neighbor input")
	}
	// Node 2 does not neighbor node 0: only self and node 1 inputs count,
	// and those are unchanged.
	if ya.At(0, 2) != yb.At(0, 2) {
		t.Error("expected node 2 output to be unaffected by node 0 input")
	}
}

func TestGNN_Passthrough(t *testing.T) {
	g, err := NewGNN(2, 16, 3, 0, 5, ConvSAGE, nn.DefaultOptions())
	if err != nil {
		t.Fatalf("NewGNN returned error: %v", err)
	}

	x := mat.NewDense(2, 10, nil)
	x.Set(0, 3, 1.5)
	y, err := g.Forward(x, ringIndex(t, 5))
	if err != nil {
		t.Fatalf("Forward returned error: %v", err)
	}
	if !mat.EqualApprox(x, y, 0) {
		t.Error("zero-layer GNN should pass input through unchanged")
	}
}

func TestGNN_DiagnosticInfo(t *testing.T) {
	g, _ := NewGNN(2, 16, 3, 2, 5, ConvGCN, nn.DefaultOptions())
	info := g.DiagnosticInfo()

	if !strings.Contains(info, "gcn") {
		t.Errorf("expected conv kind in diagnostic info, got %q", info)
	}
	if !strings.Contains(info, "nodes=5") {
		t.Errorf("expected node count in diagnostic info, got %q", info)
	}
}
