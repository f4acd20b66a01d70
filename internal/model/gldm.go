package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/dyn"
	"github.com/aredko/latdyn/internal/gnn"
	"github.com/aredko/latdyn/internal/nn"
	"github.com/aredko/latdyn/internal/rollout"
)

// GLDM is the graph latent dynamics model. Encoder and decoder are
// message-passing networks over per-node features; the dynamics
// network is a feed-forward map over the flattened all-nodes latent
// vector and has no knowledge of connectivity.
type GLDM struct {
	stateFeatures   int
	controlFeatures int
	totalFeatures   int
	latent          int
	nNodes          int
	inputOrder      string

	encoderNet  *gnn.GNN
	dynamicsNet *nn.MLP
	decoderNet  *gnn.GNN
}

// NewGLDM builds the graph variant. Feature counts must be evenly
// divisible by the node count; violations fail here with a
// configuration error rather than as a shape failure inside a
// sub-network. Encoder and decoder always route through per-node
// latent vectors, so their layer counts must be at least one.
func NewGLDM(cfg Config, meta Meta) (*GLDM, error) {
	if err := meta.validateGraph(); err != nil {
		return nil, err
	}
	r, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	if r.EncLayers == 0 || r.DecLayers == 0 {
		return nil, fmt.Errorf("%w: graph encoder and decoder need at least one layer", ErrBadConfig)
	}

	n := meta.Data.NNodes
	m := &GLDM{
		stateFeatures:   meta.NTotalStateFeatures,
		controlFeatures: meta.NTotalControlFeatures,
		totalFeatures:   meta.NTotalFeatures,
		latent:          r.Latent,
		nNodes:          n,
		inputOrder:      r.InputOrder,
	}

	opts := r.Opts
	m.encoderNet, err = gnn.NewGNN(meta.NTotalFeatures/n, r.Latent, r.Latent, r.EncLayers, n, r.GCL, opts)
	if err != nil {
		return nil, fmt.Errorf("model: building graph encoder: %w", err)
	}
	opts.Seed++
	m.dynamicsNet, err = nn.NewMLP(r.Latent*n, r.Latent, r.Latent*n, r.ProcLayers, opts)
	if err != nil {
		return nil, fmt.Errorf("model: building dynamics: %w", err)
	}
	opts.Seed++
	m.decoderNet, err = gnn.NewGNN(r.Latent, r.Latent, meta.NTotalStateFeatures/n, r.DecLayers, n, r.GCL, opts)
	if err != nil {
		return nil, fmt.Errorf("model: building graph decoder: %w", err)
	}
	return m, nil
}

// LatentDim returns the per-node latent dimension.
func (m *GLDM) LatentDim() int { return m.latent }

// NumNodes returns the node count the model was built for.
func (m *GLDM) NumNodes() int { return m.nNodes }

// StateDim returns the reconstructed state feature count across all
// nodes.
func (m *GLDM) StateDim() int { return m.stateFeatures }

// InputOrder returns the configured control interpolation order.
func (m *GLDM) InputOrder() string { return m.inputOrder }

// Encode maps concatenated per-node state and control features into
// per-node latent vectors, flattened node-major. Requires the edge
// index from w.
func (m *GLDM) Encode(w *dyn.Batch) (*mat.Dense, error) {
	feats, err := interleaveNodeBlocks(w.X, w.U, m.nNodes)
	if err != nil {
		return nil, err
	}
	return m.encoderNet.Forward(feats, w.Edges)
}

// Dynamics maps the flattened all-nodes latent vector to its
// time-derivative. Connectivity is not used.
func (m *GLDM) Dynamics(z *mat.Dense, w *dyn.Batch) (*mat.Dense, error) {
	return m.dynamicsNet.Forward(z)
}

// Decode reconstructs per-node states from per-node latent vectors.
// Requires the edge index from w.
func (m *GLDM) Decode(z *mat.Dense, w *dyn.Batch) (*mat.Dense, error) {
	return m.decoderNet.Forward(z, w.Edges)
}

// Forward runs the full encoder -> dynamics -> decoder pass.
func (m *GLDM) Forward(w *dyn.Batch) (*mat.Dense, *mat.Dense, *mat.Dense, error) {
	return runForward(m, w)
}

// Predict rolls out a trajectory from x0 over ts, threading the edge
// index from w through every stage call.
func (m *GLDM) Predict(x0 *mat.Dense, w *dyn.Batch, ts []float64, method string) (*rollout.Trajectory, error) {
	return rollout.Continuous(m, x0, w, ts, rollout.Options{
		Method: method,
		Order:  m.inputOrder,
	})
}

// DiagnosticInfo reports the model composition.
func (m *GLDM) DiagnosticInfo() string {
	return diagnostics("GLDM (graph latent dynamics model)", m.encoderNet, m.dynamicsNet, m.decoderNet, m.inputOrder)
}

// interleaveNodeBlocks builds the per-node feature layout the graph
// encoder expects: for each node, its state features followed by its
// control features. X and U are node-blocked across their columns.
func interleaveNodeBlocks(x, u *mat.Dense, nNodes int) (*mat.Dense, error) {
	rows, xc := x.Dims()
	if xc%nNodes != 0 {
		return nil, fmt.Errorf("%w: state features %d, nodes %d", ErrIndivisible, xc, nNodes)
	}
	if u == nil {
		out := &mat.Dense{}
		out.CloneFrom(x)
		return out, nil
	}

	_, uc := u.Dims()
	if uc%nNodes != 0 {
		return nil, fmt.Errorf("%w: control features %d, nodes %d", ErrIndivisible, uc, nNodes)
	}

	xs, us := xc/nNodes, uc/nNodes
	out := mat.NewDense(rows, xc+uc, nil)
	for i := 0; i < nNodes; i++ {
		for r := 0; r < rows; r++ {
			for j := 0; j < xs; j++ {
				out.Set(r, i*(xs+us)+j, x.At(r, i*xs+j))
			}
			for j := 0; j < us; j++ {
				out.Set(r, i*(xs+us)+xs+j, u.At(r, i*us+j))
			}
		}
	}
	return out, nil
}
