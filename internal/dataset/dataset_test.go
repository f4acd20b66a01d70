package dataset

import (
	"errors"
	"math"
	"testing"
)

func timeGrid(t0, t1 float64, n int) []float64 {
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = t0 + (t1-t0)*float64(i)/float64(n-1)
	}
	return ts
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := New(name)
			if err != nil {
				t.Fatalf("New(%q) returned error: %v", name, err)
			}
			if s.Name() != name {
				t.Errorf("expected name %q, got %q", name, s.Name())
			}
		})
	}

	if _, err := New("lorenz96"); !errors.Is(err, ErrUnknownDataset) {
		t.Errorf("expected ErrUnknownDataset, got %v", err)
	}
}

func TestPendulum_Sample(t *testing.T) {
	s := Pendulum()
	ts := timeGrid(0, 2, 41)

	b, err := s.Sample(ts)
	if err != nil {
		t.Fatalf("Sample returned error: %v", err)
	}

	if b.Rows() != 41 {
		t.Errorf("expected 41 rows, got %d", b.Rows())
	}
	if b.StateDim() != 2 || b.ControlDim() != 1 {
		t.Errorf("unexpected dims: state %d, control %d", b.StateDim(), b.ControlDim())
	}
	if !b.IsValid() {
		t.Error("sampled batch contains NaN or Inf")
	}

	// The pendulum starts displaced and must move.
	if b.X.At(40, 0) == b.X.At(0, 0) {
		t.Error("expected the state to evolve over time")
	}
}

func TestSpringMass_Decays(t *testing.T) {
	s := SpringMass()
	s.control = nil // unforced: damping must shrink the oscillation

	ts := timeGrid(0, 20, 201)
	b, err := s.Sample(ts)
	if err != nil {
		t.Fatalf("Sample returned error: %v", err)
	}

	if math.Abs(b.X.At(200, 0)) >= math.Abs(b.X.At(0, 0)) {
		t.Error("expected damped oscillation to decay")
	}
}

func TestDiffusion_Sample(t *testing.T) {
	s, err := Diffusion(6)
	if err != nil {
		t.Fatalf("Diffusion returned error: %v", err)
	}

	meta := s.Meta()
	if meta.Data.NNodes != 6 {
		t.Errorf("expected 6 nodes, got %d", meta.Data.NNodes)
	}

	ts := timeGrid(0, 1, 21)
	b, err := s.Sample(ts)
	if err != nil {
		t.Fatalf("Sample returned error: %v", err)
	}
	if b.Edges == nil {
		t.Fatal("diffusion batch must carry connectivity")
	}

	// Diffusion conserves the total heat up to the (small) forcing term.
	sum0, sumN := 0.0, 0.0
	for j := 0; j < 6; j++ {
		sum0 += b.X.At(0, j)
		sumN += b.X.At(20, j)
	}
	if math.Abs(sumN-sum0) > 0.5 {
		t.Errorf("total heat drifted too far: %f -> %f", sum0, sumN)
	}

	// Heat spreads from the spike at node 0 to its neighbors.
	if b.X.At(20, 1) <= 0 {
		t.Error("expected heat to spread to neighboring nodes")
	}
}

func TestReference_MatchesSample(t *testing.T) {
	s := Pendulum()
	ts := timeGrid(0, 1, 11)

	b, err := s.Sample(ts)
	if err != nil {
		t.Fatalf("Sample returned error: %v", err)
	}
	tr, err := s.Reference(ts)
	if err != nil {
		t.Fatalf("Reference returned error: %v", err)
	}

	if tr.Len() != 11 {
		t.Fatalf("expected 11 points, got %d", tr.Len())
	}
	for i := range ts {
		for j := 0; j < b.StateDim(); j++ {
			if tr.States[i].At(0, j) != b.X.At(i, j) {
				t.Fatalf("reference diverges from sample at point %d", i)
			}
		}
	}
}
