package nn

import (
	"errors"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewMLP_Dimensions(t *testing.T) {
	tests := []struct {
		name    string
		in, lat int
		out, n  int
		wantIn  int
		wantOut int
	}{
		{"two layers", 4, 16, 8, 2, 4, 8},
		{"deep", 4, 16, 8, 4, 4, 8},
		{"single layer", 4, 16, 8, 1, 4, 8},
		{"passthrough", 4, 16, 8, 0, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMLP(tt.in, tt.lat, tt.out, tt.n, DefaultOptions())
			if err != nil {
				t.Fatalf("NewMLP returned error: %v", err)
			}
			if m.InputDim() != tt.wantIn {
				t.Errorf("input dim: got %d, want %d", m.InputDim(), tt.wantIn)
			}
			if m.OutputDim() != tt.wantOut {
				t.Errorf("output dim: got %d, want %d", m.OutputDim(), tt.wantOut)
			}
		})
	}
}

func TestNewMLP_Validation(t *testing.T) {
	if _, err := NewMLP(0, 16, 8, 2, DefaultOptions()); !errors.Is(err, ErrBadDimension) {
		t.Errorf("expected ErrBadDimension, got %v", err)
	}
	if _, err := NewMLP(4, 16, 8, -1, DefaultOptions()); !errors.Is(err, ErrNegativeLayers) {
		t.Errorf("expected ErrNegativeLayers, got %v", err)
	}

	opts := DefaultOptions()
	opts.Activation = "swishish"
	if _, err := NewMLP(4, 16, 8, 2, opts); !errors.Is(err, ErrUnknownActivation) {
		t.Errorf("expected ErrUnknownActivation, got %v", err)
	}

	opts = DefaultOptions()
	opts.WeightInit = "magic"
	if _, err := NewMLP(4, 16, 8, 2, opts); !errors.Is(err, ErrUnknownInit) {
		t.Errorf("expected ErrUnknownInit, got %v", err)
	}
}

func TestMLP_Forward(t *testing.T) {
	m, err := NewMLP(3, 8, 5, 2, DefaultOptions())
	if err != nil {
		t.Fatalf("NewMLP returned error: %v", err)
	}

	x := mat.NewDense(4, 3, nil)
	y, err := m.Forward(x)
	if err != nil {
		t.Fatalf("Forward returned error: %v", err)
	}

	rows, cols := y.Dims()
	if rows != 4 || cols != 5 {
		t.Errorf("expected shape 4x5, got %dx%d", rows, cols)
	}
}

func TestMLP_Forward_ShapeMismatch(t *testing.T) {
	m, _ := NewMLP(3, 8, 5, 2, DefaultOptions())

	x := mat.NewDense(4, 7, nil)
	if _, err := m.Forward(x); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestMLP_Passthrough(t *testing.T) {
	m, err := NewMLP(3, 8, 5, 0, DefaultOptions())
	if err != nil {
		t.Fatalf("NewMLP returned error: %v", err)
	}

	x := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	y, err := m.Forward(x)
	if err != nil {
		t.Fatalf("Forward returned error: %v", err)
	}

	if !mat.EqualApprox(x, y, 0) {
		t.Error("passthrough should return the input unchanged")
	}
}

func TestMLP_Deterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 42

	a, _ := NewMLP(3, 8, 5, 2, opts)
	b, _ := NewMLP(3, 8, 5, 2, opts)

	x := mat.NewDense(1, 3, []float64{0.1, -0.2, 0.3})
	ya, _ := a.Forward(x)
	yb, _ := b.Forward(x)

	if !mat.EqualApprox(ya, yb, 0) {
		t.Error("same seed should produce identical networks")
	}
}

func TestMLP_ZeroBiasZeroInput(t *testing.T) {
	// Zero weights and biases map anything to zero.
	opts := DefaultOptions()
	opts.WeightInit = InitZeros

	m, _ := NewMLP(3, 8, 5, 2, opts)
	x := mat.NewDense(1, 3, []float64{1, 2, 3})
	y, _ := m.Forward(x)

	for j := 0; j < 5; j++ {
		if y.At(0, j) != 0 {
			t.Errorf("expected zero output, got %f at %d", y.At(0, j), j)
		}
	}
}

func TestMLP_DiagnosticInfo(t *testing.T) {
	m, _ := NewMLP(3, 8, 5, 3, DefaultOptions())
	info := m.DiagnosticInfo()

	if !strings.Contains(info, "3 -> 8 -> 8 -> 5") {
		t.Errorf("expected dims in diagnostic info, got %q", info)
	}
	if !strings.Contains(info, "prelu") {
		t.Errorf("expected activation in diagnostic info, got %q", info)
	}
}

func BenchmarkMLP_Forward(b *testing.B) {
	m, _ := NewMLP(16, 64, 16, 3, DefaultOptions())
	x := mat.NewDense(32, 16, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Forward(x)
	}
}
