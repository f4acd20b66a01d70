package dyn

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/graph"
)

func TestNewBatch(t *testing.T) {
	x := mat.NewDense(3, 2, nil)
	u := mat.NewDense(3, 1, nil)

	b, err := NewBatch(x, u)
	if err != nil {
		t.Fatalf("NewBatch returned error: %v", err)
	}

	if b.Rows() != 3 {
		t.Errorf("expected 3 rows, got %d", b.Rows())
	}
	if b.StateDim() != 2 {
		t.Errorf("expected state dim 2, got %d", b.StateDim())
	}
	if b.ControlDim() != 1 {
		t.Errorf("expected control dim 1, got %d", b.ControlDim())
	}
}

func TestNewBatch_Validation(t *testing.T) {
	if _, err := NewBatch(nil, nil); !errors.Is(err, ErrNilStates) {
		t.Errorf("expected ErrNilStates, got %v", err)
	}

	x := mat.NewDense(3, 2, nil)
	u := mat.NewDense(2, 1, nil)
	if _, err := NewBatch(x, u); !errors.Is(err, ErrRowMismatch) {
		t.Errorf("expected ErrRowMismatch, got %v", err)
	}
}

func TestNewGeoBatch_RequiresEdges(t *testing.T) {
	x := mat.NewDense(3, 4, nil)
	if _, err := NewGeoBatch(x, nil, nil); !errors.Is(err, graph.ErrNilGraph) {
		t.Errorf("expected ErrNilGraph, got %v", err)
	}
}

func TestBatch_Features(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	u := mat.NewDense(2, 1, []float64{5, 6})

	b, _ := NewBatch(x, u)
	f := b.Features()

	rows, cols := f.Dims()
	if rows != 2 || cols != 3 {
		t.Fatalf("expected shape 2x3, got %dx%d", rows, cols)
	}
	if f.At(0, 2) != 5 || f.At(1, 2) != 6 {
		t.Error("control columns not appended after state columns")
	}

	// Autonomous: features are just the states.
	b2, _ := NewBatch(x, nil)
	f2 := b2.Features()
	if !mat.EqualApprox(f2, x, 0) {
		t.Error("expected features to equal states when U is nil")
	}
	f2.Set(0, 0, 99)
	if x.At(0, 0) == 99 {
		t.Error("Features must not alias the state tensor")
	}
}

func TestBatch_IsValid(t *testing.T) {
	x := mat.NewDense(1, 2, []float64{1, 2})
	b, _ := NewBatch(x, nil)
	if !b.IsValid() {
		t.Error("finite batch reported invalid")
	}

	x.Set(0, 1, math.NaN())
	if b.IsValid() {
		t.Error("NaN batch reported valid")
	}

	x.Set(0, 1, math.Inf(1))
	if b.IsValid() {
		t.Error("Inf batch reported valid")
	}
}
