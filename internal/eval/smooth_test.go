package eval

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestFitCurve_ReproducesNodes(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 1, 4, 9}

	c, err := FitCurve(xs, ys)
	if err != nil {
		t.Fatalf("FitCurve: %v", err)
	}
	for i, x := range xs {
		if got := c.Eval(x); !scalar.EqualWithinAbs(got, ys[i], 1e-9) {
			t.Fatalf("Eval(%v) = %v, want %v", x, got, ys[i])
		}
	}
}

func TestFitCurve_ClampsOutsideDomain(t *testing.T) {
	c, err := FitCurve([]float64{0, 1, 2}, []float64{1, 3, 2})
	if err != nil {
		t.Fatalf("FitCurve: %v", err)
	}
	if got, want := c.Eval(-10), c.Eval(0); got != want {
		t.Fatalf("Eval(-10) = %v, want clamp to %v", got, want)
	}
	if got, want := c.Eval(10), c.Eval(2); got != want {
		t.Fatalf("Eval(10) = %v, want clamp to %v", got, want)
	}
	lo, hi := c.Domain()
	if lo != 0 || hi != 2 {
		t.Fatalf("Domain() = [%v, %v], want [0, 2]", lo, hi)
	}
}

func TestFitCurve_TooFewNodes(t *testing.T) {
	if _, err := FitCurve([]float64{1}, []float64{2}); !errors.Is(err, ErrInvalidBinning) {
		t.Fatalf("got %v, want ErrInvalidBinning", err)
	}
}

func TestFitCurve_MismatchedNodes(t *testing.T) {
	if _, err := FitCurve([]float64{1, 2, 3}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for mismatched node slices")
	}
}

func TestFitCurve_RejectsUnsortedNodes(t *testing.T) {
	if _, err := FitCurve([]float64{0, 2, 1}, []float64{1, 2, 3}); err == nil {
		t.Fatal("expected error for non-increasing xs")
	}
}
