package eval

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestSweep_KnownScenario(t *testing.T) {
	sig := []float64{0.9, 0.8, 0.7, 0.2}
	bkg := []float64{0.1, 0.2, 0.3, 0.9}

	points, err := Sweep(sig, bkg, 4, 0, 1)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(points) != 4 {
		t.Fatalf("len(points) = %d, want 4", len(points))
	}

	wantCuts := []float64{0, 0.25, 0.5, 0.75}
	for i, p := range points {
		if !scalar.EqualWithinAbs(p.Cut, wantCuts[i], 1e-12) {
			t.Fatalf("points[%d].Cut = %v, want %v", i, p.Cut, wantCuts[i])
		}
	}

	// At the loosest cut everything passes.
	if points[0].Efficiency != 1 || points[0].Purity != 0.5 {
		t.Fatalf("points[0] = %+v, want eff 1, pur 0.5", points[0].Metrics)
	}
	// At cut 0.75 two signal and one background event survive.
	last := points[3]
	if !scalar.EqualWithinAbs(last.Efficiency, 0.5, 1e-12) {
		t.Fatalf("eff at 0.75 = %v, want 0.5", last.Efficiency)
	}
	if !scalar.EqualWithinAbs(last.Purity, 2.0/3.0, 1e-12) {
		t.Fatalf("pur at 0.75 = %v, want 2/3", last.Purity)
	}
	if !scalar.EqualWithinAbs(last.FoM, 1.0/3.0, 1e-12) {
		t.Fatalf("fom at 0.75 = %v, want 1/3", last.FoM)
	}

	// Efficiency never increases as the cut tightens.
	for i := 1; i < len(points); i++ {
		if points[i].Efficiency > points[i-1].Efficiency {
			t.Fatalf("efficiency rose from %v to %v at cut %v",
				points[i-1].Efficiency, points[i].Efficiency, points[i].Cut)
		}
	}
}

func TestSweep_NoSignalInRange(t *testing.T) {
	_, err := Sweep([]float64{5, 6}, []float64{0.5}, 10, 0, 1)
	if !errors.Is(err, ErrEmptyDistribution) {
		t.Fatalf("got %v, want ErrEmptyDistribution", err)
	}
}

func TestSweep_UpperEdgeIsOverflow(t *testing.T) {
	// A score exactly at the range maximum never enters the sweep.
	_, err := Sweep([]float64{1.0}, []float64{0.5}, 10, 0, 1)
	if !errors.Is(err, ErrEmptyDistribution) {
		t.Fatalf("got %v, want ErrEmptyDistribution", err)
	}
}

func TestSweep_InvalidBinning(t *testing.T) {
	if _, err := Sweep([]float64{0.5}, nil, 0, 0, 1); !errors.Is(err, ErrInvalidBinning) {
		t.Fatalf("got %v, want ErrInvalidBinning", err)
	}
	if _, err := Sweep([]float64{0.5}, nil, 10, 1, 0); !errors.Is(err, ErrInvalidBinning) {
		t.Fatalf("got %v, want ErrInvalidBinning", err)
	}
}

func TestSweep_NaNScoresIgnored(t *testing.T) {
	points, err := Sweep(
		[]float64{math.NaN(), 0.5, 0.6},
		[]float64{math.NaN(), 0.2},
		2, 0, 1)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	// NaN entries count toward neither the tail sums nor the signal total.
	if points[0].Efficiency != 1 {
		t.Fatalf("efficiency = %v, want 1", points[0].Efficiency)
	}
	if !scalar.EqualWithinAbs(points[0].Purity, 2.0/3.0, 1e-12) {
		t.Fatalf("purity = %v, want 2/3", points[0].Purity)
	}
}

func TestSweep_OutOfRangeBackgroundIgnored(t *testing.T) {
	points, err := Sweep([]float64{0.5, 0.6}, []float64{-3, 7}, 2, 0, 1)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	// No in-range background, so purity is 1 wherever signal survives.
	if points[0].Purity != 1 {
		t.Fatalf("purity = %v, want 1", points[0].Purity)
	}
}

func BenchmarkSweep(b *testing.B) {
	numEvents := 10000
	sig := make([]float64, numEvents)
	bkg := make([]float64, numEvents)
	for i := range sig {
		sig[i] = rand.Float64()*2 - 1
		bkg[i] = rand.Float64()*2 - 1
	}

	b.ResetTimer()

	for b.Loop() {
		_, _ = Sweep(sig, bkg, DefaultBins, DefaultMinScore, DefaultMaxScore)
	}
}
