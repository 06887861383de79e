package eval

import (
	"errors"
	"testing"
)

func TestDistribution_BinsAndRanges(t *testing.T) {
	d, err := Distribution("BDT", []float64{0.1, 0.6, 0.9}, []float64{0.2}, 2, 0, 1)
	if err != nil {
		t.Fatalf("Distribution: %v", err)
	}
	if d.Method != "BDT" {
		t.Fatalf("method = %q, want BDT", d.Method)
	}
	if len(d.Edges) != 3 || len(d.Signal) != 2 || len(d.Background) != 2 {
		t.Fatalf("unexpected shapes: edges %d, sig %d, bkg %d", len(d.Edges), len(d.Signal), len(d.Background))
	}
	if d.Signal[0] != 1 || d.Signal[1] != 2 {
		t.Fatalf("signal counts = %v", d.Signal)
	}
	if d.Background[0] != 1 || d.Background[1] != 0 {
		t.Fatalf("background counts = %v", d.Background)
	}
	if d.SignalRange != [2]float64{0.1, 0.9} {
		t.Fatalf("signal range = %v", d.SignalRange)
	}
	if d.BackgroundRange != [2]float64{0.2, 0.2} {
		t.Fatalf("background range = %v", d.BackgroundRange)
	}
}

func TestDistribution_EmptySampleAllowed(t *testing.T) {
	d, err := Distribution("BDT", []float64{0.5}, nil, 4, 0, 1)
	if err != nil {
		t.Fatalf("Distribution: %v", err)
	}
	if d.BackgroundRange != [2]float64{} {
		t.Fatalf("empty background range = %v, want zeros", d.BackgroundRange)
	}
}

func TestDistribution_InvalidBinning(t *testing.T) {
	if _, err := Distribution("BDT", nil, nil, 0, 0, 1); !errors.Is(err, ErrInvalidBinning) {
		t.Fatalf("got %v, want ErrInvalidBinning", err)
	}
}
