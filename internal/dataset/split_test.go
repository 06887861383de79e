package dataset

import (
	"errors"
	"testing"
)

func splitFrame(t *testing.T) *Frame {
	t.Helper()
	f := NewFrame()
	// interaction: 1 = CC numu (signal), 0 = NC, -1 = poorly reconstructed
	if err := f.AddColumn("Interaction", []float64{1, 0, 1, -1, 0, 1}); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	if err := f.AddColumn("Quality", []float64{1, 1, 0, 1, 1, 1}); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	if err := f.AddColumn("BDT", []float64{0.9, -0.2, 0.8, 0.5, -0.6, 0.7}); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	return f
}

func TestSplit_ExclusionAppliesFirst(t *testing.T) {
	f := splitFrame(t)

	signal := Selection{
		Cols: []string{"Interaction"},
		Pass: func(vals []float64) bool { return vals[0] == 1 },
	}
	exclusion := Selection{
		Cols: []string{"Quality"},
		Pass: func(vals []float64) bool { return vals[0] == 0 },
	}

	sig, bkg, err := Split(f, signal, exclusion, nil)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	// Row 2 is signal-like but fails quality, so it lands nowhere.
	if sig.Len() != 2 {
		t.Fatalf("signal Len = %d, want 2", sig.Len())
	}
	if bkg.Len() != 3 {
		t.Fatalf("background Len = %d, want 3", bkg.Len())
	}
	if sig.Len()+bkg.Len() != f.Len()-1 {
		t.Fatalf("split lost rows: %d + %d vs %d", sig.Len(), bkg.Len(), f.Len())
	}

	scores, err := sig.Column("BDT")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if scores[0] != 0.9 || scores[1] != 0.7 {
		t.Fatalf("signal rows out of order: %v", scores)
	}
}

func TestSplit_NoExclusion(t *testing.T) {
	f := splitFrame(t)
	signal := Selection{
		Cols: []string{"Interaction"},
		Pass: func(vals []float64) bool { return vals[0] == 1 },
	}

	sig, bkg, err := Split(f, signal, Selection{}, nil)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if sig.Len()+bkg.Len() != f.Len() {
		t.Fatalf("complement broken: %d + %d != %d", sig.Len(), bkg.Len(), f.Len())
	}
	if sig.Len() != 3 {
		t.Fatalf("signal Len = %d, want 3", sig.Len())
	}
}

func TestSplit_KeepColumns(t *testing.T) {
	f := splitFrame(t)
	signal := Selection{
		Cols: []string{"Interaction"},
		Pass: func(vals []float64) bool { return vals[0] == 1 },
	}

	sig, bkg, err := Split(f, signal, Selection{}, []string{"BDT"})
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if cols := sig.Columns(); len(cols) != 1 || cols[0] != "BDT" {
		t.Fatalf("signal columns = %v, want [BDT]", cols)
	}
	if cols := bkg.Columns(); len(cols) != 1 || cols[0] != "BDT" {
		t.Fatalf("background columns = %v, want [BDT]", cols)
	}
}

func TestSplit_UnknownColumns(t *testing.T) {
	f := splitFrame(t)
	signal := Selection{
		Cols: []string{"nope"},
		Pass: func([]float64) bool { return true },
	}
	if _, _, err := Split(f, signal, Selection{}, nil); !errors.Is(err, ErrInputAccess) {
		t.Fatalf("unknown signal column: got %v, want ErrInputAccess", err)
	}

	ok := Selection{Cols: []string{"Interaction"}, Pass: func(vals []float64) bool { return vals[0] == 1 }}
	if _, _, err := Split(f, ok, Selection{}, []string{"nope"}); !errors.Is(err, ErrInputAccess) {
		t.Fatalf("unknown keep column: got %v, want ErrInputAccess", err)
	}
}
