package results

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/atmonu/cutopt/internal/eval"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleBins() []eval.EnergyBin {
	return []eval.EnergyBin{
		{
			Min: 0, Max: 5, Mid: 2.5, Count: 40,
			PerMethod: map[string]eval.Metrics{
				"BDT": {Efficiency: 1, Purity: 0.8, FoM: 0.8, EffErr: 0, PurErr: 0.05, FoMErr: 0.05},
				"MLP": {Efficiency: 0.9, Purity: 0.7, FoM: 0.63, EffErr: 0.04, PurErr: 0.06, FoMErr: 0.07},
			},
		},
		{
			Min: 5, Max: 10, Mid: 7.5, Count: 25,
			PerMethod: map[string]eval.Metrics{
				"BDT": {Efficiency: 0.5, Purity: 0.6, FoM: 0.3, EffErr: 0.1, PurErr: 0.1, FoMErr: 0.09},
				"MLP": {},
			},
		},
	}
}

func TestWriteBins_SchemaAndOrder(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)

	if err := store.WriteBins(ctx, "energy_binned", sampleBins()); err != nil {
		t.Fatalf("WriteBins: %v", err)
	}

	cols, err := store.Columns(ctx, "energy_binned")
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	want := []string{
		"bin_min", "bin_max", "bin_mid", "bin_count",
		"BDT_eff", "BDT_eff_err", "BDT_pur", "BDT_pur_err", "BDT_fom", "BDT_fom_err",
		"MLP_eff", "MLP_eff_err", "MLP_pur", "MLP_pur_err", "MLP_fom", "MLP_fom_err",
	}
	if len(cols) != len(want) {
		t.Fatalf("columns = %v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("column[%d] = %q, want %q", i, cols[i], want[i])
		}
	}

	rows, err := store.Rows(ctx, "energy_binned")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if got := rows[0]["bin_mid"].(float64); got != 2.5 {
		t.Fatalf("first bin_mid = %g, want 2.5", got)
	}
	if got := rows[1]["BDT_fom"].(float64); got != 0.3 {
		t.Fatalf("second BDT_fom = %g, want 0.3", got)
	}
}

// A second run must fully replace the previous one.
func TestWriteBins_RecreatesTable(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)

	if err := store.WriteBins(ctx, "energy_binned", sampleBins()); err != nil {
		t.Fatalf("first WriteBins: %v", err)
	}
	if err := store.WriteBins(ctx, "energy_binned", sampleBins()[:1]); err != nil {
		t.Fatalf("second WriteBins: %v", err)
	}

	rows, err := store.Rows(ctx, "energy_binned")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d after rewrite, want 1", len(rows))
	}
}

func TestWriteBins_EmptyFails(t *testing.T) {
	store := tempStore(t)
	if err := store.WriteBins(context.Background(), "energy_binned", nil); !errors.Is(err, ErrStorageAccess) {
		t.Fatalf("got %v, want ErrStorageAccess", err)
	}
}

func TestReadBinSeries_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)

	if err := store.WriteBins(ctx, "energy_binned", sampleBins()); err != nil {
		t.Fatalf("WriteBins: %v", err)
	}
	series, err := store.ReadBinSeries(ctx, "energy_binned")
	if err != nil {
		t.Fatalf("ReadBinSeries: %v", err)
	}

	if len(series.Mid) != 2 || series.Mid[0] != 2.5 || series.Mid[1] != 7.5 {
		t.Fatalf("mid = %v", series.Mid)
	}
	if len(series.Methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(series.Methods))
	}
	bdt := series.Methods["BDT"]
	if bdt == nil {
		t.Fatal("no BDT series")
	}
	if bdt.Eff[0] != 1 || bdt.Eff[1] != 0.5 {
		t.Fatalf("BDT eff = %v", bdt.Eff)
	}
	if bdt.FoMErr[1] != 0.09 {
		t.Fatalf("BDT fom_err = %v", bdt.FoMErr)
	}
}
