package server

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/atmonu/cutopt/internal/eval"
	"github.com/atmonu/cutopt/internal/results"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	store, err := results.Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	err = store.Upsert(ctx, "performance", results.KeyColumnMethod, "BDT", map[string]float64{
		"MaxCut": 0.42, "Efficiency": 0.8, "Purity": 0.7, "FoM": 0.56,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	err = store.WriteBins(ctx, "energy_binned", []eval.EnergyBin{
		{Min: 0, Max: 5, Mid: 2.5, Count: 10, PerMethod: map[string]eval.Metrics{
			"BDT": {Efficiency: 1, Purity: 0.5, FoM: 0.5},
		}},
	})
	if err != nil {
		t.Fatalf("WriteBins: %v", err)
	}

	return New(store, Config{})
}

func TestHealth(t *testing.T) {
	s := testServer(t)
	resp, err := s.App.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestTableRows(t *testing.T) {
	s := testServer(t)
	resp, err := s.App.Test(httptest.NewRequest("GET", "/tables/performance/rows", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	var body StdResponse[[]map[string]any]
	if err := sonic.Unmarshal(raw, &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body.Error != nil {
		t.Fatalf("error = %q", *body.Error)
	}
	if len(body.Body) != 1 {
		t.Fatalf("rows = %d, want 1", len(body.Body))
	}
	if body.Body[0][results.KeyColumnMethod] != "BDT" {
		t.Fatalf("row = %v", body.Body[0])
	}
}

func TestBinSeries(t *testing.T) {
	s := testServer(t)
	resp, err := s.App.Test(httptest.NewRequest("GET", "/bins/energy_binned", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	var body StdResponse[results.BinnedSeries]
	if err := sonic.Unmarshal(raw, &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(body.Body.Mid) != 1 || body.Body.Mid[0] != 2.5 {
		t.Fatalf("mid = %v", body.Body.Mid)
	}
	if body.Body.Methods["BDT"] == nil || body.Body.Methods["BDT"].Eff[0] != 1 {
		t.Fatalf("methods = %v", body.Body.Methods)
	}
}

func TestMissingTableIs404(t *testing.T) {
	s := testServer(t)
	resp, err := s.App.Test(httptest.NewRequest("GET", "/tables/absent/rows", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
