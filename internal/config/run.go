package config

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// RunConfig is the per-run JSON configuration shared by the evaluation
// binaries: which score methods to evaluate, and for the binned evaluation
// the auxiliary variable, its bin edges and the fixed per-method cuts.
type RunConfig struct {
	Methods    []string           `json:"methods"`
	AuxVar     string             `json:"aux_var"`
	BinEdges   []float64          `json:"bin_edges"`
	MethodCuts map[string]float64 `json:"method_cuts"`
	SignalType string             `json:"signal_type"`
	Keep       []string           `json:"keep"`
}

func LoadRunConfig(path string) (*RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run config %s: %w", path, err)
	}
	cfg := &RunConfig{}
	if err := sonic.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse run config %s: %w", path, err)
	}
	return cfg, nil
}
