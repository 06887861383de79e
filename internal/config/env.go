// Package config defines environment configuration structs and loaders.
package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

type AppConfig struct {
	DatasetEnvConfig
	EvalEnvConfig
	ResultsEnvConfig
	ServerEnvConfig
}

func LoadConfig(ctx context.Context) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DatasetEnvConfig locates the event dataset. When DATASET_URL is set the
// file is fetched into DATA_DIR before opening; otherwise DATASET_PATH is
// opened directly.
type DatasetEnvConfig struct {
	DatasetPath     string `env:"DATASET_PATH, default=data/dataset.db"`
	DatasetURL      string `env:"DATASET_URL"`
	DataDir         string `env:"DATA_DIR, default=data"`
	RawTable        string `env:"RAW_TABLE, default=events"`
	SignalTable     string `env:"SIGNAL_TABLE, default=signal"`
	BackgroundTable string `env:"BACKGROUND_TABLE, default=background"`
}

// EvalEnvConfig configures the threshold sweep.
type EvalEnvConfig struct {
	Bins       int     `env:"EVAL_BINS, default=1000"`
	MinScore   float64 `env:"EVAL_MIN_SCORE, default=-1.0"`
	MaxScore   float64 `env:"EVAL_MAX_SCORE, default=1.0"`
	RunConfig  string  `env:"RUN_CONFIG, default=run.json"`
	RunBaseDir string  `env:"RUN_BASE_DIR, default=runs"`
}

// ResultsEnvConfig configures the results store.
type ResultsEnvConfig struct {
	ResultsPath      string `env:"RESULTS_PATH, default=results.db"`
	PerformanceTable string `env:"PERFORMANCE_TABLE, default=performance"`
	BinnedTable      string `env:"BINNED_TABLE, default=energy_binned"`
}

// ServerEnvConfig configures the results HTTP service.
type ServerEnvConfig struct {
	ServerHost string `env:"SERVER_HOST, default=127.0.0.1"`
	ServerPort int    `env:"SERVER_PORT, default=8080"`
}
