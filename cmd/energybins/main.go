package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/atmonu/cutopt/internal/config"
	"github.com/atmonu/cutopt/internal/dataset"
	"github.com/atmonu/cutopt/internal/eval"
	"github.com/atmonu/cutopt/internal/results"
	"github.com/atmonu/cutopt/internal/utils/logger"
	"github.com/atmonu/cutopt/internal/utils/rundir"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting energy-binned evaluation...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	ctx := context.Background()
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}
	run, err := config.LoadRunConfig(cfg.RunConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load run configuration")
	}
	if run.AuxVar == "" || len(run.MethodCuts) == 0 {
		log.Fatal().Str("path", cfg.RunConfig).Msg("run configuration needs aux_var and method_cuts")
	}

	path := cfg.DatasetPath
	if cfg.DatasetURL != "" {
		if path, err = dataset.Fetch(ctx, cfg.DatasetURL, cfg.DataDir); err != nil {
			log.Fatal().Err(err).Msg("failed to fetch dataset")
		}
	}
	db, err := dataset.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open dataset")
	}
	defer db.Close()

	columns := []string{run.AuxVar}
	for m := range run.MethodCuts {
		columns = append(columns, m)
	}
	sig, err := db.LoadFrame(ctx, cfg.SignalTable, columns...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load signal sample")
	}
	bkg, err := db.LoadFrame(ctx, cfg.BackgroundTable, columns...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load background sample")
	}

	bins, err := eval.NewBinnedEvaluator(sig, bkg).Evaluate(run.AuxVar, run.BinEdges, run.MethodCuts)
	if err != nil {
		log.Fatal().Err(err).Msg("binned evaluation failed")
	}

	store, err := results.Open(cfg.ResultsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open results store")
	}
	defer store.Close()

	if err := store.WriteBins(ctx, cfg.BinnedTable, bins); err != nil {
		log.Fatal().Err(err).Msg("failed to persist binned results")
	}

	outDir, err := rundir.Create(cfg.RunBaseDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create run directory")
	}
	raw, err := sonic.MarshalIndent(bins, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode binned results")
	}
	outPath := filepath.Join(outDir, "energy_bins.json")
	if err := os.WriteFile(outPath, raw, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", outPath).Msg("failed to write binned results")
	}

	log.Info().
		Int("bins", len(bins)).
		Str("table", cfg.BinnedTable).
		Str("dir", outDir).
		Msg("energy-binned evaluation complete")
}
