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
	log.Info().Msg("Starting optimal cut search...")

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
	if len(run.Methods) == 0 {
		log.Fatal().Str("path", cfg.RunConfig).Msg("run configuration lists no methods")
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

	sig, err := db.LoadFrame(ctx, cfg.SignalTable, run.Methods...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load signal sample")
	}
	bkg, err := db.LoadFrame(ctx, cfg.BackgroundTable, run.Methods...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load background sample")
	}

	store, err := results.Open(cfg.ResultsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open results store")
	}
	defer store.Close()

	finder := eval.NewCutFinder(sig, bkg,
		eval.WithBins(cfg.Bins),
		eval.WithRange(cfg.MinScore, cfg.MaxScore),
		eval.WithSink(results.NewPerformanceSink(store, cfg.PerformanceTable)),
	)

	outDir, err := rundir.Create(cfg.RunBaseDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create run directory")
	}

	summary := make([]eval.OptimalCutResult, 0, len(run.Methods))
	for _, method := range run.Methods {
		res, err := finder.FindOptimalCut(ctx, method)
		if err != nil {
			log.Fatal().Err(err).Str("method", method).Msg("optimal cut search failed")
		}
		summary = append(summary, res)

		sigScores, err := sig.Column(method)
		if err != nil {
			log.Fatal().Err(err).Str("method", method).Msg("failed to read signal scores")
		}
		bkgScores, err := bkg.Column(method)
		if err != nil {
			log.Fatal().Err(err).Str("method", method).Msg("failed to read background scores")
		}
		dist, err := eval.Distribution(method, sigScores, bkgScores, cfg.Bins, cfg.MinScore, cfg.MaxScore)
		if err != nil {
			log.Fatal().Err(err).Str("method", method).Msg("failed to bin score distribution")
		}
		writeJSON(filepath.Join(outDir, method+"_scores.json"), dist)
	}

	writeJSON(filepath.Join(outDir, "optimal_cuts.json"), summary)
	log.Info().Int("methods", len(summary)).Str("dir", outDir).Msg("optimal cut search complete")
}

func writeJSON(path string, v any) {
	raw, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to encode output")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to write output")
	}
	log.Debug().Str("path", path).Msg("output written")
}
