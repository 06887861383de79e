package main

import (
	"context"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/atmonu/cutopt/internal/classifier"
	"github.com/atmonu/cutopt/internal/config"
	"github.com/atmonu/cutopt/internal/dataset"
	"github.com/atmonu/cutopt/internal/utils/logger"
)

// CVN score columns of the raw event table.
const (
	colCVNNuE  = "CVNScoreNuE"
	colCVNNuMu = "CVNScoreNuMu"
	colCVNNC   = "CVNScoreNC"
	colNuPdg   = "TrueNuPdg"
	colIsCC    = "IsCC"
)

// sentinelScore marks events without a valid CVN evaluation.
const sentinelScore = -999

type interactionType struct {
	label     string
	argmaxVar string
	// rectangular linear-cut bounds on the two competing scores
	boundVars   []string
	boundLimits []float64
	isSignal    func(pdg, isCC float64) bool
}

var interactionTypes = map[string]interactionType{
	"nue": {
		label:       "NuE",
		argmaxVar:   colCVNNuE,
		boundVars:   []string{colCVNNuMu, colCVNNC},
		boundLimits: []float64{0.14, 0.45},
		isSignal:    func(pdg, isCC float64) bool { return (pdg == 12 || pdg == -12) && isCC != 0 },
	},
	"numu": {
		label:       "NuMu",
		argmaxVar:   colCVNNuMu,
		boundVars:   []string{colCVNNuE, colCVNNC},
		boundLimits: []float64{0.3, 0.43},
		isSignal:    func(pdg, isCC float64) bool { return (pdg == 14 || pdg == -14) && isCC != 0 },
	},
	"nc": {
		label:       "NC",
		argmaxVar:   colCVNNC,
		boundVars:   []string{colCVNNuE, colCVNNuMu},
		boundLimits: []float64{0.49, 0.46},
		isSignal:    func(pdg, isCC float64) bool { return isCC == 0 },
	},
}

func main() {
	logger.Init()
	log.Info().Msg("Starting dataset split...")

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

	itype, ok := interactionTypes[strings.ToLower(run.SignalType)]
	if !ok {
		log.Fatal().Str("signal_type", run.SignalType).Msg("signal_type must be one of nue, numu, nc")
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

	raw, err := db.LoadFrame(ctx, cfg.RawTable)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load raw event table")
	}

	argmax, err := classifier.NewArgmaxScorer("CVNMax_"+itype.label, itype.argmaxVar,
		colCVNNuMu, colCVNNuE, colCVNNC)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build argmax scorer")
	}
	linear, err := classifier.NewBoundScorer("LinearCut_"+itype.label, itype.boundVars, itype.boundLimits)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build linear-cut scorer")
	}
	for _, s := range []classifier.Scorer{argmax, linear} {
		deps, fn := classifier.RowFunc(s)
		if err := raw.Define(s.Name(), fn, deps...); err != nil {
			log.Fatal().Err(err).Str("column", s.Name()).Msg("failed to derive score column")
		}
	}

	signalSel := dataset.Selection{
		Cols: []string{colNuPdg, colIsCC},
		Pass: func(vals []float64) bool { return itype.isSignal(vals[0], vals[1]) },
	}
	exclusionSel := dataset.Selection{
		Cols: []string{colCVNNuE},
		Pass: func(vals []float64) bool { return vals[0] == sentinelScore },
	}

	keep := run.Keep
	if len(keep) > 0 {
		keep = append(append([]string{}, keep...), argmax.Name(), linear.Name())
	}
	sig, bkg, err := dataset.Split(raw, signalSel, exclusionSel, keep)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset split failed")
	}

	if err := db.SaveFrame(ctx, cfg.SignalTable, sig); err != nil {
		log.Fatal().Err(err).Msg("failed to save signal table")
	}
	if err := db.SaveFrame(ctx, cfg.BackgroundTable, bkg); err != nil {
		log.Fatal().Err(err).Msg("failed to save background table")
	}

	log.Info().
		Str("signal_type", run.SignalType).
		Int("signal", sig.Len()).
		Int("background", bkg.Len()).
		Msg("dataset split complete")
}
