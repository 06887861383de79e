package eval

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/atmonu/cutopt/internal/utils/logger"
)

// Sample provides column-by-name access to one labelled event collection.
// Implementations return equal-length columns and are never mutated here.
type Sample interface {
	Len() int
	Column(name string) ([]float64, error)
}

// ResultSink receives the optimal-cut metrics for one method, keyed by the
// method name.
type ResultSink interface {
	UpsertRow(ctx context.Context, method string, values map[string]float64) error
}

// OptimalCutResult is the maximizer of the smoothed FoM curve together with
// the smoothed efficiency and purity evaluated there.
type OptimalCutResult struct {
	Method     string
	Cut        float64
	FoM        float64
	Efficiency float64
	Purity     float64
}

// Defaults for the sweep configuration, matching the usual [-1, 1] MVA score
// convention.
const (
	DefaultBins     = 1000
	DefaultMinScore = -1.0
	DefaultMaxScore = 1.0
)

// Column names written through the ResultSink.
const (
	ColMaxCut     = "MaxCut"
	ColEfficiency = "Efficiency"
	ColPurity     = "Purity"
	ColFoM        = "FoM"
)

// CutFinder locates the score cut maximizing efficiency times purity for a
// classification method.
type CutFinder struct {
	signal     Sample
	background Sample
	bins       int
	minScore   float64
	maxScore   float64
	sink       ResultSink
}

type CutFinderOption func(*CutFinder)

// WithBins sets the number of sweep bins. At least two are required.
func WithBins(n int) CutFinderOption {
	return func(f *CutFinder) { f.bins = n }
}

// WithRange sets the score interval [min, max) the sweep covers.
func WithRange(min, max float64) CutFinderOption {
	return func(f *CutFinder) { f.minScore, f.maxScore = min, max }
}

// WithSink persists every result through the given sink.
func WithSink(sink ResultSink) CutFinderOption {
	return func(f *CutFinder) { f.sink = sink }
}

func NewCutFinder(signal, background Sample, opts ...CutFinderOption) *CutFinder {
	f := &CutFinder{
		signal:     signal,
		background: background,
		bins:       DefaultBins,
		minScore:   DefaultMinScore,
		maxScore:   DefaultMaxScore,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindOptimalCut sweeps the method's score column on both samples, smooths
// the efficiency, purity and FoM curves, and returns the cut maximizing the
// smoothed FoM. Ties resolve to the lowest cut. When a sink is configured the
// result is upserted before returning.
func (f *CutFinder) FindOptimalCut(ctx context.Context, method string) (OptimalCutResult, error) {
	if f.bins < 2 {
		return OptimalCutResult{}, fmt.Errorf("%w: cut finding needs at least two bins, got %d", ErrInvalidBinning, f.bins)
	}
	logger.Sugar().Infow("Sweeping score thresholds", "method", method, "bins", f.bins, "min", f.minScore, "max", f.maxScore)

	sigScores, err := f.signal.Column(method)
	if err != nil {
		return OptimalCutResult{}, fmt.Errorf("signal scores for %s: %w", method, err)
	}
	bkgScores, err := f.background.Column(method)
	if err != nil {
		return OptimalCutResult{}, fmt.Errorf("background scores for %s: %w", method, err)
	}

	points, err := Sweep(sigScores, bkgScores, f.bins, f.minScore, f.maxScore)
	if err != nil {
		return OptimalCutResult{}, err
	}

	cuts := make([]float64, len(points))
	effs := make([]float64, len(points))
	purs := make([]float64, len(points))
	foms := make([]float64, len(points))
	for i, p := range points {
		cuts[i] = p.Cut
		effs[i] = p.Efficiency
		purs[i] = p.Purity
		foms[i] = p.FoM
	}

	effCurve, err := FitCurve(cuts, effs)
	if err != nil {
		return OptimalCutResult{}, err
	}
	purCurve, err := FitCurve(cuts, purs)
	if err != nil {
		return OptimalCutResult{}, err
	}
	fomCurve, err := FitCurve(cuts, foms)
	if err != nil {
		return OptimalCutResult{}, err
	}

	bestCut, bestFoM := maximizeCurve(fomCurve, cuts)

	res := OptimalCutResult{
		Method:     method,
		Cut:        bestCut,
		FoM:        bestFoM,
		Efficiency: effCurve.Eval(bestCut),
		Purity:     purCurve.Eval(bestCut),
	}

	log.Info().
		Str("method", method).
		Float64("cut", res.Cut).
		Float64("fom", res.FoM).
		Float64("efficiency", res.Efficiency).
		Float64("purity", res.Purity).
		Msg("optimal cut found")

	if f.sink != nil {
		values := map[string]float64{
			ColMaxCut:     res.Cut,
			ColEfficiency: res.Efficiency,
			ColPurity:     res.Purity,
			ColFoM:        res.FoM,
		}
		if err := f.sink.UpsertRow(ctx, method, values); err != nil {
			return OptimalCutResult{}, fmt.Errorf("persist result for %s: %w", method, err)
		}
	}
	return res, nil
}

// maximizeCurve locates the global maximum of the spline over its knot range.
// A dense scan across every knot interval picks the winning bracket, then
// golden-section search refines inside it. Strict comparisons keep the lowest
// maximizing x on exact ties.
func maximizeCurve(c *Curve, knots []float64) (float64, float64) {
	const perInterval = 8

	_, hi := c.Domain()
	bestX := knots[0]
	bestY := c.Eval(bestX)
	bracketLo, bracketHi := knots[0], knots[1]

	for i := 0; i < len(knots)-1; i++ {
		a, b := knots[i], knots[i+1]
		step := (b - a) / perInterval
		for j := 0; j < perInterval; j++ {
			x := a + float64(j)*step
			if y := c.Eval(x); y > bestY {
				bestX, bestY = x, y
				bracketLo = math.Max(a, x-step)
				bracketHi = math.Min(b, x+step)
			}
		}
	}
	if y := c.Eval(hi); y > bestY {
		bestX, bestY = hi, y
		bracketLo, bracketHi = knots[len(knots)-2], hi
	}

	if x, y := goldenMax(c.Eval, bracketLo, bracketHi); y > bestY {
		bestX, bestY = x, y
	}
	return bestX, bestY
}

// goldenMax runs golden-section search for the maximum of f on [a, b],
// keeping the left candidate on ties.
func goldenMax(f func(float64) float64, a, b float64) (float64, float64) {
	const (
		invPhi = 0.6180339887498949
		tol    = 1e-10
	)
	x1 := b - invPhi*(b-a)
	x2 := a + invPhi*(b-a)
	f1, f2 := f(x1), f(x2)
	for i := 0; i < 200 && b-a > tol; i++ {
		if f1 >= f2 {
			b, x2, f2 = x2, x1, f1
			x1 = b - invPhi*(b-a)
			f1 = f(x1)
		} else {
			a, x1, f1 = x1, x2, f2
			x2 = a + invPhi*(b-a)
			f2 = f(x2)
		}
	}
	x := (a + b) / 2
	return x, f(x)
}
