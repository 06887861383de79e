package eval

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

// EnergyBin holds per-method metrics for one slice of the auxiliary variable.
type EnergyBin struct {
	Min       float64
	Max       float64
	Mid       float64
	Count     float64
	PerMethod map[string]Metrics
}

// BinnedEvaluator recomputes cut performance inside partitions of an
// auxiliary variable, typically true neutrino energy, at fixed per-method
// cuts.
type BinnedEvaluator struct {
	signal     Sample
	background Sample
}

func NewBinnedEvaluator(signal, background Sample) *BinnedEvaluator {
	return &BinnedEvaluator{signal: signal, background: background}
}

// Evaluate partitions both samples by binEdges over auxVar and computes each
// method's metrics per bin at its configured cut. Events land in [lo, hi)
// bins; entries outside the outer edges are dropped. A bin with no signal
// entries yields zero metrics rather than an error, since sparse outer bins
// are expected. Bins come back in edge order.
func (e *BinnedEvaluator) Evaluate(auxVar string, binEdges []float64, methodCuts map[string]float64) ([]EnergyBin, error) {
	if len(binEdges) < 2 {
		return nil, fmt.Errorf("%w: need at least two bin edges, got %d", ErrInvalidBinning, len(binEdges))
	}
	for i := 1; i < len(binEdges); i++ {
		if binEdges[i] <= binEdges[i-1] {
			return nil, fmt.Errorf("%w: edges must increase strictly, got %g then %g", ErrInvalidBinning, binEdges[i-1], binEdges[i])
		}
	}

	sigAux, err := e.signal.Column(auxVar)
	if err != nil {
		return nil, fmt.Errorf("signal %s: %w", auxVar, err)
	}
	bkgAux, err := e.background.Column(auxVar)
	if err != nil {
		return nil, fmt.Errorf("background %s: %w", auxVar, err)
	}

	methods := make([]string, 0, len(methodCuts))
	for m := range methodCuts {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	sigScores := make(map[string][]float64, len(methods))
	bkgScores := make(map[string][]float64, len(methods))
	for _, m := range methods {
		if sigScores[m], err = e.signal.Column(m); err != nil {
			return nil, fmt.Errorf("signal %s: %w", m, err)
		}
		if bkgScores[m], err = e.background.Column(m); err != nil {
			return nil, fmt.Errorf("background %s: %w", m, err)
		}
	}

	log.Info().
		Int("bins", len(binEdges)-1).
		Int("methods", len(methods)).
		Msgf("computing binned metrics over %s", auxVar)

	bins := make([]EnergyBin, 0, len(binEdges)-1)
	for i := 0; i < len(binEdges)-1; i++ {
		lo, hi := binEdges[i], binEdges[i+1]
		bin := EnergyBin{
			Min:       lo,
			Max:       hi,
			Mid:       0.5 * (lo + hi),
			PerMethod: make(map[string]Metrics, len(methods)),
		}

		sigIdx := indicesWithin(sigAux, lo, hi)
		bkgIdx := indicesWithin(bkgAux, lo, hi)
		totalSig := float64(len(sigIdx))
		bin.Count = totalSig + float64(len(bkgIdx))

		log.Debug().
			Float64("lo", lo).
			Float64("hi", hi).
			Int("signal", len(sigIdx)).
			Int("background", len(bkgIdx)).
			Msg("bin totals")

		for _, m := range methods {
			cut := methodCuts[m]
			nSig := countAbove(sigScores[m], sigIdx, cut)
			nBkg := countAbove(bkgScores[m], bkgIdx, cut)
			bin.PerMethod[m] = Compute(nSig, nBkg, totalSig)
		}
		bins = append(bins, bin)
	}
	return bins, nil
}

func indicesWithin(vals []float64, lo, hi float64) []int {
	var idx []int
	for i, v := range vals {
		if v >= lo && v < hi {
			idx = append(idx, i)
		}
	}
	return idx
}

// countAbove counts entries at the given indices with score strictly above
// the cut.
func countAbove(scores []float64, idx []int, cut float64) float64 {
	var n float64
	for _, i := range idx {
		if scores[i] > cut {
			n++
		}
	}
	return n
}
