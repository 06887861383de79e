// Package eval computes binary-classifier performance across score cuts:
// threshold sweeps, spline-smoothed operating curves, optimal-cut search and
// energy-binned metric breakdowns.
package eval

import "fmt"

// MetricPoint is one threshold-sweep sample: the metrics obtained by keeping
// every in-range event with score at or above Cut.
type MetricPoint struct {
	Cut float64
	Metrics
}

// Sweep scans nBins candidate cuts over [minScore, maxScore), one per bin
// lower edge, and computes tail-sum metrics at each. Points come back ordered
// by ascending cut. Scores outside the range are ignored entirely; the sweep
// fails with ErrEmptyDistribution when no signal entry falls inside it.
func Sweep(sigScores, bkgScores []float64, nBins int, minScore, maxScore float64) ([]MetricPoint, error) {
	hSig, err := NewHistogram1D(nBins, minScore, maxScore)
	if err != nil {
		return nil, err
	}
	hBkg, err := NewHistogram1D(nBins, minScore, maxScore)
	if err != nil {
		return nil, err
	}
	hSig.FillAll(sigScores)
	hBkg.FillAll(bkgScores)

	totalSignal := hSig.Total()
	if totalSignal <= 0 {
		return nil, fmt.Errorf("%w: no signal entries in [%g, %g)", ErrEmptyDistribution, minScore, maxScore)
	}

	sigCounts := hSig.Counts()
	bkgCounts := hBkg.Counts()
	points := make([]MetricPoint, nBins)
	var tp, fp float64
	for i := nBins - 1; i >= 0; i-- {
		tp += sigCounts[i]
		fp += bkgCounts[i]
		points[i] = MetricPoint{Cut: hSig.BinLowEdge(i), Metrics: Compute(tp, fp, totalSignal)}
	}
	return points, nil
}
