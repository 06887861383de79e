package eval

import "gonum.org/v1/gonum/floats"

// ScoreDistribution is the binned score overlay for one method, ready for
// serialization to external plotting tools.
type ScoreDistribution struct {
	Method          string     `json:"method"`
	Edges           []float64  `json:"edges"`
	Signal          []float64  `json:"signal"`
	Background      []float64  `json:"background"`
	SignalRange     [2]float64 `json:"signal_range"`
	BackgroundRange [2]float64 `json:"background_range"`
}

// Distribution bins both samples' scores over [min, max). Empty samples are
// allowed and leave their range at zero.
func Distribution(method string, sigScores, bkgScores []float64, nBins int, min, max float64) (ScoreDistribution, error) {
	hSig, err := NewHistogram1D(nBins, min, max)
	if err != nil {
		return ScoreDistribution{}, err
	}
	hBkg, err := NewHistogram1D(nBins, min, max)
	if err != nil {
		return ScoreDistribution{}, err
	}
	hSig.FillAll(sigScores)
	hBkg.FillAll(bkgScores)

	d := ScoreDistribution{
		Method:     method,
		Edges:      hSig.Edges(),
		Signal:     hSig.Counts(),
		Background: hBkg.Counts(),
	}
	if len(sigScores) > 0 {
		d.SignalRange = [2]float64{floats.Min(sigScores), floats.Max(sigScores)}
	}
	if len(bkgScores) > 0 {
		d.BackgroundRange = [2]float64{floats.Min(bkgScores), floats.Max(bkgScores)}
	}
	return d, nil
}
