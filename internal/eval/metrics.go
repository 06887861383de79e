package eval

import "math"

// Metrics bundles efficiency, purity, figure of merit and their statistical
// uncertainties at a single cut.
type Metrics struct {
	Efficiency float64
	Purity     float64
	FoM        float64
	EffErr     float64
	PurErr     float64
	FoMErr     float64
}

// Compute turns raw pass counts into efficiency, purity and FoM with binomial
// errors. Zero denominators yield zero metrics rather than NaN.
func Compute(nSig, nBkg, totalSignal float64) Metrics {
	var m Metrics
	if totalSignal > 0 {
		m.Efficiency = nSig / totalSignal
		m.EffErr = math.Sqrt(m.Efficiency * (1 - m.Efficiency) / totalSignal)
	}
	if selected := nSig + nBkg; selected > 0 {
		m.Purity = nSig / selected
		m.PurErr = math.Sqrt(m.Purity * (1 - m.Purity) / selected)
	}
	m.FoM = m.Efficiency * m.Purity
	// First-order propagation, treating efficiency and purity as independent.
	m.FoMErr = math.Hypot(m.Purity*m.EffErr, m.Efficiency*m.PurErr)
	return m
}
