package eval

import "fmt"

// ConfusionNorm selects how a confusion matrix is scaled.
type ConfusionNorm int

const (
	// NormCounts leaves raw event counts.
	NormCounts ConfusionNorm = iota
	// NormEfficiency divides each row by its true-class total.
	NormEfficiency
	// NormPurity divides each column by its predicted-class total.
	NormPurity
)

// ConfusionMatrix holds binary classification counts at a fixed cut.
type ConfusionMatrix struct {
	TP float64
	FN float64
	FP float64
	TN float64
}

// Confusion classifies signal and background scores against cut, predicting
// signal for scores strictly above it. Both samples must be populated.
func Confusion(sigScores, bkgScores []float64, cut float64) (ConfusionMatrix, error) {
	if len(sigScores) == 0 || len(bkgScores) == 0 {
		return ConfusionMatrix{}, fmt.Errorf("%w: confusion matrix needs both classes populated", ErrEmptyDistribution)
	}
	var m ConfusionMatrix
	for _, s := range sigScores {
		if s > cut {
			m.TP++
		} else {
			m.FN++
		}
	}
	for _, s := range bkgScores {
		if s > cut {
			m.FP++
		} else {
			m.TN++
		}
	}
	return m, nil
}

// Normalize scales the matrix according to mode. Zero denominators leave
// their cells at zero.
func (m ConfusionMatrix) Normalize(mode ConfusionNorm) ConfusionMatrix {
	switch mode {
	case NormEfficiency:
		var out ConfusionMatrix
		if t := m.TP + m.FN; t > 0 {
			out.TP, out.FN = m.TP/t, m.FN/t
		}
		if t := m.FP + m.TN; t > 0 {
			out.FP, out.TN = m.FP/t, m.TN/t
		}
		return out
	case NormPurity:
		var out ConfusionMatrix
		if t := m.TP + m.FP; t > 0 {
			out.TP, out.FP = m.TP/t, m.FP/t
		}
		if t := m.TN + m.FN; t > 0 {
			out.FN, out.TN = m.FN/t, m.TN/t
		}
		return out
	default:
		return m
	}
}
