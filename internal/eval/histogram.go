package eval

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Histogram1D is a fixed-width histogram over [min, max). Entries below min
// or at and above max land in the underflow and overflow counters, which are
// excluded from integrals and totals.
type Histogram1D struct {
	nBins  int
	min    float64
	max    float64
	width  float64
	counts []float64
	under  float64
	over   float64
}

func NewHistogram1D(nBins int, min, max float64) (*Histogram1D, error) {
	if nBins < 1 {
		return nil, fmt.Errorf("%w: need at least one bin, got %d", ErrInvalidBinning, nBins)
	}
	if min >= max {
		return nil, fmt.Errorf("%w: range [%g, %g) is empty", ErrInvalidBinning, min, max)
	}
	return &Histogram1D{
		nBins:  nBins,
		min:    min,
		max:    max,
		width:  (max - min) / float64(nBins),
		counts: make([]float64, nBins),
	}, nil
}

// Fill adds one entry with unit weight. NaN entries land in overflow, never
// in a bin.
func (h *Histogram1D) Fill(x float64) {
	switch {
	case x < h.min:
		h.under++
	case x >= h.max || math.IsNaN(x):
		h.over++
	default:
		i := int((x - h.min) / h.width)
		if i >= h.nBins { // rounding at the upper edge
			i = h.nBins - 1
		}
		h.counts[i]++
	}
}

func (h *Histogram1D) FillAll(xs []float64) {
	for _, x := range xs {
		h.Fill(x)
	}
}

func (h *Histogram1D) Bins() int { return h.nBins }

// BinLowEdge returns the inclusive lower boundary of bin i.
func (h *Histogram1D) BinLowEdge(i int) float64 {
	return h.min + float64(i)*h.width
}

// Edges returns all nBins+1 bin boundaries from min to max.
func (h *Histogram1D) Edges() []float64 {
	return floats.Span(make([]float64, h.nBins+1), h.min, h.max)
}

// Integral sums bin contents over the inclusive bin index range [lo, hi].
// Out-of-range indices are clamped; under/overflow never contribute.
func (h *Histogram1D) Integral(lo, hi int) float64 {
	if lo < 0 {
		lo = 0
	}
	if hi >= h.nBins {
		hi = h.nBins - 1
	}
	var sum float64
	for i := lo; i <= hi; i++ {
		sum += h.counts[i]
	}
	return sum
}

// Total is the in-range entry count.
func (h *Histogram1D) Total() float64 { return floats.Sum(h.counts) }

func (h *Histogram1D) Underflow() float64 { return h.under }
func (h *Histogram1D) Overflow() float64  { return h.over }

// Counts returns a copy of the per-bin contents.
func (h *Histogram1D) Counts() []float64 {
	out := make([]float64, len(h.counts))
	copy(out, h.counts)
	return out
}
