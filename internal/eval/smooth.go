package eval

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Curve is a natural cubic spline through a sweep's (cut, value) nodes.
// Eval clamps its argument into the fitted knot range, so the curve is total
// over the whole score domain.
type Curve struct {
	spline interp.NaturalCubic
	xmin   float64
	xmax   float64
}

// FitCurve interpolates the given nodes. xs must be strictly increasing and
// hold at least two points; the curve reproduces ys exactly at the nodes.
func FitCurve(xs, ys []float64) (*Curve, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("fit curve: %d cuts against %d values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("%w: smoothing needs at least two nodes, got %d", ErrInvalidBinning, len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("fit curve: nodes must increase strictly, got %g then %g", xs[i-1], xs[i])
		}
	}
	c := &Curve{xmin: xs[0], xmax: xs[len(xs)-1]}
	if err := c.spline.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fit curve: %w", err)
	}
	return c, nil
}

// Eval returns the interpolated value at x, clamped to the knot range.
func (c *Curve) Eval(x float64) float64 {
	if x < c.xmin {
		x = c.xmin
	} else if x > c.xmax {
		x = c.xmax
	}
	return c.spline.Predict(x)
}

// Domain reports the fitted knot range.
func (c *Curve) Domain() (lo, hi float64) { return c.xmin, c.xmax }
