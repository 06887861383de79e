package eval

import "errors"

// Failure taxonomy for the evaluation pipeline. Each aborts the enclosing
// call; no partial results accompany them.
var (
	// ErrEmptyDistribution marks a zero-count signal sample, which leaves
	// efficiency undefined.
	ErrEmptyDistribution = errors.New("empty signal distribution")

	// ErrInvalidBinning marks a malformed bin configuration.
	ErrInvalidBinning = errors.New("invalid binning")
)
