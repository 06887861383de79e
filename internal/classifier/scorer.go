// Package classifier turns per-event score variables into decision columns:
// predicted-class membership, rectangular linear cuts and plain thresholds.
package classifier

import (
	"errors"
	"fmt"
)

// ErrMissingVar marks an evaluation context without a variable the scorer
// reads.
var ErrMissingVar = errors.New("missing variable")

// Vars is the explicit evaluation context: every variable a scorer reads,
// bound by name. Scorers never retain or mutate it.
type Vars map[string]float64

func (v Vars) get(name string) (float64, error) {
	val, ok := v[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingVar, name)
	}
	return val, nil
}

// Scorer computes one derived score per event from an evaluation context.
type Scorer interface {
	Name() string
	// Vars lists the context variables the scorer reads, in decision order.
	Vars() []string
	Score(vars Vars) (float64, error)
}

// ArgmaxScorer scores 1.0 when the class with the highest score variable is
// the target class. Classes are compared in listed order with a
// strictly-greater update, so the earliest listed class wins exact ties.
type ArgmaxScorer struct {
	name    string
	target  string
	classes []string
}

// NewArgmaxScorer builds an argmax membership scorer over the class score
// variables in classes. target must be one of them.
func NewArgmaxScorer(name, target string, classes ...string) (*ArgmaxScorer, error) {
	if len(classes) < 2 {
		return nil, fmt.Errorf("argmax scorer %q: need at least two classes, got %d", name, len(classes))
	}
	found := false
	for _, c := range classes {
		if c == target {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("argmax scorer %q: target %q not among classes %v", name, target, classes)
	}
	return &ArgmaxScorer{name: name, target: target, classes: classes}, nil
}

func (s *ArgmaxScorer) Name() string { return s.name }

func (s *ArgmaxScorer) Vars() []string {
	out := make([]string, len(s.classes))
	copy(out, s.classes)
	return out
}

func (s *ArgmaxScorer) Score(vars Vars) (float64, error) {
	best := s.classes[0]
	bestScore, err := vars.get(best)
	if err != nil {
		return 0, err
	}
	for _, c := range s.classes[1:] {
		score, err := vars.get(c)
		if err != nil {
			return 0, err
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if best == s.target {
		return 1, nil
	}
	return 0, nil
}

// BoundScorer scores 1.0 when every listed variable sits strictly below its
// bound, carving out a rectangular acceptance region.
type BoundScorer struct {
	name   string
	vars   []string
	bounds []float64
}

// NewBoundScorer builds a rectangular-cut scorer. vars and bounds pair up by
// index.
func NewBoundScorer(name string, vars []string, bounds []float64) (*BoundScorer, error) {
	if len(vars) == 0 || len(vars) != len(bounds) {
		return nil, fmt.Errorf("bound scorer %q: %d variables against %d bounds", name, len(vars), len(bounds))
	}
	s := &BoundScorer{name: name, vars: make([]string, len(vars)), bounds: make([]float64, len(bounds))}
	copy(s.vars, vars)
	copy(s.bounds, bounds)
	return s, nil
}

func (s *BoundScorer) Name() string { return s.name }

func (s *BoundScorer) Vars() []string {
	out := make([]string, len(s.vars))
	copy(out, s.vars)
	return out
}

func (s *BoundScorer) Score(vars Vars) (float64, error) {
	for i, name := range s.vars {
		v, err := vars.get(name)
		if err != nil {
			return 0, err
		}
		if v >= s.bounds[i] {
			return 0, nil
		}
	}
	return 1, nil
}

// ThresholdScorer scores 1.0 when a single variable sits strictly above its
// threshold.
type ThresholdScorer struct {
	name      string
	variable  string
	threshold float64
}

func NewThresholdScorer(name, variable string, threshold float64) *ThresholdScorer {
	return &ThresholdScorer{name: name, variable: variable, threshold: threshold}
}

func (s *ThresholdScorer) Name() string { return s.name }

func (s *ThresholdScorer) Vars() []string { return []string{s.variable} }

func (s *ThresholdScorer) Score(vars Vars) (float64, error) {
	v, err := vars.get(s.variable)
	if err != nil {
		return 0, err
	}
	if v > s.threshold {
		return 1, nil
	}
	return 0, nil
}

// RowFunc adapts a scorer to a positional row function over exactly
// s.Vars(), the shape column-deriving table code expects. Because the
// context it builds always carries every variable the scorer reads, Score
// cannot fail inside the returned function.
func RowFunc(s Scorer) (deps []string, fn func(vals []float64) float64) {
	deps = s.Vars()
	vars := make(Vars, len(deps))
	fn = func(vals []float64) float64 {
		for i, d := range deps {
			vars[d] = vals[i]
		}
		v, _ := s.Score(vars)
		return v
	}
	return deps, fn
}
