package align

import (
	"errors"
	"fmt"
	"math"
)

// ErrConfiguration is the sentinel wrapped by every ConfigurationError
var ErrConfiguration = errors.New("invalid scoring system")

// ConfigurationError reports a malformed ScoringSystem.
// It is raised before any dynamic programming work starts.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// Scorer returns the score of aligning symbol a against symbol b
type Scorer func(a, b rune) float64

// Shape identifies which of the accepted scoring system forms was used
type Shape int

const (
	ShapeInvalid Shape = iota // Zero value, rejected by Align
	ShapeCustom               // Custom scorer plus four gap costs
	ShapeSixCost              // Match, mismatch and per-axis gap costs
	ShapeFourCost             // Match, mismatch and one open / extend pair for both axes
)

func (s Shape) String() string {
	switch s {
	case ShapeCustom:
		return "custom"
	case ShapeSixCost:
		return "six-cost"
	case ShapeFourCost:
		return "four-cost"
	default:
		return "invalid"
	}
}

// ScoringSystem configures the aligner.
// Build one with Custom, SixCost, FourCost or FromCosts; every form is normalized to a
// pairwise scorer plus gap open / extend costs for each axis. X is the axis of the first
// sequence (a gap in the second sequence), Y the axis of the second.
type ScoringSystem struct {
	shape   Shape
	score   Scorer
	openX   float64
	openY   float64
	extendX float64
	extendY float64

	match    float64 // Only meaningful for the six and four cost shapes
	mismatch float64
}

// Custom builds a scoring system around a caller-supplied pairwise scorer
func Custom(score Scorer, openX, openY, extendX, extendY float64) (ScoringSystem, error) {
	if score == nil {
		return ScoringSystem{}, &ConfigurationError{Reason: "custom scoring system needs a scorer"}
	}
	if err := checkFinite(openX, openY, extendX, extendY); err != nil {
		return ScoringSystem{}, err
	}
	return ScoringSystem{
		shape:   ShapeCustom,
		score:   score,
		openX:   openX,
		openY:   openY,
		extendX: extendX,
		extendY: extendY,
	}, nil
}

// SixCost builds a scoring system from match / mismatch scores and per-axis gap costs
func SixCost(match, mismatch, openX, openY, extendX, extendY float64) (ScoringSystem, error) {
	if err := checkFinite(match, mismatch, openX, openY, extendX, extendY); err != nil {
		return ScoringSystem{}, err
	}
	return ScoringSystem{
		shape:    ShapeSixCost,
		score:    equality(match, mismatch),
		openX:    openX,
		openY:    openY,
		extendX:  extendX,
		extendY:  extendY,
		match:    match,
		mismatch: mismatch,
	}, nil
}

// FourCost builds a scoring system whose gap costs are the same on both axes
func FourCost(match, mismatch, open, extend float64) (ScoringSystem, error) {
	if err := checkFinite(match, mismatch, open, extend); err != nil {
		return ScoringSystem{}, err
	}
	return ScoringSystem{
		shape:    ShapeFourCost,
		score:    equality(match, mismatch),
		openX:    open,
		openY:    open,
		extendX:  extend,
		extendY:  extend,
		match:    match,
		mismatch: mismatch,
	}, nil
}

// FromCosts builds a scoring system from a flat list of costs, as found in configuration
// files: four values select FourCost, six values select SixCost. Any other length is a
// ConfigurationError.
func FromCosts(costs ...float64) (ScoringSystem, error) {
	switch len(costs) {
	case 4:
		return FourCost(costs[0], costs[1], costs[2], costs[3])
	case 6:
		return SixCost(costs[0], costs[1], costs[2], costs[3], costs[4], costs[5])
	default:
		return ScoringSystem{}, &ConfigurationError{
			Reason: fmt.Sprintf("expected 4 or 6 costs, got %d", len(costs)),
		}
	}
}

// DefaultScoring is the six-cost system [8, -4, -7, -7, -3, 0]
func DefaultScoring() ScoringSystem {
	s, _ := SixCost(8, -4, -7, -7, -3, 0)
	return s
}

// Shape reports which constructor built s
func (s ScoringSystem) Shape() Shape { return s.shape }

// Costs returns the flat cost list of a six or four cost system.
// Custom systems have no flat form and return nil.
func (s ScoringSystem) Costs() []float64 {
	switch s.shape {
	case ShapeSixCost:
		return []float64{s.match, s.mismatch, s.openX, s.openY, s.extendX, s.extendY}
	case ShapeFourCost:
		return []float64{s.match, s.mismatch, s.openX, s.extendX}
	default:
		return nil
	}
}

// Score returns the pairwise score of a against b
func (s ScoringSystem) Score(a, b rune) float64 { return s.score(a, b) }

// GapCost returns the cost of one gap run of the given length on the X axis (open + length*extend)
func (s ScoringSystem) GapCost(length int) float64 {
	if length <= 0 {
		return 0
	}
	return s.openX + float64(length)*s.extendX
}

func (s ScoringSystem) validate() error {
	if s.shape == ShapeInvalid || s.score == nil {
		return &ConfigurationError{Reason: "scoring system was not built with a constructor"}
	}
	return nil
}

func equality(match, mismatch float64) Scorer {
	return func(a, b rune) float64 {
		if a == b {
			return match
		}
		return mismatch
	}
}

func checkFinite(costs ...float64) error {
	for i, c := range costs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return &ConfigurationError{Reason: fmt.Sprintf("cost %d is not finite (%v)", i, c)}
		}
	}
	return nil
}
