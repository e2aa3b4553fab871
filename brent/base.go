// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brent

import (
	"errors"
	"math"
)

const (
	zero = 0.0
	half = 0.5
	two  = 2.0
)

var (
	// golden is the golden-section fraction (3 - √5)/2 ≈ 0.381966.
	golden = (3 - math.Sqrt(5)) / 2
	// epsilon is the machine precision of float64.
	epsilon = math.Nextafter(1, 2) - 1
	sqrtEps = math.Sqrt(epsilon)
)

var (
	// ErrInvalidBounds is returned when the search interval is empty or not finite.
	ErrInvalidBounds = errors.New("lower bound must be finite and less than upper bound")
	// ErrNoObjective is returned when the objective function is missing.
	ErrNoObjective = errors.New("objective function is required")
)

// Status describes why the search stopped.
type Status int

const (
	// Converged the bracket became small enough relative to the adaptive tolerance.
	Converged Status = iota
	// IterationLimit the evaluation budget was spent before the tolerance test passed.
	// This is not an error: the best point found so far is returned.
	IterationLimit
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "Converged"
	case IterationLimit:
		return "IterationLimit"
	}
	return "Unknown"
}

// StepKind tells how the point of an evaluation was chosen.
type StepKind int

const (
	// StepSeed the initial golden-section point of the interval.
	StepSeed StepKind = iota
	// StepGolden a golden-section step into the larger sub-interval.
	StepGolden
	// StepParabolic a step to the vertex of the parabola through x, w and v.
	StepParabolic
)

func (k StepKind) String() string {
	switch k {
	case StepSeed:
		return "seed"
	case StepGolden:
		return "golden"
	case StepParabolic:
		return "parabolic"
	}
	return "unknown"
}

// Step records one objective evaluation together with the bracket after the update.
type Step struct {
	Iter  int      // Evaluation count, starting from 1 for the seed.
	Kind  StepKind // How U was chosen.
	A, B  float64  // Bracket after the update.
	U, FU float64  // Evaluated point and its value.
	X, FX float64  // Best point after the update and its value.
}
