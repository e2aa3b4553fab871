package numdiff

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

var epsilon = math.Nextafter(1, 2) - 1
var sqrtEps = math.Sqrt(epsilon)
var cubeEps = math.Pow(epsilon, float64(1)/3)
var quadEps = math.Pow(epsilon, float64(1)/4)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use central difference in interior points and the second order accuracy
	// forward or backward difference near the boundary.
	Central
)

// Bound is the closed range [lower, upper]. NaN or infinite ends are open.
type Bound [2]float64

// Spec represents a numerical differentiation scheme for a univariate function.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
//
// # License
//
//   - https://github.com/scipy/scipy/blob/main/LICENSE.txt
type Spec struct {
	// Finite difference method to use for Slope.
	Method Method
	// Lower and upper bounds on the independent variable.
	// Use it to limit the range of function evaluation.
	Bound *Bound
	// Relative step size used to compute absolute step size.
	// The default absolute step size is computed as h = RelStep * sign(x) * max(1, abs(x)) with RelStep being selected automatically.
	// Otherwise, absolute step size is computed as h = RelStep * sign(x) * abs(x) when RelStep is provided.
	RelStep float64
	// Absolute step size to use, possibly adjusted to fit into the bounds.
	// The RelStep is used when AbsStep is not provide.
	// For Central method the sign of AbsStep is ignored.
	AbsStep float64
	// Don't check if x is out of bounds.
	NotChkBnd bool
}

// check validates the parameters and returns the effective bounds.
func (s *Spec) check(f func(float64) float64, x float64) (lb, ub float64, err error) {

	lb, ub = math.Inf(-1), math.Inf(1)
	if s.Bound != nil {
		if !math.IsNaN(s.Bound[0]) {
			lb = s.Bound[0]
		}
		if !math.IsNaN(s.Bound[1]) {
			ub = s.Bound[1]
		}
	}

	switch {
	case s.Method != Forward && s.Method != Central:
		err = errors.New("unknown method")
	case f == nil:
		err = errors.New("object function is required")
	case math.IsNaN(x) || math.IsInf(x, 0):
		err = errors.New("x must be finite")
	case lb > ub:
		err = errors.New("invalid bound range")
	case !s.NotChkBnd && (x < lb || x > ub):
		err = errors.New("x violates bound constraints")
	}
	return
}

// Slope calculate approximation of the first derivative of f at x by finite differences.
func (s *Spec) Slope(f func(float64) float64, x float64) (float64, error) {

	lb, ub, err := s.check(f, x)
	if err != nil {
		return math.NaN(), err
	}

	var eps float64
	switch s.Method {
	case Forward:
		eps = sqrtEps
	case Central:
		eps = cubeEps
	}

	h := s.absoluteStep(x, eps)

	if s.Method == Forward {
		h = adjustForward(x, h, lb, ub)
		if h == 0 {
			return math.NaN(), errors.New("bound range too narrow")
		}
		return (f(x+h) - f(x)) / h, nil
	}

	h, oneSide := adjustCentral(x, h, lb, ub)
	if h == 0 {
		return math.NaN(), errors.New("bound range too narrow")
	}
	d := 1.0 / (2 * h)
	if oneSide {
		return (4*f(x+h) - 3*f(x) - f(x+2*h)) * d, nil
	}
	return (f(x+h) - f(x-h)) * d, nil
}

// Curvature calculate approximation of the second derivative of f at x with the
// three-point stencil. Near a bound the stencil is shifted inward.
func (s *Spec) Curvature(f func(float64) float64, x float64) (float64, error) {

	lb, ub, err := s.check(f, x)
	if err != nil {
		return math.NaN(), err
	}

	h := math.Abs(s.absoluteStep(x, quadEps))
	if w := ub - lb; 2*h > w {
		h = w / 2
	}

	c := x
	if c-h < lb {
		c = lb + h
	}
	if c+h > ub {
		c = ub - h
	}

	if scalar.EqualWithinRel(c+h, c, epsilon) {
		return math.NaN(), errors.New("bound range too narrow")
	}
	return (f(c-h) - 2*f(c) + f(c+h)) / (h * h), nil
}

func (s *Spec) absoluteStep(x, eps float64) float64 {
	if s.AbsStep == 0 && s.RelStep == 0 {
		return math.Copysign(eps, x) * math.Max(1.0, math.Abs(x))
	}
	h := s.AbsStep
	if h == 0 {
		h = math.Copysign(s.RelStep, x) * math.Abs(x)
	}
	// a step lost in rounding falls back to the automatic one
	if scalar.EqualWithinRel(x+h, x, epsilon) {
		h = math.Copysign(eps, x) * math.Max(1.0, math.Abs(x))
	}
	return h
}

// adjustForward flips or shrinks a forward step so that x+h stays within bounds.
func adjustForward(x, h, lb, ub float64) float64 {
	ld, ud := x-lb, ub-x
	t := x + h
	violated := t < lb || t > ub
	fitting := math.Abs(h) <= math.Max(ld, ud)
	if violated && fitting {
		h = -h
	} else if !fitting {
		if ud >= ld {
			h = ud
		} else {
			h = -ld
		}
	}
	return h
}

// adjustCentral switches to a one-sided scheme when x±h leaves the bounds.
func adjustCentral(x, h, lb, ub float64) (float64, bool) {
	h = math.Abs(h)
	ld, ud := x-lb, ub-x
	central := ld >= h && ud >= h
	oneSide := false
	if !central {
		if ud >= ld {
			h = math.Min(h, 0.5*ud)
		} else {
			h = -math.Min(h, 0.5*ld)
		}
		oneSide = true
	}
	minDist := math.Min(ud, ld)
	if !central && math.Abs(h) <= minDist {
		h = minDist
		oneSide = false
	}
	return h, oneSide
}
