// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brent

import (
	"fmt"
	"io"
	"math"
	"os"
)

// LogLevel controls the frequency and type of logger output
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogLast print the problem on entry and one summary line at exit
	LogLast LogLevel = 0
	// LogEval print also one table row per objective evaluation
	LogEval LogLevel = 1
	// LogTrace print details of every step: kind, bracket and tolerances
	LogTrace LogLevel = 99
)

// Logger handles logging output for the optimizer.
// Note the writers must be thread-safe.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
	Out   io.Writer // Writer for output data.
}

func (l *Logger) enable(level LogLevel) bool {
	return l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}

func (l *Logger) out(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Out, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Out, format)
	}
}

// Objective is the function to be minimized. It is called only at points
// inside the search interval and must not depend on mutable shared state
// if the same Optimizer is fitted from several goroutines.
type Objective func(x float64) float64

// Termination specifies the stopping criteria for the optimization algorithm.
type Termination struct {
	// The absolute tolerance on x. The search stops when the bracket satisfies:
	//   |x - m| ≤ 2×tol₁ - (b - a)/2,  tol₁ = √𝚎𝚙𝚜𝚖𝚌𝚑 × |x| + 𝚝𝚘𝚕
	// It is not validated; it should be a small positive number.
	Tolerance float64
	// The search stops when the number of objective evaluations,
	// including the initial one, reaches this limit.
	// Values below 1 still allow the initial evaluation.
	MaxIterations int
}

// Problem specifies a bounded univariate minimization (or maximization) problem.
type Problem struct {
	Lower, Upper float64     // The search interval [Lower, Upper]
	Eval         Objective   // Objective function
	Stop         Termination // Stop condition
	Maximize     bool        // Search for a local maximum instead
	Trace        func(Step)  // Optional hook called after every evaluation
}

// New creates a new Brent optimizer for given problem.
// The bounds are checked before the objective is ever evaluated.
func (p *Problem) New(logger *Logger) (optimizer *Optimizer, err error) {

	log := Logger{Level: LogNoop}
	if logger != nil {
		log = *logger
	}
	if log.Msg == nil {
		log.Msg = os.Stdout
	}
	if log.Out == nil {
		log.Out = os.Stderr
	}

	lower, upper := p.Lower, p.Upper

	switch {
	case math.IsNaN(lower) || math.IsNaN(upper) || math.IsInf(lower, 0) || math.IsInf(upper, 0):
		err = fmt.Errorf("%w: lower %v, upper %v", ErrInvalidBounds, lower, upper)
	case lower >= upper:
		err = fmt.Errorf("%w: lower %v exceeds upper %v", ErrInvalidBounds, lower, upper)
	case p.Eval == nil:
		err = ErrNoObjective
	}

	if err != nil {
		return
	}

	eval := p.Eval
	if p.Maximize {
		f := p.Eval
		eval = func(x float64) float64 { return -f(x) }
	}

	optimizer = &Optimizer{
		brentSpec{
			lower:    lower,
			upper:    upper,
			eval:     eval,
			stop:     p.Stop,
			maximize: p.Maximize,
			trace:    p.Trace,
			logger:   log,
		},
	}
	return
}

type brentSpec struct {
	lower, upper float64
	eval         Objective
	stop         Termination
	maximize     bool
	trace        func(Step)
	logger       Logger
}

// caller converts an internal (minimized) objective value back to the caller's sign.
func (s *brentSpec) caller(f float64) float64 {
	if s.maximize {
		return -f
	}
	return f
}

// Optimizer implemented using Brent's golden-section and parabolic interpolation search.
// The optimizer holds no mutable state, so Fit may be called from several goroutines.
type Optimizer struct {
	brentSpec
}

// Result contains the final result of the optimization process.
type Result struct {
	OK         bool    // Whether the optimization was converged.
	X          float64 // Final solution.
	F          float64 // Objective value at X.
	Iterations int     // Number of objective evaluations, including the initial one.
	Status     Status  // Why the search stopped.
}

// Fit runs the search over the problem interval.
// A panic raised by the objective propagates to the caller and no result is produced.
func (o *Optimizer) Fit() *Result {
	driver := brentDriver{optimizer: o}
	status := driver.mainLoop()
	loc := &driver.location
	return &Result{
		OK:         status == Converged,
		X:          loc.x,
		F:          o.caller(loc.fx),
		Iterations: loc.iter,
		Status:     status,
	}
}

// Minimize returns a local minimum of f within [lower, upper].
//
// Reaching maxIterations is not reported as an error; compare
// Result.Iterations or inspect Result.Status to detect it.
func Minimize(lower, upper, tolerance float64, maxIterations int, f Objective) (*Result, error) {
	p := Problem{
		Lower: lower, Upper: upper,
		Eval: f,
		Stop: Termination{Tolerance: tolerance, MaxIterations: maxIterations},
	}
	o, err := p.New(nil)
	if err != nil {
		return nil, err
	}
	return o.Fit(), nil
}

// Maximize returns a local maximum of f within [lower, upper] by minimizing -f.
// The returned F is the value of f itself, so it equals the negated F of
// Minimize applied to -f.
func Maximize(lower, upper, tolerance float64, maxIterations int, f Objective) (*Result, error) {
	p := Problem{
		Lower: lower, Upper: upper,
		Eval:     f,
		Stop:     Termination{Tolerance: tolerance, MaxIterations: maxIterations},
		Maximize: true,
	}
	o, err := p.New(nil)
	if err != nil {
		return nil, err
	}
	return o.Fit(), nil
}
