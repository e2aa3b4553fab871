// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brent

import "math"

// brentLoc is the interval state of one search.
//
//	a, b : bracket known to contain the minimum
//	x    : best point so far
//	w    : second best point
//	v    : previous value of w
//	d    : most recent step
//	e    : step taken two iterations earlier
type brentLoc struct {
	a, b       float64
	x, w, v    float64
	fx, fw, fv float64
	d, e       float64
	iter       int
}

// tolerances returns the bracket midpoint and the adaptive tolerances at x.
func (l *brentLoc) tolerances(tol float64) (m, tol1, tol2 float64) {
	m = (l.a + l.b) / 2
	tol1 = sqrtEps*math.Abs(l.x) + tol
	tol2 = two * tol1
	return
}

// nextStep chooses the step d from x, preferring the vertex of the parabola
// through (v,fv), (w,fw), (x,fx) and falling back to golden section.
func (l *brentLoc) nextStep(m, tol1, tol2 float64) StepKind {

	if math.Abs(l.e) > tol1 {
		// Fit parabola: the vertex is at x + p/q with q ≥ 0
		r := (l.x - l.w) * (l.fx - l.fv)
		q := (l.x - l.v) * (l.fx - l.fw)
		p := (l.x-l.v)*q - (l.x-l.w)*r
		q = two * (q - r)
		if q > zero {
			p = -p
		} else {
			q = -q
		}
		r = l.e
		l.e = l.d

		// Accept only a step inside (a, b) shorter than half of the step before last
		if math.Abs(p) < math.Abs(half*q*r) && p > q*(l.a-l.x) && p < q*(l.b-l.x) {
			l.d = p / q
			u := l.x + l.d
			// f must not be evaluated too close to a or b
			if u-l.a < tol2 || l.b-u < tol2 {
				if l.x < m {
					l.d = tol1
				} else {
					l.d = -tol1
				}
			}
			return StepParabolic
		}
	}

	if l.x < m {
		l.e = l.b - l.x
	} else {
		l.e = l.a - l.x
	}
	l.d = golden * l.e
	return StepGolden
}

// trial returns the next point to evaluate, never closer than tol1 to x.
func (l *brentLoc) trial(tol1 float64) float64 {
	d := l.d
	if math.Abs(d) < tol1 {
		if d < zero {
			d = -tol1
		} else {
			d = tol1
		}
	}
	return l.x + d
}

// update shrinks the bracket with the new point u and keeps x, w, v ordered
// as the best, second best and third best points.
func (l *brentLoc) update(u, fu float64) {
	if fu <= l.fx {
		if u < l.x {
			l.b = l.x
		} else {
			l.a = l.x
		}
		l.v, l.fv = l.w, l.fw
		l.w, l.fw = l.x, l.fx
		l.x, l.fx = u, fu
		return
	}

	if u < l.x {
		l.a = u
	} else {
		l.b = u
	}
	switch {
	case fu <= l.fw || l.w == l.x:
		l.v, l.fv = l.w, l.fw
		l.w, l.fw = u, fu
	case fu <= l.fv || l.v == l.x || l.v == l.w:
		l.v, l.fv = u, fu
	}
}

// brentDriver runs one search. All state lives in location,
// so concurrent drivers never share anything but the immutable optimizer.
type brentDriver struct {
	optimizer *Optimizer
	location  brentLoc
}

// evaluate calls the objective at u and counts the evaluation.
func (d *brentDriver) evaluate(u float64) float64 {
	fu := d.optimizer.eval(u)
	d.location.iter++
	return fu
}

// mainLoop seeds the bracket and iterates until the tolerance test passes
// or the evaluation budget is spent.
func (d *brentDriver) mainLoop() (status Status) {

	spec := &d.optimizer.brentSpec
	loc := &d.location

	loc.a, loc.b = spec.lower, spec.upper
	loc.x = loc.a + golden*(loc.b-loc.a)
	loc.v, loc.w = loc.x, loc.x
	loc.d, loc.e = zero, zero
	loc.fx = d.evaluate(loc.x)
	loc.fv, loc.fw = loc.fx, loc.fx

	d.printInit()
	d.record(StepSeed, loc.x, loc.fx)

	for {
		m, tol1, tol2 := loc.tolerances(spec.stop.Tolerance)
		if math.Abs(loc.x-m) <= tol2-(loc.b-loc.a)/2 {
			status = Converged
			break
		}
		if loc.iter >= spec.stop.MaxIterations {
			status = IterationLimit
			break
		}

		kind := loc.nextStep(m, tol1, tol2)
		if log := spec.logger; log.enable(LogTrace) {
			log.log("\nEVALUATION %5d\n", loc.iter+1)
			log.log("Bracket [%23.16e, %23.16e]  width= %12.5e\n", loc.a, loc.b, loc.b-loc.a)
			log.log("tol1= %12.5e  tol2= %12.5e  %s step d= %12.5e\n", tol1, tol2, kind, loc.d)
		}

		u := loc.trial(tol1)
		fu := d.evaluate(u)
		loc.update(u, fu)

		d.record(kind, u, fu)
	}

	d.printExit(status)
	return
}

// record reports an evaluation to the trace hook and the logger.
func (d *brentDriver) record(kind StepKind, u, fu float64) {
	spec := &d.optimizer.brentSpec
	loc := &d.location

	if spec.trace != nil {
		spec.trace(Step{
			Iter: loc.iter,
			Kind: kind,
			A:    loc.a, B: loc.b,
			U: u, FU: spec.caller(fu),
			X: loc.x, FX: spec.caller(loc.fx),
		})
	}

	log := spec.logger
	if log.enable(LogEval) {
		log.out(" %4d  %-9s %13.6e %13.6e %13.6e %13.6e\n",
			loc.iter, kind, loc.a, loc.b, loc.x, spec.caller(loc.fx))
	}
	if log.enable(LogTrace) {
		log.log("At evaluation %5d    u= %23.16e    f(u)= %12.5e\n", loc.iter, u, spec.caller(fu))
	}
}

// printInit logs the problem before the search starts.
func (d *brentDriver) printInit() {
	spec := &d.optimizer.brentSpec

	log := spec.logger
	if !log.enable(LogLast) {
		return
	}

	sense := "MINIMIZE"
	if spec.maximize {
		sense = "MAXIMIZE"
	}
	log.log("RUNNING THE BRENT CODE (%s)\n", sense)
	log.log("           * * *\n")
	log.log("Machine precision = %10.3e\n", epsilon)
	log.log("L = %23.16e    U = %23.16e\n", spec.lower, spec.upper)
	log.log("Tolerance = %10.3e    Max evaluations = %d\n", spec.stop.Tolerance, spec.stop.MaxIterations)

	if log.enable(LogEval) {
		log.out("\n   nf  step                  a             b             x          f(x)\n")
	}
}

// printExit logs the termination status and the final point.
func (d *brentDriver) printExit(status Status) {
	spec := &d.optimizer.brentSpec
	loc := &d.location

	log := spec.logger
	if !log.enable(LogLast) {
		return
	}

	log.log("\n           * * *\n")
	log.log("Tnf   = total number of function evaluations\n")
	log.log("X     = final solution\n")
	log.log("F     = final function value\n")
	log.log("\n     Tnf                       X             F\n")
	log.log("%8d %23.16e %13.6e\n", loc.iter, loc.x, spec.caller(loc.fx))
	switch status {
	case Converged:
		log.log("\nCONVERGENCE: BRACKET WITHIN TOLERANCE\n")
	case IterationLimit:
		log.log("\nSTOP: TOTAL NO. of FUNCTION EVALUATIONS EXCEEDS LIMIT\n")
	}
}
