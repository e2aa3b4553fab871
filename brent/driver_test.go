// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brent

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadLoc(f func(float64) float64, a, b, x, w, v float64) brentLoc {
	return brentLoc{
		a: a, b: b,
		x: x, w: w, v: v,
		fx: f(x), fw: f(w), fv: f(v),
	}
}

func TestNextStepParabolicVertex(t *testing.T) {
	f := func(x float64) float64 { return (x - 0.2) * (x - 0.2) }
	loc := quadLoc(f, -2, 2, 0, 0.5, -0.5)
	loc.e, loc.d = 1, 0.1

	m, tol1, tol2 := loc.tolerances(1e-8)
	kind := loc.nextStep(m, tol1, tol2)

	require.Equal(t, StepParabolic, kind)
	assert.InDelta(t, 0.2, loc.x+loc.d, 1e-12, "vertex of an exact parabola")
	assert.Equal(t, 0.1, loc.e, "e rolls to the previous d")
}

func TestNextStepGoldenWhenStepMemoryIsSmall(t *testing.T) {
	f := func(x float64) float64 { return x * x }
	loc := quadLoc(f, -2, 2, 1, 1, 1)

	m, tol1, tol2 := loc.tolerances(1e-8)
	kind := loc.nextStep(m, tol1, tol2)

	require.Equal(t, StepGolden, kind)
	// x is right of the midpoint, so the larger sub-interval is [a, x]
	assert.Equal(t, -3.0, loc.e)
	assert.Equal(t, golden*-3.0, loc.d)
}

func TestNextStepRejectsParabolaOutsideBracket(t *testing.T) {
	// Vertex at 5 lies outside [-1, 1]
	f := func(x float64) float64 { return (x - 5) * (x - 5) }
	loc := quadLoc(f, -1, 1, 0, 0.5, -0.5)
	loc.e, loc.d = 10, 1

	m, tol1, tol2 := loc.tolerances(1e-8)
	kind := loc.nextStep(m, tol1, tol2)

	assert.Equal(t, StepGolden, kind)
	assert.Equal(t, golden*(loc.a-loc.x), loc.d)
}

func TestNextStepKeepsAwayFromEndpoints(t *testing.T) {
	// Vertex at 0.999999999 is within tol2 of b
	f := func(x float64) float64 { return (x - 0.999999999) * (x - 0.999999999) }
	loc := quadLoc(f, -1, 1, 0.9, 0.8, 0.7)
	loc.e, loc.d = 1, 0.5

	m, tol1, tol2 := loc.tolerances(1e-5)
	kind := loc.nextStep(m, tol1, tol2)

	require.Equal(t, StepParabolic, kind)
	assert.Equal(t, -tol1, loc.d, "x is right of the midpoint")
}

func TestTrialMinimumStep(t *testing.T) {
	loc := brentLoc{x: 1}

	loc.d = 1e-12
	assert.Equal(t, 1+1e-3, loc.trial(1e-3))

	loc.d = -1e-12
	assert.Equal(t, 1-1e-3, loc.trial(1e-3))

	loc.d = 0
	assert.Equal(t, 1+1e-3, loc.trial(1e-3), "zero step moves forward")

	loc.d = 0.25
	assert.Equal(t, 1.25, loc.trial(1e-3))
}

func TestUpdate(t *testing.T) {
	t.Run("better point left of x", func(t *testing.T) {
		loc := brentLoc{a: 0, b: 4, x: 2, fx: 5, w: 3, fw: 6, v: 1, fv: 7}
		loc.update(1.5, 4)
		assert.Equal(t, brentLoc{a: 0, b: 2, x: 1.5, fx: 4, w: 2, fw: 5, v: 3, fv: 6}, loc)
	})
	t.Run("better point right of x", func(t *testing.T) {
		loc := brentLoc{a: 0, b: 4, x: 2, fx: 5, w: 3, fw: 6, v: 1, fv: 7}
		loc.update(2.5, 5)
		assert.Equal(t, brentLoc{a: 2, b: 4, x: 2.5, fx: 5, w: 2, fw: 5, v: 3, fv: 6}, loc)
	})
	t.Run("worse point replaces w", func(t *testing.T) {
		loc := brentLoc{a: 0, b: 4, x: 2, fx: 5, w: 3, fw: 6, v: 1, fv: 7}
		loc.update(1.5, 5.5)
		assert.Equal(t, brentLoc{a: 1.5, b: 4, x: 2, fx: 5, w: 1.5, fw: 5.5, v: 3, fv: 6}, loc)
	})
	t.Run("worse point replaces v", func(t *testing.T) {
		loc := brentLoc{a: 0, b: 4, x: 2, fx: 5, w: 3, fw: 6, v: 1, fv: 7}
		loc.update(2.5, 6.5)
		assert.Equal(t, brentLoc{a: 0, b: 2.5, x: 2, fx: 5, w: 3, fw: 6, v: 2.5, fv: 6.5}, loc)
	})
	t.Run("worst point only shrinks", func(t *testing.T) {
		loc := brentLoc{a: 0, b: 4, x: 2, fx: 5, w: 3, fw: 6, v: 1, fv: 7}
		loc.update(2.5, 8)
		assert.Equal(t, brentLoc{a: 0, b: 2.5, x: 2, fx: 5, w: 3, fw: 6, v: 1, fv: 7}, loc)
	})
	t.Run("w equal to x is always replaced", func(t *testing.T) {
		loc := brentLoc{a: 0, b: 4, x: 2, fx: 5, w: 2, fw: 5, v: 2, fv: 5}
		loc.update(3, 9)
		assert.Equal(t, brentLoc{a: 0, b: 3, x: 2, fx: 5, w: 3, fw: 9, v: 2, fv: 5}, loc)
	})
}

func TestConstants(t *testing.T) {
	assert.InDelta(t, 0.381966, golden, 1e-6)
	assert.InDelta(t, 1.49e-8, sqrtEps, 1e-10)
	assert.Equal(t, math.Nextafter(1, 2)-1, epsilon)
}
