// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package brent finds a local minimum (or maximum) of a univariate function on a
// bounded interval without derivatives, combining golden-section search with
// successive parabolic interpolation.
//
// # Reference:
//
//   - R. P. Brent, Algorithms for Minimization without Derivatives, Prentice-Hall, 1973, ch. 5.
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_optimize.py (fminbound)
package brent
