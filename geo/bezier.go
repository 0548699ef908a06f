// geo/bezier.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import "math"

// QuadBezierFunc is a one-dimensional function defined by a chain of
// quadratic Bezier curve segments, control point triplets sharing an
// endpoint: pts[0..2], pts[2..4], pts[4..6], and so on. Segments must not
// overlap in X so that the function is single-valued; X must be
// non-decreasing across the whole chain. Used by the performance model to
// represent thrust/fuel-flow/speed curves read from an aircraft
// performance file.
type QuadBezierFunc struct {
	Pts []Vec2
}

// NewQuadBezierFunc wraps pts as a bezier-segmented function. len(pts)
// must be >= 3 and (len(pts)-1) a multiple of 2.
func NewQuadBezierFunc(pts []Vec2) QuadBezierFunc {
	return QuadBezierFunc{Pts: pts}
}

// quadraticSolve finds the real roots of a*t^2 + b*t + c = 0, returning how
// many were found (0, 1 or 2) and storing them in ts.
func quadraticSolve(a, b, c float64, ts *[2]float64) int {
	if a == 0 {
		if b == 0 {
			return 0
		}
		ts[0] = -c / b
		return 1
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0
	}
	if disc == 0 {
		ts[0] = -b / (2 * a)
		return 1
	}

	sq := math.Sqrt(disc)
	ts[0] = (-b - sq) / (2 * a)
	ts[1] = (-b + sq) / (2 * a)
	return 2
}

// Eval returns the function's value at x. Beyond the curve's domain, the
// function is flat: it returns the first or last control point's Y.
func (f QuadBezierFunc) Eval(x float64) float64 {
	n := len(f.Pts)
	if x < f.Pts[0].X {
		return f.Pts[0].Y
	}
	if x > f.Pts[n-1].X {
		return f.Pts[n-1].Y
	}

	for i := 0; i+2 < n; i += 2 {
		p0, p1, p2 := f.Pts[i], f.Pts[i+1], f.Pts[i+2]
		if p2.X < x {
			continue
		}

		var ts [2]float64
		cnt := quadraticSolve(p2.X-2*p1.X+p0.X, 2*(p1.X-p0.X), p0.X-x, &ts)
		if cnt == 0 {
			continue
		}

		var t float64
		if ts[0] >= 0 && ts[0] <= 1.0 {
			t = ts[0]
		} else {
			t = ts[1]
		}

		return (1-t)*(1-t)*p0.Y + 2*(1-t)*t*p1.Y + t*t*p2.Y
	}

	return f.Pts[n-1].Y
}
