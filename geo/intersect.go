// geo/intersect.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import "math"

// roundError absorbs floating-point slop when checking whether an
// intersection point falls within a confined segment's extent.
const roundError = 1e-10

// Vec3SphIsect determines whether and where the vector v (displaced from
// the origin by o) intersects the sphere of radius r centered at c. It
// returns the number of intersections (0, 1 or 2) and stores the
// intersection points (as vectors from the coordinate origin) in i.
//
// If confined is true, only solutions lying between o and o+v (inclusive)
// are returned; a solution outside that range is reported as NullVec3 and
// does not count toward the returned total. Otherwise solutions anywhere
// along the infinite line through v are accepted.
func Vec3SphIsect(v, o, c Vec3, r float64, confined bool, i *[2]Vec3) int {
	l, d := Vec3Unit(v)

	oMinC := Vec3Sub(o, c)
	lDotOMinC := Vec3Dot(l, oMinC)
	oMinCAbs := Vec3Abs(oMinC)

	sqrtTmp := lDotOMinC*lDotOMinC - oMinCAbs*oMinCAbs + r*r

	switch {
	case sqrtTmp > 0:
		sqrtTmp = math.Sqrt(sqrtTmp)
		n := 0

		i1d := -lDotOMinC - sqrtTmp
		if (i1d >= 0 && i1d <= d) || !confined {
			i[n] = Vec3Add(Vec3Scale(l, i1d), o)
			n++
		} else if n < 2 {
			i[n] = NullVec3
		}

		i2d := -lDotOMinC + sqrtTmp
		if (i2d >= 0 && i2d <= d) || !confined {
			i[n] = Vec3Add(Vec3Scale(l, i2d), o)
			n++
		} else if n < 2 {
			i[n] = NullVec3
		}

		return n
	case sqrtTmp == 0:
		i[1] = NullVec3
		i1d := -lDotOMinC
		if (i1d >= 0 && i1d <= d) || !confined {
			i[0] = Vec3Add(Vec3Scale(l, i1d), o)
			return 1
		}
		i[0] = NullVec3
		return 0
	default:
		i[0] = NullVec3
		i[1] = NullVec3
		return 0
	}
}

// Vec2CircIsect is the planar special case of Vec3SphIsect, with v, o and c
// lying in the z=0 plane.
func Vec2CircIsect(v, o, c Vec2, r float64, confined bool, i *[2]Vec2) int {
	v3 := Vec3{v.X, v.Y, 0}
	o3 := Vec3{o.X, o.Y, 0}
	c3 := Vec3{c.X, c.Y, 0}
	var i3 [2]Vec3

	n := Vec3SphIsect(v3, o3, c3, r, confined, &i3)
	i[0] = Vec2{i3[0].X, i3[0].Y}
	i[1] = Vec2{i3[1].X, i3[1].Y}
	return n
}

// Vec2VectIsect computes the point at which the line through oa along a
// intersects the line through ob along b, returning NullVec2 if the two
// are parallel (or share no confined intersection). When confined is true,
// the intersection must lie within both segments' extents (inclusive).
func Vec2VectIsect(a, oa, b, ob Vec2, confined bool) Vec2 {
	if a.X*b.Y == a.Y*b.X {
		return NullVec2
	}
	if oa == ob {
		return oa
	}

	p1, p2 := oa, Vec2Add(oa, a)
	p3, p4 := ob, Vec2Add(ob, b)

	det := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if det == 0 {
		return NullVec2
	}

	ca := p1.X*p2.Y - p1.Y*p2.X
	cb := p3.X*p4.Y - p3.Y*p4.X

	r := Vec2{
		X: (ca*(p3.X-p4.X) - cb*(p1.X-p2.X)) / det,
		Y: (ca*(p3.Y-p4.Y) - cb*(p1.Y-p2.Y)) / det,
	}

	if confined {
		if r.X < math.Min(p1.X, p2.X)-roundError || r.X > math.Max(p1.X, p2.X)+roundError ||
			r.X < math.Min(p3.X, p4.X)-roundError || r.X > math.Max(p3.X, p4.X)+roundError ||
			r.Y < math.Min(p1.Y, p2.Y)-roundError || r.Y > math.Max(p1.Y, p2.Y)+roundError ||
			r.Y < math.Min(p3.Y, p4.Y)-roundError || r.Y > math.Max(p3.Y, p4.Y)+roundError {
			return NullVec2
		}
	}

	return r
}

// Circ2CircIsect computes the 0, 1 or 2 intersection points of two circles.
func Circ2CircIsect(ca Vec2, ra float64, cb Vec2, rb float64, i *[2]Vec2) int {
	caCb := Vec2Sub(cb, ca)
	d := Vec2Abs(caCb)
	if (d == 0 && ra == rb) || d > ra+rb || d+math.Min(ra, rb) < math.Max(ra, rb) {
		return 0
	}

	a := (ra*ra - rb*rb + d*d) / (2 * d)
	var h float64
	if ra*ra-a*a >= 0 {
		h = math.Sqrt(ra*ra - a*a)
	}

	caP2 := Vec2SetAbs(caCb, a)
	p2 := Vec2Add(ca, caP2)

	if h == 0 {
		i[0] = p2
		return 1
	}

	i[0] = Vec2Add(p2, Vec2SetAbs(Vec2Norm(caP2, false), h))
	i[1] = Vec2Add(p2, Vec2SetAbs(Vec2Norm(caP2, true), h))
	return 2
}
