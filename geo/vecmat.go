// geo/vecmat.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import "math"

func Vec3Abs(a Vec3) float64 { return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z) }
func Vec2Abs(a Vec2) float64 { return math.Sqrt(a.X*a.X + a.Y*a.Y) }

func Vec2Dist(a, b Vec2) float64 { return Vec2Abs(Vec2Sub(a, b)) }
func Vec3Dist(a, b Vec3) float64 { return Vec3Abs(Vec3Sub(a, b)) }

// Vec3Unit normalizes a to unit length, also returning the original length.
func Vec3Unit(a Vec3) (Vec3, float64) {
	l := Vec3Abs(a)
	if l == 0 {
		return Vec3{}, 0
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}, l
}

func Vec2Unit(a Vec2) (Vec2, float64) {
	l := Vec2Abs(a)
	if l == 0 {
		return Vec2{}, 0
	}
	return Vec2{a.X / l, a.Y / l}, l
}

func Vec3Add(a, b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func Vec2Add(a, b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func Vec3Sub(a, b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func Vec2Sub(a, b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func Vec3Scale(a Vec3, s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func Vec2Scale(a Vec2, s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

func Vec3SetAbs(a Vec3, abs float64) Vec3 {
	u, _ := Vec3Unit(a)
	return Vec3Scale(u, abs)
}

func Vec2SetAbs(a Vec2, abs float64) Vec2 {
	u, _ := Vec2Unit(a)
	return Vec2Scale(u, abs)
}

func Vec3Dot(a, b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func Vec2Dot(a, b Vec2) float64 { return a.X*b.X + a.Y*b.Y }

func Vec3Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func Vec3Mean(a, b Vec3) Vec3 { return Vec3Scale(Vec3Add(a, b), 0.5) }

// Vec2Rot rotates v counter-clockwise by angle radians.
func Vec2Rot(v Vec2, angle float64) Vec2 {
	s, c := math.Sin(angle), math.Cos(angle)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

func Vec2Neg(v Vec2) Vec2 { return Vec2{-v.X, -v.Y} }

// Vec2Norm returns a vector perpendicular to v, rotated right (clockwise)
// if right is true, else left.
func Vec2Norm(v Vec2, right bool) Vec2 {
	if right {
		return Vec2{v.Y, -v.X}
	}
	return Vec2{-v.Y, v.X}
}

// SameDir reports whether a and b point into the same half-plane (used to
// pick the intersection that lies "ahead" of travel rather than behind).
func SameDir(a, b Vec2) bool { return Vec2Dot(a, b) > 0 }

// HdgToDir converts a true heading in degrees to a unit direction vector in
// a local east-north flat-plane frame (X = east component, Y = north
// component).
func HdgToDir(trueHdg float64) Vec2 {
	r := DegToRad(trueHdg)
	return Vec2{math.Sin(r), math.Cos(r)}
}

// DirToHdg is the inverse of HdgToDir.
func DirToHdg(dir Vec2) float64 {
	h := RadToDeg(math.Atan2(dir.X, dir.Y))
	if h < 0 {
		h += 360
	}
	if h == 0 {
		h = 360
	}
	return h
}

// NormalizeHdg folds h into (0, 360].
func NormalizeHdg(h float64) float64 {
	h = math.Mod(h, 360)
	if h <= 0 {
		h += 360
	}
	return h
}

// RelHdg returns the signed smallest-magnitude turn from `from` to `to`,
// in (-180, 180]. Positive is a right turn.
func RelHdg(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}
