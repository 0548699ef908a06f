// geo/projection.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import "math"

// SphXlate is a spherical coordinate translation: a rotation from one
// geocentric coordinate frame to another, displaced by displac degrees of
// latitude/longitude and rotated rot degrees about the resulting viewport's
// x axis. It underlies every flat-plane projection in this package.
type SphXlate struct {
	sphMatrix [9]float64 // 3x3, row-major
	rotMatrix [4]float64 // 2x2, row-major
	inv       bool
}

func mul3x3x1(m [9]float64, v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

func mul2x2x1(m [4]float64, v Vec2) Vec2 {
	return Vec2{
		X: m[0]*v.X + m[1]*v.Y,
		Y: m[2]*v.X + m[3]*v.Y,
	}
}

func mul3x3(a, b [9]float64) [9]float64 {
	var r [9]float64
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[row*3+k] * b[k*3+col]
			}
			r[row*3+col] = sum
		}
	}
	return r
}

// NewSphXlate prepares a translation from a geocentric coordinate system
// displaced by displac and rotated rot degrees counter-clockwise. When inv
// is true, it builds the inverse translation.
func NewSphXlate(displac Geo2, rot float64, inv bool) SphXlate {
	var alpha, bravo, theta float64
	if !inv {
		alpha = DegToRad(displac.Lat)
		bravo = DegToRad(-displac.Lon)
		theta = DegToRad(rot)
	} else {
		alpha = DegToRad(-displac.Lat)
		bravo = DegToRad(displac.Lon)
		theta = DegToRad(-rot)
	}

	sinA, cosA := math.Sin(alpha), math.Cos(alpha)
	sinB, cosB := math.Sin(bravo), math.Cos(bravo)
	sinT, cosT := math.Sin(theta), math.Cos(theta)

	ra := [9]float64{
		cosA, 0, sinA,
		0, 1, 0,
		-sinA, 0, cosA,
	}
	rb := [9]float64{
		cosB, -sinB, 0,
		sinB, cosB, 0,
		0, 0, 1,
	}

	var sph [9]float64
	if !inv {
		sph = mul3x3(ra, rb)
	} else {
		sph = mul3x3(rb, ra)
	}

	return SphXlate{
		sphMatrix: sph,
		rotMatrix: [4]float64{cosT, -sinT, sinT, cosT},
		inv:       inv,
	}
}

// Vec translates p by xlate.
func (xlate SphXlate) Vec(p Vec3) Vec3 {
	if xlate.inv {
		r := Vec2{p.Y, p.Z}
		s := mul2x2x1(xlate.rotMatrix, r)
		p.Y, p.Z = s.X, s.Y
	}

	q := mul3x3x1(xlate.sphMatrix, p)

	if !xlate.inv {
		r := Vec2{q.Y, q.Z}
		s := mul2x2x1(xlate.rotMatrix, r)
		q.Y, q.Z = s.X, s.Y
	}

	return q
}

// Sph translates a geodetic position on an EarthMSL-radius sphere.
func (xlate SphXlate) Sph(pos Geo2) Geo2 {
	v := SphToECEF(pos.To3(0))
	r := xlate.Vec(v)
	return ECEFToSph(r).To2()
}

// GreatCircleDistance returns the great-circle distance between two
// geodetic positions in meters, computed via the chord-angle formula for
// numerical stability at short range: 2R*asin(|chord|/2R).
func GreatCircleDistance(a, b Geo2) float64 {
	av := GeoToECEF(a.To3(0), WGS84)
	bv := GeoToECEF(b.To3(0), WGS84)
	chord := Vec3Dist(av, bv)
	alpha := math.Asin(chord / 2 / EarthMSL)
	return 2 * alpha * EarthMSL
}

// FlatPlaneProj is a flat-plane projection of the sphere/ellipsoid from a
// fixed origin along the local vertical at center, onto a plane tangent to
// the sphere there. dist is the projection origin's distance from the
// tangent plane along that vertical: +Inf gives an orthographic
// projection, -EarthMSL a gnomonic one, -2*EarthMSL a stereographic one.
type FlatPlaneProj struct {
	xlate    SphXlate
	invXlate SphXlate
	allowInv bool
	ellip    *Ellipsoid
	dist     float64
}

// NewFlatPlaneProj constructs a projection centered at center, rotated rot
// degrees, with its origin dist along the local vertical. ellip may be nil
// to project against the EarthMSL sphere directly instead of an ellipsoid.
func NewFlatPlaneProj(center Geo2, rot, dist float64, ellip *Ellipsoid, allowInv bool) FlatPlaneProj {
	fpp := FlatPlaneProj{allowInv: allowInv, ellip: ellip, dist: dist}

	sphCtr := center
	if ellip != nil {
		sphCtr = ECEFToSph(GeoToECEF(center.To3(0), *ellip)).To2()
	}
	fpp.xlate = NewSphXlate(sphCtr, rot, false)
	if allowInv {
		fpp.invXlate = NewSphXlate(sphCtr, rot, true)
	}
	return fpp
}

func NewOrthoProj(center Geo2, rot float64, ellip *Ellipsoid, allowInv bool) FlatPlaneProj {
	return NewFlatPlaneProj(center, rot, math.Inf(1), ellip, allowInv)
}

func NewGnomonicProj(center Geo2, rot float64, ellip *Ellipsoid, allowInv bool) FlatPlaneProj {
	return NewFlatPlaneProj(center, rot, -EarthMSL, ellip, allowInv)
}

func NewStereoProj(center Geo2, rot float64, ellip *Ellipsoid, allowInv bool) FlatPlaneProj {
	return NewFlatPlaneProj(center, rot, -2*EarthMSL, ellip, allowInv)
}

// Project maps pos onto the projection plane, returning NullVec2 if pos
// falls outside the region the projection can represent.
func (fpp FlatPlaneProj) Project(pos Geo2) Vec2 {
	var posV Vec3
	if fpp.ellip != nil {
		posV = GeoToECEF(pos.To3(0), *fpp.ellip)
	} else {
		posV = SphToECEF(pos.To3(0))
	}
	posV = fpp.xlate.Vec(posV)

	if !math.IsInf(fpp.dist, 0) {
		if fpp.dist < 0.0 && posV.X <= fpp.dist+EarthMSL {
			return NullVec2
		}
		return Vec2{
			X: fpp.dist * (posV.Y / (fpp.dist + EarthMSL - posV.X)),
			Y: fpp.dist * (posV.Z / (fpp.dist + EarthMSL - posV.X)),
		}
	}
	return Vec2{posV.Y, posV.Z}
}

// Unproject back-projects a point from the projection plane into geodetic
// coordinates. It requires the projection to have been built with
// allowInv; back-projection is unique only for projections whose origin
// lies inside the sphere (gnomonic, stereographic); where two candidate
// solutions exist, the one closer to the projection origin is chosen.
func (fpp FlatPlaneProj) Unproject(pos Vec2) Geo2 {
	var v, o Vec3
	if !math.IsInf(fpp.dist, 0) {
		v = Vec3{-fpp.dist, pos.X, pos.Y}
		o = Vec3{EarthMSL + fpp.dist, 0, 0}
	} else {
		v = Vec3{-1e14, pos.X, pos.Y}
		o = Vec3{1e14, 0, 0}
	}

	var i [2]Vec3
	n := Vec3SphIsect(v, o, Vec3{}, EarthMSL, false, &i)
	if n == 0 {
		return NullGeo2
	}
	if n == 2 && !math.IsInf(fpp.dist, 0) {
		if fpp.dist >= -EarthMSL {
			if i[1].X > i[0].X {
				i[0] = i[1]
			}
		} else {
			if i[1].X < i[0].X {
				i[0] = i[1]
			}
		}
	}

	r := fpp.invXlate.Vec(i[0])
	sph := ECEFToSph(r).To2()
	if fpp.ellip != nil {
		sph.Lat = RadToDeg(math.Atan(math.Tan(DegToRad(sph.Lat)) / (1 - fpp.ellip.Ecc2)))
	}
	return sph
}

// GeoDisplace returns the geodetic position reached by travelling dist
// meters along trueHdg degrees from `from`, computed via a gnomonic
// projection centered at `from`. It returns NullGeo2 for distances at or
// beyond the antipodal region (dist >= pi*EarthMSL/2), where the gnomonic
// plane cannot represent the destination.
func GeoDisplace(from Geo2, trueHdg, dist float64) Geo2 {
	if dist >= math.Pi*EarthMSL/2 {
		return NullGeo2
	}
	fpp := NewGnomonicProj(from, 0, &WGS84, true)
	dir := HdgToDir(trueHdg)
	return fpp.Unproject(Vec2Scale(dir, dist))
}

// GeoMidpoint returns the geodetic midpoint between a and b, computed as
// the ECEF mean of both positions re-projected back onto the ellipsoid.
// Used to center the gnomonic projection a leg-expansion intersection is
// solved on.
func GeoMidpoint(a, b Geo2) Geo2 {
	av := GeoToECEF(a.To3(0), WGS84)
	bv := GeoToECEF(b.To3(0), WGS84)
	return ECEFToGeo(Vec3Mean(av, bv), WGS84).To2()
}

// LCC holds Lambert Conformal Conic projection parameters.
type LCC struct {
	reflat, reflon float64
	n, f, rho0     float64
}

func cot(x float64) float64 { return 1.0 / math.Tan(x) }
func sec(x float64) float64 { return 1.0 / math.Cos(x) }

// NewLCC prepares a Lambert Conformal Conic projection referenced at
// (reflat, reflon) with standard parallels stdpar1/stdpar2, all in degrees.
func NewLCC(reflat, reflon, stdpar1, stdpar2 float64) LCC {
	phi0 := DegToRad(reflat)
	phi1 := DegToRad(stdpar1)
	phi2 := DegToRad(stdpar2)

	lcc := LCC{reflat: phi0, reflon: DegToRad(reflon)}

	if stdpar1 == stdpar2 {
		lcc.n = math.Sin(phi1)
	} else {
		lcc.n = math.Log(math.Cos(phi1)*sec(phi2)) /
			math.Log(math.Tan(math.Pi/4.0+phi2/2.0)*cot(math.Pi/4.0+phi1/2.0))
	}
	lcc.f = (math.Cos(phi1) * math.Pow(cot(math.Pi/4.0+phi1/2.0), lcc.n)) / lcc.n
	lcc.rho0 = lcc.f * math.Pow(cot(math.Pi/4.0+phi0/2.0), lcc.n)

	return lcc
}

// Project maps a geodetic position through the LCC projection.
func (lcc LCC) Project(pos Geo2) Vec2 {
	lat := DegToRad(pos.Lat)
	lon := DegToRad(pos.Lon)

	rho := lcc.f * math.Pow(cot(math.Pi/4+lat/2), lcc.n)
	return Vec2{
		X: rho * math.Sin(lon-lcc.reflon),
		Y: lcc.rho0 - rho*math.Cos(lcc.n*(lat-lcc.reflat)),
	}
}
