// geo/types.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package geo is the geodesy kernel: vector algebra over WGS-84, flat-plane
// projections, great-circle distance, and the circle/line intersection
// primitives the route model and trajectory builder are built on.
package geo

import "math"

// Geo2 is a geographic position: latitude and longitude in degrees.
type Geo2 struct {
	Lat, Lon float64
}

// Geo3 is a geographic position with an elevation in feet.
type Geo3 struct {
	Lat, Lon, Elev float64
}

// Vec2 is a 2-D Cartesian vector, typically on a flat-plane projection.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3-D Cartesian vector, typically ECEF meters.
type Vec3 struct {
	X, Y, Z float64
}

// NullGeo2, NullGeo3, NullVec2, NullVec3 are the "absent" sentinels: a NaN
// latitude/X component. Every intersection routine in this package returns
// one of these instead of raising when there is no geometric solution.
var (
	NullGeo2 = Geo2{math.NaN(), math.NaN()}
	NullGeo3 = Geo3{math.NaN(), math.NaN(), math.NaN()}
	NullVec2 = Vec2{math.NaN(), math.NaN()}
	NullVec3 = Vec3{math.NaN(), math.NaN(), math.NaN()}
)

func (p Geo2) IsNull() bool { return math.IsNaN(p.Lat) }
func (p Geo3) IsNull() bool { return math.IsNaN(p.Lat) }
func (v Vec2) IsNull() bool { return math.IsNaN(v.X) }
func (v Vec3) IsNull() bool { return math.IsNaN(v.X) }

func (p Geo3) To2() Geo2          { return Geo2{p.Lat, p.Lon} }
func (p Geo2) To3(elev float64) Geo3 { return Geo3{p.Lat, p.Lon, elev} }

// Eq reports whether two geographic positions are bit-identical. Route
// model equality checks (e.g. leg-group reconnection) compare waypoints
// this way, not with a distance tolerance: navigation databases share
// fixes exactly, so connected legs carry identical coordinates.
func (p Geo2) Eq(o Geo2) bool { return p.Lat == o.Lat && p.Lon == o.Lon }

const (
	radPerDeg = math.Pi / 180
	degPerRad = 180 / math.Pi
)

func DegToRad(d float64) float64 { return d * radPerDeg }
func RadToDeg(r float64) float64 { return r * degPerRad }

// EarthMSL is the mean sea-level spherical Earth radius in meters, used by
// the flat-plane projections (which treat the Earth as a sphere; only the
// ECEF conversions use the full WGS-84 ellipsoid).
const EarthMSL = 6371000.0

const nm2m = 1852.0

func NMToMeters(nm float64) float64 { return nm * nm2m }
func MetersToNM(m float64) float64  { return m / nm2m }

const ktToMps = 1852.0 / 3600.0

// KtToMPS converts knots (nautical miles per hour) to meters per second.
func KtToMPS(kt float64) float64 { return kt * ktToMps }

// MPSToKt is the inverse of KtToMPS.
func MPSToKt(mps float64) float64 { return mps / ktToMps }

const ft2m = 0.3048

// FeetToMeters converts feet (Geo3.Elev's unit) to meters.
func FeetToMeters(ft float64) float64 { return ft * ft2m }

// MetersToFeet is the inverse of FeetToMeters.
func MetersToFeet(m float64) float64 { return m / ft2m }
