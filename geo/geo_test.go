// geo/geo_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import (
	"math"
	"testing"
)

func approxEq(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestECEFRoundTrip(t *testing.T) {
	cases := []Geo3{
		{Lat: 0, Lon: 0, Elev: 0},
		{Lat: 51.5, Lon: -0.1, Elev: 500},
		{Lat: -33.9, Lon: 151.2, Elev: 35000},
		{Lat: 89.9, Lon: 10, Elev: 0},
		{Lat: -89.9, Lon: -170, Elev: 1000},
	}
	for _, c := range cases {
		v := GeoToECEF(c, WGS84)
		back := ECEFToGeo(v, WGS84)
		if !approxEq(c.Lat, back.Lat, 1e-6) || !approxEq(c.Lon, back.Lon, 1e-6) {
			t.Errorf("round trip %+v -> %+v -> %+v", c, v, back)
		}
	}
}

func TestSphRoundTrip(t *testing.T) {
	cases := []Geo2{
		{Lat: 40, Lon: -74},
		{Lat: 0, Lon: 0},
		{Lat: -12, Lon: 170},
	}
	for _, c := range cases {
		v := SphToECEF(c.To3(0))
		back := ECEFToSph(v)
		if !approxEq(c.Lat, back.Lat, 1e-6) || !approxEq(c.Lon, back.Lon, 1e-6) {
			t.Errorf("sph round trip %+v -> %+v", c, back)
		}
	}
}

func TestGreatCircleDistanceZero(t *testing.T) {
	p := Geo2{Lat: 48.8, Lon: 2.3}
	if d := GreatCircleDistance(p, p); !approxEq(d, 0, 1e-6) {
		t.Errorf("distance to self = %v, want 0", d)
	}
}

func TestGreatCircleDistanceKnown(t *testing.T) {
	// Roughly 1 degree of latitude along a meridian is ~111.2km.
	a := Geo2{Lat: 0, Lon: 0}
	b := Geo2{Lat: 1, Lon: 0}
	d := GreatCircleDistance(a, b)
	if d < 110000 || d > 112500 {
		t.Errorf("distance = %v, want ~111200m", d)
	}
}

func TestGeoDisplaceRoundTrip(t *testing.T) {
	from := Geo2{Lat: 45, Lon: -93}
	for _, hdg := range []float64{10, 90, 180, 270, 359} {
		for _, dist := range []float64{1000, 50000, 500000} {
			to := GeoDisplace(from, hdg, dist)
			if to.IsNull() {
				t.Fatalf("displace(%v, %v) returned null", hdg, dist)
			}
			got := GreatCircleDistance(from, to)
			if !approxEq(got, dist, dist*0.01+1) {
				t.Errorf("displace(%v,%v,%v): round-trip distance %v", from, hdg, dist, got)
			}
		}
	}
}

func TestGeoDisplaceAntipodalFails(t *testing.T) {
	from := Geo2{Lat: 0, Lon: 0}
	to := GeoDisplace(from, 90, math.Pi*EarthMSL/2+1000)
	if !to.IsNull() {
		t.Errorf("expected null sentinel beyond antipodal limit, got %+v", to)
	}
}

func TestFlatPlaneProjGnomonicRoundTrip(t *testing.T) {
	center := Geo2{Lat: 47.45, Lon: -122.3}
	fpp := NewGnomonicProj(center, 0, &WGS84, true)

	pts := []Geo2{
		{Lat: 47.5, Lon: -122.0},
		{Lat: 47.0, Lon: -122.9},
		{Lat: 48.0, Lon: -121.5},
	}
	for _, p := range pts {
		proj := fpp.Project(p)
		if proj.IsNull() {
			t.Fatalf("project(%+v) returned null", p)
		}
		back := fpp.Unproject(proj)
		if back.IsNull() {
			t.Fatalf("unproject(%+v) returned null", proj)
		}
		if d := GreatCircleDistance(p, back); d > 5 {
			t.Errorf("fpp round trip for %+v off by %v meters", p, d)
		}
	}
}

func TestFlatPlaneProjOrthoCenterIsOrigin(t *testing.T) {
	center := Geo2{Lat: 10, Lon: 20}
	fpp := NewOrthoProj(center, 0, nil, false)
	p := fpp.Project(center)
	if !approxEq(p.X, 0, 1e-6) || !approxEq(p.Y, 0, 1e-6) {
		t.Errorf("ortho projection of center = %+v, want origin", p)
	}
}

func TestVec2VectIsectPerpendicular(t *testing.T) {
	a := Vec2{1, 0}
	b := Vec2{0, 1}
	r := Vec2VectIsect(a, Vec2{0, 0}, b, Vec2{5, -5}, false)
	if r.IsNull() {
		t.Fatal("expected an intersection")
	}
	if !approxEq(r.X, 5, 1e-9) || !approxEq(r.Y, 0, 1e-9) {
		t.Errorf("intersection = %+v, want (5,0)", r)
	}
}

func TestVec2VectIsectParallel(t *testing.T) {
	a := Vec2{1, 0}
	b := Vec2{2, 0}
	r := Vec2VectIsect(a, Vec2{0, 0}, b, Vec2{0, 5}, false)
	if !r.IsNull() {
		t.Errorf("expected null for parallel vectors, got %+v", r)
	}
}

func TestCirc2CircIsectTangent(t *testing.T) {
	var i [2]Vec2
	n := Circ2CircIsect(Vec2{0, 0}, 5, Vec2{10, 0}, 5, &i)
	if n != 1 {
		t.Fatalf("expected 1 tangent intersection, got %d", n)
	}
	if !approxEq(i[0].X, 5, 1e-9) || !approxEq(i[0].Y, 0, 1e-9) {
		t.Errorf("tangent point = %+v, want (5,0)", i[0])
	}
}

func TestCirc2CircIsectTwoPoints(t *testing.T) {
	var i [2]Vec2
	n := Circ2CircIsect(Vec2{0, 0}, 5, Vec2{6, 0}, 5, &i)
	if n != 2 {
		t.Fatalf("expected 2 intersections, got %d", n)
	}
	for _, p := range i {
		d0 := Vec2Dist(p, Vec2{0, 0})
		d1 := Vec2Dist(p, Vec2{6, 0})
		if !approxEq(d0, 5, 1e-6) || !approxEq(d1, 5, 1e-6) {
			t.Errorf("intersection %+v not on both circles", p)
		}
	}
}

func TestCirc2CircIsectNoSolution(t *testing.T) {
	var i [2]Vec2
	n := Circ2CircIsect(Vec2{0, 0}, 1, Vec2{10, 0}, 1, &i)
	if n != 0 {
		t.Errorf("expected no intersection, got %d", n)
	}
}

func TestHdgDirRoundTrip(t *testing.T) {
	for _, h := range []float64{1, 45, 90, 179.999, 180, 270, 360} {
		d := HdgToDir(h)
		back := DirToHdg(d)
		if !approxEq(h, back, 1e-6) {
			t.Errorf("hdg round trip %v -> %v -> %v", h, d, back)
		}
	}
}

func TestRelHdgRange(t *testing.T) {
	cases := []struct{ from, to, want float64 }{
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, 180},
		{180, 0, 180},
	}
	for _, c := range cases {
		got := RelHdg(c.from, c.to)
		if !approxEq(got, c.want, 1e-9) {
			t.Errorf("RelHdg(%v,%v) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestQuadBezierFuncFlatBeyondDomain(t *testing.T) {
	f := NewQuadBezierFunc([]Vec2{{0, 1}, {5, 2}, {10, 1}})
	if f.Eval(-5) != 1 {
		t.Errorf("below domain should clamp to first Y")
	}
	if f.Eval(15) != 1 {
		t.Errorf("above domain should clamp to last Y")
	}
}

func TestQuadBezierFuncEndpoints(t *testing.T) {
	f := NewQuadBezierFunc([]Vec2{{0, 10}, {5, 20}, {10, 30}})
	if !approxEq(f.Eval(0), 10, 1e-9) {
		t.Errorf("f(0) = %v, want 10", f.Eval(0))
	}
	if !approxEq(f.Eval(10), 30, 1e-9) {
		t.Errorf("f(10) = %v, want 30", f.Eval(10))
	}
}
