// route/geojson.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/openfms/fmc-core/geo"
)

// arcSegments is how many straight chords approximate one joined Seg of
// kind SegArc when exporting to GeoJSON: a LineString has no native arc
// primitive.
const arcSegments = 24

// GeoJSON renders the route's current trajectory (r.Segs, already joined
// if BuildTrajectory has run) as an orb/geojson FeatureCollection: one
// LineString feature per Seg, each carrying its leg index and kind as
// properties, for the cockpit moving-map/diagnostic exporters in
// cmd/fmc-core.
func (r *Route) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, s := range r.Segs {
		var ls orb.LineString
		switch s.Kind {
		case SegArc:
			ls = flattenArc(s)
		default:
			ls = orb.LineString{toOrbPoint(s.Start), toOrbPoint(s.End)}
		}
		f := geojson.NewFeature(ls)
		f.Properties["seg_index"] = i
		f.Properties["leg_index"] = s.LegIdx
		kind := "direct"
		if s.Kind == SegArc {
			kind = "arc"
		}
		f.Properties["kind"] = kind
		fc.Append(f)
	}
	return fc
}

func toOrbPoint(p geo.Geo2) orb.Point { return orb.Point{p.Lon, p.Lat} }

// flattenArc walks from s.Start to s.End around s.Center in s.CW direction,
// emitting arcSegments+1 vertices at a constant angular step (the same
// "radius and included angle" view of an arc segment that Seg.Radius and
// the joiner's own arc constructions use).
func flattenArc(s Seg) orb.LineString {
	r := s.Radius()
	a0 := bearingFromCenter(s.Center, s.Start)
	a1 := bearingFromCenter(s.Center, s.End)

	sweep := a1 - a0
	if s.CW {
		for sweep < 0 {
			sweep += 2 * math.Pi
		}
	} else {
		for sweep > 0 {
			sweep -= 2 * math.Pi
		}
	}

	ls := make(orb.LineString, 0, arcSegments+1)
	for i := 0; i <= arcSegments; i++ {
		t := float64(i) / float64(arcSegments)
		a := a0 + t*sweep
		ls = append(ls, toOrbPoint(geo.GeoDisplace(s.Center, geo.RadToDeg(a), r)))
	}
	return ls
}

// bearingFromCenter returns the true bearing in radians from center to p,
// measured clockwise from north (matching geo.GeoDisplace's hdg argument).
func bearingFromCenter(center, p geo.Geo2) float64 {
	if geo.GreatCircleDistance(center, p) == 0 {
		return 0
	}
	lat1, lon1 := geo.DegToRad(center.Lat), geo.DegToRad(center.Lon)
	lat2, lon2 := geo.DegToRad(p.Lat), geo.DegToRad(p.Lon)
	y := math.Sin(lon2-lon1) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1)
	brg := math.Atan2(y, x)
	if brg < 0 {
		brg += 2 * math.Pi
	}
	return brg
}
