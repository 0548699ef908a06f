// route/join_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"math"
	"testing"

	"github.com/openfms/fmc-core/geo"
)

// TestJoinSegsInsertsStandardRateArc: two Direct
// legs meeting at a point B with roughly a 90 degree course change at 250kt
// ground speed and 2NM RNP get a single standard-rate-turn arc spliced
// between them, sized by StandardTurnRadius(250).
func TestJoinSegsInsertsStandardRateArc(t *testing.T) {
	b := geo.Geo2{Lat: 40.0, Lon: -80.0}
	a := geo.GeoDisplace(b, 270, 50_000) // west of B, inbound heading 090
	c := geo.GeoDisplace(b, 180, 50_000) // south of B, outbound heading 180 (right turn)

	raw := []Seg{
		{Kind: SegDirect, Start: a, End: b, LegIdx: 0},
		{Kind: SegDirect, Start: b, End: c, LegIdx: 1},
	}
	params := []JoinParams{{GSKt: 250, RNPNM: 2}}

	out := JoinSegs(raw, params)

	var arcs []Seg
	for _, s := range out {
		if s.Kind == SegArc {
			arcs = append(arcs, s)
		}
	}
	if len(arcs) != 1 {
		t.Fatalf("JoinSegs produced %d arcs, want 1: %+v", len(arcs), out)
	}
	arc := arcs[0]
	if !arc.CW {
		t.Errorf("arc.CW = false, want true for a right turn from 090 to 180")
	}

	wantR := StandardTurnRadius(250)
	if gotR := arc.Radius(); math.Abs(gotR-wantR) > wantR*0.05 {
		t.Errorf("arc radius = %.1fm, want ~%.1fm (StandardTurnRadius(250))", gotR, wantR)
	}
	// Scenario 5 expects a radius of roughly 2454m at 250kt.
	if math.Abs(wantR-2454) > 50 {
		t.Errorf("StandardTurnRadius(250) = %.1f, want ~2454", wantR)
	}

	if len(out) != 3 {
		t.Fatalf("JoinSegs output = %+v, want 3 segments (shortened Direct, Arc, shortened Direct)", out)
	}
	if out[0].Kind != SegDirect || out[2].Kind != SegDirect {
		t.Fatalf("JoinSegs output kinds = %v/%v/%v, want Direct/Arc/Direct", out[0].Kind, out[1].Kind, out[2].Kind)
	}
}

// TestJoinSegsLeavesNegligibleCourseChangeAlone exercises the early-out in
// joinToDirect: when two consecutive Direct legs already run nearly
// collinear, no arc is inserted and the segments pass through unmodified.
func TestJoinSegsLeavesNegligibleCourseChangeAlone(t *testing.T) {
	a := geo.Geo2{Lat: 40.0, Lon: -80.0}
	b := geo.GeoDisplace(a, 90, 50_000)
	c := geo.GeoDisplace(b, 90, 50_000)

	raw := []Seg{
		{Kind: SegDirect, Start: a, End: b, LegIdx: 0},
		{Kind: SegDirect, Start: b, End: c, LegIdx: 1},
	}
	params := []JoinParams{{GSKt: 250, RNPNM: 2}}

	out := JoinSegs(raw, params)
	if len(out) != len(raw) {
		t.Fatalf("JoinSegs on collinear legs = %+v, want unchanged %d-segment passthrough", out, len(raw))
	}
	for _, s := range out {
		if s.Kind == SegArc {
			t.Fatalf("unexpected arc inserted between collinear legs: %+v", out)
		}
	}
}

// TestJoinSegsEmptyParamsDisablesJoining confirms that passing zero params
// (single-segment or joining-disabled routes) leaves every raw segment
// untouched.
func TestJoinSegsEmptyParamsDisablesJoining(t *testing.T) {
	a := geo.Geo2{Lat: 40.0, Lon: -80.0}
	b := geo.GeoDisplace(a, 90, 50_000)
	raw := []Seg{{Kind: SegDirect, Start: a, End: b, LegIdx: 0}}

	out := JoinSegs(raw, nil)
	if len(out) != 1 || out[0].Kind != SegDirect {
		t.Fatalf("JoinSegs(single seg, nil params) = %+v", out)
	}
}
