// route/expand.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"github.com/openfms/fmc-core/geo"
	"github.com/openfms/fmc-core/navdb"
)

// firstStartPos seeds the running position the leg expander begins from:
// the departure runway threshold takes priority over the departure
// airport's reference point, which in turn takes priority over the first
// leg group with a concrete start fix.
func (r *Route) firstStartPos() geo.Geo2 {
	if r.DepRwy != nil {
		return r.DepRwy.ThrPos.To2()
	}
	if r.Dep != nil {
		return r.Dep.RefPt.To2()
	}
	for _, g := range r.LegGroups {
		if f := g.StartFix(); !f.IsNull() {
			return f.Pos
		}
	}
	return geo.NullGeo2
}

// ExpandSegs rebuilds Segs from Legs: it walks the leg list in
// order, carrying a running position that is nulled by a Disco leg, and
// emits one RouteSeg per leg that can produce one. Legs
// that cannot produce a concrete lateral path from a null running position,
// or whose leg kind has no defined lateral geometry (altitude-terminated
// and manually-terminated kinds), are skipped: the resulting Segs slice is
// shorter than Legs whenever that happens.
func (r *Route) ExpandSegs() {
	segs := make([]Seg, 0, len(r.Legs))
	cur := r.firstStartPos()

	for i, leg := range r.Legs {
		if leg.Disco {
			cur = geo.NullGeo2
			continue
		}
		if cur.IsNull() {
			// A leg immediately following a Disco (or an unseedable
			// route) still advances cur to its own end fix when it has
			// one, so the leg after it isn't stranded too.
			if end := leg.EndWpt(); !end.IsNull() {
				cur = end.Pos
			}
			continue
		}

		seg, next, ok := r.legSeg(cur, leg, i)
		if ok {
			seg.LegIdx = i
			segs = append(segs, seg)
			cur = next
		} else if end := leg.EndWpt(); !end.IsNull() {
			// No lateral geometry (e.g. an altitude-terminated leg), but
			// the leg still has a concrete end fix to resume from.
			cur = end.Pos
		} else {
			cur = geo.NullGeo2
		}
	}

	r.Segs = segs
	r.segsDirty = false
}

// legSeg computes the RouteSeg for a single leg given the current running
// position, and the new running position to carry forward.
func (r *Route) legSeg(cur geo.Geo2, leg *Leg, idx int) (Seg, geo.Geo2, bool) {
	s := leg.Seg
	switch s.Type {
	case navdb.SegAF:
		return r.arcToFixSeg(cur, s)
	case navdb.SegRF:
		return r.radiusArcSeg(cur, s)

	case navdb.SegCF, navdb.SegDF, navdb.SegTF, navdb.SegIF:
		// Direct to a definite fix.
		if s.TermFix == nil && s.InitFix == nil {
			return Seg{}, geo.NullGeo2, false
		}
		end := s.EndWpt()
		if end.IsNull() {
			return Seg{}, geo.NullGeo2, false
		}
		return Seg{Kind: SegDirect, Start: cur, End: end.Pos}, end.Pos, true

	case navdb.SegHA, navdb.SegHF, navdb.SegHM:
		// Hold legs always return to the fix they're flown over, so all
		// three resolve to a direct segment to the hold fix -- HA's
		// altitude terminator included; the racetrack itself is flown
		// outside the lateral trajectory.
		if s.HoldCmd == nil {
			return Seg{}, geo.NullGeo2, false
		}
		end := s.HoldCmd.Wpt
		return Seg{Kind: SegDirect, Start: cur, End: end.Pos}, end.Pos, true

	case navdb.SegPI:
		if s.ProcTurnCmd == nil || s.ProcTurnCmd.StartWpt.IsNull() {
			return Seg{}, geo.NullGeo2, false
		}
		end := s.ProcTurnCmd.StartWpt
		return Seg{Kind: SegDirect, Start: cur, End: end.Pos}, end.Pos, true

	case navdb.SegCD, navdb.SegVD:
		return r.distToNavaidSeg(cur, s)
	case navdb.SegFC:
		return r.fixDistSeg(cur, s)
	case navdb.SegFD:
		return r.fixDMESeg(cur, s)

	case navdb.SegCR, navdb.SegVR:
		return r.radialSeg(cur, s)

	case navdb.SegCI, navdb.SegVI:
		return r.interceptSeg(cur, s, idx)

	case navdb.SegCA, navdb.SegVA, navdb.SegFA:
		// Altitude-terminated legs have no lateral geometry here: the
		// climb/descent endpoint depends on a vertical-profile estimate,
		// and these segments are flown in altitude-capture mode instead.
		return Seg{}, geo.NullGeo2, false

	case navdb.SegFM, navdb.SegVM:
		// Manually terminated: no geometry until the pilot intervenes.
		return Seg{}, geo.NullGeo2, false

	default:
		return Seg{}, geo.NullGeo2, false
	}
}

func (r *Route) magToTrue(hdg float64, pos geo.Geo2) float64 {
	if r.wmm == nil {
		return hdg
	}
	return r.wmm.Mag2True(hdg, pos.To3(0))
}

// arcToFixSeg handles AF (DME arc to fix): the arc is centered on the
// commanded navaid with a fixed radius, running from the current radial to
// the leg's terminating fix.
func (r *Route) arcToFixSeg(cur geo.Geo2, s navdb.NavProcSeg) (Seg, geo.Geo2, bool) {
	if s.DMEArcCmd == nil || s.TermFix == nil {
		return Seg{}, geo.NullGeo2, false
	}
	end := s.TermFix.Fix
	if end.IsNull() {
		return Seg{}, geo.NullGeo2, false
	}
	center := s.DMEArcCmd.Navaid.Pos
	return Seg{
		Kind:   SegArc,
		Start:  cur,
		End:    end.Pos,
		Center: center,
		CW:     s.DMEArcCmd.CW,
	}, end.Pos, true
}

// radiusArcSeg handles RF (constant-radius arc to fix): the arc is centered
// on the leg's own commanded center waypoint.
func (r *Route) radiusArcSeg(cur geo.Geo2, s navdb.NavProcSeg) (Seg, geo.Geo2, bool) {
	if s.RadiusArcCmd == nil || s.TermFix == nil {
		return Seg{}, geo.NullGeo2, false
	}
	end := s.TermFix.Fix
	if end.IsNull() {
		return Seg{}, geo.NullGeo2, false
	}
	return Seg{
		Kind:   SegArc,
		Start:  cur,
		End:    end.Pos,
		Center: s.RadiusArcCmd.CtrWpt.Pos,
		CW:     s.RadiusArcCmd.CW,
	}, end.Pos, true
}

// findBestCircIsect intersects the line through cur along true heading hdg
// with the circle of radius dist (meters) centered on ctr, on a gnomonic
// plane centered at the geodetic midpoint of cur and ctr, and picks the
// solution ahead of cur in the direction of travel that is closest to it.
func findBestCircIsect(cur geo.Geo2, hdg float64, ctr geo.Geo2, distM float64) geo.Geo2 {
	mid := geo.GeoMidpoint(cur, ctr)
	fpp := geo.NewGnomonicProj(mid, 0, &geo.WGS84, true)

	o := fpp.Project(cur)
	c := fpp.Project(ctr)
	if o.IsNull() || c.IsNull() {
		return geo.NullGeo2
	}
	dir := geo.HdgToDir(hdg)

	var isect [2]geo.Vec2
	n := geo.Vec2CircIsect(dir, o, c, distM, false, &isect)
	if n == 0 {
		return geo.NullGeo2
	}

	best := geo.NullVec2
	bestDist := 0.0
	for k := 0; k < n; k++ {
		if isect[k].IsNull() {
			continue
		}
		// Candidate must lie ahead of o along dir, not behind it.
		if geo.Vec2Dot(geo.Vec2Sub(isect[k], o), dir) <= 0 {
			continue
		}
		d := geo.Vec2Dist(o, isect[k])
		if best.IsNull() || d < bestDist {
			best, bestDist = isect[k], d
		}
	}
	if best.IsNull() {
		return geo.NullGeo2
	}
	return fpp.Unproject(best)
}

// distToNavaidSeg handles CD/VD (course/heading to DME distance): travel
// along the commanded track until at the commanded slant range from the
// terminating navaid.
func (r *Route) distToNavaidSeg(cur geo.Geo2, s navdb.NavProcSeg) (Seg, geo.Geo2, bool) {
	if s.TermDME == nil {
		return Seg{}, geo.NullGeo2, false
	}
	hdg, ok := r.cmdTrueHdg(cur, s)
	if !ok {
		return Seg{}, geo.NullGeo2, false
	}
	end := findBestCircIsect(cur, hdg, s.TermDME.Navaid.Pos, geo.NMToMeters(s.TermDME.DistNM))
	if end.IsNull() {
		return Seg{}, geo.NullGeo2, false
	}
	return Seg{Kind: SegDirect, Start: cur, End: end}, end, true
}

// fixDistSeg handles FC (fix to distance): displace the fix's own course
// by the commanded distance -- a degenerate circle-intersection centered
// on the fix itself.
func (r *Route) fixDistSeg(cur geo.Geo2, s navdb.NavProcSeg) (Seg, geo.Geo2, bool) {
	if s.FixCrsCmd == nil || s.TermDist == nil {
		return Seg{}, geo.NullGeo2, false
	}
	trueHdg := r.magToTrue(s.FixCrsCmd.Crs, cur)
	end := geo.GeoDisplace(cur, trueHdg, geo.NMToMeters(s.TermDist.DistNM))
	if end.IsNull() {
		return Seg{}, geo.NullGeo2, false
	}
	return Seg{Kind: SegDirect, Start: cur, End: end}, end, true
}

// fixDMESeg handles FD (fix to DME distance): travel the fix's own
// commanded course until at the commanded slant range from a navaid.
func (r *Route) fixDMESeg(cur geo.Geo2, s navdb.NavProcSeg) (Seg, geo.Geo2, bool) {
	if s.FixCrsCmd == nil || s.TermDME == nil {
		return Seg{}, geo.NullGeo2, false
	}
	trueHdg := r.magToTrue(s.FixCrsCmd.Crs, cur)
	end := findBestCircIsect(cur, trueHdg, s.TermDME.Navaid.Pos, geo.NMToMeters(s.TermDME.DistNM))
	if end.IsNull() {
		return Seg{}, geo.NullGeo2, false
	}
	return Seg{Kind: SegDirect, Start: cur, End: end}, end, true
}

// radialSeg handles CR/VR (course/heading to radial): intersect the
// commanded outbound track with the terminating navaid's radial, both
// resolved to true heading and intersected on a gnomonic plane centered at
// their geodetic midpoint.
func (r *Route) radialSeg(cur geo.Geo2, s navdb.NavProcSeg) (Seg, geo.Geo2, bool) {
	if s.TermRadial == nil {
		return Seg{}, geo.NullGeo2, false
	}
	hdg, ok := r.cmdTrueHdg(cur, s)
	if !ok {
		return Seg{}, geo.NullGeo2, false
	}
	navPos := s.TermRadial.Navaid.Pos
	radTrue := r.magToTrue(s.TermRadial.Radial, navPos)

	mid := geo.GeoMidpoint(cur, navPos)
	fpp := geo.NewGnomonicProj(mid, 0, &geo.WGS84, true)
	o1 := fpp.Project(cur)
	o2 := fpp.Project(navPos)
	if o1.IsNull() || o2.IsNull() {
		return Seg{}, geo.NullGeo2, false
	}

	isect := geo.Vec2VectIsect(geo.HdgToDir(hdg), o1, geo.HdgToDir(radTrue), o2, false)
	if isect.IsNull() {
		return Seg{}, geo.NullGeo2, false
	}
	end := fpp.Unproject(isect)
	if end.IsNull() {
		return Seg{}, geo.NullGeo2, false
	}
	return Seg{Kind: SegDirect, Start: cur, End: end}, end, true
}

// interceptSeg handles CI/VI (course/heading to intercept): the leg has no
// terminator of its own, so its end point is wherever it meets the
// geometry of the *next* leg.
func (r *Route) interceptSeg(cur geo.Geo2, s navdb.NavProcSeg, idx int) (Seg, geo.Geo2, bool) {
	hdg, ok := r.cmdTrueHdg(cur, s)
	if !ok {
		return Seg{}, geo.NullGeo2, false
	}
	if idx+1 >= len(r.Legs) {
		return Seg{}, geo.NullGeo2, false
	}
	next := r.Legs[idx+1]
	if next.Disco {
		return Seg{}, geo.NullGeo2, false
	}

	target, targetIsFix := interceptTarget(next.Seg)
	if target.IsNull() {
		return Seg{}, geo.NullGeo2, false
	}

	if targetIsFix {
		// Intercept a straight inbound track to a definite fix: line
		// through cur along hdg meets the line through target along the
		// reverse of the next leg's own commanded course (approximated
		// here as the bearing from cur to target's own start, falling
		// back to a direct displacement when no track is known).
		mid := geo.GeoMidpoint(cur, target)
		fpp := geo.NewGnomonicProj(mid, 0, &geo.WGS84, true)
		o1 := fpp.Project(cur)
		o2 := fpp.Project(target)
		if o1.IsNull() || o2.IsNull() {
			return Seg{}, geo.NullGeo2, false
		}
		nextHdg, ok := r.cmdTrueHdg(target, next.Seg)
		if !ok {
			end := geo.GeoDisplace(cur, hdg, geo.GreatCircleDistance(cur, target))
			return Seg{Kind: SegDirect, Start: cur, End: end}, end, true
		}
		isect := geo.Vec2VectIsect(geo.HdgToDir(hdg), o1, geo.HdgToDir(geo.NormalizeHdg(nextHdg+180)), o2, false)
		if isect.IsNull() {
			return Seg{}, geo.NullGeo2, false
		}
		end := fpp.Unproject(isect)
		if end.IsNull() {
			return Seg{}, geo.NullGeo2, false
		}
		return Seg{Kind: SegDirect, Start: cur, End: end}, end, true
	}

	// Target is a radial/track from a navaid: intersect our outbound
	// track with it directly (same construction as radialSeg).
	mid := geo.GeoMidpoint(cur, target)
	fpp := geo.NewGnomonicProj(mid, 0, &geo.WGS84, true)
	o1 := fpp.Project(cur)
	o2 := fpp.Project(target)
	if o1.IsNull() || o2.IsNull() {
		return Seg{}, geo.NullGeo2, false
	}
	nextHdg, ok := r.cmdTrueHdg(target, next.Seg)
	if !ok {
		return Seg{}, geo.NullGeo2, false
	}
	isect := geo.Vec2VectIsect(geo.HdgToDir(hdg), o1, geo.HdgToDir(nextHdg), o2, false)
	if isect.IsNull() {
		return Seg{}, geo.NullGeo2, false
	}
	end := fpp.Unproject(isect)
	if end.IsNull() {
		return Seg{}, geo.NullGeo2, false
	}
	return Seg{Kind: SegDirect, Start: cur, End: end}, end, true
}

// interceptTarget returns a reference position for the leg an intercept
// leg is joining onto, and whether that reference is the leg's own
// definite end fix (true) or a navaid the leg's course is referenced to
// (false).
func interceptTarget(s navdb.NavProcSeg) (geo.Geo2, bool) {
	if end := s.EndWpt(); !end.IsNull() {
		return end.Pos, true
	}
	if s.TermRadial != nil && !s.TermRadial.Navaid.IsNull() {
		return s.TermRadial.Navaid.Pos, false
	}
	if s.TermDME != nil && !s.TermDME.Navaid.IsNull() {
		return s.TermDME.Navaid.Pos, false
	}
	if s.NavaidCrsCmd != nil && !s.NavaidCrsCmd.Navaid.IsNull() {
		return s.NavaidCrsCmd.Navaid.Pos, false
	}
	return geo.NullGeo2, false
}

// cmdTrueHdg resolves a leg's own commanded track to a true heading at pos,
// for the leg kinds whose command is a heading or a navaid-referenced
// course.
func (r *Route) cmdTrueHdg(pos geo.Geo2, s navdb.NavProcSeg) (float64, bool) {
	switch s.Type {
	case navdb.SegCA, navdb.SegCD, navdb.SegCI, navdb.SegCR, navdb.SegVA, navdb.SegVD, navdb.SegVI, navdb.SegVM, navdb.SegVR:
		if s.HdgCmd == nil {
			return 0, false
		}
		return r.magToTrue(s.HdgCmd.Hdg, pos), true
	case navdb.SegCF:
		if s.NavaidCrsCmd == nil {
			return 0, false
		}
		return r.magToTrue(s.NavaidCrsCmd.Crs, pos), true
	case navdb.SegFA, navdb.SegFC, navdb.SegFD, navdb.SegFM:
		if s.FixCrsCmd == nil {
			return 0, false
		}
		return r.magToTrue(s.FixCrsCmd.Crs, pos), true
	default:
		return 0, false
	}
}
