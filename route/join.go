// route/join.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"math"

	"github.com/openfms/fmc-core/geo"
)

// Standard-rate-turn joiner constants.
const (
	// DefaultRNPNM and DefaultGSKt are the package defaults a leg's own
	// RNPNM/GSKt fields override.
	DefaultRNPNM = 2.0
	DefaultGSKt  = 250.0

	arcJoinThresholdDeg  = 1.0
	stdRateTurnDegPerSec = 3.0
	stdInterceptAngleDeg = 30.0
	intcpSearchDist      = 1e9
	vecEqEpsilon         = 1e-6
)

// StandardTurnRadius returns the radius, in meters, of a standard-rate
// (3 deg/s) turn flown at the given ground speed in knots.
func StandardTurnRadius(gsKt float64) float64 {
	return (360.0 / stdRateTurnDegPerSec) * geo.KtToMPS(gsKt) / (2 * math.Pi)
}

// JoinParams carries the per-join-point tuning the segment joiner consults
// at each internal transition: the ground speed used to size the
// standard-rate turn radius, the RNP budget a transition may deviate from
// the nominal fix by, and which reintercept style to fall back to when a
// single transition arc can't meet that budget.
type JoinParams struct {
	GSKt        float64
	RNPNM       float64
	TrackRejoin bool
}

func circIsect(v, o, c geo.Vec2, r float64, confined bool) (int, [2]geo.Vec2) {
	var vs [2]geo.Vec2
	n := geo.Vec2CircIsect(v, o, c, r, confined, &vs)
	return n, vs
}

func circCircIsect(ca geo.Vec2, ra float64, cb geo.Vec2, rb float64) (int, [2]geo.Vec2) {
	var vs [2]geo.Vec2
	n := geo.Circ2CircIsect(ca, ra, cb, rb, &vs)
	return n, vs
}

func approxEqVec2(a, b geo.Vec2) bool {
	return math.Abs(a.X-b.X) < vecEqEpsilon && math.Abs(a.Y-b.Y) < vecEqEpsilon
}

// isOnArcAngle reports whether angle x lies on the sweep from a1 to a2 in
// the rotational sense cw indicates, all in degrees (0,360].
func isOnArcAngle(x, a1, a2 float64, cw bool) bool {
	if !cw {
		a1, a2 = a2, a1
	}
	if a1 <= a2 {
		return x >= a1 && x <= a2
	}
	return x >= a1 || x <= a2
}

// pointIsOnArc reports whether p lies on the arc centered at c running from
// s to e in the direction cw indicates.
func pointIsOnArc(p, c, s, e geo.Vec2, cw bool) bool {
	hdgP := geo.DirToHdg(geo.Vec2Sub(p, c))
	hdgS := geo.DirToHdg(geo.Vec2Sub(s, c))
	hdgE := geo.DirToHdg(geo.Vec2Sub(e, c))
	return isOnArcAngle(hdgP, hdgS, hdgE, cw)
}

// JoinSegs inserts standard-rate-turn transition arcs between consecutive
// raw (pre-join) segments: at each internal join
// point it either leaves the two segments meeting directly (when the
// course change is negligible), fits a single tangent arc, or -- when a
// single arc can't thread the turn within the governing RNP -- falls back
// to a reintercept construction. params[i] governs the join between
// raw[i] and raw[i+1]; len(params) must be len(raw)-1 (or 0 to disable
// joining entirely, e.g. when called on a single-segment route).
func JoinSegs(raw []Seg, params []JoinParams) []Seg {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Seg, 0, len(raw))
	pending := raw[0]

	for i := 0; i+1 < len(raw); i++ {
		next := raw[i+1]
		if i >= len(params) {
			out = append(out, pending)
			pending = next
			continue
		}
		p := params[i]
		r := StandardTurnRadius(p.GSKt)
		rnp := geo.NMToMeters(p.RNPNM)

		mid, newPrevEnd, newNextStart, removePrev, ok := joinSegs(pending, next, r, rnp, p.TrackRejoin)
		if !ok {
			out = append(out, pending)
			pending = next
			continue
		}

		if !removePrev {
			pending.End = newPrevEnd
			out = append(out, pending)
		}
		for _, m := range mid {
			m.LegIdx = pending.LegIdx
			out = append(out, m)
		}
		next.Start = newNextStart
		pending = next
	}
	out = append(out, pending)

	return dropZeroLength(out)
}

func dropZeroLength(segs []Seg) []Seg {
	out := segs[:0:0]
	for _, s := range segs {
		if s.Kind == SegDirect && geo.GreatCircleDistance(s.Start, s.End) < 0.01 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// joinSegs dispatches a single internal join point to the direct or arc
// joiner depending on the outbound segment's kind.
func joinSegs(prev, next Seg, r, rnp float64, trackRejoin bool) (mid []Seg, newPrevEnd, newNextStart geo.Geo2, removePrev, ok bool) {
	switch next.Kind {
	case SegDirect:
		m, pe, ne, rp, _, o := joinToDirect(prev, next, r, rnp, trackRejoin)
		return m, pe, ne, rp, o
	case SegArc:
		return joinToArc(prev, next, r, rnp)
	default:
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}
}

// joinToDirect joins a preceding direct or arc segment onto a following
// direct segment: a negligible course change is left alone,
// a moderate one gets a single tangent arc, and a sharp or infeasible one
// falls back to a reintercept construction.
func joinToDirect(prev, next Seg, r, rnp float64, trackRejoin bool) (mid []Seg, newPrevEnd, newNextStart geo.Geo2, removePrev, consumeNext, ok bool) {
	fpp := geo.NewGnomonicProj(next.Start, 0, &geo.WGS84, true)
	p2 := fpp.Project(next.Start)
	p3 := fpp.Project(next.End)

	var p1, leg1Dir geo.Vec2
	if prev.Kind == SegDirect {
		p1 = fpp.Project(prev.Start)
		leg1Dir = geo.Vec2SetAbs(geo.Vec2Sub(p2, p1), 1)
	} else {
		p1 = fpp.Project(prev.Center)
		leg1Dir = geo.Vec2SetAbs(geo.Vec2Norm(geo.Vec2Sub(p2, p1), prev.CW), 1)
	}
	if p1.IsNull() || p2.IsNull() || p3.IsNull() {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
	}

	leg2 := geo.Vec2Sub(p3, p2)
	rhdg := geo.RelHdg(geo.DirToHdg(leg1Dir), geo.DirToHdg(leg2))
	if math.Abs(rhdg) < arcJoinThresholdDeg {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
	}
	cw := rhdg >= 0

	if math.Abs(rhdg) <= 180-arcJoinThresholdDeg {
		if m, pe, ne, rp, o := trySingleArcToDirect(fpp, prev, p1, p2, p3, leg1Dir, leg2, r, rnp, rhdg); o {
			return m, pe, ne, rp, false, true
		}
	}

	if trackRejoin {
		return joinDirTrackReintcp(fpp, prev, p1, p2, p3, r, rnp, rhdg, cw)
	}
	return joinDirDirectReintcp(fpp, prev, p1, p2, p3, r, rnp, cw)
}

// trySingleArcToDirect attempts the plain single tangent-arc join,
// before any reintercept fallback.
func trySingleArcToDirect(fpp geo.FlatPlaneProj, prev Seg, p1, p2, p3, leg1Dir, leg2 geo.Vec2, r, rnp, rhdg float64) (mid []Seg, newPrevEnd, newNextStart geo.Geo2, removePrev, ok bool) {
	right := rhdg >= 0
	dp2 := geo.Vec2SetAbs(geo.Vec2Norm(leg2, right), r)

	var c, i1 geo.Vec2
	if prev.Kind == SegDirect {
		leg1 := geo.Vec2Sub(p2, p1)
		dp1 := geo.Vec2SetAbs(geo.Vec2Norm(leg1Dir, right), r)
		c = geo.Vec2VectIsect(leg1, geo.Vec2Add(p1, dp1), leg2, geo.Vec2Add(p2, dp2), false)
		if c.IsNull() {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false
		}
		i1 = geo.Vec2VectIsect(dp1, c, leg1, p1, false)
		if i1.IsNull() {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false
		}
		if geo.Vec2Dist(p1, p2)-geo.Vec2Dist(i1, p2) <= 0 {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false
		}
	} else {
		outer := (prev.CW && rhdg < 0) || (!prev.CW && rhdg > 0)
		g := geo.Vec2Dist(p2, p1)
		if !outer && g <= r {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false
		}
		circR := g + r
		if !outer {
			circR = g - r
		}
		n, vs := circIsect(leg2, geo.Vec2Add(p2, dp2), p1, circR, false)
		if n == 0 {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false
		}
		if n == 2 && geo.Vec2Dist(vs[0], p2) > geo.Vec2Dist(vs[1], p2) {
			vs[0] = vs[1]
		}
		c = vs[0]
		n2, vs2 := circIsect(geo.Vec2SetAbs(geo.Vec2Sub(c, p1), intcpSearchDist), p1, p1, g, true)
		if n2 == 0 {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false
		}
		i1 = vs2[0]
		p0 := fpp.Project(prev.Start)
		if approxEqVec2(i1, p0) || !pointIsOnArc(i1, p1, p0, p2, prev.CW) {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false
		}
	}

	if geo.Vec2Dist(c, p2)-r > rnp {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}

	i2 := geo.Vec2VectIsect(dp2, c, leg2, p2, false)
	if i2.IsNull() {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}
	if geo.Vec2Dist(i2, p2) >= geo.Vec2Abs(leg2) {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}

	newPrevEnd = fpp.Unproject(i1)
	newNextStart = fpp.Unproject(i2)
	mid = []Seg{{Kind: SegArc, Start: newPrevEnd, End: newNextStart, Center: fpp.Unproject(c), CW: right}}
	return mid, newPrevEnd, newNextStart, false, true
}

// joinDirTrackReintcp reintercepts the outbound track when a single arc
// can't meet RNP: it tries a smooth three-
// segment arc-direct-arc construction first, then a sharper two-arc
// construction, retrying once at rnp=0 if even that isn't geometrically
// possible.
func joinDirTrackReintcp(fpp geo.FlatPlaneProj, prev Seg, p1, p2, p3 geo.Vec2, r, rnp, rhdg float64, cw bool) (mid []Seg, newPrevEnd, newNextStart geo.Geo2, removePrev, consumeNext, ok bool) {
	leg2 := geo.Vec2Sub(p3, p2)
	leg2Len := geo.Vec2Abs(leg2)

	p2cLen := rnp + r
	rad := p2cLen*p2cLen - r*r
	if rad < 0 {
		rad = 0
	}
	p2i1Len := math.Sqrt(rad)

	var i1, c1 geo.Vec2
	var rs1Remove bool

	if prev.Kind == SegDirect {
		leg1 := geo.Vec2Sub(p2, p1)
		leg1Len := geo.Vec2Abs(leg1)
		p1i1Len := leg1Len - p2i1Len
		if p1i1Len < 0 {
			p1i1Len = 0
			rs1Remove = true
		}
		i1 = geo.Vec2Add(p1, geo.Vec2SetAbs(leg1, p1i1Len))
		c1 = geo.Vec2Add(i1, geo.Vec2SetAbs(geo.Vec2Norm(leg1, cw), r))
	} else {
		outer := (prev.CW && rhdg < 0) || (!prev.CW && rhdg > 0)
		g := geo.Vec2Dist(p2, p1)
		if !outer && g < r {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
		}
		srchG := g + r
		if !outer {
			srchG = g - r
		}
		srchR := math.Min(srchG, r+rnp)
		n, vs := circCircIsect(p1, srchG, p2, srchR)
		if n == 0 {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
		}
		if n == 2 {
			rhdg1 := geo.RelHdg(geo.DirToHdg(geo.Vec2Sub(p2, p1)), geo.DirToHdg(geo.Vec2Sub(vs[0], p2)))
			if (prev.CW && rhdg1 <= 0) || (!prev.CW && rhdg1 >= 0) {
				c1 = vs[0]
			} else {
				c1 = vs[1]
			}
		} else {
			c1 = vs[0]
		}
		n2, vs2 := circIsect(geo.Vec2SetAbs(geo.Vec2Sub(c1, p1), intcpSearchDist), p1, p1, g, true)
		if n2 == 0 {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
		}
		i1 = vs2[0]
		p0 := fpp.Project(prev.Start)
		if approxEqVec2(i1, p0) || !pointIsOnArc(i1, p1, p0, p2, prev.CW) {
			i1 = p0
			rs1Remove = true
		}
	}

	rotDeg := stdInterceptAngleDeg - 90
	if !cw {
		rotDeg = 90 - stdInterceptAngleDeg
	}
	c1t := geo.Vec2SetAbs(geo.Vec2Rot(leg2, geo.DegToRad(rotDeg)), r)
	t := geo.Vec2Add(c1, c1t)
	smoothLen := math.Tan(geo.DegToRad(stdInterceptAngleDeg/2)) * r

	tI2Dir := geo.Vec2SetAbs(geo.Vec2Norm(c1t, cw), intcpSearchDist)
	i2 := geo.Vec2VectIsect(tI2Dir, t, leg2, p2, true)

	if !i2.IsNull() && geo.Vec2Dist(i2, t) > smoothLen && geo.Vec2Dist(i2, p2)+smoothLen+rnp < leg2Len {
		tI2 := geo.Vec2Sub(i2, t)
		i3 := geo.Vec2Add(t, geo.Vec2SetAbs(tI2, geo.Vec2Abs(tI2)-smoothLen))
		i4 := geo.Vec2Add(p2, geo.Vec2SetAbs(leg2, geo.Vec2Dist(i2, p2)+smoothLen))
		c3 := geo.Vec2Add(i4, geo.Vec2SetAbs(geo.Vec2Norm(leg2, !cw), r))

		mid = []Seg{
			{Kind: SegArc, Start: fpp.Unproject(i1), End: fpp.Unproject(t), Center: fpp.Unproject(c1), CW: cw},
			{Kind: SegDirect, Start: fpp.Unproject(t), End: fpp.Unproject(i3)},
			{Kind: SegArc, Start: fpp.Unproject(i3), End: fpp.Unproject(i4), Center: fpp.Unproject(c3), CW: !cw},
		}
		return mid, fpp.Unproject(i1), fpp.Unproject(i4), rs1Remove, false, true
	}

	// Smooth reintercept isn't possible within the leg's remaining length;
	// make the intercept as sharply as standard rate allows.
	p2m := geo.Vec2Add(p2, geo.Vec2SetAbs(geo.Vec2Norm(leg2, !cw), r))
	n, vs := circIsect(leg2, p2m, c1, 2*r, false)
	if n == 0 {
		if rnp != 0 {
			return joinDirTrackReintcp(fpp, prev, p1, p2, p3, r, 0, rhdg, cw)
		}
		return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
	}
	if n == 2 && geo.Vec2Dist(vs[0], p3) > geo.Vec2Dist(vs[1], p3) {
		vs[0] = vs[1]
	}
	c2 := vs[0]
	n2, vs2 := circIsect(geo.Vec2Sub(c2, c1), c1, c1, r, true)
	if n2 == 0 {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
	}
	t2 := vs2[0]
	t3 := geo.Vec2VectIsect(geo.Vec2Norm(leg2, cw), c2, leg2, p2, true)

	if !t3.IsNull() {
		mid = []Seg{
			{Kind: SegArc, Start: fpp.Unproject(i1), End: fpp.Unproject(t2), Center: fpp.Unproject(c1), CW: cw},
			{Kind: SegArc, Start: fpp.Unproject(t2), End: fpp.Unproject(t3), Center: fpp.Unproject(c2), CW: !cw},
		}
		return mid, fpp.Unproject(i1), fpp.Unproject(t3), rs1Remove, false, true
	}

	// Even the two-arc sharp intercept can't reach leg2: settle for the
	// single tangent arc whose endpoint comes closest to p3.
	c1p3 := geo.Vec2Sub(p3, c1)
	var tFinal geo.Vec2
	if geo.Vec2Abs(c1p3) <= r {
		n3, vs3 := circIsect(geo.Vec2SetAbs(c1p3, 2*r), c1, c1, r, true)
		if n3 == 0 {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
		}
		tFinal = vs3[0]
	} else {
		angle := geo.RadToDeg(math.Acos(clamp(r/geo.Vec2Abs(c1p3), -1, 1)))
		if cw {
			angle = -angle
		}
		c1t2 := geo.Vec2SetAbs(geo.Vec2Rot(c1p3, geo.DegToRad(angle)), r)
		tFinal = geo.Vec2Add(c1, c1t2)
	}
	if !pointIsOnArc(p2, c1, i1, tFinal, cw) {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
	}
	mid = []Seg{{Kind: SegArc, Start: fpp.Unproject(i1), End: fpp.Unproject(tFinal), Center: fpp.Unproject(c1), CW: cw}}
	return mid, fpp.Unproject(i1), fpp.Unproject(tFinal), rs1Remove, false, true
}

// joinDirDirectReintcp reintercepts by cutting straight for the outbound
// segment's own endpoint, used when the leg
// ahead doesn't request a track rejoin.
func joinDirDirectReintcp(fpp geo.FlatPlaneProj, prev Seg, p1, p2, p3 geo.Vec2, r, rnp float64, cw bool) (mid []Seg, newPrevEnd, newNextStart geo.Geo2, removePrev, consumeNext, ok bool) {
	var i1, c geo.Vec2

	if prev.Kind == SegDirect {
		leg1 := geo.Vec2Sub(p2, p1)
		dc := geo.Vec2SetAbs(geo.Vec2Norm(leg1, cw), r)
		n, vs := circIsect(leg1, geo.Vec2Add(p1, dc), p2, r+rnp, true)
		if n == 0 {
			i1 = p2
			c = geo.Vec2Add(i1, dc)
		} else {
			if n == 2 && geo.Vec2Dist(vs[0], p1) > geo.Vec2Dist(vs[1], p1) {
				vs[0] = vs[1]
			}
			c = vs[0]
		}
		// The reintercept point lies on the leg1 line through p1 along
		// leg1, intersected against the offset line through c (fixes a
		// transposed-argument slip in the C original, whose corresponding
		// call passed the leg1/p1 pair in the wrong position/direction
		// slots).
		i1 = geo.Vec2VectIsect(geo.Vec2Neg(dc), c, leg1, p1, false)
		if i1.IsNull() || !geo.SameDir(i1, p1) {
			i1 = p2
			c = geo.Vec2Add(i1, dc)
		}
	} else {
		outer := (prev.CW && !cw) || (!prev.CW && cw)
		g := geo.Vec2Dist(p2, p1)
		srchG := g + r
		if !outer {
			srchG = g - r
		}
		if srchG <= 0 {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
		}
		p0 := fpp.Project(prev.Start)
		n, vs := circCircIsect(p1, srchG, p2, r+rnp)
		if n == 0 {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
		}
		cRhdg := geo.RelHdg(geo.DirToHdg(geo.Vec2Sub(p2, p1)), geo.DirToHdg(geo.Vec2Sub(vs[0], p1)))
		if n == 2 && ((prev.CW && cRhdg > 0) || (!prev.CW && cRhdg < 0)) {
			vs[0] = vs[1]
		}
		c = vs[0]
		if !pointIsOnArc(c, p1, p0, p2, prev.CW) {
			i1 = p0
			sign := 1.0
			if !outer {
				sign = -1.0
			}
			c = geo.Vec2Add(i1, geo.Vec2SetAbs(geo.Vec2Sub(i1, p1), r*sign))
		} else {
			n2, vs2 := circIsect(geo.Vec2SetAbs(geo.Vec2Sub(c, p1), intcpSearchDist), p1, p1, g, true)
			if n2 == 0 {
				return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
			}
			i1 = vs2[0]
		}
	}

	p3c := geo.Vec2Sub(c, p3)
	p3cDist := geo.Vec2Abs(p3c)
	var i2 geo.Vec2
	switch {
	case p3cDist < r:
		return nil, geo.NullGeo2, geo.NullGeo2, false, false, false
	case p3cDist == r:
		consumeNext = true
		i2 = p3
	default:
		theta := geo.RadToDeg(math.Asin(clamp(r/p3cDist, -1, 1)))
		p3cHdg := geo.DirToHdg(p3c)
		p3i2Dist := math.Sqrt(p3cDist*p3cDist - r*r)
		i2 = geo.Vec2Add(p3, geo.Vec2SetAbs(geo.HdgToDir(p3cHdg-theta), p3i2Dist))
	}

	newPrevEnd = fpp.Unproject(i1)
	mid = []Seg{{Kind: SegArc, Start: newPrevEnd, End: fpp.Unproject(i2), Center: fpp.Unproject(c), CW: cw}}
	if consumeNext {
		return mid, newPrevEnd, geo.NullGeo2, false, true, true
	}
	newNextStart = fpp.Unproject(i2)
	return mid, newPrevEnd, newNextStart, false, false, true
}

// joinToArc joins a preceding direct or arc segment onto a following DME-
// or constant-radius arc segment: a single tangent arc is
// tried first (classifying the outbound arc as an inner or outer turn),
// falling back to a two-arc reintercept when that's not possible.
func joinToArc(prev, next Seg, r, rnp float64) (mid []Seg, newPrevEnd, newNextStart geo.Geo2, removePrev, ok bool) {
	fpp := geo.NewGnomonicProj(next.Start, 0, &geo.WGS84, true)
	p2 := fpp.Project(next.Start)
	p3 := fpp.Project(next.End)
	c := fpp.Project(next.Center)
	cw := next.CW
	if p2.IsNull() || p3.IsNull() || c.IsNull() {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}
	g := geo.Vec2Dist(c, p2)

	var p1, leg1Dir geo.Vec2
	if prev.Kind == SegDirect {
		p1 = fpp.Project(prev.Start)
		leg1Dir = geo.Vec2SetAbs(geo.Vec2Sub(p2, p1), 1)
	} else {
		p1 = fpp.Project(prev.Center)
		leg1Dir = geo.Vec2SetAbs(geo.Vec2Norm(geo.Vec2Sub(p2, p1), prev.CW), 1)
	}
	if p1.IsNull() {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}

	rhdg := geo.RelHdg(geo.DirToHdg(leg1Dir), geo.DirToHdg(geo.Vec2Norm(geo.Vec2Sub(p2, c), cw)))
	if math.Abs(rhdg) < arcJoinThresholdDeg {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}
	outer := math.Abs(rhdg) > 180-arcJoinThresholdDeg || (cw && rhdg < 0) || (!cw && rhdg > 0)

	c1, i1, rs1Remove := findArcTangent(prev, p1, p2, c, r, g, rnp, rhdg, outer, cw)

	if !c1.IsNull() {
		n, vs := circIsect(geo.Vec2SetAbs(geo.Vec2Sub(c1, c), intcpSearchDist), c, c, g, true)
		if n == 0 {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false
		}
		i2 := vs[0]
		arcCW := cw
		if outer {
			arcCW = !cw
		}
		newPrevEnd = fpp.Unproject(i1)
		newNextStart = fpp.Unproject(i2)
		mid = []Seg{{Kind: SegArc, Start: newPrevEnd, End: newNextStart, Center: fpp.Unproject(c1), CW: arcCW}}
		return mid, newPrevEnd, newNextStart, rs1Remove, true
	}

	if !outer && g <= r {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}

	// Single arc impossible: two-arc reintercept onto the outbound arc.
	if prev.Kind == SegDirect {
		p2i1Len := math.Sqrt((rnp+r)*(rnp+r) - r*r)
		leg1 := geo.Vec2Sub(p2, p1)
		leg1Len := geo.Vec2Abs(leg1)
		if p2i1Len > leg1Len {
			rs1Remove = true
			p2i1Len = leg1Len
		}
		i1 = geo.Vec2Add(p2, geo.Vec2SetAbs(geo.Vec2Neg(leg1), p2i1Len))
		right := cw
		if outer {
			right = !cw
		}
		c1 = geo.Vec2Add(i1, geo.Vec2SetAbs(geo.Vec2Norm(leg1, right), r))
	} else {
		var ok2 bool
		p0 := fpp.Project(prev.Start)
		c1, i1, rs1Remove, ok2 = joinArcFindC1I1(p1, p2, p0, r, g, outer, rnp, rhdg, prev.CW, cw)
		if !ok2 {
			return nil, geo.NullGeo2, geo.NullGeo2, false, false
		}
	}

	circR2 := g - r
	if !outer {
		circR2 = g + r
	}
	n, vs := circCircIsect(c1, 2*r, c, circR2)
	if n == 0 {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}
	if n == 2 && geo.Vec2Dist(vs[0], p2) < geo.Vec2Dist(vs[1], p2) {
		vs[0] = vs[1]
	}
	c2 := vs[0]
	n2, vs2 := circIsect(geo.Vec2SetAbs(geo.Vec2Sub(c2, c1), intcpSearchDist), c1, c1, r, true)
	if n2 == 0 {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}
	i4 := vs2[0]
	n3, vs3 := circIsect(geo.Vec2SetAbs(geo.Vec2Sub(c2, c), intcpSearchDist), c, c, g, true)
	if n3 == 0 {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}
	i5 := vs3[0]

	intcpAngle := geo.RelHdg(geo.DirToHdg(geo.Vec2Norm(geo.Vec2Sub(i4, c2), cw)), geo.DirToHdg(geo.Vec2Norm(geo.Vec2Sub(i4, c), cw)))
	if (!cw && intcpAngle >= 0) || (cw && intcpAngle <= 0) {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}
	if !pointIsOnArc(i5, c, p2, p3, cw) {
		return nil, geo.NullGeo2, geo.NullGeo2, false, false
	}

	arc1CW := cw
	if outer {
		arc1CW = !cw
	}
	arc2CW := !cw
	if outer {
		arc2CW = cw
	}

	newPrevEnd = fpp.Unproject(i1)
	newNextStart = fpp.Unproject(i5)
	mid = []Seg{
		{Kind: SegArc, Start: newPrevEnd, End: fpp.Unproject(i4), Center: fpp.Unproject(c1), CW: arc1CW},
		{Kind: SegArc, Start: fpp.Unproject(i4), End: newNextStart, Center: fpp.Unproject(c2), CW: arc2CW},
	}
	return mid, newPrevEnd, newNextStart, rs1Remove, true
}

// findArcTangent attempts to locate the single tangent-arc join center c1
// and its tangent point i1 on the inbound segment. It returns a null c1
// when no such arc exists within rnp.
func findArcTangent(prev Seg, p1, p2, c geo.Vec2, r, g, rnp, rhdg float64, outer, cw bool) (c1, i1 geo.Vec2, rs1Remove bool) {
	c1 = geo.NullVec2

	if prev.Kind == SegDirect {
		leg1 := geo.Vec2Sub(p2, p1)
		right := cw
		if outer {
			right = !cw
		}
		dp1 := geo.Vec2SetAbs(geo.Vec2Norm(leg1, right), r)
		if !outer && g <= r {
			return geo.NullVec2, geo.NullVec2, false
		}
		circR := g + r
		if !outer {
			circR = g - r
		}
		n, vs := circIsect(leg1, geo.Vec2Add(p1, dp1), c, circR, true)
		if n == 0 {
			return geo.NullVec2, geo.NullVec2, false
		}
		if n == 2 && geo.Vec2Dist(vs[0], p2) > geo.Vec2Dist(vs[1], p2) {
			vs[0] = vs[1]
		}
		cand := vs[0]
		if geo.Vec2Dist(cand, p2)-r > rnp {
			return geo.NullVec2, geo.NullVec2, false
		}
		pt := geo.Vec2VectIsect(geo.Vec2Neg(dp1), cand, leg1, p1, false)
		if pt.IsNull() {
			return geo.NullVec2, geo.NullVec2, false
		}
		return cand, pt, false
	}

	outer1 := math.Abs(rhdg) > 180-arcJoinThresholdDeg || (prev.CW && rhdg < 0) || (!prev.CW && rhdg > 0)
	g1 := geo.Vec2Dist(p2, p1)
	if !(outer1 || g1 > r) || !(outer || g > r) {
		return geo.NullVec2, geo.NullVec2, false
	}
	srchG1 := g1 + r
	if !outer1 {
		srchG1 = g1 - r
	}
	srchG := g + r
	if !outer {
		srchG = g - r
	}
	n, vs := circCircIsect(p1, srchG1, c, srchG)
	if n == 0 {
		return geo.NullVec2, geo.NullVec2, false
	}
	c1Rhdg := geo.RelHdg(geo.DirToHdg(geo.Vec2Sub(p2, p1)), geo.DirToHdg(geo.Vec2Sub(vs[0], p1)))
	pick1 := n == 2 && ((prev.CW && c1Rhdg > 0) || (!prev.CW && c1Rhdg < 0) ||
		(outer == outer1 && geo.Vec2Dist(vs[0], p2) > geo.Vec2Dist(vs[1], p2)) ||
		(outer != outer1 && geo.Vec2Dist(vs[0], p2) < geo.Vec2Dist(vs[1], p2)))
	if pick1 {
		vs[0] = vs[1]
	}
	cand := vs[0]
	if geo.Vec2Dist(cand, p2)-r > rnp {
		return geo.NullVec2, geo.NullVec2, false
	}
	n2, vs2 := circIsect(geo.Vec2SetAbs(geo.Vec2Sub(cand, p1), intcpSearchDist), p1, p1, g1, true)
	if n2 == 0 {
		return geo.NullVec2, geo.NullVec2, false
	}
	return cand, vs2[0], false
}

// joinArcFindC1I1 locates the reintercept arc's center and tangent point
// when the inbound segment is itself an arc,
// falling back to the inbound arc's own start fix when no interior
// tangent point exists.
func joinArcFindC1I1(p1, p2, p0 geo.Vec2, r, g float64, outer bool, rnp, rhdg float64, prevCW, cw bool) (c1, i1 geo.Vec2, rs1Remove bool, ok bool) {
	g1 := geo.Vec2Dist(p2, p1)
	outer1 := rhdg > 180-arcJoinThresholdDeg || (prevCW && rhdg < 0) || (!prevCW && rhdg > 0)
	srchG1 := g1 + r
	if !outer1 {
		srchG1 = g1 - r
	}
	srchG := g + r
	if !outer {
		srchG = g - r
	}
	if srchG <= 0 {
		return geo.NullVec2, geo.NullVec2, false, false
	}

	c1 = geo.NullVec2
	n, vs := circCircIsect(p2, r+rnp, p1, srchG1)
	if n != 0 {
		c1Rhdg := geo.RelHdg(geo.DirToHdg(geo.Vec2Sub(p2, p1)), geo.DirToHdg(geo.Vec2Sub(vs[0], p1)))
		if n == 2 && ((prevCW && c1Rhdg > 0) || (!prevCW && c1Rhdg < 0)) {
			vs[0] = vs[1]
		}
		c1 = vs[0]
		n2, vs2 := circIsect(geo.Vec2SetAbs(geo.Vec2Sub(c1, p1), intcpSearchDist), p1, p1, g1, true)
		if n2 != 0 {
			i1 = vs2[0]
			if !pointIsOnArc(i1, p1, p0, p2, prevCW) {
				c1 = geo.NullVec2
			}
		} else {
			c1 = geo.NullVec2
		}
	}
	if c1.IsNull() {
		i1 = p0
		rs1Remove = true
		c1 = geo.Vec2Add(i1, geo.Vec2SetAbs(geo.Vec2Sub(p1, i1), r))
	}
	return c1, i1, rs1Remove, true
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// legJoinParams resolves the JoinParams governing the transition after the
// leg at idx, falling back to the package defaults and a track rejoin when
// the leg carries no override.
func (r *Route) legJoinParams(idx int) JoinParams {
	p := JoinParams{GSKt: DefaultGSKt, RNPNM: DefaultRNPNM, TrackRejoin: true}
	if idx < 0 || idx >= len(r.Legs) {
		return p
	}
	leg := r.Legs[idx]
	if leg.GSKt != 0 {
		p.GSKt = leg.GSKt
	}
	if leg.RNPNM != 0 {
		p.RNPNM = leg.RNPNM
	}
	p.TrackRejoin = !leg.PreferDirectRejoin
	return p
}

// BuildTrajectory rebuilds the route's joined flyable trajectory: it
// re-expands Legs into raw segments if they're stale, resolves each
// internal join point's JoinParams from the preceding raw segment's
// LegIdx, and runs the segment joiner over the result.
func (r *Route) BuildTrajectory() {
	if r.segsDirty {
		r.ExpandSegs()
	}

	raw := r.Segs
	if len(raw) < 2 {
		return
	}
	params := make([]JoinParams, len(raw)-1)
	for i := range params {
		params[i] = r.legJoinParams(raw[i].LegIdx)
	}
	r.Segs = JoinSegs(raw, params)
}
