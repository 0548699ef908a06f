// route/connect.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"github.com/openfms/fmc-core/navdb"
)

// rebuildLegs flattens LegGroups into the flat Legs list in order: the
// flat concatenation of each leg group's legs must equal Legs after
// every edit.
func (r *Route) rebuildLegs() {
	legs := make([]*Leg, 0, len(r.Legs))
	for _, g := range r.LegGroups {
		legs = append(legs, g.Legs...)
	}
	r.Legs = legs
}

// rebuildAirwayLegs regenerates g's Legs from its navdb airway segment
// between StartWpt and EndWpt. If either endpoint
// is unset, the group produces no legs yet.
func (r *Route) rebuildAirwayLegs(g *LegGroup) ErrCode {
	if g.Kind != LegGroupAirway {
		return OK
	}
	g.Legs = nil
	if g.StartWpt.IsNull() || g.EndWpt.IsNull() {
		return OK
	}
	awy, ok := r.navdb.FindAirwaySegment(g.AwyName, g.StartWpt, g.EndWpt.Name)
	if !ok {
		return ErrInvalidAwy
	}
	for _, s := range awy.Segs {
		leg := navdb.NewDFLeg(s.To)
		g.Legs = append(g.Legs, &Leg{Seg: leg, Group: g})
	}
	return OK
}

// rebuildDirectLeg regenerates a LegGroupDirect's single DF leg.
func (r *Route) rebuildDirectLeg(g *LegGroup) {
	if g.Kind != LegGroupDirect {
		return
	}
	if g.EndWpt.IsNull() {
		g.Legs = nil
		return
	}
	g.Legs = []*Leg{{Seg: navdb.NewDFLeg(g.EndWpt), Group: g}}
}

// navprocsRelated reports whether two procedures belong to the same family
// (SID-family or arrival-family). Their airports are not compared.
func navprocsRelated(a, b *navdb.NavProc) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Type.IsSIDFamily() && b.Type.IsSIDFamily() {
		return true
	}
	if a.Type.IsArrivalFamily() && b.Type.IsArrivalFamily() {
		return true
	}
	return false
}

// procIntercept reports whether prev's last leg is intercept-terminated
// (CI/VI/CR/VR), the marker that a procedure is meant to flow straight
// into a sequenced follow-on procedure without an explicit shared fix.
func procIntercept(prev *LegGroup) bool {
	if len(prev.Legs) == 0 {
		return false
	}
	switch prev.Legs[len(prev.Legs)-1].Seg.Type {
	case navdb.SegCI, navdb.SegVI, navdb.SegCR, navdb.SegVR:
		return true
	}
	return false
}

// tryConnect implements the pairwise connection policy matrix between
// r.LegGroups[prevIdx] and r.LegGroups[nextIdx]. It never inserts or
// deletes a Disco itself; callers do that via connect.
func (r *Route) tryConnect(prevIdx, nextIdx int, allowMod, allowAddLegs bool) ErrCode {
	prev, next := r.LegGroups[prevIdx], r.LegGroups[nextIdx]
	if prev.Kind == LegGroupDisco || next.Kind == LegGroupDisco {
		return OK
	}

	switch prev.Kind {
	case LegGroupAirway:
		switch next.Kind {
		case LegGroupAirway:
			return r.connectAwyAwy(prev, next, allowMod, allowAddLegs)
		case LegGroupDirect:
			return r.connectAwyDirect(prev, next, allowMod)
		case LegGroupProc:
			return r.connectAwyProc(prev, next, allowMod)
		}
	case LegGroupDirect, LegGroupProc:
		switch next.Kind {
		case LegGroupAirway:
			return r.connectToAwy(prev, next, allowMod)
		case LegGroupDirect:
			return r.connectToDirect(prevIdx, nextIdx, allowMod)
		case LegGroupProc:
			return r.connectToProc(prev, next)
		}
	}
	return OK
}

func (r *Route) connectAwyAwy(prev, next *LegGroup, allowMod, allowAddLegs bool) ErrCode {
	if prev.EndWpt.Eq(next.StartWpt) {
		return OK
	}
	if !allowMod || !allowAddLegs {
		return ErrAwyAwyMismatch
	}
	isect, ok := r.navdb.LookupAirwayIntersection(prev.AwyName, prev.StartWpt, next.AwyName)
	if !ok {
		return ErrAwyAwyMismatch
	}
	prev.EndWpt = isect
	next.StartWpt = isect
	overlap := next.EndWpt.Eq(next.StartWpt)
	if overlap {
		next.EndWpt = navdb.Waypoint{}
	}
	if ec := r.rebuildAirwayLegs(prev); !ec.Ok() {
		return ec
	}
	if ec := r.rebuildAirwayLegs(next); !ec.Ok() {
		return ec
	}
	r.markDirty()
	return OK
}

func (r *Route) connectAwyDirect(prev, next *LegGroup, allowMod bool) ErrCode {
	if !prev.EndWpt.IsNull() {
		if prev.EndWpt.Eq(next.EndWpt) {
			return ErrAwyWptMismatch
		}
		if !next.StartWpt.IsNull() && !allowMod {
			return ErrAwyWptMismatch
		}
		next.StartWpt = prev.EndWpt
		r.rebuildDirectLeg(next)
		r.markDirty()
		return OK
	}
	if !allowMod {
		return ErrAwyWptMismatch
	}
	if _, ok := r.navdb.FindAirwaySegment(prev.AwyName, prev.StartWpt, next.EndWpt.Name); !ok {
		return ErrAwyWptMismatch
	}
	prev.EndWpt = next.EndWpt
	if ec := r.rebuildAirwayLegs(prev); !ec.Ok() {
		return ec
	}
	r.removeLegGroupRef(next)
	r.markDirty()
	return OK
}

func (r *Route) connectAwyProc(prev, next *LegGroup, allowMod bool) ErrCode {
	if prev.EndWpt.Eq(next.StartWpt) {
		return OK
	}
	if !allowMod {
		return ErrAwyProcMismatch
	}
	if _, ok := r.navdb.FindAirwaySegment(prev.AwyName, prev.StartWpt, next.StartWpt.Name); !ok {
		return ErrAwyProcMismatch
	}
	prev.EndWpt = next.StartWpt
	if ec := r.rebuildAirwayLegs(prev); !ec.Ok() {
		return ec
	}
	r.markDirty()
	return OK
}

func (r *Route) connectToAwy(prev, next *LegGroup, allowMod bool) ErrCode {
	if prev.EndFix().Eq(next.StartWpt) {
		return OK
	}
	if !allowMod {
		return ErrAwyProcMismatch
	}
	if !next.EndWpt.IsNull() {
		if _, ok := r.navdb.FindAirwaySegment(next.AwyName, prev.EndFix(), next.EndWpt.Name); !ok {
			return ErrAwyProcMismatch
		}
	} else if !awyHasFixWithContinuation(r.navdb, next.AwyName, prev.EndFix()) {
		return ErrAwyProcMismatch
	}
	next.StartWpt = prev.EndFix()
	if ec := r.rebuildAirwayLegs(next); !ec.Ok() {
		return ec
	}
	r.markDirty()
	return OK
}

// awyHasFixWithContinuation reports whether any airway object named
// name contains fix anywhere before its last waypoint (so a leg group
// whose end fix is not yet chosen can still validly start there).
func awyHasFixWithContinuation(db *navdb.DB, name string, fix navdb.Waypoint) bool {
	for _, a := range db.FindAirways(name) {
		wpts := a.Waypoints()
		for i, w := range wpts {
			if w.Eq(fix) && i < len(wpts)-1 {
				return true
			}
		}
	}
	return false
}

func (r *Route) connectToDirect(prevIdx, nextIdx int, allowMod bool) ErrCode {
	prev, next := r.LegGroups[prevIdx], r.LegGroups[nextIdx]
	if prev.EndFix().IsNull() && prev.Kind != LegGroupProc {
		return ErrWptProcMismatch
	}
	if prev.EndFix().Eq(next.EndWpt) {
		if !allowMod {
			return ErrDuplicateLeg
		}
		r.removeLegGroupAt(nextIdx)
		if prevIdx+1 <= len(r.LegGroups)-1 {
			return r.connect(prevIdx, prevIdx+1, true, true)
		}
		return OK
	}
	if !next.StartWpt.IsNull() && !allowMod {
		return ErrWptProcMismatch
	}
	next.StartWpt = prev.EndFix()
	r.rebuildDirectLeg(next)
	return OK
}

func (r *Route) connectToProc(prev, next *LegGroup) ErrCode {
	if prev.EndFix().Eq(next.StartWpt) {
		return OK
	}
	if prev.Kind == LegGroupDirect {
		return ErrWptProcMismatch
	}
	if navprocsRelated(prev.Proc, next.Proc) && procIntercept(prev) {
		if end := prev.EndFix(); !end.IsNull() {
			prev.EndWpt = end
		}
		return OK
	}
	return ErrWptProcMismatch
}

// onlyDiscoBetween reports whether exactly one Disco leg group separates
// r.LegGroups[prevIdx] and r.LegGroups[nextIdx].
func (r *Route) onlyDiscoBetween(prevIdx, nextIdx int) bool {
	return nextIdx == prevIdx+2 &&
		prevIdx+1 < len(r.LegGroups) &&
		r.LegGroups[prevIdx+1].Kind == LegGroupDisco
}

// connect is the top-level entry point every mutating operation ends
// with: try to directly connect prev and next; on failure,
// insert a single Disco between them unless one is already there or the
// caller forbade it via allowAddLegs=false combined with allowMod=false.
func (r *Route) connect(prevIdx, nextIdx int, allowMod, allowAddLegs bool) ErrCode {
	if nextIdx >= len(r.LegGroups) || prevIdx < 0 {
		return OK
	}
	ec := r.tryConnect(prevIdx, nextIdx, allowMod, allowAddLegs)
	if ec.Ok() {
		return OK
	}
	if r.onlyDiscoBetween(prevIdx, nextIdx) {
		return OK
	}
	if !allowMod && !allowAddLegs {
		return ec
	}
	disco := &LegGroup{Kind: LegGroupDisco}
	r.insertLegGroupAt(prevIdx+1, disco)
	r.markDirty()
	return OK
}

// removeLegGroupRef removes g from the route by value, used by callers
// that only hold a pointer (no index).
func (r *Route) removeLegGroupRef(g *LegGroup) {
	for i, lg := range r.LegGroups {
		if lg == g {
			r.removeLegGroupAt(i)
			return
		}
	}
}

func (r *Route) removeLegGroupAt(idx int) {
	r.LegGroups = append(r.LegGroups[:idx], r.LegGroups[idx+1:]...)
	r.rebuildLegs()
}

func (r *Route) insertLegGroupAt(idx int, g *LegGroup) {
	r.LegGroups = append(r.LegGroups, nil)
	copy(r.LegGroups[idx+1:], r.LegGroups[idx:])
	r.LegGroups[idx] = g
	r.rebuildLegs()
}

// connectNeigh reconnects rlg's two neighbors directly to each other,
// used when rlg itself is about to be deleted.
func (r *Route) connectNeigh(idx int, allowMod bool) ErrCode {
	if idx > 0 && idx+1 < len(r.LegGroups) {
		return r.connect(idx-1, idx+1, allowMod, true)
	}
	return OK
}

// bypass deletes r.LegGroups[idx] and reconnects its former neighbors.
func (r *Route) bypass(idx int, allowMod bool) ErrCode {
	r.removeLegGroupAt(idx)
	if idx > 0 && idx < len(r.LegGroups) {
		return r.connect(idx-1, idx, allowMod, true)
	}
	return OK
}
