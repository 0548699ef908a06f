// route/legedit.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"github.com/openfms/fmc-core/navdb"
)

// rlgFindStartFix and rlgFindEndWpt read a leg group's effective start/end
// fix off its own first/last leg, as opposed to LegGroup.StartFix/EndFix
// which read the group's own declared endpoints. Used after shortening a procedure leg group, where the
// declared endpoint no longer matches any leg still present.
func rlgFindStartFix(g *LegGroup) navdb.Waypoint {
	if len(g.Legs) == 0 {
		return navdb.Waypoint{}
	}
	return g.Legs[0].Seg.StartWpt()
}

func rlgFindEndWpt(g *LegGroup) navdb.Waypoint {
	if len(g.Legs) == 0 {
		return navdb.Waypoint{}
	}
	return g.Legs[len(g.Legs)-1].Seg.EndWpt()
}

// wptEqPos compares only the geographic position of two waypoints, not
// their names (WPT_EQ_POS) -- used by the duplicate-leg check, which cares
// whether a new fix would sit on top of an existing leg endpoint
// regardless of what either is named.
func wptEqPos(a, b navdb.Waypoint) bool {
	return a.Pos.Eq(b.Pos)
}

// legCheckDup reports whether inserting a leg ending at wpt right next to
// rl would duplicate rl's own endpoint. The initial-fix
// leg is exempt since it has no independent lateral meaning of its own.
func legCheckDup(rl *Leg, wpt navdb.Waypoint) bool {
	return rl != nil && !rl.Disco && rl.Seg.Type != navdb.SegIF && wptEqPos(rl.EndWpt(), wpt)
}

// chkAwyFixAdjacent reports whether wpt immediately continues g's airway
// past its current end fix (head=false) or immediately precedes its
// current start fix (head=true), per the airway's own published waypoint
// chain.
func chkAwyFixAdjacent(db *navdb.DB, g *LegGroup, wpt navdb.Waypoint, head bool) bool {
	if g.StartWpt.IsNull() || g.EndWpt.IsNull() {
		return false
	}
	awy, ok := db.FindAirwaySegment(g.AwyName, g.StartWpt, g.EndWpt.Name)
	if !ok {
		return false
	}
	find := g.EndWpt
	if head {
		find = wpt
	}
	i := 0
	for i < len(awy.Segs) && !awy.Segs[i].From.Eq(find) {
		i++
	}
	if i >= len(awy.Segs) {
		return false
	}
	if head {
		return awy.Segs[i].To.Eq(g.StartWpt)
	}
	return awy.Segs[i].To.Eq(wpt)
}

// connectLegGroupNeigh reconnects the leg group at idx to both of its
// non-Disco neighbors. Unlike connectNeigh (which
// bridges a group's former neighbors once that group itself is gone),
// this reconnects the group at idx in place, on both sides.
func (r *Route) connectLegGroupNeigh(idx int, allowMod bool) {
	if idx > 0 {
		r.connect(idx-1, idx, allowMod, false)
	}
	if idx+1 < len(r.LegGroups) {
		r.connect(idx, idx+1, allowMod, false)
	}
}

// routeLgDirectInsert inserts a new Direct leg group ending at fix right
// after prevIdx (-1 for the head of the route) and connects it to both
// neighbors. It refuses to land a new leg group
// ahead of the first SID-family leg group or behind the last
// arrival-family one: LEGS-page inserts must not disturb a terminal
// procedure boundary.
func (r *Route) routeLgDirectInsert(prevIdx int, fix navdb.Waypoint) (int, ErrCode) {
	nextIdx := prevIdx + 1
	if nextIdx < len(r.LegGroups) {
		next := r.LegGroups[nextIdx]
		if next.Kind == LegGroupProc && next.Proc != nil && next.Proc.Type.IsSIDFamily() {
			return -1, ErrInvalidEntry
		}
	}
	if prevIdx >= 0 {
		prev := r.LegGroups[prevIdx]
		if prev.Kind == LegGroupProc && prev.Proc != nil && prev.Proc.Type.IsArrivalFamily() {
			return -1, ErrInvalidEntry
		}
	}

	g := &LegGroup{Kind: LegGroupDirect, EndWpt: fix}
	idx := prevIdx + 1
	r.rebuildDirectLeg(g)
	r.insertLegGroupAt(idx, g)
	r.connectLegGroupNeigh(idx, true)
	r.markDirty()
	return idx, OK
}

// rlgPrependDirect sets awyrlg's own start fix to wpt and inserts a new
// Direct leg group ending at wpt just ahead of it.
func (r *Route) rlgPrependDirect(awyIdx int, wpt navdb.Waypoint) (*Leg, ErrCode) {
	g := r.LegGroups[awyIdx]
	g.StartWpt = wpt
	if ec := r.rebuildAirwayLegs(g); !ec.Ok() {
		return nil, ec
	}
	dirIdx, ec := r.routeLgDirectInsert(awyIdx-1, wpt)
	if !ec.Ok() {
		return nil, ec
	}
	dir := r.LegGroups[dirIdx]
	if len(dir.Legs) == 0 {
		return nil, ErrInvalidEntry
	}
	return dir.Legs[0], OK
}

// rlgAppendDirect extends rlg's own end fix to wpt in place, regenerating
// an airway's legs or appending a single DF leg to a procedure.
func (r *Route) rlgAppendDirect(idx int, wpt navdb.Waypoint) (*Leg, ErrCode) {
	g := r.LegGroups[idx]
	g.EndWpt = wpt
	if g.Kind == LegGroupAirway {
		if ec := r.rebuildAirwayLegs(g); !ec.Ok() {
			return nil, ec
		}
	} else {
		leg := &Leg{Seg: navdb.NewDFLeg(wpt), Group: g}
		g.Legs = append(g.Legs, leg)
		r.rebuildLegs()
	}
	r.connectLegGroupNeigh(idx, false)
	r.markDirty()
	return g.Legs[len(g.Legs)-1], OK
}

// awySplit splits the airway leg group g into two airway leg groups
// around rl1/rl2: the first retains legs up to and including rl1 (or
// collapses to nothing if rl1 is nil), the second starts at the leg
// following rl2 (or collapses to nothing if rl2 is nil). If the split
// leaves a gap between the two halves, a Direct leg group bridges it when
// join is true, else the gap is left for the ordinary connect-and-Disco
// machinery to fill in.
func (r *Route) awySplit(g *LegGroup, rl1, rl2 *Leg, join bool) {
	gi := r.legGroupIndex(g)

	awy1StartFix := g.StartWpt
	awy1EndFix := g.StartWpt
	if rl1 != nil {
		awy1EndFix = rl1.EndWpt()
	}

	awy2StartFix := g.EndWpt
	if rl2 != nil {
		li := legIndex(g.Legs, rl2)
		if li > 0 {
			awy2StartFix = g.Legs[li-1].EndWpt()
		} else {
			awy2StartFix = g.StartWpt
		}
	}
	awy2EndFix := g.EndWpt

	var awy2 *LegGroup
	if !awy2StartFix.Eq(awy2EndFix) {
		awy2 = &LegGroup{Kind: LegGroupAirway, AwyName: g.AwyName, StartWpt: awy2StartFix, EndWpt: awy2EndFix}
		r.insertLegGroupAt(gi+1, awy2)
		r.rebuildAirwayLegs(awy2)
	}

	var dir *LegGroup
	if !awy1EndFix.Eq(awy2StartFix) && join {
		dir = &LegGroup{Kind: LegGroupDirect, EndWpt: awy2StartFix}
		r.insertLegGroupAt(gi+1, dir)
		r.rebuildDirectLeg(dir)
	}

	awy1Alive := !awy1StartFix.Eq(awy1EndFix)
	if awy1Alive {
		g.EndWpt = awy1EndFix
		r.rebuildAirwayLegs(g)
	} else {
		r.removeLegGroupAt(gi)
	}

	if awy1Alive {
		r.connectLegGroupNeigh(r.legGroupIndex(g), true)
	}
	if dir != nil {
		r.connectLegGroupNeigh(r.legGroupIndex(dir), true)
	}
	if awy2 != nil {
		r.connectLegGroupNeigh(r.legGroupIndex(awy2), true)
	}
	r.markDirty()
}

// rlgShortenProc trims a procedure leg group's legs down to the side of
// limLeg that's kept: everything before it when left is true, everything
// after it when left is false. limLeg itself is kept in both cases.
func (r *Route) rlgShortenProc(limLeg *Leg, left bool) {
	g := limLeg.Group
	li := legIndex(g.Legs, limLeg)
	if li < 0 {
		return
	}
	if left {
		g.Legs = g.Legs[li:]
		g.StartWpt = rlgFindStartFix(g)
	} else {
		g.Legs = g.Legs[:li+1]
		g.EndWpt = rlgFindEndWpt(g)
	}
	r.rebuildLegs()
	r.connectLegGroupNeigh(r.legGroupIndex(g), false)
	r.markDirty()
}

// InsertLeg inserts a new leg terminating at fix, following prevLeg
// (nil to insert at the head of the route), choosing among extending an
// adjacent airway or procedure, splitting an airway, or falling back to a
// standalone Direct leg group, per the LEGS-page insertion rules.
func (r *Route) InsertLeg(prevLeg *Leg, fix navdb.Waypoint) (*Leg, ErrCode) {
	prevIdx := legIndex(r.Legs, prevLeg)
	var nextLeg *Leg
	if prevLeg == nil {
		if len(r.Legs) > 0 {
			nextLeg = r.Legs[0]
		}
	} else if prevIdx >= 0 && prevIdx+1 < len(r.Legs) {
		nextLeg = r.Legs[prevIdx+1]
	}

	if legCheckDup(prevLeg, fix) || legCheckDup(nextLeg, fix) {
		return nil, ErrDuplicateLeg
	}

	switch {
	case prevLeg != nil && nextLeg != nil:
		prevG, nextG := prevLeg.Group, nextLeg.Group
		if prevG != nextG {
			prevGi := r.legGroupIndex(prevG)
			nextGi := r.legGroupIndex(nextG)
			if prevG.Kind == LegGroupAirway && chkAwyFixAdjacent(r.navdb, prevG, fix, false) {
				return r.rlgAppendDirect(prevGi, fix)
			}
			if prevG.Kind == LegGroupProc && nextG.Kind == LegGroupProc &&
				prevG.Proc != nil && nextG.Proc != nil &&
				((r.Dep != nil && procBelongsTo(r.Dep, prevG.Proc) && procBelongsTo(r.Dep, nextG.Proc)) ||
					(r.Arr != nil && procBelongsTo(r.Arr, prevG.Proc) && procBelongsTo(r.Arr, nextG.Proc))) {
				return r.rlgAppendDirect(prevGi, fix)
			}
			if nextG.Kind == LegGroupAirway && chkAwyFixAdjacent(r.navdb, nextG, fix, true) {
				return r.rlgPrependDirect(nextGi, fix)
			}
			dirIdx, ec := r.routeLgDirectInsert(prevGi, fix)
			if !ec.Ok() {
				return nil, ec
			}
			return r.LegGroups[dirIdx].Legs[0], OK
		}
		if prevG.Kind == LegGroupAirway {
			r.awySplit(prevG, prevLeg, nextLeg, false)
			dirIdx, ec := r.routeLgDirectInsert(r.legGroupIndex(prevG), fix)
			if !ec.Ok() {
				return nil, ec
			}
			return r.LegGroups[dirIdx].Legs[0], OK
		}
		// Procedures are internally expanded: splice a new DF leg in
		// place without disturbing the group's boundaries.
		leg := &Leg{Seg: navdb.NewDFLeg(fix), Group: prevG}
		li := legIndex(prevG.Legs, prevLeg)
		prevG.Legs = append(prevG.Legs, nil)
		copy(prevG.Legs[li+2:], prevG.Legs[li+1:])
		prevG.Legs[li+1] = leg
		r.rebuildLegs()
		r.markDirty()
		return leg, OK

	case prevLeg != nil:
		prevG := prevLeg.Group
		prevGi := r.legGroupIndex(prevG)
		if prevG.Kind == LegGroupAirway && chkAwyFixAdjacent(r.navdb, prevG, fix, false) {
			return r.rlgAppendDirect(prevGi, fix)
		}
		if prevG.Kind == LegGroupProc && prevG.Proc != nil && prevG.Proc.Type.IsArrivalFamily() {
			return r.rlgAppendDirect(prevGi, fix)
		}
		dirIdx, ec := r.routeLgDirectInsert(prevGi, fix)
		if !ec.Ok() {
			return nil, ec
		}
		return r.LegGroups[dirIdx].Legs[0], OK

	case nextLeg != nil:
		nextG := nextLeg.Group
		nextGi := r.legGroupIndex(nextG)
		if nextG.Kind == LegGroupAirway && chkAwyFixAdjacent(r.navdb, nextG, fix, true) {
			return r.rlgPrependDirect(nextGi, fix)
		}
		if nextG.Kind == LegGroupProc && nextG.Proc != nil && nextG.Proc.Type.IsSIDFamily() {
			return nil, ErrInvalidEntry
		}
		dirIdx, ec := r.routeLgDirectInsert(-1, fix)
		if !ec.Ok() {
			return nil, ec
		}
		return r.LegGroups[dirIdx].Legs[0], OK

	default:
		dirIdx, ec := r.routeLgDirectInsert(-1, fix)
		if !ec.Ok() {
			return nil, ec
		}
		return r.LegGroups[dirIdx].Legs[0], OK
	}
}

// rlgPrependDirect's call site above doesn't know the fix it resolved to
// after the airway's own StartWpt update -- re-derive it by reading the
// new leg back.
func (r *Route) rlgPrependDirectFix(g *LegGroup) navdb.Waypoint {
	return g.StartWpt
}

// MoveLeg moves sourceLeg to replace targetLeg's position in the route:
// targetLeg must occur before sourceLeg. Every intervening leg group is
// destroyed, and the leg groups bracketing the move are trimmed or split
// to their new boundary.
func (r *Route) MoveLeg(targetLeg, sourceLeg *Leg) ErrCode {
	targetIdx := legIndex(r.Legs, targetLeg)
	if targetIdx < 0 {
		return ErrInvalidEntry
	}
	var prevLeg *Leg
	for i := targetIdx - 1; i >= 0; i-- {
		if !r.Legs[i].Disco {
			prevLeg = r.Legs[i]
			break
		}
	}
	nextLeg := sourceLeg

	var prevG, nextG *LegGroup
	if prevLeg != nil {
		prevG = prevLeg.Group
	}
	nextG = nextLeg.Group

	if prevLeg == nextLeg {
		return ErrInvalidEntry
	}

	if prevG != nextG {
		prevGi := -1
		if prevG != nil {
			prevGi = r.legGroupIndex(prevG)
		}
		nextGi := r.legGroupIndex(nextG)
		for nextGi > prevGi+1 {
			r.removeLegGroupAt(prevGi + 1)
			nextGi = r.legGroupIndex(nextG)
		}

		if prevLeg != nil {
			switch prevG.Kind {
			case LegGroupAirway:
				r.awySplit(prevG, prevLeg, nil, false)
			case LegGroupProc:
				r.rlgShortenProc(prevLeg, false)
			case LegGroupDirect:
				r.connectLegGroupNeigh(r.legGroupIndex(nextG), true)
			}
		}
		nextGi = r.legGroupIndex(nextG)
		switch nextG.Kind {
		case LegGroupAirway:
			li := legIndex(nextG.Legs, nextLeg)
			var following *Leg
			if li+1 < len(nextG.Legs) {
				following = nextG.Legs[li+1]
			}
			r.awySplit(nextG, nil, following, true)
		case LegGroupProc:
			r.rlgShortenProc(nextLeg, true)
		case LegGroupDirect:
			r.connectLegGroupNeigh(nextGi, true)
		}
	} else {
		switch prevG.Kind {
		case LegGroupAirway:
			li := legIndex(prevG.Legs, nextLeg)
			var following *Leg
			if li+1 < len(prevG.Legs) {
				following = prevG.Legs[li+1]
			}
			r.awySplit(prevG, prevLeg, following, true)
		default:
			// Procedures: just drop the intervening legs in place.
			li1 := legIndex(prevG.Legs, prevLeg)
			li2 := legIndex(prevG.Legs, nextLeg)
			if li1 >= 0 && li2 > li1 {
				prevG.Legs = append(prevG.Legs[:li1+1], prevG.Legs[li2:]...)
				r.rebuildLegs()
				r.markDirty()
			}
		}
	}

	r.markDirty()
	return OK
}
