// route/edit.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"github.com/openfms/fmc-core/navdb"
)

// findProcLegGroup returns the index of the first leg group of the given
// NavProcType, or -1.
func (r *Route) findProcLegGroup(t navdb.NavProcType) int {
	for i, g := range r.LegGroups {
		if g.Kind == LegGroupProc && g.Proc != nil && g.Proc.Type == t {
			return i
		}
	}
	return -1
}

// deleteProcLegGroup removes the leg group of the given type, if any,
// and reconnects its neighbors.
func (r *Route) deleteProcLegGroup(t navdb.NavProcType) {
	if idx := r.findProcLegGroup(t); idx >= 0 {
		r.bypass(idx, true)
	}
}

// insertProcLegGroup inserts a Proc leg group wrapping proc at idx and
// connects it to its new neighbors. SID-family procedures belong at the head of the
// group list, arrival-family at the tail.
func (r *Route) insertProcLegGroup(idx int, proc *navdb.NavProc) int {
	g := &LegGroup{Kind: LegGroupProc, Proc: proc, StartWpt: proc.StartWpt(), EndWpt: proc.EndWpt()}
	for _, s := range proc.Segs {
		g.Legs = append(g.Legs, &Leg{Seg: s, Group: g})
	}
	r.insertLegGroupAt(idx, g)
	return idx
}

func findNavproc(arpt *navdb.Airport, t navdb.NavProcType, name, rwyOrTrans string) *navdb.NavProc {
	for i := range arpt.Procs {
		p := &arpt.Procs[i]
		if p.Type != t || p.Name != name {
			continue
		}
		switch {
		case t == navdb.ProcSIDTrans || t == navdb.ProcSTARTrans || t == navdb.ProcFinalTrans:
			if p.TransName == rwyOrTrans {
				return p
			}
		case rwyOrTrans == "":
			return p
		case p.Rwy != nil && p.Rwy.ID == rwyOrTrans:
			return p
		}
	}
	return nil
}

// setArpt opens arpt by ICAO and installs it at *slot, clearing all
// route references to the previously installed airport.
func (r *Route) setArpt(slot **navdb.Airport, icao string) ErrCode {
	if icao == "" {
		if *slot != nil {
			r.removeArptLinks(*slot)
			*slot = nil
			r.markDirty()
		}
		return OK
	}
	if *slot != nil && (*slot).ICAO == icao {
		return OK
	}
	narpt, ok := r.navdb.FindAirport(icao)
	if !ok {
		return ErrArptNotFound
	}
	if *slot != nil {
		r.removeArptLinks(*slot)
	}
	*slot = narpt
	r.markDirty()
	return OK
}

func (r *Route) removeArptLinks(arpt *navdb.Airport) {
	if r.DepRwy != nil && belongsTo(r.Dep, arpt) {
		r.DepRwy = nil
	}
	clear := func(p **navdb.NavProc) {
		if *p != nil && procBelongsTo(arpt, *p) {
			*p = nil
		}
	}
	clear(&r.SID)
	clear(&r.SIDCommon)
	clear(&r.SIDTrans)
	clear(&r.STAR)
	clear(&r.STARCommon)
	clear(&r.STARTrans)
	clear(&r.FinalTrans)
	clear(&r.Final)

	for i := 0; i < len(r.LegGroups); {
		g := r.LegGroups[i]
		if g.Kind == LegGroupProc && g.Proc != nil && procBelongsTo(arpt, g.Proc) {
			r.bypass(i, false)
			continue
		}
		i++
	}
	r.markDirty()
}

func belongsTo(candidate, arpt *navdb.Airport) bool {
	return candidate != nil && arpt != nil && candidate.ICAO == arpt.ICAO
}

func procBelongsTo(arpt *navdb.Airport, p *navdb.NavProc) bool {
	for i := range arpt.Procs {
		if &arpt.Procs[i] == p {
			return true
		}
	}
	return false
}

// SetDepArpt, SetArrArpt, SetAltn1Arpt, SetAltn2Arpt install the named
// airport. Pass "" to clear.
func (r *Route) SetDepArpt(icao string) ErrCode  { return r.setArpt(&r.Dep, icao) }
func (r *Route) SetArrArpt(icao string) ErrCode  { return r.setArpt(&r.Arr, icao) }
func (r *Route) SetAltn1Arpt(icao string) ErrCode { return r.setArpt(&r.Altn1, icao) }
func (r *Route) SetAltn2Arpt(icao string) ErrCode { return r.setArpt(&r.Altn2, icao) }

// SetDepRwy sets the departure runway. Any previously selected departure
// procedures are deleted, since they may not apply to the new runway.
func (r *Route) SetDepRwy(rwyID string) ErrCode {
	if r.Dep == nil {
		return ErrInvalidEntry
	}
	rwy, ok := r.Dep.FindRwy(rwyID)
	if !ok {
		return ErrInvalidRwy
	}
	r.deleteProcLegGroup(navdb.ProcSID)
	r.deleteProcLegGroup(navdb.ProcSIDCommon)
	r.deleteProcLegGroup(navdb.ProcSIDTrans)
	r.SID, r.SIDCommon, r.SIDTrans = nil, nil, nil
	r.DepRwy = &rwy
	r.markDirty()
	return OK
}

// SetSID finds and installs the named SID (and its SID_COMMON
// counterpart if present) at the head of the route.
func (r *Route) SetSID(name string) ErrCode {
	if r.DepRwy == nil {
		return ErrInvalidEntry
	}
	r.deleteProcLegGroup(navdb.ProcSID)
	r.deleteProcLegGroup(navdb.ProcSIDCommon)
	r.deleteProcLegGroup(navdb.ProcSIDTrans)
	r.SID, r.SIDCommon, r.SIDTrans = nil, nil, nil
	if name == "" {
		return OK
	}

	sid := findNavproc(r.Dep, navdb.ProcSID, name, r.DepRwy.ID)
	sidcm := findNavproc(r.Dep, navdb.ProcSIDCommon, name, "")
	if sid == nil && sidcm == nil {
		return ErrInvalidSid
	}

	idx := 0
	if sid != nil {
		r.insertProcLegGroup(idx, sid)
		r.connectLegGroupNeigh(idx, true)
		idx++
	}
	if sidcm != nil {
		r.insertProcLegGroup(idx, sidcm)
		r.connectLegGroupNeigh(idx, true)
	}
	r.SID, r.SIDCommon = sid, sidcm
	return OK
}

// SetSIDTrans installs a SID transition.
func (r *Route) SetSIDTrans(name string) ErrCode {
	if r.SID == nil && r.SIDCommon == nil {
		return ErrInvalidEntry
	}
	r.deleteProcLegGroup(navdb.ProcSIDTrans)
	r.SIDTrans = nil
	if name == "" {
		return OK
	}
	sidName := r.SID.Name
	if r.SID == nil {
		sidName = r.SIDCommon.Name
	}
	sidtr := findNavproc(r.Dep, navdb.ProcSIDTrans, sidName, name)
	if sidtr == nil {
		return ErrInvalidTrans
	}
	anchor := r.findProcLegGroup(navdb.ProcSIDCommon)
	if anchor < 0 {
		anchor = r.findProcLegGroup(navdb.ProcSID)
	}
	idx := anchor + 1
	r.insertProcLegGroup(idx, sidtr)
	r.connectLegGroupNeigh(idx, true)
	r.SIDTrans = sidtr
	return OK
}

// SetSTAR installs the named STAR (and STAR_COMMON if present) at the
// tail.
func (r *Route) SetSTAR(name string) ErrCode {
	if r.Arr == nil {
		return ErrInvalidEntry
	}
	r.deleteProcLegGroup(navdb.ProcSTAR)
	r.deleteProcLegGroup(navdb.ProcSTARCommon)
	r.deleteProcLegGroup(navdb.ProcSTARTrans)
	r.STAR, r.STARCommon, r.STARTrans = nil, nil, nil
	if name == "" {
		return OK
	}
	star := findNavproc(r.Arr, navdb.ProcSTAR, name, "")
	starcm := findNavproc(r.Arr, navdb.ProcSTARCommon, name, "")
	if star == nil && starcm == nil {
		return ErrInvalidStar
	}
	idx := len(r.LegGroups)
	if star != nil {
		r.insertProcLegGroup(idx, star)
		r.connectLegGroupNeigh(idx, true)
		idx++
	}
	if starcm != nil {
		r.insertProcLegGroup(idx, starcm)
		r.connectLegGroupNeigh(idx, true)
	}
	r.STAR, r.STARCommon = star, starcm
	return OK
}

// SetSTARTrans installs a STAR transition.
func (r *Route) SetSTARTrans(name string) ErrCode {
	if r.STAR == nil && r.STARCommon == nil {
		return ErrInvalidEntry
	}
	r.deleteProcLegGroup(navdb.ProcSTARTrans)
	r.STARTrans = nil
	if name == "" {
		return OK
	}
	starName := r.STAR.Name
	if r.STAR == nil {
		starName = r.STARCommon.Name
	}
	startr := findNavproc(r.Arr, navdb.ProcSTARTrans, starName, name)
	if startr == nil {
		return ErrInvalidTrans
	}
	anchor := r.findProcLegGroup(navdb.ProcSTAR)
	if anchor < 0 {
		anchor = r.findProcLegGroup(navdb.ProcSTARCommon)
	}
	idx := anchor
	r.insertProcLegGroup(idx, startr)
	r.connectLegGroupNeigh(idx, true)
	r.STARTrans = startr
	return OK
}

// SetAppr installs the named approach at the tail and triggers a STAR
// refresh, since the previously selected STAR may not apply to the new
// approach's runway.
func (r *Route) SetAppr(name string) ErrCode {
	if r.Arr == nil {
		return ErrInvalidEntry
	}
	r.deleteProcLegGroup(navdb.ProcFinal)
	r.deleteProcLegGroup(navdb.ProcFinalTrans)
	r.Final, r.FinalTrans = nil, nil
	if name != "" {
		final := findNavproc(r.Arr, navdb.ProcFinal, name, "")
		if final == nil {
			return ErrInvalidFinal
		}
		idx := len(r.LegGroups)
		r.insertProcLegGroup(idx, final)
		r.connectLegGroupNeigh(idx, true)
		r.Final = final
	}
	return r.refreshSTAR()
}

// refreshSTAR looks the currently selected STAR (or STAR_COMMON) up again
// by name among the arrival airport's procedures; if neither kind exists
// under that name, the STAR family is cleared. It always returns OK.
func (r *Route) refreshSTAR() ErrCode {
	if r.STAR == nil && r.STARCommon == nil {
		return OK
	}
	name := r.STAR.Name
	if r.STAR == nil {
		name = r.STARCommon.Name
	}
	if findNavproc(r.Arr, navdb.ProcSTAR, name, "") == nil &&
		findNavproc(r.Arr, navdb.ProcSTARCommon, name, "") == nil {
		r.deleteProcLegGroup(navdb.ProcSTAR)
		r.deleteProcLegGroup(navdb.ProcSTARCommon)
		r.deleteProcLegGroup(navdb.ProcSTARTrans)
		r.STAR, r.STARCommon, r.STARTrans = nil, nil, nil
	}
	return OK
}

// SetApprTrans installs an approach transition.
func (r *Route) SetApprTrans(name string) ErrCode {
	if r.Final == nil {
		return ErrInvalidEntry
	}
	r.deleteProcLegGroup(navdb.ProcFinalTrans)
	r.FinalTrans = nil
	if name == "" {
		return OK
	}
	apprtr := findNavproc(r.Arr, navdb.ProcFinalTrans, r.Final.Name, name)
	if apprtr == nil {
		return ErrInvalidTrans
	}
	anchor := r.findProcLegGroup(navdb.ProcFinal)
	r.insertProcLegGroup(anchor, apprtr)
	r.connectLegGroupNeigh(anchor, true)
	r.FinalTrans = apprtr
	return OK
}

// InsertAirway inserts an endpoint-less Airway leg group before the leg
// group currently at idx. No legs are produced
// until SetAirwayEndFix is called.
func (r *Route) InsertAirway(idx int, awyName string, startWpt navdb.Waypoint) ErrCode {
	if len(r.navdb.FindAirways(awyName)) == 0 {
		return ErrInvalidAwy
	}
	g := &LegGroup{Kind: LegGroupAirway, AwyName: awyName, StartWpt: startWpt}
	r.insertLegGroupAt(idx, g)
	if idx > 0 {
		r.connect(idx-1, idx, true, true)
	}
	r.markDirty()
	return OK
}

// SetAirwayEndFix looks up the airway from its groups's current
// start_wpt through endName and rebuilds its legs.
func (r *Route) SetAirwayEndFix(idx int, endName string) ErrCode {
	g := r.LegGroups[idx]
	if g.Kind != LegGroupAirway {
		return ErrInvalidEntry
	}
	awy, ok := r.navdb.FindAirwaySegment(g.AwyName, g.StartWpt, endName)
	if !ok {
		return ErrAwyWptMismatch
	}
	g.EndWpt = awy.EndWpt()
	if ec := r.rebuildAirwayLegs(g); !ec.Ok() {
		return ec
	}
	if idx+1 < len(r.LegGroups) {
		r.connect(idx, idx+1, true, true)
	}
	r.markDirty()
	return OK
}

// InsertDirect inserts a Direct leg group ending at fix before idx, reconnecting both sides.
func (r *Route) InsertDirect(idx int, fix navdb.Waypoint) ErrCode {
	g := &LegGroup{Kind: LegGroupDirect, EndWpt: fix}
	r.rebuildDirectLeg(g)
	r.insertLegGroupAt(idx, g)
	if idx > 0 {
		r.connect(idx-1, idx, true, true)
	}
	if idx+1 < len(r.LegGroups) {
		r.connect(idx, idx+1, true, true)
	}
	r.markDirty()
	return OK
}

// DeleteLegGroup destroys the leg group at idx and reconnects its
// neighbors. Forbidden for Proc groups -- use the procedure setters.
func (r *Route) DeleteLegGroup(idx int) ErrCode {
	if r.LegGroups[idx].Kind == LegGroupProc {
		return ErrInvalidDelete
	}
	return r.bypass(idx, true)
}

// OverrideAltLim stores a pilot override of the leg's altitude limit,
// distinct from the underlying procedure segment.
func (r *Route) OverrideAltLim(leg *Leg, lim navdb.AltLim) {
	leg.AltLim = lim
	leg.AltLimOverridden = true
	r.markDirty()
}

// OverrideSpdLim stores a pilot override of the leg's speed limit.
func (r *Route) OverrideSpdLim(leg *Leg, lim navdb.SpdLim) {
	leg.SpdLim = lim
	leg.SpdLimOverridden = true
	r.markDirty()
}

// DeleteLeg removes a single leg. For a Direct or Disco leg group, it
// bypasses the whole group. For an airway or procedure leg group, it
// drops the leg from the group's leg list; the airway is not split in
// two, only its StartWpt/EndWpt are re-derived from the remaining legs,
// and a procedure group's StartWpt/EndWpt are left unchanged.
func (r *Route) DeleteLeg(leg *Leg) ErrCode {
	g := leg.Group
	gi := r.legGroupIndex(g)
	if gi < 0 {
		return ErrInvalidEntry
	}
	if g.Kind == LegGroupDirect || g.Kind == LegGroupDisco {
		return r.bypass(gi, true)
	}
	li := legIndex(g.Legs, leg)
	if li < 0 {
		return ErrInvalidEntry
	}
	g.Legs = append(g.Legs[:li], g.Legs[li+1:]...)
	if g.Kind == LegGroupAirway {
		if li == 0 && len(g.Legs) > 0 {
			g.StartWpt = g.Legs[0].Seg.StartWpt()
		} else if len(g.Legs) == 0 {
			g.StartWpt, g.EndWpt = navdb.Waypoint{}, navdb.Waypoint{}
		}
		if len(g.Legs) > 0 {
			g.EndWpt = g.Legs[len(g.Legs)-1].EndWpt()
		}
	}
	r.rebuildLegs()
	r.markDirty()
	return OK
}

func (r *Route) legGroupIndex(g *LegGroup) int {
	for i, lg := range r.LegGroups {
		if lg == g {
			return i
		}
	}
	return -1
}

func legIndex(legs []*Leg, l *Leg) int {
	for i, x := range legs {
		if x == l {
			return i
		}
	}
	return -1
}
