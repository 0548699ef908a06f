// route/edit_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"testing"

	"github.com/openfms/fmc-core/navdb"
)

func TestInsertDirectReconnectsBothNeighbors(t *testing.T) {
	r := newTestRoute(t)
	alpha := r.Navdb().FindWaypoints("ALPHA")[0]
	charlie := r.Navdb().FindWaypoints("CHARLIE")[0]
	bravo := r.Navdb().FindWaypoints("BRAVO")[0]

	r.InsertDirect(0, alpha)
	r.InsertDirect(1, charlie)
	if ec := r.InsertDirect(1, bravo); !ec.Ok() {
		t.Fatalf("InsertDirect(1, BRAVO) = %v", ec)
	}

	if len(r.LegGroups) != 3 {
		t.Fatalf("LegGroups = %+v, want 3", r.LegGroups)
	}
	if r.LegGroups[1].StartWpt.Name != "ALPHA" || r.LegGroups[1].EndWpt.Name != "BRAVO" {
		t.Errorf("inserted group = %+v, want ALPHA->BRAVO", r.LegGroups[1])
	}
	if r.LegGroups[2].StartWpt.Name != "BRAVO" {
		t.Errorf("trailing group StartWpt = %+v, want re-anchored to BRAVO", r.LegGroups[2].StartWpt)
	}
}

func TestOverrideAltLimAndSpdLim(t *testing.T) {
	r := newTestRoute(t)
	alpha := r.Navdb().FindWaypoints("ALPHA")[0]
	r.InsertDirect(0, alpha)
	leg := r.LegGroups[0].Legs[0]

	lim := navdb.AltLim{Type: navdb.AltLimAtOrAbove, Alt1: 5000}
	r.OverrideAltLim(leg, lim)
	if !leg.AltLimOverridden || leg.AltLim != lim {
		t.Errorf("AltLim = %+v, overridden=%v", leg.AltLim, leg.AltLimOverridden)
	}

	spd := navdb.SpdLim{Type: navdb.SpdLimAt, Spd1: 250}
	r.OverrideSpdLim(leg, spd)
	if !leg.SpdLimOverridden || leg.SpdLim != spd {
		t.Errorf("SpdLim = %+v, overridden=%v", leg.SpdLim, leg.SpdLimOverridden)
	}
}

func TestDeleteLegOnDirectGroupBypassesWholeGroup(t *testing.T) {
	r := newTestRoute(t)
	alpha := r.Navdb().FindWaypoints("ALPHA")[0]
	bravo := r.Navdb().FindWaypoints("BRAVO")[0]
	r.InsertDirect(0, alpha)
	r.InsertDirect(1, bravo)

	leg := r.LegGroups[0].Legs[0]
	if ec := r.DeleteLeg(leg); !ec.Ok() {
		t.Fatalf("DeleteLeg = %v", ec)
	}
	if len(r.LegGroups) != 1 {
		t.Fatalf("LegGroups = %+v, want 1 (ALPHA group bypassed)", r.LegGroups)
	}
}

// TestDeleteLegOnAirwayInternalLegTrimsGroup exercises the airway-internal
// branch of DeleteLeg: removing the first leg of a multi-leg airway group
// drops it from Legs and re-derives EndWpt from the new last leg. Each
// airway leg is a DF to its "to" fix (rebuildAirwayLegs), and DF legs carry
// no start fix of their own (NavProcSeg.StartWpt is null for SegDF), so the
// group's StartWpt comes back null rather than re-anchored to BRAVO.
func TestDeleteLegOnAirwayInternalLegTrimsGroup(t *testing.T) {
	r := newTestRoute(t)
	alpha := r.Navdb().FindWaypoints("ALPHA")[0]
	if ec := r.InsertAirway(0, "J1", alpha); !ec.Ok() {
		t.Fatalf("InsertAirway = %v", ec)
	}
	if ec := r.SetAirwayEndFix(0, "CHARLIE"); !ec.Ok() {
		t.Fatalf("SetAirwayEndFix = %v", ec)
	}
	g := r.LegGroups[0]
	if len(g.Legs) < 2 {
		t.Fatalf("expected at least 2 legs on J1 ALPHA->CHARLIE, got %+v", g.Legs)
	}

	first := g.Legs[0]
	if ec := r.DeleteLeg(first); !ec.Ok() {
		t.Fatalf("DeleteLeg = %v", ec)
	}
	if len(r.LegGroups[0].Legs) != 1 {
		t.Fatalf("Legs after trimming = %+v, want 1 remaining", r.LegGroups[0].Legs)
	}
	if r.LegGroups[0].EndWpt.Name != "CHARLIE" {
		t.Errorf("EndWpt after trimming first leg = %+v, want CHARLIE", r.LegGroups[0].EndWpt)
	}
}

func TestDeleteLegGroupOnAirwaySucceeds(t *testing.T) {
	r := newTestRoute(t)
	alpha := r.Navdb().FindWaypoints("ALPHA")[0]
	r.InsertAirway(0, "J1", alpha)
	r.SetAirwayEndFix(0, "CHARLIE")

	if ec := r.DeleteLegGroup(0); !ec.Ok() {
		t.Fatalf("DeleteLegGroup(airway) = %v", ec)
	}
	if len(r.LegGroups) != 0 {
		t.Fatalf("LegGroups = %+v, want empty", r.LegGroups)
	}
}

// TestSetSIDTransRejectsUnknownTransition: with a SID installed, asking
// for a transition name the SID does not have fails.
func TestSetSIDTransRejectsUnknownTransition(t *testing.T) {
	r := newTestRoute(t)
	r.SetDepArpt("KAAA")
	r.SetDepRwy("09")
	if ec := r.SetSID("DEP1"); !ec.Ok() {
		t.Fatalf("SetSID = %v", ec)
	}
	if ec := r.SetSIDTrans("NOPE"); ec.Ok() {
		t.Fatalf("SetSIDTrans(unknown transition) should fail, got OK")
	}
}

func TestSetApprTransRequiresFinal(t *testing.T) {
	r := newTestRoute(t)
	r.SetArrArpt("KBBB")
	if ec := r.SetApprTrans("ANY"); ec.Ok() {
		t.Fatalf("SetApprTrans without a Final selected should fail, got OK")
	}
}

func TestInsertAirwayUnknownNameFails(t *testing.T) {
	r := newTestRoute(t)
	alpha := r.Navdb().FindWaypoints("ALPHA")[0]
	if ec := r.InsertAirway(0, "Z9", alpha); ec.Ok() {
		t.Fatalf("InsertAirway(unknown airway) should fail, got OK")
	}
}

func TestSetAirwayEndFixUnreachableFails(t *testing.T) {
	r := newTestRoute(t)
	alpha := r.Navdb().FindWaypoints("ALPHA")[0]
	if ec := r.InsertAirway(0, "J1", alpha); !ec.Ok() {
		t.Fatalf("InsertAirway = %v", ec)
	}
	if ec := r.SetAirwayEndFix(0, "GOLF"); ec.Ok() {
		t.Fatalf("SetAirwayEndFix to a fix not on J1 should fail, got OK")
	}
}
