// route/connect_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"testing"
)

// TestInsertAirwayIntersection: two airways (J1
// from ALPHA and J2 from DELTA) that cross at the shared fix BRAVO connect
// directly, with the connection algorithm trimming each to the
// intersection rather than leaving a Disco between them.
func TestInsertAirwayIntersection(t *testing.T) {
	r := newTestRoute(t)

	alpha := r.Navdb().FindWaypoints("ALPHA")[0]
	if ec := r.InsertAirway(0, "J1", alpha); !ec.Ok() {
		t.Fatalf("InsertAirway(J1) = %v", ec)
	}
	if ec := r.SetAirwayEndFix(0, "CHARLIE"); !ec.Ok() {
		t.Fatalf("SetAirwayEndFix(J1, CHARLIE) = %v", ec)
	}

	delta := r.Navdb().FindWaypoints("DELTA")[0]
	if ec := r.InsertAirway(1, "J2", delta); !ec.Ok() {
		t.Fatalf("InsertAirway(J2) = %v", ec)
	}
	if ec := r.SetAirwayEndFix(1, "ECHO"); !ec.Ok() {
		t.Fatalf("SetAirwayEndFix(J2, ECHO) = %v", ec)
	}

	if len(r.LegGroups) != 2 {
		t.Fatalf("LegGroups = %+v, want 2 (no Disco between intersecting airways)", r.LegGroups)
	}
	j1, j2 := r.LegGroups[0], r.LegGroups[1]
	if j1.EndWpt.Name != "BRAVO" || j2.StartWpt.Name != "BRAVO" {
		t.Fatalf("expected both airways trimmed to BRAVO: j1.EndWpt=%+v j2.StartWpt=%+v", j1.EndWpt, j2.StartWpt)
	}
	if j2.EndWpt.Name != "ECHO" {
		t.Errorf("J2 end = %+v, want ECHO", j2.EndWpt)
	}
}

// TestConnectInsertsDiscoOnUnrelatedProcs exercises the failure side of
// the connection matrix: a SID and a STAR that belong to different
// families and share no fix cannot be reconciled by connectToProc, so a
// single Disco is landed between them rather than silently leaving the
// leg groups adjacent with a lateral gap.
func TestConnectInsertsDiscoOnUnrelatedProcs(t *testing.T) {
	r := newTestRoute(t)
	r.SetDepArpt("KAAA")
	r.SetArrArpt("KBBB")
	r.SetDepRwy("09")
	if ec := r.SetSID("DEP1"); !ec.Ok() {
		t.Fatalf("SetSID = %v", ec)
	}
	if ec := r.SetSTAR("ARR2"); !ec.Ok() {
		t.Fatalf("SetSTAR(ARR2) = %v", ec)
	}

	if len(r.LegGroups) != 3 || r.LegGroups[1].Kind != LegGroupDisco {
		t.Fatalf("LegGroups = %+v, want [SID, Disco, STAR]", r.LegGroups)
	}
	if r.LegGroups[0].Proc.Name != "DEP1" || r.LegGroups[2].Proc.Name != "ARR2" {
		t.Fatalf("unexpected proc ordering: %+v", r.LegGroups)
	}
}

func TestBypassReconnectsNeighbors(t *testing.T) {
	r := newTestRoute(t)
	alpha := r.Navdb().FindWaypoints("ALPHA")[0]
	bravo := r.Navdb().FindWaypoints("BRAVO")[0]
	charlie := r.Navdb().FindWaypoints("CHARLIE")[0]

	r.InsertDirect(0, alpha)
	r.InsertDirect(1, bravo)
	r.InsertDirect(2, charlie)
	if len(r.LegGroups) != 3 {
		t.Fatalf("setup: LegGroups = %+v", r.LegGroups)
	}

	if ec := r.DeleteLegGroup(1); !ec.Ok() {
		t.Fatalf("DeleteLegGroup(1) = %v", ec)
	}
	if len(r.LegGroups) != 2 {
		t.Fatalf("LegGroups after delete = %+v, want 2", r.LegGroups)
	}
	// The remaining CHARLIE Direct group should have been reconnected to
	// start from ALPHA's end fix.
	if r.LegGroups[1].StartWpt.Name != "ALPHA" {
		t.Errorf("surviving group StartWpt = %+v, want ALPHA after bypass reconnect", r.LegGroups[1].StartWpt)
	}
}

func TestDeleteLegGroupRefusesProc(t *testing.T) {
	r := newTestRoute(t)
	r.SetDepArpt("KAAA")
	r.SetDepRwy("09")
	r.SetSID("DEP1")
	if ec := r.DeleteLegGroup(0); ec.Ok() {
		t.Fatalf("DeleteLegGroup on a Proc leg group should be refused")
	}
}
