// route/snapshot_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"testing"

	"github.com/openfms/fmc-core/geo"
	"github.com/openfms/fmc-core/navdb"
	"github.com/openfms/fmc-core/wmm"
)

func testRouteWithDirect(t *testing.T) *Route {
	t.Helper()
	m, err := wmm.NewConstant(2020, 2021)
	if err != nil {
		t.Fatal(err)
	}
	r := New(&navdb.DB{}, m, 2021)

	olm := navdb.Waypoint{Name: "OLM", Pos: geo.Geo2{Lat: 46.97, Lon: -123.0}}
	g := &LegGroup{Kind: LegGroupDirect, EndWpt: olm}
	leg := &Leg{Seg: navdb.NewDFLeg(olm), Group: g}
	g.Legs = []*Leg{leg}
	r.LegGroups = []*LegGroup{g}
	r.Legs = []*Leg{leg}
	r.wptSeqCounter = 3

	return r
}

func TestSnapshotRoundTrip(t *testing.T) {
	r := testRouteWithDirect(t)

	data, err := r.MarshalSnapshot()
	if err != nil {
		t.Fatal(err)
	}

	m, _ := wmm.NewConstant(2020, 2021)
	r2, err := UnmarshalSnapshot(data, &navdb.DB{}, m, 2021)
	if err != nil {
		t.Fatal(err)
	}

	if r2.ID != r.ID {
		t.Errorf("ID = %v, want %v", r2.ID, r.ID)
	}
	if got := r2.NextWptSeq(); got != 3 {
		t.Errorf("wptSeqCounter not restored: NextWptSeq() = %v, want 3", got)
	}
	if len(r2.LegGroups) != 1 || r2.LegGroups[0].Kind != LegGroupDirect {
		t.Fatalf("LegGroups not restored: %+v", r2.LegGroups)
	}
	if got := r2.LegGroups[0].EndFix(); got.Name != "OLM" {
		t.Errorf("EndFix = %+v, want OLM", got)
	}
	if len(r2.Legs) != 1 || r2.Legs[0].Seg.Type != navdb.SegDF {
		t.Fatalf("Legs not restored: %+v", r2.Legs)
	}
	if r2.Legs[0].Group != r2.LegGroups[0] {
		t.Error("Leg.Group back-pointer not reattached after decoding")
	}
	if !r2.SegsDirty() {
		t.Error("a restored route must be marked dirty so BuildTrajectory recomputes it")
	}
}
