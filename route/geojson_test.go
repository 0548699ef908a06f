// route/geojson_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestGeoJSONOneFeaturePerSeg(t *testing.T) {
	r := newTestRoute(t)
	alpha := r.Navdb().FindWaypoints("ALPHA")[0]
	charlie := r.Navdb().FindWaypoints("CHARLIE")[0]
	r.InsertDirect(0, alpha)
	r.InsertDirect(1, charlie)
	r.BuildTrajectory()

	fc := r.GeoJSON()
	if len(fc.Features) != len(r.Segs) {
		t.Fatalf("GeoJSON produced %d features, want %d (one per seg)", len(fc.Features), len(r.Segs))
	}
	for i, f := range fc.Features {
		if f.Properties["seg_index"] != i {
			t.Errorf("feature %d: seg_index = %v, want %d", i, f.Properties["seg_index"], i)
		}
		if _, ok := f.Geometry.(orb.LineString); !ok {
			t.Errorf("feature %d: geometry type = %T, want orb.LineString", i, f.Geometry)
		}
	}
}
