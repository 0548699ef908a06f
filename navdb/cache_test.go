// navdb/cache_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdb

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestNavdb(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, "Airports.txt",
		"X,1501,07JAN15FEB15,\n"+
			"A,KJFK,JOHN F KENNEDY INTL,40.6398,-73.7789,13,18000,180,31,0\n"+
			"R,04L,39,14511,150,1,109100000,36,40.6218,-73.7695,13,0,0,0,3.0\n")
	writeFile(t, dir, "Waypoints.txt", "ALPHA,40.0,-80.0,US\n")
	writeFile(t, dir, "Navaids.txt", "OKC,OKLAHOMA CITY,113.0,,0,,35.3,-97.5,1300,US,\n")
	writeFile(t, dir, "ATS.txt",
		"A,J70,1\n"+
			"S,ALPHA,40.0,-80.0,OKC,35.3,-97.5,,,\n")
	if err := os.MkdirAll(filepath.Join(dir, "Proc"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "Proc"), "KJFK.txt", "SID,TEST1\nIF,ALPHA\nDF,OKC\n")
}

func TestLoadCachedMissThenHit(t *testing.T) {
	dir := t.TempDir()
	writeTestNavdb(t, dir)

	cache, err := OpenCache(filepath.Join(t.TempDir(), "navdb.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	db1, hit, err := LoadCached(dir, cache)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Fatal("first LoadCached should be a cache miss")
	}
	if db1.Cycle.Cycle != "1501" {
		t.Fatalf("cycle = %s", db1.Cycle.Cycle)
	}

	db2, hit, err := LoadCached(dir, cache)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatal("second LoadCached should be a cache hit")
	}
	if db2.Cycle.Cycle != db1.Cycle.Cycle {
		t.Errorf("cached cycle mismatch: %s vs %s", db2.Cycle.Cycle, db1.Cycle.Cycle)
	}

	ap, ok := db2.FindAirport("KJFK")
	if !ok || len(ap.Rwys) != 1 || ap.Rwys[0].ID != "04L" {
		t.Errorf("cached airport mismatch: %+v ok=%v", ap, ok)
	}
	if len(db2.FindWaypoints("ALPHA")) != 1 {
		t.Errorf("cached waypoint ALPHA missing")
	}
	if len(db2.FindAirways("J70")) != 1 {
		t.Errorf("cached airway J70 missing")
	}
	if w, ok := db2.LookupAirwayIntersection("J70", db2.FindWaypoints("ALPHA")[0], "J70"); ok {
		t.Errorf("unexpected self-intersection result %+v", w)
	}
}

func TestLoadCachedNilCacheAlwaysMisses(t *testing.T) {
	dir := t.TempDir()
	writeTestNavdb(t, dir)

	db, hit, err := LoadCached(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Fatal("LoadCached with a nil cache should never report a hit")
	}
	if db.Cycle.Cycle != "1501" {
		t.Fatalf("cycle = %s", db.Cycle.Cycle)
	}
}

func TestLoadCachedStaleAiracForcesReparse(t *testing.T) {
	dir := t.TempDir()
	writeTestNavdb(t, dir)

	cache, err := OpenCache(filepath.Join(t.TempDir(), "navdb.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	if _, _, err := LoadCached(dir, cache); err != nil {
		t.Fatal(err)
	}

	// A new AIRAC cycle at the same source path must not be served from
	// the stale cache row.
	writeFile(t, dir, "Airports.txt",
		"X,1502,15FEB15MAR15,\n"+
			"A,KJFK,JOHN F KENNEDY INTL,40.6398,-73.7789,13,18000,180,31,0\n"+
			"R,04L,39,14511,150,1,109100000,36,40.6218,-73.7695,13,0,0,0,3.0\n")

	db, hit, err := LoadCached(dir, cache)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Fatal("a changed AIRAC cycle must force a cache miss")
	}
	if db.Cycle.Cycle != "1502" {
		t.Errorf("cycle = %s, want 1502", db.Cycle.Cycle)
	}
}
