// decode/decode_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package decode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openfms/fmc-core/geo"
	"github.com/openfms/fmc-core/navdb"
	"github.com/openfms/fmc-core/wmm"
)

func approxEq(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func testDB(t *testing.T) *navdb.DB {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "Airports.txt", "X,1501,07JAN15FEB15,\nA,KSEA,SEATTLE,47.45,-122.31,433,18000,180,34,0\n")
	writeFile(t, dir, "Waypoints.txt", "OLM,46.97,-123.00,US\n")
	writeFile(t, dir, "Navaids.txt", "SEA,SEATTLE VOR,116.8,,0,,47.435,-122.309,0,US,\n")
	writeFile(t, dir, "ATS.txt", "")
	db, err := navdb.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestQuadrant5(t *testing.T) {
	cases := []struct {
		in       string
		lat, lon float64
	}{
		{"5010N", 50, -10},
		{"50N10", 50, -110},
		{"5010E", 50, 10},
		{"50E10", 50, 110},
		{"5010W", -50, -10},
		{"50W10", -50, -110},
		{"5010S", -50, 10},
		{"50S10", -50, 110},
	}
	for _, c := range cases {
		pos, ok := tryQuadrant5(c.in)
		if !ok {
			t.Errorf("%s: no match", c.in)
			continue
		}
		if !approxEq(pos.Lat, c.lat, 1e-9) || !approxEq(pos.Lon, c.lon, 1e-9) {
			t.Errorf("%s: got %+v, want {%v %v}", c.in, pos, c.lat, c.lon)
		}
	}
}

func TestGeoLong(t *testing.T) {
	pos, ok := tryGeoLong("N47W008")
	if !ok || !approxEq(pos.Lat, 47, 1e-9) || !approxEq(pos.Lon, -8, 1e-9) {
		t.Errorf("got %+v, ok=%v", pos, ok)
	}
}

func TestGeoDetailed(t *testing.T) {
	pos, ok := tryGeoDetailed("N4715.4W00803.4")
	if !ok {
		t.Fatal("no match")
	}
	wantLat := 47 + 15.4/0.6/100
	wantLon := -(8 + 3.4/0.6/100)
	if !approxEq(pos.Lat, wantLat, 1e-6) || !approxEq(pos.Lon, wantLon, 1e-6) {
		t.Errorf("got %+v, want {%v %v}", pos, wantLat, wantLon)
	}
}

func TestDecodeRadialDME(t *testing.T) {
	db := testDB(t)
	m, _ := wmm.NewConstant(2015, 2015)
	seq := 0
	next := func() int { v := seq; seq++; return v }

	wpts, isSeq, err := Decode("SEA330/10", db, m, 2015, nil, next)
	if err != nil {
		t.Fatal(err)
	}
	if isSeq {
		t.Errorf("radial/DME is not a sequence")
	}
	if len(wpts) != 1 {
		t.Fatalf("wpts = %+v", wpts)
	}
	if wpts[0].Name != "SEA00" {
		t.Errorf("name = %s, want SEA00", wpts[0].Name)
	}
	if seq != 1 {
		t.Errorf("seq = %d, want 1 (incremented once)", seq)
	}

	navSEA, _ := db.FindNavaid("SEA")
	gotDist := geo.GreatCircleDistance(navSEA.Pos.To2(), wpts[0].Pos)
	wantDist := geo.NMToMeters(10)
	if !approxEq(gotDist, wantDist, 50) {
		t.Errorf("displaced distance = %v m, want ~%v m", gotDist, wantDist)
	}
}

func TestDecodeBareName(t *testing.T) {
	db := testDB(t)
	m, _ := wmm.NewConstant(2015, 2015)
	seq := 0
	next := func() int { v := seq; seq++; return v }

	wpts, _, err := Decode("OLM", db, m, 2015, nil, next)
	if err != nil {
		t.Fatal(err)
	}
	if len(wpts) != 1 || wpts[0].Name != "OLM" {
		t.Errorf("wpts = %+v", wpts)
	}

	wpts, _, err = Decode("KSEA", db, m, 2015, nil, next)
	if err != nil {
		t.Fatal(err)
	}
	if len(wpts) != 1 {
		t.Errorf("KSEA airport lookup failed: %+v", wpts)
	}
}

func TestDecodeNoMatch(t *testing.T) {
	db := testDB(t)
	m, _ := wmm.NewConstant(2015, 2015)
	wpts, _, err := Decode("NOPE99X", db, m, 2015, nil, func() int { return 0 })
	if err != nil {
		t.Fatal(err)
	}
	if len(wpts) != 0 {
		t.Errorf("expected no candidates, got %+v", wpts)
	}
}
