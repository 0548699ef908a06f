// navdb/navdb_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseAiracHeader(t *testing.T) {
	c, err := parseAiracHeader("1501", "07JAN15FEB15")
	if err != nil {
		t.Fatal(err)
	}
	if c.ValidFrom.Year() != 2015 || c.ValidFrom.Month() != 1 || c.ValidFrom.Day() != 7 {
		t.Errorf("ValidFrom = %v", c.ValidFrom)
	}
	if c.ValidTo.Year() != 2015 || c.ValidTo.Month() != 2 || c.ValidTo.Day() != 15 {
		t.Errorf("ValidTo = %v", c.ValidTo)
	}

	// Reverse calendar order: start year decremented.
	c2, err := parseAiracHeader("1513", "07DEC15JAN15")
	if err != nil {
		t.Fatal(err)
	}
	if c2.ValidFrom.Year() != 2014 {
		t.Errorf("expected decremented start year, got %v", c2.ValidFrom)
	}
}

func TestParseWaypoints(t *testing.T) {
	r := strings.NewReader("ALPHA,40.0,-80.0,US\nBRAVO,41.0,-81.0,US\n,skip,this,line\n")
	wpts, err := ParseWaypoints(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(wpts["ALPHA"]) != 1 || wpts["ALPHA"][0].Pos.Lat != 40.0 {
		t.Errorf("ALPHA = %+v", wpts["ALPHA"])
	}
	if _, ok := wpts[""]; ok {
		t.Errorf("blank-prefixed line should have been skipped")
	}
}

func TestParseNavaidsClassifiesBand(t *testing.T) {
	r := strings.NewReader(
		"OKC,OKLAHOMA CITY,113.0,,0,,35.3,-97.5,1300,US,\n" +
			"ABC,TEST NDB,350,,0,,35.3,-97.5,1300,US,\n")
	navs, err := ParseNavaids(r)
	if err != nil {
		t.Fatal(err)
	}
	if navs["OKC"][0].Kind != NavaidVOR {
		t.Errorf("OKC kind = %v, want VOR", navs["OKC"][0].Kind)
	}
	if navs["ABC"][0].Kind != NavaidNDB {
		t.Errorf("ABC kind = %v, want NDB", navs["ABC"][0].Kind)
	}
}

func TestParseAirwaysChaining(t *testing.T) {
	r := strings.NewReader(
		"A,J70,2\n" +
			"S,ALPHA,40.0,-80.0,BRAVO,41.0,-81.0,,,\n" +
			"S,BRAVO,41.0,-81.0,CHARLIE,42.0,-82.0,,,\n")
	awys, err := ParseAirways(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(awys) != 1 || len(awys[0].Segs) != 2 {
		t.Fatalf("awys = %+v", awys)
	}
	if awys[0].EndWpt().Name != "CHARLIE" {
		t.Errorf("end wpt = %s", awys[0].EndWpt().Name)
	}
}

func TestParseAirwaysRejectsBrokenChain(t *testing.T) {
	r := strings.NewReader(
		"A,J70,2\n" +
			"S,ALPHA,40.0,-80.0,BRAVO,41.0,-81.0,,,\n" +
			"S,ZULU,0,0,CHARLIE,42.0,-82.0,,,\n")
	if _, err := ParseAirways(r); err == nil {
		t.Fatal("expected chaining error")
	}
}

func TestParseProcSegLineAndBadBlockIsolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "KJFK.txt",
		"SID,TEST1\n"+
			"IF,ALPHA\n"+
			"DF,BRAVO\n"+
			"\n"+
			"SID,BROKEN1\n"+
			"ZZ,bad,line\n"+
			"\n"+
			"STAR,TEST2\n"+
			"IF,CHARLIE\n")

	f, err := os.Open(filepath.Join(dir, "KJFK.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	procs, errs := ParseProcFile(f, nil)
	if len(errs) != 1 {
		t.Fatalf("errs = %v", errs)
	}
	if len(procs) != 2 {
		t.Fatalf("expected 2 surviving procs, got %d: %+v", len(procs), procs)
	}
	for _, p := range procs {
		if p.Name == "BROKEN1" {
			t.Fatalf("broken procedure should have been rejected")
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
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

	db, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if db.Cycle.Cycle != "1501" {
		t.Errorf("cycle = %s", db.Cycle.Cycle)
	}
	ap, ok := db.FindAirport("KJFK")
	if !ok {
		t.Fatal("KJFK not found")
	}
	if len(ap.Rwys) != 1 || ap.Rwys[0].ID != "04L" {
		t.Errorf("rwys = %+v", ap.Rwys)
	}
	if len(ap.Procs) != 1 || ap.Procs[0].Name != "TEST1" {
		t.Errorf("procs = %+v", ap.Procs)
	}
	if len(db.FindWaypoints("ALPHA")) != 1 {
		t.Errorf("ALPHA not found")
	}
	if _, ok := db.FindNavaid("OKC"); !ok {
		t.Errorf("OKC navaid not found")
	}
	if len(db.FindAirways("J70")) != 1 {
		t.Errorf("J70 not found")
	}
}
