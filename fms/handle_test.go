// fms/handle_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fms

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openfms/fmc-core/navdb"
	"github.com/openfms/fmc-core/wmm"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
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

func testPerfFile(t *testing.T, dir string) string {
	t.Helper()
	name := "A320.perf"
	writeFile(t, dir, name,
		"VERSION,1\nACFTTYPE,A320\nENGTYPE,CFM56-5B\nMAXTHR,120000\nREFZFW,42000\n"+
			"MAXFUEL,19000\nMAXGW,78000\n"+
			"THRDENS,2\n0.8,0.8\n1.3,1.2\n"+
			"THRISA,2\n-20,1.1\n20,0.85\n"+
			"SFCTHR,2\n0,0.35\n1,0.4\n"+
			"SFCDENS,2\n0.8,0.3\n1.3,0.45\n"+
			"SFCISA,2\n-20,0.32\n20,0.4\n")
	return filepath.Join(dir, name)
}

func TestNewHandle(t *testing.T) {
	db := testDB(t)
	m, err := wmm.NewConstant(2020, 2021)
	if err != nil {
		t.Fatal(err)
	}
	h := New(db, m, 2021)

	if h.ID.String() == "" {
		t.Error("expected a non-empty ID")
	}
	if h.Route == nil {
		t.Fatal("expected a fresh empty Route")
	}
	if h.Perf != nil {
		t.Error("expected Perf to be nil before LoadPerf")
	}
}

func TestHandleLoadPerf(t *testing.T) {
	db := testDB(t)
	m, _ := wmm.NewConstant(2020, 2021)
	h := New(db, m, 2021)

	path := testPerfFile(t, t.TempDir())
	if err := h.LoadPerf(path); err != nil {
		t.Fatal(err)
	}
	if h.Perf == nil || h.Perf.AcftType != "A320" {
		t.Fatalf("unexpected Perf after LoadPerf: %+v", h.Perf)
	}
}

func TestHandleLoadPerfRejectsMissingFile(t *testing.T) {
	db := testDB(t)
	m, _ := wmm.NewConstant(2020, 2021)
	h := New(db, m, 2021)

	if err := h.LoadPerf(filepath.Join(t.TempDir(), "missing.perf")); err == nil {
		t.Fatal("expected an error loading a nonexistent performance file")
	}
}

func TestHandleNavdbCurrent(t *testing.T) {
	db := testDB(t)
	m, _ := wmm.NewConstant(2020, 2021)
	h := New(db, m, 2021)

	if h.NavdbCurrent(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected NavdbCurrent to be false well past the cycle's validity window")
	}
	if !h.NavdbCurrent(time.Date(2015, 1, 20, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected NavdbCurrent to be true inside the cycle's validity window")
	}
}

func TestHandleDumpLoadRouteRoundTrip(t *testing.T) {
	db := testDB(t)
	m, _ := wmm.NewConstant(2020, 2021)
	h := New(db, m, 2021)

	origID := h.Route.ID
	data, err := h.DumpRoute()
	if err != nil {
		t.Fatal(err)
	}

	h.NewRoute() // discard and replace, to prove LoadRoute really restores
	if err := h.LoadRoute(data); err != nil {
		t.Fatal(err)
	}
	if h.Route.ID != origID {
		t.Errorf("restored route ID = %v, want %v", h.Route.ID, origID)
	}
}
