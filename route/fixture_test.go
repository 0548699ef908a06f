// route/fixture_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openfms/fmc-core/navdb"
	"github.com/openfms/fmc-core/wmm"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

// buildTestDB assembles a small, self-consistent navigation database:
// two airports (KAAA departing, KBBB arriving) each with two runways, a
// SID restricted to one specific runway at KAAA, a STAR and an ILS final
// at KBBB, and two airways (J1, J2) crossing at the shared fix BRAVO.
func buildTestDB(t *testing.T) *navdb.DB {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "Airports.txt",
		"X,1501,07JAN15FEB15,\n"+
			"A,KAAA,ALPHA INTL,40.00,-80.10,500,18000,180,9,0\n"+
			"R,09,90,10000,150,0,0,0,40.0000,-80.1500,500,0,0,0,3.0\n"+
			"R,18,180,10000,150,0,0,0,40.0000,-80.0500,500,0,0,0,3.0\n"+
			"A,KBBB,BRAVO INTL,41.20,-81.20,600,18000,180,27,0\n"+
			"R,27,270,10000,150,0,0,0,41.2000,-81.1500,600,0,0,0,3.0\n")
	writeFile(t, dir, "Waypoints.txt",
		"ALPHA,40.10,-80.10,US\n"+
			"BRAVO,40.20,-80.20,US\n"+
			"CHARLIE,40.30,-80.30,US\n"+
			"DELTA,40.25,-80.05,US\n"+
			"ECHO,40.15,-80.35,US\n"+
			"FOXX,41.00,-81.00,US\n"+
			"GOLF,41.05,-81.05,US\n"+
			"MEET,40.60,-80.60,US\n")
	writeFile(t, dir, "Navaids.txt", "OKC,OKLAHOMA CITY,113.0,,0,,35.3,-97.5,1300,US,\n")
	writeFile(t, dir, "ATS.txt",
		"A,J1,2\n"+
			"S,ALPHA,40.10,-80.10,BRAVO,40.20,-80.20,,,\n"+
			"S,BRAVO,40.20,-80.20,CHARLIE,40.30,-80.30,,,\n"+
			"A,J2,2\n"+
			"S,DELTA,40.25,-80.05,BRAVO,40.20,-80.20,,,\n"+
			"S,BRAVO,40.20,-80.20,ECHO,40.15,-80.35,,,\n")

	procDir := filepath.Join(dir, "Proc")
	if err := os.MkdirAll(procDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, procDir, "KAAA.txt",
		"SID,DEP1,09\n"+
			"IF,ALPHA\n"+
			"DF,MEET\n")
	writeFile(t, procDir, "KBBB.txt",
		"STAR,ARR1,ALL\n"+
			"IF,MEET\n"+
			"DF,GOLF\n"+
			"\n"+
			"STAR,ARR2\n"+
			"IF,FOXX\n"+
			"DF,GOLF\n"+
			"\n"+
			"FINAL,ILS27,27\n"+
			"IF,GOLF\n")

	db, err := navdb.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func testWmm(t *testing.T) wmm.Model {
	t.Helper()
	m, err := wmm.NewConstant(2020, 2024)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func newTestRoute(t *testing.T) *Route {
	t.Helper()
	return New(buildTestDB(t), testWmm(t), 2024)
}
