// navdb/db.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdb

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// DB is the immutable, read-only navigation database (C3): airways indexed
// by name and by endpoint fix, waypoints by name, navaids by ID, airports
// with runways and procedures. Safe for concurrent reads once Load returns.
type DB struct {
	Cycle AiracCycle

	waypointsByName map[string][]Waypoint
	navaidsByID     map[string][]Navaid
	airports        map[string]*Airport

	awysByName map[string][]Airway
	awysByFix  map[string][]int // index into allAwys, keyed by any waypoint name on the airway
	allAwys    []Airway

	// airwayIsectCache memoizes airway-pair endpoint intersection lookups
	// (the route connection algorithm repeatedly probes the same airway
	// pairs during interactive editing).
	airwayIsectCache *lru.Cache[string, Waypoint]
	isectMu          sync.Mutex
}

// Load reads Airports.txt, Waypoints.txt, Navaids.txt, ATS.txt and the
// Proc/ subdirectory from dir and assembles an immutable DB. The four
// top-level files are independent read-only parses and are loaded
// concurrently via errgroup; procedures are attached to airports only
// after all four complete, so the DB is never observed partially built.
func Load(dir string) (*DB, error) {
	var (
		waypoints map[string][]Waypoint
		navaids   map[string][]Navaid
		airports  map[string]*Airport
		awys      []Airway
		cycle     AiracCycle
	)

	var g errgroup.Group
	g.Go(func() error {
		f, err := os.Open(filepath.Join(dir, "Waypoints.txt"))
		if err != nil {
			return err
		}
		defer f.Close()
		var err2 error
		waypoints, err2 = ParseWaypoints(f)
		return err2
	})
	g.Go(func() error {
		f, err := os.Open(filepath.Join(dir, "Navaids.txt"))
		if err != nil {
			return err
		}
		defer f.Close()
		var err2 error
		navaids, err2 = ParseNavaids(f)
		return err2
	})
	g.Go(func() error {
		f, err := os.Open(filepath.Join(dir, "Airports.txt"))
		if err != nil {
			return err
		}
		defer f.Close()
		var err2 error
		airports, cycle, err2 = ParseAirports(f)
		return err2
	})
	g.Go(func() error {
		f, err := os.Open(filepath.Join(dir, "ATS.txt"))
		if err != nil {
			return err
		}
		defer f.Close()
		var err2 error
		awys, err2 = ParseAirways(f)
		return err2
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("navdb: %w", err)
	}

	if err := LoadProcDir(filepath.Join(dir, "Proc"), airports, waypoints, navaids); err != nil {
		return nil, fmt.Errorf("navdb: %w", err)
	}

	cache, _ := lru.New[string, Waypoint](1024)
	db := &DB{
		Cycle:            cycle,
		waypointsByName:  waypoints,
		navaidsByID:      navaids,
		airports:         airports,
		allAwys:          awys,
		awysByName:       make(map[string][]Airway),
		awysByFix:        make(map[string][]int),
		airwayIsectCache: cache,
	}
	for i, a := range awys {
		db.awysByName[a.Name] = append(db.awysByName[a.Name], a)
		seen := make(map[string]bool)
		for _, s := range a.Segs {
			for _, w := range [2]Waypoint{s.From, s.To} {
				if !seen[w.Name] {
					seen[w.Name] = true
					db.awysByFix[w.Name] = append(db.awysByFix[w.Name], i)
				}
			}
		}
	}
	return db, nil
}

// FindWaypoints returns every waypoint registered under name.
func (db *DB) FindWaypoints(name string) []Waypoint { return db.waypointsByName[name] }

// FindNavaid returns the navaid with the given ID, if any.
func (db *DB) FindNavaid(id string) (Navaid, bool) {
	if navs := db.navaidsByID[id]; len(navs) > 0 {
		return navs[0], true
	}
	return Navaid{}, false
}

// FindNavaids returns every navaid registered under id.
func (db *DB) FindNavaids(id string) []Navaid { return db.navaidsByID[id] }

// FindAirport returns the airport with the given ICAO, if any.
func (db *DB) FindAirport(icao string) (*Airport, bool) {
	a, ok := db.airports[icao]
	return a, ok
}

// FindAirways returns every Airway object registered under name
// (bidirectional airways appear as two distinct objects with reversed
// segment order).
func (db *DB) FindAirways(name string) []Airway { return db.awysByName[name] }

// AirwaysThroughFix returns every airway passing through a waypoint named
// fixName.
func (db *DB) AirwaysThroughFix(fixName string) []Airway {
	var out []Airway
	for _, idx := range db.awysByFix[fixName] {
		out = append(out, db.allAwys[idx])
	}
	return out
}

// FindAirwaySegment returns the Airway named name whose segment sequence,
// starting from startFix, reaches endFixName, trimmed to [startFix,
// endFixName], or false if no such airway exists.
func (db *DB) FindAirwaySegment(name string, startFix Waypoint, endFixName string) (Airway, bool) {
	for _, a := range db.awysByName[name] {
		if trimmed, ok := trimAirway(a, startFix, endFixName); ok {
			return trimmed, true
		}
	}
	return Airway{}, false
}

func trimAirway(a Airway, startFix Waypoint, endFixName string) (Airway, bool) {
	wpts := a.Waypoints()
	startIdx := -1
	for i, w := range wpts {
		if w.Eq(startFix) {
			startIdx = i
			break
		}
	}
	if startIdx == -1 {
		return Airway{}, false
	}
	endIdx := -1
	for i := startIdx; i < len(wpts); i++ {
		if wpts[i].Name == endFixName {
			endIdx = i
			break
		}
	}
	if endIdx == -1 || endIdx <= startIdx {
		return Airway{}, false
	}
	return Airway{Name: a.Name, Segs: a.Segs[startIdx:endIdx]}, true
}

// cacheKey builds a stable key for the airway-pair intersection memo.
func cacheKey(awy1, fromFix, awy2 string) string {
	return awy1 + "|" + fromFix + "|" + awy2
}

// LookupAirwayIntersection finds a waypoint shared by airway awy1Name
// (starting from startFix) and airway awy2Name, memoized in an LRU cache
// since the connection algorithm re-probes the same pairs
// repeatedly while a pilot edits a route.
func (db *DB) LookupAirwayIntersection(awy1Name string, startFix Waypoint, awy2Name string) (Waypoint, bool) {
	key := cacheKey(awy1Name, startFix.Name, awy2Name)
	db.isectMu.Lock()
	defer db.isectMu.Unlock()
	if w, ok := db.airwayIsectCache.Get(key); ok {
		return w, !w.IsNull()
	}

	w, ok := db.lookupAirwayIntersectionUncached(awy1Name, startFix, awy2Name)
	if ok {
		db.airwayIsectCache.Add(key, w)
	} else {
		db.airwayIsectCache.Add(key, Waypoint{})
	}
	return w, ok
}

func (db *DB) lookupAirwayIntersectionUncached(awy1Name string, startFix Waypoint, awy2Name string) (Waypoint, bool) {
	for _, a1 := range db.awysByName[awy1Name] {
		wpts1 := a1.Waypoints()
		startIdx := -1
		for i, w := range wpts1 {
			if w.Eq(startFix) {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			continue
		}
		for _, a2 := range db.awysByName[awy2Name] {
			set2 := make(map[string]bool)
			for _, w := range a2.Waypoints() {
				set2[w.Name] = true
			}
			for i := startIdx; i < len(wpts1); i++ {
				if set2[wpts1[i].Name] {
					return wpts1[i], true
				}
			}
		}
	}
	return Waypoint{}, false
}

// WptOnAwy reports whether wpt lies anywhere on the named airway.
func (db *DB) WptOnAwy(wpt Waypoint, awyName string) bool {
	for _, a := range db.awysByName[awyName] {
		for _, w := range a.Waypoints() {
			if w.Eq(wpt) {
				return true
			}
		}
	}
	return false
}
