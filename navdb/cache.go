// navdb/cache.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdb

import (
	"bufio"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// Cache is an optional sqlite-backed store of already-parsed DBs, keyed
// by source directory and AIRAC cycle. Load itself always re-parses the
// flat text files; Cache exists because a navdb is immutable once built and the
// same AIRAC cycle is typically loaded many times across FMS process
// restarts during a 28-day validity window, so the on-disk parse can be
// skipped once it has been done.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if necessary) a sqlite database at path for use
// as a navdb parse cache.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("navdb: opening cache: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS navdb_cache (
	source_dir TEXT PRIMARY KEY,
	cycle      TEXT NOT NULL,
	payload    BLOB NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("navdb: creating cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error { return c.db.Close() }

// cachePayload is the msgpack-encoded cache row body: every exported field
// of DB's unexported indices, re-derivable into a full DB without
// re-parsing (peer of route/snapshot.go's Snapshot, same reasoning: the
// cache must carry plain data, not the lru.Cache/sync.Mutex DB itself
// holds).
type cachePayload struct {
	Waypoints map[string][]Waypoint
	Navaids   map[string][]Navaid
	Airports  map[string]*Airport
	Airways   []Airway
}

func newDBFromCache(cycle AiracCycle, p cachePayload) *DB {
	db := &DB{
		Cycle:           cycle,
		waypointsByName: p.Waypoints,
		navaidsByID:     p.Navaids,
		airports:        p.Airports,
		allAwys:         p.Airways,
		awysByName:      make(map[string][]Airway),
		awysByFix:       make(map[string][]int),
	}
	db.airwayIsectCache, _ = lru.New[string, Waypoint](1024)
	for i, a := range db.allAwys {
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
	return db
}

// peekAiracCycle reads only as far as Airports.txt's `X,<cycle>,<validity>`
// header line, without parsing the rest of the file, so LoadCached can
// cheaply decide whether a cache hit is still valid.
func peekAiracCycle(dir string) (AiracCycle, error) {
	f, err := os.Open(filepath.Join(dir, "Airports.txt"))
	if err != nil {
		return AiracCycle{}, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		f := splitCSV(line)
		if f[0] == "X" && len(f) >= 3 {
			return parseAiracHeader(f[1], f[2])
		}
		// Any non-blank, non-header line before the header line itself
		// means there is no header to peek; fall through to a full Load.
		break
	}
	return AiracCycle{}, fmt.Errorf("navdb: no AIRAC header in %s", filepath.Join(dir, "Airports.txt"))
}

// LoadCached behaves like Load, except that it first consults cache (which
// may be nil, meaning "no cache") for a row matching dir and the current
// on-disk AIRAC cycle. A cache hit decodes the stored payload instead of
// re-parsing; a miss (or any peek/decode error) falls back to a full Load
// and, on success, refreshes the cache row. hit reports whether the cache
// satisfied the request.
func LoadCached(dir string, cache *Cache) (db *DB, hit bool, err error) {
	if cache == nil {
		db, err = Load(dir)
		return db, false, err
	}

	cycle, peekErr := peekAiracCycle(dir)
	if peekErr == nil {
		var blob []byte
		var cycleCol string
		row := cache.db.QueryRow(`SELECT cycle, payload FROM navdb_cache WHERE source_dir = ?`, dir)
		if scanErr := row.Scan(&cycleCol, &blob); scanErr == nil && cycleCol == cycle.Cycle {
			var p cachePayload
			if decErr := msgpack.Unmarshal(blob, &p); decErr == nil {
				return newDBFromCache(cycle, p), true, nil
			}
		}
	}

	db, err = Load(dir)
	if err != nil {
		return nil, false, err
	}
	if encErr := cache.store(dir, db); encErr != nil {
		// A cache-write failure never fails the load: the cache is purely
		// an optimization.
		return db, false, nil
	}
	return db, false, nil
}

func (c *Cache) store(dir string, db *DB) error {
	payload := cachePayload{
		Waypoints: db.waypointsByName,
		Navaids:   db.navaidsByID,
		Airports:  db.airports,
		Airways:   db.allAwys,
	}
	blob, err := msgpack.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		`INSERT INTO navdb_cache (source_dir, cycle, payload) VALUES (?, ?, ?)
		 ON CONFLICT(source_dir) DO UPDATE SET cycle = excluded.cycle, payload = excluded.payload`,
		dir, db.Cycle.Cycle, blob)
	return err
}
