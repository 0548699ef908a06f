// decode/decode.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package decode parses pilot-entered waypoint strings into concrete
// fixes, trying each recognized form in order and returning every
// candidate the first matching form produces: quadrant-encoded and
// whole-degree lat/lon shorthands, the 15-char minutes form, named
// fix/navaid/airport lookup, radial/DME offsets, and radial/radial
// intersections.
package decode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/openfms/fmc-core/geo"
	"github.com/openfms/fmc-core/navdb"
	"github.com/openfms/fmc-core/wmm"
)

// RadialIsectMaxPairDist is the "close enough" filter applied to
// name1/name2 candidate pairs in the radial/radial intersection form:
// pairs farther apart than this are not considered.
var RadialIsectMaxPairDist = 1_000_000.0

var (
	reWptName  = regexp.MustCompile(`^[A-Z0-9]{1,5}$`)
	reArptICAO = regexp.MustCompile(`^[A-Z]{4}$`)

	reGeoLong     = regexp.MustCompile(`^([NS])(\d{2})([EW])(\d{3})$`)
	reGeoDetailed = regexp.MustCompile(`^([NS])(\d{2})(\d{2}\.\d)([EW])(\d{3})(\d{2}\.\d)$`)

	reRadialDME = regexp.MustCompile(`^([A-Z0-9]{1,5})(\d{3})/(-?\d{1,3})$`)
	reRadialIsect = regexp.MustCompile(`^([A-Z0-9]{1,5})(\d{3})/([A-Z0-9]{1,5})(\d{3})$`)
)

// quadrant5 is one of the eight 5-char lat/lon forms,
// expressed as two regexes (below-100 / above-100) plus a letter-to-sign
// mapping, rather than eight literal patterns -- the letter always selects
// the same (latSign, lonSign, lonOffset) triple regardless of which of the
// two positional forms matched.
type quadrant5 struct {
	blw100, abv100 *regexp.Regexp
}

var quadrants = map[byte]quadrant5{
	'N': {regexp.MustCompile(`^(\d{2})(\d{2})N$`), regexp.MustCompile(`^(\d{2})N(\d{2})$`)},
	'E': {regexp.MustCompile(`^(\d{2})(\d{2})E$`), regexp.MustCompile(`^(\d{2})E(\d{2})$`)},
	'W': {regexp.MustCompile(`^(\d{2})(\d{2})W$`), regexp.MustCompile(`^(\d{2})W(\d{2})$`)},
	'S': {regexp.MustCompile(`^(\d{2})(\d{2})S$`), regexp.MustCompile(`^(\d{2})S(\d{2})$`)},
}

// quadrantSign returns the (latSign, lonSign) pair for each of the four
// quadrant letters (N=NW, E=NE, S=SE, W=SW).
func quadrantSign(q byte) (latSign, lonSign float64) {
	switch q {
	case 'N':
		return 1, -1
	case 'E':
		return 1, 1
	case 'S':
		return -1, 1
	case 'W':
		return -1, -1
	}
	return 0, 0
}

func tryQuadrant5(name string) (geo.Geo2, bool) {
	if len(name) != 5 {
		return geo.Geo2{}, false
	}
	for _, letter := range []byte{'N', 'E', 'W', 'S'} {
		pats := quadrants[letter]
		if m := pats.blw100.FindStringSubmatch(name); m != nil {
			latd, _ := strconv.Atoi(m[1])
			lond, _ := strconv.Atoi(m[2])
			latSign, lonSign := quadrantSign(letter)
			return geo.Geo2{Lat: latSign * float64(latd), Lon: lonSign * float64(lond)}, true
		}
		if m := pats.abv100.FindStringSubmatch(name); m != nil {
			latd, _ := strconv.Atoi(m[1])
			lond, _ := strconv.Atoi(m[2])
			latSign, lonSign := quadrantSign(letter)
			return geo.Geo2{Lat: latSign * float64(latd), Lon: lonSign * (float64(lond) + 100)}, true
		}
	}
	return geo.Geo2{}, false
}

func tryGeoLong(name string) (geo.Geo2, bool) {
	m := reGeoLong.FindStringSubmatch(name)
	if m == nil {
		return geo.Geo2{}, false
	}
	lat, _ := strconv.ParseFloat(m[2], 64)
	lon, _ := strconv.ParseFloat(m[4], 64)
	if m[1] == "S" {
		lat = -lat
	}
	if m[3] == "W" {
		lon = -lon
	}
	return geo.Geo2{Lat: lat, Lon: lon}, true
}

// tryGeoDetailed parses the 15-char minutes form. The minute field is
// divided by 0.6 and added to the degrees as hundredths, so "30.0"
// minutes contributes 0.500 degrees.
func tryGeoDetailed(name string) (geo.Geo2, bool) {
	m := reGeoDetailed.FindStringSubmatch(name)
	if m == nil {
		return geo.Geo2{}, false
	}
	latD, _ := strconv.ParseFloat(m[2], 64)
	latMin, _ := strconv.ParseFloat(m[3], 64)
	lonD, _ := strconv.ParseFloat(m[5], 64)
	lonMin, _ := strconv.ParseFloat(m[6], 64)

	lat := latD + latMin/0.6/100
	if m[1] == "S" {
		lat = -lat
	}
	lon := lonD + lonMin/0.6/100
	if m[4] == "W" {
		lon = -lon
	}
	return geo.Geo2{Lat: lat, Lon: lon}, true
}

func isValidHdg(h int) bool { return h >= 1 && h <= 360 }

// Cache memoizes the radial/radial-intersection form's candidate pairs,
// keyed by the raw input string, since decode is called repeatedly with
// the same strings while a pilot edits a route.
type Cache struct {
	lru *lru.Cache[string, []navdb.Waypoint]
	mu  sync.Mutex
}

// NewCache builds a decode result cache with the given capacity.
func NewCache(size int) *Cache {
	c, _ := lru.New[string, []navdb.Waypoint](size)
	return &Cache{lru: c}
}

// Decode parses name against the six recognized forms, trying
// each in order and returning the first match's candidates. nextSeq is
// called at most once per Decode call (never once per candidate) to obtain
// the per-route monotonic counter used by forms 5 and 6 to name generated
// fixes; route.Route owns that counter.
func Decode(name string, db *navdb.DB, m wmm.Model, year float64, cache *Cache, nextSeq func() int) (wpts []navdb.Waypoint, isSeq bool, err error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return nil, false, fmt.Errorf("decode: empty waypoint name")
	}

	if pos, ok := tryQuadrant5(name); ok {
		return []navdb.Waypoint{{Name: name, Pos: pos}}, false, nil
	}
	if pos, ok := tryGeoLong(name); ok {
		return []navdb.Waypoint{{Name: name, Pos: pos}}, false, nil
	}
	if pos, ok := tryGeoDetailed(name); ok {
		return []navdb.Waypoint{{Name: name, Pos: pos}}, false, nil
	}
	if reWptName.MatchString(name) {
		return lookupByName(name, db), false, nil
	}
	if mm := reRadialDME.FindStringSubmatch(name); mm != nil {
		return decodeRadialDME(mm, db, m, year, nextSeq)
	}
	if mm := reRadialIsect.FindStringSubmatch(name); mm != nil {
		return decodeRadialIsect(name, mm, db, m, year, cache, nextSeq)
	}

	return nil, false, nil
}

// lookupByName searches the waypoint DB, then the navaid DB, then (if the
// name is a 4-letter ICAO code) the airport DB, returning the union of
// matches.
func lookupByName(name string, db *navdb.DB) []navdb.Waypoint {
	var out []navdb.Waypoint
	out = append(out, db.FindWaypoints(name)...)
	for _, na := range db.FindNavaids(name) {
		out = append(out, navdb.Waypoint{Name: na.ID, Country: na.Country, Pos: na.Pos.To2()})
	}
	if reArptICAO.MatchString(name) {
		if ap, ok := db.FindAirport(name); ok {
			out = append(out, navdb.Waypoint{Name: ap.ICAO, Pos: ap.RefPt.To2()})
		}
	}
	return out
}

func decodeRadialDME(mm []string, db *navdb.DB, m wmm.Model, year float64, nextSeq func() int) ([]navdb.Waypoint, bool, error) {
	wptName, radialS, distS := mm[1], mm[2], mm[3]
	radial, _ := strconv.Atoi(radialS)
	dist, _ := strconv.ParseFloat(distS, 64)
	if !isValidHdg(radial) || dist == 0 {
		return nil, false, nil
	}

	base := lookupByName(wptName, db)
	if len(base) == 0 {
		return nil, false, nil
	}

	seq := nextSeq()
	out := make([]navdb.Waypoint, len(base))
	for i, w := range base {
		trueHdg := m.Mag2True(float64(radial), w.Pos.To3(0))
		newPos := geo.GeoDisplace(w.Pos, trueHdg, geo.NMToMeters(dist))
		out[i] = navdb.Waypoint{Name: fmt.Sprintf("%s%02d", wptName, seq), Country: w.Country, Pos: newPos}
	}
	return out, false, nil
}

func decodeRadialIsect(raw string, mm []string, db *navdb.DB, m wmm.Model, year float64, cache *Cache, nextSeq func() int) ([]navdb.Waypoint, bool, error) {
	if cache != nil {
		cache.mu.Lock()
		if cached, ok := cache.lru.Get(raw); ok {
			cache.mu.Unlock()
			return cached, true, nil
		}
		cache.mu.Unlock()
	}

	wpt1name, radial1S, wpt2name, radial2S := mm[1], mm[2], mm[3], mm[4]
	radial1, _ := strconv.Atoi(radial1S)
	radial2, _ := strconv.Atoi(radial2S)
	if !isValidHdg(radial1) || !isValidHdg(radial2) || radial1 == radial2 {
		return nil, false, nil
	}

	base1 := lookupByName(wpt1name, db)
	base2 := lookupByName(wpt2name, db)
	if len(base1) == 0 || len(base2) == 0 {
		return nil, false, nil
	}

	seq := nextSeq()
	var out []navdb.Waypoint
	for _, w1 := range base1 {
		for _, w2 := range base2 {
			if geo.GreatCircleDistance(w1.Pos, w2.Pos) > RadialIsectMaxPairDist {
				continue
			}
			pos := geoMagRadialIntersect(m, w1.Pos, float64(radial1), w2.Pos, float64(radial2))
			if pos.IsNull() {
				continue
			}
			out = append(out, navdb.Waypoint{Name: fmt.Sprintf("%s%02d", wpt1name, seq), Pos: pos})
		}
	}
	if len(out) == 0 {
		return nil, true, nil
	}

	if cache != nil {
		cache.mu.Lock()
		cache.lru.Add(raw, out)
		cache.mu.Unlock()
	}
	return out, true, nil
}

// geoMagRadialIntersect converts magnetic radials to true via m evaluated
// at each endpoint, projects both on a gnomonic plane centered at the
// midpoint, and intersects the two rays.
func geoMagRadialIntersect(m wmm.Model, p1 geo.Geo2, magRad1 float64, p2 geo.Geo2, magRad2 float64) geo.Geo2 {
	trueRad1 := m.Mag2True(magRad1, p1.To3(0))
	trueRad2 := m.Mag2True(magRad2, p2.To3(0))

	mid := geo.GeoMidpoint(p1, p2)
	fpp := geo.NewGnomonicProj(mid, 0, &geo.WGS84, true)

	o1 := fpp.Project(p1)
	o2 := fpp.Project(p2)
	if o1.IsNull() || o2.IsNull() {
		return geo.NullGeo2
	}

	d1 := geo.HdgToDir(trueRad1)
	d2 := geo.HdgToDir(trueRad2)

	isect := geo.Vec2VectIsect(d1, o1, d2, o2, false)
	if isect.IsNull() {
		return geo.NullGeo2
	}
	return fpp.Unproject(isect)
}
