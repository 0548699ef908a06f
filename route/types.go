// route/types.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package route holds the active flight plan: an editable list of leg
// groups (airways, directs, procedures, discontinuities) and their
// expanded legs, the leg-to-segment expander that turns legs into a raw
// geometric polyline, and the segment joiner that inserts flyable turn
// transitions between segments. Leg groups and legs live in slices of
// pointers; a route is O(100) leg groups, so slice reslicing is cheap.
package route

import (
	"sync"

	"github.com/google/uuid"

	"github.com/openfms/fmc-core/geo"
	"github.com/openfms/fmc-core/navdb"
	"github.com/openfms/fmc-core/wmm"
)

// LegGroupKind is the route-leg-group sum-type tag: Airway,
// Direct, Proc or Disco.
type LegGroupKind int

const (
	LegGroupAirway LegGroupKind = iota
	LegGroupDirect
	LegGroupProc
	LegGroupDisco
)

func (k LegGroupKind) String() string {
	switch k {
	case LegGroupAirway:
		return "AIRWAY"
	case LegGroupDirect:
		return "DIRECT"
	case LegGroupProc:
		return "PROC"
	case LegGroupDisco:
		return "DISCO"
	default:
		return "UNKNOWN"
	}
}

// LegGroup is a RouteLegGroup: a contiguous run of legs sharing a
// source. AwyName/StartWpt/EndWpt are populated for LegGroupAirway; Proc
// for LegGroupProc; LegGroupDirect uses only EndWpt; LegGroupDisco uses
// none of them.
type LegGroup struct {
	Kind LegGroupKind

	AwyName  string
	StartWpt navdb.Waypoint
	EndWpt   navdb.Waypoint

	Proc *navdb.NavProc

	Legs []*Leg
}

// StartFix returns the leg group's nominal start fix, or the null
// waypoint if it has none yet.
func (g *LegGroup) StartFix() navdb.Waypoint {
	switch g.Kind {
	case LegGroupAirway:
		return g.StartWpt
	case LegGroupProc:
		if g.Proc != nil {
			return g.Proc.StartWpt()
		}
	}
	return navdb.Waypoint{}
}

// EndFix returns the leg group's nominal end fix, or the null waypoint.
func (g *LegGroup) EndFix() navdb.Waypoint {
	switch g.Kind {
	case LegGroupAirway:
		return g.EndWpt
	case LegGroupDirect:
		return g.EndWpt
	case LegGroupProc:
		if g.Proc != nil {
			return g.Proc.EndWpt()
		}
	}
	return navdb.Waypoint{}
}

// Leg is a RouteLeg: either a Disco marker or a NavProcSeg value
// plus overridable altitude/speed limits. Group is the owning leg group
// back-pointer; the route owns both ends of the pointer's lifetime.
type Leg struct {
	Disco bool
	Seg   navdb.NavProcSeg

	AltLim           navdb.AltLim
	AltLimOverridden bool
	SpdLim           navdb.SpdLim
	SpdLimOverridden bool

	// RNPNM and GSKt override the default required-navigation-performance
	// budget and ground speed the segment joiner uses to size the
	// standard-rate turn transition that follows this leg; zero means "use
	// the package default" (DefaultRNPNM / DefaultGSKt).
	RNPNM float64
	GSKt  float64

	// PreferDirectRejoin requests a direct-to-rejoin (cut for the next
	// segment's endpoint) rather than a track-rejoin (reintercept its
	// course) when a single transition arc can't meet RNP after this leg.
	PreferDirectRejoin bool

	// Group is excluded from msgpack encoding (`msgpack:"-"`): Legs []*Leg
	// and LegGroup.Legs []*Leg share the same *Leg pointers (rebuildLegs),
	// so a Leg's Group back-pointer closes a cycle (Leg -> Group -> Legs ->
	// same Leg) that a wire-format codec with no reference tracking cannot
	// walk. Snapshot drops the flat Legs/Segs fields entirely and
	// reconstructs both Legs and every Leg.Group back-pointer from
	// LegGroups alone after decoding (see attachBackPointers in
	// snapshot.go).
	Group *LegGroup `msgpack:"-"`
}

// EndWpt returns the leg's end waypoint, honoring an overridden limit
// only insofar as it never changes lateral geometry.
func (l *Leg) EndWpt() navdb.Waypoint {
	if l.Disco {
		return navdb.Waypoint{}
	}
	return l.Seg.EndWpt()
}

// SegKind tags a RouteSeg: Direct or Arc.
type SegKind int

const (
	SegDirect SegKind = iota
	SegArc
)

// Seg is a RouteSeg: the raw (pre-join) or joined geometric trajectory
// element.
type Seg struct {
	Kind   SegKind
	Start  geo.Geo2
	End    geo.Geo2
	Center geo.Geo2 // SegArc only
	CW     bool     // SegArc only

	// LegIdx is the index into Route.Legs of the leg this segment was
	// expanded from (set by ExpandSegs). Transition segments inserted by
	// the joiner carry the LegIdx of the raw segment they were inserted
	// after, so per-leg RNP/speed overrides still resolve after joining.
	LegIdx int
}

// Radius returns |center-start| for an arc segment.
func (s Seg) Radius() float64 {
	if s.Kind != SegArc {
		return 0
	}
	return geo.GreatCircleDistance(s.Center, s.Start)
}

// Route aggregates a single active flight plan. It is mutable but
// owned by a single caller -- concurrent access requires external
// synchronization, so the only locking Route does itself guards the
// optional Subscribe channel fan-out.
type Route struct {
	ID uuid.UUID

	Dep, Arr, Altn1, Altn2 *navdb.Airport
	DepRwy                 *navdb.Runway

	SID, SIDCommon, SIDTrans                *navdb.NavProc
	STAR, STARCommon, STARTrans             *navdb.NavProc
	FinalTrans, Final                       *navdb.NavProc

	LegGroups []*LegGroup
	Legs      []*Leg
	Segs      []Seg

	segsDirty bool

	// navdb and wmm are shared, immutable references: Clone must not
	// deep-copy the database or magnetic model
	// along with the route, so both carry a `deep:"-"` tag.
	navdb *navdb.DB `deep:"-"`
	wmm   wmm.Model `deep:"-"`
	year  float64

	wptSeqCounter int

	// subsMu/subs are per-handle plumbing, not route state: a clone starts
	// with no subscribers of its own, so both carry a `deep:"-"` tag too.
	subsMu sync.Mutex  `deep:"-"`
	subs   []chan string `deep:"-"`
}

// New creates an empty route bound to the given navigation database and
// magnetic model.
func New(db *navdb.DB, m wmm.Model, year float64) *Route {
	return &Route{
		ID:    uuid.New(),
		navdb: db,
		wmm:   m,
		year:  year,
	}
}

// NextWptSeq returns the next value of the per-route monotonic fix-name
// counter and advances it; decode calls this through its nextSeq
// callback.
func (r *Route) NextWptSeq() int {
	v := r.wptSeqCounter
	r.wptSeqCounter++
	return v
}

// Navdb exposes the route's read-only database reference.
func (r *Route) Navdb() *navdb.DB { return r.navdb }

// Wmm exposes the route's magnetic-model reference.
func (r *Route) Wmm() wmm.Model { return r.wmm }

// SegsDirty reports whether the trajectory needs rebuilding.
func (r *Route) SegsDirty() bool { return r.segsDirty }

func (r *Route) markDirty() {
	r.segsDirty = true
	r.notify(r.Fingerprint())
}

// Subscribe registers a channel that receives a fingerprint string
// (leg-group sequence digest) every time segsDirty is set; fms's NATS
// bridge republishes these for cockpit displays. Purely additive --
// nothing in the core API requires a subscriber.
func (r *Route) Subscribe() <-chan string {
	ch := make(chan string, 1)
	r.subsMu.Lock()
	r.subs = append(r.subs, ch)
	r.subsMu.Unlock()
	return ch
}

func (r *Route) notify(fingerprint string) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	for _, ch := range r.subs {
		select {
		case ch <- fingerprint:
		default:
		}
	}
}

// Fingerprint returns a cheap sequence digest of the leg-group list, used
// as the payload for Subscribe notifications and for the NATS
// route-changed event published by cmd/fmc-core.
func (r *Route) Fingerprint() string {
	var b []byte
	for _, g := range r.LegGroups {
		b = append(b, byte(g.Kind))
		b = append(b, g.StartFix().Name...)
		b = append(b, '|')
		b = append(b, g.EndFix().Name...)
		b = append(b, ';')
	}
	return string(b)
}
