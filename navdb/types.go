// navdb/types.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package navdb is the read-only navigation database (C3): airways indexed
// by name and endpoint fix, waypoints by name, navaids by ID, airports with
// runways and procedures, procedures expanded into ordered leg descriptions.
// A DB is immutable once Load returns; callers never mutate it.
package navdb

import "github.com/openfms/fmc-core/geo"

// Waypoint is a named or computed geographic fix. Equality is
// name+position: exact field comparison, no distance tolerance.
type Waypoint struct {
	Name    string // up to 7 chars
	Country string // ICAO 2-letter country code
	Pos     geo.Geo2
}

// Eq mirrors WPT_EQ: name and position must match exactly, and the
// waypoint must not be the zero value.
func (w Waypoint) Eq(o Waypoint) bool {
	return w != (Waypoint{}) && w.Name == o.Name && w.Pos.Eq(o.Pos)
}

// IsNull reports whether w is the zero-value sentinel (IS_NULL_WPT).
func (w Waypoint) IsNull() bool { return w == (Waypoint{}) }

// NavaidKind is the navaid type tag; frequency band determines which kind a
// parsed record is assigned.
type NavaidKind int

const (
	NavaidUnknown NavaidKind = iota
	NavaidVOR
	NavaidVORDME
	NavaidLOC
	NavaidLOCDME
	NavaidNDB
	NavaidTACAN
)

func (k NavaidKind) String() string {
	switch k {
	case NavaidVOR:
		return "VOR"
	case NavaidVORDME:
		return "VOR-DME"
	case NavaidLOC:
		return "LOC"
	case NavaidLOCDME:
		return "LOC-DME"
	case NavaidNDB:
		return "NDB"
	case NavaidTACAN:
		return "TACAN"
	default:
		return "UNKNOWN"
	}
}

// Navaid is a radio navigation aid.
type Navaid struct {
	ID      string // up to 7 chars
	Name    string // up to 15 chars
	Country string
	Pos     geo.Geo3
	Kind    NavaidKind
	FreqHz  uint64
}

// AirwaySegment is one chained link of an Airway.
type AirwaySegment struct {
	From, To Waypoint
}

// Airway is a published named path through a chain of waypoints. Segments
// must be chained: Segs[i].To == Segs[i+1].From (enforced at parse time).
// A bidirectional airway is represented as two distinct Airway values
// sharing a Name with reversed segment order.
type Airway struct {
	Name string
	Segs []AirwaySegment
}

// StartWpt and EndWpt are the airway's first and last waypoints.
func (a Airway) StartWpt() Waypoint {
	if len(a.Segs) == 0 {
		return Waypoint{}
	}
	return a.Segs[0].From
}

func (a Airway) EndWpt() Waypoint {
	if len(a.Segs) == 0 {
		return Waypoint{}
	}
	return a.Segs[len(a.Segs)-1].To
}

// Waypoints returns the airway's full internal waypoint sequence, start to
// end inclusive.
func (a Airway) Waypoints() []Waypoint {
	if len(a.Segs) == 0 {
		return nil
	}
	wpts := make([]Waypoint, 0, len(a.Segs)+1)
	wpts = append(wpts, a.Segs[0].From)
	for _, s := range a.Segs {
		wpts = append(wpts, s.To)
	}
	return wpts
}

// Runway is one physical/published runway end.
type Runway struct {
	ID            string // "01"-"36" with optional L|C|R suffix
	Hdg           int    // 1..720, normalized mod 360 if airport is true-referenced
	LenFt, WidthFt int
	LocAvail      bool
	LocFreqHz     uint64
	LocFcrs       int
	ThrPos        geo.Geo3
	GlidepathDeg  float64
}

// Airport is a named aerodrome with runways and procedures.
type Airport struct {
	ICAO        string
	Name        string
	RefPt       geo.Geo3
	TA, TL      int
	LongestRwy  int
	TrueHdgFlag bool
	Rwys        []Runway
	Procs       []NavProc
	Gates       []Waypoint
}

// FindRwy returns the runway with the given ID, or false if not found.
func (a *Airport) FindRwy(id string) (Runway, bool) {
	for _, r := range a.Rwys {
		if r.ID == id {
			return r, true
		}
	}
	return Runway{}, false
}

// NavProcType is the procedure kind.
type NavProcType int

const (
	ProcSID NavProcType = iota
	ProcSIDCommon
	ProcSIDTrans
	ProcSTAR
	ProcSTARCommon
	ProcSTARTrans
	ProcFinalTrans
	ProcFinal
)

func (t NavProcType) String() string {
	switch t {
	case ProcSID:
		return "SID"
	case ProcSIDCommon:
		return "SID_COMMON"
	case ProcSIDTrans:
		return "SID_TRANS"
	case ProcSTAR:
		return "STAR"
	case ProcSTARCommon:
		return "STAR_COMMON"
	case ProcSTARTrans:
		return "STAR_TRANS"
	case ProcFinalTrans:
		return "FINAL_TRANS"
	case ProcFinal:
		return "FINAL"
	default:
		return "UNKNOWN"
	}
}

// IsSIDFamily and IsArrivalFamily classify a proc type into the two
// families the route connection algorithm treats as related.
func (t NavProcType) IsSIDFamily() bool {
	return t == ProcSID || t == ProcSIDCommon || t == ProcSIDTrans
}

func (t NavProcType) IsArrivalFamily() bool {
	switch t {
	case ProcSTAR, ProcSTARCommon, ProcSTARTrans, ProcFinalTrans, ProcFinal:
		return true
	default:
		return false
	}
}

// NavProcFinalType is the approach-final subkind.
type NavProcFinalType int

const (
	FinalILS NavProcFinalType = iota
	FinalVOR
	FinalNDB
	FinalRNAV
	FinalLDA
)

// NavProc is a departure, arrival, approach, or transition procedure,
// attached to an airport and possibly a specific runway.
type NavProc struct {
	Type         NavProcType
	Name         string
	TransName    string // only for *_TRANS kinds
	Rwy          *Runway
	Segs         []NavProcSeg
	NumMainSegs  int // remainder of Segs (beyond this) is the missed-approach/go-around
	FinalType    NavProcFinalType
}

// StartWpt and EndWpt return the procedure's first and last defined
// waypoints.
func (p NavProc) StartWpt() Waypoint {
	if len(p.Segs) == 0 {
		return Waypoint{}
	}
	return p.Segs[0].StartWpt()
}

func (p NavProc) EndWpt() Waypoint {
	for i := len(p.Segs) - 1; i >= 0; i-- {
		if w := p.Segs[i].EndWpt(); !w.IsNull() {
			return w
		}
	}
	return Waypoint{}
}
