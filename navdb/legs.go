// navdb/legs.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdb

// SegType is the ARINC-424 path/terminator leg kind: 23 variants.
type SegType int

const (
	SegAF SegType = iota // arc to fix (DME arc)
	SegCA                // course to altitude
	SegCD                // course to DME distance
	SegCF                // course to fix
	SegCI                // course to intercept (next leg)
	SegCR                // course to radial
	SegDF                // direct to fix
	SegFA                // fix to altitude
	SegFC                // fix to distance
	SegFD                // fix to DME distance
	SegFM                // fix to manual termination
	SegHA                // hold to altitude
	SegHF                // hold to fix
	SegHM                // hold to manual termination
	SegIF                // initial fix
	SegPI                // procedure turn
	SegRF                // constant-radius arc to fix
	SegTF                // track to fix
	SegVA                // heading to altitude
	SegVD                // heading to DME distance
	SegVI                // heading to intercept (next leg)
	SegVM                // heading to manual termination
	SegVR                // heading to radial
)

var segTypeNames = [...]string{
	SegAF: "AF", SegCA: "CA", SegCD: "CD", SegCF: "CF", SegCI: "CI", SegCR: "CR",
	SegDF: "DF", SegFA: "FA", SegFC: "FC", SegFD: "FD", SegFM: "FM",
	SegHA: "HA", SegHF: "HF", SegHM: "HM", SegIF: "IF", SegPI: "PI",
	SegRF: "RF", SegTF: "TF", SegVA: "VA", SegVD: "VD", SegVI: "VI",
	SegVM: "VM", SegVR: "VR",
}

func (t SegType) String() string {
	if int(t) >= 0 && int(t) < len(segTypeNames) {
		return segTypeNames[t]
	}
	return "UNKNOWN"
}

// ParseSegType maps a two-letter path/terminator code to a SegType.
func ParseSegType(s string) (SegType, bool) {
	for t, n := range segTypeNames {
		if n == s {
			return SegType(t), true
		}
	}
	return 0, false
}

// RequiresAltLim reports whether a leg of this kind must carry an altitude
// limit: CA, FA, VA and HA terminate on reaching an altitude.
func (t SegType) RequiresAltLim() bool {
	switch t {
	case SegCA, SegFA, SegVA, SegHA:
		return true
	default:
		return false
	}
}

// Turn is a commanded turn direction, used by heading/course legs and by
// DME-arc and procedure-turn legs.
type Turn int

const (
	TurnAny Turn = iota
	TurnLeft
	TurnRight
)

// AltLimType is the altitude-limit encoding (ARINC 424 field, types 0-4).
type AltLimType int

const (
	AltLimNone AltLimType = iota
	AltLimAt
	AltLimAtOrAbove
	AltLimAtOrBelow
	AltLimBetween
)

// AltLim is an altitude constraint on a leg.
type AltLim struct {
	Type       AltLimType
	Alt1, Alt2 int // feet; Alt1 >= Alt2 when Type == AltLimBetween
}

func (a AltLim) IsSet() bool { return a.Type != AltLimNone }

// SpdLimType is the speed-limit encoding (ARINC 424 field, types 0-1).
type SpdLimType int

const (
	SpdLimNone SpdLimType = iota
	SpdLimAt
)

// SpdLim is a speed constraint on a leg.
type SpdLim struct {
	Type SpdLimType
	Spd1 int // knots
}

func (s SpdLim) IsSet() bool { return s.Type != SpdLimNone }

// HdgCmd is the leg command for CA, CD, CI, CR, VA, VD, VI, VM, VR.
type HdgCmd struct {
	Hdg  float64
	Turn Turn
}

// FixCrsCmd is the leg command for FA, FC, FD, FM.
type FixCrsCmd struct {
	Fix Waypoint
	Crs float64
}

// NavaidCrsCmd is the leg command for CF: a course to a fix, with an
// optional recommended navaid. Navaid may be the zero Waypoint if the
// leg omits it, which is legal only when the prior leg ends in a
// definite fix.
type NavaidCrsCmd struct {
	Navaid Waypoint
	Crs    float64
	Turn   Turn
}

// DMEArcCmd is the leg command for AF.
type DMEArcCmd struct {
	Navaid                  Waypoint
	StartRadial, EndRadial  float64
	RadiusNM                float64
	CW                      bool
}

// RadiusArcCmd is the leg command for RF.
type RadiusArcCmd struct {
	CtrWpt   Waypoint
	RadiusNM float64
	CW       bool
}

// HoldCmd is the leg command for HA, HF, HM.
type HoldCmd struct {
	Wpt       Waypoint
	InbdCrs   float64
	LegLenNM  float64
	TurnRight bool
}

// ProcTurnCmd is the leg command for PI.
type ProcTurnCmd struct {
	StartWpt                        Waypoint
	OutbdRadial, OutbdTurnHdg       float64
	MaxExcrsDistNM, MaxExcrsTimeMin float64
	TurnRight                       bool
	Navaid                          Waypoint
}

// TermFix is the termination condition for AF, CF, DF, RF, TF (an IF leg
// carries its fix in InitFix instead).
type TermFix struct{ Fix Waypoint }

// TermRadial is the termination condition for CR, VR and (optionally) CI.
type TermRadial struct {
	Navaid Waypoint
	Radial float64
}

// TermDME is the termination condition for CD, FD, VD.
type TermDME struct {
	Navaid Waypoint
	DistNM float64
}

// TermDist is the termination condition for FC: a fixed distance in NM.
type TermDist struct{ DistNM float64 }

// NavProcSeg is a single ARINC-424-style path/terminator leg: a sum
// type over 23 kinds, each with its own leg command and, where applicable,
// termination condition. At most one command field (*Cmd or InitFix) and
// at most one Term* field are populated, selected by Type.
type NavProcSeg struct {
	Type SegType

	HdgCmd       *HdgCmd
	FixCrsCmd    *FixCrsCmd
	NavaidCrsCmd *NavaidCrsCmd
	DMEArcCmd    *DMEArcCmd
	RadiusArcCmd *RadiusArcCmd
	InitFix      *Waypoint // IF
	HoldCmd      *HoldCmd
	ProcTurnCmd  *ProcTurnCmd

	TermFix    *TermFix
	TermAlt    *AltLim
	TermRadial *TermRadial
	TermDME    *TermDME
	TermDist   *TermDist

	SpdLim  SpdLim
	AltLim  AltLim
	Ovrfly  bool
}

// StartWpt returns the leg's start waypoint, or the null waypoint if the
// leg's start is derived from the propagated position rather than a fixed
// fix.
func (s NavProcSeg) StartWpt() Waypoint {
	switch s.Type {
	case SegCF:
		if s.NavaidCrsCmd != nil && !s.NavaidCrsCmd.Navaid.IsNull() {
			return s.NavaidCrsCmd.Navaid
		}
	case SegFA, SegFC, SegFD, SegFM:
		if s.FixCrsCmd != nil {
			return s.FixCrsCmd.Fix
		}
	case SegHA, SegHF, SegHM:
		if s.HoldCmd != nil {
			return s.HoldCmd.Wpt
		}
	case SegIF:
		if s.InitFix != nil {
			return *s.InitFix
		}
	case SegPI:
		if s.ProcTurnCmd != nil {
			return s.ProcTurnCmd.StartWpt
		}
	}
	return Waypoint{}
}

// EndWpt returns the leg's end waypoint, or the null waypoint if the leg
// has no definite fixed end (it ends on an intercept, a distance, an
// altitude, or manually).
func (s NavProcSeg) EndWpt() Waypoint {
	switch s.Type {
	case SegAF, SegCF, SegDF, SegRF, SegTF:
		if s.TermFix != nil {
			return s.TermFix.Fix
		}
	case SegHA, SegHF:
		if s.HoldCmd != nil {
			return s.HoldCmd.Wpt
		}
	case SegIF:
		if s.InitFix != nil {
			return *s.InitFix
		}
	}
	return Waypoint{}
}

// SetEndWpt overrides the leg's termination fix,
// used when an airway is extended/truncated to a new endpoint.
func (s *NavProcSeg) SetEndWpt(w Waypoint) {
	switch s.Type {
	case SegAF, SegCF, SegDF, SegRF, SegTF:
		s.TermFix = &TermFix{Fix: w}
	case SegIF:
		s.InitFix = &w
	case SegHA, SegHF:
		if s.HoldCmd != nil {
			s.HoldCmd.Wpt = w
		}
	}
}

// NewDFLeg builds a direct-to-fix leg, used by the route model's Direct
// leg groups and by insert-leg's airway-split/procedure-append rules.
func NewDFLeg(to Waypoint) NavProcSeg {
	return NavProcSeg{Type: SegDF, TermFix: &TermFix{Fix: to}}
}

// NewIFLeg builds an initial-fix leg.
func NewIFLeg(fix Waypoint) NavProcSeg {
	return NavProcSeg{Type: SegIF, InitFix: &fix}
}
