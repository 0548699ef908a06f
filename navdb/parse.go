// navdb/parse.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/openfms/fmc-core/geo"
)

// Limits enforced on parse.
const (
	MaxNumWpts   = 1_000_000
	MaxNumNavaid = 1_000_000
	MaxNumAwys   = 100_000
	MaxAwySegs   = 1_000
	MaxProcSegs  = 100
	MaxRwyLenFt  = 250_000
	GPMaxAngle   = 10.0
)

// monthNames is the process-wide locale-independent English month table
// used only to decode the AIRAC validity field.
var monthNames = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

func monthNum(s string) (int, bool) {
	for i, m := range monthNames {
		if strings.EqualFold(m, s) {
			return i + 1, true
		}
	}
	return 0, false
}

// AiracCycle is the decoded `<cycle>,<validity>` header of Airports.txt.
type AiracCycle struct {
	Cycle              string // "YYcc"
	ValidFrom, ValidTo time.Time
}

// IsCurrent reports whether now falls within the cycle's validity window.
func (c AiracCycle) IsCurrent(now time.Time) bool {
	return !now.Before(c.ValidFrom) && !now.After(c.ValidTo)
}

// parseAiracHeader decodes a 4-digit cycle and 12-char `DDMonDDMonYY`
// validity field. If the two months fall in reverse calendar order,
// the start year is decremented (the validity window spans a year
// boundary, e.g. "07DEC15JAN15").
func parseAiracHeader(cycle, validity string) (AiracCycle, error) {
	if len(cycle) != 4 {
		return AiracCycle{}, fmt.Errorf("navdb: malformed AIRAC cycle %q", cycle)
	}
	cc, err := strconv.Atoi(cycle[2:])
	if err != nil || cc < 1 || cc > 13 {
		return AiracCycle{}, fmt.Errorf("navdb: malformed AIRAC cycle %q", cycle)
	}
	if len(validity) != 12 {
		return AiracCycle{}, fmt.Errorf("navdb: malformed AIRAC validity %q", validity)
	}
	d1, err1 := strconv.Atoi(validity[0:2])
	m1, ok1 := monthNum(validity[2:5])
	d2, err2 := strconv.Atoi(validity[5:7])
	m2, ok2 := monthNum(validity[7:10])
	yy, err3 := strconv.Atoi(validity[10:12])
	if err1 != nil || err2 != nil || err3 != nil || !ok1 || !ok2 {
		return AiracCycle{}, fmt.Errorf("navdb: malformed AIRAC validity %q", validity)
	}
	year := 2000 + yy
	startYear := year
	if m2 < m1 {
		startYear--
	}
	from := time.Date(startYear, time.Month(m1), d1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.Month(m2), d2, 0, 0, 0, 0, time.UTC)
	return AiracCycle{Cycle: cycle, ValidFrom: from, ValidTo: to}, nil
}

func splitCSV(line string) []string {
	return strings.Split(line, ",")
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func atoi(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

func atob(s string) bool {
	s = strings.TrimSpace(s)
	return s == "1" || strings.EqualFold(s, "Y") || strings.EqualFold(s, "T")
}

// ParseAirports parses Airports.txt: a leading `X,<cycle>,<validity>,...`
// header line, followed by `A,...` airport records each optionally
// followed by `R,...` runway records.
func ParseAirports(r io.Reader) (map[string]*Airport, AiracCycle, error) {
	sc := bufio.NewScanner(r)
	airports := make(map[string]*Airport)
	var cycle AiracCycle
	var haveHeader bool
	var cur *Airport

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		f := splitCSV(line)
		switch f[0] {
		case "X":
			if !haveHeader && len(f) >= 3 {
				c, err := parseAiracHeader(f[1], f[2])
				if err != nil {
					return nil, cycle, err
				}
				cycle = c
				haveHeader = true
			}
		case "A":
			if len(f) < 10 {
				return nil, cycle, fmt.Errorf("navdb: malformed airport record: %q", line)
			}
			ap := &Airport{
				ICAO:        f[1],
				Name:        f[2],
				RefPt:       geo.Geo3{Lat: atof(f[3]), Lon: atof(f[4]), Elev: atof(f[5])},
				TA:          atoi(f[6]),
				TL:          atoi(f[7]),
				LongestRwy:  atoi(f[8]),
				TrueHdgFlag: atob(f[9]),
			}
			airports[ap.ICAO] = ap
			cur = ap
		case "R":
			if cur == nil || len(f) < 15 {
				return nil, cycle, fmt.Errorf("navdb: malformed runway record: %q", line)
			}
			hdg := atoi(f[2])
			if cur.TrueHdgFlag {
				hdg = ((hdg-1)%360 + 360)%360 + 1
			}
			lenFt := atoi(f[3])
			if lenFt > MaxRwyLenFt {
				return nil, cycle, fmt.Errorf("navdb: runway length %d exceeds limit", lenFt)
			}
			gp := atof(f[14])
			if gp < 0 || gp > GPMaxAngle {
				gp = 0
			}
			rwy := Runway{
				ID:           f[1],
				Hdg:          hdg,
				LenFt:        lenFt,
				WidthFt:      atoi(f[4]),
				LocAvail:     atob(f[5]),
				LocFreqHz:    uint64(atof(f[6]) * 1e6),
				LocFcrs:      atoi(f[7]),
				ThrPos:       geo.Geo3{Lat: atof(f[8]), Lon: atof(f[9]), Elev: atof(f[10])},
				GlidepathDeg: gp,
			}
			cur.Rwys = append(cur.Rwys, rwy)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, cycle, err
	}
	return airports, cycle, nil
}

// ParseWaypoints parses Waypoints.txt: one `<name>,<lat>,<lon>,<country>`
// record per non-blank line not starting with `,`.
func ParseWaypoints(r io.Reader) (map[string][]Waypoint, error) {
	sc := bufio.NewScanner(r)
	out := make(map[string][]Waypoint)
	n := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || line[0] == ',' {
			continue
		}
		f := splitCSV(line)
		if len(f) < 4 {
			return nil, fmt.Errorf("navdb: malformed waypoint record: %q", line)
		}
		n++
		if n > MaxNumWpts {
			return nil, fmt.Errorf("navdb: waypoint count exceeds limit %d", MaxNumWpts)
		}
		w := Waypoint{Name: f[0], Pos: geo.Geo2{Lat: atof(f[1]), Lon: atof(f[2])}, Country: f[3]}
		out[w.Name] = append(out[w.Name], w)
	}
	return out, sc.Err()
}

// classifyNavaid infers a navaid's kind from its frequency band.
func classifyNavaid(freqHz uint64, hasDME bool) NavaidKind {
	switch {
	case freqHz < 1_000_000: // kHz band -> NDB
		return NavaidNDB
	case freqHz >= 108_000_000 && freqHz < 112_000_000 && (freqHz/100_000)%2 == 1:
		if hasDME {
			return NavaidLOCDME
		}
		return NavaidLOC
	case hasDME:
		return NavaidVORDME
	default:
		return NavaidVOR
	}
}

// ParseNavaids parses Navaids.txt: 11-column records
// `<id>,<name>,<freq>,?,<has_dme>,?,<lat>,<lon>,<elev>,<country>,?`.
func ParseNavaids(r io.Reader) (map[string][]Navaid, error) {
	sc := bufio.NewScanner(r)
	out := make(map[string][]Navaid)
	n := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		f := splitCSV(line)
		if len(f) < 11 {
			return nil, fmt.Errorf("navdb: malformed navaid record: %q", line)
		}
		n++
		if n > MaxNumNavaid {
			return nil, fmt.Errorf("navdb: navaid count exceeds limit %d", MaxNumNavaid)
		}
		freq := atof(f[2])
		hasDME := atob(f[4])
		var freqHz uint64
		if freq >= 108 && freq < 118 {
			freqHz = uint64(freq * 1e6) // MHz
		} else {
			freqHz = uint64(freq * 1e3) // kHz
		}
		na := Navaid{
			ID:      f[0],
			Name:    f[1],
			Pos:     geo.Geo3{Lat: atof(f[6]), Lon: atof(f[7]), Elev: atof(f[8])},
			Country: f[9],
			FreqHz:  freqHz,
		}
		na.Kind = classifyNavaid(freqHz, hasDME)
		out[na.ID] = append(out[na.ID], na)
	}
	return out, sc.Err()
}

// ParseAirways parses ATS.txt: `A,<name>,<num_segs>` headers followed by
// exactly num_segs `S,<wpt_from>,<lat>,<lon>,<wpt_to>,<lat>,<lon>,?,?,?`
// records, requiring adjacency. A malformed individual record aborts
// the whole database open.
func ParseAirways(r io.Reader) ([]Airway, error) {
	sc := bufio.NewScanner(r)
	var out []Airway
	var cur *Airway
	var want int
	n := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		f := splitCSV(line)
		switch f[0] {
		case "A":
			if len(f) < 3 {
				return nil, fmt.Errorf("navdb: malformed airway header: %q", line)
			}
			if cur != nil && len(cur.Segs) != want {
				return nil, fmt.Errorf("navdb: airway %s declared %d segs, got %d", cur.Name, want, len(cur.Segs))
			}
			n++
			if n > MaxNumAwys {
				return nil, fmt.Errorf("navdb: airway count exceeds limit %d", MaxNumAwys)
			}
			want = atoi(f[2])
			if want > MaxAwySegs {
				return nil, fmt.Errorf("navdb: airway %s seg count %d exceeds limit", f[1], want)
			}
			a := Airway{Name: f[1]}
			out = append(out, a)
			cur = &out[len(out)-1]
		case "S":
			if cur == nil || len(f) < 7 {
				return nil, fmt.Errorf("navdb: malformed airway segment: %q", line)
			}
			seg := AirwaySegment{
				From: Waypoint{Name: f[1], Pos: geo.Geo2{Lat: atof(f[2]), Lon: atof(f[3])}},
				To:   Waypoint{Name: f[4], Pos: geo.Geo2{Lat: atof(f[5]), Lon: atof(f[6])}},
			}
			if len(cur.Segs) > 0 {
				prev := cur.Segs[len(cur.Segs)-1]
				if prev.To.Name != seg.From.Name || !prev.To.Pos.Eq(seg.From.Pos) {
					return nil, fmt.Errorf("navdb: airway %s not chained at seg %d", cur.Name, len(cur.Segs))
				}
			}
			cur.Segs = append(cur.Segs, seg)
		}
	}
	if cur != nil && len(cur.Segs) != want {
		return nil, fmt.Errorf("navdb: airway %s declared %d segs, got %d", cur.Name, want, len(cur.Segs))
	}
	return out, sc.Err()
}

// procBlockHeader recognizes the four procedure-block headers, returning
// the nominal (non-common, non-transition) type; resolveSidStarType below
// refines SID/STAR into their _COMMON/_TRANS siblings from the header's
// third column.
func procBlockHeader(s string) (NavProcType, bool) {
	switch s {
	case "SID":
		return ProcSID, true
	case "STAR":
		return ProcSTAR, true
	case "APPTR":
		return ProcFinalTrans, true
	case "FINAL":
		return ProcFinal, true
	}
	return 0, false
}

// resolveSidStarType classifies a SID/STAR block header by its third
// column: a valid runway ID at arpt selects the plain
// SID/STAR type (attached to that runway), "ALL" selects the _COMMON
// variant, and anything else is taken as a transition name, selecting
// the _TRANS variant.
func resolveSidStarType(nominal NavProcType, arpt *Airport, rwyOrAllOrTrans string) (NavProcType, *Runway, string) {
	common, trans := ProcSIDCommon, ProcSIDTrans
	if nominal == ProcSTAR {
		common, trans = ProcSTARCommon, ProcSTARTrans
	}
	switch {
	case rwyOrAllOrTrans == "":
		return nominal, nil, ""
	case rwyOrAllOrTrans == "ALL":
		return common, nil, ""
	case arpt != nil:
		if rwy, ok := arpt.FindRwy(rwyOrAllOrTrans); ok {
			return nominal, &rwy, ""
		}
		return trans, nil, rwyOrAllOrTrans
	default:
		return trans, nil, rwyOrAllOrTrans
	}
}

// ParseProcFile parses one `Proc/<ICAO>.txt` file: zero or more procedure
// blocks headed by SID/STAR/APPTR/FINAL, each followed by ordered segment
// lines beginning with a two-letter path/terminator code. arpt
// resolves each header's runway/transition column against the already-
// parsed airport's own runway list (may be nil, e.g. in isolated segment-
// line tests, in which case every block stays in its nominal,
// runway-unattached form). A malformed segment line rejects *that*
// procedure and skips to the next blank-separated block without failing
// the whole airport open.
func ParseProcFile(r io.Reader, arpt *Airport) ([]NavProc, []error) {
	sc := bufio.NewScanner(r)
	var procs []NavProc
	var errs []error

	var cur *NavProc
	var curBad bool

	flush := func() {
		if cur != nil && !curBad {
			procs = append(procs, *cur)
		}
		cur = nil
		curBad = false
	}

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		f := splitCSV(line)
		if t, ok := procBlockHeader(f[0]); ok {
			flush()
			cur = &NavProc{Type: t}
			if len(f) > 1 {
				cur.Name = f[1]
			}
			switch f[0] {
			case "SID", "STAR":
				if len(f) > 2 {
					cur.Type, cur.Rwy, cur.TransName = resolveSidStarType(cur.Type, arpt, f[2])
				}
			case "APPTR":
				if len(f) > 2 && arpt != nil {
					if rwy, ok := arpt.FindRwy(f[2]); ok {
						cur.Rwy = &rwy
					}
				}
				if len(f) > 3 {
					cur.TransName = f[3]
				}
			case "FINAL":
				if len(f) > 2 && arpt != nil {
					if rwy, ok := arpt.FindRwy(f[2]); ok {
						cur.Rwy = &rwy
					}
				}
			}
			continue
		}
		if cur == nil {
			continue
		}
		seg, err := parseProcSegLine(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("navdb: proc %s: %w", cur.Name, err))
			curBad = true
			continue
		}
		if len(cur.Segs) >= MaxProcSegs {
			errs = append(errs, fmt.Errorf("navdb: proc %s exceeds %d segs", cur.Name, MaxProcSegs))
			curBad = true
			continue
		}
		cur.Segs = append(cur.Segs, seg)
	}
	flush()
	return procs, errs
}

func wptField(s string) Waypoint {
	if s == "" {
		return Waypoint{}
	}
	return Waypoint{Name: s}
}

// parseProcSegLine parses one procedure-segment CSV line. The column
// layout is kind-specific; columns beyond the code are positional:
// hdg/turn, fix, crs, navaid, radius, cw, dist, altType, alt1, alt2,
// spdType, spd1, ovrfly -- present or blank depending on SegType.
func parseProcSegLine(f []string) (NavProcSeg, error) {
	if len(f) < 1 {
		return NavProcSeg{}, fmt.Errorf("empty segment line")
	}
	t, ok := ParseSegType(f[0])
	if !ok {
		return NavProcSeg{}, fmt.Errorf("unknown path/terminator code %q", f[0])
	}
	col := func(i int) string {
		if i < len(f) {
			return f[i]
		}
		return ""
	}
	turn := func(s string) Turn {
		switch s {
		case "L":
			return TurnLeft
		case "R":
			return TurnRight
		default:
			return TurnAny
		}
	}
	seg := NavProcSeg{Type: t}

	switch t {
	case SegCA, SegVA:
		seg.HdgCmd = &HdgCmd{Hdg: atof(col(1)), Turn: turn(col(2))}
		seg.TermAlt = &AltLim{Type: AltLimType(atoi(col(3))), Alt1: atoi(col(4)), Alt2: atoi(col(5))}
	case SegCD, SegVD:
		seg.HdgCmd = &HdgCmd{Hdg: atof(col(1)), Turn: turn(col(2))}
		seg.TermDME = &TermDME{Navaid: wptField(col(3)), DistNM: atof(col(4))}
	case SegCI, SegVI:
		seg.HdgCmd = &HdgCmd{Hdg: atof(col(1)), Turn: turn(col(2))}
		if nav := col(3); nav != "" {
			seg.TermRadial = &TermRadial{Navaid: wptField(nav)}
		}
	case SegCR, SegVR:
		seg.HdgCmd = &HdgCmd{Hdg: atof(col(1)), Turn: turn(col(2))}
		seg.TermRadial = &TermRadial{Navaid: wptField(col(3)), Radial: atof(col(4))}
	case SegVM:
		seg.HdgCmd = &HdgCmd{Hdg: atof(col(1)), Turn: turn(col(2))}
	case SegCF:
		seg.NavaidCrsCmd = &NavaidCrsCmd{Navaid: wptField(col(1)), Crs: atof(col(2)), Turn: turn(col(3))}
		seg.TermFix = &TermFix{Fix: wptField(col(4))}
	case SegDF:
		seg.TermFix = &TermFix{Fix: wptField(col(1))}
	case SegFA:
		seg.FixCrsCmd = &FixCrsCmd{Fix: wptField(col(1)), Crs: atof(col(2))}
		seg.TermAlt = &AltLim{Type: AltLimType(atoi(col(3))), Alt1: atoi(col(4)), Alt2: atoi(col(5))}
	case SegFC:
		seg.FixCrsCmd = &FixCrsCmd{Fix: wptField(col(1)), Crs: atof(col(2))}
		seg.TermDist = &TermDist{DistNM: atof(col(3))}
	case SegFD:
		seg.FixCrsCmd = &FixCrsCmd{Fix: wptField(col(1)), Crs: atof(col(2))}
		seg.TermDME = &TermDME{Navaid: wptField(col(3)), DistNM: atof(col(4))}
	case SegFM:
		seg.FixCrsCmd = &FixCrsCmd{Fix: wptField(col(1)), Crs: atof(col(2))}
	case SegHA, SegHF, SegHM:
		seg.HoldCmd = &HoldCmd{
			Wpt: wptField(col(1)), InbdCrs: atof(col(2)), LegLenNM: atof(col(3)),
			TurnRight: col(4) == "R",
		}
		if t == SegHA {
			seg.TermAlt = &AltLim{Type: AltLimType(atoi(col(5))), Alt1: atoi(col(6)), Alt2: atoi(col(7))}
		} else if t == SegHF {
			seg.TermFix = &TermFix{Fix: seg.HoldCmd.Wpt}
		}
	case SegIF:
		w := wptField(col(1))
		seg.InitFix = &w
	case SegPI:
		seg.ProcTurnCmd = &ProcTurnCmd{
			StartWpt: wptField(col(1)), OutbdRadial: atof(col(2)), OutbdTurnHdg: atof(col(3)),
			MaxExcrsDistNM: atof(col(4)), MaxExcrsTimeMin: atof(col(5)),
			TurnRight: col(6) == "R", Navaid: wptField(col(7)),
		}
	case SegAF:
		seg.DMEArcCmd = &DMEArcCmd{
			Navaid: wptField(col(1)), StartRadial: atof(col(2)), EndRadial: atof(col(3)),
			RadiusNM: atof(col(4)), CW: col(5) == "R",
		}
		seg.TermFix = &TermFix{Fix: wptField(col(6))}
	case SegRF:
		seg.RadiusArcCmd = &RadiusArcCmd{CtrWpt: wptField(col(1)), RadiusNM: atof(col(2)), CW: col(3) == "R"}
		seg.TermFix = &TermFix{Fix: wptField(col(4))}
	case SegTF:
		seg.TermFix = &TermFix{Fix: wptField(col(1))}
	default:
		return NavProcSeg{}, fmt.Errorf("unhandled segment type %v", t)
	}

	altCol, spdCol := -1, -1
	switch t {
	case SegCA, SegVA, SegFA:
		altCol, spdCol = 6, 9
	case SegCD, SegVD, SegFD:
		altCol, spdCol = 5, 8
	case SegHA:
		altCol, spdCol = 8, 11
	default:
		altCol, spdCol = len(f)-3, len(f)
	}
	if altCol >= 0 && altCol+2 < len(f) && col(altCol) != "" {
		seg.AltLim = AltLim{Type: AltLimType(atoi(col(altCol))), Alt1: atoi(col(altCol + 1)), Alt2: atoi(col(altCol + 2))}
	}
	if spdCol >= 0 && spdCol+1 < len(f) && col(spdCol) != "" {
		seg.SpdLim = SpdLim{Type: SpdLimType(atoi(col(spdCol))), Spd1: atoi(col(spdCol + 1))}
	}
	if len(f) > 0 && f[len(f)-1] == "OVR" {
		seg.Ovrfly = true
	}

	return seg, nil
}

// ClassifyFinal assigns a FINAL procedure's approach-final subkind from its
// name's leading letter, mirroring common ARINC 424 approach-ID
// conventions (I=ILS, V/S=VOR, N=NDB, R/H=RNAV, X=LDA).
func ClassifyFinal(name string) NavProcFinalType {
	if name == "" {
		return FinalILS
	}
	switch name[0] {
	case 'I':
		return FinalILS
	case 'V', 'S':
		return FinalVOR
	case 'N':
		return FinalNDB
	case 'R', 'H':
		return FinalRNAV
	case 'X':
		return FinalLDA
	default:
		return FinalILS
	}
}

// resolveWpt looks a bare proc-leg fix/navaid name up against the parsed
// waypoint and navaid tables, filling in its geographic position. Proc
// files carry only fix names, not coordinates, so every leg's embedded
// waypoints must be joined against the waypoint/navaid tables right
// after parsing. A name found in neither table is kept as a
// named-but-unpositioned waypoint rather than rejected, since an
// out-of-cycle fix reference shouldn't fail the whole procedure.
func resolveWpt(name string, wpts map[string][]Waypoint, navs map[string][]Navaid) Waypoint {
	if name == "" {
		return Waypoint{}
	}
	if ws := wpts[name]; len(ws) > 0 {
		return ws[0]
	}
	if ns := navs[name]; len(ns) > 0 {
		return Waypoint{Name: ns[0].ID, Country: ns[0].Country, Pos: ns[0].Pos.To2()}
	}
	return Waypoint{Name: name}
}

// resolveSegWpts fills in the position of every fix/navaid field a single
// leg command or termination condition may carry.
func resolveSegWpts(s *NavProcSeg, wpts map[string][]Waypoint, navs map[string][]Navaid) {
	resolve := func(w *Waypoint) {
		if w != nil && w.Name != "" {
			*w = resolveWpt(w.Name, wpts, navs)
		}
	}
	if s.NavaidCrsCmd != nil {
		resolve(&s.NavaidCrsCmd.Navaid)
	}
	if s.DMEArcCmd != nil {
		resolve(&s.DMEArcCmd.Navaid)
	}
	if s.RadiusArcCmd != nil {
		resolve(&s.RadiusArcCmd.CtrWpt)
	}
	if s.InitFix != nil {
		resolve(s.InitFix)
	}
	if s.HoldCmd != nil {
		resolve(&s.HoldCmd.Wpt)
	}
	if s.ProcTurnCmd != nil {
		resolve(&s.ProcTurnCmd.StartWpt)
		resolve(&s.ProcTurnCmd.Navaid)
	}
	if s.FixCrsCmd != nil {
		resolve(&s.FixCrsCmd.Fix)
	}
	if s.TermFix != nil {
		resolve(&s.TermFix.Fix)
	}
	if s.TermRadial != nil {
		resolve(&s.TermRadial.Navaid)
	}
	if s.TermDME != nil {
		resolve(&s.TermDME.Navaid)
	}
}

// LoadProcDir parses every `<ICAO>.txt` file in dir, resolves every leg's
// fix/navaid name against waypoints/navaids, and attaches the resulting
// procedures to the matching airport in airports. A malformed procedure
// rejects only that procedure (see ParseProcFile); a file that cannot be
// opened at all is a non-fatal skip (the airport simply has no
// procedures).
func LoadProcDir(dir string, airports map[string]*Airport, waypoints map[string][]Waypoint, navaids map[string][]Navaid) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		icao := strings.TrimSuffix(e.Name(), ".txt")
		ap, ok := airports[icao]
		if !ok {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		procs, _ := ParseProcFile(f, ap)
		f.Close()
		for i := range procs {
			if procs[i].Type == ProcFinal {
				procs[i].FinalType = ClassifyFinal(procs[i].Name)
			}
			procs[i].NumMainSegs = len(procs[i].Segs)
			for j := range procs[i].Segs {
				resolveSegWpts(&procs[i].Segs[j], waypoints, navaids)
			}
		}
		ap.Procs = append(ap.Procs, procs...)
	}
	return nil
}
