// perf/load.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package perf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/openfms/fmc-core/geo"
)

// minVersion/maxVersion are the supported aircraft-performance-file format
// versions (ACFT_PERF_MIN_VERSION/ACFT_PERF_MAX_VERSION).
const (
	minVersion = 1
	maxVersion = 1
)

// curveField binds a THRDENS/THRISA/SFCTHR/SFCDENS/SFCISA curve block's
// header name to the Model field its points are loaded into.
type curveField struct {
	name string
	dst  *geo.QuadBezierFunc
}

// Load parses an aircraft performance file: a leading `VERSION,n`
// line, followed by ACFTTYPE/ENGTYPE/MAXTHR/REFZFW/MAXFUEL/MAXGW scalar
// lines and THRDENS/THRISA/SFCTHR/SFCDENS/SFCISA curve blocks (a
// `<name>,<count>` header followed by count `x,y` point lines), in any
// order. All six scalars and five curves are required; a missing or
// malformed field rejects the whole file.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) (*Model, error) {
	sc := bufio.NewScanner(r)
	m := &Model{}
	var sawVersion bool
	var haveMaxThr, haveZFW, haveFuel, haveGW bool

	curves := []curveField{
		{"THRDENS", &m.ThrDensCurve},
		{"THRISA", &m.ThrISACurve},
		{"SFCTHR", &m.SFCThrCurve},
		{"SFCDENS", &m.SFCDensCurve},
		{"SFCISA", &m.SFCISACurve},
	}
	haveCurve := make(map[string]bool, len(curves))

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		f := strings.Split(line, ",")

		if !sawVersion {
			if f[0] != "VERSION" || len(f) != 2 {
				return nil, fmt.Errorf("perf: first line must be VERSION,n, got %q", line)
			}
			v, err := strconv.Atoi(strings.TrimSpace(f[1]))
			if err != nil || v < minVersion || v > maxVersion {
				return nil, fmt.Errorf("perf: unsupported file version %q", f[1])
			}
			sawVersion = true
			continue
		}

		switch f[0] {
		case "ACFTTYPE":
			if len(f) != 2 || m.AcftType != "" {
				return nil, fmt.Errorf("perf: malformed or duplicate ACFTTYPE line")
			}
			m.AcftType = f[1]
		case "ENGTYPE":
			if len(f) != 2 || m.EngType != "" {
				return nil, fmt.Errorf("perf: malformed or duplicate ENGTYPE line")
			}
			m.EngType = f[1]
		case "MAXTHR":
			v, err := parseScalar(f, haveMaxThr)
			if err != nil {
				return nil, fmt.Errorf("perf: MAXTHR: %w", err)
			}
			m.MaxThrustN, haveMaxThr = v, true
		case "REFZFW":
			v, err := parseScalar(f, haveZFW)
			if err != nil {
				return nil, fmt.Errorf("perf: REFZFW: %w", err)
			}
			m.RefZFWKg, haveZFW = v, true
		case "MAXFUEL":
			v, err := parseScalar(f, haveFuel)
			if err != nil {
				return nil, fmt.Errorf("perf: MAXFUEL: %w", err)
			}
			m.MaxFuelKg, haveFuel = v, true
		case "MAXGW":
			v, err := parseScalar(f, haveGW)
			if err != nil {
				return nil, fmt.Errorf("perf: MAXGW: %w", err)
			}
			m.MaxGWKg, haveGW = v, true
		default:
			matched := false
			for i := range curves {
				if curves[i].name != f[0] {
					continue
				}
				matched = true
				if len(f) != 2 || haveCurve[f[0]] {
					return nil, fmt.Errorf("perf: malformed or duplicate %s line", f[0])
				}
				n, err := strconv.Atoi(strings.TrimSpace(f[1]))
				if err != nil || n < 2 {
					return nil, fmt.Errorf("perf: %s: invalid point count %q", f[0], f[1])
				}
				pts, err := parseCurvePts(sc, n)
				if err != nil {
					return nil, fmt.Errorf("perf: %s: %w", f[0], err)
				}
				*curves[i].dst = geo.NewQuadBezierFunc(pts)
				haveCurve[f[0]] = true
			}
			if !matched {
				return nil, fmt.Errorf("perf: unknown line %q", line)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if !sawVersion {
		return nil, fmt.Errorf("perf: empty file")
	}
	if m.AcftType == "" || m.EngType == "" || !haveMaxThr || !haveZFW || !haveFuel || !haveGW {
		return nil, fmt.Errorf("perf: missing required scalar field")
	}
	for _, c := range curves {
		if !haveCurve[c.name] {
			return nil, fmt.Errorf("perf: missing required curve %s", c.name)
		}
	}

	return m, nil
}

func parseScalar(f []string, dup bool) (float64, error) {
	if len(f) != 2 || dup {
		return 0, fmt.Errorf("malformed or duplicate line")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(f[1]), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid value %q", f[1])
	}
	return v, nil
}

// parseCurvePts reads n strictly-increasing-in-x `x,y` lines immediately
// following a curve header.
func parseCurvePts(sc *bufio.Scanner, n int) ([]geo.Vec2, error) {
	pts := make([]geo.Vec2, 0, n)
	for i := 0; i < n; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("truncated curve: expected %d points, got %d", n, i)
		}
		line := strings.TrimRight(sc.Text(), "\r")
		comps := strings.Split(line, ",")
		if len(comps) != 2 {
			return nil, fmt.Errorf("malformed curve point line %q", line)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(comps[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(comps[1]), 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("malformed curve point line %q", line)
		}
		if i > 0 && pts[i-1].X >= x {
			return nil, fmt.Errorf("curve points must be strictly increasing in x at point %d", i)
		}
		pts = append(pts, geo.Vec2{X: x, Y: y})
	}
	return pts, nil
}
